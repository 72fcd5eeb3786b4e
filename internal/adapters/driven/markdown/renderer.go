// Package markdown renders CMS markdown to HTML using goldmark.
//
// Output is XHTML with hard line breaks, typographic punctuation,
// linkified URLs and definition lists. Absolute http(s) links open in a new tab.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/custodia-labs/cmsbuild/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.Renderer = (*Renderer)(nil)

// Renderer converts markdown into HTML.
// It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a renderer with the build's markdown rules.
func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Linkify,
			extension.DefinitionList,
			extension.Strikethrough,
			extension.Table,
			extension.NewTypographer(extension.WithTypographicSubstitutions(typography)),
		),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(externalLinks{}, 100)),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			html.WithHardWraps(),
		),
	)
	return &Renderer{md: md}
}

// typography emits literal characters rather than HTML entities.
var typography = extension.TypographicSubstitutions{
	extension.LeftSingleQuote:  []byte("‘"),
	extension.RightSingleQuote: []byte("’"),
	extension.LeftDoubleQuote:  []byte("“"),
	extension.RightDoubleQuote: []byte("”"),
	extension.EnDash:           []byte("–"),
	extension.EmDash:           []byte("—"),
	extension.Ellipsis:         []byte("…"),
	extension.LeftAngleQuote:   []byte("«"),
	extension.RightAngleQuote:  []byte("»"),
	extension.Apostrophe:       []byte("’"),
}

// Render converts a markdown block into HTML.
func (r *Renderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// RenderInline converts markdown into HTML without the surrounding paragraph.
// Input spanning several blocks is returned as rendered.
func (r *Renderer) RenderInline(markdown string) (string, error) {
	out, err := r.Render(markdown)
	if err != nil {
		return "", err
	}

	inner, ok := strings.CutPrefix(out, "<p>")
	if !ok {
		return out, nil
	}
	inner, ok = strings.CutSuffix(inner, "</p>\n")
	if !ok || strings.Contains(inner, "<p>") {
		return out, nil
	}
	return inner, nil
}

// externalLinks marks absolute links to open in a new tab.
type externalLinks struct{}

func (externalLinks) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		var dest []byte
		switch link := n.(type) {
		case *ast.Link:
			dest = link.Destination
		case *ast.AutoLink:
			dest = link.URL(source)
		default:
			return ast.WalkContinue, nil
		}

		if bytes.HasPrefix(bytes.ToLower(dest), []byte("http")) {
			n.SetAttributeString("target", []byte("_blank"))
			n.SetAttributeString("rel", []byte("noopener"))
		}
		return ast.WalkContinue, nil
	})
}
