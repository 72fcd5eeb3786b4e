package services

import (
	"bytes"
	"crypto/hmac"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/md4" //nolint:staticcheck // fingerprint, not a security boundary

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
)

const (
	// DefaultHashKey keys the content digest. Changing it invalidates every manifest.
	DefaultHashKey = "EvEx1337"

	// HashLength is the number of hex characters kept from the digest.
	HashLength = 13
)

// Codec computes content hashes and encodes manifests.
type Codec struct {
	key []byte
}

// NewCodec creates a codec keyed with key.
// An empty key selects DefaultHashKey.
func NewCodec(key string) *Codec {
	if key == "" {
		key = DefaultHashKey
	}
	return &Codec{key: []byte(key)}
}

// hashPayload fixes the key order of a hashed entry.
// Hash itself is never part of the payload.
type hashPayload struct {
	ID       domain.EntryID `json:"id"`
	Title    string         `json:"title"`
	Author   string         `json:"author"`
	Date     string         `json:"date"`
	Summary  string         `json:"summary,omitempty"`
	Body     string         `json:"body,omitempty"`
	Category string         `json:"category,omitempty"`
}

// ComputeHash returns the truncated keyed digest of v's JSON encoding.
func (c *Codec) ComputeHash(v any) (string, error) {
	data, err := encodeJSON(v, "")
	if err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}

	mac := hmac.New(md4.New, c.key)
	mac.Write(data)
	sum := hex.EncodeToString(mac.Sum(nil))
	return sum[:HashLength], nil
}

// HashEntry returns the hash of every entry field except Hash.
func (c *Codec) HashEntry(e domain.Entry) (string, error) {
	return c.ComputeHash(hashPayload{
		ID:       e.ID,
		Title:    e.Title,
		Author:   e.Author,
		Date:     e.Date,
		Summary:  e.Summary,
		Body:     e.Body,
		Category: e.Category,
	})
}

// Serialize encodes a manifest as a 2-space indented JSON array.
func (c *Codec) Serialize(m domain.Manifest) ([]byte, error) {
	if m == nil {
		m = domain.Manifest{}
	}
	data, err := encodeJSON(m, "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize manifest: %w", err)
	}
	return data, nil
}

// Deserialize decodes a manifest in either the full or hash-only shape.
func (c *Codec) Deserialize(data []byte) (domain.Manifest, error) {
	var m domain.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: deserialize manifest: %w", domain.ErrInvalidInput, err)
	}
	if m == nil {
		m = domain.Manifest{}
	}
	return m, nil
}

// encodeJSON marshals v without HTML escaping so rendered markup
// is hashed and stored literally.
func encodeJSON(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
