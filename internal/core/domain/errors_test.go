package domain

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrInvalidConfig", ErrInvalidConfig},
		{"ErrInvalidQuery", ErrInvalidQuery},
		{"ErrEmptySource", ErrEmptySource},
		{"ErrMissingBody", ErrMissingBody},
		{"ErrManifestIO", ErrManifestIO},
		{"ErrNoCategories", ErrNoCategories},
		{"ErrUnknownCategory", ErrUnknownCategory},
		{"ErrBuildLocked", ErrBuildLocked},
		{"ErrInvalidPath", ErrInvalidPath},
		{"ErrTargetConflict", ErrTargetConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestInvalidQueryError(t *testing.T) {
	err := fmt.Errorf("fetch: %w", &InvalidQueryError{Field: "per_page", Value: 101, Reason: "must not exceed 100"})

	assert.ErrorIs(t, err, ErrInvalidQuery)
	assert.NotErrorIs(t, err, ErrEmptySource)

	var qerr *InvalidQueryError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, "per_page", qerr.Field)
	assert.Equal(t, 101, qerr.Value)
	assert.Contains(t, err.Error(), "per_page=101")
}

func TestEmptySourceError(t *testing.T) {
	err := &EmptySourceError{StartsWith: "page-data/blog/public/"}

	assert.ErrorIs(t, err, ErrEmptySource)
	assert.Contains(t, err.Error(), "page-data/blog/public/")
}

func TestMissingBodyError(t *testing.T) {
	err := &MissingBodyError{ID: NumericID(7), Title: "hello"}

	assert.ErrorIs(t, err, ErrMissingBody)
	assert.Contains(t, err.Error(), "7")
}

func TestManifestIOError_KeepsCause(t *testing.T) {
	cause := &fs.PathError{Op: "open", Path: "/x/x.json", Err: fs.ErrPermission}
	err := fmt.Errorf("load: %w", &ManifestIOError{Op: "read", Path: "/x/x.json", Err: cause})

	assert.ErrorIs(t, err, ErrManifestIO)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.False(t, errors.Is(err, os.ErrNotExist))
}

func TestNoCategoriesFoundError(t *testing.T) {
	err := &NoCategoriesFoundError{StartsWith: "utils/category-list"}

	assert.ErrorIs(t, err, ErrNoCategories)
	assert.Contains(t, err.Error(), "utils/category-list")
}

func TestTargetConflictError(t *testing.T) {
	err := error(&TargetConflictError{Target: "post-1", First: NumericID(1), Second: NumericID(101)})

	assert.ErrorIs(t, err, ErrTargetConflict)
	assert.Equal(t, `artifact target "post-1" claimed by 1 and 101`, err.Error())
}

func TestInvalidEntryError(t *testing.T) {
	err := error(&InvalidEntryError{ID: StringID("abc"), Field: "author"})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "abc")
	assert.Contains(t, err.Error(), "author")
}
