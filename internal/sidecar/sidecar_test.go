package sidecar

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_NormalizesEnglish(t *testing.T) {
	doc := `{
		"title": {"Chinese": "你好", "English": "Hello"},
		"text": {"Chinese": "你好吗", "English": ["How are you", "How do you do"]}
	}`

	unit, err := Parse("unit.json", []byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "你好", unit.Title.Chinese)
	assert.Equal(t, []string{"Hello"}, unit.Title.English)
	assert.Equal(t, "你好吗", unit.Text.Chinese)
	assert.Equal(t, []string{"How are you", "How do you do"}, unit.Text.English)
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantKind  Kind
		wantField string
	}{
		{
			name:      "missing text",
			doc:       `{"title": {"Chinese": "你好", "English": "Hello"}}`,
			wantKind:  KindMissingKey,
			wantField: "text",
		},
		{
			name:      "missing Chinese",
			doc:       `{"title": {"English": "Hello"}, "text": {"Chinese": "x", "English": "y"}}`,
			wantKind:  KindMissingKey,
			wantField: "title.Chinese",
		},
		{
			name:      "section not an object",
			doc:       `{"title": "Hello", "text": {"Chinese": "x", "English": "y"}}`,
			wantKind:  KindWrongType,
			wantField: "title",
		},
		{
			name:      "Chinese not a string",
			doc:       `{"title": {"Chinese": 1, "English": "Hello"}, "text": {"Chinese": "x", "English": "y"}}`,
			wantKind:  KindWrongType,
			wantField: "title.Chinese",
		},
		{
			name:      "English list with a number",
			doc:       `{"title": {"Chinese": "x", "English": ["a", 2]}, "text": {"Chinese": "x", "English": "y"}}`,
			wantKind:  KindWrongType,
			wantField: "title.English",
		},
		{
			name:      "English neither string nor list",
			doc:       `{"title": {"Chinese": "x", "English": {"a": 1}}, "text": {"Chinese": "x", "English": "y"}}`,
			wantKind:  KindWrongType,
			wantField: "title.English",
		},
		{
			name:      "English empty list",
			doc:       `{"title": {"Chinese": "x", "English": []}, "text": {"Chinese": "x", "English": "y"}}`,
			wantKind:  KindWrongType,
			wantField: "title.English",
		},
		{
			name:      "document is a list",
			doc:       `[]`,
			wantKind:  KindWrongType,
			wantField: "(root)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("unit.json", []byte(tt.doc))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "error = %v, want *ValidationError", err)
			assert.Equal(t, tt.wantKind, verr.Kind)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Equal(t, "unit.json", verr.Path)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse("unit.json", []byte(`{"title": `))

	var perr *ParseError
	require.True(t, errors.As(err, &perr), "error = %v, want *ParseError", err)
	assert.Equal(t, "unit.json", perr.Path)
}

func TestLoad_DoesNotModifyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "TITLE INFO - Hello.json")
	doc := []byte(`{"title": {"Chinese": "你好", "English": "Hello"}, "text": {"Chinese": "x", "English": "y"}}`)
	require.NoError(t, os.WriteFile(path, doc, 0o600))

	unit, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello"}, unit.Title.English)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc, after)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
