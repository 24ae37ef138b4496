package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyz/jenny/internal/errors"
	"github.com/toyz/jenny/internal/models"
)

func TestAttributeParser_ParseAttribute(t *testing.T) {
	p := NewAttributeParser()
	loc := models.SourceLocation{File: "src/lib.rs", Line: 4, Column: 1}

	tests := []struct {
		name     string
		text     string
		expected models.BindingOptions
	}{
		{
			name: "bare attribute",
			text: "#[jni]",
		},
		{
			name: "empty argument list",
			text: "#[jni()]",
		},
		{
			name:     "class only",
			text:     `#[jni(class = "com.example.Foo")]`,
			expected: models.BindingOptions{Class: "com.example.Foo"},
		},
		{
			name:     "name only",
			text:     `#[jni(name = "getValue")]`,
			expected: models.BindingOptions{Name: "getValue"},
		},
		{
			name:     "both with trailing comma",
			text:     `#[jni(name = "get_value", class = "com.example.Foo",)]`,
			expected: models.BindingOptions{Class: "com.example.Foo", Name: "get_value"},
		},
		{
			name:     "qualified path",
			text:     `#[jenny::jni(class = "Foo")]`,
			expected: models.BindingOptions{Class: "Foo"},
		},
		{
			name:     "raw string",
			text:     `#[jni(class = r"org.Bar")]`,
			expected: models.BindingOptions{Class: "org.Bar"},
		},
		{
			name:     "whitespace and comments",
			text:     "#[ jni ( class = \"a.B\" /* why not */ ) ]",
			expected: models.BindingOptions{Class: "a.B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := p.ParseAttribute(tt.text, loc)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, opts)
		})
	}
}

func TestAttributeParser_MalformedOptions(t *testing.T) {
	p := NewAttributeParser()
	loc := models.SourceLocation{File: "src/lib.rs", Line: 9, Column: 1}

	tests := []struct {
		name     string
		text     string
		contains string
	}{
		{"unknown key", `#[jni(package = "com.example")]`, "unknown option"},
		{"duplicate key", `#[jni(name = "a", name = "b")]`, "more than once"},
		{"integer value", `#[jni(name = 42)]`, "expected a string literal"},
		{"boolean value", `#[jni(class = true)]`, "expected a string literal"},
		{"bare word", `#[jni(class)]`, "expected key"},
		{"nested list", `#[jni(class(Foo))]`, "expected key"},
		{"name value form", `#[jni = "Foo"]`, "expected #[jni]"},
		{"empty class", `#[jni(class = "")]`, "must not be empty"},
		{"byte string", `#[jni(class = b"Foo")]`, "byte string"},
		{"invalid class segment", `#[jni(class = "com..Foo")]`, "class"},
		{"invalid method name", `#[jni(name = "get-value")]`, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ParseAttribute(tt.text, loc)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.MalformedOptionsCode), "got %v", err)
			assert.Contains(t, err.Error(), tt.contains)
			assert.Contains(t, err.Error(), "src/lib.rs:9")
		})
	}
}

func TestAttributeParser_SyntaxError(t *testing.T) {
	p := NewAttributeParser()

	_, err := p.ParseAttribute(`#[jni(class = "Foo"`, models.SourceLocation{File: "a.rs", Line: 1})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.SyntaxErrorCode))
}

func TestIsBindingAttribute(t *testing.T) {
	assert.True(t, IsBindingAttribute([]string{"jni"}))
	assert.True(t, IsBindingAttribute([]string{"jenny", "jni"}))
	assert.False(t, IsBindingAttribute([]string{"derive"}))
	assert.False(t, IsBindingAttribute([]string{"other", "jni"}))
	assert.False(t, IsBindingAttribute(nil))
}
