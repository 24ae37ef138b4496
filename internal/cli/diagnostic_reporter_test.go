package cli

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/toyz/jenny/internal/errors"
)

func newTestReporter(verbose bool) (*DiagnosticReporter, *bytes.Buffer, *bytes.Buffer) {
	var out, stdout bytes.Buffer
	return NewDiagnosticReporterWithWriters(verbose, &out, &stdout), &out, &stdout
}

func TestDiagnosticReporter_ReportWarning(t *testing.T) {
	reporter, out, _ := newTestReporter(false)

	reporter.ReportWarning("This is a test warning")
	reporter.ReportWarning("This is another warning")

	assert.Contains(t, out.String(), "! This is a test warning\n")
	assert.Contains(t, out.String(), "! This is another warning\n")
}

func TestDiagnosticReporter_ReportCodedError(t *testing.T) {
	reporter, out, _ := newTestReporter(false)

	err := errors.NewUnsupportedSelfParameterError("length", "&self", 0).
		WithLocation(errors.SourceLocation{File: "src/lib.rs", Line: 12, Column: 5})
	reporter.ReportError(err)

	output := out.String()
	expectedElements := []string{
		"ERROR: Binding Generation Failed",
		"Type: Unsupported Self Parameter",
		"Message: function 'length' takes '&self' at position 0: self parameters are not supported",
		"Location: src/lib.rs:12:5",
		"Context:",
		"Function: length",
		"Receiver: &self",
		"Suggestions:",
		"1. Turn the method into a free function",
		"Bindable Function Requirements:",
		"Run with -verbose",
	}
	for _, expected := range expectedElements {
		assert.Contains(t, output, expected)
	}
	assert.NotContains(t, output, "Verbose Debug Information")
}

func TestDiagnosticReporter_ReportMultipleErrors(t *testing.T) {
	reporter, out, _ := newTestReporter(true)

	multi := errors.CollectErrors(
		errors.NewMalformedOptionsError("klass", "", "unknown option, expected class or name").
			WithLocation(errors.SourceLocation{File: "src/a.rs", Line: 1, Column: 1}),
		errors.NewNamingCollisionError("Java_rust_jenny_Foo_foo", "foo",
			errors.SourceLocation{File: "src/a.rs", Line: 2, Column: 1}, "foo").
			WithLocation(errors.SourceLocation{File: "src/b.rs", Line: 4, Column: 1}),
	)
	reporter.ReportError(multi)

	output := out.String()
	assert.Contains(t, output, "2 errors found")
	assert.Contains(t, output, "[1/2] Type: Malformed #[jni] Options")
	assert.Contains(t, output, "[2/2] Type: Symbol Collision")
	assert.Contains(t, output, "Exported Symbol: Java_rust_jenny_Foo_foo")
	assert.Contains(t, output, "Existing Location: src/a.rs:2:1")
	assert.Contains(t, output, "Resolving Symbol Collisions:")
	assert.Contains(t, output, "Attribute Syntax Help:")
	assert.Contains(t, output, "Error Code: NamingCollision")

	// additional help is printed once for the whole run
	assert.Equal(t, 1, strings.Count(output, "For more help:"))
}

func TestDiagnosticReporter_ReportBasicError(t *testing.T) {
	reporter, out, _ := newTestReporter(false)

	reporter.ReportError(fmt.Errorf("reading Cargo.toml: permission denied"))

	assert.Contains(t, out.String(), "Message: reading Cargo.toml: permission denied")
	assert.Contains(t, out.String(), "crate configuration issue")
}

func TestDiagnosticReporter_VerboseErrorChain(t *testing.T) {
	reporter, out, _ := newTestReporter(true)

	cause := fmt.Errorf("outer: %w", fmt.Errorf("inner"))
	reporter.ReportError(errors.WrapFileSystemError("write", "src/autogen_lib_jni.rs", cause))

	output := out.String()
	assert.Contains(t, output, "Underlying cause: outer: inner")
	assert.Contains(t, output, "1. outer: inner")
	assert.Contains(t, output, "2. inner")
	assert.Contains(t, output, "Path: src/autogen_lib_jni.rs")
}

func TestDiagnosticReporter_ReportSuccess(t *testing.T) {
	reporter, _, stdout := newTestReporter(true)

	reporter.ReportSuccess(GenerationSummary{
		RunID:             "0b6e3c1e-0000-4000-8000-000000000000",
		SourcesScanned:    3,
		BindingsGenerated: 4,
		FilesWritten:      2,
		ErrorsFound:       1,
		Duration:          1500 * time.Microsecond,
		GeneratedFiles:    []string{"src/autogen_a_jni.rs", "src/autogen_b_jni.rs"},
	})

	output := stdout.String()
	expectedElements := []string{
		"Binding Generation Completed Successfully!",
		"Scanned 3 source files",
		"Generated 4 JNI bindings",
		"Wrote 2 binding files",
		"Skipped 1 items with errors",
		"  - src/autogen_a_jni.rs",
		"Run ID: 0b6e3c1e-0000-4000-8000-000000000000",
		"Duration: 2ms",
	}
	for _, expected := range expectedElements {
		assert.Contains(t, output, expected)
	}
}

func TestDiagnosticReporter_ReportDryRun(t *testing.T) {
	reporter, _, stdout := newTestReporter(false)

	reporter.ReportSuccess(GenerationSummary{DryRun: true, BindingsGenerated: 1})

	assert.Contains(t, stdout.String(), "Dry Run Completed (nothing written)")
	assert.NotContains(t, stdout.String(), "Wrote")
	assert.NotContains(t, stdout.String(), "Duration")
}

func TestDiagnosticReporter_FormatContextKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"function", "Function"},
		{"symbol", "Exported Symbol"},
		{"item_kind", "Item"},
		{"existing_location", "Existing Location"},
		{"config_type", "Config Type"},
		{"single", "Single"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatContextKey(tt.input))
		})
	}
}

func TestMessage(t *testing.T) {
	located := errors.New(errors.SyntaxErrorCode, "unexpected token").
		WithLocation(errors.SourceLocation{File: "lib.rs", Line: 3, Column: 7})
	assert.Equal(t, "unexpected token", Message(located))

	bare := errors.New(errors.GenerationErrorCode, "template failed")
	assert.Equal(t, "template failed", Message(bare))
}
