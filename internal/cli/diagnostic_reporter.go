package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/toyz/jenny/internal/errors"
)

// DiagnosticReporter provides user-friendly error reporting and diagnostics
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer // errors and warnings
	stdout  io.Writer // success summary
}

// NewDiagnosticReporterWithWriters creates a reporter writing problems to out
// and the success summary to stdout
func NewDiagnosticReporterWithWriters(verbose bool, out, stdout io.Writer) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose: verbose,
		out:     out,
		stdout:  stdout,
	}
}

// ReportWarning provides user-friendly warning reporting
func (r *DiagnosticReporter) ReportWarning(message string) {
	orange := color.New(color.FgYellow, color.Bold)
	orange.Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
}

// ReportError provides comprehensive error reporting with user-friendly output.
// Collected errors are reported one by one in location order.
func (r *DiagnosticReporter) ReportError(err error) {
	fmt.Fprintf(r.out, "\nERROR: Binding Generation Failed\n")
	fmt.Fprintf(r.out, "================================\n\n")

	var multi *errors.MultipleErrors
	var coded errors.JennyError
	switch {
	case stderrors.As(err, &multi) && multi.Count() > 0:
		if multi.Count() > 1 {
			fmt.Fprintf(r.out, "%d errors found\n\n", multi.Count())
		}
		for i, inner := range multi.Errors {
			if multi.Count() > 1 {
				fmt.Fprintf(r.out, "[%d/%d] ", i+1, multi.Count())
			}
			r.reportJennyError(inner)
		}
		r.printAdditionalHelp(multi.Errors)
	case stderrors.As(err, &coded):
		r.reportJennyError(coded)
		r.printAdditionalHelp([]errors.JennyError{coded})
	default:
		r.reportBasicError(err)
	}

	fmt.Fprintf(r.out, "\n")
}

// reportJennyError reports a coded error with full context and suggestions
func (r *DiagnosticReporter) reportJennyError(err errors.JennyError) {
	r.printErrorHeader(err.ErrorCode())

	fmt.Fprintf(r.out, "Message: %s\n\n", Message(err))

	if r.verbose && err.Unwrap() != nil {
		fmt.Fprintf(r.out, "Underlying cause: %s\n\n", err.Unwrap().Error())
	}

	if loc := err.Location(); !loc.IsEmpty() {
		if loc.Line > 0 {
			fmt.Fprintf(r.out, "Location: %s\n\n", loc)
		} else {
			fmt.Fprintf(r.out, "File: %s\n\n", loc.File)
		}
	}

	if context := err.Context(); len(context) > 0 {
		r.printContext(context)
	}

	if suggestions := err.Suggestions(); len(suggestions) > 0 {
		r.printSuggestions(suggestions)
	}

	if r.verbose {
		r.printVerboseDebuggingInfo(err)
	}
}

// reportBasicError reports an uncoded error
func (r *DiagnosticReporter) reportBasicError(err error) {
	fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())

	errorMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errorMsg, "cargo.toml"):
		fmt.Fprintf(r.out, "This appears to be a crate configuration issue.\n")
		fmt.Fprintf(r.out, "Common solutions:\n")
		fmt.Fprintf(r.out, "  - Check that Cargo.toml is valid\n")
		fmt.Fprintf(r.out, "  - Pass -package and -runtime explicitly\n\n")
	case strings.Contains(errorMsg, "context canceled"):
		fmt.Fprintf(r.out, "The run was interrupted before all files were processed.\n\n")
	}
}

// Message returns the message of err without its location prefix
func Message(err errors.JennyError) string {
	message := err.Error()
	if loc := err.Location(); !loc.IsEmpty() {
		message = strings.TrimPrefix(message, loc.String()+": ")
	}
	return message
}

// printErrorHeader prints a formatted error header based on the error code
func (r *DiagnosticReporter) printErrorHeader(code errors.ErrorCode) {
	errorTypeStr := ErrorTitle(code)
	red := color.New(color.FgRed, color.Bold)
	red.Fprintf(r.out, "Type: %s\n", errorTypeStr)
	fmt.Fprintf(r.out, "%s\n\n", strings.Repeat("-", len(errorTypeStr)+6))
}

// ErrorTitle returns the human readable title of an error code
func ErrorTitle(code errors.ErrorCode) string {
	switch code {
	case errors.SyntaxErrorCode:
		return "Syntax Error"
	case errors.UnsupportedInputShapeCode:
		return "Unsupported Item"
	case errors.UnsupportedSelfParameterCode:
		return "Unsupported Self Parameter"
	case errors.MalformedOptionsCode:
		return "Malformed #[jni] Options"
	case errors.NamingCollisionCode:
		return "Symbol Collision"
	case errors.GenerationErrorCode:
		return "Binding Generation Error"
	case errors.TemplateErrorCode:
		return "Template Error"
	case errors.FileSystemErrorCode:
		return "File System Error"
	case errors.ConfigurationErrorCode:
		return "Configuration Error"
	default:
		return "Unknown Error"
	}
}

// printContext prints context information in a readable format
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	fmt.Fprintf(r.out, "Context:\n")

	importantKeys := []string{"function", "symbol", "item_kind", "option", "value", "receiver", "position"}
	printed := make(map[string]bool)

	for _, key := range importantKeys {
		if value, exists := context[key]; exists {
			fmt.Fprintf(r.out, "   %s: %v\n", FormatContextKey(key), value)
			printed[key] = true
		}
	}

	var rest []string
	for key := range context {
		if !printed[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		fmt.Fprintf(r.out, "   %s: %v\n", FormatContextKey(key), context[key])
	}

	fmt.Fprintf(r.out, "\n")
}

// FormatContextKey formats context keys to be more readable
func FormatContextKey(key string) string {
	switch key {
	case "function":
		return "Function"
	case "symbol":
		return "Exported Symbol"
	case "item_kind":
		return "Item"
	case "existing_function":
		return "Existing Function"
	case "existing_location":
		return "Existing Location"
	default:
		// snake_case to Title Case
		parts := strings.Split(key, "_")
		for i, part := range parts {
			if len(part) > 0 {
				parts[i] = strings.ToUpper(part[:1]) + part[1:]
			}
		}
		return strings.Join(parts, " ")
	}
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.out, "Suggestions:\n")

	for i, suggestion := range suggestions {
		lines := strings.Split(suggestion, "\n")
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, lines[0])
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(r.out, "      %s\n", line)
			}
		}
	}

	fmt.Fprintf(r.out, "\n")
}

// printAdditionalHelp prints help once per error code present in errs
func (r *DiagnosticReporter) printAdditionalHelp(errs []errors.JennyError) {
	collected := errors.CollectErrors(errs...)

	if collected.HasCode(errors.UnsupportedInputShapeCode) || collected.HasCode(errors.UnsupportedSelfParameterCode) {
		fmt.Fprintf(r.out, "Bindable Function Requirements:\n")
		fmt.Fprintf(r.out, "  - Must be a free function, not a method or other item\n")
		fmt.Fprintf(r.out, "  - May only be generic over lifetimes\n")
		fmt.Fprintf(r.out, "  - Must not be async or unsafe\n\n")
	}
	if collected.HasCode(errors.NamingCollisionCode) {
		fmt.Fprintf(r.out, "Resolving Symbol Collisions:\n")
		fmt.Fprintf(r.out, "  - JNI symbols do not encode parameter types, so overloads collide\n")
		fmt.Fprintf(r.out, "  - Use the class or name option to give each function its own symbol\n\n")
	}
	if collected.HasCode(errors.MalformedOptionsCode) || collected.HasCode(errors.SyntaxErrorCode) {
		fmt.Fprintf(r.out, "Attribute Syntax Help:\n")
		fmt.Fprintf(r.out, "  - #[jni] binds with the default class\n")
		fmt.Fprintf(r.out, "  - #[jni(class = \"com.example.Foo\", name = \"bar\")] overrides both\n")
		fmt.Fprintf(r.out, "  - Option values must be non-empty string literals\n\n")
	}

	fmt.Fprintf(r.out, "For more help:\n")
	fmt.Fprintf(r.out, "  - Run with -verbose for more detailed output\n")
}

// printVerboseDebuggingInfo prints additional debugging information in verbose mode
func (r *DiagnosticReporter) printVerboseDebuggingInfo(err errors.JennyError) {
	fmt.Fprintf(r.out, "Verbose Debug Information:\n")
	fmt.Fprintf(r.out, "  Error Code: %s (%d)\n", err.ErrorCode(), int(err.ErrorCode()))

	if cause := err.Unwrap(); cause != nil {
		fmt.Fprintf(r.out, "  Error Chain:\n")
		level := 1
		for cause != nil {
			fmt.Fprintf(r.out, "    %d. %s\n", level, cause.Error())
			cause = stderrors.Unwrap(cause)
			level++
		}
	}

	fmt.Fprintf(r.out, "\n")
}

// ReportSuccess reports the generation summary
func (r *DiagnosticReporter) ReportSuccess(summary GenerationSummary) {
	if summary.DryRun {
		fmt.Fprintf(r.stdout, "\nDry Run Completed (nothing written)\n")
		fmt.Fprintf(r.stdout, "===================================\n\n")
	} else {
		fmt.Fprintf(r.stdout, "\nBinding Generation Completed Successfully!\n")
		fmt.Fprintf(r.stdout, "==========================================\n\n")
	}

	if summary.SourcesScanned > 0 {
		fmt.Fprintf(r.stdout, "Scanned %d source files\n", summary.SourcesScanned)
	}

	if summary.BindingsGenerated > 0 {
		fmt.Fprintf(r.stdout, "Generated %d JNI bindings\n", summary.BindingsGenerated)
	}

	if summary.FilesWritten > 0 {
		fmt.Fprintf(r.stdout, "Wrote %d binding files\n", summary.FilesWritten)
	}

	if summary.ErrorsFound > 0 {
		fmt.Fprintf(r.stdout, "Skipped %d items with errors\n", summary.ErrorsFound)
	}

	if len(summary.GeneratedFiles) > 0 {
		fmt.Fprintf(r.stdout, "\nGenerated files:\n")
		for _, file := range summary.GeneratedFiles {
			fmt.Fprintf(r.stdout, "  - %s\n", file)
		}
	}

	if summary.RunID != "" {
		fmt.Fprintf(r.stdout, "\nRun ID: %s\n", summary.RunID)
	}
	if r.verbose {
		fmt.Fprintf(r.stdout, "Duration: %s\n", summary.Duration.Round(time.Millisecond))
	}
}

// GenerationSummary contains information about the generation process
type GenerationSummary struct {
	RunID             string
	SourcesScanned    int
	BindingsGenerated int
	FilesWritten      int
	ErrorsFound       int
	DryRun            bool
	Duration          time.Duration
	GeneratedFiles    []string
	Symbols           []string
}
