package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/toyz/jenny/internal/cli"
	"github.com/toyz/jenny/internal/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[0], os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code
func run(ctx context.Context, name string, arguments []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		packageFlag = flags.String("package", "", "Default Java package for functions without a class option (defaults to Cargo.toml metadata, then rust.jenny)")
		runtimeFlag = flags.String("runtime", "", "Crate path providing the JVM conversion traits (defaults to Cargo.toml metadata, then jenny)")
		verboseFlag = flags.Bool("verbose", false, "Enable verbose output and detailed error reporting")
		debugFlag   = flags.Bool("debug", false, "Trace every synthesized binding (implies -verbose)")
		quietFlag   = flags.Bool("quiet", false, "Only show errors and final results")
		dryRunFlag  = flags.Bool("dry-run", false, "Render bindings without writing any file")
		cleanFlag   = flags.Bool("clean", false, "Delete all autogen_*_jni.rs files from the specified directories")
		helpFlag    = flags.Bool("help", false, "Show help information")
	)

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [options] <paths...>\n\n", name)
		fmt.Fprintf(stderr, "jenny JNI Binding Generator\n")
		fmt.Fprintf(stderr, "Scans Rust sources for #[jni] functions and generates their JNI entry points.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nArguments:\n")
		fmt.Fprintf(stderr, "  paths              Directories or .rs files to scan\n")
		fmt.Fprintf(stderr, "                     Supports Go-style patterns like './...' for recursive scanning\n")
		fmt.Fprintf(stderr, "\nDirectory Patterns:\n")
		fmt.Fprintf(stderr, "  ./...              Scan current directory and all subdirectories recursively\n")
		fmt.Fprintf(stderr, "  ./src/...          Scan src and all its subdirectories\n")
		fmt.Fprintf(stderr, "  ./src/ffi          Scan only the specific directory (no recursion)\n")
		fmt.Fprintf(stderr, "\nOutput:\n")
		fmt.Fprintf(stderr, "  src/lib.rs produces src/autogen_lib_jni.rs; include it with\n")
		fmt.Fprintf(stderr, "  include!(\"autogen_lib_jni.rs\"); in the same module.\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  %s ./src/...                                  # Scan everything below src\n", name)
		fmt.Fprintf(stderr, "  %s -package com.example.native ./src/...      # Override the default package\n", name)
		fmt.Fprintf(stderr, "  %s -dry-run -verbose ./src/...                # Show what would be written\n", name)
		fmt.Fprintf(stderr, "  %s -clean ./...                               # Delete all generated files\n", name)
	}

	if err := flags.Parse(arguments); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if *helpFlag {
		flags.Usage()
		return 0
	}

	args := flags.Args()
	if len(args) == 0 {
		fmt.Fprintf(stderr, "Error: At least one path is required\n\n")
		flags.Usage()
		return 1
	}

	if *quietFlag && (*verboseFlag || *debugFlag) {
		fmt.Fprintf(stderr, "Error: -quiet cannot be combined with -verbose or -debug\n")
		return 1
	}

	level := utils.DiagnosticInfo
	switch {
	case *quietFlag:
		level = utils.DiagnosticError
	case *debugFlag:
		level = utils.DiagnosticDebug
	case *verboseFlag:
		level = utils.DiagnosticVerbose
	}
	verbose := *verboseFlag || *debugFlag

	diagnostics := utils.NewDiagnosticSystemWithWriters(level, stdout, stderr)
	reporter := cli.NewDiagnosticReporterWithWriters(verbose, stderr, stdout)

	diagnostics.Section("jenny JNI Binding Generator")

	if *cleanFlag {
		diagnostics.Info("Starting cleanup operation...")

		removed, err := cli.NewCleaner().CleanGeneratedFiles(args)
		if err != nil {
			reporter.ReportError(err)
			return 1
		}

		for _, file := range removed {
			diagnostics.Verbose("Removed %s", file)
		}
		diagnostics.Success("Removed %d generated files", len(removed))
		return 0
	}

	if verbose {
		diagnostics.Subsection("Configuration")
		diagnostics.List("Target paths: %s", strings.Join(args, ", "))
		if *packageFlag != "" {
			diagnostics.List("Default package: %s", *packageFlag)
		}
		if *runtimeFlag != "" {
			diagnostics.List("Runtime crate: %s", *runtimeFlag)
		}
		if *dryRunFlag {
			diagnostics.List("Dry run: enabled")
		}
	}

	generator := cli.NewGeneratorWithReporter(diagnostics, reporter)
	err := generator.Run(ctx, cli.Config{
		Directories:    args,
		DefaultPackage: *packageFlag,
		RuntimeCrate:   *runtimeFlag,
		Verbose:        verbose,
		Debug:          *debugFlag,
		Quiet:          *quietFlag,
		DryRun:         *dryRunFlag,
	})

	summary := generator.GetSummary()
	if err != nil {
		reporter.ReportError(err)
		// successful bindings were still written
		if summary.BindingsGenerated > 0 && !*quietFlag {
			reporter.ReportSuccess(summary)
		}
		return 1
	}

	if !*quietFlag {
		reporter.ReportSuccess(summary)
	}
	if verbose && len(summary.Symbols) > 0 {
		diagnostics.Subsection("Exported Symbols")
		for _, symbol := range summary.Symbols {
			diagnostics.List("%s", symbol)
		}
	}
	generator.Complete()
	return 0
}
