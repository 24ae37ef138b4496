package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/toyz/jenny/internal/errors"
	"github.com/toyz/jenny/internal/generator"
	"github.com/toyz/jenny/internal/models"
	"github.com/toyz/jenny/internal/utils"
)

// Generator coordinates the CLI generation process
type Generator struct {
	scanner     *DirectoryScanner
	reporter    *DiagnosticReporter
	diagnostics *utils.DiagnosticSystem
	summary     GenerationSummary
	crate       *CrateInfo
}

// NewGeneratorWithReporter creates a CLI generator with explicit output sinks
func NewGeneratorWithReporter(diagnostics *utils.DiagnosticSystem, reporter *DiagnosticReporter) *Generator {
	return &Generator{
		scanner:     NewDirectoryScanner(),
		reporter:    reporter,
		diagnostics: diagnostics,
	}
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Crate returns what was resolved about the enclosing crate in the last run
func (g *Generator) Crate() *CrateInfo {
	return g.crate
}

// Run executes the complete generation process. Per-item failures do not stop
// the run: every successful binding is still written and the collected
// errors are returned at the end.
func (g *Generator) Run(ctx context.Context, config Config) error {
	startTime := time.Now()
	g.summary = GenerationSummary{
		RunID:  uuid.NewString(),
		DryRun: config.DryRun,
	}

	g.diagnostics.JennyHeader("Generating JNI bindings")
	g.diagnostics.Verbose("Run %s started at %s", g.summary.RunID, startTime.Format("15:04:05"))
	g.diagnostics.Debug("Scanning: %v", config.Directories)

	crate, err := NewCrateResolverFrom(crateSearchDir(config)).Resolve(config.DefaultPackage, config.RuntimeCrate)
	if err != nil {
		return err
	}
	g.crate = crate
	for _, warning := range crate.Warnings {
		g.reporter.ReportWarning(warning)
	}
	if crate.Found {
		g.diagnostics.Verbose("Crate '%s' at %s", crate.Name, crate.Dir)
	}
	g.diagnostics.Verbose("Default package: %s", displayDefault(crate.DefaultPackage))
	g.diagnostics.Verbose("Runtime crate: %s", crate.RuntimeCrate)

	sources, err := g.scanner.ScanDirectories(config.Directories)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return errors.New(errors.ConfigurationErrorCode, "no Rust source files found in the specified directories").
			WithContext("directories", config.Directories).
			WithSuggestions(
				"Ensure the directories contain .rs files",
				"Use the './...' pattern to scan subdirectories",
			)
	}

	g.diagnostics.PhaseHeader("Parsing")
	g.diagnostics.PhaseItem(fmt.Sprintf("Found %d source files", len(sources)))
	for _, source := range sources {
		g.diagnostics.Debug("source %s", source)
	}

	baseDir := crate.Dir
	if baseDir == "" {
		baseDir, _ = os.Getwd()
	}

	codeGenerator := generator.NewGeneratorWithConfig(generator.Config{
		DefaultPackage: crate.DefaultPackage,
		RuntimeCrate:   crate.RuntimeCrate,
		Tracer:         g.diagnostics,
		BaseDir:        baseDir,
		Concurrency:    config.Concurrency,
	})

	result, err := codeGenerator.Generate(ctx, sources)
	if err != nil {
		return err
	}

	errs := result.Errors
	g.diagnostics.PhaseHeader("Writing")
	for _, file := range result.Files {
		if config.DryRun {
			g.diagnostics.PhaseProgress(fmt.Sprintf("Would write %s (%d bindings)", file.FilePath, len(file.Bindings)))
		} else {
			if err := g.writeFile(file); err != nil {
				errors.AddToMultiple(&errs, errors.WrapFileSystemError("write", file.FilePath, err).
					WithLocation(errors.SourceLocation{File: file.SourcePath}))
				continue
			}
			g.diagnostics.PhaseProgress(fmt.Sprintf("Writing %s (%d bindings)", file.FilePath, len(file.Bindings)))
			g.summary.FilesWritten++
		}
		g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, file.FilePath)
	}

	g.summary.SourcesScanned = result.Sources
	g.summary.BindingsGenerated = result.Bindings
	g.summary.Symbols = result.Symbols
	g.summary.Duration = time.Since(startTime)
	if errs != nil {
		errs.Sort()
		g.summary.ErrorsFound = errs.Count()
	}

	g.diagnostics.Verbose("Run %s finished in %v", g.summary.RunID, g.summary.Duration)
	return errs.ErrOrNil()
}

// writeFile writes a generated bindings file next to its source
func (g *Generator) writeFile(file *models.GeneratedFile) error {
	if err := os.MkdirAll(filepath.Dir(file.FilePath), 0755); err != nil {
		return utils.WrapWriteError(filepath.Dir(file.FilePath), err)
	}
	return os.WriteFile(file.FilePath, []byte(file.Content), 0644)
}

// Complete prints the closing line of a run
func (g *Generator) Complete() {
	g.diagnostics.GenerationComplete()
}

// crateSearchDir is where the Cargo.toml search starts: CrateDir, else the
// first scanned path
func crateSearchDir(config Config) string {
	if config.CrateDir != "" || len(config.Directories) == 0 {
		return config.CrateDir
	}
	dir, _ := SplitPattern(config.Directories[0])
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		return filepath.Dir(dir)
	}
	return dir
}

func displayDefault(pkg string) string {
	if pkg == "" {
		return "(built-in)"
	}
	return pkg
}
