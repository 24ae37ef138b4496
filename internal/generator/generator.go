// Package generator drives a generation run: it parses annotated sources,
// synthesizes one binding per function, rejects colliding symbols and renders
// one bindings file per source file.
package generator

import (
	"context"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/toyz/jenny/internal/errors"
	"github.com/toyz/jenny/internal/models"
	"github.com/toyz/jenny/internal/parser"
	"github.com/toyz/jenny/internal/registry"
	"github.com/toyz/jenny/internal/synthesizer"
	"github.com/toyz/jenny/internal/templates"
	"github.com/toyz/jenny/internal/utils"
)

const (
	// OutputPrefix and OutputSuffix frame the stem of a generated file name
	OutputPrefix = utils.GeneratedPrefix
	OutputSuffix = utils.GeneratedSuffix
)

// Config holds the generator settings
type Config struct {
	DefaultPackage string
	RuntimeCrate   string
	Tracer         synthesizer.Tracer

	// BaseDir makes source paths in generated headers relative; empty keeps them as given
	BaseDir string

	// Concurrency bounds the per-file workers, GOMAXPROCS when zero
	Concurrency int
}

// Result is the outcome of one generation run
type Result struct {
	Files    []*models.GeneratedFile // rendered files, only for sources with at least one binding
	Errors   *errors.MultipleErrors  // every per-item failure, sorted by location
	Symbols  []string                // exported symbols in sorted order
	Sources  int                     // number of source files processed
	Bindings int                     // number of bindings emitted
}

// Err returns the collected errors or nil
func (r *Result) Err() error {
	return r.Errors.ErrOrNil()
}

var _ CodeGenerator = (*Generator)(nil)

// Generator implements the CodeGenerator interface
type Generator struct {
	parser      parser.SourceParser
	synthesizer *synthesizer.Synthesizer
	baseDir     string
	concurrency int
}

// NewGenerator creates a generator with default settings
func NewGenerator() *Generator {
	return NewGeneratorWithConfig(Config{})
}

// NewGeneratorWithConfig creates a generator from the given configuration
func NewGeneratorWithConfig(cfg Config) *Generator {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	return &Generator{
		parser: parser.NewParser(),
		synthesizer: synthesizer.NewSynthesizerWithConfig(synthesizer.Config{
			DefaultPackage: cfg.DefaultPackage,
			RuntimeCrate:   cfg.RuntimeCrate,
			Tracer:         cfg.Tracer,
		}),
		baseDir:     cfg.BaseDir,
		concurrency: concurrency,
	}
}

// fileResult holds the synthesized entries of one source file in declaration order
type fileResult struct {
	path    string
	err     errors.JennyError
	entries []entry
}

type entry struct {
	binding *models.GeneratedBinding
	err     errors.JennyError
}

// Generate parses and processes the given source files
func (g *Generator) Generate(ctx context.Context, paths []string) (*Result, error) {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	results := make([]fileResult, len(sorted))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(g.concurrency)

	for i, path := range sorted {
		i, path := i, path
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			file, err := g.parser.ParseFile(path)
			if err != nil {
				results[i] = fileResult{path: path, err: errors.AsJennyError(err, models.SourceLocation{File: path})}
				return nil
			}
			results[i] = g.process(file)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return g.collect(results)
}

// GenerateSources processes already parsed source files
func (g *Generator) GenerateSources(ctx context.Context, files []*models.SourceFile) (*Result, error) {
	sorted := append([]*models.SourceFile(nil), files...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	results := make([]fileResult, len(sorted))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(g.concurrency)

	for i, file := range sorted {
		i, file := i, file
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = g.process(file)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return g.collect(results)
}

// process synthesizes every item of one file. It touches no shared state.
func (g *Generator) process(file *models.SourceFile) fileResult {
	result := fileResult{path: file.Path}
	for _, item := range file.Items {
		if item.Err != nil {
			result.entries = append(result.entries, entry{err: errors.AsJennyError(item.Err, item.Location)})
			continue
		}
		binding, err := g.synthesizer.Synthesize(item.Signature, item.Options)
		if err != nil {
			result.entries = append(result.entries, entry{err: errors.AsJennyError(err, item.Location)})
			continue
		}
		result.entries = append(result.entries, entry{binding: binding})
	}
	return result
}

// collect registers symbols in path and declaration order, so the first
// claimant of a symbol is the same on every run, then renders each file
func (g *Generator) collect(results []fileResult) (*Result, error) {
	symbols := registry.NewSymbolRegistry()
	var multi *errors.MultipleErrors
	out := &Result{Sources: len(results)}

	for _, result := range results {
		if result.err != nil {
			errors.AddToMultiple(&multi, result.err)
			continue
		}

		var bindings []*models.GeneratedBinding
		for _, e := range result.entries {
			if e.err != nil {
				errors.AddToMultiple(&multi, e.err)
				continue
			}
			if err := symbols.Register(e.binding); err != nil {
				errors.AddToMultiple(&multi, errors.AsJennyError(err, e.binding.Location))
				continue
			}
			bindings = append(bindings, e.binding)
		}
		if len(bindings) == 0 {
			continue
		}

		content, err := templates.GenerateBindingFile(g.displayPath(result.path), g.synthesizer.RuntimeCrate(), bindings)
		if err != nil {
			errors.AddToMultiple(&multi, errors.AsJennyError(err, models.SourceLocation{File: result.path}))
			continue
		}
		out.Files = append(out.Files, &models.GeneratedFile{
			SourcePath: result.path,
			FilePath:   OutputPath(result.path),
			Content:    content,
			Bindings:   bindings,
		})
		out.Bindings += len(bindings)
	}

	if multi != nil {
		multi.Sort()
	}
	out.Errors = multi
	out.Symbols = symbols.Symbols()
	return out, nil
}

// displayPath is the source path recorded in a generated header
func (g *Generator) displayPath(path string) string {
	if g.baseDir != "" {
		base, err := filepath.Abs(g.baseDir)
		if err != nil {
			return filepath.ToSlash(path)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return filepath.ToSlash(path)
		}
		if rel, err := filepath.Rel(base, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}

// OutputPath returns where the bindings for source are written:
// src/lib.rs becomes src/autogen_lib_jni.rs
func OutputPath(source string) string {
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(filepath.Dir(source), OutputPrefix+stem+OutputSuffix)
}

// IsGeneratedFile reports whether path names a generated bindings file
func IsGeneratedFile(path string) bool {
	return utils.IsGeneratedFile(path)
}
