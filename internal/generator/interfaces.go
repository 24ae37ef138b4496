package generator

import (
	"context"

	"github.com/toyz/jenny/internal/models"
)

// CodeGenerator turns annotated Rust sources into JNI binding files
type CodeGenerator interface {
	Generate(ctx context.Context, paths []string) (*Result, error)
	GenerateSources(ctx context.Context, files []*models.SourceFile) (*Result, error)
}
