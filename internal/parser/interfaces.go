package parser

import "github.com/toyz/jenny/internal/models"

// SourceParser finds #[jni] annotated items in Rust source files
type SourceParser interface {
	ParseFile(path string) (*models.SourceFile, error)
	ParseSource(filename, source string) (*models.SourceFile, error)
}
