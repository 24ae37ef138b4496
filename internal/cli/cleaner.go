package cli

import (
	"github.com/toyz/jenny/internal/errors"
	"github.com/toyz/jenny/internal/utils"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	scanner       *DirectoryScanner
	fileProcessor *utils.FileProcessor
}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{
		scanner:       NewDirectoryScanner(),
		fileProcessor: utils.NewFileProcessor(),
	}
}

// CleanGeneratedFiles removes every autogen_*_jni.rs file below the given
// directories. Directories are always cleaned recursively; the "/..." marker
// is accepted for symmetry with generation.
func (c *Cleaner) CleanGeneratedFiles(directories []string) ([]string, error) {
	removed, err := c.fileProcessor.CleanDirectories(c.scanner.ScanRoots(directories))
	if err != nil {
		return removed, errors.Wrap(errors.FileSystemErrorCode, "failed to clean generated files", err).
			WithSuggestion("Check write permissions for the target directory")
	}
	return removed, nil
}
