package cli

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/jenny/internal/errors"
	"github.com/toyz/jenny/internal/utils"
)

// RecursiveSuffix marks a directory argument scanned with all its subdirectories
const RecursiveSuffix = "/..."

// DirectoryScanner collects the Rust sources named by the command line arguments
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// ScanDirectories returns the sorted, de-duplicated .rs files named by roots.
// A root is a single .rs file, a directory scanned without descending, or a
// Go-style pattern like "./..." or "src/..." scanned recursively. Paths are
// kept relative so generated headers stay stable.
func (s *DirectoryScanner) ScanDirectories(roots []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, root := range roots {
		dir, recursive := SplitPattern(root)

		info, err := os.Stat(dir)
		if err != nil {
			return nil, errors.WrapFileSystemError("scan", dir, err).
				WithSuggestion("Check that the specified directories exist")
		}

		var found []string
		switch {
		case !info.IsDir():
			if !strings.HasSuffix(dir, utils.RustExtension) {
				return nil, errors.ConfigurationError("arguments", "'"+dir+"' is not a directory or .rs file")
			}
			found = []string{dir}
		default:
			found, err = s.fileProcessor.SourceFiles(dir, recursive)
			if err != nil {
				return nil, errors.WrapFileSystemError("scan", dir, err)
			}
		}

		for _, file := range found {
			if !seen[file] {
				seen[file] = true
				files = append(files, file)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// ScanRoots returns the directories named by roots with the recursion marker
// stripped, used when cleaning
func (s *DirectoryScanner) ScanRoots(roots []string) []string {
	var dirs []string
	for _, root := range roots {
		dir, _ := SplitPattern(root)
		dirs = append(dirs, dir)
	}
	return dirs
}

// SplitPattern separates a "dir/..." pattern into its directory and whether it is recursive
func SplitPattern(root string) (string, bool) {
	root = filepath.ToSlash(root)
	recursive := false
	switch {
	case root == "...":
		root, recursive = ".", true
	case strings.HasSuffix(root, RecursiveSuffix):
		root, recursive = strings.TrimSuffix(root, RecursiveSuffix), true
	}
	if root == "" {
		root = "."
	}
	return filepath.Clean(filepath.FromSlash(root)), recursive
}
