package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// RustExtension is the extension of scanned source files
	RustExtension = ".rs"

	// GeneratedPrefix and GeneratedSuffix frame the name of a generated bindings file
	GeneratedPrefix = "autogen_"
	GeneratedSuffix = "_jni.rs"
)

// FileProcessor provides utilities for common file processing operations
type FileProcessor struct {
	directoryFilter DirectoryFilter
}

// NewFileProcessor creates a new file processor with the default directory filter
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{
		directoryFilter: DefaultDirectoryFilter(),
	}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info fs.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, info fs.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	SkipErrors      bool
}

// IsGeneratedFile reports whether path names a generated bindings file
func IsGeneratedFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, GeneratedPrefix) && strings.HasSuffix(base, GeneratedSuffix)
}

// DefaultRustFileFilter filters for .rs files, excluding generated bindings
func DefaultRustFileFilter() FileFilter {
	return func(path string, info fs.DirEntry) bool {
		if info.IsDir() {
			return false
		}
		return strings.HasSuffix(info.Name(), RustExtension) && !IsGeneratedFile(path)
	}
}

// GeneratedFileFilter filters for generated bindings files
func GeneratedFileFilter() FileFilter {
	return func(path string, info fs.DirEntry) bool {
		if info.IsDir() {
			return false
		}
		return IsGeneratedFile(path)
	}
}

// DefaultDirectoryFilter skips common directories that shouldn't contain source code
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		".git":         true,
		".svn":         true,
		".hg":          true,
		"testdata":     true,
		"build":        true,
		"dist":         true,
		"target":       true,
	}

	return func(path string, info fs.DirEntry) bool {
		if !info.IsDir() {
			return true
		}

		name := info.Name()

		// Skip hidden directories
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}

		return !skipDirs[name]
	}
}

// WalkFiles walks through files in a directory tree with filtering. The root
// itself is never rejected by the directory filter.
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matchedFiles []string

	err := filepath.WalkDir(rootDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return err
		}

		if entry.IsDir() {
			if path != rootDir && options.DirectoryFilter != nil && !options.DirectoryFilter(path, entry) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(path, entry) {
			matchedFiles = append(matchedFiles, path)
		}
		return nil
	})

	sort.Strings(matchedFiles)
	return matchedFiles, err
}

// SourceFiles lists the Rust sources of dir, descending into subdirectories
// when recursive is set. The result is sorted.
func (fp *FileProcessor) SourceFiles(dir string, recursive bool) ([]string, error) {
	if recursive {
		files, err := fp.WalkFiles(dir, FileWalkOptions{
			FileFilter:      DefaultRustFileFilter(),
			DirectoryFilter: fp.directoryFilter,
		})
		if err != nil {
			return nil, WrapProcessError(fmt.Sprintf("directory walk %s", dir), err)
		}
		return files, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, WrapProcessError(fmt.Sprintf("directory read %s", dir), err)
	}

	filter := DefaultRustFileFilter()
	var files []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if filter(path, entry) {
			files = append(files, path)
		}
	}
	return files, nil
}

// HasRustFiles checks if a directory directly contains Rust sources
func (fp *FileProcessor) HasRustFiles(dir string) (bool, error) {
	files, err := fp.SourceFiles(dir, false)
	if err != nil {
		return false, err
	}
	return len(files) > 0, nil
}

// CleanDirectories removes generated bindings files below the given
// directories and returns the removed paths
func (fp *FileProcessor) CleanDirectories(baseDirs []string) ([]string, error) {
	var removedFiles []string

	for _, baseDir := range baseDirs {
		if baseDir == "" {
			baseDir = "."
		}
		if _, err := os.Stat(baseDir); os.IsNotExist(err) {
			continue
		}

		generated, err := fp.WalkFiles(baseDir, FileWalkOptions{
			FileFilter:      GeneratedFileFilter(),
			DirectoryFilter: fp.directoryFilter,
			SkipErrors:      true,
		})
		if err != nil {
			return removedFiles, WrapProcessError(fmt.Sprintf("directory clean %s", baseDir), err)
		}

		for _, path := range generated {
			if err := os.Remove(path); err != nil {
				return removedFiles, WrapProcessError(fmt.Sprintf("file removal %s", path), err)
			}
			removedFiles = append(removedFiles, path)
		}
	}

	return removedFiles, nil
}

