package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/jenny/internal/errors"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestDirectoryScanner_ScanDirectories(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/lib.rs":             "",
		"src/autogen_lib_jni.rs": "",
		"src/ffi/strings.rs":     "",
		"target/debug/out.rs":    "",
		"build.rs":               "",
	})
	scanner := NewDirectoryScanner()

	t.Run("flat directory", func(t *testing.T) {
		files, err := scanner.ScanDirectories([]string{filepath.Join(root, "src")})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "src", "lib.rs")}, files)
	})

	t.Run("recursive pattern", func(t *testing.T) {
		files, err := scanner.ScanDirectories([]string{filepath.ToSlash(root) + "/..."})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "build.rs"),
			filepath.Join(root, "src", "ffi", "strings.rs"),
			filepath.Join(root, "src", "lib.rs"),
		}, files)
	})

	t.Run("single file and duplicates", func(t *testing.T) {
		lib := filepath.Join(root, "src", "lib.rs")
		files, err := scanner.ScanDirectories([]string{lib, filepath.Join(root, "src"), lib})
		require.NoError(t, err)
		assert.Equal(t, []string{lib}, files)
	})
}

func TestDirectoryScanner_Errors(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"notes.txt": ""})
	scanner := NewDirectoryScanner()

	_, err := scanner.ScanDirectories([]string{filepath.Join(root, "missing")})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.FileSystemErrorCode))

	_, err = scanner.ScanDirectories([]string{filepath.Join(root, "notes.txt")})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ConfigurationErrorCode))
}

func TestSplitPattern(t *testing.T) {
	tests := []struct {
		input     string
		dir       string
		recursive bool
	}{
		{"./...", ".", true},
		{"...", ".", true},
		{"src/...", "src", true},
		{"src", "src", false},
		{"./src/", "src", false},
		{"", ".", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			dir, recursive := SplitPattern(tt.input)
			assert.Equal(t, filepath.FromSlash(tt.dir), dir)
			assert.Equal(t, tt.recursive, recursive)
		})
	}
}

func TestCleaner_CleanGeneratedFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/lib.rs":                 "",
		"src/autogen_lib_jni.rs":     "",
		"src/ffi/autogen_ffi_jni.rs": "",
	})

	removed, err := NewCleaner().CleanGeneratedFiles([]string{filepath.ToSlash(root) + "/..."})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "src", "autogen_lib_jni.rs"),
		filepath.Join(root, "src", "ffi", "autogen_ffi_jni.rs"),
	}, removed)

	assert.FileExists(t, filepath.Join(root, "src", "lib.rs"))
	assert.NoFileExists(t, filepath.Join(root, "src", "autogen_lib_jni.rs"))

	removed, err = NewCleaner().CleanGeneratedFiles([]string{root})
	require.NoError(t, err)
	assert.Empty(t, removed)
}
