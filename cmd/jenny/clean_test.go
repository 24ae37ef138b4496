package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanAutogenFiles(t *testing.T) {
	root := setupCrate(t, map[string]string{
		"src/lib.rs":                     "",
		"src/autogen_lib_jni.rs":         "",
		"src/ffi/autogen_strings_jni.rs": "",
		"src/autogen_notes.rs":           "",
	})

	code, stdout, _ := runCLI(t, "-clean", filepath.ToSlash(root)+"/...")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Removed 2 generated files")

	assert.NoFileExists(t, filepath.Join(root, "src", "autogen_lib_jni.rs"))
	assert.NoFileExists(t, filepath.Join(root, "src", "ffi", "autogen_strings_jni.rs"))
	assert.FileExists(t, filepath.Join(root, "src", "lib.rs"))
	assert.FileExists(t, filepath.Join(root, "src", "autogen_notes.rs"))
}

func TestCleanAutogenFilesNoFiles(t *testing.T) {
	root := setupCrate(t, map[string]string{"src/lib.rs": ""})

	code, stdout, _ := runCLI(t, "-clean", root)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Removed 0 generated files")
}

func TestCleanThenGenerate(t *testing.T) {
	root := setupCrate(t, map[string]string{
		"Cargo.toml": manifest,
		"lib.rs":     "#[jni]\nfn ping() {}\n",
	})

	code, _, _ := runCLI(t, root)
	assert.Equal(t, 0, code)
	assert.FileExists(t, filepath.Join(root, "autogen_lib_jni.rs"))

	code, _, _ = runCLI(t, "-clean", root)
	assert.Equal(t, 0, code)
	assert.NoFileExists(t, filepath.Join(root, "autogen_lib_jni.rs"))
}
