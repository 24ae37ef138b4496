package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), "jenny", args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func setupCrate(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

const manifest = "[package]\nname = \"demo\"\n\n[dependencies]\njenny = \"0.3\"\n"

func TestCLIArgumentParsing(t *testing.T) {
	t.Run("help flag", func(t *testing.T) {
		code, _, stderr := runCLI(t, "-help")
		assert.Equal(t, 0, code)
		assert.Contains(t, stderr, "Usage:")
		assert.Contains(t, stderr, "jenny JNI Binding Generator")
		assert.Contains(t, stderr, "-package")
		assert.Contains(t, stderr, "-dry-run")
		assert.Contains(t, stderr, "include!(\"autogen_lib_jni.rs\")")
	})

	t.Run("no arguments", func(t *testing.T) {
		code, _, stderr := runCLI(t)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "At least one path is required")
	})

	t.Run("unknown flag", func(t *testing.T) {
		code, _, stderr := runCLI(t, "-module", "x", ".")
		assert.Equal(t, 2, code)
		assert.Contains(t, stderr, "flag provided but not defined: -module")
	})

	t.Run("quiet and verbose", func(t *testing.T) {
		code, _, stderr := runCLI(t, "-quiet", "-verbose", ".")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "-quiet cannot be combined")
	})

	t.Run("nonexistent path", func(t *testing.T) {
		code, _, stderr := runCLI(t, filepath.Join(t.TempDir(), "missing"))
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "File System Error")
	})
}

func TestCLIGenerate(t *testing.T) {
	root := setupCrate(t, map[string]string{
		"Cargo.toml": manifest,
		"src/lib.rs": "#[jni]\npub fn get_value() -> i32 { 42 }\n",
	})

	code, stdout, stderr := runCLI(t, "-package", "com.example", filepath.ToSlash(root)+"/...")
	assert.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Binding Generation Completed Successfully!")
	assert.Contains(t, stdout, "Generated 1 JNI bindings")
	assert.Contains(t, stdout, "jenny: Generation complete!")

	content, err := os.ReadFile(filepath.Join(root, "src", "autogen_lib_jni.rs"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "// Code generated by jenny. DO NOT EDIT.")
	assert.Contains(t, string(content), "Java_com_example_GetValue_get_1value")
}

func TestCLIGenerateWithErrors(t *testing.T) {
	root := setupCrate(t, map[string]string{
		"Cargo.toml": manifest,
		"src/lib.rs": "#[jni]\nfn foo(x: i32) {}\n\n#[jni(klass = \"x\")]\nfn bar() {}\n",
	})

	code, stdout, stderr := runCLI(t, filepath.Join(root, "src"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "ERROR: Binding Generation Failed")
	assert.Contains(t, stderr, "Malformed #[jni] Options")
	assert.Contains(t, stderr, "src/lib.rs:4")

	// foo is still written
	assert.Contains(t, stdout, "Generated 1 JNI bindings")
	assert.FileExists(t, filepath.Join(root, "src", "autogen_lib_jni.rs"))
}

func TestCLIDryRun(t *testing.T) {
	root := setupCrate(t, map[string]string{
		"Cargo.toml": manifest,
		"lib.rs":     "#[jni]\nfn ping() {}\n",
	})

	code, stdout, _ := runCLI(t, "-dry-run", root)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Would write")
	assert.Contains(t, stdout, "Dry Run Completed")
	assert.NoFileExists(t, filepath.Join(root, "autogen_lib_jni.rs"))
}

func TestCLIQuiet(t *testing.T) {
	root := setupCrate(t, map[string]string{
		"Cargo.toml": manifest,
		"lib.rs":     "#[jni]\nfn ping() {}\n",
	})

	code, stdout, stderr := runCLI(t, "-quiet", root)
	assert.Equal(t, 0, code)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)
	assert.FileExists(t, filepath.Join(root, "autogen_lib_jni.rs"))
}

func TestCLIVerboseListsSymbols(t *testing.T) {
	root := setupCrate(t, map[string]string{
		"Cargo.toml": manifest,
		"lib.rs":     "#[jni(class = \"org.x.Y\")]\nfn ping() {}\n",
	})

	code, stdout, _ := runCLI(t, "-verbose", root)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Exported Symbols:")
	assert.Contains(t, stdout, "- Java_org_x_Y_ping")
	assert.Contains(t, stdout, "Run ID: ")
}

func TestCLIInvalidDefaultPackage(t *testing.T) {
	root := setupCrate(t, map[string]string{
		"Cargo.toml": manifest,
		"lib.rs":     "#[jni]\nfn ping() {}\n",
	})

	code, _, stderr := runCLI(t, "-package", "com.my-app", root)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Configuration Error")
	assert.Contains(t, stderr, `"com.my-app" is not a dot-separated Java package name`)
	assert.NoFileExists(t, filepath.Join(root, "autogen_lib_jni.rs"))
}
