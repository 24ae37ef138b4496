package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/semver"

	"github.com/toyz/jenny/internal/errors"
	"github.com/toyz/jenny/internal/models"
	"github.com/toyz/jenny/internal/synthesizer"
)

const (
	// ManifestName is the crate manifest searched for
	ManifestName = "Cargo.toml"

	// MinRuntimeVersion is the oldest runtime crate the generated code works with
	MinRuntimeVersion = "v0.1.0"
)

// CrateManifest is the subset of Cargo.toml the generator reads
type CrateManifest struct {
	Package struct {
		Name     string `toml:"name"`
		Version  string `toml:"version"`
		Metadata struct {
			Jenny JennyMetadata `toml:"jenny"`
		} `toml:"metadata"`
	} `toml:"package"`
	Dependencies map[string]interface{} `toml:"dependencies"`
}

// JennyMetadata is the [package.metadata.jenny] table
type JennyMetadata struct {
	DefaultPackage string `toml:"default-package"`
	RuntimeCrate   string `toml:"runtime-crate"`
}

// CrateInfo is what the resolver learned about the enclosing crate
type CrateInfo struct {
	Found        bool
	Dir          string // crate root, the directory holding Cargo.toml
	ManifestPath string
	Name         string

	DefaultPackage string // effective values after precedence
	RuntimeCrate   string

	RuntimeVersion string   // declared runtime dependency requirement, as written
	Warnings       []string // non-fatal findings such as an outdated runtime
}

// CrateResolver locates and reads the crate manifest
type CrateResolver struct {
	startDir string
}

// NewCrateResolverFrom creates a resolver searching upwards from dir, or from
// the working directory when dir is empty
func NewCrateResolverFrom(dir string) *CrateResolver {
	return &CrateResolver{startDir: dir}
}

// FindManifest returns the path of the nearest Cargo.toml
func (r *CrateResolver) FindManifest() (string, error) {
	currentDir := r.startDir
	if currentDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		currentDir = wd
	}
	currentDir, err := filepath.Abs(currentDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory: %w", err)
	}

	for {
		manifest := filepath.Join(currentDir, ManifestName)
		if info, err := os.Stat(manifest); err == nil && !info.IsDir() {
			return manifest, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", fmt.Errorf("%s not found", ManifestName)
}

// Resolve reads the nearest manifest and applies the precedence
// flag > [package.metadata.jenny] > built-in default. A missing manifest is
// not an error; the flags and defaults are used as they are.
func (r *CrateResolver) Resolve(flagPackage, flagRuntime string) (*CrateInfo, error) {
	info := &CrateInfo{}

	path, err := r.FindManifest()
	var manifest *CrateManifest
	if err == nil {
		manifest, err = ParseManifest(path)
		if err != nil {
			return nil, err
		}
		info.Found = true
		info.ManifestPath = path
		info.Dir = filepath.Dir(path)
		info.Name = manifest.Package.Name
	} else {
		info.Warnings = append(info.Warnings, fmt.Sprintf("no %s found, using built-in defaults", ManifestName))
		manifest = &CrateManifest{}
	}

	metadata := manifest.Package.Metadata.Jenny
	info.DefaultPackage = firstNonEmpty(flagPackage, metadata.DefaultPackage)
	info.RuntimeCrate = firstNonEmpty(flagRuntime, metadata.RuntimeCrate, synthesizer.DefaultRuntimeCrate)

	if info.DefaultPackage != "" && !models.IsQualifiedName(info.DefaultPackage) {
		return nil, invalidPackageError(info.DefaultPackage, flagPackage != "", path)
	}

	if info.Found {
		info.RuntimeVersion, info.Warnings = checkRuntimeDependency(manifest, info.RuntimeCrate, info.Warnings)
	}
	return info, nil
}

// invalidPackageError reports a default package that would not mangle into a
// valid symbol, naming where it came from
func invalidPackageError(pkg string, fromFlag bool, manifest string) *errors.BaseError {
	err := errors.ConfigurationError("default-package",
		fmt.Sprintf("%q is not a dot-separated Java package name", pkg)).
		WithContext("value", pkg).
		WithSuggestion("Use Java identifiers separated by single dots, such as com.example.native")
	if fromFlag {
		return err.WithContext("source", "-package flag")
	}
	return err.WithContext("source", "[package.metadata.jenny]").
		WithLocation(errors.SourceLocation{File: manifest})
}

// ParseManifest decodes a Cargo.toml file
func ParseManifest(path string) (*CrateManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}
	return DecodeManifest(path, data)
}

// DecodeManifest decodes Cargo.toml content; path is only used for error locations
func DecodeManifest(path string, data []byte) (*CrateManifest, error) {
	var manifest CrateManifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		cfgErr := errors.WrapConfigurationError(ManifestName, "decode", err).
			WithLocation(errors.SourceLocation{File: path}).
			WithSuggestion("Check that Cargo.toml is valid TOML")

		var decodeErr *toml.DecodeError
		if stderrors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			cfgErr.WithLocation(errors.SourceLocation{File: path, Line: row, Column: col})
		}
		return nil, cfgErr
	}
	return &manifest, nil
}

// checkRuntimeDependency compares the declared runtime dependency against
// MinRuntimeVersion. Findings are warnings only.
func checkRuntimeDependency(manifest *CrateManifest, runtimeCrate string, warnings []string) (string, []string) {
	// crate-relative paths such as crate::rt are not dependencies
	if strings.Contains(runtimeCrate, "::") {
		return "", warnings
	}

	dependency, ok := manifest.Dependencies[runtimeCrate]
	if !ok {
		dependency, ok = manifest.Dependencies[strings.ReplaceAll(runtimeCrate, "_", "-")]
	}
	if !ok {
		return "", append(warnings, fmt.Sprintf("runtime crate '%s' is not listed in [dependencies]", runtimeCrate))
	}

	requirement := dependencyVersion(dependency)
	if requirement == "" {
		// path or git dependency without a version
		return "", warnings
	}

	version, ok := RequirementVersion(requirement)
	if !ok {
		return requirement, append(warnings,
			fmt.Sprintf("cannot interpret version requirement %q of runtime crate '%s'", requirement, runtimeCrate))
	}
	if semver.Compare(version, MinRuntimeVersion) < 0 {
		return requirement, append(warnings,
			fmt.Sprintf("runtime crate '%s' %s is older than the supported minimum %s", runtimeCrate, requirement, MinRuntimeVersion))
	}
	return requirement, warnings
}

// dependencyVersion extracts the version of `dep = "1.2"` or `dep = { version = "1.2" }`
func dependencyVersion(dependency interface{}) string {
	switch v := dependency.(type) {
	case string:
		return v
	case map[string]interface{}:
		if version, ok := v["version"].(string); ok {
			return version
		}
	}
	return ""
}

// RequirementVersion turns a Cargo version requirement such as "0.2",
// "^1.4.0" or ">=0.3, <0.5" into the canonical semver of its lower bound
func RequirementVersion(requirement string) (string, bool) {
	first := strings.TrimSpace(strings.Split(requirement, ",")[0])
	first = strings.TrimLeft(first, "^~=>< ")
	if first == "" || strings.ContainsAny(first, "*xX") {
		return "", false
	}

	version := "v" + first
	if !semver.IsValid(version) {
		return "", false
	}
	return semver.Canonical(version), true
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
