package cli

// Config holds the configuration for the CLI generator
type Config struct {
	// Directories is the list of directories or .rs files to scan. A trailing
	// "/..." scans a directory recursively.
	Directories []string

	// DefaultPackage is the Java package for functions without a class override.
	// If empty, it is read from [package.metadata.jenny] in Cargo.toml.
	DefaultPackage string

	// RuntimeCrate is the crate path providing the conversion traits.
	// If empty, it is read from [package.metadata.jenny] in Cargo.toml.
	RuntimeCrate string

	// CrateDir is where the search for Cargo.toml starts, the first scanned path when empty
	CrateDir string

	// Verbose enables detailed logging and error reporting
	Verbose bool

	// Debug additionally traces every synthesized binding
	Debug bool

	// Quiet only reports errors
	Quiet bool

	// DryRun renders bindings without writing them
	DryRun bool

	// Concurrency bounds the per-file workers, GOMAXPROCS when zero
	Concurrency int
}
