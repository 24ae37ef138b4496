// Package mangler derives JNI exported symbol names for native functions.
//
// Names follow the JNI mangling rules: every literal underscore is
// escaped to "_1" and the dots of a qualified class name become plain
// underscores. Symbols never carry the "__<signature>" overload suffix.
package mangler

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/toyz/jenny/internal/models"
)

const (
	// Prefix starts every exported JNI symbol
	Prefix = "Java_"

	// DefaultPackage is the Java package used when no class override is given
	DefaultPackage = "rust.jenny"
)

// Mangler builds exported symbol names. It holds no state besides its
// default package and is safe for concurrent use.
type Mangler struct {
	defaultPackage string
}

// NewMangler creates a mangler for the given dot-separated default package.
// An empty package selects DefaultPackage.
func NewMangler(defaultPackage string) *Mangler {
	if defaultPackage == "" {
		defaultPackage = DefaultPackage
	}
	return &Mangler{defaultPackage: defaultPackage}
}

// DefaultPackage returns the Java package used for functions without a class override
func (m *Mangler) DefaultPackage() string {
	return m.defaultPackage
}

// Mangle returns Java_<package_and_class>_<func_name> for identifier
func (m *Mangler) Mangle(identifier string, opts models.BindingOptions) string {
	return Prefix + m.ClassPath(identifier, opts) + "_" + MethodName(identifier, opts)
}

// ClassPath returns the escaped package and class part of the symbol
func (m *Mangler) ClassPath(identifier string, opts models.BindingOptions) string {
	if opts.HasClass() {
		return escapeQualified(opts.Class)
	}
	return escapeQualified(m.defaultPackage) + "_" + EscapeUnderscores(UpperCamel(identifier))
}

// DefaultClass returns the Java class a function without overrides is bound to
func (m *Mangler) DefaultClass(identifier string) string {
	return m.defaultPackage + "." + UpperCamel(identifier)
}

// MethodName returns the escaped method part of the symbol
func MethodName(identifier string, opts models.BindingOptions) string {
	name := identifier
	if opts.HasName() {
		name = opts.Name
	}
	return EscapeUnderscores(name)
}

// EscapeUnderscores replaces every underscore with the JNI escape "_1"
func EscapeUnderscores(s string) string {
	return strings.ReplaceAll(s, "_", "_1")
}

// escapeQualified escapes underscores first, then turns dots into separators
func escapeQualified(name string) string {
	return strings.ReplaceAll(EscapeUnderscores(name), ".", "_")
}

// UpperCamel converts snake_case to UpperCamelCase. Underscores between two
// word characters are absorbed; leading, trailing and repeated underscores
// are kept so the escape step still sees them.
func UpperCamel(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	upperNext := true
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == '_' {
			prevWord := i > 0 && s[i-1] != '_'
			next, _ := utf8.DecodeRuneInString(s[i+size:])
			nextWord := i+size < len(s) && next != '_'
			if !prevWord || !nextWord {
				b.WriteRune(r)
			}
			upperNext = true
			i += size
			continue
		}
		if upperNext {
			r = unicode.ToUpper(r)
			upperNext = false
		}
		b.WriteRune(r)
		i += size
	}
	return b.String()
}
