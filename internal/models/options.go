package models

import (
	"strings"
	"unicode"

	"github.com/toyz/jenny/internal/errors"
)

// BindingOptions are the caller supplied overrides of a #[jni(...)] attribute.
// An empty field means unset.
type BindingOptions struct {
	Class string // fully-qualified Java class, dot separated
	Name  string // exported method simple name
}

// HasClass reports whether a class override is set
func (o BindingOptions) HasClass() bool {
	return o.Class != ""
}

// HasName reports whether a method name override is set
func (o BindingOptions) HasName() bool {
	return o.Name != ""
}

// Validate closes the record: every set value must be interpretable
func (o BindingOptions) Validate() error {
	if o.HasClass() && !IsQualifiedName(o.Class) {
		return errors.NewMalformedOptionsError("class", o.Class,
			"expected a dot-separated Java class name such as com.example.Foo")
	}
	if o.HasName() && !IsJavaIdentifier(o.Name) {
		return errors.NewMalformedOptionsError("name", o.Name, "expected a Java method identifier")
	}
	return nil
}

// IsQualifiedName reports whether name is a dot-separated sequence of Java
// identifiers, as used for packages and classes
func IsQualifiedName(name string) bool {
	for _, segment := range strings.Split(name, ".") {
		if !IsJavaIdentifier(segment) {
			return false
		}
	}
	return true
}

// IsJavaIdentifier reports whether s is an ASCII Java identifier. Characters
// outside [A-Za-z0-9_] would need the _0xxxx escape, which is not produced.
func IsJavaIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r > unicode.MaxASCII:
			return false
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
