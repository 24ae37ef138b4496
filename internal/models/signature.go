package models

import (
	"fmt"

	"github.com/toyz/jenny/internal/errors"
)

// SourceLocation is where an annotated item was found in source code
type SourceLocation = errors.SourceLocation

// OwnershipKind distinguishes parameters passed by value from borrowed ones
type OwnershipKind int

const (
	Owned OwnershipKind = iota
	Borrowed
)

// String returns the string representation of the ownership kind
func (k OwnershipKind) String() string {
	switch k {
	case Owned:
		return "owned"
	case Borrowed:
		return "borrowed"
	default:
		return "unknown"
	}
}

// Ownership is Owned or Borrowed(lifetime); the lifetime is empty when elided
type Ownership struct {
	Kind     OwnershipKind
	Lifetime string
}

// String returns e.g. "owned", "borrowed" or "borrowed('a)"
func (o Ownership) String() string {
	if o.Kind == Borrowed && o.Lifetime != "" {
		return fmt.Sprintf("borrowed(%s)", o.Lifetime)
	}
	return o.Kind.String()
}

// ClassifyOwnership derives the ownership of a parameter from its declared type
func ClassifyOwnership(t *TypeDescriptor) Ownership {
	if t.IsReference() {
		return Ownership{Kind: Borrowed, Lifetime: t.Lifetime}
	}
	return Ownership{Kind: Owned}
}

// ParameterKind separates ordinary typed parameters from method receivers
type ParameterKind int

const (
	TypedParameter ParameterKind = iota
	ReceiverParameter
)

// Parameter is one entry of a function's parameter list
type Parameter struct {
	Kind      ParameterKind
	Name      string          // binding pattern, "_" when ignored
	Type      *TypeDescriptor // nil for receivers without an explicit type
	Ownership Ownership
	Receiver  string // receiver as written (`&mut self`), empty for typed parameters
}

// NewParameter builds a typed parameter and classifies its ownership
func NewParameter(name string, typ *TypeDescriptor) Parameter {
	return Parameter{
		Kind:      TypedParameter,
		Name:      name,
		Type:      typ,
		Ownership: ClassifyOwnership(typ),
	}
}

// NewReceiver builds a receiver parameter
func NewReceiver(written string) Parameter {
	return Parameter{Kind: ReceiverParameter, Name: "self", Receiver: written}
}

// IsReceiver reports whether the parameter is a self reference
func (p Parameter) IsReceiver() bool {
	return p.Kind == ReceiverParameter
}

// LifetimeParam is a declared lifetime parameter such as `'a: 'b`
type LifetimeParam struct {
	Name   string   // including the leading quote
	Bounds []string // outlives bounds, in declaration order
}

// String renders the lifetime parameter as it appears in a generics list
func (l LifetimeParam) String() string {
	if len(l.Bounds) == 0 {
		return l.Name
	}
	s := l.Name + ": " + l.Bounds[0]
	for _, b := range l.Bounds[1:] {
		s += " + " + b
	}
	return s
}

// FunctionSignature describes the native function a binding is generated for
type FunctionSignature struct {
	Identifier string
	Parameters []Parameter
	Return     *TypeDescriptor // nil when the function declares no return type
	Lifetimes  []LifetimeParam
	Location   SourceLocation
}

// HasReturn reports whether the function declares a return type
func (s FunctionSignature) HasReturn() bool {
	return s.Return != nil
}
