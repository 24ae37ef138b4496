package models

import "strings"

// TypeKind represents the shape of a Rust type expression
type TypeKind int

const (
	TypeKindPath TypeKind = iota
	TypeKindReference
	TypeKindSlice
	TypeKindArray
	TypeKindTuple
	TypeKindPointer
	TypeKindNever
	TypeKindTraitObject
)

// String returns the string representation of the type kind
func (k TypeKind) String() string {
	switch k {
	case TypeKindPath:
		return "path"
	case TypeKindReference:
		return "reference"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindTuple:
		return "tuple"
	case TypeKindPointer:
		return "pointer"
	case TypeKindNever:
		return "never"
	case TypeKindTraitObject:
		return "trait object"
	default:
		return "unknown"
	}
}

// TypeDescriptor is a structured Rust type as handed over by the front end
type TypeDescriptor struct {
	Kind     TypeKind
	Global   bool              // path starts with `::`
	Segments []PathSegment     // path segments for TypeKindPath
	Lifetime string            // reference lifetime including the quote, empty when elided
	Mutable  bool              // `&mut T` or `*mut T`
	Elem     *TypeDescriptor   // referenced, slice, array or pointer element
	Length   string            // array length expression
	Elems    []*TypeDescriptor // tuple elements, empty for unit
	Keyword  string            // `dyn` or `impl` for TypeKindTraitObject
	Bounds   []GenericArg      // trait object bounds
}

// PathSegment is one `::`-separated segment of a type path
type PathSegment struct {
	Name string
	Args []GenericArg

	// Fn(A, B) -> C sugar
	Parenthesized bool
	Inputs        []*TypeDescriptor
	Output        *TypeDescriptor
}

// GenericArg is a lifetime, a type, or an associated type binding such as
// `Item = u8` when Name is set
type GenericArg struct {
	Lifetime string
	Name     string
	Type     *TypeDescriptor
}

func (a GenericArg) write(b *strings.Builder) {
	if a.Type == nil {
		b.WriteString(a.Lifetime)
		return
	}
	if a.Name != "" {
		b.WriteString(a.Name)
		b.WriteString(" = ")
	}
	a.Type.write(b)
}

// PathType builds a simple path type such as `i32` or `jenny::JString`
func PathType(path string) *TypeDescriptor {
	t := &TypeDescriptor{Kind: TypeKindPath}
	if strings.HasPrefix(path, "::") {
		t.Global = true
		path = strings.TrimPrefix(path, "::")
	}
	for _, name := range strings.Split(path, "::") {
		t.Segments = append(t.Segments, PathSegment{Name: name})
	}
	return t
}

// RefType builds `&'lt T` or `&'lt mut T`
func RefType(lifetime string, mutable bool, elem *TypeDescriptor) *TypeDescriptor {
	return &TypeDescriptor{Kind: TypeKindReference, Lifetime: lifetime, Mutable: mutable, Elem: elem}
}

// UnitType builds `()`
func UnitType() *TypeDescriptor {
	return &TypeDescriptor{Kind: TypeKindTuple}
}

// IsReference reports whether the type is a borrow of any mutability
func (t *TypeDescriptor) IsReference() bool {
	return t != nil && t.Kind == TypeKindReference
}

// IsUnit reports whether the type is the empty tuple
func (t *TypeDescriptor) IsUnit() bool {
	return t != nil && t.Kind == TypeKindTuple && len(t.Elems) == 0
}

// String renders the type in canonical Rust syntax
func (t *TypeDescriptor) String() string {
	if t == nil {
		return "()"
	}
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *TypeDescriptor) write(b *strings.Builder) {
	switch t.Kind {
	case TypeKindPath:
		if t.Global {
			b.WriteString("::")
		}
		for i, seg := range t.Segments {
			if i > 0 {
				b.WriteString("::")
			}
			b.WriteString(seg.Name)
			if seg.Parenthesized {
				b.WriteString("(")
				for j, in := range seg.Inputs {
					if j > 0 {
						b.WriteString(", ")
					}
					in.write(b)
				}
				b.WriteString(")")
				if seg.Output != nil {
					b.WriteString(" -> ")
					seg.Output.write(b)
				}
				continue
			}
			if len(seg.Args) == 0 {
				continue
			}
			b.WriteString("<")
			for j, arg := range seg.Args {
				if j > 0 {
					b.WriteString(", ")
				}
				arg.write(b)
			}
			b.WriteString(">")
		}
	case TypeKindReference:
		b.WriteString("&")
		if t.Lifetime != "" {
			b.WriteString(t.Lifetime)
			b.WriteString(" ")
		}
		if t.Mutable {
			b.WriteString("mut ")
		}
		t.Elem.write(b)
	case TypeKindSlice:
		b.WriteString("[")
		t.Elem.write(b)
		b.WriteString("]")
	case TypeKindArray:
		b.WriteString("[")
		t.Elem.write(b)
		b.WriteString("; ")
		b.WriteString(t.Length)
		b.WriteString("]")
	case TypeKindTuple:
		b.WriteString("(")
		for i, elem := range t.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			elem.write(b)
		}
		if len(t.Elems) == 1 {
			b.WriteString(",")
		}
		b.WriteString(")")
	case TypeKindPointer:
		if t.Mutable {
			b.WriteString("*mut ")
		} else {
			b.WriteString("*const ")
		}
		t.Elem.write(b)
	case TypeKindNever:
		b.WriteString("!")
	case TypeKindTraitObject:
		b.WriteString(t.Keyword)
		for i, bound := range t.Bounds {
			if i > 0 {
				b.WriteString(" +")
			}
			b.WriteString(" ")
			bound.write(b)
		}
	}
}
