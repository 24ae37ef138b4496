package annotations

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/toyz/jenny/internal/errors"
	"github.com/toyz/jenny/internal/models"
)

// FnHeader is a Rust function declaration up to, but excluding, its body
type FnHeader struct {
	Pos        lexer.Position
	Visibility *Visibility     `@@?`
	Qualifiers []string        `@( "const" | "async" | "unsafe" )*`
	Extern     *ExternABI      `@@?`
	Name       string          `"fn" @Ident`
	Generics   []*GenericParam `( "<" ( @@ ( "," @@ )* ","? )? ">" )?`
	Params     []*FnParam      `"(" ( @@ ( "," @@ )* ","? )? ")"`
	Return     *TypeExpr       `( "->" @@ )?`
	Where      []*WherePred    `( "where" ( @@ ( "," @@ )* ","? )? )?`
}

// Visibility is `pub` or a restricted form like `pub(crate)`
type Visibility struct {
	Pub   bool     `@"pub"`
	Scope []string `( "(" @Ident ( "::"? @Ident )* ")" )?`
}

// ExternABI is `extern` with an optional ABI string
type ExternABI struct {
	Extern bool    `@"extern"`
	ABI    *string `@String?`
}

type GenericParam struct {
	Pos      lexer.Position
	Lifetime *LifetimeDecl `  @@`
	Const    *ConstDecl    `| @@`
	Type     *TypeDecl     `| @@`
}

type LifetimeDecl struct {
	Name   string   `@Lifetime`
	Bounds []string `( ":" ( @Lifetime ( "+" @Lifetime )* )? )?`
}

type ConstDecl struct {
	Name string    `"const" @Ident ":"`
	Type *TypeExpr `@@`
}

type TypeDecl struct {
	Name    string       `@Ident`
	Bounds  []*TypeBound `( ":" ( @@ ( "+" @@ )* )? )?`
	Default *TypeExpr    `( "=" @@ )?`
}

// TypeBound is a trait or lifetime bound
type TypeBound struct {
	Lifetime string    `  @Lifetime`
	Maybe    bool      `| @"?"?`
	Trait    *PathExpr `  @@`
}

type WherePred struct {
	Pos      lexer.Position
	Lifetime *LifetimeDecl `  @@`
	Type     *TypeExpr     `| @@ ":"`
	Bounds   []*TypeBound  `  ( @@ ( "+" @@ )* )?`
}

type FnParam struct {
	Pos      lexer.Position
	Receiver *Receiver   `  @@`
	Typed    *TypedParam `| @@`
}

// Receiver is any spelling of self: `self`, `&'a mut self`, `self: Box<Self>`
type Receiver struct {
	Ref      bool      `( @"&"`
	Lifetime string    `  @Lifetime?`
	RefMut   bool      `  @"mut"? )?`
	Mut      bool      `@"mut"?`
	Self     bool      `@"self"`
	Type     *TypeExpr `( ":" @@ )?`
}

type TypedParam struct {
	Pattern *Pattern  `@@ ":"`
	Type    *TypeExpr `@@`
}

// Pattern is a parameter binding pattern
type Pattern struct {
	Ref   bool       `( @"ref"?`
	Mut   bool       `  @"mut"?`
	Name  string     `  @Ident )`
	Tuple []*Pattern `| "(" ( @@ ( "," @@ )* ","? )? ")"`
}

type TypeExpr struct {
	Pos     lexer.Position
	Ref     *RefExpr     `  @@`
	Pointer *PointerExpr `| @@`
	Bracket *BracketExpr `| @@`
	Tuple   *TupleExpr   `| @@`
	Never   bool         `| @"!"`
	Trait   *TraitExpr   `| @@`
	Path    *PathExpr    `| @@`
}

type RefExpr struct {
	Lifetime string    `"&" @Lifetime?`
	Mut      bool      `@"mut"?`
	Elem     *TypeExpr `@@`
}

type PointerExpr struct {
	Qualifier string    `"*" @( "const" | "mut" )`
	Elem      *TypeExpr `@@`
}

type BracketExpr struct {
	Elem   *TypeExpr `"[" @@`
	Length *string   `( ";" @( Number | Ident ) )? "]"`
}

type TupleExpr struct {
	Elems    []*TypeExpr `"(" ( @@ ( "," @@ )* )?`
	Trailing bool        `@","? ")"`
}

type TraitExpr struct {
	Keyword string       `@( "dyn" | "impl" )`
	Bounds  []*TypeBound `@@ ( "+" @@ )*`
}

type PathExpr struct {
	Global   bool           `@"::"?`
	Segments []*PathSegment `@@ ( "::" @@ )*`
}

type PathSegment struct {
	Name   string         `@Ident`
	Args   []*GenericExpr `( "<" ( @@ ( "," @@ )* ","? )? ">"`
	Paren  bool           `| @"("`
	Inputs []*TypeExpr    `  ( @@ ( "," @@ )* ","? )? ")"`
	Output *TypeExpr      `  ( "->" @@ )? )?`
}

type GenericExpr struct {
	Lifetime string    `  @Lifetime`
	Name     string    `| ( @Ident "=" )?`
	Type     *TypeExpr `  @@`
}

// SignatureParser parses Rust function headers into FunctionSignatures
type SignatureParser struct {
	parser *participle.Parser[FnHeader]
}

// NewSignatureParser creates a new function header parser
func NewSignatureParser() *SignatureParser {
	return &SignatureParser{
		parser: participle.MustBuild[FnHeader](
			participle.Lexer(RustLexer),
			participle.Elide(Elided...),
			participle.UseLookahead(8),
		),
	}
}

// ParseHeader parses the header text. loc is where the text starts in the
// original file; syntax error positions are reported relative to it.
func (p *SignatureParser) ParseHeader(text string, loc models.SourceLocation) (*FnHeader, error) {
	header, err := p.parser.ParseString(loc.File, text)
	if err != nil {
		errLoc := loc
		var perr participle.Error
		if pe, ok := err.(participle.Error); ok {
			perr = pe
			errLoc = Offset(loc, perr.Position())
		}
		syntaxErr := errors.WrapParseError("function signature", err).WithLocation(errLoc)
		if ue, ok := perr.(*participle.UnexpectedTokenError); ok {
			syntaxErr.WithToken(ue.Unexpected.Value)
		}
		return nil, syntaxErr
	}
	return header, nil
}

// ParseSignature parses header text into a FunctionSignature
func (p *SignatureParser) ParseSignature(text string, loc models.SourceLocation) (models.FunctionSignature, error) {
	header, err := p.ParseHeader(text, loc)
	if err != nil {
		return models.FunctionSignature{}, err
	}
	return header.Signature(loc)
}

// Offset translates a position inside a parsed fragment to the enclosing file
func Offset(base models.SourceLocation, pos lexer.Position) models.SourceLocation {
	if pos.Line <= 1 {
		return models.SourceLocation{File: base.File, Line: base.Line, Column: base.Column + pos.Column - 1}
	}
	return models.SourceLocation{File: base.File, Line: base.Line + pos.Line - 1, Column: pos.Column}
}

// Signature converts the header into the model handed to the synthesizer.
// Headers a binding cannot express fail with UnsupportedInputShape.
func (h *FnHeader) Signature(loc models.SourceLocation) (models.FunctionSignature, error) {
	item := fmt.Sprintf("function '%s'", h.Name)
	unsupported := func(detail string) (models.FunctionSignature, error) {
		return models.FunctionSignature{}, errors.NewUnsupportedInputShapeError(item, detail).
			WithFunction(h.Name).
			WithLocation(loc)
	}

	for _, q := range h.Qualifiers {
		if q == "async" || q == "unsafe" {
			return unsupported(q + " functions cannot be called from an exported entry point")
		}
	}

	sig := models.FunctionSignature{Identifier: h.Name, Location: loc}
	index := map[string]int{}
	for _, g := range h.Generics {
		switch {
		case g.Lifetime != nil:
			index[g.Lifetime.Name] = len(sig.Lifetimes)
			sig.Lifetimes = append(sig.Lifetimes, models.LifetimeParam{
				Name:   g.Lifetime.Name,
				Bounds: append([]string(nil), g.Lifetime.Bounds...),
			})
		case g.Const != nil:
			return unsupported(fmt.Sprintf("const parameter '%s' has no JVM representation", g.Const.Name))
		case g.Type != nil:
			return unsupported(fmt.Sprintf("type parameter '%s' has no JVM representation", g.Type.Name))
		}
	}

	for _, pred := range h.Where {
		if pred.Lifetime == nil {
			return unsupported("where clauses on types are not supported")
		}
		i, ok := index[pred.Lifetime.Name]
		if !ok {
			return unsupported(fmt.Sprintf("where clause names undeclared lifetime %s", pred.Lifetime.Name))
		}
		sig.Lifetimes[i].Bounds = append(sig.Lifetimes[i].Bounds, pred.Lifetime.Bounds...)
	}

	for _, param := range h.Params {
		if param.Receiver != nil {
			sig.Parameters = append(sig.Parameters, models.NewReceiver(param.Receiver.String()))
			continue
		}
		typ := param.Typed.Type.Descriptor()
		if ContainsImplTrait(typ) {
			return unsupported(fmt.Sprintf("parameter '%s' uses impl Trait", param.Typed.Pattern))
		}
		sig.Parameters = append(sig.Parameters, models.NewParameter(param.Typed.Pattern.String(), typ))
	}

	if h.Return != nil {
		sig.Return = h.Return.Descriptor()
	}
	return sig, nil
}

// String renders the receiver as written
func (r *Receiver) String() string {
	var b strings.Builder
	if r.Ref {
		b.WriteString("&")
		if r.Lifetime != "" {
			b.WriteString(r.Lifetime + " ")
		}
		if r.RefMut {
			b.WriteString("mut ")
		}
	}
	if r.Mut {
		b.WriteString("mut ")
	}
	b.WriteString("self")
	if r.Type != nil {
		b.WriteString(": " + r.Type.Descriptor().String())
	}
	return b.String()
}

// String renders the pattern as written
func (p *Pattern) String() string {
	if p.Name == "" {
		parts := make([]string, len(p.Tuple))
		for i, elem := range p.Tuple {
			parts[i] = elem.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	var b strings.Builder
	if p.Ref {
		b.WriteString("ref ")
	}
	if p.Mut {
		b.WriteString("mut ")
	}
	b.WriteString(p.Name)
	return b.String()
}

// Descriptor converts the parsed type into a TypeDescriptor
func (t *TypeExpr) Descriptor() *models.TypeDescriptor {
	switch {
	case t.Ref != nil:
		return models.RefType(t.Ref.Lifetime, t.Ref.Mut, t.Ref.Elem.Descriptor())
	case t.Pointer != nil:
		return &models.TypeDescriptor{
			Kind:    models.TypeKindPointer,
			Mutable: t.Pointer.Qualifier == "mut",
			Elem:    t.Pointer.Elem.Descriptor(),
		}
	case t.Bracket != nil:
		if t.Bracket.Length != nil {
			return &models.TypeDescriptor{
				Kind:   models.TypeKindArray,
				Elem:   t.Bracket.Elem.Descriptor(),
				Length: *t.Bracket.Length,
			}
		}
		return &models.TypeDescriptor{Kind: models.TypeKindSlice, Elem: t.Bracket.Elem.Descriptor()}
	case t.Tuple != nil:
		// (T) is a parenthesised type, (T,) a one element tuple
		if len(t.Tuple.Elems) == 1 && !t.Tuple.Trailing {
			return t.Tuple.Elems[0].Descriptor()
		}
		tuple := models.UnitType()
		for _, elem := range t.Tuple.Elems {
			tuple.Elems = append(tuple.Elems, elem.Descriptor())
		}
		return tuple
	case t.Never:
		return &models.TypeDescriptor{Kind: models.TypeKindNever}
	case t.Trait != nil:
		obj := &models.TypeDescriptor{Kind: models.TypeKindTraitObject, Keyword: t.Trait.Keyword}
		for _, bound := range t.Trait.Bounds {
			obj.Bounds = append(obj.Bounds, bound.arg())
		}
		return obj
	default:
		return t.Path.Descriptor()
	}
}

// Descriptor converts a path into a TypeDescriptor
func (p *PathExpr) Descriptor() *models.TypeDescriptor {
	typ := &models.TypeDescriptor{Kind: models.TypeKindPath, Global: p.Global}
	for _, seg := range p.Segments {
		out := models.PathSegment{Name: seg.Name, Parenthesized: seg.Paren}
		for _, arg := range seg.Args {
			if arg.Type == nil {
				out.Args = append(out.Args, models.GenericArg{Lifetime: arg.Lifetime})
				continue
			}
			out.Args = append(out.Args, models.GenericArg{Name: arg.Name, Type: arg.Type.Descriptor()})
		}
		for _, in := range seg.Inputs {
			out.Inputs = append(out.Inputs, in.Descriptor())
		}
		if seg.Output != nil {
			out.Output = seg.Output.Descriptor()
		}
		typ.Segments = append(typ.Segments, out)
	}
	return typ
}

func (b *TypeBound) arg() models.GenericArg {
	if b.Trait == nil {
		return models.GenericArg{Lifetime: b.Lifetime}
	}
	typ := b.Trait.Descriptor()
	if b.Maybe && len(typ.Segments) > 0 {
		typ.Segments[0].Name = "?" + typ.Segments[0].Name
	}
	return models.GenericArg{Type: typ}
}

// ContainsImplTrait reports whether `impl Trait` appears anywhere in t
func ContainsImplTrait(t *models.TypeDescriptor) bool {
	if t == nil {
		return false
	}
	if t.Kind == models.TypeKindTraitObject && t.Keyword == "impl" {
		return true
	}
	if ContainsImplTrait(t.Elem) {
		return true
	}
	for _, elem := range t.Elems {
		if ContainsImplTrait(elem) {
			return true
		}
	}
	for _, bound := range t.Bounds {
		if ContainsImplTrait(bound.Type) {
			return true
		}
	}
	for _, seg := range t.Segments {
		for _, arg := range seg.Args {
			if ContainsImplTrait(arg.Type) {
				return true
			}
		}
		for _, in := range seg.Inputs {
			if ContainsImplTrait(in) {
				return true
			}
		}
		if ContainsImplTrait(seg.Output) {
			return true
		}
	}
	return false
}
