package annotations

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/toyz/jenny/internal/errors"
	"github.com/toyz/jenny/internal/models"
)

// Attribute is an outer attribute such as #[jni(class = "com.example.Foo")]
type Attribute struct {
	Pos  lexer.Position
	Path []string   `"#" "[" @Ident ( "::" @Ident )*`
	Args *AttrArgs  `( "(" @@ ")"`
	Eq   *AttrValue `| "=" @@ )? "]"`
}

// AttrArgs is the parenthesised argument list of an attribute
type AttrArgs struct {
	Items []*AttrItem `( @@ ( "," @@ )* ","? )?`
}

// AttrItem is one `key = value`, bare word or nested list argument
type AttrItem struct {
	Pos    lexer.Position
	Key    string     `@Ident`
	Value  *AttrValue `( "=" @@`
	Nested *AttrArgs  `| "(" @@ ")" )?`
}

// AttrValue is a literal attribute value
type AttrValue struct {
	Pos    lexer.Position
	String *string `  @String`
	Raw    *string `| @RawString`
	Other  *string `| @( "-"? ( Number | Char | Ident ) )`
}

// Literal returns the value as written
func (v *AttrValue) Literal() string {
	switch {
	case v.String != nil:
		return *v.String
	case v.Raw != nil:
		return *v.Raw
	case v.Other != nil:
		return *v.Other
	}
	return ""
}

// AttributeNames are the attribute paths recognised as binding requests
var AttributeNames = []string{"jni", "jenny::jni"}

// IsBindingAttribute reports whether an attribute path requests a binding
func IsBindingAttribute(path []string) bool {
	joined := strings.Join(path, "::")
	for _, name := range AttributeNames {
		if joined == name {
			return true
		}
	}
	return false
}

// AttributeParser parses #[jni] attributes into closed BindingOptions
type AttributeParser struct {
	parser *participle.Parser[Attribute]
}

// NewAttributeParser creates a new attribute parser
func NewAttributeParser() *AttributeParser {
	return &AttributeParser{
		parser: participle.MustBuild[Attribute](
			participle.Lexer(RustLexer),
			participle.Elide(Elided...),
			participle.UseLookahead(4),
		),
	}
}

// ParseAttribute parses the attribute text. A syntactically broken attribute
// yields a SyntaxError; an attribute that parses but cannot be interpreted as
// binding options yields MalformedOptions.
func (p *AttributeParser) ParseAttribute(text string, loc models.SourceLocation) (models.BindingOptions, error) {
	attr, err := p.parser.ParseString(loc.File, text)
	if err != nil {
		return models.BindingOptions{}, errors.WrapParseError("#[jni] attribute", err).WithLocation(loc)
	}
	return p.Options(attr, loc)
}

// Options converts a parsed attribute into BindingOptions and validates it
func (p *AttributeParser) Options(attr *Attribute, loc models.SourceLocation) (models.BindingOptions, error) {
	var opts models.BindingOptions

	path := strings.Join(attr.Path, "::")
	if !IsBindingAttribute(attr.Path) {
		return opts, errors.NewMalformedOptionsError(path, "", "not a #[jni] attribute").WithLocation(loc)
	}
	if attr.Eq != nil {
		return opts, errors.NewMalformedOptionsError(path, attr.Eq.Literal(),
			"expected #[jni] or #[jni(key = \"value\", ...)]").WithLocation(loc)
	}
	if attr.Args == nil {
		return opts, nil
	}

	seen := map[string]bool{}
	for _, item := range attr.Args.Items {
		if item.Nested != nil || item.Value == nil {
			return opts, errors.NewMalformedOptionsError(item.Key, "", "expected key = \"value\"").WithLocation(loc)
		}
		if seen[item.Key] {
			return opts, errors.NewMalformedOptionsError(item.Key, "", "option given more than once").WithLocation(loc)
		}
		seen[item.Key] = true

		value, err := stringValue(item.Value)
		if err != nil {
			return opts, errors.NewMalformedOptionsError(item.Key, item.Value.Literal(), err.Error()).WithLocation(loc)
		}
		if value == "" {
			return opts, errors.NewMalformedOptionsError(item.Key, "", "value must not be empty").WithLocation(loc)
		}

		switch item.Key {
		case "class":
			opts.Class = value
		case "name":
			opts.Name = value
		default:
			return opts, errors.NewMalformedOptionsError(item.Key, value, "unknown option, expected class or name").WithLocation(loc)
		}
	}

	if err := opts.Validate(); err != nil {
		if bindingErr, ok := err.(*errors.BindingError); ok {
			return models.BindingOptions{}, bindingErr.WithLocation(loc)
		}
		return models.BindingOptions{}, err
	}
	return opts, nil
}

// stringValue returns the decoded string literal or an error for any other literal
func stringValue(v *AttrValue) (string, error) {
	switch {
	case v.String != nil:
		return unquoteRust(*v.String)
	case v.Raw != nil:
		return unquoteRust(*v.Raw)
	default:
		return "", fmt.Errorf("expected a string literal")
	}
}
