package parser

import (
	"os"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/toyz/jenny/internal/annotations"
	"github.com/toyz/jenny/internal/errors"
	"github.com/toyz/jenny/internal/models"
)

// Parser implements the SourceParser interface
type Parser struct {
	attributes *annotations.AttributeParser
	signatures *annotations.SignatureParser
}

// NewParser creates a new source parser
func NewParser() *Parser {
	return &Parser{
		attributes: annotations.NewAttributeParser(),
		signatures: annotations.NewSignatureParser(),
	}
}

// ParseFile reads and parses a Rust source file
func (p *Parser) ParseFile(path string) (*models.SourceFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}
	return p.ParseSource(path, string(content))
}

// ParseSource extracts every #[jni] annotated item from source. Failures are
// attached to the item they belong to; only a source that cannot be
// tokenized at all fails as a whole.
func (p *Parser) ParseSource(filename, source string) (*models.SourceFile, error) {
	tokens, err := annotations.Tokenize(filename, source)
	if err != nil {
		return nil, errors.WrapParseError(filename, err).WithLocation(models.SourceLocation{File: filename})
	}

	file := &models.SourceFile{Path: filename}
	s := &scanner{filename: filename, source: source, tokens: tokens}

	for s.pos < len(s.tokens) {
		if !s.atOuterAttribute() {
			s.pos++
			continue
		}
		attr, ok := s.attribute()
		if !ok {
			file.Items = append(file.Items, models.AnnotatedItem{
				Location: attr.loc,
				Raw:      attr.text,
				Err:      errors.NewSyntaxError("unterminated attribute").WithLocation(attr.loc),
			})
			break
		}
		if !annotations.IsBindingAttribute(attr.path) {
			continue
		}
		file.Items = append(file.Items, p.item(s, attr))
	}
	return file, nil
}

// item builds the annotated item that follows a #[jni] attribute
func (p *Parser) item(s *scanner, attr rawAttribute) models.AnnotatedItem {
	item := models.AnnotatedItem{Location: attr.loc, Raw: attr.text}

	opts, optErr := p.attributes.ParseAttribute(attr.text, attr.loc)

	// attributes between #[jni] and the item itself
	for s.atOuterAttribute() {
		next, ok := s.attribute()
		if !ok {
			item.Err = errors.NewSyntaxError("unterminated attribute").WithLocation(next.loc)
			return item
		}
		if annotations.IsBindingAttribute(next.path) && optErr == nil {
			optErr = errors.NewMalformedOptionsError(strings.Join(next.path, "::"), "", "attribute given more than once").
				WithLocation(next.loc)
		}
	}

	header, ok := s.header()
	if !ok {
		item.Err = errors.NewSyntaxError("expected an item after #[jni]").WithLocation(attr.loc)
		return item
	}

	kind := itemKind(header.tokens)
	if kind != ItemFunction {
		item.Err = errors.NewUnsupportedInputShapeError(kind, "").WithLocation(header.loc)
		return item
	}
	if optErr != nil {
		item.Err = optErr
		return item
	}

	sig, err := p.signatures.ParseSignature(header.text, header.loc)
	if err != nil {
		item.Err = err
		return item
	}
	item.Signature = sig
	item.Options = opts
	return item
}

type rawAttribute struct {
	path []string
	text string
	loc  models.SourceLocation
}

type itemHeader struct {
	text   string
	tokens []lexer.Token
	loc    models.SourceLocation
}

// scanner walks the token stream of one file
type scanner struct {
	filename string
	source   string
	tokens   []lexer.Token
	pos      int
}

func (s *scanner) peek(offset int) (lexer.Token, bool) {
	if s.pos+offset >= len(s.tokens) {
		return lexer.Token{}, false
	}
	return s.tokens[s.pos+offset], true
}

func (s *scanner) location(tok lexer.Token) models.SourceLocation {
	return models.SourceLocation{File: s.filename, Line: tok.Pos.Line, Column: tok.Pos.Column}
}

// atOuterAttribute reports whether the cursor is on `#[`; inner `#![` attributes never match
func (s *scanner) atOuterAttribute() bool {
	hash, ok := s.peek(0)
	if !ok || !annotations.IsPunct(hash, "#") {
		return false
	}
	open, ok := s.peek(1)
	return ok && annotations.IsPunct(open, "[")
}

// attribute consumes one `#[...]` attribute. It is false when the closing
// bracket is missing.
func (s *scanner) attribute() (rawAttribute, bool) {
	start := s.tokens[s.pos]
	attr := rawAttribute{loc: s.location(start)}

	for i := s.pos + 2; i < len(s.tokens); i++ {
		tok := s.tokens[i]
		if tok.Type == annotations.TokenKinds["Ident"] {
			attr.path = append(attr.path, tok.Value)
			continue
		}
		if annotations.IsPunct(tok, "::") {
			continue
		}
		break
	}

	depth := 0
	for i := s.pos + 1; i < len(s.tokens); i++ {
		tok := s.tokens[i]
		switch {
		case annotations.IsPunct(tok, "["):
			depth++
		case annotations.IsPunct(tok, "]"):
			depth--
			if depth == 0 {
				attr.text = s.source[start.Pos.Offset : tok.Pos.Offset+1]
				s.pos = i + 1
				return attr, true
			}
		}
	}

	attr.text = s.source[start.Pos.Offset:]
	s.pos = len(s.tokens)
	return attr, false
}

// header consumes an item declaration up to its body or terminating `;`
func (s *scanner) header() (itemHeader, bool) {
	if s.pos >= len(s.tokens) {
		return itemHeader{}, false
	}
	start := s.tokens[s.pos]
	header := itemHeader{loc: s.location(start)}

	depth := 0
	end := len(s.source)
	i := s.pos
	for ; i < len(s.tokens); i++ {
		tok := s.tokens[i]
		if tok.Type != annotations.TokenKinds["Punct"] {
			continue
		}
		switch tok.Value {
		case "(", "[":
			depth++
			continue
		case ")", "]":
			depth--
			continue
		}
		if depth == 0 && (tok.Value == "{" || tok.Value == ";") {
			end = tok.Pos.Offset
			break
		}
	}

	header.tokens = s.tokens[s.pos:i]
	header.text = strings.TrimRight(s.source[start.Pos.Offset:end], " \t\r\n")
	s.pos = i
	return header, true
}

// itemKind classifies a declaration by its introducing keyword
func itemKind(tokens []lexer.Token) string {
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Value {
		case "pub":
			// pub(crate), pub(in path)
			if i+1 < len(tokens) && annotations.IsPunct(tokens[i+1], "(") {
				for i < len(tokens) && !annotations.IsPunct(tokens[i], ")") {
					i++
				}
			}
			continue
		case "async", "unsafe", "default":
			continue
		case "const":
			if i+1 < len(tokens) && isQualifier(tokens[i+1]) {
				continue
			}
			return ItemConst
		case "extern":
			if i+1 < len(tokens) && annotations.IsIdent(tokens[i+1], "crate") {
				return ItemExternCrate
			}
			if i+1 < len(tokens) && tokens[i+1].Type == annotations.TokenKinds["String"] {
				i++
			}
			if i+1 < len(tokens) && annotations.IsIdent(tokens[i+1], "fn") {
				continue
			}
			return ItemExternBlock
		}
		if kind, ok := itemKeywords[tok.Value]; ok && tok.Type == annotations.TokenKinds["Ident"] {
			return kind
		}
		return ItemUnknown
	}
	return ItemUnknown
}

func isQualifier(tok lexer.Token) bool {
	switch tok.Value {
	case "fn", "async", "unsafe", "extern":
		return true
	}
	return false
}
