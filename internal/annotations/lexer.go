package annotations

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// RustLexer tokenizes Rust source well enough to find attributes and parse
// function headers. Comments, strings and char literals are recognised so
// that attribute-like text inside them is never matched.
var RustLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "BlockComment", Pattern: `/\*(?:[^*]|\*+[^*/])*\*+/`},
	{Name: "RawString", Pattern: `b?r##"(?s:.*?)"##|b?r#"(?s:.*?)"#|b?r"[^"]*"`},
	{Name: "String", Pattern: `b?"(?:\\.|[^"\\])*"`},
	{Name: "Char", Pattern: `b?'(?:\\u\{[0-9a-fA-F]+\}|\\.|[^'\\])'`},
	{Name: "Lifetime", Pattern: `'[\p{L}_][\p{L}\p{N}_]*`},
	{Name: "Ident", Pattern: `r#[\p{L}_][\p{L}\p{N}_]*|[\p{L}_][\p{L}\p{N}_]*`},
	{Name: "Number", Pattern: `0[xob][0-9a-fA-F_]+(?:[iu](?:8|16|32|64|128|size))?|[0-9][0-9_]*(?:\.[0-9][0-9_]*)?(?:[eE][+-]?[0-9]+)?(?:[iuf](?:8|16|32|64|128|size))?`},
	{Name: "Punct", Pattern: `::|->|=>|\.\.=|\.\.\.|\.\.|[-+*/%^!&|=<>@.,;:#$?~\[\](){}]`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Other", Pattern: `.`},
})

// TokenKinds maps the lexer's symbol names to token types
var TokenKinds = RustLexer.Symbols()

// Elided lists the token types the grammars skip
var Elided = []string{"Whitespace", "Comment", "BlockComment"}

// Tokenize returns the significant tokens of src, dropping whitespace and comments
func Tokenize(filename, src string) ([]lexer.Token, error) {
	lex, err := RustLexer.LexString(filename, src)
	if err != nil {
		return nil, err
	}

	skip := map[lexer.TokenType]bool{}
	for _, name := range Elided {
		skip[TokenKinds[name]] = true
	}

	var tokens []lexer.Token
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF() {
			return tokens, nil
		}
		if !skip[tok.Type] {
			tokens = append(tokens, tok)
		}
	}
}

// IsPunct reports whether tok is the punctuation value
func IsPunct(tok lexer.Token, value string) bool {
	return tok.Type == TokenKinds["Punct"] && tok.Value == value
}

// IsIdent reports whether tok is the identifier or keyword value
func IsIdent(tok lexer.Token, value string) bool {
	return tok.Type == TokenKinds["Ident"] && tok.Value == value
}

// unquoteRust decodes a Rust string literal, raw or cooked
func unquoteRust(lit string) (string, error) {
	if strings.HasPrefix(lit, "b") {
		return "", fmt.Errorf("byte string %s is not a string literal", lit)
	}
	if strings.HasPrefix(lit, "r") {
		body := strings.TrimPrefix(lit, "r")
		hashes := len(body) - len(strings.TrimLeft(body, "#"))
		body = body[hashes:]
		return body[1 : len(body)-1-hashes], nil
	}

	body := lit[1 : len(lit)-1]
	var out strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			out.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("unterminated escape in %s", lit)
		}
		switch body[i] {
		case 'n':
			out.WriteByte('\n')
		case 'r':
			out.WriteByte('\r')
		case 't':
			out.WriteByte('\t')
		case '0':
			out.WriteByte(0)
		case '\\', '"', '\'':
			out.WriteByte(body[i])
		case '\n':
			// line continuation skips the newline and leading whitespace
			for i+1 < len(body) && strings.ContainsRune(" \t\r\n", rune(body[i+1])) {
				i++
			}
		case 'u':
			end := strings.IndexByte(body[i:], '}')
			if i+1 >= len(body) || body[i+1] != '{' || end < 0 {
				return "", fmt.Errorf("invalid unicode escape in %s", lit)
			}
			var r rune
			if _, err := fmt.Sscanf(body[i+2:i+end], "%x", &r); err != nil {
				return "", fmt.Errorf("invalid unicode escape in %s: %w", lit, err)
			}
			out.WriteRune(r)
			i += end
		case 'x':
			if i+2 >= len(body) {
				return "", fmt.Errorf("invalid hex escape in %s", lit)
			}
			var b byte
			if _, err := fmt.Sscanf(body[i+1:i+3], "%02x", &b); err != nil {
				return "", fmt.Errorf("invalid hex escape in %s: %w", lit, err)
			}
			out.WriteByte(b)
			i += 2
		default:
			return "", fmt.Errorf("unknown escape \\%c in %s", body[i], lit)
		}
	}
	return out.String(), nil
}
