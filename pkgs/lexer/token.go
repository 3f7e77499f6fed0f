package lexer

import (
	"fmt"
)

// TokenType is the lexical category of a token
type TokenType int

const (
	// ILLEGAL is the zero value and never produced by a successful match
	ILLEGAL TokenType = iota

	KEYWORD    // auto, break, ... _Imaginary
	IDENTIFIER // foo, _bar, $baz, @q

	// Constants
	DECIMAL_CONSTANT     // 42, 10ul
	HEXADECIMAL_CONSTANT // 0x2A, 0XffLL
	OCTAL_CONSTANT       // 0, 052
	FLOATING_CONSTANT    // 1.5, .2f, 1e-3L
	CHARACTER_CONSTANT   // 'a', '\n'
	STRING_LITERAL       // "text"

	PUNCTUATOR // [ ] ( ) -> <<= %:%: ...

	// Preprocessing only
	HEADER_NAME    // <stdio.h>, "local.h"
	PP_NUMBER      // 1.2.3e+x
	WHITESPACE     // runs of space, tab, line endings
	NON_WHITESPACE // any single character no other rule accepts
)

// Pre-computed names, these are the canonical kind names used on the wire
var tokenNames = [...]string{
	ILLEGAL:              "illegal",
	KEYWORD:              "keyword",
	IDENTIFIER:           "identifier",
	DECIMAL_CONSTANT:     "decimal_constant",
	HEXADECIMAL_CONSTANT: "hexadecimal_constant",
	OCTAL_CONSTANT:       "octal_constant",
	FLOATING_CONSTANT:    "floating_constant",
	CHARACTER_CONSTANT:   "character_constant",
	STRING_LITERAL:       "string_literal",
	PUNCTUATOR:           "punctuator",
	HEADER_NAME:          "header_name",
	PP_NUMBER:            "pp_number",
	WHITESPACE:           "whitespace",
	NON_WHITESPACE:       "non_whitespace",
}

var tokenTypesByName = func() map[string]TokenType {
	m := make(map[string]TokenType, len(tokenNames))
	for t, name := range tokenNames {
		if TokenType(t) != ILLEGAL {
			m[name] = TokenType(t)
		}
	}
	return m
}()

func (t TokenType) String() string {
	if int(t) < len(tokenNames) && int(t) >= 0 {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// TokenTypeNames lists the names of every producible token type in
// declaration order.
func TokenTypeNames() []string {
	return append([]string(nil), tokenNames[KEYWORD:]...)
}

// ParseTokenType returns the token type with the given canonical name.
func ParseTokenType(name string) (TokenType, bool) {
	t, ok := tokenTypesByName[name]
	return t, ok
}

// Valid reports whether t is a type a rule can produce.
func (t TokenType) Valid() bool {
	return t > ILLEGAL && t <= NON_WHITESPACE
}

// IsConstant reports whether t is one of the integer, floating or character
// constant types.
func (t TokenType) IsConstant() bool {
	return t >= DECIMAL_CONSTANT && t <= CHARACTER_CONSTANT
}

// Position represents a position in the source buffer
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number, counted in characters
	Offset int // 0-based byte offset
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a classified fragment of source text. Text is exactly the
// consumed substring and Position is where it starts.
type Token struct {
	Type     TokenType
	Text     string
	Position Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q at %s", t.Type, t.Text, t.Position)
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	return t.Position.Offset + len(t.Text)
}
