package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenTypeNames(t *testing.T) {
	names := TokenTypeNames()
	require.Equal(t, []string{
		"keyword", "identifier", "decimal_constant", "hexadecimal_constant",
		"octal_constant", "floating_constant", "character_constant",
		"string_literal", "punctuator", "header_name", "pp_number",
		"whitespace", "non_whitespace",
	}, names)

	for _, name := range names {
		typ, ok := ParseTokenType(name)
		require.True(t, ok, name)
		assert.Equal(t, name, typ.String())
	}

	_, ok := ParseTokenType("illegal")
	assert.False(t, ok)
	assert.Equal(t, "TokenType(99)", TokenType(99).String())
}

func TestTokenTypeIsConstant(t *testing.T) {
	assert.True(t, OCTAL_CONSTANT.IsConstant())
	assert.True(t, CHARACTER_CONSTANT.IsConstant())
	assert.False(t, STRING_LITERAL.IsConstant())
	assert.False(t, PP_NUMBER.IsConstant())

	assert.True(t, NON_WHITESPACE.Valid())
	assert.False(t, ILLEGAL.Valid())
	assert.False(t, TokenType(99).Valid())
}

func TestTokenString(t *testing.T) {
	tok := Token{Type: PUNCTUATOR, Text: "->", Position: Position{Line: 3, Column: 7, Offset: 40}}
	assert.Equal(t, `punctuator "->" at 3:7`, tok.String())
	assert.Equal(t, 42, tok.End())
}
