package lexer

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ASCII lookup tables for the lookahead checks that regexp cannot express
var (
	isIdentPart [128]bool // letters, digits, '_' and the implementation-defined '$' and '@'
	isNumberEnd [128]bool // characters that may not directly follow a numeric constant
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		letter := ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
		digit := '0' <= ch && ch <= '9'
		isIdentPart[i] = letter || digit || ch == '_' || ch == '$' || ch == '@'
		isNumberEnd[i] = letter || digit || ch == '_' || ch == '.'
	}
}

// Rule recognizes one lexical production anchored at the start of src.
// Match returns the token type and the number of bytes consumed. A rule that
// does not match returns ok == false and has no other effect.
type Rule interface {
	Match(src string) (typ TokenType, n int, ok bool)
}

// rule is a single production producing one token type
type rule struct {
	name  string
	typ   TokenType
	match func(src string) int // consumed bytes, 0 for no match
}

func (r *rule) Match(src string) (TokenType, int, bool) {
	n := r.match(src)
	if n <= 0 {
		return ILLEGAL, 0, false
	}
	return r.typ, n, true
}

func (r *rule) String() string { return r.name }

// alternatives tries each rule in order and returns the first match
type alternatives struct {
	name  string
	rules []Rule
}

// FirstOf composes rules into one that returns the first successful
// alternative in the given order.
func FirstOf(name string, rules ...Rule) Rule {
	return &alternatives{name: name, rules: rules}
}

func (a *alternatives) Match(src string) (TokenType, int, bool) {
	for _, r := range a.rules {
		if typ, n, ok := r.Match(src); ok {
			return typ, n, true
		}
	}
	return ILLEGAL, 0, false
}

func (a *alternatives) String() string { return a.name }

// pattern builds a rule from a regular expression. The expression is anchored
// at the start of the input and matched leftmost-longest. When barrier is set
// the match is rejected if the byte after it satisfies barrier.
func pattern(name string, typ TokenType, expr string, barrier *[128]bool) *rule {
	re := regexp.MustCompile(`\A(?:` + expr + `)`)
	re.Longest()
	return &rule{
		name: name,
		typ:  typ,
		match: func(src string) int {
			loc := re.FindStringIndex(src)
			if loc == nil {
				return 0
			}
			end := loc[1]
			if barrier != nil && end < len(src) && src[end] < utf8.RuneSelf && barrier[src[end]] {
				return 0
			}
			return end
		},
	}
}

// words builds a rule that accepts the first listed word found at the start
// of the input. With barrier set a word only counts when the following byte
// does not satisfy barrier.
func words(name string, typ TokenType, list []string, barrier *[128]bool) *rule {
	return &rule{
		name: name,
		typ:  typ,
		match: func(src string) int {
			for _, w := range list {
				if !strings.HasPrefix(src, w) {
					continue
				}
				if barrier != nil && len(src) > len(w) && src[len(w)] < utf8.RuneSelf && barrier[src[len(w)]] {
					continue
				}
				return len(w)
			}
			return 0
		},
	}
}

// Keywords are the 37 reserved words of C99.
var Keywords = []string{
	"auto", "break", "case", "char", "const", "continue", "default", "do",
	"double", "else", "enum", "extern", "float", "for", "goto", "if",
	"inline", "int", "long", "register", "restrict", "return", "short",
	"signed", "sizeof", "static", "struct", "switch", "typedef", "union",
	"unsigned", "void", "volatile", "while", "_Bool", "_Complex", "_Imaginary",
}

// Punctuators lists every C99 punctuator, digraphs included. Longer
// punctuators come before their prefixes so the first match is the longest.
var Punctuators = []string{
	"%:%:",
	"...", "<<=", ">>=",
	"->", "++", "--", "<<", ">>", "<=", ">=", "==", "!=", "&&", "||",
	"*=", "/=", "%=", "+=", "-=", "&=", "^=", "|=", "##",
	"<:", ":>", "<%", "%>", "%:",
	"[", "]", "(", ")", "{", "}", ".", "&", "*", "+", "-", "~", "!",
	"/", "%", "<", ">", "?", ":", ";", "=", ",", "#", "^", "|",
}

const (
	integerSuffix = `(?:[uU](?:ll|LL|[lL])?|(?:ll|LL|[lL])[uU]?)?`
	exponentPart  = `[eE][+-]?[0-9]+`
	quoted        = `"(?:[^"\\\r\n]|\\.)*"`
)

// Leaf productions
var (
	Keyword = words("keyword", KEYWORD, Keywords, &isIdentPart)

	// Identifier accepts a single character identifier such as "x"
	Identifier = pattern("identifier", IDENTIFIER, `[A-Za-z_$@][A-Za-z0-9_$@]*`, nil)

	DecimalConstant     = pattern("decimal-constant", DECIMAL_CONSTANT, `[1-9][0-9]*`+integerSuffix, &isNumberEnd)
	HexadecimalConstant = pattern("hexadecimal-constant", HEXADECIMAL_CONSTANT, `0[xX][0-9A-Fa-f]+`+integerSuffix, &isNumberEnd)
	OctalConstant       = pattern("octal-constant", OCTAL_CONSTANT, `0[0-7]*`+integerSuffix, &isNumberEnd)

	FloatingConstant = pattern("floating-constant", FLOATING_CONSTANT,
		`(?:[0-9]*\.[0-9]+|[0-9]+\.)(?:`+exponentPart+`)?[fFlL]?|[0-9]+`+exponentPart+`[fFlL]?`, &isNumberEnd)

	CharacterConstant = pattern("character-constant", CHARACTER_CONSTANT, `'(?:[^'\\\r\n]|\\.)*'`, nil)
	StringLiteral     = pattern("string-literal", STRING_LITERAL, quoted, nil)

	Punctuator = words("punctuator", PUNCTUATOR, Punctuators, nil)

	HeaderName = pattern("header-name", HEADER_NAME, `<[^>\r\n]+>|`+quoted, nil)
	PPNumber   = pattern("pp-number", PP_NUMBER, `\.?[0-9](?:[eEpP][+-]|[0-9A-Za-z_$@.])*`, nil)
	Whitespace = pattern("whitespace", WHITESPACE, `[ \t\n\r\v\f]+`, nil)

	// NonWhitespace consumes exactly one character. A byte that is not valid
	// UTF-8 counts as one character.
	NonWhitespace = &rule{
		name: "non-whitespace",
		typ:  NON_WHITESPACE,
		match: func(src string) int {
			if src == "" {
				return 0
			}
			_, size := utf8.DecodeRuneInString(src)
			return size
		},
	}
)

// Compositions
var (
	IntegerConstant = FirstOf("integer-constant", DecimalConstant, HexadecimalConstant, OctalConstant)
	Constant        = FirstOf("constant", IntegerConstant, FloatingConstant, CharacterConstant)

	// TokenGrammar is the token production used after preprocessing.
	TokenGrammar = FirstOf("token",
		Keyword, Identifier, Constant, StringLiteral, Punctuator, Whitespace)

	// PreprocessingGrammar is the preprocessing-token production.
	PreprocessingGrammar = FirstOf("preprocessing-token",
		HeaderName, Identifier, PPNumber, CharacterConstant, StringLiteral,
		Punctuator, Whitespace, NonWhitespace)
)
