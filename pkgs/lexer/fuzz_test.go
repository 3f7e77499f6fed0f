package lexer

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

// Fuzz tests for the scanning invariants:
//
// 1. FuzzPreprocessingTotal - the preprocessing grammar never fails and
//    its tokens concatenate back to the input
// 2. FuzzTokenPrefix - the token grammar either consumes everything or stops
//    with a NoMatchError right after the tokens it produced
//
// Both check that positions are monotonic and consistent with the text.

func addSeedCorpus(f *testing.F) {
	f.Add("")
	f.Add("int main(void) { return 0; }")
	f.Add("#include <stdio.h>\n#include \"x.h\"\n")
	f.Add(".2f-5")
	f.Add("129uLf")
	f.Add("x = a ? b : c; y <<= 2;")
	f.Add("'\\'' \"\\\"\" '' \"\"")
	f.Add("%:%: <: :> <% %>")
	f.Add("a\r\nb\rc\n")
	f.Add("1.2.3e+x .5e-3f 0x1p-3")
	f.Add("`@$\\\x00\xff")
	f.Add("日本語 = \"é\";")
}

// checkStream validates offsets, positions and reconstruction of a token prefix
func checkStream(t *testing.T, input string, tokens []Token) string {
	t.Helper()

	var sb strings.Builder
	line, column, offset := 1, 1, 0
	for i, tok := range tokens {
		if tok.Text == "" {
			t.Fatalf("token[%d] %s is empty", i, tok)
		}
		if tok.Position.Offset != offset {
			t.Fatalf("token[%d] %s starts at %d, want %d", i, tok, tok.Position.Offset, offset)
		}
		if tok.Position.Line != line || tok.Position.Column != column {
			t.Fatalf("token[%d] %s at %d:%d, want %d:%d", i, tok, tok.Position.Line, tok.Position.Column, line, column)
		}
		if tok.Position.Line < 1 || tok.Position.Column < 1 {
			t.Fatalf("token[%d] %s has invalid position", i, tok)
		}

		// recompute the position independently, one character at a time
		for j := 0; j < len(tok.Text); {
			switch tok.Text[j] {
			case '\r':
				if j+1 < len(tok.Text) && tok.Text[j+1] == '\n' {
					j++
				}
				line, column = line+1, 1
				j++
			case '\n':
				line, column = line+1, 1
				j++
			default:
				_, size := utf8.DecodeRuneInString(tok.Text[j:])
				column++
				j += size
			}
		}
		offset = tok.End()
		sb.WriteString(tok.Text)
	}

	if !strings.HasPrefix(input, sb.String()) {
		t.Fatalf("tokens do not reconstruct a prefix of the input")
	}
	return sb.String()
}

func FuzzPreprocessingTotal(f *testing.F) {
	addSeedCorpus(f)
	f.Fuzz(func(t *testing.T, input string) {
		tokens, err := Tokenize(input, ModePreprocessing)
		if err != nil {
			t.Fatalf("preprocessing grammar failed on %q: %v", input, err)
		}
		if got := checkStream(t, input, tokens); got != input {
			t.Fatalf("reconstructed %q, want %q", got, input)
		}
	})
}

func FuzzTokenPrefix(f *testing.F) {
	addSeedCorpus(f)
	f.Fuzz(func(t *testing.T, input string) {
		tokens, err := Tokenize(input, ModeToken)
		consumed := checkStream(t, input, tokens)
		if err == nil {
			if consumed != input {
				t.Fatalf("stopped early without an error: %q of %q", consumed, input)
			}
			return
		}

		var noMatch *NoMatchError
		if !errors.As(err, &noMatch) {
			t.Fatalf("unexpected error type %T: %v", err, err)
		}
		if noMatch.Position.Offset != len(consumed) {
			t.Fatalf("error at offset %d, tokens end at %d", noMatch.Position.Offset, len(consumed))
		}
	})
}
