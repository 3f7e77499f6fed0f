// Package trigraph implements translation phase 1 of a C front end: the
// replacement of the nine ISO C trigraph sequences with the single characters
// they stand for.
package trigraph

import "strings"

// replacements maps the third character of a "??x" sequence to its
// replacement.
var replacements = map[byte]string{
	'=':  "#",
	'(':  "[",
	'/':  "\\",
	')':  "]",
	'\'': "^",
	'<':  "{",
	'!':  "|",
	'>':  "}",
	'-':  "~",
}

var replacer = newReplacer()

func newReplacer() *strings.Replacer {
	pairs := make([]string, 0, 2*len(replacements))
	for third, repl := range replacements {
		pairs = append(pairs, "??"+string(third), repl)
	}
	return strings.NewReplacer(pairs...)
}

// Translate returns text with every trigraph replaced. The replacement is a
// single left-to-right pass over non-overlapping occurrences, so "???=" becomes
// "?#". No replacement character is '?', which makes Translate idempotent.
func Translate(text string) string {
	if !strings.Contains(text, "??") {
		return text
	}
	return replacer.Replace(text)
}

// Count reports how many trigraphs Translate would replace in text.
func Count(text string) int {
	n := 0
	for i := 0; i+2 < len(text); {
		if text[i] == '?' && text[i+1] == '?' {
			if _, ok := replacements[text[i+2]]; ok {
				n++
				i += 3
				continue
			}
		}
		i++
	}
	return n
}
