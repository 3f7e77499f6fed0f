package lexer

import (
	"strings"
	"testing"
)

const benchmarkSource = `#include <stdio.h>

static const unsigned long table[] = { 0x1fUL, 017, 42, 'a', '\n' };

int main(int argc, char **argv)
{
	double ratio = .5e-3 + 1.25f;
	for (int i = 0; i < argc; i++) {
		if (argv[i][0] == '-' && argv[i][1] != '\0')
			printf("flag %s\n", argv[i]);
	}
	return ratio > 1.0 ? 1 : 0;
}
`

// BenchmarkTokenize measures both grammars over a typical translation unit
func BenchmarkTokenize(b *testing.B) {
	scenarios := map[string]string{
		"small": benchmarkSource,
		"large": strings.Repeat(benchmarkSource[len("#include <stdio.h>\n"):], 50),
	}

	for name, input := range scenarios {
		for _, mode := range []Mode{ModeToken, ModePreprocessing} {
			b.Run(name+"/"+mode.String(), func(b *testing.B) {
				s := New("")
				b.SetBytes(int64(len(input)))
				b.ReportAllocs()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					s.Init(input)
					for _, err := range s.All(mode) {
						if err != nil {
							b.Fatal(err)
						}
					}
				}
			})
		}
	}
}

// BenchmarkFailedAttempt measures the cost of a rule that does not match
func BenchmarkFailedAttempt(b *testing.B) {
	c := NewCursor("identifier_that_is_not_a_keyword")
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, _, ok := c.Try(Keyword); ok {
			b.Fatal("unexpected match")
		}
	}
}
