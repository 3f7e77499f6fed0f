package lexer

import "fmt"

// Mode selects which of the two token grammars the scanner applies
type Mode int

const (
	ModeToken         Mode = iota // token grammar, for the compiler proper
	ModePreprocessing             // preprocessing-token grammar, translation phase 3
)

func (m Mode) String() string {
	switch m {
	case ModeToken:
		return "token"
	case ModePreprocessing:
		return "preprocessing-token"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Grammar returns the composed rule for the mode.
func (m Mode) Grammar() Rule {
	if m == ModePreprocessing {
		return PreprocessingGrammar
	}
	return TokenGrammar
}

// ParseMode accepts "token" / "tok" and "preprocessing-token" / "pp".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "token", "tok":
		return ModeToken, nil
	case "preprocessing-token", "pp":
		return ModePreprocessing, nil
	}
	return 0, fmt.Errorf("unknown mode %q (want token or pp)", s)
}
