package main

import (
	"io"
	"os"

	"github.com/aledsdavies/clex/pkgs/lexer"
)

const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorGray   = "\033[90m"
)

// Colorize wraps text in ANSI color codes if color is enabled
func Colorize(text, color string, useColor bool) string {
	if !useColor || color == "" {
		return text
	}
	return color + text + ColorReset
}

// ShouldUseColor determines if color output should be used for w.
// Respects --no-color flag and NO_COLOR environment variable
func ShouldUseColor(w io.Writer, noColorFlag bool) bool {
	if noColorFlag {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// kindColor picks the color used for a token type in text output
func kindColor(t lexer.TokenType) string {
	switch {
	case t == lexer.KEYWORD:
		return ColorBlue
	case t.IsConstant(), t == lexer.PP_NUMBER:
		return ColorYellow
	case t == lexer.STRING_LITERAL, t == lexer.HEADER_NAME:
		return ColorGreen
	case t == lexer.IDENTIFIER:
		return ColorCyan
	case t == lexer.WHITESPACE, t == lexer.PUNCTUATOR:
		return ColorGray
	case t == lexer.NON_WHITESPACE:
		return ColorRed
	}
	return ""
}
