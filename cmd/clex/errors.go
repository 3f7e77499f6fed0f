package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	clexerrors "github.com/aledsdavies/clex/pkgs/errors"
	"github.com/aledsdavies/clex/pkgs/lexer"
)

const maxSuggestions = 3

// FormatError formats an error for CLI output with colors
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}

	var e *clexerrors.Error
	if errors.As(err, &e) {
		formatError(w, e, useColor)
		return
	}
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())
}

// formatError prints the message, its cause and any suggestions
func formatError(w io.Writer, err *clexerrors.Error, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Message)

	if err.Cause != nil {
		_, _ = fmt.Fprintf(w, "  %s\n", Colorize(err.Cause.Error(), ColorGray, useColor))
	}

	if value, ok := err.GetContext("suggestions"); ok {
		if suggestions, ok := value.([]string); ok && len(suggestions) > 0 {
			quoted := make([]string, len(suggestions))
			for i, s := range suggestions {
				quoted[i] = fmt.Sprintf("%q", s)
			}
			hint := fmt.Sprintf("Did you mean %s?", strings.Join(quoted, " or "))
			_, _ = fmt.Fprintf(w, "%s\n", Colorize(hint, ColorYellow, useColor))
		}
	}
}

// closestMatches finds the best fuzzy matches for target, closest first
func closestMatches(target string, candidates []string) []string {
	if target == "" || len(candidates) == 0 {
		return nil
	}

	ranks := fuzzy.RankFindFold(target, candidates)
	sort.Sort(ranks)

	var matches []string
	for _, r := range ranks {
		if len(matches) == maxSuggestions {
			break
		}
		matches = append(matches, r.Target)
	}
	return matches
}

// parseKinds turns --kind names into a filter set; nil means keep everything
func parseKinds(names []string) (map[lexer.TokenType]bool, error) {
	if len(names) == 0 {
		return nil, nil
	}

	kinds := make(map[lexer.TokenType]bool, len(names))
	for _, name := range names {
		typ, ok := lexer.ParseTokenType(strings.ToLower(strings.TrimSpace(name)))
		if !ok {
			return nil, clexerrors.NewInvalidArgumentError(
				fmt.Sprintf("unknown token kind %q", name),
				closestMatches(name, lexer.TokenTypeNames())...,
			).WithContext("kind", name)
		}
		kinds[typ] = true
	}
	return kinds, nil
}
