package main

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	clexerrors "github.com/aledsdavies/clex/pkgs/errors"
	"github.com/aledsdavies/clex/pkgs/lexer"
	"github.com/aledsdavies/clex/pkgs/tokfmt"
	"github.com/aledsdavies/clex/pkgs/trigraph"
)

// Output formats
const (
	formatText   = "text"
	formatJSON   = "json"
	formatBinary = "bin"
)

type jsonToken struct {
	Kind   string `json:"kind"`
	Text   string `json:"text"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Offset int    `json:"offset"`
}

// tokenize scans source and writes the selected tokens. Tokens scanned
// before a lexical error are still printed in text format.
func tokenize(streams ioStreams, cfg *runConfig, name, source string) error {
	translated := source
	if cfg.trigraphs {
		translated = trigraph.Translate(source)
	}

	opts := []lexer.Option{}
	if cfg.stats {
		opts = append(opts, lexer.WithTelemetry())
	}
	if cfg.skipWhitespace {
		opts = append(opts, lexer.WithSkipWhitespace())
	}
	if cfg.debug {
		opts = append(opts, lexer.WithLogger(debugLogger(streams.err)))
	}

	s := lexer.New(translated, opts...)
	var tokens []lexer.Token
	var scanErr error
	for tok, err := range s.All(cfg.mode) {
		if err != nil {
			scanErr = clexerrors.NewLexicalError(name, err)
			break
		}
		if cfg.kinds == nil || cfg.kinds[tok.Type] {
			tokens = append(tokens, tok)
		}
	}

	if scanErr != nil && cfg.format != formatText {
		return scanErr
	}

	stream := tokfmt.NewStream(cfg.mode, translated, tokens)
	if err := writeTokens(streams, cfg, stream); err != nil {
		return err
	}
	if scanErr != nil {
		return scanErr
	}

	if cfg.stats {
		writeStats(streams.err, trigraph.Count(source), s.Telemetry())
	}
	return nil
}

// decodeStream prints a stream previously written with --format bin
func decodeStream(streams ioStreams, cfg *runConfig, name string, data []byte) error {
	stream, digest, err := tokfmt.Read(bytes.NewReader(data))
	if err != nil {
		var e *clexerrors.Error
		if errors.As(err, &e) {
			e.WithContext("source", name)
		}
		return err
	}

	if cfg.kinds != nil {
		kept := stream.Tokens[:0]
		for _, tok := range stream.Tokens {
			if cfg.kinds[tok.Type] {
				kept = append(kept, tok)
			}
		}
		stream.Tokens = kept
		stream.Sparse = true
	}

	if err := writeTokens(streams, cfg, stream); err != nil {
		return err
	}
	if cfg.stats {
		_, _ = fmt.Fprintf(streams.err, "mode: %s\nblake2b-256: %s\n", stream.Mode, hex.EncodeToString(digest[:]))
		writeStats(streams.err, 0, countTokens(stream.Tokens))
	}
	return nil
}

func writeTokens(streams ioStreams, cfg *runConfig, stream tokfmt.Stream) error {
	var err error
	switch cfg.format {
	case formatJSON:
		err = writeJSON(streams.out, stream.Tokens)
	case formatBinary:
		var digest [32]byte
		digest, err = tokfmt.Write(streams.out, stream)
		if err == nil && cfg.stats {
			_, _ = fmt.Fprintf(streams.err, "blake2b-256: %s\n", hex.EncodeToString(digest[:]))
		}
		return err
	default:
		err = writeText(streams.out, stream.Tokens, cfg.color && ShouldUseColor(streams.out, false))
	}
	if err != nil {
		return clexerrors.Wrap(clexerrors.ErrEncode, "failed to write tokens", err).
			WithContext("format", cfg.format)
	}
	return nil
}

func writeText(w io.Writer, tokens []lexer.Token, useColor bool) error {
	bw := bufio.NewWriter(w)
	for _, tok := range tokens {
		kind := Colorize(tok.Type.String(), kindColor(tok.Type), useColor)
		if _, err := fmt.Fprintf(bw, "%s\t%s\t%q\n", tok.Position, kind, tok.Text); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeJSON(w io.Writer, tokens []lexer.Token) error {
	out := make([]jsonToken, len(tokens))
	for i, tok := range tokens {
		out[i] = jsonToken{
			Kind:   tok.Type.String(),
			Text:   tok.Text,
			Line:   tok.Position.Line,
			Column: tok.Position.Column,
			Offset: tok.Position.Offset,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// writeStats prints per-type counts in declaration order
func writeStats(w io.Writer, trigraphs int, telemetry map[lexer.TokenType]lexer.TokenTelemetry) {
	total := 0
	for _, t := range telemetry {
		total += t.Count
	}

	_, _ = fmt.Fprintf(w, "trigraphs: %d\ntokens: %d\n", trigraphs, total)
	for _, name := range lexer.TokenTypeNames() {
		typ, _ := lexer.ParseTokenType(name)
		if t, ok := telemetry[typ]; ok && t.Count > 0 {
			_, _ = fmt.Fprintf(w, "  %-20s %6d %8d bytes\n", name, t.Count, t.Bytes)
		}
	}
}

func countTokens(tokens []lexer.Token) map[lexer.TokenType]lexer.TokenTelemetry {
	counts := make(map[lexer.TokenType]lexer.TokenTelemetry)
	for _, tok := range tokens {
		t := counts[tok.Type]
		t.Type = tok.Type
		t.Count++
		t.Bytes += len(tok.Text)
		counts[tok.Type] = t
	}
	return counts
}

// debugLogger traces rule matches to w without timestamps or levels
func debugLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}
