package lexer

import (
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"
	"os"
	"sync"

	"github.com/aledsdavies/clex/internal/invariant"
)

// Option configures a Scanner
type Option func(*config)

type config struct {
	telemetry      bool
	skipWhitespace bool
	logger         *slog.Logger
}

// WithTelemetry enables per-type token counts (see Scanner.Telemetry)
func WithTelemetry() Option {
	return func(c *config) {
		c.telemetry = true
	}
}

// WithSkipWhitespace makes Next and NextPreprocessing consume whitespace
// tokens without returning them
func WithSkipWhitespace() Option {
	return func(c *config) {
		c.skipWhitespace = true
	}
}

// WithLogger sets the logger used for debug tracing
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// defaultLogger writes to stderr and only traces when CLEX_DEBUG_LEXER is set
var defaultLogger = sync.OnceValue(func() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("CLEX_DEBUG_LEXER") != "" {
		logLevel = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Remove timestamp and level for cleaner output
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
})

// TokenTelemetry holds per-type counts
type TokenTelemetry struct {
	Type  TokenType
	Count int
	Bytes int
}

// Scanner tokenizes an in-memory buffer. It owns a Cursor and replaces it
// after every committed match. A Scanner must not be used from more than one
// goroutine; use one Scanner per input instead.
type Scanner struct {
	cur Cursor

	skipWhitespace bool

	logger *slog.Logger
	debug  bool

	// nil when telemetry is disabled
	tokenTelemetry map[TokenType]*TokenTelemetry
}

// New creates a scanner over src, which should already be trigraph
// translated.
func New(src string, opts ...Option) *Scanner {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = defaultLogger()
	}

	s := &Scanner{
		skipWhitespace: cfg.skipWhitespace,
		logger:         cfg.logger,
		debug:          cfg.logger.Enabled(context.Background(), slog.LevelDebug),
	}
	if cfg.telemetry {
		s.tokenTelemetry = make(map[TokenType]*TokenTelemetry)
	}
	s.Init(src)
	return s
}

// Init resets the scanner to the start of src, keeping its options
func (s *Scanner) Init(src string) {
	s.cur = NewCursor(src)
	for k := range s.tokenTelemetry {
		delete(s.tokenTelemetry, k)
	}
}

// Cursor returns the current scanning state
func (s *Scanner) Cursor() Cursor { return s.cur }

// Position returns where the next token starts
func (s *Scanner) Position() Position { return s.cur.Position() }

// Done reports whether the input is exhausted
func (s *Scanner) Done() bool { return s.cur.Done() }

// TryMatch attempts a single rule at the cursor and commits it on success.
// A failed attempt leaves the scanner unchanged.
func (s *Scanner) TryMatch(r Rule) (Token, bool) {
	tok, next, ok := s.cur.Try(r)
	if !ok {
		return Token{}, false
	}
	s.commit(tok, next)
	return tok, true
}

// Next returns the next token of the token grammar. It returns io.EOF when
// the input is exhausted and a *NoMatchError when no rule applies.
func (s *Scanner) Next() (Token, error) {
	return s.NextIn(ModeToken)
}

// NextPreprocessing returns the next preprocessing token.
func (s *Scanner) NextPreprocessing() (Token, error) {
	return s.NextIn(ModePreprocessing)
}

// NextIn returns the next token of the grammar selected by mode.
func (s *Scanner) NextIn(mode Mode) (Token, error) {
	for {
		tok, next, err := s.cur.Next(mode)
		if err != nil {
			if s.debug && !errors.Is(err, io.EOF) {
				s.logger.Debug("[LEXER] No rule matched",
					"mode", mode.String(),
					"position", s.cur.Position().String())
			}
			return Token{}, err
		}
		invariant.Invariant(next.pos.Offset > s.cur.pos.Offset, "scanner must advance at offset %d", s.cur.pos.Offset)
		s.commit(tok, next)
		if s.skipWhitespace && tok.Type == WHITESPACE {
			continue
		}
		return tok, nil
	}
}

// All yields the remaining tokens of the grammar selected by mode. Iteration
// stops at the end of input or after yielding the first error.
func (s *Scanner) All(mode Mode) iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := s.NextIn(mode)
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(tok, err) || err != nil {
				return
			}
		}
	}
}

// Telemetry returns a copy of the per-type counts, or nil when telemetry is
// disabled
func (s *Scanner) Telemetry() map[TokenType]TokenTelemetry {
	if s.tokenTelemetry == nil {
		return nil
	}
	result := make(map[TokenType]TokenTelemetry, len(s.tokenTelemetry))
	for k, v := range s.tokenTelemetry {
		result[k] = *v
	}
	return result
}

func (s *Scanner) commit(tok Token, next Cursor) {
	s.cur = next

	if s.tokenTelemetry != nil {
		tt, ok := s.tokenTelemetry[tok.Type]
		if !ok {
			tt = &TokenTelemetry{Type: tok.Type}
			s.tokenTelemetry[tok.Type] = tt
		}
		tt.Count++
		tt.Bytes += len(tok.Text)
	}

	if s.debug {
		s.logger.Debug("[LEXER] Token",
			"type", tok.Type.String(),
			"text", tok.Text,
			"position", tok.Position.String())
	}
}

// Tokenize scans all of src with the grammar selected by mode. On a lexical
// error it returns the tokens scanned so far together with the error.
func Tokenize(src string, mode Mode, opts ...Option) ([]Token, error) {
	s := New(src, opts...)
	var tokens []Token
	for tok, err := range s.All(mode) {
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}
