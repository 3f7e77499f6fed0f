package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	clexerrors "github.com/aledsdavies/clex/pkgs/errors"
	"github.com/aledsdavies/clex/pkgs/lexer"
)

// Exit codes
const (
	exitOK = iota
	exitInvalidArguments
	exitInputError
	exitLexicalError
	exitOutputError
)

// ioStreams lets tests drive the command without touching the process streams
type ioStreams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

type options struct {
	mode           string
	format         string
	kinds          []string
	noTrigraphs    bool
	skipWhitespace bool
	stats          bool
	watch          bool
	decode         bool
	debug          bool
	noColor        bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	streams := ioStreams{in: os.Stdin, out: os.Stdout, err: os.Stderr}
	os.Exit(execute(ctx, streams, os.Args[1:]))
}

// execute runs the root command and maps its error to an exit code
func execute(ctx context.Context, streams ioStreams, args []string) int {
	opts := &options{}
	rootCmd := newRootCmd(streams, opts)
	// cobra reads os.Args when given nil
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	FormatError(streams.err, err, ShouldUseColor(streams.err, opts.noColor))
	return exitCode(err)
}

func newRootCmd(streams ioStreams, opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "clex [file|-]",
		Short: "Tokenize C source into tokens or preprocessing tokens",
		Long: `clex applies trigraph translation to a C source file and splits it into
tokens (--mode token) or preprocessing tokens (--mode pp).

With no file argument, or with "-", the source is read from stdin.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd.Context(), streams, opts, args)
		},
	}
	rootCmd.SetIn(streams.in)
	rootCmd.SetOut(streams.out)
	rootCmd.SetErr(streams.err)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clexerrors.Wrap(clexerrors.ErrInvalidArguments, "invalid flags", err)
	})

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.mode, "mode", "m", "token", "Grammar to apply: token or pp")
	flags.StringVarP(&opts.format, "format", "o", "text", "Output format: text, json or bin")
	flags.StringSliceVarP(&opts.kinds, "kind", "k", nil, "Only print tokens of these kinds (repeatable)")
	flags.BoolVar(&opts.noTrigraphs, "no-trigraphs", false, "Skip trigraph translation")
	flags.BoolVar(&opts.skipWhitespace, "skip-whitespace", false, "Drop whitespace tokens from the output")
	flags.BoolVar(&opts.stats, "stats", false, "Print per-kind token counts to stderr")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "Re-tokenize the file whenever it changes")
	flags.BoolVar(&opts.decode, "decode", false, "Read a binary token stream instead of C source")
	flags.BoolVar(&opts.debug, "debug", false, "Trace rule matches to stderr")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	return rootCmd
}

func runCommand(ctx context.Context, streams ioStreams, opts *options, args []string) error {
	cfg, err := opts.resolve()
	if err != nil {
		return err
	}

	path := "-"
	if len(args) == 1 {
		path = args[0]
	}

	if opts.watch {
		if path == "-" {
			return clexerrors.NewInvalidArgumentError("--watch needs a file argument")
		}
		return watchFile(ctx, path, func() error {
			return tokenizeFile(streams, cfg, path)
		}, streams.err)
	}
	return tokenizeFile(streams, cfg, path)
}

// tokenizeFile reads path (or stdin for "-") and writes its tokens
func tokenizeFile(streams ioStreams, cfg *runConfig, path string) error {
	reader, name, closeFunc, err := getInputReader(path, streams.in)
	if err != nil {
		return err
	}
	defer func() { _ = closeFunc() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return clexerrors.NewInputError(name, err)
	}

	if cfg.decode {
		return decodeStream(streams, cfg, name, data)
	}
	return tokenize(streams, cfg, name, string(data))
}

// getInputReader handles the 2 modes of input:
// 1. Explicit or implied stdin with "-"
// 2. File input
func getInputReader(path string, stdin io.Reader) (io.Reader, string, func() error, error) {
	if path == "-" {
		if f, ok := stdin.(*os.File); ok && !hasPipedInput(f) {
			return nil, "", nil, clexerrors.NewInvalidArgumentError("no input: pass a file or pipe source to stdin")
		}
		return stdin, "<stdin>", func() error { return nil }, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", nil, clexerrors.NewInputError(path, err)
	}
	return f, path, f.Close, nil
}

// hasPipedInput detects if there's data piped to stdin
func hasPipedInput(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	// Pipes may not report a size, so only the mode is checked
	return (stat.Mode() & os.ModeCharDevice) == 0
}

func exitCode(err error) int {
	switch clexerrors.TypeOf(err) {
	case clexerrors.ErrInputRead, clexerrors.ErrDecode:
		return exitInputError
	case clexerrors.ErrLexical:
		return exitLexicalError
	case clexerrors.ErrEncode:
		return exitOutputError
	default:
		// cobra's own argument errors land here too
		return exitInvalidArguments
	}
}

// runConfig is the validated form of options
type runConfig struct {
	mode           lexer.Mode
	format         string
	kinds          map[lexer.TokenType]bool
	trigraphs      bool
	skipWhitespace bool
	stats          bool
	decode         bool
	debug          bool
	color          bool
}

func (o *options) resolve() (*runConfig, error) {
	mode, err := lexer.ParseMode(o.mode)
	if err != nil {
		return nil, clexerrors.Wrap(clexerrors.ErrInvalidArguments, "invalid --mode", err).
			WithContext("suggestions", closestMatches(o.mode, []string{"token", "pp"}))
	}

	format := strings.ToLower(o.format)
	switch format {
	case formatText, formatJSON, formatBinary:
	default:
		return nil, clexerrors.NewInvalidArgumentError(
			fmt.Sprintf("unknown --format %q (want text, json or bin)", o.format),
			closestMatches(o.format, []string{formatText, formatJSON, formatBinary})...)
	}

	kinds, err := parseKinds(o.kinds)
	if err != nil {
		return nil, err
	}

	return &runConfig{
		mode:           mode,
		format:         format,
		kinds:          kinds,
		trigraphs:      !o.noTrigraphs,
		skipWhitespace: o.skipWhitespace,
		stats:          o.stats,
		decode:         o.decode,
		debug:          o.debug,
		color:          !o.noColor,
	}, nil
}
