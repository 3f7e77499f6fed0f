package main

import (
	"context"
	"io"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	clexerrors "github.com/aledsdavies/clex/pkgs/errors"
)

// watchFile runs fn once and again after every write to path, until ctx is
// done. Lexical errors are reported and watching continues; anything else
// stops the loop.
func watchFile(ctx context.Context, path string, fn func() error, errOut io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return clexerrors.NewInputError(path, err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors often replace the file instead of writing it
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return clexerrors.NewInputError(path, err)
	}

	run := func() error {
		err := fn()
		if err != nil && clexerrors.IsErrorType(err, clexerrors.ErrLexical) {
			FormatError(errOut, err, ShouldUseColor(errOut, false))
			return nil
		}
		return err
	}

	if err := run(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if err := run(); err != nil {
					return err
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return clexerrors.NewInputError(path, err)
		}
	}
}
