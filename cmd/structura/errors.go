package main

import (
	"errors"
	"os"

	"github.com/tsawler/structura/source"
)

// Sentinel errors for the command line.
var (
	ErrUsage   = errors.New("invalid usage")
	ErrNoInput = errors.New("no input files")
	ErrWrite   = errors.New("failed to write output")
)

// Exit codes follow Unix conventions: 0 success, 1 general, 2 usage.
const (
	ExitSuccess = 0
	ExitGeneral = 1
	ExitUsage   = 2
	ExitIO      = 3
	ExitFormat  = 4
)

// exitCodeFor returns the exit code for err. Callers must wrap with %w.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUsage), errors.Is(err, ErrNoInput):
		return ExitUsage
	case errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission), errors.Is(err, ErrWrite):
		return ExitIO
	case errors.Is(err, source.ErrUnsupportedFormat), errors.Is(err, source.ErrEmptyInput), errors.Is(err, source.ErrNotCSV):
		return ExitFormat
	default:
		return ExitGeneral
	}
}
