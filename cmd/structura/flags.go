package main

import (
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Output formats.
const (
	formatMarkdown = "md"
	formatHTML     = "html"
	formatJSON     = "json"
	formatYAML     = "yaml"
)

// cliFlags holds every command line flag.
type cliFlags struct {
	config  string
	envFile string

	output string
	format string
	info   bool

	includeHidden bool
	chunkSize     int
	ocrLanguage   string
	workers       int

	quiet   bool
	verbose bool
	version bool

	// changed records which flags were set explicitly, so that only those
	// override the loaded configuration.
	changed map[string]bool
}

// parseFlags parses args, which exclude the program name, and returns the
// flags and the input files.
func parseFlags(args []string, stderr io.Writer) (*cliFlags, []string, error) {
	f := &cliFlags{changed: make(map[string]bool)}
	fs := flag.NewFlagSet("structura", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: structura [flags] FILE...\n\nFlags:\n%s", fs.FlagUsages())
	}

	fs.StringVarP(&f.config, "config", "c", "", "YAML config file")
	fs.StringVar(&f.envFile, "env-file", "", "env file to load (default ./.env when present)")

	fs.StringVarP(&f.output, "output", "o", "", "output directory (default: stdout)")
	fs.StringVarP(&f.format, "format", "f", formatMarkdown, "output format: md, html, json, yaml")
	fs.BoolVar(&f.info, "info", false, "prepend a document information section to md and html output")

	fs.BoolVar(&f.includeHidden, "include-hidden", false, "keep hidden layers, slides, sheets and elements")
	fs.IntVar(&f.chunkSize, "page-chunk-size", 0, "lines per synthetic page for unpaginated input")
	fs.StringVar(&f.ocrLanguage, "ocr-lang", "", "Tesseract languages, such as eng+deu")
	fs.IntVarP(&f.workers, "workers", "w", 0, "files processed at once (0 = one per CPU)")

	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log every pipeline stage")
	fs.BoolVar(&f.version, "version", false, "print the version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.changed[fl.Name] = true })

	f.format = strings.ToLower(strings.TrimPrefix(f.format, "."))
	if f.format == "markdown" {
		f.format = formatMarkdown
	}
	if f.format == "yml" {
		f.format = formatYAML
	}
	switch f.format {
	case formatMarkdown, formatHTML, formatJSON, formatYAML:
	default:
		return nil, nil, fmt.Errorf("%w: unknown format %q", ErrUsage, f.format)
	}
	if f.quiet && f.verbose {
		return nil, nil, fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrUsage)
	}

	return f, fs.Args(), nil
}
