package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/structura"
	"github.com/tsawler/structura/internal/config"
	"github.com/tsawler/structura/logger"
	"github.com/tsawler/structura/model"
)

// result is the outcome for one input file.
type result struct {
	input    string
	output   string
	body     []byte
	warnings []structura.Warning
	err      error
}

// run executes the command and returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags, files, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(stderr, err)
		return ExitUsage
	}
	if flags.version {
		fmt.Fprintf(stdout, "structura %s\n", Version)
		return ExitSuccess
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitUsage
	}
	log, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitUsage
	}
	defer func() { _ = log.Sync() }()

	// maxprocs.Set only fails on an invalid GOMAXPROCS, in which case the
	// runtime default stands.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		log.Debug(fmt.Sprintf(format, args...))
	}))

	if len(files) == 0 {
		fmt.Fprintf(stderr, "%v: usage: structura [flags] FILE...\n", ErrNoInput)
		return exitCodeFor(ErrNoInput)
	}

	if flags.output != "" {
		if err := checkOutputs(flags.output, files, flags.format); err != nil {
			fmt.Fprintln(stderr, err)
			return exitCodeFor(err)
		}
	}

	results := convertAll(ctx, files, cfg, flags, log)

	code := ExitSuccess
	for _, r := range results {
		if r.err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", r.input, r.err)
			code = max(code, exitCodeFor(r.err))
			continue
		}
		if !flags.quiet {
			for _, w := range r.warnings {
				fmt.Fprintf(stderr, "%s: warning: %s\n", r.input, w)
			}
		}
		if r.output == "" {
			if _, err := stdout.Write(r.body); err != nil {
				fmt.Fprintf(stderr, "%v: %v\n", ErrWrite, err)
				return ExitIO
			}
		} else if !flags.quiet {
			fmt.Fprintf(stderr, "%s -> %s\n", r.input, r.output)
		}
	}
	return code
}

// loadConfig reads the configuration and applies explicitly set flags on
// top of it.
func loadConfig(flags *cliFlags) (*config.Config, error) {
	var envFiles []string
	if flags.envFile != "" {
		envFiles = append(envFiles, flags.envFile)
	}
	cfg, err := config.Load(flags.config, envFiles...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if flags.changed["include-hidden"] {
		cfg.Pipeline.IncludeHiddenLayers = flags.includeHidden
	}
	if flags.changed["page-chunk-size"] {
		cfg.Pipeline.PageChunkSize = flags.chunkSize
	}
	if flags.changed["ocr-lang"] {
		cfg.Pipeline.OCRLanguage = flags.ocrLanguage
	}
	if flags.changed["workers"] {
		cfg.Workers = flags.workers
	}
	if flags.verbose {
		cfg.Log.Level = "debug"
	}
	if flags.quiet {
		cfg.Log.Level = "error"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return cfg, nil
}

// convertAll processes files concurrently and returns the results in input
// order. A failing file does not stop the others.
func convertAll(ctx context.Context, files []string, cfg *config.Config, flags *cliFlags, log logger.Logger) []result {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	opts := cfg.ToOptions(log)

	results := make([]result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, file := range files {
		g.Go(func() error {
			results[i] = convertFile(ctx, file, opts, flags)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func convertFile(ctx context.Context, file string, opts structura.Options, flags *cliFlags) result {
	res := result{input: file}
	doc, warnings, err := structura.Open(file).WithOptions(opts).WithContext(ctx).Document()
	if err != nil {
		res.err = err
		return res
	}
	res.warnings = warnings

	body, err := render(doc, flags.format, flags.info)
	if err != nil {
		res.err = err
		return res
	}

	if flags.output == "" {
		res.body = body
		return res
	}
	res.output = outputPath(flags.output, file, flags.format)
	if err := os.MkdirAll(flags.output, 0o755); err != nil {
		res.err = fmt.Errorf("%w: %w", ErrWrite, err)
		return res
	}
	if err := os.WriteFile(res.output, body, 0o644); err != nil {
		res.err = fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return res
}

// outputPath names the output for input inside dir, replacing the input's
// extension with the format's.
func outputPath(dir, input, format string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+"."+format)
}

// checkOutputs fails when two inputs would write the same file in dir, such
// as a/x.md and b/x.md, or x.md and x.txt.
func checkOutputs(dir string, files []string, format string) error {
	seen := make(map[string]string, len(files))
	for _, file := range files {
		out := outputPath(dir, file, format)
		if prev, ok := seen[out]; ok {
			return fmt.Errorf("%w: %s and %s both write %s", ErrUsage, prev, file, out)
		}
		seen[out] = file
	}
	return nil
}

// render serializes doc in the requested format.
func render(doc *model.ParsedDocument, format string, info bool) ([]byte, error) {
	switch format {
	case formatMarkdown:
		return []byte(doc.ToMarkdown(model.MarkdownOptions{IncludeInfo: info})), nil

	case formatHTML:
		md := goldmark.New(goldmark.WithExtensions(extension.GFM))
		var buf bytes.Buffer
		if err := md.Convert([]byte(doc.ToMarkdown(model.MarkdownOptions{IncludeInfo: info})), &buf); err != nil {
			return nil, fmt.Errorf("rendering html: %w", err)
		}
		return buf.Bytes(), nil

	case formatJSON:
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding json: %w", err)
		}
		return append(out, '\n'), nil

	case formatYAML:
		out, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrUsage, format)
	}
}
