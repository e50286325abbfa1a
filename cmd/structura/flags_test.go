package main

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantFormat string
		wantOutput string
		wantFiles  []string
		wantSet    []string
		wantErr    bool
	}{
		{
			name:       "defaults",
			args:       []string{"a.pdf"},
			wantFormat: "md",
			wantFiles:  []string{"a.pdf"},
		},
		{
			name:       "format and output",
			args:       []string{"-f", "json", "-o", "out", "a.pdf", "b.docx"},
			wantFormat: "json",
			wantOutput: "out",
			wantFiles:  []string{"a.pdf", "b.docx"},
			wantSet:    []string{"format", "output"},
		},
		{
			name:       "format aliases",
			args:       []string{"--format", "YML"},
			wantFormat: "yaml",
			wantFiles:  []string{},
			wantSet:    []string{"format"},
		},
		{
			name:       "pipeline flags",
			args:       []string{"--include-hidden", "--page-chunk-size", "20", "--ocr-lang", "deu", "-w", "2", "x.txt"},
			wantFormat: "md",
			wantFiles:  []string{"x.txt"},
			wantSet:    []string{"include-hidden", "page-chunk-size", "ocr-lang", "workers"},
		},
		{name: "unknown format", args: []string{"-f", "docx"}, wantErr: true},
		{name: "quiet and verbose", args: []string{"-q", "-v"}, wantErr: true},
		{name: "unknown flag", args: []string{"--bogus"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, files, err := parseFlags(tt.args, io.Discard)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormat, f.format)
			assert.Equal(t, tt.wantOutput, f.output)
			assert.Equal(t, tt.wantFiles, files)
			for _, name := range tt.wantSet {
				assert.True(t, f.changed[name], name)
			}
		})
	}
}

func TestParseFlagsValues(t *testing.T) {
	f, _, err := parseFlags([]string{"--include-hidden", "--page-chunk-size=20", "--ocr-lang", "deu", "--info"}, io.Discard)
	require.NoError(t, err)
	assert.True(t, f.includeHidden)
	assert.Equal(t, 20, f.chunkSize)
	assert.Equal(t, "deu", f.ocrLanguage)
	assert.True(t, f.info)
	assert.False(t, f.changed["workers"])
}
