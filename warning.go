package structura

import (
	"strings"

	"github.com/tsawler/structura/source"
)

// Warning is a non-fatal problem. The document was produced but may be
// incomplete, for example when a slide could not be read.
type Warning struct {
	// Source names the parser that raised the warning.
	Source string
	// Page is the page, slide or sheet concerned, or 0.
	Page    int
	Message string
}

func (w Warning) String() string {
	return source.Warning(w).String()
}

func fromSource(ws []source.Warning) []Warning {
	if len(ws) == 0 {
		return nil
	}
	out := make([]Warning, len(ws))
	for i, w := range ws {
		out[i] = Warning(w)
	}
	return out
}

// FormatWarnings joins warnings one per line.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
