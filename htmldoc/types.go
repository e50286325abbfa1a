// Package htmldoc converts HTML documents to Markdown.
//
// The markup is decoded using its declared or detected charset, parsed with
// golang.org/x/net/html and pruned of scripts, hidden elements and page
// chrome. What remains is sanitized with bluemonday and rendered to
// CommonMark with GFM tables by html-to-markdown.
package htmldoc

// NavigationExclusionMode controls how navigation, headers, and footers are filtered.
type NavigationExclusionMode int

const (
	// NavigationExclusionNone includes all content without filtering.
	NavigationExclusionNone NavigationExclusionMode = iota

	// NavigationExclusionExplicit skips <nav>, <aside> and the navigation
	// and complementary ARIA roles. <header> and <footer> are only skipped
	// as direct children of <body> or of a single top-level wrapper.
	NavigationExclusionExplicit

	// NavigationExclusionStandard adds class and id pattern matching such
	// as navbar, menu, footer and sidebar.
	NavigationExclusionStandard

	// NavigationExclusionAggressive adds a link-density check on block
	// containers.
	NavigationExclusionAggressive
)

// Options controls conversion.
type Options struct {
	Navigation NavigationExclusionMode
	// IncludeHidden keeps elements hidden with the hidden attribute,
	// aria-hidden or an inline display:none or visibility:hidden style.
	IncludeHidden bool
	// ContentType is the Content-Type header the document was served
	// with, if any. Its charset parameter takes precedence.
	ContentType string
	// Domain resolves relative links.
	Domain string
}

// DefaultOptions returns the standard navigation filter with hidden
// elements removed.
func DefaultOptions() Options {
	return Options{Navigation: NavigationExclusionStandard}
}

// Document is a converted HTML document.
type Document struct {
	Title    string
	Charset  string
	Meta     map[string]string
	Markdown string
}
