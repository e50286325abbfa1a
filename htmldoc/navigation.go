package htmldoc

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// boilerplatePattern matches class and id values of navigation and page
// chrome.
var boilerplatePattern = regexp.MustCompile(
	`(?i)(^|[^a-z])(nav|navbar|navigation|menu|topnav|sidenav|breadcrumb|breadcrumbs|` +
		`site-header|page-header|masthead|banner|` +
		`footer|site-footer|page-footer|colophon|` +
		`sidebar|widget-area|widget|aside)([^a-z]|$)`)

var hiddenStyle = regexp.MustCompile(`(?i)(display\s*:\s*none|visibility\s*:\s*hidden)`)

// pruner decides which element subtrees are dropped before conversion.
type pruner struct {
	opts    Options
	body    *html.Node
	wrapper *html.Node
}

func newPruner(opts Options, doc *html.Node) *pruner {
	p := &pruner{opts: opts, body: findElement(doc, "body")}
	if p.body == nil {
		p.body = doc
	}
	p.wrapper = topLevelWrapper(p.body)
	return p
}

// prune removes dropped subtrees below n.
func (p *pruner) prune(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if p.drop(c) {
			n.RemoveChild(c)
		} else {
			p.prune(c)
		}
		c = next
	}
}

func (p *pruner) drop(n *html.Node) bool {
	switch n.Type {
	case html.CommentNode:
		return true
	case html.ElementNode:
	default:
		return false
	}

	switch n.Data {
	case "script", "style", "noscript", "template", "iframe", "svg":
		return true
	}
	if !p.opts.IncludeHidden && isHidden(n) {
		return true
	}

	mode := p.opts.Navigation
	if mode >= NavigationExclusionExplicit && p.explicitChrome(n) {
		return true
	}
	if mode >= NavigationExclusionStandard && p.patternChrome(n) {
		return true
	}
	if mode >= NavigationExclusionAggressive && linkHeavy(n) {
		return true
	}
	return false
}

func isHidden(n *html.Node) bool {
	for _, a := range n.Attr {
		switch a.Key {
		case "hidden":
			return true
		case "aria-hidden":
			if strings.EqualFold(a.Val, "true") {
				return true
			}
		case "style":
			if hiddenStyle.MatchString(a.Val) {
				return true
			}
		}
	}
	return n.Data == "input" && strings.EqualFold(getAttr(n, "type"), "hidden")
}

func (p *pruner) explicitChrome(n *html.Node) bool {
	switch n.Data {
	case "nav", "aside":
		return true
	case "header", "footer":
		return p.isTopLevel(n)
	}

	switch getAttr(n, "role") {
	case "navigation", "complementary":
		return true
	case "banner", "contentinfo":
		return p.isTopLevel(n)
	}
	return false
}

// patternChrome checks class and id attributes. The body and the main
// content element are never matched.
func (p *pruner) patternChrome(n *html.Node) bool {
	if n == p.body || n.Data == "main" || n.Data == "article" {
		return false
	}
	if class := getAttr(n, "class"); class != "" && boilerplatePattern.MatchString(class) {
		return true
	}
	if id := getAttr(n, "id"); id != "" && boilerplatePattern.MatchString(id) {
		return true
	}
	return false
}

// isTopLevel returns true if the node is a direct child of body or a single top-level wrapper.
func (p *pruner) isTopLevel(n *html.Node) bool {
	return n.Parent != nil && (n.Parent == p.body || (p.wrapper != nil && n.Parent == p.wrapper))
}

// topLevelWrapper finds a single structural wrapper element if one exists,
// as in <body><div id="wrapper">...</div></body>.
func topLevelWrapper(body *html.Node) *html.Node {
	var found *html.Node
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "div", "main":
			if found != nil {
				return nil
			}
			found = c
		case "script", "style", "noscript", "template":
		default:
			return nil
		}
	}
	return found
}

// linkHeavy reports block containers where more than 60% of the text sits
// in at least four links.
func linkHeavy(n *html.Node) bool {
	switch n.Data {
	case "div", "section", "ul", "ol":
	default:
		return false
	}
	total := textLength(n)
	if total == 0 || countLinks(n) < 4 {
		return false
	}
	return float64(linkTextLength(n))/float64(total) > 0.6
}

// textLength returns the total length of text content in a node.
func textLength(n *html.Node) int {
	if n.Type == html.TextNode {
		return len(strings.TrimSpace(n.Data))
	}
	total := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		total += textLength(c)
	}
	return total
}

// linkTextLength returns the length of text content within <a> tags.
func linkTextLength(n *html.Node) int {
	if n.Type == html.ElementNode && n.Data == "a" {
		return textLength(n)
	}
	total := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		total += linkTextLength(c)
	}
	return total
}

// countLinks returns the number of <a> elements within a node.
func countLinks(n *html.Node) int {
	count := 0
	if n.Type == html.ElementNode && n.Data == "a" {
		count = 1
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count += countLinks(c)
	}
	return count
}

// getAttr returns the value of an attribute on a node, or empty string if not found.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
