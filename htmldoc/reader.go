package htmldoc

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	htmlcharset "golang.org/x/net/html/charset"

	"github.com/tsawler/structura/charset"
)

// Converter turns HTML into Markdown. It is safe for concurrent use.
type Converter struct {
	policy *bluemonday.Policy
	md     *converter.Converter
}

// NewConverter creates a converter with the user-generated-content
// sanitizing policy and CommonMark plus GFM table output.
func NewConverter() *Converter {
	return &Converter{
		policy: bluemonday.UGCPolicy(),
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Convert decodes, prunes, sanitizes and converts an HTML document.
func (c *Converter) Convert(data []byte, opts Options) (*Document, error) {
	text, name := decode(data, opts.ContentType)

	root, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	doc := &Document{Charset: name, Meta: map[string]string{}}
	readHead(root, doc)

	newPruner(opts, root).prune(root)

	if doc.Title == "" {
		if h1 := findElement(root, "h1"); h1 != nil {
			doc.Title = textContent(h1)
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, fmt.Errorf("rendering HTML: %w", err)
	}
	clean := c.policy.SanitizeBytes(buf.Bytes())

	var md string
	if opts.Domain != "" {
		md, err = c.md.ConvertString(string(clean), converter.WithDomain(opts.Domain))
	} else {
		md, err = c.md.ConvertString(string(clean))
	}
	if err != nil {
		return nil, fmt.Errorf("converting to markdown: %w", err)
	}
	doc.Markdown = strings.TrimSpace(md)
	return doc, nil
}

// decode returns the document as UTF-8. A byte-order mark, the
// Content-Type charset and a <meta> declaration are honoured in that
// order. Undeclared non-UTF-8 input goes through the heuristic detector
// instead of the locale default.
func decode(data []byte, contentType string) (string, string) {
	enc, name, certain := htmlcharset.DetermineEncoding(data, contentType)
	if hasBOM(data) || (!certain && name == "windows-1252") {
		res := charset.Detect(data)
		return res.Text, res.Charset
	}
	text, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		res := charset.Detect(data)
		return res.Text, res.Charset
	}
	return string(text), name
}

func hasBOM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(data, []byte{0xFE, 0xFF}) ||
		bytes.HasPrefix(data, []byte{0xFF, 0xFE})
}

// readHead extracts the title and meta tags from the head element.
func readHead(root *html.Node, doc *Document) {
	head := findElement(root, "head")
	if head == nil {
		return
	}
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "title":
			doc.Title = textContent(c)
		case "meta":
			name := getAttr(c, "name")
			if name == "" {
				name = getAttr(c, "property")
			}
			if content := getAttr(c, "content"); name != "" && content != "" {
				doc.Meta[strings.ToLower(name)] = content
			}
		}
	}
}
