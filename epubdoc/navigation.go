package epubdoc

import (
	"bytes"
	"path"
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/structura/internal/ooxml"
)

type navPoint struct {
	Label   string `xml:"navLabel>text"`
	Content struct {
		Src string `xml:"src,attr"`
	} `xml:"content"`
	Children []navPoint `xml:"navPoint"`
}

type ncxXML struct {
	Points []navPoint `xml:"navMap>navPoint"`
}

// navigationTitles maps chapter part names to their first table of
// contents label. The EPUB 3 nav document is preferred over the NCX.
func navigationTitles(arc *ooxml.Archive, pkg *packageXML, base string) map[string]string {
	titles := make(map[string]string)

	if nav, ok := pkg.itemWhere(func(it manifestItem) bool {
		return slices.Contains(strings.Fields(it.Properties), "nav")
	}); ok {
		href := resolve(base, nav.Href)
		if data, err := arc.Read(href); err == nil {
			navTitles(data, path.Dir(href), titles)
		}
	}
	if len(titles) > 0 {
		return titles
	}

	ncx, ok := pkg.item(pkg.Spine.Toc)
	if !ok {
		ncx, ok = pkg.itemWhere(func(it manifestItem) bool {
			return it.MediaType == "application/x-dtbncx+xml"
		})
	}
	if !ok {
		return titles
	}
	href := resolve(base, ncx.Href)
	var doc ncxXML
	if err := arc.Unmarshal(href, &doc); err == nil {
		ncxTitles(doc.Points, path.Dir(href), titles)
	}
	return titles
}

func ncxTitles(points []navPoint, dir string, titles map[string]string) {
	for _, p := range points {
		add(titles, resolve(dir, p.Content.Src), p.Label)
		ncxTitles(p.Children, dir, titles)
	}
}

// navTitles walks the anchors of the toc nav element in document order.
func navTitles(data []byte, dir string, titles map[string]string) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return
	}
	nav := find(root, func(n *html.Node) bool {
		return n.Data == "nav" && strings.Contains(attr(n, "epub:type")+" "+attr(n, "type"), "toc")
	})
	if nav == nil {
		return
	}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := attr(n, "href"); href != "" {
				add(titles, resolve(dir, href), textOf(n))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(nav)
}

func add(titles map[string]string, href, label string) {
	label = strings.Join(strings.Fields(label), " ")
	if label == "" {
		return
	}
	if _, ok := titles[href]; !ok {
		titles[href] = label
	}
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

// attr returns an attribute by its qualified name. The HTML parser keeps
// prefixed names such as epub:type either whole or split into Namespace
// and Key.
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		key := a.Key
		if a.Namespace != "" {
			key = a.Namespace + ":" + a.Key
		}
		if key == name {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textOf(c))
	}
	return sb.String()
}
