package epubdoc

import (
	"encoding/xml"
	"strings"

	"github.com/tsawler/structura/internal/ooxml"
)

type containerXML struct {
	Rootfiles []struct {
		FullPath  string `xml:"full-path,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"rootfiles>rootfile"`
}

// rootfile returns the path of the package document. The first OPF
// rootfile wins, then the first rootfile of any type.
func rootfile(arc *ooxml.Archive) (string, error) {
	if !arc.Has("META-INF/container.xml") {
		return "", ErrNoContainer
	}
	var c containerXML
	if err := arc.Unmarshal("META-INF/container.xml", &c); err != nil {
		return "", ErrNoContainer
	}
	for _, rf := range c.Rootfiles {
		if rf.FullPath != "" && (rf.MediaType == "application/oebps-package+xml" || rf.MediaType == "") {
			return rf.FullPath, nil
		}
	}
	for _, rf := range c.Rootfiles {
		if rf.FullPath != "" {
			return rf.FullPath, nil
		}
	}
	return "", ErrNoRootfile
}

type dcValue struct {
	Value string `xml:",chardata"`
}

type manifestItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

type packageXML struct {
	Version  string `xml:"version,attr"`
	Metadata struct {
		Title       []dcValue `xml:"title"`
		Creator     []dcValue `xml:"creator"`
		Language    []dcValue `xml:"language"`
		Identifier  []dcValue `xml:"identifier"`
		Publisher   []dcValue `xml:"publisher"`
		Description []dcValue `xml:"description"`
		Subject     []dcValue `xml:"subject"`
		Date        []dcValue `xml:"date"`
		Meta        []struct {
			Property string `xml:"property,attr"`
			Value    string `xml:",chardata"`
		} `xml:"meta"`
	} `xml:"metadata"`
	Manifest []manifestItem `xml:"manifest>item"`
	Spine    struct {
		Toc      string `xml:"toc,attr"`
		ItemRefs []struct {
			IDRef  string `xml:"idref,attr"`
			Linear string `xml:"linear,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

func readPackage(arc *ooxml.Archive, name string) (*packageXML, error) {
	data, err := arc.Read(name)
	if err != nil {
		return nil, ErrInvalidPackage
	}
	var pkg packageXML
	if err := xml.Unmarshal(data, &pkg); err != nil {
		return nil, ErrInvalidPackage
	}
	if len(pkg.Spine.ItemRefs) == 0 {
		return nil, ErrEmptySpine
	}
	return &pkg, nil
}

func (p *packageXML) item(id string) (manifestItem, bool) {
	for _, it := range p.Manifest {
		if it.ID == id {
			return it, true
		}
	}
	return manifestItem{}, false
}

// itemWhere returns the first manifest item accepted by match.
func (p *packageXML) itemWhere(match func(manifestItem) bool) (manifestItem, bool) {
	for _, it := range p.Manifest {
		if match(it) {
			return it, true
		}
	}
	return manifestItem{}, false
}

func (p *packageXML) metadata() Metadata {
	m := p.Metadata
	meta := Metadata{
		Title:       first(m.Title),
		Language:    first(m.Language),
		Identifier:  first(m.Identifier),
		Publisher:   first(m.Publisher),
		Description: first(m.Description),
		Date:        first(m.Date),
		Creators:    all(m.Creator),
		Subjects:    all(m.Subject),
	}
	for _, mt := range m.Meta {
		if mt.Property == "dcterms:modified" {
			meta.Modified = ooxml.ParseTime(mt.Value)
		}
	}
	if meta.Modified.IsZero() && meta.Date != "" {
		meta.Modified = ooxml.ParseTime(meta.Date)
	}
	return meta
}

func first(vs []dcValue) string {
	for _, v := range vs {
		if s := strings.TrimSpace(v.Value); s != "" {
			return s
		}
	}
	return ""
}

func all(vs []dcValue) []string {
	var out []string
	for _, v := range vs {
		if s := strings.TrimSpace(v.Value); s != "" {
			out = append(out, s)
		}
	}
	return out
}
