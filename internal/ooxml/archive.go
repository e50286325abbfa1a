// Package ooxml reads the parts shared by Office Open XML packages: the ZIP
// container, relationship files and the Dublin Core properties. The
// Archive type also serves other ZIP containers such as EPUB.
package ooxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/tsawler/structura/model"
)

// ErrPartNotFound is returned when a package part does not exist.
var ErrPartNotFound = errors.New("part not found")

// Archive is an opened OOXML package.
type Archive struct {
	files map[string]*zip.File
}

// Open opens an in-memory OOXML package.
func Open(data []byte) (*Archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	a := &Archive{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		a.files[f.Name] = f
	}
	return a, nil
}

// Has reports whether the package contains the named part.
func (a *Archive) Has(name string) bool {
	_, ok := a.files[name]
	return ok
}

// Require checks that every named part exists.
func (a *Archive) Require(names ...string) error {
	for _, name := range names {
		if !a.Has(name) {
			return fmt.Errorf("missing required file: %s", name)
		}
	}
	return nil
}

// Read returns the content of a part.
func (a *Archive) Read(name string) ([]byte, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrPartNotFound)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Unmarshal reads a part and decodes it as XML into v.
func (a *Archive) Unmarshal(name string, v any) error {
	data, err := a.Read(name)
	if err != nil {
		return err
	}
	return xml.Unmarshal(data, v)
}

// Names returns the part names with the given prefix and suffix, sorted.
func (a *Archive) Names(prefix, suffix string) []string {
	var out []string
	for name := range a.files {
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, suffix) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Relationship is one entry of a .rels part.
type Relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type relationshipsXML struct {
	Relationship []Relationship `xml:"Relationship"`
}

// Relationships returns the relationships of a part, keyed by ID. Targets
// are resolved to package part names. A part without a .rels file has no
// relationships.
func (a *Archive) Relationships(part string) map[string]Relationship {
	relsPath := path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
	var rels relationshipsXML
	if err := a.Unmarshal(relsPath, &rels); err != nil {
		return map[string]Relationship{}
	}

	out := make(map[string]Relationship, len(rels.Relationship))
	for _, r := range rels.Relationship {
		if !strings.HasPrefix(r.Target, "/") {
			r.Target = path.Join(path.Dir(part), r.Target)
		} else {
			r.Target = strings.TrimPrefix(r.Target, "/")
		}
		out[r.ID] = r
	}
	return out
}

// CoreProperties is the content of docProps/core.xml.
type CoreProperties struct {
	Title       string
	Subject     string
	Creator     string
	Keywords    string
	Description string
	Created     time.Time
	Modified    time.Time
}

type corePropertiesXML struct {
	Title       string `xml:"title"`
	Subject     string `xml:"subject"`
	Creator     string `xml:"creator"`
	Keywords    string `xml:"keywords"`
	Description string `xml:"description"`
	Created     string `xml:"created"`
	Modified    string `xml:"modified"`
}

// CoreProperties parses docProps/core.xml. Missing or malformed properties
// yield the zero value.
func (a *Archive) CoreProperties() CoreProperties {
	var raw corePropertiesXML
	if err := a.Unmarshal("docProps/core.xml", &raw); err != nil {
		return CoreProperties{}
	}
	return CoreProperties{
		Title:       strings.TrimSpace(raw.Title),
		Subject:     strings.TrimSpace(raw.Subject),
		Creator:     strings.TrimSpace(raw.Creator),
		Keywords:    strings.TrimSpace(raw.Keywords),
		Description: strings.TrimSpace(raw.Description),
		Created:     ParseTime(raw.Created),
		Modified:    ParseTime(raw.Modified),
	}
}

// Apply copies the properties into meta.
func (c CoreProperties) Apply(meta *model.DocumentMetadata) {
	meta.Title = c.Title
	meta.Author = c.Creator
	meta.Subject = c.Subject
	meta.Keywords = c.Keywords
	meta.Description = c.Description
	meta.Created = c.Created
	meta.Modified = c.Modified
}

// ParseTime parses the W3CDTF timestamps used in OOXML properties.
func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
