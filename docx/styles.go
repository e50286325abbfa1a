package docx

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/tsawler/structura/classify"
	"github.com/tsawler/structura/internal/ooxml"
)

// stylesXML represents the structure of word/styles.xml
type stylesXML struct {
	XMLName xml.Name      `xml:"styles"`
	Styles  []styleDefXML `xml:"style"`
}

type styleDefXML struct {
	Type       string  `xml:"type,attr"`
	StyleID    string  `xml:"styleId,attr"`
	Name       valXML  `xml:"name"`
	BasedOn    valXML  `xml:"basedOn"`
	OutlineLvl *valXML `xml:"pPr>outlineLvl"`
}

type valXML struct {
	Val string `xml:"val,attr"`
}

// numberingXML represents word/numbering.xml
type numberingXML struct {
	XMLName      xml.Name         `xml:"numbering"`
	AbstractNums []abstractNumXML `xml:"abstractNum"`
	Nums         []numXML         `xml:"num"`
}

type abstractNumXML struct {
	AbstractNumID string   `xml:"abstractNumId,attr"`
	Levels        []lvlXML `xml:"lvl"`
}

type lvlXML struct {
	ILvl   string `xml:"ilvl,attr"`
	NumFmt valXML `xml:"numFmt"`
}

type numXML struct {
	NumID         string `xml:"numId,attr"`
	AbstractNumID valXML `xml:"abstractNumId"`
}

// styleSheet resolves paragraph style IDs to the names the classifier
// understands.
type styleSheet struct {
	defs map[string]styleDefXML
}

func loadStyles(a *ooxml.Archive) styleSheet {
	sheet := styleSheet{defs: map[string]styleDefXML{}}
	var styles stylesXML
	if err := a.Unmarshal("word/styles.xml", &styles); err != nil {
		return sheet
	}
	for _, s := range styles.Styles {
		if s.Type == "" || s.Type == "paragraph" {
			sheet.defs[s.StyleID] = s
		}
	}
	return sheet
}

// Name returns the display name of a style. A custom style whose name
// carries no heading level but which sets an outline level, directly or
// through its basedOn chain, is reported as "Heading N".
func (s styleSheet) Name(styleID string) string {
	if styleID == "" {
		return ""
	}
	def, ok := s.defs[styleID]
	if !ok {
		return styleID
	}
	name := def.Name.Val
	if name == "" {
		name = styleID
	}
	if lvl, ok := s.outlineLevel(styleID); ok && !isHeadingName(name) {
		return fmt.Sprintf("Heading %d", lvl+1)
	}
	return name
}

func (s styleSheet) outlineLevel(styleID string) (int, bool) {
	seen := map[string]bool{}
	for id := styleID; id != "" && !seen[id]; {
		seen[id] = true
		def, ok := s.defs[id]
		if !ok {
			break
		}
		if def.OutlineLvl != nil {
			lvl, err := strconv.Atoi(def.OutlineLvl.Val)
			// Level 9 is body text.
			if err != nil || lvl < 0 || lvl > 5 {
				return 0, false
			}
			return lvl, true
		}
		id = def.BasedOn.Val
	}
	return 0, false
}

// numbering maps numId and level to whether the list is ordered.
type numbering struct {
	abstract map[string]map[string]string
	nums     map[string]string
}

func loadNumbering(a *ooxml.Archive) numbering {
	n := numbering{abstract: map[string]map[string]string{}, nums: map[string]string{}}
	var raw numberingXML
	if err := a.Unmarshal("word/numbering.xml", &raw); err != nil {
		return n
	}
	for _, an := range raw.AbstractNums {
		levels := make(map[string]string, len(an.Levels))
		for _, lvl := range an.Levels {
			levels[lvl.ILvl] = lvl.NumFmt.Val
		}
		n.abstract[an.AbstractNumID] = levels
	}
	for _, num := range raw.Nums {
		n.nums[num.NumID] = num.AbstractNumID.Val
	}
	return n
}

// Ordered reports whether the numbering instance renders numbers rather
// than bullets at the given level. Unknown instances are bullets.
func (n numbering) Ordered(numID string, ilvl int) bool {
	levels, ok := n.abstract[n.nums[numID]]
	if !ok {
		return false
	}
	switch levels[strconv.Itoa(ilvl)] {
	case "", "bullet", "none":
		return false
	default:
		return true
	}
}

func isHeadingName(name string) bool {
	return classify.StyleLevel(name) > 0
}
