// Package pptx reads PowerPoint (.pptx) presentations slide by slide.
//
// Shapes are visited in the order of the slide's shape tree, including
// grouped shapes. Text paragraphs become raw segments with bullets written
// as Markdown list markers and tables become grid segments.
package pptx

import "encoding/xml"

// presentationXML represents the ppt/presentation.xml file structure.
type presentationXML struct {
	XMLName     xml.Name        `xml:"presentation"`
	SlideIDList *slideIDListXML `xml:"sldIdLst"`
}

type slideIDListXML struct {
	SlideID []slideIDXML `xml:"sldId"`
}

type slideIDXML struct {
	ID  string `xml:"id,attr"`
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

// slideXML represents a ppt/slides/slide*.xml file structure.
type slideXML struct {
	XMLName xml.Name  `xml:"sld"`
	Show    string    `xml:"show,attr"`
	SpTree  spTreeXML `xml:"cSld>spTree"`
}

// spTreeXML is a shape tree or a group, with its children kept in document
// order.
type spTreeXML struct {
	Shapes []shapeXML
}

type shapeXML struct {
	Sp    *spXML
	Frame *graphicFrameXML
	Group *spTreeXML
}

// UnmarshalXML decodes the children of a shape tree in order.
func (t *spTreeXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "sp":
				var sp spXML
				if err := d.DecodeElement(&sp, &el); err != nil {
					return err
				}
				t.Shapes = append(t.Shapes, shapeXML{Sp: &sp})
			case "graphicFrame":
				var gf graphicFrameXML
				if err := d.DecodeElement(&gf, &el); err != nil {
					return err
				}
				t.Shapes = append(t.Shapes, shapeXML{Frame: &gf})
			case "grpSp":
				var g spTreeXML
				if err := d.DecodeElement(&g, &el); err != nil {
					return err
				}
				t.Shapes = append(t.Shapes, shapeXML{Group: &g})
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// spXML represents a shape element.
type spXML struct {
	Ph     *phXML     `xml:"nvSpPr>nvPr>ph"`
	TxBody *txBodyXML `xml:"txBody"`
}

type phXML struct {
	Type string `xml:"type,attr"` // title, body, subTitle, ctrTitle, etc.
	Idx  string `xml:"idx,attr"`
}

// txBodyXML represents text body content.
type txBodyXML struct {
	P []pXML `xml:"p"`
}

// pXML represents a paragraph. Text holds runs, fields and breaks in
// document order.
type pXML struct {
	PPr  *pPrXML
	Text string
}

// UnmarshalXML decodes a paragraph, keeping run and field text in order.
func (p *pXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var text []byte
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "pPr":
				p.PPr = &pPrXML{}
				if err := d.DecodeElement(p.PPr, &el); err != nil {
					return err
				}
			case "r", "fld":
				var r rXML
				if err := d.DecodeElement(&r, &el); err != nil {
					return err
				}
				text = append(text, r.T...)
			case "br":
				text = append(text, ' ')
				if err := d.Skip(); err != nil {
					return err
				}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			p.Text = string(text)
			return nil
		}
	}
}

type pPrXML struct {
	Lvl       int           `xml:"lvl,attr"`
	BuNone    *struct{}     `xml:"buNone"`
	BuChar    *buCharXML    `xml:"buChar"`
	BuAutoNum *buAutoNumXML `xml:"buAutoNum"`
}

type buCharXML struct {
	Char string `xml:"char,attr"`
}

type buAutoNumXML struct {
	Type string `xml:"type,attr"` // arabicPeriod, alphaLcParenR, etc.
}

// rXML represents a text run or a field.
type rXML struct {
	T string `xml:"t"`
}

// graphicFrameXML represents a graphic frame (tables, charts).
type graphicFrameXML struct {
	Tbl *tblXML `xml:"graphic>graphicData>tbl"`
}

// tblXML represents a table.
type tblXML struct {
	Tr []trXML `xml:"tr"`
}

type trXML struct {
	Tc []tcXML `xml:"tc"`
}

type tcXML struct {
	TxBody   *txBodyXML `xml:"txBody"`
	GridSpan int        `xml:"gridSpan,attr"`
	HMerge   string     `xml:"hMerge,attr"`
	VMerge   string     `xml:"vMerge,attr"`
}
