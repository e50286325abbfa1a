// Package source turns input files into classified lines ready for
// assembly.
//
// Each supported container has a [Parser]. Parsers are collected in an
// explicit, ordered [Registry]; the first parser whose Supports method
// accepts a file handles it:
//
//	reg := source.DefaultRegistry(source.Options{})
//	p, err := reg.Find("report.pdf", data)
//	if err != nil {
//	    return err
//	}
//	res, err := p.Parse(ctx, source.Input{Name: "report.pdf", Data: data})
//
// A parser picks the classification mode that fits its container: flat
// for PDF, text and OCR output, styled for word-processor paragraphs,
// Markdown for Markdown and converted HTML, and grid for delimited text,
// sheets and tables. Soft problems such as a slide that could not be read
// are returned as warnings alongside the result.
package source
