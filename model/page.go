package model

import (
	"strings"
	"unicode/utf8"
)

// Page is one page of a recovered document. Number is 1-based and assigned
// by ParsedDocument.AddPage; Source keeps the page, slide or sheet number the
// container reported, or 0 for synthetic pages.
type Page struct {
	Number          int      `json:"number" yaml:"number"`
	Source          int      `json:"source,omitempty" yaml:"source,omitempty"`
	Title           string   `json:"title,omitempty" yaml:"title,omitempty"`
	RawText         string   `json:"rawText" yaml:"rawText"`
	MarkdownContent string   `json:"markdown" yaml:"markdown"`
	Headings        []string `json:"headings,omitempty" yaml:"headings,omitempty"`
	Paragraphs      []string `json:"paragraphs,omitempty" yaml:"paragraphs,omitempty"`
	Lists           []string `json:"lists,omitempty" yaml:"lists,omitempty"`
	Tables          []*Table `json:"tables,omitempty" yaml:"tables,omitempty"`
	WordCount       int      `json:"wordCount" yaml:"wordCount"`
	CharCount       int      `json:"charCount" yaml:"charCount"`
}

// NewPage creates an empty page.
func NewPage() *Page {
	return &Page{
		Headings:   make([]string, 0),
		Paragraphs: make([]string, 0),
		Lists:      make([]string, 0),
		Tables:     make([]*Table, 0),
	}
}

// SetRawText replaces the raw text and recomputes the counts.
func (p *Page) SetRawText(text string) {
	p.RawText = text
	p.Recount()
}

// Recount derives WordCount and CharCount from RawText.
func (p *Page) Recount() {
	p.WordCount = CountWords(p.RawText)
	p.CharCount = utf8.RuneCountInString(p.RawText)
}

// HasStructure reports whether any heading, paragraph, list or table was
// recognized on the page.
func (p *Page) HasStructure() bool {
	return len(p.Headings) > 0 || len(p.Paragraphs) > 0 || len(p.Lists) > 0 || len(p.Tables) > 0
}

// HasContent reports whether the page carries any text at all.
func (p *Page) HasContent() bool {
	return strings.TrimSpace(p.RawText) != "" || p.HasStructure()
}

// ToMarkdown returns the page as Markdown. The assembled source-order
// content is preferred; otherwise the structure is rendered grouped by kind,
// and a page without structure falls back to its raw text.
func (p *Page) ToMarkdown() string {
	if p.MarkdownContent != "" {
		return p.MarkdownContent
	}
	if !p.HasStructure() {
		return p.RawText
	}

	var blocks []string
	blocks = append(blocks, p.Headings...)
	blocks = append(blocks, p.Paragraphs...)
	blocks = append(blocks, p.Lists...)
	for _, t := range p.Tables {
		if md := strings.TrimRight(t.ToMarkdown(), "\n"); md != "" {
			blocks = append(blocks, md)
		}
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

// CountWords returns the number of whitespace-separated tokens in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
