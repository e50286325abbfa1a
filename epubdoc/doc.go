// Package epubdoc reads EPUB publications held in memory.
//
// The container is checked for DRM, the package document named by
// META-INF/container.xml is parsed, and the spine is resolved into
// chapters in reading order. Chapter titles come from the EPUB 3 nav
// document or the EPUB 2 NCX when one exists. Chapter content is returned
// as raw XHTML for the caller to convert.
package epubdoc
