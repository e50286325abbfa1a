// Package visibility drops text that a reader would never see before it
// reaches structure classification.
//
// Three independent checks are provided. Fragment rules look at the render
// state of a single piece of text. Annotation rules look at annotation flags
// and appearance state names. XObject rules look at form XObject names and
// the constant alpha of their ExtGState resources. All checks are heuristics
// tuned for watermarks on white pages; they neither guarantee that every
// decorative layer is removed nor that all low-contrast text survives.
//
// Setting Config.IncludeHidden disables every check.
package visibility
