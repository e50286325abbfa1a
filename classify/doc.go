// Package classify assigns a structural role to every line of recovered text.
//
// A [Classifier] looks at one line at a time together with its neighbours and
// the [Mode] of the source it came from, and returns a [Line] whose [Role]
// says whether it is blank, a heading, a list item, a table row, a line of
// code or plain paragraph text. Rules are tried in that order and the first
// match wins.
//
// Flat text (PDF, plain text, OCR) relies on typographic hints such as upper
// case and a following blank line. Markdown sources use ATX headings and code
// fences. Styled sources carry a word-processor paragraph style. Grid sources
// (CSV, spreadsheets, document tables) are already split into cells.
//
// Pipe tables in text are found by a block scan that runs before the per-line
// rules. A pipe region without a separator row is not a table; it is counted
// in [Result].Dropped and its lines are classified normally.
//
// Chinese documents are supported through a parallel set of heading markers
// that apply whenever a line contains a CJK ideograph.
package classify
