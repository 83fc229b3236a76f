// Package report encodes a composed report into its export formats.
//
// This package contains one writer per format:
//   - TextWriter: plain UTF-8 text, finding sections behind separator lines
//   - PDFWriter: word-wrapped PDF using an embedded Unicode TrueType font
//   - DOCXWriter: WordprocessingML package, one heading per section title
//   - MarkdownWriter: GitHub-flavoured Markdown for sharing
//   - JSONWriter: the section list for EMR integration
//
// Writers never alter content. Text that a format cannot represent is
// reported as a *model.EncodingError naming the section it came from, and
// nothing is written in that case.
package report
