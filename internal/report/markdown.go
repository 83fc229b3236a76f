package report

import (
	"io"
	"strings"
	"unicode"

	"github.com/nao1215/markdown"
	"github.com/rheumaview/rheumaview/internal/model"
)

// MarkdownWriter outputs the report in GitHub-flavoured Markdown.
// The identity block becomes the H1 title with a bullet list, every other
// titled section an H2, and finding sections sit behind a horizontal rule.
// Report text is escaped, so it never turns into Markdown structure.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...Option) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output, opts)}
}

// Format returns model.FormatMarkdown.
func (w *MarkdownWriter) Format() model.ExportFormat {
	return model.FormatMarkdown
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ComposedReport) (int, error) {
	if err := checkText(model.FormatMarkdown, report, nil); err != nil {
		return 0, err
	}

	cw := &countingWriter{w: w.output}
	md := markdown.NewMarkdown(cw)

	for _, section := range report.Sections {
		switch section.Kind {
		case model.SectionIdentity:
			md.H1(escapeMarkdownInline(section.Title))
			md.PlainText("")
			items := make([]string, 0, len(section.Lines))
			for _, line := range section.Lines {
				items = append(items, escapeMarkdownInline(line))
			}
			md.BulletList(items...)
			md.PlainText("")
			continue
		case model.SectionFinding:
			md.HorizontalRule()
			md.PlainText("")
		case model.SectionFooter:
			md.HorizontalRule()
			md.PlainText("")
		}

		if section.Title != "" {
			md.H2(escapeMarkdownInline(section.Title))
			md.PlainText("")
		}
		w.writeLines(md, section.Lines)
	}

	if err := md.Build(); err != nil {
		return cw.n, &model.EncodingError{Format: model.FormatMarkdown, Field: "document", Reason: "markdown build failed", Err: err}
	}
	return cw.n, nil
}

// writeLines writes each body line as its own paragraph so that line
// breaks survive Markdown rendering.
func (w *MarkdownWriter) writeLines(md *markdown.Markdown, lines []string) {
	for _, line := range lines {
		if line == "" {
			continue
		}
		md.PlainText(escapeMarkdownLine(line))
		md.PlainText("")
	}
}

var markdownInline = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
)

// escapeMarkdownInline escapes the characters that start emphasis, code
// spans, links and HTML.
func escapeMarkdownInline(s string) string {
	return markdownInline.Replace(s)
}

// escapeMarkdownLine escapes a body line so it stays a plain paragraph.
// Leading indentation becomes non-breaking spaces, which Markdown does not
// read as a code block, and a leading block marker ("#", ">", "-", "+",
// "=", "|", "~" or "1.") is backslash-escaped.
func escapeMarkdownLine(line string) string {
	body := strings.TrimLeftFunc(line, unicode.IsSpace)
	indent := expandTabs(line[:len(line)-len(body)])
	indent = strings.Repeat("\u00a0", len([]rune(indent)))

	body = escapeMarkdownInline(body)
	switch {
	case body == "":
	case strings.ContainsRune("#>-+=|~", rune(body[0])):
		body = `\` + body
	default:
		if n := leadingDigits(body); n > 0 && n < len(body) && (body[n] == '.' || body[n] == ')') {
			body = body[:n] + `\` + body[n:]
		}
	}
	return indent + body
}

// leadingDigits returns the number of ASCII digits s starts with.
func leadingDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

// countingWriter counts the bytes written through it.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
