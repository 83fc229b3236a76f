package report

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/rheumaview/rheumaview/internal/model"
)

// WordprocessingML namespaces and part names.
const (
	nsWordMain      = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	relTypeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeStyles   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relTypeCore     = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
)

// Paragraph styles defined in styles.xml.
const (
	styleTitle    = "Title"
	styleHeading1 = "Heading1"
	styleHeading2 = "Heading2"
)

// DOCXWriter outputs the report as an Office Open XML document.
// Every section title becomes one heading paragraph and every body line
// one plain paragraph.
type DOCXWriter struct {
	baseWriter
}

// NewDOCXWriter creates a DOCXWriter that outputs to the given writer.
func NewDOCXWriter(output io.Writer, opts ...Option) *DOCXWriter {
	return &DOCXWriter{baseWriter: newBaseWriter(output, opts)}
}

// Format returns model.FormatDOCX.
func (w *DOCXWriter) Format() model.ExportFormat {
	return model.FormatDOCX
}

// Write outputs the report in DOCX format.
func (w *DOCXWriter) Write(report *model.ComposedReport) (int, error) {
	if err := checkText(model.FormatDOCX, report, xmlCharCheck); err != nil {
		return 0, err
	}

	document, err := w.documentXML(report)
	if err != nil {
		return 0, err
	}

	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(rootRelsXML)},
		{"docProps/core.xml", corePropsXML(report)},
		{"word/_rels/document.xml.rels", []byte(documentRelsXML)},
		{"word/styles.xml", []byte(stylesXML)},
		{"word/document.xml", document},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	modified := documentDate(report)
	for _, part := range parts {
		f, err := zw.CreateHeader(&zip.FileHeader{
			Name:     part.name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return 0, &model.EncodingError{Format: model.FormatDOCX, Field: part.name, Reason: "zip entry failed", Err: err}
		}
		if _, err := f.Write(part.data); err != nil {
			return 0, &model.EncodingError{Format: model.FormatDOCX, Field: part.name, Reason: "zip write failed", Err: err}
		}
	}
	if err := zw.Close(); err != nil {
		return 0, &model.EncodingError{Format: model.FormatDOCX, Field: "document", Reason: "zip close failed", Err: err}
	}

	return w.output.Write(buf.Bytes())
}

// documentXML renders word/document.xml.
func (w *DOCXWriter) documentXML(report *model.ComposedReport) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString(`<w:document xmlns:w="` + nsWordMain + `"><w:body>`)

	for _, section := range report.Sections {
		if section.Title != "" {
			if err := writeParagraph(&b, headingStyle(section.Kind), section.Title); err != nil {
				return nil, &model.EncodingError{Format: model.FormatDOCX, Field: SectionField(section), Reason: "xml escape failed", Err: err}
			}
		}
		for _, line := range section.Lines {
			if err := writeParagraph(&b, "", line); err != nil {
				return nil, &model.EncodingError{Format: model.FormatDOCX, Field: SectionField(section), Reason: "xml escape failed", Err: err}
			}
		}
	}

	width, height := 11906, 16838 // A4 in twentieths of a point
	if w.settings.pageSize == PageLetter {
		width, height = 12240, 15840
	}
	fmt.Fprintf(&b, `<w:sectPr><w:pgSz w:w="%d" w:h="%d"/>`+
		`<w:pgMar w:top="1134" w:right="1134" w:bottom="1134" w:left="1134" w:header="708" w:footer="708" w:gutter="0"/>`+
		`</w:sectPr>`, width, height)
	b.WriteString(`</w:body></w:document>`)
	return b.Bytes(), nil
}

// headingStyle maps a section kind to its heading paragraph style.
func headingStyle(kind model.SectionKind) string {
	switch kind {
	case model.SectionIdentity:
		return styleTitle
	case model.SectionIntervalComparison:
		return styleHeading2
	default:
		return styleHeading1
	}
}

// writeParagraph writes one w:p with an optional paragraph style.
func writeParagraph(b *bytes.Buffer, style, text string) error {
	b.WriteString(`<w:p>`)
	if style != "" {
		b.WriteString(`<w:pPr><w:pStyle w:val="` + style + `"/></w:pPr>`)
	}
	if text != "" {
		b.WriteString(`<w:r><w:t xml:space="preserve">`)
		if err := xml.EscapeText(b, []byte(text)); err != nil {
			return err
		}
		b.WriteString(`</w:t></w:r>`)
	}
	b.WriteString(`</w:p>`)
	return nil
}

// xmlCharCheck rejects runes outside the XML 1.0 Char production.
func xmlCharCheck(r rune) string {
	switch {
	case r == 0x09 || r == 0x0A || r == 0x0D:
		return ""
	case r >= 0x20 && r <= 0xD7FF:
		return ""
	case r >= 0xE000 && r <= 0xFFFD:
		return ""
	case r >= 0x10000 && r <= 0x10FFFF:
		return ""
	default:
		return fmt.Sprintf("character U+%04X is not allowed in XML", r)
	}
}

// corePropsXML renders docProps/core.xml with the title and a pinned date.
func corePropsXML(report *model.ComposedReport) []byte {
	var title bytes.Buffer
	_ = xml.EscapeText(&title, []byte(report.Title))
	created := documentDate(report).UTC().Format(time.RFC3339)

	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
		`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	b.WriteString(`<dc:title>` + title.String() + `</dc:title>`)
	b.WriteString(`<dc:creator>rheumaview</dc:creator>`)
	b.WriteString(`<dcterms:created xsi:type="dcterms:W3CDTF">` + created + `</dcterms:created>`)
	b.WriteString(`<dcterms:modified xsi:type="dcterms:W3CDTF">` + created + `</dcterms:modified>`)
	b.WriteString(`</cp:coreProperties>`)
	return b.Bytes()
}

const contentTypesXML = xml.Header +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
	`</Types>`

const rootRelsXML = xml.Header +
	`<Relationships xmlns="` + nsRelationships + `">` +
	`<Relationship Id="rId1" Type="` + relTypeDocument + `" Target="word/document.xml"/>` +
	`<Relationship Id="rId2" Type="` + relTypeCore + `" Target="docProps/core.xml"/>` +
	`</Relationships>`

const documentRelsXML = xml.Header +
	`<Relationships xmlns="` + nsRelationships + `">` +
	`<Relationship Id="rId1" Type="` + relTypeStyles + `" Target="styles.xml"/>` +
	`</Relationships>`

const stylesXML = xml.Header +
	`<w:styles xmlns:w="` + nsWordMain + `">` +
	`<w:docDefaults><w:rPrDefault><w:rPr>` +
	`<w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:eastAsia="Calibri" w:cs="Calibri"/>` +
	`<w:sz w:val="22"/><w:szCs w:val="22"/>` +
	`</w:rPr></w:rPrDefault>` +
	`<w:pPrDefault><w:pPr><w:spacing w:after="120" w:line="264" w:lineRule="auto"/></w:pPr></w:pPrDefault>` +
	`</w:docDefaults>` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>` +
	`<w:style w:type="paragraph" w:styleId="` + styleTitle + `"><w:name w:val="Title"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/>` +
	`<w:pPr><w:spacing w:after="240"/></w:pPr><w:rPr><w:b/><w:sz w:val="40"/><w:szCs w:val="40"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="` + styleHeading1 + `"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/>` +
	`<w:pPr><w:keepNext/><w:spacing w:before="240" w:after="120"/><w:outlineLvl w:val="0"/></w:pPr><w:rPr><w:b/><w:sz w:val="28"/><w:szCs w:val="28"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="` + styleHeading2 + `"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/>` +
	`<w:pPr><w:keepNext/><w:spacing w:before="200" w:after="80"/><w:outlineLvl w:val="1"/></w:pPr><w:rPr><w:b/><w:sz w:val="24"/><w:szCs w:val="24"/></w:rPr></w:style>` +
	`</w:styles>`
