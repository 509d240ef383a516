package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gomutex/godocx"
)

const (
	docxTimestampColor = "808080"
	docxMetadataColor  = "606060"
)

// encodeDOCX builds a word-processing document: title, metadata
// paragraphs, then one paragraph per line. Embedded newlines in a line's
// text continue in follow-on paragraphs.
func (e *Exporter) encodeDOCX(t Transcript, lines []Line, opts Options) ([]byte, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("new document: %w", err)
	}

	if _, err := doc.AddHeading(heading(t, opts), 0); err != nil {
		return nil, fmt.Errorf("add title: %w", err)
	}
	for _, kv := range metadata(t) {
		p := doc.AddParagraph("")
		p.AddText(kv[0] + ": ").Bold(true)
		p.AddText(kv[1]).Color(docxMetadataColor)
	}
	doc.AddParagraph("")

	for _, l := range lines {
		text := strings.ReplaceAll(l.Text, "\r\n", "\n")
		rest := strings.Split(text, "\n")

		p := doc.AddParagraph("")
		if l.Timestamp != "" {
			p.AddText("[" + l.Timestamp + "] ").Color(docxTimestampColor)
		}
		if l.Speaker != "" {
			p.AddText(l.Speaker + ": ").Bold(true)
		}
		p.AddText(rest[0])
		for _, cont := range rest[1:] {
			doc.AddParagraph(cont)
		}
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, fmt.Errorf("write package: %w", err)
	}
	return buf.Bytes(), nil
}
