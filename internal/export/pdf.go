package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
)

const (
	pdfFont       = "Helvetica"
	pdfTitleSize  = 18
	pdfMetaSize   = 10
	pdfBodySize   = 11
	pdfLineHeight = 5.5
	pdfMargin     = 20
)

// pdfPageSizes are the page sizes accepted by WithPageSize, keyed by
// their lowercase name.
var pdfPageSizes = map[string]string{
	"a4":     "A4",
	"letter": "Letter",
}

// NormalizePageSize maps a case-insensitive page size name to the form
// fpdf expects. ok is false for unsupported sizes.
func NormalizePageSize(size string) (string, bool) {
	s, ok := pdfPageSizes[strings.ToLower(strings.TrimSpace(size))]
	return s, ok
}

// encodePDF lays the transcript out as a paginated PDF. Page breaks are
// left to fpdf's auto page break; this only feeds ordered text blocks.
func (e *Exporter) encodePDF(t Transcript, lines []Line, opts Options) ([]byte, error) {
	title := heading(t, opts)

	pdf := fpdf.New("P", "mm", e.pageSize, "")
	pdf.SetCompression(e.compressPDF)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(title, true)
	pdf.SetCreator(e.creator, true)
	if !t.CreatedAt.IsZero() {
		pdf.SetCreationDate(t.CreatedAt)
		pdf.SetModificationDate(t.CreatedAt)
	}
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(pdfFont, "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", pdfTitleSize)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(0, 9, toCP1252(title), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont(pdfFont, "", pdfMetaSize)
	pdf.SetTextColor(96, 96, 96)
	for _, kv := range metadata(t) {
		pdf.MultiCell(0, pdfLineHeight, toCP1252(kv[0]+": "+kv[1]), "", "L", false)
	}
	pdf.Ln(4)

	pdf.SetFont(pdfFont, "", pdfBodySize)
	pdf.SetTextColor(0, 0, 0)
	for _, l := range lines {
		pdf.MultiCell(0, pdfLineHeight, toCP1252(l.Render()), "", "L", false)
		pdf.Ln(2)
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// toCP1252 maps UTF-8 text onto the Windows-1252 codepage used by the
// PDF core fonts. Runes the codepage cannot represent become '?'.
func toCP1252(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n':
			sb.WriteByte('\n')
			continue
		case r == '\r':
			continue
		case r == '\t':
			sb.WriteByte(' ')
			continue
		case r < 0x20:
			continue
		}
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			sb.WriteByte('?')
			continue
		}
		sb.WriteByte(b)
	}
	return sb.String()
}
