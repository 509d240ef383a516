package export

import (
	"fmt"
	"regexp"
	"strings"
)

// Format is one of the supported export encodings.
type Format string

const (
	FormatTXT  Format = "txt"
	FormatSRT  Format = "srt"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Formats lists every supported format.
var Formats = []Format{FormatTXT, FormatSRT, FormatPDF, FormatDOCX}

// ParseFormat resolves a format selector. Matching is exact: anything
// other than txt, srt, pdf or docx, including the empty string and other
// casings, returns ErrInvalidFormat.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q (use txt, srt, pdf or docx)", ErrInvalidFormat, s)
	}
	return f, nil
}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	switch f {
	case FormatTXT, FormatSRT, FormatPDF, FormatDOCX:
		return true
	}
	return false
}

// ContentType returns the MIME type attached to the HTTP response.
func (f Format) ContentType() string {
	switch f {
	case FormatTXT:
		return "text/plain"
	case FormatSRT:
		return "application/x-subrip"
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return ""
}

// Extension returns the canonical file extension without the dot.
func (f Format) Extension() string {
	if !f.Valid() {
		return ""
	}
	return string(f)
}

func (f Format) String() string { return string(f) }

const maxFilenameStem = 50

var (
	nonAlnumRe    = regexp.MustCompile(`[^A-Za-z0-9]`)
	underscoresRe = regexp.MustCompile(`_+`)
)

// SuggestedFilename derives a download filename from a title:
// non-alphanumerics become underscores, runs collapse, the stem is capped
// at 50 characters and the format's extension is appended.
func SuggestedFilename(title string, f Format) string {
	stem := nonAlnumRe.ReplaceAllString(title, "_")
	stem = underscoresRe.ReplaceAllString(stem, "_")
	stem = strings.Trim(stem, "_")
	if len(stem) > maxFilenameStem {
		stem = strings.TrimRight(stem[:maxFilenameStem], "_")
	}
	if stem == "" {
		stem = "transcript"
	}
	return stem + "." + f.Extension()
}
