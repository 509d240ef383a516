// Package export converts a stored transcript into downloadable documents.
//
// Four encodings are supported: plain text, SubRip subtitles, PDF and
// Office Open XML (DOCX). Every encoder is a pure function of the transcript
// and its Options; an Exporter carries only rendering configuration, so a
// single instance can serve concurrent requests.
//
// Usage:
//
//	exp := export.New(export.WithLogger(logger))
//	res, err := exp.Export(t, export.FormatPDF, export.Options{IncludeSpeakers: true})
//	if errors.Is(err, export.ErrInvalidFormat) { ... }
package export

import (
	"github.com/rs/zerolog"
)

// Result is the encoded payload plus the headers the caller should attach.
type Result struct {
	Payload     []byte
	ContentType string
	Filename    string
	// Malformed counts segments rendered despite inconsistent timing.
	Malformed int
}

// Exporter renders transcripts. The zero value is not usable; call New.
type Exporter struct {
	logger      zerolog.Logger
	pageSize    string
	compressPDF bool
	creator     string
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger used for malformed-segment warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Exporter) { e.logger = l }
}

// WithPageSize sets the PDF page size ("A4" or "Letter", any case).
// Unknown sizes keep the default; see NormalizePageSize.
func WithPageSize(size string) Option {
	return func(e *Exporter) {
		if s, ok := NormalizePageSize(size); ok {
			e.pageSize = s
		}
	}
}

// WithPDFCompression toggles stream compression in PDF output.
func WithPDFCompression(on bool) Option {
	return func(e *Exporter) { e.compressPDF = on }
}

// WithCreator sets the application name embedded in document metadata.
func WithCreator(name string) Option {
	return func(e *Exporter) {
		if name != "" {
			e.creator = name
		}
	}
}

// New returns an Exporter with A4 pages, compressed PDFs and a no-op logger.
func New(opts ...Option) *Exporter {
	e := &Exporter{
		logger:      zerolog.Nop(),
		pageSize:    "A4",
		compressPDF: true,
		creator:     "Transcript Hub",
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Export renders t in format f. An unsupported format fails with
// ErrInvalidFormat; a PDF/DOCX backend failure returns a *RenderError.
func (e *Exporter) Export(t Transcript, f Format, opts Options) (*Result, error) {
	if !f.Valid() {
		return nil, ErrInvalidFormat
	}

	lines := Group(t, opts)
	malformed := e.reportMalformed(t, lines)

	var payload []byte
	switch f {
	case FormatTXT:
		payload = []byte(encodeText(lines, heading(t, opts)))
	case FormatSRT:
		payload = []byte(EncodeSRT(t, opts))
	case FormatPDF:
		b, err := e.encodePDF(t, lines, opts)
		if err != nil {
			return nil, &RenderError{Format: f, Err: err}
		}
		payload = b
	case FormatDOCX:
		b, err := e.encodeDOCX(t, lines, opts)
		if err != nil {
			return nil, &RenderError{Format: f, Err: err}
		}
		payload = b
	}

	return &Result{
		Payload:     payload,
		ContentType: f.ContentType(),
		Filename:    SuggestedFilename(heading(t, opts), f),
		Malformed:   malformed,
	}, nil
}

// reportMalformed logs each segment whose timing could not be rendered
// faithfully and returns how many there were.
func (e *Exporter) reportMalformed(t Transcript, lines []Line) int {
	if len(t.Segments) == 0 {
		return 0
	}
	n := 0
	for i, l := range lines {
		if !l.Malformed {
			continue
		}
		n++
		seg := t.Segments[i]
		e.logger.Warn().
			Str("transcript_id", t.ID).
			Int("segment", i).
			Float64("start", seg.StartTime).
			Float64("end", seg.EndTime).
			Msg("segment has inconsistent timing, clamping")
	}
	return n
}
