package export

import "time"

// Transcript is the read-only input to every encoder.
type Transcript struct {
	ID        string
	Name      string
	Text      string
	Language  *string
	Duration  *float64
	CreatedAt time.Time
	// Segments are in chronological order. May be empty, in which case
	// Text is used instead.
	Segments []Segment
}

// Segment is one time-coded span of transcript text.
type Segment struct {
	Text      string
	Speaker   *string // nil when speaker attribution is unavailable
	StartTime float64
	EndTime   float64
}

// Options configures a single export.
type Options struct {
	IncludeTimestamps bool
	IncludeSpeakers   bool
	// Title overrides Transcript.Name as the document heading.
	Title string
}

const defaultTitle = "Transcript"

// heading returns the rendered document title.
func heading(t Transcript, opts Options) string {
	if opts.Title != "" {
		return opts.Title
	}
	if t.Name != "" {
		return t.Name
	}
	return defaultTitle
}

// metadata returns the label/value pairs rendered under the title in
// PDF and DOCX output. Language and duration are omitted when absent.
func metadata(t Transcript) [][2]string {
	var meta [][2]string
	if !t.CreatedAt.IsZero() {
		meta = append(meta, [2]string{"Created", t.CreatedAt.Format("January 2, 2006 15:04")})
	}
	if t.Language != nil && *t.Language != "" {
		meta = append(meta, [2]string{"Language", *t.Language})
	}
	if t.Duration != nil {
		meta = append(meta, [2]string{"Duration", FormatTimestamp(*t.Duration)})
	}
	return meta
}
