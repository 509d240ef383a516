package export

import (
	"math"
	"strings"
)

// Line is one render-ready transcript entry.
type Line struct {
	Speaker   string // empty unless speakers are requested and known
	Timestamp string // empty unless timestamps are requested
	Text      string
	Start     float64
	End       float64
	// Malformed is set when the source segment had unusable timing
	// (end before start, negative, out of range or non-finite values).
	Malformed bool
}

// Group turns a transcript into one Line per segment, in input order.
// Without segments the flat text becomes a single unlabeled line.
func Group(t Transcript, opts Options) []Line {
	if len(t.Segments) == 0 {
		return []Line{{Text: t.Text}}
	}

	lines := make([]Line, 0, len(t.Segments))
	for _, seg := range t.Segments {
		l := Line{
			Text:      seg.Text,
			Start:     clampSeconds(seg.StartTime),
			End:       clampSeconds(seg.EndTime),
			Malformed: segmentMalformed(seg),
		}
		if l.End < l.Start {
			l.End = l.Start
		}
		if opts.IncludeSpeakers && seg.Speaker != nil {
			l.Speaker = strings.TrimSpace(*seg.Speaker)
		}
		if opts.IncludeTimestamps {
			l.Timestamp = FormatTimestamp(l.Start)
		}
		lines = append(lines, l)
	}
	return lines
}

func segmentMalformed(seg Segment) bool {
	for _, v := range []float64{seg.StartTime, seg.EndTime} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > maxTimestampSeconds {
			return true
		}
	}
	return seg.EndTime < seg.StartTime
}

// Render applies the inline prefix rules shared by the TXT, PDF and DOCX
// encoders: "[M:SS] Speaker: text".
func (l Line) Render() string {
	var b strings.Builder
	if l.Timestamp != "" {
		b.WriteString("[")
		b.WriteString(l.Timestamp)
		b.WriteString("] ")
	}
	if l.Speaker != "" {
		b.WriteString(l.Speaker)
		b.WriteString(": ")
	}
	b.WriteString(l.Text)
	return b.String()
}
