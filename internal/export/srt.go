package export

import (
	"fmt"
	"strings"
)

// EncodeSRT renders segments as SubRip cues. Timestamps are ignored since
// every cue carries its own time range. A transcript without segments
// yields an empty (but valid) file.
func EncodeSRT(t Transcript, opts Options) string {
	if len(t.Segments) == 0 {
		return ""
	}
	return encodeSRT(Group(t, Options{IncludeSpeakers: opts.IncludeSpeakers}))
}

func encodeSRT(lines []Line) string {
	var sb strings.Builder
	for i, l := range lines {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n", FormatSRTTimestamp(l.Start), FormatSRTTimestamp(l.End)))
		if l.Speaker != "" {
			sb.WriteString(l.Speaker)
			sb.WriteString(": ")
		}
		sb.WriteString(l.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}
