package export

import "strings"

// EncodeText renders the transcript as plain text: the heading, a blank
// line, then one entry per line separated by blank lines.
func EncodeText(t Transcript, opts Options) string {
	return encodeText(Group(t, opts), heading(t, opts))
}

func encodeText(lines []Line, title string) string {
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n\n")
	for i, l := range lines {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(l.Render())
	}
	sb.WriteString("\n")
	return sb.String()
}
