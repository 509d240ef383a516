package export

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func sampleTranscript() Transcript {
	return Transcript{
		ID:        "t-1",
		Name:      "Team Sync",
		Text:      "Hello everyone. Thanks for joining. Let's begin.",
		Language:  strPtr("en"),
		Duration:  floatPtr(75),
		CreatedAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		Segments: []Segment{
			{Text: "Hello everyone.", Speaker: strPtr("Alice"), StartTime: 0, EndTime: 2.5},
			{Text: "Thanks for joining.", Speaker: strPtr("Bob"), StartTime: 2.5, EndTime: 65.25},
			{Text: "Let's begin.", StartTime: 65.25, EndTime: 70},
		},
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{65, "1:05"},
		{59.9, "0:59"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3661, "1:01:01"},
		{36000, "10:00:00"},
		{-4, "0:00"},
		{math.NaN(), "0:00"},
		{math.Inf(1), "0:00"},
		{1e12, "277777777:46:40"},
		{1e20, "277777777:46:40"},
		{math.MaxFloat64, "277777777:46:40"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTimestamp(tt.in), "FormatTimestamp(%v)", tt.in)
	}
}

func TestFormatSRTTimestamp(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00,000"},
		{2.5, "00:00:02,500"},
		{65.25, "00:01:05,250"},
		{3661.001, "01:01:01,001"},
		{0.0004, "00:00:00,000"},
		{0.9996, "00:00:01,000"},
		{-1, "00:00:00,000"},
		{math.NaN(), "00:00:00,000"},
		{1e18, "277777777:46:40,000"},
		{1e20, "277777777:46:40,000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSRTTimestamp(tt.in), "FormatSRTTimestamp(%v)", tt.in)
	}
}

func TestGroup_OneLinePerSegment(t *testing.T) {
	tr := sampleTranscript()
	tr.Segments = append(tr.Segments, Segment{Text: "Agreed.", Speaker: strPtr("Bob"), StartTime: 70, EndTime: 71})

	lines := Group(tr, Options{IncludeSpeakers: true, IncludeTimestamps: true})
	require.Len(t, lines, 4)
	assert.Equal(t, "Alice", lines[0].Speaker)
	assert.Equal(t, "0:00", lines[0].Timestamp)
	assert.Equal(t, "", lines[2].Speaker)
	assert.Equal(t, "1:05", lines[2].Timestamp)
	// adjacent same-speaker segments stay separate
	assert.Equal(t, "Bob", lines[3].Speaker)
	assert.Equal(t, "Agreed.", lines[3].Text)
}

func TestGroup_FallbackToFlatText(t *testing.T) {
	tr := sampleTranscript()
	tr.Segments = nil

	lines := Group(tr, Options{IncludeSpeakers: true, IncludeTimestamps: true})
	require.Len(t, lines, 1)
	assert.Equal(t, tr.Text, lines[0].Text)
	assert.Empty(t, lines[0].Speaker)
	assert.Empty(t, lines[0].Timestamp)
	assert.Equal(t, tr.Text, lines[0].Render())
}

func TestLineRender(t *testing.T) {
	assert.Equal(t, "[1:05] Bob: hi", Line{Timestamp: "1:05", Speaker: "Bob", Text: "hi"}.Render())
	assert.Equal(t, "Bob: hi", Line{Speaker: "Bob", Text: "hi"}.Render())
	assert.Equal(t, "[0:00] hi", Line{Timestamp: "0:00", Text: "hi"}.Render())
	assert.Equal(t, "", Line{}.Render())
}

func TestEncodeText(t *testing.T) {
	got := EncodeText(sampleTranscript(), Options{IncludeSpeakers: true, IncludeTimestamps: true})
	want := "Team Sync\n\n" +
		"[0:00] Alice: Hello everyone.\n\n" +
		"[0:02] Bob: Thanks for joining.\n\n" +
		"[1:05] Let's begin.\n"
	assert.Equal(t, want, got)
}

func TestEncodeText_TitleOverride(t *testing.T) {
	got := EncodeText(sampleTranscript(), Options{Title: "Weekly"})
	assert.True(t, strings.HasPrefix(got, "Weekly\n\n"))

	tr := sampleTranscript()
	tr.Name = ""
	got = EncodeText(tr, Options{})
	assert.True(t, strings.HasPrefix(got, "Transcript\n\n"))
}

func TestEncodeText_Idempotent(t *testing.T) {
	tr := sampleTranscript()
	opts := Options{IncludeSpeakers: true, IncludeTimestamps: true}
	assert.Equal(t, EncodeText(tr, opts), EncodeText(tr, opts))
}

func TestEncodeText_ToggleIndependence(t *testing.T) {
	tr := sampleTranscript()

	timestampsOnly := EncodeText(tr, Options{IncludeTimestamps: true})
	assert.NotContains(t, timestampsOnly, "Alice:")
	assert.NotContains(t, timestampsOnly, "Bob:")
	for _, marker := range []string{"[0:00]", "[0:02]", "[1:05]"} {
		assert.Contains(t, timestampsOnly, marker)
	}

	speakersOnly := EncodeText(tr, Options{IncludeSpeakers: true})
	assert.Contains(t, speakersOnly, "Alice: Hello everyone.")
	assert.Contains(t, speakersOnly, "Bob: Thanks for joining.")
	assert.NotContains(t, speakersOnly, "[0:")
	assert.NotContains(t, speakersOnly, "[1:")
}

func TestEmptySegmentsFallback(t *testing.T) {
	tr := sampleTranscript()
	tr.Segments = []Segment{}

	assert.Contains(t, EncodeText(tr, Options{IncludeTimestamps: true}), tr.Text)
	assert.Equal(t, "", EncodeSRT(tr, Options{IncludeSpeakers: true}))

	res, err := New().Export(tr, FormatSRT, Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Payload)
}

func TestEncodeSRT(t *testing.T) {
	got := EncodeSRT(sampleTranscript(), Options{IncludeSpeakers: true, IncludeTimestamps: true})
	want := "1\n00:00:00,000 --> 00:00:02,500\nAlice: Hello everyone.\n\n" +
		"2\n00:00:02,500 --> 00:01:05,250\nBob: Thanks for joining.\n\n" +
		"3\n00:01:05,250 --> 00:01:10,000\nLet's begin.\n\n"
	assert.Equal(t, want, got)
}

func TestEncodeSRT_CueNumbering(t *testing.T) {
	got := EncodeSRT(sampleTranscript(), Options{})
	cues := strings.Split(strings.TrimSpace(got), "\n\n")
	require.Len(t, cues, 3)
	for i, cue := range cues {
		index := strings.SplitN(cue, "\n", 2)[0]
		assert.Equal(t, string(rune('1'+i)), index)
	}
	assert.NotContains(t, got, "Alice:")
}

func TestExport_SRTMatchesEncodeSRT(t *testing.T) {
	exp := New()
	bare := Transcript{ID: "t-3", Name: "Bare", Text: "no cues"}
	for _, tr := range []Transcript{sampleTranscript(), bare} {
		for _, opts := range []Options{{}, {IncludeSpeakers: true, IncludeTimestamps: true}} {
			res, err := exp.Export(tr, FormatSRT, opts)
			require.NoError(t, err)
			assert.Equal(t, EncodeSRT(tr, opts), string(res.Payload))
		}
	}
	res, err := exp.Export(bare, FormatSRT, Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Payload)
}

func TestExport_MalformedSegment(t *testing.T) {
	var logBuf bytes.Buffer
	exp := New(WithLogger(zerolog.New(&logBuf)), WithPDFCompression(false))

	tr := sampleTranscript()
	tr.Segments = []Segment{
		{Text: "Backwards in time.", Speaker: strPtr("Alice"), StartTime: 10, EndTime: 5},
		{Text: "Fine.", StartTime: 11, EndTime: 12},
	}
	opts := Options{IncludeSpeakers: true, IncludeTimestamps: true}

	for _, f := range Formats {
		res, err := exp.Export(tr, f, opts)
		require.NoError(t, err, f)
		assert.Equal(t, 1, res.Malformed, f)
	}

	res, err := exp.Export(tr, FormatTXT, opts)
	require.NoError(t, err)
	assert.Contains(t, string(res.Payload), "[0:10] Alice: Backwards in time.")
	assert.Contains(t, string(res.Payload), "Fine.")

	res, err = exp.Export(tr, FormatSRT, opts)
	require.NoError(t, err)
	assert.Contains(t, string(res.Payload), "00:00:10,000 --> 00:00:10,000\nAlice: Backwards in time.")

	assert.Contains(t, logBuf.String(), "inconsistent timing")
	assert.Contains(t, logBuf.String(), `"segment":0`)
}

func TestExport_OutOfRangeTiming(t *testing.T) {
	tr := sampleTranscript()
	tr.Segments = []Segment{
		{Text: "Far future.", StartTime: 1e20, EndTime: 1e20 + 5},
		{Text: "Fine.", StartTime: 1, EndTime: 2},
	}

	lines := Group(tr, Options{IncludeTimestamps: true})
	assert.True(t, lines[0].Malformed)
	assert.False(t, lines[1].Malformed)
	assert.Equal(t, "277777777:46:40", lines[0].Timestamp)

	res, err := New().Export(tr, FormatSRT, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Malformed)
	assert.Contains(t, string(res.Payload), "277777777:46:40,000 --> 277777777:46:40,000\nFar future.")
	assert.NotContains(t, string(res.Payload), ":-")
}

func TestExport_ContentTypes(t *testing.T) {
	want := map[Format]string{
		FormatTXT:  "text/plain",
		FormatSRT:  "application/x-subrip",
		FormatPDF:  "application/pdf",
		FormatDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	exp := New()
	for _, name := range []string{"txt", "srt", "pdf", "docx"} {
		f, err := ParseFormat(name)
		require.NoError(t, err)
		res, err := exp.Export(sampleTranscript(), f, Options{})
		require.NoError(t, err, name)
		assert.Equal(t, want[f], res.ContentType, name)
		assert.Equal(t, "Team_Sync."+name, res.Filename)
		assert.NotEmpty(t, res.Payload, name)
	}
}

func TestExport_InvalidFormat(t *testing.T) {
	_, err := New().Export(sampleTranscript(), Format("html"), Options{})
	assert.ErrorIs(t, err, ErrInvalidFormat)

	for _, s := range []string{"", "html", "vtt", "pdfx"} {
		_, err := ParseFormat(s)
		assert.ErrorIs(t, err, ErrInvalidFormat, s)
	}

	for _, s := range []string{"PDF", "Docx", " txt ", "srt\n"} {
		_, err := ParseFormat(s)
		assert.ErrorIs(t, err, ErrInvalidFormat, "%q", s)
	}

	f, err := ParseFormat("docx")
	require.NoError(t, err)
	assert.Equal(t, FormatDOCX, f)
}

func TestPageSize(t *testing.T) {
	for in, want := range map[string]string{"A4": "A4", "a4": "A4", "letter": "Letter", " LETTER ": "Letter"} {
		got, ok := NormalizePageSize(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := NormalizePageSize("legal")
	assert.False(t, ok)

	assert.Equal(t, "Letter", New(WithPageSize("letter")).pageSize)
	assert.Equal(t, "A4", New(WithPageSize("tabloid")).pageSize)
}

func TestSuggestedFilename(t *testing.T) {
	assert.Equal(t, "Q4_Strategy_Review.pdf", SuggestedFilename("Q4 Strategy: Review!!", FormatPDF))
	assert.Equal(t, "transcript.txt", SuggestedFilename("!!!", FormatTXT))
	assert.Equal(t, "Caf_au_lait.docx", SuggestedFilename("Café au lait", FormatDOCX))

	long := SuggestedFilename(strings.Repeat("abcdefghij", 10), FormatSRT)
	assert.Equal(t, strings.Repeat("abcdefghij", 5)+".srt", long)

	// truncation must not leave a dangling separator
	edge := SuggestedFilename(strings.Repeat("a", 49)+" b", FormatTXT)
	assert.Equal(t, strings.Repeat("a", 49)+".txt", edge)
}

func TestRenderError(t *testing.T) {
	cause := errors.New("glyph missing")
	var err error = &RenderError{Format: FormatPDF, Err: cause}
	assert.ErrorIs(t, err, ErrRenderFailure)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "render pdf")
}

func TestExport_PDF(t *testing.T) {
	exp := New(WithPDFCompression(false))
	tr := sampleTranscript()
	opts := Options{IncludeSpeakers: true, IncludeTimestamps: true}

	res, err := exp.Export(tr, FormatPDF, opts)
	require.NoError(t, err)
	body := string(res.Payload)
	assert.True(t, strings.HasPrefix(body, "%PDF-"))
	assert.Contains(t, body, "[0:00] Alice: Hello everyone.")
	assert.Contains(t, body, "Language: en")
	assert.Contains(t, body, "Duration: 1:15")

	again, err := exp.Export(tr, FormatPDF, opts)
	require.NoError(t, err)
	assert.Equal(t, res.Payload, again.Payload)
}

func TestExport_PDFLongTranscript(t *testing.T) {
	tr := sampleTranscript()
	tr.Segments = nil
	for i := 0; i < 2000; i++ {
		tr.Segments = append(tr.Segments, Segment{
			Text:      strings.Repeat("lorem ipsum dolor sit amet ", 6),
			Speaker:   strPtr("Speaker"),
			StartTime: float64(i * 3),
			EndTime:   float64(i*3 + 3),
		})
	}
	res, err := New().Export(tr, FormatPDF, Options{IncludeSpeakers: true})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(res.Payload, []byte("%PDF-")))
}

func TestToCP1252(t *testing.T) {
	assert.Equal(t, "caf\xe9 ?", toCP1252("café ☃"))
	assert.Equal(t, "a\nb c", toCP1252("a\r\nb\tc"))
	assert.Equal(t, "\x80", toCP1252("€"))
}

func readDocxPart(t *testing.T, payload []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(data)
	}
	t.Fatalf("part %s not found", name)
	return ""
}

func TestExport_DOCX(t *testing.T) {
	tr := sampleTranscript()
	tr.Segments[0].Text = "Q&A <today>\nsecond line"
	opts := Options{IncludeSpeakers: true, IncludeTimestamps: true}

	res, err := New().Export(tr, FormatDOCX, opts)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(res.Payload, []byte("PK")))

	doc := readDocxPart(t, res.Payload, "word/document.xml")
	assert.Contains(t, doc, `w:val="Title"`)
	assert.Contains(t, doc, ">Team Sync<")
	assert.Contains(t, doc, ">Q&amp;A &lt;today&gt;<")
	assert.Contains(t, doc, ">second line<")
	assert.Contains(t, doc, ">[0:00] <")
	assert.Contains(t, doc, `w:val="808080"`)
	assert.Contains(t, doc, ">Alice: <")
	assert.Contains(t, doc, ">Language: <")
	assert.Less(t, strings.Index(doc, "Team Sync"), strings.Index(doc, "Alice: "))
	assert.Less(t, strings.Index(doc, "Alice: "), strings.Index(doc, "Bob: "))

	// zip entry order may vary between runs; the document body may not
	again, err := New().Export(tr, FormatDOCX, opts)
	require.NoError(t, err)
	assert.Equal(t, doc, readDocxPart(t, again.Payload, "word/document.xml"))
}

func TestExport_DOCXWithoutOptionalFields(t *testing.T) {
	tr := Transcript{ID: "t-2", Name: "Bare", Text: "just text"}
	res, err := New().Export(tr, FormatDOCX, Options{IncludeSpeakers: true})
	require.NoError(t, err)

	doc := readDocxPart(t, res.Payload, "word/document.xml")
	assert.Contains(t, doc, ">just text<")
	assert.NotContains(t, doc, "Language")
	assert.NotContains(t, doc, "Duration")
}

func TestExport_Concurrent(t *testing.T) {
	exp := New()
	tr := sampleTranscript()
	want := EncodeText(tr, Options{IncludeSpeakers: true})

	done := make(chan string, 8)
	for i := 0; i < 8; i++ {
		go func() {
			res, err := exp.Export(tr, FormatTXT, Options{IncludeSpeakers: true})
			if err != nil {
				done <- err.Error()
				return
			}
			done <- string(res.Payload)
		}()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, want, <-done)
	}
}
