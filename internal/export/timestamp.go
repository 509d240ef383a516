package export

import (
	"fmt"
	"math"
)

// maxTimestampSeconds bounds rendered times so the millisecond count
// always fits in an int64.
const maxTimestampSeconds = 1e12

// clampSeconds maps negative, NaN and infinite values to zero and caps
// anything above maxTimestampSeconds.
func clampSeconds(seconds float64) float64 {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0
	}
	return math.Min(seconds, maxTimestampSeconds)
}

// FormatTimestamp formats seconds as M:SS, or H:MM:SS from one hour on.
func FormatTimestamp(seconds float64) string {
	total := int64(math.Floor(clampSeconds(seconds)))
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatSRTTimestamp formats seconds as HH:MM:SS,mmm for SubRip cues.
func FormatSRTTimestamp(seconds float64) string {
	totalMs := int64(math.Round(clampSeconds(seconds) * 1000))
	h := totalMs / 3600000
	totalMs %= 3600000
	m := totalMs / 60000
	totalMs %= 60000
	s := totalMs / 1000
	ms := totalMs % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
