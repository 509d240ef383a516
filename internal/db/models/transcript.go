package models

import (
	"time"

	"github.com/transcript-hub/backend/internal/export"
)

// TranscriptStatus tracks where a transcript is in its lifecycle.
type TranscriptStatus string

const (
	StatusProcessing TranscriptStatus = "processing"
	StatusCompleted  TranscriptStatus = "completed"
	StatusFailed     TranscriptStatus = "failed"
)

func (s TranscriptStatus) Valid() bool {
	switch s {
	case StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// TranscriptionMode is the speed/accuracy tier the transcript was produced with.
type TranscriptionMode string

const (
	ModeCheetah TranscriptionMode = "cheetah" // fastest
	ModeDolphin TranscriptionMode = "dolphin" // balanced
	ModeWhale   TranscriptionMode = "whale"   // most accurate, diarized
)

func (m TranscriptionMode) Valid() bool {
	switch m {
	case ModeCheetah, ModeDolphin, ModeWhale:
		return true
	}
	return false
}

type Folder struct {
	ID              string    `json:"id"`
	UserID          int64     `json:"-"`
	Name            string    `json:"name"`
	Color           string    `json:"color"`
	TranscriptCount int       `json:"transcript_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Transcript struct {
	ID           string            `json:"id"`
	UserID       int64             `json:"-"`
	FolderID     *string           `json:"folder_id"`
	Name         string            `json:"name"`
	OriginalName string            `json:"original_name"`
	Text         string            `json:"text"`
	Language     *string           `json:"language"`
	Duration     *float64          `json:"duration"`
	Mode         TranscriptionMode `json:"mode"`
	Status       TranscriptStatus  `json:"status"`
	FileSize     *int64            `json:"file_size,omitempty"`
	FileType     *string           `json:"file_type,omitempty"`
	SegmentCount int               `json:"segment_count"`
	Segments     []Segment         `json:"segments,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
}

type Segment struct {
	ID        string  `json:"id"`
	Position  int     `json:"position"`
	Text      string  `json:"text"`
	Speaker   *string `json:"speaker"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// ExportData converts the stored record into the export pipeline's input.
// Segments must already be loaded in position order.
func (t *Transcript) ExportData() export.Transcript {
	segments := make([]export.Segment, len(t.Segments))
	for i, s := range t.Segments {
		segments[i] = export.Segment{
			Text:      s.Text,
			Speaker:   s.Speaker,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		}
	}
	return export.Transcript{
		ID:        t.ID,
		Name:      t.Name,
		Text:      t.Text,
		Language:  t.Language,
		Duration:  t.Duration,
		CreatedAt: t.CreatedAt,
		Segments:  segments,
	}
}
