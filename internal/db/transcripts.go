package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/transcript-hub/backend/internal/db/models"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// FolderUncategorized selects transcripts that are not in any folder.
const FolderUncategorized = "uncategorized"

// TranscriptFilter narrows ListTranscripts.
type TranscriptFilter struct {
	FolderID string // folder id, FolderUncategorized, or empty for all
	Status   models.TranscriptStatus
	Search   string // case-insensitive match on name or text
	Limit    int
	Offset   int
}

// NewTranscript is the input to CreateTranscript.
type NewTranscript struct {
	FolderID     *string
	Name         string
	OriginalName string
	Text         string
	Language     *string
	Duration     *float64
	Mode         models.TranscriptionMode
	FileSize     *int64
	FileType     *string
	Segments     []NewSegment
}

type NewSegment struct {
	Text      string
	Speaker   *string
	StartTime float64
	EndTime   float64
}

// TranscriptUpdate holds optional changes; nil fields are left as is.
// An empty FolderID moves the transcript out of its folder.
type TranscriptUpdate struct {
	Name     *string
	Text     *string
	FolderID *string
	Language *string
}

const transcriptColumns = `t.id, t.user_id, t.folder_id, t.name, t.original_name, t.text, t.language,
	t.duration, t.mode, t.status, t.file_size, t.file_type, t.created_at, t.updated_at, t.completed_at,
	(SELECT COUNT(*) FROM segments s WHERE s.transcript_id = t.id)`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTranscript(row rowScanner) (*models.Transcript, error) {
	t := &models.Transcript{}
	var folderID, language, fileType sql.NullString
	var duration sql.NullFloat64
	var fileSize sql.NullInt64
	var completedAt sql.NullTime

	err := row.Scan(&t.ID, &t.UserID, &folderID, &t.Name, &t.OriginalName, &t.Text, &language,
		&duration, &t.Mode, &t.Status, &fileSize, &fileType, &t.CreatedAt, &t.UpdatedAt, &completedAt,
		&t.SegmentCount)
	if err != nil {
		return nil, err
	}

	if folderID.Valid {
		t.FolderID = &folderID.String
	}
	if language.Valid {
		t.Language = &language.String
	}
	if duration.Valid {
		t.Duration = &duration.Float64
	}
	if fileSize.Valid {
		t.FileSize = &fileSize.Int64
	}
	if fileType.Valid {
		t.FileType = &fileType.String
	}
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	return t, nil
}

// CreateTranscript stores a completed transcript and its segments in one
// transaction. Segment positions follow slice order.
func (d *Database) CreateTranscript(userID int64, in NewTranscript) (*models.Transcript, error) {
	if in.Mode == "" {
		in.Mode = models.ModeDolphin
	}
	if in.FolderID != nil && *in.FolderID == "" {
		in.FolderID = nil
	}
	if in.FolderID != nil {
		if _, err := d.GetFolder(userID, *in.FolderID); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidFolder, *in.FolderID)
		}
	}

	now := time.Now().UTC()
	id := uuid.New().String()

	tx, err := d.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO transcripts (id, user_id, folder_id, name, original_name, text, language, duration,
			mode, status, file_size, file_type, created_at, updated_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, in.FolderID, in.Name, in.OriginalName, in.Text, in.Language, in.Duration,
		in.Mode, models.StatusCompleted, in.FileSize, in.FileType, now, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert transcript: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO segments (id, transcript_id, position, text, speaker, start_time, end_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for i, seg := range in.Segments {
		if _, err := stmt.Exec(uuid.New().String(), id, i, seg.Text, seg.Speaker, seg.StartTime, seg.EndTime); err != nil {
			return nil, fmt.Errorf("insert segment %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return d.GetTranscript(userID, id)
}

// GetTranscript returns a transcript owned by userID with its segments in order.
func (d *Database) GetTranscript(userID int64, id string) (*models.Transcript, error) {
	t, err := scanTranscript(d.db.QueryRow(
		"SELECT "+transcriptColumns+" FROM transcripts t WHERE t.id = ? AND t.user_id = ?", id, userID,
	))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := d.db.Query(`
		SELECT id, position, text, speaker, start_time, end_time
		FROM segments WHERE transcript_id = ? ORDER BY position ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	t.Segments = []models.Segment{}
	for rows.Next() {
		var s models.Segment
		var speaker sql.NullString
		if err := rows.Scan(&s.ID, &s.Position, &s.Text, &speaker, &s.StartTime, &s.EndTime); err != nil {
			return nil, err
		}
		if speaker.Valid {
			s.Speaker = &speaker.String
		}
		t.Segments = append(t.Segments, s)
	}
	return t, rows.Err()
}

// ListTranscripts returns one page of the user's transcripts, newest first,
// plus the total number matching the filter.
func (d *Database) ListTranscripts(userID int64, f TranscriptFilter) ([]models.Transcript, int, error) {
	where := []string{"t.user_id = ?"}
	args := []any{userID}

	switch f.FolderID {
	case "":
	case FolderUncategorized:
		where = append(where, "t.folder_id IS NULL")
	default:
		where = append(where, "t.folder_id = ?")
		args = append(args, f.FolderID)
	}
	if f.Status != "" {
		where = append(where, "t.status = ?")
		args = append(args, f.Status)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := "%" + escapeLike(strings.ToLower(s)) + "%"
		where = append(where, `(LOWER(t.name) LIKE ? ESCAPE '\' OR LOWER(t.text) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM transcripts t WHERE "+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := d.db.Query(
		"SELECT "+transcriptColumns+" FROM transcripts t WHERE "+clause+" ORDER BY t.created_at DESC, t.id ASC LIMIT ? OFFSET ?",
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	transcripts := []models.Transcript{}
	for rows.Next() {
		t, err := scanTranscript(rows)
		if err != nil {
			return nil, 0, err
		}
		transcripts = append(transcripts, *t)
	}
	return transcripts, total, rows.Err()
}

// UpdateTranscript applies a partial update and returns the fresh record.
func (d *Database) UpdateTranscript(userID int64, id string, u TranscriptUpdate) (*models.Transcript, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if u.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *u.Name)
	}
	if u.Text != nil {
		sets = append(sets, "text = ?")
		args = append(args, *u.Text)
	}
	if u.Language != nil {
		sets = append(sets, "language = ?")
		args = append(args, *u.Language)
	}
	if u.FolderID != nil {
		if *u.FolderID == "" {
			sets = append(sets, "folder_id = NULL")
		} else {
			if _, err := d.GetFolder(userID, *u.FolderID); err != nil {
				return nil, fmt.Errorf("%w: %s", ErrInvalidFolder, *u.FolderID)
			}
			sets = append(sets, "folder_id = ?")
			args = append(args, *u.FolderID)
		}
	}

	args = append(args, id, userID)
	result, err := d.db.Exec("UPDATE transcripts SET "+strings.Join(sets, ", ")+" WHERE id = ? AND user_id = ?", args...)
	if err != nil {
		return nil, err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return d.GetTranscript(userID, id)
}

// DeleteTranscript removes a transcript and, by cascade, its segments.
func (d *Database) DeleteTranscript(userID int64, id string) error {
	result, err := d.db.Exec("DELETE FROM transcripts WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
