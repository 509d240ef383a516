package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/transcript-hub/backend/internal/db/models"
)

const DefaultFolderColor = "#f59e0b"

// ListFolders returns the user's folders ordered by name, with transcript counts.
func (d *Database) ListFolders(userID int64) ([]models.Folder, error) {
	rows, err := d.db.Query(`
		SELECT f.id, f.user_id, f.name, f.color, f.created_at, f.updated_at,
			(SELECT COUNT(*) FROM transcripts t WHERE t.folder_id = f.id)
		FROM folders f WHERE f.user_id = ? ORDER BY f.name ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		var f models.Folder
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.Color, &f.CreatedAt, &f.UpdatedAt, &f.TranscriptCount); err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// GetFolder returns a single folder owned by userID.
func (d *Database) GetFolder(userID int64, id string) (*models.Folder, error) {
	var f models.Folder
	err := d.db.QueryRow(`
		SELECT f.id, f.user_id, f.name, f.color, f.created_at, f.updated_at,
			(SELECT COUNT(*) FROM transcripts t WHERE t.folder_id = f.id)
		FROM folders f WHERE f.id = ? AND f.user_id = ?`, id, userID,
	).Scan(&f.ID, &f.UserID, &f.Name, &f.Color, &f.CreatedAt, &f.UpdatedAt, &f.TranscriptCount)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// CreateFolder adds a folder; an empty color falls back to DefaultFolderColor.
func (d *Database) CreateFolder(userID int64, name, color string) (*models.Folder, error) {
	if color == "" {
		color = DefaultFolderColor
	}
	now := time.Now().UTC()
	f := &models.Folder{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := d.db.Exec(
		"INSERT INTO folders (id, user_id, name, color, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		f.ID, f.UserID, f.Name, f.Color, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// UpdateFolder changes name and/or color; nil leaves the field unchanged.
func (d *Database) UpdateFolder(userID int64, id string, name, color *string) (*models.Folder, error) {
	f, err := d.GetFolder(userID, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		f.Name = *name
	}
	if color != nil {
		f.Color = *color
	}
	f.UpdatedAt = time.Now().UTC()
	_, err = d.db.Exec(
		"UPDATE folders SET name = ?, color = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		f.Name, f.Color, f.UpdatedAt, id, userID,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// DeleteFolder removes a folder. Its transcripts become uncategorized.
func (d *Database) DeleteFolder(userID int64, id string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE transcripts SET folder_id = NULL WHERE folder_id = ? AND user_id = ?", id, userID); err != nil {
		return err
	}
	result, err := tx.Exec("DELETE FROM folders WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}
