package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/transcript-hub/backend/internal/api/middleware"
	"github.com/transcript-hub/backend/internal/db"
	"github.com/transcript-hub/backend/internal/db/models"
)

type TranscriptHandler struct {
	db *db.Database
}

func NewTranscriptHandler(db *db.Database) *TranscriptHandler {
	return &TranscriptHandler{db: db}
}

type segmentRequest struct {
	Text      string  `json:"text"`
	Speaker   *string `json:"speaker"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

type createTranscriptRequest struct {
	FolderID     *string                  `json:"folder_id"`
	Name         string                   `json:"name"`
	OriginalName string                   `json:"original_name"`
	Text         string                   `json:"text"`
	Language     *string                  `json:"language"`
	Duration     *float64                 `json:"duration"`
	Mode         models.TranscriptionMode `json:"mode"`
	FileSize     *int64                   `json:"file_size"`
	FileType     *string                  `json:"file_type"`
	Segments     []segmentRequest         `json:"segments"`
}

type updateTranscriptRequest struct {
	Name     *string `json:"name"`
	Text     *string `json:"text"`
	FolderID *string `json:"folder_id"`
	Language *string `json:"language"`
}

type transcriptListResponse struct {
	Items   []models.Transcript `json:"items"`
	Total   int                 `json:"total"`
	Limit   int                 `json:"limit"`
	Offset  int                 `json:"offset"`
	HasMore bool                `json:"has_more"`
}

// List supports ?folderId=<id|uncategorized>&status=&search=&limit=&offset=.
func (h *TranscriptHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	q := r.URL.Query()

	limit := db.DefaultListLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			jsonError(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, db.MaxListLimit)
	}
	offset := 0
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, "invalid offset", http.StatusBadRequest)
			return
		}
		offset = n
	}
	status := models.TranscriptStatus(q.Get("status"))
	if status != "" && !status.Valid() {
		jsonError(w, "invalid status", http.StatusBadRequest)
		return
	}

	items, total, err := h.db.ListTranscripts(claims.UserID, db.TranscriptFilter{
		FolderID: q.Get("folderId"),
		Status:   status,
		Search:   q.Get("search"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		jsonError(w, "failed to list transcripts", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, transcriptListResponse{
		Items:   items,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+len(items) < total,
	}, http.StatusOK)
}

func (h *TranscriptHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	var req createTranscriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		jsonError(w, "name is required", http.StatusBadRequest)
		return
	}
	if req.Mode != "" && !req.Mode.Valid() {
		jsonError(w, "mode must be one of: cheetah, dolphin, whale", http.StatusBadRequest)
		return
	}
	if req.OriginalName == "" {
		req.OriginalName = req.Name
	}

	segments := make([]db.NewSegment, len(req.Segments))
	texts := make([]string, len(req.Segments))
	for i, s := range req.Segments {
		segments[i] = db.NewSegment{Text: s.Text, Speaker: s.Speaker, StartTime: s.StartTime, EndTime: s.EndTime}
		texts[i] = strings.TrimSpace(s.Text)
	}
	if req.Text == "" {
		req.Text = strings.Join(texts, " ")
	}

	transcript, err := h.db.CreateTranscript(claims.UserID, db.NewTranscript{
		FolderID:     req.FolderID,
		Name:         req.Name,
		OriginalName: req.OriginalName,
		Text:         req.Text,
		Language:     req.Language,
		Duration:     req.Duration,
		Mode:         req.Mode,
		FileSize:     req.FileSize,
		FileType:     req.FileType,
		Segments:     segments,
	})
	if errors.Is(err, db.ErrInvalidFolder) {
		jsonError(w, "folder not found", http.StatusBadRequest)
		return
	}
	if err != nil {
		jsonError(w, "failed to create transcript", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, transcript, http.StatusCreated)
}

func (h *TranscriptHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	transcript, err := h.db.GetTranscript(claims.UserID, chi.URLParam(r, "id"))
	if errors.Is(err, db.ErrNotFound) {
		jsonError(w, "transcript not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to get transcript", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, transcript, http.StatusOK)
}

func (h *TranscriptHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	var req updateTranscriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		jsonError(w, "name cannot be empty", http.StatusBadRequest)
		return
	}

	transcript, err := h.db.UpdateTranscript(claims.UserID, chi.URLParam(r, "id"), db.TranscriptUpdate{
		Name:     req.Name,
		Text:     req.Text,
		FolderID: req.FolderID,
		Language: req.Language,
	})
	switch {
	case errors.Is(err, db.ErrNotFound):
		jsonError(w, "transcript not found", http.StatusNotFound)
	case errors.Is(err, db.ErrInvalidFolder):
		jsonError(w, "folder not found", http.StatusBadRequest)
	case err != nil:
		jsonError(w, "failed to update transcript", http.StatusInternalServerError)
	default:
		jsonResponse(w, transcript, http.StatusOK)
	}
}

func (h *TranscriptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	err := h.db.DeleteTranscript(claims.UserID, chi.URLParam(r, "id"))
	if errors.Is(err, db.ErrNotFound) {
		jsonError(w, "transcript not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to delete transcript", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
