package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/transcript-hub/backend/internal/api/middleware"
	"github.com/transcript-hub/backend/internal/db"
	"github.com/transcript-hub/backend/internal/export"
	"github.com/transcript-hub/backend/internal/metrics"
)

type ExportHandler struct {
	db       *db.Database
	exporter *export.Exporter
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

func NewExportHandler(db *db.Database, exporter *export.Exporter, m *metrics.Metrics, logger zerolog.Logger) *ExportHandler {
	return &ExportHandler{db: db, exporter: exporter, metrics: m, logger: logger}
}

// Export serves GET /api/export/{id}?format=txt|srt|pdf|docx&timestamps=bool&speakers=bool.
// A missing format means txt; any other unknown value is rejected.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	q := r.URL.Query()

	raw := q.Get("format")
	if raw == "" {
		raw = export.FormatTXT.String()
	}
	format, err := export.ParseFormat(raw)
	if err != nil {
		h.record("invalid", "invalid_format", 0, nil)
		jsonError(w, "invalid export format, use: txt, srt, pdf, or docx", http.StatusBadRequest)
		return
	}

	transcript, err := h.db.GetTranscript(claims.UserID, chi.URLParam(r, "id"))
	if errors.Is(err, db.ErrNotFound) {
		h.record(format.String(), "not_found", 0, nil)
		jsonError(w, "transcript not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("transcript_id", chi.URLParam(r, "id")).Msg("load transcript for export")
		jsonError(w, "failed to export transcript", http.StatusInternalServerError)
		return
	}

	opts := export.Options{
		IncludeTimestamps: queryBool(q.Get("timestamps")),
		IncludeSpeakers:   queryBool(q.Get("speakers")),
		Title:             transcript.Name,
	}

	start := time.Now()
	res, err := h.exporter.Export(transcript.ExportData(), format, opts)
	elapsed := time.Since(start)
	if err != nil {
		h.record(format.String(), "error", elapsed, nil)
		h.logger.Error().Err(err).
			Str("transcript_id", transcript.ID).
			Str("format", format.String()).
			Msg("export failed")
		if errors.Is(err, export.ErrInvalidFormat) {
			jsonError(w, "invalid export format", http.StatusBadRequest)
			return
		}
		jsonError(w, "failed to export transcript", http.StatusInternalServerError)
		return
	}
	h.record(format.String(), "ok", elapsed, res)

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Payload)))
	w.WriteHeader(http.StatusOK)
	w.Write(res.Payload)
}

func (h *ExportHandler) record(format, outcome string, elapsed time.Duration, res *export.Result) {
	if h.metrics == nil {
		return
	}
	size, malformed := 0, 0
	if res != nil {
		size, malformed = len(res.Payload), res.Malformed
	}
	h.metrics.RecordExport(format, outcome, elapsed.Seconds(), size, malformed)
}

// queryBool reads a boolean toggle; anything unparsable counts as false.
func queryBool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}
