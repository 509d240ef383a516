package handlers

import (
	"net/http"

	"github.com/transcript-hub/backend/internal/db"
)

type HealthHandler struct {
	db *db.Database
}

func NewHealthHandler(db *db.Database) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(); err != nil {
		jsonError(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}
