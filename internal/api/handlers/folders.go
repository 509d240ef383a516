package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/transcript-hub/backend/internal/api/middleware"
	"github.com/transcript-hub/backend/internal/db"
)

type FolderHandler struct {
	db *db.Database
}

func NewFolderHandler(db *db.Database) *FolderHandler {
	return &FolderHandler{db: db}
}

type folderRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	folders, err := h.db.ListFolders(claims.UserID)
	if err != nil {
		jsonError(w, "failed to list folders", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, folders, http.StatusOK)
}

func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	var req folderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		jsonError(w, "folder name is required", http.StatusBadRequest)
		return
	}
	color := ""
	if req.Color != nil {
		color = *req.Color
	}

	folder, err := h.db.CreateFolder(claims.UserID, strings.TrimSpace(*req.Name), color)
	if err != nil {
		jsonError(w, "failed to create folder", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, folder, http.StatusCreated)
}

func (h *FolderHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	folder, err := h.db.GetFolder(claims.UserID, chi.URLParam(r, "id"))
	if errors.Is(err, db.ErrNotFound) {
		jsonError(w, "folder not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to get folder", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, folder, http.StatusOK)
}

func (h *FolderHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	var req folderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		jsonError(w, "folder name cannot be empty", http.StatusBadRequest)
		return
	}

	folder, err := h.db.UpdateFolder(claims.UserID, chi.URLParam(r, "id"), req.Name, req.Color)
	if errors.Is(err, db.ErrNotFound) {
		jsonError(w, "folder not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to update folder", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, folder, http.StatusOK)
}

func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	err := h.db.DeleteFolder(claims.UserID, chi.URLParam(r, "id"))
	if errors.Is(err, db.ErrNotFound) {
		jsonError(w, "folder not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to delete folder", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
