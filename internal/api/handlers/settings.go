package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mapleleads/directory-web/internal/domain"
	"github.com/mapleleads/directory-web/internal/settings"
)

// SettingsHandler handles display-configuration endpoints
type SettingsHandler struct {
	store  *settings.Store
	logger *slog.Logger
}

// NewSettingsHandler creates a new handler
func NewSettingsHandler(store *settings.Store, logger *slog.Logger) *SettingsHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &SettingsHandler{store: store, logger: logger}
}

// Get handles GET /api/v1/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	RenderJSON(w, http.StatusOK, h.store.Get(r.Context()))
}

// Put handles PUT /api/v1/settings
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req domain.SearchSettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RenderError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.store.Put(r.Context(), req); err != nil {
		h.logger.Error("settings save failed", "error", err)
		RenderError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}

	RenderJSON(w, http.StatusOK, h.store.Get(r.Context()))
}
