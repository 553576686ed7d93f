package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/mapleleads/directory-web/internal/renewal"
	"github.com/mapleleads/directory-web/tlmt"
)

// sessionCookie carries the renewal session across requests.
const sessionCookie = "dw_session"

// RenewalHandler handles the renewal funnel endpoints. Each browsing
// session owns one debounced lookup coordinator; keystrokes are posted to
// Input and the tri-state progress is read back from the returned
// snapshot or polled via State.
type RenewalHandler struct {
	registry        *renewal.Registry
	checkoutBaseURL string
	telemetry       tlmt.Telemetry
	logger          *slog.Logger
}

// NewRenewalHandler creates a new handler
func NewRenewalHandler(registry *renewal.Registry, checkoutBaseURL string, telemetry tlmt.Telemetry, logger *slog.Logger) *RenewalHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &RenewalHandler{
		registry:        registry,
		checkoutBaseURL: checkoutBaseURL,
		telemetry:       telemetry,
		logger:          logger,
	}
}

// sessionID resolves the renewal session, minting one when absent.
func (h *RenewalHandler) sessionID(w http.ResponseWriter, r *http.Request) string {
	if id := r.Header.Get("X-Session-ID"); id != "" {
		return id
	}

	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// Input handles POST /api/v1/renewal/input
func (h *RenewalHandler) Input(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Industry string `json:"industry"`
		Phone    string `json:"phone"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RenderError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	lookup := h.registry.Get(h.sessionID(w, r))
	lookup.SetInput(req.Industry, req.Phone)

	RenderJSON(w, http.StatusAccepted, lookup.Snapshot())
}

// State handles GET /api/v1/renewal/state
func (h *RenewalHandler) State(w http.ResponseWriter, r *http.Request) {
	lookup := h.registry.Get(h.sessionID(w, r))

	RenderJSON(w, http.StatusOK, lookup.Snapshot())
}

// Plans handles GET /api/v1/renewal/plans
func (h *RenewalHandler) Plans(w http.ResponseWriter, r *http.Request) {
	lookup := h.registry.Get(h.sessionID(w, r))
	snap := lookup.Snapshot()

	if snap.State != renewal.StateFound {
		RenderError(w, http.StatusConflict, "No matched business for this session")
		return
	}

	if h.telemetry != nil {
		_ = h.telemetry.Send(r.Context(), tlmt.NewEvent("renewal_plans_viewed", map[string]any{
			"industry": snap.Record.Industry,
		}))
	}

	RenderJSON(w, http.StatusOK, map[string]interface{}{
		"record": snap.Record,
		"plans":  renewal.Plans(snap.Record, h.checkoutBaseURL),
	})
}
