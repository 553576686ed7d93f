package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mapleleads/directory-web/internal/domain"
	"github.com/mapleleads/directory-web/internal/service"
	"github.com/mapleleads/directory-web/tlmt"
)

// SearchHandler handles listing search endpoints
type SearchHandler struct {
	svc       *service.SearchService
	telemetry tlmt.Telemetry
	logger    *slog.Logger
}

// NewSearchHandler creates a new handler
func NewSearchHandler(svc *service.SearchService, telemetry tlmt.Telemetry, logger *slog.Logger) *SearchHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &SearchHandler{svc: svc, telemetry: telemetry, logger: logger}
}

// parseFilters builds a normalized filter object from query parameters.
func parseFilters(r *http.Request) domain.SearchFilters {
	filters := domain.DefaultFilters()
	q := r.URL.Query()

	if v := q.Get("query"); v != "" {
		filters.Query = v
	}

	if v := q.Get("industry"); v != "" {
		filters = filters.WithIndustry(v)
	}

	if v := q.Get("city"); v != "" {
		filters = filters.WithCity(v)
	}

	if v := q.Get("postal_code"); v != "" {
		filters = filters.WithPostalCode(v)
	}

	if v := q.Get("min_rating"); v != "" {
		if rating, err := strconv.ParseFloat(v, 64); err == nil {
			filters = filters.WithMinRating(rating, domain.MinRatingFloorGeneral)
		}
	}

	if v := q.Get("company_name"); v != "" {
		filters.CompanyName = v
	}

	if v := q.Get("phone"); v != "" {
		filters.Phone = v
	}

	if v := q.Get("sort_by"); v != "" {
		filters = filters.WithSortBy(v)
	}

	if v := q.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 && limit <= domain.MaxLimit {
			filters.Limit = limit
		}
	}

	// Page is parsed last so criteria edits cannot reset it.
	if v := q.Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil && page > 0 {
			filters = filters.WithPage(page)
		}
	}

	return filters
}

// Search handles GET /api/v1/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	filters := parseFilters(r)

	page, err := h.svc.Search(r.Context(), filters)
	if err != nil {
		h.logger.Error("search failed", "error", err)
		RenderError(w, http.StatusBadGateway, "Failed to fetch listings")
		return
	}

	if h.telemetry != nil {
		_ = h.telemetry.Send(r.Context(), tlmt.NewEvent("directory_search", map[string]any{
			"has_query": filters.Query != "",
			"page":      filters.Page,
		}))
	}

	RenderJSON(w, http.StatusOK, page)
}

// Industries handles GET /api/v1/industries
func (h *SearchHandler) Industries(w http.ResponseWriter, r *http.Request) {
	industries, err := h.svc.Industries(r.Context())
	if err != nil {
		h.logger.Error("industries fetch failed", "error", err)
		RenderError(w, http.StatusBadGateway, "Failed to fetch industries")
		return
	}

	RenderJSON(w, http.StatusOK, map[string]interface{}{"data": industries})
}

// Cities handles GET /api/v1/cities
func (h *SearchHandler) Cities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.svc.Cities(r.Context())
	if err != nil {
		h.logger.Error("cities fetch failed", "error", err)
		RenderError(w, http.StatusBadGateway, "Failed to fetch cities")
		return
	}

	RenderJSON(w, http.StatusOK, map[string]interface{}{"data": cities})
}

// Export handles GET /api/v1/search/export
func (h *SearchHandler) Export(w http.ResponseWriter, r *http.Request) {
	filters := parseFilters(r)

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	var columns []string
	if cols := r.URL.Query().Get("columns"); cols != "" {
		columns = strings.Split(cols, ",")

		validCols := make(map[string]bool)
		for _, c := range h.svc.ExportColumns() {
			validCols[c] = true
		}
		for _, c := range columns {
			if !validCols[c] {
				RenderError(w, http.StatusBadRequest, "Invalid column: "+c)
				return
			}
		}
	}

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=services.csv")
		if err := h.svc.ExportCSV(r.Context(), w, filters, columns); err != nil {
			h.logger.Error("csv export failed", "error", err)
			return
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename=services.xlsx")
		if err := h.svc.ExportXLSX(r.Context(), w, filters, columns); err != nil {
			h.logger.Error("xlsx export failed", "error", err)
			return
		}
	default:
		RenderError(w, http.StatusBadRequest, "Invalid format. Supported: csv, xlsx")
	}
}
