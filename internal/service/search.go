package service

import (
	"context"
	"fmt"

	"github.com/mapleleads/directory-web/internal/directory"
	"github.com/mapleleads/directory-web/internal/domain"
	"github.com/mapleleads/directory-web/internal/pagination"
)

// SearchPage is a listing page prepared for rendering: the remote result
// plus the pagination window and control states.
type SearchPage struct {
	Services   []domain.Service  `json:"services"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
	Window     []pagination.Item `json:"window"`
	HasPrev    bool              `json:"hasPrev"`
	HasNext    bool              `json:"hasNext"`
	Industries []string          `json:"industries"`
	Cities     []string          `json:"cities"`
}

// SearchService runs normalized listing queries against the remote
// directory API and derives the pagination window.
type SearchService struct {
	api directory.API
}

// NewSearchService creates a new service
func NewSearchService(api directory.API) *SearchService {
	return &SearchService{api: api}
}

// Search runs one listing query. Out-of-range page requests are the
// caller's responsibility to avoid (prev/next are disabled at the
// boundary); the remote API clamps whatever still gets through.
func (s *SearchService) Search(ctx context.Context, filters domain.SearchFilters) (*SearchPage, error) {
	result, err := s.api.Search(ctx, filters.Normalized())
	if err != nil {
		return nil, fmt.Errorf("search services: %w", err)
	}

	return &SearchPage{
		Services:   result.Services,
		Total:      result.Total,
		Page:       result.Page,
		TotalPages: result.TotalPages,
		Window:     pagination.Window(result.Page, result.TotalPages),
		HasPrev:    pagination.HasPrev(result.Page),
		HasNext:    pagination.HasNext(result.Page, result.TotalPages),
		Industries: result.Industries,
		Cities:     result.Cities,
	}, nil
}

// Industries returns the enumerated industry list.
func (s *SearchService) Industries(ctx context.Context) ([]string, error) {
	return s.api.Industries(ctx)
}

// Cities returns the enumerated city list.
func (s *SearchService) Cities(ctx context.Context) ([]string, error) {
	return s.api.Cities(ctx)
}
