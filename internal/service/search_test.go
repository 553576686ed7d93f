package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapleleads/directory-web/internal/domain"
	"github.com/mapleleads/directory-web/internal/pagination"
)

type stubAPI struct {
	pages    map[int]*domain.SearchResult
	received []domain.SearchFilters
}

func (a *stubAPI) Search(_ context.Context, f domain.SearchFilters) (*domain.SearchResult, error) {
	a.received = append(a.received, f)
	if result, ok := a.pages[f.Page]; ok {
		return result, nil
	}
	return &domain.SearchResult{Page: f.Page}, nil
}

func (a *stubAPI) Lookup(context.Context, string, string) (*domain.BusinessRecord, error) {
	return nil, nil
}

func (a *stubAPI) Industries(context.Context) ([]string, error) {
	return []string{"Plumbing"}, nil
}

func (a *stubAPI) Cities(context.Context) ([]string, error) {
	return []string{"Toronto"}, nil
}

func svc(name string) domain.Service {
	return domain.Service{CompanyName: name, Industry: "Plumbing", City: "Toronto", Rating: 4.5}
}

func TestSearchBuildsWindow(t *testing.T) {
	api := &stubAPI{pages: map[int]*domain.SearchResult{
		6: {
			Services:   []domain.Service{svc("Acme")},
			Total:      191,
			Page:       6,
			TotalPages: 10,
		},
	}}

	page, err := NewSearchService(api).Search(context.Background(), domain.DefaultFilters().WithPage(6))
	require.NoError(t, err)

	expected := []pagination.Item{
		pagination.Page(1), pagination.Ellipsis(),
		pagination.Page(5), pagination.Page(6), pagination.Page(7),
		pagination.Ellipsis(), pagination.Page(10),
	}
	assert.Equal(t, expected, page.Window)
	assert.True(t, page.HasPrev)
	assert.True(t, page.HasNext)
}

func TestSearchNormalizesFilters(t *testing.T) {
	api := &stubAPI{pages: map[int]*domain.SearchResult{}}

	_, err := NewSearchService(api).Search(context.Background(), domain.SearchFilters{Page: -1, Limit: 999, SortBy: "nope"})
	require.NoError(t, err)

	require.Len(t, api.received, 1)
	assert.Equal(t, domain.DefaultPage, api.received[0].Page)
	assert.Equal(t, domain.DefaultLimit, api.received[0].Limit)
	assert.Equal(t, domain.SortRatingDesc, api.received[0].SortBy)
}

func TestSearchSinglePageDisablesControls(t *testing.T) {
	api := &stubAPI{pages: map[int]*domain.SearchResult{
		1: {Services: []domain.Service{svc("Acme")}, Total: 1, Page: 1, TotalPages: 1},
	}}

	page, err := NewSearchService(api).Search(context.Background(), domain.DefaultFilters())
	require.NoError(t, err)

	assert.Empty(t, page.Window)
	assert.False(t, page.HasPrev)
	assert.False(t, page.HasNext)
}

func TestExportCSVStreamsAllPages(t *testing.T) {
	api := &stubAPI{pages: map[int]*domain.SearchResult{
		1: {Services: []domain.Service{svc("Acme"), svc("Best Pipes")}, Page: 1, TotalPages: 2},
		2: {Services: []domain.Service{svc("Clear Drains")}, Page: 2, TotalPages: 2},
	}}

	var buf bytes.Buffer
	err := NewSearchService(api).ExportCSV(context.Background(), &buf, domain.DefaultFilters(), []string{"company_name", "rating"})
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 4, "header plus three services")
	assert.Equal(t, []string{"company_name", "rating"}, rows[0])
	assert.Equal(t, []string{"Acme", "4.5"}, rows[1])
	assert.Equal(t, []string{"Clear Drains", "4.5"}, rows[3])

	// Export pages with the bulk page size regardless of the view limit.
	for _, f := range api.received {
		assert.Equal(t, exportPageSize, f.Limit)
	}
}

func TestExportColumnsCoverServiceFields(t *testing.T) {
	s := NewSearchService(&stubAPI{})
	cols := s.ExportColumns()

	assert.Contains(t, cols, "company_name")
	assert.Contains(t, cols, "postal_code")
	assert.False(t, strings.Contains(strings.Join(cols, ","), " "))
}
