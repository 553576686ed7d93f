package directory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapleleads/directory-web/internal/cache"
	"github.com/mapleleads/directory-web/internal/domain"
)

func TestClientSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/services", r.URL.Path)
		assert.Equal(t, "Plumbing", r.URL.Query().Get("industry"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, domain.SortRatingDesc, r.URL.Query().Get("sort_by"))
		assert.Equal(t, "Bearer token123", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(domain.SearchResult{
			Services:   []domain.Service{{ID: "1", CompanyName: "Acme Plumbing"}},
			Total:      21,
			Page:       2,
			TotalPages: 2,
			Industries: []string{"Plumbing", "Roofing"},
			Cities:     []string{"Toronto"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token123")

	result, err := client.Search(context.Background(), domain.DefaultFilters().WithIndustry("Plumbing").WithPage(2))
	require.NoError(t, err)

	assert.Equal(t, 21, result.Total)
	assert.Equal(t, 2, result.TotalPages)
	require.Len(t, result.Services, 1)
	assert.Equal(t, "Acme Plumbing", result.Services[0].CompanyName)
}

func TestClientLookup(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expectedErr error
	}{
		{
			name:   "match",
			status: http.StatusOK,
			body:   `{"id":"b1","companyName":"Acme Plumbing","rating":4.5,"phone":"4165551234"}`,
		},
		{
			name:        "no match",
			status:      http.StatusNotFound,
			body:        `{"message":"no business matched"}`,
			expectedErr: ErrNotFound,
		},
		{
			name:        "server error",
			status:      http.StatusInternalServerError,
			body:        `{}`,
			expectedErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/v1/businesses/lookup", r.URL.Path)

				var req map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "Plumbing", req["industry"])

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "")

			record, err := client.Lookup(context.Background(), "Plumbing", "4165551234")
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, record)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "Acme Plumbing", record.CompanyName)
			}
		})
	}
}

func TestClientIndustries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/industries", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]string{"Plumbing", "Roofing", "Electrical"})
	}))
	defer srv.Close()

	industries, err := NewClient(srv.URL, "").Industries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Plumbing", "Roofing", "Electrical"}, industries)
}

type countingAPI struct {
	searches   atomic.Int64
	industries atomic.Int64
	lookups    atomic.Int64
}

func (a *countingAPI) Search(_ context.Context, f domain.SearchFilters) (*domain.SearchResult, error) {
	a.searches.Add(1)
	return &domain.SearchResult{Total: 1, Page: f.Page, TotalPages: 1}, nil
}

func (a *countingAPI) Lookup(context.Context, string, string) (*domain.BusinessRecord, error) {
	a.lookups.Add(1)
	return nil, ErrNotFound
}

func (a *countingAPI) Industries(context.Context) ([]string, error) {
	a.industries.Add(1)
	return []string{"Plumbing"}, nil
}

func (a *countingAPI) Cities(context.Context) ([]string, error) {
	return []string{"Toronto"}, nil
}

func TestCachedAPISearch(t *testing.T) {
	origin := &countingAPI{}
	mem := cache.NewMemoryCache()
	defer mem.Close()

	api := NewCachedAPI(origin, mem, nil)
	ctx := context.Background()

	filters := domain.DefaultFilters().WithCity("Toronto")

	_, err := api.Search(ctx, filters)
	require.NoError(t, err)
	_, err = api.Search(ctx, filters)
	require.NoError(t, err)

	assert.Equal(t, int64(1), origin.searches.Load(), "repeat search should hit the cache")

	// Different page is a different key.
	_, err = api.Search(ctx, filters.WithPage(2))
	require.NoError(t, err)
	assert.Equal(t, int64(2), origin.searches.Load())
}

func TestCachedAPIEnums(t *testing.T) {
	origin := &countingAPI{}
	mem := cache.NewMemoryCache()
	defer mem.Close()

	api := NewCachedAPI(origin, mem, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := api.Industries(ctx)
		require.NoError(t, err)
	}

	assert.Equal(t, int64(1), origin.industries.Load())
}

func TestCachedAPILookupNeverCached(t *testing.T) {
	origin := &countingAPI{}
	mem := cache.NewMemoryCache()
	defer mem.Close()

	api := NewCachedAPI(origin, mem, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := api.Lookup(ctx, "Plumbing", "4165551234")
		assert.True(t, errors.Is(err, ErrNotFound))
	}

	assert.Equal(t, int64(2), origin.lookups.Load())
}
