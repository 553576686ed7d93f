package domain

// BusinessRecord is a single business returned by the renewal lookup.
// Records are produced only by a successful remote lookup and are replaced
// wholesale, never mutated in place.
type BusinessRecord struct {
	ID          string  `json:"id"`
	CompanyName string  `json:"companyName"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
	Phone       string  `json:"phone"`
	Industry    string  `json:"industry"`
	Address     string  `json:"address"`
	Email       string  `json:"email"`
	Website     *string `json:"website,omitempty"`
	City        string  `json:"city"`
	PostalCode  string  `json:"postalCode"`
	Verified    bool    `json:"verified"`
	Licensed    bool    `json:"licensed"`
	Featured    bool    `json:"featured"`
}

// Service is a directory listing row as returned by the listing API.
// The authoritative copy lives server side; this layer only displays it.
type Service struct {
	ID          string  `json:"id"`
	CompanyName string  `json:"companyName"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
	Phone       string  `json:"phone"`
	Industry    string  `json:"industry"`
	Address     string  `json:"address"`
	Email       string  `json:"email"`
	Website     *string `json:"website,omitempty"`
	City        string  `json:"city"`
	PostalCode  string  `json:"postalCode"`
	Duplicate   *bool   `json:"duplicate,omitempty"`
}

// SearchResult is the listing API response for a search query.
type SearchResult struct {
	Services   []Service `json:"services"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
	Industries []string  `json:"industries"`
	Cities     []string  `json:"cities"`
}
