package domain

import "strings"

// Sort orders accepted by the listing API.
const (
	SortRatingDesc = "rating_desc"
	SortRatingAsc  = "rating_asc"
	SortNameAsc    = "name_asc"
	SortNewest     = "newest"
)

// Minimum-rating floors per surface. The general directory search admits
// unrated businesses; the renewal surface only deals with rated ones.
const (
	MinRatingFloorGeneral = 0.0
	MinRatingFloorRenewal = 1.0

	MaxRating = 5.0
)

// Pagination defaults and bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// AllOption is the sentinel the UI sends when a select control is reset
// to its "All" entry. It clears the field rather than being stored.
const AllOption = "all"

// postalCodeMaxLen is the number of significant characters in a Canadian
// postal code (A1A1A1, displayed as "A1A 1A1").
const postalCodeMaxLen = 6

// SearchFilters is the canonical query description sent to the listing API.
// Every field except pagination is independently optional; the zero value
// of a field means "unset".
type SearchFilters struct {
	Query       string  `json:"query,omitempty"`
	Industry    string  `json:"industry,omitempty"`
	City        string  `json:"city,omitempty"`
	PostalCode  string  `json:"postalCode,omitempty"`
	MinRating   float64 `json:"minRating"`
	CompanyName string  `json:"companyName,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	SortBy      string  `json:"sortBy"`
	Page        int     `json:"page"`
	Limit       int     `json:"limit"`
}

// DefaultFilters returns the schema defaults: empty criteria, rating
// floored at the general surface, sorted by descending rating, page 1.
func DefaultFilters() SearchFilters {
	return SearchFilters{
		MinRating: MinRatingFloorGeneral,
		SortBy:    SortRatingDesc,
		Page:      DefaultPage,
		Limit:     DefaultLimit,
	}
}

// reset returns a copy with the page reset to 1. Every criteria edit goes
// through it so that changing any field other than the page itself always
// lands the caller back on the first page.
func (f SearchFilters) reset() SearchFilters {
	f.Page = DefaultPage
	return f
}

// WithQuery returns a copy with the free-text query changed and the page reset.
func (f SearchFilters) WithQuery(q string) SearchFilters {
	f.Query = q
	return f.reset()
}

// WithIndustry returns a copy with the industry changed and the page reset.
// The "All" sentinel clears the field.
func (f SearchFilters) WithIndustry(industry string) SearchFilters {
	f.Industry = clearSentinel(industry)
	return f.reset()
}

// WithCity returns a copy with the city changed and the page reset.
// The "All" sentinel clears the field.
func (f SearchFilters) WithCity(city string) SearchFilters {
	f.City = clearSentinel(city)
	return f.reset()
}

// WithPostalCode returns a copy with the postal code normalized and the
// page reset.
func (f SearchFilters) WithPostalCode(raw string) SearchFilters {
	f.PostalCode = NormalizePostalCode(raw)
	return f.reset()
}

// WithMinRating returns a copy with the minimum rating changed and the
// page reset. Values are clamped to [floor, MaxRating].
func (f SearchFilters) WithMinRating(rating, floor float64) SearchFilters {
	if rating < floor {
		rating = floor
	}
	if rating > MaxRating {
		rating = MaxRating
	}
	f.MinRating = rating
	return f.reset()
}

// WithCompanyName returns a copy with the company name changed and the
// page reset.
func (f SearchFilters) WithCompanyName(name string) SearchFilters {
	f.CompanyName = name
	return f.reset()
}

// WithPhone returns a copy with the phone changed and the page reset.
func (f SearchFilters) WithPhone(phone string) SearchFilters {
	f.Phone = phone
	return f.reset()
}

// WithSortBy returns a copy with the sort order changed and the page reset.
// Unknown sort orders fall back to the default.
func (f SearchFilters) WithSortBy(sortBy string) SearchFilters {
	if !ValidSortOrder(sortBy) {
		sortBy = SortRatingDesc
	}
	f.SortBy = sortBy
	return f.reset()
}

// WithPage returns a copy on the requested page. This is the only edit
// that does not reset pagination.
func (f SearchFilters) WithPage(page int) SearchFilters {
	if page < 1 {
		page = DefaultPage
	}
	f.Page = page
	return f
}

// Normalized returns a copy safe to hand to the listing API: page and
// limit bounded, sort order valid. Criteria values are passed through
// untouched so that values outside the enumerated lists still round-trip.
func (f SearchFilters) Normalized() SearchFilters {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 || f.Limit > MaxLimit {
		f.Limit = DefaultLimit
	}
	if !ValidSortOrder(f.SortBy) {
		f.SortBy = SortRatingDesc
	}
	return f
}

// ValidSortOrder reports whether s is one of the accepted sort orders.
func ValidSortOrder(s string) bool {
	switch s {
	case SortRatingDesc, SortRatingAsc, SortNameAsc, SortNewest:
		return true
	}
	return false
}

// NormalizePostalCode strips non-alphanumeric characters, uppercases,
// caps at six significant characters and inserts the display space after
// the third character once the full letter-digit-letter digit-letter-digit
// pattern is present. An empty result means "unset".
func NormalizePostalCode(raw string) string {
	var b strings.Builder

	for _, r := range raw {
		if b.Len() == postalCodeMaxLen {
			break
		}
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - ('a' - 'A'))
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		}
	}

	code := b.String()
	if len(code) == postalCodeMaxLen && isPostalCodePattern(code) {
		return code[:3] + " " + code[3:]
	}

	return code
}

// isPostalCodePattern reports whether a six character candidate alternates
// letter, digit, letter, digit, letter, digit.
func isPostalCodePattern(code string) bool {
	for i := 0; i < len(code); i++ {
		isDigit := code[i] >= '0' && code[i] <= '9'
		if i%2 == 0 && isDigit {
			return false
		}
		if i%2 == 1 && !isDigit {
			return false
		}
	}
	return true
}

func clearSentinel(v string) string {
	if strings.EqualFold(strings.TrimSpace(v), AllOption) {
		return ""
	}
	return v
}
