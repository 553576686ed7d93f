package domain

// DefaultSearchTitle is the heading shown when no display configuration
// has been stored, or when the stored one cannot be parsed.
const DefaultSearchTitle = "Find a Local Business"

// SearchSettings is the user-configurable display configuration for the
// search surface. It is persisted locally and read-shared; writers
// broadcast an invalidation so live readers re-fetch.
type SearchSettings struct {
	SearchTitle string `json:"searchTitle"`
}

// DefaultSettings returns the display configuration used when nothing has
// been stored yet.
func DefaultSettings() SearchSettings {
	return SearchSettings{SearchTitle: DefaultSearchTitle}
}
