package catalog

// SearchResult is one candidate record from a catalog search.
// Year arrives as a string from the search endpoint (release details carry
// it as an int).
type SearchResult struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Year          string   `json:"year"`
	Label         []string `json:"label"`
	CatalogNumber string   `json:"catno"`
	Genres        []string `json:"genre"`
	Thumb         string   `json:"thumb"`
}

// SearchResults is the ordered candidate list for one query.
type SearchResults struct {
	Results []SearchResult `json:"results"`
}

// ReleaseLabel is a label credit on a release, with its catalog number.
type ReleaseLabel struct {
	Name          string `json:"name"`
	CatalogNumber string `json:"catno"`
}

// ReleaseArtist is an artist credit on a release.
type ReleaseArtist struct {
	Name string `json:"name"`
}

// Track is one tracklist entry.
type Track struct {
	Position string `json:"position"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
}

// ReleaseFormat describes one physical format of a release.
type ReleaseFormat struct {
	Name         string   `json:"name"`
	Quantity     string   `json:"qty"`
	Descriptions []string `json:"descriptions"`
}

// Video is an external video linked to a release.
type Video struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Release is the full metadata for one catalog release. Static once
// published, so it is cached with a long TTL.
type Release struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	Year     int             `json:"year"`
	Artists  []ReleaseArtist `json:"artists"`
	Labels   []ReleaseLabel  `json:"labels"`
	Genres   []string        `json:"genres"`
	Formats  []ReleaseFormat `json:"formats"`
	Tracks   []Track         `json:"tracklist"`
	Videos   []Video         `json:"videos"`
	Notes    string          `json:"notes"`
	Thumb    string          `json:"thumb"`
	CoverURL string          `json:"cover_image"`
}

// Price is a suggested marketplace value in one currency.
type Price struct {
	Currency string  `json:"currency"`
	Value    float64 `json:"value"`
}

// PriceSuggestions maps condition grade to suggested price.
type PriceSuggestions map[string]Price

// CollectionStatus is the remote-truth membership of one release for one
// user. It is replaced as a unit, never partially written.
type CollectionStatus struct {
	IsInCollection bool `json:"is_in_collection"`
	IsInWantlist   bool `json:"is_in_wantlist"`
	// InstanceID identifies the collection instance to delete on removal.
	// Zero when the release is not in the collection.
	InstanceID int64 `json:"instance_id"`
}

// Pagination is the envelope the paged listing endpoints report.
type Pagination struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	PerPage int `json:"per_page"`
	Items   int `json:"items"`
}

// PageItem is one release on a collection or wantlist page, flattened from
// the API's basic-information envelope.
type PageItem struct {
	InstanceID    int64
	ReleaseID     int64
	Title         string
	Artist        string
	Year          int
	Label         string
	CatalogNumber string
	Thumb         string
}

// Page is one page of a user's collection or wantlist.
type Page struct {
	Pagination Pagination
	Items      []PageItem
}
