package catalog

import "context"

// Client defines the operations the engine needs from the remote catalog.
//
// All calls are idempotent-safe to retry except the paged listings, which
// must be retried with the same page number to avoid skipping or
// duplicating pages.
type Client interface {
	// Search runs a free-text catalog search and returns ordered candidates.
	Search(ctx context.Context, query string) (*SearchResults, error)

	// GetRelease fetches full metadata for one release.
	GetRelease(ctx context.Context, releaseID int64) (*Release, error)

	// GetPriceSuggestions fetches per-condition marketplace values.
	GetPriceSuggestions(ctx context.Context, releaseID int64) (PriceSuggestions, error)

	// GetCollectionStatus reports membership of a release in the user's
	// collection and wantlist.
	GetCollectionStatus(ctx context.Context, username string, releaseID int64) (*CollectionStatus, error)

	// AddToCollection adds a release and returns the new instance ID.
	AddToCollection(ctx context.Context, username string, releaseID int64) (int64, error)

	// RemoveFromCollection removes one collection instance of a release.
	RemoveFromCollection(ctx context.Context, username string, releaseID, instanceID int64) error

	// AddToWantlist adds a release to the user's wantlist.
	AddToWantlist(ctx context.Context, username string, releaseID int64) error

	// RemoveFromWantlist removes a release from the user's wantlist.
	RemoveFromWantlist(ctx context.Context, username string, releaseID int64) error

	// GetCollectionPage fetches one page of the user's collection.
	GetCollectionPage(ctx context.Context, username string, page, perPage int) (*Page, error)

	// GetWantlistPage fetches one page of the user's wantlist.
	GetWantlistPage(ctx context.Context, username string, page, perPage int) (*Page, error)
}
