package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"vinyl-scout/core/cache"
	"vinyl-scout/core/catalog"
	"vinyl-scout/core/match"
)

// Service answers catalog lookups cache-first. Queries are fingerprinted so
// trivially different spellings of the same search share one cache slot and
// one in-flight remote call.
type Service struct {
	client catalog.Client

	searches *cache.Store[*catalog.SearchResults]
	releases *cache.Store[*catalog.Release]
	prices   *cache.Store[catalog.PriceSuggestions]
}

// NewService creates the service with per-data-kind TTLs from cfg.
func NewService(client catalog.Client, cfg cache.Config) *Service {
	return &Service{
		client:   client,
		searches: cache.New[*catalog.SearchResults]("search", cfg.SearchTTL()),
		releases: cache.New[*catalog.Release]("release", cfg.ReleaseTTL()),
		prices:   cache.New[catalog.PriceSuggestions]("price", cfg.PriceTTL()),
	}
}

// Search returns the catalog candidates for a free-text query.
func (s *Service) Search(ctx context.Context, query string) (*catalog.SearchResults, error) {
	key := cache.Normalize(query)
	if key == "" {
		return &catalog.SearchResults{}, nil
	}
	return s.searches.Get(ctx, key, func(ctx context.Context) (*catalog.SearchResults, error) {
		return s.client.Search(ctx, query)
	})
}

// Release returns the full metadata of one release.
func (s *Service) Release(ctx context.Context, releaseID int64) (*catalog.Release, error) {
	key := strconv.FormatInt(releaseID, 10)
	return s.releases.Get(ctx, key, func(ctx context.Context) (*catalog.Release, error) {
		return s.client.GetRelease(ctx, releaseID)
	})
}

// Prices returns the suggested marketplace value of one release by condition
// grade.
func (s *Service) Prices(ctx context.Context, releaseID int64) (catalog.PriceSuggestions, error) {
	key := strconv.FormatInt(releaseID, 10)
	return s.prices.Get(ctx, key, func(ctx context.Context) (catalog.PriceSuggestions, error) {
		return s.client.GetPriceSuggestions(ctx, releaseID)
	})
}

// MatchResult pairs one search candidate with its match score against the
// extracted sleeve fields.
type MatchResult struct {
	catalog.SearchResult
	Score float64 `json:"score"`
}

// Match searches the catalog with the extracted fields and returns the
// candidates ranked by weighted similarity, best first.
func (s *Service) Match(ctx context.Context, fields match.Fields) ([]MatchResult, error) {
	query := matchQuery(fields)
	if query == "" {
		return nil, fmt.Errorf("search: no usable fields to match on")
	}

	results, err := s.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	candidates := make([]match.Candidate, len(results.Results))
	for i, r := range results.Results {
		candidates[i] = toCandidate(r)
	}

	ranked := match.Rank(fields, candidates)
	matched := make([]MatchResult, len(ranked))
	for i, sc := range ranked {
		matched[i] = MatchResult{
			SearchResult: results.Results[sc.Index],
			Score:        sc.Score,
		}
	}
	return matched, nil
}

// matchQuery builds the search query from whichever fields were extracted.
// Artist and album carry the search; catalog number alone is still a decent
// query because pressings are near-unique by it.
func matchQuery(f match.Fields) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{f.Artist, f.Album, f.CatalogNumber} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, " ")
}

// toCandidate maps a search result onto the scoring fields. The search
// endpoint folds artist and album into one "Artist - Title" string; both
// sides of the split feed their respective terms.
func toCandidate(r catalog.SearchResult) match.Candidate {
	artist, album := splitTitle(r.Title)

	label := ""
	if len(r.Label) > 0 {
		label = r.Label[0]
	}

	return match.Candidate{
		Artist:        artist,
		Album:         album,
		Label:         label,
		CatalogNumber: r.CatalogNumber,
		Year:          r.Year,
	}
}

func splitTitle(title string) (artist, album string) {
	if before, after, found := strings.Cut(title, " - "); found {
		return strings.TrimSpace(before), strings.TrimSpace(after)
	}
	return "", strings.TrimSpace(title)
}
