package cache

import "strings"

// Normalize collapses a free-text query into a canonical cache key:
// lower-cased, leading/trailing whitespace stripped, internal runs of
// whitespace reduced to single spaces. "  Miles   Davis " and "miles davis"
// hit the same entry.
func Normalize(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
