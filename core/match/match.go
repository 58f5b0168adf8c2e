package match

import (
	"sort"
	"strings"
)

// Field weights. Catalog number is nearly unique per pressing, so it carries
// more weight than label or year despite being harder to extract cleanly.
const (
	weightArtist  = 0.30
	weightAlbum   = 0.30
	weightCatalog = 0.25
	weightLabel   = 0.10
	weightYear    = 0.05
)

// Fields is the noisy metadata extracted from a record sleeve (OCR output).
// Any subset may be present; empty strings mean the field was not extracted.
type Fields struct {
	Artist        string
	Album         string
	Label         string
	CatalogNumber string
	Year          string
}

// Candidate pairs a catalog search result with the fields used for scoring.
type Candidate struct {
	Artist        string
	Album         string
	Label         string
	CatalogNumber string
	Year          string
}

// Scored carries a candidate's index in the original result ordering and
// its computed score.
type Scored struct {
	Index int
	Score float64

	catalogSimilarity float64
}

// Score computes the weighted similarity between extracted fields and one
// candidate, in [0,1].
//
// A field missing on one side scores 0 for its term but keeps its weight:
// absence is penalized, not ignored. A field missing on both sides is
// excluded and the remaining weights are rescaled to sum to 1.
func Score(extracted Fields, candidate Candidate) float64 {
	s, _ := score(extracted, candidate)
	return s
}

func score(extracted Fields, candidate Candidate) (total float64, catalogSim float64) {
	type term struct {
		a, b    string
		weight  float64
		catalog bool
	}
	terms := []term{
		{a: extracted.Artist, b: candidate.Artist, weight: weightArtist},
		{a: extracted.Album, b: candidate.Album, weight: weightAlbum},
		{a: extracted.CatalogNumber, b: candidate.CatalogNumber, weight: weightCatalog, catalog: true},
		{a: extracted.Label, b: candidate.Label, weight: weightLabel},
		{a: extracted.Year, b: candidate.Year, weight: weightYear},
	}

	var sum, weightTotal float64
	for _, tm := range terms {
		a := normalize(tm.a)
		b := normalize(tm.b)

		if a == "" && b == "" {
			// Absent on both sides: excluded, weights rescale below.
			continue
		}

		sim := 0.0
		if a != "" && b != "" {
			sim = similarity(a, b)
		}
		if tm.catalog {
			catalogSim = sim
		}

		sum += sim * tm.weight
		weightTotal += tm.weight
	}

	if weightTotal == 0 {
		return 0, 0
	}
	return sum / weightTotal, catalogSim
}

// Rank scores every candidate and returns them sorted best-first.
// Ties break on catalog-number similarity, then on the candidate's original
// position in the source API's ordering (the sort is stable).
func Rank(extracted Fields, candidates []Candidate) []Scored {
	scored := make([]Scored, len(candidates))
	for i, c := range candidates {
		total, catalogSim := score(extracted, c)
		scored[i] = Scored{Index: i, Score: total, catalogSimilarity: catalogSim}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].catalogSimilarity > scored[j].catalogSimilarity
	})

	return scored
}

// similarity compares two normalized non-empty strings:
// exact match 1.0, substring containment 0.8, otherwise normalized edit
// distance floored at 0.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.8
	}

	longest := max(len([]rune(a)), len([]rune(b)))
	sim := 1.0 - float64(levenshtein(a, b))/float64(longest)
	if sim < 0 {
		return 0
	}
	return sim
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// levenshtein computes edit distance over runes with a two-row table.
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}
