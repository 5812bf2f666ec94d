package schema

import (
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// maxSuggestDistance bounds how far (in Levenshtein edits) a known path may
// be from the offending one and still be offered as a suggestion.
const maxSuggestDistance = 7

// Suggest returns up to n known paths that are likely typo-corrections of
// path: first any path matching path as a doublestar glob-ish pattern
// (covers the common case of a missing/extra path segment read as a
// wildcard group, e.g. suggesting "metadata.user.*" for
// "metadata.user.emailAddress"), then the closest paths by edit distance.
func (s *Schema) Suggest(path string, n int) []string {
	known := s.Paths()

	var globHits []string
	for _, candidate := range known {
		if matched, _ := doublestar.Match(candidate, path); matched {
			globHits = append(globHits, candidate)
			continue
		}
		if matched, _ := doublestar.Match(path, candidate); matched {
			globHits = append(globHits, candidate)
		}
	}

	type scored struct {
		path string
		dist int
	}
	var ranked []scored
	seen := make(map[string]bool, len(globHits))
	for _, p := range globHits {
		seen[p] = true
	}
	for _, candidate := range known {
		if seen[candidate] {
			continue
		}
		d := levenshteinDistance(path, candidate)
		if d <= maxSuggestDistance {
			ranked = append(ranked, scored{candidate, d})
		}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].dist < ranked[j].dist })

	out := append([]string{}, globHits...)
	for _, r := range ranked {
		out = append(out, r.path)
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
	}
	for i := 0; i <= len(s1); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}
			matrix[i][j] = minOf3(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}
	return matrix[len(s1)][len(s2)]
}

func minOf3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
