package textutil

import "strings"

// SimilarityRatio computes a normalized edit-distance similarity
// between two strings: 1 - levenshtein(a, b) / max(len(a), len(b)).
// Operates on runes so umlauts count as single edits.
func SimilarityRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}

	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	dist := levenshtein(ra, rb)
	return 1.0 - float64(dist)/float64(longest)
}

// levenshtein computes edit distance with a two-row matrix
func levenshtein(a, b []rune) int {
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j
		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[i] = min3(curr[i-1]+1, prev[i]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(a)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// FuzzyContains reports whether needle occurs in haystack above the
// given similarity threshold. Both strings are normalized, then an
// exact substring test runs first; failing that, a sliding window of
// needle length is scanned coarsely (stride of a tenth of the needle)
// and re-scanned finely around near misses. Tolerates typo-level
// noise, not paraphrase.
func FuzzyContains(haystack, needle string, threshold float64) bool {
	_, ok := FuzzyFind(haystack, needle, threshold)
	return ok
}

// FuzzyFind is FuzzyContains returning the best-matching window of the
// normalized haystack, so callers can inspect the matched span.
func FuzzyFind(haystack, needle string, threshold float64) (string, bool) {
	hNorm := Normalize(haystack)
	nNorm := Normalize(needle)
	if hNorm == "" || nNorm == "" {
		return "", false
	}

	// Fast path
	if strings.Contains(hNorm, nNorm) {
		return nNorm, true
	}

	h, n := []rune(hNorm), []rune(nNorm)
	if len(n) > len(h) {
		return "", false
	}

	step := len(n) / 10
	if step < 1 {
		step = 1
	}

	bestSim := 0.0
	bestAt := -1
	for i := 0; i+len(n) <= len(h); i += step {
		sim := SimilarityRatio(string(h[i:i+len(n)]), nNorm)
		if sim > bestSim {
			bestSim = sim
			bestAt = i
		}
		if sim >= threshold {
			return string(h[i : i+len(n)]), true
		}
	}

	// Near miss: re-scan finely around the best coarse hit
	if bestSim >= threshold-0.05 && bestAt >= 0 {
		lo := bestAt - step
		if lo < 0 {
			lo = 0
		}
		hi := bestAt + step
		for i := lo; i <= hi && i+len(n) <= len(h); i++ {
			window := string(h[i : i+len(n)])
			if SimilarityRatio(window, nNorm) >= threshold {
				return window, true
			}
		}
	}

	return "", false
}
