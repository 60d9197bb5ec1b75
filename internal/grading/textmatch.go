package grading

import (
	"strings"
	"unicode"
)

// MatchAcronym reports whether a typed expansion matches the canonical one. Both
// sides are case-folded with punctuation dropped; hyphens and slashes count as word
// breaks ("Wi-Fi" == "wi fi"). Up to maxEdit rune edits are tolerated.
func MatchAcronym(given, expansion string, maxEdit int) bool {
	g, want := normalize(given), normalize(expansion)
	if g == "" {
		return false
	}
	if g == want {
		return true
	}
	return maxEdit > 0 && levenshtein(g, want) <= maxEdit
}

func normalize(s string) string {
	s = strings.NewReplacer("-", " ", "/", " ").Replace(s)
	out := make([]rune, 0, len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsPunct(r):
		default:
			if space && len(out) > 0 {
				out = append(out, ' ')
			}
			space = false
			out = append(out, unicode.ToLower(r))
		}
	}
	return string(out)
}

// levenshtein computes edit distance (insertion, deletion, substitution cost 1).
func levenshtein(a, b string) int {
	ar, br := []rune(a), []rune(b)
	n, m := len(ar), len(br)
	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}
	dp := make([]int, m+1)
	for j := 0; j <= m; j++ {
		dp[j] = j
	}
	for i := 1; i <= n; i++ {
		prev := dp[0]
		dp[0] = i
		for j := 1; j <= m; j++ {
			tmp := dp[j]
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			dp[j] = min(dp[j]+1, dp[j-1]+1, prev+cost)
			prev = tmp
		}
	}
	return dp[m]
}
