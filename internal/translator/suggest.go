package translator

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

var blockKeywords = []string{"Show", "Hide"}

// closest returns the candidate nearest to word within maxDistance,
// comparing case-insensitively
func closest(word string, candidates []string, maxDistance int) string {
	word = strings.ToLower(word)
	best, bestDist := "", maxDistance+1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(word, strings.ToLower(c))
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// Suggest returns the recognized item keyword closest to an unknown one,
// or "" when nothing is close
func Suggest(keyword string) string {
	if g, _ := lookupGrammar(keyword); g != nil {
		return ""
	}
	return closest(keyword, Keywords(), 2)
}

func isBlockKeyword(word string) bool {
	return strings.EqualFold(word, "Show") || strings.EqualFold(word, "Hide")
}

// misspelledBlockKeyword reports whether an unknown word is one edit away
// from Show or Hide
func misspelledBlockKeyword(word string) bool {
	if len(word) < 3 || isBlockKeyword(word) {
		return false
	}
	if g, _ := lookupGrammar(word); g != nil {
		return false
	}
	return closest(word, blockKeywords, 1) != ""
}
