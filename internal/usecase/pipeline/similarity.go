package pipeline

import (
	"strings"
	"unicode"
)

// DefaultSimilarityThreshold is the score at or above which two
// statements are considered the same fact.
const DefaultSimilarityThreshold = 0.8

// tokenSet lowercases the text, strips punctuation and returns the
// set of remaining words.
func tokenSet(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// Similarity scores two statements with the Sørensen-Dice
// coefficient over their word sets. 1.0 means identical word sets,
// 0.0 means nothing in common. Two empty statements score 1.0.
func Similarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}
	common := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			common++
		}
	}
	return 2.0 * float64(common) / float64(len(setA)+len(setB))
}
