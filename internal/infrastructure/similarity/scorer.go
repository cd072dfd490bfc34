// Package similarity adapts string-distance metrics to the scorer port used
// by typo correction and fuzzy rule matching.
package similarity

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Scorer wraps a strutil metric behind the domain port. Scores are
// normalized to [0,1], case-insensitively.
type Scorer struct {
	metric strutil.StringMetric
}

func NewLevenshtein() *Scorer {
	return &Scorer{metric: metrics.NewLevenshtein()}
}

func NewJaroWinkler() *Scorer {
	return &Scorer{metric: metrics.NewJaroWinkler()}
}

func NewSorensenDice() *Scorer {
	return &Scorer{metric: metrics.NewSorensenDice()}
}

// New builds a scorer from its configuration name.
func New(name string) (*Scorer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "levenshtein":
		return NewLevenshtein(), nil
	case "jaro_winkler", "jaro-winkler":
		return NewJaroWinkler(), nil
	case "sorensen_dice", "sorensen-dice":
		return NewSorensenDice(), nil
	default:
		return nil, fmt.Errorf("similarity: unknown metric %q", name)
	}
}

func (s *Scorer) Similarity(a, b string) float64 {
	return strutil.Similarity(strings.ToLower(a), strings.ToLower(b), s.metric)
}

// TokenSortScorer compares the token-sorted forms of both strings, so word
// order does not count against a query that names the same things in a
// different sequence.
type TokenSortScorer struct {
	inner *Scorer
}

func NewTokenSort(inner *Scorer) *TokenSortScorer {
	if inner == nil {
		inner = NewLevenshtein()
	}
	return &TokenSortScorer{inner: inner}
}

func (s *TokenSortScorer) Similarity(a, b string) float64 {
	return s.inner.Similarity(tokenSorted(a), tokenSorted(b))
}

func tokenSorted(s string) string {
	tokens := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
