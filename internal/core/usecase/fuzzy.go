package usecase

import (
	"sort"

	"github.com/bellaajmohsen7/sofiene/internal/core/domain"
	"github.com/bellaajmohsen7/sofiene/internal/core/ports"
)

const defaultFuzzyThreshold = 0.70

// FuzzyMatcher is the last resort before the canned fallback: it scores the
// normalized query against every phrasing variation attached to every rule
// and keeps the best hit above the threshold. It exists for queries that
// resemble a known phrasing but fell under the semantic threshold, typically
// heavy misspellings the normalizer did not catch.
type FuzzyMatcher struct {
	rules     ports.RuleSource
	scorer    ports.SimilarityScorer
	threshold float64
}

func NewFuzzyMatcher(rules ports.RuleSource, scorer ports.SimilarityScorer, threshold float64) *FuzzyMatcher {
	if threshold <= 0 || threshold > 1 {
		threshold = defaultFuzzyThreshold
	}
	return &FuzzyMatcher{rules: rules, scorer: scorer, threshold: threshold}
}

// BestMatch returns the owning rule of the closest variation, or false when
// nothing clears the threshold. It never fails: with no variations in the
// corpus it simply reports no match.
func (m *FuzzyMatcher) BestMatch(nq domain.NormalizedQuery) (domain.Match, bool) {
	lang := nq.Language.Normalize()
	rules := m.rules.AllRules()

	ids := make([]string, 0, len(rules))
	for id := range rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	best := domain.Match{Stage: domain.StageFuzzy}
	found := false
	for _, id := range ids {
		rule := rules[id]
		for _, variation := range rule.Variations.In(lang) {
			score := m.scorer.Similarity(nq.Normalized, variation)
			if score > best.Score {
				best = domain.Match{
					RuleID: id,
					Score:  score,
					Stage:  domain.StageFuzzy,
					Rule:   &rule,
				}
				found = true
			}
		}
	}

	if !found || best.Score < m.threshold {
		return domain.Match{}, false
	}
	return best, true
}
