package usecase

import (
	"sort"
	"strings"
	"unicode"

	"github.com/bellaajmohsen7/sofiene/internal/core/domain"
	"github.com/bellaajmohsen7/sofiene/internal/core/ports"
)

const (
	defaultTypoThreshold = 0.80
	maxSynonymsPerTerm   = 2
	maxAppendedSynonyms  = 10
)

// Normalizer lowercases and trims a query, rewrites known misspellings to
// their canonical terms and appends a bounded number of synonyms. It is a
// pure function of its inputs: normalizing an already-normalized query adds
// nothing new.
type Normalizer struct {
	scorer        ports.SimilarityScorer
	typoThreshold float64
}

func NewNormalizer(scorer ports.SimilarityScorer, typoThreshold float64) *Normalizer {
	if typoThreshold <= 0 || typoThreshold > 1 {
		typoThreshold = defaultTypoThreshold
	}
	return &Normalizer{scorer: scorer, typoThreshold: typoThreshold}
}

// Normalize builds the per-request view of a query.
func (n *Normalizer) Normalize(query string, lang domain.Language) domain.NormalizedQuery {
	lang = lang.Normalize()
	lowered := strings.ToLower(strings.TrimSpace(query))

	corrected := n.correctTypos(lowered, lang)
	expanded := n.expandSynonyms(corrected, lang)

	return domain.NormalizedQuery{
		Original:   query,
		Language:   lang,
		Normalized: expanded,
		Keywords:   uniqueTokens(expanded),
	}
}

// correctTypos replaces each token with the canonical term of the closest
// known misspelling, when that similarity clears the threshold and beats all
// other canonical candidates.
func (n *Normalizer) correctTypos(query string, lang domain.Language) string {
	variants := typoVariants[lang]
	if len(variants) == 0 || query == "" {
		return query
	}

	words := strings.Fields(query)
	for i, word := range words {
		bestTerm := word
		bestScore := 0.0
		for canonical, spellings := range variants {
			for _, spelling := range spellings {
				score := n.scorer.Similarity(word, spelling)
				if score > bestScore && score >= n.typoThreshold {
					bestTerm = canonical
					bestScore = score
				}
			}
		}
		words[i] = bestTerm
	}
	return strings.Join(words, " ")
}

// expandSynonyms appends up to maxSynonymsPerTerm synonyms per recognized
// canonical term, capped at maxAppendedSynonyms per query. Synonyms already
// present in the token stream are skipped, which keeps repeated
// normalization from growing the string.
func (n *Normalizer) expandSynonyms(query string, lang domain.Language) string {
	table := synonyms[lang]
	if len(table) == 0 || query == "" {
		return query
	}

	words := strings.Fields(query)
	seen := make(map[string]struct{}, len(words))
	for _, word := range words {
		seen[word] = struct{}{}
	}

	expanded := words
	appended := 0
	for _, word := range words {
		alternatives, ok := table[word]
		if !ok {
			continue
		}
		// A duplicate still consumes its slot: re-normalizing an already
		// expanded query must not pull in later alternatives.
		taken := 0
		for _, alt := range alternatives {
			if taken >= maxSynonymsPerTerm || appended >= maxAppendedSynonyms {
				break
			}
			taken++
			appended++
			if _, dup := seen[alt]; dup {
				continue
			}
			expanded = append(expanded, alt)
			seen[alt] = struct{}{}
		}
	}
	return strings.Join(expanded, " ")
}

// tokenizeLower splits on anything that is not a letter or digit, lowercasing
// as it goes. Accented French letters survive intact.
func tokenizeLower(s string) []string {
	if s == "" {
		return nil
	}

	tokens := make([]string, 0, 16)
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}

// uniqueTokens returns the sorted distinct tokens of s.
func uniqueTokens(s string) []string {
	set := make(map[string]struct{})
	for _, token := range tokenizeLower(s) {
		set[token] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for token := range set {
		out = append(out, token)
	}
	sort.Strings(out)
	return out
}

func toTokenSet(s string) map[string]struct{} {
	tokens := tokenizeLower(s)
	out := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		out[token] = struct{}{}
	}
	return out
}
