package usecase

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/bellaajmohsen7/sofiene/internal/core/domain"
	"github.com/bellaajmohsen7/sofiene/internal/core/ports"
)

// RetrieverConfig carries the tunable ranking constants. The defaults mirror
// the values the rule set was calibrated against; none of them is precise.
type RetrieverConfig struct {
	TopK            int
	KeywordWeight   float64
	KeywordBoostCap float64
	PatternBoost    float64
}

func DefaultRetrieverConfig() RetrieverConfig {
	return RetrieverConfig{
		TopK:            3,
		KeywordWeight:   0.4,
		KeywordBoostCap: 0.9,
		PatternBoost:    0.5,
	}
}

func (c RetrieverConfig) normalize() RetrieverConfig {
	def := DefaultRetrieverConfig()
	if c.TopK <= 0 {
		c.TopK = def.TopK
	}
	if c.KeywordWeight <= 0 {
		c.KeywordWeight = def.KeywordWeight
	}
	if c.KeywordBoostCap <= 0 {
		c.KeywordBoostCap = def.KeywordBoostCap
	}
	// Zero means "use the default"; a negative value disables the boost.
	if c.PatternBoost == 0 {
		c.PatternBoost = def.PatternBoost
	} else if c.PatternBoost < 0 {
		c.PatternBoost = 0
	}
	return c
}

// SemanticRetriever ranks every rule against the query: cosine similarity of
// embeddings, plus a capped keyword-overlap boost, plus a flat boost when one
// of the rule's own regex patterns matches the raw query. Boosts let exact
// hits dominate semantic noise on short domain queries without discarding
// the embedding signal.
type SemanticRetriever struct {
	rules    ports.RuleSource
	embedder ports.Embedder
	index    *IndexBuilder
	cfg      RetrieverConfig

	patterns map[string]map[domain.Language][]*regexp.Regexp
}

func NewSemanticRetriever(rules ports.RuleSource, embedder ports.Embedder, index *IndexBuilder, cfg RetrieverConfig) *SemanticRetriever {
	return &SemanticRetriever{
		rules:    rules,
		embedder: embedder,
		index:    index,
		cfg:      cfg.normalize(),
		patterns: compileRulePatterns(rules),
	}
}

// compileRulePatterns precompiles every rule's relevance patterns. The corpus
// loader already validated them, so compile errors only mean the corpus
// changed underneath us; those patterns are skipped.
func compileRulePatterns(rules ports.RuleSource) map[string]map[domain.Language][]*regexp.Regexp {
	out := make(map[string]map[domain.Language][]*regexp.Regexp)
	for id, rule := range rules.AllRules() {
		byLang := make(map[domain.Language][]*regexp.Regexp)
		for _, lang := range domain.SupportedLanguages {
			for _, pattern := range rule.Patterns.In(lang) {
				re, err := regexp.Compile(pattern)
				if err != nil {
					continue
				}
				byLang[lang] = append(byLang[lang], re)
			}
		}
		out[id] = byLang
	}
	return out
}

// TopMatches returns up to TopK matches sorted by descending score, ties
// broken by ascending rule id so repeated calls rank identically.
func (r *SemanticRetriever) TopMatches(ctx context.Context, nq domain.NormalizedQuery, raw string) ([]domain.Match, error) {
	index, err := r.index.Index(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.ErrEmbedderUnavailable, "build embedding index", err)
	}

	queryVector, err := r.embedder.EmbedQuery(ctx, nq.Normalized)
	if err != nil {
		return nil, domain.WrapError(domain.ErrEmbedderUnavailable, "embed query", err)
	}

	lang := nq.Language.Normalize()
	rawLower := strings.ToLower(raw)
	querySet := make(map[string]struct{}, len(nq.Keywords))
	for _, keyword := range nq.Keywords {
		querySet[keyword] = struct{}{}
	}

	matches := make([]domain.Match, 0, len(index.RuleIDs()))
	for _, id := range index.RuleIDs() {
		rule, ok := r.rules.Rule(id)
		if !ok {
			continue
		}
		vector, ok := index.Vector(id, lang)
		if !ok {
			continue
		}

		score := cosineSimilarity(queryVector, vector)
		score += r.keywordBoost(querySet, rule.Keywords.In(lang))
		if r.patternHit(id, lang, rawLower) {
			score += r.cfg.PatternBoost
		}

		matches = append(matches, domain.Match{
			RuleID: id,
			Score:  score,
			Stage:  domain.StageSemantic,
			Rule:   &rule,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].RuleID < matches[j].RuleID
	})

	if len(matches) > r.cfg.TopK {
		matches = matches[:r.cfg.TopK]
	}
	return matches, nil
}

// keywordBoost counts query keywords present in the rule's keyword set,
// scaled per keyword and capped.
func (r *SemanticRetriever) keywordBoost(querySet map[string]struct{}, ruleKeywords []string) float64 {
	hits := 0
	for _, keyword := range ruleKeywords {
		if _, ok := querySet[strings.ToLower(keyword)]; ok {
			hits++
		}
	}
	boost := float64(hits) * r.cfg.KeywordWeight
	return math.Min(boost, r.cfg.KeywordBoostCap)
}

// patternHit treats the rule's own patterns as a secondary relevance signal
// against the raw query, distinct from the pattern matcher's dispatch role.
func (r *SemanticRetriever) patternHit(ruleID string, lang domain.Language, rawLower string) bool {
	for _, re := range r.patterns[ruleID][lang] {
		if re.MatchString(rawLower) {
			return true
		}
	}
	return false
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
