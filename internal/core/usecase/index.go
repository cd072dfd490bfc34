package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/bellaajmohsen7/sofiene/internal/core/domain"
	"github.com/bellaajmohsen7/sofiene/internal/core/ports"
)

// EmbeddingIndex holds one vector per rule per language. Read-only once
// built.
type EmbeddingIndex struct {
	vectors map[string]map[domain.Language][]float32
	ruleIDs []string
}

// Vector returns the embedding for a rule in a language.
func (i *EmbeddingIndex) Vector(ruleID string, lang domain.Language) ([]float32, bool) {
	byLang, ok := i.vectors[ruleID]
	if !ok {
		return nil, false
	}
	vec, ok := byLang[lang.Normalize()]
	return vec, ok
}

// RuleIDs returns rule ids in ascending order, fixing iteration order for
// deterministic ranking.
func (i *EmbeddingIndex) RuleIDs() []string {
	return i.ruleIDs
}

// Snapshot converts the index to its serializable form.
func (i *EmbeddingIndex) Snapshot(modelID, corpusHash string) *domain.EmbeddingIndexSnapshot {
	return &domain.EmbeddingIndexSnapshot{
		ModelID:    modelID,
		CorpusHash: corpusHash,
		Vectors:    i.vectors,
	}
}

// IndexBuilder builds the embedding index exactly once per process and hands
// out the shared read-only result. Concurrent cold-start callers block on
// the same build.
type IndexBuilder struct {
	rules    ports.RuleSource
	embedder ports.Embedder
	cache    ports.VectorCache
	logger   *slog.Logger

	mu    sync.Mutex
	index *EmbeddingIndex
}

func NewIndexBuilder(rules ports.RuleSource, embedder ports.Embedder, cache ports.VectorCache, logger *slog.Logger) *IndexBuilder {
	return &IndexBuilder{
		rules:    rules,
		embedder: embedder,
		cache:    cache,
		logger:   logger,
	}
}

// Index returns the shared embedding index, building it on first use. The
// cache artifact is only trusted when both the model id and the corpus
// content hash match; anything else triggers recomputation.
func (b *IndexBuilder) Index(ctx context.Context) (*EmbeddingIndex, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.index != nil {
		return b.index, nil
	}

	if index := b.loadCached(); index != nil {
		b.index = index
		return b.index, nil
	}

	index, err := b.compute(ctx)
	if err != nil {
		return nil, err
	}
	b.index = index

	if b.cache != nil {
		if err := b.cache.Save(index.Snapshot(b.embedder.ModelID(), b.rules.ContentHash())); err != nil {
			b.logger.Warn("embedding cache save failed", "error", err)
		}
	}
	return b.index, nil
}

func (b *IndexBuilder) loadCached() *EmbeddingIndex {
	if b.cache == nil {
		return nil
	}
	snapshot, err := b.cache.Load()
	if err != nil {
		b.logger.Warn("embedding cache unreadable, recomputing", "error", err)
		return nil
	}
	if !snapshot.Matches(b.embedder.ModelID(), b.rules.ContentHash()) {
		if snapshot != nil {
			b.logger.Info("embedding cache stale, recomputing",
				"cached_model", snapshot.ModelID,
				"cached_corpus", snapshot.CorpusHash)
		}
		return nil
	}
	return &EmbeddingIndex{
		vectors: snapshot.Vectors,
		ruleIDs: sortedRuleIDs(snapshot.Vectors),
	}
}

func (b *IndexBuilder) compute(ctx context.Context) (*EmbeddingIndex, error) {
	rules := b.rules.AllRules()
	ids := make([]string, 0, len(rules))
	for id := range rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// One batched call per build: ids × languages, in a fixed order.
	texts := make([]string, 0, len(ids)*len(domain.SupportedLanguages))
	for _, id := range ids {
		rule := rules[id]
		for _, lang := range domain.SupportedLanguages {
			texts = append(texts, embeddingText(rule, lang))
		}
	}

	vectors, err := b.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embed corpus: got %d vectors for %d texts", len(vectors), len(texts))
	}

	byRule := make(map[string]map[domain.Language][]float32, len(ids))
	cursor := 0
	for _, id := range ids {
		byLang := make(map[domain.Language][]float32, len(domain.SupportedLanguages))
		for _, lang := range domain.SupportedLanguages {
			byLang[lang] = vectors[cursor]
			cursor++
		}
		byRule[id] = byLang
	}

	return &EmbeddingIndex{vectors: byRule, ruleIDs: ids}, nil
}

// embeddingText is the canonical text a rule is embedded from: title, body,
// keywords and phrasing variations concatenated.
func embeddingText(rule domain.RuleRecord, lang domain.Language) string {
	parts := []string{
		rule.Title.In(lang),
		rule.Body.In(lang),
		strings.Join(rule.Keywords.In(lang), " "),
	}
	if variations := rule.Variations.In(lang); len(variations) > 0 {
		parts = append(parts, strings.Join(variations, " "))
	}
	return strings.Join(parts, " ")
}

func sortedRuleIDs(vectors map[string]map[domain.Language][]float32) []string {
	ids := make([]string, 0, len(vectors))
	for id := range vectors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
