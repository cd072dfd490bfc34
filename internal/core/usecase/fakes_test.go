package usecase

import (
	"context"
	"errors"
	"hash/fnv"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/bellaajmohsen7/sofiene/internal/core/domain"
	"github.com/bellaajmohsen7/sofiene/internal/corpus"
)

func testCorpus(t *testing.T) *corpus.Corpus {
	t.Helper()
	c, err := corpus.LoadDefault()
	if err != nil {
		t.Fatalf("load embedded corpus: %v", err)
	}
	return c
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubScorer is a plain normalized-edit-distance scorer, good enough to
// exercise the typo and fuzzy paths deterministically.
type stubScorer struct{}

func (stubScorer) Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(editDistance(a, b))/float64(longest)
}

func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
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

// hashEmbedder maps each token to a fixed vector slot, so texts sharing
// vocabulary land close together. Deterministic across calls.
type hashEmbedder struct {
	dim        int
	embedCalls int
	queryCalls int
	fail       error
}

func newHashEmbedder() *hashEmbedder { return &hashEmbedder{dim: 64} }

func (e *hashEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if e.fail != nil {
		return nil, e.fail
	}
	e.embedCalls++
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = e.vector(text)
	}
	return out, nil
}

func (e *hashEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	if e.fail != nil {
		return nil, e.fail
	}
	e.queryCalls++
	return e.vector(text), nil
}

func (e *hashEmbedder) ModelID() string { return "hash-test-embedder" }

func (e *hashEmbedder) vector(text string) []float32 {
	vec := make([]float32, e.dim)
	for _, token := range tokenizeLower(text) {
		h := fnv.New32a()
		h.Write([]byte(token))
		vec[int(h.Sum32())%e.dim]++
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec
}

// memoryVectorCache records Load/Save traffic for index tests.
type memoryVectorCache struct {
	snapshot  *domain.EmbeddingIndexSnapshot
	loadErr   error
	saveErr   error
	saveCalls int
}

func (c *memoryVectorCache) Load() (*domain.EmbeddingIndexSnapshot, error) {
	if c.loadErr != nil {
		return nil, c.loadErr
	}
	if c.snapshot == nil {
		return nil, errors.New("empty cache")
	}
	return c.snapshot, nil
}

func (c *memoryVectorCache) Save(snapshot *domain.EmbeddingIndexSnapshot) error {
	c.saveCalls++
	if c.saveErr != nil {
		return c.saveErr
	}
	c.snapshot = snapshot
	return nil
}
