package cachefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bellaajmohsen7/sofiene/internal/core/domain"
)

func sampleSnapshot() *domain.EmbeddingIndexSnapshot {
	return &domain.EmbeddingIndexSnapshot{
		ModelID:    "nomic-embed-text",
		CorpusHash: "abc123",
		Vectors: map[string]map[domain.Language][]float32{
			"capot_complete_official": {
				domain.LanguageFrench:  {0.1, 0.2, 0.3},
				domain.LanguageEnglish: {0.4, 0.5, 0.6},
			},
		},
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "embeddings.gob")
	store := New(path)

	want := sampleSnapshot()
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ModelID != want.ModelID || got.CorpusHash != want.CorpusHash {
		t.Fatalf("metadata mismatch: %+v", got)
	}
	vec := got.Vectors["capot_complete_official"][domain.LanguageFrench]
	if len(vec) != 3 || vec[0] != 0.1 {
		t.Fatalf("vector mismatch: %v", vec)
	}
	if !got.Matches(want.ModelID, want.CorpusHash) {
		t.Fatal("round-tripped snapshot no longer matches its own key")
	}
}

func TestLoadMissingFile(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "nope.gob"))
	if _, err := store.Load(); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.gob")
	if err := os.WriteFile(path, []byte("not gob at all"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := New(path).Load(); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestSaveOverwritesPreviousSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.gob")
	store := New(path)

	first := sampleSnapshot()
	if err := store.Save(first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second := sampleSnapshot()
	second.CorpusHash = "def456"
	if err := store.Save(second); err != nil {
		t.Fatalf("Save (second): %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.CorpusHash != "def456" {
		t.Fatalf("hash = %q, want def456", got.CorpusHash)
	}
}
