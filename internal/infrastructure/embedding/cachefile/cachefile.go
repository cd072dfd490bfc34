// Package cachefile persists the embedding index between runs so a restart
// does not re-embed an unchanged corpus.
package cachefile

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bellaajmohsen7/sofiene/internal/core/domain"
)

// Store reads and writes gob-encoded index snapshots. Writes go through a
// temp file and rename so a crash never leaves a truncated artifact behind.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Load() (*domain.EmbeddingIndexSnapshot, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open embedding cache: %w", err)
	}
	defer file.Close()

	var snapshot domain.EmbeddingIndexSnapshot
	if err := gob.NewDecoder(file).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decode embedding cache: %w", err)
	}
	return &snapshot, nil
}

func (s *Store) Save(snapshot *domain.EmbeddingIndexSnapshot) error {
	if snapshot == nil {
		return fmt.Errorf("nil snapshot")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".embeddings-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(snapshot); err != nil {
		tmp.Close()
		return fmt.Errorf("encode embedding cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace embedding cache: %w", err)
	}
	return nil
}
