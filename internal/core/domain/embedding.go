package domain

// EmbeddingIndexSnapshot is the serializable form of the embedding index:
// one vector per rule per language, plus the provenance needed to detect a
// stale artifact. The on-disk format is implementation-private; only the
// load/save round-trip matters.
type EmbeddingIndexSnapshot struct {
	ModelID    string
	CorpusHash string
	Vectors    map[string]map[Language][]float32
}

// Matches reports whether the snapshot was computed from the same corpus
// content by the same embedding model.
func (s *EmbeddingIndexSnapshot) Matches(modelID, corpusHash string) bool {
	return s != nil && s.ModelID == modelID && s.CorpusHash == corpusHash
}
