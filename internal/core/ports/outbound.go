package ports

import (
	"context"

	"github.com/bellaajmohsen7/sofiene/internal/core/domain"
)

// RuleSource exposes the immutable rule corpus.
type RuleSource interface {
	AllRules() map[string]domain.RuleRecord
	Rule(id string) (domain.RuleRecord, bool)
	ContentHash() string
}

// Embedder builds vectors for rule texts and query text. Vectors for
// identical input must be identical.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	ModelID() string
}

// VectorCache persists the embedding index artifact between process runs.
// Both operations are best-effort: a load failure means "recompute", a save
// failure is logged and ignored.
type VectorCache interface {
	Load() (*domain.EmbeddingIndexSnapshot, error)
	Save(snapshot *domain.EmbeddingIndexSnapshot) error
}

// SimilarityScorer scores how alike two strings are on a [0,1] scale.
// Implementations must be order-insensitive at the token level.
type SimilarityScorer interface {
	Similarity(a, b string) float64
}

// ConversationStore persists conversation transcripts.
type ConversationStore interface {
	EnsureConversation(ctx context.Context, id string, lang domain.Language) (*domain.Conversation, error)
	GetConversation(ctx context.Context, id string) (*domain.Conversation, error)
	AppendTurn(ctx context.Context, turn domain.ConversationTurn) error
	ListTurns(ctx context.Context, conversationID string) ([]domain.ConversationTurn, error)
	ListRecentUserTurns(ctx context.Context, conversationID string, limit int) ([]string, error)
}

// QueryLogStore persists answered-query analytics records and serves the
// most recent ones back, newest first.
type QueryLogStore interface {
	RecordQuery(ctx context.Context, entry domain.QueryLogEntry) error
	ListRecent(ctx context.Context, limit int) ([]domain.QueryLogEntry, error)
}

// EventPublisher emits query.answered events for asynchronous consumers.
type EventPublisher interface {
	PublishQueryAnswered(ctx context.Context, entry domain.QueryLogEntry) error
}
