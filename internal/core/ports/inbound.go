package ports

import (
	"context"

	"github.com/bellaajmohsen7/sofiene/internal/core/domain"
)

// QueryService is the inbound contract for the whole query-understanding
// pipeline. It never returns an error for malformed input: every failure path
// degrades to a fallback reply.
type QueryService interface {
	ProcessQuery(ctx context.Context, query string, lang domain.Language, recentContext []string) domain.Reply
}

// HandAnalyzer evaluates a free-text hand description into a bid hint.
// Pure and stateless.
type HandAnalyzer interface {
	EvaluateHand(description string, lang domain.Language) domain.HandEvaluation
}
