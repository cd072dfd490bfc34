package usecase

import (
	"context"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/bellaajmohsen7/sofiene/internal/core/domain"
	"github.com/bellaajmohsen7/sofiene/internal/core/ports"
)

const (
	defaultReplyCacheSize = 128

	// retryScoreThreshold triggers a second retrieval pass on the raw query
	// when the normalized one scored poorly. Normalization occasionally
	// rewrites a query away from the wording the corpus uses.
	retryScoreThreshold = 0.4
)

type replyCacheKey struct {
	query string
	lang  domain.Language
}

// Router runs the full cascade for one query: exact patterns first, then
// semantic retrieval, then fuzzy variation matching, then the canned
// fallback. It implements ports.QueryService and never returns an error;
// every failure downgrades to the next stage.
type Router struct {
	normalizer *Normalizer
	patterns   *PatternMatcher
	retriever  *SemanticRetriever
	fuzzy      *FuzzyMatcher
	composer   *Composer
	logger     *slog.Logger

	cache *lru.Cache[replyCacheKey, domain.Reply]
}

var _ ports.QueryService = (*Router)(nil)

func NewRouter(
	normalizer *Normalizer,
	patterns *PatternMatcher,
	retriever *SemanticRetriever,
	fuzzy *FuzzyMatcher,
	composer *Composer,
	cacheSize int,
	logger *slog.Logger,
) *Router {
	if cacheSize <= 0 {
		cacheSize = defaultReplyCacheSize
	}
	cache, _ := lru.New[replyCacheKey, domain.Reply](cacheSize)
	return &Router{
		normalizer: normalizer,
		patterns:   patterns,
		retriever:  retriever,
		fuzzy:      fuzzy,
		composer:   composer,
		logger:     logger,
		cache:      cache,
	}
}

// ProcessQuery resolves one query. Identical query+language pairs are served
// from the reply cache with StageCache, keeping the original rule and score.
// Queries carrying conversation context bypass the cache entirely: fallback
// replies are upgraded from that context, so a reply computed for one
// conversation must never be replayed into another.
func (r *Router) ProcessQuery(ctx context.Context, query string, lang domain.Language, recentContext []string) domain.Reply {
	lang = lang.Normalize()
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return r.composer.Fallback(intentGeneral, lang, recentContext)
	}
	if len(recentContext) > 0 {
		return r.resolve(ctx, trimmed, lang, recentContext)
	}

	key := replyCacheKey{query: strings.ToLower(trimmed), lang: lang}
	if reply, ok := r.cache.Get(key); ok {
		reply.Stage = domain.StageCache
		return reply
	}

	reply := r.resolve(ctx, trimmed, lang, nil)
	r.cache.Add(key, reply)
	return reply
}

func (r *Router) resolve(ctx context.Context, query string, lang domain.Language, recentContext []string) domain.Reply {
	nq := r.normalizer.Normalize(query, lang)

	if reply := r.patterns.Match(query, nq); reply != nil {
		return *reply
	}

	intent := ExtractIntent(nq.Normalized, lang)

	matches, err := r.retriever.TopMatches(ctx, nq, query)
	switch {
	case err != nil:
		r.logger.WarnContext(ctx, "semantic retrieval unavailable",
			slog.String("language", string(lang)),
			slog.String("error", err.Error()))
	case len(matches) > 0 && matches[0].Score < retryScoreThreshold:
		raw := nq
		raw.Normalized = strings.ToLower(query)
		raw.Keywords = uniqueTokens(raw.Normalized)
		if retried, retryErr := r.retriever.TopMatches(ctx, raw, query); retryErr == nil &&
			len(retried) > 0 && retried[0].Score > matches[0].Score {
			matches = retried
		}
	}

	if len(matches) > 0 && matches[0].Score >= r.composer.cfg.ConfidenceThreshold {
		return r.composer.Compose(matches, intent, lang, recentContext)
	}

	if match, ok := r.fuzzy.BestMatch(nq); ok {
		if rule, found := r.patterns.rules.Rule(match.RuleID); found {
			return domain.Reply{
				Text:   "**" + rule.Title.In(lang) + "**\n\n" + rule.Body.In(lang),
				Intent: intent,
				Stage:  domain.StageFuzzy,
				RuleID: match.RuleID,
				Score:  match.Score,
			}
		}
	}

	return r.composer.Fallback(intent, lang, recentContext)
}
