package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bellaajmohsen7/sofiene/internal/config"
	"github.com/bellaajmohsen7/sofiene/internal/core/ports"
	"github.com/bellaajmohsen7/sofiene/internal/core/usecase"
	"github.com/bellaajmohsen7/sofiene/internal/corpus"
	"github.com/bellaajmohsen7/sofiene/internal/infrastructure/embedding/cachefile"
	"github.com/bellaajmohsen7/sofiene/internal/infrastructure/embedding/ollama"
	"github.com/bellaajmohsen7/sofiene/internal/infrastructure/export/xlsx"
	"github.com/bellaajmohsen7/sofiene/internal/infrastructure/queue/nats"
	"github.com/bellaajmohsen7/sofiene/internal/infrastructure/repository/postgres"
	"github.com/bellaajmohsen7/sofiene/internal/infrastructure/resilience"
	"github.com/bellaajmohsen7/sofiene/internal/infrastructure/similarity"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queries       ports.QueryService
	Hands         ports.HandAnalyzer
	Conversations ports.ConversationStore
	QueryLog      ports.QueryLogStore
	Queue         *nats.Queue
	Exporter      *xlsx.TranscriptExporter

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	rules, err := corpus.Load(cfg.CorpusPath)
	if err != nil {
		return nil, fmt.Errorf("load rule corpus: %w", err)
	}

	scorer, err := similarity.New(cfg.SimilarityMetric)
	if err != nil {
		return nil, fmt.Errorf("init similarity scorer: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig(), logger)
	embedder := ollama.New(cfg.OllamaURL, cfg.OllamaEmbedModel, executor)
	vectorCache := cachefile.New(cfg.EmbeddingCachePath)

	indexBuilder := usecase.NewIndexBuilder(rules, embedder, vectorCache, logger)
	retriever := usecase.NewSemanticRetriever(rules, embedder, indexBuilder, usecase.RetrieverConfig{
		TopK:            cfg.RetrievalTopK,
		KeywordWeight:   cfg.KeywordBoostWeight,
		KeywordBoostCap: cfg.KeywordBoostCap,
		PatternBoost:    cfg.PatternBoost,
	})

	hands := usecase.NewHandEvaluator()
	normalizer := usecase.NewNormalizer(scorer, cfg.TypoThreshold)
	patterns := usecase.NewPatternMatcher(rules, hands)
	fuzzy := usecase.NewFuzzyMatcher(rules, similarity.NewTokenSort(scorer), cfg.FuzzyThreshold)
	composer := usecase.NewComposer(rules, usecase.ComposerConfig{
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		ExpertTipThreshold:  cfg.ExpertTipThreshold,
		AlsoSeeThreshold:    cfg.AlsoSeeThreshold,
	})
	queries := usecase.NewRouter(normalizer, patterns, retriever, fuzzy, composer, cfg.ReplyCacheSize, logger)

	// Warm the embedding index so the first query does not pay the batch
	// embedding cost. A cold Ollama at startup only delays semantic retrieval.
	if _, err := indexBuilder.Index(ctx); err != nil {
		logger.WarnContext(ctx, "embedding index warmup failed", "error", err)
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	conversations := postgres.NewConversationRepository(db)
	queryLog := postgres.NewQueryLogRepository(db)

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
		Logger:             logger,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	return &App{
		Config: cfg,
		Logger: logger,

		Queries:       queries,
		Hands:         hands,
		Conversations: conversations,
		QueryLog:      queryLog,
		Queue:         queue,
		Exporter:      xlsx.NewTranscriptExporter(),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
