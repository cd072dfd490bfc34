package httpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bellaajmohsen7/sofiene/internal/core/domain"
	"github.com/bellaajmohsen7/sofiene/internal/core/ports"
	"github.com/bellaajmohsen7/sofiene/internal/core/usecase"
	"github.com/bellaajmohsen7/sofiene/internal/observability/metrics"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TranscriptExporter renders a conversation transcript into a downloadable
// spreadsheet.
type TranscriptExporter interface {
	Export(conv *domain.Conversation, turns []domain.ConversationTurn) ([]byte, error)
}

// Options carries the request-handling knobs the router needs from config.
type Options struct {
	ServiceName        string
	ContextTurns       int
	ExportMaxTurns     int
	RateLimitPerSecond float64
	RateLimitBurst     int
}

type Router struct {
	queries       ports.QueryService
	hands         ports.HandAnalyzer
	conversations ports.ConversationStore
	queryLog      ports.QueryLogStore
	publisher     ports.EventPublisher
	exporter      TranscriptExporter
	serverMetrics *metrics.HTTPServerMetrics
	logger        *slog.Logger
	opts          Options
}

func NewRouter(
	queries ports.QueryService,
	hands ports.HandAnalyzer,
	conversations ports.ConversationStore,
	queryLog ports.QueryLogStore,
	publisher ports.EventPublisher,
	exporter TranscriptExporter,
	serverMetrics *metrics.HTTPServerMetrics,
	logger *slog.Logger,
	opts Options,
) *Router {
	if opts.ServiceName == "" {
		opts.ServiceName = "api"
	}
	if opts.ContextTurns <= 0 {
		opts.ContextTurns = 3
	}
	if opts.ExportMaxTurns <= 0 {
		opts.ExportMaxTurns = 1000
	}
	return &Router{
		queries:       queries,
		hands:         hands,
		conversations: conversations,
		queryLog:      queryLog,
		publisher:     publisher,
		exporter:      exporter,
		serverMetrics: serverMetrics,
		logger:        logger,
		opts:          opts,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/query", rt.answerQuery)
	mux.HandleFunc("/v1/hand/evaluate", rt.evaluateHand)
	mux.HandleFunc("/v1/conversations/", rt.exportConversation)
	mux.HandleFunc("/v1/suggestions", rt.listSuggestions)
	mux.HandleFunc("/v1/analytics/queries", rt.listRecentQueries)
	mux.Handle("/metrics", rt.serverMetrics.Handler())

	var handler http.Handler = mux
	handler = rateLimitMiddleware(handler, rt.opts.RateLimitPerSecond, rt.opts.RateLimitBurst, func() {
		rt.serverMetrics.RecordRateLimited(rt.opts.ServiceName)
	})
	handler = rt.serverMetrics.Middleware(rt.opts.ServiceName, handler)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type queryRequest struct {
	Query          string `json:"query"`
	Language       string `json:"language"`
	ConversationID string `json:"conversation_id"`
}

type queryResponse struct {
	ConversationID string       `json:"conversation_id"`
	Reply          domain.Reply `json:"reply"`
}

func (rt *Router) answerQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	ctx := r.Context()
	lang := domain.Language(req.Language).Normalize()
	conversationID := strings.TrimSpace(req.ConversationID)
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	// Transcript persistence is best-effort: a storage outage must never cost
	// the player an answer.
	if _, err := rt.conversations.EnsureConversation(ctx, conversationID, lang); err != nil {
		rt.logger.WarnContext(ctx, "conversation persistence unavailable",
			"conversation_id", conversationID, "error", err)
	}

	recentContext, err := rt.conversations.ListRecentUserTurns(ctx, conversationID, rt.opts.ContextTurns)
	if err != nil {
		rt.logger.WarnContext(ctx, "recent context unavailable",
			"conversation_id", conversationID, "error", err)
		recentContext = nil
	}

	start := time.Now()
	reply := rt.queries.ProcessQuery(ctx, req.Query, lang, recentContext)
	elapsed := time.Since(start)

	rt.appendTurn(ctx, conversationID, domain.SenderUser, req.Query)
	rt.appendTurn(ctx, conversationID, domain.SenderAssistant, reply.Text)

	if reply.Stage == domain.StageCache {
		rt.serverMetrics.RecordCacheHit(rt.opts.ServiceName, string(lang))
	}
	rt.serverMetrics.RecordQuery(rt.opts.ServiceName, string(reply.Stage), string(lang), reply.Score, elapsed)
	rt.publishAnswered(ctx, conversationID, lang, req.Query, reply, elapsed)

	writeJSON(w, http.StatusOK, queryResponse{
		ConversationID: conversationID,
		Reply:          reply,
	})
}

func (rt *Router) appendTurn(ctx context.Context, conversationID, sender, content string) {
	turn := domain.ConversationTurn{
		ConversationID: conversationID,
		Sender:         sender,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}
	if err := rt.conversations.AppendTurn(ctx, turn); err != nil {
		rt.logger.WarnContext(ctx, "turn persistence failed",
			"conversation_id", conversationID, "sender", sender, "error", err)
	}
}

func (rt *Router) publishAnswered(ctx context.Context, conversationID string, lang domain.Language, query string, reply domain.Reply, elapsed time.Duration) {
	entry := domain.QueryLogEntry{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Language:       lang,
		Query:          query,
		Intent:         reply.Intent,
		Stage:          reply.Stage,
		RuleID:         reply.RuleID,
		Score:          reply.Score,
		DurationMS:     elapsed.Milliseconds(),
		CreatedAt:      time.Now().UTC(),
	}
	if err := rt.publisher.PublishQueryAnswered(ctx, entry); err != nil {
		rt.serverMetrics.RecordPublishError(rt.opts.ServiceName)
		rt.logger.WarnContext(ctx, "query event publication failed",
			"conversation_id", conversationID, "error", err)
	}
}

type handRequest struct {
	Description string `json:"description"`
	Language    string `json:"language"`
}

func (rt *Router) evaluateHand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req handRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "description is required"})
		return
	}

	lang := domain.Language(req.Language).Normalize()
	evaluation := rt.hands.EvaluateHand(req.Description, lang)
	rt.serverMetrics.RecordHandEvaluation(rt.opts.ServiceName, string(lang))

	writeJSON(w, http.StatusOK, evaluation)
}

func (rt *Router) exportConversation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/conversations/")
	conversationID, ok := strings.CutSuffix(rest, "/export")
	if !ok || conversationID == "" || strings.Contains(conversationID, "/") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	ctx := r.Context()
	conv, err := rt.conversations.GetConversation(ctx, conversationID)
	if err != nil {
		rt.serverMetrics.RecordExport(rt.opts.ServiceName, err)
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	turns, err := rt.conversations.ListTurns(ctx, conversationID)
	if err != nil {
		rt.serverMetrics.RecordExport(rt.opts.ServiceName, err)
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	if len(turns) > rt.opts.ExportMaxTurns {
		turns = turns[len(turns)-rt.opts.ExportMaxTurns:]
	}

	payload, err := rt.exporter.Export(conv, turns)
	if err != nil {
		rt.serverMetrics.RecordExport(rt.opts.ServiceName, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	rt.serverMetrics.RecordExport(rt.opts.ServiceName, nil)

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "transcript-"+conversationID+".xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (rt *Router) listSuggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	lang := domain.Language(r.URL.Query().Get("language")).Normalize()
	writeJSON(w, http.StatusOK, map[string]any{
		"language":    lang,
		"suggestions": usecase.QuickSuggestions(lang),
	})
}

const (
	defaultAnalyticsLimit = 50
	maxAnalyticsLimit     = 500
)

func (rt *Router) listRecentQueries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	limit := defaultAnalyticsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}
	if limit > maxAnalyticsLimit {
		limit = maxAnalyticsLimit
	}

	entries, err := rt.queryLog.ListRecent(r.Context(), limit)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	if entries == nil {
		entries = []domain.QueryLogEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"queries": entries})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
