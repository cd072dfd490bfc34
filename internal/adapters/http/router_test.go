package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/bellaajmohsen7/sofiene/internal/core/domain"
	"github.com/bellaajmohsen7/sofiene/internal/core/usecase"
	"github.com/bellaajmohsen7/sofiene/internal/infrastructure/export/xlsx"
	"github.com/bellaajmohsen7/sofiene/internal/observability/metrics"
)

type fakeQueryService struct {
	mu           sync.Mutex
	lastQuery    string
	lastLanguage domain.Language
	lastContext  []string
	reply        domain.Reply
}

func (s *fakeQueryService) ProcessQuery(_ context.Context, query string, lang domain.Language, recentContext []string) domain.Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastQuery = query
	s.lastLanguage = lang
	s.lastContext = append([]string(nil), recentContext...)
	return s.reply
}

type memoryConversationStore struct {
	mu            sync.Mutex
	conversations map[string]*domain.Conversation
	turns         map[string][]domain.ConversationTurn
	failAll       bool
}

func newMemoryConversationStore() *memoryConversationStore {
	return &memoryConversationStore{
		conversations: make(map[string]*domain.Conversation),
		turns:         make(map[string][]domain.ConversationTurn),
	}
}

func (s *memoryConversationStore) EnsureConversation(_ context.Context, id string, lang domain.Language) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return nil, domain.WrapError(domain.ErrTemporary, "ensure conversation", context.DeadlineExceeded)
	}
	if conv, ok := s.conversations[id]; ok {
		return conv, nil
	}
	now := time.Now().UTC()
	conv := &domain.Conversation{ID: id, Language: lang, CreatedAt: now, UpdatedAt: now}
	s.conversations[id] = conv
	return conv, nil
}

func (s *memoryConversationStore) GetConversation(_ context.Context, id string) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrConversationNotFound, "get conversation", domain.ErrConversationNotFound)
	}
	return conv, nil
}

func (s *memoryConversationStore) AppendTurn(_ context.Context, turn domain.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return domain.WrapError(domain.ErrTemporary, "append turn", context.DeadlineExceeded)
	}
	s.turns[turn.ConversationID] = append(s.turns[turn.ConversationID], turn)
	return nil
}

func (s *memoryConversationStore) ListTurns(_ context.Context, conversationID string) ([]domain.ConversationTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ConversationTurn(nil), s.turns[conversationID]...), nil
}

func (s *memoryConversationStore) ListRecentUserTurns(_ context.Context, conversationID string, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return nil, domain.WrapError(domain.ErrTemporary, "list recent user turns", context.DeadlineExceeded)
	}
	var out []string
	for _, turn := range s.turns[conversationID] {
		if turn.Sender == domain.SenderUser {
			out = append(out, turn.Content)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type memoryQueryLog struct {
	mu      sync.Mutex
	entries []domain.QueryLogEntry
}

func (s *memoryQueryLog) RecordQuery(_ context.Context, entry domain.QueryLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *memoryQueryLog) ListRecent(_ context.Context, limit int) ([]domain.QueryLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]domain.QueryLogEntry(nil), s.entries...)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	entries []domain.QueryLogEntry
	fail    bool
}

func (p *recordingPublisher) PublishQueryAnswered(_ context.Context, entry domain.QueryLogEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return domain.WrapError(domain.ErrTemporary, "publish", context.DeadlineExceeded)
	}
	p.entries = append(p.entries, entry)
	return nil
}

type testEnv struct {
	handler   http.Handler
	queries   *fakeQueryService
	store     *memoryConversationStore
	queryLog  *memoryQueryLog
	publisher *recordingPublisher
}

func newTestEnv(opts Options) *testEnv {
	queries := &fakeQueryService{
		reply: domain.Reply{
			Text:   "**Capot**\n\nLe capot vaut 250 points.",
			Intent: "capot",
			Stage:  domain.StageSemantic,
			RuleID: "capot",
			Score:  0.92,
		},
	}
	store := newMemoryConversationStore()
	queryLog := &memoryQueryLog{}
	publisher := &recordingPublisher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := NewRouter(
		queries,
		usecase.NewHandEvaluator(),
		store,
		queryLog,
		publisher,
		xlsx.NewTranscriptExporter(),
		metrics.NewHTTPServerMetrics("api-test"),
		logger,
		opts,
	)
	return &testEnv{
		handler:   router.Handler(),
		queries:   queries,
		store:     store,
		queryLog:  queryLog,
		publisher: publisher,
	}
}

func postJSON(t *testing.T, handler http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func TestAnswerQueryReturnsReplyAndPersistsTurns(t *testing.T) {
	env := newTestEnv(Options{})

	res := postJSON(t, env.handler, "/v1/query", map[string]string{
		"query":    "combien vaut le capot ?",
		"language": "fr",
	})
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var resp queryResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ConversationID == "" {
		t.Fatalf("expected a generated conversation id")
	}
	if resp.Reply.Text == "" || resp.Reply.Stage != domain.StageSemantic {
		t.Fatalf("unexpected reply: %+v", resp.Reply)
	}

	turns, err := env.store.ListTurns(context.Background(), resp.ConversationID)
	if err != nil {
		t.Fatalf("list turns: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected user and assistant turns, got %d", len(turns))
	}
	if turns[0].Sender != domain.SenderUser || turns[1].Sender != domain.SenderAssistant {
		t.Fatalf("unexpected turn senders: %q, %q", turns[0].Sender, turns[1].Sender)
	}

	if len(env.publisher.entries) != 1 {
		t.Fatalf("expected one published event, got %d", len(env.publisher.entries))
	}
	entry := env.publisher.entries[0]
	if entry.ConversationID != resp.ConversationID || entry.Stage != domain.StageSemantic || entry.RuleID != "capot" {
		t.Fatalf("unexpected event: %+v", entry)
	}
}

func TestAnswerQueryForwardsRecentContext(t *testing.T) {
	env := newTestEnv(Options{ContextTurns: 2})

	first := postJSON(t, env.handler, "/v1/query", map[string]string{
		"query":    "parlons du capot",
		"language": "fr",
	})
	var firstResp queryResponse
	if err := json.NewDecoder(first.Body).Decode(&firstResp); err != nil {
		t.Fatalf("decode first response: %v", err)
	}

	postJSON(t, env.handler, "/v1/query", map[string]string{
		"query":           "et ensuite ?",
		"language":        "fr",
		"conversation_id": firstResp.ConversationID,
	})

	if len(env.queries.lastContext) != 1 || env.queries.lastContext[0] != "parlons du capot" {
		t.Fatalf("expected prior user turn as context, got %v", env.queries.lastContext)
	}
}

func TestAnswerQueryRejectsMissingQuery(t *testing.T) {
	env := newTestEnv(Options{})

	res := postJSON(t, env.handler, "/v1/query", map[string]string{"query": "   "})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestAnswerQuerySurvivesStorageOutage(t *testing.T) {
	env := newTestEnv(Options{})
	env.store.failAll = true

	res := postJSON(t, env.handler, "/v1/query", map[string]string{
		"query":    "règles du capot",
		"language": "fr",
	})
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 despite storage outage, got %d", res.Code)
	}

	var resp queryResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Reply.Text == "" {
		t.Fatalf("expected a reply text despite storage outage")
	}
}

func TestEvaluateHandReturnsRecommendation(t *testing.T) {
	env := newTestEnv(Options{})

	res := postJSON(t, env.handler, "/v1/hand/evaluate", map[string]string{
		"description": "j'ai le valet le 9 l'as et le 10 d'atout",
		"language":    "fr",
	})
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var eval domain.HandEvaluation
	if err := json.NewDecoder(res.Body).Decode(&eval); err != nil {
		t.Fatalf("decode evaluation: %v", err)
	}
	if !domain.ValidAnnouncement(eval.RecommendedAnnouncement) {
		t.Fatalf("expected a legal announcement level, got %d", eval.RecommendedAnnouncement)
	}
	if eval.Reasoning == "" {
		t.Fatalf("expected a reasoning string")
	}
}

func TestEvaluateHandRejectsEmptyDescription(t *testing.T) {
	env := newTestEnv(Options{})

	res := postJSON(t, env.handler, "/v1/hand/evaluate", map[string]string{"description": ""})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestExportConversationReturnsWorkbook(t *testing.T) {
	env := newTestEnv(Options{})

	res := postJSON(t, env.handler, "/v1/query", map[string]string{
		"query":    "combien vaut le capot ?",
		"language": "fr",
	})
	var resp queryResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/conversations/"+resp.ConversationID+"/export", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, resp.ConversationID) {
		t.Fatalf("expected conversation id in disposition, got %q", cd)
	}

	workbook, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("open exported workbook: %v", err)
	}
	defer workbook.Close()

	rows, err := workbook.GetRows("Transcript")
	if err != nil {
		t.Fatalf("read transcript sheet: %v", err)
	}
	if len(rows) < 7 {
		t.Fatalf("expected metadata, header and turn rows, got %d rows", len(rows))
	}
}

func TestExportUnknownConversationReturns404(t *testing.T) {
	env := newTestEnv(Options{})

	req := httptest.NewRequest(http.MethodGet, "/v1/conversations/nope/export", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListSuggestionsPerLanguage(t *testing.T) {
	env := newTestEnv(Options{})

	req := httptest.NewRequest(http.MethodGet, "/v1/suggestions?language=en", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Language    domain.Language `json:"language"`
		Suggestions []string        `json:"suggestions"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode suggestions: %v", err)
	}
	if resp.Language != domain.LanguageEnglish {
		t.Fatalf("expected en, got %q", resp.Language)
	}
	if len(resp.Suggestions) == 0 || !strings.Contains(resp.Suggestions[0], "Recommendation") {
		t.Fatalf("unexpected suggestions: %v", resp.Suggestions)
	}
}

func TestAnswerQuerySurfacesCacheStage(t *testing.T) {
	env := newTestEnv(Options{})
	env.queries.reply.Stage = domain.StageCache

	res := postJSON(t, env.handler, "/v1/query", map[string]string{
		"query":    "combien vaut le capot ?",
		"language": "fr",
	})
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var resp queryResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Reply.Stage != domain.StageCache {
		t.Fatalf("stage = %q, want cache", resp.Reply.Stage)
	}
	if len(env.publisher.entries) != 1 || env.publisher.entries[0].Stage != domain.StageCache {
		t.Fatalf("published event must carry the cache stage: %+v", env.publisher.entries)
	}
}

func TestListRecentQueriesReturnsNewestFirst(t *testing.T) {
	env := newTestEnv(Options{})
	for _, id := range []string{"q-1", "q-2", "q-3"} {
		entry := domain.QueryLogEntry{
			ID:        id,
			Language:  domain.LanguageFrench,
			Query:     "capot ?",
			Stage:     domain.StageSemantic,
			CreatedAt: time.Now().UTC(),
		}
		if err := env.queryLog.RecordQuery(context.Background(), entry); err != nil {
			t.Fatalf("seed query log: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/analytics/queries?limit=2", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Queries []domain.QueryLogEntry `json:"queries"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode analytics response: %v", err)
	}
	if len(resp.Queries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(resp.Queries))
	}
	if resp.Queries[0].ID != "q-3" || resp.Queries[1].ID != "q-2" {
		t.Fatalf("expected newest first, got %q then %q", resp.Queries[0].ID, resp.Queries[1].ID)
	}
}

func TestListRecentQueriesRejectsBadLimit(t *testing.T) {
	env := newTestEnv(Options{})

	req := httptest.NewRequest(http.MethodGet, "/v1/analytics/queries?limit=zero", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHealthzAndRequestID(t *testing.T) {
	env := newTestEnv(Options{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected a generated request id header")
	}

	req2 := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req2.Header.Set(requestIDHeader, "req-123")
	rec2 := httptest.NewRecorder()
	env.handler.ServeHTTP(rec2, req2)
	if got := rec2.Header().Get(requestIDHeader); got != "req-123" {
		t.Fatalf("expected propagated request id, got %q", got)
	}
}

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	env := newTestEnv(Options{RateLimitPerSecond: 1, RateLimitBurst: 1})

	req1 := httptest.NewRequest(http.MethodGet, "/v1/suggestions", nil)
	res1 := httptest.NewRecorder()
	env.handler.ServeHTTP(res1, req1)
	if res1.Code != http.StatusOK {
		t.Fatalf("first request expected 200, got %d", res1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/v1/suggestions", nil)
	res2 := httptest.NewRecorder()
	env.handler.ServeHTTP(res2, req2)
	if res2.Code != http.StatusTooManyRequests {
		t.Fatalf("second request expected 429, got %d", res2.Code)
	}
	if res2.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header for 429 response")
	}
}

func TestRateLimitSparesHealthz(t *testing.T) {
	env := newTestEnv(Options{RateLimitPerSecond: 1, RateLimitBurst: 1})

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("health probe %d expected 200, got %d", i, rec.Code)
		}
	}
}
