package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/bellaajmohsen7/sofiene/internal/core/domain"
)

func TestRecordQueryInsertsAllFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewQueryLogRepository(db)
	entry := domain.QueryLogEntry{
		ID:             "q-1",
		ConversationID: "c-1",
		Language:       domain.LanguageFrench,
		Query:          "recommandation pour 110",
		Intent:         "announcements",
		Stage:          domain.StagePattern,
		RuleID:         "announcements_official",
		Score:          0.95,
		DurationMS:     12,
		CreatedAt:      time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO query_log").
		WithArgs("q-1", "c-1", "fr", "recommandation pour 110", "announcements", "pattern",
			"announcements_official", 0.95, int64(12), entry.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.RecordQuery(context.Background(), entry); err != nil {
		t.Fatalf("RecordQuery() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRecordQueryStoresEmptyRuleAsNull(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewQueryLogRepository(db)
	entry := domain.QueryLogEntry{
		ID:             "q-2",
		ConversationID: "c-1",
		Language:       domain.LanguageEnglish,
		Query:          "hello",
		Intent:         "general",
		Stage:          domain.StageFallback,
		CreatedAt:      time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO query_log").
		WithArgs("q-2", "c-1", "en", "hello", "general", "fallback",
			nil, 0.0, int64(0), entry.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.RecordQuery(context.Background(), entry); err != nil {
		t.Fatalf("RecordQuery() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListRecentScansEntries(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewQueryLogRepository(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "conversation_id", "language", "query", "intent", "stage",
		"rule_id", "score", "duration_ms", "created_at",
	}).AddRow("q-1", "c-1", "fr", "capot", "capot", "pattern", "capot_complete_official", 0.9, int64(3), now)

	mock.ExpectQuery("FROM query_log").
		WithArgs(10).
		WillReturnRows(rows)

	entries, err := repo.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Stage != domain.StagePattern || entries[0].Language != domain.LanguageFrench {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
