package domain

import "time"

// Conversation groups the turns of one chat session.
type Conversation struct {
	ID        string    `json:"id"`
	Language  Language  `json:"language"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Turn senders.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// ConversationTurn is one message of a transcript. The core pipeline only
// reads recent user turns as optional context and never mutates them.
type ConversationTurn struct {
	ConversationID string    `json:"conversation_id"`
	Sender         string    `json:"sender"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// QueryLogEntry is one answered-query analytics record, produced by the api
// process and persisted by the worker.
type QueryLogEntry struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversation_id"`
	Language       Language   `json:"language"`
	Query          string     `json:"query"`
	Intent         string     `json:"intent"`
	Stage          MatchStage `json:"stage"`
	RuleID         string     `json:"rule_id"`
	Score          float64    `json:"score"`
	DurationMS     int64      `json:"duration_ms"`
	CreatedAt      time.Time  `json:"created_at"`
}
