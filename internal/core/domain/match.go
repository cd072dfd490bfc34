package domain

// MatchStage identifies which pipeline stage produced a match.
type MatchStage string

const (
	StagePattern  MatchStage = "pattern"
	StageSemantic MatchStage = "semantic"
	StageFuzzy    MatchStage = "fuzzy"
	StageFallback MatchStage = "fallback"
	StageCache    MatchStage = "cache"
)

// Match is one ranked retrieval candidate. Score is cosine similarity plus
// additive boosts, so it is not bounded to [0,1].
type Match struct {
	RuleID string      `json:"rule_id"`
	Score  float64     `json:"score"`
	Stage  MatchStage  `json:"stage"`
	Rule   *RuleRecord `json:"-"`
}

// Reply is the final composed answer for one query.
type Reply struct {
	Text   string     `json:"text"`
	Intent string     `json:"intent"`
	Stage  MatchStage `json:"stage"`
	RuleID string     `json:"rule_id,omitempty"`
	Score  float64    `json:"score,omitempty"`
}
