package domain

// Announcement point levels a player may bid.
var AnnouncementLevels = []int{90, 100, 110, 120, 130, 140}

// ValidAnnouncement reports whether points is one of the six legal levels.
func ValidAnnouncement(points int) bool {
	for _, level := range AnnouncementLevels {
		if points == level {
			return true
		}
	}
	return false
}

// HandEvaluation is the result of the keyword-presence hand heuristic. It is
// a bidding hint, not a rules-correct hand analyzer.
type HandEvaluation struct {
	RecommendedAnnouncement int          `json:"recommended_announcement"`
	Confidence              float64      `json:"confidence"`
	Reasoning               string       `json:"reasoning"`
	AlternativeOptions      []int        `json:"alternative_options"`
	Features                HandFeatures `json:"features"`
}

// HandFeatures is the per-feature breakdown behind a recommendation.
type HandFeatures struct {
	CompleteTrumps  bool `json:"complete_trumps"`
	TrumpTokenCount int  `json:"trump_token_count"`
	SuitsMentioned  int  `json:"suits_mentioned"`
	AceCount        int  `json:"ace_count"`
}
