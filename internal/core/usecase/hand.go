package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bellaajmohsen7/sofiene/internal/core/domain"
)

// HandEvaluator turns a free-text hand description into a bid hint. It is a
// keyword-presence heuristic over rank and suit tokens, not a rules-correct
// hand analyzer: it cannot verify the actual suit distribution.
type HandEvaluator struct{}

func NewHandEvaluator() *HandEvaluator {
	return &HandEvaluator{}
}

var aceCountRe = regexp.MustCompile(`(\d+)\s*(?:as|aces?)\b`)

// EvaluateHand scans the description for trump-rank and suit tokens and walks
// the decision table highest value first.
func (e *HandEvaluator) EvaluateHand(description string, lang domain.Language) domain.HandEvaluation {
	lang = lang.Normalize()
	tokens := toTokenSet(description)

	features := domain.HandFeatures{
		TrumpTokenCount: countRankFamilies(tokens),
		SuitsMentioned:  countSuitFamilies(tokens),
		AceCount:        aceCount(description, tokens),
	}
	features.CompleteTrumps = hasCompleteTrumps(tokens)

	switch {
	case features.CompleteTrumps && features.TrumpTokenCount >= 6:
		return evaluation(140, 0.85, reasonFor(140, lang), []int{130}, features)
	case features.CompleteTrumps && features.SuitsMentioned == 2:
		return evaluation(130, 0.90, reasonFor(130, lang), []int{120, 140}, features)
	case features.CompleteTrumps && features.SuitsMentioned == 3:
		return evaluation(120, 0.85, reasonFor(120, lang), []int{110, 130}, features)
	case features.CompleteTrumps:
		return evaluation(110, 0.90, reasonFor(110, lang), []int{100, 120}, features)
	case features.TrumpTokenCount >= 3:
		return evaluation(100, 0.70, reasonFor(100, lang), []int{90, 110}, features)
	default:
		return evaluation(90, 0.60, reasonFor(90, lang), []int{100}, features)
	}
}

func evaluation(points int, confidence float64, reasoning string, alternatives []int, features domain.HandFeatures) domain.HandEvaluation {
	return domain.HandEvaluation{
		RecommendedAnnouncement: points,
		Confidence:              confidence,
		Reasoning:               reasoning,
		AlternativeOptions:      alternatives,
		Features:                features,
	}
}

func hasCompleteTrumps(tokens map[string]struct{}) bool {
	for _, rank := range completeTrumpRanks {
		if !anyTokenPresent(tokens, trumpRankTokens[rank]) {
			return false
		}
	}
	return true
}

func countRankFamilies(tokens map[string]struct{}) int {
	count := 0
	for _, spellings := range trumpRankTokens {
		if anyTokenPresent(tokens, spellings) {
			count++
		}
	}
	return count
}

func countSuitFamilies(tokens map[string]struct{}) int {
	count := 0
	for _, spellings := range suitTokens {
		if anyTokenPresent(tokens, spellings) {
			count++
		}
	}
	return count
}

func anyTokenPresent(tokens map[string]struct{}, spellings []string) bool {
	for _, spelling := range spellings {
		if _, ok := tokens[spelling]; ok {
			return true
		}
	}
	return false
}

func aceCount(description string, tokens map[string]struct{}) int {
	if m := aceCountRe.FindStringSubmatch(joinLower(description)); len(m) == 2 {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	if anyTokenPresent(tokens, trumpRankTokens["ace"]) {
		return 1
	}
	return 0
}

func joinLower(s string) string {
	return strings.Join(tokenizeLower(s), " ")
}

func reasonFor(points int, lang domain.Language) string {
	fr := map[int]string{
		140: "Main quasi-parfaite détectée (atouts complets + 6 cartes d'atout ou plus) - l'adversaire ne peut espérer qu'un seul pli",
		130: "Atouts complets avec seulement 2 couleurs à la main - configuration officielle pour 130 points",
		120: "Atouts complets avec seulement 3 couleurs à la main - configuration officielle pour 120 points",
		110: "Atouts complets détectés - parfait pour 110 points selon les règles officielles",
		100: "Plusieurs cartes d'atout détectées - 100 points reste flexible (\"généralement comme tu veux\")",
		90:  "Recommandation conservatrice - avec 2 As minimum, 90 points est la recommandation officielle",
	}
	en := map[int]string{
		140: "Near-perfect hand detected (complete trumps + 6 or more trump cards) - the opponent can hope for one trick at most",
		130: "Complete trumps with only 2 colors in hand - official configuration for 130 points",
		120: "Complete trumps with only 3 colors in hand - official configuration for 120 points",
		110: "Complete trumps detected - perfect for 110 points according to official rules",
		100: "Several trump cards detected - 100 points stays flexible (\"generally as you wish\")",
		90:  "Conservative recommendation - with minimum 2 Aces, 90 points is the official recommendation",
	}
	table := fr
	if lang == domain.LanguageEnglish {
		table = en
	}
	if reason, ok := table[points]; ok {
		return reason
	}
	return fmt.Sprintf("%d", points)
}
