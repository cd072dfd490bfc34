package usecase

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bellaajmohsen7/sofiene/internal/core/domain"
)

func newTestPatternMatcher(t *testing.T) *PatternMatcher {
	t.Helper()
	return NewPatternMatcher(testCorpus(t), NewHandEvaluator())
}

func normalizedFor(query string, lang domain.Language) domain.NormalizedQuery {
	return NewNormalizer(stubScorer{}, 0).Normalize(query, lang)
}

func TestPatternRecommendationCoversEveryLevel(t *testing.T) {
	m := newTestPatternMatcher(t)

	for _, points := range domain.AnnouncementLevels {
		queries := map[domain.Language]string{
			domain.LanguageFrench:  fmt.Sprintf("recommandation pour %d", points),
			domain.LanguageEnglish: fmt.Sprintf("recommendation for %d", points),
		}
		for lang, query := range queries {
			reply := m.Match(query, normalizedFor(query, lang))
			if reply == nil {
				t.Fatalf("no pattern reply for %q (%s)", query, lang)
			}
			if reply.Stage != domain.StagePattern {
				t.Fatalf("stage = %q, want %q", reply.Stage, domain.StagePattern)
			}
			if reply.Intent != intentAnnouncements {
				t.Fatalf("intent = %q, want %q", reply.Intent, intentAnnouncements)
			}
			want := fmt.Sprintf("%d points", points)
			if !strings.Contains(reply.Text, want) {
				t.Fatalf("reply for %q does not mention %q:\n%s", query, want, reply.Text)
			}
		}
	}
}

func TestPatternRejectsInvalidAnnouncementLevels(t *testing.T) {
	m := newTestPatternMatcher(t)

	for _, query := range []string{
		"recommandation pour 95",
		"recommandation pour 150",
		"recommendation for 85",
	} {
		for _, lang := range domain.SupportedLanguages {
			if reply := m.Match(query, normalizedFor(query, lang)); reply != nil {
				t.Fatalf("expected cascade fall-through for %q (%s), got %+v", query, lang, reply)
			}
		}
	}
}

func TestPatternConditionsQuery(t *testing.T) {
	m := newTestPatternMatcher(t)

	query := "quand annoncer 110 ?"
	reply := m.Match(query, normalizedFor(query, domain.LanguageFrench))
	if reply == nil {
		t.Fatalf("no pattern reply for %q", query)
	}
	if !strings.Contains(reply.Text, "110 points") {
		t.Fatalf("conditions reply does not mention the level:\n%s", reply.Text)
	}
}

func TestPatternHandEvaluation(t *testing.T) {
	m := newTestPatternMatcher(t)

	cases := map[domain.Language]string{
		domain.LanguageFrench:  "j'ai le valet et l'as, que dois-je annoncer ?",
		domain.LanguageEnglish: "i have the jack and the ace, what should i announce?",
	}
	for lang, query := range cases {
		reply := m.Match(query, normalizedFor(query, lang))
		if reply == nil {
			t.Fatalf("no pattern reply for %q (%s)", query, lang)
		}
		if reply.Intent != intentHandEvaluation {
			t.Fatalf("intent = %q, want %q", reply.Intent, intentHandEvaluation)
		}
	}
}

func TestPatternRuleShortcuts(t *testing.T) {
	m := newTestPatternMatcher(t)

	cases := []struct {
		query  string
		lang   domain.Language
		ruleID string
		intent string
	}{
		{"comment fonctionne belote et rebelote", domain.LanguageFrench, "belote_rebelote_official", intentBeloteRebelote},
		{"what is the bonus belote rule", domain.LanguageEnglish, "belote_rebelote_official", intentBeloteRebelote},
		{"c'est quoi la coinche", domain.LanguageFrench, "contract_management_official", intentCoinche},
		{"explique le capot", domain.LanguageFrench, "capot_complete_official", intentCapot},
		{"how do i win all the tricks", domain.LanguageEnglish, "capot_complete_official", intentCapot},
	}
	for _, tc := range cases {
		reply := m.Match(tc.query, normalizedFor(tc.query, tc.lang))
		if reply == nil {
			t.Fatalf("no pattern reply for %q (%s)", tc.query, tc.lang)
		}
		if reply.RuleID != tc.ruleID {
			t.Fatalf("rule = %q, want %q for %q", reply.RuleID, tc.ruleID, tc.query)
		}
		if reply.Intent != tc.intent {
			t.Fatalf("intent = %q, want %q for %q", reply.Intent, tc.intent, tc.query)
		}
	}
}

func TestPatternNoMatchReturnsNil(t *testing.T) {
	m := newTestPatternMatcher(t)

	query := "bonjour, quel temps fait-il ?"
	if reply := m.Match(query, normalizedFor(query, domain.LanguageFrench)); reply != nil {
		t.Fatalf("expected nil for an off-topic query, got %+v", reply)
	}
}
