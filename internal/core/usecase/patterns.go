package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bellaajmohsen7/sofiene/internal/core/domain"
	"github.com/bellaajmohsen7/sofiene/internal/core/ports"
)

// patternKind tags each entry of the precedence-ordered cascade.
type patternKind int

const (
	patternHand patternKind = iota
	patternRecommendation
	patternConditions
	patternBelote
	patternCoinche
	patternCapot
)

// patternIntent is one (regex, handler-kind) entry. Entries are evaluated
// top to bottom; the first hit wins.
type patternIntent struct {
	kind patternKind
	re   *regexp.Regexp
}

// PatternMatcher recognizes high-precision intents before any semantic work
// happens: hand evaluation phrasing, point extraction for announcement
// recommendations/conditions, then belote, coinche and capot phrasing.
type PatternMatcher struct {
	rules  ports.RuleSource
	hand   *HandEvaluator
	byLang map[domain.Language][]patternIntent
}

func NewPatternMatcher(rules ports.RuleSource, hand *HandEvaluator) *PatternMatcher {
	return &PatternMatcher{
		rules: rules,
		hand:  hand,
		byLang: map[domain.Language][]patternIntent{
			domain.LanguageFrench:  compileIntents(frenchIntents),
			domain.LanguageEnglish: compileIntents(englishIntents),
		},
	}
}

type rawIntent struct {
	kind    patternKind
	pattern string
}

var frenchIntents = []rawIntent{
	// 1. Hand-evaluation phrasing.
	{patternHand, `j.ai.*(as|valet|roi|dame|10|9|8|7).*que.*annoncer`},
	{patternHand, `j.ai.*main.*annoncer`},
	{patternHand, `que.*annoncer.*avec.*(as|valet|roi|dame|10|9|8|7)`},
	{patternHand, `main.*(as|valet|roi|dame|10|9|8|7).*annoncer`},
	{patternHand, `avec.*cartes.*annoncer`},
	{patternHand, `évaluer.*main`},
	{patternHand, `analyser.*jeu`},
	{patternHand, `conseil.*main`},
	// 2. Point extraction.
	{patternRecommendation, `recommandation.*?(?:pour|de|sur).*?(\d{2,3})`},
	{patternRecommendation, `(\d{2,3}).*points.*recommandation`},
	{patternConditions, `quand.*annoncer.*?(\d{2,3})`},
	{patternConditions, `annoncer.*?(\d{2,3})`},
	{patternRecommendation, `contrat.*?(\d{2,3})`},
	{patternRecommendation, `conseil.*?(\d{2,3})`},
	{patternRecommendation, `règle.*annonce.*?(\d{2,3})`},
	{patternConditions, `comment.*faire.*?(\d{2,3})`},
	// 3. Belote/rebelote phrasing.
	{patternBelote, `belote.*rebelote`},
	{patternBelote, `quand.*utiliser.*belote`},
	{patternBelote, `comment.*belote`},
	{patternBelote, `roi.*dame.*atout`},
	{patternBelote, `bonus.*belote`},
	{patternBelote, `règle.*belote`},
	// 4. Coinche/surcoinche phrasing.
	{patternCoinche, `coinche|surcoinche`},
	{patternCoinche, `multiplicateur.*contrat`},
	// 5. Capot phrasing.
	{patternCapot, `capot`},
	{patternCapot, `tous.*les.*plis`},
}

var englishIntents = []rawIntent{
	{patternHand, `i.have.*(ace|jack|king|queen|10|9|8|7).*what.*announce`},
	{patternHand, `i.have.*hand.*announce`},
	{patternHand, `what.*announce.*with.*(ace|jack|king|queen|10|9|8|7)`},
	{patternHand, `hand.*(ace|jack|king|queen|10|9|8|7).*announce`},
	{patternHand, `with.*cards.*announce`},
	{patternHand, `evaluate.*hand`},
	{patternHand, `analyze.*game`},
	{patternHand, `advice.*hand`},
	{patternRecommendation, `recommendation.*?(?:for|of|on).*?(\d{2,3})`},
	{patternRecommendation, `(\d{2,3}).*points.*recommendation`},
	{patternConditions, `when.*announce.*?(\d{2,3})`},
	{patternConditions, `announce.*?(\d{2,3})`},
	{patternRecommendation, `contract.*?(\d{2,3})`},
	{patternRecommendation, `advice.*?(\d{2,3})`},
	{patternRecommendation, `rule.*announce.*?(\d{2,3})`},
	{patternConditions, `how.*make.*?(\d{2,3})`},
	{patternBelote, `belote.*rebelote`},
	{patternBelote, `when.*use.*belote`},
	{patternBelote, `how.*belote`},
	{patternBelote, `king.*queen.*trump`},
	{patternBelote, `bonus.*belote`},
	{patternBelote, `rule.*belote`},
	{patternCoinche, `coinche|surcoinche`},
	{patternCoinche, `multiplier.*contract`},
	{patternCapot, `capot`},
	{patternCapot, `all.*tricks`},
}

func compileIntents(raw []rawIntent) []patternIntent {
	out := make([]patternIntent, 0, len(raw))
	for _, entry := range raw {
		out = append(out, patternIntent{kind: entry.kind, re: regexp.MustCompile(entry.pattern)})
	}
	return out
}

// Match runs the cascade against the raw and normalized forms of the query.
// It returns nil when nothing matches, telling the caller to continue with
// semantic search. An out-of-range or malformed point capture never errors:
// the entry is skipped and evaluation continues.
func (m *PatternMatcher) Match(raw string, nq domain.NormalizedQuery) *domain.Reply {
	lang := nq.Language.Normalize()
	lowered := strings.ToLower(strings.TrimSpace(raw))

	for _, intent := range m.byLang[lang] {
		for _, candidate := range []string{lowered, nq.Normalized} {
			groups := intent.re.FindStringSubmatch(candidate)
			if groups == nil {
				continue
			}
			reply := m.respond(intent.kind, groups, raw, lang)
			if reply != nil {
				return reply
			}
			break // malformed capture: skip to the next cascade entry
		}
	}
	return nil
}

func (m *PatternMatcher) respond(kind patternKind, groups []string, raw string, lang domain.Language) *domain.Reply {
	switch kind {
	case patternHand:
		eval := m.hand.EvaluateHand(raw, lang)
		return &domain.Reply{
			Text:   handAnalysisText(eval, lang),
			Intent: intentHandEvaluation,
			Stage:  domain.StagePattern,
		}
	case patternRecommendation, patternConditions:
		points, ok := extractPoints(groups)
		if !ok {
			return nil
		}
		text := recommendationText(points, lang)
		if kind == patternConditions {
			text = conditionsText(points, lang)
		}
		return &domain.Reply{
			Text:   text,
			Intent: intentAnnouncements,
			Stage:  domain.StagePattern,
		}
	case patternBelote:
		return m.ruleReply("belote_rebelote_official", intentBeloteRebelote, lang)
	case patternCoinche:
		return m.ruleReply("contract_management_official", intentCoinche, lang)
	case patternCapot:
		return m.ruleReply("capot_complete_official", intentCapot, lang)
	}
	return nil
}

// extractPoints validates the first capture group as a legal announcement
// level. Anything else falls through.
func extractPoints(groups []string) (int, bool) {
	if len(groups) < 2 {
		return 0, false
	}
	points, err := strconv.Atoi(groups[1])
	if err != nil {
		return 0, false
	}
	if !domain.ValidAnnouncement(points) {
		return 0, false
	}
	return points, true
}

func (m *PatternMatcher) ruleReply(ruleID, intent string, lang domain.Language) *domain.Reply {
	rule, ok := m.rules.Rule(ruleID)
	if !ok {
		return nil
	}
	return &domain.Reply{
		Text:   "**" + rule.Title.In(lang) + "**\n\n" + rule.Body.In(lang),
		Intent: intent,
		Stage:  domain.StagePattern,
		RuleID: rule.ID,
	}
}
