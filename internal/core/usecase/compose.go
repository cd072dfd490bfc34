package usecase

import (
	"regexp"
	"strings"

	"github.com/bellaajmohsen7/sofiene/internal/core/domain"
	"github.com/bellaajmohsen7/sofiene/internal/core/ports"
)

// ComposerConfig carries the response thresholds. Scores mix cosine
// similarity with additive boosts, so these are tuning constants rather than
// probabilities.
type ComposerConfig struct {
	ConfidenceThreshold float64
	ExpertTipThreshold  float64
	AlsoSeeThreshold    float64
}

func DefaultComposerConfig() ComposerConfig {
	return ComposerConfig{
		ConfidenceThreshold: 0.3,
		ExpertTipThreshold:  0.7,
		AlsoSeeThreshold:    0.8,
	}
}

func (c ComposerConfig) normalize() ComposerConfig {
	def := DefaultComposerConfig()
	if c.ConfidenceThreshold <= 0 {
		c.ConfidenceThreshold = def.ConfidenceThreshold
	}
	if c.ExpertTipThreshold <= 0 {
		c.ExpertTipThreshold = def.ExpertTipThreshold
	}
	if c.AlsoSeeThreshold <= 0 {
		c.AlsoSeeThreshold = def.AlsoSeeThreshold
	}
	return c
}

// Composer renders the user-facing text for a ranked match list, or an
// intent-specific fallback when nothing is confident enough.
type Composer struct {
	rules ports.RuleSource
	cfg   ComposerConfig
}

func NewComposer(rules ports.RuleSource, cfg ComposerConfig) *Composer {
	return &Composer{rules: rules, cfg: cfg.normalize()}
}

// Compose turns the best match into title+body, appending an expert tip for
// confident announcement answers and an "also see" list for very confident
// ones. Below the confidence threshold it falls back.
func (c *Composer) Compose(matches []domain.Match, intent string, lang domain.Language, recentContext []string) domain.Reply {
	lang = lang.Normalize()
	if len(matches) == 0 || matches[0].Score < c.cfg.ConfidenceThreshold {
		return c.Fallback(intent, lang, recentContext)
	}

	best := matches[0]
	rule, ok := c.rules.Rule(best.RuleID)
	if !ok {
		return c.Fallback(intent, lang, recentContext)
	}

	var b strings.Builder
	b.WriteString("**")
	b.WriteString(rule.Title.In(lang))
	b.WriteString("**\n\n")
	b.WriteString(rule.Body.In(lang))

	if intent == intentAnnouncements && best.Score > c.cfg.ExpertTipThreshold {
		b.WriteString(expertTip(lang))
	}

	if best.Score > c.cfg.AlsoSeeThreshold && len(matches) > 1 {
		b.WriteString("\n\n")
		b.WriteString(alsoSeeHeader(lang))
		b.WriteString("\n")
		for _, related := range matches[1:] {
			relatedRule, ok := c.rules.Rule(related.RuleID)
			if !ok {
				continue
			}
			b.WriteString("• ")
			b.WriteString(relatedRule.Title.In(lang))
			b.WriteString("\n")
		}
	}

	return domain.Reply{
		Text:   b.String(),
		Intent: intent,
		Stage:  best.Stage,
		RuleID: best.RuleID,
		Score:  best.Score,
	}
}

// Fallback renders the canned intent-specific answer. A general intent is
// upgraded using the most recent context line that carries a recognizable
// cue, so a vague follow-up stays on topic.
func (c *Composer) Fallback(intent string, lang domain.Language, recentContext []string) domain.Reply {
	lang = lang.Normalize()
	if intent == "" {
		intent = intentGeneral
	}
	if intent == intentGeneral {
		for i := len(recentContext) - 1; i >= 0; i-- {
			if contextual := ExtractIntent(strings.ToLower(recentContext[i]), lang); contextual != intentGeneral {
				intent = contextual
				break
			}
		}
	}
	return domain.Reply{
		Text:   fallbackText(intent, lang),
		Intent: intent,
		Stage:  domain.StageFallback,
	}
}

var intentCueCache = compileIntentCues()

func compileIntentCues() map[domain.Language]map[string][]*regexp.Regexp {
	out := make(map[domain.Language]map[string][]*regexp.Regexp, len(intentCues))
	for lang, byIntent := range intentCues {
		compiled := make(map[string][]*regexp.Regexp, len(byIntent))
		for intent, cues := range byIntent {
			for _, cue := range cues {
				compiled[intent] = append(compiled[intent], regexp.MustCompile(cue))
			}
		}
		out[lang] = compiled
	}
	return out
}

// ExtractIntent labels a (lowercased) query by keyword presence, checking
// intents in fixed priority order.
func ExtractIntent(query string, lang domain.Language) string {
	byIntent := intentCueCache[lang.Normalize()]
	for _, intent := range intentPriority {
		for _, re := range byIntent[intent] {
			if re.MatchString(query) {
				return intent
			}
		}
	}
	return intentGeneral
}
