package domain

// Language tags supported by the rule corpus.
type Language string

const (
	LanguageFrench  Language = "fr"
	LanguageEnglish Language = "en"
)

// SupportedLanguages lists every language a RuleRecord must cover.
var SupportedLanguages = []Language{LanguageFrench, LanguageEnglish}

// Normalize maps arbitrary input to a supported language, defaulting to French
// like the original rule set.
func (l Language) Normalize() Language {
	if l == LanguageEnglish {
		return LanguageEnglish
	}
	return LanguageFrench
}

// LocalizedText holds one string per supported language.
type LocalizedText struct {
	FR string `yaml:"fr" json:"fr"`
	EN string `yaml:"en" json:"en"`
}

// In returns the text for the requested language.
func (t LocalizedText) In(lang Language) string {
	if lang.Normalize() == LanguageEnglish {
		return t.EN
	}
	return t.FR
}

// LocalizedList holds one string list per supported language.
type LocalizedList struct {
	FR []string `yaml:"fr" json:"fr"`
	EN []string `yaml:"en" json:"en"`
}

// In returns the list for the requested language.
func (l LocalizedList) In(lang Language) []string {
	if lang.Normalize() == LanguageEnglish {
		return l.EN
	}
	return l.FR
}

// RuleRecord is a single bilingual rule entry. Records are immutable after
// corpus load; the pipeline only ever reads them.
type RuleRecord struct {
	ID         string        `yaml:"id" json:"id"`
	Category   string        `yaml:"category" json:"category"`
	Title      LocalizedText `yaml:"title" json:"title"`
	Body       LocalizedText `yaml:"body" json:"body"`
	Keywords   LocalizedList `yaml:"keywords" json:"keywords"`
	Patterns   LocalizedList `yaml:"patterns" json:"patterns"`
	Variations LocalizedList `yaml:"variations" json:"variations"`
}

// NormalizedQuery is the per-request view of a query after typo correction and
// synonym expansion. It is created fresh per request and never persisted.
type NormalizedQuery struct {
	Original   string
	Language   Language
	Normalized string
	Keywords   []string
}
