package corpus

import (
	"strings"
	"testing"

	"github.com/bellaajmohsen7/sofiene/internal/core/domain"
)

func TestLoadDefaultCoversBothLanguages(t *testing.T) {
	c, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}
	if len(c.AllRules()) < 8 {
		t.Fatalf("expected at least 8 rules, got %d", len(c.AllRules()))
	}
	for id, rule := range c.AllRules() {
		for _, lang := range domain.SupportedLanguages {
			if rule.Title.In(lang) == "" || rule.Body.In(lang) == "" {
				t.Fatalf("rule %s missing %s text", id, lang)
			}
			if len(rule.Keywords.In(lang)) == 0 {
				t.Fatalf("rule %s missing %s keywords", id, lang)
			}
			if len(rule.Patterns.In(lang)) == 0 {
				t.Fatalf("rule %s missing %s patterns", id, lang)
			}
		}
	}
}

func TestLoadDefaultHashIsStable(t *testing.T) {
	a, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}
	b, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}
	if a.ContentHash() == "" || a.ContentHash() != b.ContentHash() {
		t.Fatalf("expected stable non-empty content hash, got %q and %q", a.ContentHash(), b.ContentHash())
	}
}

func TestLoadRejectsRuleWithoutPatterns(t *testing.T) {
	const data = `
rules:
  - id: broken
    category: basic
    title: {fr: "t", en: "t"}
    body: {fr: "b", en: "b"}
    keywords: {fr: [a], en: [a]}
    patterns: {fr: [], en: []}
`
	_, err := load([]byte(data))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !domain.IsKind(err, domain.ErrCorpusInvalid) {
		t.Fatalf("expected ErrCorpusInvalid, got %v", err)
	}
}

func TestLoadRejectsInvalidRegex(t *testing.T) {
	const data = `
rules:
  - id: broken
    category: basic
    title: {fr: "t", en: "t"}
    body: {fr: "b", en: "b"}
    keywords: {fr: [a], en: [a]}
    patterns: {fr: ['('], en: ['ok']}
`
	_, err := load([]byte(data))
	if err == nil || !strings.Contains(err.Error(), "invalid fr pattern") {
		t.Fatalf("expected invalid pattern error, got %v", err)
	}
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	const data = `
rules:
  - id: dup
    category: basic
    title: {fr: "t", en: "t"}
    body: {fr: "b", en: "b"}
    keywords: {fr: [a], en: [a]}
    patterns: {fr: [x], en: [x]}
  - id: dup
    category: basic
    title: {fr: "t", en: "t"}
    body: {fr: "b", en: "b"}
    keywords: {fr: [a], en: [a]}
    patterns: {fr: [x], en: [x]}
`
	_, err := load([]byte(data))
	if err == nil || !strings.Contains(err.Error(), "duplicate id") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}
