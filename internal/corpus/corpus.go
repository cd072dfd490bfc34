// Package corpus loads the bilingual rule set from versioned YAML data.
// The corpus is immutable after load and validated eagerly: a rule missing
// keywords or patterns for a supported language fails the whole load.
package corpus

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/bellaajmohsen7/sofiene/internal/core/domain"
)

//go:embed data/rules.yaml
var defaultRules []byte

type Corpus struct {
	rules map[string]domain.RuleRecord
	ids   []string
	hash  string
}

type ruleFile struct {
	Rules []domain.RuleRecord `yaml:"rules"`
}

// LoadDefault parses the embedded rule set.
func LoadDefault() (*Corpus, error) {
	return load(defaultRules)
}

// LoadFile parses a rule set from disk, for deployments that override the
// embedded revision.
func LoadFile(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}
	return load(data)
}

// Load picks the file at path when set, the embedded rule set otherwise.
func Load(path string) (*Corpus, error) {
	if path == "" {
		return LoadDefault()
	}
	return LoadFile(path)
}

func load(data []byte) (*Corpus, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, domain.WrapError(domain.ErrCorpusInvalid, "parse corpus yaml", err)
	}
	if len(file.Rules) == 0 {
		return nil, domain.WrapError(domain.ErrCorpusInvalid, "parse corpus yaml", fmt.Errorf("no rules defined"))
	}

	rules := make(map[string]domain.RuleRecord, len(file.Rules))
	ids := make([]string, 0, len(file.Rules))
	for _, rule := range file.Rules {
		if err := validateRule(rule); err != nil {
			return nil, domain.WrapError(domain.ErrCorpusInvalid, "validate rule "+rule.ID, err)
		}
		if _, dup := rules[rule.ID]; dup {
			return nil, domain.WrapError(domain.ErrCorpusInvalid, "validate rule "+rule.ID, fmt.Errorf("duplicate id"))
		}
		rules[rule.ID] = rule
		ids = append(ids, rule.ID)
	}

	sum := sha256.Sum256(data)
	return &Corpus{
		rules: rules,
		ids:   ids,
		hash:  hex.EncodeToString(sum[:]),
	}, nil
}

func validateRule(rule domain.RuleRecord) error {
	if rule.ID == "" {
		return fmt.Errorf("empty id")
	}
	if rule.Category == "" {
		return fmt.Errorf("empty category")
	}
	for _, lang := range domain.SupportedLanguages {
		if rule.Title.In(lang) == "" {
			return fmt.Errorf("missing %s title", lang)
		}
		if rule.Body.In(lang) == "" {
			return fmt.Errorf("missing %s body", lang)
		}
		if len(rule.Keywords.In(lang)) == 0 {
			return fmt.Errorf("missing %s keywords", lang)
		}
		patterns := rule.Patterns.In(lang)
		if len(patterns) == 0 {
			return fmt.Errorf("missing %s patterns", lang)
		}
		for _, pattern := range patterns {
			if _, err := regexp.Compile(pattern); err != nil {
				return fmt.Errorf("invalid %s pattern %q: %w", lang, pattern, err)
			}
		}
	}
	return nil
}

// AllRules returns a copy of the rule map; callers may iterate freely.
func (c *Corpus) AllRules() map[string]domain.RuleRecord {
	out := make(map[string]domain.RuleRecord, len(c.rules))
	for id, rule := range c.rules {
		out[id] = rule
	}
	return out
}

// Rule looks up a single record by id.
func (c *Corpus) Rule(id string) (domain.RuleRecord, bool) {
	rule, ok := c.rules[id]
	return rule, ok
}

// RuleIDs returns ids in corpus file order.
func (c *Corpus) RuleIDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

// ContentHash is the SHA-256 of the raw corpus bytes; the embedding cache
// artifact is keyed on it so corpus edits invalidate stale vectors.
func (c *Corpus) ContentHash() string {
	return c.hash
}
