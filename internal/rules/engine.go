// Package rules provides a YAML-based rules engine for transaction categorization.
package rules

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var embeddedRules []byte

// Rule represents a single categorization rule. A rule matches when any of
// its keyword tokens is a substring of the normalized (lower-cased,
// accent-folded) transaction description.
//
// Rules are evaluated in file order, first match wins, so more specific
// rules must be listed before generic ones. Appending a new rule never
// requires restructuring the existing ones.
type Rule struct {
	Name     string   `yaml:"name"`
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// RuleSet represents the top-level YAML structure. Fallback is the category
// assigned when no rule matches.
type RuleSet struct {
	Rules    []Rule `yaml:"rules"`
	Fallback string `yaml:"fallback"`
}

// DefaultFallback is used when the rule file names no fallback category.
const DefaultFallback = "Outras Despesas"

// Engine performs ordered keyword matching on transaction descriptions.
// Guess is a pure function of the description string, so an engine is safe
// for concurrent use.
type Engine struct {
	rules    []Rule
	fallback string
}

// NewEngine creates a rules engine from YAML data
func NewEngine(rulesData []byte) (*Engine, error) {
	var ruleSet RuleSet
	if err := yaml.Unmarshal(rulesData, &ruleSet); err != nil {
		return nil, fmt.Errorf("failed to parse YAML rules (check syntax, indentation, and field names): %w", err)
	}

	for i, rule := range ruleSet.Rules {
		if strings.TrimSpace(rule.Category) == "" {
			return nil, fmt.Errorf("rule %d (%s): category cannot be empty", i, rule.Name)
		}
		if len(rule.Keywords) == 0 {
			return nil, fmt.Errorf("rule %d (%s): at least one keyword is required", i, rule.Name)
		}
		for _, kw := range rule.Keywords {
			if strings.TrimSpace(kw) == "" {
				return nil, fmt.Errorf("rule %d (%s): keyword cannot be blank", i, rule.Name)
			}
		}
	}

	fallback := strings.TrimSpace(ruleSet.Fallback)
	if fallback == "" {
		fallback = DefaultFallback
	}

	// Pre-normalize keywords so Guess only normalizes the description.
	compiled := make([]Rule, len(ruleSet.Rules))
	copy(compiled, ruleSet.Rules)
	for i := range compiled {
		keywords := make([]string, len(compiled[i].Keywords))
		for j, kw := range compiled[i].Keywords {
			keywords[j] = Normalize(kw)
		}
		compiled[i].Keywords = keywords
	}

	return &Engine{
		rules:    compiled,
		fallback: fallback,
	}, nil
}

// LoadEmbedded loads the embedded rules.yaml file
func LoadEmbedded() (*Engine, error) {
	engine, err := NewEngine(embeddedRules)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded rules (possible binary corruption): %w", err)
	}
	return engine, nil
}

// LoadFromFile loads rules from a filesystem path
func LoadFromFile(path string) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	engine, err := NewEngine(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules from %q: %w", path, err)
	}
	return engine, nil
}

// Guess applies the rules to a transaction description and returns the
// category of the first rule with a matching keyword, or the fallback
// category when nothing matches. Deterministic and order-sensitive.
func (e *Engine) Guess(description string) string {
	normalized := Normalize(description)

	for _, rule := range e.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(normalized, keyword) {
				return rule.Category
			}
		}
	}

	return e.fallback
}

// Fallback returns the category assigned when no rule matches
func (e *Engine) Fallback() string {
	return e.fallback
}

// GetRules returns a copy of the rules for inspection/debugging, in
// evaluation order, with keywords in normalized form.
func (e *Engine) GetRules() []Rule {
	result := make([]Rule, len(e.rules))
	copy(result, e.rules)
	return result
}

// Normalize lower-cases, trims, and accent-folds a string so that keyword
// matching is insensitive to case and diacritics ("COMBUSTÍVEL" matches
// "combustivel").
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		// Fold failure leaves the input usable, just accent-sensitive.
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
