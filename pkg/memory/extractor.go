// Package memory holds the durable-preference extraction used to build an
// athlete's conversation memory.
package memory

import (
	"regexp"
	"strings"
)

// MaxBullets bounds the conversation memory list.
const MaxBullets = 6

// Extractor pulls durable preferences out of free text.
type Extractor interface {
	Extract(text string) []string
}

// Rule maps a pattern to the bullet recorded when it matches.
type Rule struct {
	Pattern *regexp.Regexp
	Bullet  string
}

// KeywordExtractor matches lower-cased text against a fixed rule list.
type KeywordExtractor struct {
	rules []Rule
}

// DefaultRules are intentionally narrow; a miss is cheaper than a false bullet.
var DefaultRules = []Rule{
	{Pattern: regexp.MustCompile(`long ride saturday`), Bullet: "Prefers long ride Saturday"},
	{Pattern: regexp.MustCompile(`avoid plyo|achilles`), Bullet: "Avoid plyos (achilles)"},
}

func NewKeywordExtractor(rules ...Rule) *KeywordExtractor {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &KeywordExtractor{rules: rules}
}

func (e *KeywordExtractor) Extract(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, r := range e.rules {
		if r.Pattern.MatchString(lower) {
			out = append(out, r.Bullet)
		}
	}
	return out
}

// MergeBullets puts each new candidate in front of existing, skipping exact
// duplicates, and keeps the first MaxBullets entries.
func MergeBullets(existing, candidates []string) []string {
	out := append([]string(nil), existing...)
	for _, c := range candidates {
		if contains(out, c) {
			continue
		}
		out = append([]string{c}, out...)
	}
	if len(out) > MaxBullets {
		out = out[:MaxBullets]
	}
	if out == nil {
		out = []string{}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
