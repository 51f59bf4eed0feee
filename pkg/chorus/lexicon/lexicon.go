package lexicon

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Lexicon holds the fixed word and phrase tables used for scoring and
// classification:
// - Stop words: excluded from keyword counting
// - Positive/negative words: single tokens, matched after normalization
// - Indicator phrases: substrings matched against the raw lower-cased text,
//   so multi-word phrases like "would be nice" work
//
// A Lexicon is immutable once built. There is no mutation API, so a single
// value can be shared by any number of goroutines without locking.
type Lexicon struct {
	stops    map[string]struct{}
	positive map[string]struct{}
	negative map[string]struct{}

	painPoints      []string
	featureRequests []string
	questions       []string
}

// Tables lists lexicon entries by table. It is the input to New and the
// shape of the YAML extension file.
type Tables struct {
	StopWords             []string `yaml:"stop_words"`
	PositiveWords         []string `yaml:"positive_words"`
	NegativeWords         []string `yaml:"negative_words"`
	PainPointPhrases      []string `yaml:"pain_point_phrases"`
	FeatureRequestPhrases []string `yaml:"feature_request_phrases"`
	QuestionPhrases       []string `yaml:"question_phrases"`
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
)

// Default returns the built-in English lexicon. It is built once per process.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		defaultLex = New(DefaultTables())
	})
	return defaultLex
}

// DefaultTables returns a fresh copy of the built-in table contents.
func DefaultTables() Tables {
	return Tables{
		StopWords:             append([]string(nil), stopWords...),
		PositiveWords:         append([]string(nil), positiveWords...),
		NegativeWords:         append([]string(nil), negativeWords...),
		PainPointPhrases:      append([]string(nil), painPointPhrases...),
		FeatureRequestPhrases: append([]string(nil), featureRequestPhrases...),
		QuestionPhrases:       append([]string(nil), questionPhrases...),
	}
}

// New builds a lexicon from the given tables. Entries are lower-cased and
// trimmed; empty entries and duplicates are dropped.
func New(t Tables) *Lexicon {
	return &Lexicon{
		stops:           toSet(t.StopWords),
		positive:        toSet(t.PositiveWords),
		negative:        toSet(t.NegativeWords),
		painPoints:      cleanPhrases(t.PainPointPhrases),
		featureRequests: cleanPhrases(t.FeatureRequestPhrases),
		questions:       cleanPhrases(t.QuestionPhrases),
	}
}

// LoadFromYAML builds the default lexicon extended with the entries in path.
//
// Expected format (every key optional):
//
//	stop_words: [lol, tbh]
//	positive_words: [snappy]
//	negative_words: [laggy]
//	pain_point_phrases: ["keeps logging me out"]
//	feature_request_phrases: ["dark mode"]
//	question_phrases: ["any idea"]
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var ext Tables
	if err := yaml.Unmarshal(data, &ext); err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
	}

	t := DefaultTables()
	t.StopWords = append(t.StopWords, ext.StopWords...)
	t.PositiveWords = append(t.PositiveWords, ext.PositiveWords...)
	t.NegativeWords = append(t.NegativeWords, ext.NegativeWords...)
	t.PainPointPhrases = append(t.PainPointPhrases, ext.PainPointPhrases...)
	t.FeatureRequestPhrases = append(t.FeatureRequestPhrases, ext.FeatureRequestPhrases...)
	t.QuestionPhrases = append(t.QuestionPhrases, ext.QuestionPhrases...)

	return New(t), nil
}

// IsStop reports whether token is a stop word.
func (l *Lexicon) IsStop(token string) bool {
	_, ok := l.stops[token]
	return ok
}

// IsPositive reports whether token is in the positive table.
func (l *Lexicon) IsPositive(token string) bool {
	_, ok := l.positive[token]
	return ok
}

// IsNegative reports whether token is in the negative table.
func (l *Lexicon) IsNegative(token string) bool {
	_, ok := l.negative[token]
	return ok
}

// HasPainPoint reports whether lowered contains a pain point phrase.
// lowered must already be lower-cased.
func (l *Lexicon) HasPainPoint(lowered string) bool {
	return containsAny(lowered, l.painPoints)
}

// HasFeatureRequest reports whether lowered contains a feature request phrase.
func (l *Lexicon) HasFeatureRequest(lowered string) bool {
	return containsAny(lowered, l.featureRequests)
}

// HasQuestion reports whether lowered contains a question phrase.
func (l *Lexicon) HasQuestion(lowered string) bool {
	return containsAny(lowered, l.questions)
}

// Tables returns a copy of the lexicon contents. Word tables are sorted;
// phrase tables keep their insertion order.
func (l *Lexicon) Tables() Tables {
	return Tables{
		StopWords:             sortedKeys(l.stops),
		PositiveWords:         sortedKeys(l.positive),
		NegativeWords:         sortedKeys(l.negative),
		PainPointPhrases:      append([]string(nil), l.painPoints...),
		FeatureRequestPhrases: append([]string(nil), l.featureRequests...),
		QuestionPhrases:       append([]string(nil), l.questions...),
	}
}

// Stats returns the size of each table.
func (l *Lexicon) Stats() Stats {
	return Stats{
		StopWords:             len(l.stops),
		PositiveWords:         len(l.positive),
		NegativeWords:         len(l.negative),
		PainPointPhrases:      len(l.painPoints),
		FeatureRequestPhrases: len(l.featureRequests),
		QuestionPhrases:       len(l.questions),
	}
}

// Stats holds the number of entries per table.
type Stats struct {
	StopWords             int
	PositiveWords         int
	NegativeWords         int
	PainPointPhrases      int
	FeatureRequestPhrases int
	QuestionPhrases       int
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

func cleanPhrases(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	seen := make(map[string]bool, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
