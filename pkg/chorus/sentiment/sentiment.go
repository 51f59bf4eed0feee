// Package sentiment scores text against the positive and negative word
// tables of a lexicon.
//
// The score is a bag-of-words ratio (P-N)/(P+N) over normalized tokens,
// where P and N count positive and negative token occurrences. Scores above
// 0.2 are positive, below -0.2 negative, anything else neutral.
//
// Limitations:
//   - No negation handling ("not good" scores as positive).
//   - No intensifiers; "very" is a stop word and carries no weight.
//
// A Scorer is safe for concurrent use.
package sentiment

import (
	"encoding/json"
	"fmt"

	"github.com/cognicore/chorus/pkg/chorus/lexicon"
	"github.com/cognicore/chorus/pkg/chorus/textnorm"
)

// Classification cutoffs applied to the ratio score.
const (
	PositiveCutoff = 0.2
	NegativeCutoff = -0.2
)

// Label is a sentiment polarity.
type Label int

const (
	Neutral Label = iota
	Positive
	Negative
)

var labelNames = map[Label]string{
	Neutral:  "neutral",
	Positive: "positive",
	Negative: "negative",
}

var labelFromName = map[string]Label{
	"neutral":  Neutral,
	"positive": Positive,
	"negative": Negative,
}

// String returns the lower-case name of the label.
func (l Label) String() string {
	if name, ok := labelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Label(%d)", int(l))
}

// ParseLabel converts a label name back to a Label.
func ParseLabel(name string) (Label, error) {
	l, ok := labelFromName[name]
	if !ok {
		return Neutral, fmt.Errorf("sentiment: unknown label: %q", name)
	}
	return l, nil
}

// MarshalJSON encodes the label as a JSON string.
func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a JSON string into a Label.
func (l *Label) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseLabel(s)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Result holds the outcome of scoring one text.
type Result struct {
	Label    Label   `json:"sentiment"`
	Score    float64 `json:"score"`    // in [-1, 1]
	Positive int     `json:"positive"` // positive token occurrences
	Negative int     `json:"negative"` // negative token occurrences
}

// Scorer scores text with a lexicon.
type Scorer struct {
	lex *lexicon.Lexicon
}

// NewScorer creates a scorer. A nil lexicon means lexicon.Default().
func NewScorer(lex *lexicon.Lexicon) *Scorer {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Scorer{lex: lex}
}

// Score tokenizes text and scores the tokens.
func (s *Scorer) Score(text string) Result {
	return s.ScoreTokens(textnorm.Tokenize(text))
}

// ScoreTokens scores already-normalized tokens.
func (s *Scorer) ScoreTokens(tokens []string) Result {
	var r Result
	for _, tok := range tokens {
		switch {
		case s.lex.IsPositive(tok):
			r.Positive++
		case s.lex.IsNegative(tok):
			r.Negative++
		}
	}

	total := r.Positive + r.Negative
	if total == 0 {
		return r
	}

	r.Score = float64(r.Positive-r.Negative) / float64(total)
	r.Label = Classify(r.Score)
	return r
}

// WordLabel tags a single word by direct table membership.
func (s *Scorer) WordLabel(word string) Label {
	switch {
	case s.lex.IsPositive(word):
		return Positive
	case s.lex.IsNegative(word):
		return Negative
	default:
		return Neutral
	}
}

// Classify maps a ratio score to a label using the fixed cutoffs.
func Classify(score float64) Label {
	switch {
	case score > PositiveCutoff:
		return Positive
	case score < NegativeCutoff:
		return Negative
	default:
		return Neutral
	}
}
