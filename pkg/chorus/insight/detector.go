// Package insight turns annotated comments into ranked findings.
//
// Each comment gets at most one category, first match wins:
//
//  1. pain_point: a pain phrase is present and the text scores negative
//  2. feature_request: a request phrase is present
//  3. question: a question phrase is present
//  4. praise: the text scores positive with a score above 0.5
//
// Classified comments are grouped by (type, first matching global keyword,
// or "general"). Groups with fewer than two comments are dropped. Confidence
// is the group size over ten, capped at one.
package insight

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cognicore/chorus/pkg/chorus/comment"
	"github.com/cognicore/chorus/pkg/chorus/config"
	"github.com/cognicore/chorus/pkg/chorus/keywords"
	"github.com/cognicore/chorus/pkg/chorus/lexicon"
	"github.com/cognicore/chorus/pkg/chorus/sentiment"
	"github.com/cognicore/chorus/pkg/chorus/textnorm"
)

const (
	// MinSupport is the smallest group that becomes an insight.
	MinSupport = 2
	// MaxExamples is the number of comment ids stored per insight.
	MaxExamples = 5
	// MaxInsights caps the ranked output.
	MaxInsights = 20
	// SaturationCount is the group size at which confidence reaches 1.
	SaturationCount = 10
	// PraiseMinScore is the sentiment score a praise comment must exceed.
	PraiseMinScore = 0.5

	generalKeyword = "general"
)

// Detector classifies and groups comments.
type Detector struct {
	lex    *lexicon.Lexicon
	scorer *sentiment.Scorer
	labels Labels
}

// NewDetector creates a detector with the default labels. A nil lexicon
// means lexicon.Default().
func NewDetector(lex *lexicon.Lexicon) *Detector {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Detector{
		lex:    lex,
		scorer: sentiment.NewScorer(lex),
		labels: DefaultLabels(),
	}
}

// SetLabels replaces the display labels. Call before sharing the detector.
func (d *Detector) SetLabels(labels Labels) {
	d.labels = labels
}

// Classify returns the category of text, or false if none applies.
func (d *Detector) Classify(text string) (Type, bool) {
	lowered := strings.ToLower(text)
	score := d.scorer.Score(text)

	switch {
	case d.lex.HasPainPoint(lowered) && score.Label == sentiment.Negative:
		return PainPoint, true
	case d.lex.HasFeatureRequest(lowered):
		return FeatureRequest, true
	case d.lex.HasQuestion(lowered):
		return Question, true
	case score.Label == sentiment.Positive && score.Score > PraiseMinScore:
		return Praise, true
	default:
		return 0, false
	}
}

type groupKey struct {
	typ     Type
	keyword string
}

type group struct {
	key   groupKey
	count int
	ids   []string
}

// Detect classifies comments, groups them and returns at most MaxInsights
// insights by descending confidence. Confidence ties keep discovery order.
func (d *Detector) Detect(comments []comment.AnnotatedComment, kws []keywords.KeywordCount, cfg config.Analysis) []Insight {
	if !cfg.EnableInsightDetection {
		return []Insight{}
	}

	groups := make(map[groupKey]*group)
	var order []*group

	for _, c := range comments {
		typ, ok := d.Classify(c.Body)
		if !ok {
			continue
		}

		kw := matchKeyword(textnorm.Tokenize(c.Body), kws)
		if kw == "" {
			kw = generalKeyword
		}
		key := groupKey{typ: typ, keyword: kw}
		g, exists := groups[key]
		if !exists {
			g = &group{key: key}
			groups[key] = g
			order = append(order, g)
		}
		g.count++
		if len(g.ids) < MaxExamples {
			g.ids = append(g.ids, c.ID)
		}
	}

	out := make([]Insight, 0, len(order))
	for _, g := range order {
		if g.count < MinSupport {
			continue
		}
		out = append(out, d.synthesize(g))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})

	if len(out) > MaxInsights {
		out = out[:MaxInsights]
	}
	return out
}

func (d *Detector) synthesize(g *group) Insight {
	keyword := g.key.keyword
	if keyword == generalKeyword {
		keyword = ""
	}

	return Insight{
		ID:              fmt.Sprintf("%s-%s", g.key.typ, g.key.keyword),
		Type:            g.key.typ,
		Title:           d.labels.title(g.key.typ, keyword),
		Description:     d.labels.description(g.count),
		Confidence:      Confidence(g.count),
		RelatedComments: append([]string(nil), g.ids...),
		Keyword:         keyword,
		Count:           g.count,
	}
}

// Confidence maps a group size to [0, 1], saturating at SaturationCount.
func Confidence(count int) float64 {
	return math.Min(float64(count)/SaturationCount, 1.0)
}

// matchKeyword returns the first keyword, in list order, present among
// tokens, or "" when none is.
func matchKeyword(tokens []string, kws []keywords.KeywordCount) string {
	if len(tokens) == 0 || len(kws) == 0 {
		return ""
	}
	present := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		present[tok] = struct{}{}
	}
	for _, kw := range kws {
		if _, ok := present[kw.Word]; ok {
			return kw.Word
		}
	}
	return ""
}
