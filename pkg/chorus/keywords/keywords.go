// Package keywords counts term frequency across a comment batch.
//
// Each comment body is tokenized and stop-word filtered; every surviving
// token occurrence increments a batch-wide count. Terms are tagged with a
// sentiment label by direct lexicon membership, not by the context they
// appeared in.
//
// Ranking is by descending count with ties broken by ascending word, so the
// output is fully deterministic.
package keywords

import (
	"sort"

	"github.com/cognicore/chorus/pkg/chorus/comment"
	"github.com/cognicore/chorus/pkg/chorus/config"
	"github.com/cognicore/chorus/pkg/chorus/lexicon"
	"github.com/cognicore/chorus/pkg/chorus/sentiment"
	"github.com/cognicore/chorus/pkg/chorus/textnorm"
)

// PerCommentLimit is the number of keywords kept on each annotated comment.
const PerCommentLimit = 5

// KeywordCount is one ranked term.
type KeywordCount struct {
	Word      string          `json:"word"`
	Count     int             `json:"count"`
	Sentiment sentiment.Label `json:"sentiment"`
}

// Extractor ranks batch vocabulary.
type Extractor struct {
	lex    *lexicon.Lexicon
	scorer *sentiment.Scorer
}

// NewExtractor creates an extractor. A nil lexicon means lexicon.Default().
func NewExtractor(lex *lexicon.Lexicon) *Extractor {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Extractor{lex: lex, scorer: sentiment.NewScorer(lex)}
}

// Terms returns the filtered tokens of one text, in order, duplicates kept.
func (e *Extractor) Terms(text string, minLength int) []string {
	return textnorm.RemoveStopWords(textnorm.Tokenize(text), e.lex, minLength)
}

// CommentKeywords returns the first limit distinct filtered tokens of text.
func (e *Extractor) CommentKeywords(text string, minLength, limit int) []string {
	out := make([]string, 0, limit)
	seen := make(map[string]struct{}, limit)
	for _, tok := range e.Terms(text, minLength) {
		if len(out) >= limit {
			break
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// Extract counts filtered terms across comments and returns at most
// cfg.TopKeywordsCount entries, sorted by descending count. cfg is not
// validated here; a negative TopKeywordsCount applies no cap.
func (e *Extractor) Extract(comments []comment.Comment, cfg config.Analysis) []KeywordCount {
	freq := make(map[string]int)
	for _, c := range comments {
		for _, tok := range e.Terms(c.Body, cfg.MinKeywordLength) {
			freq[tok]++
		}
	}

	out := make([]KeywordCount, 0, len(freq))
	for word, count := range freq {
		out = append(out, KeywordCount{
			Word:      word,
			Count:     count,
			Sentiment: e.scorer.WordLabel(word),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Word < out[j].Word
		}
		return out[i].Count > out[j].Count
	})

	if cfg.TopKeywordsCount >= 0 && len(out) > cfg.TopKeywordsCount {
		out = out[:cfg.TopKeywordsCount]
	}
	return out
}
