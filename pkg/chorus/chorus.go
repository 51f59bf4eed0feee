// Package chorus analyzes batches of discussion comments: keyword frequency,
// per-comment sentiment and grouped insights.
package chorus

import (
	"context"
	"fmt"
	"math"

	"github.com/cognicore/chorus/pkg/chorus/comment"
	"github.com/cognicore/chorus/pkg/chorus/config"
	"github.com/cognicore/chorus/pkg/chorus/insight"
	"github.com/cognicore/chorus/pkg/chorus/keywords"
	"github.com/cognicore/chorus/pkg/chorus/lexicon"
	"github.com/cognicore/chorus/pkg/chorus/sentiment"
)

// Engine is the comment analysis facade. It holds only read-only
// components, so one Engine can serve concurrent Analyze calls.
type Engine struct {
	scorer    *sentiment.Scorer
	extractor *keywords.Extractor
	detector  *insight.Detector
}

// Options configures an Engine
type Options struct {
	Lexicon *lexicon.Lexicon // nil means lexicon.Default()
	Labels  *insight.Labels  // nil means insight.DefaultLabels()
}

// New creates an Engine with the given options
func New(opts Options) *Engine {
	lex := opts.Lexicon
	if lex == nil {
		lex = lexicon.Default()
	}

	detector := insight.NewDetector(lex)
	if opts.Labels != nil {
		detector.SetLabels(*opts.Labels)
	}

	return &Engine{
		scorer:    sentiment.NewScorer(lex),
		extractor: keywords.NewExtractor(lex),
		detector:  detector,
	}
}

// SentimentSummary counts comment labels over a batch. Percentages are
// rounded independently and need not sum to 100.
type SentimentSummary struct {
	Positive        int `json:"positive"`
	Negative        int `json:"negative"`
	Neutral         int `json:"neutral"`
	PositivePercent int `json:"positive_percent"`
	NegativePercent int `json:"negative_percent"`
	NeutralPercent  int `json:"neutral_percent"`
}

// Total returns the number of comments counted.
func (s SentimentSummary) Total() int {
	return s.Positive + s.Negative + s.Neutral
}

// Result is the output of one analysis call.
type Result struct {
	Keywords  []keywords.KeywordCount    `json:"keywords"`
	Sentiment SentimentSummary           `json:"sentiment"`
	Insights  []insight.Insight          `json:"insights"`
	Comments  []comment.AnnotatedComment `json:"comments"`
}

func emptyResult() Result {
	return Result{
		Keywords: []keywords.KeywordCount{},
		Insights: []insight.Insight{},
		Comments: []comment.AnnotatedComment{},
	}
}

// Phase identifies a completed pipeline stage.
type Phase int

const (
	PhaseNormalize Phase = iota + 1
	PhaseKeywords
	PhaseSentiment
	PhaseInsights
)

func (p Phase) String() string {
	switch p {
	case PhaseNormalize:
		return "normalize"
	case PhaseKeywords:
		return "keywords"
	case PhaseSentiment:
		return "sentiment"
	case PhaseInsights:
		return "insights"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Analyze runs the full pipeline synchronously.
func (e *Engine) Analyze(comments []comment.Comment, cfg config.Analysis) (Result, error) {
	return e.AnalyzeContext(context.Background(), comments, cfg, nil)
}

// AnalyzeContext runs the pipeline, checking ctx between stages and sending
// each completed Phase on events. A nil events channel disables reporting.
// On cancellation no partial result is returned.
func (e *Engine) AnalyzeContext(ctx context.Context, comments []comment.Comment, cfg config.Analysis, events chan<- Phase) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if len(comments) == 0 {
		return emptyResult(), nil
	}

	if len(comments) > cfg.MaxComments {
		comments = comments[:cfg.MaxComments]
	}
	for _, c := range comments {
		if err := c.Validate(); err != nil {
			return Result{}, err
		}
	}

	// 1. Per-comment sentiment and keywords
	annotated := make([]comment.AnnotatedComment, len(comments))
	for i, c := range comments {
		score := e.scorer.Score(c.Body)
		annotated[i] = comment.AnnotatedComment{
			Comment:        c,
			Sentiment:      score.Label,
			SentimentScore: score.Score,
			Keywords:       e.extractor.CommentKeywords(c.Body, cfg.MinKeywordLength, keywords.PerCommentLimit),
		}
	}
	if err := report(ctx, events, PhaseNormalize); err != nil {
		return Result{}, err
	}

	// 2. Batch keywords
	kws := e.extractor.Extract(comments, cfg)
	if err := report(ctx, events, PhaseKeywords); err != nil {
		return Result{}, err
	}

	// 3. Sentiment split
	summary := Summarize(annotated)
	if err := report(ctx, events, PhaseSentiment); err != nil {
		return Result{}, err
	}

	// 4. Insights
	insights := e.detector.Detect(annotated, kws, cfg)
	if err := report(ctx, events, PhaseInsights); err != nil {
		return Result{}, err
	}

	return Result{
		Keywords:  kws,
		Sentiment: summary,
		Insights:  insights,
		Comments:  annotated,
	}, nil
}

// Summarize counts sentiment labels and derives rounded percentages.
func Summarize(comments []comment.AnnotatedComment) SentimentSummary {
	var s SentimentSummary
	for _, c := range comments {
		switch c.Sentiment {
		case sentiment.Positive:
			s.Positive++
		case sentiment.Negative:
			s.Negative++
		case sentiment.Neutral:
			s.Neutral++
		}
	}

	total := s.Total()
	if total == 0 {
		return s
	}
	s.PositivePercent = percent(s.Positive, total)
	s.NegativePercent = percent(s.Negative, total)
	s.NeutralPercent = percent(s.Neutral, total)
	return s
}

func percent(n, total int) int {
	return int(math.Round(100 * float64(n) / float64(total)))
}

func report(ctx context.Context, events chan<- Phase, p Phase) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if events == nil {
		return nil
	}
	select {
	case events <- p:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var defaultEngine = New(Options{})

// Analyze runs the pipeline with the default lexicon and labels.
func Analyze(comments []comment.Comment, cfg config.Analysis) (Result, error) {
	return defaultEngine.Analyze(comments, cfg)
}
