package store

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/chorus/pkg/chorus"
	"github.com/cognicore/chorus/pkg/chorus/config"
	"github.com/cognicore/chorus/pkg/chorus/insight"
	"github.com/cognicore/chorus/pkg/chorus/sentiment"
)

// Store persists analysis runs and answers history queries over them.
// Listing methods return newest runs first; a limit <= 0 means no limit.
type Store interface {
	Close() error

	// Runs
	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)

	// History
	KeywordHistory(ctx context.Context, word string, limit int) ([]KeywordPoint, error)
	InsightsByType(ctx context.Context, t insight.Type, limit int) ([]StoredInsight, error)
}

// Run is one stored analysis call
type Run struct {
	ID        string
	Source    string // input file or thread the batch came from
	CreatedAt time.Time
	Config    config.Analysis
	Result    chorus.Result
}

// Summary returns the listing view of r.
func (r Run) Summary() RunSummary {
	return RunSummary{
		ID:        r.ID,
		Source:    r.Source,
		CreatedAt: r.CreatedAt,
		Comments:  len(r.Result.Comments),
		Insights:  len(r.Result.Insights),
		Sentiment: r.Result.Sentiment,
	}
}

// RunSummary is a run without its comment payload
type RunSummary struct {
	ID        string
	Source    string
	CreatedAt time.Time
	Comments  int
	Insights  int
	Sentiment chorus.SentimentSummary
}

// KeywordPoint is a keyword's count in one run
type KeywordPoint struct {
	RunID     string
	CreatedAt time.Time
	Count     int
	Sentiment sentiment.Label
}

// StoredInsight is an insight together with the run that produced it
type StoredInsight struct {
	RunID     string
	CreatedAt time.Time
	Insight   insight.Insight
}

// IDSource hands out lexically sortable run IDs. Safe for concurrent use.
type IDSource struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewIDSource creates a monotonic ULID source.
func NewIDSource() *IDSource {
	return &IDSource{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Next returns a new ID for a run created at t.
func (s *IDSource) Next(t time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

// NewRun stamps a run with a fresh ID and the current time.
func (s *IDSource) NewRun(source string, cfg config.Analysis, res chorus.Result) Run {
	now := time.Now().UTC()
	return Run{
		ID:        s.Next(now),
		Source:    source,
		CreatedAt: now,
		Config:    cfg,
		Result:    res,
	}
}
