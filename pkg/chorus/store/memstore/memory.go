package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/chorus/pkg/chorus"
	"github.com/cognicore/chorus/pkg/chorus/comment"
	"github.com/cognicore/chorus/pkg/chorus/insight"
	"github.com/cognicore/chorus/pkg/chorus/internalerr"
	"github.com/cognicore/chorus/pkg/chorus/keywords"
	"github.com/cognicore/chorus/pkg/chorus/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu   sync.RWMutex
	runs map[string]store.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{runs: make(map[string]store.Run)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun stores a copy of r, replacing any run with the same ID.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("%w: run id is required", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.ID] = copyRun(r)
	return nil
}

// GetRun returns a copy of the stored run.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	if !ok {
		return store.Run{}, fmt.Errorf("run %q: %w", id, internalerr.ErrNotFound)
	}
	return copyRun(r), nil
}

// ListRuns returns summaries, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.RunSummary
	for _, r := range s.newest() {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, r.Summary())
	}
	return out, nil
}

// KeywordHistory returns the word's count per run, newest first.
func (s *Store) KeywordHistory(ctx context.Context, word string, limit int) ([]store.KeywordPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.KeywordPoint
	for _, r := range s.newest() {
		if limit > 0 && len(out) >= limit {
			break
		}
		for _, kw := range r.Result.Keywords {
			if kw.Word == word {
				out = append(out, store.KeywordPoint{
					RunID:     r.ID,
					CreatedAt: r.CreatedAt,
					Count:     kw.Count,
					Sentiment: kw.Sentiment,
				})
				break
			}
		}
	}
	return out, nil
}

// InsightsByType returns insights of type t, newest run first.
func (s *Store) InsightsByType(ctx context.Context, t insight.Type, limit int) ([]store.StoredInsight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.StoredInsight
	for _, r := range s.newest() {
		for _, in := range r.Result.Insights {
			if limit > 0 && len(out) >= limit {
				return out, nil
			}
			if in.Type == t {
				out = append(out, store.StoredInsight{
					RunID:     r.ID,
					CreatedAt: r.CreatedAt,
					Insight:   copyInsight(in),
				})
			}
		}
	}
	return out, nil
}

// newest orders runs like the SQLite store: created_at desc, then id desc.
// Callers hold the read lock.
func (s *Store) newest() []store.Run {
	runs := make([]store.Run, 0, len(s.runs))
	for _, r := range s.runs {
		runs = append(runs, r)
	}
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].CreatedAt.After(runs[j].CreatedAt)
		}
		return runs[i].ID > runs[j].ID
	})
	return runs
}

func copyRun(r store.Run) store.Run {
	r.Result = copyResult(r.Result)
	return r
}

func copyResult(res chorus.Result) chorus.Result {
	out := chorus.Result{Sentiment: res.Sentiment}
	if res.Keywords != nil {
		out.Keywords = append([]keywords.KeywordCount{}, res.Keywords...)
	}
	if res.Insights != nil {
		out.Insights = make([]insight.Insight, len(res.Insights))
		for i, in := range res.Insights {
			out.Insights[i] = copyInsight(in)
		}
	}
	if res.Comments != nil {
		out.Comments = make([]comment.AnnotatedComment, len(res.Comments))
		for i, c := range res.Comments {
			if c.Keywords != nil {
				c.Keywords = append([]string{}, c.Keywords...)
			}
			out.Comments[i] = c
		}
	}
	return out
}

func copyInsight(in insight.Insight) insight.Insight {
	if in.RelatedComments != nil {
		in.RelatedComments = append([]string{}, in.RelatedComments...)
	}
	return in
}
