// Package worker runs analysis off the caller's goroutine with a
// wall-clock timeout and bounded retries.
//
// Each attempt runs the whole pipeline on a fresh goroutine. A caller that
// cancels its context gets context.Canceled back immediately and the
// attempt's eventual output is discarded. Timeouts and recovered panics are
// reported as internalerr.ErrExecution and retried; config and input errors
// are returned at once.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cognicore/chorus/pkg/chorus"
	"github.com/cognicore/chorus/pkg/chorus/comment"
	"github.com/cognicore/chorus/pkg/chorus/config"
	"github.com/cognicore/chorus/pkg/chorus/internalerr"
)

const (
	// DefaultTimeout bounds one attempt.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRetries is the number of retries after the first attempt.
	DefaultMaxRetries = 2
)

// Analyzer is the pipeline a Runner drives. *chorus.Engine implements it.
type Analyzer interface {
	AnalyzeContext(ctx context.Context, comments []comment.Comment, cfg config.Analysis, events chan<- chorus.Phase) (chorus.Result, error)
}

// Runner schedules analysis calls.
type Runner struct {
	Analyzer   Analyzer
	Timeout    time.Duration // per attempt
	MaxRetries int
	Logger     *slog.Logger

	// Events receives phase completions. Phases repeat when an attempt is
	// retried. Sends happen only while Run is executing, so the caller may
	// close Events once Run returns. Optional.
	Events chan<- chorus.Phase
}

// NewRunner creates a runner with the default timeout and retry budget.
func NewRunner(a Analyzer) *Runner {
	return &Runner{
		Analyzer:   a,
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
	}
}

type outcome struct {
	res chorus.Result
	err error
}

// Run analyzes comments, retrying execution failures. It never returns a
// partial result.
func (r *Runner) Run(ctx context.Context, comments []comment.Comment, cfg config.Analysis) (chorus.Result, error) {
	if err := cfg.Validate(); err != nil {
		return chorus.Result{}, err
	}

	log := r.logger()
	var lastErr error
	for attempt := 1; attempt <= r.MaxRetries+1; attempt++ {
		if err := ctx.Err(); err != nil {
			return chorus.Result{}, err
		}

		start := time.Now()
		res, err := r.attempt(ctx, comments, cfg)
		if err == nil {
			log.DebugContext(ctx, "analysis complete",
				"attempt", attempt,
				"comments", len(res.Comments),
				"insights", len(res.Insights),
				"elapsed", time.Since(start))
			return res, nil
		}

		lastErr = err
		if !internalerr.Retryable(err) || ctx.Err() != nil {
			return chorus.Result{}, err
		}
		log.WarnContext(ctx, "analysis attempt failed", "attempt", attempt, "max_attempts", r.MaxRetries+1, "err", err)
	}

	return chorus.Result{}, fmt.Errorf("analysis failed after %d attempts: %w", r.MaxRetries+1, lastErr)
}

// Go starts Run on a new goroutine and returns a channel that delivers its
// single outcome.
func (r *Runner) Go(ctx context.Context, comments []comment.Comment, cfg config.Analysis) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		res, err := r.Run(ctx, comments, cfg)
		ch <- Outcome{Result: res, Err: err}
	}()
	return ch
}

// Outcome is the result of an asynchronous Run.
type Outcome struct {
	Result chorus.Result
	Err    error
}

func (r *Runner) attempt(ctx context.Context, comments []comment.Comment, cfg config.Analysis) (chorus.Result, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// The analyzer reports into a per-attempt channel. Only this goroutine
	// forwards to r.Events, so nothing is sent there once Run has returned.
	var phases chan chorus.Phase
	if r.Events != nil {
		phases = make(chan chorus.Phase)
	}

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- outcome{err: fmt.Errorf("%w: analyzer panic: %v", internalerr.ErrExecution, p)}
			}
		}()
		res, err := r.Analyzer.AnalyzeContext(actx, comments, cfg, phases)
		done <- outcome{res: res, err: err}
	}()

	for {
		select {
		case p := <-phases:
			select {
			case r.Events <- p:
			case <-actx.Done():
				return chorus.Result{}, r.classify(ctx, actx.Err(), timeout)
			}
		case out := <-done:
			if out.err != nil {
				return chorus.Result{}, r.classify(ctx, out.err, timeout)
			}
			return out.res, nil
		case <-actx.Done():
			return chorus.Result{}, r.classify(ctx, actx.Err(), timeout)
		}
	}
}

// classify separates caller cancellation from attempt timeouts.
func (r *Runner) classify(parent context.Context, err error, timeout time.Duration) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: attempt timed out after %s: %w", internalerr.ErrExecution, timeout, err)
	}
	return err
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
