package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/nao1215/backlinkscan/internal/fetch"
	"github.com/nao1215/backlinkscan/internal/model"
	"github.com/nao1215/backlinkscan/internal/verify"
)

// Checker verifies a single backlink: fetch, classify, match.
// A Checker holds no per-task state and is safe for concurrent use.
type Checker struct {
	// fetcher is the page source.
	fetcher fetch.Fetcher

	// targets are searched for on every page.
	targets model.TargetSet

	// limiter throttles fetches across all workers. Nil means unlimited.
	limiter *rate.Limiter

	// logger receives per-task debug logs.
	logger *slog.Logger
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithRateLimit limits fetches to rps requests per second across all
// workers. Zero or negative disables the limit.
func WithRateLimit(rps float64) CheckerOption {
	return func(c *Checker) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithLogger sets the logger used for per-task logs.
func WithLogger(logger *slog.Logger) CheckerOption {
	return func(c *Checker) {
		c.logger = logger
	}
}

// NewChecker creates a Checker for the given backend and targets.
func NewChecker(fetcher fetch.Fetcher, targets model.TargetSet, opts ...CheckerOption) *Checker {
	c := &Checker{
		fetcher: fetcher,
		targets: targets,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Fetcher returns the backend used by the Checker.
func (c *Checker) Fetcher() fetch.Fetcher {
	return c.fetcher
}

// Check verifies one backlink. It never fails: every problem is recorded
// in the returned result as an ERROR or BLOCKED status.
func (c *Checker) Check(ctx context.Context, task model.BacklinkTask) *model.CheckResult {
	start := time.Now()
	result := model.NewCheckResult(task)
	defer func() {
		result.Elapsed = time.Since(start)
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			result.MarkError(err)
			return result
		}
	}

	resp, err := c.fetcher.Fetch(ctx, task.URL)
	if err == nil && resp != nil {
		result.HTTPStatus = resp.StatusCode
	}

	verdict := verify.Classify(resp, err)
	switch verdict.Status {
	case model.StatusError:
		if err == nil {
			err = errors.New(verdict.Reason)
		}
		result.MarkError(err)
	case model.StatusBlocked:
		result.MarkBlocked(verdict.Reason)
	default:
		if matchErr := verify.Apply(result, resp.Body, c.targets); matchErr != nil {
			result.MarkError(matchErr)
		}
	}

	c.logger.Debug("backlink checked",
		"index", task.Index,
		"url", task.URL,
		"status", result.Status,
		"found", len(result.FoundTargets),
	)

	return result
}
