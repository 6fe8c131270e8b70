package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/backlinkscan/internal/fetch"
	"github.com/nao1215/backlinkscan/internal/model"
)

// DefaultConcurrency is the number of workers used when none is configured.
const DefaultConcurrency = 10

// ErrNoTasks is returned by Run when there is nothing to check.
var ErrNoTasks = errors.New("no backlinks to check")

// BatchProcessor runs one task per backlink on a bounded worker pool.
//
// At most Concurrency() tasks fetch and classify at any instant. The limit
// is the configured concurrency clamped by the backend's own limit, so the
// rendered backend never runs more than fetch.BrowserMaxConcurrency
// browsers regardless of the configured value.
type BatchProcessor struct {
	// checker verifies each backlink.
	checker *Checker

	// concurrency is the configured number of workers.
	concurrency int

	// backend is recorded in the run for reporting.
	backend model.Backend

	// logger is used for batch-level logging.
	logger *slog.Logger

	// reporter observes progress. Never nil.
	reporter ProgressReporter
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent tasks.
// Default is 10 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithProgressReporter sets the observer notified after each task.
func WithProgressReporter(r ProgressReporter) BatchOption {
	return func(b *BatchProcessor) {
		if r != nil {
			b.reporter = r
		}
	}
}

// WithBackend records which backend the checker uses.
func WithBackend(backend model.Backend) BatchOption {
	return func(b *BatchProcessor) {
		b.backend = backend
	}
}

// NewBatchProcessor creates a BatchProcessor around checker.
func NewBatchProcessor(checker *Checker, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		checker:     checker,
		concurrency: DefaultConcurrency,
		backend:     model.BackendDirect,
		reporter:    NopReporter{},
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// Concurrency returns the effective number of workers.
func (bp *BatchProcessor) Concurrency() int {
	return fetch.EffectiveWorkers(bp.checker.Fetcher(), bp.concurrency)
}

// Run checks every task and returns the results in submission order.
//
// Run does not stop early. Cancelling ctx makes in-flight and pending
// fetches fail fast, and those tasks are reported as ERROR.
func (bp *BatchProcessor) Run(ctx context.Context, tasks []model.BacklinkTask) (*model.Run, error) {
	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}

	run := &model.Run{
		ID:        uuid.NewString(),
		Backend:   bp.backend,
		Workers:   bp.Concurrency(),
		Targets:   bp.checker.targets,
		StartedAt: time.Now(),
	}
	logger := bp.logger.With("run_id", run.ID)

	logger.Info("starting run",
		"backlinks", len(tasks),
		"targets", len(run.Targets),
		"workers", run.Workers,
		"backend", run.Backend,
	)

	n := startNotifier(bp.reporter, len(tasks))
	agg := NewAggregator(len(tasks), n.enqueue)

	// Tasks never return an error, so a plain Group is enough: one failing
	// backlink must not cancel its siblings.
	var g errgroup.Group
	g.SetLimit(run.Workers)

	for _, task := range tasks {
		g.Go(func() error {
			agg.Record(bp.runTask(ctx, task, logger))
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // tasks always return nil

	run.Stats = agg.Stats()
	run.Results = agg.Results()
	run.FinishedAt = time.Now()

	n.finish(run.Stats)

	logger.Info("run complete",
		"total", run.Stats.Total,
		"good", run.Stats.Good,
		"bad", run.Stats.Bad,
		"blocked_or_error", run.Stats.BlockedOrError,
		"elapsed", run.Duration(),
	)

	return run, nil
}

// runTask checks one backlink and converts a panic into an ERROR result
// so that no task is ever lost.
func (bp *BatchProcessor) runTask(ctx context.Context, task model.BacklinkTask, logger *slog.Logger) (result *model.CheckResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("task panicked", "index", task.Index, "url", task.URL, "panic", r)
			result = model.NewCheckResult(task)
			result.MarkError(fmt.Errorf("internal error: %v", r))
		}
	}()

	return bp.checker.Check(ctx, task)
}
