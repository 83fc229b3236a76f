package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rheumaview/rheumaview/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of jobs a BatchProcessor runs at once
// unless configured otherwise.
const DefaultConcurrency = 4

// BatchProcessor runs one pipeline per request file with bounded
// concurrency. Jobs share nothing but the ordered results slice.
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline for each job.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent jobs.
	concurrency int

	logger *slog.Logger

	// results stores completed jobs in input order.
	results []*model.Job
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent jobs.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
		results:         make([]*model.Job, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch runs a job for every source. The returned slice has one job
// per source, in input order, whether it failed or not; a failed job
// carries its error. The error return is only set when the batch was
// cancelled. Jobs not started before cancellation are nil.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, sources []string) ([]*model.Job, error) {
	bp.logger.Info("starting batch processing",
		"total_requests", len(sources),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	bp.results = make([]*model.Job, len(sources))

	err := bp.run(ctx, sources, func(job *model.Job, i int) {
		bp.mu.Lock()
		bp.results[i] = job
		bp.mu.Unlock()
	})

	bp.logger.Info("batch processing complete",
		"total_requests", len(sources),
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}

// ProcessBatchWithCallback runs a job for every source and calls callback
// as each one completes. The callback runs on the job's goroutine and must
// be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	sources []string,
	callback func(job *model.Job, index int),
) error {
	bp.logger.Info("starting batch processing with callback",
		"total_requests", len(sources),
		"concurrency", bp.concurrency,
	)
	return bp.run(ctx, sources, callback)
}

func (bp *BatchProcessor) run(ctx context.Context, sources []string, done func(*model.Job, int)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, source := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			bp.logger.Debug("composing report",
				"source", source,
				"index", i+1,
				"total", len(sources),
			)

			job := model.NewJob(source, nil)
			if err := bp.pipelineFactory().Execute(ctx, job); err != nil {
				// Recorded on the job; other jobs keep going.
				bp.logger.Warn("job failed",
					"source", source,
					"error", err,
				)
			}
			done(job, i)
			return nil
		})
	}

	return g.Wait()
}
