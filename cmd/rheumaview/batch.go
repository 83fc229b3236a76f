package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rheumaview/rheumaview/internal/config"
	"github.com/rheumaview/rheumaview/internal/model"
	"github.com/rheumaview/rheumaview/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewBatchCmd creates the batch command.
func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <request-file>...",
		Short: "Compose reports for many request files concurrently",
		Long: `Batch composes one report per request file, several at a time.

Every request is composed independently. A request that fails is reported
and the others carry on; the command exits non-zero when any request failed.

Examples:
  # Compose every request in a directory
  rheumaview batch requests/*.yaml

  # Compose eight requests at a time as PDF with manifests
  rheumaview batch -b 8 -f pdf -m -o reports requests/*.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: runBatchCmd,
	}

	addReportFlags(cmd)

	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of requests composed concurrently")

	return cmd
}

// runBatchCmd executes the batch command.
func runBatchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return err
	}

	if err := resolveConfig(cmd, cfg); err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Composing %d reports (concurrency: %d)...\n\n", len(cfg.Sources), cfg.BatchSize)
	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return newPipeline(cfg, logger, nil)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var (
		mu     sync.Mutex
		failed int
	)
	err = bp.ProcessBatchWithCallback(ctx, cfg.Sources, func(job *model.Job, index int) {
		mu.Lock()
		defer mu.Unlock()

		if job.Failed() {
			failed++
			fmt.Fprintf(out, "[%d/%d] Failed: %s: %s\n", index+1, len(cfg.Sources), job.Source, job.ErrorMessage)
			return
		}
		fmt.Fprintf(out, "[%d/%d] Composed: %s\n", index+1, len(cfg.Sources), job.Source)
		printJob(out, cmd.ErrOrStderr(), job)
	})
	if err != nil {
		return fmt.Errorf("batch cancelled: %w", err)
	}

	fmt.Fprintf(out, "\nComposed %d of %d reports in %s\n",
		len(cfg.Sources)-failed, len(cfg.Sources), time.Since(startTime).Round(time.Millisecond))

	if failed > 0 {
		return fmt.Errorf("%d of %d requests failed", failed, len(cfg.Sources))
	}
	return nil
}
