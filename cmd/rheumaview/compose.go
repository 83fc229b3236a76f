package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rheumaview/rheumaview/internal/model"
	"github.com/rheumaview/rheumaview/internal/pipeline"
	"github.com/spf13/cobra"
)

// formSource is the job source recorded for requests entered in the form.
const formSource = "form"

// errInteractiveWithFile is returned when --interactive is combined with a
// request file.
var errInteractiveWithFile = errors.New("--interactive does not take a request file")

// NewComposeCmd creates the compose command.
func NewComposeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compose [request-file]",
		Short: "Compose one structured report",
		Long: `Compose builds one structured radiology report and writes it to the output directory.

The request is read from a YAML or JSON file, or entered in a terminal form
with --interactive. Sections are assembled in a fixed order: header,
identity block, clinical context, findings per region, interval comparison,
EMR summary and footer.

Examples:
  # Compose the report described by a request file
  rheumaview compose request.yaml

  # Export as PDF on Letter paper
  rheumaview compose -f pdf --page-size Letter request.yaml

  # Fill in the request form in the terminal
  rheumaview compose --interactive

  # Write the report to standard output
  rheumaview compose -f text --stdout request.yaml

  # Apply a profile from the configuration file
  rheumaview compose -P university request.yaml

Request file example:
  patient:
    name: Jane Roe
    dob: "1990-06-15"
    sex: F
  study:
    date: "2025-06-14"
    images:
      - path: images/hand_pa.jpg
    regions: [Hand]
  findings:
    - region: Hand
      text: Marginal erosion at the 2nd MCP joint.
  options:
    format: docx`,
		Args: cobra.MaximumNArgs(1),
		RunE: runComposeCmd,
	}

	addReportFlags(cmd)

	cmd.Flags().BoolP("interactive", "i", false,
		"Enter the request in a terminal form")
	cmd.Flags().Bool("accessible", false,
		"Use line-by-line prompts instead of the full-screen form")
	cmd.Flags().Bool("stdout", false,
		"Write the report to standard output instead of the output directory")

	return cmd
}

// runComposeCmd executes the compose command.
func runComposeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	cfg.Interactive, err = cmd.Flags().GetBool("interactive")
	if err != nil {
		return err
	}
	if cfg.Interactive && len(args) > 0 {
		return errInteractiveWithFile
	}

	accessible, err := cmd.Flags().GetBool("accessible")
	if err != nil {
		return err
	}

	cfg.Stdout, err = cmd.Flags().GetBool("stdout")
	if err != nil {
		return err
	}

	if err := resolveConfig(cmd, cfg); err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg.Verbose)

	// Set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var job *model.Job
	if cfg.Interactive {
		req, err := collectRequest(ctx, cmd, accessible)
		if err != nil {
			return err
		}
		job = model.NewJob(formSource, req)
	} else {
		job = model.NewJob(cfg.Sources[0], nil)
	}

	var stream io.Writer
	if cfg.Stdout {
		stream = cmd.OutOrStdout()
	}

	logger.Info("composing report", "source", job.Source)

	if err := newPipeline(cfg, logger, stream).Execute(ctx, job); err != nil {
		return fmt.Errorf("failed to compose %s: %w", job.Source, err)
	}

	// Keep stdout clean for the artifact itself.
	out := cmd.OutOrStdout()
	if cfg.Stdout {
		out = cmd.ErrOrStderr()
	}
	printJob(out, cmd.ErrOrStderr(), job)

	return nil
}

// printJob reports where a completed job's files went and any warnings.
func printJob(out, errOut io.Writer, job *model.Job) {
	if job.OutputPath != "" && job.OutputPath != pipeline.StreamPath {
		fmt.Fprintf(out, "Created report: %s\n", job.OutputPath)
	}
	if job.ManifestPath != "" {
		fmt.Fprintf(out, "Created manifest: %s\n", job.ManifestPath)
	}
	if job.Report != nil {
		for _, w := range job.Report.Warnings {
			fmt.Fprintf(errOut, "Warning: %s\n", w)
		}
	}
}
