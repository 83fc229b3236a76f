package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/rheumaview/rheumaview/internal/compose"
	"github.com/rheumaview/rheumaview/internal/config"
	"github.com/rheumaview/rheumaview/internal/imaging"
	"github.com/rheumaview/rheumaview/internal/intake"
	"github.com/rheumaview/rheumaview/internal/log"
	"github.com/rheumaview/rheumaview/internal/pipeline"
	"github.com/rheumaview/rheumaview/internal/report"
	"github.com/spf13/cobra"
)

// addReportFlags registers the flags shared by compose and batch. Flag names
// match the configuration file keys so that explicitly set flags win over
// the selected profile.
func addReportFlags(cmd *cobra.Command) {
	// Output flags
	cmd.Flags().StringP(config.KeyFormat, "f", "",
		"Export format: text, pdf, docx, markdown or json (default: as the request says, else docx)")
	cmd.Flags().StringP(config.KeyOutputDir, "o", config.DefaultOutputDir,
		"Directory that receives the reports (created if needed)")
	cmd.Flags().BoolP(config.KeyManifest, "m", false,
		"Write a JSON manifest next to each report")
	cmd.Flags().String(config.KeyFilenamePrefix, compose.DefaultFilenamePrefix,
		"Start of every report filename")

	// Layout flags
	cmd.Flags().String(config.KeyTitle, "", "Report title for requests that set none")
	cmd.Flags().String(config.KeyHeader, "", "Institution header for requests that set none")
	cmd.Flags().String(config.KeyFooter, "", "Footer for requests that set none")
	cmd.Flags().String(config.KeyPageSize, config.DefaultPageSize,
		"PDF and DOCX page size: A4 or Letter")
	cmd.Flags().Float64(config.KeyFontSize, report.DefaultFontSize,
		"PDF body font size in points")
	cmd.Flags().Bool(config.KeyIncludeClinicalContext, false,
		"Add the clinical context section to every report")

	// Intake flags
	cmd.Flags().Bool(config.KeyDetectRegions, false,
		"Propose regions from DICOM BodyPartExamined when a request selects none")
	cmd.Flags().Bool(config.KeyInferDate, false,
		"Read a missing study date from DICOM or EXIF metadata")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .rheumaview in current, XDG config or home directory)")
	cmd.Flags().StringP("profile", "P", "",
		"Configuration file profile to apply")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the shared cobra flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Format, err = cmd.Flags().GetString(config.KeyFormat)
	if err != nil {
		return nil, err
	}
	cfg.FormatOverride = cmd.Flags().Changed(config.KeyFormat)

	cfg.OutputDir, err = cmd.Flags().GetString(config.KeyOutputDir)
	if err != nil {
		return nil, err
	}

	cfg.Manifest, err = cmd.Flags().GetBool(config.KeyManifest)
	if err != nil {
		return nil, err
	}

	cfg.FilenamePrefix, err = cmd.Flags().GetString(config.KeyFilenamePrefix)
	if err != nil {
		return nil, err
	}

	cfg.Title, err = cmd.Flags().GetString(config.KeyTitle)
	if err != nil {
		return nil, err
	}

	cfg.Header, err = cmd.Flags().GetString(config.KeyHeader)
	if err != nil {
		return nil, err
	}

	cfg.Footer, err = cmd.Flags().GetString(config.KeyFooter)
	if err != nil {
		return nil, err
	}

	cfg.PageSize, err = cmd.Flags().GetString(config.KeyPageSize)
	if err != nil {
		return nil, err
	}

	cfg.FontSize, err = cmd.Flags().GetFloat64(config.KeyFontSize)
	if err != nil {
		return nil, err
	}

	cfg.IncludeClinicalContext, err = cmd.Flags().GetBool(config.KeyIncludeClinicalContext)
	if err != nil {
		return nil, err
	}

	cfg.DetectRegions, err = cmd.Flags().GetBool(config.KeyDetectRegions)
	if err != nil {
		return nil, err
	}

	cfg.InferDate, err = cmd.Flags().GetBool(config.KeyInferDate)
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.Profile, err = cmd.Flags().GetString("profile")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Sources = args

	return cfg, nil
}

// resolveConfig applies the configuration file and validates the result.
func resolveConfig(cmd *cobra.Command, cfg *config.Config) error {
	if err := cfg.Resolve(cmd.Flags().Changed); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	// A format coming from the file is a default, not an override.
	cfg.FormatOverride = cmd.Flags().Changed(config.KeyFormat)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	return nil
}

// setupLogger creates the PHI-masking logger on the command's stderr.
func setupLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	return log.NewSecureLogger(cmd.ErrOrStderr(), verbose)
}

// newPipeline creates the pipeline for one request. A non-nil stream
// receives the artifact instead of the output directory.
func newPipeline(cfg *config.Config, logger *slog.Logger, stream io.Writer) *pipeline.Pipeline {
	intakeOpts := []intake.Option{
		intake.WithLogger(logger),
		intake.WithDateInference(cfg.InferDate),
	}
	if cfg.DetectRegions {
		intakeOpts = append(intakeOpts, intake.WithDetector(imaging.NewDICOMDetector(logger)))
	}

	builder := compose.New(
		compose.WithLogger(logger),
		compose.WithFilenamePrefix(cfg.FilenamePrefix),
		compose.WithWriterOptions(cfg.WriterOptions()...),
	)

	composeOpts := []pipeline.ComposeStepOption{
		pipeline.WithDefaults(cfg.ReportDefaults()),
		pipeline.WithClinicalContext(cfg.IncludeClinicalContext),
	}
	if cfg.FormatOverride {
		if format, err := cfg.ExportFormat(); err == nil {
			composeOpts = append(composeOpts, pipeline.WithFormatOverride(format))
		}
	}

	opts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineIntake(intakeOpts...),
		pipeline.WithPipelineBuilder(builder),
		pipeline.WithPipelineCompose(composeOpts...),
		pipeline.WithPipelineOutputDir(cfg.OutputDir),
		pipeline.WithPipelineManifest(cfg.Manifest, generator()),
	}
	if stream != nil {
		opts = append(opts, pipeline.WithPipelineStream(stream))
	}

	return pipeline.DefaultPipeline([]pipeline.Option{pipeline.WithLogger(logger)}, opts...)
}
