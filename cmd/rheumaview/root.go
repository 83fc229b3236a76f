package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for rheumaview.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rheumaview",
		Short: "Structured radiology report composer for rheumatology",
		Long: `rheumaview composes structured radiology reports for rheumatology imaging.

A report request names the patient, the current study with its anatomical
regions, per-region findings and any prior studies. rheumaview validates the
request, derives the patient's age, assembles the report sections in a fixed
order and exports the document as text, PDF, DOCX, Markdown or JSON.

rheumaview does not interpret images. Findings are always entered by the
reporting practitioner.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewComposeCmd())
	cmd.AddCommand(NewBatchCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewRegionsCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
