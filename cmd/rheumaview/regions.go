package main

import (
	"fmt"
	"strings"

	"github.com/rheumaview/rheumaview/internal/model"
	"github.com/rheumaview/rheumaview/internal/phrasing"
	"github.com/spf13/cobra"
)

// NewRegionsCmd creates the regions command.
func NewRegionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List the anatomical regions and suggested phrasing",
		Long: `Regions prints the anatomical region vocabulary accepted in requests,
the suggested phrases with their confidence levels, and the regions offered
the structured peripheral joint template.

Request findings can reference a phrase instead of typing the text:
  findings:
    - region: Pelvis / SI joints
      phrase: sacroiliitis
      level: moderate`,
		Args: cobra.NoArgs,
		RunE: runRegionsCmd,
	}
}

// runRegionsCmd executes the regions command.
func runRegionsCmd(cmd *cobra.Command, _ []string) error {
	lib, err := phrasing.Default()
	if err != nil {
		return fmt.Errorf("failed to load phrasing library: %w", err)
	}

	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Anatomical regions:")
	for _, r := range model.Regions {
		fmt.Fprintf(out, "  %s\n", r)
	}

	fmt.Fprintln(out, "\nSuggested phrasing:")
	for _, p := range lib.Phrases {
		fmt.Fprintf(out, "  %s (%s)\n", p.Key, p.Name)
		fmt.Fprintf(out, "    regions: %s\n", strings.Join(p.Regions, ", "))
		fmt.Fprintf(out, "    levels:  %s\n", strings.Join(p.LevelNames(), ", "))
	}

	fmt.Fprintln(out, "\nStructured peripheral joint template:")
	fmt.Fprintf(out, "  regions: %s\n", strings.Join(lib.Peripheral.Regions, ", "))

	return nil
}
