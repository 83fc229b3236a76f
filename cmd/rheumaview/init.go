package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rheumaview/rheumaview/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/rheumaview.yaml
var configTemplate embed.FS

// configFileName is the default configuration file name.
const configFileName = config.DefaultConfigFile

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new rheumaview configuration file",
		Long: `Initialize creates a new .rheumaview configuration file in the current directory.

The generated file includes:
- Default export format, page layout and output directory
- Commented examples of per-institution profiles
- Documentation for all available options

Examples:
  # Create .rheumaview in current directory
  rheumaview init

  # Create config file at a specific path
  rheumaview init -o ~/.config/rheumaview/config.yaml

  # Force overwrite existing file
  rheumaview init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/rheumaview.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to configure settings such as:")
	fmt.Fprintln(out, "  - Default export format and page size")
	fmt.Fprintln(out, "  - Institution headers and footers per profile")
	fmt.Fprintln(out, "  - Manifests, region detection and study date inference")

	return nil
}
