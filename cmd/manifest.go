/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/fulmenhq/codeutf8/internal/pipeline"
	"github.com/fulmenhq/codeutf8/pkg/exitcode"
	"github.com/spf13/cobra"
)

func newManifestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "manifest [dir]",
		Short: "Print the file manifest without converting anything",
		Long: `Discover and inspect source files and print the manifest, exactly as the
default command does before it starts converting. No file is modified.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, root, err := loadSettings(cmd, args)
			if err != nil {
				return err
			}
			if _, err := pipeline.BuildManifest(cmd.Context(), root, cfg, pipeline.Deps{Stdout: cmd.OutOrStdout()}); err != nil {
				return withExitCode(exitcode.FileSystemError, fmt.Errorf("building manifest for %s: %w", root, err))
			}
			return nil
		},
	}
}
