/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fulmenhq/codeutf8/pkg/charset"
	"github.com/fulmenhq/codeutf8/pkg/comments"
	"github.com/fulmenhq/codeutf8/pkg/config"
	"github.com/fulmenhq/codeutf8/pkg/exitcode"
	"github.com/fulmenhq/codeutf8/pkg/format/finalizer"
	"github.com/fulmenhq/codeutf8/pkg/logger"
	"github.com/spf13/cobra"
)

func newStripCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strip [file|-]...",
		Short: "Print source with comments removed",
		Long: `Decode each file (or stdin for "-"), remove comments and blank lines, and
write the result to stdout as UTF-8 without a byte order mark. Files are
never modified.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runStrip,
	}
	cmd.Flags().String("encoding", "", "Decode input with this encoding instead of detecting it")
	cmd.Flags().Bool("stats", false, "Log how many comments were removed")
	return cmd
}

func runStrip(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		return withExitCode(exitcode.ConfigError, err)
	}
	forced, _ := cmd.Flags().GetString("encoding")
	showStats, _ := cmd.Flags().GetBool("stats")
	detector := charset.NewDetector(cfg.FallbackEncoding, cfg.MinConfidence)
	out := cmd.OutOrStdout()

	for _, arg := range args {
		var (
			raw  []byte
			name = arg
		)
		if arg == "-" {
			name = "<stdin>"
			raw, err = io.ReadAll(cmd.InOrStdin())
		} else {
			raw, err = os.ReadFile(arg) // #nosec G304 -- user-specified input file
		}
		if err != nil {
			return withExitCode(exitcode.FileSystemError, fmt.Errorf("failed to read %s: %w", name, err))
		}

		label := forced
		if label == "" {
			label = detector.Detect(raw)
		}
		text, err := charset.Decode(raw, label)
		if err != nil {
			return withExitCode(exitcode.UnsupportedFormat, fmt.Errorf("%s: %w", name, err))
		}
		text, _ = finalizer.NormalizeLineEndings(text)
		stripped, stats := comments.StripWithStats(text)

		if _, err := fmt.Fprintln(out, stripped); err != nil {
			return err
		}
		if showStats {
			logger.Info(fmt.Sprintf("Stripped %s", name),
				logger.String("encoding", label),
				logger.Int("block_comments", stats.BlockComments),
				logger.Int("line_comments", stats.LineComments),
				logger.Int("removed_runes", stats.RemovedRunes))
		}
	}
	return nil
}
