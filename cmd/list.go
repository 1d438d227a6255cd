/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/fulmenhq/codeutf8/internal/pipeline"
	"github.com/fulmenhq/codeutf8/pkg/ascii"
	"github.com/fulmenhq/codeutf8/pkg/exitcode"
	"github.com/fulmenhq/codeutf8/pkg/manifest"
	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [dir]",
		Short: "Show discovered files as an aligned table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, root, err := loadSettings(cmd, args)
			if err != nil {
				return err
			}
			report, err := pipeline.Inspect(cmd.Context(), root, cfg, nil)
			if err != nil {
				return withExitCode(exitcode.FileSystemError, fmt.Errorf("listing %s: %w", root, err))
			}
			summary, _ := cmd.Flags().GetBool("summary")
			return renderTable(cmd.OutOrStdout(), report.Manifest, summary)
		},
	}
	cmd.Flags().Bool("summary", false, "Append a per-encoding summary box")
	return cmd
}

// renderTable writes one row per file followed by a file count.
func renderTable(w io.Writer, m manifest.Manifest, summary bool) error {
	rows := make([][]string, 0, len(m.Files))
	for _, f := range m.Files {
		rows = append(rows, []string{f.Path, strconv.FormatInt(f.Size, 10), f.Encoding})
	}
	out := ascii.Table([]string{"FILE", "SIZE", "ENCODING"}, rows, []ascii.Align{ascii.AlignLeft, ascii.AlignRight})
	out += fmt.Sprintf("%d files\n", len(rows))

	if summary && len(m.Files) > 0 {
		out += ascii.Box(encodingSummary(m))
	}

	_, err := io.WriteString(w, out)
	return err
}

// encodingSummary counts files and bytes per encoding, most files first.
func encodingSummary(m manifest.Manifest) []string {
	type tally struct {
		label string
		files int
		bytes int64
	}
	byLabel := map[string]*tally{}
	for _, f := range m.Files {
		t, ok := byLabel[f.Encoding]
		if !ok {
			t = &tally{label: f.Encoding}
			byLabel[f.Encoding] = t
		}
		t.files++
		t.bytes += f.Size
	}

	tallies := make([]*tally, 0, len(byLabel))
	for _, t := range byLabel {
		tallies = append(tallies, t)
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].files != tallies[j].files {
			return tallies[i].files > tallies[j].files
		}
		return tallies[i].label < tallies[j].label
	})

	lines := make([]string, 0, len(tallies))
	for _, t := range tallies {
		lines = append(lines, fmt.Sprintf("%s: %d files, %d bytes", t.label, t.files, t.bytes))
	}
	return lines
}
