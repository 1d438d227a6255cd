/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"github.com/fulmenhq/codeutf8/pkg/buildinfo"
	"github.com/fulmenhq/codeutf8/pkg/exitcode"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the codeutf8 version",
		RunE:  runVersion,
	}
	cmd.Flags().Bool("extended", false, "Show detailed build information")
	cmd.Flags().String("format", outputText, "Output format (text|json)")
	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	extended, _ := cmd.Flags().GetBool("extended")
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if format == outputJSON {
		info := map[string]string{
			"version":   buildinfo.BinaryVersion,
			"module":    buildinfo.ModuleVersion(),
			"goVersion": runtime.Version(),
			"platform":  runtime.GOOS,
			"arch":      runtime.GOARCH,
		}
		data, _ := json.MarshalIndent(info, "", "  ")
		fmt.Fprintln(out, string(data))
		return nil
	}

	if extended {
		fmt.Fprintln(out, buildinfo.Extended())
		return nil
	}
	fmt.Fprintf(out, "codeutf8 %s\n", buildinfo.BinaryVersion)
	return nil
}

// Report formats for commands whose stdout is not a manifest. --json only
// changes the log format.
const (
	outputText = "text"
	outputJSON = "json"
)

// outputFormat reads the command-local --format flag.
func outputFormat(cmd *cobra.Command) (string, error) {
	raw, _ := cmd.Flags().GetString("format")
	format := strings.ToLower(strings.TrimSpace(raw))
	switch format {
	case "":
		return outputText, nil
	case outputText, outputJSON:
		return format, nil
	default:
		return "", withExitCode(exitcode.ConfigError, fmt.Errorf("unsupported output format %q (expected text or json)", raw))
	}
}
