/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fulmenhq/codeutf8/pkg/exitcode"
	"github.com/fulmenhq/codeutf8/pkg/manifest"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <manifest|->",
		Short: "Check a manifest document against the manifest schema",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}
	cmd.Flags().Bool("print-schema", false, "Print the embedded JSON Schema instead of validating")
	cmd.Flags().String("format", outputText, "Output format (text|json)")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if printSchema, _ := cmd.Flags().GetBool("print-schema"); printSchema {
		_, err := out.Write(manifest.Schema())
		return err
	}

	var doc []byte
	if args[0] == "-" {
		doc, err = io.ReadAll(cmd.InOrStdin())
	} else {
		doc, err = os.ReadFile(args[0]) // #nosec G304 -- user-specified manifest
	}
	if err != nil {
		return withExitCode(exitcode.FileSystemError, fmt.Errorf("failed to read manifest: %w", err))
	}

	res, err := manifest.Validate(doc)
	if err != nil {
		return withExitCode(exitcode.ValidationError, err)
	}

	if format == outputJSON {
		data, _ := json.MarshalIndent(res, "", "  ")
		fmt.Fprintln(out, string(data))
	} else if res.Valid {
		fmt.Fprintln(out, "✅ manifest is valid")
	} else {
		fmt.Fprintf(out, "❌ manifest is invalid (%d errors)\n", len(res.Errors))
		for _, e := range res.Errors {
			fmt.Fprintf(out, "  - %s: %s\n", e.Path, e.Message)
		}
	}

	if !res.Valid {
		return withExitCode(exitcode.ValidationError, fmt.Errorf("manifest failed validation with %d errors", len(res.Errors)))
	}
	return nil
}
