/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fulmenhq/codeutf8/internal/pipeline"
	"github.com/fulmenhq/codeutf8/pkg/buildinfo"
	"github.com/fulmenhq/codeutf8/pkg/config"
	"github.com/fulmenhq/codeutf8/pkg/exitcode"
	"github.com/fulmenhq/codeutf8/pkg/logger"
	"github.com/spf13/cobra"
)

// exitError carries a process exit code out of a RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// exitCodeFor maps a command error to a process exit code.
func exitCodeFor(err error) int {
	if err == nil {
		return exitcode.Success
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitcode.GeneralError
}

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codeutf8 [dir]",
		Short: "Strip C/C++ comments and convert sources to UTF-8 with BOM",
		Long: `codeutf8 finds C and C++ sources under a directory, detects each file's
text encoding, prints a manifest of what it found, then rewrites every file
in place as comment-free UTF-8 with a byte order mark.

With no directory argument the directory containing the codeutf8 binary is used.

Examples:
   codeutf8 ./src                 # Manifest to stdout, then convert in place
   codeutf8 --no-op ./src         # Same, without writing any file
   codeutf8 manifest --format yaml .
   codeutf8 strip main.c          # Print a stripped file to stdout
   codeutf8 list ./src            # Aligned table of files and encodings
   codeutf8 validate manifest.json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
		RunE: runConvert,
	}

	// Add global flags
	pf := cmd.PersistentFlags()
	pf.String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	pf.Bool("json", false, "Output logs in JSON format")
	pf.Bool("no-color", false, "Disable colored output")
	pf.Bool("no-op", false, "Inspect and strip without writing any file")

	// Pipeline settings; each also reads from .codeutf8.yaml and CODEUTF8_* env
	pf.String("root", "", "Directory to process (default: the executable's directory)")
	pf.Int("workers", config.DefaultWorkers, "Worker goroutines per stage")
	pf.StringSlice("extensions", []string{"cpp", "h", "c"}, "File extensions to process, in manifest order")
	pf.String("fallback-encoding", "utf-8", "Encoding assumed when detection is not confident")
	pf.Int("min-confidence", 10, "Minimum detector confidence (0-100)")
	pf.Bool("respect-ignore", false, "Skip files matched by .gitignore and .codeutf8ignore")
	pf.String("format", config.FormatJSON, "Manifest format (json|yaml|toml)")

	// Wire Cobra's built-in --version using the binary version
	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("codeutf8 {{.Version}}\n")

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(newManifestCommand())
	cmd.AddCommand(newStripCommand())
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newVersionCommand())
}

// NewCommand returns a fully wired command tree.
func NewCommand() *cobra.Command {
	cmd := newRootCommand()
	registerSubcommands(cmd)
	return cmd
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = NewCommand()

// Execute runs the root command and exits with the matching status.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code := exitCodeFor(err)
		logger.Error("Command execution failed", logger.Err(err), logger.String("exit", exitcode.String(code)))
		os.Exit(code)
	}
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")
	noOp, _ := cmd.Flags().GetBool("no-op")

	logCfg := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "codeutf8",
		NoOp:      noOp,
	}

	if err := logger.Initialize(logCfg); err != nil {
		_, _ = os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(exitcode.ConfigError)
	}
	logger.SetOutput(cmd.ErrOrStderr())
}

// loadSettings reads configuration and resolves the directory to work on.
func loadSettings(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	var dirArg string
	if len(args) > 0 {
		dirArg = args[0]
	}

	cfg, err := config.LoadConfig(cmd.Flags(), dirArg)
	if err != nil {
		return nil, "", withExitCode(exitcode.ConfigError, err)
	}
	root, err := cfg.ResolveRoot(dirArg)
	if err != nil {
		return nil, "", withExitCode(exitcode.FileSystemError, err)
	}
	if used := config.ConfigFileUsed(dirArg); used != "" {
		logger.Debug("Using config file", logger.String("path", used))
	}
	return cfg, root, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadSettings(cmd, args)
	if err != nil {
		return err
	}

	report, err := pipeline.Run(cmd.Context(), root, cfg, pipeline.Deps{Stdout: cmd.OutOrStdout()})
	if err != nil {
		return withExitCode(exitcode.FileSystemError, fmt.Errorf("processing %s: %w", root, err))
	}
	logger.Debug("Run summary",
		logger.String("inspection", report.Inspection.String()),
		logger.String("conversion", report.Conversion.String()))
	// Individual file failures were already logged and do not change the exit status.
	return nil
}
