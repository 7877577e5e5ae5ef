package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/bilbywilby/IASIP-gifs/internal/ingest"
	"github.com/bilbywilby/IASIP-gifs/pkg/buildinfo"
	"github.com/bilbywilby/IASIP-gifs/pkg/config"
	"github.com/bilbywilby/IASIP-gifs/pkg/exitcode"
	"github.com/bilbywilby/IASIP-gifs/pkg/fetch"
	"github.com/bilbywilby/IASIP-gifs/pkg/logger"
	"github.com/bilbywilby/IASIP-gifs/pkg/manifest"
	"github.com/bilbywilby/IASIP-gifs/pkg/schema"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gifdex",
		Short: "Curate the GIF manifest and its asset directory",
		Long: `Gifdex keeps gifs/index.json and the gifs/ directory in lock-step.

Examples:
   gifdex add <url> <filename.gif>   # Download a GIF and add its manifest entry
   gifdex validate                   # Check the manifest against the schema
   gifdex reconcile                  # Create placeholders for missing assets
   gifdex version                    # Show version`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().String("log-file", "", "Also write logs to this rotated file")
	cmd.PersistentFlags().String("manifest", "", "Path to the manifest file (default gifs/index.json)")
	cmd.PersistentFlags().String("gifs-dir", "", "Directory holding the GIF assets (default gifs)")
	cmd.PersistentFlags().String("schema", "", "Path to an external schema file (default: embedded gif-schema)")

	cmd.Version = buildinfo.Version()
	cmd.SetVersionTemplate("gifdex {{.Version}}\n")

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
// This is called from init() for production and can be called explicitly in tests.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(addCmd)
	cmd.AddCommand(validateCmd)
	cmd.AddCommand(reconcileCmd)
	cmd.AddCommand(versionCmd)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command execution failed", logger.Err(err))
		os.Exit(exitCodeFor(err))
	}
}

func init() {
	registerSubcommands(rootCmd)
}

// exitCodeFor maps the error taxonomy onto process exit codes.
func exitCodeFor(err error) int {
	var badName *ingest.BadFilenameError
	var violation *ingest.SchemaViolationError
	var schemaErr *schema.ValidationError
	var dup *manifest.DuplicateKeyError
	var malformed *manifest.MalformedError

	switch {
	case errors.As(err, &dup):
		return exitcode.DuplicateError
	case errors.As(err, &violation), errors.As(err, &schemaErr), errors.As(err, &malformed):
		return exitcode.ValidationError
	case errors.As(err, &badName):
		return exitcode.ConfigError
	case errors.Is(err, fetch.ErrAlreadyExists):
		return exitcode.FileSystemError
	case errors.Is(err, fetch.ErrNetwork), errors.Is(err, fetch.ErrTooLarge), errors.Is(err, fetch.ErrWrongContentType):
		return exitcode.NetworkError
	case errors.As(err, new(*stagingError)):
		return exitcode.GitError
	default:
		return exitcode.GeneralError
	}
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")
	logFile, _ := cmd.Flags().GetString("log-file")

	cfg := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "gifdex",
		LogFile:   logFile,
	}
	if err := logger.Initialize(cfg); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(exitcode.ConfigError)
	}
}

// resolveConfig loads configuration and applies any flag overrides.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("manifest") {
		cfg.Paths.Manifest, _ = cmd.Flags().GetString("manifest")
	}
	if cmd.Flags().Changed("gifs-dir") {
		cfg.Paths.GifsDir, _ = cmd.Flags().GetString("gifs-dir")
	}
	if cmd.Flags().Changed("schema") {
		cfg.Paths.Schema, _ = cmd.Flags().GetString("schema")
	}
	return cfg, cfg.Validate()
}

// newValidator compiles the configured schema: an external file when set,
// otherwise the embedded gif-schema.
func newValidator(cfg *config.Config) (*schema.Validator, error) {
	if cfg.Paths.Schema != "" {
		return schema.NewValidatorFromFile(cfg.Paths.Schema)
	}
	return schema.NewDefaultValidator()
}
