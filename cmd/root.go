/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"errors"
	"os"

	"github.com/fulmenhq/ncreg/internal/registration"
	"github.com/fulmenhq/ncreg/pkg/buildinfo"
	"github.com/fulmenhq/ncreg/pkg/exitcode"
	"github.com/fulmenhq/ncreg/pkg/logger"
	"github.com/spf13/cobra"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ncreg",
		Short: "Generate the non-Composer component registration manifest",
		Long: `ncreg discovers registration.php files through the glob patterns listed in
app/etc/registration_globlist.php, drops the components named in
app/etc/NonComposerComponentRegistrationExclude.php, and writes
app/etc/NonComposerComponentRegistration.php so they load without Composer.

Examples:
   ncreg generate              # Regenerate the manifest (backs up a previous one once)
   ncreg generate --no-op      # Show what would be written
   ncreg list --check          # Print manifest entries and verify they exist
   ncreg uninstall             # Put the backed-up manifest back
   ncreg hook post-update-cmd  # Entry point for Composer script hooks`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json-logs", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().Bool("no-op", false, "Compute everything without changing files")
	cmd.PersistentFlags().StringP("base-dir", "d", ".", "Project base directory")
	cmd.PersistentFlags().String("config", "", "Config file (default: <base-dir>/.ncreg.yaml)")

	cmd.Version = buildinfo.Version()
	cmd.SetVersionTemplate("ncreg {{.Version}}\n")

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
// This is called from init() for production and can be called explicitly in tests.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(newGenerateCommand())
	cmd.AddCommand(newUninstallCommand())
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newHookCommand())
	cmd.AddCommand(newVersionCommand())
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command execution failed", logger.Err(err))
		os.Exit(exitCodeFor(err))
	}
}

func init() {
	registerSubcommands(rootCmd)
}

func exitCodeFor(err error) int {
	var cfgErr *registration.ConfigError
	if errors.As(err, &cfgErr) {
		return exitcode.ConfigError
	}
	return exitcode.FromError(err)
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json-logs")
	noColor, _ := cmd.Flags().GetBool("no-color")
	noOp, _ := cmd.Flags().GetBool("no-op")

	config := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "ncreg",
		NoOp:      noOp,
	}

	if err := logger.Initialize(config); err != nil {
		_, _ = os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(exitcode.ConfigError)
	}
	logger.SetOutput(cmd.ErrOrStderr())
}
