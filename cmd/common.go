package cmd

import (
	"github.com/fulmenhq/ncreg/internal/registration"
	"github.com/fulmenhq/ncreg/pkg/config"
	"github.com/fulmenhq/ncreg/pkg/exitcode"
	"github.com/fulmenhq/ncreg/pkg/logger"
	"github.com/spf13/cobra"
)

// newOrchestrator loads configuration for --base-dir, applies command-line
// overrides and builds the orchestrator.
func newOrchestrator(cmd *cobra.Command) (*registration.Orchestrator, error) {
	baseDir, _ := cmd.Flags().GetString("base-dir")
	configFile, _ := cmd.Flags().GetString("config")
	noOp, _ := cmd.Flags().GetBool("no-op")

	cfg, err := config.Load(baseDir, configFile)
	if err != nil {
		return nil, err
	}

	if f := cmd.Flags().Lookup("path-mode"); f != nil && f.Changed {
		cfg.Manifest.PathMode = f.Value.String()
	}
	if f := cmd.Flags().Lookup("no-dedupe"); f != nil && f.Changed {
		noDedupe, _ := cmd.Flags().GetBool("no-dedupe")
		cfg.Manifest.Deduplicate = !noDedupe
	}

	mode, err := registration.ParsePathMode(cfg.Manifest.PathMode)
	if err != nil {
		return nil, &exitcode.ConfigErr{Err: err}
	}

	logger.Debug("Loaded configuration",
		logger.String("base_dir", baseDir),
		logger.String("manifest", cfg.Paths.Manifest),
		logger.String("path_mode", string(mode)))

	return registration.New(registration.Options{
		BaseDir: baseDir,
		Paths: registration.Paths{
			GlobList: cfg.Paths.GlobList,
			Exclude:  cfg.Paths.Exclude,
			Manifest: cfg.Paths.Manifest,
			Backup:   cfg.BackupPath(),
			Ignore:   cfg.Paths.Ignore,
		},
		PathMode:       mode,
		KeepDuplicates: !cfg.Manifest.Deduplicate,
		DryRun:         noOp,
		Logger:         logger.Default(),
	})
}
