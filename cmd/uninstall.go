/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"github.com/fulmenhq/ncreg/internal/registration"
	"github.com/spf13/cobra"
)

func newUninstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: "Restore the manifest that existed before the first generate",
		Long: `Deletes the generated manifest and moves the backup back in its place.
Without a backup this does nothing and still succeeds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, err := newOrchestrator(cmd)
			if err != nil {
				return err
			}
			res, err := orch.Uninstall()
			if err != nil {
				return err
			}
			registration.ReportUninstall(cmd.OutOrStdout(), res)
			return nil
		},
	}
}
