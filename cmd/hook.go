/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"github.com/fulmenhq/ncreg/internal/registration"
	"github.com/spf13/cobra"
)

func newHookCommand() *cobra.Command {
	var events []string
	for _, e := range registration.NewPlugin(nil, nil).Events() {
		events = append(events, string(e))
	}

	return &cobra.Command{
		Use:   "hook <event>",
		Short: "Handle a package-manager lifecycle event",
		Long: `Runs the handler subscribed to a lifecycle event. Wire it into composer.json:

  "scripts": {
    "post-install-cmd": "ncreg hook post-install-cmd",
    "post-update-cmd": "ncreg hook post-update-cmd"
  }`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: events,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := newOrchestrator(cmd)
			if err != nil {
				return err
			}
			return registration.NewPlugin(orch, cmd.OutOrStdout()).Dispatch(args[0])
		},
	}
}
