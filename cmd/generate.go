/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/fulmenhq/ncreg/internal/registration"
	"github.com/spf13/cobra"
)

func newGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Regenerate the registration manifest",
		Long: `Expands every pattern in the glob list, drops duplicates and excluded
components, and rewrites the manifest. The first run moves an existing
manifest to the backup location; later runs leave that backup alone.

A missing glob list is not an error: the run is skipped and nothing changes.`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}
	cmd.Flags().String("path-mode", "", "Record paths as relative|absolute (overrides config)")
	cmd.Flags().Bool("no-dedupe", false, "Keep duplicate matches")
	cmd.Flags().Bool("json", false, "Print the run result as JSON")
	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	orch, err := newOrchestrator(cmd)
	if err != nil {
		return err
	}

	res, err := orch.Generate()
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printResultJSON(cmd, res)
	}
	registration.ReportGenerate(cmd.OutOrStdout(), res)
	return nil
}

type resultJSON struct {
	*registration.Result
	Reason         string   `json:"reason,omitempty"`
	FailedPatterns []string `json:"failedPatterns,omitempty"`
}

func printResultJSON(cmd *cobra.Command, res *registration.Result) error {
	out := resultJSON{Result: res}
	if res.Reason != nil {
		out.Reason = res.Reason.Error()
	}
	for _, f := range res.FailedPatterns {
		out.FailedPatterns = append(out.FailedPatterns, f.Pattern)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
