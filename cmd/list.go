/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fulmenhq/ncreg/internal/registration"
	"github.com/fulmenhq/ncreg/pkg/safeio"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputText  = "text"
	outputJSON  = "json"
	outputYAML  = "yaml"
	outputTable = "table"
)

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the entries recorded in the current manifest",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
	cmd.Flags().StringP("output", "o", outputText, "Output format (text|json|yaml|table)")
	cmd.Flags().Bool("json", false, "Output in JSON format (same as --output json)")
	cmd.Flags().Bool("check", false, "Fail if a recorded file no longer exists")
	return cmd
}

type listEntry struct {
	Path   string `json:"path" yaml:"path"`
	Exists *bool  `json:"exists,omitempty" yaml:"exists,omitempty"`
}

type listOutput struct {
	Manifest string      `json:"manifest" yaml:"manifest"`
	Entries  []listEntry `json:"entries" yaml:"entries"`
	Missing  int         `json:"missing" yaml:"missing"`
}

func runList(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("output")
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		format = outputJSON
	}
	switch format {
	case outputText, outputJSON, outputYAML, outputTable:
	default:
		return fmt.Errorf("unsupported output format %q (want text, json, yaml or table)", format)
	}
	check, _ := cmd.Flags().GetBool("check")

	orch, err := newOrchestrator(cmd)
	if err != nil {
		return err
	}

	manifest := orch.Paths().Manifest
	entries, err := registration.ReadManifest(orch.Filesystem(), manifest)
	if err != nil {
		return err
	}

	out := listOutput{Manifest: manifest, Entries: make([]listEntry, 0, len(entries))}
	for _, e := range entries {
		item := listEntry{Path: e}
		if check {
			ok, err := entryExists(orch, e)
			if err != nil {
				return err
			}
			item.Exists = &ok
			if !ok {
				out.Missing++
			}
		}
		out.Entries = append(out.Entries, item)
	}

	data, err := encodeList(out, format)
	if err != nil {
		return err
	}
	_, _ = cmd.OutOrStdout().Write(data)

	if out.Missing > 0 {
		return fmt.Errorf("%d of %d manifest entries are missing", out.Missing, len(entries))
	}
	return nil
}

func entryExists(orch *registration.Orchestrator, entry string) (bool, error) {
	if filepath.IsAbs(entry) {
		_, err := os.Stat(entry)
		if os.IsNotExist(err) {
			return false, nil
		}
		return err == nil, err
	}
	return safeio.Exists(orch.Filesystem(), entry)
}

func encodeList(out listOutput, format string) ([]byte, error) {
	switch format {
	case outputJSON:
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to format JSON: %w", err)
		}
		return append(data, '\n'), nil
	case outputYAML:
		data, err := yaml.Marshal(out)
		if err != nil {
			return nil, fmt.Errorf("failed to format YAML: %w", err)
		}
		return data, nil
	case outputTable:
		return encodeListAsTable(out), nil
	}

	var buf bytes.Buffer
	for _, item := range out.Entries {
		if item.Exists != nil && !*item.Exists {
			fmt.Fprintf(&buf, "%s (missing)\n", item.Path)
			continue
		}
		fmt.Fprintln(&buf, item.Path)
	}
	return buf.Bytes(), nil
}

func encodeListAsTable(out listOutput) []byte {
	var buf bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.SetTitle(out.Manifest)
	t.AppendHeader(table.Row{"#", "Path", "Status"})
	for i, item := range out.Entries {
		status := "-"
		if item.Exists != nil {
			status = "ok"
			if !*item.Exists {
				status = "missing"
			}
		}
		t.AppendRow(table.Row{i, item.Path, status})
	}
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.Render()
	return buf.Bytes()
}
