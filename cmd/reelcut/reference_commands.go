package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelcut/internal/command"
	"reelcut/internal/typing"
)

func newShortcutsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "shortcuts",
		Short:       "List key chords bound to editing commands",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			bindings := command.DefaultShortcuts().Bindings()
			rows := make([][]string, 0, len(bindings))
			for _, b := range bindings {
				rows = append(rows, []string{b.Chord, b.Name})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmd.OutOrStdout(), []string{"Chord", "Command"}, rows, nil))
			return nil
		},
	}
}

func newCommandsCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:         "commands",
		Short:       "List the editing commands available to scripts",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			descriptors := command.DefaultRegistry(typing.DefaultOptions()).Descriptors()
			if asJSON {
				return writeJSON(cmd, descriptors)
			}
			rows := make([][]string, 0, len(descriptors))
			for _, d := range descriptors {
				usage := d.Name
				if d.Usage != "" {
					usage += " " + d.Usage
				}
				rows = append(rows, []string{usage, d.Label, d.Summary})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmd.OutOrStdout(), []string{"Usage", "Label", "Summary"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}
