package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"reelcut/internal/session"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history <name>",
		Short: "Show journaled command outcomes for a project, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}
			return ctx.withEnvironment(cmd.Context(), func(env *session.Environment) error {
				if env.Journal == nil {
					return errors.New("command journal is disabled (set [journal] enabled = true)")
				}
				entries, err := env.Journal.Recent(cmd.Context(), args[0], limit)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, entries)
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintf(out, "No journal entries for %s\n", args[0])
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						entry.RecordedAt.Local().Format(time.DateTime),
						entry.Action,
						entry.Description,
						outcomeLabel(out, entry.Success),
						entry.Duration.Round(time.Microsecond).String(),
						entry.Error,
					})
				}
				headers := []string{"When", "Action", "Command", "Result", "Took", "Error"}
				aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
				fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}
