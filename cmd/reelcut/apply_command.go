package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"reelcut/internal/session"
)

type stepReport struct {
	Line  int    `json:"line"`
	Input string `json:"input"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type applyReport struct {
	Project string       `json:"project"`
	Saved   bool         `json:"saved"`
	Failed  int          `json:"failed"`
	Steps   []stepReport `json:"steps"`
}

func newApplyCommand(ctx *commandContext) *cobra.Command {
	var keepGoing bool
	var dryRun bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "apply <name> <script|->",
		Short: "Run an edit script against a project and save the result",
		Long: `Run an edit script against a stored project.

Each non-blank line is one step; lines starting with # are ignored.
Besides the commands listed by "reelcut commands", scripts accept:

  playhead <ms>
  select <clip-id>...
  select-effect <effect-id>|none
  group begin <name> / group end
  undo / redo
  key <chord>

The script stops at the first failing step unless --keep-going is set.
The project is saved only when every step succeeds or --keep-going is
set, and never with --dry-run.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, source := args[0], args[1]
			script, closeScript, err := openScript(cmd, source)
			if err != nil {
				return err
			}
			defer closeScript()

			return ctx.withEnvironment(cmd.Context(), func(env *session.Environment) error {
				s, err := session.Open(cmd.Context(), env, name)
				if err != nil {
					return err
				}
				defer s.Close()

				report := applyReport{Project: name}
				var firstFailure *session.Step
				err = s.RunScript(cmd.Context(), script, func(step session.Step) bool {
					entry := stepReport{Line: step.Line, Input: step.Input, OK: step.OK()}
					if !step.OK() {
						report.Failed++
						if step.Result.Err != nil {
							entry.Error = step.Result.Err.Error()
						}
						if firstFailure == nil {
							failed := step
							firstFailure = &failed
						}
					}
					report.Steps = append(report.Steps, entry)
					return step.OK() || keepGoing
				})
				if err != nil {
					return err
				}

				if !dryRun && (report.Failed == 0 || keepGoing) {
					if _, err := s.Save(cmd.Context()); err != nil {
						return err
					}
					report.Saved = true
				}

				if asJSON {
					if err := writeJSON(cmd, report); err != nil {
						return err
					}
				} else {
					printApplyReport(cmd.OutOrStdout(), report)
				}

				if firstFailure != nil {
					return fmt.Errorf("line %d (%s): %w", firstFailure.Line, firstFailure.Input, firstFailure.Result.Err)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "Continue past failing steps")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run the script without saving the project")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit a JSON report")
	return cmd
}

func openScript(cmd *cobra.Command, source string) (io.Reader, func(), error) {
	if source == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	file, err := os.Open(source)
	if err != nil {
		return nil, nil, fmt.Errorf("open script: %w", err)
	}
	return file, func() { _ = file.Close() }, nil
}

func printApplyReport(out io.Writer, report applyReport) {
	if len(report.Steps) > 0 {
		rows := make([][]string, 0, len(report.Steps))
		for _, step := range report.Steps {
			rows = append(rows, []string{
				strconv.Itoa(step.Line),
				step.Input,
				outcomeLabel(out, step.OK),
				step.Error,
			})
		}
		aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft}
		fmt.Fprintln(out, renderTable(out, []string{"Line", "Step", "Result", "Error"}, rows, aligns))
	}
	switch {
	case report.Saved:
		fmt.Fprintf(out, "Saved %s (%d steps, %d failed)\n", report.Project, len(report.Steps), report.Failed)
	default:
		fmt.Fprintf(out, "Not saved %s (%d steps, %d failed)\n", report.Project, len(report.Steps), report.Failed)
	}
}
