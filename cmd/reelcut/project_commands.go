package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reelcut/internal/projectfile"
	"reelcut/internal/session"
	"reelcut/internal/timeline"
)

func newProjectCommand(ctx *commandContext) *cobra.Command {
	projectCmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Inspect and move project documents",
	}

	projectCmd.AddCommand(newProjectListCommand(ctx))
	projectCmd.AddCommand(newProjectInfoCommand(ctx))
	projectCmd.AddCommand(newProjectImportCommand(ctx))
	projectCmd.AddCommand(newProjectExportCommand(ctx))

	return projectCmd
}

func newProjectListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnvironment(cmd.Context(), func(env *session.Environment) error {
				names, err := env.Files.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(names) == 0 {
					fmt.Fprintln(out, "No projects stored")
					return nil
				}
				for _, name := range names {
					fmt.Fprintln(out, name)
				}
				return nil
			})
		},
	}
}

type projectSummary struct {
	Name       string  `json:"name"`
	Recordings int     `json:"recordings"`
	Tracks     int     `json:"tracks"`
	Clips      int     `json:"clips"`
	Effects    int     `json:"effects"`
	Duration   float64 `json:"duration"`
	FrameRate  int     `json:"frameRate"`
	Resolution string  `json:"resolution"`
	ModifiedAt string  `json:"modifiedAt"`
}

func summarizeProject(name string, project *timeline.Project) projectSummary {
	return projectSummary{
		Name:       name,
		Recordings: len(project.Recordings),
		Tracks:     len(project.Timeline.Tracks),
		Clips:      len(project.Clips()),
		Effects:    len(project.Timeline.Effects),
		Duration:   project.Timeline.Duration,
		FrameRate:  project.Settings.FrameRate,
		Resolution: fmt.Sprintf("%dx%d", project.Settings.Resolution.Width, project.Settings.Resolution.Height),
		ModifiedAt: project.ModifiedAt,
	}
}

func newProjectInfoCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "info <name>",
		Short: "Show a project summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnvironment(cmd.Context(), func(env *session.Environment) error {
				project, err := env.Files.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				summary := summarizeProject(args[0], project)
				if asJSON {
					return writeJSON(cmd, summary)
				}
				rows := [][]string{
					{"Name", summary.Name},
					{"Recordings", strconv.Itoa(summary.Recordings)},
					{"Tracks", strconv.Itoa(summary.Tracks)},
					{"Clips", strconv.Itoa(summary.Clips)},
					{"Effects", strconv.Itoa(summary.Effects)},
					{"Duration", formatMillis(summary.Duration)},
					{"Frame rate", strconv.Itoa(summary.FrameRate)},
					{"Resolution", summary.Resolution},
					{"Modified", summary.ModifiedAt},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmd.OutOrStdout(), []string{"Field", "Value"}, rows, nil))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newProjectImportCommand(ctx *commandContext) *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "import <name> <file|->",
		Short: "Store a project document under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, source := args[0], args[1]
			return ctx.withEnvironment(cmd.Context(), func(env *session.Environment) error {
				if !overwrite {
					exists, err := env.Files.Exists(cmd.Context(), name)
					if err != nil {
						return err
					}
					if exists {
						return fmt.Errorf("project %q already exists (use --overwrite to replace it)", name)
					}
				}
				project, err := readProject(cmd, source)
				if err != nil {
					return err
				}
				if err := project.Check(); err != nil {
					return fmt.Errorf("project %s: %w", source, err)
				}
				info, err := env.Files.Save(cmd.Context(), name, project)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %s (%d bytes)\n", name, info.Size)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing project with the same name")
	return cmd
}

func newProjectExportCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	cmd := &cobra.Command{
		Use:   "export <name>",
		Short: "Write a stored project as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnvironment(cmd.Context(), func(env *session.Environment) error {
				project, err := env.Files.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				target := strings.TrimSpace(outputPath)
				if target == "" || target == "-" {
					return projectfile.Encode(cmd.OutOrStdout(), project)
				}
				file, err := os.Create(target)
				if err != nil {
					return fmt.Errorf("create %s: %w", target, err)
				}
				if err := projectfile.Encode(file, project); err != nil {
					file.Close()
					return err
				}
				if err := file.Close(); err != nil {
					return fmt.Errorf("close %s: %w", target, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", args[0], target)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination file (default stdout)")
	return cmd
}

func readProject(cmd *cobra.Command, source string) (*timeline.Project, error) {
	var r io.Reader = cmd.InOrStdin()
	if source != "-" {
		file, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", source, err)
		}
		defer file.Close()
		r = file
	}
	return projectfile.Decode(r)
}
