package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"reelcut/internal/session"
	"reelcut/internal/timeline"
)

type clipRow struct {
	Track     string  `json:"track"`
	ID        string  `json:"id"`
	Recording string  `json:"recordingId"`
	Start     float64 `json:"startTime"`
	Duration  float64 `json:"duration"`
	SourceIn  float64 `json:"sourceIn"`
	SourceOut float64 `json:"sourceOut"`
	Rate      float64 `json:"playbackRate"`
	Remaps    int     `json:"remapPeriods"`
}

func newClipsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "clips <name>",
		Short: "List the clips of a project in track order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnvironment(cmd.Context(), func(env *session.Environment) error {
				project, err := env.Files.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				var clips []clipRow
				for _, track := range project.Timeline.Tracks {
					for _, clip := range track.Clips {
						clips = append(clips, clipRow{
							Track:     track.ID,
							ID:        clip.ID,
							Recording: clip.RecordingID,
							Start:     clip.StartTime,
							Duration:  clip.Duration,
							SourceIn:  clip.SourceIn,
							SourceOut: clip.SourceOut,
							Rate:      clip.Rate(),
							Remaps:    len(clip.TimeRemapPeriods),
						})
					}
				}
				if asJSON {
					return writeJSON(cmd, clips)
				}
				if len(clips) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Project has no clips")
					return nil
				}
				rows := make([][]string, 0, len(clips))
				for _, c := range clips {
					rows = append(rows, []string{
						c.Track,
						c.ID,
						formatMillis(c.Start),
						formatMillis(c.Start + c.Duration),
						formatMillis(c.SourceIn) + " - " + formatMillis(c.SourceOut),
						formatRate(c.Rate),
						strconv.Itoa(c.Remaps),
					})
				}
				headers := []string{"Track", "Clip", "Start", "End", "Source", "Rate", "Remaps"}
				aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignRight, alignRight}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmd.OutOrStdout(), headers, rows, aligns))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newEffectsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var kind string
	cmd := &cobra.Command{
		Use:   "effects <name>",
		Short: "List timeline effects ordered by start time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter timeline.EffectType
			if kind != "" {
				filter = timeline.EffectType(kind)
				if !filter.Valid() {
					return fmt.Errorf("unknown effect type %q", kind)
				}
			}
			return ctx.withEnvironment(cmd.Context(), func(env *session.Environment) error {
				project, err := env.Files.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				effects := make([]*timeline.Effect, 0, len(project.Timeline.Effects))
				for _, eff := range project.Timeline.Effects {
					if filter != "" && eff.Type != filter {
						continue
					}
					effects = append(effects, eff)
				}
				sort.SliceStable(effects, func(i, j int) bool { return effects[i].StartTime < effects[j].StartTime })
				if asJSON {
					return writeJSON(cmd, effects)
				}
				if len(effects) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No effects")
					return nil
				}
				rows := make([][]string, 0, len(effects))
				for _, eff := range effects {
					rows = append(rows, []string{
						eff.ID,
						string(eff.Type),
						formatMillis(eff.StartTime),
						formatMillis(eff.EndTime),
						yesNo(eff.Enabled),
					})
				}
				headers := []string{"Effect", "Type", "Start", "End", "Enabled"}
				aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmd.OutOrStdout(), headers, rows, aligns))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	cmd.Flags().StringVar(&kind, "type", "", "Only list effects of this type")
	return cmd
}
