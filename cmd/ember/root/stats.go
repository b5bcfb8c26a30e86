package root

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"emberline/internal/engine"
	"emberline/internal/ui"
)

func newStatsCmd() *cobra.Command {
	var taskRef string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show streak, strength, and tier",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			taskID := ""
			scope := "All habits"
			if taskRef != "" {
				t, err := resolveTask(sess, taskRef)
				if err != nil {
					return err
				}
				taskID = t.ID
				scope = t.Name
			}

			snap := sess.Stats(taskID)
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconChart, scope))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Streak", fmt.Sprintf("%d days", snap.Days)))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Strength", fmt.Sprintf("%.1f (%s)", snap.Strength, ui.StrengthText(engine.StrengthLabel(snap)))))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Tier", ui.TierText(snap.Tier)))

			prefs := sess.Preferences()
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Points", prefs.Points))
			return nil
		},
	}

	cmd.Flags().StringVarP(&taskRef, "task", "t", "", "Scope to one habit")

	return cmd
}

func newUnlocksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unlocks",
		Short: "Show earned and pending artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			for _, a := range sess.CheckUnlocks(ctx) {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Gold.Render(a.Icon+" Unlocked: "+a.Name))
			}

			earned := sess.Unlocked()
			catalog := engine.Catalog()
			sort.SliceStable(catalog, func(i, j int) bool {
				if catalog[i].Type != catalog[j].Type {
					return catalog[i].Type < catalog[j].Type
				}
				return catalog[i].Threshold < catalog[j].Threshold
			})

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconTrophy, "Artifacts"))
			for _, a := range catalog {
				if at, ok := earned[a.ID]; ok {
					fmt.Fprintf(cmd.OutOrStdout(), "- %s %s %s\n", a.Icon, ui.Gold.Render(a.Name), ui.Muted.Render("earned "+at.Format("2006-01-02")))
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "- %s %s\n", a.Icon, ui.Muted.Render(a.Name))
				}
			}
			return nil
		},
	}
	return cmd
}
