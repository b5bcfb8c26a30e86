package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"emberline/internal/engine"
	"emberline/internal/ui"
)

func newStreakCmd() *cobra.Command {
	var on string
	var taskRef string

	cmd := &cobra.Command{
		Use:   "streak",
		Short: "Show the current (or historical) streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			q := engine.StreakQuery{Anchor: engine.Date(on)}
			scope := "all habits"
			if taskRef != "" {
				t, err := resolveTask(sess, taskRef)
				if err != nil {
					return err
				}
				q.TaskID = t.ID
				scope = t.Name
			}
			if !q.Anchor.IsZero() {
				if _, err := engine.ParseDate(on); err != nil {
					return err
				}
			}

			days := sess.Streak(q)
			icon := ui.IconEmber
			if days == 0 {
				icon = ui.IconSpark
			}
			label := fmt.Sprintf("%s %d day streak", icon, days)
			if days == 1 {
				label = fmt.Sprintf("%s 1 day streak", icon)
			}
			suffix := ui.Muted.Render("(" + scope + ")")
			if !q.Anchor.IsZero() {
				suffix = ui.Muted.Render("(" + scope + " as of " + on + ")")
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Title.Render(label)+" "+suffix)
			return nil
		},
	}

	cmd.Flags().StringVar(&on, "on", "", "Anchor date (YYYY-MM-DD); historical streaks get no grace day")
	cmd.Flags().StringVarP(&taskRef, "task", "t", "", "Scope to one habit")

	return cmd
}
