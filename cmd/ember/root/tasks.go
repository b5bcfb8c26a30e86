package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"emberline/internal/ui"
)

func newTasksCmd() *cobra.Command {
	var showArchived bool

	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"ls"},
		Short:   "List habits with their streaks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			tasks := sess.Tasks()
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("No habits yet. Try: ember add \"Read\""))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconEmber, "Habits"))
			for _, t := range tasks {
				if t.IsArchived && !showArchived {
					continue
				}
				snap := sess.Stats(t.ID)
				line := fmt.Sprintf("- %s %s %s",
					ui.Key.Render(t.Name),
					ui.TierText(snap.Tier),
					ui.Muted.Render(fmt.Sprintf("streak %d · %s", snap.Days, shortID(t.ID))))
				if t.IsArchived {
					line += " " + ui.Warn.Render(ui.IconArchive+" archived")
				}
				if t.Metric != nil {
					line += " " + ui.Muted.Render("["+t.Metric.Unit+"]")
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showArchived, "all", "a", false, "Include archived habits")

	return cmd
}

func newArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive <habit>",
		Short: "Toggle a habit's archived flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			t, err := resolveTask(sess, args[0])
			if err != nil {
				return err
			}
			t, err = sess.ArchiveTask(ctx, t.ID)
			if err != nil {
				return err
			}
			if t.IsArchived {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(ui.IconArchive+" Archived: "+t.Name))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconEmber+" Restored: "+t.Name))
			}
			return nil
		},
	}
	return cmd
}

func newRmCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rm <habit>",
		Short: "Delete a habit and all its completions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			t, err := resolveTask(sess, args[0])
			if err != nil {
				return err
			}
			if !force {
				return fmt.Errorf("deleting %q drops its history too; pass --force to confirm", t.Name)
			}
			if err := sess.DeleteTask(ctx, t.ID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Bad.Render("Deleted: "+t.Name))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation guard")

	return cmd
}
