package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"emberline/internal/engine"
	"emberline/internal/ui"
)

func newLogCmd() *cobra.Command {
	var on string
	var value float64
	var intensity int

	cmd := &cobra.Command{
		Use:   "log <habit>",
		Short: "Log a completion for a habit",
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

			in := engine.LogInput{TaskID: t.ID, Date: engine.Date(on)}
			if cmd.Flags().Changed("value") {
				v := value
				in.Value = &v
			}
			if cmd.Flags().Changed("intensity") {
				i := intensity
				in.Intensity = &i
			}

			rec, err := sess.LogCompletion(ctx, in)
			if err != nil {
				return err
			}

			out := ui.Good.Render(ui.IconDone+" Logged: "+t.Name)
			if rec.Intensity != nil {
				detail := fmt.Sprintf("(intensity %d", *rec.Intensity)
				if in.Value != nil {
					if name := engine.PhaseName(t.Metric, *in.Value); name != "" {
						detail += ", " + name
					}
				}
				out += " " + ui.Muted.Render(detail+")")
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)

			for _, a := range sess.CheckUnlocks(ctx) {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Gold.Render(a.Icon+" Unlocked: "+a.Name))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&on, "on", "", "Date to log (YYYY-MM-DD, default today)")
	cmd.Flags().Float64VarP(&value, "value", "v", 0, "Raw metric value (resolved through the habit's phases)")
	cmd.Flags().IntVarP(&intensity, "intensity", "i", 0, "Explicit intensity (0-4)")

	return cmd
}

func newUnlogCmd() *cobra.Command {
	var on string

	cmd := &cobra.Command{
		Use:   "unlog <habit>",
		Short: "Remove a logged completion",
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
			date := engine.Date(on)
			if date.IsZero() {
				date = engine.DateOf(time.Now())
			}
			if err := sess.RemoveCompletion(ctx, date, t.ID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render("Removed "+t.Name+" on "+string(date)))
			return nil
		},
	}

	cmd.Flags().StringVar(&on, "on", "", "Date to clear (YYYY-MM-DD, default today)")

	return cmd
}
