package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"emberline/internal/engine"
	"emberline/internal/ui"
)

func newNoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage daily notes",
	}
	cmd.AddCommand(newNoteAddCmd(), newNoteListCmd(), newNoteRmCmd())
	return cmd
}

func newNoteAddCmd() *cobra.Command {
	var on string

	cmd := &cobra.Command{
		Use:   "add <body>",
		Short: "Attach a note to a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			date := engine.Date(on)
			if date.IsZero() {
				date = engine.DateOf(time.Now())
			}
			n, err := sess.AddNote(ctx, date, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconNote+" Noted on "+string(n.Date)))
			return nil
		},
	}

	cmd.Flags().StringVar(&on, "on", "", "Date for the note (YYYY-MM-DD, default today)")

	return cmd
}

func newNoteListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			notes := sess.Notes()
			if len(notes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("No notes."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconNote, "Notes"))
			for _, n := range notes {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s %s %s\n", ui.Key.Render(string(n.Date)), n.Body, ui.Muted.Render("("+shortID(n.ID)+")"))
			}
			return nil
		},
	}
}

func newNoteRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id := args[0]
			for _, n := range sess.Notes() {
				if len(id) >= 4 && len(n.ID) >= len(id) && n.ID[:len(id)] == id {
					id = n.ID
					break
				}
			}
			if err := sess.DeleteNote(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render("Note removed."))
			return nil
		},
	}
}
