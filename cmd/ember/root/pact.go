package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"emberline/internal/ui"
)

func newPactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pact",
		Short: "Manage accountability pacts",
	}
	cmd.AddCommand(newPactAddCmd(), newPactListCmd(), newPactRmCmd())
	return cmd
}

func newPactAddCmd() *cobra.Command {
	var partner string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a pact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := sess.AddPact(ctx, args[0], partner)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconPact+" Pact made: "+p.Title))
			return nil
		},
	}

	cmd.Flags().StringVarP(&partner, "with", "w", "", "Accountability partner")

	return cmd
}

func newPactListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			pacts := sess.Pacts()
			if len(pacts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("No pacts."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconPact, "Pacts"))
			for _, p := range pacts {
				line := "- " + ui.Key.Render(p.Title)
				if p.Partner != "" {
					line += " " + ui.Muted.Render("with "+p.Partner)
				}
				line += " " + ui.Muted.Render("("+shortID(p.ID)+")")
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

func newPactRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a pact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id := args[0]
			for _, p := range sess.Pacts() {
				if p.ID == id || (len(id) >= 4 && len(p.ID) >= len(id) && p.ID[:len(id)] == id) {
					id = p.ID
					break
				}
			}
			if err := sess.DeletePact(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render("Pact dissolved."))
			return nil
		},
	}
}
