package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"emberline/internal/engine"
	"emberline/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:           "ember",
	Short:         "Emberline — habit consistency tracker",
	Long:          "Emberline is a local-first habit tracker: log daily completions, keep streaks alive, and earn artifacts as consistency compounds.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = engine.AppVersion
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.emberline.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagGuest, "guest", false, "Force guest mode (local cache only)")
	rootCmd.PersistentFlags().BoolVar(&flagAuth, "authenticated", false, "Force authenticated mode (database-backed)")

	rootCmd.AddCommand(
		newAddCmd(),
		newTasksCmd(),
		newArchiveCmd(),
		newRmCmd(),
		newLogCmd(),
		newUnlogCmd(),
		newStreakCmd(),
		newStatsCmd(),
		newUnlocksCmd(),
		newExportCmd(),
		newRestoreCmd(),
		newPactCmd(),
		newNoteCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
