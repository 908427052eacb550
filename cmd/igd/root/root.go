package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/ui"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "igd",
	Short:         "I Get It Done — lane-based task manager with streaks",
	Long:          "igd keeps tasks in four urgency lanes that tighten as deadlines pass, and turns finished work into streaks, points and achievements.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newAddCmd(),
		newDoneCmd(),
		newFocusCmd(),
		newRestCmd(),
		newMoveCmd(),
		newListCmd(),
		newStatusCmd(),
		newWeekCmd(),
		newTickCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
