package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/ui"
)

func newStatusCmd() *cobra.Command {
	var dismiss bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show level, streak and achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			eng := svc.Engagement()
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Status"))
			fmt.Fprintln(out, ui.LabelValue("Level", fmt.Sprintf("%s (%d) %s", eng.LevelName(), eng.Level(), ui.ProgressBar(eng.Progress(), 20))))
			fmt.Fprintln(out, ui.LabelValue("Points", fmt.Sprintf("%d (%d%% through level, %d to next)", eng.Points(), eng.Progress(), eng.PointsToNext())))

			protection := "available"
			if !eng.ProtectionAvailable() {
				protection = "spent"
			}
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%d %s (best %d, protection %s)", eng.Streak(), ui.IconFlame, eng.LongestStreak(), protection)))

			if d, ok := eng.TodayStats(); ok {
				cleared := ""
				if d.NowCleared {
					cleared = ", now cleared " + ui.IconBolt
				}
				fmt.Fprintln(out, ui.LabelValue("Today", fmt.Sprintf("%d tasks, %d subtasks, %d focus min%s", d.TasksCompleted, d.SubtasksCompleted, d.FocusMinutes, cleared)))
			} else {
				fmt.Fprintln(out, ui.LabelValue("Today", ui.Muted.Render("no activity yet")))
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(fmt.Sprintf("%s Achievements (%d/%d)", ui.IconTrophy, eng.CountUnlocked(), eng.CountTotal())))
			for _, a := range eng.Achievements() {
				if a.UnlockedAt != nil {
					fmt.Fprintf(out, "- %s %s %s\n", a.Icon, a.Title, ui.Muted.Render(a.UnlockedAt.Format("2006-01-02")))
				} else {
					fmt.Fprintf(out, "- %s\n", ui.Muted.Render(strings.TrimSpace(a.Icon+" "+a.Title+" — "+a.Description)))
				}
			}

			if a, ok := eng.PendingUnlock(); ok {
				fmt.Fprintln(out, "")
				fmt.Fprintf(out, "%s %s %s — %s\n", ui.BadgeUnlock, a.Icon, a.Title, a.Description)
				if dismiss {
					eng.DismissUnlock()
					fmt.Fprintln(out, ui.Muted.Render("Dismissed."))
				} else {
					fmt.Fprintln(out, ui.Muted.Render("(igd status --dismiss to acknowledge)"))
				}
			} else if dismiss {
				fmt.Fprintln(out, ui.Muted.Render("Nothing to dismiss."))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&dismiss, "dismiss", false, "Acknowledge the pending achievement unlock")

	return cmd
}
