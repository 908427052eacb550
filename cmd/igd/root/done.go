package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/engine"
	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/ui"
)

func newDoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Complete a task or subtask",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("id is required")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return errors.New("id must be an integer")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, _ := strconv.ParseInt(args[0], 10, 64)
			res, err := svc.CompleteTask(ctx, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			what := "task"
			if res.Subtask {
				what = "subtask"
			}
			fmt.Fprintf(out, "%s %s #%d %s\n", ui.Good.Render(ui.IconDone+" Done"), what, res.TaskID, ui.Muted.Render(fmt.Sprintf("(+%d pts)", res.Points)))
			if res.NowCleared {
				fmt.Fprintln(out, ui.Gold.Render(ui.IconBolt+" Now lane cleared!"))
			}
			eng := svc.Engagement()
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%d %s", res.Streak, ui.IconFlame)))
			if res.LevelUp {
				fmt.Fprintf(out, "%s %s → %s\n", ui.BadgeLevelUp, levelLabel(res.LevelBefore), levelLabel(res.LevelAfter))
			} else {
				fmt.Fprintln(out, ui.LabelValue("Level", fmt.Sprintf("%s (%d%%, %d to next)", eng.LevelName(), eng.Progress(), eng.PointsToNext())))
			}
			if a, ok := eng.PendingUnlock(); ok {
				fmt.Fprintf(out, "%s %s %s — %s\n", ui.BadgeUnlock, a.Icon, a.Title, ui.Muted.Render(a.Description))
				fmt.Fprintln(out, ui.Muted.Render("(igd status --dismiss to acknowledge)"))
			}
			return nil
		},
	}

	return cmd
}

func levelLabel(level int) string {
	if level < 1 || level > len(engine.Levels) {
		return fmt.Sprintf("level %d", level)
	}
	return engine.Levels[level-1].Name
}
