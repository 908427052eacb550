package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/engine"
	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/ui"
)

func newWeekCmd() *cobra.Command {
	var showEvents bool

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the last 7 days of activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			sum := svc.Engagement().Week()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconBolt, "This Week"))
			fmt.Fprintln(out, ui.LabelValue("Tasks completed", sum.TasksCompleted))
			fmt.Fprintln(out, ui.LabelValue("Focus minutes", sum.FocusMinutes))
			fmt.Fprintln(out, ui.LabelValue("Active days", fmt.Sprintf("%d/7", sum.ActiveDays)))

			if !showEvents {
				return nil
			}

			since := time.Now().AddDate(0, 0, -6).Format(engine.DateLayout)
			events, err := svc.EventRepo().ListSince(ctx, since)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "")
			fmt.Fprintln(out, ui.H2.Render("Events"))
			if len(events) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(none)"))
				return nil
			}
			for _, e := range events {
				task := ""
				if e.TaskID != nil {
					task = fmt.Sprintf(" #%d", *e.TaskID)
				}
				fmt.Fprintf(out, "- %s %s%s %s\n", e.EventDate, e.Kind, task, ui.Muted.Render(fmt.Sprintf("(+%d)", e.Points)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showEvents, "events", false, "List the raw event audit rows")

	return cmd
}
