package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/engine"
	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/ui"
)

const watchInterval = 60 * time.Second

func newTickCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "tick",
		Short: "Promote overdue tasks to more urgent lanes",
		Long: `Run one promotion pass: every open task whose due timestamp has passed
advances one lane (later → soon, soon → now) and gets a fresh due timestamp
for its new lane. Parked tasks wait for manual review and are never promoted.

With --watch, keep running a pass every 60 seconds until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			report := func(promos []engine.Promotion) {
				if len(promos) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Nothing overdue."))
					return
				}
				for _, p := range promos {
					fmt.Fprintf(cmd.OutOrStdout(), "%s #%d %s → %s %s\n",
						ui.Warn.Render("Promoted"), p.TaskID, ui.LaneText(string(p.From)), ui.LaneText(string(p.To)),
						ui.Muted.Render("(due "+p.DueAt.Format("2006-01-02 15:04")+")"))
				}
			}

			promos, err := svc.RunPromotions(ctx, time.Now())
			if err != nil {
				return err
			}
			report(promos)

			if !watch {
				return nil
			}

			ticker := time.NewTicker(watchInterval)
			defer ticker.Stop()
			for range ticker.C {
				promos, err := svc.RunPromotions(ctx, time.Now())
				if err != nil {
					// Keep watching; a transient failure should not stop the loop.
					fmt.Fprintln(cmd.ErrOrStderr(), ui.Bad.Render("tick: "+err.Error()))
					continue
				}
				report(promos)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep ticking every 60s")

	return cmd
}
