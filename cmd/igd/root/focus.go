package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/ui"
)

func newFocusCmd() *cobra.Command {
	var taskID int64

	cmd := &cobra.Command{
		Use:   "focus <minutes>",
		Short: "Record a finished focus session",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("minutes is required")
			}
			if _, err := strconv.Atoi(args[0]); err != nil {
				return errors.New("minutes must be an integer")
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

			minutes, _ := strconv.Atoi(args[0])
			var tid *int64
			if taskID > 0 {
				tid = &taskID
			}
			points, err := svc.RecordFocus(ctx, minutes, tid)
			if err != nil {
				return err
			}

			eng := svc.Engagement()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d min %s\n", ui.Good.Render(ui.IconFocus+" Focused"), minutes, ui.Muted.Render(fmt.Sprintf("(+%d pts)", points)))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Streak", fmt.Sprintf("%d %s", eng.Streak(), ui.IconFlame)))
			if a, ok := eng.PendingUnlock(); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.BadgeUnlock, a.Icon, a.Title)
			}
			return nil
		},
	}

	cmd.Flags().Int64VarP(&taskID, "task", "t", 0, "Task the session was spent on")

	return cmd
}
