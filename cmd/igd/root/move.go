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

func newMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <id> <lane>",
		Short: "Move a task to another lane (resets its due timestamp)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("id and lane are required")
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
			lane, err := engine.ParseLane(args[1])
			if err != nil {
				return err
			}
			if err := svc.MoveTask(ctx, id, lane); err != nil {
				return err
			}

			t, err := svc.TaskRepo().Get(ctx, id)
			if err != nil {
				return err
			}
			line := fmt.Sprintf("%s #%d → %s", ui.Good.Render("Moved"), id, ui.LaneText(string(lane)))
			if t != nil && t.DueAt != nil {
				line += " " + ui.Muted.Render("(due "+t.DueAt.Format("2006-01-02 15:04")+")")
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}

	return cmd
}
