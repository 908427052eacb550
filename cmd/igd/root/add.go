package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/engine"
	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/ui"
)

func newAddCmd() *cobra.Command {
	var laneStr string
	var notes string
	var parentID int64
	var assignee string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task (or a subtask with -p)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("title is required")
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

			lane, err := engine.ParseLane(laneStr)
			if err != nil {
				return err
			}

			in := engine.CreateTaskInput{Title: args[0], Lane: lane}
			if notes != "" {
				in.Notes = &notes
			}
			if parentID > 0 {
				in.ParentID = &parentID
			}
			if assignee != "" {
				in.Assignee = &assignee
			}

			id, err := svc.CreateTask(ctx, in)
			if err != nil {
				return err
			}

			t, err := svc.TaskRepo().Get(ctx, id)
			if err != nil {
				return err
			}
			line := fmt.Sprintf("%s #%d %s → %s", ui.Good.Render(ui.IconPlus+" Added"), id, t.Title, ui.LaneText(t.Lane))
			if t.DueAt != nil {
				line += " " + ui.Muted.Render("(due "+t.DueAt.Format("2006-01-02 15:04")+")")
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}

	cmd.Flags().StringVarP(&laneStr, "lane", "l", "later", "Lane (park|later|soon|now)")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "Notes")
	cmd.Flags().Int64VarP(&parentID, "parent", "p", 0, "Parent task ID (creates a subtask)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee reference")

	return cmd
}
