package root

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/engine"
	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/storage"
	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/ui"
)

func newListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks grouped by lane, most urgent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var tasks []storage.Task
			if all {
				tasks, err = svc.TaskRepo().ListAll(ctx)
			} else {
				tasks, err = svc.TaskRepo().ListOpen(ctx)
			}
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(no tasks)"))
				return nil
			}

			children := map[int64][]storage.Task{}
			var roots []storage.Task
			for _, t := range tasks {
				if t.ParentID != nil {
					children[*t.ParentID] = append(children[*t.ParentID], t)
					continue
				}
				roots = append(roots, t)
			}
			sort.SliceStable(roots, func(i, j int) bool {
				ri := engine.Lane(roots[i].Lane).Rank()
				rj := engine.Lane(roots[j].Lane).Rank()
				if ri != rj {
					return ri > rj
				}
				return roots[i].ID < roots[j].ID
			})

			now := time.Now()
			out := cmd.OutOrStdout()
			lastLane := ""
			for _, t := range roots {
				if t.Lane != lastLane {
					fmt.Fprintln(out, ui.Heading(ui.LaneIcon(t.Lane), t.Lane))
					lastLane = t.Lane
				}
				fmt.Fprintln(out, "  "+taskLine(&t, now))
				for _, c := range children[t.ID] {
					fmt.Fprintln(out, "    "+taskLine(&c, now))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include completed tasks")

	return cmd
}

func taskLine(t *storage.Task, now time.Time) string {
	line := fmt.Sprintf("#%d %s", t.ID, t.Title)
	switch {
	case t.Done():
		line = ui.Muted.Render(line + " " + ui.IconDone)
	case t.DueAt != nil && !now.Before(*t.DueAt):
		line += " " + ui.Warn.Render("overdue")
	case t.DueAt != nil:
		line += " " + ui.Muted.Render("(due "+t.DueAt.Format("Jan 2")+")")
	}
	if t.Assignee != nil {
		line += " " + ui.Muted.Render("@"+*t.Assignee)
	}
	return line
}
