package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/ui"
)

func newRestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rest",
		Short: "Log a planned day off and re-arm streak protection",
		Long: `Streak protection forgives one missed day per streak; after it is spent a
second gap breaks the streak. Taking a planned day off? rest re-arms the
protection so the next missed day is forgiven again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			eng := svc.Engagement()
			if eng.ProtectionAvailable() {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Streak protection is already available."))
				return nil
			}
			eng.UseStreakProtection()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				ui.Good.Render(ui.IconFlame+" Streak protection re-armed."),
				ui.Muted.Render("The next missed day will be forgiven."))
			return nil
		},
	}

	return cmd
}
