package cli

import (
	"context"

	"github.com/spf13/cobra"
)

func (r *runner) historyCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent trigger messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.app.recentHistory(cmd.Context(), limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of records")
	return cmd
}

func (a *App) recentHistory(ctx context.Context, limit int) error {
	records, err := a.history.Recent(ctx, limit)
	if err != nil {
		return err
	}
	renderHistory(a.out, records)
	return nil
}
