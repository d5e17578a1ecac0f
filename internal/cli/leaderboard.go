package cli

import (
	"fmt"
	"text/tabwriter"

	"airport-cyber-crisis/internal/app"
	"github.com/spf13/cobra"
)

// NewLeaderboardCmd groups operator commands for the persisted leaderboard.
func NewLeaderboardCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Inspect or reset the leaderboard",
	}
	cmd.AddCommand(newLeaderboardShowCmd(configPath), newLeaderboardClearCmd(configPath))
	return cmd
}

func newLeaderboardShowCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the ranked leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			b, err := openBackend(ctx, cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			board := app.NewLeaderboard(b.storage, cfg.Game.LeaderboardSize)
			entries := board.Load(ctx)
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "leaderboard is empty")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tNAME\tSCORE\tCORRECT\tTIME LEFT\tDATE")
			for i, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%02d:%02d\t%s\n",
					i+1, e.Name, e.Score, e.Correct, e.TimeLeft/60, e.TimeLeft%60, e.Date.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

func newLeaderboardClearCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every leaderboard entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			b, err := openBackend(ctx, cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			if err := app.NewLeaderboard(b.storage, cfg.Game.LeaderboardSize).Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "leaderboard cleared")
			return nil
		},
	}
}
