package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stride-fitness/stride/internal/app/ranking"
)

func init() {
	rootCmd.AddCommand(leaderboardCmd)
	leaderboardCmd.Flags().StringP("dimension", "d", "global", "Leaderboard dimension: global, continental, country, regional, followers")
	leaderboardCmd.Flags().StringP("window", "w", "overall", "Displayed XP window: overall, monthly, weekly, daily")
	leaderboardCmd.Flags().String("place", "", "Override the continent/country filter")
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard USER_ID",
	Short: "Show a leaderboard view",
	Long: `Build a leaderboard for the given user. Entries are always ordered by
total XP; the window flag only changes which XP figure is displayed.`,
	Args: cobra.ExactArgs(1),
	RunE: runLeaderboard,
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	dimFlag, _ := cmd.Flags().GetString("dimension")
	winFlag, _ := cmd.Flags().GetString("window")
	place, _ := cmd.Flags().GetString("place")

	dim, err := ranking.ParseDimension(dimFlag)
	if err != nil {
		return err
	}
	win, err := ranking.ParseWindow(winFlag)
	if err != nil {
		return err
	}

	svcs, err := openServices()
	if err != nil {
		return err
	}
	defer svcs.Close()

	ctx := context.Background()
	p, err := svcs.DB.GetProfile(ctx, args[0])
	if err != nil {
		return err
	}

	lb, err := svcs.Ranking.Build(ctx, ranking.Request{
		UserID:    args[0],
		Dimension: dim,
		Window:    win,
		Place:     place,
		Location:  p.Location,
		Following: p.Social,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%s leaderboard (%s XP):\n", lb.Dimension, lb.Window)
	for _, e := range lb.Entries {
		marks := ""
		if e.IsSelf {
			marks += " (you)"
		} else if e.IsFollowed {
			marks += " ★"
		}
		fmt.Fprintf(os.Stdout, "  %3d. %-20s %6d XP%s\n", e.Rank, e.Username, e.XP, marks)
	}
	return nil
}
