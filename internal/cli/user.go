package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/stride-fitness/stride/internal/domain"
)

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(followCmd)
	rootCmd.AddCommand(unfollowCmd)

	registerCmd.Flags().String("id", "", "Explicit user id (defaults to a generated one)")
	registerCmd.Flags().String("theme", "", "Profile theme")
	registerCmd.Flags().Float64("weight", 0, "Body weight in kg, used for calorie estimates")
}

// ─── register ───────────────────────────────────────────────────────────────

var registerCmd = &cobra.Command{
	Use:   "register USERNAME",
	Short: "Create a local profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegister,
}

func runRegister(cmd *cobra.Command, args []string) error {
	svcs, err := openServices()
	if err != nil {
		return err
	}
	defer svcs.Close()

	userID, _ := cmd.Flags().GetString("id")
	if userID == "" {
		userID = uuid.NewString()
	}
	theme, _ := cmd.Flags().GetString("theme")
	weight, _ := cmd.Flags().GetFloat64("weight")

	p := domain.Profile{
		UserID:   userID,
		Username: args[0],
		Theme:    theme,
		WeightKg: weight,
		Aggregate: domain.AggregateXP{
			Daily: make(map[domain.Date]int64),
		},
		Social: domain.SocialState{
			Followers: []string{},
			Following: []string{},
		},
	}
	if err := svcs.DB.CreateProfile(context.Background(), p); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}

	fmt.Fprintf(os.Stdout, "✅ Profile %q created.\n", args[0])
	fmt.Fprintf(os.Stdout, "   User id: %s\n", userID)
	return nil
}

// ─── follow / unfollow ──────────────────────────────────────────────────────

var followCmd = &cobra.Command{
	Use:   "follow USER_ID TARGET_ID",
	Short: "Follow another user",
	Args:  cobra.ExactArgs(2),
	RunE:  runFollow,
}

func runFollow(cmd *cobra.Command, args []string) error {
	svcs, err := openServices()
	if err != nil {
		return err
	}
	defer svcs.Close()

	if err := svcs.Social.Follow(context.Background(), args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✅ %s now follows %s.\n", args[0], args[1])
	return nil
}

var unfollowCmd = &cobra.Command{
	Use:   "unfollow USER_ID TARGET_ID",
	Short: "Stop following another user",
	Args:  cobra.ExactArgs(2),
	RunE:  runUnfollow,
}

func runUnfollow(cmd *cobra.Command, args []string) error {
	svcs, err := openServices()
	if err != nil {
		return err
	}
	defer svcs.Close()

	if err := svcs.Social.Unfollow(context.Background(), args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✅ %s no longer follows %s.\n", args[0], args[1])
	return nil
}
