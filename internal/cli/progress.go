package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/stride-fitness/stride/internal/app/progress"
	"github.com/stride-fitness/stride/internal/domain"
)

func init() {
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(overviewCmd)
	rootCmd.AddCommand(recomputeCmd)
	rootCmd.AddCommand(cleanupCmd)

	logCmd.Flags().String("date", "", "Date to log for, YYYY-MM-DD (default today)")
	logCmd.Flags().String("unit", "", "Measurement unit (reps, km, minutes, ...)")
	logCmd.Flags().String("intensity", "", "Workout intensity label")
	logCmd.Flags().Bool("additional", false, "Log a free-form activity instead of a catalog workout")
	logCmd.Flags().Float64("target", 0, "Target value overriding the catalog default")
}

// ─── log ────────────────────────────────────────────────────────────────────

var logCmd = &cobra.Command{
	Use:   "log USER_ID WORKOUT VALUE",
	Short: "Log workout progress",
	Long: `Log progress for a workout. Catalog workouts clamp to their target and
complete when the target is met; free-form activities (--additional)
always count as completed. The daily XP gain is capped.`,
	Args: cobra.ExactArgs(3),
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	value, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("value must be a number, got %q", args[2])
	}

	svcs, err := openServices()
	if err != nil {
		return err
	}
	defer svcs.Close()

	date, _ := cmd.Flags().GetString("date")
	unit, _ := cmd.Flags().GetString("unit")
	intensity, _ := cmd.Flags().GetString("intensity")
	additional, _ := cmd.Flags().GetBool("additional")
	target, _ := cmd.Flags().GetFloat64("target")

	res, err := svcs.Progress.LogProgress(context.Background(), progress.LogInput{
		UserID:       args[0],
		WorkoutName:  args[1],
		Date:         domain.Date(date),
		Value:        value,
		Unit:         unit,
		Intensity:    intensity,
		IsAdditional: additional,
		TargetValue:  target,
	})
	if err != nil {
		return err
	}

	status := "in progress"
	if res.Record.Completed {
		status = "completed"
	}
	fmt.Fprintf(os.Stdout, "✅ %s on %s: %v %s (%s)\n",
		res.Record.WorkoutName, res.Record.Date, res.Record.Value, res.Record.Unit, status)
	fmt.Fprintf(os.Stdout, "   Total XP: %s  (level %d)\n",
		domain.FormatXP(res.Aggregate.TotalXP), res.Level.Level)
	if res.CapReached {
		fmt.Fprintf(os.Stdout, "   Daily XP cap reached — further progress today earns no XP.\n")
	}
	return nil
}

// ─── overview ───────────────────────────────────────────────────────────────

var overviewCmd = &cobra.Command{
	Use:   "overview USER_ID",
	Short: "Show a user's progress dashboard",
	Args:  cobra.ExactArgs(1),
	RunE:  runOverview,
}

func runOverview(cmd *cobra.Command, args []string) error {
	svcs, err := openServices()
	if err != nil {
		return err
	}
	defer svcs.Close()

	ov, err := svcs.Progress.GetOverview(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Level %d — %s total XP\n", ov.Level.Level, domain.FormatXP(ov.Aggregate.TotalXP))
	fmt.Fprintf(os.Stdout, "Today: %d   Week: %d   Month: %d\n", ov.TodayXP, ov.WeeklyXP, ov.MonthlyXP)
	if len(ov.Entries) == 0 {
		fmt.Fprintln(os.Stdout, "No progress logged yet.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "Records (%d):\n", len(ov.Entries))
	for _, e := range ov.Entries {
		mark := " "
		if e.Record.Completed {
			mark = "✓"
		}
		fmt.Fprintf(os.Stdout, "  %s %s  %s  %v %s\n", mark, e.Date, e.WorkoutName, e.Record.Value, e.Record.Unit)
	}
	return nil
}

// ─── recompute ──────────────────────────────────────────────────────────────

var recomputeCmd = &cobra.Command{
	Use:   "recompute USER_ID",
	Short: "Rebuild a user's XP aggregate from the ledger",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecompute,
}

func runRecompute(cmd *cobra.Command, args []string) error {
	svcs, err := openServices()
	if err != nil {
		return err
	}
	defer svcs.Close()

	agg, err := svcs.Progress.Recompute(context.Background(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✅ Recomputed: %s total XP across %d active days.\n",
		domain.FormatXP(agg.TotalXP), len(agg.Daily))
	return nil
}

// ─── cleanup ────────────────────────────────────────────────────────────────

var cleanupCmd = &cobra.Command{
	Use:   "cleanup [USER_ID]",
	Short: "Purge stale empty records",
	Long: `Purge records older than yesterday that carry no progress (zero value,
not completed). Without a USER_ID the sweep runs for every user.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCleanup,
}

func runCleanup(cmd *cobra.Command, args []string) error {
	svcs, err := openServices()
	if err != nil {
		return err
	}
	defer svcs.Close()

	ctx := context.Background()
	if len(args) == 0 {
		svcs.Progress.SweepAll(ctx, domain.Today())
		fmt.Fprintln(os.Stdout, "✅ Cleanup sweep finished.")
		return nil
	}

	n, err := svcs.Progress.CleanupStale(ctx, args[0], domain.Today())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✅ Purged %d stale records.\n", n)
	return nil
}
