package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tinytracker/internal/importer"
	"github.com/verte-zerg/tinytracker/internal/model"
	"github.com/verte-zerg/tinytracker/internal/stats"
	"github.com/verte-zerg/tinytracker/internal/store"
)

var (
	logAt  string
	logAgo time.Duration

	feedOunces float64

	nurseLeft  time.Duration
	nurseRight time.Duration

	solidsFoods []string

	sleepStart string
	sleepEnd   string
)

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record an activity",
	}
	cmd.PersistentFlags().StringVar(&logAt, "at", "", "when it happened (HH:MM, \"YYYY-MM-DD HH:MM\" or RFC3339)")
	cmd.PersistentFlags().DurationVar(&logAgo, "ago", 0, "how long ago it happened (e.g. 20m)")

	feed := &cobra.Command{
		Use:   "feed",
		Short: "Record a bottle feeding",
		Args:  cobra.NoArgs,
		RunE:  runLogFeedCmd,
	}
	feed.Flags().Float64Var(&feedOunces, "oz", 0, "ounces fed")

	nurse := &cobra.Command{
		Use:   "nurse",
		Short: "Record a nursing session",
		Args:  cobra.NoArgs,
		RunE:  runLogNurseCmd,
	}
	nurse.Flags().DurationVar(&nurseLeft, "left", 0, "time on the left side (e.g. 10m)")
	nurse.Flags().DurationVar(&nurseRight, "right", 0, "time on the right side (e.g. 8m)")

	solids := &cobra.Command{
		Use:   "solids",
		Short: "Record a solids meal",
		Args:  cobra.NoArgs,
		RunE:  runLogSolidsCmd,
	}
	solids.Flags().StringSliceVar(&solidsFoods, "foods", nil, "foods eaten (comma separated)")

	sleep := &cobra.Command{
		Use:   "sleep",
		Short: "Record a finished sleep session",
		Args:  cobra.NoArgs,
		RunE:  runLogSleepCmd,
	}
	sleep.Flags().StringVar(&sleepStart, "start", "", "when sleep started")
	sleep.Flags().StringVar(&sleepEnd, "end", "", "when sleep ended (default: now)")

	cmd.AddCommand(feed, nurse, solids, sleep)
	return cmd
}

func runLogFeedCmd(cmd *cobra.Command, _ []string) error {
	if !(feedOunces > 0) {
		return fmt.Errorf("--oz must be > 0")
	}
	at, err := resolveWhen(logAt, logAgo, time.Now())
	if err != nil {
		return err
	}
	return withStore(func(ctx context.Context, st *store.Store) error {
		id, err := st.InsertFeeding(ctx, model.Feeding{Timestamp: at.UnixMilli(), Ounces: feedOunces})
		if err != nil {
			return fmt.Errorf("failed to save feeding: %w", err)
		}
		return printf(cmd, "Logged %s at %s (%s)\n", stats.FormatAmount(feedOunces, "oz"), at.In(time.Local).Format("15:04"), id)
	})
}

func runLogNurseCmd(cmd *cobra.Command, _ []string) error {
	if nurseLeft < 0 || nurseRight < 0 {
		return fmt.Errorf("--left and --right must be >= 0")
	}
	if nurseLeft+nurseRight == 0 {
		return fmt.Errorf("set --left and/or --right")
	}
	at, err := resolveWhen(logAt, logAgo, time.Now())
	if err != nil {
		return err
	}
	session := model.NursingSession{
		Timestamp:        at.UnixMilli(),
		StartTime:        at.UnixMilli(),
		LeftDurationSec:  nurseLeft.Seconds(),
		RightDurationSec: nurseRight.Seconds(),
	}
	return withStore(func(ctx context.Context, st *store.Store) error {
		id, err := st.InsertNursing(ctx, session)
		if err != nil {
			return fmt.Errorf("failed to save nursing session: %w", err)
		}
		total := (nurseLeft + nurseRight).Hours()
		return printf(cmd, "Logged %s nursing at %s (%s)\n", stats.FormatAmount(total, "hrs"), at.In(time.Local).Format("15:04"), id)
	})
}

func runLogSolidsCmd(cmd *cobra.Command, _ []string) error {
	foods := make([]string, 0, len(solidsFoods))
	for _, f := range solidsFoods {
		if f = strings.TrimSpace(f); f != "" {
			foods = append(foods, f)
		}
	}
	if len(foods) == 0 {
		return fmt.Errorf("--foods must not be empty")
	}
	at, err := resolveWhen(logAt, logAgo, time.Now())
	if err != nil {
		return err
	}
	return withStore(func(ctx context.Context, st *store.Store) error {
		id, err := st.InsertSolids(ctx, model.SolidsSession{Timestamp: at.UnixMilli(), Foods: foods})
		if err != nil {
			return fmt.Errorf("failed to save solids: %w", err)
		}
		return printf(cmd, "Logged %s at %s (%s)\n", strings.Join(foods, ", "), at.In(time.Local).Format("15:04"), id)
	})
}

func runLogSleepCmd(cmd *cobra.Command, _ []string) error {
	if sleepStart == "" {
		return fmt.Errorf("--start is required")
	}
	now := time.Now()
	end, err := parseWhen(sleepEnd, now)
	if err != nil {
		return fmt.Errorf("--end: %w", err)
	}
	start, err := parseWhen(sleepStart, end)
	if err != nil {
		return fmt.Errorf("--start: %w", err)
	}
	interval, ok := stats.NormalizeSleepInterval(start.UnixMilli(), end.UnixMilli(), now.UnixMilli())
	if !ok {
		return fmt.Errorf("sleep must end after it starts")
	}
	session := model.SleepSession{StartTime: interval.StartMs, EndTime: interval.EndMs}
	return withStore(func(ctx context.Context, st *store.Store) error {
		id, err := st.InsertSleep(ctx, session)
		if err != nil {
			return fmt.Errorf("failed to save sleep session: %w", err)
		}
		hours := float64(interval.DurationMs()) / float64(time.Hour.Milliseconds())
		return printf(cmd, "Logged %s of sleep (%s)\n", stats.FormatAmount(hours, "hrs"), id)
	})
}

func newSleepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sleep",
		Short: "Start or stop the running sleep session",
	}
	cmd.PersistentFlags().StringVar(&logAt, "at", "", "when it happened (HH:MM, \"YYYY-MM-DD HH:MM\" or RFC3339)")
	cmd.PersistentFlags().DurationVar(&logAgo, "ago", 0, "how long ago it happened (e.g. 20m)")
	cmd.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start a sleep session",
		Args:  cobra.NoArgs,
		RunE:  runSleepStartCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Stop the running sleep session",
		Args:  cobra.NoArgs,
		RunE:  runSleepStopCmd,
	})
	return cmd
}

func runSleepStartCmd(cmd *cobra.Command, _ []string) error {
	at, err := resolveWhen(logAt, logAgo, time.Now())
	if err != nil {
		return err
	}
	return withStore(func(ctx context.Context, st *store.Store) error {
		session, err := st.StartSleep(ctx, at.UnixMilli())
		if errors.Is(err, store.ErrSleepActive) {
			return fmt.Errorf("%w; stop it first with: tinytracker sleep stop", err)
		}
		if err != nil {
			return fmt.Errorf("failed to start sleep: %w", err)
		}
		return printf(cmd, "Sleep started at %s (%s)\n", at.In(time.Local).Format("15:04"), session.ID)
	})
}

func runSleepStopCmd(cmd *cobra.Command, _ []string) error {
	now := time.Now()
	at, err := resolveWhen(logAt, logAgo, now)
	if err != nil {
		return err
	}
	return withStore(func(ctx context.Context, st *store.Store) error {
		session, err := st.StopSleep(ctx, at.UnixMilli())
		if errors.Is(err, store.ErrNoActiveSleep) || errors.Is(err, store.ErrEndBeforeStart) {
			return err
		}
		if err != nil {
			return fmt.Errorf("failed to stop sleep: %w", err)
		}
		interval, ok := stats.NormalizeSleepInterval(session.StartTime, session.EndTime, now.UnixMilli())
		if !ok {
			return fmt.Errorf("sleep session %s has an unusable interval", session.ID)
		}
		hours := float64(interval.DurationMs()) / float64(time.Hour.Milliseconds())
		return printf(cmd, "Slept %s\n", stats.FormatAmount(hours, "hrs"))
	})
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "delete <feeding|nursing|solids|sleep> <id>",
		Short:     "Delete a recorded entry",
		Args:      cobra.ExactArgs(2),
		ValidArgs: activityNames(),
		RunE:      runDeleteCmd,
	}
}

func runDeleteCmd(cmd *cobra.Command, args []string) error {
	kind, id := strings.ToLower(args[0]), args[1]
	return withStore(func(ctx context.Context, st *store.Store) error {
		if err := st.DeleteEntry(ctx, kind, id); err != nil {
			return fmt.Errorf("failed to delete %s %s: %w", kind, id, err)
		}
		return printf(cmd, "Deleted %s %s\n", kind, id)
	})
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <export.json>",
		Short: "Import a JSON export of Firestore documents",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	res, err := importer.LoadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read export: %w", err)
	}
	if res.Skipped > 0 {
		logErrln("skipping", res.Skipped, "malformed documents in", args[0])
	}
	return withStore(func(ctx context.Context, st *store.Store) error {
		if err := importer.Import(ctx, st, res); err != nil {
			return err
		}
		return printf(cmd, "Imported %d feedings, %d nursing, %d solids, %d sleep (%d skipped)\n",
			len(res.Feedings), len(res.Nursing), len(res.Solids), len(res.Sleep), res.Skipped)
	})
}

func withStore(fn func(ctx context.Context, st *store.Store) error) error {
	st, closeFn, err := openStore()
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(context.Background(), st)
}

func printf(cmd *cobra.Command, format string, args ...any) error {
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), format, args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func activityNames() []string {
	names := make([]string, len(model.Activities))
	for i, a := range model.Activities {
		names[i] = string(a)
	}
	return names
}
