package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tinytracker/internal/config"
	"github.com/verte-zerg/tinytracker/internal/model"
	"github.com/verte-zerg/tinytracker/internal/stats"
	"github.com/verte-zerg/tinytracker/internal/statsui"
	"github.com/verte-zerg/tinytracker/internal/store"
)

const plotHeight = 10

var (
	paceAt   string
	pacePlot bool
)

func newPaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pace",
		Short: "Compare today's totals with the 7-day average",
		Args:  cobra.NoArgs,
		RunE:  runPaceCmd,
	}
	cmd.Flags().StringVar(&paceAt, "at", "", "evaluate at this time of today (HH:MM)")
	cmd.Flags().BoolVar(&pacePlot, "plot", false, "plot today's curve against the average")
	return cmd
}

func runPaceCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadPaceConfig(cmd, time.Now().UnixMilli())
	if err != nil {
		return err
	}
	if err := applyPaceAt(&cfg, paceAt); err != nil {
		return err
	}
	return withStore(func(ctx context.Context, st *store.Store) error {
		report, err := stats.BuildReport(ctx, st, cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		out := cmd.OutOrStdout()
		if err := stats.RenderPace(out, report); err != nil {
			return fmt.Errorf("failed to render pace: %w", err)
		}
		if !pacePlot {
			return nil
		}
		useColor := term.IsTerminal(int(os.Stdout.Fd()))
		for _, p := range report.Paces {
			if err := stats.RenderPaceCurve(out, p, 0, plotHeight, useColor); err != nil {
				return fmt.Errorf("failed to render %s curve: %w", p.Activity, err)
			}
		}
		return nil
	})
}

// applyPaceAt pins the report to the bucket of an HH:MM time of today.
func applyPaceAt(cfg *model.PaceConfig, at string) error {
	if at == "" {
		return nil
	}
	mins, err := config.ParseClock(at)
	if err != nil {
		return fmt.Errorf("--at: %w", err)
	}
	bucket := stats.BucketIndexCeilFromMinutes(float64(mins))
	cfg.Bucket = &bucket
	return nil
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show feeding patterns and sleep summary",
		Args:  cobra.NoArgs,
		RunE:  runSummaryCmd,
	}
}

func runSummaryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadPaceConfig(cmd, time.Now().UnixMilli())
	if err != nil {
		return err
	}
	return withStore(func(ctx context.Context, st *store.Store) error {
		report, err := stats.BuildReport(ctx, st, cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		if err := stats.RenderSummary(cmd.OutOrStdout(), report); err != nil {
			return fmt.Errorf("failed to render summary: %w", err)
		}
		return nil
	})
}

func newDashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Open the interactive pace dashboard",
		Args:  cobra.NoArgs,
		RunE:  runDashCmd,
	}
}

func runDashCmd(cmd *cobra.Command, _ []string) error {
	// A zero NowMs keeps the dashboard on the wall clock across reloads.
	cfg, err := loadPaceConfig(cmd, 0)
	if err != nil {
		return err
	}
	return withStore(func(_ context.Context, st *store.Store) error {
		dash := statsui.NewModel(st, cfg)
		program := tea.NewProgram(dash, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run dashboard: %w", err)
		}
		return nil
	})
}
