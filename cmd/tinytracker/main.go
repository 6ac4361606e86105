// Package main provides the CLI entrypoint for tinytracker.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tinytracker/internal/config"
	"github.com/verte-zerg/tinytracker/internal/model"
	"github.com/verte-zerg/tinytracker/internal/stats"
	"github.com/verte-zerg/tinytracker/internal/store"
)

const (
	defaultDayStart = "06:30"
	defaultDayEnd   = "19:30"
)

var (
	settingsDayStart    string
	settingsDayEnd      string
	settingsEvenEpsilon float64
)

func main() {
	if err := config.LoadEnv(config.DefaultEnvPath()); err != nil {
		logErrf("failed to load env file: %v\n", err)
	}
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tinytracker",
		Short:         "Track baby feeding, nursing, solids and sleep against the daily pace",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&settingsDayStart, "day-start", defaultDayStart, "start of the daytime nap window (HH:MM)")
	flags.StringVar(&settingsDayEnd, "day-end", defaultDayEnd, "end of the daytime nap window (HH:MM)")
	flags.Float64Var(&settingsEvenEpsilon, "even-epsilon", stats.DefaultEvenEpsilon, "delta below which today counts as on pace")

	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newSleepCmd())
	rootCmd.AddCommand(newPaceCmd())
	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newDashCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// loadPaceConfig merges the config file with command-line flags; flags win.
func loadPaceConfig(cmd *cobra.Command, nowMs int64) (model.PaceConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.PaceConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return resolvePaceConfig(cmd, fileCfg, nowMs)
}

func resolvePaceConfig(cmd *cobra.Command, fileCfg config.FileConfig, nowMs int64) (model.PaceConfig, error) {
	start, err := config.ParseClock(settingsDayStart)
	if err != nil {
		return model.PaceConfig{}, fmt.Errorf("--day-start: %w", err)
	}
	end, err := config.ParseClock(settingsDayEnd)
	if err != nil {
		return model.PaceConfig{}, fmt.Errorf("--day-end: %w", err)
	}
	if cmd.Flags().Changed("day-start") {
		fileCfg.Sleep.DayStart = nil
	}
	if cmd.Flags().Changed("day-end") {
		fileCfg.Sleep.DayEnd = nil
	}
	window, err := fileCfg.DayWindow(model.DayWindow{StartMins: start, EndMins: end})
	if err != nil {
		return model.PaceConfig{}, err
	}
	applyFloatConfig(cmd, "even-epsilon", &settingsEvenEpsilon, fileCfg.Pace.EvenEpsilon)

	cfg := model.PaceConfig{
		NowMs:       nowMs,
		DayWindow:   window,
		EvenEpsilon: settingsEvenEpsilon,
	}
	if err := validateConfig(cfg); err != nil {
		return model.PaceConfig{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.PaceConfig) error {
	if !(cfg.EvenEpsilon > 0) {
		return fmt.Errorf("--even-epsilon must be > 0")
	}
	if cfg.DayWindow.StartMins == cfg.DayWindow.EndMins {
		return fmt.Errorf("--day-start and --day-end must differ")
	}
	return nil
}

func openStore() (*store.Store, func(), error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	closeFn := func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}
	return st, closeFn, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tinytracker configuration
# Uncomment a value to enable it. CLI flags override config values.
# The database path can be overridden with %s, this file with %s
# (both may also be set in %s).

[sleep]
# day-start = %q     # Sleep starting inside the window is a nap
# day-end = %q       # Sleep starting outside it is overnight

[pace]
# even-epsilon = %.2f  # Deltas smaller than this count as on pace
`,
		config.EnvDBPath,
		config.EnvConfigPath,
		config.DefaultEnvPath(),
		defaultDayStart,
		defaultDayEnd,
		stats.DefaultEvenEpsilon,
	)
}
