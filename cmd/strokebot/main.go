// Package main provides the CLI entrypoint for strokebot.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/strokebot/internal/audio"
	"github.com/verte-zerg/strokebot/internal/config"
	"github.com/verte-zerg/strokebot/internal/engine"
	"github.com/verte-zerg/strokebot/internal/generator"
	"github.com/verte-zerg/strokebot/internal/input"
	"github.com/verte-zerg/strokebot/internal/model"
	"github.com/verte-zerg/strokebot/internal/session"
	"github.com/verte-zerg/strokebot/internal/simulate"
	"github.com/verte-zerg/strokebot/internal/stats"
	"github.com/verte-zerg/strokebot/internal/statsui"
	"github.com/verte-zerg/strokebot/internal/store"
	"github.com/verte-zerg/strokebot/internal/tui"
)

const (
	defaultSimStrokes  = 45
	defaultSimJitter   = 0.3
	defaultTrendWindow = 5
)

var (
	gameGoal      int
	gameVelocity  time.Duration
	gameDebug     bool
	gameMute      bool
	gameNoHistory bool

	historySince  string
	historyLast   int
	historyTrend  int
	historyBrowse bool

	simStrokes int
	simSeed    int64
	simJitter  float64
	simSettle  bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := model.DefaultSettings()
	rootCmd := &cobra.Command{
		Use:           "strokebot",
		Short:         "Stroke the buttons, make the bot happy",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runGameCmd,
	}

	rootCmd.PersistentFlags().IntVar(&gameGoal, "goal", defaults.StrokesGoal, "strokes needed for success")
	rootCmd.PersistentFlags().DurationVar(&gameVelocity, "velocity", defaults.VelocityGoal, "maximum time for one stroke")
	rootCmd.PersistentFlags().BoolVar(&gameDebug, "debug", false, "debug logging and press order checks")
	rootCmd.Flags().BoolVar(&gameMute, "mute", false, "disable audio")
	rootCmd.Flags().BoolVar(&gameNoHistory, "no-history", false, "do not journal sessions")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newSimulateCmd())

	return rootCmd
}

// loadSettings merges the config file under explicitly set flags.
func loadSettings(cmd *cobra.Command) (model.Settings, config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Settings{}, fileCfg, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "goal", &gameGoal, fileCfg.Game.StrokesGoal)
	if fileCfg.Game.VelocityGoal != nil {
		applyDurationConfig(cmd, "velocity", &gameVelocity, &fileCfg.Game.VelocityGoal.Duration)
	}
	applyBoolConfig(cmd, "debug", &gameDebug, fileCfg.Log.Debug)

	settings := model.Settings{StrokesGoal: gameGoal, VelocityGoal: gameVelocity}
	if err := validateSettings(settings); err != nil {
		return model.Settings{}, fileCfg, err
	}
	return settings, fileCfg, nil
}

func runGameCmd(cmd *cobra.Command, _ []string) error {
	settings, fileCfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	applyBoolConfig(cmd, "mute", &gameMute, fileCfg.Audio.Mute)
	applyHistoryConfig(cmd, &gameNoHistory, fileCfg.History.Enabled)

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("strokebot needs a terminal (try: strokebot simulate)")
	}

	logger, closeLog, err := openLogger(config.DefaultLogPath(), gameDebug)
	if err != nil {
		return err
	}
	defer closeLog()

	var (
		journal engine.Journal
		history stats.Lister
	)
	if !gameNoHistory {
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
		journal = st
		history = st
	}

	eng := engine.New(session.New(settings), engine.Options{
		Journal:    journal,
		Logger:     logger,
		CheckOrder: gameDebug,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engineDone := make(chan error, 1)
	go func() { engineDone <- eng.Run(ctx) }()

	bindings := input.DefaultBindings()
	keySources := make(map[string]*input.KeySource, len(bindings))
	sources := make(map[string]input.Source, len(bindings))
	for _, b := range bindings {
		src := input.NewKeySource()
		keySources[b.Name] = src
		sources[b.Name] = src
	}
	input.StartAll(ctx, bindings, sources, eng, eng.Clock(), eng.Presses())

	var player audio.Player = audio.MutePlayer{}
	if !gameMute {
		player = audio.NewBeepPlayer(logger)
	}
	go audio.NewLoop(player, eng.Flags(), eng).Run(ctx)

	logger.Info("started", "goal", settings.StrokesGoal, "velocity", settings.VelocityGoal, "mute", gameMute, "history", !gameNoHistory)
	ui := tui.NewModel(tui.Options{
		Engine:   eng,
		Bindings: bindings,
		Sources:  keySources,
		History:  history,
		Logger:   logger,
	})
	program := tea.NewProgram(ui, tea.WithAltScreen())
	_, runErr := program.Run()
	cancel()
	if err := <-engineDone; err != nil {
		logger.Error("engine stopped", "err", err)
	}
	if runErr != nil {
		return fmt.Errorf("failed to run TUI: %w", runErr)
	}
	return nil
}

func openLogger(path string, debug bool) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	closeFn := func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}
	return newLogger(f, debug), closeFn, nil
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
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

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show journaled sessions",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&historyTrend, "trend-window", defaultTrendWindow, "moving average window")
	cmd.Flags().BoolVar(&historyBrowse, "browse", false, "open the interactive history browser")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := historyConfig(historySince, historyLast)
	if err != nil {
		return err
	}
	if historyTrend <= 0 {
		return fmt.Errorf("--trend-window must be > 0")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if historyBrowse {
		program := tea.NewProgram(statsui.NewModel(st, cfg, historyTrend), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run history TUI: %w", err)
		}
		return nil
	}

	report, err := stats.BuildReport(cmd.Context(), st, cfg, historyTrend)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(report.Sessions) == 0 {
		logErrln("No sessions journaled yet. Play with: strokebot")
		return nil
	}
	if err := report.Render(cmd.OutOrStdout(), time.Now(), 0); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func historyConfig(since string, last int) (model.HistoryConfig, error) {
	if last < 0 {
		return model.HistoryConfig{}, fmt.Errorf("--last must be >= 0")
	}
	cfg := model.HistoryConfig{Last: last}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return model.HistoryConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	return cfg, nil
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a generated press script through the engine",
		Args:  cobra.NoArgs,
		RunE:  runSimulateCmd,
	}
	cmd.Flags().IntVar(&simStrokes, "strokes", defaultSimStrokes, "number of stroke attempts")
	cmd.Flags().Int64Var(&simSeed, "seed", 0, "random seed (0: time based)")
	cmd.Flags().Float64Var(&simJitter, "jitter", defaultSimJitter, "timing jitter (0-1)")
	cmd.Flags().BoolVar(&simSettle, "settle", true, "keep the clock running until the session is idle")
	return cmd
}

func runSimulateCmd(cmd *cobra.Command, _ []string) error {
	settings, _, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if simStrokes <= 0 {
		return fmt.Errorf("--strokes must be > 0")
	}
	if simJitter < 0 || simJitter > 1 {
		return fmt.Errorf("--jitter must be between 0 and 1")
	}

	gen := generator.New()
	if simSeed != 0 {
		gen = generator.NewSeeded(simSeed)
	}
	opts := generator.DefaultOptions(time.Now(), simStrokes)
	opts.Jitter = simJitter
	opts.VelocityGoal = settings.VelocityGoal
	events := gen.Script(opts)

	logOut := io.Discard
	if gameDebug {
		logOut = cmd.ErrOrStderr()
	}
	report, err := simulate.Run(cmd.Context(), events, simulate.Options{
		Settings: settings,
		Settle:   simSettle,
		Engine: engine.Options{
			Logger:     newLogger(logOut, gameDebug),
			CheckOrder: gameDebug,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to simulate: %w", err)
	}
	if err := report.Print(cmd.OutOrStdout(), events[0].At); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target, value *time.Duration) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

// applyHistoryConfig maps [history] enabled onto the inverted --no-history flag.
func applyHistoryConfig(cmd *cobra.Command, noHistory, enabled *bool) {
	if enabled == nil {
		return
	}
	if cmd.Flags().Changed("no-history") {
		return
	}
	*noHistory = !*enabled
}

func defaultConfigTemplate() string {
	defaults := model.DefaultSettings()
	return fmt.Sprintf(`# strokebot configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# strokes-goal = %d        # Strokes needed for success
# velocity-goal = %q      # Maximum time for one stroke

[audio]
# mute = false            # Disable audio

[history]
# enabled = true          # Journal finished sessions

[log]
# debug = false           # Debug logging and press order checks
`,
		defaults.StrokesGoal,
		defaults.VelocityGoal.String(),
	)
}

func validateSettings(s model.Settings) error {
	if s.StrokesGoal <= 0 {
		return fmt.Errorf("--goal must be > 0")
	}
	if s.VelocityGoal <= 0 {
		return fmt.Errorf("--velocity must be > 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
