// Package main provides the CLI entrypoint for tuicaptcha.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/verte-zerg/tuicaptcha/internal/config"
	"github.com/verte-zerg/tuicaptcha/internal/generator"
	"github.com/verte-zerg/tuicaptcha/internal/logging"
	"github.com/verte-zerg/tuicaptcha/internal/model"
	"github.com/verte-zerg/tuicaptcha/internal/progress"
	"github.com/verte-zerg/tuicaptcha/internal/session"
	"github.com/verte-zerg/tuicaptcha/internal/stats"
	"github.com/verte-zerg/tuicaptcha/internal/statsui"
	"github.com/verte-zerg/tuicaptcha/internal/store"
	"github.com/verte-zerg/tuicaptcha/internal/tui"
)

const (
	defaultCelebrate = session.DefaultCelebration
	defaultLogLevel  = "info"
)

var (
	playCelebrate     time.Duration
	playPersistResets bool
	playEphemeral     bool
	playDBPath        string
	playLogLevel      string

	statsSince  string
	statsLast   int
	statsTUI    bool
	statsDBPath string

	resetYes    bool
	resetDBPath string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuicaptcha",
		Short:         "Retype random CAPTCHAs for coins and streaks",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().DurationVar(&playCelebrate, "celebrate", defaultCelebrate, "how long the solved banner stays up")
	rootCmd.Flags().BoolVar(&playPersistResets, "persist-resets", false, "also store zero coins/streak after a reset")
	rootCmd.Flags().BoolVar(&playEphemeral, "ephemeral", false, "keep progress in memory only")
	rootCmd.Flags().StringVar(&playDBPath, "db", "", "database path (default: XDG data dir)")
	rootCmd.Flags().StringVar(&playLogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newNotesCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolvePlayConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogPath)
	if err != nil {
		logErrf("logging disabled: %v\n", err)
		logger = zap.NewNop()
	}
	defer func() {
		_ = logger.Sync()
	}()

	runID := uuid.NewString()
	opts := []session.Option{
		session.WithCelebration(cfg.CelebrateFor),
		session.WithLogger(logger),
	}

	var kv progress.KV
	if cfg.Ephemeral {
		kv = progress.NewMemoryKV()
	} else {
		st, err := store.Open(cfg.DBPath)
		if err != nil {
			logger.Warn("store unavailable, progress will not be saved", zap.String("path", cfg.DBPath), zap.Error(err))
			logErrf("failed to open db, progress will not be saved: %v\n", err)
			kv = progress.NewMemoryKV()
		} else {
			defer func() {
				if cerr := st.Close(); cerr != nil {
					logErrf("failed to close db: %v\n", cerr)
				}
			}()
			kv = st
			opts = append(opts, session.WithJournal(st, runID))
		}
	}

	adapter := progress.NewKVAdapter(kv,
		progress.WithLogger(logger),
		progress.WithPersistResets(cfg.PersistResets))
	sched := tui.NewScheduler()
	sess := session.New(generator.New(), adapter, sched, opts...)
	logger.Info("game started",
		zap.String("run_id", runID),
		zap.Int("score", sess.Score()),
		zap.Int("streak", sess.Streak()))

	program := tea.NewProgram(tui.NewModel(sess, sched), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	logger.Info("game finished",
		zap.String("run_id", runID),
		zap.Int("score", sess.Score()),
		zap.Int("streak", sess.Streak()))
	return nil
}

func resolvePlayConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if fileCfg.Game.Celebrate != nil && !cmd.Flags().Changed("celebrate") {
		d, err := time.ParseDuration(*fileCfg.Game.Celebrate)
		if err != nil {
			return model.Config{}, fmt.Errorf("invalid celebrate value in config: %w", err)
		}
		playCelebrate = d
	}
	applyBoolConfig(cmd, "persist-resets", &playPersistResets, fileCfg.Game.PersistResets)
	applyStringConfig(cmd, "log-level", &playLogLevel, fileCfg.Log.Level)

	cfg := model.Config{
		CelebrateFor:  playCelebrate,
		PersistResets: playPersistResets,
		Ephemeral:     playEphemeral,
		DBPath:        dbPathFor(cmd, playDBPath, fileCfg),
		LogLevel:      playLogLevel,
		LogPath:       config.DefaultLogPath(),
	}
	if fileCfg.Log.Path != nil && *fileCfg.Log.Path != "" {
		cfg.LogPath = *fileCfg.Log.Path
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

// resolveDBPath loads the config file and picks the database path for cmd.
func resolveDBPath(cmd *cobra.Command, flagValue string) (string, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return dbPathFor(cmd, flagValue, fileCfg), nil
}

// dbPathFor prefers --db, then [game].db, then the XDG data dir.
func dbPathFor(cmd *cobra.Command, flagValue string, fileCfg config.FileConfig) string {
	path := flagValue
	if !cmd.Flags().Changed("db") && fileCfg.Game.DBPath != nil {
		path = *fileCfg.Game.DBPath
	}
	if path == "" {
		path = config.DefaultDBPath()
	}
	return path
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
	if err := ensureConfigFile(path); err != nil {
		return err
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

func ensureConfigFile(path string) error {
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
	return nil
}

func newNotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notes",
		Short: "Print the game notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for i, note := range tui.Notes {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, note); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget stored coins and streak",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "do not ask for confirmation")
	cmd.Flags().StringVar(&resetDBPath, "db", "", "database path (default: config or XDG data dir)")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		if !isTerminal(cmd.InOrStdin()) {
			return fmt.Errorf("refusing to reset without a terminal; pass --yes")
		}
		ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), "Reset coins and streak? [y/N] ")
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	path, err := resolveDBPath(cmd, resetDBPath)
	if err != nil {
		return err
	}
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if err := st.Delete(context.Background(), progress.KeyScore, progress.KeyStreak); err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), "Progress reset."); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stored progress and attempt history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N attempts")
	cmd.Flags().BoolVar(&statsTUI, "tui", false, "browse attempts interactively")
	cmd.Flags().StringVar(&statsDBPath, "db", "", "database path (default: config or XDG data dir)")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	cfg := model.StatsConfig{Since: sinceTime, Last: statsLast}

	path, err := resolveDBPath(cmd, statsDBPath)
	if err != nil {
		return err
	}
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	report, err := stats.BuildReport(ctx, st, progress.NewKVAdapter(st), cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if !statsTUI {
		return stats.Render(cmd.OutOrStdout(), report)
	}
	program := tea.NewProgram(statsui.NewModel(report), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuicaptcha configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# celebrate = %q          # How long the solved banner stays up
# persist-resets = false   # Also store zero coins/streak after a reset
# db = ""                  # Database path (default: XDG data dir)

[log]
# level = %q               # debug, info, warn, error
# path = ""                # Log file (default: XDG state dir)
`,
		defaultCelebrate.String(),
		defaultLogLevel,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.CelebrateFor <= 0 {
		return fmt.Errorf("--celebrate must be > 0")
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	if !cfg.Ephemeral && cfg.DBPath == "" {
		return fmt.Errorf("--db must not be empty")
	}
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprint(out, prompt); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func isTerminal(r io.Reader) bool {
	file, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
