// Package main provides the CLI entrypoint for tuispeak.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuispeak/internal/capture"
	"github.com/verte-zerg/tuispeak/internal/config"
	"github.com/verte-zerg/tuispeak/internal/evaluator"
	"github.com/verte-zerg/tuispeak/internal/i18n"
	"github.com/verte-zerg/tuispeak/internal/logging"
	"github.com/verte-zerg/tuispeak/internal/model"
	"github.com/verte-zerg/tuispeak/internal/prompts"
	"github.com/verte-zerg/tuispeak/internal/recorder"
	"github.com/verte-zerg/tuispeak/internal/server"
	"github.com/verte-zerg/tuispeak/internal/stats"
	"github.com/verte-zerg/tuispeak/internal/statsui"
	"github.com/verte-zerg/tuispeak/internal/store"
	"github.com/verte-zerg/tuispeak/internal/tui"
)

const (
	defaultServerURL   = "http://127.0.0.1:8080"
	defaultAddr        = "127.0.0.1:8080"
	defaultTopic       = "daily"
	defaultSampleRate  = 16000
	defaultChannels    = 1
	defaultToastTTL    = "3s"
	defaultLogLevel    = "info"
	defaultLast        = 20
	defaultCurveWindow = 5
	eventBuffer        = 64
)

var (
	practiceLang       string
	practiceTopic      string
	practiceText       string
	practiceServer     string
	practiceTimeout    string
	practiceCapture    string
	practiceSampleRate int
	practiceChannels   int
	practiceToastTTL   string

	serveAddr string
	serveDB   string
	serveSeed int64

	historyServer      string
	historyTopic       string
	historySince       string
	historyLast        int
	historyCurveWindow int
	historyTUI         bool

	logLevel string
	logDir   string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuispeak",
		Short:         "TUI speech practice recorder",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "directory for log files (default: XDG state dir)")

	rootCmd.Flags().StringVar(&practiceLang, "lang", "", "UI language: en, zh or vi (default: from $LANG)")
	rootCmd.Flags().StringVar(&practiceTopic, "topic", defaultTopic, "practice topic")
	rootCmd.Flags().StringVar(&practiceText, "text", "", "initial practice text")
	rootCmd.Flags().StringVar(&practiceServer, "server", defaultServerURL, "scoring server base URL")
	rootCmd.Flags().StringVar(&practiceTimeout, "timeout", "", "evaluation timeout, e.g. 30s (default: none)")
	rootCmd.Flags().StringVar(&practiceCapture, "capture", "", "capture command writing raw S16_LE PCM to stdout (default: arecord)")
	rootCmd.Flags().IntVar(&practiceSampleRate, "sample-rate", defaultSampleRate, "capture sample rate in Hz")
	rootCmd.Flags().IntVar(&practiceChannels, "channels", defaultChannels, "capture channel count")
	rootCmd.Flags().StringVar(&practiceToastTTL, "toast-ttl", defaultToastTTL, "how long notifications stay visible")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func loadFileConfig(cmd *cobra.Command) (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-dir", &logDir, fileCfg.Log.Dir)
	return fileCfg, nil
}

func newLogger(name string, console bool) (*zap.SugaredLogger, error) {
	dir := logDir
	if dir == "" {
		dir = config.DefaultLogDir()
	}
	logger, err := logging.New(logging.Name(name), logging.Dir(dir), logging.Level(logLevel), logging.Console(console))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

func syncLogger(logger *zap.SugaredLogger) {
	if err := logger.Sync(); err != nil && !isIgnorableSyncError(err) {
		_, _ = fmt.Fprintf(os.Stderr, "failed to flush logs: %v\n", err)
	}
}

// isIgnorableSyncError reports errors from fsync on a terminal or pipe.
func isIgnorableSyncError(err error) bool {
	return errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL)
}

func buildPracticeConfig(cmd *cobra.Command, fileCfg config.FileConfig) (model.Config, error) {
	applyStringConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyStringConfig(cmd, "topic", &practiceTopic, fileCfg.Practice.Topic)
	applyStringConfig(cmd, "server", &practiceServer, fileCfg.Evaluation.URL)
	applyStringConfig(cmd, "timeout", &practiceTimeout, fileCfg.Evaluation.Timeout)
	applyIntConfig(cmd, "sample-rate", &practiceSampleRate, fileCfg.Capture.SampleRate)
	applyIntConfig(cmd, "channels", &practiceChannels, fileCfg.Capture.Channels)
	applyStringConfig(cmd, "toast-ttl", &practiceToastTTL, fileCfg.Practice.ToastTTL)

	timeout, err := config.ParseDuration("--timeout", practiceTimeout)
	if err != nil {
		return model.Config{}, err
	}
	toastTTL, err := config.ParseDuration("--toast-ttl", practiceToastTTL)
	if err != nil {
		return model.Config{}, err
	}

	lang := i18n.FromEnv()
	if strings.TrimSpace(practiceLang) != "" {
		lang = i18n.Match(practiceLang)
	}

	captureCmd := fileCfg.Capture.Command
	if cmd.Flags().Changed("capture") {
		captureCmd = strings.Fields(practiceCapture)
	}
	format := capture.Format{SampleRate: practiceSampleRate, Channels: practiceChannels, BitsPerSample: 16}
	if len(captureCmd) == 0 {
		captureCmd = capture.DefaultCommand(format)
	}

	samples, err := loadSamples(fileCfg)
	if err != nil {
		return model.Config{}, err
	}

	cfg := model.Config{
		Lang:        string(lang),
		Topic:       practiceTopic,
		Topics:      fileCfg.Practice.Topics,
		Text:        practiceText,
		ServerURL:   strings.TrimRight(practiceServer, "/"),
		Timeout:     timeout,
		CaptureCmd:  captureCmd,
		SampleRate:  practiceSampleRate,
		Channels:    practiceChannels,
		ToastTTL:    toastTTL,
		SampleTexts: samples,
	}
	if err := config.Validate(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

// loadSamples merges inline [samples] with the sentence files named under
// practice.sample-files. File sentences follow inline ones for the same topic.
func loadSamples(fileCfg config.FileConfig) (map[string][]string, error) {
	if len(fileCfg.Practice.SampleFiles) == 0 {
		return fileCfg.Samples, nil
	}
	samples := make(map[string][]string, len(fileCfg.Samples)+len(fileCfg.Practice.SampleFiles))
	for topic, sentences := range fileCfg.Samples {
		samples[topic] = append([]string(nil), sentences...)
	}
	for topic, path := range fileCfg.Practice.SampleFiles {
		sentences, err := prompts.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load samples for topic %q: %w", topic, err)
		}
		samples[topic] = append(samples[topic], sentences...)
	}
	return samples, nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	cfg, err := buildPracticeConfig(cmd, fileCfg)
	if err != nil {
		return err
	}
	logger, err := newLogger("practice", false)
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	format := capture.Format{SampleRate: cfg.SampleRate, Channels: cfg.Channels, BitsPerSample: 16}
	if err := format.Validate(); err != nil {
		return fmt.Errorf("invalid capture format: %w", err)
	}
	device := capture.NewCommandDevice(cfg.CaptureCmd, format, logger.Named("capture"))
	client := evaluator.New(cfg.ServerURL, 0, logger.Named("evaluator"))
	reporter := recorder.NewChannelReporter(eventBuffer)
	ctrl := recorder.New(device, client, reporter,
		recorder.WithLogger(logger.Named("recorder")),
		recorder.WithTimeout(cfg.Timeout),
	)

	bank := prompts.New(cfg.SampleTexts)
	logger.Infow("practice session starting", "lang", cfg.Lang, "topic", cfg.Topic, "server", cfg.ServerURL, "capture", strings.Join(cfg.CaptureCmd, " "))

	ui := tui.NewModel(ctrl, reporter.Events(), bank, tui.Options{
		Lang:     i18n.Lang(cfg.Lang),
		Topics:   cfg.Topics,
		Topic:    cfg.Topic,
		Text:     cfg.Text,
		ToastTTL: cfg.ToastTTL,
		Logger:   logger.Named("tui"),
	})
	program := tea.NewProgram(ui, tea.WithAltScreen())
	_, runErr := program.Run()

	// Release the microphone if the UI exited abnormally, then drain evaluations so
	// the reporter channel keeps being read while they finish.
	ctrl.Abandon()
	drained := make(chan struct{})
	go func() {
		ctrl.Wait()
		close(drained)
	}()
drain:
	for {
		select {
		case <-reporter.Events():
		case <-drained:
			break drain
		}
	}
	if runErr != nil {
		return fmt.Errorf("failed to run TUI: %w", runErr)
	}
	return nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scoring server",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address (host:port)")
	cmd.Flags().StringVar(&serveDB, "db", "", "SQLite database path (default: XDG data dir)")
	cmd.Flags().Int64Var(&serveSeed, "seed", 0, "scorer random seed (default: current time)")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Server.Addr)
	applyStringConfig(cmd, "db", &serveDB, fileCfg.Server.DBPath)
	if serveDB == "" {
		serveDB = config.DefaultDBPath()
	}
	cfg := model.ServerConfig{Addr: serveAddr, DBPath: serveDB}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	logger, err := newLogger("server", true)
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warnw("failed to close db", "error", cerr)
		}
	}()

	seed := serveSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	srv := server.New(st, server.NewRandomScorer(seed), logger.Named("http"))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Infow("starting scoring server", "addr", cfg.Addr, "db", cfg.DBPath)
	if err := srv.Run(ctx, cfg.Addr); err != nil {
		return fmt.Errorf("failed to run server: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show practice history from the scoring server",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyServer, "server", defaultServerURL, "scoring server base URL")
	cmd.Flags().StringVar(&historyTopic, "topic", "", "topic filter")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", defaultLast, "limit to last N attempts (1-500)")
	cmd.Flags().IntVar(&historyCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&historyTUI, "tui", false, "browse history interactively")
	return cmd
}

func buildHistoryConfig() (model.HistoryConfig, error) {
	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return model.HistoryConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	cfg := model.HistoryConfig{Topic: historyTopic, Since: sinceTime, Last: historyLast, CurveWindow: historyCurveWindow}
	if err := config.Validate(cfg); err != nil {
		return model.HistoryConfig{}, err
	}
	return cfg, nil
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "server", &historyServer, fileCfg.Evaluation.URL)

	cfg, err := buildHistoryConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger("history", false)
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	timeout, err := config.ParseDuration("timeout", derefString(fileCfg.Evaluation.Timeout))
	if err != nil {
		return err
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	client := evaluator.New(strings.TrimRight(historyServer, "/"), timeout, logger.Named("evaluator"))

	if historyTUI {
		program := tea.NewProgram(statsui.NewModel(client, cfg), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run history TUI: %w", err)
		}
		return nil
	}

	report, err := stats.BuildReport(cmd.Context(), client, cfg)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	width := stats.TerminalWidth(os.Stdout)
	if err := report.Render(cmd.OutOrStdout(), cfg, width); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List practice topics and their sample sentences",
		Args:  cobra.NoArgs,
		RunE:  runTopicsCmd,
	}
}

func runTopicsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	lang := i18n.FromEnv()
	if fileCfg.Practice.Lang != nil {
		lang = i18n.Match(*fileCfg.Practice.Lang)
	}
	samples, err := loadSamples(fileCfg)
	if err != nil {
		return err
	}
	bank := prompts.New(samples)
	out := cmd.OutOrStdout()
	for _, topic := range bank.Topics() {
		if _, err := fmt.Fprintf(out, "%-10s %s (%d)\n", topic, lang.TopicName(topic), len(bank.Sentences(topic))); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
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

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		return
	}
	*target = *value
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuispeak configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lang = "en"                 # UI language: en, zh or vi (default: from $LANG)
# topic = %q              # Initial topic
# topics = ["daily", "travel", "business", "academic", "intro"]
# toast-ttl = %q              # How long notifications stay visible
# sample-files = { travel = "/path/to/travel.txt" }  # One sentence per line

[capture]
# command = ["arecord", "-q", "-t", "raw", "-f", "S16_LE", "-r", "16000", "-c", "1"]
# sample-rate = %d
# channels = %d

[evaluation]
# url = %q
# timeout = "30s"             # Empty means wait for the server

[server]
# addr = %q
# db = "/path/to/tuispeak.db"

[log]
# level = %q
# dir = "/path/to/logs"

# Sample sentences per topic replace the built-in ones (ctrl+g in the practice UI).
# [samples]
# travel = ["Where is the nearest train station?", "I would like to check in."]
`,
		defaultTopic,
		defaultToastTTL,
		defaultSampleRate,
		defaultChannels,
		defaultServerURL,
		defaultAddr,
		defaultLogLevel,
	)
}
