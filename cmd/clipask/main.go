package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/clipask/clipask/internal/clipboard"
	"github.com/clipask/clipask/internal/config"
	"github.com/clipask/clipask/internal/daemon"
	"github.com/clipask/clipask/internal/poll"
	"github.com/clipask/clipask/internal/proxy"
)

var version = "dev"

const reasonConfig = "configuration"

var rootCmd = &cobra.Command{
	Use:   "clipask",
	Short: "Answer questions copied to the clipboard",
	Long: `clipask watches the system clipboard. When new text of at least
poll.min_question_length characters appears, it is sent to OpenRouter and the
answer replaces the clipboard contents.

The API key is read from CLIPASK_OPENROUTER_API_KEY (or OPENROUTER_API_KEY),
either from the environment or from a .env file.
Press Ctrl+C to stop.`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return run(ctx)
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		printError("%v", err)
		var se *daemon.SetupError
		if errors.As(err, &se) && se.Reason == reasonConfig {
			fmt.Fprintln(console, "  Get a key at: https://openrouter.ai/keys")
		}
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	fmt.Fprintln(console, colorize(colorBold, "clipask "+version))

	cfg, err := config.Load()
	if err != nil {
		return &daemon.SetupError{Reason: reasonConfig, Cause: err}
	}

	logger := newLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	for _, k := range config.ShowAll(cfg) {
		printStatus(k.Key, "%s", k.Value)
	}

	backend := clipboard.Detect(runtime.GOOS)
	logger.Debug("clipboard backend selected", "backend", backend.Name())

	client := proxy.NewClientWithBaseURL(cfg.Proxy.OpenRouterAPIKey, cfg.Proxy.Model, cfg.Proxy.BaseURL)

	logger.Debug("answer client ready", "model", client.Model(), "base_url", cfg.Proxy.BaseURL)
	err = daemon.Run(ctx, daemon.Deps{
		Asker:     client,
		Clipboard: clipboard.NewPort(backend, logger),
		Options: poll.Options{
			Interval:          cfg.Poll.Interval,
			Cooldown:          cfg.Poll.Cooldown,
			MinQuestionLength: cfg.Poll.MinQuestionLength,
			IgnoreOwnAnswers:  cfg.Poll.IgnoreOwnAnswers,
			Reporter:          consoleReporter{},
			Logger:            logger,
		},
		Out:    startupWriter{},
		Logger: logger,
	})
	if err != nil {
		return err
	}
	printSuccess("Stopped")
	return nil
}

// startupWriter routes the daemon's probe progress through printStatus.
type startupWriter struct{}

func (startupWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if label, val, ok := strings.Cut(line, ": "); ok {
			printStatus(label, "%s", val)
		} else if line != "" {
			printStatus("info", "%s", line)
		}
	}
	return len(p), nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		printWarning("unknown log level %q, using info", level)
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
