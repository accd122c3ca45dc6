// Command chatclient is a terminal front end for the chat backend.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zhouzirui/z-chat/backend/internal/client"
	"github.com/zhouzirui/z-chat/backend/internal/config"
	"github.com/zhouzirui/z-chat/backend/internal/logging"
	"github.com/zhouzirui/z-chat/backend/internal/tui"
)

var (
	serverURL string
	plain     bool
	markdown  bool
	logFile   string
	timeout   time.Duration
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "chatclient",
	Short: "Chat with the bot from your terminal",
	Long: `chatclient connects to the chat backend and shows the conversation in a
terminal UI. The greeting is requested on start; type a message and press
enter to send it. Use --plain for a line-based session, e.g. when piping input.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&serverURL, "server", "", "Backend base URL (or set CHAT_SERVER_URL)")
	rootCmd.Flags().BoolVar(&plain, "plain", false, "Line mode: read messages from stdin, print replies to stdout")
	rootCmd.Flags().BoolVar(&markdown, "markdown", false, "Render bot replies as markdown")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Write diagnostics to this file (or set CHAT_LOG_FILE)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-request timeout, 0 for none (or set CHAT_TIMEOUT)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	level := "info"
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	c, err := client.New(cfg.ServerURL, client.WithTimeout(cfg.Timeout))
	if err != nil {
		return err
	}
	defer c.CloseIdleConnections()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("chat client starting",
		zap.String("server", cfg.ServerURL),
		zap.Bool("plain", plain),
		zap.Duration("timeout", cfg.Timeout),
	)

	if plain {
		return runPlain(ctx, c, logger, cmd.InOrStdin(), cmd.OutOrStdout())
	}

	model := tui.New(ctx, c, tui.Options{
		Markdown: markdown,
		Logger:   logger,
		Title:    "z-chat · " + cfg.ServerURL,
	})
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}

// applyFlags lets explicitly set flags override the CHAT_* environment.
func applyFlags(cmd *cobra.Command, cfg *config.ClientConfig) {
	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.ServerURL = serverURL
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeout
	}
}
