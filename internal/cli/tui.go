package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ppiankov/aletheia/internal/api"
	"github.com/ppiankov/aletheia/internal/logging"
	"github.com/ppiankov/aletheia/internal/model"
	"github.com/ppiankov/aletheia/internal/tui"
	"github.com/spf13/cobra"
)

var logFile string

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive terminal interface",
	Long: `TUI opens the interactive interface:
- Type a claim, article URL or topic and press Enter
- Or pick one of the trending articles with the arrow keys
- Tab switches between reader and journalist mode

Logs are written to a file because the interface owns the terminal.

Example:
  aletheia tui
  aletheia tui --mode journalist --log-file /tmp/aletheia.log`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().StringVar(&logFile, "log-file", "", "log file path (default: $HOME/.aletheia/aletheia.log when verbose)")
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, closeLog, err := tuiLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	client := api.NewClientFromConfig(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return tui.Run(ctx, client, client, tui.Options{
		Mode:         userMode(cfg),
		Timeout:      cfg.HTTP.Timeout,
		ArticleLimit: cfg.API.ArticleLimit,
		Logger:       logger,
	})
}

// tuiLogger keeps log output off the terminal. Without a log file and without
// --verbose, logs are discarded.
func tuiLogger(cfg *model.Config) (*slog.Logger, func(), error) {
	path := logFile
	if path == "" && cfg.Output.Verbose {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("find home directory: %w", err)
		}
		path = filepath.Join(home, ".aletheia", "aletheia.log")
	}
	if path == "" {
		return logging.Discard(), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return logging.NewWithWriter(f, cfg.Logging.Level), func() { _ = f.Close() }, nil
}
