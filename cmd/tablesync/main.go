package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tablesync/internal/config"
	"github.com/vango-dev/tablesync/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "tablesync",
		Short: "Server-driven sortable, searchable tables",
		Long: `tablesync serves interactive tables over websockets.

Sorting, column filters and the global search run on the server.
Every state change is mirrored into the page URL, so links and the
back button restore the exact view.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to tablesync.json or its directory (default: working directory)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")

	rootCmd.AddCommand(
		serveCmd(opts),
		urlCmd(),
		sortCmd(),
		initCmd(),
		versionCmd(),
	)

	return rootCmd
}

// loadConfig resolves --config and --log-level into a validated config.
// A missing file means defaults.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch fi, statErr := os.Stat(o.configPath); {
	case o.configPath == "":
		cfg, err = config.LoadOrDefault(".")
	case statErr == nil && fi.IsDir():
		cfg, err = config.LoadOrDefault(o.configPath)
	default:
		cfg, err = config.LoadFile(o.configPath)
	}
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger from the log section.
func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

func configFile(dir string) string {
	return filepath.Join(dir, config.ConfigFileName)
}
