package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"karolbroda.com/lyroverlay/internal/config"
)

var (
	// global flags
	mprisService string
	logFile      string
	logLevel     string
	windowsFile  string
	frameMs      int
)

var rootCmd = &cobra.Command{
	Use:   "lyroverlay",
	Short: "karaoke style lyric overlay",
	Long: `lyroverlay renders the current lyric line into one or more overlay windows,
sweeping each word as it is sung. lines arrive from a host over a json-lines
stream and pause state can follow an mpris player.

when run without a subcommand, it starts the overlay reading host calls from stdin.`,
	Version: "1.0.0",
	RunE: func(cmd *cobra.Command, args []string) error {
		readStdin = true
		return runOverlay(cmd, args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&mprisService, "mpris-service", "m", "", "mpris service name (e.g., org.mpris.MediaPlayer2.spotify)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file (default: lyroverlay.log in the temp dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&windowsFile, "windows", "", "toml file describing the overlay windows")
	rootCmd.PersistentFlags().IntVar(&frameMs, "frame-ms", 0, "animation frame interval in milliseconds")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Load()

	if mprisService != "" {
		cfg.MprisService = mprisService
	}
	if windowsFile != "" {
		cfg.WindowsFile = windowsFile
	}
	if cmd.Flags().Changed("frame-ms") {
		if frameMs <= 0 {
			return nil, fmt.Errorf("--frame-ms must be positive, got %d", frameMs)
		}
		cfg.FrameInterval = time.Duration(frameMs) * time.Millisecond
	}
	if logLevel != "" {
		level, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid --log-level: %w", err)
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

// setupLogger points the global logger at out. The terminal belongs to the
// overlay while it runs, so logs go to a file rather than stderr.
func setupLogger(out io.Writer, level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, NoColor: true, TimeFormat: time.RFC3339}).Level(level)
	return log.Logger
}

func defaultLogFile() string {
	return filepath.Join(os.TempDir(), "lyroverlay.log")
}
