package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"karolbroda.com/lyroverlay/internal/overlay"
)

const (
	DefaultMprisService  = "org.mpris.MediaPlayer2.spotify"
	DefaultFrameInterval = overlay.DefaultFrameInterval
	DefaultMaxPending    = overlay.DefaultMaxPending
	DefaultLogLevel      = zerolog.InfoLevel
)

type Config struct {
	MprisService  string
	FrameInterval time.Duration
	MaxPending    int
	LogLevel      zerolog.Level
	WindowsFile   string
}

func Load() *Config {
	_ = godotenv.Load()

	frameInterval := DefaultFrameInterval
	frameMs, err := strconv.Atoi(getEnvOrDefault("FRAME_INTERVAL_MS", ""))
	if err == nil && frameMs > 0 {
		frameInterval = time.Duration(frameMs) * time.Millisecond
	}

	maxPending, err := strconv.Atoi(getEnvOrDefault("MAX_PENDING", ""))
	if err != nil || maxPending <= 0 {
		maxPending = DefaultMaxPending
	}

	level, err := zerolog.ParseLevel(getEnvOrDefault("LOG_LEVEL", DefaultLogLevel.String()))
	if err != nil || level == zerolog.NoLevel {
		level = DefaultLogLevel
	}

	return &Config{
		MprisService:  getEnvOrDefault("MPRIS_SERVICE", DefaultMprisService),
		FrameInterval: frameInterval,
		MaxPending:    maxPending,
		LogLevel:      level,
		WindowsFile:   getEnvOrDefault("WINDOWS_FILE", defaultWindowsFile()),
	}
}

func defaultWindowsFile() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "lyroverlay", "windows.toml")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "windows.toml"
	}
	return filepath.Join(homeDir, ".config", "lyroverlay", "windows.toml")
}

func getEnvOrDefault(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
