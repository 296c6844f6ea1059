package main

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newFlagCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()

	mprisService, logLevel, windowsFile, frameMs = "", "", "", 0
	t.Cleanup(func() {
		mprisService, logLevel, windowsFile, frameMs = "", "", "", 0
	})

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVarP(&mprisService, "mpris-service", "m", "", "")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "")
	cmd.Flags().StringVar(&windowsFile, "windows", "", "")
	cmd.Flags().IntVar(&frameMs, "frame-ms", 0, "")
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	return cmd
}

func TestLoadConfigOverrides(t *testing.T) {
	cmd := newFlagCmd(t, "-m", "org.mpris.MediaPlayer2.mpv", "--log-level", "debug", "--windows", "w.toml", "--frame-ms", "20")

	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.MprisService != "org.mpris.MediaPlayer2.mpv" {
		t.Errorf("MprisService = %q", cfg.MprisService)
	}
	if cfg.LogLevel != zerolog.DebugLevel {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	if cfg.WindowsFile != "w.toml" {
		t.Errorf("WindowsFile = %q", cfg.WindowsFile)
	}
	if cfg.FrameInterval != 20*time.Millisecond {
		t.Errorf("FrameInterval = %v", cfg.FrameInterval)
	}
}

func TestLoadConfigRejectsBadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero frame", []string{"--frame-ms", "0"}},
		{"bad level", []string{"--log-level", "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadConfig(newFlagCmd(t, tt.args...)); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{-1, "0:00"},
		{0, "0:00"},
		{59, "0:59"},
		{215, "3:35"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.secs); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestDemoScriptIsWordTimed(t *testing.T) {
	for i, dl := range demoScript {
		if len(dl.words) == 0 {
			t.Errorf("demo line %d has no words", i)
		}
		for _, w := range dl.words {
			if w.DurationMs == 0 {
				t.Errorf("demo line %d word %q has no duration", i, w.Text)
			}
		}
	}
}
