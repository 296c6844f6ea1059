package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"karolbroda.com/lyroverlay/internal/host"
	"karolbroda.com/lyroverlay/internal/lyrics"
)

var (
	demoEmbed string
	demoLoops int
)

type demoLine struct {
	words       []lyrics.Word
	translation string
}

var demoScript = []demoLine{
	{
		words: []lyrics.Word{
			{Text: "Twinkle ", DurationMs: 600}, {Text: "twinkle ", DurationMs: 600},
			{Text: "little ", DurationMs: 600}, {Text: "star", DurationMs: 1200},
		},
		translation: "一闪一闪亮晶晶",
	},
	{
		words: []lyrics.Word{
			{Text: "How ", DurationMs: 500}, {Text: "I ", DurationMs: 400},
			{Text: "wonder ", DurationMs: 700}, {Text: "what ", DurationMs: 500},
			{Text: "you ", DurationMs: 500}, {Text: "are", DurationMs: 1200},
		},
		translation: "满天都是小星星",
	},
	{
		words: []lyrics.Word{
			{Text: "Up ", DurationMs: 500}, {Text: "above ", DurationMs: 700},
			{Text: "the ", DurationMs: 300}, {Text: "world ", DurationMs: 700},
			{Text: "so ", DurationMs: 500}, {Text: "high", DurationMs: 1200},
		},
	},
}

const demoGap = 400 * time.Millisecond

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "play a scripted song through the overlay",
	Long:  `opens the overlay and plays a few word-timed lines with translations, without a host.`,
	RunE:  runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().StringVar(&demoEmbed, "embed", "", "embed the overlay after opening (taskbar, desktop or a window class)")
	demoCmd.Flags().IntVar(&demoLoops, "loops", 0, "number of times to play the script (0 loops forever)")
}

func runDemo(cmd *cobra.Command, args []string) error {
	if demoLoops < 0 {
		return fmt.Errorf("--loops must not be negative, got %d", demoLoops)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	s, err := newSession(cmd, false)
	if err != nil {
		return err
	}

	if len(s.windows) == 0 {
		// the scripted lines are word timed; show the sweep by default
		win := host.DefaultWindow()
		win.WithWordsLyrics = true
		s.bridge.WithWindow(win)
	}
	s.openWindows()

	switch strings.ToLower(demoEmbed) {
	case "":
	case "taskbar":
		s.bridge.EmbedIntoTaskbar()
	case "desktop":
		s.bridge.EmbedIntoDesktop()
	default:
		s.backend.RegisterTarget(demoEmbed)
		s.bridge.EmbedIntoAny(demoEmbed)
	}

	go func() {
		playScript(ctx, s, demoLoops)
		if demoLoops > 0 {
			s.program.Quit()
		}
	}()

	return s.run(ctx)
}

func playScript(ctx context.Context, s *session, loops int) {
	for loop := 0; loops == 0 || loop < loops; loop++ {
		for i, dl := range demoScript {
			line := lyrics.NewWordTimedLine(dl.words, uint32(i))
			if dl.translation != "" {
				s.engine.SetCurrentLineWithSecondary(line, dl.translation)
			} else {
				s.engine.SetCurrentLine(line)
			}

			wait := time.Duration(line.FullDuration())*time.Millisecond + demoGap
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
		}
	}
}
