package host

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	callPrefix    = "rulyrics."
	maxLineLength = 1 << 20
)

type Command struct {
	Call string            `json:"call"`
	Args []json.RawMessage `json:"args"`
}

func (c Command) arg(i int) json.RawMessage {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return nil
}

type Stream struct {
	bridge *Bridge
}

func NewStream(bridge *Bridge) *Stream {
	return &Stream{bridge: bridge}
}

func (s *Stream) Run(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		var cmd Command
		if err := json.Unmarshal([]byte(text), &cmd); err != nil {
			s.bridge.log.Warn().Err(err).Int("line", lineNo).Msg("skipping malformed command")
			continue
		}

		if err := s.Dispatch(cmd); err != nil {
			s.bridge.log.Warn().Err(err).Int("line", lineNo).Str("call", cmd.Call).Msg("skipping command")
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read host commands: %w", err)
	}
	return nil
}

func (s *Stream) Dispatch(cmd Command) error {
	b := s.bridge

	switch strings.TrimPrefix(cmd.Call, callPrefix) {
	case "init_lyrics_app":
		b.InitLyricsApp()

	case "update_lyrics":
		b.UpdateLyrics(cmd.arg(0), cmd.arg(1))

	case "seek":
		var timeMs uint64
		var paused bool
		if err := json.Unmarshal(cmd.arg(0), &timeMs); err != nil {
			return fmt.Errorf("seek time: %w", err)
		}
		if raw := cmd.arg(1); raw != nil {
			if err := json.Unmarshal(raw, &paused); err != nil {
				return fmt.Errorf("seek paused: %w", err)
			}
		}
		b.Seek(timeMs, paused)

	case "set_paused":
		var paused bool
		if err := json.Unmarshal(cmd.arg(0), &paused); err != nil {
			return fmt.Errorf("set_paused: %w", err)
		}
		b.SetPaused(paused)

	case "embed_into_taskbar":
		b.EmbedIntoTaskbar()

	case "embed_into_desktop":
		b.EmbedIntoDesktop()

	case "embed_into_any":
		var class string
		if err := json.Unmarshal(cmd.arg(0), &class); err != nil {
			return fmt.Errorf("embed_into_any class: %w", err)
		}
		b.EmbedIntoAny(class)

	case "show_text":
		var text string
		if err := json.Unmarshal(cmd.arg(0), &text); err != nil {
			return fmt.Errorf("show_text: %w", err)
		}
		b.ShowText(text)

	default:
		return fmt.Errorf("unknown call %q", cmd.Call)
	}

	return nil
}
