package host

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"karolbroda.com/lyroverlay/internal/lyrics"
	"karolbroda.com/lyroverlay/internal/overlay"
	"karolbroda.com/lyroverlay/internal/track"
)

const (
	TaskbarClass = "Shell_TrayWnd"
	DefaultFont  = "Noto Sans SC"
)

var (
	errEmptyPayload = errors.New("empty line payload")
	errMissingWords = errors.New("word timed line has no words array")
)

type Engine interface {
	CreateWindow(win overlay.WinData)
	SetCurrentLine(line lyrics.Line)
	SetCurrentLineWithSecondary(line lyrics.Line, secondary string)
	Seek(positionMs uint64, paused bool)
	SetPaused(paused bool)
	EmbedInto(class string)
	EmbedIntoDesktop()
}

// Bridge is the host call surface. Every call returns immediately and never
// reports failure to the caller; bad input is logged and ignored.
type Bridge struct {
	engine Engine
	window overlay.WinData
	log    zerolog.Logger
}

func NewBridge(engine Engine, log zerolog.Logger) *Bridge {
	return &Bridge{engine: engine, window: DefaultWindow(), log: log}
}

func (b *Bridge) WithWindow(win overlay.WinData) *Bridge {
	b.window = win
	return b
}

func DefaultWindow() overlay.WinData {
	return overlay.WinData{
		Font: overlay.FontConfig{
			Family: DefaultFont,
			Size:   18,
			Color:  "#FFFFFF",
			Weight: overlay.WeightBold,
		},
		FontSecondary: overlay.FontConfig{
			Family: DefaultFont,
			Size:   16,
			Color:  "#FFFFFF",
			Weight: overlay.WeightNormal,
		},
		WithWordsLyrics: false,
	}
}

func (b *Bridge) InitLyricsApp() {
	defer b.guard("init_lyrics_app")
	b.engine.CreateWindow(b.window)
}

// UpdateLyrics replaces the current line. line is a JSON string, an object
// {"words":[{"text","duration_ms"}],"line_index"} or the positional form
// [[[text, duration_ms], ...], line_index]. lineExt is a JSON string or
// absent; any other shape counts as absent.
func (b *Bridge) UpdateLyrics(line json.RawMessage, lineExt json.RawMessage) {
	defer b.guard("update_lyrics")

	parsed, err := ParseLine(line)
	if err != nil {
		b.log.Warn().Err(err).Msg("ignoring malformed lyric line")
		return
	}

	if ext, ok := parseExt(lineExt); ok {
		b.engine.SetCurrentLineWithSecondary(parsed, ext)
		return
	}
	b.engine.SetCurrentLine(parsed)
}

func (b *Bridge) Seek(timeMs uint64, paused bool) {
	defer b.guard("seek")
	b.engine.Seek(timeMs, paused)
}

func (b *Bridge) EmbedIntoTaskbar() {
	defer b.guard("embed_into_taskbar")
	b.engine.EmbedInto(TaskbarClass)
}

func (b *Bridge) EmbedIntoDesktop() {
	defer b.guard("embed_into_desktop")
	b.engine.EmbedIntoDesktop()
}

func (b *Bridge) EmbedIntoAny(class string) {
	defer b.guard("embed_into_any")
	if class == "" {
		b.log.Warn().Msg("embed_into_any without a class name")
		return
	}
	b.engine.EmbedInto(class)
}

func (b *Bridge) ShowText(text string) {
	defer b.guard("show_text")
	b.engine.SetCurrentLine(lyrics.NewPlainLine(text))
}

func (b *Bridge) SetPaused(paused bool) {
	defer b.guard("set_paused")
	b.engine.SetPaused(paused)
}

func (b *Bridge) TrackChanged(info *track.Info) {
	if label := info.Label(); label != "" {
		b.ShowText(label)
	}
}

func (b *Bridge) guard(call string) {
	if r := recover(); r != nil {
		b.log.Error().Str("call", call).Str("panic", fmt.Sprint(r)).Msg("host call failed")
	}
}

type wordPayload struct {
	Text       string `json:"text"`
	DurationMs uint64 `json:"duration_ms"`
}

type linePayload struct {
	Words     *[]wordPayload `json:"words"`
	LineIndex uint32         `json:"line_index"`
}

func ParseLine(raw json.RawMessage) (lyrics.Line, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return lyrics.Line{}, errEmptyPayload
	}

	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return lyrics.Line{}, fmt.Errorf("plain line: %w", err)
		}
		return lyrics.NewPlainLine(text), nil

	case '{':
		var payload linePayload
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return lyrics.Line{}, fmt.Errorf("word timed line: %w", err)
		}
		if payload.Words == nil {
			return lyrics.Line{}, errMissingWords
		}
		words := make([]lyrics.Word, 0, len(*payload.Words))
		for _, w := range *payload.Words {
			words = append(words, lyrics.Word{Text: w.Text, DurationMs: w.DurationMs})
		}
		return lyrics.NewWordTimedLine(words, payload.LineIndex), nil

	case '[':
		return parsePositional(trimmed)

	default:
		return lyrics.Line{}, fmt.Errorf("unexpected line payload %.20q", trimmed)
	}
}

func parsePositional(raw []byte) (lyrics.Line, error) {
	var tuple []json.RawMessage
	if err := json.Unmarshal(raw, &tuple); err != nil {
		return lyrics.Line{}, fmt.Errorf("positional line: %w", err)
	}
	if len(tuple) != 2 {
		return lyrics.Line{}, fmt.Errorf("positional line has %d elements, want 2", len(tuple))
	}

	var entries [][]json.RawMessage
	if err := json.Unmarshal(tuple[0], &entries); err != nil {
		return lyrics.Line{}, fmt.Errorf("positional words: %w", err)
	}

	var index uint32
	if err := json.Unmarshal(tuple[1], &index); err != nil {
		return lyrics.Line{}, fmt.Errorf("positional line index: %w", err)
	}

	words := make([]lyrics.Word, 0, len(entries))
	for i, entry := range entries {
		if len(entry) != 2 {
			return lyrics.Line{}, fmt.Errorf("word %d has %d elements, want 2", i, len(entry))
		}
		var w lyrics.Word
		if err := json.Unmarshal(entry[0], &w.Text); err != nil {
			return lyrics.Line{}, fmt.Errorf("word %d text: %w", i, err)
		}
		if err := json.Unmarshal(entry[1], &w.DurationMs); err != nil {
			return lyrics.Line{}, fmt.Errorf("word %d duration: %w", i, err)
		}
		words = append(words, w)
	}

	return lyrics.NewWordTimedLine(words, index), nil
}

func parseExt(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", false
	}
	var text string
	if err := json.Unmarshal(trimmed, &text); err != nil {
		return "", false
	}
	return text, true
}
