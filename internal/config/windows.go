package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"karolbroda.com/lyroverlay/internal/overlay"
)

type tomlFont struct {
	Family string      `toml:"family"`
	Size   interface{} `toml:"size"`
	Color  string      `toml:"color"`
	Weight string      `toml:"weight"`
}

type tomlWindow struct {
	Font            tomlFont `toml:"font"`
	FontSecondary   tomlFont `toml:"font_secondary"`
	WithWordsLyrics *bool    `toml:"with_words_lyrics"`
}

type tomlWindows struct {
	Windows []tomlWindow `toml:"window"`
}

// LoadWindows reads the overlay windows to open at startup. Unset fields are
// taken from fallback. A missing file yields no windows and no error.
func LoadWindows(path string, fallback overlay.WinData) ([]overlay.WinData, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	var doc tomlWindows
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	wins := make([]overlay.WinData, 0, len(doc.Windows))
	for i, w := range doc.Windows {
		font, err := w.Font.merge(fallback.Font)
		if err != nil {
			return nil, fmt.Errorf("window %d font: %w", i, err)
		}
		secondary, err := w.FontSecondary.merge(fallback.FontSecondary)
		if err != nil {
			return nil, fmt.Errorf("window %d secondary font: %w", i, err)
		}

		withWords := fallback.WithWordsLyrics
		if w.WithWordsLyrics != nil {
			withWords = *w.WithWordsLyrics
		}

		wins = append(wins, overlay.WinData{
			Font:            font,
			FontSecondary:   secondary,
			WithWordsLyrics: withWords,
		})
	}
	return wins, nil
}

func (f tomlFont) merge(fallback overlay.FontConfig) (overlay.FontConfig, error) {
	out := fallback
	if f.Family != "" {
		out.Family = f.Family
	}

	size, err := fontSize(f.Size)
	if err != nil {
		return out, err
	}
	if size > 0 {
		out.Size = size
	}
	if f.Color != "" {
		out.Color = f.Color
	}

	switch strings.ToLower(f.Weight) {
	case "":
	case "normal", "regular":
		out.Weight = overlay.WeightNormal
	case "bold":
		out.Weight = overlay.WeightBold
	default:
		return out, fmt.Errorf("unknown font weight %q", f.Weight)
	}
	return out, nil
}

// toml keeps integers and floats apart; sizes may be written either way
func fontSize(v interface{}) (float64, error) {
	switch typed := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return float64(typed), nil
	case float64:
		return typed, nil
	default:
		return 0, fmt.Errorf("font size must be a number, got %T", v)
	}
}
