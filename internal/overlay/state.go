package overlay

import (
	"karolbroda.com/lyroverlay/internal/lyrics"
)

type FontWeight int

const (
	WeightNormal FontWeight = iota
	WeightBold
)

// FontConfig is handed to the renderer untouched; the engine never looks inside.
type FontConfig struct {
	Family string
	Size   float64
	Color  string
	Weight FontWeight
}

type WinData struct {
	Font            FontConfig
	FontSecondary   FontConfig
	WithWordsLyrics bool
}

type State struct {
	Current    lyrics.Line
	CurrentExt lyrics.Line
	Windows    []WinData
}

func newState() *State {
	return &State{
		Current:    lyrics.NewPlainLine(""),
		CurrentExt: lyrics.NewPlainLine(""),
	}
}

func (s *State) clone() State {
	out := *s
	out.Windows = make([]WinData, len(s.Windows))
	copy(out.Windows, s.Windows)
	return out
}

type View struct {
	Index          int
	Win            WinData
	Primary        lyrics.Line
	PrimaryState   lyrics.HighlightState
	Secondary      lyrics.Line
	SecondaryState lyrics.HighlightState
}

type Renderer interface {
	Render(view View) string
}

type Surface interface {
	Handle() string
	Paint(frame string) error
}

type Target struct {
	ID    string
	Class string
}

type Windowing interface {
	CreateSurface(index int, win WinData) (Surface, error)
	FindTarget(class string) (Target, bool)
	DesktopTarget() (Target, bool)
	Embed(surface Surface, target Target) error
}
