package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"karolbroda.com/lyroverlay/internal/lyrics"
	"karolbroda.com/lyroverlay/internal/overlay"
	"karolbroda.com/lyroverlay/internal/track"
)

type call struct {
	name      string
	line      lyrics.Line
	secondary string
	arg       string
}

type fakeEngine struct {
	calls []call
	panic bool
}

func (f *fakeEngine) record(c call) {
	if f.panic {
		panic("engine exploded")
	}
	f.calls = append(f.calls, c)
}

func (f *fakeEngine) CreateWindow(win overlay.WinData) {
	f.record(call{name: "create", arg: win.Font.Family})
}

func (f *fakeEngine) SetCurrentLine(line lyrics.Line) {
	f.record(call{name: "line", line: line})
}

func (f *fakeEngine) SetCurrentLineWithSecondary(line lyrics.Line, secondary string) {
	f.record(call{name: "line+ext", line: line, secondary: secondary})
}

func (f *fakeEngine) Seek(positionMs uint64, paused bool) {
	f.record(call{name: "seek", arg: fmt.Sprintf("%d/%v", positionMs, paused)})
}

func (f *fakeEngine) SetPaused(paused bool) {
	f.record(call{name: "pause", arg: fmt.Sprint(paused)})
}

func (f *fakeEngine) EmbedInto(class string) {
	f.record(call{name: "embed", arg: class})
}

func (f *fakeEngine) EmbedIntoDesktop() {
	f.record(call{name: "embed", arg: "desktop"})
}

func newTestBridge() (*Bridge, *fakeEngine) {
	eng := &fakeEngine{}
	return NewBridge(eng, zerolog.Nop()), eng
}

func raw(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	return json.RawMessage(s)
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantKind  lyrics.Kind
		wantText  string
		wantIndex uint32
		wantWords int
		wantErr   bool
	}{
		{name: "plain", payload: `"just text"`, wantKind: lyrics.KindPlain, wantText: "just text"},
		{name: "object", payload: `{"words":[{"text":"Hello ","duration_ms":1000},{"text":"world","duration_ms":1000}],"line_index":3}`,
			wantKind: lyrics.KindWordTimed, wantText: "Hello world", wantIndex: 3, wantWords: 2},
		{name: "positional", payload: `[[["Hello ",1000],["world",1000]],7]`,
			wantKind: lyrics.KindWordTimed, wantText: "Hello world", wantIndex: 7, wantWords: 2},
		{name: "positional empty words", payload: `[[],0]`, wantKind: lyrics.KindWordTimed},
		{name: "number", payload: `42`, wantErr: true},
		{name: "null", payload: `null`, wantErr: true},
		{name: "empty", payload: ``, wantErr: true},
		{name: "bad duration", payload: `[[["a",-1]],0]`, wantErr: true},
		{name: "short word", payload: `[[["a"]],0]`, wantErr: true},
		{name: "short tuple", payload: `[[["a",1]]]`, wantErr: true},
		{name: "broken object", payload: `{"words":`, wantErr: true},
		{name: "object without words", payload: `{"foo":1}`, wantErr: true},
		{name: "object with null words", payload: `{"words":null,"line_index":2}`, wantErr: true},
		{name: "object with empty words", payload: `{"words":[],"line_index":2}`, wantKind: lyrics.KindWordTimed, wantIndex: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := ParseLine(raw(tt.payload))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", line)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLine: %v", err)
			}
			if line.Kind() != tt.wantKind || line.Text() != tt.wantText || line.Index() != tt.wantIndex || line.WordCount() != tt.wantWords {
				t.Errorf("got kind=%v text=%q index=%d words=%d", line.Kind(), line.Text(), line.Index(), line.WordCount())
			}
		})
	}
}

func TestUpdateLyrics(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		ext      string
		wantCall string
		wantExt  string
	}{
		{"plain without ext", `"just text"`, "", "line", ""},
		{"words with ext", `[[["Hello ",1000],["world",1000]],0]`, `"你好世界"`, "line+ext", "你好世界"},
		{"null ext is absent", `"just text"`, `null`, "line", ""},
		{"object ext is absent", `"just text"`, `{"x":1}`, "line", ""},
		{"number ext is absent", `"just text"`, `5`, "line", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, eng := newTestBridge()
			b.UpdateLyrics(raw(tt.line), raw(tt.ext))

			if len(eng.calls) != 1 {
				t.Fatalf("calls = %d, want 1", len(eng.calls))
			}
			got := eng.calls[0]
			if got.name != tt.wantCall || got.secondary != tt.wantExt {
				t.Errorf("call = %s(%q), want %s(%q)", got.name, got.secondary, tt.wantCall, tt.wantExt)
			}
		})
	}
}

func TestUpdateLyricsMalformedIsNoop(t *testing.T) {
	b, eng := newTestBridge()
	b.UpdateLyrics(raw(`true`), raw(`"ext"`))
	b.UpdateLyrics(nil, nil)
	b.UpdateLyrics(raw(`{"foo":1}`), nil)
	b.UpdateLyrics(raw(`{"words":null}`), raw(`"ext"`))
	if len(eng.calls) != 0 {
		t.Errorf("malformed payloads reached the engine: %+v", eng.calls)
	}
}

func TestBridgeCalls(t *testing.T) {
	b, eng := newTestBridge()

	b.InitLyricsApp()
	b.Seek(1500, true)
	b.EmbedIntoTaskbar()
	b.EmbedIntoDesktop()
	b.EmbedIntoAny("Custom")
	b.EmbedIntoAny("")
	b.SetPaused(false)
	b.TrackChanged(&track.Info{Title: "Song", Artist: "Band"})
	b.TrackChanged(&track.Info{})

	want := []string{
		"create:" + DefaultFont,
		"seek:1500/true",
		"embed:" + TaskbarClass,
		"embed:desktop",
		"embed:Custom",
		"pause:false",
		"line:Band - Song",
	}

	var got []string
	for _, c := range eng.calls {
		arg := c.arg
		if c.name == "line" {
			arg = c.line.Text()
		}
		got = append(got, c.name+":"+arg)
	}

	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("calls =\n%v\nwant\n%v", got, want)
	}
}

func TestDefaultWindow(t *testing.T) {
	win := DefaultWindow()
	if win.WithWordsLyrics {
		t.Errorf("default window should fade whole lines")
	}
	if win.Font.Family != DefaultFont || win.Font.Size != 18 || win.Font.Weight != overlay.WeightBold {
		t.Errorf("font = %+v", win.Font)
	}
	if win.FontSecondary.Size != 16 || win.FontSecondary.Weight != overlay.WeightNormal {
		t.Errorf("secondary font = %+v", win.FontSecondary)
	}
}

func TestBridgeRecoversPanics(t *testing.T) {
	eng := &fakeEngine{panic: true}
	b := NewBridge(eng, zerolog.Nop())

	b.InitLyricsApp()
	b.UpdateLyrics(raw(`"x"`), nil)
	b.Seek(0, false)
	b.EmbedIntoTaskbar()
	b.EmbedIntoDesktop()
	b.EmbedIntoAny("x")
	b.ShowText("x")
	b.SetPaused(true)
}

func TestStreamDispatch(t *testing.T) {
	b, eng := newTestBridge()
	s := NewStream(b)

	input := strings.Join([]string{
		`{"call":"rulyrics.init_lyrics_app","args":[]}`,
		``,
		`# comment`,
		`{"call":"rulyrics.update_lyrics","args":[[[["Hello ",1000],["world",1000]],0],"hi"]}`,
		`not json`,
		`{"call":"rulyrics.seek","args":[0,false]}`,
		`{"call":"rulyrics.seek","args":["soon",false]}`,
		`{"call":"rulyrics.nope","args":[]}`,
		`{"call":"embed_into_any","args":["Shell_TrayWnd"]}`,
		`{"call":"rulyrics.show_text","args":["interlude"]}`,
	}, "\n")

	if err := s.Run(context.Background(), strings.NewReader(input)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var names []string
	for _, c := range eng.calls {
		names = append(names, c.name)
	}
	want := "create,line+ext,seek,embed,line"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("calls = %s, want %s", got, want)
	}
}

func TestStreamStopsOnCancel(t *testing.T) {
	b, eng := newTestBridge()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewStream(b).Run(ctx, strings.NewReader(`{"call":"rulyrics.init_lyrics_app"}`+"\n"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
	if len(eng.calls) != 0 {
		t.Errorf("no command should run after cancel")
	}
}

func TestDispatchArgErrors(t *testing.T) {
	b, _ := newTestBridge()
	s := NewStream(b)

	cmds := []Command{
		{Call: "rulyrics.seek"},
		{Call: "rulyrics.set_paused", Args: []json.RawMessage{raw(`"yes"`)}},
		{Call: "rulyrics.embed_into_any", Args: []json.RawMessage{raw(`1`)}},
		{Call: "rulyrics.show_text"},
		{Call: "unknown"},
	}
	for _, cmd := range cmds {
		if err := s.Dispatch(cmd); err == nil {
			t.Errorf("Dispatch(%s) should fail", cmd.Call)
		}
	}
}
