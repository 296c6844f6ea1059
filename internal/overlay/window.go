package overlay

import (
	"karolbroda.com/lyroverlay/internal/lyrics"
)

type WindowStatus int

const (
	WindowUninitialized WindowStatus = iota
	WindowAttached
	WindowRendering
	WindowIdle
)

func (s WindowStatus) String() string {
	switch s {
	case WindowUninitialized:
		return "uninitialized"
	case WindowAttached:
		return "attached"
	case WindowRendering:
		return "rendering"
	case WindowIdle:
		return "idle"
	default:
		return "unknown"
	}
}

type WindowInfo struct {
	Index    int
	Handle   string
	Status   WindowStatus
	Embedded string
	Frames   int
}

type window struct {
	index     int
	surface   Surface
	status    WindowStatus
	embedded  Target
	lastFrame string
	painted   bool
	frames    int
}

func (w *window) info() WindowInfo {
	info := WindowInfo{
		Index:    w.index,
		Status:   w.status,
		Embedded: w.embedded.ID,
		Frames:   w.frames,
	}
	if w.surface != nil {
		info.Handle = w.surface.Handle()
	}
	return info
}

func (w *window) wake() {
	if w.status != WindowUninitialized {
		w.status = WindowRendering
	}
}

// render samples the state, paints when the frame changed and decides
// whether the window still needs animation ticks.
func (e *Engine) render(w *window, nowMs uint64) {
	if w.status == WindowUninitialized || w.status == WindowIdle {
		return
	}

	st := e.state
	primary := lyrics.Resolve(st.Current, st.Current.Elapsed(nowMs))
	secondary := lyrics.Resolve(st.CurrentExt, st.CurrentExt.Elapsed(nowMs))

	frame := e.renderer.Render(View{
		Index:          w.index,
		Win:            st.Windows[w.index],
		Primary:        st.Current,
		PrimaryState:   primary,
		Secondary:      st.CurrentExt,
		SecondaryState: secondary,
	})

	if !w.painted || frame != w.lastFrame {
		err := w.surface.Paint(frame)
		if err != nil {
			e.log.Warn().Err(err).Int("window", w.index).Msg("paint failed")
		} else {
			w.lastFrame = frame
			w.painted = true
			w.frames++
		}
	}

	primaryDone := primary.Settled() || st.Current.Paused
	secondaryDone := secondary.Settled() || st.CurrentExt.Paused
	if primaryDone && secondaryDone && w.painted {
		w.status = WindowIdle
	} else {
		w.status = WindowRendering
	}
}
