package overlay

import (
	"karolbroda.com/lyroverlay/internal/lyrics"
)

func (e *Engine) CreateWindow(win WinData) {
	if e.start(win) {
		return
	}
	_ = e.submit(func() { e.addWindow(win) })
}

func (e *Engine) SetCurrentLine(line lyrics.Line) {
	now := e.clock.NowMillis()
	e.Mutate(func(s *State) {
		line.Restart(now)
		s.Current = line
	})
}

func (e *Engine) SetCurrentLineWithSecondary(line lyrics.Line, secondary string) {
	now := e.clock.NowMillis()
	e.Mutate(func(s *State) {
		line.Restart(now)
		ext := lyrics.NewStretchedLine(secondary, line.FullDuration())
		ext.Restart(now)
		s.Current = line
		s.CurrentExt = ext
	})
}

func (e *Engine) Seek(positionMs uint64, paused bool) {
	now := e.clock.NowMillis()
	e.Mutate(func(s *State) {
		s.Current.Seek(now, positionMs, paused)
	})
}

func (e *Engine) SetPaused(paused bool) {
	now := e.clock.NowMillis()
	e.Mutate(func(s *State) {
		s.Current.SetPaused(now, paused)
		s.CurrentExt.SetPaused(now, paused)
	})
}

func (e *Engine) EmbedInto(class string) {
	_ = e.submit(func() {
		e.embed(class, func() (Target, bool) { return e.windowing.FindTarget(class) })
	})
}

func (e *Engine) EmbedIntoDesktop() {
	_ = e.submit(func() {
		e.embed("desktop", e.windowing.DesktopTarget)
	})
}

func (e *Engine) embed(name string, resolve func() (Target, bool)) {
	w := e.lastAttached()
	if w == nil {
		e.log.Warn().Str("target", name).Msg("no attached window to embed")
		return
	}

	target, ok := resolve()
	if !ok {
		e.log.Warn().Str("target", name).Msg("embed target not found, skipping")
		return
	}

	err := e.windowing.Embed(w.surface, target)
	if err != nil {
		e.log.Error().Err(err).Str("target", name).Int("window", w.index).Msg("embed failed")
		return
	}

	w.embedded = target
	e.log.Info().Str("target", target.ID).Int("window", w.index).Msg("overlay window embedded")
}
