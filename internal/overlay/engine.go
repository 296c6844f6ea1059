package overlay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"karolbroda.com/lyroverlay/internal/clock"
)

const (
	DefaultFrameInterval = 33 * time.Millisecond
	DefaultMaxPending    = 8192
)

var (
	ErrNotStarted = errors.New("overlay engine not started")
	ErrStopped    = errors.New("overlay engine stopped")
	ErrQueueFull  = errors.New("overlay update queue full")
)

type Options struct {
	Clock         clock.Clock
	Windowing     Windowing
	Renderer      Renderer
	Logger        zerolog.Logger
	FrameInterval time.Duration
	// MaxPending caps queued updates; submissions past the cap are dropped.
	MaxPending int
}

// Engine owns the shared playback state and every overlay window. All of it
// lives on a single goroutine; callers hand it work through an ordered queue
// and never wait for the result.
type Engine struct {
	clock         clock.Clock
	windowing     Windowing
	renderer      Renderer
	log           zerolog.Logger
	frameInterval time.Duration
	maxPending    int

	mu      sync.Mutex
	pending []func()
	wake    chan struct{}

	started  atomic.Bool
	stopped  atomic.Bool
	quit     chan struct{}
	quitOnce sync.Once
	done     chan struct{}

	// loop goroutine only
	state   *State
	windows []*window
}

func New(opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}
	if opts.MaxPending <= 0 {
		opts.MaxPending = DefaultMaxPending
	}

	return &Engine{
		clock:         opts.Clock,
		windowing:     opts.Windowing,
		renderer:      opts.Renderer,
		log:           opts.Logger,
		frameInterval: opts.FrameInterval,
		maxPending:    opts.MaxPending,
		wake:          make(chan struct{}, 1),
		quit:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

func (e *Engine) Started() bool {
	return e.started.Load()
}

func (e *Engine) Mutate(fn func(*State)) {
	if fn == nil {
		return
	}
	_ = e.submit(func() { fn(e.state) })
}

func (e *Engine) submit(task func()) error {
	if !e.started.Load() {
		e.log.Debug().Msg("dropping update, no overlay window yet")
		return ErrNotStarted
	}
	if e.stopped.Load() {
		e.log.Debug().Msg("dropping update, engine stopped")
		return ErrStopped
	}

	e.mu.Lock()
	if len(e.pending) >= e.maxPending {
		e.mu.Unlock()
		e.log.Warn().Int("max_pending", e.maxPending).Msg("update queue full, dropping update")
		return ErrQueueFull
	}
	e.pending = append(e.pending, task)
	e.mu.Unlock()

	select {
	case e.wake <- struct{}{}:
	default:
	}
	return nil
}

// start builds the state with its first window and launches the loop. It
// reports false when the engine was already running.
func (e *Engine) start(first WinData) bool {
	if !e.started.CompareAndSwap(false, true) {
		return false
	}
	e.state = newState()
	go e.run(first)
	return true
}

func (e *Engine) run(first WinData) {
	var ticker *time.Ticker
	defer close(e.done)
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			e.stopped.Store(true)
			e.log.Error().Str("panic", fmt.Sprint(r)).Msg("overlay engine stopped")
		}
	}()

	e.addWindow(first)
	e.invalidate()

	var tickC <-chan time.Time
	for {
		if e.anyRendering() {
			if ticker == nil {
				ticker = time.NewTicker(e.frameInterval)
				tickC = ticker.C
			}
		} else if ticker != nil {
			ticker.Stop()
			ticker = nil
			tickC = nil
		}

		select {
		case <-e.quit:
			return
		case <-e.wake:
			e.drain()
		case <-tickC:
			now := e.clock.NowMillis()
			for _, w := range e.windows {
				if w.status == WindowRendering {
					e.render(w, now)
				}
			}
		}
	}
}

// drain applies queued updates one at a time. Each update is rendered on
// its own so no intermediate state is skipped.
func (e *Engine) drain() {
	for {
		select {
		case <-e.quit:
			return
		default:
		}

		e.mu.Lock()
		if len(e.pending) == 0 {
			e.mu.Unlock()
			return
		}
		task := e.pending[0]
		e.pending[0] = nil
		e.pending = e.pending[1:]
		e.mu.Unlock()

		task()
		e.invalidate()
	}
}

func (e *Engine) invalidate() {
	now := e.clock.NowMillis()
	for _, w := range e.windows {
		w.wake()
		e.render(w, now)
	}
}

func (e *Engine) anyRendering() bool {
	for _, w := range e.windows {
		if w.status == WindowRendering {
			return true
		}
	}
	return false
}

func (e *Engine) addWindow(win WinData) {
	index := len(e.state.Windows)
	e.state.Windows = append(e.state.Windows, win)

	w := &window{index: index, status: WindowUninitialized}
	e.windows = append(e.windows, w)

	surface, err := e.windowing.CreateSurface(index, win)
	if err != nil {
		e.log.Error().Err(err).Int("window", index).Msg("failed to create overlay surface")
		return
	}

	w.surface = surface
	w.status = WindowAttached
	e.log.Info().Int("window", index).Str("handle", surface.Handle()).Msg("overlay window attached")
}

func (e *Engine) lastAttached() *window {
	for i := len(e.windows) - 1; i >= 0; i-- {
		if e.windows[i].status != WindowUninitialized {
			return e.windows[i]
		}
	}
	return nil
}

func (e *Engine) Flush(ctx context.Context) error {
	done := make(chan struct{})
	err := e.submit(func() { close(done) })
	if err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-e.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

type Snapshot struct {
	State   State
	Windows []WindowInfo
}

func (e *Engine) Snapshot(ctx context.Context) (Snapshot, error) {
	result := make(chan Snapshot, 1)
	err := e.submit(func() {
		snap := Snapshot{State: e.state.clone()}
		for _, w := range e.windows {
			snap.Windows = append(snap.Windows, w.info())
		}
		result <- snap
	})
	if err != nil {
		return Snapshot{}, err
	}

	select {
	case snap := <-result:
		return snap, nil
	case <-e.done:
		return Snapshot{}, ErrStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (e *Engine) Close() {
	e.quitOnce.Do(func() {
		e.stopped.Store(true)
		close(e.quit)
	})
	if e.started.Load() {
		<-e.done
	}
}
