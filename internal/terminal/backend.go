package terminal

import (
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"karolbroda.com/lyroverlay/internal/overlay"
)

const (
	TaskbarClass = "Shell_TrayWnd"
	DesktopClass = "Progman"
	WorkerClass  = "WorkerW"
)

var ErrNoProgram = errors.New("terminal backend has no running program")

type Dock int

const (
	DockFloating Dock = iota
	DockTaskbar
	DockDesktop
)

func (d Dock) String() string {
	switch d {
	case DockTaskbar:
		return "taskbar"
	case DockDesktop:
		return "desktop"
	default:
		return "floating"
	}
}

type paneAddedMsg struct {
	handle string
	index  int
	titled bool
}

type frameMsg struct {
	handle string
	frame  string
}

type dockMsg struct {
	handle string
	dock   Dock
	target string
}

type Backend struct {
	mu      sync.RWMutex
	send    func(tea.Msg)
	targets map[string]overlay.Target
	docks   map[string]Dock
}

func NewBackend() *Backend {
	b := &Backend{
		targets: make(map[string]overlay.Target),
		docks:   make(map[string]Dock),
	}

	b.register(TaskbarClass, DockTaskbar)
	desktop := b.register(DesktopClass, DockDesktop)
	// the wallpaper worker shares the desktop dock
	b.targets[WorkerClass] = overlay.Target{ID: desktop.ID, Class: WorkerClass}

	return b
}

// Attach routes pane messages to p. It must be called before the first
// surface is created.
func (b *Backend) Attach(p *tea.Program) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = p.Send
}

func (b *Backend) RegisterTarget(class string) overlay.Target {
	return b.register(class, DockFloating)
}

func (b *Backend) register(class string, dock Dock) overlay.Target {
	b.mu.Lock()
	defer b.mu.Unlock()

	if t, ok := b.targets[class]; ok {
		return t
	}
	t := overlay.Target{ID: uuid.NewString(), Class: class}
	b.targets[class] = t
	b.docks[t.ID] = dock
	return t
}

func (b *Backend) CreateSurface(index int, win overlay.WinData) (overlay.Surface, error) {
	p := &pane{backend: b, handle: uuid.NewString()}
	err := b.dispatch(paneAddedMsg{handle: p.handle, index: index, titled: index == 0})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (b *Backend) FindTarget(class string) (overlay.Target, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	t, ok := b.targets[class]
	return t, ok
}

func (b *Backend) DesktopTarget() (overlay.Target, bool) {
	return b.FindTarget(DesktopClass)
}

func (b *Backend) Embed(surface overlay.Surface, target overlay.Target) error {
	b.mu.RLock()
	dock, ok := b.docks[target.ID]
	b.mu.RUnlock()
	if !ok {
		return errors.New("unknown embed target " + target.Class)
	}
	return b.dispatch(dockMsg{handle: surface.Handle(), dock: dock, target: target.Class})
}

func (b *Backend) dispatch(msg tea.Msg) error {
	b.mu.RLock()
	send := b.send
	b.mu.RUnlock()
	if send == nil {
		return ErrNoProgram
	}
	send(msg)
	return nil
}

type pane struct {
	backend *Backend
	handle  string
}

func (p *pane) Handle() string {
	return p.handle
}

func (p *pane) Paint(frame string) error {
	return p.backend.dispatch(frameMsg{handle: p.handle, frame: frame})
}
