package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"karolbroda.com/lyroverlay/internal/config"
	"karolbroda.com/lyroverlay/internal/host"
	"karolbroda.com/lyroverlay/internal/overlay"
	"karolbroda.com/lyroverlay/internal/player"
	"karolbroda.com/lyroverlay/internal/render"
	"karolbroda.com/lyroverlay/internal/terminal"
)

var (
	readStdin   bool
	followMpris bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "start the lyric overlay",
	Long: `starts the overlay and opens the configured windows. with --stdin, host calls
are read as json lines, one per line:

  {"call":"rulyrics.update_lyrics","args":[[[["Hello ",1000],["world",1000]],0],"你好世界"]}
  {"call":"rulyrics.seek","args":[0,false]}
  {"call":"rulyrics.embed_into_taskbar","args":[]}`,
	RunE: runOverlay,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&readStdin, "stdin", false, "read host calls from stdin as json lines")
	runCmd.Flags().BoolVar(&followMpris, "mpris", false, "follow pause state and track changes of an mpris player")
}

type session struct {
	cfg     *config.Config
	log     zerolog.Logger
	engine  *overlay.Engine
	backend *terminal.Backend
	program *tea.Program
	bridge  *host.Bridge
	windows []overlay.WinData
	logOut  *os.File
}

func newSession(cmd *cobra.Command, inputFromStdin bool) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	path := logFile
	if path == "" {
		path = defaultLogFile()
	}
	logOut, err := tea.LogToFile(path, "lyroverlay")
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := setupLogger(logOut, cfg.LogLevel)

	windows, err := config.LoadWindows(cfg.WindowsFile, host.DefaultWindow())
	if err != nil {
		logOut.Close()
		return nil, err
	}

	caps := terminal.DetectCapabilities()
	lg := lipgloss.NewRenderer(os.Stdout)
	lg.SetColorProfile(caps.Profile)

	backend := terminal.NewBackend()
	engine := overlay.New(overlay.Options{
		Windowing:     backend,
		Renderer:      render.New(lg),
		Logger:        logger.With().Str("component", "overlay").Logger(),
		FrameInterval: cfg.FrameInterval,
		MaxPending:    cfg.MaxPending,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if inputFromStdin {
		opts = append(opts, tea.WithInput(nil))
	}
	program := tea.NewProgram(terminal.NewModel(), opts...)
	backend.Attach(program)

	bridge := host.NewBridge(engine, logger.With().Str("component", "host").Logger())
	if len(windows) > 0 {
		bridge.WithWindow(windows[0])
	}

	logger.Info().
		Str("term", caps.TermProgram).
		Bool("truecolor", caps.SupportsRGB()).
		Int("windows", max(len(windows), 1)).
		Msg("overlay session ready")

	return &session{
		cfg:     cfg,
		log:     logger,
		engine:  engine,
		backend: backend,
		program: program,
		bridge:  bridge,
		windows: windows,
		logOut:  logOut,
	}, nil
}

func (s *session) openWindows() {
	s.bridge.InitLyricsApp()
	for i := 1; i < len(s.windows); i++ {
		s.engine.CreateWindow(s.windows[i])
	}
}

func (s *session) run(ctx context.Context) error {
	defer terminal.Reset()
	defer s.logOut.Close()
	defer s.engine.Close()

	go func() {
		<-ctx.Done()
		s.program.Quit()
	}()

	_, err := s.program.Run()
	if err != nil {
		return fmt.Errorf("overlay program failed: %w", err)
	}
	s.log.Info().Msg("overlay stopped")
	return nil
}

func runOverlay(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	s, err := newSession(cmd, readStdin)
	if err != nil {
		return err
	}

	s.openWindows()

	if readStdin {
		go func() {
			err := host.NewStream(s.bridge).Run(ctx, os.Stdin)
			if err != nil && ctx.Err() == nil {
				s.log.Error().Err(err).Msg("host stream failed")
				return
			}
			s.log.Info().Msg("host stream closed")
		}()
	}

	if followMpris {
		stop := s.followPlayer()
		defer stop()
	}

	return s.run(ctx)
}

// followPlayer hooks an mpris player to the bridge. A missing bus or player
// is logged and the overlay keeps running without it.
func (s *session) followPlayer() func() {
	bus, err := dbus.ConnectSessionBus()
	if err != nil {
		s.log.Warn().Err(err).Msg("could not connect to session bus")
		return func() {}
	}

	svc, err := player.NewService(bus, s.cfg.MprisService, s.bridge, s.log.With().Str("component", "player").Logger())
	if err != nil {
		bus.Close()
		s.log.Warn().Err(err).Msg("could not create player service")
		return func() {}
	}

	err = svc.Start()
	if err != nil {
		s.log.Warn().Err(err).Msg("could not set up dbus signals")
	}

	return func() {
		svc.Stop()
		bus.Close()
	}
}
