package player

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"karolbroda.com/lyroverlay/internal/track"
)

const (
	mprisPath        = "/org/mpris/MediaPlayer2"
	mprisPrefix      = "org.mpris.MediaPlayer2."
	mprisPlayerIface = "org.mpris.MediaPlayer2.Player"
)

type Sink interface {
	SetPaused(paused bool)
	TrackChanged(info *track.Info)
}

type State struct {
	Track   *track.Info
	Playing bool
}

type Service struct {
	bus        *dbus.Conn
	service    string
	sink       Sink
	log        zerolog.Logger
	signalChan chan *dbus.Signal
	stopChan   chan struct{}
	stopOnce   sync.Once
	state      State
	// the first status is always forwarded, whatever it is
	statusKnown bool
	mu          sync.RWMutex
}

func NewService(bus *dbus.Conn, mprisService string, sink Sink, log zerolog.Logger) (*Service, error) {
	if bus == nil {
		return nil, errors.New("nil dbus connection")
	}
	return newService(bus, mprisService, sink, log)
}

func newService(bus *dbus.Conn, mprisService string, sink Sink, log zerolog.Logger) (*Service, error) {
	if mprisService == "" {
		return nil, errors.New("empty mpris service name")
	}
	if sink == nil {
		return nil, errors.New("nil playback sink")
	}

	return &Service{
		bus:     bus,
		service: mprisService,
		sink:    sink,
		log:     log.With().Str("service", mprisService).Logger(),
	}, nil
}

func (s *Service) Start() error {
	signalChan := make(chan *dbus.Signal, 10)
	s.signalChan = signalChan
	s.stopChan = make(chan struct{})

	s.bus.Signal(signalChan)

	matchPropertiesChanged := fmt.Sprintf(
		"type='signal',sender='%s',interface='org.freedesktop.DBus.Properties',member='PropertiesChanged',path='%s'",
		s.service, mprisPath,
	)
	matchSeeked := fmt.Sprintf(
		"type='signal',sender='%s',interface='%s',member='Seeked',path='%s'",
		s.service, mprisPlayerIface, mprisPath,
	)

	err := s.bus.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, matchPropertiesChanged).Err
	if err != nil {
		return fmt.Errorf("failed to add properties match: %w", err)
	}

	err = s.bus.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, matchSeeked).Err
	if err != nil {
		return fmt.Errorf("failed to add seeked match: %w", err)
	}

	s.prime()

	go s.signalLoop()

	s.log.Info().Msg("following mpris player")
	return nil
}

func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		if s.stopChan != nil {
			close(s.stopChan)
		}
		if s.signalChan != nil {
			s.bus.RemoveSignal(s.signalChan)
		}
	})
}

// prime pushes the player's current track and status before any signal arrives.
func (s *Service) prime() {
	info, err := s.CurrentTrack()
	if err != nil {
		s.log.Debug().Err(err).Msg("no current track")
	} else {
		s.applyTrack(info)
	}

	status, err := s.PlaybackStatus()
	if err != nil {
		s.log.Debug().Err(err).Msg("no playback status")
		return
	}
	s.applyStatus(status)
}

func (s *Service) CurrentTrack() (*track.Info, error) {
	obj := s.bus.Object(s.service, mprisPath)

	prop, err := obj.GetProperty(mprisPlayerIface + ".Metadata")
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata property: %w", err)
	}

	metadata, ok := prop.Value().(map[string]dbus.Variant)
	if !ok {
		return nil, fmt.Errorf("unexpected metadata type %T", prop.Value())
	}

	info := trackFromMetadata(metadata)
	if !info.IsValid() {
		return nil, fmt.Errorf("missing title or artist in metadata (title=%q, artist=%q)", info.Title, info.Artist)
	}

	return info, nil
}

func (s *Service) PlaybackStatus() (string, error) {
	obj := s.bus.Object(s.service, mprisPath)

	prop, err := obj.GetProperty(mprisPlayerIface + ".PlaybackStatus")
	if err != nil {
		return "", fmt.Errorf("failed to get playback status: %w", err)
	}

	status, ok := prop.Value().(string)
	if !ok {
		return "", fmt.Errorf("unexpected playback status type %T", prop.Value())
	}
	return status, nil
}

func (s *Service) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stateCopy := State{Playing: s.state.Playing}
	if s.state.Track != nil {
		trackCopy := *s.state.Track
		stateCopy.Track = &trackCopy
	}
	return stateCopy
}

func (s *Service) signalLoop() {
	for {
		select {
		case sig, ok := <-s.signalChan:
			if !ok {
				return
			}
			s.handleSignal(sig)
		case <-s.stopChan:
			return
		}
	}
}

func (s *Service) handleSignal(sig *dbus.Signal) {
	if sig == nil {
		return
	}

	switch sig.Name {
	case "org.freedesktop.DBus.Properties.PropertiesChanged":
		s.handlePropertiesChanged(sig)
	case "org.mpris.MediaPlayer2.Player.Seeked":
		s.handleSeeked(sig)
	}
}

func (s *Service) handlePropertiesChanged(sig *dbus.Signal) {
	if len(sig.Body) < 2 {
		return
	}

	interfaceName, ok := sig.Body[0].(string)
	if !ok || interfaceName != mprisPlayerIface {
		return
	}

	changedProps, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return
	}

	if metadataVariant, exists := changedProps["Metadata"]; exists {
		metadata, ok := metadataVariant.Value().(map[string]dbus.Variant)
		if ok {
			s.applyTrack(trackFromMetadata(metadata))
		}
	}

	if playbackVariant, exists := changedProps["PlaybackStatus"]; exists {
		status, ok := playbackVariant.Value().(string)
		if ok {
			s.applyStatus(status)
		}
	}
}

// handleSeeked only logs: player positions are track relative and cannot be
// mapped onto the current line.
func (s *Service) handleSeeked(sig *dbus.Signal) {
	if len(sig.Body) < 1 {
		return
	}

	positionMicroseconds, ok := sig.Body[0].(int64)
	if !ok || positionMicroseconds < 0 {
		return
	}

	s.log.Debug().Int64("position_ms", positionMicroseconds/1_000).Msg("player seeked")
}

func (s *Service) applyTrack(info *track.Info) {
	if !info.IsValid() {
		return
	}

	s.mu.Lock()
	same := info.IsSameTrack(s.state.Track)
	s.state.Track = info
	s.mu.Unlock()

	if same {
		return
	}

	s.log.Info().Str("title", info.Title).Str("artist", info.Artist).Msg("track changed")
	s.sink.TrackChanged(info)
}

func (s *Service) applyStatus(status string) {
	playing := status == "Playing"

	s.mu.Lock()
	changed := !s.statusKnown || s.state.Playing != playing
	s.statusKnown = true
	s.state.Playing = playing
	s.mu.Unlock()

	if !changed {
		return
	}

	s.log.Debug().Str("status", status).Msg("playback status changed")
	s.sink.SetPaused(!playing)
}

func ListPlayers(bus *dbus.Conn) ([]string, error) {
	var names []string
	err := bus.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names)
	if err != nil {
		return nil, fmt.Errorf("failed to list dbus names: %w", err)
	}

	var players []string
	for _, name := range names {
		if strings.HasPrefix(name, mprisPrefix) {
			players = append(players, name)
		}
	}
	return players, nil
}

func Identity(bus *dbus.Conn, serviceName string) string {
	obj := bus.Object(serviceName, mprisPath)
	variant, err := obj.GetProperty("org.mpris.MediaPlayer2.Identity")
	if err != nil {
		return ""
	}

	identity, ok := variant.Value().(string)
	if !ok {
		return ""
	}
	return identity
}

func trackFromMetadata(metadata map[string]dbus.Variant) *track.Info {
	return &track.Info{
		Title:        extractString(metadata, "xesam:title"),
		Artist:       extractArtist(metadata, "xesam:artist"),
		Album:        extractString(metadata, "xesam:album"),
		TrackID:      extractString(metadata, "mpris:trackid"),
		DurationSecs: extractDurationSeconds(metadata, "mpris:length"),
	}
}

func extractString(metadata map[string]dbus.Variant, key string) string {
	variant, exists := metadata[key]
	if !exists {
		return ""
	}

	switch typed := variant.Value().(type) {
	case string:
		return typed
	case dbus.ObjectPath:
		return string(typed)
	default:
		return ""
	}
}

func extractArtist(metadata map[string]dbus.Variant, key string) string {
	variant, exists := metadata[key]
	if !exists {
		return ""
	}

	switch typed := variant.Value().(type) {
	case []string:
		if len(typed) > 0 {
			return typed[0]
		}
		return ""
	case string:
		return typed
	default:
		return ""
	}
}

func extractDurationSeconds(metadata map[string]dbus.Variant, key string) int64 {
	variant, exists := metadata[key]
	if !exists {
		return 0
	}

	switch typed := variant.Value().(type) {
	case int64:
		if typed <= 0 {
			return 0
		}
		return typed / 1_000_000
	case uint64:
		return int64(typed / 1_000_000)
	default:
		return 0
	}
}
