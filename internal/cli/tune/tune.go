// internal/cli/tune/tune.go
// Package tune assembles a tuner session from application settings.
package tune

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ColonelBlimp/gotuner/internal/audio"
	"github.com/ColonelBlimp/gotuner/internal/config"
	"github.com/ColonelBlimp/gotuner/internal/dsp"
	"github.com/ColonelBlimp/gotuner/internal/midi"
	"github.com/ColonelBlimp/gotuner/internal/render"
	"github.com/ColonelBlimp/gotuner/internal/tuner"
)

// ErrUnknownBackend indicates the configured backend is not supported
var ErrUnknownBackend = errors.New("unknown audio backend")

// Session owns the audio source, the optional MIDI sink and the tuner
// running between them.
type Session struct {
	source audio.Source
	midi   *midi.Sink
	tuner  *tuner.Tuner
	logger *slog.Logger
}

// NewSource creates the capture backend named in the settings.
func NewSource(s config.Settings) (audio.Source, error) {
	cfg := audio.DefaultConfig()
	cfg.DeviceIndex = s.DeviceIndex
	cfg.SampleRate = tuner.SampleRate
	cfg.FrameSize = tuner.FrameSize

	switch s.Backend {
	case "malgo":
		return audio.New(cfg), nil
	case "portaudio":
		return audio.NewPortAudio(cfg), nil
	case "tone":
		return audio.NewTone(audio.ToneConfig{
			SampleRate: tuner.SampleRate,
			Frequency:  s.ToneFrequency,
			Amplitude:  s.ToneAmplitude,
			Paced:      true,
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, s.Backend)
	}
}

// NewTransformer creates the FFT named in the settings. Anything other than
// "real" selects the complex FFT.
func NewTransformer(s config.Settings) (dsp.Transformer, error) {
	if s.Transform == "real" {
		return dsp.NewRealFFT(tuner.FrameSize)
	}
	return dsp.NewFFT(tuner.FrameSize)
}

// NewSession initializes the audio backend, opens the MIDI port when one is
// configured, and builds a tuner that renders to out.
func NewSession(s config.Settings, out io.Writer, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	transformer, err := NewTransformer(s)
	if err != nil {
		return nil, fmt.Errorf("create transform: %w", err)
	}

	src, err := NewSource(s)
	if err != nil {
		return nil, err
	}
	if err := src.Init(); err != nil {
		return nil, fmt.Errorf("init %s backend: %w", s.Backend, err)
	}
	logger.Debug("audio backend ready", "backend", s.Backend, "device_index", s.DeviceIndex, "transform", s.Transform)

	sess := &Session{source: src, logger: logger}

	var sink tuner.Sink
	if s.MIDIPort != "" {
		ms, err := openMIDI(s, logger)
		if err != nil {
			return nil, errors.Join(err, src.Close())
		}
		sess.midi = ms
		sink = ms
		logger.Info("midi output enabled", "port", s.MIDIPort, "baud", s.MIDIBaud, "channel", s.MIDIChannel)
	}

	t, err := tuner.New(tuner.Options{
		Source:      src,
		Renderer:    render.NewTerminal(out, s.IndicatorWidth, s.ClearScreen),
		Sink:        sink,
		Transformer: transformer,
		Logger:      logger,
	})
	if err != nil {
		return nil, errors.Join(err, sess.Close())
	}
	sess.tuner = t

	return sess, nil
}

func openMIDI(s config.Settings, logger *slog.Logger) (*midi.Sink, error) {
	port, err := midi.OpenSerial(s.MIDIPort, s.MIDIBaud)
	if err != nil {
		return nil, err
	}
	sink, err := midi.NewSink(port, midi.Config{
		Channel: uint8(s.MIDIChannel),
		Hold:    s.MIDIHoldFrames,
		Logger:  logger,
	})
	if err != nil {
		return nil, errors.Join(err, port.Close())
	}
	return sink, nil
}

// Run processes frames until ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	return s.tuner.Run(ctx)
}

// Close silences MIDI output and releases the audio backend.
func (s *Session) Close() error {
	var errs []error
	if s.midi != nil {
		if err := s.midi.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close midi: %w", err))
		}
	}
	if err := s.source.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close audio: %w", err))
	}
	return errors.Join(errs...)
}

// deviceLister is implemented by backends that can enumerate hardware
type deviceLister interface {
	ListDevices() ([]audio.Device, error)
}

// ListAudioDevices returns the capture devices of the given backend.
func ListAudioDevices(backend string) ([]audio.Device, error) {
	src, err := NewSource(config.Settings{Backend: backend, DeviceIndex: -1})
	if err != nil {
		return nil, err
	}

	lister, ok := src.(deviceLister)
	if !ok {
		return []audio.Device{{Index: 0, Name: "synthetic tone", Default: true}}, nil
	}

	if err := src.Init(); err != nil {
		return nil, fmt.Errorf("init %s backend: %w", backend, err)
	}
	devices, err := lister.ListDevices()
	return devices, errors.Join(err, src.Close())
}
