// internal/midi/midi.go
// Package midi turns tuner detections into MIDI note and pitch bend messages.
package midi

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	gomidi "gitlab.com/gomidi/midi/v2"
	"go.bug.st/serial"

	"github.com/ColonelBlimp/gotuner/internal/note"
)

const (
	// DefaultBaud is the DIN MIDI line rate
	DefaultBaud = 31250
	// DefaultVelocity is used for every NoteOn
	DefaultVelocity = 100
	// BendRange is the offset in cents that maps to full-scale pitch bend
	BendRange = 200.0

	noNote = -1
)

var (
	// ErrInvalidChannel indicates the MIDI channel must be 0-15
	ErrInvalidChannel = errors.New("midi channel must be between 0 and 15")
	// ErrInvalidHold indicates hold frames must be at least 1
	ErrInvalidHold = errors.New("midi hold frames must be at least 1")
	// ErrWriterRequired indicates an output writer is required
	ErrWriterRequired = errors.New("midi output writer is required")
)

// Config holds MIDI output configuration
type Config struct {
	// Channel is the zero-based MIDI channel (from config: midi_channel)
	Channel uint8
	// Hold is how many consecutive frames a note must be detected before it
	// sounds (from config: midi_hold_frames)
	Hold int
	// Velocity for NoteOn messages, DefaultVelocity when zero
	Velocity uint8
	// Logger receives note events at debug level; optional
	Logger *slog.Logger
}

// Sink writes a monophonic MIDI stream following the detected note.
// A note change is only confirmed after Hold consecutive frames agree, so
// single-frame glitches do not retrigger notes.
type Sink struct {
	w   io.Writer
	cfg Config

	current int // sounding note number, noNote when silent
	pending int // candidate note
	count   int // consecutive frames the candidate was seen
	bend    int16
}

// NewSink creates a MIDI sink writing raw messages to w.
func NewSink(w io.Writer, cfg Config) (*Sink, error) {
	if w == nil {
		return nil, ErrWriterRequired
	}
	if cfg.Channel > 15 {
		return nil, ErrInvalidChannel
	}
	if cfg.Hold < 1 {
		return nil, ErrInvalidHold
	}
	if cfg.Velocity == 0 {
		cfg.Velocity = DefaultVelocity
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Sink{w: w, cfg: cfg, current: noNote, pending: noNote}, nil
}

// OpenSerial opens a serial port for DIN MIDI output.
func OpenSerial(name string, baud int) (serial.Port, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	p, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", name, err)
	}
	return p, nil
}

// Bend converts a cents offset to a 14-bit signed pitch bend value.
func Bend(cents float64) int16 {
	r := cents / BendRange
	if math.IsNaN(r) {
		return 0
	}
	r = math.Max(-1, math.Min(1, r))
	return int16(math.Round(r * 8191))
}

// Update feeds one frame's detection to the sink.
func (s *Sink) Update(d note.Detection) error {
	observed := noNote
	if d.Found {
		observed = d.Note.Number
	}

	if observed == s.pending {
		s.count++
	} else {
		s.pending = observed
		s.count = 1
	}

	if s.count >= s.cfg.Hold && s.pending != s.current {
		if err := s.noteOff(); err != nil {
			return err
		}
		if s.pending != noNote {
			if err := s.pitchBend(Bend(d.Cents)); err != nil {
				return err
			}
			if err := s.send(gomidi.NoteOn(s.cfg.Channel, uint8(s.pending), s.cfg.Velocity)); err != nil {
				return err
			}
			s.current = s.pending
			s.cfg.Logger.Debug("midi note on", "note", d.Note.String(), "number", s.current, "bend", s.bend)
		}
		return nil
	}

	if s.current != noNote && observed == s.current {
		if b := Bend(d.Cents); b != s.bend {
			return s.pitchBend(b)
		}
	}
	return nil
}

// Current returns the sounding note number and whether a note is sounding
func (s *Sink) Current() (int, bool) {
	return s.current, s.current != noNote
}

// Close silences any sounding note and closes the writer if it is an io.Closer.
func (s *Sink) Close() error {
	err := s.noteOff()
	if c, ok := s.w.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	return err
}

func (s *Sink) noteOff() error {
	if s.current == noNote {
		return nil
	}
	if err := s.send(gomidi.NoteOff(s.cfg.Channel, uint8(s.current))); err != nil {
		return err
	}
	s.cfg.Logger.Debug("midi note off", "number", s.current)
	s.current = noNote
	return nil
}

func (s *Sink) pitchBend(b int16) error {
	if err := s.send(gomidi.Pitchbend(s.cfg.Channel, b)); err != nil {
		return err
	}
	s.bend = b
	return nil
}

func (s *Sink) send(msg gomidi.Message) error {
	if _, err := s.w.Write(msg.Bytes()); err != nil {
		return fmt.Errorf("write midi: %w", err)
	}
	return nil
}
