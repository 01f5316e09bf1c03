// internal/tuner/tuner.go
// Package tuner runs the pitch detection pipeline: low-pass filter, Hann
// window, FFT, peak pick and note match, once per captured frame.
package tuner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ColonelBlimp/gotuner/internal/audio"
	"github.com/ColonelBlimp/gotuner/internal/dsp"
	"github.com/ColonelBlimp/gotuner/internal/logging"
	"github.com/ColonelBlimp/gotuner/internal/note"
)

const (
	// SampleRate is the capture rate in Hz
	SampleRate = 8000
	// FrameSize is the number of samples per analysed frame
	FrameSize = 8192
	// LowPassCutoff removes content above the guitar's fundamental range
	LowPassCutoff = 330.0
)

var (
	// ErrSourceRequired indicates an audio source is required
	ErrSourceRequired = errors.New("audio source is required")
	// ErrRendererRequired indicates a renderer is required
	ErrRendererRequired = errors.New("renderer is required")
	// ErrInvalidCutoff indicates the low-pass cutoff must lie below Nyquist
	ErrInvalidCutoff = errors.New("low-pass cutoff must be between 0 and the Nyquist frequency")
	// ErrTransformSize indicates the transform length differs from the frame size
	ErrTransformSize = errors.New("transform size does not match frame size")
)

// Renderer presents one detection per frame.
type Renderer interface {
	Render(d note.Detection) error
}

// Sink receives every detection after it has been rendered.
type Sink interface {
	Update(d note.Detection) error
}

// Options wires a Tuner to its input and outputs.
type Options struct {
	Source   audio.Source
	Renderer Renderer
	// Sink is optional (MIDI output)
	Sink Sink
	// Transformer defaults to the complex FFT of FrameSize points
	Transformer dsp.Transformer
	// Logger defaults to a discarding logger
	Logger *slog.Logger
}

// State is the per-stream pipeline state. Tables are built once and never
// mutated; the filter memory and frame buffers are reused every frame.
type State struct {
	filter *dsp.LowPass
	window dsp.Window
	fft    dsp.Transformer
	freqs  note.FrequencyTable
	notes  *note.Table

	re []float64
	im []float64
}

// NewState builds the filter, window and note tables for the fixed sample
// rate and frame size. A nil transformer selects the complex FFT.
func NewState(transformer dsp.Transformer) (*State, error) {
	return newState(SampleRate, FrameSize, LowPassCutoff, transformer)
}

func newState(sampleRate float64, frameSize int, cutoff float64, fft dsp.Transformer) (*State, error) {
	if cutoff <= 0 || cutoff >= sampleRate/2 {
		return nil, ErrInvalidCutoff
	}

	if fft == nil {
		f, err := dsp.NewFFT(frameSize)
		if err != nil {
			return nil, fmt.Errorf("create transform: %w", err)
		}
		fft = f
	} else if fft.Size() != frameSize {
		return nil, ErrTransformSize
	}
	window, err := dsp.NewHannWindow(frameSize)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	freqs := note.NewFrequencyTable(sampleRate, frameSize)
	return &State{
		filter: dsp.NewLowPass(sampleRate, cutoff),
		window: window,
		fft:    fft,
		freqs:  freqs,
		notes:  note.BuildTable(freqs, sampleRate),
		re:     make([]float64, frameSize),
		im:     make([]float64, frameSize),
	}, nil
}

// Notes returns the note table
func (s *State) Notes() *note.Table {
	return s.notes
}

// Analyze runs one frame through the pipeline. Short input is zero padded
// and excess samples are ignored.
func (s *State) Analyze(samples []float32) (note.Detection, error) {
	for i := range s.re {
		if i < len(samples) {
			s.re[i] = float64(samples[i])
		} else {
			s.re[i] = 0
		}
		s.im[i] = 0
	}

	s.filter.ProcessInPlace(s.re)
	if err := s.window.Apply(s.re); err != nil {
		return note.Detection{}, fmt.Errorf("window: %w", err)
	}
	if err := s.fft.Transform(s.re, s.im, false); err != nil {
		return note.Detection{}, fmt.Errorf("transform: %w", err)
	}

	peak := dsp.FindPeak(s.re, s.im)
	d := s.notes.Match(s.freqs[peak.Bin])
	d.Bin = peak.Bin
	d.Magnitude = peak.Magnitude
	return d, nil
}

// Reset clears the filter memory, as when a stream restarts
func (s *State) Reset() {
	s.filter.Reset()
}

// Tuner reads frames from a Source until cancelled and reports a detection
// for each one.
type Tuner struct {
	state    *State
	source   audio.Source
	renderer Renderer
	sink     Sink
	logger   *slog.Logger
	samples  []float32
}

// New creates a tuner. The source must already be initialized.
func New(opts Options) (*Tuner, error) {
	if opts.Source == nil {
		return nil, ErrSourceRequired
	}
	if opts.Renderer == nil {
		return nil, ErrRendererRequired
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	state, err := NewState(opts.Transformer)
	if err != nil {
		return nil, err
	}

	return &Tuner{
		state:    state,
		source:   opts.Source,
		renderer: opts.Renderer,
		sink:     opts.Sink,
		logger:   opts.Logger,
		samples:  make([]float32, FrameSize),
	}, nil
}

// ProcessFrame analyses one frame without rendering it.
func (t *Tuner) ProcessFrame(samples []float32) (note.Detection, error) {
	return t.state.Analyze(samples)
}

// Run starts the source and processes frames until ctx is cancelled or the
// source or the analysis fails. Cancellation is a clean shutdown and returns nil.
func (t *Tuner) Run(ctx context.Context) error {
	if err := t.source.Start(ctx); err != nil {
		return fmt.Errorf("start capture: %w", err)
	}
	t.logger.Info("tuner started",
		"sample_rate", SampleRate,
		"frame_size", FrameSize,
		"resolution_hz", t.state.freqs.Resolution(),
		"notes", t.state.notes.Len())

	frames := 0
	for {
		if ctx.Err() != nil {
			t.logger.Info("tuner stopped", "frames", frames)
			return nil
		}

		n, err := t.source.ReadFrame(t.samples)
		if err != nil {
			switch {
			case errors.Is(err, audio.ErrOverflow):
				t.logger.Debug("input overflow", "frame", frames)
			case ctx.Err() != nil:
				t.logger.Info("tuner stopped", "frames", frames)
				return nil
			default:
				return fmt.Errorf("capture: %w", err)
			}
		}

		d, err := t.ProcessFrame(t.samples[:n])
		if err != nil {
			return fmt.Errorf("analyze frame %d: %w", frames, err)
		}
		frames++

		if err := t.renderer.Render(d); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if t.sink != nil {
			if err := t.sink.Update(d); err != nil {
				return fmt.Errorf("midi: %w", err)
			}
		}
	}
}
