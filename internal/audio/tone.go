// internal/audio/tone.go
package audio

import (
	"context"
	"math"
	"sync"
	"time"
)

// ToneConfig describes a synthetic test signal
type ToneConfig struct {
	SampleRate float64
	Frequency  float64
	Amplitude  float64
	// Harmonics are relative amplitudes of the 2nd, 3rd, ... partials
	Harmonics []float64
	// Paced delivers frames no faster than real time
	Paced bool
}

// Tone is a Source producing a continuous sine (plus optional harmonics),
// useful for demos and for exercising the pipeline without hardware.
type Tone struct {
	config  ToneConfig
	mu      sync.Mutex
	running bool
	sample  int64
	started time.Time
	ctx     context.Context
}

// NewTone creates a synthetic tone source
func NewTone(cfg ToneConfig) *Tone {
	return &Tone{config: cfg}
}

// Init is a no-op for the synthetic source
func (t *Tone) Init() error {
	return nil
}

// Start begins generating samples
func (t *Tone) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return ErrAlreadyRunning
	}
	t.running = true
	t.sample = 0
	t.started = time.Now()
	t.ctx = ctx
	return nil
}

// ReadFrame fills buf with the next len(buf) samples. Phase is continuous
// across frames.
func (t *Tone) ReadFrame(buf []float32) (int, error) {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return 0, ErrNotRunning
	}
	start := t.sample
	t.sample += int64(len(buf))
	ctx := t.ctx
	t.mu.Unlock()

	cfg := t.config
	for i := range buf {
		x := float64(start+int64(i)) / cfg.SampleRate
		v := math.Sin(2 * math.Pi * cfg.Frequency * x)
		for h, a := range cfg.Harmonics {
			v += a * math.Sin(2*math.Pi*cfg.Frequency*float64(h+2)*x)
		}
		buf[i] = float32(cfg.Amplitude * v)
	}

	if cfg.Paced && cfg.SampleRate > 0 {
		due := t.started.Add(time.Duration(float64(t.sample) / cfg.SampleRate * float64(time.Second)))
		timer := time.NewTimer(time.Until(due))
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
	}

	return len(buf), nil
}

// Close stops the source
func (t *Tone) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	return nil
}
