// internal/dsp/window.go
package dsp

import (
	"errors"
	"fmt"

	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/algo-dsp/dsp/window"
)

var (
	// ErrInvalidWindowSize indicates a window needs at least two points
	ErrInvalidWindowSize = errors.New("window size must be at least 2")
	// ErrLengthMismatch indicates a buffer does not match the configured size
	ErrLengthMismatch = errors.New("buffer length does not match configured size")
)

// Window holds precomputed taper weights, one per sample position.
type Window []float64

// NewHannWindow precomputes a symmetric Hann window of n points:
// w[i] = 0.5 * (1 - cos(2*pi*i/(n-1))).
func NewHannWindow(n int) (Window, error) {
	if n < 2 {
		return nil, ErrInvalidWindowSize
	}
	w, err := window.Hann(n)
	if err != nil {
		return nil, fmt.Errorf("hann window: %w", err)
	}
	return Window(w), nil
}

// Apply multiplies frame by the window elementwise, in place.
func (w Window) Apply(frame []float64) error {
	if len(frame) != len(w) {
		return ErrLengthMismatch
	}
	vecmath.MulBlockInPlace(frame, w)
	return nil
}
