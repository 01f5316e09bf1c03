// internal/audio/source.go
package audio

import (
	"context"
	"errors"
)

var (
	ErrNotInitialized = errors.New("audio capture not initialized")
	ErrAlreadyRunning = errors.New("audio capture already running")
	ErrNotRunning     = errors.New("audio capture not running")
	// ErrOverflow reports that input samples were dropped before this frame.
	// The frame is still filled and usable.
	ErrOverflow = errors.New("audio input overflowed")
	// ErrInvalidFrameSize indicates the frame size must be positive
	ErrInvalidFrameSize = errors.New("frame size must be positive")
)

// Source delivers fixed-size frames of mono samples.
type Source interface {
	// Init prepares the backend (contexts, libraries)
	Init() error
	// Start begins streaming. Cancelling ctx stops the stream.
	Start(ctx context.Context) error
	// ReadFrame blocks until buf is filled and returns the number of samples
	// written. ErrOverflow is non-fatal; any other error ends the stream.
	ReadFrame(buf []float32) (int, error)
	// Close releases all resources
	Close() error
}

// Config holds audio capture configuration
type Config struct {
	DeviceIndex int    // -1 for default device
	SampleRate  uint32 // e.g., 8000
	BufferSize  uint32 // frames per device callback
	FrameSize   int    // samples returned by each ReadFrame
}

// DefaultConfig returns the tuner's capture settings
func DefaultConfig() Config {
	return Config{
		DeviceIndex: -1,
		SampleRate:  8000,
		BufferSize:  1024,
		FrameSize:   8192,
	}
}

// Device describes a capture device
type Device struct {
	Index   int
	Name    string
	Default bool
}
