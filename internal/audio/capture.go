// internal/audio/capture.go
package audio

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
)

// chunkQueue is the number of device callbacks buffered between the audio
// thread and ReadFrame.
const chunkQueue = 64

// Capture reads mono float32 samples from a capture device through miniaudio.
// Device callbacks deliver small chunks; ReadFrame assembles them into frames.
type Capture struct {
	config  Config
	ctx     *malgo.AllocatedContext
	device  *malgo.Device
	running atomic.Bool
	mu      sync.Mutex

	chunks   chan []float32
	done     chan struct{}
	overflow atomic.Bool
	pending  []float32
}

// New creates a new audio capture instance
func New(cfg Config) *Capture {
	return &Capture{
		config: cfg,
		chunks: make(chan []float32, chunkQueue),
	}
}

// Init initializes the audio backend
func (c *Capture) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("init audio context: %w", err)
	}
	c.ctx = ctx

	return nil
}

// ListDevices returns available capture devices
func (c *Capture) ListDevices() ([]Device, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listDevices()
}

func (c *Capture) listDevices() ([]Device, error) {
	if c.ctx == nil {
		return nil, ErrNotInitialized
	}

	infos, err := c.ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("enumerate devices: %w", err)
	}

	devices := make([]Device, len(infos))
	for i, info := range infos {
		devices[i] = Device{Index: i, Name: info.Name(), Default: info.IsDefault != 0}
	}
	return devices, nil
}

// Start begins audio capture
func (c *Capture) Start(ctx context.Context) error {
	if c.config.FrameSize <= 0 {
		return ErrInvalidFrameSize
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running.Load() {
		return ErrAlreadyRunning
	}
	if c.ctx == nil {
		return ErrNotInitialized
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.SampleRate = c.config.SampleRate
	deviceConfig.PeriodSizeInFrames = c.config.BufferSize
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = 1

	// Select specific device if requested
	if c.config.DeviceIndex >= 0 {
		infos, err := c.ctx.Devices(malgo.Capture)
		if err != nil {
			return fmt.Errorf("enumerate devices: %w", err)
		}
		if c.config.DeviceIndex >= len(infos) {
			return fmt.Errorf("device index %d out of range (have %d devices)",
				c.config.DeviceIndex, len(infos))
		}
		deviceConfig.Capture.DeviceID = infos[c.config.DeviceIndex].ID.Pointer()
	}

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: c.onRecvFrames,
	}

	device, err := malgo.InitDevice(c.ctx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		return fmt.Errorf("init device: %w", err)
	}

	c.done = make(chan struct{})
	c.pending = c.pending[:0]
	c.overflow.Store(false)

	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("start device: %w", err)
	}

	c.device = device
	c.running.Store(true)

	// Wait for context cancellation
	go func() {
		<-ctx.Done()
		_ = c.Stop()
	}()

	return nil
}

// onRecvFrames runs on the audio thread and must not block.
func (c *Capture) onRecvFrames(_, inputSamples []byte, _ uint32) {
	if len(inputSamples) == 0 {
		return
	}

	select {
	case c.chunks <- bytesToFloat32(inputSamples):
	default:
		// Consumer too slow: drop the chunk and report it with the next frame
		c.overflow.Store(true)
	}
}

// ReadFrame blocks until buf is full of captured samples.
func (c *Capture) ReadFrame(buf []float32) (int, error) {
	c.mu.Lock()
	done := c.done
	running := c.running.Load()
	c.mu.Unlock()

	if !running {
		return 0, ErrNotRunning
	}

	n := copy(buf, c.pending)
	c.pending = c.pending[n:]

	for n < len(buf) {
		select {
		case chunk := <-c.chunks:
			m := copy(buf[n:], chunk)
			n += m
			if m < len(chunk) {
				c.pending = append(c.pending[:0], chunk[m:]...)
			}
		case <-done:
			return n, ErrNotRunning
		}
	}

	if c.overflow.Swap(false) {
		return n, ErrOverflow
	}
	return n, nil
}

// Stop stops audio capture
func (c *Capture) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running.Load() {
		return ErrNotRunning
	}

	c.stopDevice()
	return nil
}

func (c *Capture) stopDevice() {
	if c.device != nil {
		_ = c.device.Stop()
		c.device.Uninit()
		c.device = nil
	}
	if c.done != nil {
		close(c.done)
		c.done = nil
	}
	c.running.Store(false)
}

// Close releases all audio resources
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running.Load() {
		c.stopDevice()
	}

	if c.ctx != nil {
		if err := c.ctx.Uninit(); err != nil {
			return fmt.Errorf("uninit context: %w", err)
		}
		c.ctx.Free()
		c.ctx = nil
	}

	return nil
}

// IsRunning returns true if capture is active
func (c *Capture) IsRunning() bool {
	return c.running.Load()
}

// bytesToFloat32 converts little-endian IEEE 754 bytes to float32 samples
func bytesToFloat32(data []byte) []float32 {
	numSamples := len(data) / 4
	samples := make([]float32, numSamples)

	for i := 0; i < numSamples; i++ {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}

	return samples
}
