// internal/audio/portaudio.go
package audio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// PortAudio reads frames through a blocking PortAudio input stream.
// The stream is opened with one buffer per frame, so every ReadFrame is a
// single blocking Pa_ReadStream call.
type PortAudio struct {
	config      Config
	mu          sync.Mutex
	initialized bool
	stream      *portaudio.Stream
	buf         []float32
}

// NewPortAudio creates a PortAudio capture instance
func NewPortAudio(cfg Config) *PortAudio {
	return &PortAudio{config: cfg}
}

// Init initializes the PortAudio library
func (p *PortAudio) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("init portaudio: %w", err)
	}
	p.initialized = true
	return nil
}

// ListDevices returns devices with at least one input channel
func (p *PortAudio) ListDevices() ([]Device, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return nil, ErrNotInitialized
	}

	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerate devices: %w", err)
	}

	var def *portaudio.DeviceInfo
	if d, err := portaudio.DefaultInputDevice(); err == nil {
		def = d
	}

	var devices []Device
	for i, info := range infos {
		if info.MaxInputChannels < 1 {
			continue
		}
		devices = append(devices, Device{
			Index:   i,
			Name:    info.Name,
			Default: def != nil && info.Index == def.Index,
		})
	}
	return devices, nil
}

func (p *PortAudio) inputDevice() (*portaudio.DeviceInfo, error) {
	if p.config.DeviceIndex < 0 {
		dev, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("default input device: %w", err)
		}
		return dev, nil
	}

	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerate devices: %w", err)
	}
	if p.config.DeviceIndex >= len(infos) {
		return nil, fmt.Errorf("device index %d out of range (have %d devices)",
			p.config.DeviceIndex, len(infos))
	}
	return infos[p.config.DeviceIndex], nil
}

// Start opens and starts the input stream. The stream is not interrupted on
// cancellation; the frame being read completes first.
func (p *PortAudio) Start(_ context.Context) error {
	if p.config.FrameSize <= 0 {
		return ErrInvalidFrameSize
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return ErrNotInitialized
	}
	if p.stream != nil {
		return ErrAlreadyRunning
	}

	dev, err := p.inputDevice()
	if err != nil {
		return err
	}

	params := portaudio.HighLatencyParameters(dev, nil)
	params.Input.Channels = 1
	params.SampleRate = float64(p.config.SampleRate)
	params.FramesPerBuffer = p.config.FrameSize
	params.Flags = portaudio.ClipOff

	buf := make([]float32, p.config.FrameSize)
	stream, err := portaudio.OpenStream(params, buf)
	if err != nil {
		return fmt.Errorf("open stream on %s: %w", dev.Name, err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return fmt.Errorf("start stream: %w", err)
	}

	p.stream = stream
	p.buf = buf
	return nil
}

// ReadFrame blocks until the stream delivers one frame.
func (p *PortAudio) ReadFrame(buf []float32) (int, error) {
	p.mu.Lock()
	stream := p.stream
	p.mu.Unlock()

	if stream == nil {
		return 0, ErrNotRunning
	}

	err := stream.Read()
	n := copy(buf, p.buf)
	if err != nil {
		if errors.Is(err, portaudio.InputOverflowed) {
			return n, ErrOverflow
		}
		return n, fmt.Errorf("read stream: %w", err)
	}
	return n, nil
}

// IsRunning returns true if the stream is open
func (p *PortAudio) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stream != nil
}

// Close aborts and closes the stream, then terminates PortAudio
func (p *PortAudio) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.stream != nil {
		if err := p.stream.Abort(); err != nil {
			errs = append(errs, fmt.Errorf("abort stream: %w", err))
		}
		if err := p.stream.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close stream: %w", err))
		}
		p.stream = nil
	}
	if p.initialized {
		if err := portaudio.Terminate(); err != nil {
			errs = append(errs, fmt.Errorf("terminate portaudio: %w", err))
		}
		p.initialized = false
	}
	return errors.Join(errs...)
}
