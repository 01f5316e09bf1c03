// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/viper"
)

const (
	AppName    = "gotuner"
	ConfigType = "yaml"
	// ExampleConfig documents every key; the tuner never writes it to disk.
	ExampleConfig = `# gotuner configuration

# Audio input
backend: "malgo"        # malgo, portaudio, or tone (synthetic test signal)
device_index: -1        # -1 for default device (see 'gotuner devices')

# Analysis
transform: "complex"    # complex (gonum FFT) or real (real-input FFT)

# Synthetic tone backend
tone_frequency: 110     # Test tone frequency in Hz
tone_amplitude: 0.5     # Test tone peak amplitude (0.0-1.0)

# Display
clear_screen: true      # Redraw in place instead of scrolling
indicator_width: 30     # Offset indicator columns on each side of the note

# MIDI output (disabled when midi_port is empty)
midi_port: ""           # Serial device, e.g. /dev/ttyUSB0
midi_baud: 31250        # DIN MIDI baud rate
midi_channel: 0         # Zero-based MIDI channel (0-15)
midi_hold_frames: 2     # Frames a note must persist before it sounds

# Output
debug: false            # Enable debug logging
`
)

var (
	// Backends lists the supported audio input backends
	Backends = []string{"malgo", "portaudio", "tone"}
	// Transforms lists the supported FFT implementations
	Transforms = []string{"complex", "real"}
)

// Settings holds all application configuration
type Settings struct {
	// Audio input
	Backend     string `mapstructure:"backend"`
	DeviceIndex int    `mapstructure:"device_index"`

	// Analysis
	Transform string `mapstructure:"transform"`

	// Synthetic tone backend
	ToneFrequency float64 `mapstructure:"tone_frequency"`
	ToneAmplitude float64 `mapstructure:"tone_amplitude"`

	// Display
	ClearScreen    bool `mapstructure:"clear_screen"`
	IndicatorWidth int  `mapstructure:"indicator_width"`

	// MIDI output
	MIDIPort       string `mapstructure:"midi_port"`
	MIDIBaud       int    `mapstructure:"midi_baud"`
	MIDIChannel    int    `mapstructure:"midi_channel"`
	MIDIHoldFrames int    `mapstructure:"midi_hold_frames"`

	// Output
	Debug bool `mapstructure:"debug"`
}

// Init initializes Viper with defaults and an optional config file.
// Config file search order: current directory, then ~/.config/gotuner/
func Init() error {
	// Set defaults
	viper.SetDefault("backend", "malgo")
	viper.SetDefault("device_index", -1)
	viper.SetDefault("transform", "complex")
	viper.SetDefault("tone_frequency", 110)
	viper.SetDefault("tone_amplitude", 0.5)
	viper.SetDefault("clear_screen", true)
	viper.SetDefault("indicator_width", 30)
	viper.SetDefault("midi_port", "")
	viper.SetDefault("midi_baud", 31250)
	viper.SetDefault("midi_channel", 0)
	viper.SetDefault("midi_hold_frames", 2)
	viper.SetDefault("debug", false)

	viper.SetConfigType(ConfigType)

	// Priority order: current directory first, then XDG config
	viper.AddConfigPath(".")

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	viper.AddConfigPath(filepath.Join(configDir, AppName))

	// Try .config.yaml first (hidden file), then config.yaml
	viper.SetConfigName(".config")
	if err = viper.ReadInConfig(); err != nil {
		viper.SetConfigName("config")
		err = viper.ReadInConfig()
	}

	// A missing file is fine: defaults and flags still apply
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	return nil
}

// Get returns the current settings
func Get() (*Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &s, nil
}

// Validate checks that all settings are within acceptable ranges
func (s *Settings) Validate() error {
	var errs []error

	if !slices.Contains(Backends, s.Backend) {
		errs = append(errs, fmt.Errorf("backend must be one of malgo, portaudio, tone, got %q", s.Backend))
	}
	if s.DeviceIndex < -1 {
		errs = append(errs, fmt.Errorf("device_index must be -1 or a device index, got %d", s.DeviceIndex))
	}
	if !slices.Contains(Transforms, s.Transform) {
		errs = append(errs, fmt.Errorf("transform must be one of complex, real, got %q", s.Transform))
	}

	// Synthetic tone
	if s.ToneFrequency <= 0 || s.ToneFrequency >= 4000 {
		errs = append(errs, fmt.Errorf("tone_frequency must be between 0 and 4000 Hz (exclusive), got %v", s.ToneFrequency))
	}
	if s.ToneAmplitude < 0.0 || s.ToneAmplitude > 1.0 {
		errs = append(errs, fmt.Errorf("tone_amplitude must be between 0.0 and 1.0, got %v", s.ToneAmplitude))
	}

	// Display
	if s.IndicatorWidth < 1 || s.IndicatorWidth > 100 {
		errs = append(errs, fmt.Errorf("indicator_width must be between 1 and 100, got %d", s.IndicatorWidth))
	}

	// MIDI
	if s.MIDIBaud <= 0 {
		errs = append(errs, fmt.Errorf("midi_baud must be positive, got %d", s.MIDIBaud))
	}
	if s.MIDIChannel < 0 || s.MIDIChannel > 15 {
		errs = append(errs, fmt.Errorf("midi_channel must be between 0 and 15, got %d", s.MIDIChannel))
	}
	if s.MIDIHoldFrames < 1 || s.MIDIHoldFrames > 50 {
		errs = append(errs, fmt.Errorf("midi_hold_frames must be between 1 and 50, got %d", s.MIDIHoldFrames))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
