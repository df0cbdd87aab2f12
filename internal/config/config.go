// Package config provides TOML configuration loading for eymo.
//
// The configuration file supports the following structure:
//
//	[camera]
//	device_id = 0
//	width = 1280
//	height = 720
//	fps = 30
//
//	[program]
//	path = "effects.eymo"
//	deadline_ms = 33
//
//	[output]
//	sink = "preview"
//
// Example usage:
//
//	cfg, err := config.Load("config.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Camera device: %d\n", cfg.Camera.DeviceID)
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Sink selects where the pipeline façade writes its output texture.
type Sink string

const (
	// SinkNone discards output; used for benchmarking the transform stage.
	SinkNone Sink = "none"
	// SinkPreview shows output in a debug preview window.
	SinkPreview Sink = "preview"
	// SinkFile writes a single image file, for the single-image test path.
	SinkFile Sink = "file"
)

// Config represents the complete configuration for eymo.
type Config struct {
	Camera  CameraConfig  `toml:"camera"`
	Program ProgramConfig `toml:"program"`
	Output  OutputConfig  `toml:"output"`
}

// CameraConfig holds webcam capture settings.
type CameraConfig struct {
	// DeviceID is the camera device index (default: 0).
	DeviceID int `toml:"device_id"`
	// Width is the capture width in pixels (default: 1280).
	Width int `toml:"width"`
	// Height is the capture height in pixels (default: 720).
	Height int `toml:"height"`
	// FPS is the target frame rate (default: 30).
	FPS int `toml:"fps"`
	// Mirror enables horizontal flip of captured frames.
	Mirror bool `toml:"mirror"`
}

// ProgramConfig selects the compiled effect program and the per-frame
// deadline it runs under.
type ProgramConfig struct {
	// Path is the filesystem path to the DSL program text.
	Path string `toml:"path"`
	// DeadlineMS is the frame deadline in milliseconds; the pipeline
	// façade returns the current partial texture once this is exceeded.
	// 0 disables the check.
	DeadlineMS int `toml:"deadline_ms"`
	// DetectEveryNFrames amortises the external detector: the one-slot
	// detection cache is invalidated every N frames instead of every
	// frame. 1 means rerun detection every frame.
	DetectEveryNFrames int `toml:"detect_every_n_frames"`
}

// OutputConfig selects the frame sink.
type OutputConfig struct {
	Sink Sink `toml:"sink"`
	// FilePath is the destination path when Sink is SinkFile.
	FilePath string `toml:"file_path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Camera: CameraConfig{
			DeviceID: 0,
			Width:    1280,
			Height:   720,
			FPS:      30,
			Mirror:   true,
		},
		Program: ProgramConfig{
			Path:               "effects.eymo",
			DeadlineMS:         33,
			DetectEveryNFrames: 1,
		},
		Output: OutputConfig{
			Sink: SinkPreview,
		},
	}
}

// Load reads and parses a TOML configuration file.
// If the file does not exist, it returns the default configuration.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Camera.Width <= 0 {
		return fmt.Errorf("camera width must be positive, got %d", c.Camera.Width)
	}
	if c.Camera.Height <= 0 {
		return fmt.Errorf("camera height must be positive, got %d", c.Camera.Height)
	}
	if c.Camera.FPS <= 0 {
		return fmt.Errorf("camera FPS must be positive, got %d", c.Camera.FPS)
	}
	if c.Program.DeadlineMS < 0 {
		return fmt.Errorf("program deadline_ms must not be negative, got %d", c.Program.DeadlineMS)
	}
	if c.Program.DetectEveryNFrames < 0 {
		return fmt.Errorf("detect_every_n_frames must not be negative, got %d", c.Program.DetectEveryNFrames)
	}
	switch c.Output.Sink {
	case SinkNone, SinkPreview, SinkFile, "":
	default:
		return fmt.Errorf("unknown output sink %q", c.Output.Sink)
	}
	if c.Output.Sink == SinkFile && c.Output.FilePath == "" {
		return fmt.Errorf("output.file_path is required when sink is %q", SinkFile)
	}
	return nil
}
