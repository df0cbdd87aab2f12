package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Camera.DeviceID != 0 {
		t.Errorf("expected DeviceID 0, got %d", cfg.Camera.DeviceID)
	}
	if cfg.Camera.Width != 1280 {
		t.Errorf("expected Width 1280, got %d", cfg.Camera.Width)
	}
	if cfg.Camera.Height != 720 {
		t.Errorf("expected Height 720, got %d", cfg.Camera.Height)
	}
	if cfg.Camera.FPS != 30 {
		t.Errorf("expected FPS 30, got %d", cfg.Camera.FPS)
	}
	if cfg.Program.Path != "effects.eymo" {
		t.Errorf("expected default program path, got %q", cfg.Program.Path)
	}
	if cfg.Program.DeadlineMS != 33 {
		t.Errorf("expected DeadlineMS 33, got %d", cfg.Program.DeadlineMS)
	}
	if cfg.Program.DetectEveryNFrames != 1 {
		t.Errorf("expected DetectEveryNFrames 1, got %d", cfg.Program.DetectEveryNFrames)
	}
	if cfg.Output.Sink != SinkPreview {
		t.Errorf("expected SinkPreview, got %q", cfg.Output.Sink)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error for non-existent file: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected default config for non-existent file")
	}
}

func TestLoad_ValidFile(t *testing.T) {
	content := `
[camera]
device_id = 1
width = 1920
height = 1080
fps = 60
mirror = true

[program]
path = "myeffects.eymo"
deadline_ms = 16
detect_every_n_frames = 5

[output]
sink = "file"
file_path = "out.png"
`
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Camera.DeviceID != 1 {
		t.Errorf("expected DeviceID 1, got %d", cfg.Camera.DeviceID)
	}
	if cfg.Camera.Width != 1920 {
		t.Errorf("expected Width 1920, got %d", cfg.Camera.Width)
	}
	if !cfg.Camera.Mirror {
		t.Error("expected Mirror to be true")
	}
	if cfg.Program.Path != "myeffects.eymo" {
		t.Errorf("expected program path myeffects.eymo, got %q", cfg.Program.Path)
	}
	if cfg.Program.DeadlineMS != 16 {
		t.Errorf("expected DeadlineMS 16, got %d", cfg.Program.DeadlineMS)
	}
	if cfg.Program.DetectEveryNFrames != 5 {
		t.Errorf("expected DetectEveryNFrames 5, got %d", cfg.Program.DetectEveryNFrames)
	}
	if cfg.Output.Sink != SinkFile {
		t.Errorf("expected SinkFile, got %q", cfg.Output.Sink)
	}
	if cfg.Output.FilePath != "out.png" {
		t.Errorf("expected file_path out.png, got %q", cfg.Output.FilePath)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "invalid.toml")
	if err := os.WriteFile(path, []byte("invalid [ toml"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestValidate_InvalidWidth(t *testing.T) {
	cfg := Default()
	cfg.Camera.Width = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid width")
	}
}

func TestValidate_InvalidHeight(t *testing.T) {
	cfg := Default()
	cfg.Camera.Height = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid height")
	}
}

func TestValidate_InvalidFPS(t *testing.T) {
	cfg := Default()
	cfg.Camera.FPS = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid FPS")
	}
}

func TestValidate_InvalidDeadline(t *testing.T) {
	cfg := Default()
	cfg.Program.DeadlineMS = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative deadline_ms")
	}
}

func TestValidate_InvalidSink(t *testing.T) {
	cfg := Default()
	cfg.Output.Sink = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown sink")
	}
}

func TestValidate_FileSinkRequiresPath(t *testing.T) {
	cfg := Default()
	cfg.Output.Sink = SinkFile
	cfg.Output.FilePath = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for file sink with empty file_path")
	}
}
