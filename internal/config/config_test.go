package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfig creates a temporary configs/ dir with the given YAML content and returns the path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfgDir, "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validYAML = `
camera:
  type: "v4l2"
  device: "/dev/video2"
  format: "mjpeg"
  width_px: 1280
  height_px: 720
booth:
  default_shots: 4
  frame_theme: "stars"
  strip_theme: "gold"
  countdown_interval_ms: 500
  inter_shot_pause_ms: 600
  locale: "en-US"
trigger:
  enabled: true
  button_pin: 17
flash:
  led_pin: 27
web:
  require_secure: true
defaults:
  debug_level: 2
  mock_gpio: true
`

func TestLoad_ValidFullConfig(t *testing.T) {
	path := writeConfig(t, validYAML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Camera.Device != "/dev/video2" {
		t.Errorf("Camera.Device = %q, want /dev/video2", cfg.Camera.Device)
	}
	if cfg.Camera.WidthPx != 1280 || cfg.Camera.HeightPx != 720 {
		t.Errorf("resolution = %dx%d, want 1280x720", cfg.Camera.WidthPx, cfg.Camera.HeightPx)
	}
	if cfg.Booth.DefaultShots != 4 {
		t.Errorf("DefaultShots = %d, want 4", cfg.Booth.DefaultShots)
	}
	if cfg.Booth.StripTheme != "gold" {
		t.Errorf("StripTheme = %q, want gold", cfg.Booth.StripTheme)
	}
	if cfg.CountdownInterval() != 500*time.Millisecond {
		t.Errorf("CountdownInterval = %v, want 500ms", cfg.CountdownInterval())
	}
	if cfg.InterShotPause() != 600*time.Millisecond {
		t.Errorf("InterShotPause = %v, want 600ms", cfg.InterShotPause())
	}
	if !cfg.Trigger.Enabled || cfg.Trigger.ButtonPin != 17 {
		t.Errorf("Trigger = %+v, want enabled on pin 17", cfg.Trigger)
	}
	if cfg.Flash.LEDPin != 27 {
		t.Errorf("Flash.LEDPin = %d, want 27", cfg.Flash.LEDPin)
	}
	if !cfg.Web.RequireSecure {
		t.Error("Web.RequireSecure should be true")
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "camera:\n  type: pattern\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	checks := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"device", cfg.Camera.Device, "/dev/video0"},
		{"width", cfg.Camera.WidthPx, 640},
		{"height", cfg.Camera.HeightPx, 480},
		{"shots", cfg.Booth.DefaultShots, 1},
		{"frame_theme", cfg.Booth.FrameTheme, "hearts"},
		{"strip_theme", cfg.Booth.StripTheme, "pink"},
		{"countdown_seconds", cfg.Booth.CountdownSeconds, 3},
		{"countdown_interval", cfg.CountdownInterval(), time.Second},
		{"inter_shot_pause", cfg.InterShotPause(), 800 * time.Millisecond},
		{"flash", cfg.FlashDuration(), 400 * time.Millisecond},
		{"locale", cfg.Booth.Locale, "vi-VN"},
		{"trigger_cooldown", cfg.TriggerCooldown(), 4500 * time.Millisecond},
		{"preview_fps", cfg.Web.PreviewFPS, 10},
	}
	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			if c.got != c.want {
				t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
			}
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"missing_camera_type", "booth:\n  default_shots: 1\n", "camera.type"},
		{"unknown_camera_type", "camera:\n  type: gphoto\n", "unsupported camera type"},
		{"bad_shots", "camera:\n  type: pattern\nbooth:\n  default_shots: 3\n", "default_shots"},
		{"negative_countdown", "camera:\n  type: pattern\nbooth:\n  countdown_seconds: -1\n", "countdown_seconds"},
		{"fps_too_high", "camera:\n  type: pattern\nbooth:\n  overlay_fps: 500\n", "overlay_fps"},
		{"trigger_without_pin", "camera:\n  type: pattern\ntrigger:\n  enabled: true\n", "button_pin"},
		{"debug_level", "camera:\n  type: pattern\ndefaults:\n  debug_level: 9\n", "debug_level"},
		{"bad_yaml", "camera: [", "unmarshal yaml"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Camera.Type != "pattern" {
		t.Errorf("Camera.Type = %q, want pattern", cfg.Camera.Type)
	}
	if cfg.OverlayInterval() != time.Second/30 {
		t.Errorf("OverlayInterval = %v, want %v", cfg.OverlayInterval(), time.Second/30)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvDevice, "/dev/video9")
	t.Setenv(EnvDebugLevel, "3")
	t.Setenv(EnvMockGPIO, "true")
	t.Setenv(EnvLocale, "en-US")

	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Camera.Type != "v4l2" || cfg.Camera.Device != "/dev/video9" {
		t.Errorf("camera = %+v, want v4l2 on /dev/video9", cfg.Camera)
	}
	if cfg.Defaults.DebugLevel != 3 {
		t.Errorf("DebugLevel = %d, want 3", cfg.Defaults.DebugLevel)
	}
	if !cfg.Defaults.MockGPIO {
		t.Error("MockGPIO should be true")
	}
	if cfg.Booth.Locale != "en-US" {
		t.Errorf("Locale = %q, want en-US", cfg.Booth.Locale)
	}
}

func TestApplyEnv_InvalidDebugLevel(t *testing.T) {
	t.Setenv(EnvDebugLevel, "loud")
	if err := Default().ApplyEnv(); err == nil {
		t.Error("expected error for non-numeric debug level")
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("GOBOOTH_LOCALE=en-US\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvLocale, "")
	os.Unsetenv(EnvLocale)

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv(EnvLocale); got != "en-US" {
		t.Errorf("%s = %q, want en-US", EnvLocale, got)
	}
}

func TestLoadEnvFile_Missing(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing env file should be ignored, got %v", err)
	}
	if err := LoadEnvFile(""); err != nil {
		t.Errorf("empty path should be ignored, got %v", err)
	}
}
