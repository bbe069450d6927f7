package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// CameraConfig describes the live video source.
// Type selects a concrete implementation ("v4l2" or "pattern").
type CameraConfig struct {
	Type           string `yaml:"type"`             // "v4l2" or "pattern"
	Device         string `yaml:"device"`           // e.g., "/dev/video0"
	Format         string `yaml:"format"`           // preferred pixel format: "mjpeg" or "yuyv" (empty = first supported)
	WidthPx        int    `yaml:"width_px"`         // ideal capture width
	HeightPx       int    `yaml:"height_px"`        // ideal capture height
	FrameTimeoutMs int    `yaml:"frame_timeout_ms"` // wait for a frame before retrying
}

// BoothConfig holds the capture session parameters.
type BoothConfig struct {
	DefaultShots        int    `yaml:"default_shots"`         // 1, 4 or 8
	FrameTheme          string `yaml:"frame_theme"`           // hearts, flowers, stars
	StripTheme          string `yaml:"strip_theme"`           // pink, gold, blue, classic
	CountdownSeconds    int    `yaml:"countdown_seconds"`     // countdown start value
	CountdownIntervalMs int    `yaml:"countdown_interval_ms"` // delay between countdown ticks
	InterShotPauseMs    int    `yaml:"inter_shot_pause_ms"`   // pause between two shots
	FlashMs             int    `yaml:"flash_ms"`              // flash feedback duration
	OverlayFPS          int    `yaml:"overlay_fps"`           // overlay redraw rate
	Locale              string `yaml:"locale"`                // footer date format, e.g. "vi-VN"
	Caption             string `yaml:"caption"`               // footer caption after the date
}

// TriggerConfig describes the optional GPIO push button.
type TriggerConfig struct {
	Enabled    bool `yaml:"enabled"`
	ButtonPin  int  `yaml:"button_pin"`  // BCM pin, active LOW with pull-up
	HoldMs     int  `yaml:"hold_ms"`     // press must last this long
	CooldownMs int  `yaml:"cooldown_ms"` // ignore presses right after a trigger
	PollMs     int  `yaml:"poll_ms"`     // pin polling period
}

// FlashConfig describes the optional flash LED.
type FlashConfig struct {
	LEDPin int `yaml:"led_pin"` // BCM pin. 0 = not used.
}

// WebConfig holds HTTP surface options.
type WebConfig struct {
	RequireSecure bool `yaml:"require_secure"` // refuse camera start from non-loopback plain HTTP clients
	PreviewFPS    int  `yaml:"preview_fps"`    // websocket live preview rate
}

// DefaultsConfig contains generic parameters.
type DefaultsConfig struct {
	DebugLevel int  `yaml:"debug_level"` // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
	MockGPIO   bool `yaml:"mock_gpio"`   // use mock GPIO (true=dev/test, false=real Raspberry Pi)
}

// Config aggregates all application configuration.
type Config struct {
	Camera   CameraConfig   `yaml:"camera"`
	Booth    BoothConfig    `yaml:"booth"`
	Trigger  TriggerConfig  `yaml:"trigger"`
	Flash    FlashConfig    `yaml:"flash"`
	Web      WebConfig      `yaml:"web"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML data, validates it and fills in defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{Camera: CameraConfig{Type: "pattern"}}
	_ = cfg.normalize()
	return cfg
}

func (c *Config) normalize() error {
	switch c.Camera.Type {
	case "":
		return fmt.Errorf("camera.type is required")
	case "v4l2", "pattern":
	default:
		return fmt.Errorf("unsupported camera type: %s", c.Camera.Type)
	}
	if c.Camera.Device == "" {
		c.Camera.Device = "/dev/video0"
	}
	if c.Camera.WidthPx <= 0 {
		c.Camera.WidthPx = 640
	}
	if c.Camera.HeightPx <= 0 {
		c.Camera.HeightPx = 480
	}
	if c.Camera.FrameTimeoutMs <= 0 {
		c.Camera.FrameTimeoutMs = 3000
	}

	switch c.Booth.DefaultShots {
	case 0:
		c.Booth.DefaultShots = 1
	case 1, 4, 8:
	default:
		return fmt.Errorf("booth.default_shots must be 1, 4 or 8, got %d", c.Booth.DefaultShots)
	}
	if c.Booth.FrameTheme == "" {
		c.Booth.FrameTheme = "hearts"
	}
	if c.Booth.StripTheme == "" {
		c.Booth.StripTheme = "pink"
	}
	if c.Booth.CountdownSeconds < 0 {
		return fmt.Errorf("booth.countdown_seconds must be >= 0, got %d", c.Booth.CountdownSeconds)
	}
	if c.Booth.CountdownSeconds == 0 {
		c.Booth.CountdownSeconds = 3
	}
	if c.Booth.CountdownIntervalMs <= 0 {
		c.Booth.CountdownIntervalMs = 1000
	}
	if c.Booth.InterShotPauseMs <= 0 {
		c.Booth.InterShotPauseMs = 800
	}
	if c.Booth.FlashMs <= 0 {
		c.Booth.FlashMs = 400
	}
	if c.Booth.OverlayFPS <= 0 {
		c.Booth.OverlayFPS = 30
	}
	if c.Booth.OverlayFPS > 120 {
		return fmt.Errorf("booth.overlay_fps must be <= 120, got %d", c.Booth.OverlayFPS)
	}
	if c.Booth.Locale == "" {
		c.Booth.Locale = "vi-VN"
	}
	if c.Booth.Caption == "" {
		c.Booth.Caption = "💕 Anh yêu em"
	}

	if c.Trigger.Enabled && c.Trigger.ButtonPin <= 0 {
		return fmt.Errorf("trigger.button_pin is required when trigger is enabled")
	}
	if c.Trigger.HoldMs <= 0 {
		c.Trigger.HoldMs = 400
	}
	if c.Trigger.CooldownMs <= 0 {
		c.Trigger.CooldownMs = 4500
	}
	if c.Trigger.PollMs <= 0 {
		c.Trigger.PollMs = 20
	}
	if c.Flash.LEDPin < 0 {
		return fmt.Errorf("flash.led_pin must be >= 0, got %d", c.Flash.LEDPin)
	}
	if c.Web.PreviewFPS <= 0 {
		c.Web.PreviewFPS = 10
	}
	if c.Defaults.DebugLevel < 0 || c.Defaults.DebugLevel > 4 {
		return fmt.Errorf("defaults.debug_level must be between 0 and 4, got %d", c.Defaults.DebugLevel)
	}
	return nil
}

// Environment variables read by ApplyEnv.
const (
	EnvDevice     = "GOBOOTH_DEVICE"
	EnvDebugLevel = "GOBOOTH_DEBUG_LEVEL"
	EnvMockGPIO   = "GOBOOTH_MOCK_GPIO"
	EnvLocale     = "GOBOOTH_LOCALE"
)

// LoadEnvFile loads KEY=VALUE pairs from a .env file into the process
// environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides config values from GOBOOTH_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvDevice); v != "" {
		c.Camera.Device = v
		c.Camera.Type = "v4l2"
	}
	if v := os.Getenv(EnvDebugLevel); v != "" {
		lvl, err := strconv.Atoi(v)
		if err != nil || lvl < 0 || lvl > 4 {
			return fmt.Errorf("%s must be 0-4, got %q", EnvDebugLevel, v)
		}
		c.Defaults.DebugLevel = lvl
	}
	if v := os.Getenv(EnvMockGPIO); v != "" {
		mock, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMockGPIO, err)
		}
		c.Defaults.MockGPIO = mock
	}
	if v := os.Getenv(EnvLocale); v != "" {
		c.Booth.Locale = v
	}
	return nil
}

// CountdownInterval returns the delay between two countdown ticks.
func (c *Config) CountdownInterval() time.Duration {
	return time.Duration(c.Booth.CountdownIntervalMs) * time.Millisecond
}

// InterShotPause returns the pause between two shots of a sequence.
func (c *Config) InterShotPause() time.Duration {
	return time.Duration(c.Booth.InterShotPauseMs) * time.Millisecond
}

// FlashDuration returns how long the flash feedback lasts.
func (c *Config) FlashDuration() time.Duration {
	return time.Duration(c.Booth.FlashMs) * time.Millisecond
}

// OverlayInterval returns the period between two overlay redraws.
func (c *Config) OverlayInterval() time.Duration {
	return time.Second / time.Duration(c.Booth.OverlayFPS)
}

// FrameTimeout returns how long the camera waits for a frame.
func (c *Config) FrameTimeout() time.Duration {
	return time.Duration(c.Camera.FrameTimeoutMs) * time.Millisecond
}

// TriggerHold returns how long the button must be held.
func (c *Config) TriggerHold() time.Duration {
	return time.Duration(c.Trigger.HoldMs) * time.Millisecond
}

// TriggerCooldown returns the minimum delay between two button triggers.
func (c *Config) TriggerCooldown() time.Duration {
	return time.Duration(c.Trigger.CooldownMs) * time.Millisecond
}

// TriggerPoll returns the button polling period.
func (c *Config) TriggerPoll() time.Duration {
	return time.Duration(c.Trigger.PollMs) * time.Millisecond
}

// PreviewInterval returns the period between two live preview frames.
func (c *Config) PreviewInterval() time.Duration {
	return time.Second / time.Duration(c.Web.PreviewFPS)
}
