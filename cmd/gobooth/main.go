package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/cjeanneret/GoBooth/internal/config"
	"github.com/cjeanneret/GoBooth/internal/debug"
	"github.com/cjeanneret/GoBooth/internal/hw/camera"
	"github.com/cjeanneret/GoBooth/internal/hw/gpio"
	"github.com/cjeanneret/GoBooth/internal/hw/trigger"
	"github.com/cjeanneret/GoBooth/internal/logic/booth"
	"github.com/cjeanneret/GoBooth/internal/logic/compositor"
	"github.com/cjeanneret/GoBooth/internal/logic/overlay"
	"github.com/cjeanneret/GoBooth/internal/logic/strip"
	"github.com/cjeanneret/GoBooth/internal/web"
)

// stickerPalette is offered by the web page.
var stickerPalette = []string{"❤️", "💕", "🌸", "⭐", "✨", "🥰", "🎀", "👑", "🦋", "🌈"}

func main() {
	// CLI flags
	webPort := &webPortFlag{defaultPort: 8080}
	flag.Var(webPort, "web", "start web server on port; -web= for default 8080, -web 8980 for custom port")
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file (empty = built-in defaults)")
	envPath := flag.String("env", ".env", "path to a .env file with GOBOOTH_* overrides")
	device := flag.String("device", "", "V4L2 device to capture from (implies camera type v4l2)")
	mock := flag.Bool("mock", false, "use mock GPIO instead of the Raspberry Pi pins")
	outDir := flag.String("out", ".", "directory for strips saved without the web server")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load configuration: .env first so that ApplyEnv sees it, flags last.
	if err := config.LoadEnvFile(*envPath); err != nil {
		log.Fatalf("load env failed: %v", err)
	}
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatalf("invalid environment: %v", err)
	}
	var mockSet *bool
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "mock" {
			mockSet = mock
		}
	})
	applyFlags(cfg, *device, mockSet)

	// Initialize debug system
	debug.Init(cfg.Defaults.DebugLevel)

	var broadcaster *web.StatusBroadcaster
	if webPort.port() > 0 {
		broadcaster = web.NewStatusBroadcaster()
		debug.SetOutput(io.MultiWriter(os.Stdout, web.BroadcastWriter(broadcaster)))
	}

	debug.Section("Initialization")
	debug.Value("Config path", *cfgPath)
	debug.Value("Debug level", debug.Level())
	debug.PrintStruct("Booth config", cfg.Booth)

	// Initialize GPIO driver
	debug.Value("Mock GPIO", cfg.Defaults.MockGPIO)
	debug.Step(1, "Initializing GPIO driver")
	gpioDriver, err := gpio.NewDriver(cfg.Defaults.MockGPIO)
	if err != nil {
		log.Fatalf("init GPIO failed: %v", err)
	}
	defer func() {
		if err := gpioDriver.Close(); err != nil {
			log.Printf("closing GPIO driver failed: %v", err)
		}
	}()

	// Initialize camera
	debug.Step(2, "Initializing camera")
	src, err := newSourceFromConfig(cfg)
	if err != nil {
		log.Fatalf("init camera failed: %v", err)
	}
	debug.Value("Camera type", cfg.Camera.Type)
	debug.Value("Camera device", cfg.Camera.Device)

	var flash compositor.Flasher
	if cfg.Flash.LEDPin > 0 {
		led, err := compositor.NewLEDFlash(gpioDriver, cfg.Flash.LEDPin)
		if err != nil {
			log.Fatalf("init flash LED failed: %v", err)
		}
		defer led.Close()
		flash = led
		debug.Value("Flash LED pin", cfg.Flash.LEDPin)
	}

	// Build the booth
	debug.Step(3, "Creating booth")
	var b *booth.Booth
	var notifier booth.Notifier
	if broadcaster != nil {
		notifier = broadcaster
	} else {
		notifier = booth.NotifierFunc(func(e booth.Event) {
			if e.Kind != booth.EventIdle || e.State == nil || e.State.Strip == nil {
				return
			}
			if path, err := saveStrip(b, *outDir); err != nil {
				debug.Error(err)
			} else {
				debug.Info("Strip saved to %s", path)
			}
		})
	}
	b = booth.New(booth.Options{
		Source:            src,
		Renderer:          strip.NewRenderer(cfg.Booth.Locale, cfg.Booth.Caption),
		Flash:             flash,
		Notifier:          notifier,
		Shots:             cfg.Booth.DefaultShots,
		FrameTheme:        overlay.Theme(cfg.Booth.FrameTheme),
		StripTheme:        cfg.Booth.StripTheme,
		CountdownSeconds:  cfg.Booth.CountdownSeconds,
		CountdownInterval: cfg.CountdownInterval(),
		InterShotPause:    cfg.InterShotPause(),
		FlashDuration:     cfg.FlashDuration(),
		OverlayInterval:   cfg.OverlayInterval(),
	})
	defer b.Close()

	if cfg.Trigger.Enabled {
		debug.Step(4, "Starting trigger button")
		button, err := trigger.NewButton(gpioDriver, trigger.Config{
			Pin:      cfg.Trigger.ButtonPin,
			Hold:     cfg.TriggerHold(),
			Cooldown: cfg.TriggerCooldown(),
			Poll:     cfg.TriggerPoll(),
		}, b.RequestCapture)
		if err != nil {
			log.Fatalf("init trigger failed: %v", err)
		}
		go func() {
			if err := button.Run(ctx); err != nil {
				debug.Error(err)
			}
		}()
	}

	if port := webPort.port(); port > 0 {
		webAddr := fmt.Sprintf(":%d", port)
		srv := web.NewServer(webAddr, broadcaster, b, formConfig(cfg), web.Options{
			RequireSecure:   cfg.Web.RequireSecure,
			PreviewInterval: cfg.PreviewInterval(),
		})
		if err := srv.Run(ctx); err != nil {
			log.Fatalf("web server: %v", err)
		}
		return
	}

	// Without the web server the camera runs right away.
	if err := b.StartCamera(ctx); err != nil {
		log.Fatalf("start camera: %v", err)
	}
	if cfg.Trigger.Enabled {
		debug.Info("Waiting for the trigger button (Ctrl+C to quit)")
		<-ctx.Done()
		return
	}
	// Single sequence, saved by the notifier when it goes idle.
	if !b.RequestCapture() {
		log.Fatalf("capture could not start")
	}
	b.Wait()
}

// loadConfig reads the YAML file, or returns built-in defaults when path
// is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// applyFlags applies command-line overrides. mock is nil when -mock was
// not given.
func applyFlags(cfg *config.Config, device string, mock *bool) {
	if device != "" {
		cfg.Camera.Device = device
		cfg.Camera.Type = "v4l2"
	}
	if mock != nil {
		cfg.Defaults.MockGPIO = *mock
	}
}

// formConfig lists the choices offered by the web page.
func formConfig(cfg *config.Config) web.FormConfig {
	themes := overlay.Themes()
	frameThemes := make([]string, len(themes))
	for i, t := range themes {
		frameThemes[i] = string(t)
	}
	return web.FormConfig{
		FrameThemes: frameThemes,
		StripThemes: strip.ThemeNames(),
		Shots:       booth.ValidShots,
		Stickers:    stickerPalette,
		PreviewFPS:  cfg.Web.PreviewFPS,
	}
}

// saveStrip exports the current strip into dir and returns the file path.
func saveStrip(b *booth.Booth, dir string) (string, error) {
	var buf bytes.Buffer
	name, ok, err := b.Export(&buf)
	if err != nil {
		return "", fmt.Errorf("export strip: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("export strip: %w", booth.ErrNoStrip)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write strip: %w", err)
	}
	return path, nil
}

// webPortFlag implements flag.Value for -web: 0 = disabled, -web= or -web 8080 → 8080, -web 8980 → 8980.
type webPortFlag struct {
	val         int
	defaultPort int
}

func (w *webPortFlag) String() string {
	if w.val == 0 {
		return "0"
	}
	return strconv.Itoa(w.val)
}

func (w *webPortFlag) Set(s string) error {
	if s == "" {
		w.val = w.defaultPort
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v <= 0 || v > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", v)
	}
	w.val = v
	return nil
}

func (w *webPortFlag) port() int { return w.val }

// newSourceFromConfig selects a camera implementation based on configuration.
func newSourceFromConfig(cfg *config.Config) (camera.Source, error) {
	switch cfg.Camera.Type {
	case "v4l2":
		return camera.NewV4L2Source(
			cfg.Camera.Device,
			cfg.Camera.Format,
			cfg.Camera.WidthPx,
			cfg.Camera.HeightPx,
			cfg.FrameTimeout(),
		), nil
	case "pattern":
		return camera.NewPatternSource(cfg.Camera.WidthPx, cfg.Camera.HeightPx), nil
	default:
		return nil, fmt.Errorf("unsupported camera type: %s", cfg.Camera.Type)
	}
}
