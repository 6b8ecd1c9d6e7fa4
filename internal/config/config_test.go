package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test window defaults
	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Test camera defaults
	if cfg.Camera.FOV != 75 {
		t.Errorf("expected fov 75, got %f", cfg.Camera.FOV)
	}
	if cfg.Camera.Orbit.MinDistance != 10 || cfg.Camera.Orbit.MaxDistance != 150 {
		t.Errorf("expected orbit bounds [10, 150], got [%f, %f]",
			cfg.Camera.Orbit.MinDistance, cfg.Camera.Orbit.MaxDistance)
	}
	if cfg.Camera.Focus.HomeEntity != "earth" {
		t.Errorf("expected home entity 'earth', got %s", cfg.Camera.Focus.HomeEntity)
	}
	if cfg.Camera.Focus.HomePosition != [3]float32{0, 20, 40} {
		t.Errorf("expected home position (0, 20, 40), got %v", cfg.Camera.Focus.HomePosition)
	}
	if cfg.Camera.Focus.DesiredFactor != 3.5 {
		t.Errorf("expected desired factor 3.5, got %f", cfg.Camera.Focus.DesiredFactor)
	}

	// Test flight and radar defaults
	if cfg.Flight.Speed != 200 || cfg.Flight.Damping != 5 {
		t.Errorf("expected flight speed 200 damping 5, got %f %f", cfg.Flight.Speed, cfg.Flight.Damping)
	}
	if cfg.Radar.Padding != 0.1 {
		t.Errorf("expected radar padding 0.1, got %f", cfg.Radar.Padding)
	}
	if cfg.Radar.Throttle != 2 {
		t.Errorf("expected radar throttle 2, got %d", cfg.Radar.Throttle)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
	if cfg.Metrics.Listen != "" {
		t.Errorf("expected metrics disabled by default, got %s", cfg.Metrics.Listen)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  fps_limit: 144

camera:
  fov: 60
  orbit:
    max_distance: 300
  focus:
    home_entity: "mars"
    home_position: [0, 50, 100]

flight:
  speed: 400

radar:
  padding: 0.05
  throttle: 3

scene:
  catalog: "custom.yaml"
  time_scale: 10

logging:
  level: "debug"
  log_file: "orrery.log"

metrics:
  listen: ":9090"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Window.Width)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Window.FPSLimit != 144 {
		t.Errorf("expected fps limit 144, got %d", cfg.Window.FPSLimit)
	}
	if cfg.Camera.FOV != 60 {
		t.Errorf("expected fov 60, got %f", cfg.Camera.FOV)
	}
	if cfg.Camera.Orbit.MaxDistance != 300 {
		t.Errorf("expected max distance 300, got %f", cfg.Camera.Orbit.MaxDistance)
	}
	// Unset keys keep their defaults.
	if cfg.Camera.Orbit.MinDistance != 10 {
		t.Errorf("expected min distance to stay 10, got %f", cfg.Camera.Orbit.MinDistance)
	}
	if cfg.Camera.Focus.HomeEntity != "mars" {
		t.Errorf("expected home entity 'mars', got %s", cfg.Camera.Focus.HomeEntity)
	}
	if cfg.Camera.Focus.HomePosition != [3]float32{0, 50, 100} {
		t.Errorf("expected home position (0, 50, 100), got %v", cfg.Camera.Focus.HomePosition)
	}
	if cfg.Flight.Speed != 400 {
		t.Errorf("expected flight speed 400, got %f", cfg.Flight.Speed)
	}
	if cfg.Radar.Throttle != 3 {
		t.Errorf("expected radar throttle 3, got %d", cfg.Radar.Throttle)
	}
	if cfg.Scene.Catalog != "custom.yaml" || cfg.Scene.TimeScale != 10 {
		t.Errorf("expected scene custom.yaml x10, got %s x%f", cfg.Scene.Catalog, cfg.Scene.TimeScale)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "orrery.log" {
		t.Errorf("expected log file 'orrery.log', got %s", cfg.Logging.LogFile)
	}
	if cfg.Metrics.Listen != ":9090" {
		t.Errorf("expected metrics listen ':9090', got %s", cfg.Metrics.Listen)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }, "window size"},
		{"inverted orbit", func(c *Config) { c.Camera.Orbit.MinDistance = 200 }, "orbit distance"},
		{"near past far", func(c *Config) { c.Camera.Near = 3000 }, "near"},
		{"inverted focus", func(c *Config) { c.Camera.Focus.MinFactor = 20 }, "focus distance"},
		{"padding", func(c *Config) { c.Radar.Padding = 1 }, "radar padding"},
		{"throttle", func(c *Config) { c.Radar.Throttle = 0 }, "radar throttle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Camera.Focus.HomeEntity = "jupiter"
	cfg.Radar.Throttle = 4
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Camera.Focus.HomeEntity != "jupiter" || loaded.Radar.Throttle != 4 {
		t.Errorf("reloaded config lost values: home %s throttle %d",
			loaded.Camera.Focus.HomeEntity, loaded.Radar.Throttle)
	}
}

func TestSaveToUserConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only applies on linux")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if SaveRequested() {
		t.Error("expected save-config to default to false")
	}

	cfg := Default()
	cfg.Window.Width = 1024
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, filepath.Join(ConfigDir(), "config.yaml")); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Window.Width != 1024 {
		t.Errorf("expected width 1024 after Save, got %d", loaded.Window.Width)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Isolate from any real user config
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "metrics flag",
			setup: func() {
				*flagMetrics = "127.0.0.1:9100"
			},
			verify: func(cfg *Config) {
				if cfg.Metrics.Listen != "127.0.0.1:9100" {
					t.Errorf("expected metrics 127.0.0.1:9100, got %s", cfg.Metrics.Listen)
				}
			},
			teardown: func() {
				*flagMetrics = ""
			},
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(cfg *Config) {
				if cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() {
				*flagWindowed = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) {
				if cfg.Window.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Window.Width)
				}
				if cfg.Window.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg)

			// Verify
			tt.verify(cfg)
		})
	}
}

func TestModeAndFramesFlags(t *testing.T) {
	if Mode() != "window" {
		t.Errorf("expected default mode 'window', got %s", Mode())
	}
	*flagMode = "headless"
	*flagFrames = 120
	defer func() {
		*flagMode = "window"
		*flagFrames = 0
	}()
	if Mode() != "headless" || Frames() != 120 {
		t.Errorf("expected headless/120, got %s/%d", Mode(), Frames())
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("radar:\n  throttle: 0\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected Load to reject throttle 0")
	}
}
