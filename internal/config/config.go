// Package config handles explorer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all explorer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Camera  CameraConfig  `yaml:"camera"`
	Flight  FlightConfig  `yaml:"flight"`
	Radar   RadarConfig   `yaml:"radar"`
	Scene   SceneConfig   `yaml:"scene"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	FPSLimit   int    `yaml:"fps_limit"`
}

// CameraConfig holds lens and controller settings.
type CameraConfig struct {
	FOV   float32     `yaml:"fov"` // Vertical, degrees
	Near  float32     `yaml:"near"`
	Far   float32     `yaml:"far"`
	Orbit OrbitConfig `yaml:"orbit"`
	Focus FocusConfig `yaml:"focus"`
}

// OrbitConfig holds orbit bounds and input sensitivity.
type OrbitConfig struct {
	MinDistance     float32 `yaml:"min_distance"`
	MaxDistance     float32 `yaml:"max_distance"`
	MinPitch        float32 `yaml:"min_pitch"`
	MaxPitch        float32 `yaml:"max_pitch"`
	DragSensitivity float32 `yaml:"drag_sensitivity"`
	ZoomSensitivity float32 `yaml:"zoom_sensitivity"`
}

// FocusConfig holds homing factors and the home pose.
type FocusConfig struct {
	HomeEntity       string     `yaml:"home_entity"`
	HomePosition     [3]float32 `yaml:"home_position"`
	HomeTarget       [3]float32 `yaml:"home_target"`
	TargetLerp       float32    `yaml:"target_lerp"`
	ApproachLerp     float32    `yaml:"approach_lerp"`
	ReturnTargetLerp float32    `yaml:"return_target_lerp"`
	ReturnCameraLerp float32    `yaml:"return_camera_lerp"`
	DesiredFactor    float32    `yaml:"desired_factor"`
	MinFactor        float32    `yaml:"min_factor"`
	MaxFactor        float32    `yaml:"max_factor"`
}

// FlightConfig holds first-person movement settings.
type FlightConfig struct {
	Speed           float32 `yaml:"speed"`
	Damping         float32 `yaml:"damping"`
	LookSensitivity float32 `yaml:"look_sensitivity"`
}

// RadarConfig holds off-screen indicator settings.
type RadarConfig struct {
	Padding       float32 `yaml:"padding"`
	EdgeThreshold float32 `yaml:"edge_threshold"`
	Throttle      int     `yaml:"throttle"` // Run every Nth frame
}

// SceneConfig holds catalog and simulation clock settings.
type SceneConfig struct {
	Catalog   string  `yaml:"catalog"` // Empty uses the built-in catalog
	TimeScale float64 `yaml:"time_scale"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Listen string `yaml:"listen"` // Empty disables the endpoint
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "Orrery",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Camera: CameraConfig{
			FOV:  75,
			Near: 0.1,
			Far:  2000,
			Orbit: OrbitConfig{
				MinDistance:     10,
				MaxDistance:     150,
				MinPitch:        -1.5,
				MaxPitch:        1.5,
				DragSensitivity: 0.005,
				ZoomSensitivity: 0.1,
			},
			Focus: FocusConfig{
				HomeEntity:       "earth",
				HomePosition:     [3]float32{0, 20, 40},
				HomeTarget:       [3]float32{0, 0, 0},
				TargetLerp:       0.1,
				ApproachLerp:     0.05,
				ReturnTargetLerp: 0.05,
				ReturnCameraLerp: 0.02,
				DesiredFactor:    3.5,
				MinFactor:        1.5,
				MaxFactor:        10,
			},
		},
		Flight: FlightConfig{
			Speed:           200,
			Damping:         5,
			LookSensitivity: 0.002,
		},
		Radar: RadarConfig{
			Padding:       0.1,
			EdgeThreshold: 0.9,
			Throttle:      2,
		},
		Scene: SceneConfig{
			Catalog:   "",
			TimeScale: 1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Metrics: MetricsConfig{
			Listen: "",
		},
	}
}

// Validate reports settings the explorer cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera fov %g must be in (0, 180)", c.Camera.FOV))
	}
	if c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far {
		errs = append(errs, fmt.Errorf("camera near %g must be positive and below far %g", c.Camera.Near, c.Camera.Far))
	}
	if c.Camera.Orbit.MinDistance <= 0 || c.Camera.Orbit.MinDistance > c.Camera.Orbit.MaxDistance {
		errs = append(errs, fmt.Errorf("orbit distance bounds [%g, %g] are inverted or non-positive",
			c.Camera.Orbit.MinDistance, c.Camera.Orbit.MaxDistance))
	}
	if c.Camera.Orbit.MinPitch > c.Camera.Orbit.MaxPitch {
		errs = append(errs, fmt.Errorf("orbit pitch bounds [%g, %g] are inverted",
			c.Camera.Orbit.MinPitch, c.Camera.Orbit.MaxPitch))
	}
	if c.Camera.Focus.MinFactor > c.Camera.Focus.MaxFactor {
		errs = append(errs, fmt.Errorf("focus distance factors [%g, %g] are inverted",
			c.Camera.Focus.MinFactor, c.Camera.Focus.MaxFactor))
	}
	if c.Radar.Padding < 0 || c.Radar.Padding >= 1 {
		errs = append(errs, fmt.Errorf("radar padding %g must be in [0, 1)", c.Radar.Padding))
	}
	if c.Radar.Throttle < 1 {
		errs = append(errs, fmt.Errorf("radar throttle %d must be at least 1", c.Radar.Throttle))
	}
	return errors.Join(errs...)
}
