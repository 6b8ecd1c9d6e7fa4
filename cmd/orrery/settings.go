package main

import (
	gomath "math"

	"github.com/Faultbox/orrery/internal/config"
	"github.com/Faultbox/orrery/internal/engine/camera"
	"github.com/Faultbox/orrery/internal/engine/radar"
	"github.com/Faultbox/orrery/internal/game/explorer"
	"github.com/Faultbox/orrery/pkg/math"
)

// explorerSettings maps file configuration onto controller settings.
// Tunables the file does not expose keep their defaults.
func explorerSettings(cfg *config.Config) explorer.Settings {
	s := explorer.DefaultSettings()

	s.Lens = camera.Lens{
		FovY: float32(float64(cfg.Camera.FOV) * gomath.Pi / 180),
		Near: cfg.Camera.Near,
		Far:  cfg.Camera.Far,
	}

	o := cfg.Camera.Orbit
	s.Orbit = camera.OrbitSettings{
		MinDistance:     o.MinDistance,
		MaxDistance:     o.MaxDistance,
		MinPitch:        o.MinPitch,
		MaxPitch:        o.MaxPitch,
		DragSensitivity: o.DragSensitivity,
		ZoomSensitivity: o.ZoomSensitivity,
	}

	f := cfg.Camera.Focus
	s.Focus.HomeEntity = f.HomeEntity
	s.Focus.HomePosition = vec3(f.HomePosition)
	s.Focus.HomeTarget = vec3(f.HomeTarget)
	s.Focus.TargetLerp = f.TargetLerp
	s.Focus.ApproachLerp = f.ApproachLerp
	s.Focus.ReturnTargetLerp = f.ReturnTargetLerp
	s.Focus.ReturnCameraLerp = f.ReturnCameraLerp
	s.Focus.DesiredFactor = f.DesiredFactor
	s.Focus.MinFactor = f.MinFactor
	s.Focus.MaxFactor = f.MaxFactor

	s.Flight.Speed = cfg.Flight.Speed
	s.Flight.Damping = cfg.Flight.Damping
	s.Flight.LookSensitivity = cfg.Flight.LookSensitivity

	s.Radar = radar.Settings{
		Padding:       cfg.Radar.Padding,
		EdgeThreshold: cfg.Radar.EdgeThreshold,
		Throttle:      cfg.Radar.Throttle,
	}

	s.TimeScale = cfg.Scene.TimeScale
	return s
}

func vec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
