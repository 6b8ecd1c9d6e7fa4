package camera

import (
	gomath "math"

	"github.com/Faultbox/orrery/pkg/math"
)

// OrbitSettings configures the orbit controller.
type OrbitSettings struct {
	MinDistance float32
	MaxDistance float32

	// Elevation limits in radians.
	MinPitch float32
	MaxPitch float32

	DragSensitivity float32
	ZoomSensitivity float32
}

// DefaultOrbitSettings returns the unfocused orbit bounds [10, 150].
func DefaultOrbitSettings() OrbitSettings {
	return OrbitSettings{
		MinDistance:     10,
		MaxDistance:     150,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Orbit rotates and zooms the camera around pose.Target, keeping the
// camera-to-target distance within the active bounds.
type Orbit struct {
	pose     *Pose
	settings OrbitSettings

	minDistance float32
	maxDistance float32
}

// NewOrbit creates an orbit controller driving pose.
func NewOrbit(pose *Pose, settings OrbitSettings) *Orbit {
	return &Orbit{
		pose:        pose,
		settings:    settings,
		minDistance: settings.MinDistance,
		maxDistance: settings.MaxDistance,
	}
}

// Bounds returns the active distance bounds.
func (o *Orbit) Bounds() (minDist, maxDist float32) {
	return o.minDistance, o.maxDistance
}

// SetBounds narrows or widens the distance bounds.
func (o *Orbit) SetBounds(minDist, maxDist float32) {
	if minDist > maxDist {
		minDist, maxDist = maxDist, minDist
	}
	o.minDistance = minDist
	o.maxDistance = maxDist
}

// ResetBounds restores the configured default bounds.
func (o *Orbit) ResetBounds() {
	o.minDistance = o.settings.MinDistance
	o.maxDistance = o.settings.MaxDistance
}

// HandleDrag rotates the camera around the target by a pointer delta.
func (o *Orbit) HandleDrag(deltaX, deltaY float32) {
	yaw, pitch, dist := o.spherical()

	yaw -= deltaX * o.settings.DragSensitivity
	pitch += deltaY * o.settings.DragSensitivity
	if pitch < o.settings.MinPitch {
		pitch = o.settings.MinPitch
	}
	if pitch > o.settings.MaxPitch {
		pitch = o.settings.MaxPitch
	}

	o.place(yaw, pitch, o.clamp(dist))
}

// HandleZoom scales the distance by a scroll delta. Positive zooms in.
func (o *Orbit) HandleZoom(delta float32) {
	yaw, pitch, dist := o.spherical()
	dist -= delta * dist * o.settings.ZoomSensitivity
	o.place(yaw, pitch, o.clamp(dist))
}

// Constrain re-applies the distance bounds to the current pose and reports
// whether the camera moved.
func (o *Orbit) Constrain() bool {
	yaw, pitch, dist := o.spherical()
	clamped := o.clamp(dist)
	if clamped == dist {
		return false
	}
	o.place(yaw, pitch, clamped)
	return true
}

func (o *Orbit) clamp(dist float32) float32 {
	if dist < o.minDistance {
		return o.minDistance
	}
	if dist > o.maxDistance {
		return o.maxDistance
	}
	return dist
}

// spherical decomposes the target-to-camera offset into yaw, pitch and
// distance. A camera sitting on its target is treated as looking from +Z.
func (o *Orbit) spherical() (yaw, pitch, dist float32) {
	offset := o.pose.Position.Sub(o.pose.Target)
	dist = offset.Length()
	if dist == 0 {
		return 0, 0, 0
	}
	sinPitch := float64(offset.Y / dist)
	if sinPitch > 1 {
		sinPitch = 1
	} else if sinPitch < -1 {
		sinPitch = -1
	}
	pitch = float32(gomath.Asin(sinPitch))
	yaw = float32(gomath.Atan2(float64(offset.X), float64(offset.Z)))
	return yaw, pitch, dist
}

func (o *Orbit) place(yaw, pitch, dist float32) {
	cosPitch := gomath.Cos(float64(pitch))
	o.pose.Position = o.pose.Target.Add(math.Vec3{
		X: dist * float32(cosPitch*gomath.Sin(float64(yaw))),
		Y: dist * float32(gomath.Sin(float64(pitch))),
		Z: dist * float32(cosPitch*gomath.Cos(float64(yaw))),
	})
}
