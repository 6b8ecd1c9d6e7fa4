package camera

import (
	gomath "math"

	"github.com/Faultbox/orrery/pkg/math"
)

// Direction is one of the four flight movement keys.
type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
)

// FlightSettings configures first-person movement.
type FlightSettings struct {
	// Speed is the acceleration applied per second of held input.
	Speed float32
	// Damping is the fraction of velocity removed per second.
	Damping float32
	// LookSensitivity converts pointer deltas to radians.
	LookSensitivity float32
	// MaxPitch keeps the look direction off the poles (radians).
	MaxPitch float32
}

// DefaultFlightSettings returns the standard flight feel.
func DefaultFlightSettings() FlightSettings {
	return FlightSettings{
		Speed:           200,
		Damping:         5,
		LookSensitivity: 0.002,
		MaxPitch:        1.55,
	}
}

// Flight moves the camera with damped velocity along its local axes. The
// look target travels with the camera so the view direction is preserved.
type Flight struct {
	pose     *Pose
	settings FlightSettings

	keys [4]bool
	// Camera-local: X is right, Z is forward.
	velocity math.Vec3
}

// NewFlight creates a flight controller driving pose.
func NewFlight(pose *Pose, settings FlightSettings) *Flight {
	return &Flight{
		pose:     pose,
		settings: settings,
	}
}

// SetKey records a key-down (pressed) or key-up.
func (f *Flight) SetKey(dir Direction, pressed bool) {
	if dir < Forward || dir > Right {
		return
	}
	f.keys[dir] = pressed
}

// Velocity returns the camera-local velocity.
func (f *Flight) Velocity() math.Vec3 {
	return f.velocity
}

// Reset clears held keys and velocity.
func (f *Flight) Reset() {
	f.keys = [4]bool{}
	f.velocity = math.Vec3{}
}

// Update advances one frame. It returns false without touching any state
// when flight mode is off.
func (f *Flight) Update(dt float32, enabled bool) bool {
	if !enabled {
		return false
	}

	input := math.Vec2{
		X: boolToFloat(f.keys[Right]) - boolToFloat(f.keys[Left]),
		Y: boolToFloat(f.keys[Forward]) - boolToFloat(f.keys[Backward]),
	}.Normalize()

	accel := f.settings.Speed * dt
	f.velocity.X += input.X * accel
	f.velocity.Z += input.Y * accel

	// Capped at 1 so a long frame stops the camera instead of reversing it.
	damp := f.settings.Damping * dt
	if damp > 1 {
		damp = 1
	}
	f.velocity = f.velocity.Sub(f.velocity.Scale(damp))

	right, _, forward := f.pose.Axes()
	move := right.Scale(f.velocity.X * dt).Add(forward.Scale(f.velocity.Z * dt))
	f.pose.Position = f.pose.Position.Add(move)
	f.pose.Target = f.pose.Target.Add(move)
	return true
}

// Look turns the view direction by a pointer delta: yaw about world up,
// pitch about the camera's right axis, clamped short of straight up/down.
func (f *Flight) Look(deltaX, deltaY float32) {
	offset := f.pose.Target.Sub(f.pose.Position)
	reach := offset.Length()
	if reach == 0 {
		reach = 1
	}
	right, _, forward := f.pose.Axes()

	yaw := math.QuatFromAxisAngle(worldUp, -deltaX*f.settings.LookSensitivity)

	current := float32(gomath.Asin(float64(clampUnit(forward.Y))))
	pitch := current - deltaY*f.settings.LookSensitivity
	if pitch > f.settings.MaxPitch {
		pitch = f.settings.MaxPitch
	}
	if pitch < -f.settings.MaxPitch {
		pitch = -f.settings.MaxPitch
	}
	tilt := math.QuatFromAxisAngle(right, pitch-current)

	dir := yaw.Mul(tilt).Rotate(forward).Normalize()
	f.pose.Target = f.pose.Position.Add(dir.Scale(reach))
}

func boolToFloat(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

func clampUnit(x float32) float32 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
