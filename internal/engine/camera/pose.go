// Package camera implements the orbit, focus and flight camera controllers
// that drive a shared Pose.
package camera

import (
	gomath "math"

	"github.com/Faultbox/orrery/pkg/math"
)

var worldUp = math.Vec3{X: 0, Y: 1, Z: 0}

// Pose is the camera state handed to the renderer each frame.
type Pose struct {
	Position math.Vec3
	Target   math.Vec3
	FovY     float32 // radians
}

// ViewMatrix returns the view matrix for this pose.
func (p Pose) ViewMatrix() math.Mat4 {
	return math.LookAt(p.Position, p.Target, worldUp)
}

// Distance returns the camera-to-target distance.
func (p Pose) Distance() float32 {
	return p.Position.Distance(p.Target)
}

// Axes returns the camera's right, up and forward unit vectors, consistent
// with ViewMatrix. Looking straight up or down falls back to +X for right.
func (p Pose) Axes() (right, up, forward math.Vec3) {
	forward = p.Target.Sub(p.Position).Normalize()
	if forward == (math.Vec3{}) {
		forward = math.Vec3{Z: -1}
	}
	right = forward.Cross(worldUp).Normalize()
	if right == (math.Vec3{}) {
		right = math.Vec3{X: 1}
	}
	up = right.Cross(forward)
	return right, up, forward
}

// Lens holds the projection intrinsics supplied by the renderer.
type Lens struct {
	FovY float32 // radians
	Near float32
	Far  float32
}

// DefaultLens matches a 75 degree vertical field of view.
func DefaultLens() Lens {
	return Lens{
		FovY: float32(75 * gomath.Pi / 180),
		Near: 0.1,
		Far:  2000,
	}
}

// Projection returns the perspective matrix for the given aspect ratio.
func (l Lens) Projection(aspect float32) math.Mat4 {
	return math.Perspective(l.FovY, aspect, l.Near, l.Far)
}

// Viewport is the drawable size in pixels.
type Viewport struct {
	Width  int
	Height int
}

// Ready reports whether the renderer has supplied a usable size.
func (v Viewport) Ready() bool {
	return v.Width > 0 && v.Height > 0
}

// Aspect returns width / height.
func (v Viewport) Aspect() float32 {
	return float32(v.Width) / float32(v.Height)
}

// ViewProjection returns proj * view for a pose seen through lens.
func ViewProjection(p Pose, l Lens, v Viewport) math.Mat4 {
	return l.Projection(v.Aspect()).Mul(p.ViewMatrix())
}
