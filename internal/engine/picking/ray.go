// Package picking provides ray casting and entity picking.
package picking

import (
	gomath "math"
	"sort"

	"github.com/Faultbox/orrery/internal/engine/camera"
	"github.com/Faultbox/orrery/internal/scene"
	"github.com/Faultbox/orrery/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// NewAABB creates an AABB around center with the given half extents.
// Negative extents are treated as positive.
func NewAABB(center, half math.Vec3) AABB {
	half = math.Vec3{X: abs32(half.X), Y: abs32(half.Y), Z: abs32(half.Z)}
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	near := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1.0, 1.0})
	far := unproject(invViewProj, math.Vec4{ndcX, ndcY, 1.0, 1.0})

	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

// CenterRay casts from the camera through the exact center of the viewport.
func CenterRay(pose camera.Pose, lens camera.Lens, vp camera.Viewport) Ray {
	w, h := float32(vp.Width), float32(vp.Height)
	inv := camera.ViewProjection(pose, lens, vp).Inverse()
	return ScreenToRay(w/2, h/2, w, h, inv)
}

func unproject(inv math.Mat4, p math.Vec4) math.Vec3 {
	world := inv.MulVec4(p)
	// Perspective divide
	if world[3] != 0 {
		world[0] /= world[3]
		world[1] /= world[3]
		world[2] /= world[3]
	}
	return math.Vec3{X: world[0], Y: world[1], Z: world[2]}
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	if !slab(r.Origin.X, r.Direction.X, box.Min.X, box.Max.X, &tmin, &tmax) ||
		!slab(r.Origin.Y, r.Direction.Y, box.Min.Y, box.Max.Y, &tmin, &tmax) ||
		!slab(r.Origin.Z, r.Direction.Z, box.Min.Z, box.Max.Z, &tmin, &tmax) {
		return 0, false
	}

	// Check if intersection is valid
	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	// Return entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// slab narrows [tmin, tmax] to one axis. A ray parallel to the axis misses
// unless its origin lies between the planes.
func slab(origin, dir, lo, hi float32, tmin, tmax *float32) bool {
	if dir == 0 {
		return origin >= lo && origin <= hi
	}
	t1 := (lo - origin) / dir
	t2 := (hi - origin) / dir
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 > *tmin {
		*tmin = t1
	}
	if t2 < *tmax {
		*tmax = t2
	}
	return true
}

// IntersectSphere tests ray intersection with a sphere. Like IntersectAABB,
// a ray starting inside reports the exit distance.
func (r Ray) IntersectSphere(center math.Vec3, radius float32) (t float32, hit bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	s := float32(gomath.Sqrt(float64(disc)))
	t = -b - s
	if t < 0 {
		t = -b + s
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// Hit is one node struck by a ray.
type Hit struct {
	Node     scene.NodeID
	Distance float32
}

// Intersect casts r against every bound and returns the hits nearest
// first. Equal distances keep scene order.
func Intersect(r Ray, bounds []scene.Bounds) []Hit {
	var hits []Hit
	for _, b := range bounds {
		var (
			t  float32
			ok bool
		)
		switch b.Shape {
		case scene.ShapeSphere:
			t, ok = r.IntersectSphere(b.Center, b.Radius)
		case scene.ShapeBox:
			t, ok = r.IntersectAABB(NewAABB(b.Center, b.HalfExtents))
		}
		if ok {
			hits = append(hits, Hit{Node: b.Node, Distance: t})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
