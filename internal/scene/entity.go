// Package scene holds the entity registry, the renderable node graph and the
// solar-system catalog that populates both.
package scene

import (
	gomath "math"
	"strings"

	"github.com/Faultbox/orrery/pkg/math"
)

// Kind classifies an entity for picking and selection.
type Kind int

const (
	KindPlanet Kind = iota
	KindCentralBody
	KindConstellation
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPlanet:
		return "planet"
	case KindCentralBody:
		return "central-body"
	case KindConstellation:
		return "constellation"
	default:
		return "unknown"
	}
}

// Orbit describes a circular orbit on the XZ plane around the origin.
type Orbit struct {
	Radius float32
	Speed  float32
}

// Stats is descriptive metadata shown by detail panels.
type Stats struct {
	Temp    string `yaml:"temp"`
	Gravity string `yaml:"gravity"`
	Day     string `yaml:"day"`
	Year    string `yaml:"year"`
}

// Entity is a named scene object with a time-based world position.
type Entity struct {
	ID   string
	Name string
	Kind Kind

	// Size is the characteristic radius used for focus distances.
	Size float32

	// Orbit is nil for entities fixed at Anchor.
	Orbit  *Orbit
	Anchor math.Vec3

	Description string
	Stats       Stats
}

// orbitRate scales Orbit.Speed to radians per second.
const orbitRate = 0.1

// WorldPosition returns the entity position at simulation time t (seconds).
func (e *Entity) WorldPosition(t float64) math.Vec3 {
	if e.Orbit == nil {
		return e.Anchor
	}
	angle := t * float64(e.Orbit.Speed) * orbitRate
	r := float64(e.Orbit.Radius)
	return math.Vec3{
		X: float32(gomath.Sin(angle) * r),
		Y: 0,
		Z: float32(gomath.Cos(angle) * r),
	}
}

// Selectable reports whether clicking the entity may select it.
func (e *Entity) Selectable() bool {
	return e.Kind != KindCentralBody
}

// Label returns the short upper-case label used by hover overlays:
// "Ursa Major (Big Dipper)" becomes "URSA MAJOR".
func (e *Entity) Label() string {
	name, _, _ := strings.Cut(e.Name, " (")
	return strings.ToUpper(name)
}
