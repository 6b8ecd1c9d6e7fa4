// Package radar projects entities to screen space and places edge
// indicators for the ones outside the view.
package radar

import (
	gomath "math"

	"github.com/Faultbox/orrery/internal/engine/camera"
	"github.com/Faultbox/orrery/internal/scene"
	"github.com/Faultbox/orrery/pkg/math"
)

// Indicator is one entity's overlay marker. X and Y are pixels from the
// top-left corner; Rotation (radians) points an arrow glyph outward.
type Indicator struct {
	ID       string
	Name     string
	X, Y     float32
	Rotation float32
	Visible  bool
}

// Settings configures placement and throttling.
type Settings struct {
	// Padding keeps indicators this far (NDC) inside the screen edge.
	Padding float32
	// EdgeThreshold is the NDC magnitude beyond which a point counts as
	// off-screen.
	EdgeThreshold float32
	// Throttle runs the projection on every Nth Update call.
	Throttle int
}

// DefaultSettings returns padding 0.1, threshold 0.9, every second call.
func DefaultSettings() Settings {
	return Settings{
		Padding:       0.1,
		EdgeThreshold: 0.9,
		Throttle:      2,
	}
}

// Projector produces a fresh indicator list on throttled frames.
type Projector struct {
	settings   Settings
	calls      int
	indicators []Indicator
}

// NewProjector creates a projector.
func NewProjector(settings Settings) *Projector {
	if settings.Throttle < 1 {
		settings.Throttle = 1
	}
	return &Projector{settings: settings}
}

// Update counts a frame and, on throttled frames, projects every entity.
// It returns the latest indicators and whether they were recomputed.
func (p *Projector) Update(entities scene.Source, pose camera.Pose, lens camera.Lens, vp camera.Viewport, t float64) ([]Indicator, bool) {
	p.calls++
	if p.calls%p.settings.Throttle != 0 {
		return p.indicators, false
	}

	viewProj := camera.ViewProjection(pose, lens, vp)
	w, h := float32(vp.Width), float32(vp.Height)

	list := entities.Entities()
	out := make([]Indicator, 0, len(list))
	for _, e := range list {
		ind := p.Place(viewProj.Project(e.WorldPosition(t)), w, h)
		ind.ID = e.ID
		ind.Name = e.Label()
		out = append(out, ind)
	}
	p.indicators = out
	return out, true
}

// Indicators returns the list from the last throttled frame.
func (p *Projector) Indicators() []Indicator {
	return p.indicators
}

// Place computes the indicator for one NDC point on a width×height
// viewport. On-screen and non-finite points yield a hidden indicator.
func (p *Projector) Place(ndc math.Vec3, width, height float32) Indicator {
	if !ndc.IsFinite() {
		return Indicator{}
	}

	edge := p.settings.EdgeThreshold
	behind := ndc.Z > 1
	if !behind && ndc.X >= -edge && ndc.X <= edge && ndc.Y >= -edge && ndc.Y <= edge {
		return Indicator{}
	}

	x, y := ndc.X, ndc.Y
	if behind {
		// Projection mirrors points behind the eye through the center.
		x, y = -x, -y
	}
	rotation := float32(gomath.Atan2(float64(y), float64(x))) + gomath.Pi/2

	limit := 1 - p.settings.Padding
	x = clamp(x, limit)
	y = clamp(y, limit)

	// Only behind-camera points can still be strictly inside; push them to
	// the edge of the dominant axis.
	if abs32(x) < limit && abs32(y) < limit {
		if abs32(x) >= abs32(y) {
			x = edgeOf(x, limit)
		} else {
			y = edgeOf(y, limit)
		}
	}

	return Indicator{
		X:        (x + 1) * width / 2,
		Y:        (-y + 1) * height / 2,
		Rotation: rotation,
		Visible:  true,
	}
}

// Visible counts the shown indicators.
func Visible(indicators []Indicator) int {
	n := 0
	for _, ind := range indicators {
		if ind.Visible {
			n++
		}
	}
	return n
}

func clamp(v, limit float32) float32 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}

func edgeOf(v, limit float32) float32 {
	if v < 0 {
		return -limit
	}
	return limit
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
