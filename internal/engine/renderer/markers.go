package renderer

import (
	"github.com/Faultbox/orrery/internal/scene"
	"github.com/Faultbox/orrery/pkg/math"
)

// Marker is one drawable point sprite in world space.
type Marker struct {
	Position math.Vec3
	Radius   float32
	Color    [3]float32
}

var (
	bodyColor      = [3]float32{0.85, 0.85, 0.9}
	highlightColor = [3]float32{1.0, 0.67, 0.67}
	indicatorColor = [3]float32{0.13, 0.83, 0.93}
	crosshairColor = [3]float32{1.0, 1.0, 1.0}
)

// Markers builds sprites for the visible sphere nodes. Nodes for which
// highlight returns true are tinted.
func Markers(bounds []scene.Bounds, highlight func(scene.NodeID) bool) []Marker {
	out := make([]Marker, 0, len(bounds))
	for _, b := range bounds {
		if b.Hidden || b.Shape != scene.ShapeSphere {
			continue
		}
		color := bodyColor
		if highlight != nil && highlight(b.Node) {
			color = highlightColor
		}
		out = append(out, Marker{Position: b.Center, Radius: b.Radius, Color: color})
	}
	return out
}
