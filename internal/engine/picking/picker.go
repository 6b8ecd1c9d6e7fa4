package picking

import (
	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/engine/camera"
	"github.com/Faultbox/orrery/internal/event"
	"github.com/Faultbox/orrery/internal/scene"
)

// Scene is the renderable hierarchy the picker casts against.
type Scene interface {
	Bounds(t float64) []scene.Bounds
	Parent(id scene.NodeID) (scene.NodeID, bool)
	Marker(id scene.NodeID) (string, bool)
}

// Picker resolves the entity under the viewport center and tracks hover.
type Picker struct {
	scene   Scene
	hovered string
	log     *zap.Logger
}

// NewPicker creates a picker over s.
func NewPicker(s Scene, log *zap.Logger) *Picker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Picker{scene: s, log: log}
}

// Hovered returns the hovered entity id.
func (p *Picker) Hovered() (string, bool) {
	return p.hovered, p.hovered != ""
}

// Resolve casts r and returns the entity owning the nearest hit. Only the
// nearest hit is considered; if none of its ancestors is marked the result
// is empty.
func (p *Picker) Resolve(r Ray, t float64) (string, bool) {
	hits := Intersect(r, p.scene.Bounds(t))
	if len(hits) == 0 {
		return "", false
	}
	return p.owner(hits[0].Node)
}

func (p *Picker) owner(id scene.NodeID) (string, bool) {
	for {
		if entityID, ok := p.scene.Marker(id); ok {
			return entityID, true
		}
		parent, ok := p.scene.Parent(id)
		if !ok {
			return "", false
		}
		id = parent
	}
}

// Update casts through the viewport center and returns the hover
// transition, if any. A change from one entity straight to another emits
// only the new HoverStart.
func (p *Picker) Update(pose camera.Pose, lens camera.Lens, vp camera.Viewport, t float64) []event.Event {
	id, ok := p.Resolve(CenterRay(pose, lens, vp), t)
	switch {
	case ok && id != p.hovered:
		p.hovered = id
		p.log.Debug("hover start", zap.String("entity", id))
		return []event.Event{event.NewHoverStart(id)}
	case !ok && p.hovered != "":
		return p.Clear()
	}
	return nil
}

// Clear drops the hover state, returning HoverEnd if something was hovered.
func (p *Picker) Clear() []event.Event {
	if p.hovered == "" {
		return nil
	}
	p.log.Debug("hover end", zap.String("entity", p.hovered))
	p.hovered = ""
	return []event.Event{event.NewHoverEnd()}
}

// Click re-resolves the center ray and returns a Select for the entity
// found, provided something is hovered and the entity may be selected.
func (p *Picker) Click(pose camera.Pose, lens camera.Lens, vp camera.Viewport, t float64, entities scene.Source) (event.Event, bool) {
	if p.hovered == "" {
		return event.Event{}, false
	}
	id, ok := p.Resolve(CenterRay(pose, lens, vp), t)
	if !ok {
		return event.Event{}, false
	}
	e, ok := entities.Entity(id)
	if !ok || !e.Selectable() {
		return event.Event{}, false
	}
	return event.NewSelect(id), true
}
