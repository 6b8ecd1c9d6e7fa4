package picking

import (
	"testing"

	"github.com/Faultbox/orrery/internal/engine/camera"
	"github.com/Faultbox/orrery/internal/event"
	"github.com/Faultbox/orrery/internal/scene"
	"github.com/Faultbox/orrery/pkg/math"
)

type testScene struct {
	reg   *scene.Registry
	graph *scene.Graph
}

func newTestScene(t *testing.T) *testScene {
	t.Helper()
	reg := scene.NewRegistry()
	return &testScene{reg: reg, graph: scene.NewGraph(reg)}
}

func (s *testScene) entity(t *testing.T, e *scene.Entity) scene.NodeID {
	t.Helper()
	if err := s.reg.Add(e); err != nil {
		t.Fatalf("Add(%s): %v", e.ID, err)
	}
	group, err := s.graph.Add(0, scene.Node{Name: e.ID})
	if err != nil {
		t.Fatalf("Add group: %v", err)
	}
	if err := s.graph.Mark(group, e.ID); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	return group
}

func (s *testScene) node(t *testing.T, parent scene.NodeID, n scene.Node) scene.NodeID {
	t.Helper()
	id, err := s.graph.Add(parent, n)
	if err != nil {
		t.Fatalf("Add(%s): %v", n.Name, err)
	}
	return id
}

var (
	testLens     = camera.DefaultLens()
	testViewport = camera.Viewport{Width: 800, Height: 600}
)

func looking(at math.Vec3) camera.Pose {
	return camera.Pose{Target: at}
}

func TestPickerResolvesConstellationThroughHitbox(t *testing.T) {
	s := newTestScene(t)
	group := s.entity(t, &scene.Entity{
		ID:     "orion",
		Name:   "Orion (The Hunter)",
		Kind:   scene.KindConstellation,
		Anchor: math.Vec3{Z: -400},
	})
	star := s.node(t, group, scene.Node{Name: "Betelgeuse", Offset: math.Vec3{X: 10}})
	s.node(t, star, scene.Node{Name: "Betelgeuse hitbox", Shape: scene.ShapeSphere, Radius: 25})

	p := NewPicker(s.graph, nil)
	events := p.Update(looking(math.Vec3{X: 10, Z: -400}), testLens, testViewport, 0)

	if len(events) != 1 || events[0] != event.NewHoverStart("orion") {
		t.Fatalf("Update() = %v, want [hover-start(orion)]", events)
	}
	if id, ok := p.Hovered(); !ok || id != "orion" {
		t.Errorf("Hovered() = %q, %v, want orion", id, ok)
	}
}

func TestPickerHoverTransitions(t *testing.T) {
	s := newTestScene(t)
	mars := s.entity(t, &scene.Entity{ID: "mars", Name: "Mars", Kind: scene.KindPlanet, Size: 0.5, Anchor: math.Vec3{Z: -50}})
	s.node(t, mars, scene.Node{Name: "mars surface", Shape: scene.ShapeSphere, Radius: 0.5})

	p := NewPicker(s.graph, nil)
	onMars := looking(math.Vec3{Z: -50})

	var events []event.Event
	for i := 0; i < 3; i++ {
		events = append(events, p.Update(onMars, testLens, testViewport, 0)...)
	}
	if n := event.Count(events, event.HoverStart); n != 1 {
		t.Errorf("hover-start count = %d, want 1", n)
	}
	if n := event.Count(events, event.HoverEnd); n != 0 {
		t.Errorf("hover-end count = %d, want 0", n)
	}

	events = p.Update(looking(math.Vec3{Z: 50}), testLens, testViewport, 0)
	if len(events) != 1 || events[0].Kind != event.HoverEnd {
		t.Errorf("Update() = %v, want [hover-end]", events)
	}
	if _, ok := p.Hovered(); ok {
		t.Error("Hovered() still set after hover-end")
	}
}

func TestPickerSwitchEmitsNewStart(t *testing.T) {
	s := newTestScene(t)
	mars := s.entity(t, &scene.Entity{ID: "mars", Kind: scene.KindPlanet, Anchor: math.Vec3{Z: -50}})
	s.node(t, mars, scene.Node{Shape: scene.ShapeSphere, Radius: 1})
	venus := s.entity(t, &scene.Entity{ID: "venus", Kind: scene.KindPlanet, Anchor: math.Vec3{Z: 50}})
	s.node(t, venus, scene.Node{Shape: scene.ShapeSphere, Radius: 1})

	p := NewPicker(s.graph, nil)
	p.Update(looking(math.Vec3{Z: -50}), testLens, testViewport, 0)
	events := p.Update(looking(math.Vec3{Z: 50}), testLens, testViewport, 0)

	if len(events) != 1 || events[0] != event.NewHoverStart("venus") {
		t.Errorf("Update() = %v, want [hover-start(venus)]", events)
	}
}

func TestPickerNearestHitOnly(t *testing.T) {
	s := newTestScene(t)
	mars := s.entity(t, &scene.Entity{ID: "mars", Kind: scene.KindPlanet, Anchor: math.Vec3{Z: -50}})
	s.node(t, mars, scene.Node{Shape: scene.ShapeSphere, Radius: 1})
	// Unmarked debris between the camera and Mars.
	s.node(t, 0, scene.Node{Name: "debris", Offset: math.Vec3{Z: -20}, Shape: scene.ShapeBox, HalfExtents: math.Vec3{X: 1, Y: 1, Z: 1}})

	p := NewPicker(s.graph, nil)
	if events := p.Update(looking(math.Vec3{Z: -50}), testLens, testViewport, 0); len(events) != 0 {
		t.Errorf("Update() = %v, want no events", events)
	}
	if _, ok := p.Resolve(CenterRay(looking(math.Vec3{Z: -50}), testLens, testViewport), 0); ok {
		t.Error("Resolve() fell through to a farther hit")
	}
}

func TestPickerEmptySpace(t *testing.T) {
	s := newTestScene(t)
	p := NewPicker(s.graph, nil)

	if events := p.Update(looking(math.Vec3{Z: -1}), testLens, testViewport, 0); events != nil {
		t.Errorf("Update() = %v, want nil", events)
	}
	if events := p.Clear(); events != nil {
		t.Errorf("Clear() = %v, want nil", events)
	}
}

func TestPickerClick(t *testing.T) {
	s := newTestScene(t)
	mars := s.entity(t, &scene.Entity{ID: "mars", Kind: scene.KindPlanet, Anchor: math.Vec3{Z: -50}})
	s.node(t, mars, scene.Node{Shape: scene.ShapeSphere, Radius: 1})
	sun := s.entity(t, &scene.Entity{ID: "sun", Kind: scene.KindCentralBody, Anchor: math.Vec3{Z: 50}})
	s.node(t, sun, scene.Node{Shape: scene.ShapeSphere, Radius: 4})

	p := NewPicker(s.graph, nil)
	onMars := looking(math.Vec3{Z: -50})
	onSun := looking(math.Vec3{Z: 50})

	if _, ok := p.Click(onMars, testLens, testViewport, 0, s.reg); ok {
		t.Error("Click() without hover selected something")
	}

	p.Update(onMars, testLens, testViewport, 0)
	ev, ok := p.Click(onMars, testLens, testViewport, 0, s.reg)
	if !ok || ev != event.NewSelect("mars") {
		t.Errorf("Click() = %v, %v, want select(mars)", ev, ok)
	}

	p.Update(onSun, testLens, testViewport, 0)
	if ev, ok := p.Click(onSun, testLens, testViewport, 0, s.reg); ok {
		t.Errorf("Click() on central body = %v, want nothing", ev)
	}
}

func TestPickerSkipsRemovedEntity(t *testing.T) {
	s := newTestScene(t)
	mars := s.entity(t, &scene.Entity{ID: "mars", Kind: scene.KindPlanet, Anchor: math.Vec3{Z: -50}})
	s.node(t, mars, scene.Node{Shape: scene.ShapeSphere, Radius: 1})

	p := NewPicker(s.graph, nil)
	onMars := looking(math.Vec3{Z: -50})
	p.Update(onMars, testLens, testViewport, 0)

	s.reg.Remove("mars")
	events := p.Update(onMars, testLens, testViewport, 0)
	if len(events) != 1 || events[0].Kind != event.HoverEnd {
		t.Errorf("Update() = %v, want [hover-end]", events)
	}
}
