package explorer

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Faultbox/orrery/internal/engine/camera"
	"github.com/Faultbox/orrery/internal/event"
	"github.com/Faultbox/orrery/internal/observability"
	"github.com/Faultbox/orrery/internal/scene"
	"github.com/Faultbox/orrery/internal/selection"
	"github.com/Faultbox/orrery/pkg/math"
)

const frame = float32(1.0 / 60)

type rig struct {
	reg   *scene.Registry
	graph *scene.Graph
	store *selection.Store
	ex    *Explorer
}

// newRig builds an explorer over one planet per entry, each a marked group
// holding a sphere of the entity's size.
func newRig(t *testing.T, metrics *observability.FrameCollector, entities ...*scene.Entity) *rig {
	t.Helper()
	reg := scene.NewRegistry()
	graph := scene.NewGraph(reg)
	for _, e := range entities {
		if err := reg.Add(e); err != nil {
			t.Fatalf("Add(%s): %v", e.ID, err)
		}
		group, err := graph.Add(0, scene.Node{Name: e.ID})
		if err != nil {
			t.Fatalf("graph.Add: %v", err)
		}
		if err := graph.Mark(group, e.ID); err != nil {
			t.Fatalf("Mark: %v", err)
		}
		if _, err := graph.Add(group, scene.Node{Shape: scene.ShapeSphere, Radius: e.Size}); err != nil {
			t.Fatalf("graph.Add: %v", err)
		}
	}

	store := selection.NewStore()
	ex, err := New(Config{
		Settings: DefaultSettings(),
		Entities: reg,
		Scene:    graph,
		Store:    store,
		Metrics:  metrics,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ex.SetViewport(800, 600)
	return &rig{reg: reg, graph: graph, store: store, ex: ex}
}

func planet(id string, size float32, at math.Vec3) *scene.Entity {
	return &scene.Entity{ID: id, Name: id, Kind: scene.KindPlanet, Size: size, Anchor: at}
}

func TestNewRequiresCollaborators(t *testing.T) {
	reg := scene.NewRegistry()
	graph := scene.NewGraph(reg)
	store := selection.NewStore()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"no entities", Config{Scene: graph, Store: store}},
		{"no scene", Config{Entities: reg, Store: store}},
		{"no store", Config{Entities: reg, Scene: graph}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Error("New() error = nil, want error")
			}
		})
	}
}

func TestTickSkipsWithoutViewport(t *testing.T) {
	r := newRig(t, nil)
	r.ex.SetViewport(0, 600)
	before := r.ex.Pose()

	res := r.ex.Tick(frame)
	if !res.Skipped {
		t.Error("Skipped = false with zero-width viewport")
	}
	if res.Pose != before || res.Time != 0 {
		t.Errorf("skipped frame advanced state: pose %+v time %f", res.Pose, res.Time)
	}
}

func TestStartsAtHome(t *testing.T) {
	r := newRig(t, nil)
	res := r.ex.Tick(frame)

	if res.Mode != ModeOrbit {
		t.Errorf("Mode = %v, want orbit", res.Mode)
	}
	if res.Pose.Position != (math.Vec3{Y: 20, Z: 40}) || res.Pose.Target != (math.Vec3{}) {
		t.Errorf("Pose = %+v, want home", res.Pose)
	}
}

func TestFlightExcludesOrbitAndFocus(t *testing.T) {
	r := newRig(t, nil, planet("mars", 2, math.Vec3{X: 30}))
	r.store.Select("mars")
	r.store.SetFlightMode(true)

	before := r.ex.Pose()
	for i := 0; i < 60; i++ {
		r.ex.Drag(50, 20)
		r.ex.Zoom(3)
		res := r.ex.Tick(frame)
		if res.Mode != ModeFlight {
			t.Fatalf("frame %d: Mode = %v, want flight", i, res.Mode)
		}
	}

	if r.ex.Pose() != before {
		t.Errorf("pose moved in flight mode without flight input: %+v", r.ex.Pose())
	}
	if r.ex.FocusState() != camera.FocusIdle {
		t.Errorf("FocusState() = %v, want idle in flight mode", r.ex.FocusState())
	}
}

func TestFlightMovesWithKeys(t *testing.T) {
	r := newRig(t, nil)
	r.store.SetFlightMode(true)
	r.ex.SetKey(camera.Forward, true)

	before := r.ex.Pose()
	for i := 0; i < 10; i++ {
		r.ex.Tick(frame)
	}
	after := r.ex.Pose()

	if after.Position.Length() >= before.Position.Length() {
		t.Errorf("forward flight did not approach the target: %v -> %v", before.Position, after.Position)
	}
	if d := after.Distance() - before.Distance(); d > 0.001 || d < -0.001 {
		t.Errorf("look reach changed by %f", d)
	}
}

func TestOrbitInputWithinBounds(t *testing.T) {
	r := newRig(t, nil)
	for i := 0; i < 100; i++ {
		r.ex.Zoom(-4)
		r.ex.Drag(10, 3)
		r.ex.Tick(frame)
		if d := r.ex.Pose().Distance(); d > 150.01 || d < 9.99 {
			t.Fatalf("frame %d: distance %f outside [10, 150]", i, d)
		}
	}
}

func TestFocusAndReturn(t *testing.T) {
	p := math.Vec3{X: 30}
	r := newRig(t, nil, planet("mars", 2, p))
	r.store.Select("mars")

	res := r.ex.Tick(frame)
	if res.Mode != ModeFocus {
		t.Fatalf("Mode = %v, want focus", res.Mode)
	}
	for i := 0; i < 600; i++ {
		res = r.ex.Tick(frame)
	}
	if d := res.Pose.Position.Distance(p); d < 6.98 || d > 7.02 {
		t.Errorf("camera distance to mars = %f, want 7", d)
	}
	if d := res.Pose.Target.Distance(p); d > 0.01 {
		t.Errorf("target %f from mars, want converged", d)
	}

	r.store.Clear()
	for i := 0; i < 1000 && r.ex.FocusState() != camera.FocusIdle; i++ {
		res = r.ex.Tick(frame)
	}
	if r.ex.FocusState() != camera.FocusIdle {
		t.Fatalf("FocusState() = %v, want idle after return", r.ex.FocusState())
	}
	res = r.ex.Tick(frame)
	if res.Mode != ModeOrbit {
		t.Errorf("Mode = %v, want orbit after return", res.Mode)
	}
	if d := res.Pose.Position.Distance(math.Vec3{Y: 20, Z: 40}); d >= 1 {
		t.Errorf("camera %f from home, want < 1", d)
	}
}

func TestHoverAndClickSelect(t *testing.T) {
	r := newRig(t, nil, planet("mars", 1, math.Vec3{}))
	r.store.SetFlightMode(true)

	res := r.ex.Tick(frame)
	if len(res.Events) != 1 || res.Events[0] != event.NewHoverStart("mars") {
		t.Fatalf("Events = %v, want [hover-start(mars)]", res.Events)
	}

	r.ex.Click()
	res = r.ex.Tick(frame)
	if event.Count(res.Events, event.Select) != 1 {
		t.Errorf("Events = %v, want one select", res.Events)
	}
	if got := r.store.Get().SelectedID; got != "mars" {
		t.Errorf("SelectedID = %q, want mars", got)
	}

	// Selection does not pull the camera while flying.
	before := r.ex.Pose()
	r.ex.Tick(frame)
	if r.ex.Pose() != before {
		t.Errorf("pose moved after selecting in flight mode")
	}
}

func TestClickIgnoredOutsideFlight(t *testing.T) {
	r := newRig(t, nil, planet("mars", 1, math.Vec3{}))
	r.ex.Click()
	res := r.ex.Tick(frame)

	if len(res.Events) != 0 {
		t.Errorf("Events = %v, want none in orbit mode", res.Events)
	}
	if r.store.Get().HasSelection() {
		t.Error("click selected an entity in orbit mode")
	}
}

func TestLeavingFlightClearsHover(t *testing.T) {
	r := newRig(t, nil, planet("mars", 1, math.Vec3{}))
	r.store.SetFlightMode(true)
	r.ex.Look(200, 0)
	r.ex.Tick(frame)
	r.ex.Look(-200, 0)
	res := r.ex.Tick(frame)
	if _, ok := r.ex.Hovered(); !ok {
		t.Fatalf("nothing hovered after looking back, events %v", res.Events)
	}

	r.store.SetFlightMode(false)
	res = r.ex.Tick(frame)
	if event.Count(res.Events, event.HoverEnd) != 1 {
		t.Errorf("Events = %v, want one hover-end", res.Events)
	}
	if res.Pose.Target != (math.Vec3{}) {
		t.Errorf("Target = %v, want origin after leaving flight", res.Pose.Target)
	}
}

func TestRadarThrottled(t *testing.T) {
	r := newRig(t, nil, planet("mars", 1, math.Vec3{X: 30}), planet("venus", 1, math.Vec3{Z: 80}))

	updates := 0
	var last FrameResult
	for i := 0; i < 6; i++ {
		res := r.ex.Tick(frame)
		if res.RadarUpdated {
			updates++
			last = res
		}
	}
	if updates != 3 {
		t.Errorf("radar updated %d of 6 frames, want 3", updates)
	}
	if len(last.Indicators) != 2 {
		t.Fatalf("len(Indicators) = %d, want 2", len(last.Indicators))
	}
	if got := r.ex.Indicators(); len(got) != len(last.Indicators) {
		t.Errorf("Indicators() len = %d, want %d", len(got), len(last.Indicators))
	}
	for _, ind := range last.Indicators {
		// Venus sits behind the home camera.
		if ind.ID == "venus" && !ind.Visible {
			t.Error("venus indicator hidden, want visible")
		}
		if ind.ID == "mars" && ind.Visible {
			t.Error("mars indicator visible, want hidden")
		}
	}
}

func TestTimeScale(t *testing.T) {
	reg := scene.NewRegistry()
	settings := DefaultSettings()
	settings.TimeScale = 10
	ex, err := New(Config{Settings: settings, Entities: reg, Scene: scene.NewGraph(reg), Store: selection.NewStore()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ex.SetViewport(100, 100)

	res := ex.Tick(0.5)
	if res.Time != 5 {
		t.Errorf("Time = %f, want 5", res.Time)
	}
}

func TestMetricsRecorded(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewFrameCollector(reg)
	if err != nil {
		t.Fatalf("NewFrameCollector: %v", err)
	}
	r := newRig(t, metrics, planet("mars", 1, math.Vec3{}))

	r.ex.Tick(frame)
	r.store.Select("mars")
	r.ex.Tick(frame)
	r.ex.SetViewport(0, 0)
	r.ex.Tick(frame)

	if got := testutil.ToFloat64(metrics.Frames.WithLabelValues("orbit")); got != 1 {
		t.Errorf("orbit frames = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.Frames.WithLabelValues("focus")); got != 1 {
		t.Errorf("focus frames = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.SkippedFrames); got != 1 {
		t.Errorf("skipped frames = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.FocusSessions); got != 1 {
		t.Errorf("focus sessions = %v, want 1", got)
	}
}
