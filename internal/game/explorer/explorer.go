// Package explorer runs the per-frame camera and interaction schedule:
// mode dispatch, picking and radar projection against a shared pose.
package explorer

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/engine/camera"
	"github.com/Faultbox/orrery/internal/engine/picking"
	"github.com/Faultbox/orrery/internal/engine/radar"
	"github.com/Faultbox/orrery/internal/event"
	"github.com/Faultbox/orrery/internal/observability"
	"github.com/Faultbox/orrery/internal/scene"
	"github.com/Faultbox/orrery/internal/selection"
	"github.com/Faultbox/orrery/pkg/math"
)

// Mode is the controller that drove the pose in a frame.
type Mode int

const (
	ModeOrbit Mode = iota
	ModeFocus
	ModeFlight
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeFocus:
		return "focus"
	case ModeFlight:
		return "flight"
	default:
		return "orbit"
	}
}

// Settings holds the tunables of every controller.
type Settings struct {
	Lens   camera.Lens
	Orbit  camera.OrbitSettings
	Focus  camera.FocusSettings
	Flight camera.FlightSettings
	Radar  radar.Settings

	// TimeScale multiplies dt before it advances the simulation clock.
	TimeScale float64
}

// DefaultSettings returns the standard explorer tuning.
func DefaultSettings() Settings {
	return Settings{
		Lens:      camera.DefaultLens(),
		Orbit:     camera.DefaultOrbitSettings(),
		Focus:     camera.DefaultFocusSettings(),
		Flight:    camera.DefaultFlightSettings(),
		Radar:     radar.DefaultSettings(),
		TimeScale: 1,
	}
}

// Config wires an explorer to its collaborators.
type Config struct {
	Settings Settings

	Entities scene.Source
	Scene    picking.Scene
	Store    *selection.Store

	Logger  *zap.Logger                   // Optional
	Metrics *observability.FrameCollector // Optional
}

// FrameResult is everything a host needs to draw one frame.
type FrameResult struct {
	Mode         Mode
	Pose         camera.Pose
	Time         float64 // Simulation clock, seconds
	Events       []event.Event
	Indicators   []radar.Indicator
	RadarUpdated bool
	Skipped      bool
}

// Explorer owns the camera pose and the controllers driving it.
type Explorer struct {
	settings Settings
	entities scene.Source
	store    *selection.Store
	log      *zap.Logger
	metrics  *observability.FrameCollector

	pose   *camera.Pose
	orbit  *camera.Orbit
	focus  *camera.Focus
	flight *camera.Flight
	picker *picking.Picker
	radar  *radar.Projector

	viewport   camera.Viewport
	clock      float64
	flightMode bool
	lastMode   Mode

	// Input queued by host callbacks, drained at the start of each tick.
	mu      sync.Mutex
	pending input
}

type input struct {
	keys  map[camera.Direction]bool
	drag  math.Vec2
	zoom  float32
	look  math.Vec2
	click bool
}

// New creates an explorer with the camera at the home pose.
func New(cfg Config) (*Explorer, error) {
	if cfg.Entities == nil {
		return nil, errors.New("explorer: entity source is required")
	}
	if cfg.Scene == nil {
		return nil, errors.New("explorer: scene is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("explorer: selection store is required")
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := cfg.Settings
	pose := &camera.Pose{
		Position: s.Focus.HomePosition,
		Target:   s.Focus.HomeTarget,
		FovY:     s.Lens.FovY,
	}
	orbit := camera.NewOrbit(pose, s.Orbit)

	e := &Explorer{
		settings: s,
		entities: cfg.Entities,
		store:    cfg.Store,
		log:      log,
		metrics:  cfg.Metrics,
		pose:     pose,
		orbit:    orbit,
		focus:    camera.NewFocus(pose, orbit, s.Focus, log.Named("focus")),
		flight:   camera.NewFlight(pose, s.Flight),
		picker:   picking.NewPicker(cfg.Scene, log.Named("picker")),
		radar:    radar.NewProjector(s.Radar),
	}
	e.flightMode = cfg.Store.Get().FlightMode
	return e, nil
}

// SetViewport records the drawable size. A zero size pauses ticking.
func (e *Explorer) SetViewport(width, height int) {
	e.viewport = camera.Viewport{Width: width, Height: height}
}

// Viewport returns the current drawable size.
func (e *Explorer) Viewport() camera.Viewport {
	return e.viewport
}

// Pose returns a copy of the camera pose.
func (e *Explorer) Pose() camera.Pose {
	return *e.pose
}

// Lens returns the projection intrinsics.
func (e *Explorer) Lens() camera.Lens {
	return e.settings.Lens
}

// Mode returns the mode of the last ticked frame.
func (e *Explorer) Mode() Mode {
	return e.lastMode
}

// Hovered returns the entity under the crosshair, if any.
func (e *Explorer) Hovered() (string, bool) {
	return e.picker.Hovered()
}

// Indicators returns the radar indicators from the last refresh.
func (e *Explorer) Indicators() []radar.Indicator {
	return e.radar.Indicators()
}

// FocusState returns the focus controller's state.
func (e *Explorer) FocusState() camera.FocusState {
	return e.focus.State()
}

// SetKey queues a flight key change.
func (e *Explorer) SetKey(dir camera.Direction, pressed bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending.keys == nil {
		e.pending.keys = make(map[camera.Direction]bool)
	}
	e.pending.keys[dir] = pressed
}

// Drag queues an orbit rotation by a pointer delta in pixels.
func (e *Explorer) Drag(dx, dy float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending.drag = e.pending.drag.Add(math.Vec2{X: dx, Y: dy})
}

// Zoom queues an orbit zoom. Positive zooms in.
func (e *Explorer) Zoom(delta float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending.zoom += delta
}

// Look queues a flight look rotation by a pointer delta in pixels.
func (e *Explorer) Look(dx, dy float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending.look = e.pending.look.Add(math.Vec2{X: dx, Y: dy})
}

// Click queues a select-under-crosshair request.
func (e *Explorer) Click() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending.click = true
}

func (e *Explorer) drain() input {
	e.mu.Lock()
	defer e.mu.Unlock()
	in := e.pending
	e.pending = input{}
	return in
}

// Tick advances one frame. The selection snapshot is read once at the
// start; a click selection is written to the store at the end.
func (e *Explorer) Tick(dt float32) FrameResult {
	start := time.Now()
	state := e.store.Get()

	if !e.viewport.Ready() {
		e.metrics.IncSkippedFrames()
		return FrameResult{Mode: e.lastMode, Pose: *e.pose, Time: e.clock, Skipped: true}
	}
	if dt < 0 {
		dt = 0
	}
	e.clock += float64(dt) * e.settings.TimeScale

	var events []event.Event
	if state.FlightMode != e.flightMode {
		events = append(events, e.switchMode(state.FlightMode)...)
	}

	in := e.drain()
	for dir, pressed := range in.keys {
		e.flight.SetKey(dir, pressed)
	}

	var (
		mode     Mode
		selected *event.Event
	)
	if state.FlightMode {
		mode = ModeFlight
		if in.look != (math.Vec2{}) {
			e.flight.Look(in.look.X, in.look.Y)
		}
		e.flight.Update(dt, true)

		events = append(events, e.picker.Update(*e.pose, e.settings.Lens, e.viewport, e.clock)...)
		if in.click {
			if ev, ok := e.picker.Click(*e.pose, e.settings.Lens, e.viewport, e.clock, e.entities); ok {
				selected = &ev
				events = append(events, ev)
			}
		}
	} else {
		if in.drag != (math.Vec2{}) {
			e.orbit.HandleDrag(in.drag.X, in.drag.Y)
		}
		if in.zoom != 0 {
			e.orbit.HandleZoom(in.zoom)
		}

		before, _ := e.focus.Session()
		e.focus.Update(state.SelectedID, e.entities, e.clock)
		if after, ok := e.focus.Session(); ok && !after.Returning &&
			(before.TargetID != after.TargetID || before.Returning) {
			e.metrics.IncFocusSessions()
		}
		e.orbit.Constrain()

		mode = ModeOrbit
		if e.focus.Active() {
			mode = ModeFocus
		}
	}

	indicators, updated := e.radar.Update(e.entities, *e.pose, e.settings.Lens, e.viewport, e.clock)
	if updated {
		e.metrics.SetVisibleIndicators(radar.Visible(indicators))
	}

	if selected != nil {
		e.store.Select(selected.EntityID)
		e.log.Debug("entity selected", zap.String("entity", selected.EntityID))
	}

	e.lastMode = mode
	e.metrics.ObserveEvents(events)
	e.metrics.ObserveFrame(mode.String(), time.Since(start))

	return FrameResult{
		Mode:         mode,
		Pose:         *e.pose,
		Time:         e.clock,
		Events:       events,
		Indicators:   indicators,
		RadarUpdated: updated,
	}
}

// switchMode hands the pose between flight and orbit/focus. Entering
// flight drops any focus session; leaving it points the orbit back at the
// home target. Either way hover and flight velocity are cleared.
func (e *Explorer) switchMode(flight bool) []event.Event {
	e.flightMode = flight
	events := e.picker.Clear()
	e.flight.Reset()

	if flight {
		e.focus.Abandon()
		e.log.Debug("flight mode on")
	} else {
		e.pose.Target = e.settings.Focus.HomeTarget
		e.orbit.ResetBounds()
		e.log.Debug("flight mode off")
	}
	return events
}
