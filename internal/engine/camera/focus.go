package camera

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/scene"
	"github.com/Faultbox/orrery/pkg/math"
)

// FocusState is the focus controller's state.
type FocusState int

const (
	FocusIdle FocusState = iota
	FocusFocusing
	FocusReturning
)

// String returns the state name.
func (s FocusState) String() string {
	switch s {
	case FocusFocusing:
		return "focusing"
	case FocusReturning:
		return "returning"
	default:
		return "idle"
	}
}

// FocusSettings configures homing speeds and distances. Lerp factors are
// applied once per frame.
type FocusSettings struct {
	// HomeEntity is never focused; selecting it returns the camera home.
	HomeEntity string

	TargetLerp       float32 // target → entity while focusing
	ApproachLerp     float32 // camera → approach point while focusing
	ReturnTargetLerp float32 // target → HomeTarget while returning
	ReturnCameraLerp float32 // camera → HomePosition while returning

	// Multiples of entity size.
	DesiredFactor float32
	MinFactor     float32
	MaxFactor     float32

	// The camera starts approaching once farther than
	// ApproachTrigger × desired distance, and stops within SettleEpsilon.
	ApproachTrigger float32
	SettleEpsilon   float32

	HomePosition math.Vec3
	HomeTarget   math.Vec3

	// Returning ends once camera and target are both this close to home.
	ArriveDistance float32
}

// DefaultFocusSettings returns the standard homing behaviour.
func DefaultFocusSettings() FocusSettings {
	return FocusSettings{
		HomeEntity:       "earth",
		TargetLerp:       0.1,
		ApproachLerp:     0.05,
		ReturnTargetLerp: 0.05,
		ReturnCameraLerp: 0.02,
		DesiredFactor:    3.5,
		MinFactor:        1.5,
		MaxFactor:        10,
		ApproachTrigger:  1.5,
		SettleEpsilon:    0.01,
		HomePosition:     math.Vec3{X: 0, Y: 20, Z: 40},
		HomeTarget:       math.Vec3{},
		ArriveDistance:   1,
	}
}

// Session is one focus on one entity, kept until the camera is home again.
type Session struct {
	TargetID        string
	DesiredDistance float32
	Returning       bool

	approaching bool
	prevErr     float32   // distance error of the previous approach frame
	lastPos     math.Vec3 // entity position of the previous frame
	tracked     bool      // lastPos is valid
}

// Focus homes the orbit target and camera onto the selected entity and
// back. Convergence is per-frame lerp toward live positions, so a moving
// target or an abrupt selection change needs no special handling.
type Focus struct {
	pose     *Pose
	orbit    *Orbit
	settings FocusSettings
	session  *Session
	log      *zap.Logger
}

// NewFocus creates a focus controller sharing pose and orbit bounds.
func NewFocus(pose *Pose, orbit *Orbit, settings FocusSettings, log *zap.Logger) *Focus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Focus{
		pose:     pose,
		orbit:    orbit,
		settings: settings,
		log:      log,
	}
}

// State returns the current state.
func (f *Focus) State() FocusState {
	switch {
	case f.session == nil:
		return FocusIdle
	case f.session.Returning:
		return FocusReturning
	default:
		return FocusFocusing
	}
}

// Session returns a copy of the active session.
func (f *Focus) Session() (Session, bool) {
	if f.session == nil {
		return Session{}, false
	}
	return *f.session, true
}

// Active reports whether a session exists and focus drives the pose.
func (f *Focus) Active() bool {
	return f.session != nil
}

// Update advances one frame. selectedID is the selection snapshot taken at
// frame start and t the simulation time used for entity positions.
func (f *Focus) Update(selectedID string, entities scene.Source, t float64) {
	if selectedID != "" && selectedID != f.settings.HomeEntity {
		f.focus(selectedID, entities, t)
		return
	}
	if f.session != nil {
		f.returnHome()
	}
}

func (f *Focus) focus(id string, entities scene.Source, t float64) {
	e, ok := entities.Entity(id)
	if !ok {
		// Retried next frame; a stale session keeps its state.
		return
	}

	desired := e.Size * f.settings.DesiredFactor
	if f.session == nil || f.session.TargetID != id || f.session.Returning {
		f.session = &Session{TargetID: id}
		f.log.Debug("focus session started",
			zap.String("entity", id),
			zap.Float32("desired_distance", desired),
		)
	}
	f.session.DesiredDistance = desired

	f.orbit.SetBounds(e.Size*f.settings.MinFactor, e.Size*f.settings.MaxFactor)

	pos := e.WorldPosition(t)
	f.pose.Target = f.pose.Target.Lerp(pos, f.settings.TargetLerp)

	moved := f.session.tracked && pos != f.session.lastPos
	f.session.lastPos, f.session.tracked = pos, true

	dist := f.pose.Position.Distance(pos)
	trigger := desired * f.settings.ApproachTrigger
	if dist > trigger && !f.session.approaching {
		f.session.approaching = true
		f.session.prevErr = float32(gomath.Inf(1))
	}
	if !f.session.approaching {
		return
	}
	errDist := abs32(dist - desired)
	if errDist < f.settings.SettleEpsilon {
		f.session.approaching = false
		return
	}
	// A moving entity drags the approach point, so the camera may never
	// settle. Inside the trigger band the orbit takes over once the error
	// stops shrinking.
	if moved && dist <= trigger && errDist >= f.session.prevErr {
		f.session.approaching = false
		f.log.Debug("focus approach released", zap.String("entity", id), zap.Float32("distance", dist))
		return
	}
	f.session.prevErr = errDist

	view := f.pose.Position.Sub(pos).Normalize()
	goal := pos.Add(view.Scale(desired))
	f.pose.Position = f.pose.Position.Lerp(goal, f.settings.ApproachLerp)
}

func (f *Focus) returnHome() {
	if !f.session.Returning {
		f.session.Returning = true
		f.session.approaching = false
		f.orbit.ResetBounds()
		f.log.Debug("focus session returning home", zap.String("entity", f.session.TargetID))
	}

	f.pose.Target = f.pose.Target.Lerp(f.settings.HomeTarget, f.settings.ReturnTargetLerp)
	f.pose.Position = f.pose.Position.Lerp(f.settings.HomePosition, f.settings.ReturnCameraLerp)

	if f.pose.Position.Distance(f.settings.HomePosition) < f.settings.ArriveDistance &&
		f.pose.Target.Distance(f.settings.HomeTarget) < f.settings.ArriveDistance {
		f.log.Debug("focus session ended", zap.String("entity", f.session.TargetID))
		f.session = nil
	}
}

// Abandon drops any session without animating home, used when flight mode
// takes over the camera.
func (f *Focus) Abandon() {
	if f.session == nil {
		return
	}
	f.log.Debug("focus session abandoned", zap.String("entity", f.session.TargetID))
	f.session = nil
	f.orbit.ResetBounds()
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
