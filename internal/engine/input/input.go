// Package input handles SDL2 input events and maps them onto explorer
// commands.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/orrery/internal/engine/camera"
)

// Event types for explorer use
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	RelX   int
	RelY   int
	Wheel  float32
	Button uint8
	Held   bool // Left button held during motion
	Repeat bool
}

// Action is a host-level request that is not a camera command.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionToggleFlight
	ActionClearSelection
)

// Commands receives camera input. explorer.Explorer implements it.
type Commands interface {
	SetKey(dir camera.Direction, pressed bool)
	Drag(dx, dy float32)
	Zoom(delta float32)
	Look(dx, dy float32)
	Click()
}

// Input handles all input processing.
type Input struct {
	events   []Event
	leftDown bool
	held     map[sdl.Scancode]bool // movement keys currently down
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		held:   make(map[sdl.Scancode]bool),
	}
}

// Update polls SDL events and converts them to explorer events.
// Returns true if the explorer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0] // Clear previous events

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			t := EventKeyUp
			if e.Type == sdl.KEYDOWN {
				t = EventKeyDown
			}
			i.events = append(i.events, Event{
				Type:   t,
				Key:    e.Keysym.Scancode,
				Repeat: e.Repeat != 0,
			})

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, Event{
				Type:   EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				RelX:   int(e.XRel),
				RelY:   int(e.YRel),
				Held:   i.leftDown,
			})

		case *sdl.MouseButtonEvent:
			t := EventMouseUp
			if e.Type == sdl.MOUSEBUTTONDOWN {
				t = EventMouseDown
			}
			if e.Button == sdl.BUTTON_LEFT {
				i.leftDown = t == EventMouseDown
			}
			i.events = append(i.events, Event{
				Type:   t,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			})

		case *sdl.MouseWheelEvent:
			i.events = append(i.events, Event{
				Type:  EventMouseWheel,
				Wheel: float32(e.Y),
			})
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

var directions = map[sdl.Scancode]camera.Direction{
	sdl.SCANCODE_W:     camera.Forward,
	sdl.SCANCODE_UP:    camera.Forward,
	sdl.SCANCODE_S:     camera.Backward,
	sdl.SCANCODE_DOWN:  camera.Backward,
	sdl.SCANCODE_A:     camera.Left,
	sdl.SCANCODE_LEFT:  camera.Left,
	sdl.SCANCODE_D:     camera.Right,
	sdl.SCANCODE_RIGHT: camera.Right,
}

// Dispatch forwards events to cmds and returns the host actions they
// request. Pointer motion orbits while the left button is held, or turns
// the view in flight mode.
func (i *Input) Dispatch(events []Event, flight bool, cmds Commands) []Action {
	var actions []Action
	for _, e := range events {
		switch e.Type {
		case EventQuit:
			actions = append(actions, ActionQuit)

		case EventKeyDown, EventKeyUp:
			down := e.Type == EventKeyDown
			if dir, ok := directions[e.Key]; ok {
				i.held[e.Key] = down
				cmds.SetKey(dir, i.holding(dir))
				continue
			}
			if !down || e.Repeat {
				continue
			}
			switch e.Key {
			case sdl.SCANCODE_ESCAPE:
				actions = append(actions, ActionQuit)
			case sdl.SCANCODE_F:
				actions = append(actions, ActionToggleFlight)
			case sdl.SCANCODE_BACKSPACE:
				actions = append(actions, ActionClearSelection)
			}

		case EventMouseMove:
			if flight {
				cmds.Look(float32(e.RelX), float32(e.RelY))
			} else if e.Held {
				cmds.Drag(float32(e.RelX), float32(e.RelY))
			}

		case EventMouseDown:
			if flight && e.Button == sdl.BUTTON_LEFT {
				cmds.Click()
			}

		case EventMouseWheel:
			cmds.Zoom(e.Wheel)
		}
	}
	return actions
}

// holding reports whether any key bound to dir is down.
func (i *Input) holding(dir camera.Direction) bool {
	for key, down := range i.held {
		if down && directions[key] == dir {
			return true
		}
	}
	return false
}
