// Package hud hosts the explorer in a terminal. Entities, radar indicators
// and the crosshair are drawn as character cells with tcell.
package hud

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/engine/camera"
	"github.com/Faultbox/orrery/internal/engine/radar"
	"github.com/Faultbox/orrery/internal/game/explorer"
	"github.com/Faultbox/orrery/internal/scene"
	"github.com/Faultbox/orrery/internal/selection"
)

// Terminal cells are treated as cellW x cellH pixel blocks so the explorer
// sees a realistic aspect ratio.
const (
	cellW = 8
	cellH = 16
)

const (
	// Terminals report key presses only, so a movement key stays held for
	// this many frames after its last press.
	holdFrames = 8

	orbitStep = 24 // pixels of drag per arrow press
	lookStep  = 16
	zoomStep  = 1
)

var (
	styleBody      = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleHighlight = tcell.StyleDefault.Foreground(tcell.ColorLightCoral).Bold(true)
	styleIndicator = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleCrosshair = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleStatus    = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
)

var moveKeys = map[rune]camera.Direction{
	'w': camera.Forward,
	's': camera.Backward,
	'a': camera.Left,
	'd': camera.Right,
}

// HUD is a terminal host for one explorer.
type HUD struct {
	screen   tcell.Screen
	explorer *explorer.Explorer
	entities scene.Source
	store    *selection.Store
	log      *zap.Logger

	width, height int
	held          map[camera.Direction]int
	indicators    []radar.Indicator
}

// New creates a HUD on an initialized screen.
func New(screen tcell.Screen, ex *explorer.Explorer, entities scene.Source, store *selection.Store, log *zap.Logger) *HUD {
	if log == nil {
		log = zap.NewNop()
	}
	h := &HUD{
		screen:   screen,
		explorer: ex,
		entities: entities,
		store:    store,
		log:      log,
		held:     make(map[camera.Direction]int),
	}
	h.resize()
	return h
}

// Run ticks the explorer at the given interval until ctx is cancelled,
// the user quits, or frames frames have been drawn (0 means no limit).
func (h *HUD) Run(ctx context.Context, interval time.Duration, frames int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go h.screen.ChannelEvents(events, quit)

	dt := float32(interval.Seconds())
	drawn := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				// Screen finalized.
				return nil
			}
			if !h.HandleEvent(ev) {
				h.log.Info("quit requested")
				return nil
			}

		case <-ticker.C:
			h.Step(dt)
			drawn++
			if frames > 0 && drawn >= frames {
				return nil
			}
		}
	}
}

// Step ticks the explorer once and draws the result.
func (h *HUD) Step(dt float32) explorer.FrameResult {
	h.releaseKeys()
	result := h.explorer.Tick(dt)
	if result.RadarUpdated {
		h.indicators = result.Indicators
	}
	for _, ev := range result.Events {
		h.log.Debug("explorer event", zap.Stringer("event", ev))
	}
	h.Draw(result)
	return result
}

// HandleEvent applies one terminal event. It returns false when the user
// asked to quit.
func (h *HUD) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		h.resize()
		h.screen.Sync()

	case *tcell.EventKey:
		return h.handleKey(ev)
	}
	return true
}

func (h *HUD) handleKey(ev *tcell.EventKey) bool {
	flight := h.store.Get().FlightMode

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		h.store.Clear()
	case tcell.KeyEnter:
		if flight {
			h.explorer.Click()
		}
	case tcell.KeyUp, tcell.KeyDown, tcell.KeyLeft, tcell.KeyRight:
		dx, dy := arrowDelta(ev.Key())
		if flight {
			h.explorer.Look(dx*lookStep, dy*lookStep)
		} else {
			h.explorer.Drag(dx*orbitStep, dy*orbitStep)
		}
	case tcell.KeyRune:
		if ev.Rune() == 'q' {
			return false
		}
		h.handleRune(ev.Rune(), flight)
	}
	return true
}

func (h *HUD) handleRune(r rune, flight bool) {
	if dir, ok := moveKeys[r]; ok {
		h.explorer.SetKey(dir, true)
		h.held[dir] = holdFrames
		return
	}
	switch {
	case r == 'f':
		on := h.store.ToggleFlightMode()
		h.log.Info("flight mode toggled", zap.Bool("on", on))
	case r == ' ':
		if flight {
			h.explorer.Click()
		}
	case r == '+' || r == '=':
		h.explorer.Zoom(zoomStep)
	case r == '-':
		h.explorer.Zoom(-zoomStep)
	case r >= '1' && r <= '9':
		if e, ok := scene.Nth(h.entities, scene.KindPlanet, int(r-'1')); ok {
			h.store.Select(e.ID)
		}
	}
}

func (h *HUD) releaseKeys() {
	for dir, n := range h.held {
		n--
		if n > 0 {
			h.held[dir] = n
			continue
		}
		delete(h.held, dir)
		h.explorer.SetKey(dir, false)
	}
}

func (h *HUD) resize() {
	h.width, h.height = h.screen.Size()
	// The last row is the status line.
	h.explorer.SetViewport(h.width*cellW, max(h.height-1, 0)*cellH)
}

// Draw renders one frame.
func (h *HUD) Draw(result explorer.FrameResult) {
	h.screen.Clear()
	if result.Skipped {
		h.screen.Show()
		return
	}

	hovered, isHovered := h.explorer.Hovered()
	selected := h.store.Get().SelectedID
	vp := h.explorer.Viewport()
	viewProj := camera.ViewProjection(result.Pose, h.explorer.Lens(), vp)

	for _, e := range h.entities.Entities() {
		ndc := viewProj.Project(e.WorldPosition(result.Time))
		if ndc.Z < -1 || ndc.Z > 1 || ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 {
			continue
		}
		col := int((ndc.X + 1) / 2 * float32(vp.Width) / cellW)
		row := int((1 - ndc.Y) / 2 * float32(vp.Height) / cellH)
		style := styleBody
		if e.ID == hovered || e.ID == selected {
			style = styleHighlight
		}
		h.put(col, row, glyph(e.Kind), style)
	}

	for _, ind := range h.indicators {
		if !ind.Visible {
			continue
		}
		h.put(int(ind.X)/cellW, int(ind.Y)/cellH, '◆', styleIndicator)
	}

	if result.Mode == explorer.ModeFlight {
		cx, cy := vp.Width/cellW/2, vp.Height/cellH/2
		h.put(cx, cy, '+', styleCrosshair)
		if isHovered {
			if e, ok := h.entities.Entity(hovered); ok {
				label := "SELECT: " + e.Label()
				h.text(cx-len(label)/2, cy+1, label, styleHighlight)
			}
		}
	}

	h.drawStatus(result, selected)
	h.screen.Show()
}

func (h *HUD) drawStatus(result explorer.FrameResult, selected string) {
	row := h.height - 1
	for x := 0; x < h.width; x++ {
		h.put(x, row, ' ', styleStatus)
	}
	name := "-"
	if e, ok := h.entities.Entity(selected); ok {
		name = e.Label()
	}
	status := fmt.Sprintf(" %s | focus %s | selected %s | t=%.1fs | f flight  1-9 planets  esc quit",
		result.Mode, h.explorer.FocusState(), name, result.Time)
	h.text(0, row, status, styleStatus)
}

func (h *HUD) put(x, y int, r rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= h.width || y >= h.height {
		return
	}
	h.screen.SetContent(x, y, r, nil, style)
}

func (h *HUD) text(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		h.put(x+i, y, r, style)
	}
}

func arrowDelta(k tcell.Key) (float32, float32) {
	switch k {
	case tcell.KeyUp:
		return 0, -1
	case tcell.KeyDown:
		return 0, 1
	case tcell.KeyLeft:
		return -1, 0
	default:
		return 1, 0
	}
}

func glyph(k scene.Kind) rune {
	switch k {
	case scene.KindCentralBody:
		return '☉'
	case scene.KindConstellation:
		return '*'
	default:
		return '●'
	}
}
