package game

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/orrery/internal/engine/radar"
	"github.com/Faultbox/orrery/internal/game/explorer"
	"github.com/Faultbox/orrery/internal/scene"
)

// indicators returns the radar dots to draw. The projector only refreshes
// on some frames, so the last computed set is reused in between.
func (g *Game) indicators(result explorer.FrameResult) []radar.Indicator {
	if result.RadarUpdated {
		return result.Indicators
	}
	return g.explorer.Indicators()
}

// planetShortcut maps number keys 1-9 to planets in catalog order.
func planetShortcut(entities scene.Source, key sdl.Scancode) (string, bool) {
	if key < sdl.SCANCODE_1 || key > sdl.SCANCODE_9 {
		return "", false
	}
	e, ok := scene.Nth(entities, scene.KindPlanet, int(key-sdl.SCANCODE_1))
	if !ok {
		return "", false
	}
	return e.ID, true
}

// windowTitle appends the hovered entity's label to the base title.
func windowTitle(base string, entities scene.Source, hovered string, ok bool) string {
	if !ok {
		return base
	}
	e, found := entities.Entity(hovered)
	if !found {
		return base
	}
	return base + " - SELECT: " + e.Label()
}
