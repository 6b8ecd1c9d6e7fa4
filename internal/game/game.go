// Package game hosts the explorer in an SDL2 window with an OpenGL
// renderer.
package game

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/engine/camera"
	"github.com/Faultbox/orrery/internal/engine/input"
	"github.com/Faultbox/orrery/internal/engine/renderer"
	"github.com/Faultbox/orrery/internal/engine/window"
	"github.com/Faultbox/orrery/internal/game/explorer"
	"github.com/Faultbox/orrery/internal/logger"
	"github.com/Faultbox/orrery/internal/scene"
	"github.com/Faultbox/orrery/internal/selection"
)

// Config holds window host configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	MaxFrames  int // 0 runs until quit
}

// Game drives one explorer from SDL input and draws its frames.
type Game struct {
	config   Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input

	explorer *explorer.Explorer
	registry *scene.Registry
	graph    *scene.Graph
	store    *selection.Store

	title  string
	locked bool
}

// New opens the window and renderer for an explorer.
func New(cfg Config, ex *explorer.Explorer, reg *scene.Registry, graph *scene.Graph, store *selection.Store) (*Game, error) {
	logger.Info("initializing window host",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
	)

	g := &Game{
		config:   cfg,
		explorer: ex,
		registry: reg,
		graph:    graph,
		store:    store,
	}

	// Create window (this also creates OpenGL context)
	var err error
	g.window, err = window.New(window.Config{
		Title:      cfg.Title,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Fullscreen: cfg.Fullscreen,
		VSync:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	width, height := g.window.DrawableSize()
	g.renderer, err = renderer.New(renderer.Config{
		Width:  width,
		Height: height,
		FovY:   ex.Lens().FovY,
	})
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	g.explorer.SetViewport(width, height)

	g.input = input.New()
	g.title = cfg.Title

	logger.Info("window host initialized")
	return g, nil
}

// Run starts the main loop and returns when the window is closed, Esc is
// pressed or MaxFrames frames have been drawn.
func (g *Game) Run() error {
	g.running = true

	lastTime := time.Now()
	frames := 0
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting main loop")

	for g.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Process input
		if g.input.Update() {
			g.running = false
			break
		}
		g.handleEvents(g.input.Events())

		// 2. Advance the explorer
		result := g.explorer.Tick(float32(dt))

		// 3. Render
		g.render(result)
		g.window.SwapBuffers()

		frames++
		if g.config.MaxFrames > 0 && frames >= g.config.MaxFrames {
			g.running = false
		}

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.String("mode", result.Mode.String()),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close cleans up window resources.
func (g *Game) Close() {
	logger.Info("closing window host")

	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}

func (g *Game) handleEvents(events []input.Event) {
	for _, e := range events {
		switch e.Type {
		case input.EventWindowResize:
			width, height := g.window.DrawableSize()
			g.renderer.Resize(width, height)
			g.explorer.SetViewport(width, height)
		case input.EventKeyDown:
			if e.Repeat {
				continue
			}
			if id, ok := planetShortcut(g.registry, e.Key); ok {
				g.store.Select(id)
			}
		}
	}

	flight := g.store.Get().FlightMode
	for _, action := range g.input.Dispatch(events, flight, g.explorer) {
		switch action {
		case input.ActionQuit:
			g.running = false
		case input.ActionToggleFlight:
			on := g.store.ToggleFlightMode()
			logger.Info("flight mode toggled", zap.Bool("on", on))
		case input.ActionClearSelection:
			g.store.Clear()
		}
	}
}

func (g *Game) render(result explorer.FrameResult) {
	if result.Skipped {
		return
	}
	flight := result.Mode == explorer.ModeFlight
	if flight != g.locked {
		g.window.SetPointerLock(flight)
		g.locked = flight
	}

	hovered, isHovered := g.explorer.Hovered()
	selected := g.store.Get().SelectedID
	if title := windowTitle(g.config.Title, g.registry, hovered, isHovered); title != g.title {
		g.window.SetTitle(title)
		g.title = title
	}

	viewProj := camera.ViewProjection(result.Pose, g.explorer.Lens(), g.explorer.Viewport())
	markers := renderer.Markers(g.graph.Bounds(result.Time), func(id scene.NodeID) bool {
		owner, ok := g.graph.Owner(id)
		return ok && (owner == hovered || owner == selected)
	})

	g.renderer.Begin()
	g.renderer.DrawMarkers(viewProj, markers)
	g.renderer.DrawIndicators(g.indicators(result))
	if flight {
		g.renderer.DrawCrosshair(isHovered)
	}
	g.renderer.End()
}
