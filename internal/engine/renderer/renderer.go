// Package renderer draws entity markers, radar indicators and the flight
// crosshair with OpenGL point sprites.
package renderer

import (
	_ "embed"
	"fmt"
	gomath "math"
	"unsafe"

	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/engine/radar"
	"github.com/Faultbox/orrery/internal/engine/shader"
	"github.com/Faultbox/orrery/internal/logger"
	"github.com/Faultbox/orrery/pkg/math"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	FovY   float32 // radians, for perspective point sizing
}

var (
	//go:embed shaders/points.vert
	pointsVert string
	//go:embed shaders/points.frag
	pointsFrag string
)

// floats per vertex: position, color, size
const vertexStride = 7

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	program *shader.Program

	vao uint32
	vbo uint32

	vertices []float32
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
	}

	// Initialize OpenGL
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0.0, 0.0, 0.02, 1.0) // Deep space

	var err error
	r.program, err = shader.Compile(pointsVert, pointsFrag)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	logger.Debug("shader program created", zap.Uint32("program", r.program.ID))

	r.createBuffers()
	r.Resize(cfg.Width, cfg.Height)

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize handles drawable size changes.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.program.Use()
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.UseProgram(0)
}

// DrawMarkers draws world-space markers sized by perspective.
func (r *Renderer) DrawMarkers(viewProj math.Mat4, markers []Marker) {
	if len(markers) == 0 || r.config.Height == 0 {
		return
	}
	// Pixels per world unit at distance 1.
	scale := float32(r.config.Height) / (2 * float32(gomath.Tan(float64(r.config.FovY)/2)))

	r.vertices = r.vertices[:0]
	for _, m := range markers {
		r.vertices = appendVertex(r.vertices, m.Position, m.Color, m.Radius*2)
	}

	gl.Enable(gl.DEPTH_TEST)
	r.draw(viewProj, scale)
}

// DrawIndicators draws visible radar indicators as fixed-size dots.
func (r *Renderer) DrawIndicators(indicators []radar.Indicator) {
	if r.config.Width == 0 || r.config.Height == 0 {
		return
	}
	w, h := float32(r.config.Width), float32(r.config.Height)

	r.vertices = r.vertices[:0]
	for _, ind := range indicators {
		if !ind.Visible {
			continue
		}
		ndc := math.Vec3{X: ind.X/w*2 - 1, Y: 1 - ind.Y/h*2}
		r.vertices = appendVertex(r.vertices, ndc, indicatorColor, 8)
	}
	if len(r.vertices) == 0 {
		return
	}

	gl.Disable(gl.DEPTH_TEST)
	r.draw(math.Identity(), 1)
}

// DrawCrosshair draws the flight crosshair at the viewport center.
func (r *Renderer) DrawCrosshair(hovered bool) {
	color, size := crosshairColor, float32(6)
	if hovered {
		color, size = highlightColor, 10
	}
	r.vertices = appendVertex(r.vertices[:0], math.Vec3{}, color, size)

	gl.Disable(gl.DEPTH_TEST)
	r.draw(math.Identity(), 1)
}

func (r *Renderer) draw(viewProj math.Mat4, scale float32) {
	gl.UniformMatrix4fv(r.program.Uniform("uViewProj"), 1, false, viewProj.Ptr())
	gl.Uniform1f(r.program.Uniform("uScale"), scale)

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(r.vertices)*4, unsafe.Pointer(&r.vertices[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.POINTS, 0, int32(len(r.vertices)/vertexStride))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// createBuffers sets up the streamed point vertex layout.
func (r *Renderer) createBuffers() {
	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	// Position attribute (location = 0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, vertexStride*4, nil)
	gl.EnableVertexAttribArray(0)

	// Color attribute (location = 1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, vertexStride*4, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)

	// Size attribute (location = 2)
	gl.VertexAttribPointer(2, 1, gl.FLOAT, false, vertexStride*4, unsafe.Pointer(uintptr(6*4)))
	gl.EnableVertexAttribArray(2)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	logger.Debug("point buffers created",
		zap.Uint32("vao", r.vao),
		zap.Uint32("vbo", r.vbo),
	)
}

func appendVertex(dst []float32, p math.Vec3, c [3]float32, size float32) []float32 {
	return append(dst, p.X, p.Y, p.Z, c[0], c[1], c[2], size)
}
