// Package renderer provides OpenGL rendering for simulated cloth meshes.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/clothsim/internal/logger"
	"github.com/Faultbox/clothsim/internal/viewer/shader"
	"github.com/Faultbox/clothsim/pkg/math"
)

// Vertex shader transforms positions and passes normals through.
const vertexShaderSource = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uProj;
uniform mat4 uView;

out vec3 vNormal;

void main() {
	gl_Position = uProj * uView * vec4(aPos, 1.0);
	vNormal = aNormal;
}
`

// Fragment shader applies two-sided Lambert shading so the cloth back
// face is lit too.
const fragmentShaderSource = `
#version 410 core

in vec3 vNormal;

uniform vec3 uLightDir;
uniform vec3 uColor;

out vec4 FragColor;

void main() {
	float diffuse = abs(dot(normalize(vNormal), normalize(uLightDir)));
	vec3 shaded = uColor * (0.25 + 0.75 * diffuse);
	FragColor = vec4(shaded, 1.0);
}
`

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	program   uint32
	uProj     int32
	uView     int32
	uLightDir int32
	uColor    int32
}

// New creates a new renderer.
// Must be called AFTER the OpenGL context is created.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
	}

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
	// Cloth is drawn double-sided, so no face culling
	gl.Disable(gl.CULL_FACE)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	program, err := shader.CompileProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	r.program = program
	r.uProj = shader.MustGetUniform(program, "uProj")
	r.uView = shader.MustGetUniform(program, "uView")
	r.uLightDir = shader.MustGetUniform(program, "uLightDir")
	r.uColor = shader.MustGetUniform(program, "uColor")

	logger.Debug("shader program created", zap.Uint32("program", program))
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// AspectRatio returns the current viewport aspect ratio.
func (r *Renderer) AspectRatio() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SetCamera uploads the projection and view matrices for this frame.
func (r *Renderer) SetCamera(proj, view math.Mat4) {
	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.uProj, 1, false, proj.Ptr())
	gl.UniformMatrix4fv(r.uView, 1, false, view.Ptr())
}

// SetLight sets the directional light for this frame.
func (r *Renderer) SetLight(dir math.Vec3) {
	gl.UseProgram(r.program)
	gl.Uniform3f(r.uLightDir, dir.X, dir.Y, dir.Z)
}

// ClothMesh holds GPU buffers for one simulated cloth.
// Positions and normals change every frame; indices are fixed.
type ClothMesh struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	scratch    []float32
}

// NewClothMesh creates GPU buffers for a cloth with the given triangle indices.
func NewClothMesh(indices []uint32) *ClothMesh {
	m := &ClothMesh{
		indexCount: int32(len(indices)),
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	// Interleaved position (location 0) and normal (location 1)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 6*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 6*4, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	logger.Debug("cloth mesh created",
		zap.Uint32("vao", m.vao),
		zap.Int32("indices", m.indexCount),
	)
	return m
}

// Update uploads this frame's deformed positions and normals.
func (m *ClothMesh) Update(positions, normals []math.Vec3) {
	n := len(positions)
	if len(normals) < n {
		n = len(normals)
	}
	if n == 0 {
		return
	}

	if cap(m.scratch) < n*6 {
		m.scratch = make([]float32, n*6)
	}
	m.scratch = m.scratch[:n*6]
	for i := 0; i < n; i++ {
		m.scratch[i*6+0] = positions[i].X
		m.scratch[i*6+1] = positions[i].Y
		m.scratch[i*6+2] = positions[i].Z
		m.scratch[i*6+3] = normals[i].X
		m.scratch[i*6+4] = normals[i].Y
		m.scratch[i*6+5] = normals[i].Z
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.scratch)*4, unsafe.Pointer(&m.scratch[0]), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Delete releases the GPU buffers.
func (m *ClothMesh) Delete() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
}

// Draw renders a cloth mesh with the given base color.
func (r *Renderer) Draw(m *ClothMesh, color math.Vec3) {
	gl.UseProgram(r.program)
	gl.Uniform3f(r.uColor, color.X, color.Y, color.Z)
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}
