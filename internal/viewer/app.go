// Package viewer implements the interactive cloth viewer loop.
package viewer

import (
	"fmt"
	gomath "math"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/clothsim/internal/config"
	"github.com/Faultbox/clothsim/internal/logger"
	"github.com/Faultbox/clothsim/internal/sim"
	"github.com/Faultbox/clothsim/internal/viewer/camera"
	"github.com/Faultbox/clothsim/internal/viewer/input"
	"github.com/Faultbox/clothsim/internal/viewer/renderer"
	"github.com/Faultbox/clothsim/internal/viewer/window"
	"github.com/Faultbox/clothsim/pkg/cloth"
	"github.com/Faultbox/clothsim/pkg/math"
)

// Flag dimensions: 30x20 vertices, 10cm spacing.
const (
	flagCols    = 30
	flagRows    = 20
	flagSpacing = 0.1
)

var flagColor = math.Vec3{X: 0.8, Y: 0.25, Z: 0.2}

// boundsTracker records the most recent cloth bounding box.
type boundsTracker struct {
	box cloth.AABB
}

func (t *boundsTracker) UpdateAABB(box cloth.AABB) {
	t.box = box
}

// App is the viewer application: a flag attached to a swaying pole.
type App struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	cam      *camera.OrbitCamera

	world    *sim.World
	pole     cloth.TargetID
	flag     *sim.Instance
	flagMesh *cloth.Mesh
	bounds   *boundsTracker
	gpuMesh  *renderer.ClothMesh

	windEnabled bool
	poleSway    bool
	dragging    bool
	accumulator float32
	elapsed     float32
}

// New creates the viewer application.
func New(cfg *config.Config) (*App, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	a := &App{
		cfg:         cfg,
		windEnabled: cfg.Sim.Wind.Enabled,
		poleSway:    true,
	}

	// Create window (this also creates the OpenGL context)
	var err error
	a.window, err = window.New(window.Config{
		Title:      "clothview",
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since the OpenGL context must exist)
	a.renderer, err = renderer.New(renderer.Config{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.input = input.New()
	a.cam = camera.NewOrbitCamera()

	if err := a.setupScene(); err != nil {
		a.renderer.Close()
		a.window.Close()
		return nil, fmt.Errorf("failed to set up scene: %w", err)
	}

	logger.Info("viewer initialized")
	return a, nil
}

// setupScene builds the simulation world with a flag pinned to a pole.
func (a *App) setupScene() error {
	defaults, err := a.cfg.Cloth.Simulation()
	if err != nil {
		return err
	}

	a.world, err = sim.New(defaults)
	if err != nil {
		return err
	}

	if w := a.cfg.Sim.Wind.Build(); w != nil {
		a.world.SetWinds(cloth.Winds{w})
	}

	// The pole sits at the flag's top-left corner.
	poleTop := math.Vec3{X: 0, Y: 2, Z: 0}
	a.pole = a.world.RegisterTarget(math.Translate(poleTop.X, poleTop.Y, poleTop.Z))

	stepX := math.Vec3{X: flagSpacing}
	stepY := math.Vec3{Y: -flagSpacing}
	a.flagMesh, err = cloth.Rectangle(flagCols, flagRows, math.Vec3{}, stepX, stepY)
	if err != nil {
		return err
	}

	// Pin the left column to the pole, one anchor per vertex so each
	// keeps its own offset down the pole.
	anchors := make([]cloth.AnchorSet, 0, flagRows)
	for row := 0; row < flagRows; row++ {
		anchors = append(anchors, cloth.AnchorSet{
			Anchor: cloth.Anchor{
				Target: a.pole,
				Offset: stepY.Scale(float32(row)),
			},
			IDs: []int{row * flagCols},
		})
	}

	a.flag = a.world.Attach("flag", math.Translate(poleTop.X, poleTop.Y, poleTop.Z), cloth.BuildOptions{
		Generation: cloth.GenerationQuads,
		Anchors:    anchors,
	})
	a.bounds = &boundsTracker{}
	a.flag.AddConsumer(a.bounds)
	a.flag.SetMesh(a.flagMesh)

	// First tick builds the cloth so rendering has points to draw.
	a.world.Tick(0)
	if a.flag.Cloth() == nil {
		return fmt.Errorf("flag cloth failed to build")
	}

	a.gpuMesh = renderer.NewClothMesh(a.flagMesh.Indices)
	a.cam.Center = poleTop.Add(math.Vec3{X: float32(flagCols) * flagSpacing / 2, Y: -float32(flagRows) * flagSpacing / 2})
	a.cam.Distance = 6

	return nil
}

// Run starts the main viewer loop.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting viewer loop")

	for a.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		// 1. Process input
		if a.input.Update() {
			a.running = false
			break
		}
		a.handleEvents()

		// 2. Advance the simulation
		a.update(dt)

		// 3. Render
		a.render()

		// 4. Present
		a.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if limit := a.cfg.Window.FPSLimit; limit > 0 {
			frameBudget := time.Second / time.Duration(limit)
			if spent := time.Since(now); spent < frameBudget {
				time.Sleep(frameBudget - spent)
			}
		}
	}

	return nil
}

func (a *App) handleEvents() {
	for _, event := range a.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			a.renderer.Resize(event.Width, event.Height)
		case input.EventKeyDown:
			a.handleKey(event.Key)
		case input.EventMouseDown:
			if event.Button == sdl.BUTTON_LEFT {
				a.dragging = true
			}
		case input.EventMouseUp:
			if event.Button == sdl.BUTTON_LEFT {
				a.dragging = false
			}
		case input.EventMouseMove:
			if a.dragging {
				a.cam.HandleDrag(float32(event.RelX), float32(event.RelY))
			}
		case input.EventMouseWheel:
			a.cam.HandleZoom(event.WheelY)
		}
	}
}

func (a *App) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		a.running = false
	case sdl.SCANCODE_W:
		a.windEnabled = !a.windEnabled
		if a.windEnabled {
			if w := a.cfg.Sim.Wind.Build(); w != nil {
				a.world.SetWinds(cloth.Winds{w})
			}
		} else {
			a.world.SetWinds(nil)
		}
		logger.Info("wind toggled", zap.Bool("enabled", a.windEnabled))
	case sdl.SCANCODE_S:
		a.poleSway = !a.poleSway
		logger.Info("pole sway toggled", zap.Bool("enabled", a.poleSway))
	case sdl.SCANCODE_R:
		a.flag.SetMesh(a.flagMesh)
		logger.Info("flag reset")
	case sdl.SCANCODE_F:
		a.cam.FitToBounds(a.bounds.box)
	}
}

// update advances the simulation, optionally on a fixed timestep.
func (a *App) update(dt float32) {
	a.elapsed += dt

	if a.poleSway {
		sway := 0.3 * float32(gomath.Sin(float64(a.elapsed)*0.7))
		a.world.MoveTarget(a.pole, math.Translate(sway, 2, 0))
	}

	step := a.cfg.Sim.FixedStep
	if step <= 0 {
		a.world.Tick(dt)
		return
	}

	a.accumulator += dt
	for a.accumulator >= step {
		a.world.Tick(step)
		a.accumulator -= step
	}
}

// render draws the current frame.
func (a *App) render() {
	c := a.flag.Cloth()
	if c == nil {
		return
	}

	positions := c.Positions()
	normals := cloth.SmoothNormals(positions, a.flagMesh.Indices)
	a.gpuMesh.Update(positions, normals)

	proj := math.Perspective(0.9, a.renderer.AspectRatio(), 0.05, 200)

	a.renderer.Begin()
	a.renderer.SetCamera(proj, a.cam.ViewMatrix())
	a.renderer.SetLight(math.Vec3{X: 0.4, Y: 0.8, Z: 0.45})
	a.renderer.Draw(a.gpuMesh, flagColor)
}

// Close cleans up viewer resources.
func (a *App) Close() {
	logger.Info("closing viewer")

	if a.gpuMesh != nil {
		a.gpuMesh.Delete()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
