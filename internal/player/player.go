// Package player implements the interactive scene player: window and input
// wiring, the per-frame simulation tick, and the render loop.
package player

import (
	"fmt"
	"log/slog"
	gomath "math"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/openreality/goplayer/internal/config"
	"github.com/openreality/goplayer/internal/engine/camera"
	"github.com/openreality/goplayer/internal/engine/input"
	"github.com/openreality/goplayer/internal/engine/particles"
	"github.com/openreality/goplayer/internal/engine/render"
	"github.com/openreality/goplayer/internal/engine/scene"
	"github.com/openreality/goplayer/internal/engine/sim"
	"github.com/openreality/goplayer/internal/engine/window"
	"github.com/openreality/goplayer/pkg/math"
)

// maxFrameDT caps a single simulation step so a debugger pause or window
// drag does not launch particles across the scene.
const maxFrameDT = 0.1

// Player is the main application instance.
type Player struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *render.Renderer
	input    *input.Input
	cam      *camera.OrbitCamera
	scn      *scene.Scene
}

// New creates a player instance. The scene comes from cfg.Player.ScenePath,
// or the built-in demo scene when the path is empty.
func New(cfg *config.Config) (*Player, error) {
	slog.Info("initializing player",
		"scene", cfg.Player.ScenePath,
		"width", cfg.Graphics.Width,
		"height", cfg.Graphics.Height,
	)

	p := &Player{cfg: cfg}

	var err error
	if cfg.Player.ScenePath != "" {
		p.scn, err = LoadScene(cfg.Player.ScenePath)
		if err != nil {
			return nil, err
		}
	} else {
		p.scn = DemoScene()
	}
	p.prepareScene()

	// Create window (this also creates the OpenGL context)
	p.window, err = window.New(window.Config{
		Title:      "goplayer",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (after the window, the OpenGL context must exist)
	p.renderer, err = render.New(render.Config{
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
	})
	if err != nil {
		p.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	p.renderer.UploadScene(p.scn)

	p.input = input.New()
	p.cam = camera.NewOrbitCamera()
	p.cam.Center = math.Vec3{Y: 1.5}

	slog.Info("player initialized",
		"entities", p.scn.NumEntities(),
		"emitters", len(p.scn.Emitters),
	)
	return p, nil
}

// prepareScene applies playback configuration and allocates emitter pools.
func (p *Player) prepareScene() {
	for i := range p.scn.Animations {
		anim := &p.scn.Animations[i]
		anim.Speed = p.cfg.Player.Speed
		if p.cfg.Player.Paused {
			anim.Playing = false
		}
	}

	for i := range p.scn.Emitters {
		em := &p.scn.Emitters[i]
		if em.Config.MaxParticles > p.cfg.Particles.MaxPerEmitter {
			em.Config.MaxParticles = p.cfg.Particles.MaxPerEmitter
		}
		// Per-pool seed keeps every emitter deterministic and distinct
		em.Pool = particles.NewPool(em.Config.MaxParticles, p.cfg.Particles.Seed+uint32(i))
	}
}

// Run starts the main loop.
func (p *Player) Run() error {
	p.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	slog.Info("starting player loop")

	for p.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now
		if dt > maxFrameDT {
			dt = maxFrameDT
		}

		// 1. Process input
		if p.input.Update() {
			p.running = false
			break
		}
		p.handleEvents()

		// 2. Advance the simulation
		sim.Tick(p.scn, dt)
		camRight, camUp := p.cam.Basis()
		sim.TickParticles(p.scn, sim.Frame{
			DT:        dt,
			CameraPos: p.cam.Position(),
			CamRight:  camRight,
			CamUp:     camUp,
		})

		// 3. Render
		p.render()

		// 4. Present
		p.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			if p.cfg.Player.ShowFPS {
				p.window.SetTitle(fmt.Sprintf("goplayer - %d fps", frameCount))
			}
			slog.Debug("fps", "count", frameCount)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (p *Player) handleEvents() {
	for _, event := range p.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			w, h := p.window.GetDrawableSize()
			p.renderer.Resize(w, h)
		case input.EventMouseMove:
			if p.input.Dragging() {
				p.cam.HandleDrag(float32(event.DeltaX), float32(event.DeltaY))
			}
		case input.EventMouseWheel:
			p.cam.HandleZoom(event.WheelY)
		case input.EventKeyDown:
			p.handleKey(event.Key)
		}
	}

	// Keyboard panning
	var forward, right float32
	if p.input.IsKeyPressed(sdl.SCANCODE_W) {
		forward++
	}
	if p.input.IsKeyPressed(sdl.SCANCODE_S) {
		forward--
	}
	if p.input.IsKeyPressed(sdl.SCANCODE_D) {
		right++
	}
	if p.input.IsKeyPressed(sdl.SCANCODE_A) {
		right--
	}
	if forward != 0 || right != 0 {
		p.cam.HandleMovement(forward, right, 0)
	}
}

func (p *Player) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		p.running = false
	case sdl.SCANCODE_SPACE:
		for i := range p.scn.Animations {
			anim := &p.scn.Animations[i]
			anim.Playing = !anim.Playing
		}
	case sdl.SCANCODE_R:
		for i := range p.scn.Animations {
			p.scn.Animations[i].CurrentTime = 0
		}
	}
}

func (p *Player) render() {
	width, height := p.window.GetDrawableSize()
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}

	cam := scene.Camera{FOV: 45, Near: 0.1, Far: 200}
	if len(p.scn.Cameras) > 0 {
		cam = p.scn.Cameras[0]
	}

	fovRad := cam.FOV * float32(gomath.Pi) / 180
	proj := math.Perspective(fovRad, aspect, cam.Near, cam.Far)
	view := p.cam.ViewMatrix()

	p.renderer.Begin()
	p.renderer.DrawScene(p.scn, view, proj, p.cam.Position())
	p.renderer.DrawParticles(p.scn, view, proj)
}

// Close cleans up player resources.
func (p *Player) Close() {
	slog.Info("closing player")

	if p.renderer != nil {
		p.renderer.Close()
	}
	if p.window != nil {
		p.window.Close()
	}
}
