// Package app wires the window, the gpu layer and the editor into a
// running application.
package app

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/prism3d/prism/assets"
	"github.com/prism3d/prism/config"
	"github.com/prism3d/prism/core"
	"github.com/prism3d/prism/editor"
	"github.com/prism3d/prism/gpu"
	"github.com/prism3d/prism/logger"
	"github.com/prism3d/prism/sceneio"
)

// App owns every subsystem for one editor window.
type App struct {
	cfg    *config.Config
	window *glfw.Window

	ctx      *gpu.Context
	renderer *gpu.Renderer
	orch     *gpu.FrameOrchestrator

	assets *assets.Server
	scene  *core.Scene
	camera *core.CameraState
	editor *editor.Editor

	gizmos    gpu.GizmoBuilder
	scenePath string

	input inputState

	lastTime  float64
	fps       float64
	fpsFrames int
	fpsTime   float64
}

// New builds the window and GPU stack from configuration. Must be
// called from the main goroutine.
func New(cfg *config.Config) (*App, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("init glfw: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(cfg.Graphics.Width, cfg.Graphics.Height, "Prism Editor", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	width, height := win.GetFramebufferSize()
	ctx, err := gpu.NewContext(win, width, height, cfg.Graphics.VSync)
	if err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, err
	}

	atlas, err := gpu.LoadTextAtlas("", 14)
	if err != nil {
		ctx.Release()
		win.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("bake text atlas: %w", err)
	}

	renderer, err := gpu.NewRenderer(ctx, atlas, cfg.Editor.HighlightColor)
	if err != nil {
		ctx.Release()
		win.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	camera := core.NewCameraState()
	camera.Speed = cfg.Editor.CameraSpeed
	camera.Sensitivity = cfg.Editor.CameraSensitivity

	a := &App{
		cfg:      cfg,
		window:   win,
		ctx:      ctx,
		renderer: renderer,
		orch:     gpu.NewFrameOrchestrator(ctx, width, height),
		assets:   assets.NewServer(),
		camera:   camera,
		editor:   editor.New(),
	}
	a.installCallbacks()

	if cfg.Paths.LastScene != "" {
		if err := a.OpenScene(cfg.Paths.LastScene); err != nil {
			logger.Log.Warn("last scene failed to load, starting empty", zap.Error(err))
		}
	}
	if a.scene == nil {
		a.NewScene()
	}
	return a, nil
}

// Scene returns the open scene.
func (a *App) Scene() *core.Scene { return a.scene }

// NewScene replaces the open scene with an empty one holding a default
// light so new content is visible.
func (a *App) NewScene() {
	a.scene = core.NewScene("untitled")
	a.scenePath = ""
	a.editor.ClearSelection()

	sun := a.scene.CreateActor("Sun")
	sun.Transform().SetPosition(mgl32.Vec3{5, 10, 5})
	sun.Transform().SetRotationEuler(mgl32.Vec3{-0.9, 0.6, 0})
	light := core.NewLightComponent()
	light.Type = core.LightDirectional
	light.Intensity = 2
	sun.AddComponent(light)

	a.scene.ClearChanges()
	logger.Log.Info("new scene")
}

// OpenScene loads a scene file and makes it current.
func (a *App) OpenScene(path string) error {
	s, err := sceneio.Load(path, a.assets.Resolve)
	if err != nil {
		return err
	}
	a.scene = s
	a.scenePath = path
	a.cfg.Paths.LastScene = path
	a.editor.ClearSelection()
	logger.Log.Info("scene opened",
		zap.String("path", path),
		zap.Int("actors", s.ActorCount()))
	return nil
}

// SaveScene writes the scene to its path, or prompts when it has none.
func (a *App) SaveScene() error {
	path := a.scenePath
	if path == "" {
		p, err := editor.SaveSceneDialog()
		if err != nil {
			return err
		}
		path = p
	}
	if err := sceneio.Save(a.scene, path); err != nil {
		return err
	}
	a.scenePath = path
	a.cfg.Paths.LastScene = path
	a.scene.ClearChanges()
	logger.Log.Info("scene saved", zap.String("path", path))
	return nil
}

// SpawnPrimitive adds an actor with the given primitive mesh a short
// distance in front of the camera and selects it.
func (a *App) SpawnPrimitive(kind string) {
	model, err := a.assets.Resolve("primitive:" + kind)
	if err != nil {
		logger.Log.Error("spawn failed", zap.String("kind", kind), zap.Error(err))
		return
	}

	actor := a.scene.CreateActor(kind)
	actor.Transform().SetPosition(a.camera.Position.Add(a.camera.Forward().Mul(6)))
	mc := core.NewMeshComponent()
	mc.SetModel(model)
	actor.AddComponent(mc)
	actor.AddComponent(core.NewMaterialComponent())
	a.editor.SelectActor(actor.ID())
}

// Run drives the main loop until the window closes.
func (a *App) Run() error {
	defer a.shutdown()

	a.lastTime = glfw.GetTime()
	for !a.window.ShouldClose() {
		glfw.PollEvents()

		now := glfw.GetTime()
		dt := float32(now - a.lastTime)
		a.lastTime = now
		a.trackFPS(now)

		a.processInput(dt, now)
		a.scene.Update(dt)
		a.editor.Update(a.scene, now)

		// Deferred scene notifications drain once per frame; any event
		// at all means the combined buffers may be stale.
		if events := a.scene.DrainEvents(); len(events) > 0 {
			a.scene.MarkModified()
		}

		a.buildOverlay()

		err := a.orch.Frame(func(slot int) error {
			return a.renderer.RenderFrame(slot, gpu.FrameInput{
				Scene:    a.scene,
				Camera:   a.camera,
				Selected: a.editor.Selected(),
				Gizmos:   &a.gizmos,
				HUD:      a.buildHUD(),
			})
		})
		switch {
		case err == nil:
		case errors.Is(err, gpu.ErrFrameSkipped):
			// Routine during resizes.
		case errors.Is(err, gpu.ErrResizeAbandoned):
			// The old render target is still valid; the session survives.
			logger.Log.Error("resize abandoned, keeping previous target", zap.Error(err))
		default:
			return err
		}

		a.limitFPS(now)
	}
	return nil
}

func (a *App) trackFPS(now float64) {
	a.fpsFrames++
	if now-a.fpsTime >= 0.5 {
		a.fps = float64(a.fpsFrames) / (now - a.fpsTime)
		a.fpsFrames = 0
		a.fpsTime = now
	}
}

func (a *App) limitFPS(frameStart float64) {
	if a.cfg.Graphics.FPSLimit <= 0 {
		return
	}
	budget := 1.0 / float64(a.cfg.Graphics.FPSLimit)
	elapsed := glfw.GetTime() - frameStart
	if elapsed < budget {
		time.Sleep(time.Duration((budget - elapsed) * float64(time.Second)))
	}
}

// buildOverlay refreshes the per-frame gizmo lines.
func (a *App) buildOverlay() {
	a.gizmos.Reset()
	if !a.cfg.Editor.ShowGizmos {
		return
	}
	a.gizmos.AddGrid(20, 1)
	a.gizmos.AddAxes(2)

	if id := a.editor.Selected(); id != 0 {
		if actor := a.scene.FindActorByID(id); actor != nil {
			if mc := actor.Mesh(); mc != nil && mc.Model() != nil {
				minB, maxB := mc.Model().AABB()
				a.gizmos.AddBox(actor.Transform().WorldMatrix(), minB, maxB,
					[3]float32{1, 0.6, 0.1})
			}
		}
	}
}

func (a *App) buildHUD() []gpu.TextItem {
	if !a.cfg.Editor.ShowStats {
		return nil
	}

	name := a.scene.Name()
	if len(a.scene.Changes()) > 0 {
		name += " *"
	}
	status := fmt.Sprintf("%s\n%d actors  %.0f fps", name, a.scene.ActorCount(), a.fps)
	items := []gpu.TextItem{
		{Text: status, Position: [2]float32{8, 6}, Scale: 1, Color: [3]float32{0.9, 0.9, 0.9}},
	}

	if id := a.editor.Selected(); id != 0 {
		if actor := a.scene.FindActorByID(id); actor != nil {
			p := actor.Transform().Position()
			items = append(items, gpu.TextItem{
				Text:     fmt.Sprintf("%s  (%.2f, %.2f, %.2f)", actor.Name(), p.X(), p.Y(), p.Z()),
				Position: [2]float32{8, 46},
				Scale:    1,
				Color:    [3]float32{1, 0.75, 0.3},
			})
		}
	}
	return items
}

func (a *App) shutdown() {
	if err := a.cfg.Save(); err != nil {
		logger.Log.Warn("config save failed", zap.Error(err))
	}
	a.renderer.Release()
	a.ctx.Release()
	a.window.Destroy()
	glfw.Terminate()
	logger.Log.Info("shutdown complete")
}
