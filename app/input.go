package app

import (
	"errors"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/prism3d/prism/core"
	"github.com/prism3d/prism/editor"
	"github.com/prism3d/prism/logger"
)

type inputState struct {
	lastX, lastY float64
	rotating     bool
	firstMouse   bool
}

func (a *App) installCallbacks() {
	a.window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		a.orch.Resize(width, height)
	})

	a.window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		switch button {
		case glfw.MouseButtonRight:
			// Hold to fly the camera.
			if action == glfw.Press {
				a.input.rotating = true
				a.input.firstMouse = true
				w.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
			} else if action == glfw.Release {
				a.input.rotating = false
				w.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
			}
		case glfw.MouseButtonLeft:
			if action == glfw.Press && !a.input.rotating {
				a.pickAtCursor()
			}
		}
	})

	a.window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if !a.input.rotating {
			a.input.lastX, a.input.lastY = x, y
			return
		}
		if a.input.firstMouse {
			a.input.lastX, a.input.lastY = x, y
			a.input.firstMouse = false
			return
		}
		dx := float32(x - a.input.lastX)
		dy := float32(y - a.input.lastY)
		a.input.lastX, a.input.lastY = x, y

		a.camera.Yaw += dx * a.camera.Sensitivity
		a.camera.Pitch -= dy * a.camera.Sensitivity
		const maxPitch = 1.55
		if a.camera.Pitch > maxPitch {
			a.camera.Pitch = maxPitch
		}
		if a.camera.Pitch < -maxPitch {
			a.camera.Pitch = -maxPitch
		}
	})

	a.window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if a.editor.Selected() != 0 && !a.input.rotating {
			factor := float32(1.1)
			if yoff < 0 {
				factor = 1 / factor
			}
			a.editor.ScaleSelected(factor, glfw.GetTime())
			return
		}
		// No selection: wheel adjusts fly speed.
		a.camera.Speed *= float32(1 + yoff*0.1)
		if a.camera.Speed < 0.5 {
			a.camera.Speed = 0.5
		}
	})

	a.window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		ctrl := mods&glfw.ModControl != 0

		switch {
		case key == glfw.KeyEscape:
			a.editor.ClearSelection()
		case key == glfw.KeyDelete:
			a.editor.DeleteSelected(a.scene)
		case key == glfw.KeyG:
			a.cfg.Editor.ShowGizmos = !a.cfg.Editor.ShowGizmos
		case key == glfw.KeyH:
			a.toggleSelectedVisibility()
		case key == glfw.Key1:
			a.SpawnPrimitive("cube")
		case key == glfw.Key2:
			a.SpawnPrimitive("sphere")
		case key == glfw.Key3:
			a.SpawnPrimitive("plane")
		case ctrl && key == glfw.KeyN:
			a.NewScene()
		case ctrl && key == glfw.KeyS:
			a.reportDialog(a.SaveScene())
		case ctrl && key == glfw.KeyO:
			a.openSceneViaDialog()
		case ctrl && key == glfw.KeyI:
			a.importModelViaDialog()
		case key == glfw.KeyQ && ctrl:
			w.SetShouldClose(true)
		}
	})
}

// processInput handles held-key camera movement each frame. Movement is
// only live while the right mouse button drives the camera, so typing
// in future UI panels never flies the viewport around.
func (a *App) processInput(dt float32, _ float64) {
	if !a.input.rotating {
		return
	}

	speed := a.camera.Speed * dt
	if a.window.GetKey(glfw.KeyLeftShift) == glfw.Press {
		speed *= 4
	}

	var delta mgl32.Vec3
	if a.window.GetKey(glfw.KeyW) == glfw.Press {
		delta = delta.Add(a.camera.Forward())
	}
	if a.window.GetKey(glfw.KeyS) == glfw.Press {
		delta = delta.Sub(a.camera.Forward())
	}
	if a.window.GetKey(glfw.KeyD) == glfw.Press {
		delta = delta.Add(a.camera.Right())
	}
	if a.window.GetKey(glfw.KeyA) == glfw.Press {
		delta = delta.Sub(a.camera.Right())
	}
	if a.window.GetKey(glfw.KeyE) == glfw.Press {
		delta = delta.Add(mgl32.Vec3{0, 1, 0})
	}
	if a.window.GetKey(glfw.KeyQ) == glfw.Press {
		delta = delta.Sub(mgl32.Vec3{0, 1, 0})
	}
	if delta.Len() > 0 {
		a.camera.Position = a.camera.Position.Add(delta.Normalize().Mul(speed))
	}
}

func (a *App) pickAtCursor() {
	x, y := a.window.GetCursorPos()
	w, h := a.orch.Size()
	if w == 0 || h == 0 {
		return
	}
	origin, dir := a.camera.PickRay(x, y, w, h)
	a.editor.SelectAt(a.scene, editor.Ray{Origin: origin, Direction: dir})
}

func (a *App) toggleSelectedVisibility() {
	id := a.editor.Selected()
	if id == 0 {
		return
	}
	if actor := a.scene.FindActorByID(id); actor != nil {
		if mc := actor.Mesh(); mc != nil {
			mc.SetVisible(!mc.Visible())
		}
	}
}

func (a *App) openSceneViaDialog() {
	path, err := editor.OpenSceneDialog()
	if err != nil {
		a.reportDialog(err)
		return
	}
	if err := a.OpenScene(path); err != nil {
		logger.Log.Error("scene open failed", zap.String("path", path), zap.Error(err))
	}
}

func (a *App) importModelViaDialog() {
	path, err := editor.ImportModelDialog()
	if err != nil {
		a.reportDialog(err)
		return
	}
	model, err := a.assets.Resolve("obj:" + path)
	if err != nil {
		logger.Log.Error("model import failed", zap.String("path", path), zap.Error(err))
		return
	}

	actor := a.scene.CreateActor(model.Name)
	actor.Transform().SetPosition(a.camera.Position.Add(a.camera.Forward().Mul(6)))
	mc := core.NewMeshComponent()
	mc.SetModel(model)
	actor.AddComponent(mc)
	a.editor.SelectActor(actor.ID())
}

func (a *App) reportDialog(err error) {
	if err == nil || errors.Is(err, editor.ErrDialogCancelled) {
		return
	}
	logger.Log.Error("file operation failed", zap.Error(err))
}
