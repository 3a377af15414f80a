// Package gpu owns the device, the combined scene buffers and the
// render passes that draw a scene into the window surface.
package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"github.com/prism3d/prism/logger"
)

// DepthFormat is shared by every depth-tested pipeline.
const DepthFormat = wgpu.TextureFormatDepth32Float

// Context bundles the wgpu objects tied to one window surface. It
// implements RenderTarget for the frame orchestrator.
type Context struct {
	Surface *wgpu.Surface
	Adapter *wgpu.Adapter
	Device  *wgpu.Device
	Queue   *wgpu.Queue
	Config  *wgpu.SurfaceConfiguration

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	frameTexture *wgpu.Texture
	frameView    *wgpu.TextureView
}

// NewContext creates the instance/adapter/device chain for a window
// and configures the surface with vsync.
func NewContext(win *glfw.Window, width, height int, vsync bool) (*Context, error) {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(win))
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "prism device",
	})
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}

	caps := surface.GetCapabilities(adapter)
	presentMode := wgpu.PresentModeFifo
	if !vsync {
		presentMode = wgpu.PresentModeImmediate
	}
	config := &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: presentMode,
		AlphaMode:   caps.AlphaModes[0],
	}

	ctx := &Context{
		Surface: surface,
		Adapter: adapter,
		Device:  device,
		Queue:   device.GetQueue(),
		Config:  config,
	}
	if err := ctx.Configure(width, height); err != nil {
		ctx.Release()
		return nil, err
	}

	logger.Log.Info("gpu context ready",
		zap.String("format", fmt.Sprint(config.Format)),
		zap.Int("width", width), zap.Int("height", height))
	return ctx, nil
}

// Configure rebuilds the surface and the depth attachment at the new
// size. The previous depth texture is released only after its
// replacement exists, so a failure leaves the context usable.
func (c *Context) Configure(width, height int) error {
	depth, err := c.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "depth",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        DepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create depth texture: %w", err)
	}
	depthView, err := depth.CreateView(nil)
	if err != nil {
		depth.Release()
		return fmt.Errorf("create depth view: %w", err)
	}

	c.Config.Width = uint32(width)
	c.Config.Height = uint32(height)
	c.Surface.Configure(c.Adapter, c.Device, c.Config)

	if c.depthView != nil {
		c.depthView.Release()
	}
	if c.depthTexture != nil {
		c.depthTexture.Release()
	}
	c.depthTexture = depth
	c.depthView = depthView
	return nil
}

// Acquire obtains the next surface image and its view.
func (c *Context) Acquire() error {
	tex, err := c.Surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return err
	}
	c.frameTexture = tex
	c.frameView = view
	return nil
}

// Present shows the acquired image.
func (c *Context) Present() {
	c.Surface.Present()
	c.releaseFrame()
}

// Discard drops the acquired image without presenting.
func (c *Context) Discard() {
	c.releaseFrame()
}

func (c *Context) releaseFrame() {
	if c.frameView != nil {
		c.frameView.Release()
		c.frameView = nil
	}
	if c.frameTexture != nil {
		c.frameTexture.Release()
		c.frameTexture = nil
	}
}

// FrameView returns the view of the acquired surface image, valid
// between Acquire and Present/Discard.
func (c *Context) FrameView() *wgpu.TextureView { return c.frameView }

// DepthView returns the depth attachment view.
func (c *Context) DepthView() *wgpu.TextureView { return c.depthView }

// Release frees everything the context owns.
func (c *Context) Release() {
	c.releaseFrame()
	if c.depthView != nil {
		c.depthView.Release()
	}
	if c.depthTexture != nil {
		c.depthTexture.Release()
	}
	if c.Device != nil {
		c.Device.Release()
	}
	if c.Adapter != nil {
		c.Adapter.Release()
	}
	if c.Surface != nil {
		c.Surface.Release()
	}
}
