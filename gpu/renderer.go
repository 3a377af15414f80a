package gpu

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/prism3d/prism/core"
	"github.com/prism3d/prism/logger"
	"github.com/prism3d/prism/shaders"
)

var backgroundColor = wgpu.Color{R: 0.055, G: 0.06, B: 0.075, A: 1}

// ErrNoScene reports a frame submitted without a scene to render.
var ErrNoScene = errors.New("no scene to render")

// FrameInput is everything one frame renders.
type FrameInput struct {
	Scene    *core.Scene
	Camera   *core.CameraState
	Selected core.ActorID // 0 selects nothing
	Gizmos   *GizmoBuilder
	HUD      []TextItem
}

// frameResources are the per-ring-slot buffers, so recording slot N
// never overwrites uniforms a previous frame may still read.
type frameResources struct {
	cameraBuf *wgpu.Buffer
	lightsBuf *wgpu.Buffer

	drawBuf *wgpu.Buffer
	drawCap uint64

	gizmoBuf *wgpu.Buffer
	gizmoCap uint64
	gizmoN   uint32

	textBuf *wgpu.Buffer
	textCap uint64
	textN   uint32

	frameBG  *wgpu.BindGroup
	drawBG   *wgpu.BindGroup
	cameraBG *wgpu.BindGroup
}

// Renderer owns the pipelines and draws scenes through the combined
// buffers. One renderer per Context.
type Renderer struct {
	ctx     *Context
	buffers *SceneBuffers

	scenePipeline     *wgpu.RenderPipeline
	highlightPipeline *wgpu.RenderPipeline
	gizmoPipeline     *wgpu.RenderPipeline
	textPipeline      *wgpu.RenderPipeline

	frameBGL   *wgpu.BindGroupLayout
	drawBGL    *wgpu.BindGroupLayout
	outlineBGL *wgpu.BindGroupLayout
	cameraBGL  *wgpu.BindGroupLayout
	textBGL    *wgpu.BindGroupLayout

	outlineBuf *wgpu.Buffer
	outlineBG  *wgpu.BindGroup

	atlas        *TextAtlas
	atlasTexture *wgpu.Texture
	atlasView    *wgpu.TextureView
	atlasSampler *wgpu.Sampler
	textBG       *wgpu.BindGroup

	slots [FramesInFlight]frameResources

	draws []DrawUniform
}

var (
	cameraUniformSize = uint64(unsafe.Sizeof(CameraUniform{}))
	lightsUniformSize = uint64(unsafe.Sizeof(LightsUniform{}))
)

// NewRenderer builds every pipeline and the static resources. The
// highlight color comes from editor configuration.
func NewRenderer(ctx *Context, atlas *TextAtlas, highlightColor [4]float32) (*Renderer, error) {
	r := &Renderer{
		ctx:     ctx,
		buffers: NewSceneBuffers(),
		atlas:   atlas,
	}

	if err := r.createLayouts(); err != nil {
		return nil, err
	}
	if err := r.createPipelines(); err != nil {
		return nil, err
	}
	if err := r.createStaticResources(highlightColor); err != nil {
		return nil, err
	}
	if err := r.createSlotResources(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) createLayouts() error {
	var err error
	r.frameBGL, err = r.ctx.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "frame bgl",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: cameraUniformSize,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: lightsUniformSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("frame bind group layout: %w", err)
	}

	r.drawBGL, err = r.ctx.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "draw bgl",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   DrawUniformStride,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("draw bind group layout: %w", err)
	}

	r.outlineBGL, err = r.ctx.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "outline bgl",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: 16,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("outline bind group layout: %w", err)
	}

	r.cameraBGL, err = r.ctx.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "camera bgl",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: cameraUniformSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("camera bind group layout: %w", err)
	}

	r.textBGL, err = r.ctx.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "text bgl",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("text bind group layout: %w", err)
	}
	return nil
}

var sceneVertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: uint64(unsafe.Sizeof(core.Vertex{})),
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 24, ShaderLocation: 2},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 36, ShaderLocation: 3},
	},
}

func depthState(writeEnabled bool, compare wgpu.CompareFunction) *wgpu.DepthStencilState {
	return &wgpu.DepthStencilState{
		Format:            DepthFormat,
		DepthWriteEnabled: writeEnabled,
		DepthCompare:      compare,
		StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		StencilReadMask:   0xFFFFFFFF,
		StencilWriteMask:  0xFFFFFFFF,
	}
}

func (r *Renderer) createPipelines() error {
	device := r.ctx.Device
	format := r.ctx.Config.Format

	makeModule := func(label, code string) (*wgpu.ShaderModule, error) {
		return device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
			Label:          label,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: code},
		})
	}

	sceneModule, err := makeModule("scene shader", shaders.Scene)
	if err != nil {
		return fmt.Errorf("scene shader: %w", err)
	}
	defer sceneModule.Release()

	sceneLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{r.frameBGL, r.drawBGL},
	})
	if err != nil {
		return err
	}
	defer sceneLayout.Release()

	r.scenePipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "scene pipeline",
		Layout: sceneLayout,
		Vertex: wgpu.VertexState{
			Module:     sceneModule,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{sceneVertexLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     sceneModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{Format: format, WriteMask: wgpu.ColorWriteMaskAll},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		DepthStencil: depthState(true, wgpu.CompareFunctionLess),
		Multisample:  wgpu.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	if err != nil {
		return fmt.Errorf("scene pipeline: %w", err)
	}

	hlModule, err := makeModule("highlight shader", shaders.Highlight)
	if err != nil {
		return fmt.Errorf("highlight shader: %w", err)
	}
	defer hlModule.Release()

	hlLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{r.frameBGL, r.drawBGL, r.outlineBGL},
	})
	if err != nil {
		return err
	}
	defer hlLayout.Release()

	r.highlightPipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "highlight pipeline",
		Layout: hlLayout,
		Vertex: wgpu.VertexState{
			Module:     hlModule,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{sceneVertexLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     hlModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{Format: format, WriteMask: wgpu.ColorWriteMaskAll},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			// Front faces of the inflated shell would occlude the mesh.
			CullMode: wgpu.CullModeFront,
		},
		DepthStencil: depthState(false, wgpu.CompareFunctionLessEqual),
		Multisample:  wgpu.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	if err != nil {
		return fmt.Errorf("highlight pipeline: %w", err)
	}

	gizmoModule, err := makeModule("gizmo shader", shaders.Gizmo)
	if err != nil {
		return fmt.Errorf("gizmo shader: %w", err)
	}
	defer gizmoModule.Release()

	gizmoLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{r.cameraBGL},
	})
	if err != nil {
		return err
	}
	defer gizmoLayout.Release()

	r.gizmoPipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "gizmo pipeline",
		Layout: gizmoLayout,
		Vertex: wgpu.VertexState{
			Module:     gizmoModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(GizmoVertex{})),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     gizmoModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{Format: format, WriteMask: wgpu.ColorWriteMaskAll},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyLineList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: depthState(false, wgpu.CompareFunctionLessEqual),
		Multisample:  wgpu.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	if err != nil {
		return fmt.Errorf("gizmo pipeline: %w", err)
	}

	textModule, err := makeModule("text shader", shaders.Text)
	if err != nil {
		return fmt.Errorf("text shader: %w", err)
	}
	defer textModule.Release()

	textLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{r.textBGL},
	})
	if err != nil {
		return err
	}
	defer textLayout.Release()

	r.textPipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "text pipeline",
		Layout: textLayout,
		Vertex: wgpu.VertexState{
			Module:     textModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(TextVertex{})),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
						{Format: wgpu.VertexFormatFloat32x3, Offset: 16, ShaderLocation: 2},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     textModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	if err != nil {
		return fmt.Errorf("text pipeline: %w", err)
	}
	return nil
}

func (r *Renderer) createStaticResources(highlightColor [4]float32) error {
	device := r.ctx.Device

	var err error
	r.outlineBuf, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "outline color",
		Contents: wgpu.ToBytes(highlightColor[:]),
		Usage:    wgpu.BufferUsageUniform,
	})
	if err != nil {
		return err
	}
	r.outlineBG, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "outline bg",
		Layout: r.outlineBGL,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: r.outlineBuf, Size: 16},
		},
	})
	if err != nil {
		return err
	}

	// Glyph atlas texture.
	img := r.atlas.Image()
	w := uint32(img.Rect.Dx())
	h := uint32(img.Rect.Dy())
	extent := wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}
	r.atlasTexture, err = device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "glyph atlas",
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatR8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return err
	}
	if err := r.ctx.Queue.WriteTexture(
		r.atlasTexture.AsImageCopy(),
		img.Pix,
		&wgpu.TextureDataLayout{Offset: 0, BytesPerRow: w, RowsPerImage: h},
		&extent,
	); err != nil {
		return err
	}
	r.atlasView, err = r.atlasTexture.CreateView(nil)
	if err != nil {
		return err
	}
	r.atlasSampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:     "glyph sampler",
		MagFilter: wgpu.FilterModeLinear,
		MinFilter: wgpu.FilterModeLinear,
	})
	if err != nil {
		return err
	}
	r.textBG, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "text bg",
		Layout: r.textBGL,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: r.atlasView, Size: wgpu.WholeSize},
			{Binding: 1, Sampler: r.atlasSampler, Size: wgpu.WholeSize},
		},
	})
	return err
}

func (r *Renderer) createSlotResources() error {
	device := r.ctx.Device
	for i := range r.slots {
		s := &r.slots[i]

		var err error
		s.cameraBuf, err = device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: fmt.Sprintf("camera uniforms %d", i),
			Size:  cameraUniformSize,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return err
		}
		s.lightsBuf, err = device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: fmt.Sprintf("light uniforms %d", i),
			Size:  lightsUniformSize,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return err
		}

		s.frameBG, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  fmt.Sprintf("frame bg %d", i),
			Layout: r.frameBGL,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: s.cameraBuf, Size: cameraUniformSize},
				{Binding: 1, Buffer: s.lightsBuf, Size: lightsUniformSize},
			},
		})
		if err != nil {
			return err
		}
		s.cameraBG, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  fmt.Sprintf("camera bg %d", i),
			Layout: r.cameraBGL,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: s.cameraBuf, Size: cameraUniformSize},
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// ensureDrawCapacity grows a slot's draw uniform buffer and rebinds
// its dynamic bind group when the draw count outgrows it.
func (s *frameResources) ensureDrawCapacity(r *Renderer, slotIdx, drawCount int) error {
	need := uint64(drawCount) * DrawUniformStride
	if need == 0 {
		need = DrawUniformStride
	}
	if s.drawBuf != nil && s.drawCap >= need {
		return nil
	}

	var err error
	s.drawBuf, s.drawCap, err = ensureBuffer(r.ctx.Device, s.drawBuf, s.drawCap,
		fmt.Sprintf("draw uniforms %d", slotIdx), need,
		wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	if s.drawBG != nil {
		s.drawBG.Release()
	}
	s.drawBG, err = r.ctx.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  fmt.Sprintf("draw bg %d", slotIdx),
		Layout: r.drawBGL,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: s.drawBuf, Size: DrawUniformStride},
		},
	})
	return err
}

// SyncScene rebuilds and uploads the combined buffers if the scene is
// flagged stale. Called once per frame before recording.
func (r *Renderer) SyncScene(s *core.Scene) error {
	if s == nil {
		return ErrNoScene
	}
	if !s.Modified() {
		return nil
	}
	r.buffers.Rebuild(s)
	if err := r.buffers.Upload(r.ctx.Device, r.ctx.Queue); err != nil {
		return fmt.Errorf("upload scene buffers: %w", err)
	}
	s.ClearModified()
	logger.Log.Debug("scene buffers resynced",
		zap.Int("vertices", r.buffers.VertexCount()),
		zap.Int("indices", r.buffers.IndexCount()),
		zap.Int("draws", len(r.buffers.DrawOrder())))
	return nil
}

// Buffers exposes the combined scene buffers (picking reads them).
func (r *Renderer) Buffers() *SceneBuffers { return r.buffers }

// RenderFrame records and submits one frame into the acquired surface
// image. slot selects the uniform set to write, matching the frame
// ring index.
func (r *Renderer) RenderFrame(slot int, in FrameInput) error {
	s := &r.slots[slot]
	queue := r.ctx.Queue
	width := int(r.ctx.Config.Width)
	height := int(r.ctx.Config.Height)

	if err := r.SyncScene(in.Scene); err != nil {
		return err
	}

	// Per-frame uniforms.
	aspect := float32(width) / float32(height)
	cam := BuildCameraUniform(in.Camera, aspect)
	if err := queue.WriteBuffer(s.cameraBuf, 0, uniformBytes(&cam)); err != nil {
		return err
	}
	lights := BuildLightsUniform(in.Scene)
	if err := queue.WriteBuffer(s.lightsBuf, 0, uniformBytes(&lights)); err != nil {
		return err
	}

	// Per-draw uniforms in combine order.
	order := r.buffers.DrawOrder()
	r.draws = r.draws[:0]
	selectedDraw := -1
	for i, id := range order {
		a := in.Scene.FindActorByID(id)
		if a == nil {
			continue
		}
		if id == in.Selected {
			selectedDraw = i
		}
		r.draws = append(r.draws, BuildDrawUniform(a, id == in.Selected))
	}
	if err := s.ensureDrawCapacity(r, slot, len(r.draws)); err != nil {
		return err
	}
	if len(r.draws) > 0 {
		if err := queue.WriteBuffer(s.drawBuf, 0, drawUniformsToBytes(r.draws)); err != nil {
			return err
		}
	}

	// Overlay geometry.
	s.gizmoN = 0
	if in.Gizmos != nil && len(in.Gizmos.Vertices()) > 0 {
		verts := in.Gizmos.Vertices()
		data := unsafe.Slice((*byte)(unsafe.Pointer(&verts[0])),
			len(verts)*int(unsafe.Sizeof(verts[0])))
		var err error
		s.gizmoBuf, s.gizmoCap, err = ensureBuffer(r.ctx.Device, s.gizmoBuf, s.gizmoCap,
			fmt.Sprintf("gizmo lines %d", slot), uint64(len(data)),
			wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
		if err != nil {
			return err
		}
		if err := queue.WriteBuffer(s.gizmoBuf, 0, data); err != nil {
			return err
		}
		s.gizmoN = uint32(len(verts))
	}

	s.textN = 0
	if len(in.HUD) > 0 {
		verts := r.atlas.BuildVertices(in.HUD, width, height)
		if len(verts) > 0 {
			data := unsafe.Slice((*byte)(unsafe.Pointer(&verts[0])),
				len(verts)*int(unsafe.Sizeof(verts[0])))
			var err error
			s.textBuf, s.textCap, err = ensureBuffer(r.ctx.Device, s.textBuf, s.textCap,
				fmt.Sprintf("text quads %d", slot), uint64(len(data)),
				wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
			if err != nil {
				return err
			}
			if err := queue.WriteBuffer(s.textBuf, 0, data); err != nil {
				return err
			}
			s.textN = uint32(len(verts))
		}
	}

	encoder, err := r.ctx.Device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "scene pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       r.ctx.FrameView(),
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: backgroundColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            r.ctx.DepthView(),
			DepthClearValue: 1,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
		},
	})

	if !r.buffers.Empty() && len(r.draws) > 0 {
		pass.SetPipeline(r.scenePipeline)
		pass.SetBindGroup(0, s.frameBG, nil)
		pass.SetVertexBuffer(0, r.buffers.VertexBuffer(), 0, wgpu.WholeSize)
		pass.SetIndexBuffer(r.buffers.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)

		for i, id := range order {
			info, ok := r.buffers.Lookup(id)
			if !ok {
				continue
			}
			pass.SetBindGroup(1, s.drawBG, []uint32{uint32(i) * DrawUniformStride})
			// Indices are pre-shifted; base vertex stays zero.
			pass.DrawIndexed(info.IndexCount, 1, info.IndexOffset, 0, 0)
		}

		if selectedDraw >= 0 {
			if info, ok := r.buffers.Lookup(in.Selected); ok {
				pass.SetPipeline(r.highlightPipeline)
				pass.SetBindGroup(0, s.frameBG, nil)
				pass.SetBindGroup(1, s.drawBG, []uint32{uint32(selectedDraw) * DrawUniformStride})
				pass.SetBindGroup(2, r.outlineBG, nil)
				pass.DrawIndexed(info.IndexCount, 1, info.IndexOffset, 0, 0)
			}
		}
	}

	if s.gizmoN > 0 {
		pass.SetPipeline(r.gizmoPipeline)
		pass.SetBindGroup(0, s.cameraBG, nil)
		pass.SetVertexBuffer(0, s.gizmoBuf, 0, wgpu.WholeSize)
		pass.Draw(s.gizmoN, 1, 0, 0)
	}

	if s.textN > 0 {
		pass.SetPipeline(r.textPipeline)
		pass.SetBindGroup(0, r.textBG, nil)
		pass.SetVertexBuffer(0, s.textBuf, 0, wgpu.WholeSize)
		pass.Draw(s.textN, 1, 0, 0)
	}

	pass.End()
	pass.Release()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}
	defer cmd.Release()

	queue.Submit(cmd)
	return nil
}

// Release frees every GPU object the renderer owns.
func (r *Renderer) Release() {
	r.buffers.Release()
	for i := range r.slots {
		s := &r.slots[i]
		for _, b := range []*wgpu.Buffer{s.cameraBuf, s.lightsBuf, s.drawBuf, s.gizmoBuf, s.textBuf} {
			if b != nil {
				b.Release()
			}
		}
		for _, bg := range []*wgpu.BindGroup{s.frameBG, s.drawBG, s.cameraBG} {
			if bg != nil {
				bg.Release()
			}
		}
	}
	if r.outlineBG != nil {
		r.outlineBG.Release()
	}
	if r.outlineBuf != nil {
		r.outlineBuf.Release()
	}
	if r.textBG != nil {
		r.textBG.Release()
	}
	if r.atlasSampler != nil {
		r.atlasSampler.Release()
	}
	if r.atlasView != nil {
		r.atlasView.Release()
	}
	if r.atlasTexture != nil {
		r.atlasTexture.Release()
	}
	for _, p := range []*wgpu.RenderPipeline{r.scenePipeline, r.highlightPipeline, r.gizmoPipeline, r.textPipeline} {
		if p != nil {
			p.Release()
		}
	}
	for _, l := range []*wgpu.BindGroupLayout{r.frameBGL, r.drawBGL, r.outlineBGL, r.cameraBGL, r.textBGL} {
		if l != nil {
			l.Release()
		}
	}
}
