package wgpu

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/imui"
)

//go:embed shaders/ui.wgsl
var uiShaderSource string

var (
	// ErrNilDevice is returned when a RenderPass is created without a
	// HAL device or queue.
	ErrNilDevice = errors.New("wgpu: nil device or queue")

	// ErrNoFontTexture is returned when Execute runs before the font
	// atlas was ever uploaded.
	ErrNoFontTexture = errors.New("wgpu: font texture not uploaded")

	// ErrUnknownTexture is returned when a paint job references a
	// texture ID that was never registered or already removed.
	ErrUnknownTexture = errors.New("wgpu: unknown texture id")

	// ErrInvalidScreen is returned for a screen descriptor with a zero
	// dimension or a non-positive scale factor.
	ErrInvalidScreen = errors.New("wgpu: invalid screen descriptor")

	// ErrBuffersOutOfSync is returned when Execute receives a paint job
	// list that does not match the last UpdateBuffers call.
	ErrBuffersOutOfSync = errors.New("wgpu: paint jobs out of sync with uploaded buffers")
)

// uniformSize is the byte size of the screen uniform:
// vec2<f32> screen size plus vec2<f32> padding.
const uniformSize = 16

// drawRange records where one paint job's geometry lives inside the
// shared vertex and index buffers.
type drawRange struct {
	texture    imui.TextureID
	clip       imui.Rect
	indexCount uint32
	firstIndex uint32
	baseVertex int32
}

// boundTexture bundles a texture with its view and the bind group that
// samples it.
type boundTexture struct {
	texture hal.Texture
	view    hal.TextureView
	bind    hal.BindGroup
	width   uint32
	height  uint32
}

func (t *boundTexture) destroy(device hal.Device) {
	if t == nil {
		return
	}
	if t.bind != nil {
		device.DestroyBindGroup(t.bind)
	}
	if t.view != nil {
		device.DestroyTextureView(t.view)
	}
	if t.texture != nil {
		device.DestroyTexture(t.texture)
	}
}

// RenderPass draws tessellated UI meshes into a render target. It owns
// the UI pipeline, the font atlas texture, user textures, and the
// shared vertex/index buffers.
//
// A RenderPass is driven from the frame goroutine only.
type RenderPass struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat

	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	textureLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipeline      hal.RenderPipeline
	sampler       hal.Sampler

	uniformBuf  hal.Buffer
	uniformBind hal.BindGroup

	vertexBuf hal.Buffer
	vertexCap uint64
	indexBuf  hal.Buffer
	indexCap  uint64
	draws     []drawRange

	fontTexture    *boundTexture
	fontGeneration uint64
	atlasUploads   int

	textures map[imui.TextureID]*boundTexture
	nextID   imui.TextureID
}

// NewRenderPass creates a RenderPass targeting the given color format.
// The UI shader is compiled to SPIR-V up front; any pipeline creation
// failure is returned immediately.
func NewRenderPass(device hal.Device, queue hal.Queue, format gputypes.TextureFormat) (*RenderPass, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	r := &RenderPass{
		device:   device,
		queue:    queue,
		format:   format,
		textures: make(map[imui.TextureID]*boundTexture),
		nextID:   imui.TextureFontAtlas + 1,
	}
	if err := r.createPipeline(); err != nil {
		r.Destroy()
		return nil, err
	}
	imui.Logger().Info("wgpu: ui render pipeline created", "format", format)
	return r, nil
}

// createPipeline compiles the UI shader and builds layouts, sampler,
// pipeline, and the screen uniform resources.
func (r *RenderPass) createPipeline() error {
	spirvBytes, err := naga.Compile(uiShaderSource)
	if err != nil {
		return fmt.Errorf("wgpu: compile ui shader: %w", err)
	}
	spirv := make([]uint32, len(spirvBytes)/4)
	for i := range spirv {
		spirv[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	shader, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "imui_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create ui shader module: %w", err)
	}
	r.shader = shader

	uniformLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "imui_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create uniform layout: %w", err)
	}
	r.uniformLayout = uniformLayout

	textureLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "imui_texture_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create texture layout: %w", err)
	}
	r.textureLayout = textureLayout

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "imui_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.uniformLayout, r.textureLayout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}
	r.pipeLayout = pipeLayout

	sampler, err := r.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "imui_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create sampler: %w", err)
	}
	r.sampler = sampler

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "imui_pipeline",
		Layout: r.pipeLayout,
		Vertex: hal.VertexState{
			Module:     r.shader,
			EntryPoint: "vs_main",
			Buffers:    uiVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     r.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    r.format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create ui pipeline: %w", err)
	}
	r.pipeline = pipeline

	uniformBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "imui_uniform",
		Size:  uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create uniform buffer: %w", err)
	}
	r.uniformBuf = uniformBuf

	uniformBind, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "imui_uniform_bind",
		Layout: r.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: r.uniformBuf.NativeHandle(), Offset: 0, Size: uniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create uniform bind group: %w", err)
	}
	r.uniformBind = uniformBind

	return nil
}

// uiVertexLayout returns the vertex buffer layout for the UI pipeline:
// position vec2<f32>, uv vec2<f32>, color unorm8x4.
func uiVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: imui.VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},  // uv
				{Format: gputypes.VertexFormatUnorm8x4, Offset: 16, ShaderLocation: 2}, // color
			},
		},
	}
}

// UpdateFontTexture uploads the glyph atlas to the GPU if its
// generation changed since the last upload. Unchanged atlases cost one
// integer comparison.
func (r *RenderPass) UpdateFontTexture(atlas *imui.FontAtlas) error {
	if r.fontTexture != nil && atlas.Generation() == r.fontGeneration {
		return nil
	}

	w, h := atlas.Size()
	width, height := uint32(w), uint32(h)

	if r.fontTexture == nil || r.fontTexture.width != width || r.fontTexture.height != height {
		tex, err := r.createTexture("imui_font_atlas", width, height)
		if err != nil {
			return err
		}
		r.fontTexture.destroy(r.device)
		r.fontTexture = tex
	}

	r.writeTexture(r.fontTexture, atlas.Image().Pix, width, height)
	r.fontGeneration = atlas.Generation()
	r.atlasUploads++
	imui.Logger().Debug("wgpu: font atlas uploaded",
		"width", width, "height", height, "generation", r.fontGeneration)
	return nil
}

// AddTexture registers an RGBA image as a user texture and returns the
// ID meshes reference it by. Pixels are premultiplied RGBA, row-major,
// 4 bytes per pixel.
func (r *RenderPass) AddTexture(width, height uint32, pixels []byte) (imui.TextureID, error) {
	if uint64(len(pixels)) < uint64(width)*uint64(height)*4 {
		return 0, fmt.Errorf("wgpu: texture data too short: %d bytes for %dx%d", len(pixels), width, height)
	}
	tex, err := r.createTexture("imui_user_texture", width, height)
	if err != nil {
		return 0, err
	}
	r.writeTexture(tex, pixels, width, height)

	id := r.nextID
	r.nextID++
	r.textures[id] = tex
	return id, nil
}

// RemoveTexture destroys a user texture. Removing an unknown ID is a
// no-op.
func (r *RenderPass) RemoveTexture(id imui.TextureID) {
	if tex, ok := r.textures[id]; ok {
		tex.destroy(r.device)
		delete(r.textures, id)
	}
}

// createTexture creates an RGBA8 sampled texture with its view and
// sampling bind group.
func (r *RenderPass) createTexture(label string, width, height uint32) (*boundTexture, error) {
	tex, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture %q: %w", label, err)
	}

	view, err := r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		r.device.DestroyTexture(tex)
		return nil, fmt.Errorf("wgpu: create texture view %q: %w", label, err)
	}

	bind, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label + "_bind",
		Layout: r.textureLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{
				TextureView: view.NativeHandle(),
			}},
			{Binding: 1, Resource: gputypes.SamplerBinding{
				Sampler: r.sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		r.device.DestroyTextureView(view)
		r.device.DestroyTexture(tex)
		return nil, fmt.Errorf("wgpu: create texture bind group %q: %w", label, err)
	}

	return &boundTexture{texture: tex, view: view, bind: bind, width: width, height: height}, nil
}

// writeTexture uploads the full pixel rectangle of a texture.
func (r *RenderPass) writeTexture(tex *boundTexture, pixels []byte, width, height uint32) {
	r.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  tex.texture,
			MipLevel: 0,
		},
		pixels,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  width * 4,
			RowsPerImage: height,
		},
		&hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
	)
}

// UpdateBuffers packs the paint jobs into the shared vertex and index
// buffers, growing them as needed, and refreshes the screen uniform.
// Draw ranges from any previous frame are fully replaced.
func (r *RenderPass) UpdateBuffers(jobs []imui.ClippedMesh, screen *ScreenDescriptor) error {
	if screen.PhysicalWidth == 0 || screen.PhysicalHeight == 0 || screen.ScaleFactor <= 0 {
		return fmt.Errorf("%w: %dx%d scale %v",
			ErrInvalidScreen, screen.PhysicalWidth, screen.PhysicalHeight, screen.ScaleFactor)
	}

	var totalVerts, totalIndices int
	for i := range jobs {
		totalVerts += len(jobs[i].Mesh.Vertices)
		totalIndices += len(jobs[i].Mesh.Indices)
	}

	vertData := make([]byte, totalVerts*imui.VertexStride)
	indexData := make([]byte, totalIndices*4)
	r.draws = r.draws[:0]

	var vertOff, indexOff int
	var baseVertex int32
	var firstIndex uint32
	for i := range jobs {
		mesh := &jobs[i].Mesh
		for _, v := range mesh.Vertices {
			writeUIVertex(vertData[vertOff:], v)
			vertOff += imui.VertexStride
		}
		for _, idx := range mesh.Indices {
			binary.LittleEndian.PutUint32(indexData[indexOff:], idx)
			indexOff += 4
		}
		r.draws = append(r.draws, drawRange{
			texture:    mesh.Texture,
			clip:       jobs[i].ClipRect,
			indexCount: uint32(len(mesh.Indices)),
			firstIndex: firstIndex,
			baseVertex: baseVertex,
		})
		baseVertex += int32(len(mesh.Vertices))
		firstIndex += uint32(len(mesh.Indices))
	}

	if err := r.ensureBuffer(&r.vertexBuf, &r.vertexCap, uint64(len(vertData)),
		"imui_vertices", gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst); err != nil {
		return err
	}
	if err := r.ensureBuffer(&r.indexBuf, &r.indexCap, uint64(len(indexData)),
		"imui_indices", gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst); err != nil {
		return err
	}
	if len(vertData) > 0 {
		r.queue.WriteBuffer(r.vertexBuf, 0, vertData)
	}
	if len(indexData) > 0 {
		r.queue.WriteBuffer(r.indexBuf, 0, indexData)
	}

	var uniform [uniformSize]byte
	binary.LittleEndian.PutUint32(uniform[0:4], math.Float32bits(screen.LogicalWidth()))
	binary.LittleEndian.PutUint32(uniform[4:8], math.Float32bits(screen.LogicalHeight()))
	r.queue.WriteBuffer(r.uniformBuf, 0, uniform[:])

	imui.Logger().Debug("wgpu: ui buffers updated",
		"jobs", len(jobs), "vertices", totalVerts, "indices", totalIndices)
	return nil
}

// ensureBuffer grows a buffer to at least size bytes, doubling capacity
// so steady-state frames reuse the same allocation.
func (r *RenderPass) ensureBuffer(buf *hal.Buffer, capacity *uint64, size uint64, label string, usage gputypes.BufferUsage) error {
	if size == 0 || (*buf != nil && *capacity >= size) {
		return nil
	}
	newCap := *capacity
	if newCap == 0 {
		newCap = 4096
	}
	for newCap < size {
		newCap *= 2
	}
	if *buf != nil {
		r.device.DestroyBuffer(*buf)
		*buf = nil
	}
	b, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  newCap,
		Usage: usage,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create %s buffer: %w", label, err)
	}
	*buf = b
	*capacity = newCap
	return nil
}

// Execute records one render pass drawing the paint jobs in order. The
// jobs must be the slice last passed to UpdateBuffers. clear, when non
// nil, is the color the target is cleared to before drawing.
func (r *RenderPass) Execute(encoder hal.CommandEncoder, target hal.TextureView, jobs []imui.ClippedMesh, screen *ScreenDescriptor, clear *gputypes.Color) error {
	if r.fontTexture == nil {
		return ErrNoFontTexture
	}
	if len(jobs) != len(r.draws) {
		return fmt.Errorf("%w: %d jobs, %d uploaded", ErrBuffersOutOfSync, len(jobs), len(r.draws))
	}

	loadOp := gputypes.LoadOpLoad
	var clearValue gputypes.Color
	if clear != nil {
		loadOp = gputypes.LoadOpClear
		clearValue = *clear
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "imui_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       target,
				LoadOp:     loadOp,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: clearValue,
			},
		},
	})

	if len(r.draws) > 0 {
		rp.SetPipeline(r.pipeline)
		rp.SetBindGroup(0, r.uniformBind, nil)
		rp.SetVertexBuffer(0, r.vertexBuf, 0)
		rp.SetIndexBuffer(r.indexBuf, gputypes.IndexFormatUint32, 0)

		for i := range r.draws {
			d := &r.draws[i]
			x, y, w, h := scissorRect(d.clip, screen)
			if w == 0 || h == 0 {
				continue
			}
			bind, err := r.textureBind(d.texture)
			if err != nil {
				rp.End()
				return err
			}
			rp.SetBindGroup(1, bind, nil)
			rp.SetScissorRect(x, y, w, h)
			rp.DrawIndexed(d.indexCount, 1, d.firstIndex, d.baseVertex, 0)
		}
	}

	rp.End()
	return nil
}

// textureBind resolves the bind group for a texture ID.
func (r *RenderPass) textureBind(id imui.TextureID) (hal.BindGroup, error) {
	if id == imui.TextureFontAtlas {
		return r.fontTexture.bind, nil
	}
	tex, ok := r.textures[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTexture, id)
	}
	return tex.bind, nil
}

// scissorRect converts a logical clip rect to pixels, clamped to the
// physical surface so the HAL never sees an out-of-bounds scissor.
func scissorRect(clip imui.Rect, screen *ScreenDescriptor) (x, y, w, h uint32) {
	scale := screen.ScaleFactor
	x0 := clampU32(clip.Min.X*scale, screen.PhysicalWidth)
	y0 := clampU32(clip.Min.Y*scale, screen.PhysicalHeight)
	x1 := clampU32(clip.Max.X*scale, screen.PhysicalWidth)
	y1 := clampU32(clip.Max.Y*scale, screen.PhysicalHeight)
	if x1 <= x0 || y1 <= y0 {
		return 0, 0, 0, 0
	}
	return x0, y0, x1 - x0, y1 - y0
}

func clampU32(v float32, limit uint32) uint32 {
	if v <= 0 {
		return 0
	}
	u := uint32(v)
	if u > limit {
		return limit
	}
	return u
}

// writeUIVertex packs one vertex: position, uv, then the four color
// bytes as unorm8x4.
func writeUIVertex(buf []byte, v imui.Vertex) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v.Pos.X))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v.Pos.Y))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v.UV.X))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(v.UV.Y))
	buf[16] = v.Color.R
	buf[17] = v.Color.G
	buf[18] = v.Color.B
	buf[19] = v.Color.A
}

// FontTextureUploads reports how many times the atlas texture was
// uploaded. Useful for verifying generation gating.
func (r *RenderPass) FontTextureUploads() int { return r.atlasUploads }

// Destroy releases all GPU resources in reverse creation order. Safe to
// call multiple times.
func (r *RenderPass) Destroy() {
	if r.device == nil {
		return
	}
	for id, tex := range r.textures {
		tex.destroy(r.device)
		delete(r.textures, id)
	}
	r.fontTexture.destroy(r.device)
	r.fontTexture = nil
	if r.indexBuf != nil {
		r.device.DestroyBuffer(r.indexBuf)
		r.indexBuf = nil
	}
	if r.vertexBuf != nil {
		r.device.DestroyBuffer(r.vertexBuf)
		r.vertexBuf = nil
	}
	if r.uniformBind != nil {
		r.device.DestroyBindGroup(r.uniformBind)
		r.uniformBind = nil
	}
	if r.uniformBuf != nil {
		r.device.DestroyBuffer(r.uniformBuf)
		r.uniformBuf = nil
	}
	if r.pipeline != nil {
		r.device.DestroyRenderPipeline(r.pipeline)
		r.pipeline = nil
	}
	if r.sampler != nil {
		r.device.DestroySampler(r.sampler)
		r.sampler = nil
	}
	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.textureLayout != nil {
		r.device.DestroyBindGroupLayout(r.textureLayout)
		r.textureLayout = nil
	}
	if r.uniformLayout != nil {
		r.device.DestroyBindGroupLayout(r.uniformLayout)
		r.uniformLayout = nil
	}
	if r.shader != nil {
		r.device.DestroyShaderModule(r.shader)
		r.shader = nil
	}
}
