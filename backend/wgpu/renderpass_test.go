//go:build !nogpu

package wgpu

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/imui"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// newTestRenderPass builds a RenderPass on the noop device, skipping
// when the shader trips a naga limitation.
func newTestRenderPass(t *testing.T, device hal.Device, queue hal.Queue) *RenderPass {
	t.Helper()
	r, err := NewRenderPass(device, queue, gputypes.TextureFormatBGRA8Unorm)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "not yet implemented") || strings.Contains(errStr, "not supported") {
			t.Skipf("Skipping: naga feature not yet implemented: %v", err)
		}
		t.Fatalf("NewRenderPass failed: %v", err)
	}
	return r
}

// testScreen is an 800x600 surface at scale 1.
func testScreen() *ScreenDescriptor {
	return &ScreenDescriptor{PhysicalWidth: 800, PhysicalHeight: 600, ScaleFactor: 1}
}

// quadJob returns one paint job with a single solid quad.
func quadJob(clip imui.Rect, tex imui.TextureID) imui.ClippedMesh {
	white := imui.Pos2{X: 0.5, Y: 0.5}
	return imui.ClippedMesh{
		ClipRect: clip,
		Mesh: imui.Mesh{
			Texture: tex,
			Vertices: []imui.Vertex{
				{Pos: imui.Pos(0, 0), UV: white, Color: imui.ColorWhite},
				{Pos: imui.Pos(10, 0), UV: white, Color: imui.ColorWhite},
				{Pos: imui.Pos(10, 10), UV: white, Color: imui.ColorWhite},
				{Pos: imui.Pos(0, 10), UV: white, Color: imui.ColorWhite},
			},
			Indices: []uint32{0, 1, 2, 2, 3, 0},
		},
	}
}

func TestNewRenderPassNilDevice(t *testing.T) {
	if _, err := NewRenderPass(nil, nil, gputypes.TextureFormatBGRA8Unorm); !errors.Is(err, ErrNilDevice) {
		t.Errorf("NewRenderPass(nil, nil) error = %v, want ErrNilDevice", err)
	}
}

func TestNewRenderPass(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r := newTestRenderPass(t, device, queue)
	defer r.Destroy()

	if r.pipeline == nil {
		t.Error("expected non-nil pipeline")
	}
	if r.uniformBind == nil {
		t.Error("expected non-nil uniform bind group")
	}
	if r.FontTextureUploads() != 0 {
		t.Errorf("FontTextureUploads() = %d before any upload, want 0", r.FontTextureUploads())
	}

	// Destroy is idempotent.
	r.Destroy()
	r.Destroy()
}

func TestUpdateFontTextureGenerationGate(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r := newTestRenderPass(t, device, queue)
	defer r.Destroy()

	ctx := imui.NewContext()
	if err := r.UpdateFontTexture(ctx.Atlas()); err != nil {
		t.Fatalf("UpdateFontTexture failed: %v", err)
	}
	if r.FontTextureUploads() != 1 {
		t.Fatalf("uploads = %d after first update, want 1", r.FontTextureUploads())
	}

	// Same generation: no new upload.
	for range 3 {
		if err := r.UpdateFontTexture(ctx.Atlas()); err != nil {
			t.Fatalf("UpdateFontTexture failed: %v", err)
		}
	}
	if r.FontTextureUploads() != 1 {
		t.Errorf("uploads = %d after repeat updates, want 1", r.FontTextureUploads())
	}

	// New atlas generation forces a re-upload.
	if err := ctx.SetFonts(imui.DefaultFontDefinitions()); err != nil {
		t.Fatalf("SetFonts failed: %v", err)
	}
	if err := r.UpdateFontTexture(ctx.Atlas()); err != nil {
		t.Fatalf("UpdateFontTexture failed: %v", err)
	}
	if r.FontTextureUploads() != 2 {
		t.Errorf("uploads = %d after generation bump, want 2", r.FontTextureUploads())
	}
}

func TestUpdateBuffersInvalidScreen(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r := newTestRenderPass(t, device, queue)
	defer r.Destroy()

	tests := []struct {
		name   string
		screen ScreenDescriptor
	}{
		{"zero width", ScreenDescriptor{PhysicalWidth: 0, PhysicalHeight: 600, ScaleFactor: 1}},
		{"zero height", ScreenDescriptor{PhysicalWidth: 800, PhysicalHeight: 0, ScaleFactor: 1}},
		{"zero scale", ScreenDescriptor{PhysicalWidth: 800, PhysicalHeight: 600, ScaleFactor: 0}},
		{"negative scale", ScreenDescriptor{PhysicalWidth: 800, PhysicalHeight: 600, ScaleFactor: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.UpdateBuffers(nil, &tt.screen)
			if !errors.Is(err, ErrInvalidScreen) {
				t.Errorf("UpdateBuffers() error = %v, want ErrInvalidScreen", err)
			}
		})
	}
}

func TestUpdateBuffersEmptyJobs(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r := newTestRenderPass(t, device, queue)
	defer r.Destroy()

	if err := r.UpdateBuffers(nil, testScreen()); err != nil {
		t.Fatalf("UpdateBuffers(nil) failed: %v", err)
	}
	if len(r.draws) != 0 {
		t.Errorf("got %d draw ranges, want 0", len(r.draws))
	}
}

func TestUpdateBuffersDrawRanges(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r := newTestRenderPass(t, device, queue)
	defer r.Destroy()

	clip := imui.RectXYWH(0, 0, 100, 100)
	jobs := []imui.ClippedMesh{
		quadJob(clip, imui.TextureFontAtlas),
		quadJob(clip, imui.TextureFontAtlas),
	}
	if err := r.UpdateBuffers(jobs, testScreen()); err != nil {
		t.Fatalf("UpdateBuffers failed: %v", err)
	}

	if len(r.draws) != 2 {
		t.Fatalf("got %d draw ranges, want 2", len(r.draws))
	}
	second := r.draws[1]
	if second.firstIndex != 6 || second.baseVertex != 4 {
		t.Errorf("second draw range = firstIndex %d, baseVertex %d, want 6, 4",
			second.firstIndex, second.baseVertex)
	}
	if second.indexCount != 6 {
		t.Errorf("second draw indexCount = %d, want 6", second.indexCount)
	}

	// A later frame with fewer jobs replaces the ranges.
	if err := r.UpdateBuffers(jobs[:1], testScreen()); err != nil {
		t.Fatalf("UpdateBuffers failed: %v", err)
	}
	if len(r.draws) != 1 {
		t.Errorf("got %d draw ranges after second update, want 1", len(r.draws))
	}
}

func TestExecuteRequiresFontTexture(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r := newTestRenderPass(t, device, queue)
	defer r.Destroy()

	encoder, target, done := beginTestEncoder(t, device)
	defer done()

	err := r.Execute(encoder, target, nil, testScreen(), nil)
	if !errors.Is(err, ErrNoFontTexture) {
		t.Errorf("Execute() error = %v, want ErrNoFontTexture", err)
	}
}

func TestExecuteOutOfSync(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r := newTestRenderPass(t, device, queue)
	defer r.Destroy()

	ctx := imui.NewContext()
	if err := r.UpdateFontTexture(ctx.Atlas()); err != nil {
		t.Fatalf("UpdateFontTexture failed: %v", err)
	}
	jobs := []imui.ClippedMesh{quadJob(imui.RectXYWH(0, 0, 100, 100), imui.TextureFontAtlas)}
	if err := r.UpdateBuffers(jobs, testScreen()); err != nil {
		t.Fatalf("UpdateBuffers failed: %v", err)
	}

	encoder, target, done := beginTestEncoder(t, device)
	defer done()

	err := r.Execute(encoder, target, nil, testScreen(), nil)
	if !errors.Is(err, ErrBuffersOutOfSync) {
		t.Errorf("Execute() error = %v, want ErrBuffersOutOfSync", err)
	}
}

func TestExecuteDrawsJobs(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r := newTestRenderPass(t, device, queue)
	defer r.Destroy()

	ctx := imui.NewContext()
	if err := r.UpdateFontTexture(ctx.Atlas()); err != nil {
		t.Fatalf("UpdateFontTexture failed: %v", err)
	}

	jobs := []imui.ClippedMesh{
		quadJob(imui.RectXYWH(0, 0, 100, 100), imui.TextureFontAtlas),
		// Clipped entirely off screen: skipped, not an error.
		quadJob(imui.RectXYWH(900, 900, 100, 100), imui.TextureFontAtlas),
	}
	if err := r.UpdateBuffers(jobs, testScreen()); err != nil {
		t.Fatalf("UpdateBuffers failed: %v", err)
	}

	encoder, target, done := beginTestEncoder(t, device)
	defer done()

	black := gputypes.Color{R: 0, G: 0, B: 0, A: 1}
	if err := r.Execute(encoder, target, jobs, testScreen(), &black); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	// A second pass without clearing loads the previous contents.
	if err := r.Execute(encoder, target, jobs, testScreen(), nil); err != nil {
		t.Fatalf("Execute (load) failed: %v", err)
	}
}

func TestExecuteUnknownTexture(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r := newTestRenderPass(t, device, queue)
	defer r.Destroy()

	ctx := imui.NewContext()
	if err := r.UpdateFontTexture(ctx.Atlas()); err != nil {
		t.Fatalf("UpdateFontTexture failed: %v", err)
	}
	jobs := []imui.ClippedMesh{quadJob(imui.RectXYWH(0, 0, 100, 100), imui.TextureID(42))}
	if err := r.UpdateBuffers(jobs, testScreen()); err != nil {
		t.Fatalf("UpdateBuffers failed: %v", err)
	}

	encoder, target, done := beginTestEncoder(t, device)
	defer done()

	err := r.Execute(encoder, target, jobs, testScreen(), nil)
	if !errors.Is(err, ErrUnknownTexture) {
		t.Errorf("Execute() error = %v, want ErrUnknownTexture", err)
	}
}

func TestAddRemoveTexture(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r := newTestRenderPass(t, device, queue)
	defer r.Destroy()

	pixels := make([]byte, 4*4*4)
	id, err := r.AddTexture(4, 4, pixels)
	if err != nil {
		t.Fatalf("AddTexture failed: %v", err)
	}
	if id == imui.TextureFontAtlas {
		t.Error("user texture got the font atlas ID")
	}
	if _, err := r.textureBind(id); err != nil {
		t.Errorf("textureBind(%d) error = %v", id, err)
	}

	// IDs are not reused within a pass.
	id2, err := r.AddTexture(4, 4, pixels)
	if err != nil {
		t.Fatalf("AddTexture failed: %v", err)
	}
	if id2 == id {
		t.Errorf("second texture reused ID %d", id)
	}

	r.RemoveTexture(id)
	if _, err := r.textureBind(id); !errors.Is(err, ErrUnknownTexture) {
		t.Errorf("textureBind after remove error = %v, want ErrUnknownTexture", err)
	}
	// Removing again is a no-op.
	r.RemoveTexture(id)
}

func TestAddTextureShortData(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r := newTestRenderPass(t, device, queue)
	defer r.Destroy()

	if _, err := r.AddTexture(8, 8, make([]byte, 16)); err == nil {
		t.Error("AddTexture with short pixel data should fail")
	}
}

func TestScissorRect(t *testing.T) {
	tests := []struct {
		name       string
		clip       imui.Rect
		screen     ScreenDescriptor
		x, y, w, h uint32
	}{
		{
			name:   "inside",
			clip:   imui.RectXYWH(10, 20, 30, 40),
			screen: ScreenDescriptor{PhysicalWidth: 800, PhysicalHeight: 600, ScaleFactor: 1},
			x:      10, y: 20, w: 30, h: 40,
		},
		{
			name:   "scaled",
			clip:   imui.RectXYWH(10, 20, 30, 40),
			screen: ScreenDescriptor{PhysicalWidth: 1600, PhysicalHeight: 1200, ScaleFactor: 2},
			x:      20, y: 40, w: 60, h: 80,
		},
		{
			name:   "clamped to surface",
			clip:   imui.RectXYWH(700, 500, 400, 400),
			screen: ScreenDescriptor{PhysicalWidth: 800, PhysicalHeight: 600, ScaleFactor: 1},
			x:      700, y: 500, w: 100, h: 100,
		},
		{
			name:   "negative origin clamped",
			clip:   imui.RectMinMax(imui.Pos(-50, -50), imui.Pos(50, 50)),
			screen: ScreenDescriptor{PhysicalWidth: 800, PhysicalHeight: 600, ScaleFactor: 1},
			x:      0, y: 0, w: 50, h: 50,
		},
		{
			name:   "fully off screen",
			clip:   imui.RectXYWH(900, 700, 10, 10),
			screen: ScreenDescriptor{PhysicalWidth: 800, PhysicalHeight: 600, ScaleFactor: 1},
			x:      0, y: 0, w: 0, h: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, w, h := scissorRect(tt.clip, &tt.screen)
			if x != tt.x || y != tt.y || w != tt.w || h != tt.h {
				t.Errorf("scissorRect() = (%d,%d,%d,%d), want (%d,%d,%d,%d)",
					x, y, w, h, tt.x, tt.y, tt.w, tt.h)
			}
		})
	}
}

func TestWriteUIVertex(t *testing.T) {
	v := imui.Vertex{
		Pos:   imui.Pos(1.5, -2),
		UV:    imui.Pos2{X: 0.25, Y: 0.75},
		Color: imui.Color32{R: 10, G: 20, B: 30, A: 40},
	}
	var buf [imui.VertexStride]byte
	writeUIVertex(buf[:], v)

	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4])); got != 1.5 {
		t.Errorf("pos.x = %v, want 1.5", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8])); got != -2 {
		t.Errorf("pos.y = %v, want -2", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[8:12])); got != 0.25 {
		t.Errorf("uv.x = %v, want 0.25", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[12:16])); got != 0.75 {
		t.Errorf("uv.y = %v, want 0.75", got)
	}
	if buf[16] != 10 || buf[17] != 20 || buf[18] != 30 || buf[19] != 40 {
		t.Errorf("color bytes = %v, want [10 20 30 40]", buf[16:20])
	}
}

// beginTestEncoder opens a command encoder and a render target view on
// the noop device. The returned func discards the encoding and frees
// the target.
func beginTestEncoder(t *testing.T, device hal.Device) (hal.CommandEncoder, hal.TextureView, func()) {
	t.Helper()

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "test_target",
		Size:          hal.Extent3D{Width: 800, Height: 600, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		t.Fatalf("CreateTexture failed: %v", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "test_target_view",
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		t.Fatalf("CreateTextureView failed: %v", err)
	}

	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "test_encoder"})
	if err != nil {
		device.DestroyTextureView(view)
		device.DestroyTexture(tex)
		t.Fatalf("CreateCommandEncoder failed: %v", err)
	}
	if err := encoder.BeginEncoding("test"); err != nil {
		device.DestroyTextureView(view)
		device.DestroyTexture(tex)
		t.Fatalf("BeginEncoding failed: %v", err)
	}

	done := func() {
		encoder.DiscardEncoding()
		device.DestroyTextureView(view)
		device.DestroyTexture(tex)
	}
	return encoder, view, done
}
