package frame

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/imui"
	"github.com/gogpu/imui/backend/wgpu"
	"github.com/gogpu/imui/gpu"
)

// Drawer builds the UI for one frame. The framework treats it as an
// opaque capability: it calls DrawUI between BeginFrame and EndFrame
// and never inspects what was drawn.
type Drawer interface {
	DrawUI(ctx *imui.Context)
}

// DrawerFunc adapts a function to the Drawer interface.
type DrawerFunc func(ctx *imui.Context)

// DrawUI calls f.
func (f DrawerFunc) DrawUI(ctx *imui.Context) { f(ctx) }

// Config holds the initial framework parameters.
type Config struct {
	// Width and Height are the initial surface size in pixels.
	Width  uint32
	Height uint32

	// ScaleFactor is pixels per logical point.
	ScaleFactor float32

	// Theme is applied on the first Prepare.
	Theme Theme

	// Format is the color format of the render target.
	Format gputypes.TextureFormat
}

// DefaultConfig returns an 800x600 dark-themed configuration at scale 1
// targeting BGRA8.
func DefaultConfig() Config {
	return Config{
		Width:       800,
		Height:      600,
		ScaleFactor: 1,
		Theme:       ThemeDark,
		Format:      gputypes.TextureFormatBGRA8Unorm,
	}
}

// Framework ties the pieces of a UI frame together: the toolkit
// context, the frame clock, the screen descriptor, the pending theme,
// and the GPU render pass.
//
// All methods must be called from the event-loop goroutine. A typical
// frame is HandleEvent*, Prepare, then Render on an acquired frame.
type Framework struct {
	clock  *frameClock
	ctx    *imui.Context
	drawer Drawer

	screen    wgpu.ScreenDescriptor
	rpass     *wgpu.RenderPass
	paintJobs []imui.ClippedMesh

	theme        Theme
	pendingTheme *Theme
}

// New creates a Framework drawing through drawer on dev's device. Font
// installation or pipeline construction failures are fatal and returned
// immediately.
func New(cfg Config, drawer Drawer, dev *gpu.Device) (*Framework, error) {
	ctx := imui.NewContext()
	if err := InstallFonts(ctx); err != nil {
		return nil, fmt.Errorf("frame: install fonts: %w", err)
	}

	device, queue := dev.HAL()
	rpass, err := wgpu.NewRenderPass(device, queue, cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("frame: create render pass: %w", err)
	}

	pending := cfg.Theme
	f := &Framework{
		clock:  newFrameClock(),
		ctx:    ctx,
		drawer: drawer,
		rpass:  rpass,
		screen: wgpu.ScreenDescriptor{
			PhysicalWidth:  cfg.Width,
			PhysicalHeight: cfg.Height,
			ScaleFactor:    cfg.ScaleFactor,
		},
		theme:        cfg.Theme,
		pendingTheme: &pending,
	}
	dev.Resize(cfg.Width, cfg.Height)
	imui.Logger().Info("frame: framework created",
		"width", cfg.Width, "height", cfg.Height, "scale", cfg.ScaleFactor, "theme", cfg.Theme)
	return f, nil
}

// HandleEvent forwards a platform input event to the toolkit verbatim.
func (f *Framework) HandleEvent(ev imui.Event) {
	f.ctx.HandleEvent(ev)
}

// Resize records a new surface size in pixels. The size is stored as
// reported; callers filter out the zero-size events some platforms
// emit during minimize.
func (f *Framework) Resize(width, height uint32) {
	f.screen.PhysicalWidth = width
	f.screen.PhysicalHeight = height
}

// SetScaleFactor records a new pixels-per-point scale.
func (f *Framework) SetScaleFactor(scale float32) {
	f.screen.ScaleFactor = scale
}

// ScaleFactor returns the current pixels-per-point scale.
func (f *Framework) ScaleFactor() float32 {
	return f.screen.ScaleFactor
}

// ChangeTheme requests a theme switch, applied at the start of the next
// Prepare. Multiple calls between frames collapse to the last one.
func (f *Framework) ChangeTheme(theme Theme) {
	pending := theme
	f.pendingTheme = &pending
}

// Theme returns the most recently applied theme.
func (f *Framework) Theme() Theme {
	return f.theme
}

// Prepare runs one UI frame: clock update, lazy theme application, UI
// construction through the drawer, and tessellation. The previous
// frame's paint jobs are fully replaced.
func (f *Framework) Prepare() {
	f.ctx.UpdateTime(f.clock.seconds())

	if f.pendingTheme != nil {
		theme := *f.pendingTheme
		f.pendingTheme = nil
		applyTheme(f.ctx, theme)
		f.theme = theme
	}

	rect := imui.RectXYWH(0, 0, f.screen.LogicalWidth(), f.screen.LogicalHeight())
	f.ctx.BeginFrame(rect)
	f.drawer.DrawUI(f.ctx)
	out, cmds := f.ctx.EndFrame()
	// TODO: skip Render when out.NeedsRepaint is false once the event
	// loop can idle between input events.
	_ = out

	f.paintJobs = f.ctx.Tessellate(cmds)
}

// Render uploads the prepared paint jobs and records the UI render pass
// into the frame, clearing the target to black first. Any GPU error is
// returned to the caller, which should treat it as fatal.
func (f *Framework) Render(fr *gpu.Frame) error {
	if err := f.rpass.UpdateFontTexture(f.ctx.Atlas()); err != nil {
		return err
	}
	if err := f.rpass.UpdateBuffers(f.paintJobs, &f.screen); err != nil {
		return err
	}
	black := gputypes.Color{R: 0, G: 0, B: 0, A: 1}
	return f.rpass.Execute(fr.Encoder, fr.Target, f.paintJobs, &f.screen, &black)
}

// Context returns the toolkit context, for callers that need direct
// access (style tweaks, user input inspection).
func (f *Framework) Context() *imui.Context {
	return f.ctx
}

// RenderPass exposes the GPU adapter, mainly for registering user
// textures.
func (f *Framework) RenderPass() *wgpu.RenderPass {
	return f.rpass
}

// ScreenDescriptor returns the current screen descriptor.
func (f *Framework) ScreenDescriptor() wgpu.ScreenDescriptor {
	return f.screen
}

// PaintJobs returns the jobs produced by the last Prepare.
func (f *Framework) PaintJobs() []imui.ClippedMesh {
	return f.paintJobs
}

// Destroy releases the framework's GPU resources.
func (f *Framework) Destroy() {
	f.rpass.Destroy()
}
