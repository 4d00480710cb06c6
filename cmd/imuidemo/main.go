// Command imuidemo shows the imui stack inside a gogpu window: a small
// control panel drawn every frame over a black background.
//
// Press Space to toggle between the dark and light themes (a stand-in
// for a system theme notification, which gogpu does not deliver).
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/imui"
	"github.com/gogpu/imui/frame"
	"github.com/gogpu/imui/gpu"
)

func main() {
	var (
		width   = flag.Int("width", 800, "window width")
		height  = flag.Int("height", 600, "window height")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		imui.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	} else {
		imui.SetLogger(slog.Default())
	}

	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle("imui demo").
		WithSize(*width, *height).
		WithContinuousRender(true))

	var (
		dev      *gpu.Device
		fw       *frame.Framework
		frameNum int
	)

	app.OnDraw(func(dc *gogpu.Context) {
		w, h := dc.Width(), dc.Height()
		if w <= 0 || h <= 0 {
			// Minimized or mid-resize; keep the last good frame.
			return
		}

		sw, sh := dc.SurfaceSize()

		if fw == nil {
			provider := app.GPUContextProvider()
			if provider == nil {
				return
			}
			var err error
			dev, err = gpu.FromProvider(provider)
			if err != nil {
				log.Fatalf("GPU device: %v", err)
			}

			cfg := frame.DefaultConfig()
			cfg.Width = uint32(sw)
			cfg.Height = uint32(sh)
			cfg.ScaleFactor = float32(sw) / float32(w)
			fw, err = frame.New(cfg, frame.DrawerFunc(drawUI), dev)
			if err != nil {
				log.Fatalf("Framework: %v", err)
			}
			log.Printf("imui ready: %dx%d px, scale %.2f, backend %s",
				sw, sh, cfg.ScaleFactor, dc.Backend())
		}

		sd := fw.ScreenDescriptor()
		if uint32(sw) != sd.PhysicalWidth || uint32(sh) != sd.PhysicalHeight {
			fw.Resize(uint32(sw), uint32(sh))
			fw.SetScaleFactor(float32(sw) / float32(w))
			dev.Resize(uint32(sw), uint32(sh))
		}

		fw.Prepare()

		fr, err := dev.BeginFrame(dc.SurfaceView())
		if err != nil {
			log.Fatalf("Frame %d: begin: %v", frameNum, err)
		}
		if err := fw.Render(fr); err != nil {
			dev.Discard(fr)
			log.Fatalf("Frame %d: render: %v", frameNum, err)
		}
		if err := dev.Submit(fr); err != nil {
			log.Fatalf("Frame %d: submit: %v", frameNum, err)
		}
		frameNum++
	})

	app.EventSource().OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		if fw == nil {
			return
		}
		fw.HandleEvent(imui.KeyEvent{Key: int(key), Pressed: true})
		if key != gpucontext.KeySpace {
			return
		}
		next := frame.ThemeLight
		if fw.Theme() == frame.ThemeLight {
			next = frame.ThemeDark
		}
		fw.ChangeTheme(next)
		log.Printf("Theme: %s", next)
	})

	app.OnClose(func() {
		if fw != nil {
			fw.Destroy()
		}
		if dev != nil {
			dev.Close()
		}
	})

	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}

// drawUI builds the demo panel each frame.
func drawUI(ctx *imui.Context) {
	style := ctx.Style()
	visuals := style.Visuals
	screen := ctx.ScreenRect()

	ctx.FillRect(screen, visuals.WindowFill)

	panel := imui.RectXYWH(16, 16, 280, 150)
	ctx.Rect(panel, visuals.Widgets.Inactive.BgFill, imui.Stroke{
		Width: 1, Color: visuals.Widgets.Inactive.FgStroke.Color,
	})

	heading := visuals.Widgets.Noninteractive.FgStroke.Color
	ctx.Text(imui.Pos(28, 26), imui.TextStyleHeading, "imui demo", heading)
	ctx.Line(imui.Pos(28, 52), imui.Pos(284, 52), imui.Stroke{Width: 1, Color: heading})

	body := visuals.Widgets.Noninteractive.FgStroke.Color
	mode := "dark"
	if !visuals.Dark {
		mode = "light"
	}
	ctx.Text(imui.Pos(28, 62), imui.TextStyleBody,
		fmt.Sprintf("theme: %s (Space to toggle)", mode), body)

	// gpucontext only delivers key events, so that is the input shown.
	in := ctx.Input()
	ctx.Text(imui.Pos(28, 84), imui.TextStyleBody,
		fmt.Sprintf("key events this frame: %d", len(in.Events)), body)
	ctx.Text(imui.Pos(28, 106), imui.TextStyleMonospace,
		fmt.Sprintf("t = %7.2fs", in.Time), body)
}
