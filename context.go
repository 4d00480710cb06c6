package imui

// Output is what a frame hands back to the orchestrator besides paint
// commands.
type Output struct {
	// NeedsRepaint reports whether the toolkit wants another frame
	// soon (input arrived or an animation is running). Callers that
	// redraw continuously may ignore it.
	NeedsRepaint bool
}

// Context owns all toolkit state: input, style, fonts, the glyph atlas,
// and the shape list recorded during the current frame.
//
// A Context is not safe for concurrent use. Drive it from a single
// goroutine: HandleEvent and UpdateTime between frames, then
// BeginFrame, painter calls, EndFrame, Tessellate.
type Context struct {
	input *InputState
	style Style

	fonts   FontDefinitions
	atlas   *FontAtlas
	fontGen uint64

	frameActive bool
	screenRect  Rect
	clipStack   []Rect
	commands    []PaintCommand
}

// NewContext creates a Context with the stock style and empty font
// definitions. Text drawing stays inert until fonts are installed with
// [Context.SetFonts].
func NewContext() *Context {
	c := &Context{
		input: newInputState(),
		style: DefaultStyle(),
		fonts: DefaultFontDefinitions(),
	}
	// Empty definitions always build: the atlas still carries the
	// white region untextured shapes sample.
	atlas, err := buildFontAtlas(c.fonts, 1)
	if err != nil {
		// Unreachable with empty font data; keep the invariant that
		// a Context always has an atlas.
		panic(err)
	}
	c.fontGen = 1
	c.atlas = atlas
	return c
}

// HandleEvent ingests one input event. Events accumulate until the next
// BeginFrame snapshots them for the frame.
func (c *Context) HandleEvent(ev Event) {
	c.input.record(ev)
}

// UpdateTime sets the toolkit clock, in seconds since an arbitrary
// start. Call it once per frame before BeginFrame.
func (c *Context) UpdateTime(seconds float64) {
	c.input.Time = seconds
}

// Input exposes the accumulated input state. The returned pointer stays
// valid for the life of the Context.
func (c *Context) Input() *InputState { return c.input }

// Style returns the active style.
func (c *Context) Style() Style { return c.style }

// SetStyle replaces the active style. Takes effect immediately; shapes
// already recorded this frame keep the colors they were recorded with.
func (c *Context) SetStyle(s Style) { c.style = s }

// Fonts returns a deep copy of the installed font definitions, suitable
// for mutate-and-reinstall.
func (c *Context) Fonts() FontDefinitions {
	return c.fonts.Clone()
}

// SetFonts installs new font definitions and rebuilds the glyph atlas,
// bumping its generation. On failure the previous fonts and atlas stay
// installed and the error wraps [ErrFontLoad].
func (c *Context) SetFonts(defs FontDefinitions) error {
	atlas, err := buildFontAtlas(defs, c.fontGen+1)
	if err != nil {
		return err
	}
	c.fontGen++
	c.fonts = defs.Clone()
	c.atlas = atlas
	Logger().Info("imui: fonts installed",
		"fonts", len(defs.FontData), "generation", c.fontGen)
	return nil
}

// Atlas returns the current glyph atlas.
func (c *Context) Atlas() *FontAtlas { return c.atlas }

// BeginFrame starts a new frame covering screenRect. It resets the
// shape list and clip stack; input accumulated since the previous frame
// stays readable through [Context.Input] until EndFrame.
func (c *Context) BeginFrame(screenRect Rect) {
	c.frameActive = true
	c.screenRect = screenRect
	c.clipStack = append(c.clipStack[:0], screenRect)
	c.commands = nil
}

// EndFrame finishes the frame, returning its output and the recorded
// paint commands. Ownership of the command slice transfers to the
// caller; the Context starts the next frame empty.
func (c *Context) EndFrame() (Output, []PaintCommand) {
	out := Output{NeedsRepaint: len(c.input.Events) > 0}
	cmds := c.commands
	c.commands = nil
	c.frameActive = false
	c.input.beginFrame()
	return out, cmds
}

// ScreenRect returns the rect passed to the current or most recent
// BeginFrame.
func (c *Context) ScreenRect() Rect { return c.screenRect }

// PushClipRect intersects r with the current clip and makes the result
// the active clip for subsequent painter calls.
func (c *Context) PushClipRect(r Rect) {
	c.clipStack = append(c.clipStack, c.clip().Intersect(r))
}

// PopClipRect restores the clip active before the matching
// PushClipRect. The screen rect itself is never popped.
func (c *Context) PopClipRect() {
	if len(c.clipStack) > 1 {
		c.clipStack = c.clipStack[:len(c.clipStack)-1]
	}
}

func (c *Context) clip() Rect {
	if len(c.clipStack) == 0 {
		return c.screenRect
	}
	return c.clipStack[len(c.clipStack)-1]
}

// FillRect records a filled rectangle.
func (c *Context) FillRect(r Rect, fill Color32) {
	c.record(RectShape{Rect: r, Fill: fill})
}

// StrokeRect records a rectangle outline.
func (c *Context) StrokeRect(r Rect, stroke Stroke) {
	c.record(RectShape{Rect: r, Stroke: stroke})
}

// Rect records a rectangle with both fill and outline.
func (c *Context) Rect(r Rect, fill Color32, stroke Stroke) {
	c.record(RectShape{Rect: r, Fill: fill, Stroke: stroke})
}

// Line records a line segment.
func (c *Context) Line(from, to Pos2, stroke Stroke) {
	c.record(LineShape{From: from, To: to, Stroke: stroke})
}

// Text records a single line of text. pos is the top-left of the text
// box; the baseline is derived from the style's ascent.
func (c *Context) Text(pos Pos2, style TextStyle, text string, col Color32) {
	c.record(TextShape{Pos: pos, Text: text, Style: style, Color: col})
}

func (c *Context) record(s Shape) {
	if !c.frameActive {
		Logger().Warn("imui: painter call outside BeginFrame/EndFrame dropped")
		return
	}
	c.commands = append(c.commands, PaintCommand{ClipRect: c.clip(), Shape: s})
}
