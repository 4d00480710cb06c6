package imui

// Stroke describes an outline: a width in logical points and a color.
type Stroke struct {
	Width float32
	Color Color32
}

// WidgetVisuals is the visual palette for widgets in one interaction
// state: the background fill and the foreground stroke used for text
// and outlines.
type WidgetVisuals struct {
	BgFill   Color32
	FgStroke Stroke
}

// WidgetStyles holds the visuals for each widget interaction state.
type WidgetStyles struct {
	// Noninteractive is used for labels and other static content.
	Noninteractive WidgetVisuals

	// Inactive is used for interactive widgets at rest.
	Inactive WidgetVisuals

	// Hovered is used while the pointer is over a widget.
	Hovered WidgetVisuals

	// Active is used while a widget is being pressed or dragged.
	Active WidgetVisuals
}

// Visuals is the full color scheme of the toolkit.
type Visuals struct {
	// Dark reports which base palette the visuals derive from.
	Dark bool

	// WindowFill is the background color for panel and window areas.
	WindowFill Color32

	// Widgets holds the per-state widget palettes.
	Widgets WidgetStyles
}

// DarkVisuals returns the stock dark color scheme.
func DarkVisuals() Visuals {
	return Visuals{
		Dark:       true,
		WindowFill: Gray(27),
		Widgets: WidgetStyles{
			Noninteractive: WidgetVisuals{
				BgFill:   Gray(27),
				FgStroke: Stroke{Width: 1, Color: Gray(140)},
			},
			Inactive: WidgetVisuals{
				BgFill:   Gray(60),
				FgStroke: Stroke{Width: 1, Color: Gray(180)},
			},
			Hovered: WidgetVisuals{
				BgFill:   Gray(70),
				FgStroke: Stroke{Width: 1.5, Color: Gray(240)},
			},
			Active: WidgetVisuals{
				BgFill:   Gray(55),
				FgStroke: Stroke{Width: 2, Color: ColorWhite},
			},
		},
	}
}

// LightVisuals returns the stock light color scheme.
func LightVisuals() Visuals {
	return Visuals{
		Dark:       false,
		WindowFill: Gray(248),
		Widgets: WidgetStyles{
			Noninteractive: WidgetVisuals{
				BgFill:   Gray(248),
				FgStroke: Stroke{Width: 1, Color: Gray(80)},
			},
			Inactive: WidgetVisuals{
				BgFill:   Gray(230),
				FgStroke: Stroke{Width: 1, Color: Gray(60)},
			},
			Hovered: WidgetVisuals{
				BgFill:   Gray(220),
				FgStroke: Stroke{Width: 1.5, Color: Gray(0)},
			},
			Active: WidgetVisuals{
				BgFill:   Gray(165),
				FgStroke: Stroke{Width: 2, Color: ColorBlack},
			},
		},
	}
}

// Style bundles everything that controls how the toolkit paints.
type Style struct {
	Visuals Visuals
}

// DefaultStyle returns the stock style: dark visuals.
func DefaultStyle() Style {
	return Style{Visuals: DarkVisuals()}
}
