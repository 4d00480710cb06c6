package frame

import "github.com/gogpu/imui"

// Theme selects the UI color scheme.
type Theme int

const (
	// ThemeDark is the default scheme.
	ThemeDark Theme = iota

	// ThemeLight is the scheme for light system appearances.
	ThemeLight
)

// String returns the theme name.
func (t Theme) String() string {
	switch t {
	case ThemeDark:
		return "Dark"
	case ThemeLight:
		return "Light"
	default:
		return "Unknown"
	}
}

// applyTheme installs the theme's visuals and proportional font weight
// on the context.
//
// The light theme overrides the stock noninteractive and inactive
// foreground strokes to solid black: the stock grays wash out on light
// backgrounds. The proportional family's primary face follows the
// theme: bright text on dark fills already reads heavy, so dark keeps
// the regular weight and light steps up to medium.
func applyTheme(ctx *imui.Context, theme Theme) {
	style := ctx.Style()
	var primary string
	switch theme {
	case ThemeLight:
		v := imui.LightVisuals()
		v.Widgets.Noninteractive.FgStroke.Color = imui.ColorBlack
		v.Widgets.Inactive.FgStroke.Color = imui.ColorBlack
		style.Visuals = v
		primary = fontGoMedium
	default:
		style.Visuals = imui.DarkVisuals()
		primary = fontGoRegular
	}
	ctx.SetStyle(style)

	fonts := ctx.Fonts()
	prop := fonts.FontsForFamily[imui.Proportional]
	if len(prop) == 0 || prop[0] == primary {
		return
	}
	prop[0] = primary
	if err := ctx.SetFonts(fonts); err != nil {
		imui.Logger().Warn("frame: theme font swap failed", "theme", theme, "error", err)
	}
}
