package core

import "strings"

// Color is a device-independent RGBA color. Each channel is expected to be
// in [0, 1] but is stored exactly as given.
type Color struct {
	Red     float64 `json:"red" yaml:"red"`
	Green   float64 `json:"green" yaml:"green"`
	Blue    float64 `json:"blue" yaml:"blue"`
	Opacity float64 `json:"opacity" yaml:"opacity"`
}

// Preset colors, matching the system palette the mobile client uses.
var (
	ColorRed    = Color{Red: 1, Green: 0.231, Blue: 0.188, Opacity: 1}
	ColorGreen  = Color{Red: 0.204, Green: 0.780, Blue: 0.349, Opacity: 1}
	ColorBlue   = Color{Red: 0, Green: 0.478, Blue: 1, Opacity: 1}
	ColorPink   = Color{Red: 1, Green: 0.176, Blue: 0.333, Opacity: 1}
	ColorWhite  = Color{Red: 1, Green: 1, Blue: 1, Opacity: 1}
	ColorBlack  = Color{Red: 0, Green: 0, Blue: 0, Opacity: 1}
	ColorYellow = Color{Red: 1, Green: 0.8, Blue: 0, Opacity: 1}
)

// NamedColor pairs a preset with its name.
type NamedColor struct {
	Name  string `json:"name"`
	Color Color  `json:"color"`
}

var colorPresets = []NamedColor{
	{Name: "red", Color: ColorRed},
	{Name: "green", Color: ColorGreen},
	{Name: "blue", Color: ColorBlue},
	{Name: "pink", Color: ColorPink},
	{Name: "white", Color: ColorWhite},
	{Name: "black", Color: ColorBlack},
	{Name: "yellow", Color: ColorYellow},
}

func NewColor(r, g, b, a float64) Color {
	return Color{Red: r, Green: g, Blue: b, Opacity: a}
}

// RGBA returns the four channels unchanged.
func (c Color) RGBA() (r, g, b, a float64) {
	return c.Red, c.Green, c.Blue, c.Opacity
}

// ColorPresets returns the named preset colors in display order.
func ColorPresets() []NamedColor {
	presets := make([]NamedColor, len(colorPresets))
	copy(presets, colorPresets)
	return presets
}

// ColorNamed looks up a preset by name, ignoring case.
func ColorNamed(name string) (Color, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range colorPresets {
		if p.Name == name {
			return p.Color, true
		}
	}
	return Color{}, false
}
