package core

// CanvasPreset is one of the canvas sizes offered when creating an artwork.
type CanvasPreset struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Size        Size   `json:"size"`
}

var (
	CanvasLandscape43 = Size{Width: 800, Height: 600}
	CanvasSquare      = Size{Width: 600, Height: 600}
	CanvasPortrait34  = Size{Width: 600, Height: 800}
	CanvasWide169     = Size{Width: 960, Height: 540}
)

// DefaultCanvasSize is used when no canvas is chosen.
var DefaultCanvasSize = CanvasLandscape43

var canvasPresets = []CanvasPreset{
	{Key: "landscape43", DisplayName: "Landscape (4:3)", Description: "Best for scenery and nature", Size: CanvasLandscape43},
	{Key: "square", DisplayName: "Square (1:1)", Description: "Best for social posts", Size: CanvasSquare},
	{Key: "portrait34", DisplayName: "Portrait (3:4)", Description: "Best for portraits", Size: CanvasPortrait34},
	{Key: "wide169", DisplayName: "Wide (16:9)", Description: "Cinematic framing", Size: CanvasWide169},
}

func CanvasPresets() []CanvasPreset {
	presets := make([]CanvasPreset, len(canvasPresets))
	copy(presets, canvasPresets)
	return presets
}

func CanvasPresetNamed(key string) (CanvasPreset, bool) {
	for _, p := range canvasPresets {
		if p.Key == key {
			return p, true
		}
	}
	return CanvasPreset{}, false
}

// DisplayName names a preset size, or "Custom" for anything else.
func (s Size) DisplayName() string {
	for _, p := range canvasPresets {
		if p.Size == s {
			return p.DisplayName
		}
	}
	return "Custom"
}
