package gallery

import "nurinuri/core"

func sampleArtworks() []*core.Artwork {
	placed := func(t core.ShapeType, x, y float64, c core.Color) core.Shape {
		s := core.NewShape(t)
		s.Position = core.Point{X: x, Y: y}
		s.Color = c
		return s
	}

	first := core.NewArtwork("Sample 1", core.CanvasLandscape43)
	_ = first.AddShape(placed(core.ShapeCircle, 200, 150, core.ColorRed))
	_ = first.AddShape(placed(core.ShapeStar5, 400, 300, core.ColorYellow))

	second := core.NewArtwork("Sample 2", core.CanvasSquare)
	_ = second.AddShape(placed(core.ShapeHeart, 300, 300, core.ColorPink))

	third := core.NewArtwork("Sample 3", core.CanvasWide169)
	_ = third.AddShape(placed(core.ShapeTriangle, 480, 270, core.ColorGreen))

	return []*core.Artwork{first, second, third}
}
