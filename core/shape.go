package core

import (
	"math"

	"github.com/google/uuid"
)

// MinShapeDimension is the smallest width or height a pinch can shrink a
// shape to.
const MinShapeDimension = 30.0

type (
	Point struct {
		X float64 `json:"x" yaml:"x"`
		Y float64 `json:"y" yaml:"y"`
	}

	Size struct {
		Width  float64 `json:"width" yaml:"width"`
		Height float64 `json:"height" yaml:"height"`
	}

	// Shape is a single placed primitive on an artwork canvas.
	Shape struct {
		ID       uuid.UUID `json:"id" yaml:"id"`
		Type     ShapeType `json:"type" yaml:"type"`
		Position Point     `json:"position" yaml:"position"`
		Size     Size      `json:"size" yaml:"size"`
		Rotation float64   `json:"rotation" yaml:"rotation"` // degrees
		Color    Color     `json:"color" yaml:"color"`
		Opacity  float64   `json:"opacity" yaml:"opacity"`
		ZIndex   int       `json:"zIndex" yaml:"zIndex"`
	}
)

// NewShape returns a shape of the given type with a fresh id and the
// default placement: origin, 100x100, unrotated, opaque black.
func NewShape(t ShapeType) Shape {
	return Shape{
		ID:       uuid.New(),
		Type:     t,
		Size:     Size{Width: 100, Height: 100},
		Color:    ColorBlack,
		Opacity:  1,
		Position: Point{},
	}
}

// Translate moves the shape by a drag delta.
func (s *Shape) Translate(dx, dy float64) {
	s.Position.X += dx
	s.Position.Y += dy
}

// Scale applies a pinch factor to both dimensions, never going below
// MinShapeDimension.
func (s *Shape) Scale(factor float64) {
	s.Size.Width = math.Max(MinShapeDimension, s.Size.Width*factor)
	s.Size.Height = math.Max(MinShapeDimension, s.Size.Height*factor)
}
