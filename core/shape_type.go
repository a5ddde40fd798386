package core

import (
	"encoding/json"
	"fmt"
)

// ShapeType tags one of the geometric primitives an artwork can hold.
type ShapeType string

const (
	ShapeCircle    ShapeType = "circle"
	ShapeRectangle ShapeType = "rectangle"
	ShapeSquare    ShapeType = "square"
	ShapeTriangle  ShapeType = "triangle"
	ShapeStar5     ShapeType = "star5"
	ShapeStar6     ShapeType = "star6"
	ShapePentagon  ShapeType = "pentagon"
	ShapeHexagon   ShapeType = "hexagon"
	ShapeEllipse   ShapeType = "ellipse"
	ShapeHeart     ShapeType = "heart"
	ShapeDroplet   ShapeType = "droplet"
	ShapeCloud     ShapeType = "cloud"
	ShapeCrescent  ShapeType = "crescent"
	ShapeFlower5   ShapeType = "flower5"
	ShapeButterfly ShapeType = "butterfly"
)

type shapeTypeInfo struct {
	label string
	icon  string
}

var shapeTypeOrder = []ShapeType{
	ShapeCircle, ShapeRectangle, ShapeSquare, ShapeTriangle, ShapeStar5,
	ShapeStar6, ShapePentagon, ShapeHexagon, ShapeEllipse, ShapeHeart,
	ShapeDroplet, ShapeCloud, ShapeCrescent, ShapeFlower5, ShapeButterfly,
}

var shapeTypeInfos = map[ShapeType]shapeTypeInfo{
	ShapeCircle:    {label: "Circle", icon: "circle"},
	ShapeRectangle: {label: "Rectangle", icon: "rectangle"},
	ShapeSquare:    {label: "Square", icon: "square"},
	ShapeTriangle:  {label: "Triangle", icon: "triangle"},
	ShapeStar5:     {label: "Star (5 points)", icon: "star"},
	ShapeStar6:     {label: "Star (6 points)", icon: "star"},
	ShapePentagon:  {label: "Pentagon", icon: "pentagon"},
	ShapeHexagon:   {label: "Hexagon", icon: "hexagon"},
	ShapeEllipse:   {label: "Ellipse", icon: "oval"},
	ShapeHeart:     {label: "Heart", icon: "heart"},
	ShapeDroplet:   {label: "Droplet", icon: "drop"},
	ShapeCloud:     {label: "Cloud", icon: "cloud"},
	ShapeCrescent:  {label: "Crescent", icon: "moon"},
	ShapeFlower5:   {label: "Flower (5 petals)", icon: "flower"},
	ShapeButterfly: {label: "Butterfly", icon: "ladybug"},
}

// ShapeTypes returns every shape type in catalogue order.
func ShapeTypes() []ShapeType {
	types := make([]ShapeType, len(shapeTypeOrder))
	copy(types, shapeTypeOrder)
	return types
}

// ParseShapeType validates a serialized shape tag.
func ParseShapeType(s string) (ShapeType, error) {
	t := ShapeType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidShapeType, s)
	}
	return t, nil
}

func (t ShapeType) Valid() bool {
	_, ok := shapeTypeInfos[t]
	return ok
}

func (t ShapeType) Label() string {
	return shapeTypeInfos[t].label
}

// Icon is the symbol name clients use to draw the palette button.
func (t ShapeType) Icon() string {
	return shapeTypeInfos[t].icon
}

// IsFree reports whether the shape is available without a premium tier.
// Every shape in the catalogue is free.
func (t ShapeType) IsFree() bool {
	return t.Valid()
}

func (t *ShapeType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseShapeType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
