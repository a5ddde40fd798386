package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UntitledName is shown for artworks whose name is blank.
const UntitledName = "Untitled"

// Artwork is a named canvas holding an ordered list of shapes. The order of
// Shapes is the stacking order: later shapes draw on top, and each shape's
// ZIndex always equals its position in the list.
type Artwork struct {
	ID              uuid.UUID `json:"id" yaml:"id"`
	Name            string    `json:"name" yaml:"name"`
	CreatedAt       time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" yaml:"updatedAt"`
	CanvasSize      Size      `json:"canvasSize" yaml:"canvasSize"`
	BackgroundColor Color     `json:"backgroundColor" yaml:"backgroundColor"`
	FrameColor      Color     `json:"frameColor" yaml:"frameColor"`
	Shapes          []Shape   `json:"shapes" yaml:"shapes"`
	IsFavorite      bool      `json:"isFavorite" yaml:"isFavorite"`
}

// NewArtwork creates an empty artwork with a white background and a black
// frame.
func NewArtwork(name string, canvas Size) *Artwork {
	now := time.Now()
	return &Artwork{
		ID:              uuid.New(),
		Name:            name,
		CreatedAt:       now,
		UpdatedAt:       now,
		CanvasSize:      canvas,
		BackgroundColor: ColorWhite,
		FrameColor:      ColorBlack,
		Shapes:          []Shape{},
	}
}

func (a *Artwork) DisplayName() string {
	if strings.TrimSpace(a.Name) == "" {
		return UntitledName
	}
	return a.Name
}

// Touch marks the artwork as modified. UpdatedAt strictly increases even when
// the clock has not advanced since the previous mutation.
func (a *Artwork) Touch() {
	now := time.Now()
	if !now.After(a.UpdatedAt) {
		now = a.UpdatedAt.Add(time.Nanosecond)
	}
	a.UpdatedAt = now
}

// IndexOfShape finds a shape's position in the stacking order.
func (a *Artwork) IndexOfShape(id uuid.UUID) (int, bool) {
	for i := range a.Shapes {
		if a.Shapes[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func (a *Artwork) Shape(id uuid.UUID) (Shape, bool) {
	i, ok := a.IndexOfShape(id)
	if !ok {
		return Shape{}, false
	}
	return a.Shapes[i], true
}

// AddShape puts the shape on top of the stack.
func (a *Artwork) AddShape(s Shape) error {
	if _, exists := a.IndexOfShape(s.ID); exists {
		return ErrDuplicateShapeID
	}
	a.Shapes = append(a.Shapes, s)
	a.restack()
	a.Touch()
	return nil
}

// RemoveShape reports whether a shape was removed. Nothing changes when the
// id is unknown.
func (a *Artwork) RemoveShape(id uuid.UUID) bool {
	i, ok := a.IndexOfShape(id)
	if !ok {
		return false
	}
	a.Shapes = append(a.Shapes[:i], a.Shapes[i+1:]...)
	a.restack()
	a.Touch()
	return true
}

// UpdateShape replaces the shape with the same id, keeping its place in the
// stack. The incoming ZIndex is ignored.
func (a *Artwork) UpdateShape(s Shape) bool {
	i, ok := a.IndexOfShape(s.ID)
	if !ok {
		return false
	}
	s.ZIndex = i
	a.Shapes[i] = s
	a.Touch()
	return true
}

func (a *Artwork) BringToFront(id uuid.UUID) bool {
	i, ok := a.IndexOfShape(id)
	if !ok {
		return false
	}
	s := a.Shapes[i]
	a.Shapes = append(a.Shapes[:i], a.Shapes[i+1:]...)
	a.Shapes = append(a.Shapes, s)
	a.restack()
	a.Touch()
	return true
}

func (a *Artwork) SendToBack(id uuid.UUID) bool {
	i, ok := a.IndexOfShape(id)
	if !ok {
		return false
	}
	s := a.Shapes[i]
	copy(a.Shapes[1:i+1], a.Shapes[:i])
	a.Shapes[0] = s
	a.restack()
	a.Touch()
	return true
}

// Normalize rewrites ZIndex from list order. Used after decoding records
// that may have been written by other clients.
func (a *Artwork) Normalize() {
	if a.Shapes == nil {
		a.Shapes = []Shape{}
	}
	a.restack()
}

// Clone returns a deep copy that shares no state with a.
func (a *Artwork) Clone() *Artwork {
	c := *a
	c.Shapes = make([]Shape, len(a.Shapes))
	copy(c.Shapes, a.Shapes)
	return &c
}

func (a *Artwork) restack() {
	for i := range a.Shapes {
		a.Shapes[i].ZIndex = i
	}
}
