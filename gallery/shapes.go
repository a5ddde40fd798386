package gallery

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"nurinuri/core"
)

// AddShape puts a shape on top of an artwork's stack. A shape without an id
// gets a fresh one.
func (g *Gallery) AddShape(ctx context.Context, artworkID uuid.UUID, shape core.Shape) (core.Shape, error) {
	if !shape.Type.Valid() {
		return core.Shape{}, fmt.Errorf("%w: %q", core.ErrInvalidShapeType, shape.Type)
	}
	if shape.ID == uuid.Nil {
		shape.ID = uuid.New()
	}

	updated, err := g.mutate(ctx, artworkID, func(w *core.Artwork) error {
		if err := w.AddShape(shape); err != nil {
			return fmt.Errorf("%w: %s", err, shape.ID)
		}
		return nil
	}, shapeEvent(EventShapeAdded, artworkID, shape.ID))
	if err != nil {
		return core.Shape{}, err
	}

	logrus.WithFields(logrus.Fields{
		"artwork_id": artworkID,
		"shape_id":   shape.ID,
		"type":       shape.Type,
	}).Debug("Shape added")

	added, _ := updated.Shape(shape.ID)
	return added, nil
}

// UpdateShape replaces a shape in place.
func (g *Gallery) UpdateShape(ctx context.Context, artworkID uuid.UUID, shape core.Shape) (core.Shape, error) {
	if !shape.Type.Valid() {
		return core.Shape{}, fmt.Errorf("%w: %q", core.ErrInvalidShapeType, shape.Type)
	}
	return g.editShape(ctx, artworkID, shape.ID, func(w *core.Artwork) bool {
		return w.UpdateShape(shape)
	})
}

func (g *Gallery) RemoveShape(ctx context.Context, artworkID, shapeID uuid.UUID) error {
	_, err := g.mutate(ctx, artworkID, func(w *core.Artwork) error {
		if !w.RemoveShape(shapeID) {
			return fmt.Errorf("%w: %s", core.ErrShapeNotFound, shapeID)
		}
		return nil
	}, shapeEvent(EventShapeRemoved, artworkID, shapeID))
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"artwork_id": artworkID,
		"shape_id":   shapeID,
	}).Debug("Shape removed")
	return nil
}

// MoveShape applies a drag delta.
func (g *Gallery) MoveShape(ctx context.Context, artworkID, shapeID uuid.UUID, dx, dy float64) (core.Shape, error) {
	return g.editShape(ctx, artworkID, shapeID, func(w *core.Artwork) bool {
		s, ok := w.Shape(shapeID)
		if !ok {
			return false
		}
		s.Translate(dx, dy)
		return w.UpdateShape(s)
	})
}

// ScaleShape applies a pinch factor.
func (g *Gallery) ScaleShape(ctx context.Context, artworkID, shapeID uuid.UUID, factor float64) (core.Shape, error) {
	if factor <= 0 {
		return core.Shape{}, fmt.Errorf("%w: %v", ErrInvalidScaleFactor, factor)
	}
	return g.editShape(ctx, artworkID, shapeID, func(w *core.Artwork) bool {
		s, ok := w.Shape(shapeID)
		if !ok {
			return false
		}
		s.Scale(factor)
		return w.UpdateShape(s)
	})
}

func (g *Gallery) BringShapeToFront(ctx context.Context, artworkID, shapeID uuid.UUID) (core.Shape, error) {
	return g.editShape(ctx, artworkID, shapeID, func(w *core.Artwork) bool {
		return w.BringToFront(shapeID)
	})
}

func (g *Gallery) SendShapeToBack(ctx context.Context, artworkID, shapeID uuid.UUID) (core.Shape, error) {
	return g.editShape(ctx, artworkID, shapeID, func(w *core.Artwork) bool {
		return w.SendToBack(shapeID)
	})
}

// editShape runs a find-then-act edit and announces shape.updated.
func (g *Gallery) editShape(ctx context.Context, artworkID, shapeID uuid.UUID, edit func(*core.Artwork) bool) (core.Shape, error) {
	updated, err := g.mutate(ctx, artworkID, func(w *core.Artwork) error {
		if !edit(w) {
			return fmt.Errorf("%w: %s", core.ErrShapeNotFound, shapeID)
		}
		return nil
	}, shapeEvent(EventShapeUpdated, artworkID, shapeID))
	if err != nil {
		return core.Shape{}, err
	}

	shape, _ := updated.Shape(shapeID)
	return shape, nil
}

func shapeEvent(kind EventKind, artworkID, shapeID uuid.UUID) func(*core.Artwork) Event {
	return func(a *core.Artwork) Event {
		return newEvent(kind, artworkID, a).withShape(shapeID)
	}
}
