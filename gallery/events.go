package gallery

import (
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"nurinuri/core"
)

type EventKind string

const (
	EventArtworkCreated EventKind = "artwork.created"
	EventArtworkUpdated EventKind = "artwork.updated"
	EventArtworkDeleted EventKind = "artwork.deleted"
	EventShapeAdded     EventKind = "shape.added"
	EventShapeUpdated   EventKind = "shape.updated"
	EventShapeRemoved   EventKind = "shape.removed"
	EventCurrentChanged EventKind = "current.changed"
)

// Event describes one committed change. Artwork is a snapshot of the record
// after the change, or nil when it was deleted or the current artwork was
// closed.
type Event struct {
	ID        string        `json:"id"`
	Seq       uint64        `json:"seq"`
	Kind      EventKind     `json:"kind"`
	ArtworkID uuid.UUID     `json:"artworkId"`
	ShapeID   *uuid.UUID    `json:"shapeId,omitempty"`
	Artwork   *core.Artwork `json:"artwork,omitempty"`
	At        time.Time     `json:"at"`
}

func newEvent(kind EventKind, artworkID uuid.UUID, artwork *core.Artwork) Event {
	return Event{
		ID:        ulid.Make().String(),
		Kind:      kind,
		ArtworkID: artworkID,
		Artwork:   artwork,
		At:        time.Now(),
	}
}

func (e Event) withShape(id uuid.UUID) Event {
	e.ShapeID = &id
	return e
}

// Subscriber receives committed changes in commit order, Seq increasing by
// one each time. It may run on a goroutine other than the one that made the
// change and must not block. Subscribers may call back into the Gallery.
type Subscriber func(Event)
