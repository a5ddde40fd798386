package core

import (
	"context"

	"github.com/google/uuid"
)

// ArtworkStore is the persistence layer behind the gallery. Backends store
// artworks exactly as given, timestamps included.
type ArtworkStore interface {
	// List returns every persisted artwork.
	List(ctx context.Context) ([]*Artwork, error)

	// Get returns one artwork, or ErrArtworkNotFound.
	Get(ctx context.Context, id uuid.UUID) (*Artwork, error)

	// Save creates or replaces the artwork with the same id.
	Save(ctx context.Context, artwork *Artwork) error

	// Delete removes an artwork, or returns ErrArtworkNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
}
