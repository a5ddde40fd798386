// Package gallery holds the artwork collection, the currently open artwork
// and the editing operations on both. Every committed change is persisted
// through a core.ArtworkStore and announced to subscribers.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"nurinuri/core"
)

var (
	ErrInvalidScaleFactor = errors.New("scale factor must be positive")
	ErrInvalidArtwork     = errors.New("invalid artwork")
)

// Gallery is safe for concurrent use. Mutations are applied to a copy of the
// artwork, persisted, and only then committed, so a failing store leaves the
// in-memory state untouched.
type Gallery struct {
	mu       sync.RWMutex
	store    core.ArtworkStore
	artworks []*core.Artwork
	current  uuid.UUID

	subMu   sync.Mutex
	subs    map[int]Subscriber
	nextSub int

	pubMu    sync.Mutex
	queue    []Event
	seq      uint64
	draining bool
}

// ArtworkPatch carries the directly editable fields of an artwork. Nil
// fields are left alone.
type ArtworkPatch struct {
	Name            *string     `json:"name,omitempty"`
	BackgroundColor *core.Color `json:"backgroundColor,omitempty"`
	FrameColor      *core.Color `json:"frameColor,omitempty"`
	IsFavorite      *bool       `json:"isFavorite,omitempty"`
}

func (p ArtworkPatch) empty() bool {
	return p.Name == nil && p.BackgroundColor == nil && p.FrameColor == nil && p.IsFavorite == nil
}

func New(store core.ArtworkStore) *Gallery {
	return &Gallery{
		store:    store,
		artworks: []*core.Artwork{},
		subs:     make(map[int]Subscriber),
	}
}

// Load replaces the collection with the store's contents, oldest first.
func (g *Gallery) Load(ctx context.Context) error {
	artworks, err := g.store.List(ctx)
	if err != nil {
		return fmt.Errorf("load artworks: %w", err)
	}
	sort.SliceStable(artworks, func(i, j int) bool {
		return artworks[i].CreatedAt.Before(artworks[j].CreatedAt)
	})
	for _, a := range artworks {
		a.Normalize()
	}

	g.mu.Lock()
	g.artworks = artworks
	g.current = uuid.Nil
	g.mu.Unlock()

	logrus.WithField("count", len(artworks)).Info("Artworks loaded")
	return nil
}

// Seed installs the sample artworks when the collection is empty. It reports
// whether anything was added. Either every sample is added or none is.
func (g *Gallery) Seed(ctx context.Context) (bool, error) {
	defer g.deliver()
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.artworks) > 0 {
		return false, nil
	}

	samples := sampleArtworks()
	for i, a := range samples {
		if err := g.store.Save(ctx, a); err != nil {
			for _, saved := range samples[:i] {
				if delErr := g.store.Delete(ctx, saved.ID); delErr != nil {
					logrus.WithError(delErr).WithField("artwork_id", saved.ID).Warn("Failed to roll back sample artwork")
				}
			}
			return false, fmt.Errorf("seed artwork %q: %w", a.Name, err)
		}
	}

	g.artworks = append(g.artworks, samples...)
	for _, a := range samples {
		g.enqueue(newEvent(EventArtworkCreated, a.ID, a.Clone()))
	}

	logrus.WithField("count", len(samples)).Info("Seeded sample artworks")
	return true, nil
}

// Create adds a new empty artwork and makes it the current one.
func (g *Gallery) Create(ctx context.Context, name string, canvas core.Size) (*core.Artwork, error) {
	a := core.NewArtwork(name, canvas)

	defer g.deliver()
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.store.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("save artwork %s: %w", a.ID, err)
	}
	g.artworks = append(g.artworks, a)
	g.current = a.ID
	g.enqueue(
		newEvent(EventArtworkCreated, a.ID, a.Clone()),
		newEvent(EventCurrentChanged, a.ID, a.Clone()),
	)

	logrus.WithFields(logrus.Fields{
		"artwork_id": a.ID,
		"canvas":     canvas.DisplayName(),
	}).Info("Artwork created")
	return a.Clone(), nil
}

// Update replaces the stored artwork that has the same id. Creation time and
// canvas size are kept from the stored record.
func (g *Gallery) Update(ctx context.Context, artwork *core.Artwork) (*core.Artwork, error) {
	if err := checkShapes(artwork.Shapes); err != nil {
		return nil, err
	}

	return g.mutate(ctx, artwork.ID, func(w *core.Artwork) error {
		next := artwork.Clone()
		next.CreatedAt = w.CreatedAt
		next.CanvasSize = w.CanvasSize
		next.UpdatedAt = w.UpdatedAt
		next.Normalize()
		next.Touch()
		*w = *next
		return nil
	}, artworkUpdated)
}

// Patch edits the name, colors or favorite flag.
func (g *Gallery) Patch(ctx context.Context, id uuid.UUID, patch ArtworkPatch) (*core.Artwork, error) {
	if patch.empty() {
		return g.Get(id)
	}

	return g.mutate(ctx, id, func(w *core.Artwork) error {
		if patch.Name != nil {
			w.Name = *patch.Name
		}
		if patch.BackgroundColor != nil {
			w.BackgroundColor = *patch.BackgroundColor
		}
		if patch.FrameColor != nil {
			w.FrameColor = *patch.FrameColor
		}
		if patch.IsFavorite != nil {
			w.IsFavorite = *patch.IsFavorite
		}
		w.Touch()
		return nil
	}, artworkUpdated)
}

func (g *Gallery) Rename(ctx context.Context, id uuid.UUID, name string) (*core.Artwork, error) {
	return g.Patch(ctx, id, ArtworkPatch{Name: &name})
}

func (g *Gallery) SetFavorite(ctx context.Context, id uuid.UUID, favorite bool) (*core.Artwork, error) {
	return g.Patch(ctx, id, ArtworkPatch{IsFavorite: &favorite})
}

func (g *Gallery) SetColors(ctx context.Context, id uuid.UUID, background, frame core.Color) (*core.Artwork, error) {
	return g.Patch(ctx, id, ArtworkPatch{BackgroundColor: &background, FrameColor: &frame})
}

// Delete removes an artwork and closes it if it was the current one.
func (g *Gallery) Delete(ctx context.Context, id uuid.UUID) error {
	log := logrus.WithField("artwork_id", id)

	defer g.deliver()
	g.mu.Lock()
	defer g.mu.Unlock()

	i, ok := g.indexOf(id)
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrArtworkNotFound, id)
	}
	if err := g.store.Delete(ctx, id); err != nil && !errors.Is(err, core.ErrArtworkNotFound) {
		return fmt.Errorf("delete artwork %s: %w", id, err)
	}
	g.artworks = append(g.artworks[:i], g.artworks[i+1:]...)
	closed := g.current == id
	if closed {
		g.current = uuid.Nil
	}

	g.enqueue(newEvent(EventArtworkDeleted, id, nil))
	if closed {
		g.enqueue(newEvent(EventCurrentChanged, uuid.Nil, nil))
	}

	log.WithField("was_current", closed).Info("Artwork deleted")
	return nil
}

// List returns copies of every artwork in collection order.
func (g *Gallery) List() []*core.Artwork {
	g.mu.RLock()
	defer g.mu.RUnlock()

	artworks := make([]*core.Artwork, 0, len(g.artworks))
	for _, a := range g.artworks {
		artworks = append(artworks, a.Clone())
	}
	return artworks
}

func (g *Gallery) Get(id uuid.UUID) (*core.Artwork, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	i, ok := g.indexOf(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrArtworkNotFound, id)
	}
	return g.artworks[i].Clone(), nil
}

// Current returns the open artwork, or core.ErrNoCurrentArtwork.
func (g *Gallery) Current() (*core.Artwork, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.current == uuid.Nil {
		return nil, core.ErrNoCurrentArtwork
	}
	i, ok := g.indexOf(g.current)
	if !ok {
		return nil, core.ErrNoCurrentArtwork
	}
	return g.artworks[i].Clone(), nil
}

// Open makes an existing artwork the current one.
func (g *Gallery) Open(id uuid.UUID) (*core.Artwork, error) {
	defer g.deliver()
	g.mu.Lock()
	defer g.mu.Unlock()

	i, ok := g.indexOf(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrArtworkNotFound, id)
	}
	if g.current != id {
		g.current = id
		g.enqueue(newEvent(EventCurrentChanged, id, g.artworks[i].Clone()))
	}
	return g.artworks[i].Clone(), nil
}

// CloseCurrent clears the current artwork.
func (g *Gallery) CloseCurrent() {
	defer g.deliver()
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current != uuid.Nil {
		g.current = uuid.Nil
		g.enqueue(newEvent(EventCurrentChanged, uuid.Nil, nil))
	}
}

// Import upserts artworks by id. An artwork that already exists keeps its
// creation time and canvas size and is touched like any other edit. New
// artworks keep their timestamps and are appended in the given order.
func (g *Gallery) Import(ctx context.Context, artworks []*core.Artwork) (int, error) {
	for _, a := range artworks {
		if a.ID == uuid.Nil {
			return 0, fmt.Errorf("%w: missing id", ErrInvalidArtwork)
		}
		if err := checkShapes(a.Shapes); err != nil {
			return 0, fmt.Errorf("import artwork %s: %w", a.ID, err)
		}
	}

	defer g.deliver()
	g.mu.Lock()
	defer g.mu.Unlock()

	for n, a := range artworks {
		next := a.Clone()
		next.Normalize()

		i, exists := g.indexOf(next.ID)
		if exists {
			stored := g.artworks[i]
			next.CreatedAt = stored.CreatedAt
			next.CanvasSize = stored.CanvasSize
			next.UpdatedAt = stored.UpdatedAt
			next.Touch()
		} else {
			if next.CreatedAt.IsZero() {
				next.CreatedAt = time.Now()
			}
			if next.UpdatedAt.Before(next.CreatedAt) {
				next.UpdatedAt = next.CreatedAt
			}
		}

		if err := g.store.Save(ctx, next); err != nil {
			return n, fmt.Errorf("save artwork %s: %w", next.ID, err)
		}

		kind := EventArtworkCreated
		if exists {
			g.artworks[i] = next
			kind = EventArtworkUpdated
		} else {
			g.artworks = append(g.artworks, next)
		}
		g.enqueue(newEvent(kind, next.ID, next.Clone()))
	}

	logrus.WithField("count", len(artworks)).Info("Artworks imported")
	return len(artworks), nil
}

// mutate applies fn to a copy of the artwork, persists the copy and commits
// it. announce builds the event for the committed record. The returned
// artwork is a fresh snapshot.
func (g *Gallery) mutate(ctx context.Context, id uuid.UUID, fn func(*core.Artwork) error, announce func(*core.Artwork) Event) (*core.Artwork, error) {
	defer g.deliver()
	g.mu.Lock()
	defer g.mu.Unlock()

	i, ok := g.indexOf(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrArtworkNotFound, id)
	}
	next := g.artworks[i].Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	if err := g.store.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("save artwork %s: %w", id, err)
	}
	g.artworks[i] = next
	g.enqueue(announce(next.Clone()))
	return next.Clone(), nil
}

func artworkUpdated(a *core.Artwork) Event {
	return newEvent(EventArtworkUpdated, a.ID, a)
}

func (g *Gallery) indexOf(id uuid.UUID) (int, bool) {
	for i, a := range g.artworks {
		if a.ID == id {
			return i, true
		}
	}
	return -1, false
}

func checkShapes(shapes []core.Shape) error {
	seen := make(map[uuid.UUID]struct{}, len(shapes))
	for _, s := range shapes {
		if s.ID == uuid.Nil {
			return fmt.Errorf("%w: shape without id", ErrInvalidArtwork)
		}
		if !s.Type.Valid() {
			return fmt.Errorf("%w: %q", core.ErrInvalidShapeType, s.Type)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("%w: %s", core.ErrDuplicateShapeID, s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}
