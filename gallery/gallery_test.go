package gallery

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"nurinuri/core"
	"nurinuri/stores/memory"
)

// failingStore wraps the memory store and fails saves on demand.
type failingStore struct {
	core.ArtworkStore
	saveErr error
}

func (f *failingStore) Save(ctx context.Context, a *core.Artwork) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.ArtworkStore.Save(ctx, a)
}

// flakyStore fails the save numbered failAt, counting from one.
type flakyStore struct {
	core.ArtworkStore
	saves  int
	failAt int
}

func (f *flakyStore) Save(ctx context.Context, a *core.Artwork) error {
	f.saves++
	if f.saves == f.failAt {
		return errors.New("disk full")
	}
	return f.ArtworkStore.Save(ctx, a)
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) record(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]EventKind, 0, len(r.events))
	for _, e := range r.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func newTestGallery(t *testing.T) *Gallery {
	t.Helper()
	return New(memory.NewStore())
}

func TestCreate_Defaults(t *testing.T) {
	g := newTestGallery(t)
	ctx := context.Background()

	a, err := g.Create(ctx, "Landscape", core.Size{Width: 800, Height: 600})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if len(a.Shapes) != 0 || a.IsFavorite {
		t.Errorf("unexpected new artwork: %+v", a)
	}
	if a.BackgroundColor != core.ColorWhite || a.FrameColor != core.ColorBlack {
		t.Error("new artwork should use default colors")
	}

	current, err := g.Current()
	if err != nil {
		t.Fatalf("Current() failed: %v", err)
	}
	if current.ID != a.ID {
		t.Error("Create() should make the new artwork current")
	}
	if len(g.List()) != 1 {
		t.Errorf("expected 1 artwork, got %d", len(g.List()))
	}
}

func TestCreate_Persists(t *testing.T) {
	store := memory.NewStore()
	g := New(store)
	ctx := context.Background()

	a, _ := g.Create(ctx, "Persisted", core.CanvasSquare)
	if _, err := store.Get(ctx, a.ID); err != nil {
		t.Errorf("artwork not persisted: %v", err)
	}
}

func TestSampleScenario(t *testing.T) {
	g := newTestGallery(t)
	ctx := context.Background()

	a, _ := g.Create(ctx, "Sample", core.Size{Width: 600, Height: 600})

	circle := core.NewShape(core.ShapeCircle)
	circle.Position = core.Point{X: 300, Y: 300}
	circle.Color = core.ColorRed
	star := core.NewShape(core.ShapeStar5)
	star.Position = core.Point{X: 100, Y: 100}
	star.Color = core.ColorYellow

	if _, err := g.AddShape(ctx, a.ID, circle); err != nil {
		t.Fatalf("AddShape(circle) failed: %v", err)
	}
	if _, err := g.AddShape(ctx, a.ID, star); err != nil {
		t.Fatalf("AddShape(star) failed: %v", err)
	}

	got, _ := g.Get(a.ID)
	if len(got.Shapes) != 2 {
		t.Fatalf("expected 2 shapes, got %d", len(got.Shapes))
	}
	if got.Shapes[0].Type != core.ShapeCircle || got.Shapes[1].Type != core.ShapeStar5 {
		t.Errorf("order mismatch: [%s, %s]", got.Shapes[0].Type, got.Shapes[1].Type)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Error("UpdatedAt should be strictly after CreatedAt")
	}
}

func TestAddShape_AssignsIDAndRejectsDuplicates(t *testing.T) {
	g := newTestGallery(t)
	ctx := context.Background()
	a, _ := g.Create(ctx, "Ids", core.CanvasSquare)

	added, err := g.AddShape(ctx, a.ID, core.Shape{Type: core.ShapeCloud, Opacity: 1})
	if err != nil {
		t.Fatalf("AddShape() failed: %v", err)
	}
	if added.ID == uuid.Nil {
		t.Error("AddShape() should assign an id")
	}

	_, err = g.AddShape(ctx, a.ID, added)
	if !errors.Is(err, core.ErrDuplicateShapeID) {
		t.Errorf("expected ErrDuplicateShapeID, got %v", err)
	}

	_, err = g.AddShape(ctx, a.ID, core.Shape{Type: "blob"})
	if !errors.Is(err, core.ErrInvalidShapeType) {
		t.Errorf("expected ErrInvalidShapeType, got %v", err)
	}

	_, err = g.AddShape(ctx, uuid.New(), core.NewShape(core.ShapeCircle))
	if !errors.Is(err, core.ErrArtworkNotFound) {
		t.Errorf("expected ErrArtworkNotFound, got %v", err)
	}
}

func TestRemoveShape_UnknownLeavesArtworkUnchanged(t *testing.T) {
	g := newTestGallery(t)
	ctx := context.Background()
	a, _ := g.Create(ctx, "Keep", core.CanvasSquare)
	_, _ = g.AddShape(ctx, a.ID, core.NewShape(core.ShapeHeart))
	before, _ := g.Get(a.ID)

	err := g.RemoveShape(ctx, a.ID, uuid.New())
	if !errors.Is(err, core.ErrShapeNotFound) {
		t.Fatalf("expected ErrShapeNotFound, got %v", err)
	}

	after, _ := g.Get(a.ID)
	if len(after.Shapes) != len(before.Shapes) {
		t.Error("shape list changed")
	}
	if !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Error("UpdatedAt changed")
	}
}

func TestShapeEdits(t *testing.T) {
	g := newTestGallery(t)
	ctx := context.Background()
	a, _ := g.Create(ctx, "Edits", core.CanvasSquare)
	first, _ := g.AddShape(ctx, a.ID, core.NewShape(core.ShapeCircle))
	second, _ := g.AddShape(ctx, a.ID, core.NewShape(core.ShapeSquare))

	moved, err := g.MoveShape(ctx, a.ID, first.ID, 10, 20)
	if err != nil {
		t.Fatalf("MoveShape() failed: %v", err)
	}
	if moved.Position != (core.Point{X: 10, Y: 20}) {
		t.Errorf("MoveShape() position: got %+v", moved.Position)
	}

	scaled, err := g.ScaleShape(ctx, a.ID, first.ID, 0.1)
	if err != nil {
		t.Fatalf("ScaleShape() failed: %v", err)
	}
	if scaled.Size != (core.Size{Width: core.MinShapeDimension, Height: core.MinShapeDimension}) {
		t.Errorf("ScaleShape() size: got %+v", scaled.Size)
	}
	if _, err := g.ScaleShape(ctx, a.ID, first.ID, 0); !errors.Is(err, ErrInvalidScaleFactor) {
		t.Errorf("expected ErrInvalidScaleFactor, got %v", err)
	}

	front, err := g.BringShapeToFront(ctx, a.ID, first.ID)
	if err != nil {
		t.Fatalf("BringShapeToFront() failed: %v", err)
	}
	if front.ZIndex != 1 {
		t.Errorf("front ZIndex: got %d, want 1", front.ZIndex)
	}

	back, err := g.SendShapeToBack(ctx, a.ID, first.ID)
	if err != nil {
		t.Fatalf("SendShapeToBack() failed: %v", err)
	}
	if back.ZIndex != 0 {
		t.Errorf("back ZIndex: got %d, want 0", back.ZIndex)
	}

	second.Rotation = 90
	updated, err := g.UpdateShape(ctx, a.ID, second)
	if err != nil {
		t.Fatalf("UpdateShape() failed: %v", err)
	}
	if updated.Rotation != 90 || updated.ZIndex != 1 {
		t.Errorf("UpdateShape() result: %+v", updated)
	}

	if _, err := g.MoveShape(ctx, a.ID, uuid.New(), 1, 1); !errors.Is(err, core.ErrShapeNotFound) {
		t.Errorf("expected ErrShapeNotFound, got %v", err)
	}

	if err := g.RemoveShape(ctx, a.ID, second.ID); err != nil {
		t.Fatalf("RemoveShape() failed: %v", err)
	}
	got, _ := g.Get(a.ID)
	if len(got.Shapes) != 1 || got.Shapes[0].ID != first.ID {
		t.Errorf("unexpected shapes after remove: %+v", got.Shapes)
	}
}

func TestUpdate_KeepsImmutableFields(t *testing.T) {
	g := newTestGallery(t)
	ctx := context.Background()
	a, _ := g.Create(ctx, "Original", core.CanvasSquare)

	edited := a.Clone()
	edited.Name = "Renamed"
	edited.CanvasSize = core.CanvasWide169
	edited.CreatedAt = edited.CreatedAt.Add(-1000)
	edited.IsFavorite = true

	updated, err := g.Update(ctx, edited)
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if updated.Name != "Renamed" || !updated.IsFavorite {
		t.Errorf("Update() did not apply edits: %+v", updated)
	}
	if updated.CanvasSize != core.CanvasSquare {
		t.Error("Update() changed the canvas size")
	}
	if !updated.CreatedAt.Equal(a.CreatedAt) {
		t.Error("Update() changed CreatedAt")
	}
	if !updated.UpdatedAt.After(a.UpdatedAt) {
		t.Error("Update() did not advance UpdatedAt")
	}

	current, _ := g.Current()
	if current.Name != "Renamed" {
		t.Error("current artwork snapshot not refreshed")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	g := newTestGallery(t)
	_, err := g.Update(context.Background(), core.NewArtwork("Ghost", core.CanvasSquare))
	if !errors.Is(err, core.ErrArtworkNotFound) {
		t.Errorf("expected ErrArtworkNotFound, got %v", err)
	}
	if len(g.List()) != 0 {
		t.Error("Update() of an unknown artwork should not add it")
	}
}

func TestUpdate_RejectsDuplicateShapes(t *testing.T) {
	g := newTestGallery(t)
	ctx := context.Background()
	a, _ := g.Create(ctx, "Dup", core.CanvasSquare)

	s := core.NewShape(core.ShapeCircle)
	edited := a.Clone()
	edited.Shapes = []core.Shape{s, s}

	if _, err := g.Update(ctx, edited); !errors.Is(err, core.ErrDuplicateShapeID) {
		t.Errorf("expected ErrDuplicateShapeID, got %v", err)
	}
}

func TestPatch(t *testing.T) {
	g := newTestGallery(t)
	ctx := context.Background()
	a, _ := g.Create(ctx, "Patch", core.CanvasSquare)

	if _, err := g.Rename(ctx, a.ID, "Renamed"); err != nil {
		t.Fatalf("Rename() failed: %v", err)
	}
	if _, err := g.SetFavorite(ctx, a.ID, true); err != nil {
		t.Fatalf("SetFavorite() failed: %v", err)
	}
	got, err := g.SetColors(ctx, a.ID, core.ColorPink, core.ColorBlue)
	if err != nil {
		t.Fatalf("SetColors() failed: %v", err)
	}

	if got.Name != "Renamed" || !got.IsFavorite {
		t.Errorf("patch fields not applied: %+v", got)
	}
	if got.BackgroundColor != core.ColorPink || got.FrameColor != core.ColorBlue {
		t.Errorf("colors not applied: %+v / %+v", got.BackgroundColor, got.FrameColor)
	}

	unchanged, err := g.Patch(ctx, a.ID, ArtworkPatch{})
	if err != nil {
		t.Fatalf("empty Patch() failed: %v", err)
	}
	if !unchanged.UpdatedAt.Equal(got.UpdatedAt) {
		t.Error("empty patch should not touch the artwork")
	}

	if _, err := g.Rename(ctx, uuid.New(), "x"); !errors.Is(err, core.ErrArtworkNotFound) {
		t.Errorf("expected ErrArtworkNotFound, got %v", err)
	}
}

func TestDelete_ClearsCurrent(t *testing.T) {
	g := newTestGallery(t)
	ctx := context.Background()
	other, _ := g.Create(ctx, "Other", core.CanvasSquare)
	current, _ := g.Create(ctx, "Current", core.CanvasSquare)

	if err := g.Delete(ctx, other.ID); err != nil {
		t.Fatalf("Delete(other) failed: %v", err)
	}
	if c, err := g.Current(); err != nil || c.ID != current.ID {
		t.Error("deleting another artwork should keep current")
	}

	if err := g.Delete(ctx, current.ID); err != nil {
		t.Fatalf("Delete(current) failed: %v", err)
	}
	if _, err := g.Current(); !errors.Is(err, core.ErrNoCurrentArtwork) {
		t.Errorf("expected ErrNoCurrentArtwork, got %v", err)
	}
	if len(g.List()) != 0 {
		t.Errorf("expected empty gallery, got %d", len(g.List()))
	}

	if err := g.Delete(ctx, current.ID); !errors.Is(err, core.ErrArtworkNotFound) {
		t.Errorf("expected ErrArtworkNotFound, got %v", err)
	}
}

func TestOpenAndClose(t *testing.T) {
	g := newTestGallery(t)
	ctx := context.Background()
	first, _ := g.Create(ctx, "First", core.CanvasSquare)
	_, _ = g.Create(ctx, "Second", core.CanvasSquare)

	opened, err := g.Open(first.ID)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if opened.ID != first.ID {
		t.Error("Open() returned the wrong artwork")
	}
	if c, _ := g.Current(); c.ID != first.ID {
		t.Error("Open() did not change current")
	}

	g.CloseCurrent()
	if _, err := g.Current(); !errors.Is(err, core.ErrNoCurrentArtwork) {
		t.Errorf("expected ErrNoCurrentArtwork, got %v", err)
	}

	if _, err := g.Open(uuid.New()); !errors.Is(err, core.ErrArtworkNotFound) {
		t.Errorf("expected ErrArtworkNotFound, got %v", err)
	}
}

func TestList_ReturnsCopies(t *testing.T) {
	g := newTestGallery(t)
	a, _ := g.Create(context.Background(), "Copy", core.CanvasSquare)

	list := g.List()
	list[0].Name = "Mutated"

	got, _ := g.Get(a.ID)
	if got.Name != "Copy" {
		t.Error("List() leaked internal state")
	}
}

func TestFailingStore_LeavesStateUnchanged(t *testing.T) {
	store := &failingStore{ArtworkStore: memory.NewStore()}
	g := New(store)
	ctx := context.Background()
	a, _ := g.Create(ctx, "Stable", core.CanvasSquare)

	store.saveErr = errors.New("disk full")

	if _, err := g.AddShape(ctx, a.ID, core.NewShape(core.ShapeCircle)); err == nil {
		t.Fatal("expected AddShape() to fail")
	}
	if _, err := g.Create(ctx, "Lost", core.CanvasSquare); err == nil {
		t.Fatal("expected Create() to fail")
	}

	got, _ := g.Get(a.ID)
	if len(got.Shapes) != 0 {
		t.Error("failed save left a shape behind")
	}
	if !got.UpdatedAt.Equal(a.UpdatedAt) {
		t.Error("failed save touched UpdatedAt")
	}
	if len(g.List()) != 1 {
		t.Errorf("failed create left an artwork behind: %d", len(g.List()))
	}
}

func TestLoad_OrdersByCreation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	older := core.NewArtwork("Older", core.CanvasSquare)
	newer := core.NewArtwork("Newer", core.CanvasSquare)
	newer.CreatedAt = older.CreatedAt.Add(1000)
	_ = store.Save(ctx, newer)
	_ = store.Save(ctx, older)

	g := New(store)
	if err := g.Load(ctx); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	list := g.List()
	if len(list) != 2 || list[0].ID != older.ID || list[1].ID != newer.ID {
		t.Errorf("Load() order wrong: %v", list)
	}
	if _, err := g.Current(); !errors.Is(err, core.ErrNoCurrentArtwork) {
		t.Error("Load() should not open an artwork")
	}
}

func TestSeed(t *testing.T) {
	g := newTestGallery(t)
	ctx := context.Background()

	seeded, err := g.Seed(ctx)
	if err != nil {
		t.Fatalf("Seed() failed: %v", err)
	}
	if !seeded {
		t.Fatal("Seed() should add samples to an empty gallery")
	}

	list := g.List()
	if len(list) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(list))
	}
	if list[0].CanvasSize != core.CanvasLandscape43 || len(list[0].Shapes) != 2 {
		t.Errorf("first sample mismatch: %+v", list[0])
	}
	if list[2].Shapes[0].Type != core.ShapeTriangle {
		t.Errorf("third sample shape: got %s", list[2].Shapes[0].Type)
	}

	again, err := g.Seed(ctx)
	if err != nil || again {
		t.Errorf("second Seed() = %v, %v; want false, nil", again, err)
	}
}

func TestImport_Upserts(t *testing.T) {
	g := newTestGallery(t)
	ctx := context.Background()
	existing, _ := g.Create(ctx, "Existing", core.CanvasSquare)

	replacement := existing.Clone()
	replacement.Name = "Replaced"
	fresh := core.NewArtwork("Fresh", core.CanvasPortrait34)

	n, err := g.Import(ctx, []*core.Artwork{replacement, fresh})
	if err != nil {
		t.Fatalf("Import() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Import() count: got %d, want 2", n)
	}

	list := g.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 artworks, got %d", len(list))
	}
	if list[0].Name != "Replaced" || list[1].ID != fresh.ID {
		t.Errorf("unexpected collection after import: %q, %s", list[0].Name, list[1].ID)
	}

	if _, err := g.Import(ctx, []*core.Artwork{{Name: "no id"}}); !errors.Is(err, ErrInvalidArtwork) {
		t.Error("Import() should reject artworks without an id")
	}
}

func TestSubscribe(t *testing.T) {
	g := newTestGallery(t)
	ctx := context.Background()
	rec := &recorder{}
	cancel := g.Subscribe(rec.record)

	a, _ := g.Create(ctx, "Events", core.CanvasSquare)
	s, _ := g.AddShape(ctx, a.ID, core.NewShape(core.ShapeCircle))
	_, _ = g.MoveShape(ctx, a.ID, s.ID, 1, 1)
	_ = g.RemoveShape(ctx, a.ID, s.ID)
	_, _ = g.Rename(ctx, a.ID, "Renamed")
	_ = g.Delete(ctx, a.ID)

	want := []EventKind{
		EventArtworkCreated, EventCurrentChanged,
		EventShapeAdded, EventShapeUpdated, EventShapeRemoved,
		EventArtworkUpdated,
		EventArtworkDeleted, EventCurrentChanged,
	}
	got := rec.kinds()
	if len(got) != len(want) {
		t.Fatalf("event count: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: got %s, want %s", i, got[i], want[i])
		}
	}

	rec.mu.Lock()
	added := rec.events[2]
	rec.mu.Unlock()
	if added.ShapeID == nil || *added.ShapeID != s.ID {
		t.Error("shape event should carry the shape id")
	}
	if added.Artwork == nil || len(added.Artwork.Shapes) != 1 {
		t.Error("shape event should carry the artwork snapshot")
	}
	if added.ID == "" {
		t.Error("event id should be set")
	}

	cancel()
	_, _ = g.Create(ctx, "Quiet", core.CanvasSquare)
	if len(rec.kinds()) != len(want) {
		t.Error("cancelled subscriber still receives events")
	}
}

func TestFailedMutation_PublishesNothing(t *testing.T) {
	g := newTestGallery(t)
	ctx := context.Background()
	a, _ := g.Create(ctx, "Quiet", core.CanvasSquare)

	rec := &recorder{}
	g.Subscribe(rec.record)

	_ = g.RemoveShape(ctx, a.ID, uuid.New())
	_, _ = g.Update(ctx, core.NewArtwork("Ghost", core.CanvasSquare))

	if len(rec.kinds()) != 0 {
		t.Errorf("failed mutations published events: %v", rec.kinds())
	}
}

func TestConcurrentEdits(t *testing.T) {
	g := newTestGallery(t)
	ctx := context.Background()
	a, _ := g.Create(ctx, "Busy", core.CanvasSquare)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = g.AddShape(ctx, a.ID, core.NewShape(core.ShapeStar6))
			_ = g.List()
		}()
	}
	wg.Wait()

	got, _ := g.Get(a.ID)
	if len(got.Shapes) != 40 {
		t.Errorf("expected 40 shapes, got %d", len(got.Shapes))
	}
	for i, s := range got.Shapes {
		if s.ZIndex != i {
			t.Fatalf("shape %d has ZIndex %d", i, s.ZIndex)
		}
	}
}

func TestSeed_FailedSaveAddsNothing(t *testing.T) {
	mem := memory.NewStore()
	g := New(&flakyStore{ArtworkStore: mem, failAt: 2})
	ctx := context.Background()
	rec := &recorder{}
	g.Subscribe(rec.record)

	seeded, err := g.Seed(ctx)
	if err == nil || seeded {
		t.Fatalf("Seed() = %v, %v; want false and an error", seeded, err)
	}
	if len(g.List()) != 0 {
		t.Errorf("failed seed left %d artworks in the gallery", len(g.List()))
	}
	stored, _ := mem.List(ctx)
	if len(stored) != 0 {
		t.Errorf("failed seed left %d artworks in the store", len(stored))
	}
	if len(rec.kinds()) != 0 {
		t.Errorf("failed seed published events: %v", rec.kinds())
	}

	seeded, err = g.Seed(ctx)
	if err != nil || !seeded {
		t.Fatalf("retried Seed() = %v, %v; want true, nil", seeded, err)
	}
	if len(rec.kinds()) != 3 {
		t.Errorf("expected 3 created events, got %v", rec.kinds())
	}
}

func TestCreate_EventSnapshotIsNotShared(t *testing.T) {
	g := newTestGallery(t)
	rec := &recorder{}
	g.Subscribe(rec.record)

	a, _ := g.Create(context.Background(), "Mine", core.CanvasSquare)
	a.Name = "Changed by caller"
	a.Shapes = append(a.Shapes, core.NewShape(core.ShapeCircle))

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, e := range rec.events {
		if e.Artwork == nil || e.Artwork.Name != "Mine" || len(e.Artwork.Shapes) != 0 {
			t.Errorf("%s event shares state with the returned artwork: %+v", e.Kind, e.Artwork)
		}
	}
	if rec.events[0].Artwork == rec.events[1].Artwork {
		t.Error("created and current.changed events share one snapshot")
	}
}

func TestImport_ExistingKeepsCreationFields(t *testing.T) {
	g := newTestGallery(t)
	ctx := context.Background()
	existing, _ := g.Create(ctx, "Square", core.CanvasSquare)

	incoming := existing.Clone()
	incoming.Name = "Imported"
	incoming.CanvasSize = core.CanvasWide169
	incoming.CreatedAt = existing.CreatedAt.Add(time.Hour)
	incoming.UpdatedAt = existing.UpdatedAt.Add(-time.Hour)

	if _, err := g.Import(ctx, []*core.Artwork{incoming}); err != nil {
		t.Fatalf("Import() failed: %v", err)
	}

	got, _ := g.Get(existing.ID)
	if got.Name != "Imported" {
		t.Errorf("Name not imported: %q", got.Name)
	}
	if got.CanvasSize != core.CanvasSquare {
		t.Errorf("CanvasSize changed: got %+v", got.CanvasSize)
	}
	if !got.CreatedAt.Equal(existing.CreatedAt) {
		t.Error("CreatedAt changed on import")
	}
	if !got.UpdatedAt.After(existing.UpdatedAt) {
		t.Error("UpdatedAt should advance past the stored value")
	}
}

func TestImport_NewArtworkKeepsUpdatedAfterCreated(t *testing.T) {
	g := newTestGallery(t)
	ctx := context.Background()

	a := core.NewArtwork("Skewed", core.CanvasSquare)
	a.UpdatedAt = a.CreatedAt.Add(-time.Hour)
	undated := core.NewArtwork("Undated", core.CanvasSquare)
	undated.CreatedAt = time.Time{}
	undated.UpdatedAt = time.Time{}

	if _, err := g.Import(ctx, []*core.Artwork{a, undated}); err != nil {
		t.Fatalf("Import() failed: %v", err)
	}

	got, _ := g.Get(a.ID)
	if !got.CreatedAt.Equal(a.CreatedAt) {
		t.Error("CreatedAt of a new artwork should be kept")
	}
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Error("UpdatedAt is before CreatedAt after import")
	}

	got, _ = g.Get(undated.ID)
	if got.CreatedAt.IsZero() || got.UpdatedAt.Before(got.CreatedAt) {
		t.Errorf("undated artwork timestamps: created %v, updated %v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestShapesWithoutID_Rejected(t *testing.T) {
	g := newTestGallery(t)
	ctx := context.Background()
	a, _ := g.Create(ctx, "Ids", core.CanvasSquare)

	anonymous := core.NewShape(core.ShapeCircle)
	anonymous.ID = uuid.Nil

	doc := a.Clone()
	doc.Shapes = []core.Shape{anonymous}
	if _, err := g.Update(ctx, doc); !errors.Is(err, ErrInvalidArtwork) {
		t.Errorf("Update() with a nil shape id: got %v, want ErrInvalidArtwork", err)
	}

	imported := core.NewArtwork("Imported", core.CanvasSquare)
	imported.Shapes = []core.Shape{anonymous}
	if _, err := g.Import(ctx, []*core.Artwork{imported}); !errors.Is(err, ErrInvalidArtwork) {
		t.Errorf("Import() with a nil shape id: got %v, want ErrInvalidArtwork", err)
	}

	got, _ := g.Get(a.ID)
	if len(got.Shapes) != 0 || len(g.List()) != 1 {
		t.Error("rejected shapes changed the gallery")
	}
}

func TestSubscribe_DeliversInCommitOrder(t *testing.T) {
	g := newTestGallery(t)
	ctx := context.Background()
	a, _ := g.Create(ctx, "Race", core.CanvasSquare)
	s, _ := g.AddShape(ctx, a.ID, core.NewShape(core.ShapeCircle))

	rec := &recorder{}
	g.Subscribe(rec.record)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = g.MoveShape(ctx, a.ID, s.ID, 1, 0)
		}()
	}
	wg.Wait()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.events) != 50 {
		t.Fatalf("expected 50 events, got %d", len(rec.events))
	}
	for i := 1; i < len(rec.events); i++ {
		prev, e := rec.events[i-1], rec.events[i]
		if e.Seq != prev.Seq+1 {
			t.Fatalf("event %d: seq %d follows %d", i, e.Seq, prev.Seq)
		}
		if !e.Artwork.UpdatedAt.After(prev.Artwork.UpdatedAt) {
			t.Fatalf("event %d carries an older snapshot than event %d", i, i-1)
		}
	}

	final, _ := g.Get(a.ID)
	last := rec.events[len(rec.events)-1].Artwork
	if !last.UpdatedAt.Equal(final.UpdatedAt) || last.Shapes[0].Position != final.Shapes[0].Position {
		t.Error("last event does not match the committed state")
	}
}

func TestSubscribe_CallbackMayMutate(t *testing.T) {
	g := newTestGallery(t)
	ctx := context.Background()
	rec := &recorder{}

	g.Subscribe(func(e Event) {
		if e.Kind == EventArtworkCreated {
			_, _ = g.SetFavorite(ctx, e.ArtworkID, true)
		}
	})
	g.Subscribe(rec.record)

	a, err := g.Create(ctx, "Auto", core.CanvasSquare)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	got, _ := g.Get(a.ID)
	if !got.IsFavorite {
		t.Error("mutation made from a subscriber was not applied")
	}
	want := []EventKind{EventArtworkCreated, EventCurrentChanged, EventArtworkUpdated}
	kinds := rec.kinds()
	if len(kinds) != len(want) {
		t.Fatalf("events: got %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d: got %s, want %s", i, kinds[i], want[i])
		}
	}
}
