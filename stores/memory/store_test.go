package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"nurinuri/core"
)

func TestNewStore(t *testing.T) {
	store := NewStore()
	if store == nil {
		t.Fatal("NewStore() returned nil")
	}

	artworks, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(artworks) != 0 {
		t.Errorf("expected empty store, got %d artworks", len(artworks))
	}
}

func TestSaveAndGet_Success(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	a := core.NewArtwork("Meadow", core.CanvasSquare)
	_ = a.AddShape(core.NewShape(core.ShapeFlower5))

	if err := store.Save(ctx, a); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got, err := store.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Name != "Meadow" || len(got.Shapes) != 1 {
		t.Errorf("Get() returned %+v", got)
	}
	if !got.UpdatedAt.Equal(a.UpdatedAt) {
		t.Error("Save() should keep the given timestamps")
	}
}

func TestSave_CopiesInput(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	a := core.NewArtwork("Before", core.CanvasSquare)
	_ = store.Save(ctx, a)
	a.Name = "After"

	got, _ := store.Get(ctx, a.ID)
	if got.Name != "Before" {
		t.Errorf("store shares state with caller: got %q", got.Name)
	}
}

func TestSave_EmptyID(t *testing.T) {
	store := NewStore()
	if err := store.Save(context.Background(), &core.Artwork{}); err == nil {
		t.Error("Save() should reject an artwork without an ID")
	}
}

func TestGet_NotFound(t *testing.T) {
	store := NewStore()
	_, err := store.Get(context.Background(), uuid.New())
	if !errors.Is(err, core.ErrArtworkNotFound) {
		t.Errorf("expected ErrArtworkNotFound, got %v", err)
	}
}

func TestList_KeepsSaveOrder(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	first := core.NewArtwork("First", core.CanvasSquare)
	second := core.NewArtwork("Second", core.CanvasSquare)
	_ = store.Save(ctx, first)
	_ = store.Save(ctx, second)
	first.Name = "First again"
	_ = store.Save(ctx, first)

	artworks, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(artworks) != 2 {
		t.Fatalf("expected 2 artworks, got %d", len(artworks))
	}
	if artworks[0].ID != first.ID || artworks[1].ID != second.ID {
		t.Error("List() did not keep first-save order")
	}
	if artworks[0].Name != "First again" {
		t.Errorf("re-save did not replace: got %q", artworks[0].Name)
	}
}

func TestDelete(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	a := core.NewArtwork("Gone", core.CanvasSquare)
	_ = store.Save(ctx, a)

	if err := store.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := store.Get(ctx, a.ID); !errors.Is(err, core.ErrArtworkNotFound) {
		t.Errorf("expected deleted artwork to be gone, got %v", err)
	}
	if err := store.Delete(ctx, a.ID); !errors.Is(err, core.ErrArtworkNotFound) {
		t.Errorf("second Delete() should report not found, got %v", err)
	}
}

func TestConcurrentSaves(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Save(ctx, core.NewArtwork("Concurrent", core.CanvasSquare))
		}()
	}
	wg.Wait()

	artworks, _ := store.List(ctx)
	if len(artworks) != 50 {
		t.Errorf("expected 50 artworks, got %d", len(artworks))
	}
}
