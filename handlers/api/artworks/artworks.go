package artworks

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"nurinuri/core"
	"nurinuri/gallery"
)

// CreateArtworkRequest picks the canvas either by preset key or by explicit
// size. Without either the default landscape canvas is used.
type CreateArtworkRequest struct {
	Name   string     `json:"name"`
	Preset string     `json:"preset,omitempty"`
	Canvas *core.Size `json:"canvas,omitempty"`
}

func (req CreateArtworkRequest) canvasSize() (core.Size, string) {
	if req.Preset != "" {
		preset, ok := core.CanvasPresetNamed(req.Preset)
		if !ok {
			return core.Size{}, "Unknown canvas preset"
		}
		return preset.Size, ""
	}
	if req.Canvas != nil {
		if req.Canvas.Width <= 0 || req.Canvas.Height <= 0 {
			return core.Size{}, "Canvas dimensions must be positive"
		}
		return *req.Canvas, ""
	}
	return core.DefaultCanvasSize, ""
}

func HandleListArtworks(g *gallery.Gallery) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, g.List())
	}
}

func HandleCreateArtwork(g *gallery.Gallery) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateArtworkRequest
		if err := decodeJSON(w, r, &req); err != nil {
			renderError(w, r, http.StatusBadRequest, "Invalid request body")
			return
		}

		canvas, problem := req.canvasSize()
		if problem != "" {
			renderError(w, r, http.StatusBadRequest, problem)
			return
		}

		artwork, err := g.Create(r.Context(), sanitizeName(req.Name), canvas)
		if err != nil {
			renderGalleryError(w, r, err, logrus.Fields{"name": req.Name})
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, artwork)
	}
}

func HandleGetArtwork(g *gallery.Gallery) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := uuidParam(r, "id")
		if !ok {
			renderError(w, r, http.StatusBadRequest, "Invalid artwork id")
			return
		}

		artwork, err := g.Get(id)
		if err != nil {
			renderGalleryError(w, r, err, logrus.Fields{"artwork_id": id})
			return
		}
		render.JSON(w, r, artwork)
	}
}

// HandleReplaceArtwork stores a full artwork document under the URL id.
func HandleReplaceArtwork(g *gallery.Gallery) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := uuidParam(r, "id")
		if !ok {
			renderError(w, r, http.StatusBadRequest, "Invalid artwork id")
			return
		}

		var artwork core.Artwork
		if err := decodeJSON(w, r, &artwork); err != nil {
			renderError(w, r, http.StatusBadRequest, "Invalid artwork document")
			return
		}
		artwork.ID = id
		artwork.Name = sanitizeName(artwork.Name)

		updated, err := g.Update(r.Context(), &artwork)
		if err != nil {
			renderGalleryError(w, r, err, logrus.Fields{"artwork_id": id})
			return
		}
		render.JSON(w, r, updated)
	}
}

func HandlePatchArtwork(g *gallery.Gallery) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := uuidParam(r, "id")
		if !ok {
			renderError(w, r, http.StatusBadRequest, "Invalid artwork id")
			return
		}

		var patch gallery.ArtworkPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			renderError(w, r, http.StatusBadRequest, "Invalid request body")
			return
		}
		if patch.Name != nil {
			name := sanitizeName(*patch.Name)
			patch.Name = &name
		}

		updated, err := g.Patch(r.Context(), id, patch)
		if err != nil {
			renderGalleryError(w, r, err, logrus.Fields{"artwork_id": id})
			return
		}
		render.JSON(w, r, updated)
	}
}

func HandleDeleteArtwork(g *gallery.Gallery) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := uuidParam(r, "id")
		if !ok {
			renderError(w, r, http.StatusBadRequest, "Invalid artwork id")
			return
		}

		if err := g.Delete(r.Context(), id); err != nil {
			renderGalleryError(w, r, err, logrus.Fields{"artwork_id": id})
			return
		}
		render.NoContent(w, r)
	}
}
