package artworks

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"nurinuri/gallery"
)

type OpenArtworkRequest struct {
	ID uuid.UUID `json:"id"`
}

func HandleGetCurrent(g *gallery.Gallery) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		artwork, err := g.Current()
		if err != nil {
			renderGalleryError(w, r, err, nil)
			return
		}
		render.JSON(w, r, artwork)
	}
}

func HandleOpenCurrent(g *gallery.Gallery) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OpenArtworkRequest
		if err := decodeJSON(w, r, &req); err != nil || req.ID == uuid.Nil {
			renderError(w, r, http.StatusBadRequest, "Artwork id is required")
			return
		}

		artwork, err := g.Open(req.ID)
		if err != nil {
			renderGalleryError(w, r, err, logrus.Fields{"artwork_id": req.ID})
			return
		}
		render.JSON(w, r, artwork)
	}
}

func HandleCloseCurrent(g *gallery.Gallery) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g.CloseCurrent()
		render.NoContent(w, r)
	}
}
