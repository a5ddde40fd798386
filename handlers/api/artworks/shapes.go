package artworks

import (
	"context"
	"net/http"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"nurinuri/core"
	"nurinuri/gallery"
)

type MoveShapeRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type ScaleShapeRequest struct {
	Factor float64 `json:"factor"`
}

// defaultShapeBody is what a shape request decodes onto, so omitted fields
// keep the usual defaults.
func defaultShapeBody() core.Shape {
	s := core.NewShape("")
	s.ID = uuid.Nil
	return s
}

func HandleAddShape(g *gallery.Gallery) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		artworkID, ok := uuidParam(r, "id")
		if !ok {
			renderError(w, r, http.StatusBadRequest, "Invalid artwork id")
			return
		}

		shape := defaultShapeBody()
		if err := decodeJSON(w, r, &shape); err != nil {
			renderError(w, r, http.StatusBadRequest, "Invalid shape: "+err.Error())
			return
		}

		added, err := g.AddShape(r.Context(), artworkID, shape)
		if err != nil {
			renderGalleryError(w, r, err, logrus.Fields{"artwork_id": artworkID})
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, added)
	}
}

func HandleUpdateShape(g *gallery.Gallery) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		artworkID, shapeID, ok := shapeParams(w, r)
		if !ok {
			return
		}

		shape := defaultShapeBody()
		if err := decodeJSON(w, r, &shape); err != nil {
			renderError(w, r, http.StatusBadRequest, "Invalid shape: "+err.Error())
			return
		}
		shape.ID = shapeID

		updated, err := g.UpdateShape(r.Context(), artworkID, shape)
		if err != nil {
			renderGalleryError(w, r, err, logrus.Fields{"artwork_id": artworkID, "shape_id": shapeID})
			return
		}
		render.JSON(w, r, updated)
	}
}

func HandleRemoveShape(g *gallery.Gallery) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		artworkID, shapeID, ok := shapeParams(w, r)
		if !ok {
			return
		}

		if err := g.RemoveShape(r.Context(), artworkID, shapeID); err != nil {
			renderGalleryError(w, r, err, logrus.Fields{"artwork_id": artworkID, "shape_id": shapeID})
			return
		}
		render.NoContent(w, r)
	}
}

func HandleMoveShape(g *gallery.Gallery) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MoveShapeRequest
		handleShapeEdit(w, r, &req, func(ctx context.Context, artworkID, shapeID uuid.UUID) (core.Shape, error) {
			return g.MoveShape(ctx, artworkID, shapeID, req.DX, req.DY)
		})
	}
}

func HandleScaleShape(g *gallery.Gallery) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ScaleShapeRequest
		handleShapeEdit(w, r, &req, func(ctx context.Context, artworkID, shapeID uuid.UUID) (core.Shape, error) {
			return g.ScaleShape(ctx, artworkID, shapeID, req.Factor)
		})
	}
}

func HandleBringShapeToFront(g *gallery.Gallery) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handleShapeEdit(w, r, nil, g.BringShapeToFront)
	}
}

func HandleSendShapeToBack(g *gallery.Gallery) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handleShapeEdit(w, r, nil, g.SendShapeToBack)
	}
}

type shapeEdit func(ctx context.Context, artworkID, shapeID uuid.UUID) (core.Shape, error)

// handleShapeEdit decodes an optional body into req and applies edit.
func handleShapeEdit(w http.ResponseWriter, r *http.Request, req any, edit shapeEdit) {
	artworkID, shapeID, ok := shapeParams(w, r)
	if !ok {
		return
	}
	if req != nil {
		if err := decodeJSON(w, r, req); err != nil {
			renderError(w, r, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	shape, err := edit(r.Context(), artworkID, shapeID)
	if err != nil {
		renderGalleryError(w, r, err, logrus.Fields{"artwork_id": artworkID, "shape_id": shapeID})
		return
	}
	render.JSON(w, r, shape)
}

func shapeParams(w http.ResponseWriter, r *http.Request) (artworkID, shapeID uuid.UUID, ok bool) {
	if artworkID, ok = uuidParam(r, "id"); !ok {
		renderError(w, r, http.StatusBadRequest, "Invalid artwork id")
		return
	}
	if shapeID, ok = uuidParam(r, "shapeId"); !ok {
		renderError(w, r, http.StatusBadRequest, "Invalid shape id")
		return
	}
	return artworkID, shapeID, true
}
