package artworks

import (
	"encoding/json"
	"errors"
	"html"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"

	"nurinuri/core"
	"nurinuri/gallery"
)

const maxBodyBytes = 10 << 20

var namePolicy = bluemonday.StrictPolicy()

// sanitizeName strips markup from a user-supplied artwork name.
func sanitizeName(name string) string {
	return strings.TrimSpace(html.UnescapeString(namePolicy.Sanitize(name)))
}

func renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}

// renderGalleryError maps gallery and core errors onto HTTP statuses.
func renderGalleryError(w http.ResponseWriter, r *http.Request, err error, fields logrus.Fields) {
	switch {
	case errors.Is(err, core.ErrArtworkNotFound),
		errors.Is(err, core.ErrShapeNotFound),
		errors.Is(err, core.ErrNoCurrentArtwork):
		renderError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrDuplicateShapeID):
		renderError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, core.ErrInvalidShapeType),
		errors.Is(err, gallery.ErrInvalidScaleFactor),
		errors.Is(err, gallery.ErrInvalidArtwork):
		renderError(w, r, http.StatusBadRequest, err.Error())
	default:
		logrus.WithFields(fields).WithError(err).Error("Gallery operation failed")
		renderError(w, r, http.StatusInternalServerError, "Failed to store artwork")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(v)
}

func uuidParam(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
