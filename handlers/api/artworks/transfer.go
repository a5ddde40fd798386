package artworks

import (
	"io"
	"net/http"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"nurinuri/codec"
	"nurinuri/gallery"
)

// HandleExport writes the whole collection as JSON (default) or YAML.
func HandleExport(g *gallery.Gallery) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		artworks := g.List()

		var (
			data        []byte
			err         error
			contentType string
			ext         string
		)
		switch format := r.URL.Query().Get("format"); format {
		case "", "json":
			data, err = codec.MarshalCollection(artworks)
			contentType, ext = "application/json", "json"
		case "yaml", "yml":
			data, err = codec.MarshalCollectionYAML(artworks)
			contentType, ext = "application/yaml", "yaml"
		default:
			renderError(w, r, http.StatusBadRequest, "Unsupported export format: "+format)
			return
		}
		if err != nil {
			logrus.WithError(err).Error("Failed to export artworks")
			renderError(w, r, http.StatusInternalServerError, "Failed to export artworks")
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", `attachment; filename="nurinuri-artworks.`+ext+`"`)
		w.Write(data)
	}
}

// HandleImport upserts every artwork of an exported collection.
func HandleImport(g *gallery.Gallery) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			renderError(w, r, http.StatusBadRequest, "Failed to read request body")
			return
		}
		defer r.Body.Close()

		artworks, err := codec.UnmarshalCollection(body)
		if err != nil {
			renderError(w, r, http.StatusBadRequest, "Invalid collection: "+err.Error())
			return
		}

		n, err := g.Import(r.Context(), artworks)
		if err != nil {
			renderGalleryError(w, r, err, logrus.Fields{"imported": n})
			return
		}

		logrus.WithField("count", n).Info("Collection imported")
		render.JSON(w, r, map[string]int{"imported": n})
	}
}
