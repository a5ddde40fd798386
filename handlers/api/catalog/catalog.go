// Package catalog serves the fixed choices offered by the editor: shape
// types, canvas presets and preset colors.
package catalog

import (
	"net/http"

	"github.com/go-chi/render"

	"nurinuri/core"
)

type ShapeTypeInfo struct {
	Type  core.ShapeType `json:"type"`
	Label string         `json:"label"`
	Icon  string         `json:"icon"`
	Free  bool           `json:"free"`
}

func HandleShapeTypes() http.HandlerFunc {
	types := core.ShapeTypes()
	infos := make([]ShapeTypeInfo, 0, len(types))
	for _, t := range types {
		infos = append(infos, ShapeTypeInfo{
			Type:  t,
			Label: t.Label(),
			Icon:  t.Icon(),
			Free:  t.IsFree(),
		})
	}

	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, infos)
	}
}

func HandleCanvasSizes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, core.CanvasPresets())
	}
}

func HandleColors() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, core.ColorPresets())
	}
}
