package core

import "errors"

var (
	ErrArtworkNotFound  = errors.New("artwork not found")
	ErrShapeNotFound    = errors.New("shape not found")
	ErrDuplicateShapeID = errors.New("shape id already exists in artwork")
	ErrInvalidShapeType = errors.New("invalid shape type")
	ErrNoCurrentArtwork = errors.New("no artwork is open")
)
