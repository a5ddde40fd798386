// Package codec converts artworks to and from their persisted byte form.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"nurinuri/core"
)

// Version is the collection envelope version written by this package.
const Version = 1

var ErrUnsupportedVersion = errors.New("unsupported collection version")

// Collection is the envelope used for exports and imports.
type Collection struct {
	Version    int             `json:"version" yaml:"version"`
	ExportedAt time.Time       `json:"exportedAt" yaml:"exportedAt"`
	Artworks   []*core.Artwork `json:"artworks" yaml:"artworks"`
}

func MarshalArtwork(a *core.Artwork) ([]byte, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal artwork %s: %w", a.ID, err)
	}
	return data, nil
}

func UnmarshalArtwork(data []byte) (*core.Artwork, error) {
	var a core.Artwork
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("unmarshal artwork: %w", err)
	}
	a.Normalize()
	return &a, nil
}

// MarshalCollection writes the artworks in order inside a versioned envelope.
func MarshalCollection(artworks []*core.Artwork) ([]byte, error) {
	data, err := json.MarshalIndent(newCollection(artworks), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal collection: %w", err)
	}
	return data, nil
}

func UnmarshalCollection(data []byte) ([]*core.Artwork, error) {
	var c Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal collection: %w", err)
	}
	if c.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, c.Version)
	}
	for _, a := range c.Artworks {
		if a == nil {
			return nil, errors.New("unmarshal collection: null artwork entry")
		}
		a.Normalize()
	}
	if c.Artworks == nil {
		c.Artworks = []*core.Artwork{}
	}
	return c.Artworks, nil
}

// MarshalCollectionYAML is the human-readable export format. It is not read
// back.
func MarshalCollectionYAML(artworks []*core.Artwork) ([]byte, error) {
	data, err := yaml.Marshal(newCollection(artworks))
	if err != nil {
		return nil, fmt.Errorf("marshal collection yaml: %w", err)
	}
	return data, nil
}

func newCollection(artworks []*core.Artwork) Collection {
	if artworks == nil {
		artworks = []*core.Artwork{}
	}
	return Collection{
		Version:    Version,
		ExportedAt: time.Now().UTC(),
		Artworks:   artworks,
	}
}
