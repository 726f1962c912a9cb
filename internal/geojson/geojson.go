// Package geojson builds the GeoJSON document for a recorded track.
package geojson

import (
	"encoding/json"
	"io"
	"sync"
)

// Position is a GeoJSON position: [x, y] = [longitude, latitude].
type Position [2]float64

// Feature is a single GeoJSON feature.
type Feature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   Geometry       `json:"geometry"`
}

// Geometry is a MultiLineString geometry.
type Geometry struct {
	Type        string       `json:"type"`
	Coordinates [][]Position `json:"coordinates"`
}

// Track accumulates positions in arrival order. It is safe for concurrent use.
type Track struct {
	mu  sync.Mutex
	pts []Position
}

func NewTrack() *Track {
	return &Track{pts: make([]Position, 0, 1024)}
}

func (t *Track) Add(x, y float64) {
	t.mu.Lock()
	t.pts = append(t.pts, Position{x, y})
	t.mu.Unlock()
}

func (t *Track) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pts)
}

// Feature returns the track as a single-line MultiLineString feature. An
// empty track still encodes as [[]].
func (t *Track) Feature(id int) Feature {
	t.mu.Lock()
	line := append(make([]Position, 0, len(t.pts)), t.pts...)
	t.mu.Unlock()

	return Feature{
		Type:       "Feature",
		Properties: map[string]any{"id": id},
		Geometry: Geometry{
			Type:        "MultiLineString",
			Coordinates: [][]Position{line},
		},
	}
}

// Encode writes f as indented JSON followed by a newline.
func Encode(w io.Writer, f Feature) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(f)
}
