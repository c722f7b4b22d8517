package raster

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrNoCoverage reports that no catalog entry's bounding box covers the
// requested coordinate.
var ErrNoCoverage = errors.New("no raster covers coordinate")

// BBox is a raster's geographic bounding box in decimal degrees.
type BBox struct {
	LatMin float64 `json:"lat_min"`
	LatMax float64 `json:"lat_max"`
	LonMin float64 `json:"lon_min"`
	LonMax float64 `json:"lon_max"`
}

// Contains reports whether the coordinate lies within the box.
func (b BBox) Contains(lat, lon float64) bool {
	return lat >= b.LatMin && lat <= b.LatMax && lon >= b.LonMin && lon <= b.LonMax
}

// Transform holds the affine transform extracted from the source
// raster, mapping geographic coordinates to pixel coordinates.
type Transform struct {
	ScaleX     float64 `json:"scale-factor-x"`
	ShearYX    float64 `json:"shear-y-component-x"`
	TranslateX float64 `json:"x-translation-term"`
	ShearXY    float64 `json:"shear-x-component-y"`
	ScaleY     float64 `json:"scale-factor-y"`
	TranslateY float64 `json:"y-translation-term"`
}

// Entry describes one density raster in the catalog.
type Entry struct {
	File      string    `json:"file"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Bands     int       `json:"bands"`
	CRS       string    `json:"crs"`
	BBox      BBox      `json:"bbox"`
	Transform Transform `json:"transform"`
}

// PixelCoords maps a geographic coordinate to integer pixel
// coordinates in the raster via the affine transform.
func (e Entry) PixelCoords(lat, lon float64) (px, py int) {
	px = int((lon - e.Transform.TranslateX) / e.Transform.ScaleX)
	py = int((lat - e.Transform.TranslateY) / e.Transform.ScaleY)
	return px, py
}

// RelativeCoords maps a geographic coordinate to [0,1]-relative raster
// coordinates, independent of any later resize.
func (e Entry) RelativeCoords(lat, lon float64) (rx, ry float64) {
	px, py := e.PixelCoords(lat, lon)
	return float64(px) / float64(e.Width), float64(py) / float64(e.Height)
}

// Catalog is the raster metadata index, keyed by raster name.
type Catalog struct {
	entries map[string]Entry
}

// LoadCatalog reads a metadata catalog from a JSON file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading raster metadata: %w", err)
	}
	entries := map[string]Entry{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing raster metadata: %w", err)
	}
	return &Catalog{entries: entries}, nil
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Match returns the entry whose bounding box covers the coordinate.
func (c *Catalog) Match(lat, lon float64) (Entry, error) {
	for _, e := range c.entries {
		if e.BBox.Contains(lat, lon) {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: (%v, %v)", ErrNoCoverage, lat, lon)
}
