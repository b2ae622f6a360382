// Package projection maps geographic coordinates onto the pixel grid of a
// slippy-map zoom level. The forward projection is the spherical
// pseudo-Mercator used by the common tile services, so rendered tiles line
// up with externally served tiles at the same zoom and address.
package projection

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

const (
	// TileSize is the width and height of a single tile in pixels.
	TileSize = 256

	MinZoom = 0
	MaxZoom = 23

	// MinLatitude and MaxLatitude bound the latitudes representable in the
	// projection; input outside this range is clamped.
	MinLatitude = -85.05112878
	MaxLatitude = 85.05112878

	earthRadius = 6378137.0
)

// Pixel is a coordinate in the global pixel space of one zoom level,
// origin at the top-left (north-west) corner.
type Pixel struct {
	X int
	Y int
}

// Tile addresses a single tile within a zoom level by column and row.
type Tile struct {
	Column int
	Row    int
}

func (t Tile) String() string {
	return fmt.Sprintf("%d/%d", t.Column, t.Row)
}

// InvalidZoom is returned when a zoom level outside [MinZoom,MaxZoom] is used.
type InvalidZoom int

func (z InvalidZoom) Error() string {
	return fmt.Sprintf("zoom level %d out of range [%d,%d]", int(z), MinZoom, MaxZoom)
}

// Projection performs coordinate conversions at one fixed zoom level.
type Projection struct {
	zoom int
}

func New(zoom int) (Projection, error) {
	if zoom < MinZoom || zoom > MaxZoom {
		return Projection{}, InvalidZoom(zoom)
	}
	return Projection{zoom: zoom}, nil
}

func (p Projection) Zoom() int {
	return p.zoom
}

// MapSize returns the width (= height) of the level in pixels.
func (p Projection) MapSize() int {
	return TileSize << uint(p.zoom)
}

// TilesPerAxis returns the number of tile columns (= rows) of the level.
func (p Projection) TilesPerAxis() int {
	return 1 << uint(p.zoom)
}

func clip(v, min, max float64) float64 {
	return math.Min(math.Max(v, min), max)
}

// Project maps a geographic point (lon/lat, WGS84) to the level's pixel grid.
func (p Projection) Project(pt orb.Point) Pixel {
	lat := clip(pt.Lat(), MinLatitude, MaxLatitude)
	lon := clip(pt.Lon(), -180, 180)

	x := (lon + 180) / 360
	sinLat := math.Sin(lat * math.Pi / 180)
	y := 0.5 - math.Log((1+sinLat)/(1-sinLat))/(4*math.Pi)

	size := float64(p.MapSize())
	return Pixel{
		X: int(clip(x*size+0.5, 0, size-1)),
		Y: int(clip(y*size+0.5, 0, size-1)),
	}
}

// GroundResolution returns the ground distance in meters covered by one
// pixel at the given latitude.
func (p Projection) GroundResolution(lat float64) float64 {
	lat = clip(lat, MinLatitude, MaxLatitude)
	return math.Cos(lat*math.Pi/180) * 2 * math.Pi * earthRadius / float64(p.MapSize())
}

// PixelRadius converts a radius in meters at the given latitude to a pixel
// radius, rounded to the nearest pixel and floored at min.
func (p Projection) PixelRadius(meters float64, lat float64, min int) int {
	r := int(math.Round(meters / p.GroundResolution(lat)))
	if r < min {
		return min
	}
	return r
}

// PixelToTile returns the address of the tile containing the given pixel.
func (p Projection) PixelToTile(px Pixel) Tile {
	return Tile{Column: px.X / TileSize, Row: px.Y / TileSize}
}

// TileRegion returns the pixel region owned by the given tile.
func (p Projection) TileRegion(t Tile) Box {
	return Box{
		Left:   t.Column * TileSize,
		Top:    t.Row * TileSize,
		Right:  (t.Column+1)*TileSize - 1,
		Bottom: (t.Row+1)*TileSize - 1,
	}
}
