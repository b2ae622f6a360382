package render

import (
	"time"

	"github.com/paulmach/orb"
)

// Config carries the construction parameters of a Level.
type Config struct {
	// Zoom is the fixed zoom level rendered by this Level.
	Zoom int
	// BasePath is the base storage location of persisted tiles.
	BasePath string
	// Overwrite blanks a persisted tile on its first touch of this run
	// instead of loading its content. The policy is one-shot per tile: a
	// tile reloaded after eviction is never blanked again.
	Overwrite bool
	// Autosave persists a tile after every composite touch while it stays
	// resident. Tiles are always persisted on eviction regardless.
	Autosave bool
	// InMemory is the residency timeout of a loaded tile. Zero disables
	// caching: every touch persists and releases the tile immediately.
	InMemory time.Duration
	// Operator names the blend operator used when compositing onto tiles.
	// Empty selects the default (darken).
	Operator string
	// Centroid supplies the latitude for metre-to-pixel radius conversion
	// when a command carries no geographic centre of its own.
	Centroid orb.Point
}
