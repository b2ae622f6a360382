// Package store persists level tiles keyed by their quadkey. Two
// implementations are provided: one PNG file per tile on disk, and a
// single-file BoltDB store.
package store

import (
	"context"
	"fmt"

	"bitbucket.org/kleinnic74/tilemap/canvas"
	"bitbucket.org/kleinnic74/tilemap/projection"
)

// Handle is a loaded tile: a raster canvas bound to a fixed pixel region of
// the level, persistable under its quadkey.
type Handle interface {
	Quadkey() string
	Region() projection.Box
	Canvas() canvas.Canvas
	Save(ctx context.Context) error
}

// Store resolves quadkeys to tile handles. With overwrite set a blank tile
// is returned even if content is already persisted at this quadkey;
// otherwise existing content is loaded when present.
type Store interface {
	LoadOrCreate(ctx context.Context, quadkey string, overwrite bool) (Handle, error)
}

// StoreError wraps a persistence failure.
type StoreError struct {
	Op      string
	Quadkey string
	Err     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("tile store: %s of tile '%s' failed: %s", e.Op, e.Quadkey, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// blankTile allocates a fresh white tile canvas for the given quadkey.
func blankTile(quadkey string) (projection.Box, canvas.Canvas, error) {
	p, tile, err := projection.DecodeQuadkey(quadkey)
	if err != nil {
		return projection.Box{}, nil, &StoreError{Op: "create", Quadkey: quadkey, Err: err}
	}
	c, err := canvas.New(projection.TileSize, projection.TileSize)
	if err != nil {
		return projection.Box{}, nil, err
	}
	return p.TileRegion(tile), c, nil
}
