package render

import (
	"context"

	"bitbucket.org/kleinnic74/tilemap/projection"
	"bitbucket.org/kleinnic74/tilemap/store"

	"go.uber.org/zap"
)

// resolve returns a usable handle for the given tile address, applying
// exactly one of three behaviors: first touch honors the overwrite policy,
// a resident tile is returned as-is, an evicted tile is reloaded with
// overwrite forced off so writes from earlier in this run are preserved.
func (l *Level) resolve(ctx context.Context, tile projection.Tile) (store.Handle, error) {
	h, seen := l.tiles[tile]
	if h != nil {
		return h, nil
	}
	overwrite := l.cfg.Overwrite && !seen
	quadkey := l.proj.Quadkey(tile)
	h, err := l.store.LoadOrCreate(ctx, quadkey, overwrite)
	if err != nil {
		return nil, err
	}
	l.tiles[tile] = h
	tilesLoaded.Inc()
	l.log.Debug("Tile resolved",
		zap.Stringer("tile", tile),
		zap.String("quadkey", quadkey),
		zap.Bool("overwrite", overwrite),
		zap.Bool("reload", seen))
	return h, nil
}

// afterTouch applies the residency policy after a tile was used: with
// residency enabled the eviction deadline is refreshed and an opportunistic
// sweep runs; with residency disabled the tile is persisted and released
// immediately so memory does not grow across many draw calls.
func (l *Level) afterTouch(ctx context.Context, tile projection.Tile, h store.Handle) error {
	if l.cfg.InMemory > 0 {
		l.deadlines[tile] = l.now().Add(l.cfg.InMemory)
		if l.cfg.Autosave {
			if err := h.Save(ctx); err != nil {
				return err
			}
			tilesSaved.Inc()
		}
		return l.Cleanup(ctx)
	}
	if err := h.Save(ctx); err != nil {
		return err
	}
	tilesSaved.Inc()
	l.tiles[tile] = nil
	delete(l.deadlines, tile)
	return nil
}

// Cleanup runs the eviction sweep: every resident tile whose deadline has
// passed is persisted and released. Sweeps are debounced to at most one
// per residency timeout and never run when residency is disabled.
func (l *Level) Cleanup(ctx context.Context) error {
	if l.cfg.InMemory <= 0 {
		return nil
	}
	now := l.now()
	if now.Before(l.lastSweep.Add(l.cfg.InMemory)) {
		return nil
	}
	for tile, h := range l.tiles {
		if h == nil {
			continue
		}
		deadline, ok := l.deadlines[tile]
		if ok && now.Before(deadline) {
			continue
		}
		if err := h.Save(ctx); err != nil {
			return err
		}
		tilesSaved.Inc()
		tilesEvicted.Inc()
		l.tiles[tile] = nil
		delete(l.deadlines, tile)
		l.log.Debug("Tile evicted", zap.Stringer("tile", tile), zap.Time("deadline", deadline))
	}
	l.lastSweep = now
	return nil
}
