// Package render draws geographic vector geometry onto the tiles of one
// slippy-map zoom level. Primitives are rasterized once onto a temporary
// canvas covering their bounding box, then cropped and composited onto
// every tile the box overlaps. Tiles are cached in memory with lazy load,
// one-shot overwrite and debounced timeout eviction.
//
// A Level is not safe for concurrent use; callers serialize drawing calls.
// Composites on a tile happen strictly in call order.
package render

import (
	"context"
	"image/color"
	"sort"
	"time"

	"bitbucket.org/kleinnic74/tilemap/canvas"
	"bitbucket.org/kleinnic74/tilemap/logging"
	"bitbucket.org/kleinnic74/tilemap/projection"
	"bitbucket.org/kleinnic74/tilemap/store"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// Level renders one zoom level of the tile pyramid.
type Level struct {
	proj      projection.Projection
	cfg       Config
	store     store.Store
	newCanvas canvas.Factory
	op        canvas.Operator

	// tiles maps every address ever touched to its handle; a nil handle
	// marks a tile that was evicted and must be reloaded.
	tiles     map[projection.Tile]store.Handle
	deadlines map[projection.Tile]time.Time
	lastSweep time.Time

	now func() time.Time
	log *zap.Logger
}

type Option func(*Level)

// WithCanvasFactory replaces the canvas allocator used for pseudo-canvases.
func WithCanvasFactory(f canvas.Factory) Option {
	return func(l *Level) {
		l.newCanvas = f
	}
}

// WithClock replaces the eviction clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Level) {
		l.now = now
	}
}

// NewLevel creates a level renderer persisting into the given store. The
// zoom level and the configured blend operator are validated here, as is
// the primitive catalogue against the canvas capability.
func NewLevel(ctx context.Context, cfg Config, st store.Store, opts ...Option) (*Level, error) {
	proj, err := projection.New(cfg.Zoom)
	if err != nil {
		return nil, err
	}
	op, err := canvas.OperatorByName(cfg.Operator)
	if err != nil {
		return nil, err
	}
	for name, p := range catalogue {
		if !canvas.Supports(p.canvasOp) {
			return nil, canvas.UnknownPrimitive(name)
		}
	}
	l := &Level{
		proj:      proj,
		cfg:       cfg,
		store:     st,
		newCanvas: canvas.New,
		op:        op,
		tiles:     make(map[projection.Tile]store.Handle),
		deadlines: make(map[projection.Tile]time.Time),
		now:       time.Now,
		log:       logging.From(ctx).Named("level").With(zap.Int("zoom", cfg.Zoom)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func (l *Level) Zoom() int {
	return l.cfg.Zoom
}

func (l *Level) Projection() projection.Projection {
	return l.proj
}

// Draw executes a named drawing primitive with geographic arguments. The
// call runs through four states: filtered by the optional minlevel and
// maxlevel bounds, translated to pixel space, rasterized onto a
// pseudo-canvas and composited onto the overlapped tiles.
func (l *Level) Draw(ctx context.Context, op string, args canvas.Args) error {
	prim, ok := catalogue[op]
	if !ok {
		return canvas.UnknownPrimitive(op)
	}
	if l.filtered(args) {
		l.log.Debug("Command filtered by level bounds", zap.String("primitive", op))
		return nil
	}
	translated, err := l.translate(args)
	if err != nil {
		return err
	}
	box, err := prim.bounds(translated)
	if err != nil {
		return err
	}
	box = box.Clamp(l.proj)
	pseudo, err := l.newCanvas(box.Width(), box.Height())
	if err != nil {
		return err
	}
	if err := pseudo.Draw(prim.canvasOp, localize(translated, box)); err != nil {
		return err
	}
	err = l.composite(ctx, box, pseudo)
	if err == nil {
		draws.WithLabelValues(op).Inc()
		l.log.Debug("Command drawn", zap.String("primitive", op), zap.Stringer("box", box))
	}
	return err
}

// filtered applies the optional per-call zoom bounds: a call whose
// minlevel/maxlevel range excludes this level is skipped silently.
func (l *Level) filtered(args canvas.Args) bool {
	if minLevel, ok := args.Int("minlevel"); ok && l.cfg.Zoom < minLevel {
		return true
	}
	if maxLevel, ok := args.Int("maxlevel"); ok && l.cfg.Zoom > maxLevel {
		return true
	}
	return false
}

// Points draws single pixels at each of the given geographic points.
func (l *Level) Points(ctx context.Context, pts []orb.Point, extra canvas.Args) error {
	return l.Draw(ctx, "points", canvas.Args{"points": pts}.Merge(extra))
}

// SetPixel sets the single pixel a geographic point projects to.
func (l *Level) SetPixel(ctx context.Context, at orb.Point, extra canvas.Args) error {
	return l.Draw(ctx, "setpixel", canvas.Args{"x": at[0], "y": at[1]}.Merge(extra))
}

// GetPixel reads back the pixel a geographic point projects to, loading
// the owning tile if needed.
func (l *Level) GetPixel(ctx context.Context, at orb.Point) (color.NRGBA, error) {
	px := l.proj.Project(at)
	tile := l.proj.PixelToTile(px)
	h, err := l.resolve(ctx, tile)
	if err != nil {
		return color.NRGBA{}, err
	}
	region := h.Region()
	c := h.Canvas().Pixel(px.X-region.Left, px.Y-region.Top)
	if err := l.afterTouch(ctx, tile, h); err != nil {
		return color.NRGBA{}, err
	}
	return c, nil
}

func (l *Level) Line(ctx context.Context, from, to orb.Point, extra canvas.Args) error {
	return l.Draw(ctx, "line", canvas.Args{
		"x1": from[0], "y1": from[1],
		"x2": to[0], "y2": to[1],
	}.Merge(extra))
}

func (l *Level) Box(ctx context.Context, min, max orb.Point, extra canvas.Args) error {
	return l.Draw(ctx, "box", canvas.Args{
		"xmin": min[0], "ymin": min[1],
		"xmax": max[0], "ymax": max[1],
	}.Merge(extra))
}

func (l *Level) Polyline(ctx context.Context, pts []orb.Point, extra canvas.Args) error {
	return l.Draw(ctx, "polyline", canvas.Args{"points": pts}.Merge(extra))
}

func (l *Level) Polygon(ctx context.Context, pts []orb.Point, extra canvas.Args) error {
	return l.Draw(ctx, "polygon", canvas.Args{"points": pts}.Merge(extra))
}

// Arc draws a pie slice with a radius given in pixels, from angle d1 to d2
// in degrees.
func (l *Level) Arc(ctx context.Context, center orb.Point, radius int, d1, d2 float64, extra canvas.Args) error {
	return l.Draw(ctx, "arc", canvas.Args{
		"x": center[0], "y": center[1],
		"r": radius, "d1": d1, "d2": d2,
	}.Merge(extra))
}

// Circle draws a circle with a radius given in pixels.
func (l *Level) Circle(ctx context.Context, center orb.Point, radius int, extra canvas.Args) error {
	return l.Draw(ctx, "circle", canvas.Args{
		"x": center[0], "y": center[1], "r": radius,
	}.Merge(extra))
}

// RadialCircle draws a circle with a radius given in meters on the ground,
// converted at the centre's latitude and floored at minPixels so small
// real-world circles stay visible at low zoom.
func (l *Level) RadialCircle(ctx context.Context, center orb.Point, meters float64, minPixels int, extra canvas.Args) error {
	return l.Draw(ctx, "radial_circle", canvas.Args{
		"x": center[0], "y": center[1],
		"radius": meters, "minradius": minPixels,
	}.Merge(extra))
}

func (l *Level) FloodFill(ctx context.Context, seed orb.Point, extra canvas.Args) error {
	return l.Draw(ctx, "flood_fill", canvas.Args{"x": seed[0], "y": seed[1]}.Merge(extra))
}

func (l *Level) Text(ctx context.Context, at orb.Point, text string, extra canvas.Args) error {
	return l.Draw(ctx, "text", canvas.Args{
		"x": at[0], "y": at[1], "text": text,
	}.Merge(extra))
}

func (l *Level) TextAligned(ctx context.Context, at orb.Point, text, halign, valign string, extra canvas.Args) error {
	return l.Draw(ctx, "text_aligned", canvas.Args{
		"x": at[0], "y": at[1], "text": text,
		"halign": halign, "valign": valign,
	}.Merge(extra))
}

// Filter applies a named whole-tile filter to every tile ever touched by
// this level and persists the result.
func (l *Level) Filter(ctx context.Context, args canvas.Args) error {
	return l.eachTouched(ctx, func(c canvas.Canvas) error {
		return c.ApplyFilter(args)
	})
}

// Colourise shifts the colour balance of every tile ever touched and
// persists the result.
func (l *Level) Colourise(ctx context.Context, args canvas.Args) error {
	return l.eachTouched(ctx, func(c canvas.Canvas) error {
		return c.Colourise(args)
	})
}

// Save persists every tile ever touched by this level.
func (l *Level) Save(ctx context.Context) error {
	return l.eachTouched(ctx, func(canvas.Canvas) error {
		return nil
	})
}

// eachTouched walks every tile key ever touched in row-major order,
// reloading evicted tiles (without re-applying the overwrite policy),
// applies f and persists each tile.
func (l *Level) eachTouched(ctx context.Context, f func(canvas.Canvas) error) error {
	for _, tile := range l.Touched() {
		h, err := l.resolve(ctx, tile)
		if err != nil {
			return err
		}
		if err := f(h.Canvas()); err != nil {
			return err
		}
		if err := h.Save(ctx); err != nil {
			return err
		}
		tilesSaved.Inc()
		if l.cfg.InMemory > 0 {
			l.deadlines[tile] = l.now().Add(l.cfg.InMemory)
		} else {
			l.tiles[tile] = nil
		}
	}
	return nil
}

// Touched returns every tile address this level has touched, in row-major
// order.
func (l *Level) Touched() []projection.Tile {
	tiles := make([]projection.Tile, 0, len(l.tiles))
	for t := range l.tiles {
		tiles = append(tiles, t)
	}
	sort.Slice(tiles, func(i, j int) bool {
		if tiles[i].Row != tiles[j].Row {
			return tiles[i].Row < tiles[j].Row
		}
		return tiles[i].Column < tiles[j].Column
	})
	return tiles
}

// Resident returns the addresses of the tiles currently held in memory.
func (l *Level) Resident() []projection.Tile {
	var tiles []projection.Tile
	for t, h := range l.tiles {
		if h != nil {
			tiles = append(tiles, t)
		}
	}
	sort.Slice(tiles, func(i, j int) bool {
		if tiles[i].Row != tiles[j].Row {
			return tiles[i].Row < tiles[j].Row
		}
		return tiles[i].Column < tiles[j].Column
	})
	return tiles
}
