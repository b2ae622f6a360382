package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"bitbucket.org/kleinnic74/tilemap/logging"
	"bitbucket.org/kleinnic74/tilemap/projection"
	"bitbucket.org/kleinnic74/tilemap/store"

	svg "github.com/ajstarks/svgo"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var (
	strokeGrid = []string{`stroke="gray"`, `stroke-width="1px"`, `fill="none"`}
	fillTile   = []string{`stroke="none"`, `fill="#2f7ed8"`}

	tilesDir string
	dbFile   string
	zoom     int
	outFile  string
)

// lister enumerates the persisted tiles of a store.
type lister interface {
	Quadkeys() ([]string, error)
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.StringVar(&tilesDir, "d", "tiles", "Tile directory to inspect")
	flag.StringVar(&dbFile, "db", "", "Inspect a BoltDB tile file instead of a tile directory")
	flag.IntVar(&zoom, "z", -1, "Zoom level to show, -1 selects the deepest persisted level")
	flag.StringVar(&outFile, "o", "", "Output SVG file, default is stdout")
	flag.Parse()
}

func main() {
	logger := logging.From(context.Background())

	var tiles lister
	if dbFile != "" {
		db, err := bolt.Open(dbFile, 0600, &bolt.Options{ReadOnly: true})
		if err != nil {
			logger.Fatal("Failed to open tile DB", zap.String("db", dbFile), zap.Error(err))
		}
		defer db.Close()
		tiles, err = store.NewBoltStore(db)
		if err != nil {
			logger.Fatal("Failed to open tile DB", zap.Error(err))
		}
	} else {
		var err error
		tiles, err = store.NewFileStore(tilesDir)
		if err != nil {
			logger.Fatal("Failed to open tile directory", zap.String("dir", tilesDir), zap.Error(err))
		}
	}

	keys, err := tiles.Quadkeys()
	if err != nil {
		logger.Fatal("Failed to list tiles", zap.Error(err))
	}
	if zoom < 0 {
		for _, k := range keys {
			if len(k) > zoom {
				zoom = len(k)
			}
		}
	}
	if zoom < 0 {
		logger.Fatal("No persisted tiles found")
	}

	out := io.Writer(os.Stdout)
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			logger.Fatal("Failed to create output file", zap.String("out", outFile), zap.Error(err))
		}
		defer f.Close()
		out = f
	}
	if err := writeLevel(out, zoom, keys); err != nil {
		logger.Fatal("Failed to render level view", zap.Int("zoom", zoom), zap.Error(err))
	}
	logger.Info("Level view written", zap.Int("zoom", zoom), zap.Int("tiles", len(keys)))
}

// writeLevel draws the tile grid of one zoom level with every persisted
// tile filled.
func writeLevel(out io.Writer, zoom int, quadkeys []string) error {
	proj, err := projection.New(zoom)
	if err != nil {
		return err
	}
	size := proj.MapSize()
	canvas := svg.New(out)
	canvas.Startpercent(100, 100, fmt.Sprintf(`viewBox="0 0 %d %d"`, size, size))
	for _, key := range quadkeys {
		if len(key) != zoom {
			continue
		}
		p, tile, err := projection.DecodeQuadkey(key)
		if err != nil {
			return err
		}
		r := p.TileRegion(tile)
		canvas.Rect(r.Left, r.Top, r.Width(), r.Height(), fillTile...)
	}
	if n := proj.TilesPerAxis(); n <= 64 {
		for i := 0; i <= n; i++ {
			at := i * projection.TileSize
			canvas.Line(at, 0, at, size, strokeGrid...)
			canvas.Line(0, at, size, at, strokeGrid...)
		}
	}
	canvas.Rect(0, 0, size, size, strokeGrid...)
	canvas.End()
	return nil
}
