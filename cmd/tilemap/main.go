package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"bitbucket.org/kleinnic74/tilemap/logging"
	"bitbucket.org/kleinnic74/tilemap/render"
	"bitbucket.org/kleinnic74/tilemap/store"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var (
	zoom      int
	tilesDir  string
	dbFile    string
	overwrite bool
	autosave  bool
	inMemory  time.Duration
	operator  string
	centerLon float64
	centerLat float64
	viewFile  string
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] script.json...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.IntVar(&zoom, "z", 12, "Zoom level to render")
	flag.StringVar(&tilesDir, "d", "tiles", "Directory for rendered tiles")
	flag.StringVar(&dbFile, "db", "", "Render into a BoltDB file instead of a tile directory")
	flag.BoolVar(&overwrite, "overwrite", false, "Blank existing tiles on first touch")
	flag.BoolVar(&autosave, "autosave", false, "Persist tiles after every touch")
	flag.DurationVar(&inMemory, "mem", time.Minute, "Tile residency timeout, 0 persists and releases on every touch")
	flag.StringVar(&operator, "op", "", "Blend operator (default darken)")
	flag.Float64Var(&centerLon, "lon", 0, "Longitude of the drawing centroid")
	flag.Float64Var(&centerLat, "lat", 0, "Latitude of the drawing centroid")
	flag.StringVar(&viewFile, "view", "", "Write an SVG overview of the touched tiles to this file")
	flag.Parse()

	if len(flag.Args()) == 0 {
		flag.Usage()
		os.Exit(1)
	}
}

func main() {
	logger, ctx := logging.FromWithFields(context.Background(),
		zap.String("run", uuid.New().String()))

	var tiles store.Store
	if dbFile != "" {
		db, err := bolt.Open(dbFile, 0600, nil)
		if err != nil {
			logger.Fatal("Failed to open tile DB", zap.String("db", dbFile), zap.Error(err))
		}
		defer db.Close()
		tiles, err = store.NewBoltStore(db)
		if err != nil {
			logger.Fatal("Failed to initialize tile DB", zap.Error(err))
		}
	} else {
		var err error
		tiles, err = store.NewFileStore(tilesDir)
		if err != nil {
			logger.Fatal("Failed to initialize tile directory", zap.String("dir", tilesDir), zap.Error(err))
		}
	}

	cfg := render.Config{
		Zoom:      zoom,
		BasePath:  tilesDir,
		Overwrite: overwrite,
		Autosave:  autosave,
		InMemory:  inMemory,
		Operator:  operator,
	}
	cfg.Centroid[0], cfg.Centroid[1] = centerLon, centerLat
	level, err := render.NewLevel(ctx, cfg, tiles)
	if err != nil {
		logger.Fatal("Failed to create level renderer", zap.Error(err))
	}

	for _, path := range flag.Args() {
		if err := runScript(ctx, level, path); err != nil {
			logger.Fatal("Script failed", zap.String("script", path), zap.Error(err))
		}
		logger.Info("Script done", zap.String("script", path))
	}
	if err := level.Save(ctx); err != nil {
		logger.Fatal("Failed to persist tiles", zap.Error(err))
	}
	logger.Info("Rendering done",
		zap.Int("zoom", zoom),
		zap.Int("tiles", len(level.Touched())))

	if viewFile != "" {
		if err := writeOverview(level, viewFile); err != nil {
			logger.Fatal("Failed to write overview", zap.String("view", viewFile), zap.Error(err))
		}
	}
}

func runScript(ctx context.Context, level *render.Level, path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()
	cmds, err := render.ReadScript(in)
	if err != nil {
		return err
	}
	return level.Run(ctx, cmds)
}

func writeOverview(level *render.Level, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	level.WriteOverview(out)
	return nil
}
