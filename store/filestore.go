package store

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"bitbucket.org/kleinnic74/tilemap/canvas"
	"bitbucket.org/kleinnic74/tilemap/logging"
	"bitbucket.org/kleinnic74/tilemap/projection"

	"github.com/h2non/filetype"
	"go.uber.org/zap"
)

// FileStore keeps one PNG file per tile under base/<zoom>/<quadkey>.png.
type FileStore struct {
	base string
}

func NewFileStore(base string) (*FileStore, error) {
	if err := os.MkdirAll(base, 0755); err != nil {
		return nil, &StoreError{Op: "init", Quadkey: "", Err: err}
	}
	return &FileStore{base: base}, nil
}

func (s *FileStore) path(quadkey string) string {
	name := quadkey
	if name == "" {
		name = "root"
	}
	return filepath.Join(s.base, strconv.Itoa(len(quadkey)), name+".png")
}

// Quadkeys lists the quadkeys of all persisted tiles, ordered by zoom then
// key. Files that do not look like tiles are skipped.
func (s *FileStore) Quadkeys() ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".png" {
			return nil
		}
		name := strings.TrimSuffix(d.Name(), ".png")
		if name == "root" {
			name = ""
		}
		if _, _, err := projection.DecodeQuadkey(name); err != nil {
			return nil
		}
		keys = append(keys, name)
		return nil
	})
	if err != nil {
		return nil, &StoreError{Op: "list", Quadkey: "", Err: err}
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys, nil
}

func (s *FileStore) LoadOrCreate(ctx context.Context, quadkey string, overwrite bool) (Handle, error) {
	region, blank, err := blankTile(quadkey)
	if err != nil {
		return nil, err
	}
	h := &fileHandle{quadkey: quadkey, region: region, canvas: blank, path: s.path(quadkey)}
	if overwrite {
		return h, nil
	}
	data, err := os.ReadFile(h.path)
	if os.IsNotExist(err) {
		return h, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "load", Quadkey: quadkey, Err: err}
	}
	if !filetype.IsImage(data) {
		return nil, &StoreError{Op: "load", Quadkey: quadkey,
			Err: fmt.Errorf("%s does not contain a raster image", h.path)}
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &StoreError{Op: "load", Quadkey: quadkey, Err: err}
	}
	if img.Bounds().Dx() != projection.TileSize || img.Bounds().Dy() != projection.TileSize {
		return nil, &StoreError{Op: "load", Quadkey: quadkey,
			Err: fmt.Errorf("persisted tile has size %v, want %dx%d",
				img.Bounds().Size(), projection.TileSize, projection.TileSize)}
	}
	h.canvas = canvas.FromImage(img)
	logging.From(ctx).Named("store").Debug("Tile loaded",
		zap.String("quadkey", quadkey), zap.String("path", h.path))
	return h, nil
}

type fileHandle struct {
	quadkey string
	region  projection.Box
	canvas  canvas.Canvas
	path    string
}

func (h *fileHandle) Quadkey() string {
	return h.quadkey
}

func (h *fileHandle) Region() projection.Box {
	return h.region
}

func (h *fileHandle) Canvas() canvas.Canvas {
	return h.canvas
}

// Save writes the tile atomically, temp file then rename.
func (h *fileHandle) Save(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return &StoreError{Op: "save", Quadkey: h.quadkey, Err: err}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, h.canvas.Image()); err != nil {
		return &StoreError{Op: "save", Quadkey: h.quadkey, Err: err}
	}
	tmp := h.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return &StoreError{Op: "save", Quadkey: h.quadkey, Err: err}
	}
	if err := os.Rename(tmp, h.path); err != nil {
		os.Remove(tmp)
		return &StoreError{Op: "save", Quadkey: h.quadkey, Err: err}
	}
	logging.From(ctx).Named("store").Debug("Tile saved",
		zap.String("quadkey", h.quadkey), zap.String("path", h.path))
	return nil
}
