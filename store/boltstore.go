package store

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"bitbucket.org/kleinnic74/tilemap/canvas"
	"bitbucket.org/kleinnic74/tilemap/logging"
	"bitbucket.org/kleinnic74/tilemap/projection"

	"github.com/reusee/mmh3"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var (
	tilesBucket    = []byte("tiles")
	checksumBucket = []byte("checksums")
)

// BoltStore keeps encoded tiles in a BoltDB file, one entry per quadkey,
// with an mmh3 checksum of the payload verified on load.
type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(db *bolt.DB) (*BoltStore, error) {
	for _, name := range [][]byte{tilesBucket, checksumBucket} {
		if err := createBucket(db, name); err != nil {
			return nil, &StoreError{Op: "init", Quadkey: "", Err: err}
		}
	}
	return &BoltStore{db: db}, nil
}

func createBucket(db *bolt.DB, name []byte) error {
	return db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(name)
		return err
	})
}

// Close closes this store
func (s *BoltStore) Close() {
	s.db.Close()
}

// tileKey prefixes the quadkey with its zoom so that keys sort by level and
// the zoom-0 root tile does not map to an empty key.
func tileKey(quadkey string) []byte {
	return []byte(fmt.Sprintf("%02d/%s", len(quadkey), quadkey))
}

func checksum(data []byte) []byte {
	h := mmh3.New32()
	h.Write(data)
	return h.Sum(nil)
}

// Quadkeys lists the quadkeys of all persisted tiles, ordered by zoom then
// key.
func (s *BoltStore) Quadkeys() ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(tilesBucket).ForEach(func(k, _ []byte) error {
			if i := bytes.IndexByte(k, '/'); i >= 0 {
				keys = append(keys, string(k[i+1:]))
			}
			return nil
		})
	})
	if err != nil {
		return nil, &StoreError{Op: "list", Quadkey: "", Err: err}
	}
	return keys, nil
}

func (s *BoltStore) LoadOrCreate(ctx context.Context, quadkey string, overwrite bool) (Handle, error) {
	region, blank, err := blankTile(quadkey)
	if err != nil {
		return nil, err
	}
	h := &boltHandle{store: s, quadkey: quadkey, region: region, canvas: blank}
	if overwrite {
		return h, nil
	}
	var data []byte
	err = s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(tilesBucket).Get(tileKey(quadkey)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
			sum := tx.Bucket(checksumBucket).Get(tileKey(quadkey))
			if !bytes.Equal(sum, checksum(data)) {
				return fmt.Errorf("checksum mismatch for tile '%s'", quadkey)
			}
		}
		return nil
	})
	if err != nil {
		return nil, &StoreError{Op: "load", Quadkey: quadkey, Err: err}
	}
	if data == nil {
		return h, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &StoreError{Op: "load", Quadkey: quadkey, Err: err}
	}
	h.canvas = canvas.FromImage(img)
	logging.From(ctx).Named("store").Debug("Tile loaded", zap.String("quadkey", quadkey))
	return h, nil
}

type boltHandle struct {
	store   *BoltStore
	quadkey string
	region  projection.Box
	canvas  canvas.Canvas
}

func (h *boltHandle) Quadkey() string {
	return h.quadkey
}

func (h *boltHandle) Region() projection.Box {
	return h.region
}

func (h *boltHandle) Canvas() canvas.Canvas {
	return h.canvas
}

func (h *boltHandle) Save(ctx context.Context) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, h.canvas.Image()); err != nil {
		return &StoreError{Op: "save", Quadkey: h.quadkey, Err: err}
	}
	data := buf.Bytes()
	err := h.store.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(tilesBucket).Put(tileKey(h.quadkey), data); err != nil {
			return err
		}
		return tx.Bucket(checksumBucket).Put(tileKey(h.quadkey), checksum(data))
	})
	if err != nil {
		return &StoreError{Op: "save", Quadkey: h.quadkey, Err: err}
	}
	logging.From(ctx).Named("store").Debug("Tile saved", zap.String("quadkey", h.quadkey))
	return nil
}
