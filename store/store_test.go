package store

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"bitbucket.org/kleinnic74/tilemap/projection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

type testFunc func(*testing.T, Store)

func runTestWithFileStore(t *testing.T, f testFunc) {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	f(t, s)
}

func runTestWithBoltStore(t *testing.T, f testFunc) {
	t.Helper()
	db, err := bolt.Open(filepath.Join(t.TempDir(), "tiles.db"), 0600, nil)
	require.NoError(t, err)
	s, err := NewBoltStore(db)
	require.NoError(t, err)
	defer s.Close()
	f(t, s)
}

func runTestWithStores(t *testing.T, f testFunc) {
	t.Run("file", func(t *testing.T) { runTestWithFileStore(t, f) })
	t.Run("bolt", func(t *testing.T) { runTestWithBoltStore(t, f) })
}

var red = color.NRGBA{0xff, 0, 0, 0xff}

func TestLoadOrCreateBlank(t *testing.T) {
	runTestWithStores(t, func(t *testing.T, s Store) {
		h, err := s.LoadOrCreate(context.Background(), "031", false)
		require.NoError(t, err)
		assert.Equal(t, "031", h.Quadkey())
		assert.Equal(t, projection.TileSize, h.Canvas().Width())
		// Fresh tiles start white
		assert.Equal(t, color.NRGBA{0xff, 0xff, 0xff, 0xff}, h.Canvas().Pixel(10, 10))

		_, tile, err := projection.DecodeQuadkey("031")
		require.NoError(t, err)
		assert.Equal(t, tile.Column*projection.TileSize, h.Region().Left)
		assert.Equal(t, tile.Row*projection.TileSize, h.Region().Top)
		assert.Equal(t, projection.TileSize, h.Region().Width())
	})
}

func TestSaveThenReload(t *testing.T) {
	runTestWithStores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		h, err := s.LoadOrCreate(ctx, "20", false)
		require.NoError(t, err)
		h.Canvas().SetPixel(7, 9, red)
		require.NoError(t, h.Save(ctx))

		reloaded, err := s.LoadOrCreate(ctx, "20", false)
		require.NoError(t, err)
		assert.Equal(t, red, reloaded.Canvas().Pixel(7, 9))
	})
}

func TestOverwriteIgnoresPersistedContent(t *testing.T) {
	runTestWithStores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		h, err := s.LoadOrCreate(ctx, "20", false)
		require.NoError(t, err)
		h.Canvas().SetPixel(7, 9, red)
		require.NoError(t, h.Save(ctx))

		blank, err := s.LoadOrCreate(ctx, "20", true)
		require.NoError(t, err)
		assert.Equal(t, color.NRGBA{0xff, 0xff, 0xff, 0xff}, blank.Canvas().Pixel(7, 9))
	})
}

func TestInvalidQuadkey(t *testing.T) {
	runTestWithStores(t, func(t *testing.T, s Store) {
		_, err := s.LoadOrCreate(context.Background(), "0x1", false)
		var serr *StoreError
		require.ErrorAs(t, err, &serr)
	})
}

type quadkeyLister interface {
	Quadkeys() ([]string, error)
}

func TestQuadkeysListsPersistedTiles(t *testing.T) {
	runTestWithStores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		for _, quadkey := range []string{"20", "031", "013", ""} {
			h, err := s.LoadOrCreate(ctx, quadkey, false)
			require.NoError(t, err)
			require.NoError(t, h.Save(ctx))
		}

		keys, err := s.(quadkeyLister).Quadkeys()
		require.NoError(t, err)
		assert.Equal(t, []string{"", "20", "013", "031"}, keys)
	})
}

func TestFileStoreRejectsNonImageFile(t *testing.T) {
	base := t.TempDir()
	s, err := NewFileStore(base)
	require.NoError(t, err)
	path := filepath.Join(base, "2", "13.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("not a png at all"), 0644))

	_, err = s.LoadOrCreate(context.Background(), "13", false)
	var serr *StoreError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "load", serr.Op)
}

func TestBoltStoreDetectsCorruption(t *testing.T) {
	db, err := bolt.Open(filepath.Join(t.TempDir(), "tiles.db"), 0600, nil)
	require.NoError(t, err)
	s, err := NewBoltStore(db)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	h, err := s.LoadOrCreate(ctx, "301", false)
	require.NoError(t, err)
	require.NoError(t, h.Save(ctx))

	// Flip a byte of the stored payload behind the store's back
	err = db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(tilesBucket)
		v := b.Get(tileKey("301"))
		corrupted := make([]byte, len(v))
		copy(corrupted, v)
		corrupted[len(corrupted)/2] ^= 0xff
		return b.Put(tileKey("301"), corrupted)
	})
	require.NoError(t, err)

	_, err = s.LoadOrCreate(ctx, "301", false)
	var serr *StoreError
	require.ErrorAs(t, err, &serr)
}
