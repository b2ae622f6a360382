package projection

import (
	"fmt"
	"strings"
)

// Quadkey encodes the tile's path from the root of the quad-tree as a
// string of digits 0-3, one digit per zoom level. It is the canonical
// identifier of a persisted tile; the in-memory cache uses the cheaper
// (column,row) pair instead.
func (p Projection) Quadkey(t Tile) string {
	var sb strings.Builder
	for i := p.zoom; i > 0; i-- {
		digit := byte('0')
		mask := 1 << uint(i-1)
		if t.Column&mask != 0 {
			digit++
		}
		if t.Row&mask != 0 {
			digit += 2
		}
		sb.WriteByte(digit)
	}
	return sb.String()
}

// DecodeQuadkey recovers the zoom level and tile address from a quadkey.
func DecodeQuadkey(key string) (Projection, Tile, error) {
	p, err := New(len(key))
	if err != nil {
		return Projection{}, Tile{}, err
	}
	var t Tile
	for i := 0; i < len(key); i++ {
		mask := 1 << uint(len(key)-i-1)
		switch key[i] {
		case '0':
		case '1':
			t.Column |= mask
		case '2':
			t.Row |= mask
		case '3':
			t.Column |= mask
			t.Row |= mask
		default:
			return Projection{}, Tile{}, fmt.Errorf("invalid quadkey digit '%c' in %q", key[i], key)
		}
	}
	return p, t, nil
}
