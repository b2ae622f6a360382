package render

import (
	"context"
	"image"

	"bitbucket.org/kleinnic74/tilemap/canvas"
	"bitbucket.org/kleinnic74/tilemap/projection"
)

// composite walks the tile grid under the bounding box in row-major order,
// crops the overlapping part of the pseudo-canvas for each tile and
// composites it at the tile-local offset with the configured operator.
func (l *Level) composite(ctx context.Context, box projection.Box, pseudo canvas.Canvas) error {
	topLeft := l.proj.PixelToTile(projection.Pixel{X: box.Left, Y: box.Top})
	bottomRight := l.proj.PixelToTile(projection.Pixel{X: box.Right, Y: box.Bottom})
	for row := topLeft.Row; row <= bottomRight.Row; row++ {
		for col := topLeft.Column; col <= bottomRight.Column; col++ {
			tile := projection.Tile{Column: col, Row: row}
			h, err := l.resolve(ctx, tile)
			if err != nil {
				return err
			}
			region := h.Region()
			overlap, ok := box.Intersect(region)
			if !ok {
				continue
			}
			crop := pseudo.Crop(image.Rect(
				overlap.Left-box.Left,
				overlap.Top-box.Top,
				overlap.Right-box.Left+1,
				overlap.Bottom-box.Top+1))
			if err := h.Canvas().Compose(image.Pt(overlap.Left-region.Left, overlap.Top-region.Top), crop, l.op); err != nil {
				return err
			}
			if err := l.afterTouch(ctx, tile, h); err != nil {
				return err
			}
		}
	}
	return nil
}
