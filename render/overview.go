package render

import (
	"fmt"
	"io"

	"bitbucket.org/kleinnic74/tilemap/projection"

	svg "github.com/ajstarks/svgo"
)

var (
	strokeGrid   = []string{`stroke="gray"`, `stroke-width="1px"`, `fill="none"`}
	fillTouched  = []string{`stroke="none"`, `fill="#9ec9ff"`}
	fillResident = []string{`stroke="none"`, `fill="#2f7ed8"`}
)

// maxGridLines caps the drawn grid; beyond this zoom the grid would be
// denser than any viewer could resolve.
const maxGridLines = 64

// WriteOverview writes an SVG view of the level: the tile grid with every
// touched tile marked, resident tiles darker. Intended as a diagnostic aid.
func (l *Level) WriteOverview(out io.Writer) {
	c := svg.New(out)
	size := l.proj.MapSize()
	c.Startpercent(100, 100, fmt.Sprintf(`viewBox="0 0 %d %d"`, size, size))
	for _, tile := range l.Touched() {
		r := l.proj.TileRegion(tile)
		c.Rect(r.Left, r.Top, r.Width(), r.Height(), fillTouched...)
	}
	for _, tile := range l.Resident() {
		r := l.proj.TileRegion(tile)
		c.Rect(r.Left, r.Top, r.Width(), r.Height(), fillResident...)
	}
	if n := l.proj.TilesPerAxis(); n <= maxGridLines {
		for i := 0; i <= n; i++ {
			at := i * projection.TileSize
			c.Line(at, 0, at, size, strokeGrid...)
			c.Line(0, at, size, at, strokeGrid...)
		}
	}
	c.Rect(0, 0, size, size, strokeGrid...)
	c.End()
}
