package render

import (
	"bitbucket.org/kleinnic74/tilemap/canvas"
	"bitbucket.org/kleinnic74/tilemap/projection"

	"github.com/paulmach/orb"
)

// pairSlots are the argument names the translator recognizes as coordinate
// pairs: x-slots hold longitudes, y-slots latitudes. Slots with only one
// axis present, or holding values of other types, pass through untouched,
// as some primitives accept non-geographic scalars under the same names.
var pairSlots = [][2]string{
	{"x", "y"},
	{"x1", "y1"},
	{"x2", "y2"},
	{"xmin", "ymin"},
	{"xmax", "ymax"},
}

func scalarCoord(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func arrayCoord(v interface{}) ([]float64, bool) {
	switch n := v.(type) {
	case []float64:
		return n, true
	case []int:
		out := make([]float64, len(n))
		for i, x := range n {
			out[i] = float64(x)
		}
		return out, true
	default:
		return nil, false
	}
}

// translate converts the geographic slots of a drawing command into pixel
// space, leaving every other slot unchanged.
func (l *Level) translate(args canvas.Args) (canvas.Args, error) {
	out := args.Clone()

	if pts, ok := args["points"].([]orb.Point); ok {
		out["points"] = simplify(l.projectAll(pts))
	}

	// Remember a geographic latitude for radius conversion before the
	// pair slots are overwritten with pixel values.
	lat := l.cfg.Centroid.Lat()

	for _, pair := range pairSlots {
		xv, xok := args[pair[0]]
		yv, yok := args[pair[1]]
		if !xok || !yok {
			continue
		}
		xs, xScalar := scalarCoord(xv)
		ys, yScalar := scalarCoord(yv)
		xa, xArray := arrayCoord(xv)
		ya, yArray := arrayCoord(yv)
		switch {
		case xScalar && yScalar:
			px := l.proj.Project(orb.Point{xs, ys})
			out[pair[0]], out[pair[1]] = px.X, px.Y
			if pair[0] == "x" {
				lat = ys
			}
		case xArray && yArray:
			if len(xa) == 0 {
				return nil, EmptyCoordinateArrayError(pair[0])
			}
			if len(ya) == 0 {
				return nil, EmptyCoordinateArrayError(pair[1])
			}
			pixels := simplify(l.projectAll(zipPoints(xa, ya)))
			pxs := make([]int, len(pixels))
			pys := make([]int, len(pixels))
			for i, p := range pixels {
				pxs[i], pys[i] = p.X, p.Y
			}
			out[pair[0]], out[pair[1]] = pxs, pys
		case (xScalar && yArray) || (xArray && yScalar):
			return nil, MixedPairError{XKey: pair[0], YKey: pair[1]}
		}
	}

	if meters, ok := scalarCoord(args["radius"]); ok {
		min, _ := args.Int("minradius")
		out["r"] = l.proj.PixelRadius(meters, lat, min)
		delete(out, "radius")
		delete(out, "minradius")
	}
	return out, nil
}

func (l *Level) projectAll(pts []orb.Point) []projection.Pixel {
	out := make([]projection.Pixel, len(pts))
	for i, pt := range pts {
		out[i] = l.proj.Project(pt)
	}
	return out
}

// zipPoints pairs parallel coordinate arrays into points. The shorter
// array repeats its last value, matching the reference drawing library.
func zipPoints(xs, ys []float64) []orb.Point {
	n := len(xs)
	if len(ys) > n {
		n = len(ys)
	}
	pts := make([]orb.Point, n)
	for i := 0; i < n; i++ {
		x := xs[min(i, len(xs)-1)]
		y := ys[min(i, len(ys)-1)]
		pts[i] = orb.Point{x, y}
	}
	return pts
}

// simplify drops consecutive duplicate pixels. At low zoom many geographic
// points collapse onto the same pixel after projection; removing them keeps
// the canvas work proportional to visible geometry. Running it twice
// yields the same sequence, order and endpoints are preserved.
func simplify(pts []projection.Pixel) []projection.Pixel {
	out := make([]projection.Pixel, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	return out
}
