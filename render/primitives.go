package render

import (
	"image"

	"bitbucket.org/kleinnic74/tilemap/canvas"
	"bitbucket.org/kleinnic74/tilemap/projection"
)

// primitive binds a drawing operation to its canvas invocation and its
// bounding-box rule. The catalogue is static and validated against the
// canvas capability when a Level is constructed, not per call.
type primitive struct {
	canvasOp string
	bounds   func(a canvas.Args) (projection.Box, error)
}

var catalogue = map[string]primitive{
	"points":        {canvasOp: "points", bounds: coordinateBounds("points")},
	"setpixel":      {canvasOp: "setpixel", bounds: coordinateBounds("setpixel")},
	"line":          {canvasOp: "line", bounds: coordinateBounds("line")},
	"box":           {canvasOp: "box", bounds: coordinateBounds("box")},
	"polyline":      {canvasOp: "polyline", bounds: coordinateBounds("polyline")},
	"polygon":       {canvasOp: "polygon", bounds: coordinateBounds("polygon")},
	"arc":           {canvasOp: "arc", bounds: radialBounds("arc")},
	"circle":        {canvasOp: "circle", bounds: radialBounds("circle")},
	"radial_circle": {canvasOp: "circle", bounds: radialBounds("radial_circle")},
	"flood_fill":    {canvasOp: "flood_fill", bounds: coordinateBounds("flood_fill")},
	"text":          {canvasOp: "text", bounds: textBounds("text")},
	"text_aligned":  {canvasOp: "text_aligned", bounds: textBounds("text_aligned")},
}

// coordinateBounds covers every translated coordinate referenced by the
// command: point lists, scalar pairs and parallel coordinate arrays.
func coordinateBounds(op string) func(canvas.Args) (projection.Box, error) {
	return func(a canvas.Args) (projection.Box, error) {
		var box projection.Box
		found := false
		extend := func(px projection.Pixel) {
			if !found {
				box, found = projection.BoxAround(px), true
				return
			}
			box = box.Extend(px)
		}
		if pts, ok := a["points"].([]projection.Pixel); ok {
			for _, p := range pts {
				extend(p)
			}
		}
		for _, pair := range pairSlots {
			if x, ok := intSlot(a, pair[0]); ok {
				if y, ok := intSlot(a, pair[1]); ok {
					extend(projection.Pixel{X: x, Y: y})
				}
			}
			xs, okx := intArraySlot(a, pair[0])
			ys, oky := intArraySlot(a, pair[1])
			if okx && oky {
				n := max(len(xs), len(ys))
				for i := 0; i < n; i++ {
					extend(projection.Pixel{
						X: xs[min(i, len(xs)-1)],
						Y: ys[min(i, len(ys)-1)],
					})
				}
			}
		}
		if !found {
			return projection.Box{}, MissingGeometryError(op)
		}
		return box, nil
	}
}

// radialBounds additionally grows the box by the pixel radius.
func radialBounds(op string) func(canvas.Args) (projection.Box, error) {
	coords := coordinateBounds(op)
	return func(a canvas.Args) (projection.Box, error) {
		box, err := coords(a)
		if err != nil {
			return box, err
		}
		if r, ok := a.Int("r"); ok && r > 0 {
			box = box.Grow(r)
		}
		return box, nil
	}
}

// textBounds covers the rendered string extent around its anchor.
func textBounds(op string) func(canvas.Args) (projection.Box, error) {
	coords := coordinateBounds(op)
	return func(a canvas.Args) (projection.Box, error) {
		box, err := coords(a)
		if err != nil {
			return box, err
		}
		s, ok := a.String("text")
		if !ok {
			return box, MissingGeometryError(op)
		}
		x, _ := a.Int("x")
		y, _ := a.Int("y")
		halign, _ := a.String("halign")
		valign, _ := a.String("valign")
		r, err := canvas.TextBounds(s, x, y, halign, valign)
		if err != nil {
			return box, err
		}
		box = box.Extend(projection.Pixel{X: r.Min.X, Y: r.Min.Y})
		box = box.Extend(projection.Pixel{X: r.Max.X - 1, Y: r.Max.Y - 1})
		return box, nil
	}
}

func intSlot(a canvas.Args, key string) (int, bool) {
	v, ok := a[key].(int)
	return v, ok
}

func intArraySlot(a canvas.Args, key string) ([]int, bool) {
	v, ok := a[key].([]int)
	if !ok || len(v) == 0 {
		return nil, false
	}
	return v, true
}

// localize rewrites translated pixel arguments into the local coordinate
// space of a canvas whose origin sits at (box.Left, box.Top).
func localize(a canvas.Args, box projection.Box) canvas.Args {
	out := a.Clone()
	if pts, ok := a["points"].([]projection.Pixel); ok {
		local := make([]image.Point, len(pts))
		for i, p := range pts {
			local[i] = image.Point{X: p.X - box.Left, Y: p.Y - box.Top}
		}
		out["points"] = local
	}
	for _, pair := range pairSlots {
		if x, ok := intSlot(a, pair[0]); ok {
			out[pair[0]] = x - box.Left
		}
		if y, ok := intSlot(a, pair[1]); ok {
			out[pair[1]] = y - box.Top
		}
		if xs, ok := intArraySlot(a, pair[0]); ok {
			local := make([]int, len(xs))
			for i, x := range xs {
				local[i] = x - box.Left
			}
			out[pair[0]] = local
		}
		if ys, ok := intArraySlot(a, pair[1]); ok {
			local := make([]int, len(ys))
			for i, y := range ys {
				local[i] = y - box.Top
			}
			out[pair[1]] = local
		}
	}
	return out
}
