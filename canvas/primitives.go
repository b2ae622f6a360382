package canvas

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"
)

type drawFunc func(c *ImageCanvas, args Args) error

// primitives is the static catalogue of drawing operations. It is resolved
// at init time; callers validate their dispatch tables against Supports
// instead of discovering unknown names per call.
var primitives = map[string]drawFunc{
	"points":       drawPoints,
	"setpixel":     drawSetPixel,
	"line":         drawLine,
	"box":          drawBox,
	"polyline":     drawPolyline,
	"polygon":      drawPolygon,
	"arc":          drawArc,
	"circle":       drawCircle,
	"flood_fill":   drawFloodFill,
	"text":         drawText,
	"text_aligned": drawTextAligned,
}

func requireInt(a Args, key string) (int, error) {
	v, ok := a.Int(key)
	if !ok {
		return 0, fmt.Errorf("missing argument '%s'", key)
	}
	return v, nil
}

// pointArgs reads point geometry either from a point list or from parallel
// x/y coordinate arrays. A shorter array repeats its last value, matching
// the behavior of the reference drawing library.
func pointArgs(a Args) ([]image.Point, error) {
	if pts, ok := a.PointList("points"); ok {
		return pts, nil
	}
	xs, okx := a.Ints("x")
	ys, oky := a.Ints("y")
	if !okx || !oky || len(xs) == 0 || len(ys) == 0 {
		return nil, fmt.Errorf("missing point arguments")
	}
	n := len(xs)
	if len(ys) > n {
		n = len(ys)
	}
	pts := make([]image.Point, n)
	for i := 0; i < n; i++ {
		x := xs[min(i, len(xs)-1)]
		y := ys[min(i, len(ys)-1)]
		pts[i] = image.Point{x, y}
	}
	return pts, nil
}

func drawPoints(c *ImageCanvas, args Args) error {
	pts, err := pointArgs(args)
	if err != nil {
		return err
	}
	col := args.Color("color")
	for _, p := range pts {
		c.SetPixel(p.X, p.Y, col)
	}
	return nil
}

func drawSetPixel(c *ImageCanvas, args Args) error {
	x, err := requireInt(args, "x")
	if err != nil {
		return err
	}
	y, err := requireInt(args, "y")
	if err != nil {
		return err
	}
	c.SetPixel(x, y, args.Color("color"))
	return nil
}

func drawLine(c *ImageCanvas, args Args) error {
	x1, err := requireInt(args, "x1")
	if err != nil {
		return err
	}
	y1, err := requireInt(args, "y1")
	if err != nil {
		return err
	}
	x2, err := requireInt(args, "x2")
	if err != nil {
		return err
	}
	y2, err := requireInt(args, "y2")
	if err != nil {
		return err
	}
	strokeLine(c, x1, y1, x2, y2, args.Color("color"))
	return nil
}

func drawBox(c *ImageCanvas, args Args) error {
	xmin, err := requireInt(args, "xmin")
	if err != nil {
		return err
	}
	ymin, err := requireInt(args, "ymin")
	if err != nil {
		return err
	}
	xmax, err := requireInt(args, "xmax")
	if err != nil {
		return err
	}
	ymax, err := requireInt(args, "ymax")
	if err != nil {
		return err
	}
	if xmax < xmin {
		xmin, xmax = xmax, xmin
	}
	if ymax < ymin {
		ymin, ymax = ymax, ymin
	}
	col := args.Color("color")
	if args.Bool("filled", false) {
		for y := ymin; y <= ymax; y++ {
			hline(c, xmin, xmax, y, col)
		}
		return nil
	}
	hline(c, xmin, xmax, ymin, col)
	hline(c, xmin, xmax, ymax, col)
	for y := ymin; y <= ymax; y++ {
		c.SetPixel(xmin, y, col)
		c.SetPixel(xmax, y, col)
	}
	return nil
}

func drawPolyline(c *ImageCanvas, args Args) error {
	pts, err := pointArgs(args)
	if err != nil {
		return err
	}
	col := args.Color("color")
	for i := 1; i < len(pts); i++ {
		strokeLine(c, pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, col)
	}
	if len(pts) == 1 {
		c.SetPixel(pts[0].X, pts[0].Y, col)
	}
	return nil
}

func drawPolygon(c *ImageCanvas, args Args) error {
	pts, err := pointArgs(args)
	if err != nil {
		return err
	}
	col := args.Color("color")
	if args.Bool("filled", true) {
		fillPolygon(c, pts, col)
	}
	for i := range pts {
		next := pts[(i+1)%len(pts)]
		strokeLine(c, pts[i].X, pts[i].Y, next.X, next.Y, col)
	}
	return nil
}

func drawArc(c *ImageCanvas, args Args) error {
	x, err := requireInt(args, "x")
	if err != nil {
		return err
	}
	y, err := requireInt(args, "y")
	if err != nil {
		return err
	}
	r, err := requireInt(args, "r")
	if err != nil {
		return err
	}
	d1, _ := args.Float("d1")
	d2, ok := args.Float("d2")
	if !ok {
		d2 = 360
	}
	col := args.Color("color")
	pts := arcPoints(x, y, r, d1, d2)
	if args.Bool("filled", true) {
		pie := append([]image.Point{{x, y}}, pts...)
		fillPolygon(c, pie, col)
		for i := 1; i < len(pie); i++ {
			strokeLine(c, pie[i-1].X, pie[i-1].Y, pie[i].X, pie[i].Y, col)
		}
		strokeLine(c, pie[len(pie)-1].X, pie[len(pie)-1].Y, x, y, col)
		return nil
	}
	for i := 1; i < len(pts); i++ {
		strokeLine(c, pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, col)
	}
	return nil
}

func drawCircle(c *ImageCanvas, args Args) error {
	x, err := requireInt(args, "x")
	if err != nil {
		return err
	}
	y, err := requireInt(args, "y")
	if err != nil {
		return err
	}
	r, err := requireInt(args, "r")
	if err != nil {
		return err
	}
	col := args.Color("color")
	if args.Bool("filled", true) {
		for dy := -r; dy <= r; dy++ {
			dx := int(math.Sqrt(float64(r*r - dy*dy)))
			hline(c, x-dx, x+dx, y+dy, col)
		}
		return nil
	}
	strokeCircle(c, x, y, r, col)
	return nil
}

func drawFloodFill(c *ImageCanvas, args Args) error {
	x, err := requireInt(args, "x")
	if err != nil {
		return err
	}
	y, err := requireInt(args, "y")
	if err != nil {
		return err
	}
	floodFill(c, x, y, args.Color("color"))
	return nil
}

func hline(c *ImageCanvas, x0, x1, y int, col color.NRGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	for x := x0; x <= x1; x++ {
		c.SetPixel(x, y, col)
	}
}

func strokeLine(c *ImageCanvas, x0, y0, x1, y1 int, col color.NRGBA) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx - dy
	for {
		c.SetPixel(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 > -dy {
			e -= dy
			x0 += sx
		}
		if e2 < dx {
			e += dx
			y0 += sy
		}
	}
}

func strokeCircle(c *ImageCanvas, cx, cy, r int, col color.NRGBA) {
	x, y, e := r, 0, 1-r
	for x >= y {
		c.SetPixel(cx+x, cy+y, col)
		c.SetPixel(cx+y, cy+x, col)
		c.SetPixel(cx-y, cy+x, col)
		c.SetPixel(cx-x, cy+y, col)
		c.SetPixel(cx-x, cy-y, col)
		c.SetPixel(cx-y, cy-x, col)
		c.SetPixel(cx+y, cy-x, col)
		c.SetPixel(cx+x, cy-y, col)
		y++
		if e < 0 {
			e += 2*y + 1
		} else {
			x--
			e += 2*(y-x) + 1
		}
	}
}

func arcPoints(cx, cy, r int, d1, d2 float64) []image.Point {
	if d2 < d1 {
		d1, d2 = d2, d1
	}
	if d2-d1 > 360 {
		d2 = d1 + 360
	}
	var pts []image.Point
	for d := d1; ; d++ {
		if d > d2 {
			d = d2
		}
		rad := d * math.Pi / 180
		p := image.Point{
			X: cx + int(math.Round(float64(r)*math.Cos(rad))),
			Y: cy + int(math.Round(float64(r)*math.Sin(rad))),
		}
		if len(pts) == 0 || pts[len(pts)-1] != p {
			pts = append(pts, p)
		}
		if d >= d2 {
			return pts
		}
	}
}

// fillPolygon fills with the even-odd rule, sampling scanlines at pixel
// centers.
func fillPolygon(c *ImageCanvas, pts []image.Point, col color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	for y := minY; y <= maxY; y++ {
		yc := float64(y) + 0.5
		var xs []float64
		for i := range pts {
			p0, p1 := pts[i], pts[(i+1)%len(pts)]
			y0, y1 := float64(p0.Y), float64(p1.Y)
			if (yc >= y0) == (yc >= y1) {
				continue
			}
			t := (yc - y0) / (y1 - y0)
			xs = append(xs, float64(p0.X)+t*float64(p1.X-p0.X))
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := int(math.Ceil(xs[i] - 0.5))
			x1 := int(math.Floor(xs[i+1] - 0.5))
			hline(c, x0, x1, y, col)
		}
	}
}

func floodFill(c *ImageCanvas, x, y int, col color.NRGBA) {
	if !(image.Point{x, y}.In(c.img.Bounds())) {
		return
	}
	target := c.img.NRGBAAt(x, y)
	if target == col {
		return
	}
	queue := []image.Point{{x, y}}
	for len(queue) > 0 {
		p := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if !(p.In(c.img.Bounds())) || c.img.NRGBAAt(p.X, p.Y) != target {
			continue
		}
		c.img.SetNRGBA(p.X, p.Y, col)
		queue = append(queue,
			image.Point{p.X + 1, p.Y},
			image.Point{p.X - 1, p.Y},
			image.Point{p.X, p.Y + 1},
			image.Point{p.X, p.Y - 1})
	}
}
