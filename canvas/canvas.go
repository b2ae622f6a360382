// Package canvas provides the raster drawing capability used by the level
// renderer: fixed-size pixel canvases with named drawing primitives, crop
// and compose operations, and gift-backed whole-canvas filters.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Canvas is a rectangular raster that executes named drawing primitives.
// Coordinates in the Args passed to Draw are canvas-local.
type Canvas interface {
	Width() int
	Height() int
	Draw(op string, args Args) error
	Crop(r image.Rectangle) Canvas
	Compose(at image.Point, src Canvas, op Operator) error
	ApplyFilter(args Args) error
	Colourise(args Args) error
	Pixel(x, y int) color.NRGBA
	SetPixel(x, y int, c color.NRGBA)
	Image() *image.NRGBA
}

// Factory allocates a canvas of the given size.
type Factory func(width, height int) (Canvas, error)

// AllocationError reports a canvas that could not be allocated, typically
// because a drawing command produced a pathological bounding box.
type AllocationError struct {
	Width  int
	Height int
}

func (e AllocationError) Error() string {
	return fmt.Sprintf("cannot allocate %dx%d canvas", e.Width, e.Height)
}

// UnknownPrimitive is returned when an unregistered drawing primitive is
// named.
type UnknownPrimitive string

func (e UnknownPrimitive) Error() string {
	return fmt.Sprintf("unknown drawing primitive '%s'", string(e))
}

// maxPixels caps a single canvas allocation. A primitive whose bounding box
// exceeds this cannot be rasterized in one pass; geometry is never
// truncated to fit, the caller gets an AllocationError instead.
const maxPixels = 1 << 26

var whiteFill = image.NewUniform(color.NRGBA{0xff, 0xff, 0xff, 0xff})

// ImageCanvas is the default in-memory Canvas backed by an NRGBA image.
type ImageCanvas struct {
	img *image.NRGBA
}

// New allocates a canvas of the given size, filled white. White is the
// neutral colour of the default darken operator, so untouched canvas area
// leaves composited tiles unchanged.
func New(width, height int) (Canvas, error) {
	if width <= 0 || height <= 0 || width > maxPixels/height {
		return nil, AllocationError{Width: width, Height: height}
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), whiteFill, image.Point{}, draw.Src)
	return &ImageCanvas{img: img}, nil
}

// FromImage wraps an existing image in a canvas, converting to NRGBA if
// needed.
func FromImage(img image.Image) Canvas {
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Bounds().Min == (image.Point{}) {
		return &ImageCanvas{img: nrgba}
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &ImageCanvas{img: dst}
}

func (c *ImageCanvas) Width() int {
	return c.img.Bounds().Dx()
}

func (c *ImageCanvas) Height() int {
	return c.img.Bounds().Dy()
}

func (c *ImageCanvas) Image() *image.NRGBA {
	return c.img
}

func (c *ImageCanvas) Pixel(x, y int) color.NRGBA {
	if !(image.Point{x, y}.In(c.img.Bounds())) {
		return color.NRGBA{}
	}
	return c.img.NRGBAAt(x, y)
}

func (c *ImageCanvas) SetPixel(x, y int, col color.NRGBA) {
	if !(image.Point{x, y}.In(c.img.Bounds())) {
		return
	}
	c.img.SetNRGBA(x, y, col)
}

// Draw executes the named primitive with canvas-local arguments.
func (c *ImageCanvas) Draw(op string, args Args) error {
	f, ok := primitives[op]
	if !ok {
		return UnknownPrimitive(op)
	}
	return f(c, args)
}

// Supports reports whether the named primitive is registered. Dispatch
// tables are validated against this at construction time rather than on
// every call.
func Supports(op string) bool {
	_, ok := primitives[op]
	return ok
}

// Crop returns a new canvas holding a copy of the given region.
func (c *ImageCanvas) Crop(r image.Rectangle) Canvas {
	r = r.Intersect(c.img.Bounds())
	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), c.img, r.Min, draw.Src)
	return &ImageCanvas{img: dst}
}

// Compose writes src onto this canvas with its top-left corner at the given
// position, combining pixels with the operator.
func (c *ImageCanvas) Compose(at image.Point, src Canvas, op Operator) error {
	if op == nil {
		return fmt.Errorf("missing blend operator")
	}
	s := src.Image()
	sb := s.Bounds()
	for dy := 0; dy < sb.Dy(); dy++ {
		for dx := 0; dx < sb.Dx(); dx++ {
			x, y := at.X+dx, at.Y+dy
			if !(image.Point{x, y}.In(c.img.Bounds())) {
				continue
			}
			sp := s.NRGBAAt(sb.Min.X+dx, sb.Min.Y+dy)
			c.img.SetNRGBA(x, y, op(c.img.NRGBAAt(x, y), sp))
		}
	}
	return nil
}
