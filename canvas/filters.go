package canvas

import (
	"fmt"
	"image"

	"github.com/disintegration/gift"
)

// UnknownFilter is returned when an unregistered filter is named.
type UnknownFilter string

func (e UnknownFilter) Error() string {
	return fmt.Sprintf("unknown filter '%s'", string(e))
}

// ApplyFilter runs a named whole-canvas filter. The filter name is read
// from the "filter" slot, remaining slots parameterize it.
func (c *ImageCanvas) ApplyFilter(args Args) error {
	name, _ := args.String("filter")
	var f gift.Filter
	switch name {
	case "gaussian", "blur":
		sigma, ok := args.Float("sigma")
		if !ok {
			sigma = 1.0
		}
		f = gift.GaussianBlur(float32(sigma))
	case "grayscale", "greyscale":
		f = gift.Grayscale()
	case "invert":
		f = gift.Invert()
	case "sepia":
		percent, ok := args.Float("percent")
		if !ok {
			percent = 100
		}
		f = gift.Sepia(float32(percent))
	case "contrast":
		amount, _ := args.Float("amount")
		f = gift.Contrast(float32(amount))
	case "brightness":
		amount, _ := args.Float("amount")
		f = gift.Brightness(float32(amount))
	case "saturation":
		amount, _ := args.Float("amount")
		f = gift.Saturation(float32(amount))
	default:
		return UnknownFilter(name)
	}
	c.apply(gift.New(f))
	return nil
}

// Colourise shifts the colour balance of the whole canvas. The "r", "g" and
// "b" slots hold per-channel percentages in [-100,500].
func (c *ImageCanvas) Colourise(args Args) error {
	r, _ := args.Float("r")
	g, _ := args.Float("g")
	b, _ := args.Float("b")
	c.apply(gift.New(gift.ColorBalance(float32(r), float32(g), float32(b))))
	return nil
}

func (c *ImageCanvas) apply(g *gift.GIFT) {
	dst := image.NewNRGBA(g.Bounds(c.img.Bounds()))
	g.Draw(dst, c.img)
	c.img = dst
}
