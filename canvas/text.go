package canvas

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var face = basicfont.Face7x13

// TextExtent returns the pixel width, ascent and descent of the given
// string when rendered with the built-in face.
func TextExtent(s string) (width, ascent, descent int) {
	width = font.MeasureString(face, s).Ceil()
	m := face.Metrics()
	return width, m.Ascent.Ceil(), m.Descent.Ceil()
}

// TextBounds returns the pixel rectangle covered by a string anchored at
// (x,y) with the given alignment. halign is one of left, center, right;
// valign is one of baseline, top, center, bottom. Empty strings mean left
// and baseline.
func TextBounds(s string, x, y int, halign, valign string) (image.Rectangle, error) {
	w, ascent, descent := TextExtent(s)
	dotX, dotY := x, y
	switch halign {
	case "", "left":
	case "center":
		dotX = x - w/2
	case "right":
		dotX = x - w + 1
	default:
		return image.Rectangle{}, fmt.Errorf("invalid horizontal alignment '%s'", halign)
	}
	h := ascent + descent
	switch valign {
	case "", "baseline":
	case "top":
		dotY = y + ascent
	case "center":
		dotY = y + ascent - h/2
	case "bottom":
		dotY = y - descent
	default:
		return image.Rectangle{}, fmt.Errorf("invalid vertical alignment '%s'", valign)
	}
	return image.Rect(dotX, dotY-ascent, dotX+w, dotY+descent), nil
}

func drawText(c *ImageCanvas, args Args) error {
	return drawString(c, args, "", "")
}

func drawTextAligned(c *ImageCanvas, args Args) error {
	halign, _ := args.String("halign")
	valign, _ := args.String("valign")
	return drawString(c, args, halign, valign)
}

func drawString(c *ImageCanvas, args Args, halign, valign string) error {
	s, ok := args.String("text")
	if !ok {
		return fmt.Errorf("missing argument 'text'")
	}
	x, err := requireInt(args, "x")
	if err != nil {
		return err
	}
	y, err := requireInt(args, "y")
	if err != nil {
		return err
	}
	bounds, err := TextBounds(s, x, y, halign, valign)
	if err != nil {
		return err
	}
	_, ascent, _ := TextExtent(s)
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(args.Color("color")),
		Face: face,
		Dot:  fixed.P(bounds.Min.X, bounds.Min.Y+ascent),
	}
	d.DrawString(s)
	return nil
}
