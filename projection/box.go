package projection

import (
	"fmt"
	"image"
)

// Box is an axis-aligned rectangle in global pixel space with inclusive
// extents: a box with Left==Right and Top==Bottom covers exactly one pixel.
type Box struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

func BoxAround(px Pixel) Box {
	return Box{Left: px.X, Top: px.Y, Right: px.X, Bottom: px.Y}
}

func (b Box) Width() int {
	return 1 + b.Right - b.Left
}

func (b Box) Height() int {
	return 1 + b.Bottom - b.Top
}

func (b Box) String() string {
	return fmt.Sprintf("[%d,%d]-[%d,%d]", b.Left, b.Top, b.Right, b.Bottom)
}

// Extend grows the box to include the given pixel.
func (b Box) Extend(px Pixel) Box {
	if px.X < b.Left {
		b.Left = px.X
	}
	if px.X > b.Right {
		b.Right = px.X
	}
	if px.Y < b.Top {
		b.Top = px.Y
	}
	if px.Y > b.Bottom {
		b.Bottom = px.Y
	}
	return b
}

// Grow expands the box by r pixels in every direction.
func (b Box) Grow(r int) Box {
	return Box{Left: b.Left - r, Top: b.Top - r, Right: b.Right + r, Bottom: b.Bottom + r}
}

// Intersect returns the overlap of two boxes. The second return value is
// false if they do not overlap.
func (b Box) Intersect(other Box) (Box, bool) {
	i := Box{
		Left:   max(b.Left, other.Left),
		Top:    max(b.Top, other.Top),
		Right:  min(b.Right, other.Right),
		Bottom: min(b.Bottom, other.Bottom),
	}
	if i.Left > i.Right || i.Top > i.Bottom {
		return Box{}, false
	}
	return i, true
}

// Clamp restricts the box to the pixel bounds of the level.
func (b Box) Clamp(p Projection) Box {
	limit := p.MapSize() - 1
	if b.Left < 0 {
		b.Left = 0
	}
	if b.Top < 0 {
		b.Top = 0
	}
	if b.Right > limit {
		b.Right = limit
	}
	if b.Bottom > limit {
		b.Bottom = limit
	}
	return b
}

// Rect converts the box to an image.Rectangle with exclusive maximum.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.Left, b.Top, b.Right+1, b.Bottom+1)
}
