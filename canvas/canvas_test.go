package canvas

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	black = color.NRGBA{0, 0, 0, 0xff}
	white = color.NRGBA{0xff, 0xff, 0xff, 0xff}
	red   = color.NRGBA{0xff, 0, 0, 0xff}
	blue  = color.NRGBA{0, 0, 0xff, 0xff}
)

func newCanvas(t *testing.T, w, h int) Canvas {
	t.Helper()
	c, err := New(w, h)
	require.NoError(t, err)
	return c
}

func TestNewFillsWhite(t *testing.T) {
	c := newCanvas(t, 4, 4)
	assert.Equal(t, white, c.Pixel(0, 0))
	assert.Equal(t, white, c.Pixel(3, 3))
}

func TestNewRejectsPathologicalSizes(t *testing.T) {
	for _, size := range [][2]int{{0, 10}, {-3, 4}, {1 << 20, 1 << 20}} {
		_, err := New(size[0], size[1])
		var alloc AllocationError
		require.ErrorAs(t, err, &alloc)
	}
}

func TestDrawUnknownPrimitive(t *testing.T) {
	c := newCanvas(t, 4, 4)
	err := c.Draw("spline", Args{})
	assert.ErrorIs(t, err, UnknownPrimitive("spline"))
	assert.False(t, Supports("spline"))
	assert.True(t, Supports("line"))
}

func TestDrawLine(t *testing.T) {
	c := newCanvas(t, 10, 10)
	err := c.Draw("line", Args{"x1": 0, "y1": 5, "x2": 9, "y2": 5, "color": black})
	require.NoError(t, err)
	for x := 0; x < 10; x++ {
		assert.Equal(t, black, c.Pixel(x, 5), "pixel %d,5", x)
	}
	assert.Equal(t, white, c.Pixel(0, 4))
}

func TestDrawBoxFilled(t *testing.T) {
	c := newCanvas(t, 8, 8)
	err := c.Draw("box", Args{"xmin": 2, "ymin": 2, "xmax": 5, "ymax": 5, "color": red, "filled": true})
	require.NoError(t, err)
	assert.Equal(t, red, c.Pixel(3, 3))
	assert.Equal(t, red, c.Pixel(2, 5))
	assert.Equal(t, white, c.Pixel(6, 3))
}

func TestDrawBoxOutline(t *testing.T) {
	c := newCanvas(t, 8, 8)
	err := c.Draw("box", Args{"xmin": 1, "ymin": 1, "xmax": 6, "ymax": 6, "color": black})
	require.NoError(t, err)
	assert.Equal(t, black, c.Pixel(1, 3))
	assert.Equal(t, black, c.Pixel(3, 6))
	assert.Equal(t, white, c.Pixel(3, 3))
}

func TestDrawCircleFilled(t *testing.T) {
	c := newCanvas(t, 21, 21)
	err := c.Draw("circle", Args{"x": 10, "y": 10, "r": 5, "color": blue})
	require.NoError(t, err)
	assert.Equal(t, blue, c.Pixel(10, 10))
	assert.Equal(t, blue, c.Pixel(15, 10))
	assert.Equal(t, white, c.Pixel(17, 10))
}

func TestDrawPolygonFilled(t *testing.T) {
	c := newCanvas(t, 12, 12)
	square := []image.Point{{2, 2}, {9, 2}, {9, 9}, {2, 9}}
	err := c.Draw("polygon", Args{"points": square, "color": black})
	require.NoError(t, err)
	assert.Equal(t, black, c.Pixel(5, 5))
	assert.Equal(t, black, c.Pixel(2, 2))
	assert.Equal(t, white, c.Pixel(10, 10))
}

func TestDrawPolylineFromCoordinateArrays(t *testing.T) {
	c := newCanvas(t, 10, 10)
	// The shorter array repeats its last value
	err := c.Draw("polyline", Args{"x": []int{0, 9}, "y": []int{4}, "color": black})
	require.NoError(t, err)
	for x := 0; x < 10; x++ {
		assert.Equal(t, black, c.Pixel(x, 4))
	}
}

func TestFloodFill(t *testing.T) {
	c := newCanvas(t, 10, 10)
	require.NoError(t, c.Draw("box", Args{"xmin": 2, "ymin": 2, "xmax": 7, "ymax": 7, "color": black}))
	require.NoError(t, c.Draw("flood_fill", Args{"x": 4, "y": 4, "color": red}))
	assert.Equal(t, red, c.Pixel(4, 4))
	assert.Equal(t, red, c.Pixel(6, 6))
	// The border and the outside keep their colours
	assert.Equal(t, black, c.Pixel(2, 4))
	assert.Equal(t, white, c.Pixel(0, 0))
}

func TestComposeDarken(t *testing.T) {
	dst := newCanvas(t, 4, 4)
	src := newCanvas(t, 2, 2)
	src.SetPixel(0, 0, color.NRGBA{10, 200, 10, 0xff})
	dst.SetPixel(1, 1, color.NRGBA{100, 100, 100, 0xff})

	op, err := OperatorByName("darken")
	require.NoError(t, err)
	require.NoError(t, dst.Compose(image.Pt(1, 1), src, op))
	assert.Equal(t, color.NRGBA{10, 100, 10, 0xff}, dst.Pixel(1, 1))
	// White source pixels leave the destination untouched
	assert.Equal(t, white, dst.Pixel(2, 2))

	assert.Error(t, dst.Compose(image.Pt(0, 0), src, nil))
}

func TestOperatorByName(t *testing.T) {
	op, err := OperatorByName("")
	require.NoError(t, err)
	assert.Equal(t, black, op(black, white))

	_, err = OperatorByName("dissolve")
	assert.ErrorIs(t, err, UnknownOperator("dissolve"))
}

func TestCropCopies(t *testing.T) {
	c := newCanvas(t, 10, 10)
	c.SetPixel(5, 5, red)
	crop := c.Crop(image.Rect(4, 4, 8, 8))
	assert.Equal(t, 4, crop.Width())
	assert.Equal(t, 4, crop.Height())
	assert.Equal(t, red, crop.Pixel(1, 1))
	// Mutating the crop must not write through to the source
	crop.SetPixel(0, 0, blue)
	assert.Equal(t, white, c.Pixel(4, 4))
}

func TestTextBounds(t *testing.T) {
	r, err := TextBounds("ab", 100, 50, "", "")
	require.NoError(t, err)
	w, ascent, descent := TextExtent("ab")
	assert.Equal(t, image.Rect(100, 50-ascent, 100+w, 50+descent), r)

	centered, err := TextBounds("ab", 100, 50, "center", "center")
	require.NoError(t, err)
	assert.Equal(t, r.Dx(), centered.Dx())

	_, err = TextBounds("ab", 0, 0, "justified", "")
	assert.Error(t, err)
}

func TestDrawTextMarksPixels(t *testing.T) {
	c := newCanvas(t, 40, 20)
	require.NoError(t, c.Draw("text", Args{"x": 2, "y": 15, "text": "X", "color": black}))
	marked := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			if c.Pixel(x, y) == black {
				marked++
			}
		}
	}
	assert.Greater(t, marked, 0)
}

func TestApplyFilter(t *testing.T) {
	c := newCanvas(t, 4, 4)
	c.SetPixel(1, 1, red)
	require.NoError(t, c.ApplyFilter(Args{"filter": "grayscale"}))
	px := c.Pixel(1, 1)
	assert.Equal(t, px.R, px.G)
	assert.Equal(t, px.G, px.B)

	err := c.ApplyFilter(Args{"filter": "emboss"})
	assert.ErrorIs(t, err, UnknownFilter("emboss"))
}

func TestColourise(t *testing.T) {
	c := newCanvas(t, 2, 2)
	c.SetPixel(0, 0, color.NRGBA{100, 100, 100, 0xff})
	require.NoError(t, c.Colourise(Args{"r": 50.0}))
	px := c.Pixel(0, 0)
	assert.Greater(t, px.R, px.G)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{0xff, 0x80, 0x00, 0xff}, c)

	c, err = ParseColor("#11223344")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{0x11, 0x22, 0x33, 0x44}, c)

	_, err = ParseColor("red")
	assert.Error(t, err)
}
