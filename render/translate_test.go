package render

import (
	"context"
	"testing"

	"bitbucket.org/kleinnic74/tilemap/canvas"
	"bitbucket.org/kleinnic74/tilemap/projection"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func levelAtZoom(t *testing.T, zoom int, centroid orb.Point) *Level {
	t.Helper()
	l, err := NewLevel(context.Background(), Config{Zoom: zoom, Centroid: centroid}, newMemStore())
	require.NoError(t, err)
	return l
}

func TestTranslateScalarPair(t *testing.T) {
	l := levelAtZoom(t, 1, orb.Point{})
	out, err := l.translate(canvas.Args{"x": 0.0, "y": 0.0, "color": "#ff0000"})
	require.NoError(t, err)
	assert.Equal(t, 256, out["x"])
	assert.Equal(t, 256, out["y"])
	assert.Equal(t, "#ff0000", out["color"], "non-geographic slots pass through")
}

func TestTranslateBoxPairs(t *testing.T) {
	// A south-west/north-east corner pair flips on the y axis when
	// projected; translation leaves the corners as projected, consumers
	// normalize per axis.
	l := levelAtZoom(t, 1, orb.Point{})
	out, err := l.translate(canvas.Args{
		"xmin": -10.0, "ymin": -10.0,
		"xmax": 10.0, "ymax": 10.0,
	})
	require.NoError(t, err)
	xmin, ymin := out["xmin"].(int), out["ymin"].(int)
	xmax, ymax := out["xmax"].(int), out["ymax"].(int)
	assert.Less(t, xmin, xmax)
	assert.Greater(t, ymin, ymax)
	assert.Equal(t, 512, ymin+ymax, "corners sit symmetric around the equator")
}

func TestTranslateUnpairedSlotPassesThrough(t *testing.T) {
	l := levelAtZoom(t, 1, orb.Point{})
	out, err := l.translate(canvas.Args{"x": 5.0})
	require.NoError(t, err)
	assert.Equal(t, 5.0, out["x"])
}

func TestTranslateMixedPairRejected(t *testing.T) {
	l := levelAtZoom(t, 1, orb.Point{})
	_, err := l.translate(canvas.Args{"x1": 1.0, "y1": []float64{1, 2}})
	var mixed MixedPairError
	require.ErrorAs(t, err, &mixed)
	assert.Equal(t, "x1", mixed.XKey)
}

func TestTranslateParallelArraysPadShorter(t *testing.T) {
	l := levelAtZoom(t, 3, orb.Point{})
	out, err := l.translate(canvas.Args{
		"x": []float64{-180, 0, 90},
		"y": []float64{0},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1024, 1536}, out["x"])
	assert.Equal(t, []int{1024, 1024, 1024}, out["y"])
}

func TestTranslateEmptyArrayRejected(t *testing.T) {
	l := levelAtZoom(t, 3, orb.Point{})
	_, err := l.translate(canvas.Args{
		"x": []float64{},
		"y": []float64{1, 2},
	})
	var empty EmptyCoordinateArrayError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, "x", string(empty))

	_, err = l.translate(canvas.Args{
		"x": []float64{1, 2},
		"y": []float64{},
	})
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, "y", string(empty))
}

func TestTranslatePointList(t *testing.T) {
	l := levelAtZoom(t, 3, orb.Point{})
	out, err := l.translate(canvas.Args{"points": []orb.Point{
		{-180, 0},
		{-180, 0.0000001}, // collapses onto the previous pixel
		{0, 0},
	}})
	require.NoError(t, err)
	assert.Equal(t, []projection.Pixel{
		{X: 0, Y: 1024},
		{X: 1024, Y: 1024},
	}, out["points"])
}

func TestSimplifyIdempotent(t *testing.T) {
	pts := []projection.Pixel{
		{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 1},
	}
	want := []projection.Pixel{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 1}}
	once := simplify(pts)
	assert.Equal(t, want, once)
	assert.Equal(t, want, simplify(once))
	assert.Empty(t, simplify(nil))
}

func TestTranslateRadiusAtCommandLatitude(t *testing.T) {
	l := levelAtZoom(t, 0, orb.Point{})
	// ~2 pixels of ground distance at the equator at zoom 0.
	out, err := l.translate(canvas.Args{"x": 0.0, "y": 0.0, "radius": 313086.0})
	require.NoError(t, err)
	assert.Equal(t, 2, out["r"])
	assert.NotContains(t, out, "radius")
	assert.NotContains(t, out, "minradius")
}

func TestTranslateRadiusFloor(t *testing.T) {
	l := levelAtZoom(t, 0, orb.Point{})
	out, err := l.translate(canvas.Args{"x": 0.0, "y": 0.0, "radius": 1.0, "minradius": 3})
	require.NoError(t, err)
	assert.Equal(t, 3, out["r"])
}

func TestTranslateRadiusFallsBackToCentroid(t *testing.T) {
	// At latitude 60 the ground resolution is half the equatorial one, so
	// the same distance covers twice the pixels.
	l := levelAtZoom(t, 0, orb.Point{10, 60})
	out, err := l.translate(canvas.Args{"radius": 313086.0})
	require.NoError(t, err)
	assert.Equal(t, 4, out["r"])
}
