package render

import (
	"context"
	"strings"
	"testing"

	"bitbucket.org/kleinnic74/tilemap/projection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScript = `[
  {"op": "polyline", "args": {"points": [[-180, 0], [0, 0], [90, 45]], "color": "#0000ff"}},
  {"op": "circle", "args": {"x": 0, "y": 0, "r": 4}},
  {"op": "box", "args": {"xmin": -10, "ymin": -10, "xmax": 10, "ymax": 10, "minlevel": 9}}
]`

func TestReadScript(t *testing.T) {
	cmds, err := ReadScript(strings.NewReader(sampleScript))
	require.NoError(t, err)
	require.Len(t, cmds, 3)
	assert.Equal(t, "polyline", cmds[0].Op)
	assert.Equal(t, "circle", cmds[1].Op)

	_, err = ReadScript(strings.NewReader(`{"op": "line"}`))
	assert.Error(t, err, "a script must be an array of commands")
}

func TestRunScript(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	l, err := NewLevel(ctx, Config{Zoom: 1}, st)
	require.NoError(t, err)

	cmds, err := ReadScript(strings.NewReader(sampleScript))
	require.NoError(t, err)
	require.NoError(t, l.Run(ctx, cmds))

	assert.NotEmpty(t, l.Touched())
	// The polyline starts at the west edge of tile (0,0).
	quadkey := l.Projection().Quadkey(projection.Tile{Column: 0, Row: 0})
	assert.Contains(t, st.persisted, quadkey)
}

func TestRunScriptRejectsBadGeometry(t *testing.T) {
	ctx := context.Background()
	l, err := NewLevel(ctx, Config{Zoom: 1}, newMemStore())
	require.NoError(t, err)

	cmds := []Command{{Op: "points", Args: map[string]interface{}{
		"points": []interface{}{[]interface{}{1.0}},
	}}}
	err = l.Run(ctx, cmds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[lon,lat]")

	cmds = []Command{{Op: "nosuch", Args: map[string]interface{}{"x": 1.0, "y": 2.0}}}
	assert.Error(t, l.Run(ctx, cmds))
}
