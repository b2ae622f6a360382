package render

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"bitbucket.org/kleinnic74/tilemap/canvas"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// Command is one drawing instruction of a script: the primitive name and
// its arguments as decoded from JSON.
type Command struct {
	Op   string                 `json:"op"`
	Args map[string]interface{} `json:"args"`
}

// ReadScript decodes a JSON array of drawing commands.
func ReadScript(r io.Reader) ([]Command, error) {
	var cmds []Command
	if err := json.NewDecoder(r).Decode(&cmds); err != nil {
		return nil, fmt.Errorf("invalid drawing script: %w", err)
	}
	return cmds, nil
}

// Run executes the commands of a script in order, stopping at the first
// failure.
func (l *Level) Run(ctx context.Context, cmds []Command) error {
	for i, cmd := range cmds {
		args, err := decodeScriptArgs(cmd.Args)
		if err != nil {
			return fmt.Errorf("command %d '%s': %w", i, cmd.Op, err)
		}
		if err := l.Draw(ctx, cmd.Op, args); err != nil {
			return fmt.Errorf("command %d '%s': %w", i, cmd.Op, err)
		}
	}
	l.log.Info("Script executed", zap.Int("commands", len(cmds)))
	return nil
}

// decodeScriptArgs rewrites generic JSON shapes into the argument types the
// drawing layer expects: nested [lon,lat] pairs under "points" become
// geographic points, flat numeric arrays become coordinate arrays.
func decodeScriptArgs(raw map[string]interface{}) (canvas.Args, error) {
	args := make(canvas.Args, len(raw))
	for key, v := range raw {
		arr, ok := v.([]interface{})
		if !ok {
			args[key] = v
			continue
		}
		if key == "points" {
			pts, err := decodePoints(arr)
			if err != nil {
				return nil, err
			}
			args[key] = pts
			continue
		}
		nums, err := decodeFloats(key, arr)
		if err != nil {
			return nil, err
		}
		args[key] = nums
	}
	return args, nil
}

func decodePoints(raw []interface{}) ([]orb.Point, error) {
	pts := make([]orb.Point, 0, len(raw))
	for i, e := range raw {
		pair, ok := e.([]interface{})
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("point %d: expected a [lon,lat] pair", i)
		}
		lon, okx := pair[0].(float64)
		lat, oky := pair[1].(float64)
		if !okx || !oky {
			return nil, fmt.Errorf("point %d: coordinates must be numbers", i)
		}
		pts = append(pts, orb.Point{lon, lat})
	}
	return pts, nil
}

func decodeFloats(key string, raw []interface{}) ([]float64, error) {
	nums := make([]float64, len(raw))
	for i, e := range raw {
		n, ok := e.(float64)
		if !ok {
			return nil, fmt.Errorf("argument '%s'[%d]: expected a number", key, i)
		}
		nums[i] = n
	}
	return nums, nil
}
