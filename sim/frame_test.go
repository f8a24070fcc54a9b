package sim

import (
	"encoding/json"
	"testing"

	"github.com/beka-birhanu/gridbot/robot"
	"github.com/beka-birhanu/gridbot/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisualAtPrecedence(t *testing.T) {
	cells := [][]world.CellState{
		{world.Home, world.MarkerCell, world.Empty},
		{world.Empty, world.MarkerCell, world.Empty},
		{world.Empty, world.Empty, world.Empty},
	}
	f := Frame{
		Size:  3,
		Cells: cells,
		Robot: robot.State{Pos: world.Position{X: 1, Y: 1}, Home: world.Position{X: 0, Y: 0}},
	}

	assert.Equal(t, VisualHome, f.VisualAt(0, 0))
	assert.Equal(t, VisualMarker, f.VisualAt(1, 0))
	assert.Equal(t, VisualRobot, f.VisualAt(1, 1), "robot hides marker")
	assert.Equal(t, VisualEmpty, f.VisualAt(2, 2))
	assert.Equal(t, VisualEmpty, f.VisualAt(5, 5))

	f.Robot.Pos = world.Position{}
	f.Robot.Carrying = true
	assert.Equal(t, VisualRobotCarrying, f.VisualAt(0, 0), "robot hides home")

	// Home wins over a marker-state cell.
	f.Robot.Pos = world.Position{X: 2, Y: 2}
	f.Robot.Home = world.Position{X: 1, Y: 0}
	assert.Equal(t, VisualHome, f.VisualAt(1, 0))
}

func TestFrameText(t *testing.T) {
	s, err := New(Config{GridSize: 3, Facing: world.Down, Markers: []world.Position{{X: 2, Y: 1}}})
	require.NoError(t, err)

	assert.Equal(t, "R..\n..M\n...\n", s.Frame().Text())

	_, err = s.Step()
	require.NoError(t, err)
	assert.Equal(t, "H..\nR.M\n...\n", s.Frame().Text())
}

func TestFrameJSON(t *testing.T) {
	s, err := New(Config{GridSize: 2, Facing: world.Down, Markers: []world.Position{{X: 1, Y: 1}}})
	require.NoError(t, err)

	b, err := json.Marshal(s.Frame())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "searching", decoded["state"])
	assert.Equal(t, "start", decoded["event"])
	assert.Equal(t, []any{[]any{"Robot", "Empty"}, []any{"Empty", "Marker"}}, decoded["cells"])

	r := decoded["robot"].(map[string]any)
	assert.Equal(t, "Down", r["facing"])
}
