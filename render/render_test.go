package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/beka-birhanu/gridbot/robot"
	"github.com/beka-birhanu/gridbot/sim"
	"github.com/beka-birhanu/gridbot/world"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrame() sim.Frame {
	return sim.Frame{
		Step:       3,
		State:      sim.Returning,
		Size:       2,
		CellPixels: 20,
		Cells: [][]world.CellState{
			{world.Home, world.Empty},
			{world.MarkerCell, world.Robot},
		},
		Robot: robot.State{
			Pos:      world.Position{X: 1, Y: 1},
			Home:     world.Position{},
			Facing:   world.Left,
			Carrying: true,
		},
		Remaining: 2,
	}
}

type canvasCall struct {
	op     string
	colour color.Color
	args   [4]int
}

type recordingCanvas struct {
	colour color.Color
	calls  []canvasCall
}

func (c *recordingCanvas) SetColour(col color.Color) { c.colour = col }

func (c *recordingCanvas) FillRect(x, y, w, h int) {
	c.calls = append(c.calls, canvasCall{"fill", c.colour, [4]int{x, y, w, h}})
}

func (c *recordingCanvas) DrawLine(x1, y1, x2, y2 int) {
	c.calls = append(c.calls, canvasCall{"line", c.colour, [4]int{x1, y1, x2, y2}})
}

func TestPainter(t *testing.T) {
	canvas := &recordingCanvas{}
	require.NoError(t, NewPainter(canvas).Render(testFrame()))

	fills := map[[2]int]color.Color{}
	lines := 0
	for _, c := range canvas.calls {
		switch c.op {
		case "fill":
			assert.Equal(t, 20, c.args[2])
			assert.Equal(t, 20, c.args[3])
			fills[[2]int{c.args[0], c.args[1]}] = c.colour
		case "line":
			assert.Equal(t, Black, c.colour)
			lines++
		}
	}

	assert.Equal(t, map[[2]int]color.Color{
		{0, 0}:   Red,
		{20, 0}:  White,
		{0, 20}:  Blue,
		{20, 20}: Green,
	}, fills)
	assert.Equal(t, 8, lines, "two border lines per cell")
}

func TestPainterWithoutCanvas(t *testing.T) {
	assert.ErrorIs(t, (&Painter{}).Render(testFrame()), ErrNoCanvas)
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, testFrame()))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 40, img.Bounds().Dy())

	// Inside the carrying robot's cell, away from the borders.
	r, g, b, _ := img.At(30, 30).RGBA()
	wr, wg, wb, _ := Green.RGBA()
	assert.Equal(t, []uint32{wr, wg, wb}, []uint32{r, g, b})

	// Top-left border pixel of the home cell.
	r, g, b, _ = img.At(0, 5).RGBA()
	assert.Equal(t, []uint32{0, 0, 0}, []uint32{r, g, b})
}

func TestTerminal(t *testing.T) {
	t.Run("mono", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewTerminal(&buf, false).Render(testFrame()))

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Len(t, lines, 3)
		// Rows are padded to the width of the status line.
		assert.Equal(t, "H .", strings.TrimRight(lines[0], " "))
		assert.Equal(t, "M C", strings.TrimRight(lines[1], " "))
		assert.Contains(t, lines[2], "step 3 returning")
		assert.Contains(t, lines[2], "carrying")
		assert.Contains(t, lines[2], "2 marker(s) left")
	})

	t.Run("colour", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewTerminal(&buf, true).ClearBetweenFrames(true).Render(testFrame()))

		out := buf.String()
		assert.True(t, strings.HasPrefix(out, clearScreen))
		lines := strings.Split(strings.TrimRight(strings.TrimPrefix(out, clearScreen), "\n"), "\n")
		assert.Len(t, lines, 3)
	})
}

type fakePublisher struct {
	channel string
	payload []byte
	err     error
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	p.channel = channel
	p.payload, _ = message.([]byte)
	cmd := redis.NewIntCmd(ctx, "publish", channel, message)
	if p.err != nil {
		cmd.SetErr(p.err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

func TestRedisPublisher(t *testing.T) {
	t.Run("publishes json frames", func(t *testing.T) {
		pub := &fakePublisher{}
		r := NewRedisPublisher(context.Background(), pub, "gridbot", "abc")
		assert.Equal(t, "gridbot:run:abc:frames", r.Channel())

		require.NoError(t, r.Render(testFrame()))
		assert.Equal(t, "gridbot:run:abc:frames", pub.channel)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(pub.payload, &decoded))
		assert.EqualValues(t, 3, decoded["step"])
		assert.Equal(t, "returning", decoded["state"])
		assert.Equal(t, "Left", decoded["robot"].(map[string]any)["facing"])
	})

	t.Run("wraps publish errors", func(t *testing.T) {
		boom := errors.New("connection refused")
		r := NewRedisPublisher(context.Background(), &fakePublisher{err: boom}, "gridbot", "abc")
		assert.ErrorIs(t, r.Render(testFrame()), boom)
	})
}

func TestMulti(t *testing.T) {
	boom := errors.New("boom")
	var calls int
	m := Multi{
		sim.RendererFunc(func(sim.Frame) error { calls++; return boom }),
		sim.RendererFunc(func(sim.Frame) error { calls++; return nil }),
	}
	assert.ErrorIs(t, m.Render(testFrame()), boom)
	assert.Equal(t, 2, calls)
	assert.NoError(t, Multi{}.Render(testFrame()))
}
