package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allDirections = []Direction{Up, Down, Right, Left}

func TestDirectionOrder(t *testing.T) {
	assert.Equal(t, Direction(0), Up)
	assert.Equal(t, Direction(1), Down)
	assert.Equal(t, Direction(2), Right)
	assert.Equal(t, Direction(3), Left)
}

func TestClockwise(t *testing.T) {
	t.Run("cycle", func(t *testing.T) {
		want := map[Direction]Direction{Up: Right, Right: Down, Down: Left, Left: Up}
		for from, to := range want {
			got, err := from.Clockwise()
			assert.NoError(t, err)
			assert.Equal(t, to, got)
		}
	})

	t.Run("four turns close", func(t *testing.T) {
		for _, start := range allDirections {
			d := start
			for i := 0; i < 4; i++ {
				var err error
				d, err = d.Clockwise()
				require.NoError(t, err)
			}
			assert.Equal(t, start, d)
		}
	})
}

func TestOpposite(t *testing.T) {
	for _, d := range allDirections {
		o, err := d.Opposite()
		require.NoError(t, err)
		assert.NotEqual(t, d, o)

		back, err := o.Opposite()
		require.NoError(t, err)
		assert.Equal(t, d, back)

		// A step followed by a step in the opposite direction is a no-op.
		p := Position{X: 5, Y: 5}
		there, _ := p.Step(d)
		again, _ := there.Step(o)
		assert.Equal(t, p, again)
	}
}

func TestInvalidDirection(t *testing.T) {
	bad := Direction(9)
	assert.False(t, bad.Valid())
	assert.Equal(t, "Direction(9)", bad.String())

	_, err := bad.Opposite()
	assert.ErrorIs(t, err, ErrInvalidDirection)
	_, err = bad.Clockwise()
	assert.ErrorIs(t, err, ErrInvalidDirection)
	_, err = bad.Delta()
	assert.ErrorIs(t, err, ErrInvalidDirection)
	_, err = Position{}.Step(bad)
	assert.ErrorIs(t, err, ErrInvalidDirection)
	_, err = bad.MarshalText()
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestParseDirection(t *testing.T) {
	tests := map[string]Direction{
		"up": Up, "Top": Up, "DOWN": Down, "bottom": Down, " right ": Right, "west": Left,
	}
	for in, want := range tests {
		got, err := ParseDirection(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDirection("sideways")
	assert.ErrorIs(t, err, ErrInvalidDirection)

	var d Direction
	require.NoError(t, d.UnmarshalText([]byte("left")))
	assert.Equal(t, Left, d)
	text, err := d.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "Left", string(text))
}
