package robot

import (
	"testing"

	"github.com/beka-birhanu/gridbot/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorld(t *testing.T, markers ...world.Position) *world.World {
	t.Helper()
	w, err := world.New(world.DefaultSize, world.Position{X: 0, Y: 0}, markers)
	require.NoError(t, err)
	return w
}

func cell(t *testing.T, w *world.World, x, y int) world.CellState {
	t.Helper()
	state, err := w.CellAt(x, y)
	require.NoError(t, err)
	return state
}

func TestNew(t *testing.T) {
	w := newWorld(t)

	_, err := New(w, world.Position{X: 10, Y: 0}, world.Down)
	assert.ErrorIs(t, err, world.ErrOutOfBounds)

	_, err = New(w, world.Position{}, world.Direction(4))
	assert.ErrorIs(t, err, world.ErrInvalidDirection)

	r, err := New(w, world.Position{}, world.Down)
	require.NoError(t, err)
	assert.Equal(t, world.Robot, cell(t, w, 0, 0))
	assert.True(t, r.IsAtHome())
	assert.Equal(t, State{Home: world.Position{}, Facing: world.Down}, r.State())
}

func TestForward(t *testing.T) {
	t.Run("updates cells", func(t *testing.T) {
		w := newWorld(t)
		r, _ := New(w, world.Position{}, world.Down)

		require.NoError(t, r.Forward())
		assert.Equal(t, world.Position{X: 0, Y: 1}, r.Pos())
		assert.Equal(t, world.Home, cell(t, w, 0, 0))
		assert.Equal(t, world.Robot, cell(t, w, 0, 1))
		assert.False(t, r.IsAtHome())
	})

	t.Run("passing over a marker leaves it in place", func(t *testing.T) {
		w := newWorld(t, world.Position{X: 1, Y: 0})
		r, _ := New(w, world.Position{}, world.Right)

		require.NoError(t, r.Forward())
		require.NoError(t, r.Forward())
		assert.Equal(t, world.MarkerCell, cell(t, w, 1, 0))
		_, ok := w.MarkerAt(1, 0)
		assert.True(t, ok)
	})

	t.Run("edge is refused without mutation", func(t *testing.T) {
		w := newWorld(t)
		r, _ := New(w, world.Position{X: 9, Y: 4}, world.Right)

		assert.False(t, r.CanMoveForward())
		err := r.Forward()
		assert.ErrorIs(t, err, world.ErrOutOfBounds)
		assert.Equal(t, world.Position{X: 9, Y: 4}, r.Pos())
		assert.Equal(t, world.Robot, cell(t, w, 9, 4))
	})

	t.Run("invalid facing aborts", func(t *testing.T) {
		w := newWorld(t)
		r, _ := New(w, world.Position{X: 3, Y: 3}, world.Up)
		r.facing = world.Direction(12)

		assert.ErrorIs(t, r.Forward(), world.ErrInvalidDirection)
		assert.ErrorIs(t, r.TurnRight(), world.ErrInvalidDirection)
		assert.Equal(t, world.Position{X: 3, Y: 3}, r.Pos())
		assert.False(t, r.CanMoveForward())
	})

	t.Run("never leaves the grid when legality is honoured", func(t *testing.T) {
		w := newWorld(t)
		r, _ := New(w, world.Position{}, world.Down)

		// Wander with a fixed turning pattern; every forward is pre-checked.
		for i := 0; i < 500; i++ {
			if i%7 == 0 || !r.CanMoveForward() {
				require.NoError(t, r.TurnRight())
				continue
			}
			require.NoError(t, r.Forward())
			p := r.Pos()
			require.True(t, w.InBound(p.X, p.Y), p.String())
		}
	})
}

func TestTurnRight(t *testing.T) {
	w := newWorld(t)
	r, _ := New(w, world.Position{X: 5, Y: 5}, world.Up)

	want := []world.Direction{world.Right, world.Down, world.Left, world.Up}
	for _, d := range want {
		require.NoError(t, r.TurnRight())
		assert.Equal(t, d, r.Facing())
	}
	assert.Equal(t, world.Position{X: 5, Y: 5}, r.Pos())
	assert.Equal(t, world.Robot, cell(t, w, 5, 5))
}

func TestFace(t *testing.T) {
	w := newWorld(t)
	r, _ := New(w, world.Position{}, world.Up)

	require.NoError(t, r.Face(world.Left))
	assert.Equal(t, world.Left, r.Facing())
	assert.ErrorIs(t, r.Face(world.Direction(5)), world.ErrInvalidDirection)
	assert.Equal(t, world.Left, r.Facing())
}

func TestPickUpAndDeliver(t *testing.T) {
	w := newWorld(t, world.Position{X: 0, Y: 1}, world.Position{X: 0, Y: 2})
	r, _ := New(w, world.Position{}, world.Down)

	_, err := r.PickUp()
	assert.ErrorIs(t, err, world.ErrNoMarker)
	_, err = r.Deliver()
	assert.ErrorIs(t, err, ErrNotCarrying)

	require.NoError(t, r.Forward())
	m, err := r.PickUp()
	require.NoError(t, err)
	assert.Equal(t, 0, m.ID)
	assert.True(t, r.Carrying())

	_, ok := w.MarkerAt(0, 1)
	assert.False(t, ok)

	require.NoError(t, r.Forward())
	_, err = r.PickUp()
	assert.ErrorIs(t, err, ErrAlreadyCarrying)

	_, err = r.Deliver()
	assert.ErrorIs(t, err, ErrNotAtHome)
	assert.True(t, r.Carrying())

	// Walk back; the picked cell is now empty, the other marker remains.
	require.NoError(t, r.Face(world.Up))
	require.NoError(t, r.Forward())
	assert.Equal(t, world.MarkerCell, cell(t, w, 0, 2))
	require.NoError(t, r.Forward())
	assert.Equal(t, world.Empty, cell(t, w, 0, 1))
	assert.True(t, r.Carrying(), "carrying holds until home")
	assert.True(t, r.IsAtHome())

	delivered, err := r.Deliver()
	require.NoError(t, err)
	assert.Equal(t, m.ID, delivered.ID)
	assert.False(t, r.Carrying())
	assert.Equal(t, 1, w.Remaining())
}
