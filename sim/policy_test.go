package sim

import (
	"testing"

	"github.com/beka-birhanu/gridbot/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridNav is a Navigator over an empty square grid.
type gridNav struct {
	size   int
	pos    world.Position
	facing world.Direction
}

func (n *gridNav) Pos() world.Position     { return n.pos }
func (n *gridNav) Facing() world.Direction { return n.facing }

func (n *gridNav) CanMove(d world.Direction) bool {
	p, err := n.pos.Step(d)
	return err == nil && p.X >= 0 && p.Y >= 0 && p.X < n.size && p.Y < n.size
}

func (n *gridNav) apply(t *testing.T, d Decision) {
	t.Helper()
	switch d.Action {
	case ActionForward:
		require.True(t, n.CanMove(d.Facing), "illegal move %s from %s", d.Facing, n.pos)
		n.facing = d.Facing
		n.pos, _ = n.pos.Step(d.Facing)
	case ActionTurnRight:
		n.facing, _ = n.facing.Clockwise()
	}
}

func TestNewPolicy(t *testing.T) {
	p, err := NewPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicySerpentine, p.Name())

	p, err = NewPolicy(PolicyReactive)
	require.NoError(t, err)
	assert.Equal(t, PolicyReactive, p.Name())

	_, err = NewPolicy("random-walk")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestSerpentineCoversGrid(t *testing.T) {
	for _, size := range []int{2, 3, 10} {
		nav := &gridNav{size: size, facing: world.Down}
		policy := NewSerpentine()

		visited := map[world.Position]bool{nav.pos: true}
		for i := 0; i < size*size-1; i++ {
			d, err := policy.Decide(nav)
			require.NoError(t, err)
			require.Equal(t, ActionForward, d.Action)
			nav.apply(t, d)
			visited[nav.pos] = true
		}
		assert.Len(t, visited, size*size, "size %d", size)
	}
}

func TestSerpentineBouncesAtFarEdge(t *testing.T) {
	nav := &gridNav{size: 10, pos: world.Position{X: 9, Y: 1}, facing: world.Up}
	policy := NewSerpentine()

	d, err := policy.Decide(nav)
	require.NoError(t, err)
	assert.Equal(t, Decision{Action: ActionForward, Facing: world.Up}, d)
	nav.apply(t, d)

	// Column 9 is exhausted at the top: sweep back left into column 8.
	d, err = policy.Decide(nav)
	require.NoError(t, err)
	assert.Equal(t, Decision{Action: ActionForward, Facing: world.Left}, d)
	nav.apply(t, d)

	d, err = policy.Decide(nav)
	require.NoError(t, err)
	assert.Equal(t, world.Down, d.Facing)
}

func TestSerpentineIgnoresFacing(t *testing.T) {
	nav := &gridNav{size: 10, facing: world.Left}
	d, err := NewSerpentine().Decide(nav)
	require.NoError(t, err)
	assert.Equal(t, world.Down, d.Facing)
}

func TestReactive(t *testing.T) {
	t.Run("moves when open", func(t *testing.T) {
		nav := &gridNav{size: 10, pos: world.Position{X: 4, Y: 4}, facing: world.Left}
		d, err := Reactive{}.Decide(nav)
		require.NoError(t, err)
		assert.Equal(t, Decision{Action: ActionForward, Facing: world.Left}, d)
	})

	t.Run("turns when blocked", func(t *testing.T) {
		nav := &gridNav{size: 10, pos: world.Position{X: 9, Y: 3}, facing: world.Right}
		d, err := Reactive{}.Decide(nav)
		require.NoError(t, err)
		assert.Equal(t, ActionTurnRight, d.Action)
	})

	t.Run("invalid facing", func(t *testing.T) {
		nav := &gridNav{size: 10, facing: world.Direction(11)}
		_, err := Reactive{}.Decide(nav)
		assert.ErrorIs(t, err, world.ErrInvalidDirection)
	})
}
