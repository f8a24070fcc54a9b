package sim

import (
	"fmt"

	"github.com/beka-birhanu/gridbot/world"
)

// Action is what an exploration policy asks the robot to do next.
type Action uint8

const (
	ActionForward   Action = iota // face Decision.Facing, then step forward
	ActionTurnRight               // rotate in place
)

// Decision is one searching step chosen by a policy.
type Decision struct {
	Action Action
	Facing world.Direction
}

// Navigator is the read-only view of the robot a policy decides from.
type Navigator interface {
	Pos() world.Position
	Facing() world.Direction
	CanMove(world.Direction) bool
}

// ExplorationPolicy picks the next searching step.
type ExplorationPolicy interface {
	Name() string
	Decide(n Navigator) (Decision, error)
}

// Policy names accepted by NewPolicy.
const (
	PolicySerpentine = "serpentine"
	PolicyReactive   = "reactive"
)

// NewPolicy returns a fresh policy by name.
func NewPolicy(name string) (ExplorationPolicy, error) {
	switch name {
	case PolicySerpentine, "":
		return NewSerpentine(), nil
	case PolicyReactive:
		return Reactive{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// Serpentine sweeps the grid column by column: down even columns, up odd
// ones, stepping sideways at each column end. When the sideways step hits the
// grid edge the sweep turns back the other way.
type Serpentine struct {
	sweep world.Direction
}

// NewSerpentine returns a serpentine policy that starts sweeping right.
func NewSerpentine() *Serpentine {
	return &Serpentine{sweep: world.Right}
}

func (s *Serpentine) Name() string { return PolicySerpentine }

// Decide implements ExplorationPolicy.
func (s *Serpentine) Decide(n Navigator) (Decision, error) {
	vertical := world.Down
	if n.Pos().X%2 != 0 {
		vertical = world.Up
	}
	if n.CanMove(vertical) {
		return Decision{Action: ActionForward, Facing: vertical}, nil
	}

	if !n.CanMove(s.sweep) {
		back, err := s.sweep.Opposite()
		if err != nil {
			return Decision{}, err
		}
		s.sweep = back
	}
	if !n.CanMove(s.sweep) {
		return Decision{}, fmt.Errorf("serpentine at %s: %w", n.Pos(), ErrNoLegalMove)
	}
	return Decision{Action: ActionForward, Facing: s.sweep}, nil
}

// Reactive keeps moving in its current facing and turns right whenever the
// grid edge blocks it. It only ever follows the outer ring of the grid once it
// reaches an edge, so markers away from that ring are never found.
type Reactive struct{}

func (Reactive) Name() string { return PolicyReactive }

// Decide implements ExplorationPolicy.
func (Reactive) Decide(n Navigator) (Decision, error) {
	if !n.Facing().Valid() {
		return Decision{}, fmt.Errorf("reactive: %w", world.ErrInvalidDirection)
	}
	if n.CanMove(n.Facing()) {
		return Decision{Action: ActionForward, Facing: n.Facing()}, nil
	}
	return Decision{Action: ActionTurnRight}, nil
}
