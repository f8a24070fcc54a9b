// Package robot holds the position and facing of the marker-collecting robot
// and the operations that move it around a world.
package robot

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/gridbot/world"
)

// Robot-related errors.
var (
	ErrAlreadyCarrying = errors.New("robot is already carrying a marker")
	ErrNotCarrying     = errors.New("robot is not carrying a marker")
	ErrNotAtHome       = errors.New("robot is not at home")
)

// Movable is anything that can step forward and turn in place.
type Movable interface {
	Forward() error
	TurnRight() error
}

var _ Movable = &Robot{}

// State is a value snapshot of a robot.
type State struct {
	Pos      world.Position  `json:"pos"`
	Home     world.Position  `json:"home"`
	Facing   world.Direction `json:"facing"`
	Carrying bool            `json:"carrying"`
}

// Robot moves one cell at a time inside a world, updating the world's cells
// as it goes.
type Robot struct {
	world  *world.World
	pos    world.Position
	facing world.Direction
	cargo  *world.Marker // marker being carried, nil when empty-handed
}

// New places a robot on w at start, facing the given direction. The robot's
// home is the world's home cell.
func New(w *world.World, start world.Position, facing world.Direction) (*Robot, error) {
	if !facing.Valid() {
		return nil, fmt.Errorf("new robot facing %s: %w", facing, world.ErrInvalidDirection)
	}
	if err := w.SetCell(start.X, start.Y, world.Robot); err != nil {
		return nil, fmt.Errorf("new robot at %s: %w", start, err)
	}

	return &Robot{
		world:  w,
		pos:    start,
		facing: facing,
	}, nil
}

// Forward advances one cell in the facing direction. The vacated cell is
// restored to its underlying state and the new cell is marked as the robot.
// Nothing changes when the facing is invalid or the target is off the grid.
func (r *Robot) Forward() error {
	target, err := r.pos.Step(r.facing)
	if err != nil {
		return fmt.Errorf("forward from %s: %w", r.pos, err)
	}
	if !r.world.InBound(target.X, target.Y) {
		return fmt.Errorf("forward from %s facing %s: %w", r.pos, r.facing, world.ErrOutOfBounds)
	}

	if err := r.world.Restore(r.pos.X, r.pos.Y); err != nil {
		return err
	}
	if err := r.world.SetCell(target.X, target.Y, world.Robot); err != nil {
		return err
	}
	r.pos = target
	return nil
}

// TurnRight rotates the robot 90 degrees clockwise.
func (r *Robot) TurnRight() error {
	next, err := r.facing.Clockwise()
	if err != nil {
		return err
	}
	r.facing = next
	return nil
}

// Face turns the robot to d.
func (r *Robot) Face(d world.Direction) error {
	if !d.Valid() {
		return fmt.Errorf("face %s: %w", d, world.ErrInvalidDirection)
	}
	r.facing = d
	return nil
}

// CanMove reports whether one step in d stays inside the world.
func (r *Robot) CanMove(d world.Direction) bool {
	target, err := r.pos.Step(d)
	if err != nil {
		return false
	}
	return r.world.InBound(target.X, target.Y)
}

// CanMoveForward reports whether Forward would succeed.
func (r *Robot) CanMoveForward() bool {
	return r.CanMove(r.facing)
}

// IsAtHome reports whether the robot stands on its home cell.
func (r *Robot) IsAtHome() bool {
	return r.pos == r.world.Home()
}

// PickUp takes the available marker on the robot's cell.
func (r *Robot) PickUp() (*world.Marker, error) {
	if r.cargo != nil {
		return nil, ErrAlreadyCarrying
	}
	m, err := r.world.PickUp(r.pos.X, r.pos.Y)
	if err != nil {
		return nil, err
	}
	r.cargo = m
	return m, nil
}

// Deliver drops the carried marker at home.
func (r *Robot) Deliver() (*world.Marker, error) {
	if r.cargo == nil {
		return nil, ErrNotCarrying
	}
	if !r.IsAtHome() {
		return nil, fmt.Errorf("deliver at %s: %w", r.pos, ErrNotAtHome)
	}
	if err := r.world.Deliver(r.cargo.ID); err != nil {
		return nil, err
	}
	m := r.cargo
	r.cargo = nil
	return m, nil
}

// Pos returns the robot's cell.
func (r *Robot) Pos() world.Position {
	return r.pos
}

// Facing returns the direction of the next forward step.
func (r *Robot) Facing() world.Direction {
	return r.facing
}

// Carrying reports whether the robot holds a marker.
func (r *Robot) Carrying() bool {
	return r.cargo != nil
}

// State returns a snapshot of the robot.
func (r *Robot) State() State {
	return State{
		Pos:      r.pos,
		Home:     r.world.Home(),
		Facing:   r.facing,
		Carrying: r.cargo != nil,
	}
}
