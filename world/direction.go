package world

import (
	"fmt"
	"strings"
)

// Direction is one of the four cardinal directions a robot can face or move in.
// The numeric values are the storage order used by the movement history.
type Direction uint8

const (
	Up Direction = iota
	Down
	Right
	Left
)

var (
	directionNames = [...]string{Up: "Up", Down: "Down", Right: "Right", Left: "Left"}

	// Deltas maps each direction to the position offset of one step.
	Deltas = map[Direction]Position{
		Up:    {X: 0, Y: -1},
		Down:  {X: 0, Y: 1},
		Right: {X: 1, Y: 0},
		Left:  {X: -1, Y: 0},
	}
)

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool {
	return d <= Left
}

// String returns the direction name, or a diagnostic for invalid values.
func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
	return directionNames[d]
}

// Opposite returns the direction that undoes a step in d.
func (d Direction) Opposite() (Direction, error) {
	switch d {
	case Up:
		return Down, nil
	case Down:
		return Up, nil
	case Right:
		return Left, nil
	case Left:
		return Right, nil
	default:
		return d, fmt.Errorf("opposite of %s: %w", d, ErrInvalidDirection)
	}
}

// Clockwise returns d rotated 90 degrees clockwise: Up, Right, Down, Left, Up.
func (d Direction) Clockwise() (Direction, error) {
	switch d {
	case Up:
		return Right, nil
	case Right:
		return Down, nil
	case Down:
		return Left, nil
	case Left:
		return Up, nil
	default:
		return d, fmt.Errorf("turn from %s: %w", d, ErrInvalidDirection)
	}
}

// Delta returns the offset of one step in d.
func (d Direction) Delta() (Position, error) {
	delta, ok := Deltas[d]
	if !ok {
		return Position{}, fmt.Errorf("step %s: %w", d, ErrInvalidDirection)
	}
	return delta, nil
}

// ParseDirection accepts a direction name in any case. "top" and "bottom"
// are accepted as aliases of up and down.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "top", "north":
		return Up, nil
	case "down", "bottom", "south":
		return Down, nil
	case "right", "east":
		return Right, nil
	case "left", "west":
		return Left, nil
	default:
		return 0, fmt.Errorf("parse %q: %w", s, ErrInvalidDirection)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, ErrInvalidDirection
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
