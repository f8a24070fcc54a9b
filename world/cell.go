package world

import "fmt"

// CellState is the semantic content of one grid cell.
type CellState uint8

const (
	Empty CellState = iota
	Robot
	Home
	MarkerCell
)

// String returns the state name.
func (s CellState) String() string {
	switch s {
	case Empty:
		return "Empty"
	case Robot:
		return "Robot"
	case Home:
		return "Home"
	case MarkerCell:
		return "Marker"
	default:
		return fmt.Sprintf("CellState(%d)", uint8(s))
	}
}

// Symbol returns the single character used by text renderings.
func (s CellState) Symbol() byte {
	switch s {
	case Robot:
		return 'R'
	case Home:
		return 'H'
	case MarkerCell:
		return 'M'
	default:
		return ' '
	}
}

// Position represents the coordinates of a cell. X is the column and Y the row.
type Position struct {
	X int `json:"x" mapstructure:"x"`
	Y int `json:"y" mapstructure:"y"`
}

// Step returns the position one cell away in direction d.
func (p Position) Step(d Direction) (Position, error) {
	delta, err := d.Delta()
	if err != nil {
		return p, err
	}
	return Position{X: p.X + delta.X, Y: p.Y + delta.Y}, nil
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// MarkerStatus tracks a marker through its lifecycle.
type MarkerStatus uint8

const (
	Available MarkerStatus = iota
	Carried
	Delivered
)

// String returns the status name.
func (s MarkerStatus) String() string {
	switch s {
	case Available:
		return "Available"
	case Carried:
		return "Carried"
	case Delivered:
		return "Delivered"
	default:
		return fmt.Sprintf("MarkerStatus(%d)", uint8(s))
	}
}

// Marker is a collectible item placed at a fixed cell.
type Marker struct {
	ID     int          `json:"id"`
	Pos    Position     `json:"pos"`
	Status MarkerStatus `json:"status"`
}

// Active reports whether the marker has not been delivered yet.
func (m Marker) Active() bool {
	return m.Status != Delivered
}

// MarshalText implements encoding.TextMarshaler.
func (s CellState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// MarshalText implements encoding.TextMarshaler.
func (s MarkerStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
