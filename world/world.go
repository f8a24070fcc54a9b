/*
Package world models the square grid a robot explores.

It defines the `World` structure, a grid of `CellState` values plus the set of
`Marker`s placed on it, and the `Direction` and `Position` types shared by the
robot and its movement history.

The world answers bounds and content queries, restores cells vacated by the
robot to their underlying state, and tracks each marker from placement through
pickup to delivery. It is not safe for concurrent use.
*/
package world

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultSize is the width and height of the standard world.
	DefaultSize = 10

	minWorldDimension = 2
	maxWorldDimension = 20
)

var (
	ErrInvalidSize      = errors.New("invalid world size")
	ErrOutOfBounds      = errors.New("position is out of the world")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrDuplicateMarker  = errors.New("cell already holds a marker")
	ErrMarkerOnHome     = errors.New("marker placed on the home cell")
	ErrNoMarker         = errors.New("no available marker at position")
	ErrNotCarried       = errors.New("marker is not being carried")
	ErrUnknownMarker    = errors.New("unknown marker")
)

// World represents a square grid with a home cell and markers.
type World struct {
	size    int           // Width and height of the grid
	home    Position      // Delivery cell
	grid    [][]CellState // grid[y][x]
	markers []*Marker     // All markers, delivered ones included
}

// New initializes a world of the given size with a home cell and markers at
// the given positions. Markers must be inside the grid, on distinct cells and
// off the home cell.
func New(size int, home Position, markers []Position) (*World, error) {
	if size < minWorldDimension || size > maxWorldDimension {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	grid := make([][]CellState, size)
	for y := range grid {
		grid[y] = make([]CellState, size)
	}

	w := &World{
		size: size,
		home: home,
		grid: grid,
	}

	if !w.InBound(home.X, home.Y) {
		return nil, fmt.Errorf("home %s: %w", home, ErrOutOfBounds)
	}
	w.grid[home.Y][home.X] = Home

	for i, pos := range markers {
		if !w.InBound(pos.X, pos.Y) {
			return nil, fmt.Errorf("marker %d at %s: %w", i, pos, ErrOutOfBounds)
		}
		if pos == home {
			return nil, fmt.Errorf("marker %d at %s: %w", i, pos, ErrMarkerOnHome)
		}
		if w.grid[pos.Y][pos.X] == MarkerCell {
			return nil, fmt.Errorf("marker %d at %s: %w", i, pos, ErrDuplicateMarker)
		}
		w.grid[pos.Y][pos.X] = MarkerCell
		w.markers = append(w.markers, &Marker{ID: i, Pos: pos, Status: Available})
	}

	return w, nil
}

// Size returns the width and height of the grid.
func (w *World) Size() int {
	return w.size
}

// Home returns the delivery cell.
func (w *World) Home() Position {
	return w.home
}

// InBound reports whether (x, y) lies inside the grid.
func (w *World) InBound(x, y int) bool {
	return x >= 0 && x < w.size && y >= 0 && y < w.size
}

// CellAt returns the state of the cell at (x, y).
func (w *World) CellAt(x, y int) (CellState, error) {
	if !w.InBound(x, y) {
		return Empty, fmt.Errorf("cell (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	return w.grid[y][x], nil
}

// SetCell overwrites the state of the cell at (x, y).
func (w *World) SetCell(x, y int, state CellState) error {
	if !w.InBound(x, y) {
		return fmt.Errorf("cell (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	w.grid[y][x] = state
	return nil
}

// MarkerAt returns the available marker at (x, y), if any. Carried and
// delivered markers are never reported.
func (w *World) MarkerAt(x, y int) (*Marker, bool) {
	for _, m := range w.markers {
		if m.Status == Available && m.Pos.X == x && m.Pos.Y == y {
			return m, true
		}
	}
	return nil, false
}

// Restore resets the cell at (x, y) to what lies underneath a departing robot:
// the home cell, an available marker, or nothing.
func (w *World) Restore(x, y int) error {
	state := Empty
	if _, ok := w.MarkerAt(x, y); ok {
		state = MarkerCell
	}
	if w.home.X == x && w.home.Y == y {
		state = Home
	}
	return w.SetCell(x, y, state)
}

// PickUp marks the available marker at (x, y) as carried.
func (w *World) PickUp(x, y int) (*Marker, error) {
	m, ok := w.MarkerAt(x, y)
	if !ok {
		return nil, fmt.Errorf("pick up at (%d,%d): %w", x, y, ErrNoMarker)
	}
	m.Status = Carried
	return m, nil
}

// Deliver removes a carried marker from the active set.
func (w *World) Deliver(id int) error {
	if id < 0 || id >= len(w.markers) {
		return fmt.Errorf("deliver marker %d: %w", id, ErrUnknownMarker)
	}
	m := w.markers[id]
	if m.Status != Carried {
		return fmt.Errorf("deliver marker %d (%s): %w", id, m.Status, ErrNotCarried)
	}
	m.Status = Delivered
	return nil
}

// Remaining returns the number of markers not yet delivered.
func (w *World) Remaining() int {
	n := 0
	for _, m := range w.markers {
		if m.Active() {
			n++
		}
	}
	return n
}

// Markers returns copies of all markers in placement order.
func (w *World) Markers() []Marker {
	out := make([]Marker, len(w.markers))
	for i, m := range w.markers {
		out[i] = *m
	}
	return out
}

// Cells returns a copy of the grid indexed as [y][x].
func (w *World) Cells() [][]CellState {
	out := make([][]CellState, w.size)
	for y := range w.grid {
		out[y] = append([]CellState(nil), w.grid[y]...)
	}
	return out
}

// String provides a textual representation of the world.
func (w *World) String() string {
	var b strings.Builder

	// Top boundary
	b.WriteString("+" + strings.Repeat("---+", w.size) + "\n")

	for y := 0; y < w.size; y++ {
		b.WriteString("|")
		for x := 0; x < w.size; x++ {
			b.WriteString(" ")
			b.WriteByte(w.grid[y][x].Symbol())
			b.WriteString(" |")
		}
		b.WriteString("\n+" + strings.Repeat("---+", w.size) + "\n")
	}

	return b.String()
}
