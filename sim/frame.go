package sim

import (
	"context"
	"strings"
	"time"

	"github.com/beka-birhanu/gridbot/robot"
	"github.com/beka-birhanu/gridbot/world"
)

// Visual is what a single cell looks like once overlapping occupants are
// resolved: the robot hides home and markers, home hides markers.
type Visual uint8

const (
	VisualEmpty Visual = iota
	VisualRobot
	VisualRobotCarrying
	VisualHome
	VisualMarker
)

// String returns the visual name.
func (v Visual) String() string {
	switch v {
	case VisualRobot:
		return "robot"
	case VisualRobotCarrying:
		return "robot-carrying"
	case VisualHome:
		return "home"
	case VisualMarker:
		return "marker"
	default:
		return "empty"
	}
}

// Frame is everything a renderer needs to draw one step.
type Frame struct {
	Step       int                 `json:"step"`
	State      State               `json:"state"`
	Size       int                 `json:"size"`
	CellPixels int                 `json:"cell_pixels"`
	Cells      [][]world.CellState `json:"cells"` // indexed [y][x]
	Markers    []world.Marker      `json:"markers"`
	Robot      robot.State         `json:"robot"`
	Remaining  int                 `json:"remaining"`
	Event      EventKind           `json:"event"`
}

// VisualAt resolves the look of cell (x, y).
func (f Frame) VisualAt(x, y int) Visual {
	if f.Robot.Pos.X == x && f.Robot.Pos.Y == y {
		if f.Robot.Carrying {
			return VisualRobotCarrying
		}
		return VisualRobot
	}
	if f.Robot.Home.X == x && f.Robot.Home.Y == y {
		return VisualHome
	}
	if y >= 0 && y < len(f.Cells) && x >= 0 && x < len(f.Cells[y]) && f.Cells[y][x] == world.MarkerCell {
		return VisualMarker
	}
	return VisualEmpty
}

// Text draws the frame as rows of characters: 'C' for a carrying robot,
// 'R' for the robot, 'H' home, 'M' a marker and '.' an empty cell.
func (f Frame) Text() string {
	var b strings.Builder
	for y := 0; y < f.Size; y++ {
		for x := 0; x < f.Size; x++ {
			b.WriteByte(visualSymbols[f.VisualAt(x, y)])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

var visualSymbols = map[Visual]byte{
	VisualEmpty:         '.',
	VisualRobot:         'R',
	VisualRobotCarrying: 'C',
	VisualHome:          'H',
	VisualMarker:        'M',
}

// Renderer draws frames. It is called once per step.
type Renderer interface {
	Render(Frame) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Frame) error

// Render implements Renderer.
func (f RendererFunc) Render(frame Frame) error { return f(frame) }

// Sleeper paces the loop between steps. Sleep returns early with the
// context's error once ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// RealSleeper blocks on a timer.
type RealSleeper struct{}

func (RealSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NoSleep never blocks.
type NoSleep struct{}

func (NoSleep) Sleep(context.Context, time.Duration) error { return nil }

// Logger is the logging surface the loop writes to.
type Logger interface {
	Debug(string)
	Info(string)
	Warning(string)
	Error(string)
}

type nopLogger struct{}

func (nopLogger) Debug(string)   {}
func (nopLogger) Info(string)    {}
func (nopLogger) Warning(string) {}
func (nopLogger) Error(string)   {}
