package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/beka-birhanu/gridbot/sim"
	"github.com/charmbracelet/lipgloss"
)

const clearScreen = "\033[H\033[2J"

// Terminal colours, matching the pixel palette.
var (
	termWhite  = lipgloss.Color("#ffffff")
	termYellow = lipgloss.Color("#ffd700")
	termGreen  = lipgloss.Color("#00c800")
	termRed    = lipgloss.Color("#ff0000")
	termBlue   = lipgloss.Color("#0000ff")
	termMuted  = lipgloss.Color("#8a8a8a")
)

var monoCells = map[sim.Visual]string{
	sim.VisualEmpty:         ". ",
	sim.VisualRobot:         "R ",
	sim.VisualRobotCarrying: "C ",
	sim.VisualHome:          "H ",
	sim.VisualMarker:        "M ",
}

// Terminal draws frames as blocks of coloured cells followed by a status line.
type Terminal struct {
	out    io.Writer
	colour bool
	clear  bool
	cells  map[sim.Visual]lipgloss.Style
	status lipgloss.Style
}

var _ sim.Renderer = &Terminal{}

// NewTerminal returns a renderer writing to w. With colour off every cell is
// drawn as a letter instead of a coloured block.
func NewTerminal(w io.Writer, colour bool) *Terminal {
	block := lipgloss.NewStyle().Width(2)
	return &Terminal{
		out:    w,
		colour: colour,
		cells: map[sim.Visual]lipgloss.Style{
			sim.VisualEmpty:         block.Background(termWhite),
			sim.VisualRobot:         block.Background(termYellow),
			sim.VisualRobotCarrying: block.Background(termGreen),
			sim.VisualHome:          block.Background(termRed),
			sim.VisualMarker:        block.Background(termBlue),
		},
		status: lipgloss.NewStyle().Foreground(termMuted),
	}
}

// ClearBetweenFrames makes each frame replace the previous one on screen.
func (t *Terminal) ClearBetweenFrames(clear bool) *Terminal {
	t.clear = clear
	return t
}

// Render implements sim.Renderer.
func (t *Terminal) Render(f sim.Frame) error {
	rows := make([]string, 0, f.Size+1)
	for y := 0; y < f.Size; y++ {
		var b strings.Builder
		for x := 0; x < f.Size; x++ {
			b.WriteString(t.cell(f.VisualAt(x, y)))
		}
		rows = append(rows, b.String())
	}
	rows = append(rows, t.status.Render(Status(f)))

	var prefix string
	if t.clear {
		prefix = clearScreen
	}
	_, err := fmt.Fprintln(t.out, prefix+lipgloss.JoinVertical(lipgloss.Left, rows...))
	return err
}

func (t *Terminal) cell(v sim.Visual) string {
	if !t.colour {
		return monoCells[v]
	}
	return t.cells[v].Render("")
}

// Status summarises a frame on one line.
func Status(f sim.Frame) string {
	carrying := ""
	if f.Robot.Carrying {
		carrying = ", carrying"
	}
	return fmt.Sprintf("step %d %s: robot %s facing %s%s, %d marker(s) left",
		f.Step, f.State, f.Robot.Pos, f.Robot.Facing, carrying, f.Remaining)
}
