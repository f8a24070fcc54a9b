/*
Package sim drives a robot through a world until every marker is home.

A Simulation is a three-state machine. While Searching it picks up a marker
under the robot or asks its ExplorationPolicy where to go, recording every
forward move in a history buffer. While Returning it replays that history
newest first, each direction inverted, until the robot stands on home and
delivers. Once no markers remain it is Done.

Each Step performs exactly one mutation and hands one Frame to the Renderer.
The loop is single-threaded; a Simulation must not be shared between
goroutines.
*/
package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/gridbot/history"
	"github.com/beka-birhanu/gridbot/robot"
	"github.com/beka-birhanu/gridbot/world"
)

// Simulation-related errors.
var (
	ErrHistoryExhausted = errors.New("return history exhausted before reaching home")
	ErrStepLimit        = errors.New("step limit reached before all markers were delivered")
	ErrFinished         = errors.New("simulation already finished")
	ErrUnknownPolicy    = errors.New("unknown exploration policy")
	ErrNoLegalMove      = errors.New("no legal move")
	ErrInvalidConfig    = errors.New("invalid simulation config")
)

const (
	// DefaultCellPixels is the side of one rendered cell.
	DefaultCellPixels = 20
	// DefaultStepDelay paces the animation for a human observer.
	DefaultStepDelay = 100 * time.Millisecond
	// DefaultMaxSteps bounds a run whose policy cannot reach every marker.
	DefaultMaxSteps = 10000
)

// State is the phase of the loop.
type State uint8

const (
	Searching State = iota
	Returning
	Done
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Searching:
		return "searching"
	case Returning:
		return "returning"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// EventKind names the mutation a step performed.
type EventKind uint8

const (
	EventStart EventKind = iota
	EventMove
	EventTurn
	EventPickUp
	EventReturn
	EventWalkHome
	EventDeliver
)

var eventNames = map[EventKind]string{
	EventStart:    "start",
	EventMove:     "move",
	EventTurn:     "turn",
	EventPickUp:   "pickup",
	EventReturn:   "return",
	EventWalkHome: "walk-home",
	EventDeliver:  "deliver",
}

// String returns the event name.
func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event describes one completed step.
type Event struct {
	Step   int
	Kind   EventKind
	State  State // state after the step
	Robot  robot.State
	Marker *world.Marker // set for pickup and deliver
}

// Summary reports the outcome of Run.
type Summary struct {
	Steps      int
	Delivered  int
	Moves      int
	Turns      int
	Evictions  int
	FinalState State
	Robot      robot.State
}

// Config holds the initial configuration of a simulation.
type Config struct {
	GridSize        int              // Width and height of the world; world.DefaultSize if zero
	Home            world.Position   // Delivery cell
	Start           world.Position   // Initial robot cell
	Facing          world.Direction  // Initial robot facing
	Markers         []world.Position // Marker cells
	HistoryCapacity int              // history.DefaultCapacity if zero
	Policy          ExplorationPolicy
	Renderer        Renderer
	Sleeper         Sleeper
	StepDelay       time.Duration
	CellPixels      int // DefaultCellPixels if zero
	MaxSteps        int // DefaultMaxSteps if zero
	Logger          Logger

	// WalkHomeOnExhaustion makes the loop walk straight home instead of
	// failing when the return history runs out early.
	WalkHomeOnExhaustion bool
}

// Simulation owns one world, robot and history for a single run.
type Simulation struct {
	world    *world.World
	robot    *robot.Robot
	history  *history.Buffer
	policy   ExplorationPolicy
	renderer Renderer
	sleeper  Sleeper
	logger   Logger

	state      State
	step       int
	delay      time.Duration
	cellPixels int
	maxSteps   int
	walkHome   bool
	walking    bool // history ran out on the current return trip
	last       EventKind
	evictions  int
	delivered  int
	moves      int
	turns      int
}

// New builds a simulation from c. Missing collaborators get defaults: the
// serpentine policy, a renderer that draws nothing, no pacing and no logging.
func New(c Config) (*Simulation, error) {
	if c.GridSize == 0 {
		c.GridSize = world.DefaultSize
	}
	if c.HistoryCapacity == 0 {
		c.HistoryCapacity = history.DefaultCapacity
	}
	if c.CellPixels == 0 {
		c.CellPixels = DefaultCellPixels
	}
	if c.MaxSteps == 0 {
		c.MaxSteps = DefaultMaxSteps
	}
	if c.CellPixels < 0 || c.MaxSteps < 0 || c.StepDelay < 0 {
		return nil, ErrInvalidConfig
	}
	if c.Policy == nil {
		c.Policy = NewSerpentine()
	}
	if c.Renderer == nil {
		c.Renderer = RendererFunc(func(Frame) error { return nil })
	}
	if c.Sleeper == nil {
		c.Sleeper = NoSleep{}
	}
	if c.Logger == nil {
		c.Logger = nopLogger{}
	}

	w, err := world.New(c.GridSize, c.Home, c.Markers)
	if err != nil {
		return nil, err
	}
	r, err := robot.New(w, c.Start, c.Facing)
	if err != nil {
		return nil, err
	}
	h, err := history.New(c.HistoryCapacity)
	if err != nil {
		return nil, err
	}

	state := Searching
	if w.Remaining() == 0 {
		state = Done
	}

	return &Simulation{
		world:      w,
		robot:      r,
		history:    h,
		policy:     c.Policy,
		renderer:   c.Renderer,
		sleeper:    c.Sleeper,
		logger:     c.Logger,
		state:      state,
		delay:      c.StepDelay,
		cellPixels: c.CellPixels,
		maxSteps:   c.MaxSteps,
		walkHome:   c.WalkHomeOnExhaustion,
	}, nil
}

// Run steps the simulation until every marker is delivered, the context is
// cancelled, a step fails or the step limit is hit.
func (s *Simulation) Run(ctx context.Context) (Summary, error) {
	if s.step == 0 {
		s.render(EventStart)
	}

	for s.state != Done {
		if err := ctx.Err(); err != nil {
			return s.Summary(), err
		}
		if s.step >= s.maxSteps {
			return s.Summary(), fmt.Errorf("%w (%d steps, %d markers left)", ErrStepLimit, s.step, s.world.Remaining())
		}
		if _, err := s.StepContext(ctx); err != nil {
			return s.Summary(), err
		}
	}

	s.logger.Info(fmt.Sprintf("all markers delivered after %d steps", s.step))
	return s.Summary(), nil
}

// Step performs one discrete action, renders it and waits for the step delay.
func (s *Simulation) Step() (Event, error) {
	return s.StepContext(context.Background())
}

// StepContext is Step with a wait that ends early when ctx is done. The
// action has still happened when the wait is cut short: the event is
// returned along with the context's error.
func (s *Simulation) StepContext(ctx context.Context) (Event, error) {
	var (
		kind   EventKind
		marker *world.Marker
		err    error
	)

	switch s.state {
	case Done:
		return Event{}, ErrFinished
	case Searching:
		kind, marker, err = s.search()
	case Returning:
		kind, marker, err = s.retrace()
	default:
		err = fmt.Errorf("unexpected state %s", s.state)
	}
	if err != nil {
		s.logger.Error(fmt.Sprintf("step %d at %s: %s", s.step+1, s.robot.Pos(), err))
		return Event{}, err
	}

	s.step++
	s.render(kind)
	s.logger.Debug(fmt.Sprintf("step %d %s -> %s facing %s (%s)", s.step, kind, s.robot.Pos(), s.robot.Facing(), s.state))
	slept := s.sleeper.Sleep(ctx, s.delay)

	if marker != nil {
		m := *marker
		marker = &m
	}
	return Event{
		Step:   s.step,
		Kind:   kind,
		State:  s.state,
		Robot:  s.robot.State(),
		Marker: marker,
	}, slept
}

// search either picks up the marker under the robot or takes one policy step.
func (s *Simulation) search() (EventKind, *world.Marker, error) {
	pos := s.robot.Pos()
	if _, ok := s.world.MarkerAt(pos.X, pos.Y); ok {
		m, err := s.robot.PickUp()
		if err != nil {
			return 0, nil, err
		}
		s.state = Returning
		s.walking = false
		s.logger.Info(fmt.Sprintf("picked up marker %d at %s", m.ID, pos))
		return EventPickUp, m, nil
	}

	decision, err := s.policy.Decide(s.robot)
	if err != nil {
		return 0, nil, err
	}

	switch decision.Action {
	case ActionTurnRight:
		if err := s.robot.TurnRight(); err != nil {
			return 0, nil, err
		}
		s.turns++
		return EventTurn, nil, nil
	case ActionForward:
		if err := s.robot.Face(decision.Facing); err != nil {
			return 0, nil, err
		}
		if err := s.robot.Forward(); err != nil {
			return 0, nil, err
		}
		evicted, err := s.history.Push(decision.Facing)
		if err != nil {
			return 0, nil, err
		}
		if evicted && s.history.Evicted() == 1 {
			s.logger.Warning(fmt.Sprintf("history full at %d moves; the return trip will stop short of home", s.history.Cap()))
		}
		s.moves++
		return EventMove, nil, nil
	default:
		return 0, nil, fmt.Errorf("policy %s returned action %d", s.policy.Name(), decision.Action)
	}
}

// retrace delivers at home or takes one step back along the history.
func (s *Simulation) retrace() (EventKind, *world.Marker, error) {
	if s.robot.IsAtHome() {
		m, err := s.robot.Deliver()
		if err != nil {
			return 0, nil, err
		}
		s.delivered++
		s.evictions += s.history.Evicted()
		s.history.Reset()
		s.walking = false
		if s.world.Remaining() == 0 {
			s.state = Done
		} else {
			s.state = Searching
		}
		s.logger.Info(fmt.Sprintf("delivered marker %d, %d left", m.ID, s.world.Remaining()))
		return EventDeliver, m, nil
	}

	if !s.walking {
		d, ok := s.history.PopForReturn()
		if ok {
			back, err := d.Opposite()
			if err != nil {
				return 0, nil, err
			}
			if err := s.robot.Face(back); err != nil {
				return 0, nil, err
			}
			if err := s.robot.Forward(); err != nil {
				return 0, nil, err
			}
			s.moves++
			return EventReturn, nil, nil
		}

		exhausted := fmt.Errorf("%w at %s (home %s, %d entries evicted)", ErrHistoryExhausted, s.robot.Pos(), s.world.Home(), s.history.Evicted())
		if !s.walkHome {
			return 0, nil, exhausted
		}
		s.logger.Warning(exhausted.Error() + "; walking straight home")
		s.walking = true
	}

	if err := s.robot.Face(towards(s.robot.Pos(), s.world.Home())); err != nil {
		return 0, nil, err
	}
	if err := s.robot.Forward(); err != nil {
		return 0, nil, err
	}
	s.moves++
	return EventWalkHome, nil, nil
}

// towards returns the axis-aligned direction from p toward target, closing
// the horizontal gap first. p must differ from target.
func towards(p, target world.Position) world.Direction {
	switch {
	case p.X < target.X:
		return world.Right
	case p.X > target.X:
		return world.Left
	case p.Y < target.Y:
		return world.Down
	default:
		return world.Up
	}
}

func (s *Simulation) render(kind EventKind) {
	s.last = kind
	if err := s.renderer.Render(s.frame(kind)); err != nil {
		s.logger.Warning(fmt.Sprintf("rendering step %d: %s", s.step, err))
	}
}

func (s *Simulation) frame(kind EventKind) Frame {
	return Frame{
		Step:       s.step,
		State:      s.state,
		Size:       s.world.Size(),
		CellPixels: s.cellPixels,
		Cells:      s.world.Cells(),
		Markers:    s.world.Markers(),
		Robot:      s.robot.State(),
		Remaining:  s.world.Remaining(),
		Event:      kind,
	}
}

// Frame returns the most recent frame without rendering it.
func (s *Simulation) Frame() Frame {
	return s.frame(s.last)
}

// State returns the phase of the loop.
func (s *Simulation) State() State {
	return s.state
}

// Robot returns a snapshot of the robot.
func (s *Simulation) Robot() robot.State {
	return s.robot.State()
}

// Remaining returns the number of markers not yet delivered.
func (s *Simulation) Remaining() int {
	return s.world.Remaining()
}

// HistoryLen returns the number of moves available for the return trip.
func (s *Simulation) HistoryLen() int {
	return s.history.Len()
}

// Summary reports the counters of the run so far.
func (s *Simulation) Summary() Summary {
	return Summary{
		Steps:      s.step,
		Delivered:  s.delivered,
		Moves:      s.moves,
		Turns:      s.turns,
		Evictions:  s.evictions + s.history.Evicted(),
		FinalState: s.state,
		Robot:      s.robot.State(),
	}
}
