package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/beka-birhanu/gridbot/config"
	"github.com/beka-birhanu/gridbot/render"
	"github.com/beka-birhanu/gridbot/service/i"
	"github.com/beka-birhanu/gridbot/sim"
	"github.com/beka-birhanu/gridbot/world"
	"github.com/google/uuid"
)

const (
	defaultPrefix    = "gridbot"
	indexTimeout     = 2 * time.Second
	defaultListLimit = 20
)

var (
	ErrRunNotFound = errors.New("run not found")
	ErrNoLogger    = errors.New("run manager needs a logger")
)

// run is one simulation goroutine and the latest frame it rendered.
type run struct {
	id        uuid.UUID
	startedAt time.Time
	cancel    context.CancelFunc
	done      chan struct{}
	channel   string

	mu      sync.RWMutex
	frame   sim.Frame
	summary sim.Summary
	running bool
	err     error
}

var _ sim.Renderer = &run{}

// Render records f as the run's latest frame.
func (r *run) Render(f sim.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frame = f
	return nil
}

func (r *run) finish(summary sim.Summary, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summary = summary
	r.err = err
	r.running = false
}

func (r *run) info() i.RunInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info := i.RunInfo{
		ID:        r.id,
		Running:   r.running,
		State:     r.frame.State,
		Steps:     r.frame.Step,
		Remaining: r.frame.Remaining,
		Robot:     r.frame.Robot,
		Channel:   r.channel,
	}
	for _, m := range r.frame.Markers {
		if m.Status == world.Delivered {
			info.Delivered++
		}
	}
	if !r.running {
		info.State = r.summary.FinalState
		info.Steps = r.summary.Steps
		info.Delivered = r.summary.Delivered
		info.Evictions = r.summary.Evictions
		info.Robot = r.summary.Robot
	}
	if r.err != nil {
		info.Error = r.err.Error()
	}
	return info
}

func (r *run) latest() sim.Frame {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frame
}

// RunManager runs simulations on their own goroutines, keyed by uuid.
type RunManager struct {
	runs       map[uuid.UUID]*run
	logger     i.Logger
	publisher  render.Publisher
	index      i.RunIndex
	prefix     string
	sleeper    sim.Sleeper
	stepDelay  time.Duration
	cellPixels int
	maxSteps   int
	sync.RWMutex
}

var _ i.RunManager = &RunManager{}

// Config configures a RunManager.
type Config struct {
	Logger     i.Logger
	Publisher  render.Publisher // frames are also published on Redis when set
	Index      i.RunIndex       // shared run listing; local runs only when nil
	Prefix     string           // Redis channel prefix
	Sleeper    sim.Sleeper
	StepDelay  time.Duration
	CellPixels int
	MaxSteps   int
}

// NewRunManager creates a run manager with no runs.
func NewRunManager(c *Config) (*RunManager, error) {
	if c.Logger == nil {
		return nil, ErrNoLogger
	}
	if c.Prefix == "" {
		c.Prefix = defaultPrefix
	}
	if c.Sleeper == nil {
		c.Sleeper = sim.RealSleeper{}
	}

	return &RunManager{
		runs:       make(map[uuid.UUID]*run),
		logger:     c.Logger,
		publisher:  c.Publisher,
		index:      c.Index,
		prefix:     c.Prefix,
		sleeper:    c.Sleeper,
		stepDelay:  c.StepDelay,
		cellPixels: c.CellPixels,
		maxSteps:   c.MaxSteps,
	}, nil
}

// Start builds a simulation from sc and runs it in the background. Scenario
// errors are returned before anything starts.
func (m *RunManager) Start(sc config.Scenario) (uuid.UUID, error) {
	c, err := sc.SimConfig()
	if err != nil {
		return uuid.Nil, err
	}

	id := m.newID()
	ctx, cancel := context.WithCancel(context.Background())
	r := &run{
		id:        id,
		startedAt: time.Now(),
		cancel:    cancel,
		done:      make(chan struct{}),
		running:   true,
	}

	var renderer sim.Renderer = r
	if m.publisher != nil {
		pub := render.NewRedisPublisher(ctx, m.publisher, m.prefix, id.String())
		r.channel = pub.Channel()
		renderer = render.Multi{r, pub}
	}

	c.Renderer = renderer
	c.Sleeper = m.sleeper
	c.StepDelay = m.stepDelay
	c.CellPixels = m.cellPixels
	c.MaxSteps = m.maxSteps
	c.Logger = m.logger

	s, err := sim.New(c)
	if err != nil {
		cancel()
		return uuid.Nil, err
	}
	r.frame = s.Frame()

	m.Lock()
	m.runs[id] = r
	m.Unlock()

	size, markers := r.frame.Size, r.frame.Remaining
	go m.execute(ctx, r, s)
	m.addToIndex(r)
	m.logger.Info(fmt.Sprintf("started run %s: %d markers on a %dx%d grid, %s policy", id, markers, size, size, c.Policy.Name()))
	return id, nil
}

func (m *RunManager) execute(ctx context.Context, r *run, s *sim.Simulation) {
	defer close(r.done)
	defer r.cancel()

	summary, err := s.Run(ctx)
	r.finish(summary, err)

	switch {
	case err == nil:
		m.logger.Info(fmt.Sprintf("run %s finished: %d markers delivered in %d steps", r.id, summary.Delivered, summary.Steps))
	case errors.Is(err, context.Canceled):
		m.logger.Info(fmt.Sprintf("run %s stopped at step %d", r.id, summary.Steps))
	default:
		m.logger.Error(fmt.Sprintf("run %s failed at step %d: %s", r.id, summary.Steps, err))
	}
}

// Info reports the state of a run.
func (m *RunManager) Info(id uuid.UUID) (i.RunInfo, error) {
	r, err := m.get(id)
	if err != nil {
		return i.RunInfo{}, err
	}
	return r.info(), nil
}

// Frame returns the latest frame a run rendered.
func (m *RunManager) Frame(id uuid.UUID) (sim.Frame, error) {
	r, err := m.get(id)
	if err != nil {
		return sim.Frame{}, err
	}
	return r.latest(), nil
}

// Wait blocks until the run ends or ctx is done.
func (m *RunManager) Wait(ctx context.Context, id uuid.UUID) (i.RunInfo, error) {
	r, err := m.get(id)
	if err != nil {
		return i.RunInfo{}, err
	}
	select {
	case <-r.done:
		return r.info(), nil
	case <-ctx.Done():
		return r.info(), ctx.Err()
	}
}

// Stop cancels a run and waits for its goroutine to exit. Stopping a
// finished run is a no-op.
func (m *RunManager) Stop(id uuid.UUID) error {
	r, err := m.get(id)
	if err != nil {
		return err
	}
	r.cancel()
	<-r.done
	return nil
}

// StopAll cancels every run and waits for them.
func (m *RunManager) StopAll() {
	m.RLock()
	runs := make([]*run, 0, len(m.runs))
	for _, r := range m.runs {
		runs = append(runs, r)
	}
	m.RUnlock()

	for _, r := range runs {
		r.cancel()
	}
	for _, r := range runs {
		<-r.done
	}
}

// List returns up to limit runs, newest first. With an index the list also
// covers runs started by other servers sharing it; those entries are not
// Local and Info, Frame and Stop report ErrRunNotFound for them. An index
// that cannot be read leaves the local runs only.
func (m *RunManager) List(ctx context.Context, limit int) ([]i.RunEntry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	m.RLock()
	entries := make([]i.RunEntry, 0, len(m.runs))
	local := make(map[uuid.UUID]struct{}, len(m.runs))
	for _, r := range m.runs {
		entries = append(entries, i.RunEntry{ID: r.id, StartedAt: r.startedAt, Local: true})
		local[r.id] = struct{}{}
	}
	m.RUnlock()

	if m.index != nil {
		for _, e := range m.listIndexed(ctx, limit) {
			if _, ok := local[e.ID]; !ok {
				entries = append(entries, e)
			}
		}
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].StartedAt.After(entries[b].StartedAt)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (m *RunManager) listIndexed(ctx context.Context, limit int) []i.RunEntry {
	indexed, err := m.index.Recent(ctx, int64(limit))
	if err != nil {
		m.logger.Warning(fmt.Sprintf("listing indexed runs: %s", err))
		return nil
	}

	entries := make([]i.RunEntry, 0, len(indexed))
	for _, run := range indexed {
		id, err := uuid.Parse(run.ID)
		if err != nil {
			m.logger.Warning(fmt.Sprintf("non-UUID value in run index: %s", run.ID))
			continue
		}
		entries = append(entries, i.RunEntry{ID: id, StartedAt: run.StartedAt})
	}
	return entries
}

func (m *RunManager) addToIndex(r *run) {
	if m.index == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()
	if err := m.index.Add(ctx, r.id.String(), r.startedAt); err != nil {
		m.logger.Warning(fmt.Sprintf("indexing run %s: %s", r.id, err))
	}
}

func (m *RunManager) get(id uuid.UUID) (*run, error) {
	m.RLock()
	defer m.RUnlock()
	r, ok := m.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return r, nil
}

func (m *RunManager) newID() uuid.UUID {
	m.RLock()
	defer m.RUnlock()
	id := uuid.New()
	for {
		if _, ok := m.runs[id]; !ok {
			return id
		}
		id = uuid.New()
	}
}
