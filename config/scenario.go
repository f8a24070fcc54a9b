package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/gridbot/history"
	"github.com/beka-birhanu/gridbot/sim"
	"github.com/beka-birhanu/gridbot/world"
	"github.com/spf13/viper"
)

// Scenario file keys.
const (
	keyGridSize        = "grid_size"
	keyHome            = "home"
	keyStart           = "start"
	keyFacing          = "facing"
	keyMarkers         = "markers"
	keyPolicy          = "policy"
	keyHistoryCapacity = "history_capacity"
	keyWalkHome        = "walk_home"
)

var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is the initial setup of one simulation run. It is read from
// YAML, JSON or TOML files and from request bodies.
type Scenario struct {
	GridSize        int              `json:"grid_size" mapstructure:"grid_size"`
	Home            world.Position   `json:"home" mapstructure:"home"`
	Start           world.Position   `json:"start" mapstructure:"start"`
	Facing          string           `json:"facing" mapstructure:"facing"`
	Markers         []world.Position `json:"markers" mapstructure:"markers"`
	Policy          string           `json:"policy" mapstructure:"policy"`
	HistoryCapacity int              `json:"history_capacity" mapstructure:"history_capacity"`
	WalkHome        bool             `json:"walk_home" mapstructure:"walk_home"`
}

// DefaultScenario is a 10x10 world with home and start in the top-left
// corner, the robot facing down and markers at (0,3) and (4,4).
func DefaultScenario() Scenario {
	return Scenario{
		GridSize:        world.DefaultSize,
		Home:            world.Position{X: 0, Y: 0},
		Start:           world.Position{X: 0, Y: 0},
		Facing:          world.Down.String(),
		Markers:         []world.Position{{X: 0, Y: 3}, {X: 4, Y: 4}},
		Policy:          sim.PolicySerpentine,
		HistoryCapacity: history.DefaultCapacity,
	}
}

// LoadScenario reads a scenario file. Keys missing from the file keep
// their DefaultScenario values; an empty path returns DefaultScenario.
func LoadScenario(path string) (Scenario, error) {
	def := DefaultScenario()
	if path == "" {
		return def, nil
	}

	v := viper.New()
	v.SetDefault(keyGridSize, def.GridSize)
	v.SetDefault(keyHome+".x", def.Home.X)
	v.SetDefault(keyHome+".y", def.Home.Y)
	v.SetDefault(keyStart+".x", def.Start.X)
	v.SetDefault(keyStart+".y", def.Start.Y)
	v.SetDefault(keyFacing, def.Facing)
	v.SetDefault(keyPolicy, def.Policy)
	v.SetDefault(keyHistoryCapacity, def.HistoryCapacity)
	v.SetDefault(keyWalkHome, def.WalkHome)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Scenario{}, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := v.Unmarshal(&s); err != nil {
		return Scenario{}, fmt.Errorf("decode scenario %s: %w", path, err)
	}
	if !v.IsSet(keyMarkers) {
		s.Markers = def.Markers
	}
	return s, nil
}

// SimConfig turns the scenario into a simulation configuration. Renderer,
// sleeper, logger and pacing are left for the caller.
func (s Scenario) SimConfig() (sim.Config, error) {
	facing, err := world.ParseDirection(s.Facing)
	if err != nil {
		return sim.Config{}, fmt.Errorf("%w: facing: %w", ErrInvalidScenario, err)
	}
	policy, err := sim.NewPolicy(s.Policy)
	if err != nil {
		return sim.Config{}, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	markers := make([]world.Position, len(s.Markers))
	copy(markers, s.Markers)

	return sim.Config{
		GridSize:             s.GridSize,
		Home:                 s.Home,
		Start:                s.Start,
		Facing:               facing,
		Markers:              markers,
		HistoryCapacity:      s.HistoryCapacity,
		Policy:               policy,
		WalkHomeOnExhaustion: s.WalkHome,
	}, nil
}

// StepDelay returns STEP_DELAY_MS as a duration.
func (c Config) StepDelay() time.Duration {
	return time.Duration(c.StepDelayMS) * time.Millisecond
}
