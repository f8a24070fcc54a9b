package i

import (
	"context"
	"time"

	"github.com/beka-birhanu/gridbot/config"
	"github.com/beka-birhanu/gridbot/robot"
	"github.com/beka-birhanu/gridbot/sim"
	"github.com/google/uuid"
)

// RunInfo describes a run as seen from outside.
type RunInfo struct {
	ID        uuid.UUID   `json:"id"`
	Running   bool        `json:"running"`
	State     sim.State   `json:"state"`
	Steps     int         `json:"steps"`
	Delivered int         `json:"delivered"`
	Remaining int         `json:"remaining"`
	Evictions int         `json:"evictions"`
	Robot     robot.State `json:"robot"`
	Channel   string      `json:"channel,omitempty"` // Redis frames channel, if publishing
	Error     string      `json:"error,omitempty"`
}

// RunEntry is one run in a listing. Only Local runs can be inspected or
// stopped through the server that listed them; the others were started by
// servers sharing the run index.
type RunEntry struct {
	ID        uuid.UUID `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Local     bool      `json:"local"`
}

// RunManager starts simulations and reports on them by ID.
type RunManager interface {
	Start(config.Scenario) (uuid.UUID, error)
	Info(uuid.UUID) (RunInfo, error)
	Frame(uuid.UUID) (sim.Frame, error)
	Wait(context.Context, uuid.UUID) (RunInfo, error)
	List(ctx context.Context, limit int) ([]RunEntry, error)
	Stop(uuid.UUID) error
	StopAll()
}
