// Package runapi exposes simulation runs over HTTP.
package runapi

import (
	"github.com/beka-birhanu/gridbot/service/i"
	"github.com/google/uuid"
)

// StartResponse is returned when a run is accepted.
type StartResponse struct {
	ID uuid.UUID `json:"id"`
}

// ListResponse lists runs, newest first. Runs that are not local belong to
// another server sharing the run index and are not found here.
type ListResponse struct {
	Runs []i.RunEntry `json:"runs"`
}
