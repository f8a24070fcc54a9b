package render

import (
	"errors"

	"github.com/beka-birhanu/gridbot/sim"
)

// Multi fans each frame out to several renderers. Every renderer is called
// even when an earlier one fails.
type Multi []sim.Renderer

// Render implements sim.Renderer.
func (m Multi) Render(f sim.Frame) error {
	var errs []error
	for _, r := range m {
		if err := r.Render(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
