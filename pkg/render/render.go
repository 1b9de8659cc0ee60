// Package render adapts simulation state into view-layer payloads. The
// simulation core knows nothing about maps or globes; renderers consume
// routes and samples and emit whatever their display needs.
package render

import (
	"sunviewgo/pkg/route"
	"sunviewgo/pkg/sim"
)

// Renderer turns a route and the current sample into a displayable payload.
type Renderer interface {
	Render(r *route.Route, res sim.SampleResult) ([]byte, error)
}
