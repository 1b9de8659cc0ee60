package airport

import (
	"errors"
	"fmt"
)

// ErrNotFound marks an IATA code that resolved nowhere.
var ErrNotFound = errors.New("airport not found")

// UpstreamError reports a failed or unusable provider response. It is
// recoverable: the caller can retry later; the simulation simply cannot
// start until endpoints resolve.
type UpstreamError struct {
	IATA string
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("airport provider failed for %s: %v", e.IATA, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
