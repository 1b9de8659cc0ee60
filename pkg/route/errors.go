package route

import "fmt"

// OutOfRangeError reports a progress value outside [0,100]. Correct callers
// clamp before sampling; seeing this error is a programming bug, not bad
// user input.
type OutOfRangeError struct {
	Value float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("progress %.4f outside [0,100]", e.Value)
}
