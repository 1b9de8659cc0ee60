package solar

import "fmt"

// InvalidTimeError reports a negative or non-finite elapsed time.
type InvalidTimeError struct {
	ElapsedMinutes float64
}

func (e *InvalidTimeError) Error() string {
	return fmt.Sprintf("invalid elapsed time: %v minutes", e.ElapsedMinutes)
}
