package tep

import (
	"errors"
	"fmt"
)

// ErrNoEngine is returned by New when no engine is supplied.
var ErrNoEngine = errors.New("tep: no simulation engine configured")

// InvalidShapeError reports a disturbance matrix without exactly
// NumDisturbances columns. No session is created.
type InvalidShapeError struct {
	Rows, Cols int
}

func (e *InvalidShapeError) Error() string {
	return fmt.Sprintf("tep: disturbance matrix is %dx%d, it must have exactly %d columns", e.Rows, e.Cols, NumDisturbances)
}

// EngineInvocationError wraps a failed engine call. Diagnostic carries
// whatever the engine reported.
type EngineInvocationError struct {
	TotalSteps int
	Samples    int
	Diagnostic string
	Err        error
}

func (e *EngineInvocationError) Error() string {
	msg := fmt.Sprintf("tep: engine run (npts=%d, nx=%d) failed", e.TotalSteps, e.Samples)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Diagnostic != "" {
		msg += " [" + e.Diagnostic + "]"
	}
	return msg
}

func (e *EngineInvocationError) Unwrap() error { return e.Err }

// ConsistencyError reports a result whose shape differs from the expected
// samples x NumOutputs.
type ConsistencyError struct {
	What               string
	WantRows, WantCols int
	GotRows, GotCols   int
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("tep: %s has shape %dx%d, expected %dx%d", e.What, e.GotRows, e.GotCols, e.WantRows, e.WantCols)
}

// Diagnostic is implemented by engine errors that carry the engine's own
// report (for example captured stderr).
type Diagnostic interface {
	Diagnostic() string
}
