package tep

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// TotalSteps is the number of one-second engine steps needed to produce
// nSamples three-minute samples.
func TotalSteps(nSamples int) int {
	return nSamples * StepsPerSample
}

// Engine is the external process simulator. Run advances the plant
// totalSteps seconds and returns nSamples rows of NumOutputs values
// (41 XMEAS then 11 XMV) in input row order. verbose follows the engine
// convention: 0 verbose, 1 quiet.
//
// Implementations are not assumed to be safe for concurrent use; the
// package serializes calls. disturbances is a copy owned by the call.
type Engine interface {
	Run(ctx context.Context, totalSteps, nSamples int, disturbances mat.Matrix, verbose int) (mat.Matrix, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, totalSteps, nSamples int, disturbances mat.Matrix, verbose int) (mat.Matrix, error)

func (f EngineFunc) Run(ctx context.Context, totalSteps, nSamples int, disturbances mat.Matrix, verbose int) (mat.Matrix, error) {
	return f(ctx, totalSteps, nSamples, disturbances, verbose)
}

// engineSlot admits one engine invocation at a time, process-wide.
var engineSlot = make(chan struct{}, 1)

type runResult struct {
	raw mat.Matrix
	err error
}

// invoke runs one engine call for req and checks the returned shape. The call
// runs in its own goroutine so a cancelled ctx returns immediately; the slot
// stays held until the engine actually returns.
func invoke(ctx context.Context, eng Engine, req Request) (*Matrix, error) {
	fail := func(err error) *EngineInvocationError {
		e := &EngineInvocationError{TotalSteps: req.TotalSteps, Samples: req.Samples, Err: err}
		var d Diagnostic
		if errors.As(err, &d) {
			e.Diagnostic = d.Diagnostic()
		}
		return e
	}

	select {
	case engineSlot <- struct{}{}:
	case <-ctx.Done():
		return nil, fail(ctx.Err())
	}

	done := make(chan runResult, 1)
	go func() {
		defer func() { <-engineSlot }()
		defer func() {
			if r := recover(); r != nil {
				done <- runResult{err: fmt.Errorf("engine panic: %v", r)}
			}
		}()
		raw, err := eng.Run(ctx, req.TotalSteps, req.Samples, req.Disturbances, int(req.Verbosity))
		done <- runResult{raw: raw, err: err}
	}()

	var res runResult
	select {
	case res = <-done:
	case <-ctx.Done():
		return nil, fail(ctx.Err())
	}
	if res.err != nil {
		return nil, fail(res.err)
	}
	if res.raw == nil {
		return nil, fail(errors.New("engine returned no data"))
	}
	r, c := res.raw.Dims()
	if r != req.Samples || c != NumOutputs {
		return nil, fail(&ConsistencyError{
			What:     "engine result",
			WantRows: req.Samples, WantCols: NumOutputs,
			GotRows: r, GotCols: c,
		})
	}
	return CloneMatrix(res.raw), nil
}
