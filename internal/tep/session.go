package tep

import (
	"context"
	"io"
	"log"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Option configures a Session.
type Option func(*Session)

// WithVerbosity sets the flag passed to the engine. The default is Quiet.
func WithVerbosity(v Verbosity) Option {
	return func(s *Session) { s.verbosity = v }
}

// WithTimeout bounds each engine call. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// WithLogger sets the logger used for run progress. nil discards.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Session owns one disturbance series, its reference catalogs and the result
// of the latest successful simulation. A Session is not safe for concurrent
// use.
type Session struct {
	engine       Engine
	disturbances *Matrix
	verbosity    Verbosity
	timeout      time.Duration
	logger       *log.Logger

	variables   VariableCatalog
	disturbCat  DisturbanceCatalog
	processData *ProcessData
}

// New validates the disturbance series and builds a session around eng. The
// series must have exactly NumDisturbances columns; otherwise New returns an
// *InvalidShapeError and no session. The matrix is copied.
func New(disturbances mat.Matrix, eng Engine, opts ...Option) (*Session, error) {
	if disturbances == nil {
		return nil, &InvalidShapeError{}
	}
	r, c := disturbances.Dims()
	if c != NumDisturbances {
		return nil, &InvalidShapeError{Rows: r, Cols: c}
	}
	if eng == nil {
		return nil, ErrNoEngine
	}

	s := &Session{
		engine:       eng,
		disturbances: CloneMatrix(disturbances),
		verbosity:    Quiet,
		logger:       log.New(io.Discard, "", 0),
		variables:    BuildVariableCatalog(),
		disturbCat:   BuildDisturbanceCatalog(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Samples is the number of rows of the disturbance series.
func (s *Session) Samples() int {
	r, _ := s.disturbances.Dims()
	return r
}

// Disturbances returns a copy of the session's disturbance series.
func (s *Session) Disturbances() *Matrix { return CloneMatrix(s.disturbances) }

// Request returns the engine parameters the next Simulate call will use.
// Disturbances is a fresh copy, so an engine writing into its input cannot
// alter the session's series.
func (s *Session) Request() Request {
	n := s.Samples()
	return Request{
		TotalSteps:   TotalSteps(n),
		Samples:      n,
		Disturbances: CloneMatrix(s.disturbances),
		Verbosity:    s.verbosity,
	}
}

// Simulate runs the engine over the whole disturbance series and stores the
// labeled result, replacing any previous one. On failure the session keeps
// no process data until a later call succeeds.
func (s *Session) Simulate(ctx context.Context) (*ProcessData, error) {
	s.processData = nil

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req := s.Request()
	s.logger.Printf("simulating %d samples (%d steps, %s)", req.Samples, req.TotalSteps, req.Verbosity)
	start := time.Now()

	raw, err := invoke(ctx, s.engine, req)
	if err != nil {
		s.logger.Printf("simulation failed: %v", err)
		return nil, err
	}
	pd, err := AssembleProcessData(raw, req.Samples)
	if err != nil {
		return nil, err
	}

	s.logger.Printf("simulation finished in %s", time.Since(start).Round(time.Millisecond))
	s.processData = pd
	return pd, nil
}

// ProcessData returns the result of the last successful Simulate, or nil.
func (s *Session) ProcessData() *ProcessData { return s.processData }

// VariableCatalog returns a copy of the variable reference table.
func (s *Session) VariableCatalog() VariableCatalog {
	return append(VariableCatalog(nil), s.variables...)
}

// DisturbanceCatalog returns a copy of the disturbance reference table.
func (s *Session) DisturbanceCatalog() DisturbanceCatalog {
	return append(DisturbanceCatalog(nil), s.disturbCat...)
}
