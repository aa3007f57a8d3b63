package tep

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Channel counts of the Tennessee Eastman process.
const (
	NumMeasured     = 41                           // XMEAS columns in the engine output
	NumManipulated  = 11                           // XMV columns in the engine output
	NumOutputs      = NumMeasured + NumManipulated // 52
	NumDisturbances = 20                           // IDV columns in the engine input
)

// Sampling cadence. The engine advances one step per simulated second and
// emits one sample every three minutes.
const (
	SampleMinutes    = 3
	SecondsPerMinute = 60
	StepsPerSample   = SampleMinutes * SecondsPerMinute // 180
)

// Verbosity is the flag handed to the engine. The engine's own convention is
// inverted: 0 asks for verbose logging, 1 keeps it quiet.
type Verbosity int

const (
	Verbose Verbosity = 0
	Quiet   Verbosity = 1
)

func (v Verbosity) String() string {
	switch v {
	case Verbose:
		return "verbose"
	case Quiet:
		return "quiet"
	}
	return fmt.Sprintf("Verbosity(%d)", int(v))
}

// Matrix is a dense row-major matrix. Unlike mat.Dense it may have zero rows,
// which is how an empty disturbance series (0 x 20) is represented.
// It satisfies mat.Matrix so gonum routines can read it.
type Matrix struct {
	rows, cols int
	data       []float64
}

var _ mat.Matrix = (*Matrix)(nil)

// NewMatrix creates a rows x cols matrix backed by data. A nil data slice
// allocates a zeroed matrix. NewMatrix panics on negative dimensions or when
// len(data) != rows*cols, following mat.NewDense.
func NewMatrix(rows, cols int, data []float64) *Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("tep: negative matrix dimension %dx%d", rows, cols))
	}
	if data == nil {
		data = make([]float64, rows*cols)
	}
	if len(data) != rows*cols {
		panic(fmt.Sprintf("tep: matrix data length %d does not match %dx%d", len(data), rows, cols))
	}
	return &Matrix{rows: rows, cols: cols, data: data}
}

// NewMatrixFromRows copies a slice of equally sized rows. Zero rows need an
// explicit column count, so cols is always given.
func NewMatrixFromRows(cols int, rows [][]float64) (*Matrix, error) {
	m := NewMatrix(len(rows), cols, nil)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i+1, len(r), cols)
		}
		copy(m.data[i*cols:(i+1)*cols], r)
	}
	return m, nil
}

// CloneMatrix copies any mat.Matrix into a new Matrix.
func CloneMatrix(a mat.Matrix) *Matrix {
	r, c := a.Dims()
	m := NewMatrix(r, c, nil)
	if src, ok := a.(*Matrix); ok {
		copy(m.data, src.data)
		return m
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.data[i*c+j] = a.At(i, j)
		}
	}
	return m
}

func (m *Matrix) Dims() (r, c int) { return m.rows, m.cols }

func (m *Matrix) At(i, j int) float64 {
	if uint(i) >= uint(m.rows) || uint(j) >= uint(m.cols) {
		panic(mat.ErrIndexOutOfRange)
	}
	return m.data[i*m.cols+j]
}

func (m *Matrix) Set(i, j int, v float64) {
	if uint(i) >= uint(m.rows) || uint(j) >= uint(m.cols) {
		panic(mat.ErrIndexOutOfRange)
	}
	m.data[i*m.cols+j] = v
}

func (m *Matrix) T() mat.Matrix { return mat.Transpose{Matrix: m} }

// RawRow returns row i without copying.
func (m *Matrix) RawRow(i int) []float64 {
	if uint(i) >= uint(m.rows) {
		panic(mat.ErrRowAccess)
	}
	return m.data[i*m.cols : (i+1)*m.cols]
}

// Dense returns a mat.Dense copy, or nil when the matrix has no elements.
func (m *Matrix) Dense() *mat.Dense {
	if m.rows == 0 || m.cols == 0 {
		return nil
	}
	d := make([]float64, len(m.data))
	copy(d, m.data)
	return mat.NewDense(m.rows, m.cols, d)
}

// Request holds the parameters of one engine invocation.
type Request struct {
	TotalSteps   int
	Samples      int
	Disturbances *Matrix
	Verbosity    Verbosity
}

// ProcessData is the labeled, time-indexed engine output. Rows are samples,
// columns are XMEAS(1..41) followed by XMV(1..11).
type ProcessData struct {
	columns []string // column labels, positional
	minutes []int    // elapsed simulated time of each row
	values  *Matrix
}

var _ mat.Matrix = (*ProcessData)(nil)

func (p *ProcessData) Dims() (r, c int)    { return p.values.Dims() }
func (p *ProcessData) At(i, j int) float64 { return p.values.At(i, j) }
func (p *ProcessData) T() mat.Matrix       { return mat.Transpose{Matrix: p} }
func (p *ProcessData) Samples() int        { return p.values.rows }
func (p *ProcessData) Values() *Matrix     { return CloneMatrix(p.values) }
func (p *ProcessData) Labels() []string    { return append([]string(nil), p.columns...) }
func (p *ProcessData) Minutes() []int      { return append([]int(nil), p.minutes...) }
func (p *ProcessData) Row(i int) []float64 { return append([]float64(nil), p.values.RawRow(i)...) }
func (p *ProcessData) ColumnIndex(label string) int {
	for j, l := range p.columns {
		if l == label {
			return j
		}
	}
	return -1
}

// Column returns a copy of the column with the given label.
func (p *ProcessData) Column(label string) ([]float64, bool) {
	j := p.ColumnIndex(label)
	if j < 0 {
		return nil, false
	}
	out := make([]float64, p.values.rows)
	if len(out) > 0 {
		mat.Col(out, j, p.values)
	}
	return out, true
}

// Times returns the row index as durations since the start of the run.
func (p *ProcessData) Times() []time.Duration {
	out := make([]time.Duration, len(p.minutes))
	for i, m := range p.minutes {
		out[i] = time.Duration(m) * time.Minute
	}
	return out
}

// VariableKind separates measured from manipulated variables.
type VariableKind int

const (
	Measured VariableKind = iota
	Manipulated
)

func (k VariableKind) String() string {
	if k == Manipulated {
		return "manipulated"
	}
	return "measured"
}

// Variable is one row of the variable catalog.
type Variable struct {
	Code        string // e.g. "XMEAS(9)"
	Kind        VariableKind
	Index       int // 1-based within its kind
	Description string
	Unit        string
	// Suspect marks catalog rows with no matching engine output column.
	Suspect bool
}

// VariableCatalog lists XMEAS(1..41) and XMV(1..12) in that order.
type VariableCatalog []Variable

// Lookup finds a variable by code.
func (c VariableCatalog) Lookup(code string) (Variable, bool) {
	for _, v := range c {
		if v.Code == code {
			return v, true
		}
	}
	return Variable{}, false
}

// Simulated returns the entries that have an engine output column, in
// column order.
func (c VariableCatalog) Simulated() VariableCatalog {
	out := make(VariableCatalog, 0, NumOutputs)
	for _, v := range c {
		if !v.Suspect {
			out = append(out, v)
		}
	}
	return out
}

// Disturbance is one row of the disturbance catalog.
type Disturbance struct {
	Code        string // e.g. "IDV(4)"
	Index       int    // 1-based; column Index-1 of the disturbance matrix
	Description string
}

// DisturbanceCatalog lists IDV(1..20).
type DisturbanceCatalog []Disturbance

func (c DisturbanceCatalog) Lookup(code string) (Disturbance, bool) {
	for _, d := range c {
		if d.Code == code {
			return d, true
		}
	}
	return Disturbance{}, false
}
