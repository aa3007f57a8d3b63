package parser

import "github.com/user/tep_simulator_go/internal/tep"

// ParsedDisturbances holds a disturbance series read from CSV.
// Matrix columns are in file order; the session checks the column count.
type ParsedDisturbances struct {
	Matrix      *tep.Matrix
	Header      []string // column labels if the file had a header row
	NumSamples  int
	ParseErrors []string // non-fatal problems, e.g. unparsable cells set to NaN
}

// NewParsedDisturbances initializes an empty result.
func NewParsedDisturbances() *ParsedDisturbances {
	return &ParsedDisturbances{
		Header:      make([]string, 0),
		ParseErrors: make([]string, 0),
	}
}
