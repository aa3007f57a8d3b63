// Package disturbance builds disturbance series for the simulator.
package disturbance

import (
	"fmt"
	"math"
	"sort"

	"github.com/user/tep_simulator_go/internal/tep"
)

// Zeros returns n samples of normal operation (every IDV off).
func Zeros(n int) *tep.Matrix {
	if n < 0 {
		n = 0
	}
	return tep.NewMatrix(n, tep.NumDisturbances, nil)
}

// Scenario switches a set of IDV channels on at a given sample and keeps them
// on until the end of the run.
type Scenario struct {
	Samples  int
	Onset    int   // first sample (0-based) with the disturbances active
	Channels []int // IDV numbers, 1..20
}

// Build returns the Samples x 20 disturbance series.
func (s Scenario) Build() (*tep.Matrix, error) {
	if s.Samples < 0 {
		return nil, fmt.Errorf("scenario: negative sample count %d", s.Samples)
	}
	if s.Onset < 0 {
		return nil, fmt.Errorf("scenario: negative onset %d", s.Onset)
	}
	for _, ch := range s.Channels {
		if ch < 1 || ch > tep.NumDisturbances {
			return nil, fmt.Errorf("scenario: no disturbance channel %s", tep.DisturbanceLabel(ch))
		}
	}

	m := Zeros(s.Samples)
	for i := s.Onset; i < s.Samples; i++ {
		for _, ch := range s.Channels {
			m.Set(i, ch-1, 1)
		}
	}
	return m, nil
}

// Active lists the channel codes switched on at sample i, in channel order.
// NaN cells (unparsable input) do not count as on.
func Active(m *tep.Matrix, i int) []string {
	var out []int
	for j, v := range m.RawRow(i) {
		if v != 0 && !math.IsNaN(v) {
			out = append(out, j+1)
		}
	}
	sort.Ints(out)
	codes := make([]string, len(out))
	for k, ch := range out {
		codes[k] = tep.DisturbanceLabel(ch)
	}
	return codes
}
