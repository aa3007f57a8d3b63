package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/user/tep_simulator_go/internal/tep"
)

// validValues drops NaN entries.
func validValues(data []float64) []float64 {
	out := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// summarize fills the statistics of one channel. With no valid samples every
// statistic is NaN; with one sample the spread is 0.
func summarize(res *ChannelSummary, values []float64) {
	res.NumValid = len(values)
	res.Mean, res.StdDev = math.NaN(), math.NaN()
	res.Min, res.Max, res.Range = math.NaN(), math.NaN(), math.NaN()
	if len(values) == 0 {
		return
	}
	res.Mean, res.StdDev = stat.PopMeanStdDev(values, nil)
	res.Min = floats.Min(values)
	res.Max = floats.Max(values)
	res.Range = res.Max - res.Min
	if len(values) == 1 {
		res.StdDev = 0
	}
}

// AnalyzeProcessData computes per-channel statistics of a simulation result.
// catalog supplies descriptions and units; channels missing from it are
// still summarized and reported in AnalysisErrors.
func AnalyzeProcessData(pd *tep.ProcessData, catalog tep.VariableCatalog) (*AnalysisResults, error) {
	if pd == nil {
		return nil, fmt.Errorf("process data is nil, cannot analyze")
	}

	results := NewAnalysisResults()
	results.NumSamples = pd.Samples()
	if minutes := pd.Minutes(); len(minutes) > 0 {
		results.DurationMinutes = minutes[len(minutes)-1] + tep.SampleMinutes
	}
	if results.NumSamples == 0 {
		results.AnalysisErrors = append(results.AnalysisErrors, "Process data has no samples; statistics are NaN.")
	}

	allStdDevs := []RankedChannel{}
	allRanges := []RankedChannel{}

	for j, label := range pd.Labels() {
		col, _ := pd.Column(label)
		res := ChannelSummary{Label: label, Column: j}
		if v, ok := catalog.Lookup(label); ok {
			res.Description = v.Description
			res.Unit = v.Unit
		} else {
			results.AnalysisErrors = append(results.AnalysisErrors, fmt.Sprintf("Channel '%s' is not in the variable catalog.", label))
		}

		summarize(&res, validValues(col))
		if res.NumValid < results.NumSamples {
			results.AnalysisErrors = append(results.AnalysisErrors, fmt.Sprintf("Channel '%s': %d of %d samples are NaN.", label, results.NumSamples-res.NumValid, results.NumSamples))
		}

		if !math.IsNaN(res.StdDev) {
			allStdDevs = append(allStdDevs, RankedChannel{Label: label, Value: res.StdDev})
		}
		if !math.IsNaN(res.Range) {
			allRanges = append(allRanges, RankedChannel{Label: label, Value: res.Range})
		}
		results.Channels = append(results.Channels, res)
	}

	sort.SliceStable(allStdDevs, func(i, j int) bool {
		return allStdDevs[i].Value > allStdDevs[j].Value
	})
	results.RankedByStdDev = allStdDevs

	sort.SliceStable(allRanges, func(i, j int) bool {
		return allRanges[i].Value > allRanges[j].Value
	})
	results.RankedByRange = allRanges

	return results, nil
}
