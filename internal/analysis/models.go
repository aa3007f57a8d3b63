package analysis

// ChannelSummary holds the statistics of one output column over a run.
type ChannelSummary struct {
	Label       string // e.g. "XMEAS(7)"
	Description string
	Unit        string
	Column      int // position in the process data
	NumValid    int // non-NaN samples
	Mean        float64
	StdDev      float64 // population standard deviation
	Min         float64
	Max         float64
	Range       float64
}

// RankedChannel is used for ranking channels by a statistic.
type RankedChannel struct {
	Label string
	Value float64
}

// AnalysisResults holds the summary of one simulation.
type AnalysisResults struct {
	Channels        []ChannelSummary
	NumSamples      int
	DurationMinutes int
	RankedByStdDev  []RankedChannel // descending
	RankedByRange   []RankedChannel // descending
	AnalysisErrors  []string
}

func NewAnalysisResults() *AnalysisResults {
	return &AnalysisResults{
		Channels:       make([]ChannelSummary, 0),
		RankedByStdDev: make([]RankedChannel, 0),
		RankedByRange:  make([]RankedChannel, 0),
		AnalysisErrors: make([]string, 0),
	}
}

// Channel returns the summary for a label.
func (r *AnalysisResults) Channel(label string) (ChannelSummary, bool) {
	for _, c := range r.Channels {
		if c.Label == label {
			return c, true
		}
	}
	return ChannelSummary{}, false
}
