package tep

// AssembleProcessData labels raw engine output. Columns are assigned by
// position only; the row index starts at 0 and advances SampleMinutes per row.
// Values are not copied or transformed.
func AssembleProcessData(raw *Matrix, nSamples int) (*ProcessData, error) {
	if raw == nil {
		return nil, &ConsistencyError{What: "raw result", WantRows: nSamples, WantCols: NumOutputs}
	}
	r, c := raw.Dims()
	if r != nSamples || c != NumOutputs {
		return nil, &ConsistencyError{
			What:     "raw result",
			WantRows: nSamples, WantCols: NumOutputs,
			GotRows: r, GotCols: c,
		}
	}

	minutes := make([]int, nSamples)
	for i := range minutes {
		minutes[i] = i * SampleMinutes
	}
	return &ProcessData{
		columns: ColumnLabels(),
		minutes: minutes,
		values:  raw,
	}, nil
}
