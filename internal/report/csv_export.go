package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/user/tep_simulator_go/internal/tep"
)

// WriteProcessDataCSV writes the time index and all labeled columns to w.
// The first column, time_min, is the elapsed simulated time in minutes.
func WriteProcessDataCSV(w io.Writer, pd *tep.ProcessData) error {
	if pd == nil {
		return fmt.Errorf("CSV write error: no process data")
	}
	cw := csv.NewWriter(w)

	labels, minutes := pd.Labels(), pd.Minutes()
	header := append([]string{"time_min"}, labels...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("CSV write error: cannot write header: %w", err)
	}

	row := make([]string, len(header))
	for i := 0; i < pd.Samples(); i++ {
		row[0] = strconv.Itoa(minutes[i])
		for j := range labels {
			row[j+1] = strconv.FormatFloat(pd.At(i, j), 'g', 15, 64)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("CSV write error: cannot write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveProcessDataCSV writes the process data to filename, creating parent
// directories as needed.
func SaveProcessDataCSV(filename string, pd *tep.ProcessData) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("CSV write error: cannot create directory: %w", err)
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("CSV write error: cannot open file: %w", err)
	}
	if err := WriteProcessDataCSV(f, pd); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCatalogCSV writes the variable catalog followed by the disturbance
// catalog as one table: code, kind, description, unit, note.
func WriteCatalogCSV(w io.Writer, vars tep.VariableCatalog, dists tep.DisturbanceCatalog) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"code", "kind", "description", "unit", "note"}); err != nil {
		return err
	}
	for _, v := range vars {
		note := ""
		if v.Suspect {
			note = "no simulated column"
		}
		if err := cw.Write([]string{v.Code, v.Kind.String(), v.Description, v.Unit, note}); err != nil {
			return err
		}
	}
	for _, d := range dists {
		if err := cw.Write([]string{d.Code, "disturbance", d.Description, "", ""}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
