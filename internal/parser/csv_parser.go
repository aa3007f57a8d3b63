package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/user/tep_simulator_go/internal/tep"
)

var idvHeader = regexp.MustCompile(`^(?i)IDV\s*\(\s*(\d+)\s*\)$`)

// ParseChannel reads a disturbance channel written as "6" or "IDV(6)".
func ParseChannel(s string) (int, error) {
	s = strings.TrimSpace(s)
	if m := idvHeader.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad disturbance channel %q", s)
	}
	return n, nil
}

// isHeaderRow reports whether the first record is a label row rather than data:
// it names an IDV channel, or none of its cells is a number. A row mixing
// numbers and text is data with bad cells.
func isHeaderRow(row []string) bool {
	labels := 0
	for _, cell := range row {
		c := strings.TrimSpace(cell)
		if c == "" {
			continue
		}
		if idvHeader.MatchString(c) {
			return true
		}
		if _, err := strconv.ParseFloat(c, 64); err == nil {
			return false
		}
		labels++
	}
	return labels > 0
}

// ParseDisturbanceCSV reads a disturbance series from a CSV file, one row per
// sample, one column per IDV channel.
func ParseDisturbanceCSV(filepath string) (*ParsedDisturbances, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()
	return ParseDisturbances(file)
}

// ParseDisturbances reads a disturbance series from r. An optional first row
// of labels is kept in Header; IDV(i) labels must appear in order. Empty rows
// are skipped. Cells that are not numbers become NaN and are reported in
// ParseErrors, since the engine receives values unchecked. A row whose width
// differs from the first data row is fatal.
func ParseDisturbances(r io.Reader) (*ParsedDisturbances, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}

	parsed := NewParsedDisturbances()
	cols := -1
	var data []float64

	for rowIdx, row := range allRows {
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}

		if cols < 0 && len(parsed.Header) == 0 && isHeaderRow(row) {
			for i, cell := range row {
				label := strings.TrimSpace(cell)
				if m := idvHeader.FindStringSubmatch(label); m != nil {
					if n, _ := strconv.Atoi(m[1]); n != i+1 {
						return nil, fmt.Errorf("CSV row %d: column %d is labeled %s, expected %s", rowIdx+1, i+1, label, tep.DisturbanceLabel(i+1))
					}
				}
				parsed.Header = append(parsed.Header, label)
			}
			cols = len(row)
			continue
		}

		if cols < 0 {
			cols = len(row)
		}
		if len(row) != cols {
			return nil, fmt.Errorf("CSV row %d has %d fields, expected %d", rowIdx+1, len(row), cols)
		}

		for i, cell := range row {
			valStr := strings.TrimSpace(cell)
			val, err := strconv.ParseFloat(valStr, 64)
			if err != nil {
				parsed.ParseErrors = append(parsed.ParseErrors, fmt.Sprintf("Warning: CSV row %d, column %d - cannot convert '%s', using NaN.", rowIdx+1, i+1, valStr))
				val = math.NaN()
			}
			data = append(data, val)
		}
		parsed.NumSamples++
	}

	if cols < 0 {
		cols = 0
		parsed.ParseErrors = append(parsed.ParseErrors, "Warning: No disturbance rows found.")
	}
	parsed.Matrix = tep.NewMatrix(parsed.NumSamples, cols, data)
	if cols != tep.NumDisturbances {
		parsed.ParseErrors = append(parsed.ParseErrors, fmt.Sprintf("Warning: %d columns found, the simulator expects %d.", cols, tep.NumDisturbances))
	}
	return parsed, nil
}
