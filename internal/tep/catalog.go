package tep

import "fmt"

// MeasuredLabel returns the code of measured variable i (1-based).
func MeasuredLabel(i int) string { return fmt.Sprintf("XMEAS(%d)", i) }

// ManipulatedLabel returns the code of manipulated variable i (1-based).
func ManipulatedLabel(i int) string { return fmt.Sprintf("XMV(%d)", i) }

// DisturbanceLabel returns the code of disturbance channel i (1-based).
func DisturbanceLabel(i int) string { return fmt.Sprintf("IDV(%d)", i) }

// ColumnLabels returns the engine output labels in positional order:
// XMEAS(1..41) then XMV(1..11).
func ColumnLabels() []string {
	labels := make([]string, 0, NumOutputs)
	for i := 1; i <= NumMeasured; i++ {
		labels = append(labels, MeasuredLabel(i))
	}
	for i := 1; i <= NumManipulated; i++ {
		labels = append(labels, ManipulatedLabel(i))
	}
	return labels
}

// catalogManipulated is the number of XMV rows in the reference table. It is
// one more than the engine emits; the extra row (agitator speed) is kept and
// marked suspect.
const catalogManipulated = 12

var variableDescriptions = [NumMeasured + catalogManipulated]string{
	"A Feed (stream 1)",
	"D Feed (stream 2)",
	"E Feed (stream 3)",
	"A and C Feed (stream 4)",
	"Recycle Flow (stream 8)",
	"Reactor Feed Rate (stream 6)",
	"Reactor Pressure",
	"Reactor Level",
	"Reactor Temperature",
	"Purge Rate (stream 9)",
	"Product Sep Temp",
	"Product Sep Level",
	"Prod Sep Pressure",
	"Prod Sep Underflow (stream 10)",
	"Stripper Level",
	"Stripper Pressure",
	"Stripper Underflow (stream 11)",
	"Stripper Temperature",
	"Stripper Steam Flow",
	"Compressor Work",
	"Reactor Cooling Water Outlet Temp",
	"Separator Cooling Water Outlet Temp",
	"Component A (stream 6)",
	"Component B (stream 6)",
	"Component C (stream 6)",
	"Component D (stream 6)",
	"Component E (stream 6)",
	"Component F (stream 6)",
	"Component A (stream 9)",
	"Component B (stream 9)",
	"Component C (stream 9)",
	"Component D (stream 9)",
	"Component E (stream 9)",
	"Component F (stream 9)",
	"Component G (stream 9)",
	"Component H (stream 9)",
	"Component D (stream 11)",
	"Component E (stream 11)",
	"Component F (stream 11)",
	"Component G (stream 11)",
	"Component H (stream 11)",
	"D Feed Flow (stream 2)",
	"E Feed Flow (stream 3)",
	"A Feed Flow (stream 1)",
	"A and C Feed Flow (stream 4)",
	"Compressor Recycle Valve",
	"Purge Valve (stream 9)",
	"Separator Pot Liquid Flow (stream 10)",
	"Stripper Liquid Product Flow (stream 11)",
	"Stripper Steam Valve",
	"Reactor Cooling Water Flow",
	"Condenser Cooling Water Flow",
	"Agitator Speed",
}

// Units of the continuous measurements XMEAS(1..22). The analyzer channels
// XMEAS(23..41) are in mole % and every XMV is in %.
var measuredUnits = [22]string{
	"kscmh", "kg h-1", "kg h-1", "kscmh", "kscmh", "kscmh", "kPa", "%",
	"oC", "kscmh", "oC", "%", "kPa", "m3 h-1", "%", "kPa",
	"m3 h-1", "oC", "kg h-1", "kW", "oC", "oC",
}

const (
	analyzerUnit    = "mole %"
	manipulatedUnit = "%"
)

var disturbanceDescriptions = [NumDisturbances]string{
	"A/C Feed Ratio, B Composition Constant (Stream 4) Step",
	"B Composition, A/C Ratio Constant (Stream 4) Step",
	"D Feed Temperature (Stream 2) Step",
	"Reactor Cooling Water Inlet Temperature Step",
	"Condenser Cooling Water Inlet Temperature Step",
	"A Feed Loss (Stream 1) Step",
	"C Header Pressure Loss - Reduced Availability (Stream 4) Step",
	"A, B, C Feed Composition (Stream 4) Random Variation",
	"D Feed Temperature (Stream 2) Random Variation",
	"C Feed Temperature (Stream 4) Random Variation",
	"Reactor Cooling Water Inlet Temperature Random Variation",
	"Condenser Cooling Water Inlet Temperature Random Variation",
	"Reaction Kinetics Slow Drift",
	"Reactor Cooling Water Valve Sticking",
	"Condenser Cooling Water Valve Sticking",
	"Unknown",
	"Unknown",
	"Unknown",
	"Unknown",
	"Unknown",
}

// BuildVariableCatalog returns a fresh copy of the variable reference table.
func BuildVariableCatalog() VariableCatalog {
	c := make(VariableCatalog, 0, len(variableDescriptions))
	for i := 1; i <= NumMeasured; i++ {
		unit := analyzerUnit
		if i <= len(measuredUnits) {
			unit = measuredUnits[i-1]
		}
		c = append(c, Variable{
			Code:        MeasuredLabel(i),
			Kind:        Measured,
			Index:       i,
			Description: variableDescriptions[i-1],
			Unit:        unit,
		})
	}
	for i := 1; i <= catalogManipulated; i++ {
		c = append(c, Variable{
			Code:        ManipulatedLabel(i),
			Kind:        Manipulated,
			Index:       i,
			Description: variableDescriptions[NumMeasured+i-1],
			Unit:        manipulatedUnit,
			Suspect:     i > NumManipulated,
		})
	}
	return c
}

// BuildDisturbanceCatalog returns a fresh copy of the disturbance reference
// table.
func BuildDisturbanceCatalog() DisturbanceCatalog {
	c := make(DisturbanceCatalog, NumDisturbances)
	for i := range c {
		c[i] = Disturbance{
			Code:        DisturbanceLabel(i + 1),
			Index:       i + 1,
			Description: disturbanceDescriptions[i],
		}
	}
	return c
}
