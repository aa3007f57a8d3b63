package tep

import "testing"

func TestTotalSteps(t *testing.T) {
	for _, n := range []int{0, 1, 5, 100, 2880} {
		if got := TotalSteps(n); got != n*180 {
			t.Errorf("TotalSteps(%d) = %d, want %d", n, got, n*180)
		}
	}
}

func TestColumnLabels(t *testing.T) {
	labels := ColumnLabels()
	if len(labels) != NumOutputs {
		t.Fatalf("len = %d, want %d", len(labels), NumOutputs)
	}
	for i := 0; i < NumMeasured; i++ {
		if want := MeasuredLabel(i + 1); labels[i] != want {
			t.Errorf("labels[%d] = %q, want %q", i, labels[i], want)
		}
	}
	for i := 0; i < NumManipulated; i++ {
		if want := ManipulatedLabel(i + 1); labels[NumMeasured+i] != want {
			t.Errorf("labels[%d] = %q, want %q", NumMeasured+i, labels[NumMeasured+i], want)
		}
	}
}

func TestVariableCatalog(t *testing.T) {
	c := BuildVariableCatalog()
	if len(c) != NumMeasured+12 {
		t.Fatalf("catalog has %d rows, want 53", len(c))
	}

	tests := []struct {
		code, desc, unit string
		suspect          bool
	}{
		{"XMEAS(1)", "A Feed (stream 1)", "kscmh", false},
		{"XMEAS(9)", "Reactor Temperature", "oC", false},
		{"XMEAS(22)", "Separator Cooling Water Outlet Temp", "oC", false},
		{"XMEAS(23)", "Component A (stream 6)", "mole %", false},
		{"XMEAS(41)", "Component H (stream 11)", "mole %", false},
		{"XMV(1)", "D Feed Flow (stream 2)", "%", false},
		{"XMV(11)", "Condenser Cooling Water Flow", "%", false},
		{"XMV(12)", "Agitator Speed", "%", true},
	}
	for _, tc := range tests {
		v, ok := c.Lookup(tc.code)
		if !ok {
			t.Errorf("%s missing", tc.code)
			continue
		}
		if v.Description != tc.desc || v.Unit != tc.unit || v.Suspect != tc.suspect {
			t.Errorf("%s = %+v", tc.code, v)
		}
	}
}

func TestSimulatedCatalogMatchesColumns(t *testing.T) {
	sim := BuildVariableCatalog().Simulated()
	labels := ColumnLabels()
	if len(sim) != len(labels) {
		t.Fatalf("simulated catalog has %d rows, columns %d", len(sim), len(labels))
	}
	for i, v := range sim {
		if v.Code != labels[i] {
			t.Errorf("row %d: catalog %q, column %q", i, v.Code, labels[i])
		}
	}
}

func TestDisturbanceCatalog(t *testing.T) {
	c := BuildDisturbanceCatalog()
	if len(c) != NumDisturbances {
		t.Fatalf("len = %d", len(c))
	}
	for i, d := range c {
		if d.Code != DisturbanceLabel(i+1) || d.Index != i+1 || d.Description == "" {
			t.Errorf("row %d = %+v", i, d)
		}
	}
	if d, _ := c.Lookup("IDV(6)"); d.Description != "A Feed Loss (Stream 1) Step" {
		t.Errorf("IDV(6) = %q", d.Description)
	}
	if d, _ := c.Lookup("IDV(20)"); d.Description != "Unknown" {
		t.Errorf("IDV(20) = %q", d.Description)
	}
}

func TestAssembleProcessData(t *testing.T) {
	raw := NewMatrix(4, NumOutputs, nil)
	raw.Set(2, 10, 3.5)
	pd, err := AssembleProcessData(raw, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(pd.Minutes()); i++ {
		if pd.Minutes()[i]-pd.Minutes()[i-1] != SampleMinutes {
			t.Fatalf("index not contiguous: %v", pd.Minutes())
		}
	}
	if pd.Minutes()[0] != 0 {
		t.Errorf("index starts at %d", pd.Minutes()[0])
	}
	col, ok := pd.Column("XMEAS(11)")
	if !ok || col[2] != 3.5 {
		t.Errorf("Column(XMEAS(11)) = %v, %v", col, ok)
	}
	if _, ok := pd.Column("XMV(12)"); ok {
		t.Error("XMV(12) should not be a column")
	}
	if got := pd.Times()[3].Minutes(); got != 9 {
		t.Errorf("Times()[3] = %v min", got)
	}

	if _, err := AssembleProcessData(raw, 5); err == nil {
		t.Error("row mismatch not reported")
	}
	if _, err := AssembleProcessData(NewMatrix(4, 51, nil), 4); err == nil {
		t.Error("column mismatch not reported")
	}
}
