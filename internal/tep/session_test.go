package tep

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gonum.org/v1/gonum/mat"
)

// fakeEngine returns value row*100+col for every cell and records its calls.
type fakeEngine struct {
	calls      int
	totalSteps int
	nSamples   int
	verbose    int
	inRows     int
	inCols     int
}

func (f *fakeEngine) Run(_ context.Context, totalSteps, nSamples int, d mat.Matrix, verbose int) (mat.Matrix, error) {
	f.calls++
	f.totalSteps, f.nSamples, f.verbose = totalSteps, nSamples, verbose
	f.inRows, f.inCols = d.Dims()
	out := NewMatrix(nSamples, NumOutputs, nil)
	for i := 0; i < nSamples; i++ {
		for j := 0; j < NumOutputs; j++ {
			out.Set(i, j, float64(i*100+j))
		}
	}
	return out, nil
}

func TestNewRejectsWrongColumnCount(t *testing.T) {
	for _, cols := range []int{0, 1, 19, 21, 52} {
		eng := &fakeEngine{}
		_, err := New(NewMatrix(5, cols, nil), eng)
		var shapeErr *InvalidShapeError
		if !errors.As(err, &shapeErr) {
			t.Fatalf("cols=%d: want InvalidShapeError, got %v", cols, err)
		}
		if shapeErr.Cols != cols || shapeErr.Rows != 5 {
			t.Errorf("cols=%d: error carries %dx%d", cols, shapeErr.Rows, shapeErr.Cols)
		}
		if eng.calls != 0 {
			t.Errorf("cols=%d: engine called %d times", cols, eng.calls)
		}
	}
}

func TestNewRequiresEngine(t *testing.T) {
	if _, err := New(NewMatrix(1, NumDisturbances, nil), nil); !errors.Is(err, ErrNoEngine) {
		t.Fatalf("want ErrNoEngine, got %v", err)
	}
}

func TestNewAcceptsDense(t *testing.T) {
	d := mat.NewDense(2, NumDisturbances, nil)
	d.Set(1, 3, 1)
	s, err := New(d, &fakeEngine{})
	if err != nil {
		t.Fatal(err)
	}
	d.Set(1, 3, 7) // session owns a copy
	if got := s.Disturbances().At(1, 3); got != 1 {
		t.Fatalf("disturbance copy = %v, want 1", got)
	}
}

func TestSimulateFiveZeroSamples(t *testing.T) {
	eng := &fakeEngine{}
	s, err := New(NewMatrix(5, NumDisturbances, nil), eng)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Request().TotalSteps; got != 900 {
		t.Fatalf("TotalSteps = %d, want 900", got)
	}

	pd, err := s.Simulate(context.Background())
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if eng.totalSteps != 900 || eng.nSamples != 5 || eng.verbose != int(Quiet) {
		t.Errorf("engine got npts=%d nx=%d verbose=%d", eng.totalSteps, eng.nSamples, eng.verbose)
	}
	if eng.inRows != 5 || eng.inCols != NumDisturbances {
		t.Errorf("engine got %dx%d disturbances", eng.inRows, eng.inCols)
	}

	r, c := pd.Dims()
	if r != 5 || c != NumOutputs {
		t.Fatalf("ProcessData is %dx%d, want 5x52", r, c)
	}
	want := []int{0, 3, 6, 9, 12}
	for i, m := range want {
		if pd.Minutes()[i] != m {
			t.Errorf("Minutes[%d] = %d, want %d", i, pd.Minutes()[i], m)
		}
	}
	if pd.Labels()[0] != "XMEAS(1)" || pd.Labels()[40] != "XMEAS(41)" ||
		pd.Labels()[41] != "XMV(1)" || pd.Labels()[51] != "XMV(11)" {
		t.Errorf("unexpected labels: %v", pd.Labels())
	}
	if got := pd.At(4, 51); got != 451 {
		t.Errorf("value pass-through: At(4,51) = %v, want 451", got)
	}
	if s.ProcessData() != pd {
		t.Error("session did not store the result")
	}
}

func TestSimulateNoSamples(t *testing.T) {
	s, err := New(NewMatrix(0, NumDisturbances, nil), &fakeEngine{})
	if err != nil {
		t.Fatal(err)
	}
	pd, err := s.Simulate(context.Background())
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	r, c := pd.Dims()
	if r != 0 || c != NumOutputs || len(pd.Labels()) != NumOutputs || len(pd.Minutes()) != 0 {
		t.Fatalf("empty run gave %dx%d, %d labels, %d times", r, c, len(pd.Labels()), len(pd.Minutes()))
	}
}

func TestSimulateRepeatsEngineCall(t *testing.T) {
	eng := &fakeEngine{}
	s, _ := New(NewMatrix(3, NumDisturbances, nil), eng, WithVerbosity(Verbose))
	first, _ := s.Simulate(context.Background())
	second, err := s.Simulate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if eng.calls != 2 {
		t.Fatalf("engine calls = %d, want 2", eng.calls)
	}
	if first == second || s.ProcessData() != second {
		t.Error("second run did not replace the stored result")
	}
	if eng.verbose != int(Verbose) {
		t.Errorf("verbose flag = %d, want %d", eng.verbose, Verbose)
	}
}

type diagErr struct{ msg string }

func (e diagErr) Error() string      { return "engine exploded" }
func (e diagErr) Diagnostic() string { return e.msg }

func TestSimulateEngineFailure(t *testing.T) {
	ok := &fakeEngine{}
	calls := 0
	eng := EngineFunc(func(ctx context.Context, npts, nx int, d mat.Matrix, v int) (mat.Matrix, error) {
		calls++
		if calls == 2 {
			return nil, diagErr{msg: "TEMAIN: step 42 overflow"}
		}
		return ok.Run(ctx, npts, nx, d, v)
	})
	s, _ := New(NewMatrix(2, NumDisturbances, nil), eng)
	if _, err := s.Simulate(context.Background()); err != nil {
		t.Fatal(err)
	}

	_, err := s.Simulate(context.Background())
	var invErr *EngineInvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("want EngineInvocationError, got %v", err)
	}
	if invErr.Diagnostic != "TEMAIN: step 42 overflow" {
		t.Errorf("diagnostic = %q", invErr.Diagnostic)
	}
	if !strings.Contains(err.Error(), "npts=360") {
		t.Errorf("error text lacks parameters: %v", err)
	}
	if s.ProcessData() != nil {
		t.Error("failed run left stale process data")
	}
}

func TestSimulateShapeDrift(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
	}{
		{"missing row", 2, NumOutputs},
		{"twelve manipulated", 3, NumOutputs + 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			eng := EngineFunc(func(context.Context, int, int, mat.Matrix, int) (mat.Matrix, error) {
				return NewMatrix(tc.rows, tc.cols, nil), nil
			})
			s, _ := New(NewMatrix(3, NumDisturbances, nil), eng)
			_, err := s.Simulate(context.Background())
			var invErr *EngineInvocationError
			var consErr *ConsistencyError
			if !errors.As(err, &invErr) || !errors.As(err, &consErr) {
				t.Fatalf("want EngineInvocationError wrapping ConsistencyError, got %v", err)
			}
			if consErr.GotRows != tc.rows || consErr.GotCols != tc.cols {
				t.Errorf("consistency error reports %dx%d", consErr.GotRows, consErr.GotCols)
			}
		})
	}
}

func TestSimulateNilResult(t *testing.T) {
	eng := EngineFunc(func(context.Context, int, int, mat.Matrix, int) (mat.Matrix, error) {
		return nil, nil
	})
	s, _ := New(NewMatrix(1, NumDisturbances, nil), eng)
	var invErr *EngineInvocationError
	if _, err := s.Simulate(context.Background()); !errors.As(err, &invErr) {
		t.Fatalf("want EngineInvocationError, got %v", err)
	}
}

func TestSimulateTimeout(t *testing.T) {
	release := make(chan struct{})
	eng := EngineFunc(func(context.Context, int, int, mat.Matrix, int) (mat.Matrix, error) {
		<-release
		return NewMatrix(1, NumOutputs, nil), nil
	})
	defer close(release)

	s, _ := New(NewMatrix(1, NumDisturbances, nil), eng, WithTimeout(20*time.Millisecond))
	_, err := s.Simulate(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want deadline exceeded, got %v", err)
	}
	var invErr *EngineInvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("want EngineInvocationError, got %T", err)
	}
}

func TestSimulateEnginePanic(t *testing.T) {
	eng := EngineFunc(func(context.Context, int, int, mat.Matrix, int) (mat.Matrix, error) {
		panic("segfault in native code")
	})
	s, _ := New(NewMatrix(1, NumDisturbances, nil), eng)
	_, err := s.Simulate(context.Background())
	if err == nil || !strings.Contains(err.Error(), "segfault") {
		t.Fatalf("want panic surfaced as error, got %v", err)
	}
}

func TestCatalogsIndependentOfInput(t *testing.T) {
	a, _ := New(NewMatrix(0, NumDisturbances, nil), &fakeEngine{})
	in := NewMatrix(4, NumDisturbances, nil)
	for i := 0; i < 4; i++ {
		in.Set(i, i, 1)
	}
	b, _ := New(in, &fakeEngine{})

	va, vb := a.VariableCatalog(), b.VariableCatalog()
	if len(va) != len(vb) {
		t.Fatalf("catalog sizes differ: %d vs %d", len(va), len(vb))
	}
	for i := range va {
		if va[i] != vb[i] {
			t.Errorf("variable %d differs: %+v vs %+v", i, va[i], vb[i])
		}
	}
	da, db := a.DisturbanceCatalog(), b.DisturbanceCatalog()
	for i := range da {
		if da[i] != db[i] {
			t.Errorf("disturbance %d differs", i)
		}
	}

	va[0].Description = "mutated"
	if a.VariableCatalog()[0].Description == "mutated" {
		t.Error("caller mutated session catalog")
	}
}

func TestProcessDataCannotBeModifiedByCaller(t *testing.T) {
	s, _ := New(NewMatrix(2, NumDisturbances, nil), &fakeEngine{})
	pd, err := s.Simulate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	pd.Labels()[0] = "BOGUS"
	pd.Minutes()[1] = 99
	pd.Times()[1] = time.Hour
	pd.Row(1)[0] = -1
	pd.Values().Set(1, 0, -1)
	col, _ := pd.Column("XMEAS(1)")
	col[1] = -1

	again := s.ProcessData()
	if got := again.Labels()[0]; got != "XMEAS(1)" {
		t.Errorf("label[0] = %q after caller mutation", got)
	}
	if got := again.Minutes(); got[1] != SampleMinutes {
		t.Errorf("minutes = %v after caller mutation", got)
	}
	if got := again.Times()[1]; got != SampleMinutes*time.Minute {
		t.Errorf("times[1] = %v after caller mutation", got)
	}
	if got := again.At(1, 0); got != 100 {
		t.Errorf("value (1,0) = %v after caller mutation, want 100", got)
	}
}
