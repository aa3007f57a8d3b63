package tep

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"
)

// The test binary doubles as a fake simulator; see TestHelperProcess.
func helperEngine(mode string) *ExecEngine {
	return &ExecEngine{
		Path: os.Args[0],
		Args: []string{"-test.run=TestHelperProcess", "--"},
		Env:  []string{"TEP_WANT_HELPER_PROCESS=1", "TEP_HELPER_MODE=" + mode},
	}
}

func TestExecEngineRun(t *testing.T) {
	in := NewMatrix(3, NumDisturbances, nil)
	in.Set(1, 0, 1)
	in.Set(2, 19, 2.5)

	out, err := helperEngine("ok").Run(context.Background(), TotalSteps(3), 3, in, int(Quiet))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	r, c := out.Dims()
	if r != 3 || c != NumOutputs {
		t.Fatalf("output %dx%d", r, c)
	}
	// helper echoes row sum in column 0 and the step count in column 51
	if out.At(1, 0) != 1 || out.At(2, 0) != 2.5 {
		t.Errorf("row sums = %v, %v", out.At(1, 0), out.At(2, 0))
	}
	if out.At(0, 51) != 540 {
		t.Errorf("npts echoed as %v", out.At(0, 51))
	}
}

func TestExecEngineFailure(t *testing.T) {
	_, err := helperEngine("fail").Run(context.Background(), 180, 1, NewMatrix(1, NumDisturbances, nil), 1)
	var execErr *ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("want ExecError, got %v", err)
	}
	if execErr.Diagnostic() != "integration diverged" {
		t.Errorf("diagnostic = %q", execErr.Diagnostic())
	}
}

func TestExecEngineBadOutput(t *testing.T) {
	_, err := helperEngine("short").Run(context.Background(), 180, 1, NewMatrix(1, NumDisturbances, nil), 1)
	if err == nil || !strings.Contains(err.Error(), "expected 52") {
		t.Fatalf("want parse error, got %v", err)
	}
}

func TestExecEngineThroughSession(t *testing.T) {
	s, err := New(NewMatrix(2, NumDisturbances, nil), helperEngine("fail"))
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.Simulate(context.Background())
	var invErr *EngineInvocationError
	if !errors.As(err, &invErr) || invErr.Diagnostic != "integration diverged" {
		t.Fatalf("want EngineInvocationError with diagnostic, got %v", err)
	}
}

func TestReadRowsFortranExponent(t *testing.T) {
	m, err := readRows(strings.NewReader("1.5D+02 -2.0d-01\n\n3 4\n"), 2)
	if err != nil {
		t.Fatal(err)
	}
	if m.At(0, 0) != 150 || m.At(0, 1) != -0.2 || m.At(1, 1) != 4 {
		t.Errorf("parsed %v", m.data)
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("TEP_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	args = args[1:] // NPTS NX VERBOSE
	npts, _ := strconv.Atoi(args[0])

	switch os.Getenv("TEP_HELPER_MODE") {
	case "fail":
		fmt.Fprint(os.Stderr, "integration diverged\n")
		os.Exit(3)
	case "short":
		fmt.Println("1 2 3")
		os.Exit(0)
	}

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		sum := 0.0
		for _, f := range strings.Fields(sc.Text()) {
			v, _ := strconv.ParseFloat(f, 64)
			sum += v
		}
		row := make([]string, NumOutputs)
		for j := range row {
			row[j] = "0"
		}
		row[0] = strconv.FormatFloat(sum, 'g', -1, 64)
		row[NumOutputs-1] = strconv.Itoa(npts)
		fmt.Println(strings.Join(row, " "))
	}
	os.Exit(0)
}
