package tep

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ExecEngine runs an external simulator binary once per call.
//
// The binary is started as
//
//	Path Args... NPTS NX VERBOSE
//
// and receives the disturbance series on stdin, one whitespace-separated row
// of 20 values per line. It must write NX lines of 52 values to stdout.
// Anything written to stderr is kept as the diagnostic of a failed run and,
// in verbose mode, forwarded to Logger.
type ExecEngine struct {
	Path   string
	Args   []string
	Env    []string // appended to the current environment
	Dir    string
	Logger *log.Logger
}

// ExecError is returned when the simulator binary fails.
type ExecError struct {
	Err    error
	Stderr string
}

func (e *ExecError) Error() string      { return e.Err.Error() }
func (e *ExecError) Unwrap() error      { return e.Err }
func (e *ExecError) Diagnostic() string { return e.Stderr }

func (e *ExecEngine) Run(ctx context.Context, totalSteps, nSamples int, disturbances mat.Matrix, verbose int) (mat.Matrix, error) {
	if e.Path == "" {
		return nil, fmt.Errorf("exec engine: no simulator path configured")
	}
	args := append(append([]string(nil), e.Args...),
		strconv.Itoa(totalSteps), strconv.Itoa(nSamples), strconv.Itoa(verbose))

	cmd := exec.CommandContext(ctx, e.Path, args...)
	cmd.Dir = e.Dir
	if len(e.Env) > 0 {
		cmd.Env = append(cmd.Environ(), e.Env...)
	}

	var stdin bytes.Buffer
	if err := writeRows(&stdin, disturbances); err != nil {
		return nil, err
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdin = &stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return nil, &ExecError{Err: fmt.Errorf("run %s: %w", e.Path, err), Stderr: strings.TrimSpace(stderr.String())}
	}
	if verbose == int(Verbose) && e.Logger != nil {
		for _, line := range strings.Split(strings.TrimSpace(stderr.String()), "\n") {
			if line != "" {
				e.Logger.Println(line)
			}
		}
	}

	out, err := readRows(&stdout, NumOutputs)
	if err != nil {
		return nil, &ExecError{Err: fmt.Errorf("parse %s output: %w", e.Path, err), Stderr: strings.TrimSpace(stderr.String())}
	}
	return out, nil
}

func writeRows(w io.Writer, m mat.Matrix) error {
	bw := bufio.NewWriter(w)
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if j > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(strconv.FormatFloat(m.At(i, j), 'g', -1, 64)); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// fortranExp rewrites Fortran double-precision exponents (1.5D+02).
var fortranExp = strings.NewReplacer("D", "E", "d", "e")

// readRows parses whitespace-separated rows of exactly cols values. Blank
// lines are skipped.
func readRows(r io.Reader, cols int) (*Matrix, error) {
	var data []float64
	rows := 0
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != cols {
			return nil, fmt.Errorf("line %d: %d values, expected %d", line, len(fields), cols)
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(fortranExp.Replace(f), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			data = append(data, v)
		}
		rows++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return NewMatrix(rows, cols, data), nil
}
