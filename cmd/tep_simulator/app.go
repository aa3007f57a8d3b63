package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/user/tep_simulator_go/internal/analysis"
	"github.com/user/tep_simulator_go/internal/config"
	"github.com/user/tep_simulator_go/internal/disturbance"
	"github.com/user/tep_simulator_go/internal/parser"
	"github.com/user/tep_simulator_go/internal/report"
	"github.com/user/tep_simulator_go/internal/tep"
)

// App runs one simulation from a Config and writes the requested artifacts.
type App struct {
	logger    *log.Logger
	newEngine func(config.EngineConfig, *log.Logger) tep.Engine
}

// NewApp creates an App reporting status lines to w.
func NewApp(w io.Writer) *App {
	return &App{
		logger:    log.New(w, "", log.LstdFlags),
		newEngine: execEngine,
	}
}

func execEngine(c config.EngineConfig, logger *log.Logger) tep.Engine {
	return &tep.ExecEngine{Path: c.Command, Args: c.Args, Env: c.Env, Dir: c.Dir, Logger: logger}
}

func (a *App) sendStatus(message string) {
	a.logger.Println(message)
}

// loadDisturbances builds the disturbance series from a CSV file or a
// generated scenario.
func (a *App) loadDisturbances(in config.InputConfig) (*tep.Matrix, error) {
	if in.CSV != "" {
		a.sendStatus(fmt.Sprintf("Parsing: %s", in.CSV))
		parsed, err := parser.ParseDisturbanceCSV(in.CSV)
		if err != nil {
			return nil, fmt.Errorf("error parsing CSV: %w", err)
		}
		for _, e := range parsed.ParseErrors {
			a.sendStatus(fmt.Sprintf("- %s", e))
		}
		a.sendStatus(fmt.Sprintf("Parsed %d samples.", parsed.NumSamples))
		return parsed.Matrix, nil
	}

	scenario := disturbance.Scenario{Samples: in.Zeros, Onset: in.Onset, Channels: in.Disturbances}
	return scenario.Build()
}

// Run executes the whole pipeline: input, simulation, analysis, outputs.
// Plot failures are reported and skipped; everything else is fatal.
func (a *App) Run(ctx context.Context, cfg *config.Config) error {
	matrix, err := a.loadDisturbances(cfg.Input)
	if err != nil {
		return err
	}

	session, err := tep.New(matrix, a.newEngine(cfg.Engine, a.logger),
		tep.WithVerbosity(cfg.Engine.Verbosity()),
		tep.WithTimeout(cfg.Engine.Timeout),
		tep.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}

	active := activeDisturbances(matrix)
	if len(active) > 0 {
		a.sendStatus(fmt.Sprintf("Active disturbances: %s", strings.Join(active, ", ")))
	}

	pd, err := session.Simulate(ctx)
	if err != nil {
		return err
	}
	a.sendStatus(fmt.Sprintf("Simulated %d samples (%d min).", pd.Samples(), pd.Samples()*tep.SampleMinutes))

	vars := session.VariableCatalog()
	results, err := analysis.AnalyzeProcessData(pd, vars)
	if err != nil {
		return fmt.Errorf("error analyzing data: %w", err)
	}
	for _, e := range results.AnalysisErrors {
		a.sendStatus(fmt.Sprintf("- %s", e))
	}

	out := cfg.Output
	if out.CSV != "" {
		if err := report.SaveProcessDataCSV(out.CSV, pd); err != nil {
			return err
		}
		a.sendStatus(fmt.Sprintf("Process data written to %s", out.CSV))
	}
	if out.Catalog != "" {
		if err := writeCatalog(out.Catalog, session); err != nil {
			return err
		}
		a.sendStatus(fmt.Sprintf("Catalog written to %s", out.Catalog))
	}
	if out.PDF == "" {
		return nil
	}

	a.sendStatus("Generating plots...")
	figures := a.figures(pd, out.Plots)
	err = report.BuildPDFReport(out.PDF, report.ReportInput{
		Request:            session.Request(),
		ActiveDisturbances: active,
		Analysis:           results,
		Variables:          vars,
		Disturbances:       session.DisturbanceCatalog(),
		Figures:            figures,
	})
	if err != nil {
		return fmt.Errorf("error generating PDF report: %w", err)
	}
	a.sendStatus(fmt.Sprintf("PDF report successfully generated: %s", out.PDF))
	return nil
}

func (a *App) figures(pd *tep.ProcessData, channels []string) []report.Figure {
	var figs []report.Figure
	if len(channels) > 0 {
		img, err := report.CreateLinePlot(pd, channels, "Selected Channels")
		if err != nil {
			a.sendStatus(fmt.Sprintf("Error generating line plot: %v", err))
		} else {
			figs = append(figs, report.Figure{
				Name: "line_selected", Title: "Selected Channels",
				Caption: strings.Join(channels, ", "), PNG: img,
			})
		}
	}
	img, err := report.CreateHeatmapPlot(pd, "Standardized Process Data")
	if err != nil {
		a.sendStatus(fmt.Sprintf("Error generating heatmap: %v", err))
	} else {
		figs = append(figs, report.Figure{
			Name: "heatmap_zscore", Title: "All Channels (z-score)",
			Caption: "Each channel standardized over the run; color saturates at |z| = 3", PNG: img,
		})
	}
	return figs
}

// activeDisturbances lists channels switched on at any sample.
func activeDisturbances(m *tep.Matrix) []string {
	rows, _ := m.Dims()
	seen := make(map[string]bool)
	var out []string
	for i := 0; i < rows; i++ {
		for _, code := range disturbance.Active(m, i) {
			if !seen[code] {
				seen[code] = true
				out = append(out, code)
			}
		}
	}
	return out
}

func writeCatalog(path string, s *tep.Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteCatalogCSV(f, s.VariableCatalog(), s.DisturbanceCatalog()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
