package report

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/user/tep_simulator_go/internal/tep"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var plotColors = []color.Color{
	color.RGBA{R: 255, A: 255},         // Red
	color.RGBA{G: 160, A: 255},         // Green
	color.RGBA{B: 255, A: 255},         // Blue
	color.RGBA{R: 255, G: 165, A: 255}, // Orange
	color.RGBA{R: 128, B: 128, A: 255}, // Purple
	color.RGBA{G: 128, B: 128, A: 255}, // Teal
}

// CreateLinePlot plots the given channels against simulated time (minutes)
// and returns a PNG.
func CreateLinePlot(pd *tep.ProcessData, labels []string, title string) ([]byte, error) {
	if pd == nil || pd.Samples() == 0 {
		return nil, fmt.Errorf("no process data to plot")
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("no channels selected for plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (min)"
	p.Y.Label.Text = "Value"
	minutes := pd.Minutes()
	p.X.Min = 0
	p.X.Max = float64(minutes[len(minutes)-1])
	if p.X.Max == 0 {
		p.X.Max = tep.SampleMinutes
	}
	p.X.Tick.Marker = plot.ConstantTicks(timeTicks(minutes, 10))
	p.Add(plotter.NewGrid())

	linesPlotted := false
	for k, label := range labels {
		col, ok := pd.Column(label)
		if !ok {
			return nil, fmt.Errorf("unknown channel %s", label)
		}
		pts := make(plotter.XYs, 0, len(col))
		for i, v := range col {
			if !math.IsNaN(v) {
				pts = append(pts, plotter.XY{X: float64(minutes[i]), Y: v})
			}
		}
		if len(pts) == 0 {
			continue
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create line for %s: %w", label, err)
		}
		line.Color = plotColors[k%len(plotColors)]
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(label, line)
		linesPlotted = true
	}
	if !linesPlotted {
		return nil, fmt.Errorf("selected channels contain only NaN values")
	}

	p.Legend.Top = true
	p.Legend.XOffs = vg.Points(-10)

	return renderPNG(p, vg.Points(800), vg.Points(400))
}

// timeTicks labels at most maxLabels evenly spaced sample times.
func timeTicks(minutes []int, maxLabels int) []plot.Tick {
	if len(minutes) == 0 {
		return nil
	}
	step := (len(minutes) + maxLabels - 1) / maxLabels
	if step < 1 {
		step = 1
	}
	var ticks []plot.Tick
	for i := 0; i < len(minutes); i += step {
		ticks = append(ticks, plot.Tick{Value: float64(minutes[i]), Label: fmt.Sprintf("%d", minutes[i])})
	}
	return ticks
}

func renderPNG(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	writer, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %w", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %w", err)
	}
	return buf.Bytes(), nil
}
