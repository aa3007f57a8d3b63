package report

import (
	"fmt"
	"image/color"
	"math"

	"github.com/user/tep_simulator_go/internal/tep"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// heatmapLimit is the |z| at which the color scale saturates.
const heatmapLimit = 3.0

// zScoreGrid exposes standardized process data as a GridXYZ: X is sample
// time, Y is channel position. Constant channels map to 0.
type zScoreGrid struct {
	minutes []int
	z       [][]float64 // [channel][sample]
}

func newZScoreGrid(pd *tep.ProcessData) zScoreGrid {
	_, cols := pd.Dims()
	g := zScoreGrid{minutes: pd.Minutes(), z: make([][]float64, cols)}
	for j, label := range pd.Labels() {
		col, _ := pd.Column(label)
		valid := validOnly(col)
		mean, std := math.NaN(), math.NaN()
		if len(valid) > 0 {
			mean, std = stat.PopMeanStdDev(valid, nil)
		}
		row := make([]float64, len(col))
		for i, v := range col {
			switch {
			case math.IsNaN(v):
				row[i] = math.NaN()
			case std == 0:
				row[i] = 0
			default:
				row[i] = (v - mean) / std
			}
		}
		g.z[j] = row
	}
	return g
}

func (g zScoreGrid) Dims() (c, r int)   { return len(g.minutes), len(g.z) }
func (g zScoreGrid) Z(c, r int) float64 { return g.z[r][c] }
func (g zScoreGrid) X(c int) float64    { return float64(g.minutes[c]) }
func (g zScoreGrid) Y(r int) float64    { return float64(r) }

func validOnly(data []float64) []float64 {
	out := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// CreateHeatmapPlot renders every channel, standardized per channel, against
// simulated time and returns a PNG.
func CreateHeatmapPlot(pd *tep.ProcessData, plotTitle string) ([]byte, error) {
	if pd == nil || pd.Samples() == 0 {
		return nil, fmt.Errorf("no process data to plot heatmap")
	}

	grid := newZScoreGrid(pd)

	p := plot.New()
	p.Title.Text = plotTitle
	p.X.Label.Text = "Time (min)"
	p.Y.Label.Text = "Channel"

	labels := pd.Labels()
	yTicks := make([]plot.Tick, 0, len(labels)/5+2)
	for j, label := range labels {
		if j%5 == 0 || j == tep.NumMeasured {
			yTicks = append(yTicks, plot.Tick{Value: float64(j), Label: label})
		}
	}
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
	p.X.Tick.Marker = plot.ConstantTicks(timeTicks(grid.minutes, 10))

	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-heatmapLimit)
	cmap.SetMax(heatmapLimit)
	pal := cmap.Palette(255)
	colors := pal.Colors()

	hm := plotter.NewHeatMap(grid, pal)
	hm.Min = -heatmapLimit
	hm.Max = heatmapLimit
	hm.Underflow = colors[0]
	hm.Overflow = colors[len(colors)-1]
	hm.NaN = color.Gray{Y: 200}
	p.Add(hm)

	return renderPNG(p, vg.Points(1000), vg.Points(700))
}
