package report

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/user/tep_simulator_go/internal/analysis"
	"github.com/user/tep_simulator_go/internal/tep"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)
)

// Figure is a rendered plot placed in the report.
type Figure struct {
	Name    string // unique image key
	Title   string
	Caption string
	PNG     []byte
}

// ReportInput collects everything the PDF report shows.
type ReportInput struct {
	Request            tep.Request
	ActiveDisturbances []string // IDV codes switched on at any sample
	Analysis           *analysis.AnalysisResults
	Variables          tep.VariableCatalog
	Disturbances       tep.DisturbanceCatalog
	Figures            []Figure
	TopN               int // rows in the variability ranking; 0 means 10
}

// pdfStyler holds reusable styling and state for PDF generation
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	styles      map[string]func()
	lineHeight  float64
	currentY    float64 // manually tracked Y position for flowing content
	pageHeight  float64
	contentTopY float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		styles:      make(map[string]func()),
		lineHeight:  6, // mm
		pageHeight:  pdfPageHeightLandscape - pdfMargin,
		contentTopY: pdfMargin,
	}
	s.currentY = s.contentTopY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["note"] = func() {
		s.pdf.SetFont("Arial", "I", 9)
		s.pdf.SetTextColor(90, 90, 90)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
	s.styles["tableCellRed"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetTextColor(200, 0, 0)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.newPage()
	}
}

func (s *pdfStyler) newPage() {
	s.pdf.AddPage()
	s.currentY = s.contentTopY
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	lines := len(s.pdf.SplitLines([]byte(text), pdfContentWidth))
	s.checkAddPage(math.Max(1, float64(lines)) * s.lineHeight)

	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width float64, height float64, caption string, styleName string) {
	s.pdf.RegisterImageReader(imageName, "PNG", bytes.NewReader(imageBytes))

	if width > pdfContentWidth {
		ratio := pdfContentWidth / width
		width = pdfContentWidth
		height *= ratio
	}

	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	s.pdf.Image(imageName, pdfMargin+(pdfContentWidth-width)/2, s.currentY, width, height, false, "PNG", 0, "")
	s.currentY += height

	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, styleName, "C")
	}
	s.addSpacer(2)
}

// writeTable draws a bordered table, repeating the header after page breaks.
// cellStyle picks the style of a body cell; nil uses "tableCell".
func (s *pdfStyler) writeTable(headers []string, colWidthsRel []float64, rows [][]string, cellStyle func(row, col int) string) {
	colWidthsAbs := make([]float64, len(colWidthsRel))
	for i, rel := range colWidthsRel {
		colWidthsAbs[i] = rel * pdfContentWidth
	}

	drawHeader := func() {
		s.applyStyle("tableHeader")
		x := pdfMargin
		for i, header := range headers {
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(colWidthsAbs[i], s.lineHeight, header, "1", 0, "C", true, 0, "")
			x += colWidthsAbs[i]
		}
		s.currentY += s.lineHeight
	}

	s.checkAddPage(2 * s.lineHeight)
	drawHeader()
	for r, row := range rows {
		if s.currentY+s.lineHeight > s.pageHeight {
			s.newPage()
			drawHeader()
		}
		x := pdfMargin
		for c, cellData := range row {
			style := "tableCell"
			if cellStyle != nil {
				style = cellStyle(r, c)
			}
			s.applyStyle(style)
			align := "C"
			if headers[c] == "Description" {
				align = "L"
			}
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(colWidthsAbs[c], s.lineHeight, cellData, "1", 0, align, false, 0, "")
			x += colWidthsAbs[c]
		}
		s.currentY += s.lineHeight
	}
	s.addSpacer(3)
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// WritePDFReport renders the simulation report to w.
func WritePDFReport(w io.Writer, in ReportInput) error {
	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.AddPage()

	styler := newPDFStyler(pdf)
	req := in.Request

	styler.writeParagraph(fmt.Sprintf("Tennessee Eastman Process Simulation Report (%d Samples)", req.Samples), "h1", "C")
	styler.addSpacer(5)
	styler.writeParagraph(fmt.Sprintf("Engine steps: %d (1 s per step, %d steps per %d-minute sample)", req.TotalSteps, tep.StepsPerSample, tep.SampleMinutes), "normal", "L")
	styler.writeParagraph(fmt.Sprintf("Simulated time: %d min", req.Samples*tep.SampleMinutes), "normal", "L")
	styler.writeParagraph(fmt.Sprintf("Engine verbosity flag: %d (%s)", int(req.Verbosity), req.Verbosity), "normal", "L")
	active := "none (normal operation)"
	if len(in.ActiveDisturbances) > 0 {
		active = strings.Join(in.ActiveDisturbances, ", ")
	}
	styler.writeParagraph(fmt.Sprintf("Active disturbances: %s", active), "normal", "L")
	styler.addSpacer(5)

	if in.Analysis == nil || len(in.Analysis.Channels) == 0 {
		styler.writeParagraph("No analysis results to display.", "normal", "L")
	} else {
		writeSummary(styler, in)
	}

	if len(in.Figures) > 0 {
		styler.newPage()
		styler.writeParagraph("Graphical Analysis", "h1", "C")
		styler.addSpacer(5)

		imgWidth := pdfContentWidth * 0.85
		for i, fig := range in.Figures {
			if i > 0 {
				styler.newPage()
			}
			styler.writeParagraph(fig.Title, "h2", "L")
			if len(fig.PNG) == 0 {
				styler.writeParagraph(fmt.Sprintf("Plot for %s not available.", fig.Title), "normal", "L")
				continue
			}
			imgHeight := imgWidth * 0.5
			if strings.HasPrefix(fig.Name, "heatmap") {
				imgHeight = imgWidth * 0.7
			}
			styler.addImage(fig.PNG, fig.Name, imgWidth, imgHeight, fig.Caption, "normal")
		}
	}

	styler.newPage()
	writeCatalogs(styler, in.Variables, in.Disturbances)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return nil
}

func writeSummary(styler *pdfStyler, in ReportInput) {
	res := in.Analysis

	topN := in.TopN
	if topN <= 0 {
		topN = 10
	}
	styler.writeParagraph(fmt.Sprintf("Top %d Most Variable Channels (Std Dev)", topN), "h2", "L")
	if len(res.RankedByStdDev) > 0 {
		var rows [][]string
		for i, item := range res.RankedByStdDev {
			if i >= topN {
				break
			}
			ch, _ := res.Channel(item.Label)
			rows = append(rows, []string{strconv.Itoa(i + 1), item.Label, ch.Description, formatStat(item.Value), ch.Unit})
		}
		styler.writeTable([]string{"Rank", "Code", "Description", "Std Dev", "Unit"},
			[]float64{0.08, 0.12, 0.5, 0.15, 0.15}, rows, nil)
	} else {
		styler.writeParagraph("No channel has enough samples for ranking.", "normal", "L")
	}

	styler.writeParagraph("Channel Summary", "h2", "L")
	rows := make([][]string, 0, len(res.Channels))
	for _, ch := range res.Channels {
		rows = append(rows, []string{
			ch.Label, ch.Description, ch.Unit,
			formatStat(ch.Mean), formatStat(ch.StdDev), formatStat(ch.Min), formatStat(ch.Max),
		})
	}
	styler.writeTable([]string{"Code", "Description", "Unit", "Mean", "Std Dev", "Min", "Max"},
		[]float64{0.1, 0.34, 0.08, 0.12, 0.12, 0.12, 0.12}, rows, nil)

	if len(res.AnalysisErrors) > 0 {
		styler.writeParagraph("Analysis Warnings", "h2", "L")
		for _, e := range res.AnalysisErrors {
			styler.writeParagraph(e, "note", "L")
		}
	}
}

func writeCatalogs(styler *pdfStyler, vars tep.VariableCatalog, dists tep.DisturbanceCatalog) {
	styler.writeParagraph("Variable Catalog", "h1", "C")
	styler.addSpacer(3)

	rows := make([][]string, 0, len(vars))
	suspect := make(map[int]bool)
	for i, v := range vars {
		code := v.Code
		if v.Suspect {
			code += " *"
			suspect[i] = true
		}
		rows = append(rows, []string{code, v.Kind.String(), v.Description, v.Unit})
	}
	styler.writeTable([]string{"Code", "Kind", "Description", "Unit"},
		[]float64{0.15, 0.15, 0.55, 0.15}, rows,
		func(row, _ int) string {
			if suspect[row] {
				return "tableCellRed"
			}
			return "tableCell"
		})
	if len(suspect) > 0 {
		styler.writeParagraph("* Listed in the reference data but not produced by the simulator; the engine emits XMV(1) to XMV(11) only.", "note", "L")
	}

	styler.newPage()
	styler.writeParagraph("Disturbance Catalog", "h1", "C")
	styler.addSpacer(3)
	rows = rows[:0]
	for _, d := range dists {
		rows = append(rows, []string{d.Code, d.Description})
	}
	styler.writeTable([]string{"Code", "Description"}, []float64{0.15, 0.85}, rows, nil)
}

// BuildPDFReport writes the simulation report to filepath.
func BuildPDFReport(path string, in ReportInput) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create PDF file: %w", err)
	}
	if err := WritePDFReport(f, in); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("PDF report written to %s", path)
	return nil
}
