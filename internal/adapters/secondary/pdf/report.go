// Package pdf renders simulation reports as PDF documents.
package pdf

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/go-pdf/fpdf"

	"digital-liver/internal/core/domain"
	ports "digital-liver/internal/core/ports/output"
)

const (
	title       = "Digital Liver v2: DILI Simulation Report"
	contentType = "application/pdf"
	lineHeight  = 7.0
)

var palette = [domain.SpeciesCount][3]int{
	{31, 119, 180}, {255, 127, 14}, {44, 160, 44}, {214, 39, 40},
	{148, 103, 189}, {140, 86, 75}, {227, 119, 194}, {127, 127, 127},
	{188, 189, 34}, {23, 190, 207}, {0, 0, 0},
}

type renderer struct{}

func NewRenderer() ports.ReportRenderer {
	return &renderer{}
}

func (r *renderer) ContentType() string {
	return contentType
}

func (r *renderer) FileName(result *domain.SimulationResult) string {
	index := 1
	if result != nil && result.Compound != nil && result.Compound.Index > 0 {
		index = result.Compound.Index
	}
	return fmt.Sprintf("dili_report_%d.pdf", index)
}

func (r *renderer) Render(result *domain.SimulationResult) ([]byte, error) {
	if result == nil || result.Compound == nil {
		return nil, fmt.Errorf("render report: missing result")
	}
	c := result.Compound

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.SetCreator("digital-liver", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, lineHeight, "SMILES: "+c.SMILES, "", "L", false)
	pdf.CellFormat(0, lineHeight, fmt.Sprintf("Dose: %g | Time: %dh", result.Params.Dose, result.Params.DurationHours), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, lineHeight, fmt.Sprintf("Toxicity Amplifier: %g", c.Amplifier), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, lineHeight, fmt.Sprintf("DILI Score: %.2f | Risk: %s", result.Score, result.Risk), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	writeDescriptors(pdf, c.Descriptors)
	writeAlerts(pdf, c.Alerts)
	writeFinalLevels(pdf, result.Final)

	if result.Trajectory != nil && len(result.Trajectory.T) > 1 {
		pdf.AddPage()
		drawChart(pdf, result.Trajectory)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func section(pdf *fpdf.Fpdf, name string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, lineHeight, name, "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
}

func row(pdf *fpdf.Fpdf, label, value string) {
	pdf.CellFormat(70, 6, label, "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, value, "1", 1, "R", false, 0, "")
}

func writeDescriptors(pdf *fpdf.Fpdf, d domain.Descriptors) {
	section(pdf, "Molecular descriptors")
	row(pdf, "Formula", d.Formula)
	row(pdf, "Molecular weight", fmt.Sprintf("%.2f", d.MolecularWeight))
	row(pdf, "Heavy atoms", fmt.Sprint(d.HeavyAtoms))
	row(pdf, "Heteroatoms", fmt.Sprint(d.Heteroatoms))
	row(pdf, "Halogens", fmt.Sprint(d.Halogens))
	row(pdf, "Aromatic atoms", fmt.Sprint(d.AromaticAtoms))
	row(pdf, "Rings", fmt.Sprint(d.Rings))
	row(pdf, "H-bond donors", fmt.Sprint(d.HBondDonors))
	row(pdf, "H-bond acceptors", fmt.Sprint(d.HBondAcceptors))
	row(pdf, "Lipinski violations", fmt.Sprint(d.LipinskiViolations))
	pdf.Ln(4)
}

func writeAlerts(pdf *fpdf.Fpdf, alerts []domain.Alert) {
	section(pdf, "Structural alerts")
	if len(alerts) == 0 {
		pdf.CellFormat(0, 6, "None", "", 1, "L", false, 0, "")
	}
	for _, a := range alerts {
		pdf.MultiCell(0, 6, fmt.Sprintf("%s (x%d, amplifier %g): %s", a.Name, a.Matches, a.Amplifier, a.Description), "", "L", false)
	}
	pdf.Ln(4)
}

func writeFinalLevels(pdf *fpdf.Fpdf, final domain.State) {
	section(pdf, "Final levels")
	for i, label := range domain.SpeciesLabels() {
		row(pdf, label, fmt.Sprintf("%.4f", final[i]))
	}
}

func drawChart(pdf *fpdf.Fpdf, tr *domain.Trajectory) {
	const (
		x0, y0 = 25.0, 30.0
		w, h   = 160.0, 110.0
	)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, lineHeight, "Simulated trajectories", "", 1, "C", false, 0, "")

	tMax := tr.T[len(tr.T)-1]
	yMax := 0.0
	for _, y := range tr.Y {
		for _, v := range y {
			yMax = math.Max(yMax, v)
		}
	}
	if yMax <= 0 {
		yMax = 1
	}
	px := func(t float64) float64 { return x0 + w*t/tMax }
	py := func(v float64) float64 { return y0 + h - h*v/yMax }

	// Axes and ticks
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.Line(x0, y0, x0, y0+h)
	pdf.Line(x0, y0+h, x0+w, y0+h)
	pdf.SetFont("Helvetica", "", 8)
	for i := 0; i <= 4; i++ {
		f := float64(i) / 4
		pdf.Line(x0+w*f, y0+h, x0+w*f, y0+h+1.5)
		pdf.Text(x0+w*f-2, y0+h+5, trimFloat(tMax*f))
		pdf.Line(x0-1.5, y0+h-h*f, x0, y0+h-h*f)
		pdf.Text(x0-12, y0+h-h*f+1, trimFloat(yMax*f))
	}
	pdf.Text(x0+w/2-8, y0+h+11, "Time (h)")
	pdf.TransformBegin()
	pdf.TransformRotate(90, x0-15, y0+h/2)
	pdf.Text(x0-15, y0+h/2, "Level")
	pdf.TransformEnd()

	// Series
	pdf.SetLineWidth(0.4)
	for s := 0; s < domain.SpeciesCount; s++ {
		col := palette[s]
		pdf.SetDrawColor(col[0], col[1], col[2])
		for i := 1; i < len(tr.T); i++ {
			pdf.Line(px(tr.T[i-1]), py(tr.Y[i-1][s]), px(tr.T[i]), py(tr.Y[i][s]))
		}
	}

	// Legend
	ly := y0 + h + 18
	for s, label := range domain.SpeciesLabels() {
		col := palette[s]
		lx := x0 + float64(s%4)*40
		yy := ly + float64(s/4)*6
		pdf.SetDrawColor(col[0], col[1], col[2])
		pdf.SetLineWidth(1)
		pdf.Line(lx, yy, lx+6, yy)
		pdf.Text(lx+8, yy+1, label)
	}
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
