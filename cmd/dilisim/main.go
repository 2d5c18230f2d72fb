// Command dilisim runs the liver injury model from the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"digital-liver/internal/adapters/secondary/pdf"
	"digital-liver/internal/core/chem"
	"digital-liver/internal/core/domain"
	"digital-liver/internal/core/services"
	"digital-liver/internal/core/simulation"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Background(lipgloss.Color("62")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	riskStyles  = map[domain.RiskLevel]lipgloss.Style{
		domain.RiskLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true).Padding(0, 1),
		domain.RiskModerate: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true).Padding(0, 1),
		domain.RiskHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Padding(0, 1),
	}
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Padding(0, 1)
)

type options struct {
	dose     float64
	hours    int
	noIdio   bool
	pdfDir   string
	kinetics string
	alerts   string
	file     string
}

func main() {
	var opts options
	flag.Float64Var(&opts.dose, "dose", domain.DefaultDose, "normalized dose (0.1-3.0)")
	flag.IntVar(&opts.hours, "hours", domain.DefaultDuration, "simulated time in hours (12-96)")
	flag.BoolVar(&opts.noIdio, "no-idio", false, "disable the idiosyncratic sensitivity term")
	flag.StringVar(&opts.pdfDir, "pdf-dir", "", "write one PDF report per compound into this directory")
	flag.StringVar(&opts.kinetics, "kinetics", "", "TOML kinetics profile overriding the built-in rates")
	flag.StringVar(&opts.alerts, "alerts", "", "YAML structural alert catalog")
	flag.StringVar(&opts.file, "f", "", "read SMILES from a file, one per line (- for stdin)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: dilisim [flags] SMILES...\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.WarnLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, flag.Args(), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "dilisim:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, args []string, out io.Writer) error {
	smiles, err := collectSMILES(opts.file, args)
	if err != nil {
		return err
	}

	kinetics, err := simulation.LoadKinetics(opts.kinetics)
	if err != nil {
		return err
	}
	catalog, err := chem.LoadCatalog(opts.alerts)
	if err != nil {
		return err
	}

	svc := services.NewSimulationService(catalog, simulation.NewSimulator(kinetics, simulation.DefaultSubsteps), nil, services.SimulationOptions{
		MaxCompounds: len(smiles) + 1,
	})

	params := domain.DefaultParams()
	params.Dose = opts.dose
	params.DurationHours = opts.hours
	params.Idiosyncratic = !opts.noIdio

	results, err := svc.Simulate(ctx, params, smiles, "")
	if err != nil {
		return err
	}

	fmt.Fprintln(out, renderTable(results))

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
			fmt.Fprintf(out, "compound %d: %s\n", r.Compound.Index, r.Error)
		}
	}

	if opts.pdfDir != "" {
		if err := writeReports(opts.pdfDir, results, out); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d compounds could not be parsed", domain.ErrInvalidSMILES, failed, len(results))
	}
	return nil
}

func collectSMILES(file string, args []string) ([]string, error) {
	lines := append([]string(nil), args...)
	if file != "" {
		var data []byte
		var err error
		if file == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(file)
		}
		if err != nil {
			return nil, fmt.Errorf("read SMILES: %w", err)
		}
		lines = append(lines, services.SplitSMILES(string(data))...)
	}
	lines = services.CleanSMILES(lines)
	if len(lines) == 0 {
		return nil, domain.ErrNoCompounds
	}
	return lines, nil
}

func renderTable(results []*domain.SimulationResult) string {
	headers := []string{"#", "SMILES", "Formula", "Alerts", "Amplifier", "DILI Score", "Risk"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if r.Failed() {
			rows = append(rows, []string{fmt.Sprint(r.Compound.Index), r.Compound.SMILES, "-", "-", "-", "-", "ERROR"})
			continue
		}
		alerts := strings.Join(r.Compound.AlertIDs(), ",")
		if alerts == "" {
			alerts = "-"
		}
		rows = append(rows, []string{
			fmt.Sprint(r.Compound.Index),
			r.Compound.SMILES,
			r.Compound.Descriptors.Formula,
			alerts,
			fmt.Sprintf("%g", r.Compound.Amplifier),
			fmt.Sprintf("%.2f", r.Score),
			string(r.Risk),
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = headerStyle.Width(widths[i] + 2).Render(h)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))

	for ri, row := range rows {
		for i, cell := range row {
			style := cellStyle
			if i == len(row)-1 {
				style = riskStyles[results[ri].Risk]
				if results[ri].Failed() {
					style = errorStyle
				}
			}
			cells[i] = style.Width(widths[i] + 2).Render(cell)
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return b.String()
}

func writeReports(dir string, results []*domain.SimulationResult, out io.Writer) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	reports := services.NewReportService(pdf.NewRenderer())
	for _, r := range results {
		if r.Failed() {
			continue
		}
		report, err := reports.Render(r)
		if err != nil {
			return fmt.Errorf("compound %d: %w", r.Compound.Index, err)
		}
		path := filepath.Join(dir, report.FileName)
		if err := os.WriteFile(path, report.Data, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintln(out, "wrote", path)
	}
	return nil
}
