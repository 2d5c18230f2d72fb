package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"digital-liver/internal/core/domain"
	"digital-liver/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	log "github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))

// simulationForm is the sidebar form. An unchecked checkbox is simply absent.
type simulationForm struct {
	SMILES        string  `form:"smiles"`
	Index         int     `form:"index"`
	Dose          float64 `form:"dose"`
	Duration      int     `form:"duration"`
	Idiosyncratic string  `form:"idiosyncratic"`
}

func (f simulationForm) params(defaults domain.SimulationParams) domain.SimulationParams {
	p := defaults
	p.Dose = f.Dose
	p.DurationHours = f.Duration
	p.Idiosyncratic = isChecked(f.Idiosyncratic)
	return p
}

func isChecked(v string) bool {
	switch strings.ToLower(v) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

type formView struct {
	SMILES        string
	Dose          float64
	Duration      int
	Idiosyncratic bool
}

type seriesView struct {
	Name string       `json:"name"`
	Data [][2]float64 `json:"data"`
}

type chartView struct {
	Series []seriesView `json:"series"`
}

type resultView struct {
	Index       int
	SMILES      string
	Score       string
	Risk        string
	Amplifier   float64
	Descriptors domain.Descriptors
	Alerts      []domain.Alert
	Final       []finalView
	Chart       chartView
	Error       string
}

type finalView struct {
	Label string
	Value string
}

type pageData struct {
	Form         formView
	Results      []resultView
	Error        string
	MaxCompounds int
	MinDose      float64
	MaxDose      float64
	MinDuration  int
	MaxDuration  int
}

func (h *Handler) page(form formView) pageData {
	return pageData{
		Form:         form,
		MaxCompounds: h.simSvc.MaxCompounds(),
		MinDose:      domain.MinDose,
		MaxDose:      domain.MaxDose,
		MinDuration:  domain.MinDuration,
		MaxDuration:  domain.MaxDuration,
	}
}

func (h *Handler) renderPage(c *gin.Context, status int, data pageData) {
	c.Render(status, render.HTML{Template: pages, Name: "index.html", Data: data})
}

func (h *Handler) Index(c *gin.Context) {
	h.renderPage(c, http.StatusOK, h.page(formView{
		SMILES:        domain.DefaultSMILES,
		Dose:          h.defaults.Dose,
		Duration:      h.defaults.DurationHours,
		Idiosyncratic: h.defaults.Idiosyncratic,
	}))
}

func (h *Handler) SimulateForm(c *gin.Context) {
	var form simulationForm
	if err := c.ShouldBind(&form); err != nil {
		data := h.page(formView{SMILES: form.SMILES, Dose: h.defaults.Dose, Duration: h.defaults.DurationHours, Idiosyncratic: true})
		data.Error = "invalid form input: " + err.Error()
		h.renderPage(c, http.StatusBadRequest, data)
		return
	}

	params := form.params(h.defaults)
	data := h.page(formView{
		SMILES:        form.SMILES,
		Dose:          params.Dose,
		Duration:      params.DurationHours,
		Idiosyncratic: params.Idiosyncratic,
	})

	results, err := h.simSvc.Simulate(c.Request.Context(), params, services.SplitSMILES(form.SMILES), requestID(c))
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			log.WithError(err).Error("simulation failed")
		}
		data.Error = errorMessage(err)
		h.renderPage(c, status, data)
		return
	}

	data.Results = make([]resultView, 0, len(results))
	for _, r := range results {
		data.Results = append(data.Results, toResultView(r))
	}
	h.renderPage(c, http.StatusOK, data)
}

// ReportForm evaluates one compound again and returns the PDF as a download.
func (h *Handler) ReportForm(c *gin.Context) {
	var form simulationForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "invalid form input: %s", err.Error())
		return
	}

	result, err := h.simSvc.Evaluate(c.Request.Context(), form.Index, form.SMILES, form.params(h.defaults))
	if err != nil {
		c.String(errorStatus(err), errorMessage(err))
		return
	}

	report, err := h.reportSvc.Render(result)
	if err != nil {
		log.WithError(err).Error("render report failed")
		c.String(errorStatus(err), errorMessage(err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName))
	c.Data(http.StatusOK, report.ContentType, report.Data)
}

func toResultView(r *domain.SimulationResult) resultView {
	v := resultView{
		Index:       r.Compound.Index,
		SMILES:      r.Compound.SMILES,
		Score:       fmt.Sprintf("%.2f", r.Score),
		Risk:        string(r.Risk),
		Amplifier:   r.Compound.Amplifier,
		Descriptors: r.Compound.Descriptors,
		Alerts:      r.Compound.Alerts,
		Error:       r.Error,
	}
	if r.Failed() {
		return v
	}

	for i, label := range domain.SpeciesLabels() {
		v.Final = append(v.Final, finalView{Label: label, Value: strconv.FormatFloat(r.Final[i], 'f', 4, 64)})
	}

	if tr := r.Trajectory; tr != nil {
		for s := domain.Species(0); s < domain.SpeciesCount; s++ {
			data := make([][2]float64, len(tr.T))
			for i, t := range tr.T {
				data[i] = [2]float64{t, tr.Y[i][s]}
			}
			v.Chart.Series = append(v.Chart.Series, seriesView{Name: s.String(), Data: data})
		}
	}
	return v
}
