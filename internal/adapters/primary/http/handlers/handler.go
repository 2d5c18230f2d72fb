package handlers

import (
	"digital-liver/internal/adapters/primary/http/middleware"
	"digital-liver/internal/core/domain"
	"digital-liver/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	simSvc    *services.SimulationService
	reportSvc *services.ReportService
	defaults  domain.SimulationParams
}

// New creates the HTTP handler. points sets the default number of output
// samples; zero keeps the built-in default.
func New(simSvc *services.SimulationService, reportSvc *services.ReportService, points int) *Handler {
	defaults := domain.DefaultParams()
	if points > 0 {
		defaults.Points = points
	}
	return &Handler{
		simSvc:    simSvc,
		reportSvc: reportSvc,
		defaults:  defaults,
	}
}

// RegisterRoutes mounts the JSON API.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Simulations
	r.POST("/simulations", h.Simulate)
	r.POST("/simulations/stream", h.SimulateStream)
	r.POST("/descriptors", h.Describe)
	r.POST("/reports", h.CreateReport)

	// Run log
	r.GET("/runs", h.ListRuns)
	r.GET("/runs/:id", h.GetRun)
	r.GET("/runs/:id/report", h.GetRunReport)
}

// RegisterWebRoutes mounts the browser UI.
func (h *Handler) RegisterWebRoutes(r gin.IRoutes) {
	r.GET("/", h.Index)
	r.POST("/simulate", h.SimulateForm)
	r.POST("/report", h.ReportForm)
}

func requestID(c *gin.Context) string {
	return c.GetString(middleware.ContextRequestID)
}
