package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"digital-liver/internal/adapters/primary/http/dto"
	"digital-liver/internal/core/domain"
	ports "digital-liver/internal/core/ports/output"
	"digital-liver/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) Simulate(c *gin.Context) {
	var req dto.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := req.ToParams(h.defaults)
	results, err := h.simSvc.Simulate(c.Request.Context(), params, req.SMILES, requestID(c))
	if err != nil {
		if errorStatus(err) == http.StatusInternalServerError {
			log.WithError(err).Error("simulation failed")
		}
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ResultResponse, 0, len(results))
	for _, r := range results {
		items = append(items, dto.ToResultResponse(r, req.IncludeTrajectory))
	}

	c.JSON(http.StatusOK, dto.SimulationResponse{
		Results: items,
		Count:   len(items),
	})
}

type streamEvent struct {
	result *domain.SimulationResult
	err    error
}

// SimulateStream sends one server-sent "result" event per compound as soon as
// it is evaluated, then a final "done" event. Validation errors are returned as
// a plain JSON error before the stream starts.
func (h *Handler) SimulateStream(c *gin.Context) {
	var req dto.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	params := req.ToParams(h.defaults)
	rid := requestID(c)
	events := make(chan streamEvent)

	go func() {
		defer close(events)
		err := h.simSvc.SimulateEach(ctx, params, req.SMILES, rid, func(r *domain.SimulationResult) error {
			select {
			case events <- streamEvent{result: r}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			select {
			case events <- streamEvent{err: err}:
			case <-ctx.Done():
			}
		}
	}()

	first, ok := <-events
	if ok && first.err != nil {
		mapDomainError(c, first.err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	count := 0
	send := func(ev streamEvent) bool {
		if ev.err != nil {
			log.WithError(ev.err).WithField("request_id", rid).Warn("simulation stream aborted")
			c.SSEvent("error", gin.H{"error": errorMessage(ev.err)})
			c.Writer.Flush()
			return false
		}
		c.SSEvent("result", dto.ToResultResponse(ev.result, req.IncludeTrajectory))
		c.Writer.Flush()
		count++
		return true
	}

	if ok {
		if !send(first) {
			return
		}
		for ev := range events {
			if !send(ev) {
				return
			}
		}
	}
	c.SSEvent("done", gin.H{"count": count})
	c.Writer.Flush()
}

func (h *Handler) Describe(c *gin.Context) {
	var req dto.DescriptorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	compound, err := h.simSvc.Analyze(c.Request.Context(), req.SMILES)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCompoundResponse(compound))
}

func (h *Handler) CreateReport(c *gin.Context) {
	var req dto.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.simSvc.Evaluate(c.Request.Context(), req.Index, req.SMILES, req.ToParams(h.defaults))
	if err != nil {
		mapDomainError(c, err)
		return
	}
	h.sendReport(c, result)
}

// ============================================================================
// Run log
// ============================================================================

func (h *Handler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	filter := ports.RunListFilter{
		Risk:   strings.ToUpper(c.Query("risk")),
		SMILES: c.Query("smiles"),
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.Query("batch_id"); raw != "" {
		batchID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch id"})
			return
		}
		filter.BatchID = &batchID
	}
	if filter.Risk != "" && !domain.RiskLevel(filter.Risk).IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown risk level %q", filter.Risk)})
		return
	}

	runs, total, err := h.simSvc.ListRuns(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list runs failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.RunResponse, 0, len(runs))
	for _, r := range runs {
		items = append(items, dto.ToRunResponse(r))
	}

	c.JSON(http.StatusOK, dto.ListRunsResponse{
		Items:      items,
		Total:      total,
		PageSize:   services.ClampLimit(limit),
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		mapDomainError(c, domain.ErrInvalidRunID)
		return
	}

	run, err := h.simSvc.GetRun(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRunResponse(run))
}

func (h *Handler) GetRunReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		mapDomainError(c, domain.ErrInvalidRunID)
		return
	}

	result, err := h.simSvc.ReplayRun(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	h.sendReport(c, result)
}

func (h *Handler) sendReport(c *gin.Context, result *domain.SimulationResult) {
	report, err := h.reportSvc.Render(result)
	if err != nil {
		if errorStatus(err) == http.StatusInternalServerError {
			log.WithError(err).Error("render report failed")
		}
		mapDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName))
	c.Data(http.StatusOK, report.ContentType, report.Data)
}
