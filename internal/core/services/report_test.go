package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital-liver/internal/core/domain"
	"digital-liver/internal/testutil"
)

func TestReportService_Render(t *testing.T) {
	renderer := new(testutil.MockReportRenderer)
	svc := NewReportService(renderer)

	result := &domain.SimulationResult{Compound: &domain.Compound{Index: 2}}
	renderer.On("Render", result).Return([]byte("%PDF-1.3"), nil)
	renderer.On("ContentType").Return("application/pdf")
	renderer.On("FileName", result).Return("dili_report_2.pdf")

	report, err := svc.Render(result)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.3"), report.Data)
	assert.Equal(t, "application/pdf", report.ContentType)
	assert.Equal(t, "dili_report_2.pdf", report.FileName)
}

func TestReportService_Render_Error(t *testing.T) {
	renderer := new(testutil.MockReportRenderer)
	svc := NewReportService(renderer)

	result := &domain.SimulationResult{Compound: &domain.Compound{Index: 1}}
	renderer.On("Render", result).Return(nil, errors.New("font missing"))

	_, err := svc.Render(result)
	assert.EqualError(t, err, "font missing")
}

func TestReportService_Render_NoRenderer(t *testing.T) {
	_, err := NewReportService(nil).Render(&domain.SimulationResult{})
	assert.ErrorIs(t, err, domain.ErrReportUnavailable)
}
