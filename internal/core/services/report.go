package services

import (
	"digital-liver/internal/core/domain"
	ports "digital-liver/internal/core/ports/output"
)

// Report is a rendered document ready to be served as a download.
type Report struct {
	Data        []byte
	ContentType string
	FileName    string
}

type ReportService struct {
	renderer ports.ReportRenderer
}

func NewReportService(renderer ports.ReportRenderer) *ReportService {
	return &ReportService{renderer: renderer}
}

func (s *ReportService) Render(result *domain.SimulationResult) (*Report, error) {
	if s == nil || s.renderer == nil {
		return nil, domain.ErrReportUnavailable
	}
	data, err := s.renderer.Render(result)
	if err != nil {
		return nil, err
	}
	return &Report{
		Data:        data,
		ContentType: s.renderer.ContentType(),
		FileName:    s.renderer.FileName(result),
	}, nil
}
