package ports

import "digital-liver/internal/core/domain"

// ReportRenderer produces a downloadable report for one simulated compound.
type ReportRenderer interface {
	Render(result *domain.SimulationResult) ([]byte, error)
	ContentType() string
	FileName(result *domain.SimulationResult) string
}
