package simulation

import "digital-liver/internal/core/domain"

const (
	LowRiskBelow      = 0.6
	ModerateRiskBelow = 1.5
)

var scoreWeights = []struct {
	species domain.Species
	weight  float64
}{
	{domain.ROS, 0.18},
	{domain.ALT, 0.14},
	{domain.MitoStress, 0.12},
	{domain.Apoptosis, 0.12},
	{domain.Necrosis, 0.12},
	{domain.Fibrosis, 0.18},
	{domain.Cholestasis, 0.14},
}

// Score is the weighted sum of the injury markers in the final state.
func Score(final domain.State) float64 {
	score := 0.0
	for _, w := range scoreWeights {
		score += w.weight * final[w.species]
	}
	return score
}

func Classify(score float64) domain.RiskLevel {
	switch {
	case score < LowRiskBelow:
		return domain.RiskLow
	case score < ModerateRiskBelow:
		return domain.RiskModerate
	default:
		return domain.RiskHigh
	}
}
