package simulation

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"digital-liver/internal/core/domain"
)

//go:embed kinetics.toml
var defaultProfile []byte

// Kinetics holds the rate constants of the model.
type Kinetics struct {
	Metabolism struct {
		CYP           float64 `toml:"cyp"`
		Bioactivation float64 `toml:"bioactivation"`
		GSH           float64 `toml:"gsh"`
	} `toml:"metabolism"`
	Stress struct {
		ROS           float64 `toml:"ros"`
		ROSClearance  float64 `toml:"ros_clearance"`
		Mito          float64 `toml:"mito"`
		EnzymeRelease float64 `toml:"enzyme_release"`
	} `toml:"stress"`
	Injury struct {
		Apoptosis     float64 `toml:"apoptosis"`
		MitoApoptosis float64 `toml:"mito_apoptosis"`
		Necrosis      float64 `toml:"necrosis"`
		Cholestasis   float64 `toml:"cholestasis"`
		Fibrosis      float64 `toml:"fibrosis"`
	} `toml:"injury"`
	Idiosyncrasy struct {
		PeriodHours float64 `toml:"period_hours"`
	} `toml:"idiosyncrasy"`
}

// DefaultKinetics returns the embedded profile.
func DefaultKinetics() *Kinetics {
	k, err := ParseKinetics(defaultProfile)
	if err != nil {
		panic(fmt.Sprintf("embedded kinetics profile: %v", err))
	}
	return k
}

// LoadKinetics reads a TOML profile from path, or the embedded one when path is empty.
// Keys missing from the file keep their default values.
func LoadKinetics(path string) (*Kinetics, error) {
	if path == "" {
		return DefaultKinetics(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read kinetics profile %s: %w", path, err)
	}
	k := DefaultKinetics()
	if err := toml.Unmarshal(data, k); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidKinetics, err)
	}
	if err := k.Validate(); err != nil {
		return nil, err
	}
	return k, nil
}

func ParseKinetics(data []byte) (*Kinetics, error) {
	var k Kinetics
	if err := toml.Unmarshal(data, &k); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidKinetics, err)
	}
	if err := k.Validate(); err != nil {
		return nil, err
	}
	return &k, nil
}

// Validate rejects negative rates and a non-positive idiosyncrasy period.
func (k *Kinetics) Validate() error {
	rates := map[string]float64{
		"metabolism.cyp":           k.Metabolism.CYP,
		"metabolism.bioactivation": k.Metabolism.Bioactivation,
		"metabolism.gsh":           k.Metabolism.GSH,
		"stress.ros":               k.Stress.ROS,
		"stress.ros_clearance":     k.Stress.ROSClearance,
		"stress.mito":              k.Stress.Mito,
		"stress.enzyme_release":    k.Stress.EnzymeRelease,
		"injury.apoptosis":         k.Injury.Apoptosis,
		"injury.mito_apoptosis":    k.Injury.MitoApoptosis,
		"injury.necrosis":          k.Injury.Necrosis,
		"injury.cholestasis":       k.Injury.Cholestasis,
		"injury.fibrosis":          k.Injury.Fibrosis,
	}
	for name, v := range rates {
		if v < 0 {
			return fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidKinetics, name)
		}
	}
	if k.Idiosyncrasy.PeriodHours <= 0 {
		return fmt.Errorf("%w: idiosyncrasy.period_hours must be positive", domain.ErrInvalidKinetics)
	}
	return nil
}
