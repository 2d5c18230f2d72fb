package chem

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"digital-liver/internal/core/domain"
)

//go:embed alerts.yaml
var defaultCatalog []byte

// NeutralAmplifier is used when no alert matches.
const NeutralAmplifier = 1.0

type detector func(m *Molecule) int

var detectors = map[string]detector{
	"chlorine": countElement("Cl"),
	"bromine":  countElement("Br"),
	"nitro":    countNitro,
	"epoxide":  countEpoxide,
}

// Catalog is the set of structural alerts checked for each compound.
type Catalog struct {
	Alerts []domain.Alert `yaml:"alerts"`
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded alert catalog: %v", err))
	}
	return c
}

// LoadCatalog reads a YAML catalog from path, or the embedded one when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alert catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse alert catalog: %w", err)
	}

	seen := make(map[string]bool, len(c.Alerts))
	for _, a := range c.Alerts {
		switch {
		case a.ID == "":
			return nil, fmt.Errorf("%w: missing id", domain.ErrInvalidAlertEntry)
		case seen[a.ID]:
			return nil, fmt.Errorf("%w: duplicate id %q", domain.ErrInvalidAlertEntry, a.ID)
		case detectors[a.Detector] == nil:
			return nil, fmt.Errorf("%w: unknown detector %q for %q", domain.ErrInvalidAlertEntry, a.Detector, a.ID)
		case a.Amplifier < NeutralAmplifier:
			return nil, fmt.Errorf("%w: amplifier for %q must be >= 1", domain.ErrInvalidAlertEntry, a.ID)
		}
		seen[a.ID] = true
	}
	return &c, nil
}

// Match returns the catalog alerts present in m, with match counts.
func (c *Catalog) Match(m *Molecule) []domain.Alert {
	matched := make([]domain.Alert, 0)
	for _, a := range c.Alerts {
		if n := detectors[a.Detector](m); n > 0 {
			a.Matches = n
			matched = append(matched, a)
		}
	}
	return matched
}

// Analyze parses one SMILES line and attaches descriptors, alerts and the amplifier.
func (c *Catalog) Analyze(index int, smiles string) (*domain.Compound, error) {
	mol, err := Parse(smiles)
	if err != nil {
		return nil, err
	}
	alerts := c.Match(mol)
	return &domain.Compound{
		Index:       index,
		SMILES:      mol.SMILES,
		Descriptors: Describe(mol),
		Alerts:      alerts,
		Amplifier:   Amplifier(alerts),
	}, nil
}

// Amplifier is the largest amplifier among the matched alerts.
func Amplifier(alerts []domain.Alert) float64 {
	amp := NeutralAmplifier
	for _, a := range alerts {
		if a.Amplifier > amp {
			amp = a.Amplifier
		}
	}
	return amp
}

func countElement(symbol string) detector {
	return func(m *Molecule) int {
		n := 0
		for _, a := range m.Atoms {
			if a.Element == symbol {
				n++
			}
		}
		return n
	}
}

// countNitro finds nitrogens carrying two terminal oxygens, written either as
// N(=O)=O or [N+](=O)[O-].
func countNitro(m *Molecule) int {
	n := 0
	for i, a := range m.Atoms {
		if a.Element != "N" {
			continue
		}
		terminalO := 0
		for _, j := range m.Neighbors(i) {
			if m.Atoms[j].Element == "O" && m.Degree(j) == 1 {
				terminalO++
			}
		}
		if terminalO >= 2 {
			n++
		}
	}
	return n
}

// countEpoxide finds three-membered C-C-O rings.
func countEpoxide(m *Molecule) int {
	n := 0
	for i, a := range m.Atoms {
		if a.Element != "O" || m.Degree(i) != 2 {
			continue
		}
		nb := m.Neighbors(i)
		c1, c2 := nb[0], nb[1]
		if m.Atoms[c1].Element != "C" || m.Atoms[c2].Element != "C" {
			continue
		}
		if _, ok := m.BondBetween(c1, c2); ok {
			n++
		}
	}
	return n
}
