package chem

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"digital-liver/internal/core/domain"
)

// Describe computes whole-molecule descriptors. Lipinski violations cover
// molecular weight, donors and acceptors; no logP estimate is made.
func Describe(m *Molecule) domain.Descriptors {
	d := domain.Descriptors{Components: m.Components}

	counts := make(map[string]int)
	hydrogens := 0
	mass := 0.0

	for i, a := range m.Atoms {
		counts[a.Element]++
		hydrogens += a.Hydrogens
		mass += elements[a.Element].Mass

		if a.Element == "H" {
			continue
		}
		d.HeavyAtoms++
		if a.Element != "C" {
			d.Heteroatoms++
		}
		if isHalogen(a.Element) {
			d.Halogens++
		}
		if a.Aromatic {
			d.AromaticAtoms++
		}
		if a.Element == "N" || a.Element == "O" {
			d.HBondAcceptors++
			if a.Hydrogens > 0 || hasHydrogenNeighbor(m, i) {
				d.HBondDonors++
			}
		}
	}

	counts["H"] += hydrogens
	mass += float64(hydrogens) * hydrogenMass

	d.Formula = hillFormula(counts)
	d.MolecularWeight = math.Round(mass*100) / 100
	d.Rings = len(m.Bonds) - len(m.Atoms) + m.Components

	if d.MolecularWeight > 500 {
		d.LipinskiViolations++
	}
	if d.HBondDonors > 5 {
		d.LipinskiViolations++
	}
	if d.HBondAcceptors > 10 {
		d.LipinskiViolations++
	}
	return d
}

func hasHydrogenNeighbor(m *Molecule, i int) bool {
	for _, n := range m.Neighbors(i) {
		if m.Atoms[n].Element == "H" {
			return true
		}
	}
	return false
}

// hillFormula orders carbon, then hydrogen, then the rest alphabetically. Without
// carbon every element is alphabetical.
func hillFormula(counts map[string]int) string {
	symbols := make([]string, 0, len(counts))
	for sym, n := range counts {
		if n > 0 {
			symbols = append(symbols, sym)
		}
	}
	sort.Strings(symbols)

	var order []string
	if counts["C"] > 0 {
		order = append(order, "C")
		if counts["H"] > 0 {
			order = append(order, "H")
		}
		for _, sym := range symbols {
			if sym != "C" && sym != "H" {
				order = append(order, sym)
			}
		}
	} else {
		order = symbols
	}

	var b strings.Builder
	for _, sym := range order {
		b.WriteString(sym)
		if counts[sym] > 1 {
			b.WriteString(strconv.Itoa(counts[sym]))
		}
	}
	return b.String()
}
