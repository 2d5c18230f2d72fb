package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital-liver/internal/core/domain"
)

func TestParse_Benzene(t *testing.T) {
	mol, err := Parse("c1ccccc1")
	require.NoError(t, err)

	assert.Len(t, mol.Atoms, 6)
	assert.Len(t, mol.Bonds, 6)
	assert.Equal(t, 1, mol.Components)
	for _, a := range mol.Atoms {
		assert.Equal(t, "C", a.Element)
		assert.True(t, a.Aromatic)
		assert.Equal(t, 1, a.Hydrogens)
	}
	for _, b := range mol.Bonds {
		assert.Equal(t, BondAromatic, b.Order)
	}
}

func TestParse_KekuleBenzeneHydrogens(t *testing.T) {
	mol, err := Parse("C1=CC=CC=C1")
	require.NoError(t, err)

	for _, a := range mol.Atoms {
		assert.Equal(t, 1, a.Hydrogens)
	}
}

func TestParse_Acetaminophen(t *testing.T) {
	mol, err := Parse(domain.DefaultSMILES)
	require.NoError(t, err)

	assert.Len(t, mol.Atoms, 11)
	assert.Len(t, mol.Bonds, 11)

	carbonyl, ok := mol.BondBetween(1, 2)
	require.True(t, ok)
	assert.Equal(t, BondDouble, carbonyl.Order)

	// amide nitrogen keeps one hydrogen
	assert.Equal(t, "N", mol.Atoms[3].Element)
	assert.Equal(t, 1, mol.Atoms[3].Hydrogens)
}

func TestParse_TrimsWhitespace(t *testing.T) {
	mol, err := Parse("  CCO \t")
	require.NoError(t, err)
	assert.Equal(t, "CCO", mol.SMILES)
}

func TestParse_BracketAtoms(t *testing.T) {
	mol, err := Parse("[NH4+]")
	require.NoError(t, err)
	require.Len(t, mol.Atoms, 1)
	assert.Equal(t, "N", mol.Atoms[0].Element)
	assert.Equal(t, 4, mol.Atoms[0].Hydrogens)
	assert.Equal(t, 1, mol.Atoms[0].Charge)
	assert.True(t, mol.Atoms[0].Bracket)

	mol, err = Parse("[13CH4]")
	require.NoError(t, err)
	assert.Equal(t, 13, mol.Atoms[0].Isotope)
	assert.Equal(t, 4, mol.Atoms[0].Hydrogens)

	mol, err = Parse("[Fe++]")
	require.NoError(t, err)
	assert.Equal(t, "Fe", mol.Atoms[0].Element)
	assert.Equal(t, 2, mol.Atoms[0].Charge)

	mol, err = Parse("[O-2]")
	require.NoError(t, err)
	assert.Equal(t, -2, mol.Atoms[0].Charge)

	mol, err = Parse("[C@@H](F)(Cl)Br")
	require.NoError(t, err)
	assert.Equal(t, "@@", mol.Atoms[0].Chirality)
	assert.Equal(t, 1, mol.Atoms[0].Hydrogens)
	assert.Equal(t, "Cl", mol.Atoms[2].Element)
	assert.Equal(t, "Br", mol.Atoms[3].Element)

	mol, err = Parse("[nH]1cccc1")
	require.NoError(t, err)
	assert.True(t, mol.Atoms[0].Aromatic)
	assert.Equal(t, 1, mol.Atoms[0].Hydrogens)

	mol, err = Parse("[CH3:7]C")
	require.NoError(t, err)
	assert.Equal(t, 7, mol.Atoms[0].Class)
}

func TestParse_DisconnectedComponents(t *testing.T) {
	mol, err := Parse("[Na+].[Cl-]")
	require.NoError(t, err)
	assert.Equal(t, 2, mol.Components)
	assert.Empty(t, mol.Bonds)
}

func TestParse_PercentRingClosure(t *testing.T) {
	mol, err := Parse("C%10CCCCC%10")
	require.NoError(t, err)
	assert.Len(t, mol.Bonds, 6)
	for _, a := range mol.Atoms {
		assert.Equal(t, 2, a.Hydrogens)
	}
}

func TestParse_RingClosureBondOrder(t *testing.T) {
	mol, err := Parse("C=1CCCCC1")
	require.NoError(t, err)
	closing, ok := mol.BondBetween(0, 5)
	require.True(t, ok)
	assert.Equal(t, BondDouble, closing.Order)

	mol, err = Parse("C1CCCCC=1")
	require.NoError(t, err)
	closing, ok = mol.BondBetween(0, 5)
	require.True(t, ok)
	assert.Equal(t, BondDouble, closing.Order)
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"unclosed branch":      "C(C",
		"unclosed ring":        "C1CC",
		"unbalanced paren":     "CC)",
		"consecutive bonds":    "C==C",
		"dangling bond":        "CC=",
		"leading bond":         "=CC",
		"unknown organic atom": "CXC",
		"unterminated bracket": "[CH4",
		"unknown element":      "[Zz]",
		"trailing dot":         "CC.",
		"leading dot":          ".CC",
		"ring bond conflict":   "C=1CCCCC#1",
		"self ring":            "C11",
		"bad percent":          "C%1CC",
		"branch first":         "(C)C",
		"bad bracket tail":     "[C+x]",
	}
	for name, smiles := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(smiles)
			assert.ErrorIs(t, err, domain.ErrInvalidSMILES, smiles)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse("   ")
	assert.ErrorIs(t, err, domain.ErrEmptySMILES)
}
