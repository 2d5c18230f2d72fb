// Package chem parses SMILES strings into molecular graphs and derives the
// descriptors and structural alerts used by the liver model.
package chem

import (
	"fmt"
	"strings"

	"digital-liver/internal/core/domain"
)

type BondOrder int

const (
	BondSingle BondOrder = iota + 1
	BondDouble
	BondTriple
	BondQuadruple
	BondAromatic
)

// valence is the contribution of the bond to an atom's valence. Aromatic bonds
// count as one; the extra electron is added per aromatic atom.
func (b BondOrder) valence() int {
	switch b {
	case BondDouble:
		return 2
	case BondTriple:
		return 3
	case BondQuadruple:
		return 4
	default:
		return 1
	}
}

type Atom struct {
	Element   string
	Aromatic  bool
	Bracket   bool
	Isotope   int
	Charge    int
	Chirality string
	Class     int
	// Hydrogens is the explicit count for bracket atoms and the implicit count otherwise.
	Hydrogens int
}

type Bond struct {
	From  int
	To    int
	Order BondOrder
}

type neighbor struct {
	atom int
	bond int
}

// Molecule is the graph produced by Parse.
type Molecule struct {
	SMILES     string
	Atoms      []Atom
	Bonds      []Bond
	Components int

	adj [][]neighbor
}

// Neighbors returns the atom indexes bonded to atom i.
func (m *Molecule) Neighbors(i int) []int {
	out := make([]int, 0, len(m.adj[i]))
	for _, n := range m.adj[i] {
		out = append(out, n.atom)
	}
	return out
}

// BondBetween returns the bond joining a and b.
func (m *Molecule) BondBetween(a, b int) (Bond, bool) {
	for _, n := range m.adj[a] {
		if n.atom == b {
			return m.Bonds[n.bond], true
		}
	}
	return Bond{}, false
}

func (m *Molecule) Degree(i int) int {
	return len(m.adj[i])
}

type ringOpening struct {
	atom  int
	order BondOrder
}

type parser struct {
	src     string
	pos     int
	mol     *Molecule
	prev    int
	pending BondOrder
	branch  []int
	rings   map[int]ringOpening
	dotted  bool
}

// Parse reads a SMILES string. Errors wrap domain.ErrInvalidSMILES and carry
// the byte offset of the problem.
func Parse(smiles string) (*Molecule, error) {
	src := strings.TrimSpace(smiles)
	if src == "" {
		return nil, domain.ErrEmptySMILES
	}

	p := &parser{
		src:   src,
		mol:   &Molecule{SMILES: src},
		prev:  -1,
		rings: make(map[int]ringOpening),
	}
	if err := p.run(); err != nil {
		return nil, err
	}

	p.mol.adj = make([][]neighbor, len(p.mol.Atoms))
	for i, b := range p.mol.Bonds {
		p.mol.adj[b.From] = append(p.mol.adj[b.From], neighbor{atom: b.To, bond: i})
		p.mol.adj[b.To] = append(p.mol.adj[b.To], neighbor{atom: b.From, bond: i})
	}
	p.mol.assignImplicitHydrogens()
	p.mol.Components = p.mol.countComponents()
	return p.mol, nil
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s at position %d", domain.ErrInvalidSMILES, fmt.Sprintf(format, args...), p.pos)
}

func (p *parser) run() error {
	for p.pos < len(p.src) {
		ch := p.src[p.pos]
		switch {
		case ch == '(':
			if p.prev < 0 {
				return p.errorf("branch opened before any atom")
			}
			if p.pending != 0 {
				return p.errorf("bond before branch")
			}
			p.branch = append(p.branch, p.prev)
			p.pos++

		case ch == ')':
			if len(p.branch) == 0 {
				return p.errorf("unbalanced ')'")
			}
			if p.pending != 0 {
				return p.errorf("dangling bond")
			}
			p.prev = p.branch[len(p.branch)-1]
			p.branch = p.branch[:len(p.branch)-1]
			p.pos++

		case strings.IndexByte("-=#$:/\\", ch) >= 0:
			if p.prev < 0 {
				return p.errorf("bond %q without a preceding atom", ch)
			}
			if p.pending != 0 {
				return p.errorf("consecutive bonds")
			}
			p.pending = bondFromSymbol(ch)
			p.pos++

		case ch == '.':
			if p.prev < 0 || p.pending != 0 {
				return p.errorf("misplaced '.'")
			}
			p.prev = -1
			p.dotted = true
			p.pos++

		case ch == '%' || (ch >= '0' && ch <= '9'):
			if err := p.ringClosure(); err != nil {
				return err
			}

		case ch == '[':
			atom, err := p.bracketAtom()
			if err != nil {
				return err
			}
			if err := p.addAtom(atom); err != nil {
				return err
			}

		default:
			atom, err := p.organicAtom()
			if err != nil {
				return err
			}
			if err := p.addAtom(atom); err != nil {
				return err
			}
		}
	}

	switch {
	case p.pending != 0:
		return p.errorf("dangling bond")
	case len(p.branch) > 0:
		return p.errorf("unclosed branch")
	case len(p.rings) > 0:
		return p.errorf("unclosed ring")
	case p.prev < 0 && p.dotted:
		return p.errorf("trailing '.'")
	case len(p.mol.Atoms) == 0:
		return p.errorf("no atoms")
	}
	return nil
}

func bondFromSymbol(ch byte) BondOrder {
	switch ch {
	case '=':
		return BondDouble
	case '#':
		return BondTriple
	case '$':
		return BondQuadruple
	case ':':
		return BondAromatic
	default:
		return BondSingle
	}
}

func (p *parser) addAtom(atom Atom) error {
	idx := len(p.mol.Atoms)
	p.mol.Atoms = append(p.mol.Atoms, atom)
	if p.prev >= 0 {
		if err := p.addBond(p.prev, idx, p.pending); err != nil {
			return err
		}
	}
	p.pending = 0
	p.prev = idx
	p.dotted = false
	return nil
}

func (p *parser) addBond(a, b int, order BondOrder) error {
	if a == b {
		return p.errorf("atom bonded to itself")
	}
	for _, existing := range p.mol.Bonds {
		if (existing.From == a && existing.To == b) || (existing.From == b && existing.To == a) {
			return p.errorf("duplicate bond")
		}
	}
	if order == 0 {
		order = BondSingle
		if p.mol.Atoms[a].Aromatic && p.mol.Atoms[b].Aromatic {
			order = BondAromatic
		}
	}
	p.mol.Bonds = append(p.mol.Bonds, Bond{From: a, To: b, Order: order})
	return nil
}

func (p *parser) ringClosure() error {
	if p.prev < 0 {
		return p.errorf("ring closure without a preceding atom")
	}

	var num int
	if p.src[p.pos] == '%' {
		if p.pos+2 >= len(p.src) || !isDigit(p.src[p.pos+1]) || !isDigit(p.src[p.pos+2]) {
			return p.errorf("'%%' must be followed by two digits")
		}
		num = int(p.src[p.pos+1]-'0')*10 + int(p.src[p.pos+2]-'0')
		p.pos += 3
	} else {
		num = int(p.src[p.pos] - '0')
		p.pos++
	}

	open, ok := p.rings[num]
	if !ok {
		p.rings[num] = ringOpening{atom: p.prev, order: p.pending}
		p.pending = 0
		return nil
	}

	order := p.pending
	if open.order != 0 {
		if order != 0 && order != open.order {
			return p.errorf("conflicting bonds on ring closure %d", num)
		}
		order = open.order
	}
	delete(p.rings, num)
	p.pending = 0
	return p.addBond(open.atom, p.prev, order)
}

func (p *parser) organicAtom() (Atom, error) {
	ch := p.src[p.pos]
	if p.pos+1 < len(p.src) {
		two := p.src[p.pos : p.pos+2]
		if two == "Cl" || two == "Br" {
			p.pos += 2
			return Atom{Element: two}, nil
		}
	}
	switch ch {
	case 'B', 'C', 'N', 'O', 'P', 'S', 'F', 'I':
		p.pos++
		return Atom{Element: string(ch)}, nil
	}
	if sym, ok := organicAromatic[ch]; ok {
		p.pos++
		return Atom{Element: sym, Aromatic: true}, nil
	}
	return Atom{}, p.errorf("unexpected character %q", ch)
}

// bracketAtom parses [isotope? symbol chirality? hcount? charge? class?].
func (p *parser) bracketAtom() (Atom, error) {
	start := p.pos
	end := strings.IndexByte(p.src[start:], ']')
	if end < 0 {
		return Atom{}, p.errorf("unterminated bracket atom")
	}
	body := p.src[start+1 : start+end]
	p.pos = start + end + 1

	atom := Atom{Bracket: true}
	i := 0

	for i < len(body) && isDigit(body[i]) {
		atom.Isotope = atom.Isotope*10 + int(body[i]-'0')
		i++
	}

	sym, aromatic, n := bracketSymbol(body[i:])
	if n == 0 {
		return Atom{}, p.errorf("unknown element in %q", "["+body+"]")
	}
	atom.Element, atom.Aromatic = sym, aromatic
	i += n

	if i < len(body) && body[i] == '@' {
		j := i + 1
		if j < len(body) && body[j] == '@' {
			j++
		}
		atom.Chirality = body[i:j]
		i = j
	}

	if i < len(body) && body[i] == 'H' {
		i++
		atom.Hydrogens = 1
		if i < len(body) && isDigit(body[i]) {
			atom.Hydrogens = int(body[i] - '0')
			i++
		}
	}

	if i < len(body) && (body[i] == '+' || body[i] == '-') {
		sign := 1
		if body[i] == '-' {
			sign = -1
		}
		c := body[i]
		i++
		magnitude := 1
		switch {
		case i < len(body) && isDigit(body[i]):
			magnitude = 0
			for i < len(body) && isDigit(body[i]) {
				magnitude = magnitude*10 + int(body[i]-'0')
				i++
			}
		case i < len(body) && body[i] == c:
			for i < len(body) && body[i] == c {
				magnitude++
				i++
			}
		}
		atom.Charge = sign * magnitude
	}

	if i < len(body) && body[i] == ':' {
		i++
		if i >= len(body) || !isDigit(body[i]) {
			return Atom{}, p.errorf("atom class requires digits")
		}
		for i < len(body) && isDigit(body[i]) {
			atom.Class = atom.Class*10 + int(body[i]-'0')
			i++
		}
	}

	if i != len(body) {
		return Atom{}, p.errorf("unexpected %q in bracket atom", body[i:])
	}
	return atom, nil
}

// bracketSymbol returns the element symbol at the start of s, whether it was
// written aromatic, and how many bytes it used.
func bracketSymbol(s string) (string, bool, int) {
	if s == "" {
		return "", false, 0
	}
	if len(s) >= 2 {
		if sym, ok := bracketAromatic[s[:2]]; ok {
			return sym, true, 2
		}
		if _, ok := elements[s[:2]]; ok && isUpper(s[0]) {
			return s[:2], false, 2
		}
	}
	if sym, ok := bracketAromatic[s[:1]]; ok {
		return sym, true, 1
	}
	if _, ok := elements[s[:1]]; ok {
		return s[:1], false, 1
	}
	return "", false, 0
}

// assignImplicitHydrogens fills Hydrogens for organic-subset atoms using the
// lowest default valence that accommodates the explicit bonds. Aromatic atoms
// only ever use their lowest valence; a fully substituted aromatic n or s gets
// no hydrogen.
func (m *Molecule) assignImplicitHydrogens() {
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.Bracket {
			continue
		}
		used := 0
		for _, n := range m.adj[i] {
			used += m.Bonds[n.bond].Order.valence()
		}
		a.Hydrogens = 0
		valences := elements[a.Element].Valences
		if len(valences) == 0 {
			continue
		}
		if a.Aromatic {
			a.Hydrogens = max(0, valences[0]-used-1)
			continue
		}
		for _, v := range valences {
			if v >= used {
				a.Hydrogens = v - used
				break
			}
		}
	}
}

func (m *Molecule) countComponents() int {
	parent := make([]int, len(m.Atoms))
	for i := range parent {
		parent[i] = i
	}
	find := func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	components := len(m.Atoms)
	for _, b := range m.Bonds {
		ra, rb := find(b.From), find(b.To)
		if ra != rb {
			parent[ra] = rb
			components--
		}
	}
	return components
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
