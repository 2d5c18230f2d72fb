package chem

// element holds the data the parser and descriptors need about one element.
// Valences are only set for the organic subset, where hydrogens are implicit.
type element struct {
	Mass     float64
	Valences []int
}

const hydrogenMass = 1.008

var elements = map[string]element{
	"H":  {Mass: 1.008},
	"He": {Mass: 4.0026},
	"Li": {Mass: 6.94},
	"Be": {Mass: 9.0122},
	"B":  {Mass: 10.81, Valences: []int{3}},
	"C":  {Mass: 12.011, Valences: []int{4}},
	"N":  {Mass: 14.007, Valences: []int{3, 5}},
	"O":  {Mass: 15.999, Valences: []int{2}},
	"F":  {Mass: 18.998, Valences: []int{1}},
	"Ne": {Mass: 20.180},
	"Na": {Mass: 22.990},
	"Mg": {Mass: 24.305},
	"Al": {Mass: 26.982},
	"Si": {Mass: 28.085},
	"P":  {Mass: 30.974, Valences: []int{3, 5}},
	"S":  {Mass: 32.06, Valences: []int{2, 4, 6}},
	"Cl": {Mass: 35.45, Valences: []int{1}},
	"Ar": {Mass: 39.948},
	"K":  {Mass: 39.098},
	"Ca": {Mass: 40.078},
	"Ti": {Mass: 47.867},
	"V":  {Mass: 50.942},
	"Cr": {Mass: 51.996},
	"Mn": {Mass: 54.938},
	"Fe": {Mass: 55.845},
	"Co": {Mass: 58.933},
	"Ni": {Mass: 58.693},
	"Cu": {Mass: 63.546},
	"Zn": {Mass: 65.38},
	"Ga": {Mass: 69.723},
	"Ge": {Mass: 72.630},
	"As": {Mass: 74.922},
	"Se": {Mass: 78.971},
	"Br": {Mass: 79.904, Valences: []int{1}},
	"Kr": {Mass: 83.798},
	"Rb": {Mass: 85.468},
	"Sr": {Mass: 87.62},
	"Zr": {Mass: 91.224},
	"Mo": {Mass: 95.95},
	"Ru": {Mass: 101.07},
	"Rh": {Mass: 102.91},
	"Pd": {Mass: 106.42},
	"Ag": {Mass: 107.87},
	"Cd": {Mass: 112.41},
	"Sn": {Mass: 118.71},
	"Sb": {Mass: 121.76},
	"Te": {Mass: 127.60},
	"I":  {Mass: 126.90, Valences: []int{1}},
	"Xe": {Mass: 131.29},
	"Cs": {Mass: 132.91},
	"Ba": {Mass: 137.33},
	"Gd": {Mass: 157.25},
	"W":  {Mass: 183.84},
	"Pt": {Mass: 195.08},
	"Au": {Mass: 196.97},
	"Hg": {Mass: 200.59},
	"Tl": {Mass: 204.38},
	"Pb": {Mass: 207.2},
	"Bi": {Mass: 208.98},
	"U":  {Mass: 238.03},
}

// Aromatic symbols allowed outside and inside brackets respectively.
var (
	organicAromatic = map[byte]string{'b': "B", 'c': "C", 'n': "N", 'o': "O", 'p': "P", 's': "S"}
	bracketAromatic = map[string]string{
		"b": "B", "c": "C", "n": "N", "o": "O", "p": "P", "s": "S",
		"se": "Se", "as": "As", "te": "Te",
	}
)

func isHalogen(symbol string) bool {
	switch symbol {
	case "F", "Cl", "Br", "I":
		return true
	}
	return false
}
