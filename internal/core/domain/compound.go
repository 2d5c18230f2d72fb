package domain

// Descriptors are whole-molecule properties derived from the parsed structure.
type Descriptors struct {
	Formula            string  `json:"formula"`
	MolecularWeight    float64 `json:"molecular_weight"`
	HeavyAtoms         int     `json:"heavy_atoms"`
	Heteroatoms        int     `json:"heteroatoms"`
	Halogens           int     `json:"halogens"`
	AromaticAtoms      int     `json:"aromatic_atoms"`
	Rings              int     `json:"rings"`
	Components         int     `json:"components"`
	HBondDonors        int     `json:"hbond_donors"`
	HBondAcceptors     int     `json:"hbond_acceptors"`
	LipinskiViolations int     `json:"lipinski_violations"`
}

// Alert is a structural feature associated with bioactivation.
type Alert struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Detector    string  `json:"-" yaml:"detector"`
	Amplifier   float64 `json:"amplifier" yaml:"amplifier"`
	Matches     int     `json:"matches" yaml:"-"`
}

// Compound is one input line after structure analysis.
type Compound struct {
	Index       int         `json:"index"`
	SMILES      string      `json:"smiles"`
	Descriptors Descriptors `json:"descriptors"`
	Alerts      []Alert     `json:"alerts"`
	Amplifier   float64     `json:"amplifier"`
}

// AlertIDs lists the ids of the matched alerts.
func (c *Compound) AlertIDs() []string {
	ids := make([]string, 0, len(c.Alerts))
	for _, a := range c.Alerts {
		ids = append(ids, a.ID)
	}
	return ids
}
