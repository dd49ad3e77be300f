// Package chem evaluates drug-likeness and ADMET-style properties from
// molecular descriptors. Descriptors come from the PubChem property
// endpoint rather than local descriptor computation, so every rule here
// works on plain numbers.
package chem

import (
	"strings"

	"github.com/moleculab/drugflow/tool"
)

// Descriptors holds the molecular descriptors the rule sets below consume.
type Descriptors struct {
	MolecularWeight float64 `json:"molecular_weight"`
	LogP            float64 `json:"logp"`
	TPSA            float64 `json:"tpsa"`
	HBondDonors     int     `json:"h_bond_donors"`
	HBondAcceptors  int     `json:"h_bond_acceptors"`
	RotatableBonds  int     `json:"rotatable_bonds"`
	AromaticRings   int     `json:"aromatic_rings"`
	SMILES          string  `json:"smiles,omitempty"`
}

// FromProperties converts a PubChem property record into Descriptors.
// Aromatic ring count is not part of the property table, so it is
// estimated from the canonical SMILES.
func FromProperties(props *tool.CompoundProperties) Descriptors {
	return Descriptors{
		MolecularWeight: float64(props.MolecularWeight),
		LogP:            float64(props.XLogP),
		TPSA:            float64(props.TPSA),
		HBondDonors:     props.HBondDonorCount,
		HBondAcceptors:  props.HBondAcceptorCount,
		RotatableBonds:  props.RotatableBondCount,
		AromaticRings:   EstimateAromaticRings(props.CanonicalSMILES),
		SMILES:          props.CanonicalSMILES,
	}
}

// EstimateAromaticRings counts aromatic rings in a SMILES string. Rings are
// paired ring-closure digits; a ring counts as aromatic when it is written
// with lower-case aromatic atoms, or in Kekule form with alternating double
// bonds (at least two '=' between the closure digits), which is how PubChem
// writes canonical SMILES.
func EstimateAromaticRings(smiles string) int {
	rings := 0
	open := make(map[byte]int)
	for i := 0; i < len(smiles); i++ {
		c := smiles[i]
		if c < '0' || c > '9' {
			continue
		}
		start, ok := open[c]
		if !ok {
			open[c] = i
			continue
		}
		delete(open, c)
		if isAromaticRing(smiles[start:i]) {
			rings++
		}
	}
	return rings
}

func isAromaticRing(segment string) bool {
	if strings.ContainsAny(segment, "cnos") {
		return true
	}
	return strings.Count(segment, "=") >= 2
}
