package chem

import "fmt"

// Rule thresholds for oral drug-likeness.
const (
	maxMolecularWeight = 500.0
	maxLogP            = 5.0
	maxHBondDonors     = 5
	maxHBondAcceptors  = 10
	maxRotatableBonds  = 10
	maxTPSA            = 140.0
)

// LipinskiViolations lists which of Lipinski's Rule of Five criteria the
// compound breaks.
func LipinskiViolations(d Descriptors) []string {
	var violations []string
	if d.MolecularWeight > maxMolecularWeight {
		violations = append(violations, fmt.Sprintf("molecular weight %.1f > %.0f", d.MolecularWeight, maxMolecularWeight))
	}
	if d.LogP > maxLogP {
		violations = append(violations, fmt.Sprintf("logP %.2f > %.0f", d.LogP, maxLogP))
	}
	if d.HBondDonors > maxHBondDonors {
		violations = append(violations, fmt.Sprintf("H-bond donors %d > %d", d.HBondDonors, maxHBondDonors))
	}
	if d.HBondAcceptors > maxHBondAcceptors {
		violations = append(violations, fmt.Sprintf("H-bond acceptors %d > %d", d.HBondAcceptors, maxHBondAcceptors))
	}
	return violations
}

// Lipinski reports whether the compound passes Lipinski's Rule of Five.
func Lipinski(d Descriptors) bool {
	return len(LipinskiViolations(d)) == 0
}

// Veber reports whether the compound passes Veber's oral bioavailability
// rules (rotatable bonds and polar surface area).
func Veber(d Descriptors) bool {
	return d.RotatableBonds <= maxRotatableBonds && d.TPSA <= maxTPSA
}

// BioavailabilityScore starts at 1.0 and subtracts 0.2 for each violated
// absorption-related threshold, floored at zero.
func BioavailabilityScore(d Descriptors) float64 {
	score := 1.0
	if d.MolecularWeight > maxMolecularWeight {
		score -= 0.2
	}
	if d.LogP > maxLogP {
		score -= 0.2
	}
	if d.HBondDonors > maxHBondDonors {
		score -= 0.2
	}
	if d.RotatableBonds > maxRotatableBonds {
		score -= 0.2
	}
	if d.TPSA > maxTPSA {
		score -= 0.2
	}
	if score < 0 {
		return 0
	}
	return score
}

// ToxicityRisk scores structural toxicity indicators in [0, 1]. High
// aromatic ring count, high polar surface area and high flexibility each
// add risk.
func ToxicityRisk(d Descriptors) float64 {
	risk := 0.0
	if d.AromaticRings > 3 {
		risk += 0.2
	}
	if d.TPSA > maxTPSA {
		risk += 0.3
	}
	if d.RotatableBonds > maxRotatableBonds {
		risk += 0.2
	}
	if risk > 1 {
		return 1
	}
	return risk
}

// ToxicityClass buckets a toxicity risk score.
func ToxicityClass(risk float64) string {
	switch {
	case risk < 0.3:
		return "low risk"
	case risk < 0.6:
		return "medium risk"
	default:
		return "high risk"
	}
}

// SolubilityLogS estimates aqueous solubility from logP and molecular
// weight (a simplified ESOL-style relation).
func SolubilityLogS(d Descriptors) float64 {
	return 0.5 - d.LogP - 0.01*(d.MolecularWeight-200)
}

// SolubilityClass buckets an estimated LogS value.
func SolubilityClass(logS float64) string {
	switch {
	case logS > -2:
		return "highly soluble"
	case logS > -4:
		return "soluble"
	case logS > -6:
		return "poorly soluble"
	default:
		return "insoluble"
	}
}

// Profile is a complete ADMET evaluation of one compound.
type Profile struct {
	Descriptors          Descriptors `json:"descriptors"`
	Lipinski             bool        `json:"lipinski"`
	LipinskiViolations   []string    `json:"lipinski_violations,omitempty"`
	Veber                bool        `json:"veber"`
	BioavailabilityScore float64     `json:"bioavailability_score"`
	ToxicityRisk         float64     `json:"toxicity_risk"`
	ToxicityClass        string      `json:"toxicity_class"`
	LogS                 float64     `json:"estimated_logs"`
	SolubilityClass      string      `json:"solubility_class"`
}

// Evaluate runs every rule set against the descriptors and assembles the
// full profile.
func Evaluate(d Descriptors) Profile {
	violations := LipinskiViolations(d)
	risk := ToxicityRisk(d)
	logS := SolubilityLogS(d)
	return Profile{
		Descriptors:          d,
		Lipinski:             len(violations) == 0,
		LipinskiViolations:   violations,
		Veber:                Veber(d),
		BioavailabilityScore: BioavailabilityScore(d),
		ToxicityRisk:         risk,
		ToxicityClass:        ToxicityClass(risk),
		LogS:                 logS,
		SolubilityClass:      SolubilityClass(logS),
	}
}

// Passes reports whether the profile clears the default screening bar:
// drug-like by Lipinski and below medium toxicity risk.
func (p Profile) Passes() bool {
	return p.Lipinski && p.ToxicityRisk < 0.5
}
