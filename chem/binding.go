package chem

import "math"

// BindingScore is a heuristic estimate (0-7) of how well a compound's bulk
// properties suit target binding. Lipophilicity, hydrogen-bonding capacity,
// a molecular weight sweet spot around 350 Da and polar surface area each
// contribute. It is a ranking signal, not a docking score.
func BindingScore(d Descriptors) float64 {
	score := 0.0
	score += math.Min(d.LogP/5.0, 1.0) * 2
	score += math.Min(float64(d.HBondDonors+d.HBondAcceptors)/10.0, 1.0) * 2
	score += math.Max(0, 1-math.Abs(d.MolecularWeight-350)/500) * 2
	score += math.Min(d.TPSA/100.0, 1.0)
	return score
}
