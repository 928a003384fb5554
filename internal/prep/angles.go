package prep

import "math"

// SplitAngle returns the rotation half-angle θ that splits |0⟩ into two
// branches with probability weights proportional to a and b: applying
// quantum.Ry(2θ) to a |0⟩ qubit yields √(a/(a+b))|0⟩ + √(b/(a+b))|1⟩.
//
// The two-argument arctangent keeps the result stable for ratios near zero
// and near infinity; a zero weight on either side is a valid degenerate
// split (θ = 0 or θ = π/2), but both weights zero has no answer.
func SplitAngle(a, b float64) (float64, error) {
	if a < 0 || b < 0 {
		return 0, ErrNegativeWeight
	}
	if a == 0 && b == 0 {
		return 0, ErrZeroWeights
	}
	return math.Atan2(math.Sqrt(b), math.Sqrt(a)), nil
}
