package rating

import "math"

// Defaults for the Elo-style rating math. The divisor controls how steep
// the expected-score curve is; K bounds the per-battle rating swing.
const (
	DefaultKFactor = 32
	DefaultDivisor = 400.0
)

// ExpectedScore returns the probability that a participant rated a beats
// one rated b.
func ExpectedScore(a, b int) float64 {
	return ExpectedScoreDiv(a, b, DefaultDivisor)
}

// ExpectedScoreDiv is ExpectedScore with an explicit curve divisor.
func ExpectedScoreDiv(a, b int, divisor float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, float64(b-a)/divisor))
}

// Delta computes the rating change for the participant rated a against an
// opponent rated b. aWon selects the actual score (1 or 0). Both sides'
// deltas are computed symmetrically; Delta(a,b,won) and Delta(b,a,!won)
// cancel out up to rounding.
func Delta(a, b int, aWon bool) int {
	return DeltaK(a, b, aWon, DefaultKFactor)
}

// DeltaK is Delta with an explicit K factor.
func DeltaK(a, b int, aWon bool, k int) int {
	return DeltaFull(a, b, aWon, k, DefaultDivisor)
}

// DeltaFull is Delta with every tuning knob explicit.
func DeltaFull(a, b int, aWon bool, k int, divisor float64) int {
	actual := 0.0
	if aWon {
		actual = 1.0
	}
	return int(math.Round(float64(k) * (actual - ExpectedScoreDiv(a, b, divisor))))
}
