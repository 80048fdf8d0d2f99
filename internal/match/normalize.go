// Package match implements the embedding matching engine: normalization,
// best-match selection against a gallery of enrolled students, and aggregation
// of per-face outcomes into an attendance report.
//
// The engine is pure computation. It holds no state between calls, never
// mutates its inputs and performs no I/O, so any number of recognition runs
// may execute concurrently without coordination.
package match

import (
	"math"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
)

// normTolerance is the accepted absolute deviation of the squared norm from 1
// when checking an already-normalized vector.
const normTolerance = 1e-6

// Normalize scales v to unit Euclidean length. Every embedding must pass
// through here before any similarity comparison: FindBestMatch collapses
// cosine similarity to a plain dot product, which is only valid when both
// operands are unit vectors.
//
// Returns domain.ErrDegenerateVector when the norm is zero or non-finite,
// which signals malformed upstream embedding data.
func Normalize(v []float64) ([]float64, error) {
	var sq float64
	for _, x := range v {
		sq += x * x
	}

	norm := math.Sqrt(sq)
	if norm == 0 || math.IsInf(norm, 0) || math.IsNaN(norm) {
		return nil, domain.ErrDegenerateVector
	}

	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}

	return out, nil
}

// IsNormalized reports whether v already has unit length within tolerance.
func IsNormalized(v []float64) bool {
	var sq float64
	for _, x := range v {
		sq += x * x
	}
	return math.Abs(sq-1) <= normTolerance
}
