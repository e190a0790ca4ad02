package linop

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// ErrNotAdjoint reports that a forward/adjoint pair failed the dot product
// test, so the two rules do not describe one matrix.
var ErrNotAdjoint = errors.New("linop: forward and adjoint pair failed the dot product test")

// DotTest checks that Forward and Adjoint of op are mutually consistent.
// If the pair really implements one matrix A then for any vectors u, v
//
//	(A u) . v = u . (A^T v)
//
// up to rounding. The identity is checked on trials pairs of Gaussian
// probes drawn from rng and the relative discrepancy is compared against
// tol; consistent operators pass with tol as tight as 1e-10 while a wrong
// or merely approximate adjoint fails by orders of magnitude. A nil rng
// falls back to a fixed seed, making the test deterministic.
func DotTest(op Op, trials int, tol float64, rng *rand.Rand) error {
	if trials <= 0 {
		trials = 3
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	rows, cols := op.Dims()
	u := mat.NewVecDense(cols, nil)
	v := mat.NewVecDense(rows, nil)
	au := mat.NewVecDense(rows, nil)
	atv := mat.NewVecDense(cols, nil)
	for t := 0; t < trials; t++ {
		for i := 0; i < cols; i++ {
			u.SetVec(i, rng.NormFloat64())
		}
		for i := 0; i < rows; i++ {
			v.SetVec(i, rng.NormFloat64())
		}
		op.Forward(au, u)
		op.Adjoint(atv, v)
		lhs := mat.Dot(au, v)
		rhs := mat.Dot(u, atv)
		scale := math.Max(math.Abs(lhs), math.Abs(rhs))
		if scale == 0 {
			scale = 1
		}
		rel := math.Abs(lhs-rhs) / scale
		if math.IsNaN(rel) || rel > tol {
			return fmt.Errorf("%w: trial %d: <Au,v>=%.6e <u,A^Tv>=%.6e relative discrepancy %.3e exceeds %.3e",
				ErrNotAdjoint, t, lhs, rhs, rel, tol)
		}
	}
	return nil
}
