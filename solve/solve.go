// Package solve provides iterative least squares and sparsity promoting
// solvers that see the system matrix only through the linop.Op interface.
// Nothing here ever forms a matrix: one Forward and one Adjoint per
// iteration is the entire contract, which is what makes the solvers usable
// on operators whose dense form would not fit in memory.
package solve

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// Options configure the conjugate gradient family of solvers. The zero
// value requests the documented defaults.
type Options struct {
	// MaxIter is the iteration budget, 100 when zero.
	MaxIter int
	// Tol stops the iteration once the gradient norm has dropped below Tol
	// times its initial value, 1e-8 when zero.
	Tol float64
	// Damp adds Tikhonov regularisation, solving
	// min |Ax-b|^2 + Damp |x|^2 instead of the plain problem.
	Damp float64
	// X0 is the initial iterate, zero when nil.
	X0 mat.Vector
	// Callback, when set, observes every iteration together with the
	// current data residual |Ax-b|.
	Callback func(iter int, resid float64)
}

func (o Options) defaults() (maxIter int, tol float64) {
	maxIter = o.MaxIter
	if maxIter <= 0 {
		maxIter = 100
	}
	tol = o.Tol
	if tol <= 0 {
		tol = 1e-8
	}
	return maxIter, tol
}

// Stats report how a solve went. Residuals holds the data residual |Ax-b|
// before the first iteration and after every completed one, so a solver
// that stops at iteration k returns k+1 values.
type Stats struct {
	Iterations int
	Residuals  []float64
}

var (
	// ErrMaxIterations reports that the iteration budget ran out before
	// the tolerance was reached. The returned iterate is still the best
	// one found.
	ErrMaxIterations = errors.New("solve: maximum iterations reached before convergence")
	// ErrDiverged reports that the iterate stopped being finite, usually a
	// sign of a wrong adjoint or absurd damping.
	ErrDiverged = errors.New("solve: iteration diverged")
)

// Shrink applies elementwise soft thresholding,
//
//	dst[i] = sign(v[i]) * max(|v[i]| - kappa, 0)
//
// the proximal map of kappa |.|_1. dst must be empty or have the length of
// v. This is the only place the L1 norm enters SplitBregman.
func Shrink(dst *mat.VecDense, v mat.Vector, kappa float64) {
	if kappa < 0 {
		panic(errors.New("shrinkage threshold must not be negative"))
	}
	if dst.IsEmpty() {
		dst.ReuseAsVec(v.Len())
	} else if dst.Len() != v.Len() {
		panic(mat.ErrShape)
	}
	for i := 0; i < v.Len(); i++ {
		val := v.AtVec(i)
		switch {
		case val > kappa:
			dst.SetVec(i, val-kappa)
		case val < -kappa:
			dst.SetVec(i, val+kappa)
		default:
			dst.SetVec(i, 0)
		}
	}
}
