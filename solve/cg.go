package solve

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/hammal/tomo/gonumext"
	"github.com/hammal/tomo/linop"
)

// CG runs conjugate gradients on the damped normal equations
//
//	(A^T A + damp I) x = A^T b
//
// so a single iteration costs one Forward and one Adjoint of a. The normal
// matrix is symmetric positive (semi)definite whenever the forward/adjoint
// pair is consistent, which is the property DotTest certifies; feeding CG
// an operator that fails the dot test produces confident nonsense.
//
// The returned error is nil on convergence, ErrMaxIterations when the
// budget ran out, or wraps ErrDiverged. The iterate is returned in every
// case.
func CG(a linop.Op, b mat.Vector, opts Options) (*mat.VecDense, Stats, error) {
	rows, cols := a.Dims()
	if b.Len() != rows {
		panic(mat.ErrShape)
	}
	maxIter, tol := opts.defaults()
	if opts.Damp < 0 {
		return nil, Stats{}, fmt.Errorf("solve: damping must not be negative, got %v", opts.Damp)
	}

	x := mat.NewVecDense(cols, nil)
	dataResid := mat.NewVecDense(rows, nil) // b - A x
	dataResid.CopyVec(b)
	if opts.X0 != nil {
		x.CopyVec(opts.X0)
		var ax mat.VecDense
		a.Forward(&ax, x)
		dataResid.AddScaledVec(dataResid, -1, &ax)
	}

	// r = A^T (b - A x) - damp x, the negative gradient.
	r := linop.MulAdjoint(a, dataResid)
	if opts.Damp != 0 {
		r.AddScaledVec(r, -opts.Damp, x)
	}
	p := mat.NewVecDense(cols, nil)
	p.CopyVec(r)
	ap := mat.NewVecDense(rows, nil)
	q := mat.NewVecDense(cols, nil)

	gamma := mat.Dot(r, r)
	// Convergence is judged against the gradient at the origin, not at
	// X0, so a warm start near the solution terminates immediately.
	gradRef := math.Sqrt(gamma)
	if opts.X0 != nil {
		if n := mat.Norm(linop.MulAdjoint(a, b), 2); n > gradRef {
			gradRef = n
		}
	}
	stats := Stats{Residuals: []float64{mat.Norm(dataResid, 2)}}
	if math.Sqrt(gamma) <= tol*gradRef {
		return x, stats, nil
	}

	for it := 1; it <= maxIter; it++ {
		a.Forward(ap, p)
		a.Adjoint(q, ap)
		if opts.Damp != 0 {
			q.AddScaledVec(q, opts.Damp, p)
		}
		den := mat.Dot(p, q)
		if den <= 0 || math.IsNaN(den) {
			return x, stats, fmt.Errorf("%w: curvature %v at iteration %d", ErrDiverged, den, it)
		}
		alpha := gamma / den
		x.AddScaledVec(x, alpha, p)
		r.AddScaledVec(r, -alpha, q)
		dataResid.AddScaledVec(dataResid, -alpha, ap)

		gammaNew := mat.Dot(r, r)
		resid := mat.Norm(dataResid, 2)
		stats.Iterations = it
		stats.Residuals = append(stats.Residuals, resid)
		if opts.Callback != nil {
			opts.Callback(it, resid)
		}
		if gonumext.HasNaNOrInf(x) {
			return x, stats, ErrDiverged
		}
		if math.Sqrt(gammaNew) <= tol*gradRef {
			return x, stats, nil
		}
		p.AddScaledVec(r, gammaNew/gamma, p)
		gamma = gammaNew
	}
	return x, stats, ErrMaxIterations
}
