package solve

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/hammal/tomo/gonumext"
	"github.com/hammal/tomo/linop"
)

// CGLS solves the damped least squares problem
//
//	min_x |A x - b|^2 + damp |x|^2
//
// with the conjugate gradient recurrences applied to the least squares
// problem directly rather than to the normal equations, so the rounding
// behaviour follows the conditioning of A instead of A^T A. Per iteration
// it costs one Forward and one Adjoint, like CG, and it is the inner engine
// of SplitBregman.
func CGLS(a linop.Op, b mat.Vector, opts Options) (*mat.VecDense, Stats, error) {
	rows, cols := a.Dims()
	if b.Len() != rows {
		panic(mat.ErrShape)
	}
	maxIter, tol := opts.defaults()
	if opts.Damp < 0 {
		return nil, Stats{}, fmt.Errorf("solve: damping must not be negative, got %v", opts.Damp)
	}

	x := mat.NewVecDense(cols, nil)
	r := mat.NewVecDense(rows, nil) // b - A x
	r.CopyVec(b)
	if opts.X0 != nil {
		x.CopyVec(opts.X0)
		var ax mat.VecDense
		a.Forward(&ax, x)
		r.AddScaledVec(r, -1, &ax)
	}

	// s = A^T r - damp x, the negative gradient.
	s := linop.MulAdjoint(a, r)
	if opts.Damp != 0 {
		s.AddScaledVec(s, -opts.Damp, x)
	}
	p := mat.NewVecDense(cols, nil)
	p.CopyVec(s)
	q := mat.NewVecDense(rows, nil)

	gamma := mat.Dot(s, s)
	// Convergence is judged against the gradient at the origin, not at
	// X0, so a warm start near the solution terminates immediately.
	gradRef := math.Sqrt(gamma)
	if opts.X0 != nil {
		if n := mat.Norm(linop.MulAdjoint(a, b), 2); n > gradRef {
			gradRef = n
		}
	}
	stats := Stats{Residuals: []float64{mat.Norm(r, 2)}}
	if math.Sqrt(gamma) <= tol*gradRef {
		return x, stats, nil
	}

	for it := 1; it <= maxIter; it++ {
		a.Forward(q, p)
		den := mat.Dot(q, q) + opts.Damp*mat.Dot(p, p)
		if den <= 0 || math.IsNaN(den) {
			return x, stats, fmt.Errorf("%w: curvature %v at iteration %d", ErrDiverged, den, it)
		}
		alpha := gamma / den
		x.AddScaledVec(x, alpha, p)
		r.AddScaledVec(r, -alpha, q)

		a.Adjoint(s, r)
		if opts.Damp != 0 {
			s.AddScaledVec(s, -opts.Damp, x)
		}
		gammaNew := mat.Dot(s, s)
		resid := mat.Norm(r, 2)
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
		p.AddScaledVec(s, gammaNew/gamma, p)
		gamma = gammaNew
	}
	return x, stats, ErrMaxIterations
}
