package solve

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/hammal/tomo/gonumext"
	"github.com/hammal/tomo/linop"
)

// BregmanOptions configure SplitBregman. The zero value requests the
// documented defaults.
type BregmanOptions struct {
	// Outer is the number of Bregman iterations, 30 when zero.
	Outer int
	// Inner bounds the CGLS iterations inside each quadratic solve, 20
	// when zero. The inner solves are warm started, so a small budget is
	// enough.
	Inner int
	// Mu weighs the quadratic coupling between x and the auxiliary
	// variable, 1 when zero. Larger values enforce d = Wx harder per
	// iteration at the cost of a stiffer inner problem.
	Mu float64
	// Tol stops early once the outer data residual stalls, 1e-6 when
	// zero.
	Tol float64
	// Callback, when set, observes every outer iteration together with
	// the data residual |Ax-b|.
	Callback func(iter int, resid float64)
}

func (o BregmanOptions) defaults() (outer, inner int, mu, tol float64) {
	outer = o.Outer
	if outer <= 0 {
		outer = 30
	}
	inner = o.Inner
	if inner <= 0 {
		inner = 20
	}
	mu = o.Mu
	if mu == 0 {
		mu = 1
	}
	tol = o.Tol
	if tol <= 0 {
		tol = 1e-6
	}
	return outer, inner, mu, tol
}

// SplitBregman solves the L1 regularised inverse problem
//
//	min_x |A x - b|^2 + lambda |W x|_1
//
// by the split Bregman scheme: the constraint d = W x decouples the smooth
// and the nonsmooth term, each outer iteration then alternates a damped
// least squares solve on the stacked operator [A; sqrt(mu) W], an
// elementwise Shrink, and a Bregman update of the splitting residual. When
// W is orthonormal, like the wavelet transforms in package linop, the
// stacked system stays as well conditioned as A itself.
//
// Running out of the Outer budget is the normal way this scheme finishes
// and is not an error; the error is non nil only for invalid arguments or
// when the iteration stops being finite.
func SplitBregman(a, w linop.Op, b mat.Vector, lambda float64, opts BregmanOptions) (*mat.VecDense, Stats, error) {
	arows, acols := a.Dims()
	wrows, wcols := w.Dims()
	if acols != wcols {
		panic(mat.ErrShape)
	}
	if b.Len() != arows {
		panic(mat.ErrShape)
	}
	if lambda < 0 {
		return nil, Stats{}, fmt.Errorf("solve: lambda must not be negative, got %v", lambda)
	}
	outer, inner, mu, tol := opts.defaults()

	sqmu := math.Sqrt(mu)
	stacked := linop.NewVStack(a, linop.NewScaled(sqmu, w))
	rhs := mat.NewVecDense(arows+wrows, nil)
	for i := 0; i < arows; i++ {
		rhs.SetVec(i, b.AtVec(i))
	}

	x := mat.NewVecDense(acols, nil)
	wx := mat.NewVecDense(wrows, nil)
	d := mat.NewVecDense(wrows, nil)
	bb := mat.NewVecDense(wrows, nil)
	tmp := mat.NewVecDense(wrows, nil)
	dataResid := mat.NewVecDense(arows, nil)

	stats := Stats{Residuals: []float64{mat.Norm(b, 2)}}
	prev := math.Inf(1)
	for it := 1; it <= outer; it++ {
		// x step: min |Ax-b|^2 + mu |Wx - (d - bb)|^2, warm started from
		// the previous iterate.
		for i := 0; i < wrows; i++ {
			rhs.SetVec(arows+i, sqmu*(d.AtVec(i)-bb.AtVec(i)))
		}
		xNew, _, err := CGLS(stacked, rhs, Options{MaxIter: inner, Tol: 1e-12, X0: x})
		if err != nil && !errors.Is(err, ErrMaxIterations) {
			return x, stats, err
		}
		x = xNew
		w.Forward(wx, x)

		// d step: shrink the coefficients towards sparsity.
		tmp.AddVec(wx, bb)
		Shrink(d, tmp, lambda/(2*mu))

		// Bregman update: bb accumulates the splitting error Wx - d.
		bb.AddVec(bb, wx)
		bb.AddScaledVec(bb, -1, d)

		a.Forward(dataResid, x)
		dataResid.AddScaledVec(dataResid, -1, b)
		rn := mat.Norm(dataResid, 2)
		stats.Iterations = it
		stats.Residuals = append(stats.Residuals, rn)
		if opts.Callback != nil {
			opts.Callback(it, rn)
		}
		if gonumext.HasNaNOrInf(x) {
			return x, stats, ErrDiverged
		}
		if math.Abs(prev-rn) <= tol*math.Max(rn, 1) {
			break
		}
		prev = rn
	}
	return x, stats, nil
}
