package radon

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/hammal/tomo/linop"
)

// Naive wraps a textbook projector and a textbook back projector as one
// operator. The forward map rotates with nearest neighbour sampling and
// sums; the claimed adjoint smears each projection back across the image
// with linear interpolation and the pi/(2 n_angles) normalisation of an
// approximate inverse. Both maps are linear, both have the right shapes,
// and everything looks plausible until DotTest compares them: the pair is
// off by orders of magnitude, because an approximate inverse is not a
// transpose. It exists to make exactly that point; use NewProjector for
// real work.
func Naive(n int, thetas []float64) *linop.FuncOp {
	if n <= 1 {
		panic(errors.New("image size must be at least 2"))
	}
	if len(thetas) == 0 {
		panic(errors.New("at least one view angle is required"))
	}
	angles := make([]float64, len(thetas))
	copy(angles, thetas)
	m := float64(n-1) / 2

	fwd := func(dst *mat.VecDense, x mat.Vector) {
		for a, th := range angles {
			c, s := math.Cos(th), math.Sin(th)
			for j := 0; j < n; j++ {
				u := float64(j) - m
				var acc float64
				for i := 0; i < n; i++ {
					v := float64(i) - m
					sr := int(math.Round(m - u*s + v*c))
					sc := int(math.Round(m + u*c + v*s))
					if sr >= 0 && sr < n && sc >= 0 && sc < n {
						acc += x.AtVec(sr*n + sc)
					}
				}
				dst.SetVec(a*n+j, acc)
			}
		}
	}

	adj := func(dst *mat.VecDense, y mat.Vector) {
		dst.Zero()
		scale := math.Pi / (2 * float64(len(angles)))
		for a, th := range angles {
			c, s := math.Cos(th), math.Sin(th)
			for i := 0; i < n; i++ {
				v := float64(i) - m
				for j := 0; j < n; j++ {
					u := float64(j) - m
					// Detector coordinate of pixel (i, j) at this view.
					t := m + u*c - v*s
					t0 := math.Floor(t)
					w := t - t0
					k := int(t0)
					var val float64
					if k >= 0 && k < n {
						val += (1 - w) * y.AtVec(a*n+k)
					}
					if k+1 >= 0 && k+1 < n {
						val += w * y.AtVec(a*n+k+1)
					}
					p := i*n + j
					dst.SetVec(p, dst.AtVec(p)+scale*val)
				}
			}
		}
	}

	return linop.NewFuncOp(len(angles)*n, n*n, fwd, adj)
}
