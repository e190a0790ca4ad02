package linop

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Wave selects the wavelet family of a Wavelet2D.
type Wave int

const (
	// Haar is the two tap Haar wavelet.
	Haar Wave = iota
	// Daubechies4 is the four tap Daubechies wavelet with two vanishing
	// moments.
	Daubechies4
)

func (w Wave) String() string {
	switch w {
	case Haar:
		return "haar"
	case Daubechies4:
		return "db4"
	}
	return fmt.Sprintf("Wave(%d)", int(w))
}

// filters returns the orthonormal analysis pair of w. The synthesis pair is
// the same by orthogonality.
func (w Wave) filters() (lo, hi []float64) {
	const sqrt2 = 1.4142135623730951
	const sqrt3 = 1.7320508075688772
	switch w {
	case Haar:
		lo = []float64{1 / sqrt2, 1 / sqrt2}
	case Daubechies4:
		lo = []float64{
			(1 + sqrt3) / (4 * sqrt2),
			(3 + sqrt3) / (4 * sqrt2),
			(3 - sqrt3) / (4 * sqrt2),
			(1 - sqrt3) / (4 * sqrt2),
		}
	default:
		panic(errors.New("unknown wavelet family"))
	}
	// Quadrature mirror: hi[k] = (-1)^k lo[L-1-k].
	hi = make([]float64, len(lo))
	sign := 1.0
	for k := range hi {
		hi[k] = sign * lo[len(lo)-1-k]
		sign = -sign
	}
	return lo, hi
}

// Wavelet2D is the orthonormal separable 2-D discrete wavelet transform of
// an n x n image flattened row major. Boundaries are periodic, which keeps
// the transform exactly orthogonal, so the adjoint is also the inverse.
// Forward produces the usual Mallat layout: at every level the top left
// block is split into approximation and horizontal, vertical and diagonal
// detail quadrants, and the next level recurses on the approximation.
type Wavelet2D struct {
	n      int
	levels int
	lo, hi []float64
}

// NewWavelet2D returns the levels deep transform of an n x n image using
// wavelet family w. n must be divisible by 2^levels so every level sees an
// even block size.
func NewWavelet2D(n, levels int, w Wave) *Wavelet2D {
	if n <= 0 {
		panic(errors.New("image size must be positive"))
	}
	if levels < 1 {
		panic(errors.New("at least one decomposition level is required"))
	}
	if n%(1<<uint(levels)) != 0 {
		panic(errors.New("image size must be divisible by 2^levels"))
	}
	lo, hi := w.filters()
	return &Wavelet2D{n: n, levels: levels, lo: lo, hi: hi}
}

func (op *Wavelet2D) Dims() (rows, cols int) { return op.n * op.n, op.n * op.n }

func (op *Wavelet2D) Forward(dst *mat.VecDense, x mat.Vector) {
	n := op.n
	checkLen(x, n*n)
	reuse(dst, n*n)
	work := make([]float64, n*n)
	for i := range work {
		work[i] = x.AtVec(i)
	}
	strip := make([]float64, n)
	buf := make([]float64, n)
	m := n
	for l := 0; l < op.levels; l++ {
		for r := 0; r < m; r++ {
			op.analyse(work[r*n:r*n+m], m, buf)
		}
		for c := 0; c < m; c++ {
			for r := 0; r < m; r++ {
				strip[r] = work[r*n+c]
			}
			op.analyse(strip, m, buf)
			for r := 0; r < m; r++ {
				work[r*n+c] = strip[r]
			}
		}
		m /= 2
	}
	for i, v := range work {
		dst.SetVec(i, v)
	}
}

func (op *Wavelet2D) Adjoint(dst *mat.VecDense, y mat.Vector) {
	n := op.n
	checkLen(y, n*n)
	reuse(dst, n*n)
	work := make([]float64, n*n)
	for i := range work {
		work[i] = y.AtVec(i)
	}
	strip := make([]float64, n)
	buf := make([]float64, n)
	for l := op.levels - 1; l >= 0; l-- {
		m := n >> uint(l)
		for c := 0; c < m; c++ {
			for r := 0; r < m; r++ {
				strip[r] = work[r*n+c]
			}
			op.synthesise(strip, m, buf)
			for r := 0; r < m; r++ {
				work[r*n+c] = strip[r]
			}
		}
		for r := 0; r < m; r++ {
			op.synthesise(work[r*n:r*n+m], m, buf)
		}
	}
	for i, v := range work {
		dst.SetVec(i, v)
	}
}

// analyse replaces v[:m] by its single level decomposition, approximation
// coefficients in the first half, details in the second. Indices wrap
// modulo m.
func (op *Wavelet2D) analyse(v []float64, m int, buf []float64) {
	h := m / 2
	for i := 0; i < h; i++ {
		var a, d float64
		for k := range op.lo {
			s := v[(2*i+k)%m]
			a += op.lo[k] * s
			d += op.hi[k] * s
		}
		buf[i] = a
		buf[h+i] = d
	}
	copy(v[:m], buf[:m])
}

// synthesise is the exact inverse (and transpose) of analyse.
func (op *Wavelet2D) synthesise(v []float64, m int, buf []float64) {
	h := m / 2
	for i := 0; i < m; i++ {
		buf[i] = 0
	}
	for i := 0; i < h; i++ {
		a := v[i]
		d := v[h+i]
		for k := range op.lo {
			buf[(2*i+k)%m] += op.lo[k]*a + op.hi[k]*d
		}
	}
	copy(v[:m], buf[:m])
}
