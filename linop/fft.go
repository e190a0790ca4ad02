package linop

import (
	"errors"
	"math"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"
)

// FFT is the length n discrete Fourier transform packaged as a real
// operator. Forward maps a real vector to the 2n vector
//
//	[ Re(F x) | Im(F x) ] / sqrt(n)
//
// with F the unnormalised DFT, so the packed map is an isometry and its
// transpose is also a left inverse: Adjoint(Forward(x)) = x. Splitting the
// spectrum into real and imaginary halves keeps everything inside the real
// operator algebra, at the price of carrying the redundant negative
// frequencies of a real input.
type FFT struct {
	n int

	mu      sync.Mutex
	plan    *fourier.CmplxFFT
	in, out []complex128
}

// NewFFT returns the transform for length n real vectors.
func NewFFT(n int) *FFT {
	if n <= 0 {
		panic(errors.New("transform length must be positive"))
	}
	return &FFT{
		n:    n,
		plan: fourier.NewCmplxFFT(n),
		in:   make([]complex128, n),
		out:  make([]complex128, n),
	}
}

func (op *FFT) Dims() (rows, cols int) { return 2 * op.n, op.n }

func (op *FFT) Forward(dst *mat.VecDense, x mat.Vector) {
	checkLen(x, op.n)
	reuse(dst, 2*op.n)
	s := 1 / math.Sqrt(float64(op.n))
	op.mu.Lock()
	defer op.mu.Unlock()
	for i := 0; i < op.n; i++ {
		op.in[i] = complex(x.AtVec(i), 0)
	}
	op.plan.Coefficients(op.out, op.in)
	for i, c := range op.out {
		dst.SetVec(i, real(c)*s)
		dst.SetVec(op.n+i, imag(c)*s)
	}
}

// Adjoint computes the transpose of the packed real map. Writing the two
// halves of y as z = y_re - i y_im, the transpose works out to
//
//	A^T y = Re(F z) / sqrt(n)
//
// because Re(F) and Im(F) are symmetric matrices.
func (op *FFT) Adjoint(dst *mat.VecDense, y mat.Vector) {
	checkLen(y, 2*op.n)
	reuse(dst, op.n)
	s := 1 / math.Sqrt(float64(op.n))
	op.mu.Lock()
	defer op.mu.Unlock()
	for i := 0; i < op.n; i++ {
		op.in[i] = complex(y.AtVec(i), -y.AtVec(op.n+i))
	}
	op.plan.Coefficients(op.out, op.in)
	for i, c := range op.out {
		dst.SetVec(i, real(c)*s)
	}
}
