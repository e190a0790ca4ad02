// Package linop provides matrix free linear operators on gonum vectors.
//
// An operator A of size m x n is anything that can apply the map
//
//	y = A x
//
// and its transpose
//
//	x = A^T y
//
// without ever forming the m x n matrix. Operators compose with Chain and
// VStack, so a measurement model is assembled from small pieces that each
// know only their own forward and adjoint rule. Whether a pair of rules
// really describes one matrix is checked with DotTest.
package linop

import (
	"gonum.org/v1/gonum/mat"
)

// Op is a matrix free linear operator.
//
//	y = A x      (Forward)
//	x = A^T y    (Adjoint)
//
// Implementations must be safe for concurrent use once constructed.
type Op interface {
	// Dims returns the operator size. Forward maps length cols vectors to
	// length rows vectors, Adjoint the other way around.
	Dims() (rows, cols int)
	// Forward computes dst = A x. dst must be empty or of length rows and
	// is overwritten. x must not share memory with dst.
	Forward(dst *mat.VecDense, x mat.Vector)
	// Adjoint computes dst = A^T y. dst must be empty or of length cols and
	// is overwritten. y must not share memory with dst.
	Adjoint(dst *mat.VecDense, y mat.Vector)
}

// Mul applies op to x and returns the result in a new vector.
func Mul(op Op, x mat.Vector) *mat.VecDense {
	rows, _ := op.Dims()
	dst := mat.NewVecDense(rows, nil)
	op.Forward(dst, x)
	return dst
}

// MulAdjoint applies the transpose of op to y and returns the result in a
// new vector.
func MulAdjoint(op Op, y mat.Vector) *mat.VecDense {
	_, cols := op.Dims()
	dst := mat.NewVecDense(cols, nil)
	op.Adjoint(dst, y)
	return dst
}

// reuse prepares dst to receive a length n result.
func reuse(dst *mat.VecDense, n int) {
	if dst.IsEmpty() {
		dst.ReuseAsVec(n)
		return
	}
	if dst.Len() != n {
		panic(mat.ErrShape)
	}
}

// checkLen panics unless v has length n.
func checkLen(v mat.Vector, n int) {
	if v.Len() != n {
		panic(mat.ErrShape)
	}
}
