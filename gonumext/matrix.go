// Package gonumext carries the handful of small matrix helpers this module
// keeps reaching for and gonum does not ship.
package gonumext

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Ones returns an m by n matrix filled with ones.
func Ones(m, n int) *mat.Dense {
	return Full(m, n, 1)
}

// Full returns an m by n matrix filled with value.
func Full(m, n int, value float64) *mat.Dense {
	data := make([]float64, m*n)
	for i := range data {
		data[i] = value
	}
	return mat.NewDense(m, n, data)
}

// Vectorize flattens a matrix row major into a fresh vector. Images in this
// module live as square matrices but operators act on flat vectors; this and
// Reshape are the two directions of that correspondence.
func Vectorize(a mat.Matrix) *mat.VecDense {
	m, n := a.Dims()
	v := mat.NewVecDense(m*n, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			v.SetVec(i*n+j, a.At(i, j))
		}
	}
	return v
}

// Reshape folds a length m*n vector back into an m by n matrix, row major.
func Reshape(v mat.Vector, m, n int) *mat.Dense {
	if v.Len() != m*n {
		panic(mat.ErrShape)
	}
	out := mat.NewDense(m, n, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			out.Set(i, j, v.AtVec(i*n+j))
		}
	}
	return out
}

// MinMax returns the smallest and largest element of a.
func MinMax(a mat.Matrix) (min, max float64) {
	m, n := a.Dims()
	min = math.Inf(1)
	max = math.Inf(-1)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			v := a.At(i, j)
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	return min, max
}

// HasNaNOrInf reports whether any element of a is NaN or infinite. Vectors
// are matrices too, so iterative solvers use this as a divergence guard.
func HasNaNOrInf(a mat.Matrix) bool {
	m, n := a.Dims()
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			if v := a.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return true
			}
		}
	}
	return false
}
