package linop

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// SumRows collapses a rows x cols image, stored row major, into the length
// cols vector of its column sums
//
//	y[j] = sum_i x[i,j]
//
// The adjoint broadcasts a length cols vector back over every row. Chained
// after a resampling of the image onto a rotated grid this is the classic
// rotate and sum construction of a parallel beam projection.
type SumRows struct {
	rows, cols int
}

// NewSumRows returns the operator summing the rows of a rows x cols image.
func NewSumRows(rows, cols int) *SumRows {
	if rows <= 0 || cols <= 0 {
		panic(errors.New("image dimensions must be positive"))
	}
	return &SumRows{rows: rows, cols: cols}
}

func (op *SumRows) Dims() (rows, cols int) { return op.cols, op.rows * op.cols }

func (op *SumRows) Forward(dst *mat.VecDense, x mat.Vector) {
	checkLen(x, op.rows*op.cols)
	reuse(dst, op.cols)
	dst.Zero()
	for i := 0; i < op.rows; i++ {
		base := i * op.cols
		for j := 0; j < op.cols; j++ {
			dst.SetVec(j, dst.AtVec(j)+x.AtVec(base+j))
		}
	}
}

func (op *SumRows) Adjoint(dst *mat.VecDense, y mat.Vector) {
	checkLen(y, op.cols)
	reuse(dst, op.rows*op.cols)
	for i := 0; i < op.rows; i++ {
		base := i * op.cols
		for j := 0; j < op.cols; j++ {
			dst.SetVec(base+j, y.AtVec(j))
		}
	}
}
