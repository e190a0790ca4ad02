package linop

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ApplyFunc is one side of a matrix free operator. The destination arrives
// sized for the result and must be fully overwritten.
type ApplyFunc func(dst *mat.VecDense, x mat.Vector)

// FuncOp wraps a forward/adjoint function pair as an Op. The wrapper owns
// the shape bookkeeping, the functions own the arithmetic. Nothing enforces
// that adj really is the transpose of fwd; run DotTest on the result before
// trusting it inside a solver.
type FuncOp struct {
	rows, cols int
	fwd, adj   ApplyFunc
}

// NewFuncOp returns the rows x cols operator applying fwd and adj.
func NewFuncOp(rows, cols int, fwd, adj ApplyFunc) *FuncOp {
	if rows <= 0 || cols <= 0 {
		panic(errors.New("operator dimensions must be positive"))
	}
	if fwd == nil || adj == nil {
		panic(errors.New("both a forward and an adjoint function are required"))
	}
	return &FuncOp{rows: rows, cols: cols, fwd: fwd, adj: adj}
}

func (op *FuncOp) Dims() (rows, cols int) { return op.rows, op.cols }

func (op *FuncOp) Forward(dst *mat.VecDense, x mat.Vector) {
	checkLen(x, op.cols)
	reuse(dst, op.rows)
	op.fwd(dst, x)
}

func (op *FuncOp) Adjoint(dst *mat.VecDense, y mat.Vector) {
	checkLen(y, op.rows)
	reuse(dst, op.cols)
	op.adj(dst, y)
}
