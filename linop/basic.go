package linop

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// Identity is the n x n identity operator.
type Identity struct {
	n int
}

// NewIdentity returns the identity on length n vectors.
func NewIdentity(n int) *Identity {
	if n <= 0 {
		panic(errors.New("identity size must be positive"))
	}
	return &Identity{n: n}
}

func (op *Identity) Dims() (rows, cols int) { return op.n, op.n }

func (op *Identity) Forward(dst *mat.VecDense, x mat.Vector) {
	checkLen(x, op.n)
	reuse(dst, op.n)
	dst.CopyVec(x)
}

func (op *Identity) Adjoint(dst *mat.VecDense, y mat.Vector) {
	op.Forward(dst, y)
}

// Scaled is alpha A for an operator A. Its adjoint is alpha A^T.
type Scaled struct {
	alpha float64
	op    Op
}

// NewScaled returns alpha A.
func NewScaled(alpha float64, op Op) *Scaled {
	return &Scaled{alpha: alpha, op: op}
}

func (s *Scaled) Dims() (rows, cols int) { return s.op.Dims() }

func (s *Scaled) Forward(dst *mat.VecDense, x mat.Vector) {
	s.op.Forward(dst, x)
	dst.ScaleVec(s.alpha, dst)
}

func (s *Scaled) Adjoint(dst *mat.VecDense, y mat.Vector) {
	s.op.Adjoint(dst, y)
	dst.ScaleVec(s.alpha, dst)
}

// Diag multiplies elementwise by a fixed vector, the matrix diag(d).
type Diag struct {
	d *mat.VecDense
}

// NewDiag returns diag(d). The entries of d are copied.
func NewDiag(d mat.Vector) *Diag {
	if d.Len() == 0 {
		panic(errors.New("diagonal must not be empty"))
	}
	v := mat.NewVecDense(d.Len(), nil)
	v.CopyVec(d)
	return &Diag{d: v}
}

func (op *Diag) Dims() (rows, cols int) { n := op.d.Len(); return n, n }

func (op *Diag) Forward(dst *mat.VecDense, x mat.Vector) {
	checkLen(x, op.d.Len())
	reuse(dst, op.d.Len())
	dst.MulElemVec(op.d, x)
}

// Adjoint equals Forward, a real diagonal matrix is symmetric.
func (op *Diag) Adjoint(dst *mat.VecDense, y mat.Vector) {
	op.Forward(dst, y)
}

// Restrict keeps a fixed subset of vector entries. Forward selects, the
// adjoint scatters the kept values back into an otherwise zero vector. As a
// matrix it is a subset of the rows of the identity, which is how sparse
// sampling of a measurement enters a reconstruction as an operator.
type Restrict struct {
	n   int
	idx []int
}

// NewRestrict returns the operator keeping x[idx[0]], x[idx[1]], ... of a
// length n vector. The indices must be strictly increasing and in range;
// they are copied.
func NewRestrict(n int, idx []int) *Restrict {
	if n <= 0 {
		panic(errors.New("restriction domain must be positive"))
	}
	if len(idx) == 0 {
		panic(errors.New("restriction keeps no entries"))
	}
	prev := -1
	for _, i := range idx {
		if i < 0 || i >= n {
			panic(errors.New("restriction index out of range"))
		}
		if i <= prev {
			panic(errors.New("restriction indices must be strictly increasing"))
		}
		prev = i
	}
	c := make([]int, len(idx))
	copy(c, idx)
	return &Restrict{n: n, idx: c}
}

func (op *Restrict) Dims() (rows, cols int) { return len(op.idx), op.n }

func (op *Restrict) Forward(dst *mat.VecDense, x mat.Vector) {
	checkLen(x, op.n)
	reuse(dst, len(op.idx))
	for k, i := range op.idx {
		dst.SetVec(k, x.AtVec(i))
	}
}

func (op *Restrict) Adjoint(dst *mat.VecDense, y mat.Vector) {
	checkLen(y, len(op.idx))
	reuse(dst, op.n)
	dst.Zero()
	for k, i := range op.idx {
		dst.SetVec(i, y.AtVec(k))
	}
}

// MatOp wraps an explicit gonum matrix as an Op. Mostly useful in tests and
// for small dense systems where forming the matrix is no burden.
type MatOp struct {
	a mat.Matrix
}

// NewMatOp wraps a. The matrix is referenced, not copied.
func NewMatOp(a mat.Matrix) *MatOp {
	if a == nil {
		panic(errors.New("matrix must not be nil"))
	}
	return &MatOp{a: a}
}

func (op *MatOp) Dims() (rows, cols int) { return op.a.Dims() }

func (op *MatOp) Forward(dst *mat.VecDense, x mat.Vector) {
	rows, cols := op.a.Dims()
	checkLen(x, cols)
	reuse(dst, rows)
	dst.MulVec(op.a, x)
}

func (op *MatOp) Adjoint(dst *mat.VecDense, y mat.Vector) {
	rows, cols := op.a.Dims()
	checkLen(y, rows)
	reuse(dst, cols)
	dst.MulVec(op.a.T(), y)
}
