package linop

import (
	"errors"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// VStack stacks operators sharing a common domain on top of each other,
//
//	    [ A0 ]
//	y = [ A1 ] x
//	    [ .. ]
//
// Forward evaluates every block in its own goroutine, each writing its own
// slice of the destination. The adjoint is the sum of the block adjoints.
type VStack struct {
	ops  []Op
	off  []int
	cols int
}

// NewVStack stacks ops vertically. All operators must agree on the number
// of columns.
func NewVStack(ops ...Op) *VStack {
	if len(ops) == 0 {
		panic(errors.New("a stack needs at least one operator"))
	}
	_, cols := ops[0].Dims()
	off := make([]int, len(ops)+1)
	for i, op := range ops {
		r, c := op.Dims()
		if c != cols {
			panic(mat.ErrShape)
		}
		off[i+1] = off[i] + r
	}
	list := make([]Op, len(ops))
	copy(list, ops)
	return &VStack{ops: list, off: off, cols: cols}
}

func (st *VStack) Dims() (rows, cols int) { return st.off[len(st.ops)], st.cols }

func (st *VStack) Forward(dst *mat.VecDense, x mat.Vector) {
	checkLen(x, st.cols)
	rows, _ := st.Dims()
	reuse(dst, rows)
	var wg sync.WaitGroup
	wg.Add(len(st.ops))
	for i, op := range st.ops {
		go func(i int, op Op) {
			defer wg.Done()
			seg := dst.SliceVec(st.off[i], st.off[i+1]).(*mat.VecDense)
			op.Forward(seg, x)
		}(i, op)
	}
	wg.Wait()
}

func (st *VStack) Adjoint(dst *mat.VecDense, y mat.Vector) {
	rows, _ := st.Dims()
	checkLen(y, rows)
	reuse(dst, st.cols)
	parts := make([]*mat.VecDense, len(st.ops))
	var wg sync.WaitGroup
	wg.Add(len(st.ops))
	for i, op := range st.ops {
		go func(i int, op Op) {
			defer wg.Done()
			lo, hi := st.off[i], st.off[i+1]
			seg := mat.NewVecDense(hi-lo, nil)
			for k := 0; k < hi-lo; k++ {
				seg.SetVec(k, y.AtVec(lo+k))
			}
			parts[i] = MulAdjoint(op, seg)
		}(i, op)
	}
	wg.Wait()
	dst.Zero()
	for _, p := range parts {
		dst.AddVec(dst, p)
	}
}

// Chain composes operators left to right,
//
//	y = A0 A1 ... Ak x
//
// so the rightmost operator is applied first, like matrix multiplication
// reads. The adjoint applies the transposed factors in reverse order.
type Chain struct {
	ops        []Op
	rows, cols int
}

// NewChain composes ops. Adjacent operators must have matching inner
// dimensions.
func NewChain(ops ...Op) *Chain {
	if len(ops) == 0 {
		panic(errors.New("a chain needs at least one operator"))
	}
	for i := 0; i < len(ops)-1; i++ {
		_, c := ops[i].Dims()
		r, _ := ops[i+1].Dims()
		if c != r {
			panic(mat.ErrShape)
		}
	}
	rows, _ := ops[0].Dims()
	_, cols := ops[len(ops)-1].Dims()
	list := make([]Op, len(ops))
	copy(list, ops)
	return &Chain{ops: list, rows: rows, cols: cols}
}

func (ch *Chain) Dims() (rows, cols int) { return ch.rows, ch.cols }

func (ch *Chain) Forward(dst *mat.VecDense, x mat.Vector) {
	checkLen(x, ch.cols)
	reuse(dst, ch.rows)
	cur := x
	for i := len(ch.ops) - 1; i > 0; i-- {
		next := new(mat.VecDense)
		ch.ops[i].Forward(next, cur)
		cur = next
	}
	ch.ops[0].Forward(dst, cur)
}

func (ch *Chain) Adjoint(dst *mat.VecDense, y mat.Vector) {
	checkLen(y, ch.rows)
	reuse(dst, ch.cols)
	cur := y
	for i := 0; i < len(ch.ops)-1; i++ {
		next := new(mat.VecDense)
		ch.ops[i].Adjoint(next, cur)
		cur = next
	}
	ch.ops[len(ch.ops)-1].Adjoint(dst, cur)
}
