package linop

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestVStackForward(t *testing.T) {
	st := NewVStack(NewIdentity(3), NewScaled(2, NewIdentity(3)))
	x := mat.NewVecDense(3, []float64{1, 2, 3})
	y := Mul(st, x)
	want := mat.NewVecDense(6, []float64{1, 2, 3, 2, 4, 6})
	if !mat.EqualApprox(want, y, 1e-15) {
		t.Errorf("got %v want %v", mat.Formatted(y), mat.Formatted(want))
	}
}

func TestVStackAdjointSumsBlocks(t *testing.T) {
	st := NewVStack(NewIdentity(3), NewScaled(2, NewIdentity(3)))
	y := mat.NewVecDense(6, []float64{1, 1, 1, 1, 1, 1})
	x := MulAdjoint(st, y)
	want := mat.NewVecDense(3, []float64{3, 3, 3})
	if !mat.EqualApprox(want, x, 1e-15) {
		t.Errorf("got %v want %v", mat.Formatted(x), mat.Formatted(want))
	}
}

func TestChainAppliesRightToLeft(t *testing.T) {
	d := NewDiag(mat.NewVecDense(4, []float64{1, 2, 3, 4}))
	r := NewRestrict(4, []int{0, 2})
	// y = R D x: scale first, then keep entries 0 and 2.
	ch := NewChain(r, d)
	x := mat.NewVecDense(4, []float64{1, 1, 1, 1})
	y := Mul(ch, x)
	want := mat.NewVecDense(2, []float64{1, 3})
	if !mat.EqualApprox(want, y, 1e-15) {
		t.Errorf("got %v want %v", mat.Formatted(y), mat.Formatted(want))
	}
	// A^T y = D^T R^T y: scatter, then scale.
	back := MulAdjoint(ch, mat.NewVecDense(2, []float64{1, 1}))
	wantBack := mat.NewVecDense(4, []float64{1, 0, 3, 0})
	if !mat.EqualApprox(wantBack, back, 1e-15) {
		t.Errorf("adjoint: got %v want %v", mat.Formatted(back), mat.Formatted(wantBack))
	}
}

func TestChainSingleOperator(t *testing.T) {
	ch := NewChain(NewScaled(3, NewIdentity(2)))
	x := mat.NewVecDense(2, []float64{1, -1})
	want := mat.NewVecDense(2, []float64{3, -3})
	if y := Mul(ch, x); !mat.EqualApprox(want, y, 1e-15) {
		t.Errorf("got %v want %v", mat.Formatted(y), mat.Formatted(want))
	}
}

func TestVStackSingleBlock(t *testing.T) {
	d := NewDiag(mat.NewVecDense(3, []float64{2, -1, 0.5}))
	st := NewVStack(d)
	x := mat.NewVecDense(3, []float64{1, 2, 3})
	if got, want := Mul(st, x), Mul(d, x); !mat.EqualApprox(want, got, 1e-15) {
		t.Errorf("got %v want %v", mat.Formatted(got), mat.Formatted(want))
	}
	y := mat.NewVecDense(3, []float64{1, 1, 1})
	if got, want := MulAdjoint(st, y), MulAdjoint(d, y); !mat.EqualApprox(want, got, 1e-15) {
		t.Errorf("adjoint: got %v want %v", mat.Formatted(got), mat.Formatted(want))
	}
}

func TestVStackManyBlocks(t *testing.T) {
	// Enough blocks to actually fan out across goroutines.
	ops := make([]Op, 32)
	for i := range ops {
		ops[i] = NewScaled(float64(i+1), NewIdentity(5))
	}
	st := NewVStack(ops...)
	if err := DotTest(st, 3, 1e-10, nil); err != nil {
		t.Error(err)
	}
	x := mat.NewVecDense(5, []float64{1, 0, 0, 0, 0})
	y := Mul(st, x)
	for i := 0; i < 32; i++ {
		if got, want := y.AtVec(5*i), float64(i+1); got != want {
			t.Fatalf("block %d: got %v want %v", i, got, want)
		}
	}
}
