package gonumext

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestFullAndOnes(t *testing.T) {
	a := Full(2, 3, 7)
	if r, c := a.Dims(); r != 2 || c != 3 {
		t.Fatalf("wrong shape %dx%d", r, c)
	}
	if a.At(1, 2) != 7 {
		t.Error("Full did not fill")
	}
	if Ones(2, 2).At(0, 1) != 1 {
		t.Error("Ones did not fill with ones")
	}
}

func TestVectorizeReshapeRoundTrip(t *testing.T) {
	a := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	v := Vectorize(a)
	want := mat.NewVecDense(6, []float64{1, 2, 3, 4, 5, 6})
	if !mat.EqualApprox(want, v, 0) {
		t.Errorf("row major order broken: %v", mat.Formatted(v))
	}
	b := Reshape(v, 2, 3)
	if !mat.EqualApprox(a, b, 0) {
		t.Error("Reshape does not invert Vectorize")
	}
}

func TestReshapeShapePanic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for mismatched sizes")
		}
	}()
	Reshape(mat.NewVecDense(5, nil), 2, 3)
}

func TestMinMax(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{3, -1, 0, 9})
	min, max := MinMax(a)
	if min != -1 || max != 9 {
		t.Errorf("got (%v, %v) want (-1, 9)", min, max)
	}
}

func TestHasNaNOrInf(t *testing.T) {
	ok := mat.NewVecDense(3, []float64{1, 2, 3})
	if HasNaNOrInf(ok) {
		t.Error("clean vector flagged")
	}
	bad := mat.NewVecDense(3, []float64{1, math.NaN(), 3})
	if !HasNaNOrInf(bad) {
		t.Error("NaN not detected")
	}
	inf := mat.NewDense(1, 2, []float64{1, math.Inf(-1)})
	if !HasNaNOrInf(inf) {
		t.Error("Inf not detected")
	}
}
