package radon

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/hammal/tomo/linop"
)

func uniformAngles(k int) []float64 {
	th := make([]float64, k)
	for i := range th {
		th[i] = float64(i) * math.Pi / float64(k)
	}
	return th
}

// diskImage returns a flattened n x n image of a centred disk, the unit
// square convention of package phantom.
func diskImage(n int, radius float64) *mat.VecDense {
	v := mat.NewVecDense(n*n, nil)
	for r := 0; r < n; r++ {
		y := float64(n-1-2*r) / float64(n)
		for c := 0; c < n; c++ {
			x := float64(2*c-n+1) / float64(n)
			if x*x+y*y <= radius*radius {
				v.SetVec(r*n+c, 1)
			}
		}
	}
	return v
}

func TestProjectorPassesDotTest(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for _, margin := range []int{0, 2} {
		p := NewProjector(16, margin, uniformAngles(7))
		if err := linop.DotTest(p, 5, 1e-10, rng); err != nil {
			t.Errorf("margin %d: %v", margin, err)
		}
	}
}

func TestProjectorDims(t *testing.T) {
	p := NewProjector(16, 2, uniformAngles(7))
	rows, cols := p.Dims()
	if rows != 7*12 || cols != 256 {
		t.Errorf("got %dx%d want %dx%d", rows, cols, 7*12, 256)
	}
	if p.Bins() != 12 || p.Size() != 16 {
		t.Errorf("Bins()=%d Size()=%d", p.Bins(), p.Size())
	}
	if len(p.Angles()) != 7 {
		t.Errorf("lost angles: %d", len(p.Angles()))
	}
}

func TestProjectionsOfDiskAreRotationInvariant(t *testing.T) {
	const n = 64
	thetas := []float64{0, math.Pi / 7, math.Pi / 4, 2 * math.Pi / 3}
	p := NewProjector(n, 0, thetas)
	sino := linop.Mul(p, diskImage(n, 0.5))
	ref := make([]float64, n)
	got := make([]float64, n)
	for j := 0; j < n; j++ {
		ref[j] = sino.AtVec(j)
	}
	refNorm := floats.Norm(ref, 2)
	for a := 1; a < len(thetas); a++ {
		for j := 0; j < n; j++ {
			got[j] = sino.AtVec(a*n + j)
		}
		floats.Sub(got, ref)
		if rel := floats.Norm(got, 2) / refNorm; rel > 0.05 {
			t.Errorf("view %d deviates from view 0 by %v", a, rel)
		}
	}
}

func TestProjectionPreservesMass(t *testing.T) {
	const n = 64
	x := diskImage(n, 0.5)
	mass := floats.Sum(x.RawVector().Data)
	p := NewProjector(n, 0, uniformAngles(5))
	sino := linop.Mul(p, x)
	for a := 0; a < 5; a++ {
		var got float64
		for j := 0; j < n; j++ {
			got += sino.AtVec(a*n + j)
		}
		if rel := math.Abs(got-mass) / mass; rel > 0.02 {
			t.Errorf("view %d: mass off by %v", a, rel)
		}
	}
}

func TestNaiveFailsWhereComposedPasses(t *testing.T) {
	const n = 32
	thetas := uniformAngles(12)
	rng := rand.New(rand.NewSource(9))

	err := linop.DotTest(Naive(n, thetas), 3, 1e-3, rng)
	if err == nil {
		t.Fatal("the naive pair should fail the dot product test")
	}
	if !errors.Is(err, linop.ErrNotAdjoint) {
		t.Errorf("want ErrNotAdjoint, got %v", err)
	}

	if err := linop.DotTest(NewProjector(n, 0, thetas), 3, 1e-10, rng); err != nil {
		t.Errorf("the composed projector at the same size should pass: %v", err)
	}
}

func TestProjectorValidation(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for an all margin projector")
		}
	}()
	NewProjector(8, 4, uniformAngles(3))
}

func BenchmarkProjectorForward(b *testing.B) {
	const n = 64
	p := NewProjector(n, 0, uniformAngles(45))
	x := diskImage(n, 0.5)
	var dst mat.VecDense
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Forward(&dst, x)
	}
}
