package solve

import (
	"errors"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/hammal/tomo/linop"
)

func randomDense(rng *rand.Rand, r, c int) *mat.Dense {
	a := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			a.Set(i, j, rng.NormFloat64())
		}
	}
	return a
}

func randomVec(rng *rand.Rand, n int) *mat.VecDense {
	v := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		v.SetVec(i, rng.NormFloat64())
	}
	return v
}

func TestCGRecoversConsistentSystem(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	a := randomDense(rng, 12, 8)
	xtrue := randomVec(rng, 8)
	var b mat.VecDense
	b.MulVec(a, xtrue)

	x, stats, err := CG(linop.NewMatOp(a), &b, Options{MaxIter: 200, Tol: 1e-12})
	if err != nil {
		t.Fatalf("CG did not converge: %v", err)
	}
	if !mat.EqualApprox(xtrue, x, 1e-6) {
		t.Errorf("wrong solution:\ngot  %v\nwant %v", mat.Formatted(x.T()), mat.Formatted(xtrue.T()))
	}
	if stats.Iterations == 0 || len(stats.Residuals) != stats.Iterations+1 {
		t.Errorf("stats look wrong: %+v", stats)
	}
	if last := stats.Residuals[len(stats.Residuals)-1]; last > stats.Residuals[0] {
		t.Errorf("residual grew from %v to %v", stats.Residuals[0], last)
	}
}

func TestCGDampingShrinksSolution(t *testing.T) {
	rng := rand.New(rand.NewSource(32))
	a := randomDense(rng, 10, 6)
	b := randomVec(rng, 10)
	op := linop.NewMatOp(a)

	plain, _, err := CG(op, b, Options{MaxIter: 300, Tol: 1e-12})
	if err != nil {
		t.Fatal(err)
	}
	damped, _, err := CG(op, b, Options{MaxIter: 300, Tol: 1e-12, Damp: 10})
	if err != nil {
		t.Fatal(err)
	}
	if mat.Norm(damped, 2) >= mat.Norm(plain, 2) {
		t.Errorf("damping did not shrink the solution: %v >= %v",
			mat.Norm(damped, 2), mat.Norm(plain, 2))
	}
}

func TestCGZeroRightHandSide(t *testing.T) {
	rng := rand.New(rand.NewSource(33))
	op := linop.NewMatOp(randomDense(rng, 5, 5))
	x, stats, err := CG(op, mat.NewVecDense(5, nil), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if mat.Norm(x, 2) != 0 || stats.Iterations != 0 {
		t.Errorf("zero rhs should return immediately with x = 0, got %v after %d iterations",
			mat.Formatted(x.T()), stats.Iterations)
	}
}

func TestCGMaxIterations(t *testing.T) {
	rng := rand.New(rand.NewSource(34))
	a := randomDense(rng, 12, 8)
	b := randomVec(rng, 12)
	_, stats, err := CG(linop.NewMatOp(a), b, Options{MaxIter: 1, Tol: 1e-14})
	if !errors.Is(err, ErrMaxIterations) {
		t.Fatalf("want ErrMaxIterations, got %v", err)
	}
	if stats.Iterations != 1 {
		t.Errorf("should have stopped after 1 iteration, did %d", stats.Iterations)
	}
}

func TestCGCallbackSeesEveryIteration(t *testing.T) {
	rng := rand.New(rand.NewSource(35))
	a := randomDense(rng, 9, 5)
	b := randomVec(rng, 9)
	var calls int
	_, stats, err := CG(linop.NewMatOp(a), b, Options{
		MaxIter: 50, Tol: 1e-10,
		Callback: func(iter int, resid float64) { calls++ },
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != stats.Iterations {
		t.Errorf("callback fired %d times for %d iterations", calls, stats.Iterations)
	}
}

func TestCGRejectsNegativeDamp(t *testing.T) {
	rng := rand.New(rand.NewSource(36))
	op := linop.NewMatOp(randomDense(rng, 4, 4))
	if _, _, err := CG(op, mat.NewVecDense(4, nil), Options{Damp: -1}); err == nil {
		t.Error("negative damping should be rejected")
	}
}

func TestCGShapePanic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for a mismatched right hand side")
		}
	}()
	rng := rand.New(rand.NewSource(37))
	CG(linop.NewMatOp(randomDense(rng, 4, 4)), mat.NewVecDense(5, nil), Options{})
}
