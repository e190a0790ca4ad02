package solve

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/hammal/tomo/linop"
)

// relErr is |got - want| / |want| in the Euclidean norm.
func relErr(want, got mat.Vector) float64 {
	diff := mat.NewVecDense(want.Len(), nil)
	diff.SubVec(got, want)
	return mat.Norm(diff, 2) / mat.Norm(want, 2)
}

func TestSplitBregmanRecoversSparseSignal(t *testing.T) {
	// The classic underdetermined setting: 32 random measurements of a
	// 5-sparse length 64 signal. Least squares smears the energy over all
	// entries; the L1 solve concentrates it back onto the spikes.
	rng := rand.New(rand.NewSource(51))
	const (
		m = 32
		n = 64
	)
	a := randomDense(rng, m, n)
	xtrue := mat.NewVecDense(n, nil)
	for _, sp := range []struct {
		i int
		v float64
	}{{4, 1.5}, {17, -2}, {30, 1}, {41, -1.2}, {55, 2}} {
		xtrue.SetVec(sp.i, sp.v)
	}
	var b mat.VecDense
	b.MulVec(a, xtrue)
	op := linop.NewMatOp(a)

	l2, _, err := CGLS(op, &b, Options{MaxIter: 200, Tol: 1e-10})
	if err != nil {
		t.Fatal(err)
	}
	l1, stats, err := SplitBregman(op, linop.NewIdentity(n), &b, 0.05, BregmanOptions{
		Outer: 100, Inner: 30, Mu: 1,
	})
	if err != nil {
		t.Fatal(err)
	}

	l1Err := relErr(xtrue, l1)
	l2Err := relErr(xtrue, l2)
	if l1Err >= l2Err {
		t.Errorf("L1 recovery (%v) should beat least squares (%v) on a sparse signal", l1Err, l2Err)
	}
	if l1Err > 0.25 {
		t.Errorf("sparse recovery error too large: %v", l1Err)
	}
	if stats.Iterations == 0 || len(stats.Residuals) != stats.Iterations+1 {
		t.Errorf("stats look wrong: %+v", stats)
	}
}

func TestSplitBregmanZeroLambdaIsLeastSquares(t *testing.T) {
	rng := rand.New(rand.NewSource(52))
	a := randomDense(rng, 12, 8)
	b := randomVec(rng, 12)
	op := linop.NewMatOp(a)

	ls, _, err := CGLS(op, b, Options{MaxIter: 300, Tol: 1e-12})
	if err != nil {
		t.Fatal(err)
	}
	// With lambda 0 the shrinkage is the identity and the outer loop is a
	// proximal point iteration converging to the least squares solution; a
	// small Mu makes the contraction fast and the tight Tol keeps the stall
	// detector from stopping while the iterate is still moving.
	sb, _, err := SplitBregman(op, linop.NewIdentity(8), b, 0, BregmanOptions{
		Outer: 100, Inner: 50, Mu: 0.1, Tol: 1e-12,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := relErr(ls, sb); got > 1e-3 {
		t.Errorf("lambda 0 should reduce to least squares, differs by %v", got)
	}
}

func TestSplitBregmanRejectsNegativeLambda(t *testing.T) {
	rng := rand.New(rand.NewSource(53))
	op := linop.NewMatOp(randomDense(rng, 4, 4))
	if _, _, err := SplitBregman(op, linop.NewIdentity(4), mat.NewVecDense(4, nil), -1, BregmanOptions{}); err == nil {
		t.Error("negative lambda should be rejected")
	}
}

func TestSplitBregmanShapePanic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for mismatched regulariser width")
		}
	}()
	rng := rand.New(rand.NewSource(54))
	SplitBregman(linop.NewMatOp(randomDense(rng, 4, 4)), linop.NewIdentity(5),
		mat.NewVecDense(4, nil), 1, BregmanOptions{})
}

func TestSplitBregmanCallback(t *testing.T) {
	rng := rand.New(rand.NewSource(55))
	a := randomDense(rng, 8, 6)
	b := randomVec(rng, 8)
	var calls int
	_, stats, err := SplitBregman(linop.NewMatOp(a), linop.NewIdentity(6), b, 0.1, BregmanOptions{
		Outer: 15, Inner: 20,
		Callback: func(iter int, resid float64) { calls++ },
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != stats.Iterations {
		t.Errorf("callback fired %d times for %d outer iterations", calls, stats.Iterations)
	}
}
