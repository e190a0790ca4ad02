package tomo

import (
	"errors"
	"math"
	"math/rand"
	"sort"
)

// Angles returns n projection angles evenly spaced over [lo, hi), in
// radians. A half revolution, Angles(n, 0, math.Pi), covers a parallel
// beam scan without repeating any line.
func Angles(n int, lo, hi float64) []float64 {
	if n < 1 {
		panic(errors.New("tomo: need at least one angle"))
	}
	step := (hi - lo) / float64(n)
	thetas := make([]float64, n)
	for i := range thetas {
		thetas[i] = lo + float64(i)*step
	}
	return thetas
}

// SampleIndices draws a sorted random subset holding about frac of the
// indices 0..n-1, at least one. A nil rng falls back to a fixed seed.
func SampleIndices(n int, frac float64, rng *rand.Rand) []int {
	if n < 1 {
		panic(errors.New("tomo: cannot sample from an empty index range"))
	}
	if frac <= 0 || frac > 1 {
		panic(errors.New("tomo: sampling fraction outside (0, 1]"))
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	k := int(math.Round(frac * float64(n)))
	if k < 1 {
		k = 1
	}
	idx := rng.Perm(n)[:k]
	sort.Ints(idx)
	return idx
}
