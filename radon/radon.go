// Package radon implements the parallel beam Radon transform of square
// images and filtered back projection to invert it. The projector is not a
// hand written kernel but a composition of matrix free primitives: resample
// the image on a rotated grid, sum the rows, optionally restrict the
// detector, and stack one such block per view angle. Because every piece
// carries its exact transpose, the whole projector does too, which is what
// lets the iterative solvers in package solve use it directly.
package radon

import (
	"errors"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/hammal/tomo/linop"
)

// Projector is the parallel beam Radon transform of an n x n image at a
// fixed list of view angles. Forward maps the flattened image to the
// flattened sinogram, stored row major with one length Bins() projection
// per angle. Adjoint is exact, unfiltered back projection.
type Projector struct {
	op     linop.Op
	n      int
	margin int
	thetas []float64
}

// NewProjector builds the projector for n x n images viewed at thetas
// radians. margin trims that many detector bins from both ends of every
// projection, which models a detector narrower than the image diagonal;
// zero keeps all n bins. The per angle interpolation stencils are
// precomputed concurrently, one goroutine per view.
func NewProjector(n, margin int, thetas []float64) *Projector {
	if n <= 1 {
		panic(errors.New("image size must be at least 2"))
	}
	if len(thetas) == 0 {
		panic(errors.New("at least one view angle is required"))
	}
	if margin < 0 || 2*margin >= n {
		panic(errors.New("margin leaves no detector bins"))
	}
	var keep []int
	if margin > 0 {
		keep = make([]int, 0, n-2*margin)
		for j := margin; j < n-margin; j++ {
			keep = append(keep, j)
		}
	}
	sum := linop.NewSumRows(n, n)
	blocks := make([]linop.Op, len(thetas))
	var wg sync.WaitGroup
	wg.Add(len(thetas))
	for i, th := range thetas {
		go func(i int, th float64) {
			defer wg.Done()
			rot := linop.NewBilinear(n, n, rotatedGrid(n, th))
			if margin > 0 {
				blocks[i] = linop.NewChain(linop.NewRestrict(n, keep), sum, rot)
			} else {
				blocks[i] = linop.NewChain(sum, rot)
			}
		}(i, th)
	}
	wg.Wait()
	angles := make([]float64, len(thetas))
	copy(angles, thetas)
	return &Projector{
		op:     linop.NewVStack(blocks...),
		n:      n,
		margin: margin,
		thetas: angles,
	}
}

// rotatedGrid returns the sample positions that rotate an n x n image by
// theta about its centre. Pixel (i, j) of the rotated image reads the
// source at the inverse rotation of its own centred coordinates; positions
// leaving the square read as zero through the interpolation.
func rotatedGrid(n int, theta float64) []linop.Point {
	m := float64(n-1) / 2
	c, s := math.Cos(theta), math.Sin(theta)
	pts := make([]linop.Point, 0, n*n)
	for i := 0; i < n; i++ {
		v := float64(i) - m
		for j := 0; j < n; j++ {
			u := float64(j) - m
			pts = append(pts, linop.Point{
				Row: m - u*s + v*c,
				Col: m + u*c + v*s,
			})
		}
	}
	return pts
}

func (p *Projector) Dims() (rows, cols int) { return p.op.Dims() }

func (p *Projector) Forward(dst *mat.VecDense, x mat.Vector) { p.op.Forward(dst, x) }

func (p *Projector) Adjoint(dst *mat.VecDense, y mat.Vector) { p.op.Adjoint(dst, y) }

// Size returns the image side length n.
func (p *Projector) Size() int { return p.n }

// Bins returns the number of detector bins per view, n minus the trimmed
// margins.
func (p *Projector) Bins() int { return p.n - 2*p.margin }

// Angles returns a copy of the view angles in radians.
func (p *Projector) Angles() []float64 {
	out := make([]float64, len(p.thetas))
	copy(out, p.thetas)
	return out
}
