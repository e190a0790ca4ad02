// Package phantom rasterises the synthetic head phantoms used to exercise
// tomographic reconstruction. A phantom is a superposition of ellipses, so
// its exact Radon transform is known in closed form and reconstruction
// error can be attributed to the algorithm rather than the ground truth.
package phantom

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Ellipse is one constituent of a phantom. Geometry lives in the unit
// square [-1,1] x [-1,1] with y pointing up: centre (X, Y), half axes
// (HalfA, HalfB) before rotation and rotation Phi in radians counter
// clockwise. Intensity is added to every pixel whose centre falls inside.
type Ellipse struct {
	Intensity    float64
	HalfA, HalfB float64
	X, Y         float64
	Phi          float64
}

// Ellipses rasterises the superposition of es onto an n x n grid. The pixel
// at row r, column c is evaluated at its centre
//
//	x = (2c - n + 1) / n
//	y = (n - 1 - 2r) / n
//
// so row zero is the top of the image.
func Ellipses(n int, es []Ellipse) *mat.Dense {
	if n <= 0 {
		panic(errors.New("grid size must be positive"))
	}
	img := mat.NewDense(n, n, nil)
	for r := 0; r < n; r++ {
		y := float64(n-1-2*r) / float64(n)
		for c := 0; c < n; c++ {
			x := float64(2*c-n+1) / float64(n)
			var v float64
			for _, e := range es {
				if e.contains(x, y) {
					v += e.Intensity
				}
			}
			img.Set(r, c, v)
		}
	}
	return img
}

func (e Ellipse) contains(x, y float64) bool {
	dx := x - e.X
	dy := y - e.Y
	cos := math.Cos(e.Phi)
	sin := math.Sin(e.Phi)
	u := dx*cos + dy*sin
	v := dy*cos - dx*sin
	return u*u/(e.HalfA*e.HalfA)+v*v/(e.HalfB*e.HalfB) <= 1
}

const deg = math.Pi / 180

// geometry is the classic ten ellipse head arrangement. Only the
// intensities differ between the variants.
var geometry = [10]Ellipse{
	{HalfA: 0.69, HalfB: 0.92},
	{HalfA: 0.6624, HalfB: 0.874, Y: -0.0184},
	{HalfA: 0.11, HalfB: 0.31, X: 0.22, Phi: -18 * deg},
	{HalfA: 0.16, HalfB: 0.41, X: -0.22, Phi: 18 * deg},
	{HalfA: 0.21, HalfB: 0.25, Y: 0.35},
	{HalfA: 0.046, HalfB: 0.046, Y: 0.1},
	{HalfA: 0.046, HalfB: 0.046, Y: -0.1},
	{HalfA: 0.046, HalfB: 0.023, X: -0.08, Y: -0.605},
	{HalfA: 0.023, HalfB: 0.023, Y: -0.606},
	{HalfA: 0.023, HalfB: 0.046, X: 0.06, Y: -0.605},
}

func withIntensities(vals [10]float64) []Ellipse {
	es := make([]Ellipse, len(geometry))
	for i, e := range geometry {
		e.Intensity = vals[i]
		es[i] = e
	}
	return es
}

// SheppLogan returns the original Shepp and Logan head phantom on an n x n
// grid. Its tissue contrasts are faithful to the 1974 paper and therefore
// very low; for display and for conditioning experiments Modified is
// usually the better choice.
func SheppLogan(n int) *mat.Dense {
	return Ellipses(n, withIntensities([10]float64{
		2, -0.98, -0.02, -0.02, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01,
	}))
}

// Modified returns the Toft variant of the Shepp and Logan phantom with
// exaggerated contrasts. All values lie in [0, 1].
func Modified(n int) *mat.Dense {
	return Ellipses(n, withIntensities([10]float64{
		1, -0.8, -0.2, -0.2, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1,
	}))
}
