// Package imgio moves images between files and gonum matrices.
package imgio

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"

	_ "image/jpeg"

	"gonum.org/v1/gonum/mat"

	"github.com/hammal/tomo/gonumext"
)

// Load decodes a PNG or JPEG file, converts it to grayscale and returns it
// as a matrix with values in [0, 1]. Row indices follow image rows.
func Load(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imgio: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("imgio: decode %s: %w", path, err)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	m := mat.NewDense(h, w, nil)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g := color.Gray16Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray16)
			m.Set(y, x, float64(g.Y)/65535)
		}
	}
	return m, nil
}

// Save writes the matrix as a 16-bit grayscale PNG, linearly rescaled so
// that the smallest value maps to black and the largest to white. A
// constant matrix is written as all black.
func Save(path string, m *mat.Dense) error {
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return errors.New("imgio: cannot save an empty matrix")
	}
	lo, hi := gonumext.MinMax(m)
	scale := 0.0
	if hi > lo {
		scale = 1 / (hi - lo)
	}
	img := image.NewGray16(image.Rect(0, 0, c, r))
	for y := 0; y < r; y++ {
		for x := 0; x < c; x++ {
			v := (m.At(y, x) - lo) * scale
			img.SetGray16(x, y, color.Gray16{Y: uint16(v * 65535)})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imgio: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("imgio: encode %s: %w", path, err)
	}
	return f.Close()
}

// AddNoise returns a copy of y with zero-mean Gaussian noise of standard
// deviation sigma added to every element. A nil rng falls back to a fixed
// seed so that demos are repeatable.
func AddNoise(y mat.Vector, sigma float64, rng *rand.Rand) *mat.VecDense {
	if sigma < 0 {
		panic(errors.New("imgio: noise level must not be negative"))
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	out := mat.NewVecDense(y.Len(), nil)
	for i := 0; i < y.Len(); i++ {
		out.SetVec(i, y.AtVec(i)+sigma*rng.NormFloat64())
	}
	return out
}
