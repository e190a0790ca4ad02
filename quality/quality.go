// Package quality measures how close a reconstructed image is to its
// reference.
package quality

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Report bundles the metrics computed by Compare.
type Report struct {
	MSE    float64
	PSNR   float64
	RelErr float64
	Corr   float64
}

func (r Report) String() string {
	return fmt.Sprintf("mse=%.6g psnr=%.2fdB relerr=%.4g corr=%.4g",
		r.MSE, r.PSNR, r.RelErr, r.Corr)
}

func checkDims(ref, got mat.Matrix) error {
	rr, rc := ref.Dims()
	gr, gc := got.Dims()
	if rr != gr || rc != gc {
		return fmt.Errorf("quality: dimension mismatch: reference is %dx%d, reconstruction is %dx%d", rr, rc, gr, gc)
	}
	if rr == 0 || rc == 0 {
		return fmt.Errorf("quality: cannot compare empty %dx%d images", rr, rc)
	}
	return nil
}

func flatten(m mat.Matrix) []float64 {
	r, c := m.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out = append(out, m.At(i, j))
		}
	}
	return out
}

// MSE returns the mean squared error between the two images.
func MSE(ref, got mat.Matrix) (float64, error) {
	if err := checkDims(ref, got); err != nil {
		return 0, err
	}
	fr, fg := flatten(ref), flatten(got)
	d := floats.Distance(fr, fg, 2)
	return d * d / float64(len(fr)), nil
}

// PSNR returns the peak signal to noise ratio in decibels, with the peak
// taken as the maximum value of the reference image. A perfect
// reconstruction yields +Inf.
func PSNR(ref, got mat.Matrix) (float64, error) {
	mse, err := MSE(ref, got)
	if err != nil {
		return 0, err
	}
	if mse == 0 {
		return math.Inf(1), nil
	}
	peak := floats.Max(flatten(ref))
	return 10 * math.Log10(peak*peak/mse), nil
}

// RelErr returns the norm of the difference divided by the norm of the
// reference.
func RelErr(ref, got mat.Matrix) (float64, error) {
	if err := checkDims(ref, got); err != nil {
		return 0, err
	}
	fr, fg := flatten(ref), flatten(got)
	return floats.Distance(fr, fg, 2) / floats.Norm(fr, 2), nil
}

// Corr returns the Pearson correlation between the two images. It is NaN
// when either image is constant.
func Corr(ref, got mat.Matrix) (float64, error) {
	if err := checkDims(ref, got); err != nil {
		return 0, err
	}
	return stat.Correlation(flatten(ref), flatten(got), nil), nil
}

// Compare computes all metrics of the Report in one pass over the pair.
func Compare(ref, got mat.Matrix) (Report, error) {
	if err := checkDims(ref, got); err != nil {
		return Report{}, err
	}
	fr, fg := flatten(ref), flatten(got)
	d := floats.Distance(fr, fg, 2)
	mse := d * d / float64(len(fr))
	psnr := math.Inf(1)
	if mse > 0 {
		peak := floats.Max(fr)
		psnr = 10 * math.Log10(peak*peak/mse)
	}
	return Report{
		MSE:    mse,
		PSNR:   psnr,
		RelErr: d / floats.Norm(fr, 2),
		Corr:   stat.Correlation(fr, fg, nil),
	}, nil
}
