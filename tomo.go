// Package tomo ties phantoms, projection and reconstruction together into
// runnable parallel beam tomography experiments.
package tomo

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/hammal/tomo/linop"
	"github.com/hammal/tomo/quality"
	"github.com/hammal/tomo/radon"
	"github.com/hammal/tomo/solve"
)

// Method selects the reconstruction algorithm of an Experiment.
type Method int

const (
	// FBP is filtered backprojection. It is direct and fast but needs the
	// full sinogram.
	FBP Method = iota
	// CG runs conjugate gradients on the normal equations.
	CG
	// CGLS runs conjugate gradients for least squares.
	CGLS
	// SplitBregman solves a wavelet sparse L1 regularized problem.
	SplitBregman
)

func (m Method) String() string {
	switch m {
	case FBP:
		return "fbp"
	case CG:
		return "cg"
	case CGLS:
		return "cgls"
	case SplitBregman:
		return "split-bregman"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod maps a command line name to a Method. Both "sb" and
// "split-bregman" name the Split-Bregman solver.
func ParseMethod(s string) (Method, error) {
	if s == "sb" {
		return SplitBregman, nil
	}
	for _, m := range []Method{FBP, CG, CGLS, SplitBregman} {
		if s == m.String() {
			return m, nil
		}
	}
	return 0, fmt.Errorf("tomo: unknown method %q (want fbp, cg, cgls or sb)", s)
}

// Experiment describes one synthetic scan and its reconstruction.
//
// The zero value is not runnable. Size and Angles must be set; everything
// else has a usable zero: no margin, no noise, the full sinogram, filtered
// backprojection with the plain ramp, default solver budgets.
type Experiment struct {
	// Size is the phantom side length in pixels.
	Size int
	// Angles is the number of projection angles, spread evenly over [0, pi).
	Angles int
	// Margin is the number of detector rows trimmed from each edge of the
	// rotated image before summation.
	Margin int
	// Noise is the standard deviation of the Gaussian noise added to the
	// sinogram. Zero adds none.
	Noise float64
	// Keep is the fraction of sinogram samples handed to the solver, for
	// sparse view experiments. It must lie in (0, 1]; zero means keep all.
	Keep float64
	// Seed feeds the noise and subsampling generator.
	Seed int64

	// Method selects the reconstruction algorithm.
	Method Method
	// Filter is the FBP filter window.
	Filter radon.Filter
	// Solver configures CG and CGLS.
	Solver solve.Options
	// Lambda weights the sparsity term of Split-Bregman.
	Lambda float64
	// Bregman configures the Split-Bregman loops.
	Bregman solve.BregmanOptions
	// Wavelet and Levels select the Split-Bregman sparsifying transform.
	// Levels zero means two decomposition levels.
	Wavelet linop.Wave
	Levels  int
}

// Result holds everything an Experiment produced.
type Result struct {
	// Phantom is the ground truth image.
	Phantom *mat.Dense
	// Sino is the full sinogram after noise, one row per angle when
	// reshaped to Angles x Bins.
	Sino *mat.VecDense
	// Kept lists the sinogram samples the solver saw, sorted. It is nil
	// when the full sinogram was used.
	Kept []int
	// Recon is the reconstructed image.
	Recon *mat.Dense
	// Report compares Recon against Phantom.
	Report quality.Report
	// Stats describes the solver run. It stays empty for FBP.
	Stats solve.Stats
}
