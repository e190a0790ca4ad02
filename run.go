package tomo

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/hammal/tomo/gonumext"
	"github.com/hammal/tomo/imgio"
	"github.com/hammal/tomo/linop"
	"github.com/hammal/tomo/phantom"
	"github.com/hammal/tomo/quality"
	"github.com/hammal/tomo/radon"
	"github.com/hammal/tomo/solve"
)

// Run executes the experiment: render the modified Shepp-Logan phantom,
// project it, corrupt the sinogram as requested and reconstruct.
//
// When an iterative method exhausts its budget the partial reconstruction
// is still returned, together with solve.ErrMaxIterations. Every other
// error leaves the result nil.
func Run(e Experiment) (*Result, error) {
	if e.Size < 2 {
		return nil, fmt.Errorf("tomo: phantom size %d is too small", e.Size)
	}
	if e.Angles < 1 {
		return nil, fmt.Errorf("tomo: need at least one projection angle, got %d", e.Angles)
	}
	if e.Margin < 0 || 2*e.Margin >= e.Size {
		return nil, fmt.Errorf("tomo: margin %d does not fit a size %d image", e.Margin, e.Size)
	}
	if e.Noise < 0 {
		return nil, fmt.Errorf("tomo: noise level %v must not be negative", e.Noise)
	}
	keep := e.Keep
	if keep == 0 {
		keep = 1
	}
	if keep < 0 || keep > 1 {
		return nil, fmt.Errorf("tomo: keep fraction %v outside (0, 1]", e.Keep)
	}

	img := phantom.Modified(e.Size)
	proj := radon.NewProjector(e.Size, e.Margin, Angles(e.Angles, 0, math.Pi))
	sino := linop.Mul(proj, gonumext.Vectorize(img))

	rng := rand.New(rand.NewSource(e.Seed))
	if e.Noise > 0 {
		sino = imgio.AddNoise(sino, e.Noise, rng)
	}
	res := &Result{Phantom: img, Sino: sino}

	// The solver sees the restricted system when samples are dropped.
	var meas linop.Op = proj
	var b mat.Vector = sino
	if keep < 1 {
		rows, _ := proj.Dims()
		res.Kept = SampleIndices(rows, keep, rng)
		restrict := linop.NewRestrict(rows, res.Kept)
		meas = linop.NewChain(restrict, proj)
		b = linop.Mul(restrict, sino)
	}

	var (
		x     *mat.VecDense
		stats solve.Stats
		err   error
	)
	switch e.Method {
	case FBP:
		if keep < 1 {
			return nil, errors.New("tomo: filtered backprojection needs the full sinogram, use an iterative method when subsampling")
		}
		res.Recon, err = radon.FBP(proj, sino, e.Filter)
		if err != nil {
			return nil, err
		}
	case CG:
		x, stats, err = solve.CG(meas, b, e.Solver)
	case CGLS:
		x, stats, err = solve.CGLS(meas, b, e.Solver)
	case SplitBregman:
		levels := e.Levels
		if levels == 0 {
			levels = 2
		}
		if levels < 0 || e.Size%(1<<uint(levels)) != 0 {
			return nil, fmt.Errorf("tomo: size %d does not support %d wavelet levels", e.Size, levels)
		}
		w := linop.NewWavelet2D(e.Size, levels, e.Wavelet)
		x, stats, err = solve.SplitBregman(meas, w, b, e.Lambda, e.Bregman)
	default:
		return nil, fmt.Errorf("tomo: unknown method %v", e.Method)
	}
	if err != nil && !errors.Is(err, solve.ErrMaxIterations) {
		return nil, err
	}
	if x != nil {
		res.Recon = gonumext.Reshape(x, e.Size, e.Size)
	}
	res.Stats = stats

	rep, cmpErr := quality.Compare(img, res.Recon)
	if cmpErr != nil {
		return nil, cmpErr
	}
	res.Report = rep
	return res, err
}
