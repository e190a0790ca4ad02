package radon

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"

	"github.com/hammal/tomo/gonumext"
)

// Filter selects the reconstruction filter of FBP. All of them share the
// ramp |f| response that undoes the 1/|f| blur of back projection; the
// windowed variants trade resolution for noise suppression by rolling off
// the high frequencies.
type Filter int

const (
	// RamLak is the plain ramp, sharpest and noisiest.
	RamLak Filter = iota
	// SheppLogan multiplies the ramp by a sinc.
	SheppLogan
	// Cosine multiplies the ramp by a cosine.
	Cosine
	// Hann multiplies the ramp by a Hann window, the smoothest of the set.
	Hann
)

func (f Filter) String() string {
	switch f {
	case RamLak:
		return "ramlak"
	case SheppLogan:
		return "shepp-logan"
	case Cosine:
		return "cosine"
	case Hann:
		return "hann"
	}
	return fmt.Sprintf("Filter(%d)", int(f))
}

// ParseFilter maps a command line name to a Filter.
func ParseFilter(s string) (Filter, error) {
	for _, f := range []Filter{RamLak, SheppLogan, Cosine, Hann} {
		if s == f.String() {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown filter %q (want ramlak, shepp-logan, cosine or hann)", s)
}

// FBP reconstructs an image from a sinogram by filtered back projection:
// every projection is convolved with the band limited ramp kernel in the
// Fourier domain, back projected through the exact adjoint of p, and scaled
// by pi/(2 n_angles). The sinogram must have the projector's full length;
// for undersampled data use the iterative solvers instead.
func FBP(p *Projector, sino mat.Vector, filter Filter) (*mat.Dense, error) {
	rows, _ := p.Dims()
	if sino.Len() != rows {
		return nil, fmt.Errorf("sinogram has length %d, projector produces %d", sino.Len(), rows)
	}
	if filter < RamLak || filter > Hann {
		return nil, fmt.Errorf("unknown filter %v", filter)
	}
	nd := p.Bins()
	size := padSize(nd)
	gains := filterGains(size, filter)
	fft := fourier.NewFFT(size)
	buf := make([]float64, size)
	coef := make([]complex128, size/2+1)
	inv := 1 / float64(size)

	filtered := mat.NewVecDense(rows, nil)
	for a := 0; a < len(p.thetas); a++ {
		for k := range buf {
			buf[k] = 0
		}
		for j := 0; j < nd; j++ {
			buf[j] = sino.AtVec(a*nd + j)
		}
		fft.Coefficients(coef, buf)
		for k := range coef {
			coef[k] *= complex(gains[k], 0)
		}
		fft.Sequence(buf, coef)
		for j := 0; j < nd; j++ {
			filtered.SetVec(a*nd+j, buf[j]*inv)
		}
	}

	var back mat.VecDense
	p.Adjoint(&back, filtered)
	back.ScaleVec(math.Pi/(2*float64(len(p.thetas))), &back)
	return gonumext.Reshape(&back, p.n, p.n), nil
}

// padSize returns the transform length for nd detector bins: the next power
// of two of at least twice the projection, and no less than 64, so the
// circular convolution cannot wrap into the data.
func padSize(nd int) int {
	size := 64
	for size < 2*nd {
		size *= 2
	}
	return size
}

// filterGains returns the frequency response of the chosen filter on the
// size/2+1 real FFT bins of a length size transform.
func filterGains(size int, f Filter) []float64 {
	g := rampGains(size)
	switch f {
	case RamLak:
	case SheppLogan:
		for k := 1; k < len(g); k++ {
			w := math.Pi * float64(k) / float64(size)
			g[k] *= math.Sin(w) / w
		}
	case Cosine:
		for k := 1; k < len(g); k++ {
			g[k] *= math.Cos(math.Pi * float64(k) / float64(size))
		}
	case Hann:
		for k := 1; k < len(g); k++ {
			g[k] *= 0.5 * (1 + math.Cos(2*math.Pi*float64(k)/float64(size)))
		}
	}
	return g
}

// rampGains is the band limited ramp. Sampling |f| directly underweights
// the lowest bin and biases the reconstruction, so the gains come from
// transforming the exact spatial kernel
//
//	h[0] = 1/4,  h[k] = -1/(pi k)^2 for odd k,  0 otherwise
//
// which is the discrete filter whose response approaches |f| from the
// correct DC value.
func rampGains(size int) []float64 {
	h := make([]float64, size)
	h[0] = 0.25
	for k := 1; k <= size/2; k += 2 {
		v := -1 / (math.Pi * math.Pi * float64(k) * float64(k))
		h[k] = v
		h[size-k] = v
	}
	fft := fourier.NewFFT(size)
	coef := fft.Coefficients(nil, h)
	g := make([]float64, len(coef))
	for k, c := range coef {
		g[k] = 2 * real(c)
	}
	return g
}
