package linop

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Point is a fractional sample position in image coordinates. Row counts
// down from the top edge, Col right from the left edge, so the pixel at
// index (i, j) sits at Point{Row: i, Col: j}.
type Point struct {
	Row, Col float64
}

// Bilinear samples a rows x cols image, stored row major, at a fixed list
// of fractional positions using bilinear interpolation. Each sample is a
// weighted sum of at most four pixels, so the operator is linear and the
// exact transpose is known: the adjoint spreads each sample value back onto
// the same four pixels with the same weights. Positions outside the image
// read as zero.
type Bilinear struct {
	rows, cols int
	st         []stencil
}

// stencil is the four pixel footprint of one sample. Corners that fall
// outside the image keep weight zero.
type stencil struct {
	idx [4]int
	w   [4]float64
}

// NewBilinear returns the operator sampling a rows x cols image at pts.
// The interpolation weights are precomputed, applying the operator touches
// four pixels per sample.
func NewBilinear(rows, cols int, pts []Point) *Bilinear {
	if rows <= 0 || cols <= 0 {
		panic(errors.New("image dimensions must be positive"))
	}
	if len(pts) == 0 {
		panic(errors.New("at least one sample position is required"))
	}
	st := make([]stencil, len(pts))
	for k, p := range pts {
		st[k] = newStencil(rows, cols, p)
	}
	return &Bilinear{rows: rows, cols: cols, st: st}
}

func newStencil(rows, cols int, p Point) stencil {
	var s stencil
	r0 := math.Floor(p.Row)
	c0 := math.Floor(p.Col)
	dr := p.Row - r0
	dc := p.Col - c0
	corners := [4]struct {
		r, c float64
		w    float64
	}{
		{r0, c0, (1 - dr) * (1 - dc)},
		{r0, c0 + 1, (1 - dr) * dc},
		{r0 + 1, c0, dr * (1 - dc)},
		{r0 + 1, c0 + 1, dr * dc},
	}
	for i, cn := range corners {
		r, c := int(cn.r), int(cn.c)
		if r < 0 || r >= rows || c < 0 || c >= cols {
			continue
		}
		s.idx[i] = r*cols + c
		s.w[i] = cn.w
	}
	return s
}

func (op *Bilinear) Dims() (rows, cols int) { return len(op.st), op.rows * op.cols }

func (op *Bilinear) Forward(dst *mat.VecDense, x mat.Vector) {
	checkLen(x, op.rows*op.cols)
	reuse(dst, len(op.st))
	for k := range op.st {
		s := &op.st[k]
		v := s.w[0]*x.AtVec(s.idx[0]) +
			s.w[1]*x.AtVec(s.idx[1]) +
			s.w[2]*x.AtVec(s.idx[2]) +
			s.w[3]*x.AtVec(s.idx[3])
		dst.SetVec(k, v)
	}
}

func (op *Bilinear) Adjoint(dst *mat.VecDense, y mat.Vector) {
	checkLen(y, len(op.st))
	reuse(dst, op.rows*op.cols)
	dst.Zero()
	for k := range op.st {
		v := y.AtVec(k)
		if v == 0 {
			continue
		}
		s := &op.st[k]
		for i := 0; i < 4; i++ {
			if s.w[i] != 0 {
				dst.SetVec(s.idx[i], dst.AtVec(s.idx[i])+s.w[i]*v)
			}
		}
	}
}
