package main

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// matGrid adapts a matrix to the heat map grid interface. Row 0 is drawn
// at the top, matching image convention.
type matGrid struct {
	m mat.Matrix
}

func (g matGrid) Dims() (c, r int) {
	r, c = g.m.Dims()
	return c, r
}

func (g matGrid) Z(c, r int) float64 {
	rows, _ := g.m.Dims()
	return g.m.At(rows-1-r, c)
}

func (g matGrid) X(c int) float64 { return float64(c) }

func (g matGrid) Y(r int) float64 { return float64(r) }

// saveHeatMap draws m as a heat map figure.
func saveHeatMap(path, title string, m mat.Matrix) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "column"
	p.Y.Label.Text = "row"
	p.Add(plotter.NewHeatMap(matGrid{m}, palette.Heat(12, 255)))
	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}

// saveResiduals draws the per iteration data residual curve.
func saveResiduals(path, title string, resid []float64) error {
	pts := make(plotter.XYs, len(resid))
	for i, r := range resid {
		pts[i] = plotter.XY{X: float64(i), Y: r}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "data residual"
	p.Add(line)
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
