package main

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/hammal/tomo"
	"github.com/hammal/tomo/linop"
	"github.com/hammal/tomo/radon"
)

var (
	dottestSize   int
	dottestAngles int
	dottestTrials int
	dottestTol    float64
)

var dottestCmd = &cobra.Command{
	Use:   "dottest",
	Short: "Check every operator against the dot product test",
	Long: `For each operator A the test draws random probes u, v and compares
<Au, v> with <u, A^T v>. The two sides agree to rounding error exactly
when the forward and adjoint rules describe one matrix.

The naive projector pair is listed as a counterexample: its smearing
adjoint only approximates the transpose of its nearest neighbor forward
rule, so it is expected to fail. The command exits non zero when any of
the consistent operators fails, or when the naive pair passes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		n := dottestSize
		if n < 4 || n%4 != 0 {
			return fmt.Errorf("size %d must be a positive multiple of 4", n)
		}
		if dottestAngles < 1 {
			return fmt.Errorf("need at least one angle, got %d", dottestAngles)
		}
		thetas := tomo.Angles(dottestAngles, 0, math.Pi)
		rng := rand.New(rand.NewSource(1))

		diag := mat.NewVecDense(n*n, nil)
		for i := 0; i < n*n; i++ {
			diag.SetVec(i, rng.NormFloat64())
		}
		keep := make([]int, 0, n*n/2)
		for i := 0; i < n*n; i += 2 {
			keep = append(keep, i)
		}

		cases := []struct {
			name       string
			op         linop.Op
			consistent bool
		}{
			{"identity", linop.NewIdentity(n * n), true},
			{"scaled", linop.NewScaled(-2.5, linop.NewIdentity(n*n)), true},
			{"diag", linop.NewDiag(diag), true},
			{"restrict", linop.NewRestrict(n*n, keep), true},
			{"sumrows", linop.NewSumRows(n, n), true},
			{"bilinear", linop.NewBilinear(n, n, rotatedProbeGrid(n)), true},
			{"fft", linop.NewFFT(n * n), true},
			{"wavelet-haar", linop.NewWavelet2D(n, 2, linop.Haar), true},
			{"wavelet-db4", linop.NewWavelet2D(n, 2, linop.Daubechies4), true},
			{"projector", radon.NewProjector(n, 1, thetas), true},
			{"naive", radon.Naive(n, thetas), false},
		}

		broken := 0
		fmt.Printf("%-14s %-10s %s\n", "operator", "expected", "result")
		for _, c := range cases {
			err := linop.DotTest(c.op, dottestTrials, dottestTol, rng)
			want := "pass"
			if !c.consistent {
				want = "fail"
			}
			switch {
			case err == nil && c.consistent:
				fmt.Printf("%-14s %-10s pass\n", c.name, want)
			case err != nil && !c.consistent:
				fmt.Printf("%-14s %-10s fail: %v\n", c.name, want, err)
			case err != nil:
				broken++
				fmt.Printf("%-14s %-10s FAIL: %v\n", c.name, want, err)
			default:
				broken++
				fmt.Printf("%-14s %-10s PASS unexpectedly\n", c.name, want)
			}
		}
		if broken > 0 {
			return fmt.Errorf("%d operator(s) behaved unexpectedly", broken)
		}
		return nil
	},
}

// rotatedProbeGrid samples the pixel grid rotated by an angle that is not
// a multiple of pi/2, so every interpolation branch is exercised.
func rotatedProbeGrid(n int) []linop.Point {
	theta := math.Pi / 5
	s, c := math.Sin(theta), math.Cos(theta)
	m := float64(n-1) / 2
	pts := make([]linop.Point, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			u := float64(j) - m
			v := float64(i) - m
			pts = append(pts, linop.Point{Row: m - u*s + v*c, Col: m + u*c + v*s})
		}
	}
	return pts
}

func init() {
	dottestCmd.Flags().IntVar(&dottestSize, "size", 16, "Image side length used for the probes")
	dottestCmd.Flags().IntVar(&dottestAngles, "angles", 12, "Number of projection angles")
	dottestCmd.Flags().IntVar(&dottestTrials, "trials", 5, "Random probe pairs per operator")
	dottestCmd.Flags().Float64Var(&dottestTol, "tol", 1e-10, "Relative discrepancy tolerance")
	rootCmd.AddCommand(dottestCmd)
}
