// Package sharpness scores how well focused an image is from the share of
// its spectral energy at high spatial frequencies.
package sharpness

import (
	"image"
	"image/color"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// DefaultWindow is the side of the square sampled from the image center.
const DefaultWindow = 128

// Cutoff is the radius, as a fraction of the Nyquist frequency, above which
// energy counts as detail.
const Cutoff = 0.25

// Score is ScoreWindow with DefaultWindow.
func Score(img image.Image) float64 {
	return ScoreWindow(img, DefaultWindow)
}

// ScoreWindow returns a value in [0, 1]: the fraction of non-DC spectral
// energy above Cutoff in the central n x n luminance window of img. Images
// smaller than the window are sampled whole. A flat image scores 0.
func ScoreWindow(img image.Image, n int) float64 {
	b := img.Bounds()
	w, h := min(n, b.Dx()), min(n, b.Dy())
	if w < 2 || h < 2 {
		return 0
	}
	x0 := b.Min.X + (b.Dx()-w)/2
	y0 := b.Min.Y + (b.Dy()-h)/2

	rows := make([][]float64, h)
	var mean float64
	for y := range rows {
		rows[y] = make([]float64, w)
		for x := range rows[y] {
			g := color.GrayModel.Convert(img.At(x0+x, y0+y)).(color.Gray)
			rows[y][x] = float64(g.Y)
			mean += float64(g.Y)
		}
	}
	mean /= float64(w * h)
	for y := range rows {
		wy := hamming(y, h)
		for x := range rows[y] {
			rows[y][x] = (rows[y][x] - mean) * wy * hamming(x, w)
		}
	}

	spectrum := fft.FFT2Real(rows)
	var total, high float64
	for v, row := range spectrum {
		fy := freq(v, h)
		for u, c := range row {
			if u == 0 && v == 0 {
				continue
			}
			fx := freq(u, w)
			e := cmplx.Abs(c)
			e *= e
			total += e
			if math.Hypot(fx, fy) > Cutoff {
				high += e
			}
		}
	}
	if total < 1e-9 {
		return 0
	}
	return high / total
}

func hamming(i, n int) float64 {
	return 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
}

// freq maps bin k of an n point transform to a fraction of Nyquist.
func freq(k, n int) float64 {
	if k > n/2 {
		k = n - k
	}
	return 2 * float64(k) / float64(n)
}
