package quant

import "math"

// PSNRIdentical is reported as the PSNR of two identical images.
const PSNRIdentical = 100.0

const maxPixel = 255.0

// QualityReport scores a reconstruction against its source.
type QualityReport struct {
	MSE  float64
	PSNR float64 // dB
}

// Evaluate computes the mean squared error over every sample of both
// matrices (all pixels, all three channels, as one flat mean) and the
// corresponding PSNR. Identical inputs give MSE 0 and PSNR PSNRIdentical.
//
// Matrices of different shape, or whose buffers do not hold 3*W*H samples,
// cannot be compared; both fields of the report are then NaN.
func Evaluate(original, reconstructed PixelMatrix) QualityReport {
	if !sameLayout(original, reconstructed) {
		return incomparable()
	}
	return report(sumSquares(original.Pix, reconstructed.Pix, 0, 1))
}

// EvaluateChannels scores each of R, G and B on its own, with the same shape
// rule as Evaluate.
func EvaluateChannels(original, reconstructed PixelMatrix) [3]QualityReport {
	var out [3]QualityReport
	if !sameLayout(original, reconstructed) {
		return [3]QualityReport{incomparable(), incomparable(), incomparable()}
	}
	for c := 0; c < 3; c++ {
		out[c] = report(sumSquares(original.Pix, reconstructed.Pix, c, 3))
	}
	return out
}

func sameLayout(a, b PixelMatrix) bool {
	return a.SameShape(b) && len(a.Pix) == 3*a.Len() && len(b.Pix) == len(a.Pix)
}

func incomparable() QualityReport {
	return QualityReport{MSE: math.NaN(), PSNR: math.NaN()}
}

func sumSquares(a, b []uint8, offset, step int) (sum int64, n int) {
	for i := offset; i < len(a); i += step {
		d := int64(a[i]) - int64(b[i])
		sum += d * d
		n++
	}
	return sum, n
}

func report(sum int64, n int) QualityReport {
	if n == 0 || sum == 0 {
		return QualityReport{MSE: 0, PSNR: PSNRIdentical}
	}
	mse := float64(sum) / float64(n)
	return QualityReport{
		MSE:  mse,
		PSNR: 10 * math.Log10(maxPixel*maxPixel/mse),
	}
}
