// Package quant implements histogram-based (equal-frequency) quantization of
// 8-bit RGB images.
//
// Each colour channel is reduced to G = 2^m levels whose boundaries are chosen
// so that every level covers roughly the same number of pixels, instead of the
// same span of intensities. Labels are rescaled back to 0..255 for display and
// the result is scored with MSE and PSNR.
//
// Processing an image:
//
//	res, err := quant.Process(pm, 3)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("MSE %.2f, PSNR %.2f dB\n", res.Quality.MSE, res.Quality.PSNR)
//
// Every function in this package is pure: inputs are never mutated and no
// state is kept between calls, so results may be memoized by the caller.
package quant
