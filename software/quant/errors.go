package quant

import "errors"

var (
	ErrInvalidBitDepth    = errors.New("quant: bit depth out of range")
	ErrInvalidPixelMatrix = errors.New("quant: pixel buffer does not match dimensions")
)
