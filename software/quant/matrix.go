package quant

import "fmt"

const (
	Red = iota
	Green
	Blue
)

// PixelMatrix is an interleaved 8-bit RGB raster, three bytes per pixel in
// row-major order.
type PixelMatrix struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewPixelMatrix allocates a black w×h matrix.
func NewPixelMatrix(w, h int) PixelMatrix {
	return PixelMatrix{Width: w, Height: h, Pix: make([]uint8, 3*w*h)}
}

func (pm PixelMatrix) Len() int {
	return pm.Width * pm.Height
}

func (pm PixelMatrix) Validate() error {
	if pm.Width < 0 || pm.Height < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrInvalidPixelMatrix, pm.Width, pm.Height)
	}
	if len(pm.Pix) != 3*pm.Width*pm.Height {
		return fmt.Errorf("%w: %dx%d needs %d bytes, have %d", ErrInvalidPixelMatrix, pm.Width, pm.Height, 3*pm.Width*pm.Height, len(pm.Pix))
	}
	return nil
}

// At returns the pixel at (x, y).
func (pm PixelMatrix) At(x, y int) (r, g, b uint8) {
	i := 3 * (y*pm.Width + x)
	return pm.Pix[i], pm.Pix[i+1], pm.Pix[i+2]
}

// Channel copies out plane c (Red, Green or Blue).
func (pm PixelMatrix) Channel(c int) Channel {
	n := pm.Len()
	ch := Channel{Width: pm.Width, Height: pm.Height, Pix: make([]uint8, n)}
	for i := 0; i < n; i++ {
		ch.Pix[i] = pm.Pix[3*i+c]
	}
	return ch
}

func (pm PixelMatrix) Split() [3]Channel {
	return [3]Channel{pm.Channel(Red), pm.Channel(Green), pm.Channel(Blue)}
}

// SameShape reports whether pm and o have equal dimensions.
func (pm PixelMatrix) SameShape(o PixelMatrix) bool {
	return pm.Width == o.Width && pm.Height == o.Height
}

// Channel is a single 8-bit plane in row-major order.
type Channel struct {
	Width  int
	Height int
	Pix    []uint8
}

// LabelMatrix holds the quantizer's group label for every pixel of a
// channel. Levels is the effective number of groups; every label lies in
// [0, Levels-1].
type LabelMatrix struct {
	Width  int
	Height int
	Labels []uint8
	Levels int
}

// At returns the label at (x, y).
func (lm LabelMatrix) At(x, y int) uint8 {
	return lm.Labels[y*lm.Width+x]
}
