// Package imageio moves images between files, the image package and the
// pixel matrices consumed by package quant.
package imageio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"

	"github.com/radeeyate/histquant/software/quant"
)

// DefaultMaxSide is the longest side an input keeps before it is scaled down.
const DefaultMaxSide = 1500

var ErrEmptyImage = errors.New("imageio: image has no pixels")

// Load decodes the image stored at path.
func Load(path string) (image.Image, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("could not open image file '%s': %w", path, err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, "", fmt.Errorf("could not decode image '%s': %w", path, err)
	}
	if img.Bounds().Empty() {
		return nil, "", fmt.Errorf("%w: '%s'", ErrEmptyImage, path)
	}
	return img, format, nil
}

// Fit scales img down with a Lanczos filter so that neither side exceeds
// maxSide, keeping the aspect ratio. Smaller images and maxSide <= 0 return
// img unchanged.
func Fit(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	if maxSide <= 0 || (b.Dx() <= maxSide && b.Dy() <= maxSide) {
		return img
	}
	return imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
}

// Blur applies a Gaussian pre-filter. sigma <= 0 returns img unchanged.
func Blur(img image.Image, sigma float32) image.Image {
	if sigma <= 0 {
		return img
	}
	g := gift.New(gift.GaussianBlur(sigma))
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

// ToPixelMatrix flattens img into an RGB matrix anchored at (0,0). Alpha is
// dropped; colours are taken un-premultiplied.
func ToPixelMatrix(img image.Image) quant.PixelMatrix {
	b := img.Bounds()
	src := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(src, src.Bounds(), img, b.Min, draw.Src)

	pm := quant.NewPixelMatrix(b.Dx(), b.Dy())
	for y := 0; y < pm.Height; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < pm.Width; x++ {
			i := 3 * (y*pm.Width + x)
			copy(pm.Pix[i:i+3], row[4*x:4*x+3])
		}
	}
	return pm
}

// ToImage converts pm into an opaque NRGBA image.
func ToImage(pm quant.PixelMatrix) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, pm.Width, pm.Height))
	n := pm.Len()
	for i := 0; i < n; i++ {
		img.Pix[4*i] = pm.Pix[3*i]
		img.Pix[4*i+1] = pm.Pix[3*i+1]
		img.Pix[4*i+2] = pm.Pix[3*i+2]
		img.Pix[4*i+3] = 0xff
	}
	return img
}

// ChannelImage wraps a single plane as a grayscale image.
func ChannelImage(ch quant.Channel) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, ch.Width, ch.Height))
	copy(img.Pix, ch.Pix)
	return img
}

// TintedChannelImage renders plane c of an RGB image in its own colour, the
// other two components held at zero.
func TintedChannelImage(ch quant.Channel, c int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, ch.Width, ch.Height))
	for i, v := range ch.Pix {
		px := color.NRGBA{A: 0xff}
		switch c {
		case quant.Red:
			px.R = v
		case quant.Green:
			px.G = v
		default:
			px.B = v
		}
		img.SetNRGBA(i%ch.Width, i/ch.Width, px)
	}
	return img
}

// Thumbnail scales img to fit within maxSide×maxSide using nearest-neighbour
// sampling, which keeps quantized levels crisp.
func Thumbnail(img image.Image, maxSide int) image.Image {
	return resize.Thumbnail(uint(maxSide), uint(maxSide), img, resize.NearestNeighbor)
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("could not encode image to PNG: %w", err)
	}
	return nil
}

// PNGSize returns the number of bytes img occupies as a PNG.
func PNGSize(img image.Image) (int, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return 0, err
	}
	return buf.Len(), nil
}

// WritePNG encodes img into the file at path, replacing it.
func WritePNG(path string, img image.Image) error {
	outFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create output image file '%s': %w", path, err)
	}
	defer outFile.Close()

	writer := bufio.NewWriter(outFile)
	if err := EncodePNG(writer, img); err != nil {
		return fmt.Errorf("could not write '%s': %w", path, err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("could not flush data to file '%s': %w", path, err)
	}
	return nil
}
