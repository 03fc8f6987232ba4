package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/radeeyate/histquant/software/analysis"
	"github.com/radeeyate/histquant/software/imageio"
	"github.com/radeeyate/histquant/software/quant"
)

func makeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8((x * 17) ^ (y * 31)),
				G: uint8((x * 43) + (y * 13)),
				B: uint8((x * 7) ^ (y * 11)),
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestQuantizeCore(t *testing.T) {
	pngBytes, reportJSON, err := quantizeCore(makeTestPNG(t, 32, 24), options{
		bits: 3, maxSide: 1500, paletteSize: 8, sampleSide: 15,
	})
	if err != nil {
		t.Fatalf("quantizeCore: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(pngBytes))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 24 {
		t.Errorf("output %dx%d, want 32x24", b.Dx(), b.Dy())
	}

	var rep Report
	if err := json.Unmarshal(reportJSON, &rep); err != nil {
		t.Fatalf("report: %v", err)
	}
	if rep.Bits != 3 || rep.Levels != 8 || rep.Width != 32 || rep.Height != 24 {
		t.Errorf("header = %+v", rep)
	}
	total := 0
	for _, s := range rep.Stats {
		total += s.Count
	}
	if total != 32*24 {
		t.Errorf("stats count %d pixels, want %d", total, 32*24)
	}
	if len(rep.Codebook) != len(rep.Stats) {
		t.Errorf("%d codebook rows for %d stat rows", len(rep.Codebook), len(rep.Stats))
	}
	if len(rep.Sample) != 15 || len(rep.Sample[0]) != 15 {
		t.Errorf("sample is %d rows", len(rep.Sample))
	}
	if rep.MSE <= 0 || rep.PSNR <= 0 || rep.PSNR >= quant.PSNRIdentical {
		t.Errorf("quality = %v / %v", rep.MSE, rep.PSNR)
	}
}

func TestQuantizeCoreErrors(t *testing.T) {
	if _, _, err := quantizeCore(makeTestPNG(t, 4, 4), options{bits: 0}); !errors.Is(err, quant.ErrInvalidBitDepth) {
		t.Errorf("bits 0: err = %v", err)
	}
	if _, _, err := quantizeCore([]byte("garbage"), options{bits: 2}); err == nil {
		t.Errorf("garbage input decoded")
	}
}

func TestDecodeLabelsCore(t *testing.T) {
	src, err := png.Decode(bytes.NewReader(makeTestPNG(t, 12, 9)))
	if err != nil {
		t.Fatal(err)
	}
	res, err := quant.Process(imageio.ToPixelMatrix(src), 4)
	if err != nil {
		t.Fatal(err)
	}

	out, err := decodeLabelsCore(analysis.PackLabels(res.Labels[:], 4), 12, 9, 4)
	if err != nil {
		t.Fatalf("decodeLabelsCore: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if q := quant.Evaluate(res.Reconstructed, imageio.ToPixelMatrix(img)); q.MSE != 0 {
		t.Errorf("decoded image differs from reconstruction: %+v", q)
	}

	if _, err := decodeLabelsCore([]byte{1, 2}, 12, 9, 4); err == nil {
		t.Errorf("short data decoded")
	}
	if _, err := decodeLabelsCore(nil, 0, 9, 4); err == nil {
		t.Errorf("zero width accepted")
	}
}
