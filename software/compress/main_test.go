package main

import (
	"bytes"
	"encoding/csv"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/radeeyate/histquant/software/analysis"
	"github.com/radeeyate/histquant/software/cache"
	"github.com/radeeyate/histquant/software/config"
	"github.com/radeeyate/histquant/software/imageio"
	"github.com/radeeyate/histquant/software/quant"
)

func writeTestImage(t *testing.T, dir string, w, h int) string {
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
	path := filepath.Join(dir, "sample.png")
	if err := imageio.WritePNG(path, img); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	return path
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	in := writeTestImage(t, dir, 40, 30)
	cfg := &config.Config{
		Bits:        []quant.BitDepth{1, 2},
		MaxSide:     20,
		OutputDir:   filepath.Join(dir, "out"),
		PaletteSize: 4,
		ThumbSide:   8,
		SampleSide:  5,
		Inputs:      []string{in},
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		t.Fatal(err)
	}
	results, err := cache.New(4)
	if err != nil {
		t.Fatal(err)
	}

	if err := processFile(cfg, results, in); err != nil {
		t.Fatalf("processFile: %v", err)
	}

	for _, name := range []string{
		"sample_hasil_1bit.png", "sample_hasil_2bit.png",
		"sample_hasil_2bit_r.png", "sample_hasil_2bit_g.png", "sample_hasil_2bit_b.png",
		"sample_hasil_2bit_r_tint.png", "sample_hasil_2bit_g_tint.png", "sample_hasil_2bit_b_tint.png",
		"sample_hasil_2bit_thumb.png", "sample_hasil_2bit_hist.csv",
	} {
		if _, err := os.Stat(filepath.Join(cfg.OutputDir, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}

	img, _, err := imageio.Load(filepath.Join(cfg.OutputDir, "sample_hasil_2bit.png"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 15 {
		t.Errorf("output %dx%d, want 20x15 after fit", b.Dx(), b.Dy())
	}
	pm := imageio.ToPixelMatrix(img)
	for i, v := range pm.Pix {
		if v != 0 && v != 85 && v != 170 && v != 255 {
			t.Fatalf("sample %d = %d, not a 2-bit display level", i, v)
		}
	}

	tint, _, err := imageio.Load(filepath.Join(cfg.OutputDir, "sample_hasil_2bit_g_tint.png"))
	if err != nil {
		t.Fatalf("Load tint: %v", err)
	}
	tpm := imageio.ToPixelMatrix(tint)
	for i := 0; i < tpm.Len(); i++ {
		if tpm.Pix[3*i] != 0 || tpm.Pix[3*i+2] != 0 || tpm.Pix[3*i+1] != pm.Pix[3*i+1] {
			t.Fatalf("tinted green pixel %d = %v, want only the green plane", i, tpm.Pix[3*i:3*i+3])
		}
	}

	f, err := os.Open(filepath.Join(cfg.OutputDir, "sample_hasil_1bit_hist.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if len(records) < 2 || records[0][0] != "value" {
		t.Errorf("unexpected histogram csv: %v", records)
	}

	// Same pixels again are served from the cache.
	if err := processFile(cfg, results, in); err != nil {
		t.Fatalf("second processFile: %v", err)
	}
	if hits, _ := results.Stats(); hits != 2 {
		t.Errorf("cache hits = %d, want 2", hits)
	}
}

func TestProcessFileMissingInput(t *testing.T) {
	results, _ := cache.New(1)
	cfg := &config.Config{Bits: []quant.BitDepth{2}, OutputDir: t.TempDir()}
	if err := processFile(cfg, results, filepath.Join(cfg.OutputDir, "nope.png")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestPrintReport(t *testing.T) {
	pm := quant.PixelMatrix{Width: 16, Height: 1, Pix: make([]uint8, 48)}
	scenario := []uint8{10, 10, 20, 20, 20, 30, 30, 100, 100, 100, 100, 150, 150, 150, 220, 220}
	for i, v := range scenario {
		pm.Pix[3*i], pm.Pix[3*i+1], pm.Pix[3*i+2] = v, v, v
	}
	res, err := quant.Process(pm, 2)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	printReport(&buf, report{
		Input:   inputInfo{Path: "x.png", Format: "png", Source: image.Rect(0, 0, 16, 1), Width: 16, Height: 1},
		Result:  res,
		Sizes:   analysis.Sizes(1000, 400),
		Palette: analysis.Palette(res.Reconstructed, 4),
		Sample:  15,
	})
	out := buf.String()
	for _, want := range []string{
		"--- Quantization Report ---",
		"Bit Depth: 2 Bit (4 Level)",
		"Lossy",
		"↓ 600.00 B, 60.0%",
		"112.50",
		"185.00",
		"Palette Sample: #000000 #555555 #aaaaaa #ffffff",
		"Label Statistics & Codebook (R):",
		"Raw Labels (R, 1x15, values 0-3)",
		"--- End Quantization Report ---",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestPrintSweep(t *testing.T) {
	var buf bytes.Buffer
	printSweep(&buf, "x.png", []sweepRow{
		{Bits: 1, Quality: quant.QualityReport{MSE: 5397.5, PSNR: 10.81}, Size: 100},
		{Bits: 7, Quality: quant.QualityReport{MSE: 0.5, PSNR: 51.14}, Size: 2048},
	})
	out := buf.String()
	for _, want := range []string{"Bit Depth Sweep: x.png", "5397.50", "128", "0-127", "0-1", "High", "2.00 KB", "Source: 8 Bit, 256 Levels (0-255)"} {
		if !strings.Contains(out, want) {
			t.Errorf("sweep missing %q:\n%s", want, out)
		}
	}
}
