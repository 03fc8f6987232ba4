package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/radeeyate/histquant/software/analysis"
	"github.com/radeeyate/histquant/software/cache"
	"github.com/radeeyate/histquant/software/config"
	"github.com/radeeyate/histquant/software/imageio"
	"github.com/radeeyate/histquant/software/quant"
)

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

var channelNames = [3]string{"r", "g", "b"}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("error: %v", err)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory %s: %v", cfg.OutputDir, err)
	}

	results, err := cache.New(cfg.CacheSize)
	if err != nil {
		log.Fatalf("error: %v", err)
	}

	failed := 0
	for _, path := range cfg.Inputs {
		if err := processFile(cfg, results, path); err != nil {
			log.Printf("error processing '%s': %v", path, err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// processFile quantizes one input at every configured bit depth and writes
// the reconstructed image, its channel planes and a histogram table.
func processFile(cfg *config.Config, results *cache.Results, path string) error {
	img, format, err := imageio.Load(path)
	if err != nil {
		return err
	}
	srcBounds := img.Bounds()
	img = imageio.Fit(img, cfg.MaxSide)
	img = imageio.Blur(img, float32(cfg.BlurSigma))
	pm := imageio.ToPixelMatrix(img)

	originalSize, err := imageio.PNGSize(imageio.ToImage(pm))
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	in := inputInfo{
		Path:    path,
		Format:  format,
		Source:  srcBounds,
		Width:   pm.Width,
		Height:  pm.Height,
		PNGSize: originalSize,
	}

	var sweep []sweepRow
	for _, bits := range cfg.Bits {
		res, hit, err := results.Get(pm, bits)
		if err != nil {
			return fmt.Errorf("could not quantize at %d bits: %w", bits, err)
		}
		if hit {
			log.Printf("%s: reusing cached result %s", path, cache.KeyFor(pm, bits))
		}

		out, err := writeOutputs(cfg, base, res)
		if err != nil {
			return err
		}
		packed, err := analysis.PackedSize(res)
		if err != nil {
			return err
		}

		printReport(os.Stdout, report{
			Input:   in,
			Result:  res,
			Sizes:   analysis.Sizes(originalSize, out.pngSize),
			Packed:  packed,
			Palette: analysis.Palette(res.Reconstructed, cfg.PaletteSize),
			Sample:  cfg.SampleSide,
			Files:   out.files,
		})
		sweep = append(sweep, sweepRow{Bits: bits, Quality: res.Quality, Size: out.pngSize})
	}

	if len(sweep) > 1 {
		printSweep(os.Stdout, path, sweep)
	}
	return nil
}

type outputs struct {
	files   []string
	pngSize int
}

func writeOutputs(cfg *config.Config, base string, res *quant.Result) (outputs, error) {
	var out outputs
	write := func(name string, img image.Image) error {
		p := filepath.Join(cfg.OutputDir, name)
		if err := imageio.WritePNG(p, img); err != nil {
			return err
		}
		out.files = append(out.files, p)
		return nil
	}

	recImg := imageio.ToImage(res.Reconstructed)
	size, err := imageio.PNGSize(recImg)
	if err != nil {
		return out, err
	}
	out.pngSize = size

	prefix := fmt.Sprintf("%s_hasil_%dbit", base, int(res.Bits))
	if err := write(prefix+".png", recImg); err != nil {
		return out, err
	}
	for c, ch := range res.Channels() {
		if err := write(fmt.Sprintf("%s_%s.png", prefix, channelNames[c]), imageio.ChannelImage(ch)); err != nil {
			return out, err
		}
		if err := write(fmt.Sprintf("%s_%s_tint.png", prefix, channelNames[c]), imageio.TintedChannelImage(ch, c)); err != nil {
			return out, err
		}
	}
	if cfg.ThumbSide > 0 {
		if err := write(prefix+"_thumb.png", imageio.Thumbnail(recImg, cfg.ThumbSide)); err != nil {
			return out, err
		}
	}

	histPath := filepath.Join(cfg.OutputDir, prefix+"_hist.csv")
	bins := analysis.Overlay(res.Original.Channel(quant.Red), res.Reconstructed.Channel(quant.Red))
	if err := writeHistogramCSV(histPath, bins); err != nil {
		return out, err
	}
	out.files = append(out.files, histPath)
	return out, nil
}
