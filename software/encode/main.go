package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	"log"
	"unsafe"

	"github.com/radeeyate/histquant/software/analysis"
	"github.com/radeeyate/histquant/software/imageio"
	"github.com/radeeyate/histquant/software/quant"
)

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

// Report is the JSON document handed back to the caller next to the PNG.
type Report struct {
	Bits     int                  `json:"bits"`
	Levels   int                  `json:"levels"`
	Width    int                  `json:"width"`
	Height   int                  `json:"height"`
	MSE      float64              `json:"mse"`
	PSNR     float64              `json:"psnr"`
	Verdict  string               `json:"verdict"`
	Sizes    analysis.SizeStats   `json:"sizes"`
	Packed   analysis.PackedStats `json:"packed"`
	Palette  []string             `json:"palette"`
	Codebook []CodebookRow        `json:"codebook"`
	Stats    []StatRow            `json:"stats"`
	Sample   [][]int              `json:"sample"`
}

type CodebookRow struct {
	Label int     `json:"label"`
	Mean  float64 `json:"mean"`
}

type StatRow struct {
	Label   int     `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type options struct {
	bits        quant.BitDepth
	maxSide     int
	blurSigma   float32
	paletteSize int
	sampleSide  int
}

// quantizeCore decodes an image, runs the pipeline and returns the
// reconstructed PNG with its JSON report. Tables describe the red channel.
func quantizeCore(input []byte, opts options) ([]byte, []byte, error) {
	if err := opts.bits.Validate(); err != nil {
		return nil, nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(input))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode input image: %w", err)
	}
	img = imageio.Blur(imageio.Fit(img, opts.maxSide), opts.blurSigma)
	pm := imageio.ToPixelMatrix(img)

	res, err := quant.Process(pm, opts.bits)
	if err != nil {
		return nil, nil, err
	}

	var pngBuf bytes.Buffer
	if err := imageio.EncodePNG(&pngBuf, imageio.ToImage(res.Reconstructed)); err != nil {
		return nil, nil, err
	}
	origSize, err := imageio.PNGSize(imageio.ToImage(pm))
	if err != nil {
		return nil, nil, err
	}
	packed, err := analysis.PackedSize(res)
	if err != nil {
		return nil, nil, err
	}

	red := res.Labels[quant.Red]
	rep := Report{
		Bits:    int(res.Bits),
		Levels:  res.Bits.Levels(),
		Width:   pm.Width,
		Height:  pm.Height,
		MSE:     res.Quality.MSE,
		PSNR:    res.Quality.PSNR,
		Verdict: analysis.Verdict(res.Quality.PSNR),
		Sizes:   analysis.Sizes(origSize, pngBuf.Len()),
		Packed:  packed,
	}
	for _, row := range analysis.LabelSample(red, opts.sampleSide, opts.sampleSide) {
		r := make([]int, len(row))
		for i, l := range row {
			r[i] = int(l)
		}
		rep.Sample = append(rep.Sample, r)
	}
	for _, c := range analysis.Palette(res.Reconstructed, opts.paletteSize) {
		rep.Palette = append(rep.Palette, c.Hex())
	}
	for _, e := range quant.BuildCodebook(pm.Channel(quant.Red), red) {
		rep.Codebook = append(rep.Codebook, CodebookRow{Label: e.Label, Mean: e.Mean})
	}
	for _, s := range quant.DecodeStats(red) {
		rep.Stats = append(rep.Stats, StatRow{Label: s.Label, Count: s.Count, Percent: s.Percent})
	}

	reportJSON, err := json.Marshal(rep)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal report to JSON: %w", err)
	}
	return pngBuf.Bytes(), reportJSON, nil
}

//export FreeMem
func FreeMem(ptr unsafe.Pointer) {
	C.free(ptr)
}

//export QuantizeImageToPNG
func QuantizeImageToPNG(
	inputImageBytes unsafe.Pointer, inputImageLen C.int,
	bits C.int, maxSide C.int, blurSigma C.float,
	paletteSize C.int, sampleSide C.int,
	outputPNG **C.char, outputPNGLen *C.int,
	outputReportJson **C.char, outputReportJsonLen *C.int,
) *C.char {
	goInputBytes := C.GoBytes(inputImageBytes, inputImageLen)

	pngBytes, reportJSON, err := quantizeCore(goInputBytes, options{
		bits:        quant.BitDepth(bits),
		maxSide:     int(maxSide),
		blurSigma:   float32(blurSigma),
		paletteSize: int(paletteSize),
		sampleSide:  int(sampleSide),
	})
	if err != nil {
		return C.CString(fmt.Sprintf("QuantizeImage: %v", err))
	}

	*outputPNG = (*C.char)(C.CBytes(pngBytes))
	*outputPNGLen = C.int(len(pngBytes))

	*outputReportJson = C.CString(string(reportJSON))
	*outputReportJsonLen = C.int(len(reportJSON))
	return nil
}

//export DecodeLabelPlanes
func DecodeLabelPlanes(
	packedData unsafe.Pointer, packedLen C.int,
	width C.int, height C.int, bits C.int,
	outputPNG **C.char, outputPNGLen *C.int,
) *C.char {
	goPacked := C.GoBytes(packedData, packedLen)

	pngBytes, err := decodeLabelsCore(goPacked, int(width), int(height), quant.BitDepth(bits))
	if err != nil {
		return C.CString(fmt.Sprintf("DecodeLabelPlanes: %v", err))
	}

	*outputPNG = (*C.char)(C.CBytes(pngBytes))
	*outputPNGLen = C.int(len(pngBytes))
	return nil
}

// decodeLabelsCore rebuilds the displayable image from three label planes
// packed with analysis.PackLabels.
func decodeLabelsCore(packed []byte, width, height int, bits quant.BitDepth) ([]byte, error) {
	if err := bits.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	n := width * height
	flat, err := analysis.UnpackLabels(packed, 3*n, bits)
	if err != nil {
		return nil, err
	}

	var planes [3]quant.LabelMatrix
	for c := range planes {
		planes[c] = quant.LabelMatrix{Width: width, Height: height, Labels: flat[c*n : (c+1)*n], Levels: bits.Levels()}
		for i, l := range planes[c].Labels {
			if int(l) >= bits.Levels() {
				return nil, fmt.Errorf("decoded label %d at %d out of range for %d levels", l, i, bits.Levels())
			}
		}
	}
	rec := quant.Reconstruct(planes[quant.Red], planes[quant.Green], planes[quant.Blue], bits)

	var out bytes.Buffer
	if err := imageio.EncodePNG(&out, imageio.ToImage(rec)); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func main() {}
