package analysis

import "github.com/radeeyate/histquant/software/quant"

// Histogram counts the pixels of ch at every intensity.
func Histogram(ch quant.Channel) [256]int {
	var h [256]int
	for _, v := range ch.Pix {
		h[v]++
	}
	return h
}

// HistogramBin holds the share of pixels at one intensity before and after
// quantization.
type HistogramBin struct {
	Value         int
	Original      float64
	Reconstructed float64
}

// Overlay pairs the normalised histograms of an original and a
// reconstructed plane. Densities of each side sum to 1; intensities present
// in neither plane are omitted.
func Overlay(original, reconstructed quant.Channel) []HistogramBin {
	ho, hr := Histogram(original), Histogram(reconstructed)
	no, nr := float64(len(original.Pix)), float64(len(reconstructed.Pix))

	var bins []HistogramBin
	for v := 0; v < 256; v++ {
		if ho[v] == 0 && hr[v] == 0 {
			continue
		}
		bin := HistogramBin{Value: v}
		if no > 0 {
			bin.Original = float64(ho[v]) / no
		}
		if nr > 0 {
			bin.Reconstructed = float64(hr[v]) / nr
		}
		bins = append(bins, bin)
	}
	return bins
}

// LabelSample copies the top-left rows×cols window of lm, clipped to its
// bounds.
func LabelSample(lm quant.LabelMatrix, rows, cols int) [][]uint8 {
	rows = min(rows, lm.Height)
	cols = min(cols, lm.Width)
	if rows <= 0 || cols <= 0 {
		return nil
	}
	out := make([][]uint8, rows)
	for y := range out {
		out[y] = append([]uint8(nil), lm.Labels[y*lm.Width:y*lm.Width+cols]...)
	}
	return out
}
