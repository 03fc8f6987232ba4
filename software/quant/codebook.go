package quant

import "gonum.org/v1/gonum/stat"

// CodebookEntry pairs a label with the mean original intensity of the pixels
// that received it.
type CodebookEntry struct {
	Label int
	Mean  float64
}

// Codebook is ordered by ascending label.
type Codebook []CodebookEntry

// BuildCodebook computes, for each label present in lm, the mean of the
// intensities of ch mapped to it. It is a reporting aid only; Reconstruct
// uses linear label rescaling, not these means.
func BuildCodebook(ch Channel, lm LabelMatrix) Codebook {
	var groups [256][]float64
	for i, l := range lm.Labels {
		if i >= len(ch.Pix) {
			break
		}
		groups[l] = append(groups[l], float64(ch.Pix[i]))
	}

	cb := make(Codebook, 0, lm.Levels)
	for l, vals := range groups {
		if len(vals) == 0 {
			continue
		}
		cb = append(cb, CodebookEntry{Label: l, Mean: stat.Mean(vals, nil)})
	}
	return cb
}

// Lookup returns the mean for label l.
func (cb Codebook) Lookup(l int) (float64, bool) {
	for _, e := range cb {
		if e.Label == l {
			return e.Mean, true
		}
	}
	return 0, false
}
