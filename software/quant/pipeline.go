package quant

import (
	"fmt"
	"sync"
)

// Result bundles everything derived from one (image, bit depth) pair.
type Result struct {
	Bits          BitDepth
	Original      PixelMatrix
	Reconstructed PixelMatrix
	Labels        [3]LabelMatrix
	Quality       QualityReport
}

// Process quantizes the three channels of pm concurrently, reconstructs a
// displayable image from the labels and scores it against pm.
func Process(pm PixelMatrix, bits BitDepth) (*Result, error) {
	if err := bits.Validate(); err != nil {
		return nil, err
	}
	if err := pm.Validate(); err != nil {
		return nil, fmt.Errorf("could not process image: %w", err)
	}

	channels := pm.Split()
	var labels [3]LabelMatrix
	var wg sync.WaitGroup
	for c := range channels {
		wg.Add(1)
		go func(c int) {
			defer wg.Done()
			labels[c] = Quantize(channels[c], bits)
		}(c)
	}
	wg.Wait()

	rec := Reconstruct(labels[Red], labels[Green], labels[Blue], bits)
	return &Result{
		Bits:          bits,
		Original:      pm,
		Reconstructed: rec,
		Labels:        labels,
		Quality:       Evaluate(pm, rec),
	}, nil
}

// Codebooks builds the codebook of every channel.
func (r *Result) Codebooks() [3]Codebook {
	var cbs [3]Codebook
	for c := range cbs {
		cbs[c] = BuildCodebook(r.Original.Channel(c), r.Labels[c])
	}
	return cbs
}

// Channels returns the rescaled display plane of every channel.
func (r *Result) Channels() [3]Channel {
	var out [3]Channel
	for c := range out {
		out[c] = DisplayChannel(r.Labels[c], r.Bits)
	}
	return out
}
