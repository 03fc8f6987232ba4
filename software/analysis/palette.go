// Package analysis derives the display-only tables and figures shown next to
// a quantization result: colour palette samples, histograms, raw label
// windows and storage estimates.
package analysis

import (
	"fmt"
	"sort"

	"github.com/radeeyate/histquant/software/quant"
)

type RGB struct {
	R, G, B uint8
}

// Hex formats c as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Palette returns up to n colours sampled from the distinct colours of pm.
// The distinct colours are ordered by (R, G, B); when there are more than n
// of them, n evenly spaced entries are picked, first and last included.
func Palette(pm quant.PixelMatrix, n int) []RGB {
	if n <= 0 {
		return nil
	}
	seen := make(map[RGB]struct{})
	for i := 0; i+2 < len(pm.Pix); i += 3 {
		seen[RGB{pm.Pix[i], pm.Pix[i+1], pm.Pix[i+2]}] = struct{}{}
	}
	unique := make([]RGB, 0, len(seen))
	for c := range seen {
		unique = append(unique, c)
	}
	sort.Slice(unique, func(i, j int) bool {
		a, b := unique[i], unique[j]
		if a.R != b.R {
			return a.R < b.R
		}
		if a.G != b.G {
			return a.G < b.G
		}
		return a.B < b.B
	})

	if len(unique) <= n {
		return unique
	}
	if n == 1 {
		return unique[:1]
	}
	palette := make([]RGB, n)
	last := len(unique) - 1
	for i := range palette {
		palette[i] = unique[i*last/(n-1)]
	}
	return palette
}
