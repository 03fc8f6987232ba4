package quant

// LabelStat is the share of a channel's pixels that received one label.
type LabelStat struct {
	Label   int
	Count   int
	Percent float64
}

// DecodeStats counts pixels per label, ascending by label. Counts always sum
// to the number of pixels in lm.
func DecodeStats(lm LabelMatrix) []LabelStat {
	var counts [256]int
	for _, l := range lm.Labels {
		counts[l]++
	}

	total := float64(len(lm.Labels))
	stats := make([]LabelStat, 0, lm.Levels)
	for l, c := range counts {
		if c == 0 {
			continue
		}
		stats = append(stats, LabelStat{
			Label:   l,
			Count:   c,
			Percent: float64(c) * 100 / total,
		})
	}
	return stats
}
