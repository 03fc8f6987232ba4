package quant

// Quantize partitions the samples of ch into 2^bits groups holding (nearly)
// the same number of pixels and returns the group label of every sample.
//
// Samples are ranked by their position in sorted order and a sample with
// rank r out of N gets label floor(r*G/N). A run of identical samples that
// straddles a single group boundary is split at that boundary by raster
// position, so groups differ by at most one pixel. A run that covers two or
// more boundaries is never split: all of its samples get the label of the
// run's average rank, and the labels left empty are collapsed.
//
// When the channel holds fewer distinct intensities than requested groups
// every sample of one intensity shares the average rank of its tie group.
// In both cases the result may have Levels < 2^bits; a constant channel maps
// to label 0.
//
// bits must satisfy BitDepth.Validate; Quantize never fails.
func Quantize(ch Channel, bits BitDepth) LabelMatrix {
	n := len(ch.Pix)
	lm := LabelMatrix{
		Width:  ch.Width,
		Height: ch.Height,
		Labels: make([]uint8, n),
	}
	if n == 0 {
		return lm
	}

	levels := bits.Levels()

	// Values are 8-bit, so ranking is a counting sort.
	var counts [256]int
	for _, v := range ch.Pix {
		counts[v]++
	}
	var start [256]int
	distinct, acc := 0, 0
	for v, c := range counts {
		start[v] = acc
		acc += c
		if c > 0 {
			distinct++
		}
	}

	if distinct >= levels {
		lm.Levels = strictPartition(ch.Pix, lm.Labels, &counts, &start, levels)
	} else {
		lm.Levels = mergedPartition(ch.Pix, lm.Labels, &counts, &start, levels)
	}
	return lm
}

// strictPartition assigns floor(rank*G/N) with ordinal ranks, keeping every
// run that spans two or more boundaries whole. Returns the effective level
// count.
func strictPartition(pix, labels []uint8, counts, start *[256]int, levels int) int {
	n := int64(len(pix))
	g := int64(levels)
	label := func(rank int64) int64 {
		return min(rank*g/n, g-1)
	}

	// whole[v] is the label of a run kept together, or -1 if v is split.
	var whole [256]int64
	var used [1 << MaxBitDepth]bool
	for v, c := range counts {
		whole[v] = -1
		if c == 0 {
			continue
		}
		first := int64(start[v])
		last := first + int64(c) - 1
		lo, hi := label(first), label(last)
		if hi-lo >= 2 {
			// floor(avgRank*G/N) with avgRank = (first+last)/2.
			whole[v] = min((first+last)*g/(2*n), g-1)
			used[whole[v]] = true
			continue
		}
		for l := lo; l <= hi; l++ {
			used[l] = true
		}
	}

	var dense [1 << MaxBitDepth]uint8
	eff := 0
	for l := 0; l < levels; l++ {
		if used[l] {
			dense[l] = uint8(eff)
			eff++
		}
	}

	next := *start
	for i, v := range pix {
		if w := whole[v]; w >= 0 {
			labels[i] = dense[w]
			continue
		}
		rank := int64(next[v])
		next[v]++
		labels[i] = dense[label(rank)]
	}
	return eff
}

// mergedPartition bins every intensity by the average rank of its tie group
// and renumbers the occupied bins densely. Returns the effective level count.
func mergedPartition(pix, labels []uint8, counts, start *[256]int, levels int) int {
	n := float64(len(pix))
	g := float64(levels)

	var lut [256]uint8
	eff, prev := 0, -1
	for v, c := range counts {
		if c == 0 {
			continue
		}
		avg := float64(start[v]) + float64(c-1)/2
		bin := int(avg / n * g)
		if bin > levels-1 {
			bin = levels - 1
		}
		// Average ranks grow with intensity, so bins are non-decreasing.
		if bin != prev {
			prev = bin
			eff++
		}
		lut[v] = uint8(eff - 1)
	}

	for i, v := range pix {
		labels[i] = lut[v]
	}
	return eff
}
