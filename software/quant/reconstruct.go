package quant

// scaleTable maps every label of a 2^bits level quantizer to its display
// intensity round(l*255/(G-1)), computed in integers so the top label is
// exactly 255.
func scaleTable(bits BitDepth) [256]uint8 {
	var t [256]uint8
	g1 := bits.Levels() - 1
	for l := 0; l <= g1; l++ {
		t[l] = uint8((l*255 + g1/2) / g1)
	}
	// Labels above G-1 cannot come from Quantize; saturate them.
	for l := g1 + 1; l < 256; l++ {
		t[l] = 255
	}
	return t
}

// DisplayChannel rescales a label matrix into a viewable 0..255 plane.
func DisplayChannel(lm LabelMatrix, bits BitDepth) Channel {
	t := scaleTable(bits)
	ch := Channel{Width: lm.Width, Height: lm.Height, Pix: make([]uint8, len(lm.Labels))}
	for i, l := range lm.Labels {
		ch.Pix[i] = t[l]
	}
	return ch
}

// Reconstruct rescales the three label matrices with factor 255/(2^bits-1),
// rounding to the nearest integer, and interleaves them into an RGB matrix of
// the same shape. bits must satisfy BitDepth.Validate.
func Reconstruct(r, g, b LabelMatrix, bits BitDepth) PixelMatrix {
	t := scaleTable(bits)
	pm := NewPixelMatrix(r.Width, r.Height)
	n := pm.Len()
	for i := 0; i < n; i++ {
		pm.Pix[3*i] = t[r.Labels[i]]
		pm.Pix[3*i+1] = t[g.Labels[i]]
		pm.Pix[3*i+2] = t[b.Labels[i]]
	}
	return pm
}
