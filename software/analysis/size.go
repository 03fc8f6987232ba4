package analysis

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/radeeyate/histquant/software/quant"
)

// SizeStats compares the encoded size of an image before and after
// quantization.
type SizeStats struct {
	Original   int
	Compressed int
	Diff       int     // Original - Compressed; negative when the result grew
	Percent    float64 // Diff as a percentage of Original
}

func Sizes(original, compressed int) SizeStats {
	s := SizeStats{
		Original:   original,
		Compressed: compressed,
		Diff:       original - compressed,
	}
	if original > 0 {
		s.Percent = float64(s.Diff) * 100 / float64(original)
	}
	return s
}

// Reduced reports whether the quantized image is smaller.
func (s SizeStats) Reduced() bool {
	return s.Diff > 0
}

// PackedStats estimates how much storage the label planes need.
type PackedStats struct {
	Raw        int // 8 bits per sample
	Packed     int // bits per sample, MSB first, byte padded
	Compressed int // Packed after zstd
}

// PackLabels concatenates the label planes at bits bits per sample, most
// significant bit first, padding the final byte with zeros.
func PackLabels(planes []quant.LabelMatrix, bits quant.BitDepth) []byte {
	total := 0
	for _, lm := range planes {
		total += len(lm.Labels)
	}
	out := make([]byte, 0, (total*int(bits)+7)/8)

	var bitBuffer uint32
	var bitsInBuffer uint
	mask := uint32(1)<<uint(bits) - 1
	for _, lm := range planes {
		for _, l := range lm.Labels {
			bitBuffer = bitBuffer<<uint(bits) | uint32(l)&mask
			bitsInBuffer += uint(bits)
			for bitsInBuffer >= 8 {
				bitsInBuffer -= 8
				out = append(out, byte(bitBuffer>>bitsInBuffer))
				bitBuffer &= 1<<bitsInBuffer - 1
			}
		}
	}
	if bitsInBuffer > 0 {
		out = append(out, byte(bitBuffer<<(8-bitsInBuffer)))
	}
	return out
}

// UnpackLabels reverses PackLabels for n samples.
func UnpackLabels(data []byte, n int, bits quant.BitDepth) ([]uint8, error) {
	if need := (n*int(bits) + 7) / 8; len(data) < need {
		return nil, fmt.Errorf("unexpected end of packed data: have %d bytes, need %d", len(data), need)
	}
	out := make([]uint8, n)
	var bitBuffer uint32
	var bitsInBuffer uint
	idx := 0
	mask := uint32(1)<<uint(bits) - 1
	for i := range out {
		for bitsInBuffer < uint(bits) {
			bitBuffer = bitBuffer<<8 | uint32(data[idx])
			bitsInBuffer += 8
			idx++
		}
		bitsInBuffer -= uint(bits)
		out[i] = uint8(bitBuffer >> bitsInBuffer & mask)
		bitBuffer &= 1<<bitsInBuffer - 1
	}
	return out, nil
}

// PackedSize measures the label planes of a result packed at its bit depth
// and entropy coded with zstd.
func PackedSize(res *quant.Result) (PackedStats, error) {
	packed := PackLabels(res.Labels[:], res.Bits)

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return PackedStats{}, fmt.Errorf("could not create zstd encoder: %w", err)
	}
	defer enc.Close()

	return PackedStats{
		Raw:        len(res.Original.Pix),
		Packed:     len(packed),
		Compressed: len(enc.EncodeAll(packed, nil)),
	}, nil
}
