package quant

import "fmt"

const (
	MinBitDepth BitDepth = 1
	MaxBitDepth BitDepth = 7
)

// BitDepth is the number of bits m used per quantized channel sample.
type BitDepth int

// Levels returns G = 2^m.
func (b BitDepth) Levels() int {
	return 1 << uint(b)
}

// Validate reports whether b lies in [MinBitDepth, MaxBitDepth]. Depth 0
// would give a single level and make the reconstruction scale undefined.
func (b BitDepth) Validate() error {
	if b < MinBitDepth || b > MaxBitDepth {
		return fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidBitDepth, int(b), MinBitDepth, MaxBitDepth)
	}
	return nil
}
