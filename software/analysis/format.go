package analysis

import (
	"fmt"

	"github.com/radeeyate/histquant/software/quant"
)

// FormatBytes renders size with a binary unit, e.g. "1.50 KB".
func FormatBytes(size int) string {
	v := float64(size)
	for _, unit := range []string{"B", "KB", "MB"} {
		if v < 1024 && v > -1024 {
			return fmt.Sprintf("%.2f %s", v, unit)
		}
		v /= 1024
	}
	return fmt.Sprintf("%.2f GB", v)
}

// Verdict grades a PSNR value: above 30 dB is good, 20-30 dB fair.
func Verdict(psnr float64) string {
	switch {
	case psnr >= 30:
		return "High"
	case psnr >= 20:
		return "Medium"
	default:
		return "Low"
	}
}

type LevelRow struct {
	Bits   quant.BitDepth
	Levels int
	Range  string
}

// LevelTable lists the number of levels and label range of every supported
// bit depth, plus the unquantized 8-bit source.
func LevelTable() []LevelRow {
	rows := make([]LevelRow, 0, int(quant.MaxBitDepth)+1)
	for b := quant.MinBitDepth; b <= quant.MaxBitDepth+1; b++ {
		rows = append(rows, LevelRow{
			Bits:   b,
			Levels: b.Levels(),
			Range:  fmt.Sprintf("0-%d", b.Levels()-1),
		})
	}
	return rows
}
