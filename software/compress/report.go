package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/radeeyate/histquant/software/analysis"
	"github.com/radeeyate/histquant/software/quant"
)

type inputInfo struct {
	Path    string
	Format  string
	Source  image.Rectangle
	Width   int
	Height  int
	PNGSize int
}

type report struct {
	Input   inputInfo
	Result  *quant.Result
	Sizes   analysis.SizeStats
	Packed  analysis.PackedStats
	Palette []analysis.RGB
	Sample  int
	Files   []string
}

type sweepRow struct {
	Bits    quant.BitDepth
	Quality quant.QualityReport
	Size    int
}

func printReport(w io.Writer, r report) {
	res := r.Result
	q := res.Quality

	fmt.Fprintf(w, "\n--- Quantization Report ---\n")
	fmt.Fprintf(w, "  Input: %s (%s, %dx%d", r.Input.Path, r.Input.Format, r.Input.Source.Dx(), r.Input.Source.Dy())
	if r.Input.Width != r.Input.Source.Dx() || r.Input.Height != r.Input.Source.Dy() {
		fmt.Fprintf(w, ", resized to %dx%d", r.Input.Width, r.Input.Height)
	}
	fmt.Fprintf(w, ")\n")
	fmt.Fprintf(w, "  Bit Depth: %d Bit (%d Level)\n", int(res.Bits), res.Bits.Levels())

	lossy := "Perfect"
	if q.MSE > 0 {
		lossy = "Lossy"
	}
	fmt.Fprintf(w, "  MSE: %.2f (%s)\n", q.MSE, lossy)
	fmt.Fprintf(w, "  PSNR: %.2f dB (%s)\n", q.PSNR, analysis.Verdict(q.PSNR))
	perChannel := quant.EvaluateChannels(res.Original, res.Reconstructed)
	fmt.Fprintf(w, "  Per Channel:")
	for c, cq := range perChannel {
		fmt.Fprintf(w, " %s MSE %.2f / %.2f dB;", strings.ToUpper(channelNames[c]), cq.MSE, cq.PSNR)
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "  Effective Levels:")
	for c, lm := range res.Labels {
		fmt.Fprintf(w, " %s=%d", strings.ToUpper(channelNames[c]), lm.Levels)
	}
	fmt.Fprintf(w, "\n")

	s := r.Sizes
	arrow := "↑"
	if s.Reduced() {
		arrow = "↓"
	}
	diff := s.Diff
	if diff < 0 {
		diff = -diff
	}
	fmt.Fprintf(w, "  File Size (PNG): %s -> %s (%s %s, %.1f%%)\n",
		analysis.FormatBytes(s.Original), analysis.FormatBytes(s.Compressed), arrow, analysis.FormatBytes(diff), s.Percent)
	fmt.Fprintf(w, "  Label Storage: raw %s, packed %s, zstd %s\n",
		analysis.FormatBytes(r.Packed.Raw), analysis.FormatBytes(r.Packed.Packed), analysis.FormatBytes(r.Packed.Compressed))

	if len(r.Palette) > 0 {
		hex := make([]string, len(r.Palette))
		for i, c := range r.Palette {
			hex[i] = c.Hex()
		}
		fmt.Fprintf(w, "  Palette Sample: %s\n", strings.Join(hex, " "))
	}

	red := res.Labels[quant.Red]
	fmt.Fprintf(w, "\n  Label Statistics & Codebook (R):\n")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\tLabel\tCount\tPercent\tMean\tDisplay\t\n")
	cb := quant.BuildCodebook(res.Original.Channel(quant.Red), red)
	display := quant.DisplayChannel(quant.LabelMatrix{
		Width: red.Levels, Height: 1, Labels: levelRamp(red.Levels), Levels: red.Levels,
	}, res.Bits)
	for _, st := range quant.DecodeStats(red) {
		mean, _ := cb.Lookup(st.Label)
		fmt.Fprintf(tw, "\t%d\t%d\t%.2f%%\t%.2f\t%d\t\n", st.Label, st.Count, st.Percent, mean, display.Pix[st.Label])
	}
	tw.Flush()

	if sample := analysis.LabelSample(red, r.Sample, r.Sample); len(sample) > 0 {
		fmt.Fprintf(w, "\n  Raw Labels (R, %dx%d, values 0-%d):\n", len(sample), len(sample[0]), res.Bits.Levels()-1)
		for _, row := range sample {
			cells := make([]string, len(row))
			for i, l := range row {
				cells[i] = fmt.Sprintf("%3d", l)
			}
			fmt.Fprintf(w, "   %s\n", strings.Join(cells, " "))
		}
	}

	if len(r.Files) > 0 {
		fmt.Fprintf(w, "\n  Written:\n")
		for _, f := range r.Files {
			fmt.Fprintf(w, "   %s\n", f)
		}
	}
	fmt.Fprintf(w, "--- End Quantization Report ---\n")
}

func levelRamp(n int) []uint8 {
	out := make([]uint8, n)
	for i := range out {
		out[i] = uint8(i)
	}
	return out
}

// printSweep tabulates quality against bit depth; MSE is expected, though
// not guaranteed, to fall as the depth grows.
func printSweep(w io.Writer, path string, rows []sweepRow) {
	table := analysis.LevelTable()
	ranges := make(map[quant.BitDepth]string, len(table))
	for _, lr := range table {
		ranges[lr.Bits] = lr.Range
	}

	fmt.Fprintf(w, "\n--- Bit Depth Sweep: %s ---\n", path)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\tBits\tLevels\tLabels\tMSE\tPSNR (dB)\tQuality\tPNG Size\t\n")
	for _, row := range rows {
		fmt.Fprintf(tw, "\t%d\t%d\t%s\t%.2f\t%.2f\t%s\t%s\t\n",
			int(row.Bits), row.Bits.Levels(), ranges[row.Bits], row.Quality.MSE, row.Quality.PSNR,
			analysis.Verdict(row.Quality.PSNR), analysis.FormatBytes(row.Size))
	}
	tw.Flush()
	src := table[len(table)-1]
	fmt.Fprintf(w, "  Source: %d Bit, %d Levels (%s)\n", int(src.Bits), src.Levels, src.Range)
	fmt.Fprintf(w, "--- End Bit Depth Sweep ---\n")
}

func writeHistogramCSV(path string, bins []analysis.HistogramBin) error {
	outFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create file '%s': %w", path, err)
	}
	defer outFile.Close()

	writer := bufio.NewWriter(outFile)
	cw := csv.NewWriter(writer)
	if err := cw.Write([]string{"value", "original", "reconstructed"}); err != nil {
		return fmt.Errorf("could not write content to file '%s': %w", path, err)
	}
	for _, b := range bins {
		record := []string{
			strconv.Itoa(b.Value),
			strconv.FormatFloat(b.Original, 'f', 6, 64),
			strconv.FormatFloat(b.Reconstructed, 'f', 6, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("could not write content to file '%s': %w", path, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("could not write content to file '%s': %w", path, err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("could not flush data to file '%s': %w", path, err)
	}
	return nil
}
