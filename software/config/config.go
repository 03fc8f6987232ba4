// Package config assembles the command-line settings from an optional .env
// file, HISTQUANT_* environment variables and flags, in increasing order of
// precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/radeeyate/histquant/software/cache"
	"github.com/radeeyate/histquant/software/imageio"
	"github.com/radeeyate/histquant/software/quant"
)

var (
	ErrNoInput     = errors.New("config: an input file must be specified")
	ErrInvalidBits = errors.New("config: invalid bit depth")
	ErrInvalidSize = errors.New("config: sizes must not be negative")
)

const envPrefix = "HISTQUANT_"

type Config struct {
	Bits        []quant.BitDepth
	MaxSide     int
	BlurSigma   float64
	OutputDir   string
	PaletteSize int
	CacheSize   int
	ThumbSide   int
	SampleSide  int
	Inputs      []string
}

func defaults() Config {
	return Config{
		Bits:        []quant.BitDepth{2},
		MaxSide:     imageio.DefaultMaxSide,
		OutputDir:   ".",
		PaletteSize: 8,
		CacheSize:   cache.DefaultSize,
		ThumbSide:   256,
		SampleSide:  15,
	}
}

// Load builds a Config for the given command-line arguments (without the
// program name). A missing .env file is not an error.
func Load(args []string) (*Config, error) {
	return load(".env", args, os.Stderr)
}

func load(envFile string, args []string, usage io.Writer) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load %s: %w", envFile, err)
	}

	cfg := defaults()
	if err := cfg.fromEnv(); err != nil {
		return nil, err
	}

	bits := formatBits(cfg.Bits)
	sweep := false
	fsFlags := flag.NewFlagSet("histquant", flag.ContinueOnError)
	fsFlags.SetOutput(usage)
	fsFlags.StringVar(&bits, "bits", bits, "bit depth per channel, 1-7, or a comma separated list")
	fsFlags.BoolVar(&sweep, "sweep", false, "process every bit depth from 1 to 7")
	fsFlags.IntVar(&cfg.MaxSide, "max-side", cfg.MaxSide, "scale inputs down to this longest side (0 disables)")
	fsFlags.Float64Var(&cfg.BlurSigma, "blur", cfg.BlurSigma, "Gaussian pre-filter sigma (0 disables)")
	fsFlags.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "directory for output images")
	fsFlags.IntVar(&cfg.PaletteSize, "palette", cfg.PaletteSize, "number of palette colours to sample")
	fsFlags.IntVar(&cfg.CacheSize, "cache", cfg.CacheSize, "number of results kept in memory")
	fsFlags.IntVar(&cfg.ThumbSide, "thumb", cfg.ThumbSide, "thumbnail longest side (0 disables)")
	fsFlags.IntVar(&cfg.SampleSide, "sample", cfg.SampleSide, "side of the raw label sample window")
	if err := fsFlags.Parse(args); err != nil {
		return nil, err
	}

	if sweep {
		cfg.Bits = allBits()
	} else {
		parsed, err := ParseBits(bits)
		if err != nil {
			return nil, err
		}
		cfg.Bits = parsed
	}
	cfg.Inputs = fsFlags.Args()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) fromEnv() error {
	if v, ok := lookup("BITS"); ok {
		bits, err := ParseBits(v)
		if err != nil {
			return err
		}
		c.Bits = bits
	}
	for name, dst := range map[string]*int{
		"MAX_SIDE":     &c.MaxSide,
		"PALETTE_SIZE": &c.PaletteSize,
		"CACHE_SIZE":   &c.CacheSize,
		"THUMB_SIDE":   &c.ThumbSide,
		"SAMPLE_SIDE":  &c.SampleSide,
	} {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s %q: %w", envPrefix, name, v, err)
		}
		*dst = n
	}
	if v, ok := lookup("BLUR_SIGMA"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sBLUR_SIGMA %q: %w", envPrefix, v, err)
		}
		c.BlurSigma = f
	}
	if v, ok := lookup("OUTPUT_DIR"); ok {
		c.OutputDir = v
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
}

// Validate checks ranges that flags and the environment cannot express.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}
	if len(c.Bits) == 0 {
		return fmt.Errorf("%w: none given", ErrInvalidBits)
	}
	for _, b := range c.Bits {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidBits, err)
		}
	}
	if c.MaxSide < 0 || c.BlurSigma < 0 || c.PaletteSize < 0 || c.CacheSize < 0 || c.ThumbSide < 0 || c.SampleSide < 0 {
		return ErrInvalidSize
	}
	return nil
}

// ParseBits reads "3" or "1,2,4" into bit depths, rejecting anything outside
// the supported range and dropping duplicates.
func ParseBits(s string) ([]quant.BitDepth, error) {
	var out []quant.BitDepth
	seen := make(map[quant.BitDepth]bool)
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidBits, field)
		}
		b := quant.BitDepth(n)
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBits, err)
		}
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty list", ErrInvalidBits)
	}
	return out, nil
}

func formatBits(bits []quant.BitDepth) string {
	parts := make([]string, len(bits))
	for i, b := range bits {
		parts[i] = strconv.Itoa(int(b))
	}
	return strings.Join(parts, ",")
}

func allBits() []quant.BitDepth {
	var out []quant.BitDepth
	for b := quant.MinBitDepth; b <= quant.MaxBitDepth; b++ {
		out = append(out, b)
	}
	return out
}
