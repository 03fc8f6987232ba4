// Package cache memoizes quantization results by image content and bit
// depth, so re-processing the same pixels at the same depth is free.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/radeeyate/histquant/software/quant"
)

const DefaultSize = 32

// Key identifies a result by the digest of the source pixels and the depth.
type Key struct {
	Digest [sha256.Size]byte
	Bits   quant.BitDepth
}

func (k Key) String() string {
	return fmt.Sprintf("%x@%d", k.Digest[:6], int(k.Bits))
}

// KeyFor hashes the dimensions and pixels of pm.
func KeyFor(pm quant.PixelMatrix, bits quant.BitDepth) Key {
	h := sha256.New()
	var dims [16]byte
	binary.BigEndian.PutUint64(dims[:8], uint64(pm.Width))
	binary.BigEndian.PutUint64(dims[8:], uint64(pm.Height))
	h.Write(dims[:])
	h.Write(pm.Pix)

	k := Key{Bits: bits}
	h.Sum(k.Digest[:0])
	return k
}

// Results is a bounded, concurrency-safe LRU of pipeline results.
type Results struct {
	lru     *lru.Cache[Key, *quant.Result]
	process func(quant.PixelMatrix, quant.BitDepth) (*quant.Result, error)

	hits, misses atomic.Int64
}

// New creates a cache holding at most size results.
func New(size int) (*Results, error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[Key, *quant.Result](size)
	if err != nil {
		return nil, fmt.Errorf("could not create result cache: %w", err)
	}
	return &Results{lru: c, process: quant.Process}, nil
}

// Get returns the result for pm at bits, computing and storing it on a miss.
// The returned bool is true for a cache hit. Results must be treated as
// read-only since they are shared between callers.
func (r *Results) Get(pm quant.PixelMatrix, bits quant.BitDepth) (*quant.Result, bool, error) {
	key := KeyFor(pm, bits)
	if res, ok := r.lru.Get(key); ok {
		r.hits.Add(1)
		return res, true, nil
	}
	r.misses.Add(1)

	res, err := r.process(pm, bits)
	if err != nil {
		return nil, false, err
	}
	r.lru.Add(key, res)
	return res, false, nil
}

func (r *Results) Len() int {
	return r.lru.Len()
}

// Stats returns the hit and miss counts so far.
func (r *Results) Stats() (hits, misses int64) {
	return r.hits.Load(), r.misses.Load()
}

func (r *Results) Purge() {
	r.lru.Purge()
}
