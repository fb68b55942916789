// Package bloom provides a space-efficient probabilistic set membership filter.
//
// A Bloom filter answers "definitely not in set" or "possibly in set" with a
// tunable false-positive rate. It is useful as a pre-filter to avoid expensive
// exact lookups (map access, disk I/O, network round trips).
//
// This implementation uses the double-hashing technique from Kirsch and
// Mitzenmacher (2006): two base hashes derive k bit positions via
// h(i) = h1 + i*h2 mod m, avoiding k independent hash functions. The base
// pair comes from a pluggable DigestScheme; every scheme is unseeded, so an
// element maps to the same positions in every process and after restarts.
//
// A Filter is insert-only: bits flip to one and are never cleared, which is
// what rules out false negatives. There is no clear or delete operation.
//
// A Filter is owned by a single goroutine. Operations mutate the bit array in
// place without synchronization; callers sharing a filter across goroutines
// must serialize access themselves.
package bloom

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

const (
	// bitsPerWord is the number of bits in each uint64 word.
	bitsPerWord = 64

	// percentScale converts a ratio to a percentage in summaries.
	percentScale = 100
)

// ErrInvalidParameter is the single construction-time error kind. Every
// rejected argument wraps it with detail, so errors.Is against this sentinel
// matches any validation failure.
var ErrInvalidParameter = errors.New("bloom: invalid parameter")

// Filter is an insert-only Bloom filter backed by a packed uint64 bit array.
type Filter struct {
	bits   []uint64
	scheme DigestScheme
	m      uint   // Total bits.
	k      uint   // Number of positions derived per element.
	count  uint64 // Add calls, duplicates included.
}

// New creates a filter with an explicit bit capacity and hash count, using
// the default crypto digest scheme. Returns an error if either argument is
// zero.
func New(capacity, hashCount uint) (*Filter, error) {
	return NewWithDigest(capacity, hashCount, CryptoScheme{})
}

// NewWithDigest creates a filter like New but with an explicit digest scheme.
func NewWithDigest(capacity, hashCount uint, scheme DigestScheme) (*Filter, error) {
	if capacity == 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", ErrInvalidParameter)
	}

	if hashCount == 0 {
		return nil, fmt.Errorf("%w: hash count must be positive", ErrInvalidParameter)
	}

	if scheme == nil {
		return nil, fmt.Errorf("%w: nil digest scheme", ErrInvalidParameter)
	}

	words := (capacity + bitsPerWord - 1) / bitsPerWord

	return &Filter{
		bits:   make([]uint64, words),
		scheme: scheme,
		m:      capacity,
		k:      hashCount,
	}, nil
}

// NewWithEstimates creates a filter sized for n expected elements at a
// false-positive rate of fp. Optimizer failures propagate unchanged.
func NewWithEstimates(expectedElements uint, falsePositiveRate float64) (*Filter, error) {
	m, err := OptimalM(expectedElements, falsePositiveRate)
	if err != nil {
		return nil, err
	}

	k, err := OptimalK(m, expectedElements)
	if err != nil {
		return nil, err
	}

	return New(m, k)
}

// Capacity returns the size of the bit array in bits.
func (f *Filter) Capacity() uint {
	return f.m
}

// HashCount returns the number of bit positions derived per element.
func (f *Filter) HashCount() uint {
	return f.k
}

// SchemeName returns the name of the digest scheme in use.
func (f *Filter) SchemeName() string {
	return f.scheme.Name()
}

// Add inserts data into the filter. Setting an already-set bit is a no-op,
// but the insert counter advances on every call, duplicates included.
func (f *Filter) Add(data []byte) {
	h1, h2 := hashPair(f.scheme, data)
	setBits(f.bits, f.m, f.k, h1, h2)

	f.count++
}

// AddString inserts s into the filter.
func (f *Filter) AddString(s string) {
	f.Add([]byte(s))
}

// AddBulk inserts multiple elements into the filter.
func (f *Filter) AddBulk(items [][]byte) {
	for _, item := range items {
		f.Add(item)
	}
}

// Test reports whether data is possibly in the filter. A return value of false
// guarantees the element was never added. A return value of true means the
// element might have been added (subject to the configured false-positive rate).
func (f *Filter) Test(data []byte) bool {
	h1, h2 := hashPair(f.scheme, data)

	return testBits(f.bits, f.m, f.k, h1, h2)
}

// TestString reports whether s is possibly in the filter.
func (f *Filter) TestString(s string) bool {
	return f.Test([]byte(s))
}

// Contains reports whether data is possibly in the filter. It is the
// container-style alias for Test.
func (f *Filter) Contains(data []byte) bool {
	return f.Test(data)
}

// TestAndAdd tests for membership and then adds the element, computing the
// digest pair once. It returns true if the element was possibly already
// present before this call.
func (f *Filter) TestAndAdd(data []byte) bool {
	h1, h2 := hashPair(f.scheme, data)

	present := true

	for i := uint(0); i < f.k; i++ {
		pos := (h1 + uint64(i)*h2) % uint64(f.m)
		wordIdx := pos / bitsPerWord
		bitMask := uint64(1) << (pos % bitsPerWord)

		if f.bits[wordIdx]&bitMask == 0 {
			present = false
			f.bits[wordIdx] |= bitMask
		}
	}

	f.count++

	return present
}

// TestBulk tests multiple elements for membership. Returns a bool slice of the
// same length as items, where each entry indicates possible presence, or nil
// for an empty query.
func (f *Filter) TestBulk(items [][]byte) []bool {
	if len(items) == 0 {
		return nil
	}

	results := make([]bool, len(items))
	for idx, item := range items {
		results[idx] = f.Test(item)
	}

	return results
}

// Count returns the number of Add calls made against the filter, duplicates
// included. It is a call counter, not a distinct-element count.
func (f *Filter) Count() uint64 {
	return f.count
}

// ApproximatedSize estimates the number of distinct elements added, derived
// from the fill ratio. Unlike Count it does not grow on duplicate insertions.
// A saturated filter has no finite estimate; MaxUint64 is returned.
func (f *Filter) ApproximatedSize() uint64 {
	ones := f.setBitCount()
	if ones == 0 {
		return 0
	}

	if ones >= uint64(f.m) {
		return math.MaxUint64
	}

	fill := float64(ones) / float64(f.m)

	return uint64(math.Round(-float64(f.m) / float64(f.k) * math.Log(1-fill)))
}

// EstimateFalsePositiveRate returns the expected false-positive probability
// at the current load: (1 - e^(-k*n/m))^k with the insert call counter as n.
// Duplicate insertions inflate n, so the estimate reads high when duplicates
// are frequent; it is an approximation, not a measurement. An empty filter
// reports 0.
func (f *Filter) EstimateFalsePositiveRate() float64 {
	if f.count == 0 {
		return 0
	}

	exponent := -float64(f.k) * float64(f.count) / float64(f.m)

	return math.Pow(1-math.Exp(exponent), float64(f.k))
}

// FillRatio returns the fraction of bits that are set, in the range [0, 1].
// It reaches 1 only under heavy collision load; a saturated filter answers
// true for every query and remains valid.
func (f *Filter) FillRatio() float64 {
	return float64(f.setBitCount()) / float64(f.m)
}

// String implements fmt.Stringer with a one-line configuration summary.
func (f *Filter) String() string {
	return fmt.Sprintf("BloomFilter(capacity=%d, hashes=%d, inserted=%d, fill=%.2f%%)",
		f.m, f.k, f.count, f.FillRatio()*percentScale)
}

// setBitCount returns the number of set bits. Positions above m are never
// touched, so counting whole words is exact.
func (f *Filter) setBitCount() uint64 {
	total := uint64(0)
	for _, word := range f.bits {
		total += uint64(bits.OnesCount64(word))
	}

	return total
}

// setBits sets the k bit positions derived from h1 and h2 in the bit array.
func setBits(arr []uint64, m, k uint, h1, h2 uint64) {
	for i := uint(0); i < k; i++ {
		pos := (h1 + uint64(i)*h2) % uint64(m)
		arr[pos/bitsPerWord] |= 1 << (pos % bitsPerWord)
	}
}

// testBits returns true if all k bit positions derived from h1 and h2 are set.
func testBits(arr []uint64, m, k uint, h1, h2 uint64) bool {
	for i := uint(0); i < k; i++ {
		pos := (h1 + uint64(i)*h2) % uint64(m)
		if arr[pos/bitsPerWord]&(1<<(pos%bitsPerWord)) == 0 {
			return false
		}
	}

	return true
}
