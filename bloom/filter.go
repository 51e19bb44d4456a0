// Package bloom provides approximate token membership using Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter wraps a Bloom filter over index tokens.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected tokens
// with the given false positive rate. A zero n is treated as one.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds a token to the filter.
func (f *Filter) Add(token string) {
	f.f.AddString(token)
}

// MayContain returns true if the token might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) MayContain(token string) bool {
	return f.f.TestString(token)
}

// EstimatedCount returns the approximate number of distinct tokens added.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
