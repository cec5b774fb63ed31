// Package bloom skips repeated batch inputs with a Bloom filter.
package bloom

import (
	"net/url"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// DefaultFalsePositiveRate is the rate used by NewSeen when given zero.
const DefaultFalsePositiveRate = 1e-6

// Seen remembers inputs. A false positive makes a new input look seen,
// with the configured probability; a seen input is never reported new.
// Seen is safe for concurrent use.
type Seen struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewSeen creates a Seen sized for n inputs at the given false positive
// rate.
func NewSeen(n uint, fpRate float64) *Seen {
	if n == 0 {
		n = 1
	}
	if fpRate <= 0 {
		fpRate = DefaultFalsePositiveRate
	}
	return &Seen{f: bloom.NewWithEstimates(n, fpRate)}
}

// First records input and reports whether it had not been seen before.
// URLs differing only in fragment or host case count as the same input.
func (s *Seen) First(input string) bool {
	key := Normalize(input)

	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.f.TestAndAddString(key)
}

// Count returns the approximate number of distinct inputs seen.
func (s *Seen) Count() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint(s.f.ApproximatedSize())
}

// Normalize returns the key input is remembered under. Absolute URLs lose
// their fragment and get a lower-case scheme and host; anything else is
// kept as is.
func Normalize(input string) string {
	u, err := url.Parse(input)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return input
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u.String()
}
