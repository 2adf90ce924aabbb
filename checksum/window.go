package checksum

import (
	"crypto/subtle"
	"time"
)

// Window is the set of time buckets accepted around a reference time.
// Buckets are Unix seconds; a Window with Delta d spans [now-d, now+d].
type Window struct {
	Delta int64
}

// Buckets returns every bucket in the window around now in ascending
// order. The result contains 2*Delta+1 entries; a negative Delta is
// treated as zero.
func (w Window) Buckets(now time.Time) []int64 {
	center := now.Unix()
	delta := max(w.Delta, 0)

	out := make([]int64, 0, 2*delta+1)
	for b := center - delta; b <= center+delta; b++ {
		out = append(out, b)
	}

	return out
}

// Match reports whether candidate equals compute(b) for any bucket b in the
// window around now. Every bucket is computed and compared in constant time
// so the running time does not depend on which bucket, if any, matched.
func (w Window) Match(now time.Time, candidate string, compute func(bucket int64) string) bool {
	c := []byte(candidate)

	matched := 0
	for _, b := range w.Buckets(now) {
		matched |= subtle.ConstantTimeCompare([]byte(compute(b)), c)
	}

	return matched == 1
}
