// Package fair implements the commit-reveal primitive behind every random
// decision in the game: a keyed commitment published before the counterparty
// acts, a reveal that lets anyone recompute it, and unbiased sampling to feed
// it. The package never logs and never touches the process; all failures are
// returned as errors.
package fair

import (
	"fmt"
	"io"
	"math/bits"
)

// Sample returns a uniform integer in [0, max) read from r, which must be a
// cryptographically secure source such as crypto/rand.Reader.
//
// A plain remainder over the source would favor low values whenever max does
// not divide the source's span, so Sample masks the drawn bytes down to the
// smallest power of two covering max and rejects anything at or above max.
// Each retry keeps the accepted values exactly uniform.
func Sample(r io.Reader, max int) (int, error) {
	if max <= 0 {
		return 0, ErrInvalidRange
	}
	if max == 1 {
		return 0, nil
	}

	bitLen := bits.Len64(uint64(max - 1))
	byteLen := (bitLen + 7) / 8
	mask := uint64(1)<<uint(bitLen) - 1

	buf := make([]byte, byteLen)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return 0, fmt.Errorf("fair: read entropy: %w", err)
		}

		var v uint64
		for _, b := range buf {
			v = v<<8 | uint64(b)
		}
		v &= mask

		if v < uint64(max) {
			return int(v), nil
		}
	}
}
