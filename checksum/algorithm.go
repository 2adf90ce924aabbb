package checksum

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
)

// Algorithm identifies the digest construction used for checksums.
type Algorithm string

const (
	// AlgorithmHMACSHA256 is HMAC using SHA-256. This is the default.
	AlgorithmHMACSHA256 Algorithm = "hmac-sha256"

	// AlgorithmHMACSHA512 is HMAC using SHA-512.
	AlgorithmHMACSHA512 Algorithm = "hmac-sha512"

	// AlgorithmLegacySHA512 is the unkeyed SHA-512 concatenation scheme of
	// rc-protocol v1. The secret is appended to the message
	// instead of keying a MAC.
	AlgorithmLegacySHA512 Algorithm = "legacy-sha512"
)

// DefaultAlgorithm is used when Options.Algorithm is empty.
const DefaultAlgorithm = AlgorithmHMACSHA256

// String returns the algorithm identifier.
func (a Algorithm) String() string {
	return string(a)
}

// ParseAlgorithm returns the Algorithm for name. An empty name yields
// DefaultAlgorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	if name == "" {
		return DefaultAlgorithm, nil
	}

	alg := Algorithm(name)
	if alg.newHash() == nil {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, name)
	}

	return alg, nil
}

// Size returns the length of the hex encoded checksum in characters.
func (a Algorithm) Size() int {
	h := a.newHash()
	if h == nil {
		return 0
	}

	return h().Size() * 2
}

// newHash returns the hash constructor behind a, or nil when a is unknown.
func (a Algorithm) newHash() func() hash.Hash {
	switch a {
	case AlgorithmHMACSHA256:
		return sha256.New
	case AlgorithmHMACSHA512, AlgorithmLegacySHA512:
		return sha512.New
	default:
		return nil
	}
}

func (a Algorithm) keyed() bool {
	return a == AlgorithmHMACSHA256 || a == AlgorithmHMACSHA512
}
