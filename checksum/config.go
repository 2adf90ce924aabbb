package checksum

import (
	"crypto/subtle"
	"fmt"
	"time"
)

const (
	// DefaultTimeDelta is the tolerance in seconds suggested for
	// time-bound checksums between two servers.
	DefaultTimeDelta = 5

	// MaxTimeDelta bounds Options.TimeDelta. Validation computes one digest
	// per second of tolerance in each direction.
	MaxTimeDelta = 3600
)

// Options configures a Config.
type Options struct {
	// SharedSecret is the key known to both partners. Required. It is
	// copied by New.
	SharedSecret []byte

	// UseTimeComponent binds checksums to the current Unix second, which
	// prevents a captured checksum from being replayed later.
	UseTimeComponent bool

	// TimeDelta is the number of seconds a partner's clock may deviate.
	// Only used when UseTimeComponent is true. Zero accepts the exact
	// second only.
	TimeDelta int64

	// Algorithm selects the digest. Defaults to DefaultAlgorithm.
	Algorithm Algorithm

	// Clock supplies the current time. Defaults to SystemClock.
	Clock Clock
}

// DefaultOptions returns Options with time binding enabled and a tolerance
// of DefaultTimeDelta seconds.
func DefaultOptions(secret []byte) Options {
	return Options{
		SharedSecret:     secret,
		UseTimeComponent: true,
		TimeDelta:        DefaultTimeDelta,
	}
}

// Config computes and validates checksums for a single partner. It is
// immutable and safe for concurrent use.
type Config struct {
	secret    []byte
	timed     bool
	timeDelta int64
	alg       Algorithm
	clock     Clock
}

// New validates opts and returns a Config.
func New(opts Options) (*Config, error) {
	if len(opts.SharedSecret) == 0 {
		return nil, ErrEmptySecret
	}

	if opts.TimeDelta < 0 {
		return nil, ErrNegativeTimeDelta
	}

	if opts.TimeDelta > MaxTimeDelta {
		return nil, fmt.Errorf("%w: %d exceeds %d seconds", ErrTimeDeltaTooLarge, opts.TimeDelta, MaxTimeDelta)
	}

	alg, err := ParseAlgorithm(string(opts.Algorithm))
	if err != nil {
		return nil, err
	}

	clock := opts.Clock
	if clock == nil {
		clock = SystemClock
	}

	secret := make([]byte, len(opts.SharedSecret))
	copy(secret, opts.SharedSecret)

	return &Config{
		secret:    secret,
		timed:     opts.UseTimeComponent,
		timeDelta: opts.TimeDelta,
		alg:       alg,
		clock:     clock,
	}, nil
}

// Algorithm returns the digest algorithm.
func (c *Config) Algorithm() Algorithm { return c.alg }

// UseTimeComponent reports whether checksums are time bound.
func (c *Config) UseTimeComponent() bool { return c.timed }

// TimeDelta returns the validation tolerance in seconds.
func (c *Config) TimeDelta() int64 { return c.timeDelta }

// Checksum returns the checksum of attrs and salt. When time binding is
// enabled the checksum is bound to the current time of the configured
// Clock.
func (c *Config) Checksum(attrs map[string]string, salt string) (string, error) {
	return c.ChecksumAt(attrs, salt, c.clock.Now())
}

// ChecksumAt is like Checksum but binds to t instead of the current time.
// t is ignored when time binding is disabled.
func (c *Config) ChecksumAt(attrs map[string]string, salt string, t time.Time) (string, error) {
	compute, err := c.prepare(attrs, salt)
	if err != nil {
		return "", err
	}

	if !c.timed {
		return compute(nil), nil
	}

	bucket := t.Unix()

	return compute(&bucket), nil
}

// Validate reports whether candidate is a valid checksum of attrs and salt.
// A mismatch is not an error; an error is returned only when the input
// cannot be encoded.
func (c *Config) Validate(attrs map[string]string, salt, candidate string) (bool, error) {
	return c.ValidateAt(attrs, salt, candidate, c.clock.Now())
}

// ValidateAt is like Validate but uses now as the validation time.
func (c *Config) ValidateAt(attrs map[string]string, salt, candidate string, now time.Time) (bool, error) {
	compute, err := c.prepare(attrs, salt)
	if err != nil {
		return false, err
	}

	if !c.timed {
		return subtle.ConstantTimeCompare([]byte(compute(nil)), []byte(candidate)) == 1, nil
	}

	window := Window{Delta: c.timeDelta}

	return window.Match(now, candidate, func(bucket int64) string {
		return compute(&bucket)
	}), nil
}

// prepare encodes the time independent part of the digest once and
// returns a function that completes it for a given bucket.
func (c *Config) prepare(attrs map[string]string, salt string) (func(bucket *int64) string, error) {
	if c.alg == AlgorithmLegacySHA512 {
		pre, err := legacyPreimage(c.secret, attrs, salt)
		if err != nil {
			return nil, err
		}

		return func(bucket *int64) string {
			return computeLegacy(pre, bucket)
		}, nil
	}

	canonical, err := Encode(attrs)
	if err != nil {
		return nil, err
	}

	msg, err := digestMessage(salt, canonical)
	if err != nil {
		return nil, err
	}

	return func(bucket *int64) string {
		return computeHMAC(c.alg, c.secret, msg, bucket)
	}, nil
}

// String describes the configuration without the secret.
func (c *Config) String() string {
	return fmt.Sprintf("checksum.Config{algorithm: %s, time: %t, delta: %d, secret: [REDACTED]}",
		c.alg, c.timed, c.timeDelta)
}

// GoString implements fmt.GoStringer so %#v does not print the secret.
func (c *Config) GoString() string {
	return c.String()
}
