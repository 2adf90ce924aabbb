// Package checksum computes and validates keyed checksums over unordered
// sets of string attributes. It is a lightweight request-signing primitive:
// both parties share a secret, the sender attaches a checksum to a call and
// the receiver re-derives and compares it.
//
// # Pipeline
//
// A checksum is produced in three steps:
//
//   - Encode sorts the attributes by key (byte-wise) and serializes every
//     entry with big-endian uint32 length prefixes, so no two distinct maps
//     share an encoding.
//   - Digest feeds the salt, the canonical bytes and an optional time
//     bucket into HMAC keyed with the shared secret.
//   - The digest is rendered as lowercase hex.
//
// The HMAC message layout is:
//
//	uint32be(len(salt)) || salt ||
//	uint32be(len(canonical)) || canonical ||
//	0x00                              (time binding disabled)
//	0x01 || int64be(unix seconds)     (time binding enabled)
//
// # Computing and Validating
//
//	cfg, err := checksum.New(checksum.Options{
//	    SharedSecret:     []byte("Shared Secret Key"),
//	    UseTimeComponent: true,
//	    TimeDelta:        5,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sum, err := cfg.Checksum(map[string]string{"key1": "value1"}, "/api/users")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ok, err := cfg.Validate(map[string]string{"key1": "value1"}, "/api/users", sum)
//
// A mismatching checksum is reported as false with a nil error. Errors are
// reserved for input that cannot be encoded (see EncodingError).
//
// # Time Binding
//
// With UseTimeComponent set, the checksum is bound to the current Unix
// second. Validate accepts a checksum created up to TimeDelta seconds before
// or after the validation time, inclusive. Since the timestamp cannot be
// recovered from a hash, validation computes one digest per second in the
// window; keep TimeDelta small.
//
// The time source is a Clock and can be replaced in tests:
//
//	cfg, err := checksum.New(checksum.Options{
//	    SharedSecret:     secret,
//	    UseTimeComponent: true,
//	    TimeDelta:        5,
//	    Clock:            checksum.FixedClock(time.Unix(1700000000, 0)),
//	})
//
// # Algorithms
//
// Three algorithms are supported:
//
//   - hmac-sha256 (default)
//   - hmac-sha512
//   - legacy-sha512 (plain SHA-512 over salt, pairs, secret and decimal
//     timestamp, compatible with existing rc-protocol peers)
//
// The legacy scheme concatenates keys and values without delimiters, so
// distinct attribute sets may collide. Use it only to talk to peers that
// cannot be upgraded.
package checksum
