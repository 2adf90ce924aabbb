package checksum

import (
	"crypto/hmac"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
)

// Time binding markers appended after the canonical attributes.
const (
	untimedMarker byte = 0x00
	timedMarker   byte = 0x01
)

// Digest computes the keyed checksum over salt, canonical and an optional
// time bucket, and returns it as lowercase hex.
//
// canonical is expected to be the output of Encode. A nil bucket means the
// checksum is not time bound. Only the keyed algorithms are accepted; the
// legacy scheme does not operate on canonical bytes.
func Digest(alg Algorithm, secret []byte, salt string, canonical []byte, bucket *int64) (string, error) {
	if !alg.keyed() {
		return "", fmt.Errorf("%w: %s cannot digest canonical bytes", ErrUnsupportedAlgorithm, alg)
	}

	msg, err := digestMessage(salt, canonical)
	if err != nil {
		return "", err
	}

	return computeHMAC(alg, secret, msg, bucket), nil
}

// digestMessage builds the part of the HMAC message that does not depend
// on time.
func digestMessage(salt string, canonical []byte) ([]byte, error) {
	if err := checkText(fieldSalt, "", salt); err != nil {
		return nil, err
	}

	if uint64(len(canonical)) > math.MaxUint32 {
		return nil, &EncodingError{Field: fieldAttributes, Reason: "exceed maximum encoded length"}
	}

	msg := make([]byte, 0, 2*lengthPrefixSize+len(salt)+len(canonical)+9)
	msg = appendLengthPrefixed(msg, salt)
	msg = binary.BigEndian.AppendUint32(msg, uint32(len(canonical)))
	msg = append(msg, canonical...)

	return msg, nil
}

// computeHMAC finishes msg with the time marker and returns the hex MAC.
// msg is not modified.
func computeHMAC(alg Algorithm, secret, msg []byte, bucket *int64) string {
	var tail [9]byte

	n := 1
	if bucket == nil {
		tail[0] = untimedMarker
	} else {
		tail[0] = timedMarker
		binary.BigEndian.PutUint64(tail[1:], uint64(*bucket))
		n = len(tail)
	}

	h := hmac.New(alg.newHash(), secret)
	h.Write(msg)
	h.Write(tail[:n])

	return hex.EncodeToString(h.Sum(nil))
}
