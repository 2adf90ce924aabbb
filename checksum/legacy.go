package checksum

import (
	"crypto/sha512"
	"encoding/hex"
	"strconv"
)

// legacyPreimage assembles salt, the sorted pairs and the secret in the
// rc-protocol layout: salt || k1 || v1 || k2 || v2 ... || secret.
func legacyPreimage(secret []byte, attrs map[string]string, salt string) ([]byte, error) {
	if err := checkText(fieldSalt, "", salt); err != nil {
		return nil, err
	}

	keys, size, err := sortedKeys(attrs)
	if err != nil {
		return nil, err
	}

	pre := make([]byte, 0, len(salt)+size+len(secret)+20)
	pre = append(pre, salt...)
	for _, k := range keys {
		pre = append(pre, k...)
		pre = append(pre, attrs[k]...)
	}
	pre = append(pre, secret...)

	return pre, nil
}

// computeLegacy hashes pre followed by the decimal bucket, if any.
func computeLegacy(pre []byte, bucket *int64) string {
	h := sha512.New()
	h.Write(pre)

	if bucket != nil {
		h.Write(strconv.AppendInt(nil, *bucket, 10))
	}

	return hex.EncodeToString(h.Sum(nil))
}
