package checksum

import (
	"encoding/binary"
	"math"
	"slices"
	"strings"
	"unicode/utf8"
)

const (
	fieldKey   = "key"
	fieldValue = "value"
	fieldSalt  = "salt"

	fieldAttributes = "attributes"
)

// lengthPrefixSize is the width of every length prefix in the encoding.
const lengthPrefixSize = 4

// Encode returns the canonical byte representation of attrs.
//
// Entries are ordered by key using byte-wise comparison. Each entry is
// written as
//
//	uint32be(len(key)) || key || uint32be(len(value)) || value
//
// An empty or nil map encodes to an empty, non-nil slice. Keys and values
// must be valid UTF-8 no longer than math.MaxUint32 bytes; otherwise an
// *EncodingError is returned.
func Encode(attrs map[string]string) ([]byte, error) {
	keys, size, err := sortedKeys(attrs)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, size)
	for _, k := range keys {
		out = appendLengthPrefixed(out, k)
		out = appendLengthPrefixed(out, attrs[k])
	}

	return out, nil
}

// sortedKeys validates attrs and returns its keys in canonical order along
// with the size of the encoded output.
func sortedKeys(attrs map[string]string) ([]string, int, error) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}

	// strings.Compare orders by bytes, independent of locale.
	slices.SortFunc(keys, strings.Compare)

	size := 0
	for _, k := range keys {
		v := attrs[k]

		if err := checkText(fieldKey, k, k); err != nil {
			return nil, 0, err
		}

		if err := checkText(fieldValue, k, v); err != nil {
			return nil, 0, err
		}

		size += 2*lengthPrefixSize + len(k) + len(v)
	}

	return keys, size, nil
}

// checkText reports whether s can be part of the encoding. key names the
// attribute s belongs to and is only used for error reporting.
func checkText(field, key, s string) error {
	if uint64(len(s)) > math.MaxUint32 {
		return &EncodingError{Field: field, Key: key, Reason: "exceeds maximum length"}
	}

	if !utf8.ValidString(s) {
		return &EncodingError{Field: field, Key: key, Reason: "is not valid UTF-8"}
	}

	return nil
}

func appendLengthPrefixed(dst []byte, s string) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(s)))
	return append(dst, s...)
}
