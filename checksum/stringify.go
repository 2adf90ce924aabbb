package checksum

import "fmt"

// Stringify converts a map with arbitrary values into attributes by
// formatting every value with fmt.Sprint. Peers must agree on the textual
// form of non-string values; floats in particular format differently
// across languages.
func Stringify[V any](m map[string]V) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = fmt.Sprint(v)
	}

	return out
}
