package checksumhttp

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/net/http/httpguts"
)

// Default header names.
const (
	HeaderChecksum = "X-Request-Checksum"
	HeaderNonce    = "X-Request-Nonce"
)

// NonceAttribute is the attribute key the nonce is bound to. Requests must
// not use it themselves.
const NonceAttribute = "@nonce"

// SaltFunc derives the salt for a request.
type SaltFunc func(r *http.Request) string

// AttributesFunc extracts the attributes to sign from a request. It must
// return a map the caller may modify.
type AttributesFunc func(r *http.Request) (map[string]string, error)

// EndpointSalt uses the request path as salt.
func EndpointSalt(r *http.Request) string {
	return r.URL.Path
}

// QueryAttributes returns the URL query parameters. A parameter given more
// than once yields ErrAmbiguousAttribute. A parameter without a value
// ("?flag") maps to the empty string.
func QueryAttributes(r *http.Request) (map[string]string, error) {
	query := r.URL.Query()

	attrs := make(map[string]string, len(query))
	for k, values := range query {
		if len(values) > 1 {
			return nil, fmt.Errorf("%w: %q", ErrAmbiguousAttribute, k)
		}

		attrs[k] = values[0]
	}

	return attrs, nil
}

// GenerateUUIDv4 returns a random UUID v4 string for use as a nonce.
func GenerateUUIDv4(_ *http.Request) string {
	return uuid.NewString()
}

// requestParts holds the resolved per-request settings shared by signing and
// verification.
type requestParts struct {
	header      string
	nonceHeader string
	salt        SaltFunc
	attributes  AttributesFunc
}

func resolveParts(header, nonceHeader string, salt SaltFunc, attributes AttributesFunc) (requestParts, error) {
	p := requestParts{
		header:      header,
		nonceHeader: nonceHeader,
		salt:        salt,
		attributes:  attributes,
	}

	if p.header == "" {
		p.header = HeaderChecksum
	}

	if p.nonceHeader == "" {
		p.nonceHeader = HeaderNonce
	}

	if p.salt == nil {
		p.salt = EndpointSalt
	}

	if p.attributes == nil {
		p.attributes = QueryAttributes
	}

	for _, name := range []string{p.header, p.nonceHeader} {
		if !httpguts.ValidHeaderFieldName(name) {
			return p, fmt.Errorf("%w: %q", ErrInvalidHeaderName, name)
		}
	}

	return p, nil
}

// checkReserved rejects attrs that already carry NonceAttribute. The nonce
// is only ever taken from the nonce header.
func checkReserved(attrs map[string]string) error {
	if _, ok := attrs[NonceAttribute]; ok {
		return fmt.Errorf("%w: %s", ErrReservedAttribute, NonceAttribute)
	}

	return nil
}

// bindNonce adds nonce to attrs under NonceAttribute.
func bindNonce(attrs map[string]string, nonce string) error {
	if err := checkReserved(attrs); err != nil {
		return err
	}

	attrs[NonceAttribute] = nonce

	return nil
}
