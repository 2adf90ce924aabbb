package checksumhttp

import (
	"net/http"

	"github.com/vitalvas/reqsum/checksum"
)

// SignConfig configures request signing.
type SignConfig struct {
	// Checksum computes the checksum. Required.
	Checksum *checksum.Config

	// Header receives the checksum. Defaults to HeaderChecksum.
	Header string

	// Salt derives the salt. Defaults to EndpointSalt.
	Salt SaltFunc

	// Attributes extracts the signed attributes. Defaults to
	// QueryAttributes.
	Attributes AttributesFunc

	// Nonce, when true, generates a nonce per request, sends it in
	// NonceHeader and binds it into the checksum.
	Nonce bool

	// NonceHeader carries the nonce. Defaults to HeaderNonce.
	NonceHeader string

	// GenerateNonce returns a new nonce. Defaults to GenerateUUIDv4.
	GenerateNonce func(r *http.Request) string
}

// SignRequest computes the checksum of r and sets it in the configured
// header. With Nonce enabled the nonce header is set as well.
func SignRequest(r *http.Request, cfg SignConfig) error {
	if cfg.Checksum == nil {
		return ErrNoChecksum
	}

	parts, err := resolveParts(cfg.Header, cfg.NonceHeader, cfg.Salt, cfg.Attributes)
	if err != nil {
		return err
	}

	attrs, err := parts.attributes(r)
	if err != nil {
		return err
	}

	if err := checkReserved(attrs); err != nil {
		return err
	}

	if attrs == nil {
		attrs = make(map[string]string)
	}

	if cfg.Nonce {
		generate := cfg.GenerateNonce
		if generate == nil {
			generate = GenerateUUIDv4
		}

		nonce := generate(r)
		if err := bindNonce(attrs, nonce); err != nil {
			return err
		}

		r.Header.Set(parts.nonceHeader, nonce)
	}

	sum, err := cfg.Checksum.Checksum(attrs, parts.salt(r))
	if err != nil {
		return err
	}

	r.Header.Set(parts.header, sum)

	return nil
}
