package checksumhttp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vitalvas/reqsum/checksum"
)

// NonceChecker reports whether nonce was seen before and records it. It is
// called only after the checksum has been verified.
type NonceChecker func(ctx context.Context, nonce string) (used bool, err error)

// VerifyConfig configures request verification.
type VerifyConfig struct {
	// Checksum validates the checksum. Required.
	Checksum *checksum.Config

	// Header carries the checksum. Defaults to HeaderChecksum.
	Header string

	// Salt derives the salt. Defaults to EndpointSalt.
	Salt SaltFunc

	// Attributes extracts the signed attributes. Defaults to
	// QueryAttributes.
	Attributes AttributesFunc

	// NonceHeader carries the nonce. Defaults to HeaderNonce.
	NonceHeader string

	// RequireNonce rejects requests without a nonce.
	RequireNonce bool

	// NonceChecker, when set, rejects nonces that were already used.
	NonceChecker NonceChecker
}

// VerifyRequest checks the checksum carried by r.
func VerifyRequest(r *http.Request, cfg VerifyConfig) error {
	if cfg.Checksum == nil {
		return ErrNoChecksum
	}

	parts, err := resolveParts(cfg.Header, cfg.NonceHeader, cfg.Salt, cfg.Attributes)
	if err != nil {
		return err
	}

	candidate := r.Header.Get(parts.header)
	if candidate == "" {
		return ErrChecksumNotFound
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

	nonce := r.Header.Get(parts.nonceHeader)
	if nonce != "" {
		if err := bindNonce(attrs, nonce); err != nil {
			return err
		}
	} else if cfg.RequireNonce {
		return ErrNonceRequired
	}

	ok, err := cfg.Checksum.Validate(attrs, parts.salt(r), candidate)
	if err != nil {
		return err
	}

	if !ok {
		return ErrChecksumInvalid
	}

	if nonce != "" && cfg.NonceChecker != nil {
		used, err := cfg.NonceChecker(r.Context(), nonce)
		if err != nil {
			return fmt.Errorf("checksumhttp: nonce check: %w", err)
		}

		if used {
			return ErrNonceReused
		}
	}

	return nil
}
