package checksumhttp

import "errors"

// Configuration errors.
var (
	// ErrNoChecksum is returned when SignConfig or VerifyConfig has no
	// checksum.Config.
	ErrNoChecksum = errors.New("checksumhttp: checksum config must not be nil")

	// ErrInvalidHeaderName is returned when a configured header name is not
	// a valid HTTP field name.
	ErrInvalidHeaderName = errors.New("checksumhttp: invalid header name")
)

// Attribute errors.
var (
	// ErrAmbiguousAttribute is returned when a query parameter occurs more
	// than once and therefore has no single value to sign.
	ErrAmbiguousAttribute = errors.New("checksumhttp: attribute has multiple values")

	// ErrReservedAttribute is returned when request attributes already
	// contain the reserved nonce attribute.
	ErrReservedAttribute = errors.New("checksumhttp: reserved attribute in request")
)

// Verification errors.
var (
	// ErrChecksumNotFound is returned when the checksum header is absent.
	ErrChecksumNotFound = errors.New("checksumhttp: checksum not found")

	// ErrChecksumInvalid is returned when the checksum does not match the
	// request.
	ErrChecksumInvalid = errors.New("checksumhttp: checksum verification failed")

	// ErrNonceRequired is returned when VerifyConfig.RequireNonce is set and
	// the request carries no nonce.
	ErrNonceRequired = errors.New("checksumhttp: nonce required")

	// ErrNonceReused is returned when the NonceChecker reports a nonce as
	// already used.
	ErrNonceReused = errors.New("checksumhttp: nonce has been used")
)
