package checksumhttp

import "net/http"

// Transport is an http.RoundTripper that attaches a checksum to outgoing
// requests.
//
// Requests that already carry the checksum header are treated as signed by
// the caller and forwarded untouched. Every other request, including each
// hop of a redirect, is signed against its own endpoint.
type Transport struct {
	base   http.RoundTripper
	config SignConfig
	header string
}

// NewTransport creates a signing Transport that delegates to base. When base
// is nil, a clone of http.DefaultTransport is used.
//
// It returns ErrNoChecksum if cfg.Checksum is nil and ErrInvalidHeaderName
// for unusable header names, so misconfiguration surfaces before the first
// request.
func NewTransport(base http.RoundTripper, cfg SignConfig) (*Transport, error) {
	if cfg.Checksum == nil {
		return nil, ErrNoChecksum
	}

	parts, err := resolveParts(cfg.Header, cfg.NonceHeader, cfg.Salt, cfg.Attributes)
	if err != nil {
		return nil, err
	}

	if base == nil {
		base = http.DefaultTransport.(*http.Transport).Clone()
	}

	return &Transport{
		base:   base,
		config: cfg,
		header: parts.header,
	}, nil
}

// RoundTrip signs a clone of req and delegates to the base transport.
// The clone gets its own body from GetBody when available, so an
// AttributesFunc reading the body leaves the caller's body intact.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(t.header) != "" {
		return t.base.RoundTrip(req)
	}

	clone := req.Clone(req.Context())

	if clone.Body != nil && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}

		clone.Body = body
	}

	if err := SignRequest(clone, t.config); err != nil {
		return nil, err
	}

	return t.base.RoundTrip(clone)
}
