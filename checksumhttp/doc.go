// Package checksumhttp carries checksums from package checksum in HTTP
// request headers.
//
// By default the signed attributes are the URL query parameters and the
// salt is the request endpoint (the URL path), so a checksum issued for one
// endpoint cannot be replayed against another.
//
// # Signing Requests
//
//	cfg, err := checksum.New(checksum.DefaultOptions(secret))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = checksumhttp.SignRequest(req, checksumhttp.SignConfig{Checksum: cfg})
//
// # Client Transport
//
// NewTransport creates an http.RoundTripper that signs every outgoing
// request that is not already signed:
//
//	transport, err := checksumhttp.NewTransport(nil, checksumhttp.SignConfig{
//	    Checksum: cfg,
//	    Nonce:    true,
//	})
//	client := &http.Client{Transport: transport}
//
// # Server Middleware
//
//	mw, err := checksumhttp.Middleware(checksumhttp.MiddlewareConfig{
//	    Verify: checksumhttp.VerifyConfig{Checksum: cfg},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	handler = mw(handler)
//
// # Nonces
//
// A time-bound checksum can be replayed within its window. When SignConfig
// Nonce is set, a random nonce is sent in the X-Request-Nonce header and
// bound into the checksum under the reserved attribute "@nonce". Servers
// can pass a NonceChecker to reject nonces they have already seen. A
// request whose attributes already contain "@nonce" is rejected with
// ErrReservedAttribute.
package checksumhttp
