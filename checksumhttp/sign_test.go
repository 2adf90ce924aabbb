package checksumhttp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/reqsum/checksum"
)

const testEpoch int64 = 1700000000

func newTestChecksum(t *testing.T, opts checksum.Options) *checksum.Config {
	t.Helper()

	if opts.SharedSecret == nil {
		opts.SharedSecret = []byte("Shared Secret Key")
	}

	cfg, err := checksum.New(opts)
	require.NoError(t, err)

	return cfg
}

// memoryNonces is a NonceChecker backed by a set.
type memoryNonces struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func (m *memoryNonces) check(_ context.Context, nonce string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.seen == nil {
		m.seen = make(map[string]struct{})
	}

	if _, ok := m.seen[nonce]; ok {
		return true, nil
	}
	m.seen[nonce] = struct{}{}

	return false, nil
}

func TestSignRequest(t *testing.T) {
	cs := newTestChecksum(t, checksum.Options{})

	t.Run("nil checksum", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)

		err := SignRequest(req, SignConfig{})
		assert.ErrorIs(t, err, ErrNoChecksum)
	})

	t.Run("sets header with query checksum", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users?key1=value1&key2=value2", nil)

		err := SignRequest(req, SignConfig{Checksum: cs})
		require.NoError(t, err)

		want, err := cs.Checksum(map[string]string{"key1": "value1", "key2": "value2"}, "/api/users")
		require.NoError(t, err)
		assert.Equal(t, want, req.Header.Get(HeaderChecksum))
		assert.Empty(t, req.Header.Get(HeaderNonce))
	})

	t.Run("custom header salt and attributes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/ignored", nil)

		err := SignRequest(req, SignConfig{
			Checksum: cs,
			Header:   "X-Sum",
			Salt:     func(*http.Request) string { return "TestSalt" },
			Attributes: func(*http.Request) (map[string]string, error) {
				return map[string]string{"key1": "value1", "key2": "value2"}, nil
			},
		})
		require.NoError(t, err)

		assert.Equal(t, "ca1825f4ab028e405821410069fab5a8ad67f05232813478210840a4a7f504be", req.Header.Get("X-Sum"))
	})

	t.Run("nil attributes are signed as empty", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		err := SignRequest(req, SignConfig{
			Checksum:   cs,
			Nonce:      true,
			Attributes: func(*http.Request) (map[string]string, error) { return nil, nil },
		})
		require.NoError(t, err)
		assert.NotEmpty(t, req.Header.Get(HeaderChecksum))
	})

	t.Run("attribute error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users?id=1&id=2", nil)

		err := SignRequest(req, SignConfig{Checksum: cs})
		assert.ErrorIs(t, err, ErrAmbiguousAttribute)
	})

	t.Run("encoding error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users?id=%FF", nil)

		err := SignRequest(req, SignConfig{Checksum: cs})
		assert.ErrorIs(t, err, checksum.ErrInvalidEncoding)
	})

	t.Run("invalid header name", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		err := SignRequest(req, SignConfig{Checksum: cs, Header: "bad header"})
		assert.ErrorIs(t, err, ErrInvalidHeaderName)
	})

	t.Run("nonce", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users?id=42", nil)

		err := SignRequest(req, SignConfig{
			Checksum:      cs,
			Nonce:         true,
			GenerateNonce: func(*http.Request) string { return "fixed-nonce" },
		})
		require.NoError(t, err)

		assert.Equal(t, "fixed-nonce", req.Header.Get(HeaderNonce))

		want, err := cs.Checksum(map[string]string{"id": "42", NonceAttribute: "fixed-nonce"}, "/api/users")
		require.NoError(t, err)
		assert.Equal(t, want, req.Header.Get(HeaderChecksum))
	})

	t.Run("default nonce generator", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		err := SignRequest(req, SignConfig{Checksum: cs, Nonce: true})
		require.NoError(t, err)
		assert.Len(t, req.Header.Get(HeaderNonce), 36)
	})

	t.Run("reserved attribute", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?%40nonce=x", nil)

		err := SignRequest(req, SignConfig{Checksum: cs, Nonce: true})
		assert.ErrorIs(t, err, ErrReservedAttribute)
	})

	t.Run("reserved attribute without nonce", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?%40nonce=x", nil)

		err := SignRequest(req, SignConfig{Checksum: cs})
		assert.ErrorIs(t, err, ErrReservedAttribute)
		assert.Empty(t, req.Header.Get(HeaderChecksum))
	})
}

func TestVerifyRequest(t *testing.T) {
	cs := newTestChecksum(t, checksum.Options{})

	signed := func(t *testing.T, target string, cfg SignConfig) *http.Request {
		t.Helper()

		req := httptest.NewRequest(http.MethodGet, target, nil)
		if cfg.Checksum == nil {
			cfg.Checksum = cs
		}

		require.NoError(t, SignRequest(req, cfg))

		return req
	}

	t.Run("nil checksum", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.ErrorIs(t, VerifyRequest(req, VerifyConfig{}), ErrNoChecksum)
	})

	t.Run("valid", func(t *testing.T) {
		req := signed(t, "/api/users?id=42", SignConfig{})
		assert.NoError(t, VerifyRequest(req, VerifyConfig{Checksum: cs}))
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		assert.ErrorIs(t, VerifyRequest(req, VerifyConfig{Checksum: cs}), ErrChecksumNotFound)
	})

	t.Run("tampered query", func(t *testing.T) {
		req := signed(t, "/api/users?id=42", SignConfig{})
		req.URL.RawQuery = "id=43"

		assert.ErrorIs(t, VerifyRequest(req, VerifyConfig{Checksum: cs}), ErrChecksumInvalid)
	})

	t.Run("other endpoint", func(t *testing.T) {
		req := signed(t, "/api/users?id=42", SignConfig{})
		req.URL.Path = "/api/admins"

		assert.ErrorIs(t, VerifyRequest(req, VerifyConfig{Checksum: cs}), ErrChecksumInvalid)
	})

	t.Run("other secret", func(t *testing.T) {
		req := signed(t, "/api/users?id=42", SignConfig{})
		other := newTestChecksum(t, checksum.Options{SharedSecret: []byte("another secret")})

		assert.ErrorIs(t, VerifyRequest(req, VerifyConfig{Checksum: other}), ErrChecksumInvalid)
	})

	t.Run("ambiguous query", func(t *testing.T) {
		req := signed(t, "/api/users?id=42", SignConfig{})
		req.URL.RawQuery = "id=42&id=43"

		assert.ErrorIs(t, VerifyRequest(req, VerifyConfig{Checksum: cs}), ErrAmbiguousAttribute)
	})

	t.Run("nonce accepted", func(t *testing.T) {
		req := signed(t, "/api/users?id=42", SignConfig{Nonce: true})
		assert.NoError(t, VerifyRequest(req, VerifyConfig{Checksum: cs, RequireNonce: true}))
	})

	t.Run("stripped nonce", func(t *testing.T) {
		req := signed(t, "/api/users?id=42", SignConfig{Nonce: true})
		req.Header.Del(HeaderNonce)

		assert.ErrorIs(t, VerifyRequest(req, VerifyConfig{Checksum: cs}), ErrChecksumInvalid)
	})

	t.Run("replaced nonce", func(t *testing.T) {
		req := signed(t, "/api/users?id=42", SignConfig{Nonce: true})
		req.Header.Set(HeaderNonce, "forged")

		assert.ErrorIs(t, VerifyRequest(req, VerifyConfig{Checksum: cs}), ErrChecksumInvalid)
	})

	t.Run("nonce required", func(t *testing.T) {
		req := signed(t, "/api/users?id=42", SignConfig{})
		assert.ErrorIs(t, VerifyRequest(req, VerifyConfig{Checksum: cs, RequireNonce: true}), ErrNonceRequired)
	})

	t.Run("nonce replay", func(t *testing.T) {
		nonces := &memoryNonces{}
		cfg := VerifyConfig{Checksum: cs, NonceChecker: nonces.check}

		req := signed(t, "/api/users?id=42", SignConfig{Nonce: true})

		require.NoError(t, VerifyRequest(req, cfg))
		assert.ErrorIs(t, VerifyRequest(req, cfg), ErrNonceReused)
	})

	t.Run("nonce not recorded for invalid checksum", func(t *testing.T) {
		nonces := &memoryNonces{}
		cfg := VerifyConfig{Checksum: cs, NonceChecker: nonces.check}

		req := signed(t, "/api/users?id=42", SignConfig{Nonce: true})
		sum := req.Header.Get(HeaderChecksum)

		req.Header.Set(HeaderChecksum, "00")
		require.ErrorIs(t, VerifyRequest(req, cfg), ErrChecksumInvalid)

		req.Header.Set(HeaderChecksum, sum)
		assert.NoError(t, VerifyRequest(req, cfg))
	})

	t.Run("nonce moved into query", func(t *testing.T) {
		nonces := &memoryNonces{}
		cfg := VerifyConfig{Checksum: cs, NonceChecker: nonces.check}

		req := signed(t, "/api/users?id=42", SignConfig{Nonce: true})
		require.NoError(t, VerifyRequest(req, cfg))

		nonce := req.Header.Get(HeaderNonce)
		replay := httptest.NewRequest(http.MethodGet, "/api/users?id=42&%40nonce="+nonce, nil)
		replay.Header.Set(HeaderChecksum, req.Header.Get(HeaderChecksum))

		assert.ErrorIs(t, VerifyRequest(replay, cfg), ErrReservedAttribute)
	})

	t.Run("nonce checker failure", func(t *testing.T) {
		backendErr := errors.New("store unavailable")
		cfg := VerifyConfig{
			Checksum: cs,
			NonceChecker: func(context.Context, string) (bool, error) {
				return false, backendErr
			},
		}

		req := signed(t, "/api/users?id=42", SignConfig{Nonce: true})
		assert.ErrorIs(t, VerifyRequest(req, cfg), backendErr)
	})

	t.Run("custom headers", func(t *testing.T) {
		req := signed(t, "/api/users?id=42", SignConfig{Header: "X-Sum", NonceHeader: "X-Once", Nonce: true})

		assert.NoError(t, VerifyRequest(req, VerifyConfig{Checksum: cs, Header: "X-Sum", NonceHeader: "X-Once"}))
		assert.ErrorIs(t, VerifyRequest(req, VerifyConfig{Checksum: cs}), ErrChecksumNotFound)
	})
}

func TestVerifyRequestTimeWindow(t *testing.T) {
	created := time.Unix(testEpoch, 0)

	signer := newTestChecksum(t, checksum.Options{
		UseTimeComponent: true,
		TimeDelta:        5,
		Clock:            checksum.FixedClock(created),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users?id=42", nil)
	require.NoError(t, SignRequest(req, SignConfig{Checksum: signer}))

	tests := []struct {
		name   string
		offset time.Duration
		want   error
	}{
		{name: "on time", offset: 0},
		{name: "late within window", offset: 5 * time.Second},
		{name: "early within window", offset: -5 * time.Second},
		{name: "too late", offset: 6 * time.Second, want: ErrChecksumInvalid},
		{name: "too early", offset: -6 * time.Second, want: ErrChecksumInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := newTestChecksum(t, checksum.Options{
				UseTimeComponent: true,
				TimeDelta:        5,
				Clock:            checksum.FixedClock(created.Add(tt.offset)),
			})

			err := VerifyRequest(req, VerifyConfig{Checksum: verifier})
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}
