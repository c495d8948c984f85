package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticTokens is a TokenSource with a fixed answer.
type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func newTestClient(t *testing.T, tokens TokenSource, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, tokens, 5*time.Second)
}

func TestDo_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	r := chi.NewRouter()
	r.Get("/cart", func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	})

	sut := newTestClient(t, staticTokens("abc"), r)
	require.NoError(t, sut.Do(context.Background(), http.MethodGet, "/cart", nil, nil))
	assert.Equal(t, "Bearer abc", gotAuth)
}

func TestDo_NoTokenNoHeader(t *testing.T) {
	var hasAuth bool
	r := chi.NewRouter()
	r.Get("/products", func(w http.ResponseWriter, req *http.Request) {
		_, hasAuth = req.Header["Authorization"]
		w.Write([]byte(`[]`))
	})

	sut := newTestClient(t, staticTokens(""), r)
	require.NoError(t, sut.Do(context.Background(), http.MethodGet, "/products", nil, nil))
	assert.False(t, hasAuth)
}

// The header must be computed at send time, not captured when the
// client was built.
func TestDo_TokenReadAtSendTime(t *testing.T) {
	tokens := &switchableTokens{}
	var seen []string
	r := chi.NewRouter()
	r.Get("/cart", func(w http.ResponseWriter, req *http.Request) {
		seen = append(seen, req.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	})

	sut := newTestClient(t, tokens, r)

	tokens.set("first")
	require.NoError(t, sut.Do(context.Background(), http.MethodGet, "/cart", nil, nil))
	tokens.set("second")
	require.NoError(t, sut.Do(context.Background(), http.MethodGet, "/cart", nil, nil))

	assert.Equal(t, []string{"Bearer first", "Bearer second"}, seen)
}

type switchableTokens struct {
	token string
}

func (s *switchableTokens) set(t string)  { s.token = t }
func (s *switchableTokens) Token() string { return s.token }

func TestDo_SetsRequestID(t *testing.T) {
	var first, second string
	r := chi.NewRouter()
	r.Get("/cart", func(w http.ResponseWriter, req *http.Request) {
		if first == "" {
			first = req.Header.Get("X-Request-ID")
		} else {
			second = req.Header.Get("X-Request-ID")
		}
		w.Write([]byte(`{}`))
	})

	sut := newTestClient(t, staticTokens(""), r)
	require.NoError(t, sut.Do(context.Background(), http.MethodGet, "/cart", nil, nil))
	require.NoError(t, sut.Do(context.Background(), http.MethodGet, "/cart", nil, nil))

	assert.NotEmpty(t, first)
	assert.NotEmpty(t, second)
	assert.NotEqual(t, first, second)
}

func TestDo_DecodesResponse(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/cart", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"total": 42.5}`))
	})

	sut := newTestClient(t, staticTokens(""), r)
	var out struct {
		Total float64 `json:"total"`
	}
	require.NoError(t, sut.Do(context.Background(), http.MethodGet, "/cart", nil, &out))
	assert.Equal(t, 42.5, out.Total)
}

func TestDo_UnauthorizedIsAuthenticationFailure(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/cart", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired"}`))
	})

	sut := newTestClient(t, staticTokens("stale"), r)
	err := sut.Do(context.Background(), http.MethodGet, "/cart", nil, nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindAuthentication))
	assert.ErrorContains(t, err, "token expired")
}

func TestDo_BadRequestIsValidationFailureWithServerMessage(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/cart/items", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"insufficient stock"}`))
	})

	sut := newTestClient(t, staticTokens("abc"), r)
	err := sut.Do(context.Background(), http.MethodPost, "/cart/items", map[string]int{"productId": 7}, nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.ErrorContains(t, err, "insufficient stock")
}

func TestDo_ErrorFieldFallback(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/cart", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"cart locked"}`))
	})

	sut := newTestClient(t, staticTokens("abc"), r)
	err := sut.Do(context.Background(), http.MethodGet, "/cart", nil, nil)
	assert.ErrorContains(t, err, "cart locked")
}

func TestDo_ServerErrorIsServerFailure(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/cart", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	sut := newTestClient(t, staticTokens("abc"), r)
	err := sut.Do(context.Background(), http.MethodGet, "/cart", nil, nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindServer))
	assert.ErrorContains(t, err, "HTTP 500")
}

// A 3xx the http.Client does not consume (304 is never followed) is
// outside the service contract, not a server failure.
func TestDo_UnconsumedRedirectStatusIsProtocolViolation(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/cart", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	})

	sut := newTestClient(t, staticTokens("abc"), r)
	err := sut.Do(context.Background(), http.MethodGet, "/cart", nil, nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindProtocol))
	assert.ErrorContains(t, err, "HTTP 304")
}

func TestDo_ConnectionRefusedIsNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	sut := NewClient(url, staticTokens(""), time.Second)
	err := sut.Do(context.Background(), http.MethodGet, "/cart", nil, nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNetwork))
}

func TestDo_UndecodableSuccessBodyIsProtocolViolation(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/cart", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`not json`))
	})

	sut := newTestClient(t, staticTokens(""), r)
	var out map[string]interface{}
	err := sut.Do(context.Background(), http.MethodGet, "/cart", nil, &out)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindProtocol))
}
