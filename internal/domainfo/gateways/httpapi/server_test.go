package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvaz/domainfo/internal/domainfo/common/log"
	"github.com/tvaz/domainfo/internal/domainfo/domain"
)

type stubResolver struct {
	resolve func(ctx context.Context, name string) (*domain.View, error)
}

func (s *stubResolver) Resolve(ctx context.Context, name string) (*domain.View, error) {
	return s.resolve(ctx, name)
}

func doRequest(t *testing.T, resolver DomainResolver, path string) *httptest.ResponseRecorder {
	t.Helper()
	server := New(resolver, log.NewNoopLogger(), "dev")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestGetDomain_OK(t *testing.T) {
	resolver := &stubResolver{resolve: func(ctx context.Context, name string) (*domain.View, error) {
		return &domain.View{
			Name:        name,
			IP:          "192.0.2.1",
			HostedAt:    "Example Org",
			NameServers: []string{"ns1.example.com"},
			TTL:         300,
		}, nil
	}}

	rec := doRequest(t, resolver, "/api/domain/example.com")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "example.com", body["name"])
	assert.Equal(t, "192.0.2.1", body["ip"])
	assert.Equal(t, "Example Org", body["hostedAt"])
}

func TestGetDomain_NormalizesBeforeResolving(t *testing.T) {
	var got string
	resolver := &stubResolver{resolve: func(ctx context.Context, name string) (*domain.View, error) {
		got = name
		return &domain.View{Name: name}, nil
	}}

	rec := doRequest(t, resolver, "/api/domain/www.example.com")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "example.com", got, "www prefix should be stripped before resolution")
}

func TestGetDomain_InvalidNameRejected(t *testing.T) {
	resolver := &stubResolver{resolve: func(ctx context.Context, name string) (*domain.View, error) {
		t.Fatal("resolver must not be called for invalid input")
		return nil, nil
	}}

	rec := doRequest(t, resolver, "/api/domain/nodots")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestGetDomain_NotFound(t *testing.T) {
	resolver := &stubResolver{resolve: func(ctx context.Context, name string) (*domain.View, error) {
		return nil, nil
	}}

	rec := doRequest(t, resolver, "/api/domain/nosuch.example")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetDomain_UpstreamFailure(t *testing.T) {
	resolver := &stubResolver{resolve: func(ctx context.Context, name string) (*domain.View, error) {
		return nil, errors.New("whois unreachable")
	}}

	rec := doRequest(t, resolver, "/api/domain/example.com")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotContains(t, body["error"], "whois", "internal details must not leak to clients")
}

func TestHealthz(t *testing.T) {
	resolver := &stubResolver{resolve: func(ctx context.Context, name string) (*domain.View, error) {
		return nil, nil
	}}

	rec := doRequest(t, resolver, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
