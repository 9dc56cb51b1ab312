package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edumgmt-api/internal/service"
)

func newTestAuthHandler() *AuthHandler {
	cfg := service.AuthConfig{AccessTokenSecret: "test-secret", AccessTokenExpiry: time.Hour, Issuer: "test"}
	return NewAuthHandler(service.NewAuthService(nil, nil, nil, cfg))
}

func TestAuthHandlerLoginInvalidBody(t *testing.T) {
	handler := newTestAuthHandler()
	c, recorder := newJSONContext(t, http.MethodPost, "/auth/login", []byte(`not json`))

	handler.Login(c)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	body := decodeEnvelope(t, recorder)
	assert.Equal(t, false, body["success"])
}

func TestAuthHandlerMeWithoutClaims(t *testing.T) {
	handler := newTestAuthHandler()
	c, recorder := newJSONContext(t, http.MethodGet, "/auth/me", nil)

	handler.Me(c)

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}
