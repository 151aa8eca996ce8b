package http_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
)

func TestRegister_CreaClienteConUsernameDerivado(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "alice@shop.io", "password": testPassword, "role": "admin",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.AuthResponse
	decode(t, resp, &out)

	assert.Equal(t, "alice", out.User.Username)
	assert.Equal(t, "customer", out.User.Role, "el rol enviado se ignora")
	assert.NotEmpty(t, out.Tokens.Access)
	assert.NotEmpty(t, out.Tokens.Refresh)

	resp = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "alice@other.io", "password": testPassword,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &out)
	assert.Equal(t, "alice-2", out.User.Username)
}

func TestRegister_EmailDuplicadoSinMayusculas(t *testing.T) {
	s := newTestServer(t)
	s.customerToken(t, "bob@shop.io")

	resp := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "BOB@Shop.io", "password": testPassword,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, "VALIDATION", out.Code)
	assert.Contains(t, out.Errors, "email")
}

func TestRegister_ContrasenaCorta(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "carl@shop.io", "password": "short",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Contains(t, out.Errors, "password")
}

func TestRegister_ContrasenaDemasiadoLarga(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "long@shop.io", "password": strings.Repeat("a", 80),
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Contains(t, out.Errors, "password")
}

func TestRegister_CuerpoInvalido(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/auth/register", "", "no-es-un-objeto")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_PorEmailYUsername(t *testing.T) {
	s := newTestServer(t)
	s.customerToken(t, "dana@shop.io")

	for _, body := range []map[string]any{
		{"email": "DANA@shop.io", "password": testPassword},
		{"username": "dana", "password": testPassword},
	} {
		resp := s.do(t, http.MethodPost, "/api/auth/login", "", body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out dto.AuthResponse
		decode(t, resp, &out)
		assert.Equal(t, "dana", out.User.Username)
		assert.NotEmpty(t, out.Tokens.Access)
	}
}

func TestLogin_FalloGenerico(t *testing.T) {
	s := newTestServer(t)
	s.customerToken(t, "erin@shop.io")

	var details []string
	for _, body := range []map[string]any{
		{"email": "erin@shop.io", "password": "incorrecta"},
		{"email": "nadie@shop.io", "password": testPassword},
	} {
		resp := s.do(t, http.MethodPost, "/api/auth/login", "", body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var out dto.ErrorResponse
		decode(t, resp, &out)
		details = append(details, out.Detail)
	}
	assert.Equal(t, details[0], details[1], "no debe revelar qué parte falló")
}

func TestRefresh(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{"email": "fay@shop.io", "password": testPassword})
	var reg dto.AuthResponse
	decode(t, resp, &reg)

	resp = s.do(t, http.MethodPost, "/api/auth/token/refresh", "", map[string]any{"refresh": reg.Tokens.Refresh})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pair dto.TokenPair
	decode(t, resp, &pair)
	assert.NotEmpty(t, pair.Access)

	resp = s.do(t, http.MethodPost, "/api/auth/token/refresh", "", map[string]any{"refresh": reg.Tokens.Access})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "un access token no sirve como refresh")

	resp = s.do(t, http.MethodPost, "/api/auth/token/refresh", "", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMe(t *testing.T) {
	s := newTestServer(t)
	tok := s.customerToken(t, "gus@shop.io")

	resp := s.do(t, http.MethodGet, "/api/auth/me", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me dto.UserResponse
	decode(t, resp, &me)
	assert.Equal(t, "gus@shop.io", me.Email)

	resp = s.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
