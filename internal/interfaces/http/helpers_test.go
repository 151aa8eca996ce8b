package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/sweetshop-api/internal/application/auth"
	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	"github.com/jhoicas/sweetshop-api/internal/application/usecase"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/memory"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/ws"
	apphttp "github.com/jhoicas/sweetshop-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/sweetshop-api/pkg/jwt"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "sweetshop-test"
	testPassword  = "s3cret-pass"
)

type testServer struct {
	app    *fiber.App
	store  *memory.Store
	authUC *auth.AuthUseCase
	issuer pkgjwt.Issuer
}

// newTestServer construye la API completa sobre el almacén en memoria.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logger.Nop()
	store := memory.NewStore()
	issuer := pkgjwt.Issuer{Secret: testJWTSecret, Issuer: testIssuer, AccessExpMinutes: 15, RefreshExpMinutes: 60}

	authUC := auth.NewAuthUseCase(store.Users(), auth.Config{JWT: issuer, BcryptCost: bcrypt.MinCost}, log)
	sweetUC := usecase.NewSweetUseCase(store.Sweets(), store.TxRunner(), log)
	hub := ws.NewHub(log, 16)
	inventoryUC := inventory.NewInventoryUseCase(store.TxRunner(), store.Sweets(), store.Events(), hub, log)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{AuthUC: authUC, SweetUC: sweetUC, InventoryUC: inventoryUC, Hub: hub})
	return &testServer{app: app, store: store, authUC: authUC, issuer: issuer}
}

// adminToken crea un administrador y devuelve su access token.
func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	u, err := s.authUC.CreateAdmin(context.Background(), "admin", "admin@shop.io", testPassword)
	require.NoError(t, err)
	tok, err := s.issuer.GenerateAccess(u.ID, u.Role)
	require.NoError(t, err)
	return tok
}

// customerToken registra un cliente por la API y devuelve su access token.
func (s *testServer) customerToken(t *testing.T, email string) string {
	t.Helper()
	var out dto.AuthResponse
	resp := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{"email": email, "password": testPassword})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &out)
	return out.Tokens.Access
}

// createSweet da de alta un producto como administrador.
func (s *testServer) createSweet(t *testing.T, adminTok, name, price, category string, qty int) dto.SweetResponse {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/sweets", adminTok, map[string]any{
		"name": name, "price": price, "category": category, "quantity_in_stock": qty,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, readBody(t, resp))
	var out dto.SweetResponse
	decode(t, resp, &out)
	return out
}

// do lanza una petición JSON y devuelve la respuesta.
func (s *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body = io.NopCloser(bytes.NewReader(raw))
	return string(raw)
}
