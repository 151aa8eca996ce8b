package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
)

func TestInventory_CompraYReposicion(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	customer := s.customerToken(t, "jon@shop.io")
	sweet := s.createSweet(t, admin, "Dark Chocolate", "4.99", "chocolate", 10)

	resp := s.do(t, http.MethodPost, "/api/sweets/"+sweet.ID+"/purchase", customer, map[string]any{"quantity": 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated dto.SweetResponse
	decode(t, resp, &updated)
	assert.Equal(t, sweet.ID, updated.ID)
	assert.Equal(t, 7, updated.QuantityInStock)

	resp = s.do(t, http.MethodPost, "/api/sweets/"+sweet.ID+"/purchase", customer, map[string]any{"quantity": 8})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errResp dto.ErrorResponse
	decode(t, resp, &errResp)
	assert.Equal(t, "INSUFFICIENT_STOCK", errResp.Code)

	resp = s.do(t, http.MethodPost, "/api/sweets/"+sweet.ID+"/restock", customer, map[string]any{"quantity": 5})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/sweets/"+sweet.ID+"/restock", admin, map[string]any{"quantity": 5})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &updated)
	assert.Equal(t, 12, updated.QuantityInStock)

	var events []dto.InventoryEventResponse
	resp = s.do(t, http.MethodGet, "/api/sweets/"+sweet.ID+"/events", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &events)
	require.Len(t, events, 2)
	assert.Equal(t, "restock", events[0].Type, "el más reciente primero")
	assert.Equal(t, "purchase", events[1].Type)
	assert.Equal(t, 3, events[1].Quantity)

	resp = s.do(t, http.MethodGet, "/api/sweets/"+sweet.ID+"/events", customer, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestInventory_CantidadInvalida(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	sweet := s.createSweet(t, admin, "Mint", "0.50", "candy", 1)

	for _, q := range []int{0, -2} {
		resp := s.do(t, http.MethodPost, "/api/sweets/"+sweet.ID+"/purchase", admin, map[string]any{"quantity": q})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var out dto.ErrorResponse
		decode(t, resp, &out)
		assert.Contains(t, out.Errors, "quantity")
	}
}

func TestInventory_ProductoInexistente(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	resp := s.do(t, http.MethodPost, "/api/sweets/no-existe/purchase", admin, map[string]any{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInventoryStream_SinUpgrade(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/api/ws/inventory", s.adminToken(t), nil)
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}
