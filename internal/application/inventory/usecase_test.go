package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	"github.com/jhoicas/sweetshop-api/internal/application/ports"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/memory"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

var (
	admin    = &entity.User{ID: "admin-1", Role: entity.RoleAdmin, IsActive: true}
	staff    = &entity.User{ID: "staff-1", Role: entity.RoleCustomer, IsStaff: true, IsActive: true}
	customer = &entity.User{ID: "cust-1", Role: entity.RoleCustomer, IsActive: true}
)

// recorder guarda las notificaciones publicadas.
type recorder struct {
	mu    sync.Mutex
	items []ports.StockNotification
}

func (r *recorder) Publish(_ context.Context, n ports.StockNotification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func setup(t *testing.T, stock int) (*inventory.InventoryUseCase, *memory.Store, *entity.Sweet, *recorder) {
	t.Helper()
	store := memory.NewStore()
	now := time.Now().UTC()
	sweet := &entity.Sweet{
		ID: uuid.NewString(), Name: "Dark Chocolate", Price: decimal.RequireFromString("4.99"),
		QuantityInStock: stock, Category: entity.CategoryChocolate, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, store.Sweets().Create(context.Background(), sweet))
	rec := &recorder{}
	uc := inventory.NewInventoryUseCase(store.TxRunner(), store.Sweets(), store.Events(), rec, logger.Nop())
	return uc, store, sweet, rec
}

func TestInventory_EscenarioChocolate(t *testing.T) {
	uc, store, sweet, rec := setup(t, 10)
	ctx := context.Background()

	out, err := uc.Purchase(ctx, customer, sweet.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, out.Sweet.QuantityInStock)
	assert.Equal(t, entity.EventPurchase, out.Event.Type)
	require.NotNil(t, out.Event.PerformedBy)
	assert.Equal(t, customer.ID, *out.Event.PerformedBy)

	_, err = uc.Purchase(ctx, customer, sweet.ID, 8)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	out, err = uc.Restock(ctx, admin, sweet.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 12, out.Sweet.QuantityInStock)

	got, err := store.Sweets().GetByID(ctx, sweet.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, got.QuantityInStock)

	events, err := uc.ListEvents(ctx, admin, sweet.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, events, 2, "la compra rechazada no deja evento")
	assert.Equal(t, entity.EventRestock, events[0].Type)
	assert.Equal(t, entity.EventPurchase, events[1].Type)

	require.Len(t, rec.items, 2)
	assert.Equal(t, "Dark Chocolate", rec.items[1].SweetName)
	assert.Equal(t, 12, rec.items[1].QuantityInStock)
}

func TestInventory_StockIgualAEventos(t *testing.T) {
	uc, store, sweet, _ := setup(t, 0)
	ctx := context.Background()

	ops := []struct {
		restock bool
		qty     int
	}{{true, 4}, {false, 1}, {false, 5}, {true, 2}, {false, 5}, {false, 1}}
	for _, op := range ops {
		if op.restock {
			_, _ = uc.Restock(ctx, admin, sweet.ID, op.qty)
		} else {
			_, _ = uc.Purchase(ctx, customer, sweet.ID, op.qty)
		}
	}

	got, err := store.Sweets().GetByID(ctx, sweet.ID)
	require.NoError(t, err)
	events, err := store.Events().ListBySweet(ctx, sweet.ID, 0, 0)
	require.NoError(t, err)

	sum := 0
	for _, e := range events {
		sum += e.Delta()
	}
	assert.Equal(t, got.QuantityInStock, sum)
	assert.Equal(t, 0, got.QuantityInStock)
}

func TestInventory_CompraConcurrente(t *testing.T) {
	uc, store, sweet, _ := setup(t, 1)
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Purchase(ctx, customer, sweet.ID, 1)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	}
	assert.Equal(t, 1, ok)

	got, err := store.Sweets().GetByID(ctx, sweet.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.QuantityInStock)
	events, err := store.Events().ListBySweet(ctx, sweet.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestInventory_Permisos(t *testing.T) {
	uc, store, sweet, rec := setup(t, 2)
	ctx := context.Background()

	_, err := uc.Restock(ctx, customer, sweet.ID, 0)
	assert.ErrorIs(t, err, domain.ErrForbidden, "el permiso se comprueba antes que la cantidad")

	_, err = uc.Restock(ctx, customer, sweet.ID, 5)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Restock(ctx, staff, sweet.ID, 1)
	assert.NoError(t, err, "staff cuenta como privilegiado")

	_, err = uc.Purchase(ctx, nil, sweet.ID, 1)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.ListEvents(ctx, customer, sweet.ID, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := store.Sweets().GetByID(ctx, sweet.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.QuantityInStock)
	assert.Len(t, rec.items, 1)
}

func TestInventory_CantidadYProducto(t *testing.T) {
	uc, _, sweet, rec := setup(t, 2)
	ctx := context.Background()

	for _, q := range []int{0, -1} {
		_, err := uc.Purchase(ctx, customer, sweet.ID, q)
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = uc.Restock(ctx, admin, sweet.ID, q)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}

	_, err := uc.Purchase(ctx, customer, uuid.NewString(), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.ListEvents(ctx, admin, uuid.NewString(), dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, rec.items)
}

func TestInventory_ListEventsPaginado(t *testing.T) {
	uc, _, sweet, _ := setup(t, 0)
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		_, err := uc.Restock(ctx, admin, sweet.ID, i)
		require.NoError(t, err)
	}

	page, err := uc.ListEvents(ctx, admin, sweet.ID, dto.PageRequest{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, 4, page[0].Quantity)
	assert.Equal(t, 3, page[1].Quantity)
}
