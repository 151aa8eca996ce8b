package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/usecase"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/memory"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

var (
	admin    = &entity.User{ID: "admin-1", Role: entity.RoleAdmin, IsActive: true}
	customer = &entity.User{ID: "cust-1", Role: entity.RoleCustomer, IsActive: true}
)

func newSweetUC() *usecase.SweetUseCase {
	store := memory.NewStore()
	return usecase.NewSweetUseCase(store.Sweets(), store.TxRunner(), logger.Nop())
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

func mustCreate(t *testing.T, uc *usecase.SweetUseCase, name, p, category string, qty int) *dto.SweetResponse {
	t.Helper()
	out, err := uc.Create(context.Background(), admin, dto.CreateSweetRequest{
		Name: name, Price: price(p), Category: category, QuantityInStock: intPtr(qty),
	})
	require.NoError(t, err)
	return out
}

func TestSweetUseCase_CreateDefaults(t *testing.T) {
	uc := newSweetUC()
	out, err := uc.Create(context.Background(), admin, dto.CreateSweetRequest{Name: "  Fudge  ", Price: price("2.5")})
	require.NoError(t, err)

	assert.Equal(t, "Fudge", out.Name)
	assert.Equal(t, "2.50", out.Price)
	assert.Equal(t, entity.CategoryOther, out.Category)
	assert.Equal(t, 0, out.QuantityInStock)
}

func TestSweetUseCase_CreateValidaPrecio(t *testing.T) {
	uc := newSweetUC()
	tests := []struct {
		name  string
		price string
		ok    bool
	}{
		{"mínimo", "0.01", true},
		{"máximo", "9999.99", true},
		{"cero", "0", false},
		{"negativo", "-1", false},
		{"tres decimales", "1.005", false},
		{"fuera de rango", "10000.00", false},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), admin, dto.CreateSweetRequest{
				Name: "Sweet " + string(rune('A'+i)), Price: price(tt.price),
			})
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestSweetUseCase_NombreUnico(t *testing.T) {
	uc := newSweetUC()
	ctx := context.Background()
	mustCreate(t, uc, "Toffee", "1.00", "candy", 1)
	other := mustCreate(t, uc, "Nougat", "1.00", "candy", 1)

	_, err := uc.Create(ctx, admin, dto.CreateSweetRequest{Name: "TOFFEE", Price: price("1.00")})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	_, err = uc.Update(ctx, admin, other.ID, dto.UpdateSweetRequest{Name: strPtr("toffee")})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	out, err := uc.Update(ctx, admin, other.ID, dto.UpdateSweetRequest{Name: strPtr("NOUGAT")})
	require.NoError(t, err)
	assert.Equal(t, "NOUGAT", out.Name)
}

func TestSweetUseCase_Permisos(t *testing.T) {
	uc := newSweetUC()
	ctx := context.Background()
	s := mustCreate(t, uc, "Gum", "0.20", "gum", 1)

	_, err := uc.Create(ctx, customer, dto.CreateSweetRequest{Name: "X", Price: price("1")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Update(ctx, customer, s.ID, dto.UpdateSweetRequest{Price: price("5")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, uc.Delete(ctx, customer, s.ID), domain.ErrForbidden)
	_, err = uc.Get(ctx, nil, s.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.List(ctx, nil, dto.ListSweetsQuery{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSweetUseCase_UpdateParcial(t *testing.T) {
	uc := newSweetUC()
	ctx := context.Background()
	s := mustCreate(t, uc, "Cupcake", "3.00", "bakery", 4)

	out, err := uc.Update(ctx, admin, s.ID, dto.UpdateSweetRequest{Category: strPtr("Candy"), QuantityInStock: intPtr(9)})
	require.NoError(t, err)
	assert.Equal(t, "Cupcake", out.Name)
	assert.Equal(t, "3.00", out.Price)
	assert.Equal(t, entity.CategoryCandy, out.Category)
	assert.Equal(t, 9, out.QuantityInStock)

	_, err = uc.Update(ctx, admin, s.ID, dto.UpdateSweetRequest{Price: price("0")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := uc.Get(ctx, admin, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "3.00", got.Price, "un update rechazado no cambia nada")

	_, err = uc.Update(ctx, admin, "no-existe", dto.UpdateSweetRequest{Price: price("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSweetUseCase_ListFiltros(t *testing.T) {
	uc := newSweetUC()
	ctx := context.Background()
	mustCreate(t, uc, "Dark Chocolate", "4.99", "chocolate", 3)
	mustCreate(t, uc, "Milk Chocolate", "2.49", "chocolate", 0)
	mustCreate(t, uc, "Gummy Bears", "1.99", "candy", 7)

	names := func(list []dto.SweetResponse) []string {
		out := make([]string, 0, len(list))
		for _, s := range list {
			out = append(out, s.Name)
		}
		return out
	}

	tests := []struct {
		name  string
		actor *entity.User
		q     dto.ListSweetsQuery
		want  []string
	}{
		{"admin ve todo en orden", admin, dto.ListSweetsQuery{}, []string{"Dark Chocolate", "Gummy Bears", "Milk Chocolate"}},
		{"cliente solo con stock", customer, dto.ListSweetsQuery{}, []string{"Dark Chocolate", "Gummy Bears"}},
		{"categoría sin mayúsculas", admin, dto.ListSweetsQuery{Category: "CHOCOLATE"}, []string{"Dark Chocolate", "Milk Chocolate"}},
		{"rango de precio inclusivo", admin, dto.ListSweetsQuery{MinPrice: "1.99", MaxPrice: "2.49"}, []string{"Gummy Bears", "Milk Chocolate"}},
		{"nombre parcial", admin, dto.ListSweetsQuery{Name: "choc"}, []string{"Dark Chocolate", "Milk Chocolate"}},
		{"búsqueda sin resultados", customer, dto.ListSweetsQuery{Search: "licorice"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := uc.List(ctx, tt.actor, tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(list))
		})
	}
}

func TestParseSweetFilter_PrecioMalformado(t *testing.T) {
	_, err := usecase.ParseSweetFilter(dto.ListSweetsQuery{MinPrice: "barato", MaxPrice: "1,5"})
	require.ErrorIs(t, err, domain.ErrValidation)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields(), "min_price")
	assert.Contains(t, verr.Fields(), "max_price")
}
