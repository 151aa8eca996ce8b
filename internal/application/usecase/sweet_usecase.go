package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/ports"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/policy"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

// SweetUseCase casos de uso del catálogo. Crear, editar y eliminar requieren privilegios;
// el stock solo cambia por compras y reposiciones, salvo la edición directa de un admin.
type SweetUseCase struct {
	repo repository.SweetRepository
	tx   ports.TxRunner
	log  *logger.Logger
}

// NewSweetUseCase construye el caso de uso.
func NewSweetUseCase(repo repository.SweetRepository, tx ports.TxRunner, log *logger.Logger) *SweetUseCase {
	return &SweetUseCase{repo: repo, tx: tx, log: log}
}

// Create crea un producto. Category por defecto es "other" y el stock inicial 0.
func (uc *SweetUseCase) Create(ctx context.Context, actor *entity.User, in dto.CreateSweetRequest) (*dto.SweetResponse, error) {
	if err := policy.RequirePrivileged(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	verr := &domain.ValidationError{}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		verr.Add("name", domain.CodeRequired, "este campo es obligatorio")
	}
	validatePrice(*in.Price, verr)
	category := strings.ToLower(strings.TrimSpace(in.Category))
	if category == "" {
		category = entity.CategoryOther
	} else if !entity.IsValidCategory(category) {
		verr.Add("category", domain.CodeInvalid, "categoría inválida")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if err := uc.ensureUniqueName(ctx, uc.repo, name, ""); err != nil {
		return nil, err
	}

	quantity := 0
	if in.QuantityInStock != nil {
		quantity = *in.QuantityInStock
	}
	creator := actor.ID
	now := time.Now().UTC()
	sweet := &entity.Sweet{
		ID:              uuid.New().String(),
		Name:            name,
		Description:     in.Description,
		Price:           in.Price.Round(entity.PriceScale),
		QuantityInStock: quantity,
		Category:        category,
		CreatedBy:       &creator,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, sweet); err != nil {
		return nil, nameConflict(err)
	}
	uc.log.Info().Str("sweet_id", sweet.ID).Str("name", sweet.Name).Str("user_id", actor.ID).Msg("producto creado")
	out := dto.SweetFromEntity(sweet)
	return &out, nil
}

// Get obtiene un producto por ID. No filtra por stock.
func (uc *SweetUseCase) Get(ctx context.Context, actor *entity.User, id string) (*dto.SweetResponse, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	sweet, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.SweetFromEntity(sweet)
	return &out, nil
}

// Update aplica una edición parcial con la fila bloqueada, para no intercalarse con compras.
// Fijar quantity_in_stock directamente no genera evento de inventario.
func (uc *SweetUseCase) Update(ctx context.Context, actor *entity.User, id string, in dto.UpdateSweetRequest) (*dto.SweetResponse, error) {
	if err := policy.RequirePrivileged(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	var updated *entity.Sweet
	err := uc.tx.Run(ctx, func(sweets repository.SweetRepository, _ repository.InventoryEventRepository) error {
		sweet, err := sweets.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		verr := &domain.ValidationError{}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				verr.Add("name", domain.CodeRequired, "este campo no puede estar vacío")
			} else if !strings.EqualFold(name, sweet.Name) {
				if err := uc.ensureUniqueName(ctx, sweets, name, sweet.ID); err != nil {
					return err
				}
			}
			sweet.Name = name
		}
		if in.Description != nil {
			sweet.Description = *in.Description
		}
		if in.Price != nil {
			validatePrice(*in.Price, verr)
			sweet.Price = in.Price.Round(entity.PriceScale)
		}
		if in.Category != nil {
			sweet.Category = strings.ToLower(strings.TrimSpace(*in.Category))
			if !entity.IsValidCategory(sweet.Category) {
				verr.Add("category", domain.CodeInvalid, "categoría inválida")
			}
		}
		if in.QuantityInStock != nil {
			sweet.QuantityInStock = *in.QuantityInStock
		}
		if err := verr.OrNil(); err != nil {
			return err
		}

		sweet.UpdatedAt = time.Now().UTC()
		if err := sweets.Update(ctx, sweet); err != nil {
			return nameConflict(err)
		}
		updated = sweet
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("sweet_id", updated.ID).Str("user_id", actor.ID).Msg("producto actualizado")
	out := dto.SweetFromEntity(updated)
	return &out, nil
}

// Delete elimina un producto y, en cascada, su historial.
func (uc *SweetUseCase) Delete(ctx context.Context, actor *entity.User, id string) error {
	if err := policy.RequirePrivileged(actor); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("sweet_id", id).Str("user_id", actor.ID).Msg("producto eliminado")
	return nil
}

// List aplica los filtros del catálogo. Los usuarios sin privilegios solo ven productos con stock.
func (uc *SweetUseCase) List(ctx context.Context, actor *entity.User, q dto.ListSweetsQuery) ([]dto.SweetResponse, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	filter, err := ParseSweetFilter(q)
	if err != nil {
		return nil, err
	}
	filter.InStockOnly = !policy.IsPrivileged(actor)
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.SweetsFromEntities(list), nil
}

// ParseSweetFilter traduce los parámetros de consulta. Un precio malformado es error de validación.
func ParseSweetFilter(q dto.ListSweetsQuery) (repository.SweetFilter, error) {
	filter := repository.SweetFilter{
		Search:   strings.TrimSpace(q.Search),
		Name:     strings.TrimSpace(q.Name),
		Category: strings.TrimSpace(q.Category),
	}
	verr := &domain.ValidationError{}
	filter.MinPrice = parsePriceParam("min_price", q.MinPrice, verr)
	filter.MaxPrice = parsePriceParam("max_price", q.MaxPrice, verr)
	if err := verr.OrNil(); err != nil {
		return repository.SweetFilter{}, err
	}
	return filter, nil
}

func parsePriceParam(field, raw string, verr *domain.ValidationError) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		verr.Add(field, domain.CodeInvalid, "debe ser un número decimal")
		return nil
	}
	return &d
}

func validatePrice(p decimal.Decimal, verr *domain.ValidationError) {
	switch {
	case !p.IsPositive():
		verr.Add("price", domain.CodeMin, "el precio debe ser mayor que cero")
	case !p.Equal(p.Round(entity.PriceScale)):
		verr.Add("price", domain.CodeInvalid, "el precio admite como máximo 2 decimales")
	case p.GreaterThanOrEqual(entity.MaxPrice):
		verr.Add("price", domain.CodeInvalid, "el precio debe ser menor que 10000")
	}
}

func (uc *SweetUseCase) ensureUniqueName(ctx context.Context, repo repository.SweetRepository, name, excludeID string) error {
	exists, err := repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return nameTaken()
	}
	return nil
}

func nameConflict(err error) error {
	if errors.Is(err, domain.ErrSweetNameAlreadyExists) {
		return nameTaken()
	}
	return err
}

func nameTaken() error {
	return domain.NewValidationError("name", domain.CodeUnique, "ya existe un producto con este nombre")
}
