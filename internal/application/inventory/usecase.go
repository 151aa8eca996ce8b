package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/ports"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/policy"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

// InventoryUseCase motor de stock: compras, reposiciones e historial.
// Cada mutación ajusta el stock y anexa su evento en la misma transacción.
type InventoryUseCase struct {
	tx        ports.TxRunner
	sweetRepo repository.SweetRepository
	eventRepo repository.InventoryEventRepository
	publisher ports.EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewInventoryUseCase construye el motor. publisher puede ser nil.
func NewInventoryUseCase(
	tx ports.TxRunner,
	sweetRepo repository.SweetRepository,
	eventRepo repository.InventoryEventRepository,
	publisher ports.EventPublisher,
	log *logger.Logger,
) *InventoryUseCase {
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	return &InventoryUseCase{
		tx:        tx,
		sweetRepo: sweetRepo,
		eventRepo: eventRepo,
		publisher: publisher,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Purchase descuenta quantity unidades. Cualquier usuario autenticado puede comprar.
func (uc *InventoryUseCase) Purchase(ctx context.Context, actor *entity.User, sweetID string, quantity int) (*dto.StockChangeResponse, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}
	return uc.apply(ctx, actor, sweetID, entity.EventPurchase, quantity)
}

// Restock suma quantity unidades. Solo usuarios privilegiados; el permiso se
// comprueba antes de validar la cantidad.
func (uc *InventoryUseCase) Restock(ctx context.Context, actor *entity.User, sweetID string, quantity int) (*dto.StockChangeResponse, error) {
	if err := policy.RequirePrivileged(actor); err != nil {
		return nil, err
	}
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}
	return uc.apply(ctx, actor, sweetID, entity.EventRestock, quantity)
}

// ListEvents devuelve el historial de un producto, del más reciente al más antiguo.
func (uc *InventoryUseCase) ListEvents(ctx context.Context, actor *entity.User, sweetID string, page dto.PageRequest) ([]dto.InventoryEventResponse, error) {
	if err := policy.RequirePrivileged(actor); err != nil {
		return nil, err
	}
	if _, err := uc.sweetRepo.GetByID(ctx, sweetID); err != nil {
		return nil, err
	}
	page.DefaultPage()
	events, err := uc.eventRepo.ListBySweet(ctx, sweetID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, dto.EventFromEntity(e))
	}
	return out, nil
}

func (uc *InventoryUseCase) apply(ctx context.Context, actor *entity.User, sweetID, eventType string, quantity int) (*dto.StockChangeResponse, error) {
	delta := quantity
	if eventType == entity.EventPurchase {
		delta = -quantity
	}
	actorID := actor.ID
	event := &entity.InventoryEvent{
		ID:          uuid.New().String(),
		SweetID:     sweetID,
		Type:        eventType,
		Quantity:    quantity,
		PerformedBy: &actorID,
		OccurredAt:  uc.now(),
	}

	var sweet *entity.Sweet
	err := uc.tx.Run(ctx, func(sweets repository.SweetRepository, events repository.InventoryEventRepository) error {
		updated, err := sweets.AdjustStock(ctx, sweetID, delta)
		if err != nil {
			return err
		}
		if err := events.Append(ctx, event); err != nil {
			return err
		}
		sweet = updated
		return nil
	})
	if err != nil {
		uc.log.Debug().Err(err).Str("sweet_id", sweetID).Str("type", eventType).Int("quantity", quantity).Msg("movimiento rechazado")
		return nil, err
	}

	uc.log.Info().
		Str("sweet_id", sweet.ID).
		Str("type", eventType).
		Int("quantity", quantity).
		Int("stock", sweet.QuantityInStock).
		Str("user_id", actor.ID).
		Msg("movimiento de inventario")

	uc.publisher.Publish(ctx, ports.StockNotification{
		Event:           event,
		SweetName:       sweet.Name,
		QuantityInStock: sweet.QuantityInStock,
	})

	return &dto.StockChangeResponse{
		Sweet: dto.SweetFromEntity(sweet),
		Event: dto.EventFromEntity(event),
	}, nil
}

func validateQuantity(quantity int) error {
	if quantity <= 0 {
		return domain.NewValidationError("quantity", domain.CodeMin, "la cantidad debe ser mayor que cero")
	}
	return nil
}
