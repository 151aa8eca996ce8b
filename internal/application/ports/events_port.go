package ports

import (
	"context"

	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

// StockNotification aviso emitido después de confirmar una mutación de stock.
type StockNotification struct {
	Event           *entity.InventoryEvent
	SweetName       string
	QuantityInStock int
}

// EventPublisher puerto de salida para el feed en vivo de inventario.
// Publish no debe bloquear al llamador.
type EventPublisher interface {
	Publish(ctx context.Context, n StockNotification)
}

// NopPublisher descarta las notificaciones.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, StockNotification) {}
