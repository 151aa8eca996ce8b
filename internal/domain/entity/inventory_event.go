package entity

import "time"

// Tipos de evento de inventario.
const (
	EventPurchase = "purchase"
	EventRestock  = "restock"
)

// InventoryEvent registro inmutable de una mutación de stock.
// Se crea en la misma transacción que modifica Sweet.QuantityInStock.
type InventoryEvent struct {
	ID          string
	SweetID     string
	Type        string
	Quantity    int
	PerformedBy *string
	OccurredAt  time.Time
}

// Delta devuelve el cambio de stock que produjo el evento.
func (e *InventoryEvent) Delta() int {
	if e.Type == EventPurchase {
		return -e.Quantity
	}
	return e.Quantity
}
