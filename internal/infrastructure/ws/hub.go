// Package ws difunde los movimientos de inventario a los clientes websocket conectados.
package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/ports"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

var _ ports.EventPublisher = (*Hub)(nil)

// Conn lo mínimo que el hub necesita de una conexión (*websocket.Conn lo cumple).
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Message formato enviado a los clientes.
type Message struct {
	Type            string                     `json:"type"`
	SweetName       string                     `json:"sweet_name"`
	QuantityInStock int                        `json:"quantity_in_stock"`
	Event           dto.InventoryEventResponse `json:"event"`
}

// Hub mantiene los clientes conectados y reenvía cada notificación a todos.
type Hub struct {
	clients    map[Conn]bool
	register   chan Conn
	unregister chan Conn
	broadcast  chan []byte
	done       chan struct{}
	mu         sync.Mutex
	log        *logger.Logger
}

// NewHub crea el hub. bufferSize acota los mensajes pendientes antes de descartar.
func NewHub(log *logger.Logger, bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Hub{
		clients:    make(map[Conn]bool),
		register:   make(chan Conn),
		unregister: make(chan Conn),
		broadcast:  make(chan []byte, bufferSize),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run procesa altas, bajas y difusiones hasta que ctx se cancela; entonces cierra todas las conexiones.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for conn := range h.clients {
				_ = conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug().Int("clients", n).Msg("cliente ws conectado")

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				_ = conn.Close()
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					_ = conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Register agrega una conexión. Si el hub ya se detuvo, la cierra.
func (h *Hub) Register(conn Conn) {
	select {
	case h.register <- conn:
	case <-h.done:
		_ = conn.Close()
	}
}

// Unregister quita y cierra una conexión.
func (h *Hub) Unregister(conn Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Clients devuelve el número de conexiones activas.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish encola la notificación sin bloquear; si el buffer está lleno se descarta.
func (h *Hub) Publish(_ context.Context, n ports.StockNotification) {
	payload, err := json.Marshal(Message{
		Type:            n.Event.Type,
		SweetName:       n.SweetName,
		QuantityInStock: n.QuantityInStock,
		Event:           dto.EventFromEntity(n.Event),
	})
	if err != nil {
		h.log.Error().Err(err).Msg("serializar evento ws")
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.log.Warn().Str("sweet_id", n.Event.SweetID).Msg("buffer ws lleno, evento descartado")
	}
}

// Serve mantiene viva una conexión websocket hasta que el cliente la cierra.
func (h *Hub) Serve(c *websocket.Conn) {
	h.Register(c)
	defer h.Unregister(c)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}
