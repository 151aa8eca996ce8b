// Package memory implementa los repositorios en memoria. Se usa en tests y con STORAGE=memory.
package memory

import (
	"sync"

	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

type state struct {
	users  map[string]*entity.User
	sweets map[string]*entity.Sweet
	events []*entity.InventoryEvent
}

func newState() *state {
	return &state{
		users:  make(map[string]*entity.User),
		sweets: make(map[string]*entity.Sweet),
	}
}

func (st *state) clone() *state {
	out := &state{
		users:  make(map[string]*entity.User, len(st.users)),
		sweets: make(map[string]*entity.Sweet, len(st.sweets)),
		events: make([]*entity.InventoryEvent, len(st.events)),
	}
	for id, u := range st.users {
		out.users[id] = copyUser(u)
	}
	for id, s := range st.sweets {
		out.sweets[id] = copySweet(s)
	}
	copy(out.events, st.events)
	return out
}

// Store contenedor compartido por todos los repositorios en memoria.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Users devuelve el repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{scope{store: s}} }

// Sweets devuelve el repositorio del catálogo.
func (s *Store) Sweets() *SweetRepo { return &SweetRepo{scope{store: s}} }

// Events devuelve el repositorio de eventos de inventario.
func (s *Store) Events() *EventRepo { return &EventRepo{scope{store: s}} }

// TxRunner devuelve el ejecutor de transacciones.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{store: s} }

// scope decide si una operación trabaja sobre el estado compartido (con lock)
// o sobre la copia privada de una transacción en curso (ya bajo lock exclusivo).
type scope struct {
	store *Store
	tx    *state
}

func (sc scope) read(fn func(*state) error) error {
	if sc.tx != nil {
		return fn(sc.tx)
	}
	sc.store.mu.RLock()
	defer sc.store.mu.RUnlock()
	return fn(sc.store.st)
}

func (sc scope) write(fn func(*state) error) error {
	if sc.tx != nil {
		return fn(sc.tx)
	}
	sc.store.mu.Lock()
	defer sc.store.mu.Unlock()
	return fn(sc.store.st)
}

func copyUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

func copySweet(s *entity.Sweet) *entity.Sweet {
	c := *s
	if s.CreatedBy != nil {
		id := *s.CreatedBy
		c.CreatedBy = &id
	}
	return &c
}

func copyEvent(e *entity.InventoryEvent) *entity.InventoryEvent {
	c := *e
	if e.PerformedBy != nil {
		id := *e.PerformedBy
		c.PerformedBy = &id
	}
	return &c
}
