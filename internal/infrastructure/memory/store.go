// Package memory implementa los puertos de persistencia en memoria de proceso.
//
// Las escrituras de stock dentro de una transacción son optimistas: CompareAndSetStock
// y Append se acumulan en la transacción y se validan y aplican juntos en el commit,
// bajo el lock del store. Si otro commit modificó el stock observado, el commit
// falla con domain.ErrConcurrencyConflict y no aplica nada.
package memory

import (
	"sync"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Store estado compartido de artículos, ledger y usuarios.
type Store struct {
	mu         sync.RWMutex
	items      map[int64]*entity.Item
	movements  []*entity.Movement // orden de inserción == orden de ID
	users      map[int64]*entity.User
	nextItemID int64
	nextMovID  int64
	nextUserID int64
	lastStamp  time.Time
	now        func() time.Time
}

// Option configura el Store.
type Option func(*Store)

// WithClock reemplaza el reloj del servidor (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore construye un store vacío.
func NewStore(opts ...Option) *Store {
	s := &Store{
		items: make(map[int64]*entity.Item),
		users: make(map[int64]*entity.User),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Items devuelve el repositorio de artículos fuera de transacción.
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s} }

// Movements devuelve el repositorio del ledger fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// Users devuelve el repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// stamp devuelve la hora del servidor, nunca anterior a la última asignada.
// Debe llamarse con mu tomado en escritura.
func (s *Store) stamp() time.Time {
	t := s.now()
	if t.Before(s.lastStamp) {
		t = s.lastStamp
	}
	s.lastStamp = t
	return t
}

func cloneItem(it *entity.Item) *entity.Item {
	c := *it
	return &c
}

func cloneMovement(m *entity.Movement) *entity.Movement {
	c := *m
	return &c
}
