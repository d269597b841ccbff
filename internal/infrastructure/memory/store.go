package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/pluckd-api/internal/application/ordering"
	"github.com/jhoicas/pluckd-api/internal/domain"
	"github.com/jhoicas/pluckd-api/internal/domain/entity"
	"github.com/jhoicas/pluckd-api/internal/domain/repository"
)

var _ ordering.TxRunner = (*Store)(nil)

// state contenido de la base en memoria. Se clona completo al abrir una transacción.
type state struct {
	users    map[int64]entity.User
	products map[int64]entity.Product
	orders   map[int64]entity.Order       // sin Items
	items    map[int64][]entity.OrderItem // por order_id, en orden de inserción, sin Product
	seq      struct{ user, product, order, item int64 }
}

func newState() *state {
	return &state{
		users:    map[int64]entity.User{},
		products: map[int64]entity.Product{},
		orders:   map[int64]entity.Order{},
		items:    map[int64][]entity.OrderItem{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.items {
		c.items[k] = append([]entity.OrderItem(nil), v...)
	}
	c.seq = s.seq
	return c
}

// Store base en memoria con la misma semántica que los repositorios Postgres
// (unicidad de email, SET NULL al borrar productos/usuarios, cascada de líneas).
// Las transacciones son serializables: RunOrder toma el lock durante todo el callback.
type Store struct {
	mu   sync.Mutex
	st   *state
	down error
}

// NewStore crea una base vacía.
func NewStore() *Store {
	return &Store{st: newState()}
}

// SetUnavailable hace que toda operación falle con domain.ErrUnavailable (nil la restaura).
func (s *Store) SetUnavailable(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if down {
		s.down = domain.ErrUnavailable
	} else {
		s.down = nil
	}
}

// Users repositorio de usuarios fuera de transacción.
func (s *Store) Users() repository.UserRepository { return &UserRepo{db: s} }

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() repository.ProductRepository { return &ProductRepo{db: s} }

// Orders repositorio de órdenes fuera de transacción.
func (s *Store) Orders() repository.OrderRepository { return &OrderRepo{db: s} }

// RunOrder ejecuta fn sobre una copia del estado y la confirma solo si fn no falla.
func (s *Store) RunOrder(ctx context.Context, fn func(
	users repository.UserRepository,
	products repository.ProductRepository,
	orders repository.OrderRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down != nil {
		return s.down
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &Store{st: s.st.clone()}
	if err := fn(&UserRepo{db: tx}, &ProductRepo{db: tx}, &OrderRepo{db: tx}); err != nil {
		return err
	}
	s.st = tx.st
	return nil
}

// view ejecuta fn con el estado bloqueado. Dentro de una transacción el lock es el de la copia.
func (s *Store) view(ctx context.Context, fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down != nil {
		return s.down
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(s.st)
}
