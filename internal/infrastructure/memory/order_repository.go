package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/pluckd-api/internal/domain"
	"github.com/jhoicas/pluckd-api/internal/domain/entity"
	"github.com/jhoicas/pluckd-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación en memoria de repository.OrderRepository.
type OrderRepo struct {
	db *Store
}

func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	return r.db.view(ctx, func(st *state) error {
		if o.UserID != nil {
			if _, ok := st.users[*o.UserID]; !ok {
				return domain.ErrUserNotFound
			}
		}
		for _, it := range o.Items {
			if it.ProductID == nil {
				return domain.ErrProductNotFound
			}
			if _, ok := st.products[*it.ProductID]; !ok {
				return domain.ErrProductNotFound
			}
		}
		st.seq.order++
		o.ID = st.seq.order
		row := *o
		row.Items = nil
		st.orders[o.ID] = row

		rows := make([]entity.OrderItem, 0, len(o.Items))
		for _, it := range o.Items {
			st.seq.item++
			it.ID = st.seq.item
			it.OrderID = o.ID
			ir := *it
			ir.Product = nil
			rows = append(rows, ir)
		}
		st.items[o.ID] = rows
		return nil
	})
}

func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	var out *entity.Order
	err := r.db.view(ctx, func(st *state) error {
		if o, ok := st.orders[id]; ok {
			out = hydrate(st, o)
		}
		return nil
	})
	return out, err
}

func (r *OrderRepo) List(ctx context.Context) ([]*entity.Order, error) {
	var out []*entity.Order
	err := r.db.view(ctx, func(st *state) error {
		for _, o := range st.orders {
			out = append(out, hydrate(st, o))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortOrders(out, repository.OrderSortCreatedAt, true)
	return out, nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID int64, f repository.OrderFilter) ([]*entity.Order, error) {
	out := []*entity.Order{}
	err := r.db.view(ctx, func(st *state) error {
		for _, o := range st.orders {
			if !o.BelongsTo(userID) {
				continue
			}
			if f.Status != "" && o.Status != f.Status {
				continue
			}
			if f.CreatedFrom != nil && o.CreatedAt.Before(*f.CreatedFrom) {
				continue
			}
			if f.CreatedBefore != nil && !o.CreatedAt.Before(*f.CreatedBefore) {
				continue
			}
			out = append(out, hydrate(st, o))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortOrders(out, f.SortBy, f.Desc)
	return out, nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus, updatedAt time.Time) error {
	return r.db.view(ctx, func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return domain.ErrNotFound
		}
		o.Status = status
		o.UpdatedAt = updatedAt
		st.orders[id] = o
		return nil
	})
}

func (r *OrderRepo) Delete(ctx context.Context, id int64) error {
	return r.db.view(ctx, func(st *state) error {
		if _, ok := st.orders[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.orders, id)
		delete(st.items, id)
		return nil
	})
}

func hydrate(st *state, row entity.Order) *entity.Order {
	o := row
	rows := st.items[o.ID]
	o.Items = make([]*entity.OrderItem, 0, len(rows))
	for _, ir := range rows {
		it := ir
		if it.ProductID != nil {
			if p, ok := st.products[*it.ProductID]; ok {
				it.Product = &p
			}
		}
		o.Items = append(o.Items, &it)
	}
	return &o
}

// sortOrders ordena por el campo indicado y desempata por id en la misma dirección.
func sortOrders(list []*entity.Order, by string, desc bool) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		var cmp int
		switch by {
		case repository.OrderSortTotalAmount:
			cmp = a.TotalAmount.Cmp(b.TotalAmount)
		default:
			cmp = a.CreatedAt.Compare(b.CreatedAt)
		}
		if cmp == 0 {
			switch {
			case a.ID < b.ID:
				cmp = -1
			case a.ID > b.ID:
				cmp = 1
			}
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}
