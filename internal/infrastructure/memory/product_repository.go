package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/pluckd-api/internal/domain"
	"github.com/jhoicas/pluckd-api/internal/domain/entity"
	"github.com/jhoicas/pluckd-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de repository.ProductRepository.
type ProductRepo struct {
	db *Store
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	return r.db.view(ctx, func(st *state) error {
		st.seq.product++
		p.ID = st.seq.product
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	err := r.db.view(ctx, func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	return r.db.view(ctx, func(st *state) error {
		if _, ok := st.products[p.ID]; !ok {
			return domain.ErrProductNotFound
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) List(ctx context.Context, category string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.db.view(ctx, func(st *state) error {
		for _, p := range st.products {
			if category != "" && p.Category != category {
				continue
			}
			p := p
			out = append(out, &p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return []*entity.Product{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// Delete elimina el producto. Las líneas de órdenes que lo referencian conservan nombre y precio (ON DELETE SET NULL).
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	return r.db.view(ctx, func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return domain.ErrProductNotFound
		}
		delete(st.products, id)
		for oid, items := range st.items {
			for i := range items {
				if items[i].ProductID != nil && *items[i].ProductID == id {
					items[i].ProductID = nil
				}
			}
			st.items[oid] = items
		}
		return nil
	})
}
