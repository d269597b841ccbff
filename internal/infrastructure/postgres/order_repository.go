package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/pluckd-api/internal/domain"
	"github.com/jhoicas/pluckd-api/internal/domain/entity"
	"github.com/jhoicas/pluckd-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// orderSortColumns lista blanca de columnas de ordenamiento; nunca se interpola texto del cliente.
var orderSortColumns = map[string]string{
	repository.OrderSortCreatedAt:   "created_at",
	repository.OrderSortTotalAmount: "total_amount",
}

const orderColumns = `id, buyer_name, buyer_contact, delivery_address, status, total_amount, user_id, created_at, updated_at`

// Create persiste la cabecera y las líneas. Debe llamarse con un Querier transaccional.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	query := `
		INSERT INTO orders (buyer_name, buyer_contact, delivery_address, status, total_amount, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		order.BuyerName, order.BuyerContact, order.DeliveryAddress, string(order.Status),
		order.TotalAmount, order.UserID, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: %v", domain.ErrUserNotFound, err)
		}
		return wrapErr("insert order", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, product_name, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	for _, it := range order.Items {
		it.OrderID = order.ID
		err := r.q.QueryRow(ctx, itemQuery, it.OrderID, it.ProductID, it.ProductName, it.Quantity, it.Price).Scan(&it.ID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: %v", domain.ErrProductNotFound, err)
			}
			return wrapErr("insert order item", err)
		}
	}
	return nil
}

// GetByID obtiene una orden hidratada por ID.
func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	row := r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get order", err)
	}
	if err := r.loadItems(ctx, []*entity.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// List devuelve todas las órdenes, más recientes primero.
func (r *OrderRepo) List(ctx context.Context) ([]*entity.Order, error) {
	return r.query(ctx, "list orders", `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`)
}

// ListByUser aplica filtros de estado y fecha y el ordenamiento permitido. Desempata por id.
func (r *OrderRepo) ListByUser(ctx context.Context, userID int64, f repository.OrderFilter) ([]*entity.Order, error) {
	sql, args := listByUserQuery(userID, f)
	return r.query(ctx, "list orders by user", sql, args...)
}

func listByUserQuery(userID int64, f repository.OrderFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1`)
	args := []any{userID}
	if f.Status != "" {
		args = append(args, string(f.Status))
		fmt.Fprintf(&sb, " AND status = $%d", len(args))
	}
	if f.CreatedFrom != nil {
		args = append(args, *f.CreatedFrom)
		fmt.Fprintf(&sb, " AND created_at >= $%d", len(args))
	}
	if f.CreatedBefore != nil {
		args = append(args, *f.CreatedBefore)
		fmt.Fprintf(&sb, " AND created_at < $%d", len(args))
	}
	col, ok := orderSortColumns[f.SortBy]
	if !ok {
		col = orderSortColumns[repository.OrderSortCreatedAt]
	}
	dir := "ASC"
	if f.Desc {
		dir = "DESC"
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s, id %s", col, dir, dir)
	return sb.String(), args
}

// UpdateStatus actualiza estado y updated_at en una sola sentencia (último en escribir gana).
func (r *OrderRepo) UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`, id, string(status), updatedAt)
	if err != nil {
		return wrapErr("update order status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la orden; las líneas se borran en cascada.
func (r *OrderRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete order", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) query(ctx context.Context, op, sql string, args ...any) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	list := []*entity.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, wrapErr(op, err)
		}
		list = append(list, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// loadItems carga en una sola consulta las líneas de todas las órdenes con el producto vigente (si existe).
func (r *OrderRepo) loadItems(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[int64]*entity.Order, len(orders))
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		o.Items = []*entity.OrderItem{}
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}
	query := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.product_name, oi.quantity, oi.price,
		       p.id, p.name, p.price, p.description, p.image, p.category, p.created_at, p.updated_at
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.id`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return wrapErr("list order items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.OrderItem
		var (
			pID                      *int64
			pName, pDesc, pImg, pCat *string
			pPrice                   decimal.NullDecimal
			pCreated, pUpdated       *time.Time
		)
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.Price,
			&pID, &pName, &pPrice, &pDesc, &pImg, &pCat, &pCreated, &pUpdated,
		); err != nil {
			return wrapErr("scan order item", err)
		}
		if pID != nil {
			it.Product = &entity.Product{
				ID:          *pID,
				Name:        derefStr(pName),
				Price:       pPrice.Decimal,
				Description: derefStr(pDesc),
				Image:       derefStr(pImg),
				Category:    derefStr(pCat),
			}
			if pCreated != nil {
				it.Product.CreatedAt = *pCreated
			}
			if pUpdated != nil {
				it.Product.UpdatedAt = *pUpdated
			}
		}
		if o, ok := byID[it.OrderID]; ok {
			item := it
			o.Items = append(o.Items, &item)
		}
	}
	if err := rows.Err(); err != nil {
		return wrapErr("list order items", err)
	}
	return nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var status string
	err := row.Scan(
		&o.ID, &o.BuyerName, &o.BuyerContact, &o.DeliveryAddress, &status,
		&o.TotalAmount, &o.UserID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = entity.OrderStatus(status)
	return &o, nil
}
