package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pluckd-api/internal/domain/entity"
	"github.com/jhoicas/pluckd-api/internal/domain/repository"
)

func TestListByUserQuery(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	before := from.AddDate(0, 1, 0)

	sql, args := listByUserQuery(7, repository.OrderFilter{
		Status:        entity.OrderStatusPending,
		CreatedFrom:   &from,
		CreatedBefore: &before,
		SortBy:        repository.OrderSortTotalAmount,
		Desc:          false,
	})
	assert.Contains(t, sql, "WHERE user_id = $1 AND status = $2 AND created_at >= $3 AND created_at < $4")
	assert.Contains(t, sql, "ORDER BY total_amount ASC, id ASC")
	assert.Equal(t, []any{int64(7), "PENDING", from, before}, args)
}

func TestListByUserQuery_UnknownSortFallsBack(t *testing.T) {
	sql, args := listByUserQuery(1, repository.OrderFilter{SortBy: "name; DROP TABLE orders", Desc: true})
	assert.Contains(t, sql, "ORDER BY created_at DESC, id DESC")
	assert.NotContains(t, sql, "DROP")
	assert.Equal(t, []any{int64(1)}, args)
}
