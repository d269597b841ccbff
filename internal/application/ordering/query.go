package ordering

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/pluckd-api/internal/application/dto"
	"github.com/jhoicas/pluckd-api/internal/domain"
	"github.com/jhoicas/pluckd-api/internal/domain/entity"
	"github.com/jhoicas/pluckd-api/internal/domain/repository"
)

const dateOnly = "2006-01-02"

// ParseListQuery normaliza los parámetros del listado de órdenes de un usuario.
//   - status desconocido se ignora (sin filtro).
//   - startDate/endDate aceptan RFC3339 o YYYY-MM-DD; un endDate sin hora incluye el día completo.
//   - sortBy fuera de la lista permitida cae a createdAt; sortOrder distinto de asc es desc.
func ParseListQuery(q dto.OrderListQuery) (repository.OrderFilter, error) {
	f := repository.OrderFilter{SortBy: repository.OrderSortCreatedAt, Desc: true}

	if st, ok := entity.ParseOrderStatus(q.Status); ok {
		f.Status = st
	}

	switch strings.TrimSpace(q.SortBy) {
	case repository.OrderSortTotalAmount:
		f.SortBy = repository.OrderSortTotalAmount
	default:
		f.SortBy = repository.OrderSortCreatedAt
	}
	f.Desc = !strings.EqualFold(strings.TrimSpace(q.SortOrder), "asc")

	var start time.Time
	if raw := strings.TrimSpace(q.StartDate); raw != "" {
		t, _, err := parseDate(raw)
		if err != nil {
			return f, fmt.Errorf("%w: startDate %q", domain.ErrInvalidDateRange, raw)
		}
		start = t
		f.CreatedFrom = &start
	}
	if raw := strings.TrimSpace(q.EndDate); raw != "" {
		t, wholeDay, err := parseDate(raw)
		if err != nil {
			return f, fmt.Errorf("%w: endDate %q", domain.ErrInvalidDateRange, raw)
		}
		// CreatedBefore es exclusivo: día completo o el instante dado (resolución de timestamptz).
		before := t.Add(time.Microsecond)
		if wholeDay {
			before = t.AddDate(0, 0, 1)
		}
		f.CreatedBefore = &before
	}
	// Se compara contra la cota exclusiva: un endDate sin hora abarca el día completo.
	if f.CreatedFrom != nil && f.CreatedBefore != nil && !start.Before(*f.CreatedBefore) {
		return f, fmt.Errorf("%w: startDate posterior a endDate", domain.ErrInvalidDateRange)
	}
	return f, nil
}

// parseDate devuelve el instante y si la entrada era solo fecha (medianoche UTC).
func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}
