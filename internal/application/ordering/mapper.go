package ordering

import (
	"github.com/jhoicas/pluckd-api/internal/application/dto"
	"github.com/jhoicas/pluckd-api/internal/domain/entity"
)

// ToOrderResponse proyecta una orden hidratada a su DTO.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		item := dto.OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Subtotal:    it.Subtotal(),
		}
		if it.Product != nil {
			item.Product = &dto.ProductSnapshot{
				ID:       it.Product.ID,
				Name:     it.Product.Name,
				Price:    it.Product.Price,
				Image:    it.Product.Image,
				Category: it.Product.Category,
			}
		}
		items = append(items, item)
	}
	return &dto.OrderResponse{
		ID:              o.ID,
		BuyerName:       o.BuyerName,
		BuyerContact:    o.BuyerContact,
		DeliveryAddress: o.DeliveryAddress,
		Status:          string(o.Status),
		TotalAmount:     o.TotalAmount,
		UserID:          o.UserID,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func toOrderResponses(list []*entity.Order) []dto.OrderResponse {
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *ToOrderResponse(o))
	}
	return out
}
