package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type OrderItemRepository interface {
	// orderID を各明細に入れてまとめて保存する
	CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error
}
