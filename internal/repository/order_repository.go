package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

// 管理画面の一覧条件。From/To は [From, To) で絞る。
type AdminOrderListFilter struct {
	Status string
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	FindBySessionID(ctx context.Context, sessionID string) (model.Order, bool, error)
	Create(ctx context.Context, order model.Order) error

	//管理者用の注文一覧（明細付き、新しい順）
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, error)

	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error
	//追跡番号と発送日時を入れて dispatched にする
	UpdateTracking(ctx context.Context, orderID string, trackingNumber string, dispatchedAt time.Time) error

	//明細は外部キーの CASCADE で消える
	Delete(ctx context.Context, orderID string) error
}
