package usecase

import (
	"context"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/domain/payment"
)

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// 決済側の明細を取る約束
type LineItemSource interface {
	ListLineItems(ctx context.Context, sessionID string) ([]payment.LineItem, error)
}

// 処理済みイベントIDの記録
type EventLedger interface {
	//初めて見たIDなら true
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
	//取り込みに失敗したとき、再送で取り直せるように消す
	Forget(ctx context.Context, eventID string) error
}

// メール通知。失敗しても呼び出し側には返さない。
type Notifier interface {
	OrderPlaced(ctx context.Context, order model.Order)
	OrderDispatched(ctx context.Context, order model.Order)
}
