package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDispatched OrderStatus = "dispatched"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// 遷移の制約はなし（手動修正のため、どの状態からどの状態へも変更できる）
var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusDispatched,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, v := range orderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseOrderStatus は閉じた列挙以外を拒否する。
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(s)
	if !st.Valid() {
		return "", false
	}
	return st, true
}

// 決済完了イベント1件から作られる注文ヘッダ
type Order struct {
	ID string `gorm:"type:varchar(36);primaryKey" json:"id"`

	//表示用の注文番号（セッションIDから cs_ を外したもの）
	OrderNumber string `gorm:"type:varchar(255);not null;index" json:"order_number"`

	//重複取り込み防止
	StripeSessionID string `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`

	CustomerName  string  `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerEmail *string `gorm:"type:varchar(255);index" json:"customer_email"`

	//決済側の形のまま保存する（検証しない）
	ShippingAddress datatypes.JSON `json:"shipping_address"`
	BillingAddress  datatypes.JSON `json:"billing_address"`

	TotalAmount decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'gbp'" json:"currency"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`

	//dispatched にしたときだけ入る
	TrackingNumber *string    `gorm:"type:varchar(255)" json:"tracking_number"`
	DispatchedAt   *time.Time `json:"dispatched_at"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"`
}
