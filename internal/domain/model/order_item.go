package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnknownSKU はイベントからSKUを解決できなかったときの値
const UnknownSKU = "UNKNOWN"

// 注文時点のスナップショット。商品マスタが変わっても過去の注文は変わらない。
type OrderItem struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     string          `gorm:"type:varchar(36);not null;index" json:"order_id"`
	SKU         string          `gorm:"type:varchar(255);not null" json:"sku"`
	ProductName string          `gorm:"type:varchar(255)" json:"product_name"`
	Size        string          `gorm:"type:varchar(100)" json:"size"`
	Color       string          `gorm:"type:varchar(100)" json:"color"`
	Quantity    int64           `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_price"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
}
