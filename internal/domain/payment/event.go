// Package payment は決済サービスに依存しない形のイベント定義。
package payment

import (
	"encoding/json"
	"errors"
)

const EventCheckoutCompleted = "checkout.session.completed"

// 検証できなかったペイロードはすべてこれ
var ErrInvalidEvent = errors.New("invalid payment event")

// 検証済みの webhook イベント。
// Session は checkout.session.completed のときだけ入る。
type Event struct {
	ID      string
	Type    string
	Session *CheckoutSession
}

type CheckoutSession struct {
	ID              string            `json:"id"`
	AmountTotal     int64             `json:"amount_total"`
	Currency        string            `json:"currency"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerDetails *CustomerDetails  `json:"customer_details"`
	ShippingDetails json.RawMessage   `json:"shipping_details"`
	Metadata        map[string]string `json:"metadata"`
}

type CustomerDetails struct {
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Address json.RawMessage `json:"address"`
}

// Email は customer_details を優先する。
func (s CheckoutSession) Email() string {
	if s.CustomerDetails != nil && s.CustomerDetails.Email != "" {
		return s.CustomerDetails.Email
	}
	return s.CustomerEmail
}

func (s CheckoutSession) Name() string {
	if s.CustomerDetails != nil {
		return s.CustomerDetails.Name
	}
	return ""
}

// 決済側の明細1行（金額は最小単位）
type LineItem struct {
	Description string
	Quantity    int64
	AmountTotal int64
	SKU         string
	Color       string
}
