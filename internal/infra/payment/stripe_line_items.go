package payment

import (
	"context"
	"errors"

	"storefront/internal/domain/payment"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeLineItems は完了したセッションの明細を取得する。
type StripeLineItems struct {
	api *client.API
	key string
}

func NewStripeLineItems(secretKey string) *StripeLineItems {
	return &StripeLineItems{api: client.New(secretKey, nil), key: secretKey}
}

func (s *StripeLineItems) ListLineItems(ctx context.Context, sessionID string) ([]payment.LineItem, error) {
	if s.key == "" {
		return nil, errors.New("stripe: secret key not configured")
	}

	params := &stripe.CheckoutSessionListLineItemsParams{
		Session: stripe.String(sessionID),
	}
	params.Context = ctx
	params.AddExpand("data.price.product")

	var out []payment.LineItem
	it := s.api.CheckoutSessions.ListLineItems(params)
	for it.Next() {
		out = append(out, toLineItem(it.LineItem()))
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func toLineItem(li *stripe.LineItem) payment.LineItem {
	item := payment.LineItem{
		Description: li.Description,
		Quantity:    li.Quantity,
		AmountTotal: li.AmountTotal,
	}
	if li.Price != nil && li.Price.Product != nil {
		p := li.Price.Product
		if item.Description == "" {
			item.Description = p.Name
		}
		item.SKU = p.Metadata["sku"]
		item.Color = p.Metadata["color"]
	}
	return item
}
