package payment

import (
	"encoding/json"
	"fmt"

	"storefront/internal/domain/payment"

	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeVerifier は Stripe-Signature ヘッダを署名シークレットで検証する。
type StripeVerifier struct {
	secret string
}

func NewStripeVerifier(secret string) *StripeVerifier {
	return &StripeVerifier{secret: secret}
}

func (v *StripeVerifier) Verify(payload []byte, signatureHeader string) (payment.Event, error) {
	if v.secret == "" {
		return payment.Event{}, fmt.Errorf("%w: webhook secret not configured", payment.ErrInvalidEvent)
	}
	if signatureHeader == "" {
		return payment.Event{}, fmt.Errorf("%w: missing signature", payment.ErrInvalidEvent)
	}

	ev, err := webhook.ConstructEventWithOptions(payload, signatureHeader, v.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return payment.Event{}, fmt.Errorf("%w: %v", payment.ErrInvalidEvent, err)
	}

	out := payment.Event{ID: ev.ID, Type: string(ev.Type)}
	if out.Type != payment.EventCheckoutCompleted {
		return out, nil
	}
	if ev.Data == nil || len(ev.Data.Raw) == 0 {
		return payment.Event{}, fmt.Errorf("%w: empty session object", payment.ErrInvalidEvent)
	}

	var sess payment.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &sess); err != nil {
		return payment.Event{}, fmt.Errorf("%w: decode session: %v", payment.ErrInvalidEvent, err)
	}
	if sess.ID == "" {
		return payment.Event{}, fmt.Errorf("%w: session id missing", payment.ErrInvalidEvent)
	}
	out.Session = &sess
	return out, nil
}
