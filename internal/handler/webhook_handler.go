package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"storefront/internal/domain/payment"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Stripe のイベントはこれより十分小さい
const maxWebhookBody = 64 << 10

const stripeSignatureHeader = "Stripe-Signature"

type EventVerifier interface {
	Verify(payload []byte, signatureHeader string) (payment.Event, error)
}

type CheckoutHandler interface {
	HandleCompleted(ctx context.Context, eventID string, sess payment.CheckoutSession) (usecase.MaterializeResult, error)
}

type WebhookResponse struct {
	Received bool `json:"received"`
}

// /api/webhooks/stripe
type WebhookHandler struct {
	verifier EventVerifier
	checkout CheckoutHandler
	metrics  *metrics.Metrics
}

func NewWebhookHandler(verifier EventVerifier, checkout CheckoutHandler, m *metrics.Metrics) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, checkout: checkout, metrics: m}
}

func (h *WebhookHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/webhooks/stripe", h.stripe)
}

// 署名NGだけ400。取り込みの成否にかかわらず200を返す（再送ループを起こさない）。
func (h *WebhookHandler) stripe(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromCtx(ctx)
	h.count(metrics.WebhookReceived)

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody+1))
	if err != nil || len(body) > maxWebhookBody {
		h.count(metrics.WebhookRejected)
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payload"})
	}

	ev, err := h.verifier.Verify(body, c.Request().Header.Get(stripeSignatureHeader))
	if err != nil {
		if !errors.Is(err, payment.ErrInvalidEvent) {
			log.Error("webhook verify", "err", err)
		} else {
			log.Warn("webhook rejected", "err", err)
		}
		h.count(metrics.WebhookRejected)
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid signature"})
	}

	log = log.With("event_id", ev.ID, "event_type", ev.Type)

	if ev.Type != payment.EventCheckoutCompleted || ev.Session == nil {
		log.Debug("webhook ignored")
		h.count(metrics.WebhookIgnored)
		return c.JSON(http.StatusOK, WebhookResponse{Received: true})
	}

	res, err := h.checkout.HandleCompleted(logger.Inject(ctx, log), ev.ID, *ev.Session)
	switch {
	case err != nil:
		log.Error("materialize order", "session_id", ev.Session.ID, "err", err)
		h.count(metrics.WebhookFailed)
	case res.Outcome == usecase.OutcomeDuplicate:
		h.count(metrics.WebhookDuplicate)
	default:
		h.count(metrics.WebhookMaterialized)
	}

	return c.JSON(http.StatusOK, WebhookResponse{Received: true})
}

func (h *WebhookHandler) count(outcome string) {
	if h.metrics != nil {
		h.metrics.WebhookEvents.WithLabelValues(outcome).Inc()
	}
}
