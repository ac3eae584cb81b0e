package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"slices"

	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/repository"

	"github.com/labstack/echo/v4"
)

const (
	decisionAllow    = "allow"
	decisionBypass   = "bypass"
	decisionNoSess   = "no_session"
	decisionDenied   = "denied"
	decisionLookupKO = "lookup_error"
)

// ManagerGuard は管理画面/管理APIの入口。毎リクエスト判定し、結果はキャッシュしない。
//   - セッションなし → ログインへ
//   - bypassEmails に入っている → 通す
//   - managers に有効な行がある → 通す
//   - それ以外（見つからない/無効/DBエラー） → ログインへ
func ManagerGuard(managers repository.ManagerRepository, bypassEmails []string, loginURL string, m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, ok := SessionEmail(c)
			if !ok {
				return deny(c, loginURL, decisionNoSess, m)
			}

			if slices.Contains(bypassEmails, email) {
				count(m, decisionBypass)
				return next(c)
			}

			ctx := c.Request().Context()
			mgr, err := managers.FindByEmail(ctx, email)
			if err != nil {
				if !errors.Is(err, repository.ErrNotFound) {
					logger.FromCtx(ctx).Error("manager lookup failed", "email", email, "err", err)
					return deny(c, loginURL, decisionLookupKO, m)
				}
				return deny(c, loginURL, decisionDenied, m)
			}
			if !mgr.IsActive {
				return deny(c, loginURL, decisionDenied, m)
			}

			count(m, decisionAllow)
			return next(c)
		}
	}
}

func deny(c echo.Context, loginURL string, decision string, m *metrics.Metrics) error {
	count(m, decision)
	return c.Redirect(http.StatusTemporaryRedirect, loginRedirect(loginURL, c.Request().URL.Path))
}

// /login?next=/admin/orders
func loginRedirect(loginURL string, next string) string {
	u, err := url.Parse(loginURL)
	if err != nil {
		return loginURL
	}
	q := u.Query()
	q.Set("next", next)
	u.RawQuery = q.Encode()
	return u.String()
}

func count(m *metrics.Metrics, decision string) {
	if m != nil {
		m.GateDecisions.WithLabelValues(decision).Inc()
	}
}
