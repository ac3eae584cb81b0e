package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	CtxSessionEmailKey = "session_email" // string

	// Supabase のブラウザセッションを入れているcookie
	SessionCookieName = "sb-access-token"
)

// SessionAuth はセッション(JWT)を読んで email を context に入れる。
// 無効でもここでは止めない（判断は ManagerGuard）。
func SessionAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := sessionToken(c.Request())
			if raw == "" || secret == "" {
				return next(c)
			}

			email, err := emailFromToken(raw, secret)
			if err == nil && email != "" {
				c.Set(CtxSessionEmailKey, email)
			}
			return next(c)
		}
	}
}

// Bearer ヘッダ > cookie
func sessionToken(r *http.Request) string {
	if authz := r.Header.Get("Authorization"); authz != "" {
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if ck, err := r.Cookie(SessionCookieName); err == nil {
		return strings.TrimSpace(ck.Value)
	}
	return ""
}

func emailFromToken(raw string, secret string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || token == nil || !token.Valid {
		return "", errors.New("invalid session")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	email, ok := claims["email"].(string)
	if !ok {
		return "", errors.New("invalid email claim")
	}
	return strings.ToLower(strings.TrimSpace(email)), nil
}

// SessionEmail は SessionAuth が入れた email を返す
func SessionEmail(c echo.Context) (string, bool) {
	email, ok := c.Get(CtxSessionEmailKey).(string)
	return email, ok && email != ""
}
