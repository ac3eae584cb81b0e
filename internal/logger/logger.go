// Package logger は log/slog の薄いラッパー。
// 本番は JSON、それ以外はテキスト。リクエスト単位のロガーは context で運ぶ。
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type ctxKey struct{}

// New はプロセスのロガーを作り、slog のデフォルトにも設定する。
func New(production bool) *slog.Logger {
	return newWithWriter(os.Stdout, production)
}

func newWithWriter(w io.Writer, production bool) *slog.Logger {
	var handler slog.Handler
	if production {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

// Inject はリクエスト単位のロガーを ctx に入れる。
func Inject(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromCtx は ctx のロガーを返す（なければ slog.Default）。
func FromCtx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}
