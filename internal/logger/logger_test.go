package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionWritesJSON(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	l := newWithWriter(&buf, true)
	l.Info("order materialized", "order_id", "o-1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "order materialized", line["msg"])
	assert.Equal(t, "o-1", line["order_id"])
}

func TestFromCtx(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	base := newWithWriter(&buf, false)

	assert.Same(t, base, FromCtx(context.Background()))

	reqLog := base.With("request_id", "r-1")
	ctx := Inject(context.Background(), reqLog)
	assert.Same(t, reqLog, FromCtx(ctx))
}
