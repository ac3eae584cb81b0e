package mail

import (
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"storefront/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRaw(t *testing.T) {
	cfg := config.SMTPConfig{From: "orders@example.com", FromName: "Sleep Shop"}
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	raw := string(buildRaw(cfg, Message{
		To:      []string{"jane@example.com", "ops@example.com"},
		Subject: "Order confirmed\r\nBcc: evil@example.com",
		Body:    "<p>Thanks</p>",
	}, now))

	assert.Contains(t, raw, "From: Sleep Shop <orders@example.com>\r\n")
	assert.Contains(t, raw, "To: jane@example.com, ops@example.com\r\n")
	assert.Contains(t, raw, "Subject: Order confirmedBcc: evil@example.com\r\n")
	assert.Contains(t, raw, "Content-Type: text/html")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\n<p>Thanks</p>"))
}

func TestSend_NotConfigured(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{})
	err := m.Send(context.Background(), Message{To: []string{"a@example.com"}})
	assert.ErrorContains(t, err, "SMTP_HOST")
}

func TestSend_NoRecipients(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{Host: "localhost", Port: "25", From: "a@example.com"})
	err := m.Send(context.Background(), Message{})
	assert.ErrorContains(t, err, "no recipients")
}

// 挨拶が 220 でなければ接続を閉じてエラー
func TestSendOnConn_BadGreetingClosesConn(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	go func() {
		_, _ = server.Write([]byte("554 no service\r\n"))
	}()

	err := sendOnConn(client, "smtp.example.com", nil, "orders@example.com", []string{"jane@example.com"}, []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp client")

	_, werr := client.Write([]byte("ping"))
	assert.ErrorIs(t, werr, io.ErrClosedPipe)
}
