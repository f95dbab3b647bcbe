package notify

import (
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogMailerLogsPayload(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := NewLogMailer(zap.New(core))

	err := m.Send(context.Background(), Message{To: "owner@example.com", Subject: "Hi", Body: "Body"})
	require.NoError(t, err)

	entries := logs.FilterMessage("sending email (simulation)").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "owner@example.com", entries[0].ContextMap()["to"])
	assert.Equal(t, "Body", entries[0].ContextMap()["body"])
}

func TestLogMailerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewLogMailer(zap.NewNop()).Send(ctx, Message{}), context.Canceled)
}

func TestSMTPMailerComposesAndSends(t *testing.T) {
	m := NewSMTPMailer("smtp.example.com", "587", "me@example.com", "pw")
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := m.Send(context.Background(), Message{
		To:      "owner@example.com",
		ReplyTo: "client@example.com\r\nBcc: victim@example.com",
		Subject: "Portfolio Contact: Ada",
		Body:    "Hello",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "me@example.com", gotFrom)
	assert.Equal(t, []string{"owner@example.com"}, gotTo)
	msg := string(gotMsg)
	assert.Contains(t, msg, "Subject: Portfolio Contact: Ada\r\n")
	assert.Contains(t, msg, "Reply-To: client@example.com Bcc: victim@example.com\r\n")
	assert.NotContains(t, msg, "\r\nBcc:")
	assert.Contains(t, msg, "\r\n\r\nHello\r\n")
}

func TestSMTPMailerErrors(t *testing.T) {
	m := NewSMTPMailer("h", "25", "", "")
	assert.Error(t, m.Send(context.Background(), Message{To: "a@b.c"}))

	m = NewSMTPMailer("h", "25", "u", "p")
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("refused") }
	assert.ErrorContains(t, m.Send(context.Background(), Message{To: "a@b.c"}), "refused")
}

func TestLogAppender(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	a := NewLogAppender(zap.New(core), time.Millisecond)

	rec := InquiryRecord{
		ID:         "abc",
		Name:       "Ada",
		Email:      "ada@example.com",
		Business:   "A bakery website",
		ReceivedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, a.Append(context.Background(), rec))
	require.Equal(t, 1, logs.Len())
	content := logs.All()[0].ContextMap()["content"].(string)
	assert.Contains(t, content, "Date: 2026-01-02T03:04:05Z")
	assert.Contains(t, content, "AI Summary:\n(none)")
}

func TestLogAppenderHonoursCancel(t *testing.T) {
	a := NewLogAppender(zap.NewNop(), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, a.Append(ctx, InquiryRecord{}), context.Canceled)
}
