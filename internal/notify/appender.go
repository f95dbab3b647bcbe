package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// InquiryRecord is one entry in the inquiry document.
type InquiryRecord struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Business   string    `json:"business"`
	Summary    string    `json:"summary"`
	ReceivedAt time.Time `json:"received_at"`
}

// Appender adds inquiry records to a document.
type Appender interface {
	Append(ctx context.Context, rec InquiryRecord) error
}

// LogAppender simulates a document append: it logs the record and waits
// out a fixed latency.
type LogAppender struct {
	logger *zap.Logger
	delay  time.Duration
}

func NewLogAppender(logger *zap.Logger, delay time.Duration) *LogAppender {
	return &LogAppender{logger: logger, delay: delay}
}

func (a *LogAppender) Append(ctx context.Context, rec InquiryRecord) error {
	a.logger.Info("appending inquiry to document (simulation)",
		zap.String("id", rec.ID),
		zap.String("content", FormatRecord(rec)))

	if a.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(a.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// FormatRecord renders a record as the document block it would append.
func FormatRecord(rec InquiryRecord) string {
	var b strings.Builder
	b.WriteString("--- New Inquiry ---\n")
	fmt.Fprintf(&b, "Date: %s\n", rec.ReceivedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Name: %s\n", rec.Name)
	fmt.Fprintf(&b, "Email: %s\n\n", rec.Email)
	fmt.Fprintf(&b, "Business Description:\n%s\n\n", rec.Business)
	summary := rec.Summary
	if summary == "" {
		summary = "(none)"
	}
	fmt.Fprintf(&b, "AI Summary:\n%s\n", summary)
	b.WriteString("--------------------\n")
	return b.String()
}
