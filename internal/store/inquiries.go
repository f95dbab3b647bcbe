package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/Zachkp/fluxfolio/internal/notify"
)

// InquiryRepo is the inquiry journal. It satisfies notify.Appender.
type InquiryRepo struct {
	db *sql.DB
}

var _ notify.Appender = (*InquiryRepo)(nil)

// Append stores an inquiry record.
func (r *InquiryRepo) Append(ctx context.Context, rec notify.InquiryRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO inquiries (id, name, email, business, summary, received_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Email, rec.Business, rec.Summary, rec.ReceivedAt.UnixMilli(),
	)
	return err
}

// List returns the latest inquiries, newest first.
func (r *InquiryRepo) List(ctx context.Context, limit int) ([]notify.InquiryRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, business, summary, received_at
		FROM inquiries
		ORDER BY received_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []notify.InquiryRecord
	for rows.Next() {
		var rec notify.InquiryRecord
		var ms int64
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Business, &rec.Summary, &ms); err != nil {
			return nil, err
		}
		rec.ReceivedAt = time.UnixMilli(ms).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Count returns the number of stored inquiries.
func (r *InquiryRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inquiries`).Scan(&n)
	return n, err
}
