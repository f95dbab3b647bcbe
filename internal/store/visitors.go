package store

import (
	"context"
	"database/sql"
	"time"
)

// Visit is one tracked page view. The client IP is stored only as a salted
// hash.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	VisitedAt time.Time `json:"visited_at"`
}

// PathCount is a page and its view count.
type PathCount struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

// VisitorRepo handles the visitors table.
type VisitorRepo struct {
	db *sql.DB
}

// Record inserts a visit.
func (r *VisitorRepo) Record(ctx context.Context, v Visit) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO visitors (hashed_ip, user_agent, path, visited_at) VALUES (?, ?, ?, ?)`,
		v.HashedIP, v.UserAgent, v.Path, v.VisitedAt.UnixMilli(),
	)
	return err
}

// DeleteOlderThan removes visits before cutoff and reports how many.
func (r *VisitorRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM visitors WHERE visited_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Recent returns the latest visits, newest first.
func (r *VisitorRepo) Recent(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, hashed_ip, user_agent, path, visited_at
		FROM visitors
		ORDER BY visited_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var v Visit
		var ms int64
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ms); err != nil {
			return nil, err
		}
		v.VisitedAt = time.UnixMilli(ms).UTC()
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// TopPaths returns the most viewed paths.
func (r *VisitorRepo) TopPaths(ctx context.Context, limit int) ([]PathCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT path, COUNT(*) AS views
		FROM visitors
		GROUP BY path
		ORDER BY views DESC, path ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PathCount
	for rows.Next() {
		var pc PathCount
		if err := rows.Scan(&pc.Path, &pc.Views); err != nil {
			return nil, err
		}
		out = append(out, pc)
	}
	return out, rows.Err()
}

func (r *VisitorRepo) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}
