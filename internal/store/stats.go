package store

import (
	"context"
	"time"

	"github.com/Zachkp/fluxfolio/internal/notify"
)

// DashboardStats is the admin overview.
type DashboardStats struct {
	TotalVisitors    int64                  `json:"total_visitors"`
	UniqueVisitors   int64                  `json:"unique_visitors"`
	VisitorsToday    int64                  `json:"visitors_today"`
	VisitorsThisWeek int64                  `json:"visitors_this_week"`
	TotalInquiries   int64                  `json:"total_inquiries"`
	TopPaths         []PathCount            `json:"top_paths"`
	RecentVisitors   []Visit                `json:"recent_visitors"`
	RecentInquiries  []notify.InquiryRecord `json:"recent_inquiries"`
}

// Dashboard gathers the admin statistics as of now.
func (s *Store) Dashboard(ctx context.Context, now time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{}
	v := s.Visitors

	var err error
	if stats.TotalVisitors, err = v.count(ctx, `SELECT COUNT(*) FROM visitors`); err != nil {
		return nil, err
	}
	if stats.UniqueVisitors, err = v.count(ctx, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`); err != nil {
		return nil, err
	}

	now = now.UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if stats.VisitorsToday, err = v.count(ctx, `SELECT COUNT(*) FROM visitors WHERE visited_at >= ?`, startOfDay.UnixMilli()); err != nil {
		return nil, err
	}
	weekAgo := now.Add(-7 * 24 * time.Hour)
	if stats.VisitorsThisWeek, err = v.count(ctx, `SELECT COUNT(*) FROM visitors WHERE visited_at >= ?`, weekAgo.UnixMilli()); err != nil {
		return nil, err
	}

	if stats.TotalInquiries, err = s.Inquiries.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TopPaths, err = v.TopPaths(ctx, 10); err != nil {
		return nil, err
	}
	if stats.RecentVisitors, err = v.Recent(ctx, 50); err != nil {
		return nil, err
	}
	if stats.RecentInquiries, err = s.Inquiries.List(ctx, 10); err != nil {
		return nil, err
	}
	return stats, nil
}
