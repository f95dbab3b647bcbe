// Package analytics records privacy-conscious page views: client IPs are
// only kept as salted hashes, Do Not Track is honoured and old visits are
// purged on a schedule.
package analytics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/fluxfolio/internal/store"
)

// Hasher hashes client IPs with a per-deployment salt.
type Hasher struct {
	salt string
}

func NewHasher(salt string) *Hasher {
	return &Hasher{salt: salt}
}

// Hash returns a stable, truncated hash of ip.
func (h *Hasher) Hash(ip string) string {
	sum := sha256.Sum256([]byte(ip + h.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// VisitStore is the persistence the tracker needs.
type VisitStore interface {
	Record(ctx context.Context, v store.Visit) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Options configures a Tracker.
type Options struct {
	Retention       time.Duration
	CleanupInterval time.Duration
	QueueSize       int
	Now             func() time.Time
}

// Tracker queues visits from the middleware and writes them from Run.
type Tracker struct {
	visits VisitStore
	hasher *Hasher
	logger *zap.Logger
	opts   Options
	queue  chan store.Visit
}

var skipPrefixes = []string{"/static/", "/admin", "/api/", "/favicon", "/privacy", "/healthz"}

func NewTracker(visits VisitStore, hasher *Hasher, logger *zap.Logger, opts Options) *Tracker {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Tracker{
		visits: visits,
		hasher: hasher,
		logger: logger,
		opts:   opts,
		queue:  make(chan store.Visit, opts.QueueSize),
	}
}

// Middleware enqueues a visit for every tracked page request. It never
// blocks the request: when the queue is full the visit is dropped.
func (t *Tracker) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != "GET" || skipped(path) || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		v := store.Visit{
			HashedIP:  t.hasher.Hash(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			VisitedAt: t.opts.Now().UTC(),
		}
		select {
		case t.queue <- v:
		default:
			t.logger.Debug("visit queue full, dropping visit", zap.String("path", path))
		}
		c.Next()
	}
}

func skipped(path string) bool {
	for _, p := range skipPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Run writes queued visits and purges expired ones until ctx is done.
func (t *Tracker) Run(ctx context.Context) error {
	t.cleanup(ctx)

	var tick <-chan time.Time
	if t.opts.CleanupInterval > 0 {
		ticker := time.NewTicker(t.opts.CleanupInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case v := <-t.queue:
			if err := t.visits.Record(ctx, v); err != nil {
				t.logger.Warn("error recording visitor", zap.Error(err))
			}
		case <-tick:
			t.cleanup(ctx)
		}
	}
}

func (t *Tracker) cleanup(ctx context.Context) {
	if t.opts.Retention <= 0 {
		return
	}
	deleted, err := t.visits.DeleteOlderThan(ctx, t.opts.Now().Add(-t.opts.Retention))
	if err != nil {
		t.logger.Warn("error cleaning up old visitor data", zap.Error(err))
		return
	}
	if deleted > 0 {
		t.logger.Info("privacy cleanup removed old visitor records", zap.Int64("deleted", deleted))
	}
}
