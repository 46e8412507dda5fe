package db

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Prober answers "is the database reachable" for the request path. Results are
// cached for interval and concurrent callers share a single in-flight ping, so
// a burst of requests against a dead database costs one timeout, not N.
type Prober struct {
	db       *gorm.DB
	interval time.Duration
	timeout  time.Duration

	group singleflight.Group

	mu      sync.Mutex
	ok      bool
	checked time.Time
	now     func() time.Time
}

func NewProber(db *gorm.DB, interval, timeout time.Duration) *Prober {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if timeout <= 0 {
		timeout = time.Second
	}
	return &Prober{db: db, interval: interval, timeout: timeout, now: time.Now}
}

func (p *Prober) Healthy(ctx context.Context) bool {
	if p == nil || p.db == nil {
		return false
	}
	p.mu.Lock()
	if !p.checked.IsZero() && p.now().Sub(p.checked) < p.interval {
		ok := p.ok
		p.mu.Unlock()
		return ok
	}
	p.mu.Unlock()

	v, _, _ := p.group.Do("ping", func() (any, error) {
		ok := p.ping(ctx)
		p.mu.Lock()
		p.ok = ok
		p.checked = p.now()
		p.mu.Unlock()
		return ok, nil
	})
	return v.(bool)
}

// Invalidate forces the next Healthy call to ping.
func (p *Prober) Invalidate() {
	p.mu.Lock()
	p.checked = time.Time{}
	p.mu.Unlock()
}

func (p *Prober) ping(ctx context.Context) bool {
	sqlDB, err := p.db.DB()
	if err != nil {
		return false
	}
	// Detached from the request so one cancelled caller can't fail the
	// shared probe for everyone else waiting on it.
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()
	return sqlDB.PingContext(pctx) == nil
}
