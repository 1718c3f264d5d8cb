// Package ratelimit throttles API clients with per-endpoint token buckets.
package ratelimit

import (
	"math"
	"sync"
	"time"
)

// bucketIdleTTL is how long an untouched bucket survives before the sweeper
// drops it.
const bucketIdleTTL = time.Hour

// Info describes the limiter's verdict for one request.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// bucket is a token bucket that refills continuously. Guarded by the
// limiter's mutex.
type bucket struct {
	level     float64
	capacity  float64
	perSecond float64
	lastSeen  time.Time
}

func (b *bucket) refill(now time.Time) {
	b.level = math.Min(b.capacity, b.level+now.Sub(b.lastSeen).Seconds()*b.perSecond)
	b.lastSeen = now
}

// take consumes one token if available.
func (b *bucket) take(now time.Time) bool {
	b.refill(now)
	if b.level < 1 {
		return false
	}
	b.level--
	return true
}

// resetAt reports when the bucket will be full again.
func (b *bucket) resetAt(now time.Time) time.Time {
	if b.level >= b.capacity {
		return now
	}
	wait := (b.capacity - b.level) / b.perSecond
	return now.Add(time.Duration(wait * float64(time.Second)))
}

// nextTokenIn reports how long until one token is available.
func (b *bucket) nextTokenIn() time.Duration {
	if b.level >= 1 {
		return 0
	}
	return time.Duration((1 - b.level) / b.perSecond * float64(time.Second))
}

// Limiter tracks one bucket per client and matched rule.
type Limiter struct {
	cfg   *Config
	clock func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	done      chan struct{}
	closeOnce sync.Once
}

// NewLimiter builds a limiter and starts its idle-bucket sweeper.
func NewLimiter(cfg *Config) *Limiter {
	l := &Limiter{
		cfg:     cfg,
		clock:   time.Now,
		buckets: make(map[string]*bucket),
		done:    make(chan struct{}),
	}
	if cfg.Enabled && cfg.SweepInterval > 0 {
		go l.sweep(cfg.SweepInterval)
	}
	return l
}

// Allow decides whether one request from clientID may proceed.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.cfg.Enabled || l.cfg.Exempt[clientID] {
		return true, Info{Allowed: true}
	}
	if l.cfg.Blocked[clientID] {
		return false, Info{}
	}

	rule := l.cfg.match(path, method)
	if rule.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.clock()
	key := clientID + " " + method + " " + path

	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.buckets[key]
	if b == nil {
		burst := rule.Burst
		if burst <= 0 {
			burst = rule.Limit
		}
		b = &bucket{
			level:     float64(burst),
			capacity:  float64(burst),
			perSecond: float64(rule.Limit) / rule.Window.Seconds(),
			lastSeen:  now,
		}
		l.buckets[key] = b
	}

	allowed := b.take(now)
	info := Info{
		Allowed:   allowed,
		Limit:     rule.Limit,
		Remaining: int(b.level),
		ResetTime: b.resetAt(now),
	}
	if !allowed {
		info.RetryAfter = b.nextTokenIn()
	}
	return allowed, info
}

func (l *Limiter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweepOnce(l.clock())
		case <-l.done:
			return
		}
	}
}

// sweepOnce drops buckets idle longer than bucketIdleTTL.
func (l *Limiter) sweepOnce(now time.Time) {
	cutoff := now.Add(-bucketIdleTTL)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop terminates the sweeper goroutine.
func (l *Limiter) Stop() {
	l.closeOnce.Do(func() { close(l.done) })
}
