package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces successive requests per key. Burst 1 means every Wait
// after the first blocks for the full interval, which keeps fetches
// evenly paced whether the previous attempt succeeded or failed.
type Pacer struct {
	mu       sync.Mutex
	m        map[string]*rate.Limiter
	interval time.Duration
}

// NewPacer creates a pacer with the given minimum interval between
// requests sharing a key. A non-positive interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{
		m:        make(map[string]*rate.Limiter),
		interval: interval,
	}
}

// Wait blocks until the next request for key may proceed or ctx is done.
func (p *Pacer) Wait(ctx context.Context, key string) error {
	if p.interval <= 0 {
		return nil
	}

	p.mu.Lock()
	l, ok := p.m[key]
	if !ok {
		l = rate.NewLimiter(rate.Every(p.interval), 1)
		p.m[key] = l
	}
	p.mu.Unlock()

	return l.Wait(ctx)
}
