package fetch

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HostLimiter paces requests per hostname so each site sees at most one
// request per politeness interval. The initial token is drained on limiter
// creation, which makes even the first request to a host wait the full
// interval.
type HostLimiter struct {
	mu    sync.Mutex
	m     map[string]*rate.Limiter
	delay time.Duration
}

func NewHostLimiter(delay time.Duration) *HostLimiter {
	return &HostLimiter{
		m:     make(map[string]*rate.Limiter),
		delay: delay,
	}
}

func (hl *HostLimiter) limiterFor(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	if lim, ok := hl.m[host]; ok {
		return lim
	}
	lim := rate.NewLimiter(rate.Every(hl.delay), 1)
	lim.Reserve() // drain the initial token
	hl.m[host] = lim
	return lim
}

func (hl *HostLimiter) WaitURL(ctx context.Context, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return hl.limiterFor("_").Wait(ctx)
	}
	return hl.limiterFor(u.Host).Wait(ctx)
}
