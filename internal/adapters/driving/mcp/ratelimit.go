package mcp

import (
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/notesmith/internal/core/domain"
	"github.com/custodia-labs/notesmith/internal/core/ports/driving"
)

// rateGate throttles tool calls according to the performance settings.
// Settings are re-read on every call so a config reload takes effect
// without restarting the server.
type rateGate struct {
	settings driving.SettingsService

	mu        sync.Mutex
	limiter   *rate.Limiter
	perMinute int
}

func newRateGate(settings driving.SettingsService) *rateGate {
	return &rateGate{settings: settings}
}

// Allow returns domain.ErrRateLimited when the call exceeds the configured rate.
func (g *rateGate) Allow() error {
	if g.settings == nil {
		return nil
	}
	settings, err := g.settings.Get()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}
	perf := settings.Performance
	if !perf.EnableRateLimiting || perf.MaxRequestsPerMinute <= 0 {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.limiter == nil || g.perMinute != perf.MaxRequestsPerMinute {
		n := perf.MaxRequestsPerMinute
		g.limiter = rate.NewLimiter(rate.Limit(float64(n)/60), n)
		g.perMinute = n
	}
	if !g.limiter.Allow() {
		return fmt.Errorf("%w: more than %d tool calls per minute", domain.ErrRateLimited, g.perMinute)
	}
	return nil
}
