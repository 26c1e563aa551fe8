// Package resilience provides spawn rate limiting for agents that launch
// worker subprocesses in bulk.
package resilience

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// SpawnLimiter bounds the rate of subprocess creation.
type SpawnLimiter interface {
	// Allow reports whether a spawn of the given binary is allowed now.
	Allow(binary string) bool

	// Wait blocks until a spawn is allowed or the context is canceled.
	Wait(ctx context.Context, binary string) error
}

// SpawnLimiterConfig configures the limiter.
type SpawnLimiterConfig struct {
	// SpawnsPerSecond is the sustained spawn rate.
	SpawnsPerSecond float64

	// Burst is the burst size.
	Burst int

	// PerBinary tracks each binary with its own limiter.
	PerBinary bool
}

// DefaultSpawnLimiterConfig returns the default configuration.
func DefaultSpawnLimiterConfig() SpawnLimiterConfig {
	return SpawnLimiterConfig{
		SpawnsPerSecond: 50,
		Burst:           100,
		PerBinary:       false,
	}
}

type spawnLimiter struct {
	config SpawnLimiterConfig
	global *rate.Limiter
	perBin map[string]*rate.Limiter
	mu     sync.Mutex
}

// NewSpawnLimiter creates a limiter from the configuration.
func NewSpawnLimiter(config SpawnLimiterConfig) SpawnLimiter {
	return &spawnLimiter{
		config: config,
		global: rate.NewLimiter(rate.Limit(config.SpawnsPerSecond), config.Burst),
		perBin: make(map[string]*rate.Limiter),
	}
}

// Allow implements SpawnLimiter.Allow.
func (l *spawnLimiter) Allow(binary string) bool {
	return l.limiter(binary).Allow()
}

// Wait implements SpawnLimiter.Wait.
func (l *spawnLimiter) Wait(ctx context.Context, binary string) error {
	return l.limiter(binary).Wait(ctx)
}

func (l *spawnLimiter) limiter(binary string) *rate.Limiter {
	if !l.config.PerBinary {
		return l.global
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	limiter, ok := l.perBin[binary]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(l.config.SpawnsPerSecond), l.config.Burst)
		l.perBin[binary] = limiter
	}
	return limiter
}
