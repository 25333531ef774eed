package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Redis     map[string]bool `json:"redis"`
	CheckedAt time.Time       `json:"checkedAt"`
}

// Healthy reports whether every checked dependency answered.
func (h HealthStatus) Healthy() bool {
	for _, ok := range h.Redis {
		if !ok {
			return false
		}
	}
	return true
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// CheckHealth pings every client once and stores the result.
func CheckHealth(ctx context.Context, clients map[string]*redis.Client) HealthStatus {
	status := HealthStatus{Redis: make(map[string]bool, len(clients)), CheckedAt: time.Now()}
	for name, client := range clients {
		err := client.Ping(ctx).Err()
		if err != nil {
			GetLogger().Warn("Redis health check failed", zap.String("redis", name), zap.Error(err))
		}
		status.Redis[name] = err == nil
	}

	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor performs periodic health checks until ctx is done.
func StartHealthMonitor(ctx context.Context, clients map[string]*redis.Client, every time.Duration) {
	CheckHealth(ctx, clients)
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
				CheckHealth(pingCtx, clients)
				cancel()
			case <-ctx.Done():
				return
			}
		}
	}()
}
