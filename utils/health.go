package utils

import (
	"context"
	"sync"
	"time"

	"carebook/config"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus is the latest snapshot of external-dependency health. Redis
// clients are reported by name ("cache", "holds") because the hold store is
// booking-critical: a down "holds" entry means the reservation protocol is
// degraded even while the catalogue still serves.
type HealthStatus struct {
	Mongo     bool            `json:"mongo"`
	Redis     map[string]bool `json:"redis"`
	CheckedAt time.Time       `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns the latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// healthInterval resolves the check period from config, falling back to a
// minute when unset.
func healthInterval() time.Duration {
	if secs := config.AppConfig.HealthCheckIntervalSeconds; secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 60 * time.Second
}

// StartHealthMonitor periodically pings Mongo and the named Redis clients,
// updating the in-memory snapshot served by /health.
func StartHealthMonitor(redisClients map[string]*redis.Client, mongoClient *mongo.Client) {
	go func() {
		ticker := time.NewTicker(healthInterval())
		defer ticker.Stop()

		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

			redisHealth := make(map[string]bool, len(redisClients))
			for name, client := range redisClients {
				redisHealth[name] = client.Ping(ctx).Err() == nil
			}
			mongoHealthy := mongoClient.Ping(ctx, nil) == nil
			cancel()

			healthMu.Lock()
			currentHealth = HealthStatus{
				Mongo:     mongoHealthy,
				Redis:     redisHealth,
				CheckedAt: time.Now().UTC(),
			}
			healthMu.Unlock()
		}
	}()
}
