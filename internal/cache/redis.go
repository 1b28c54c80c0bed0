package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keys for the read-heavy report endpoints
const (
	StatsKey      = "stats:vendite"
	CassettoKey   = "stats:cassetto"
	LacSummaryKey = "lac:summary"
)

var client *redis.Client

// Init initializes the Redis connection
func Init() error {
	// K8s sets REDIS_SERVICE_HOST and REDIS_SERVICE_PORT for services
	host := os.Getenv("REDIS_SERVICE_HOST")
	if host == "" {
		host = "redis" // fallback to service name
	}
	port := os.Getenv("REDIS_SERVICE_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client and set to nil for graceful degradation
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// hashCredentials creates a hash of email+password for cache key
func hashCredentials(email, password string) string {
	h := sha256.New()
	h.Write([]byte(email + ":" + password))
	return "auth:" + hex.EncodeToString(h.Sum(nil))[:32]
}

// GetCachedAuth checks if credentials are cached and valid
func GetCachedAuth(ctx context.Context, email, password string) (string, bool) {
	if client == nil {
		return "", false
	}
	key := hashCredentials(email, password)
	uid, err := client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return uid, true
}

// CacheAuth caches valid credentials for 15 minutes
func CacheAuth(ctx context.Context, email, password, uid string) {
	if client == nil {
		return
	}
	key := hashCredentials(email, password)
	client.Set(ctx, key, uid, 15*time.Minute)
}

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidatePattern removes all keys matching a glob pattern
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateKeys removes specific cache keys
func InvalidateKeys(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateSaleCaches clears sale-derived caches.
// Called when: CreateSale, UpdateStatus, DeleteSale, Archive, backup import
func InvalidateSaleCaches(ctx context.Context) {
	InvalidateKeys(ctx, StatsKey, CassettoKey)
}

// InvalidateRepairCaches clears repair-derived caches
func InvalidateRepairCaches(ctx context.Context) {
	InvalidateKeys(ctx, CassettoKey)
}

// InvalidateKPICaches clears monthly-sheet caches.
// Called when: ImportSheet, daily closure write-back
func InvalidateKPICaches(ctx context.Context) {
	InvalidatePattern(ctx, "kpi:*")
}

// InvalidateLacCaches clears contact-lens caches
func InvalidateLacCaches(ctx context.Context) {
	InvalidateKeys(ctx, LacSummaryKey)
}

// IsHealthy checks if Redis is responding
func IsHealthy(ctx context.Context) bool {
	if client == nil {
		return false
	}
	return client.Ping(ctx).Err() == nil
}
