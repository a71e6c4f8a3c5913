package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"eterna_server/config"
	"eterna_server/structs"
	"eterna_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
	redisCtx    = context.Background()
)

const (
	categoryTreeKey = "catalog:categories"
	productViewsKey = "catalog:products"
	catalogPattern  = "catalog:*"
)

// CacheService provides Redis caching functionality with connection pooling and retry logic
type CacheService struct {
	logger *gecho.Logger
	config *structs.Config
	client *redis.Client
}

func NewCacheService(logger *gecho.Logger, cfg *structs.Config) *CacheService {
	return &CacheService{
		logger: logger,
		config: cfg,
		client: getRedisClient(),
	}
}

// getRedisClient returns a singleton Redis client with proper connection pooling
func getRedisClient() *redis.Client {
	redisOnce.Do(func() {
		cfg := config.GetConfig()
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Address,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,

			// Connection pool settings
			PoolSize:        cfg.Cache.PoolSize,
			MinIdleConns:    cfg.Cache.MinIdleConns,
			MaxIdleConns:    cfg.Cache.MaxIdleConns,
			PoolTimeout:     cfg.Cache.PoolTimeout,
			ConnMaxIdleTime: cfg.Cache.IdleTimeout,

			// Timeouts
			DialTimeout:  cfg.Cache.DialTimeout,
			ReadTimeout:  cfg.Cache.ReadTimeout,
			WriteTimeout: cfg.Cache.WriteTimeout,

			// Retry settings
			MaxRetries:      cfg.Cache.MaxRetries,
			MinRetryBackoff: cfg.Cache.MinRetryBackoff,
			MaxRetryBackoff: cfg.Cache.MaxRetryBackoff,
		})
	})
	return redisClient
}

// Close closes the Redis connection pool
func (cs *CacheService) Close() error {
	if redisClient != nil {
		return redisClient.Close()
	}
	return nil
}

// withRetry executes a Redis operation with exponential backoff and jitter
func (cs *CacheService) withRetry(operation func() error, maxRetries int) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		if attempt == maxRetries {
			break
		}

		// Only retry on network/connection errors, not on logical errors like key not found
		if !isRetryableRedisError(err) {
			return err
		}

		time.Sleep(backoffWithJitter(attempt))
	}

	return fmt.Errorf("redis operation failed after %d retries: %w", maxRetries, lastErr)
}

// backoffWithJitter returns 100ms doubled per attempt, capped at 2s, with the
// upper half randomized.
func backoffWithJitter(attempt int) time.Duration {
	const (
		base       = 100  // ms
		maxBackoff = 2000 // ms
	)

	backoff := min(base*(1<<attempt), maxBackoff)

	jitterBytes := make([]byte, 4)
	if _, err := rand.Read(jitterBytes); err != nil {
		return time.Duration(backoff) * time.Millisecond
	}
	jitter := int(uint32(jitterBytes[0])<<24|uint32(jitterBytes[1])<<16|uint32(jitterBytes[2])<<8|uint32(jitterBytes[3])) % (backoff/2 + 1)

	return time.Duration(backoff/2+jitter) * time.Millisecond
}

// isRetryableRedisError determines if an error is worth retrying
func isRetryableRedisError(err error) bool {
	if err == nil || err == redis.Nil {
		return false
	}

	errStr := err.Error()
	retryableErrors := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"broken pipe",
		"no such host",
		"network is unreachable",
	}

	for _, retryableErr := range retryableErrors {
		if strings.Contains(errStr, retryableErr) {
			return true
		}
	}

	return false
}

// Set sets a key with TTL and automatic retry logic
func (cs *CacheService) Set(key string, value any, ttl time.Duration) error {
	return cs.withRetry(func() error {
		return cs.client.Set(redisCtx, key, value, ttl).Err()
	}, 3)
}

// Get retrieves a key with automatic retry logic. A missing key returns "" and no error.
func (cs *CacheService) Get(key string) (string, error) {
	var result string

	err := cs.withRetry(func() error {
		val, err := cs.client.Get(redisCtx, key).Result()
		if err == redis.Nil {
			result = ""
			return nil
		}
		if err != nil {
			return err
		}
		result = val
		return nil
	}, 3)

	if err != nil {
		return "", err
	}

	return result, nil
}

// Delete removes a key with automatic retry logic
func (cs *CacheService) Delete(key string) error {
	return cs.withRetry(func() error {
		return cs.client.Del(redisCtx, key).Err()
	}, 3)
}

// ============================================================================
// Auth Caching Methods
// ============================================================================

// BlacklistToken adds a token's jti to the blacklist until the token would have expired
func (cs *CacheService) BlacklistToken(jti uuid.UUID, exp time.Time) error {
	ttl := cs.config.Auth.BlacklistCacheTTL
	if exp.After(time.Now()) {
		ttl = time.Until(exp)
	}

	return cs.Set(blacklistKey(jti), "true", ttl)
}

// IsTokenBlacklisted checks if a JTI exists in Redis with retry logic
func (cs *CacheService) IsTokenBlacklisted(jti uuid.UUID) (bool, error) {
	val, err := cs.Get(blacklistKey(jti))
	if err != nil {
		return false, err
	}

	return val == "true", nil
}

// GetProfile returns the cached profile of a user, nil on a miss
func (cs *CacheService) GetProfile(userID uuid.UUID) (*tables.Profile, error) {
	return getJSON[tables.Profile](cs, profileKey(userID))
}

// SetProfile caches a profile for the configured profile TTL
func (cs *CacheService) SetProfile(profile *tables.Profile) error {
	if profile == nil {
		return nil
	}
	return setJSON(cs, profileKey(profile.Id), profile, cs.ttl(cs.config.Cache.ProfileTTL, time.Minute))
}

// InvalidateProfile drops a cached profile so the next check reads the role again
func (cs *CacheService) InvalidateProfile(userID uuid.UUID) error {
	return cs.Delete(profileKey(userID))
}

// ============================================================================
// Rate Limiting
// ============================================================================

// IncrementRateLimit atomically increments a rate limit counter
func (cs *CacheService) IncrementRateLimit(ip, endpoint string, ttl time.Duration) (int, error) {
	key := rateLimitKey(ip, endpoint)

	var result int64
	err := cs.withRetry(func() error {
		val, err := cs.client.Incr(redisCtx, key).Result()
		if err != nil {
			return err
		}
		result = val

		// Set expiration only on first increment
		if val == 1 {
			return cs.client.Expire(redisCtx, key, ttl).Err()
		}

		return nil
	}, 3)

	return int(result), err
}

// GetRateLimitStatus returns current rate limit information for debugging
func (cs *CacheService) GetRateLimitStatus(ip, endpoint string) (map[string]any, error) {
	key := rateLimitKey(ip, endpoint)

	var result map[string]any

	err := cs.withRetry(func() error {
		val, err := cs.client.Get(redisCtx, key).Result()
		if err == redis.Nil {
			result = map[string]any{"count": 0, "ttl": 0}
			return nil
		}
		if err != nil {
			return err
		}

		ttl, err := cs.client.TTL(redisCtx, key).Result()
		if err != nil {
			return err
		}

		count, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid rate limit value: %w", err)
		}

		result = map[string]any{
			"count": count,
			"ttl":   int(ttl.Seconds()),
		}
		return nil
	}, 3)

	return result, err
}

// ============================================================================
// Catalog Caching Methods
// ============================================================================

// GetCategoryTree retrieves the cached category tree, nil on a miss
func (cs *CacheService) GetCategoryTree() ([]tables.Category, error) {
	tree, err := getJSON[[]tables.Category](cs, categoryTreeKey)
	if err != nil || tree == nil {
		return nil, err
	}
	return *tree, nil
}

// SetCategoryTree caches the category tree
func (cs *CacheService) SetCategoryTree(tree []tables.Category) error {
	return setJSON(cs, categoryTreeKey, tree, cs.catalogTTL())
}

// GetProductViews retrieves the cached public product views, nil on a miss
func (cs *CacheService) GetProductViews() ([]structs.ProductView, error) {
	views, err := getJSON[[]structs.ProductView](cs, productViewsKey)
	if err != nil || views == nil {
		return nil, err
	}
	return *views, nil
}

// SetProductViews caches the public product views
func (cs *CacheService) SetProductViews(views []structs.ProductView) error {
	return setJSON(cs, productViewsKey, views, cs.catalogTTL())
}

// InvalidateCatalog removes every catalog cache entry. Category changes rename
// what products display, so products and categories are dropped together.
func (cs *CacheService) InvalidateCatalog() error {
	if err := cs.DeletePattern(catalogPattern); err != nil {
		cs.logger.Warn("Failed to invalidate catalog cache", gecho.Field("error", err))
		return err
	}

	cs.logger.Debug("Catalog cache invalidated")
	return nil
}

// catalogInvalidator drops cached catalog reads after a write
type catalogInvalidator interface {
	InvalidateCatalog() error
}

// invalidateCatalog runs before a write returns, so the caller's next read
// sees the change. A failure is already logged by the cache.
func invalidateCatalog(cache catalogInvalidator) {
	_ = cache.InvalidateCatalog()
}

// DeletePattern removes all keys matching a pattern using SCAN
func (cs *CacheService) DeletePattern(pattern string) error {
	return cs.withRetry(func() error {
		var cursor uint64

		for {
			keys, nextCursor, err := cs.client.Scan(redisCtx, cursor, pattern, 100).Result()
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			if len(keys) > 0 {
				if err := cs.client.Del(redisCtx, keys...).Err(); err != nil {
					return fmt.Errorf("delete failed: %w", err)
				}
			}

			cursor = nextCursor
			if cursor == 0 {
				break
			}
		}

		return nil
	}, 3)
}

func (cs *CacheService) ClearAll() error {
	return cs.withRetry(func() error {
		return cs.client.FlushDB(redisCtx).Err()
	}, 3)
}

// Ping tests the Redis connection
func (cs *CacheService) Ping() error {
	return cs.withRetry(func() error {
		return cs.client.Ping(redisCtx).Err()
	}, 3)
}

// GetConnectionStats returns Redis connection pool statistics
func (cs *CacheService) GetConnectionStats() map[string]any {
	stats := cs.client.PoolStats()

	return map[string]any{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}

// ============================================================================
// Helper Methods
// ============================================================================

func (cs *CacheService) catalogTTL() time.Duration {
	return cs.ttl(cs.config.Cache.CatalogTTL, 5*time.Minute)
}

func (cs *CacheService) ttl(configured, fallback time.Duration) time.Duration {
	if configured > 0 {
		return configured
	}
	return fallback
}

func blacklistKey(jti uuid.UUID) string {
	return fmt.Sprintf("blacklist:%s", jti.String())
}

func profileKey(userID uuid.UUID) string {
	return fmt.Sprintf("profile:%s", userID.String())
}

func rateLimitKey(ip, endpoint string) string {
	return fmt.Sprintf("ratelimit:%s:%s", ip, endpoint)
}

func setJSON[T any](cs *CacheService, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return cs.Set(key, data, ttl)
}

func getJSON[T any](cs *CacheService, key string) (*T, error) {
	val, err := cs.Get(key)
	if err != nil {
		return nil, err
	}

	if val == "" {
		return nil, nil // not found in cache
	}

	var result T
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, err
	}

	return &result, nil
}
