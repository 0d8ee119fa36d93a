package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andresuchdata/supplyplan/internal/config"
	"github.com/andresuchdata/supplyplan/internal/domain"
)

const (
	resultKeyPrefix     = "planner:"
	optimizeKeyPrefix   = resultKeyPrefix + "optimize"
	analysisKeyPrefix   = resultKeyPrefix + "analyze"
	resultScanBatchSize = 100
	defaultResultTTL    = 5 * time.Minute
	redisPingTimeout    = 5 * time.Second
)

// ResultCache stores planning results keyed by a fingerprint of their inputs.
// Runs are idempotent so a hit is always equal to a fresh computation.
type ResultCache interface {
	GetOptimization(ctx context.Context, fingerprint string) (*domain.OptimizationResult, bool, error)
	SetOptimization(ctx context.Context, fingerprint string, result domain.OptimizationResult) error
	GetAnalysis(ctx context.Context, fingerprint string) (*domain.AnalysisReport, bool, error)
	SetAnalysis(ctx context.Context, fingerprint string, report domain.AnalysisReport) error
	InvalidateAll(ctx context.Context) error
}

type redisResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopResultCache struct{}

func NewResultCache(cfg config.CacheConfig) (ResultCache, error) {
	if !cfg.Enabled {
		return &noopResultCache{}, nil
	}

	c, err := dialRedis(cfg)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func dialRedis(cfg config.CacheConfig) (*redisResultCache, error) {
	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.ResultTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultResultTTL
	}
	return &redisResultCache{client: client, ttl: ttl}, nil
}

// buildRedisOptions prefers REDIS_URL and falls back to host, port and db.
func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host, port := cfg.RedisHost, cfg.RedisPort
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "6379"
	}
	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

func NewNoopResultCache() ResultCache {
	return &noopResultCache{}
}

// Fingerprint hashes the canonical JSON encoding of the given inputs.
func Fingerprint(parts ...any) (string, error) {
	h := sha1.New()
	enc := json.NewEncoder(h)
	for _, p := range parts {
		if err := enc.Encode(p); err != nil {
			return "", fmt.Errorf("fingerprint inputs: %w", err)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (c *redisResultCache) GetOptimization(ctx context.Context, fingerprint string) (*domain.OptimizationResult, bool, error) {
	var result domain.OptimizationResult
	ok, err := c.get(ctx, buildKey(optimizeKeyPrefix, fingerprint), &result)
	if !ok || err != nil {
		return nil, false, err
	}
	return &result, true, nil
}

func (c *redisResultCache) SetOptimization(ctx context.Context, fingerprint string, result domain.OptimizationResult) error {
	return c.set(ctx, buildKey(optimizeKeyPrefix, fingerprint), result)
}

func (c *redisResultCache) GetAnalysis(ctx context.Context, fingerprint string) (*domain.AnalysisReport, bool, error) {
	var report domain.AnalysisReport
	ok, err := c.get(ctx, buildKey(analysisKeyPrefix, fingerprint), &report)
	if !ok || err != nil {
		return nil, false, err
	}
	return &report, true, nil
}

func (c *redisResultCache) SetAnalysis(ctx context.Context, fingerprint string, report domain.AnalysisReport) error {
	return c.set(ctx, buildKey(analysisKeyPrefix, fingerprint), report)
}

// InvalidateAll deletes every planner key, in batches as the scan yields them.
func (c *redisResultCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, resultKeyPrefix+"*", resultScanBatchSize).Iterator()
	keys := make([]string, 0, resultScanBatchSize)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) < resultScanBatchSize {
			continue
		}
		if err := c.del(ctx, keys); err != nil {
			return err
		}
		keys = keys[:0]
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}
	return c.del(ctx, keys)
}

func (c *redisResultCache) del(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (c *redisResultCache) get(ctx context.Context, key string, dst any) (bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(payload, dst); err != nil {
		return false, fmt.Errorf("decode cached result %s: %w", key, err)
	}
	return true, nil
}

func (c *redisResultCache) set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cached result %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (n *noopResultCache) GetOptimization(ctx context.Context, fingerprint string) (*domain.OptimizationResult, bool, error) {
	return nil, false, nil
}

func (n *noopResultCache) SetOptimization(ctx context.Context, fingerprint string, result domain.OptimizationResult) error {
	return nil
}

func (n *noopResultCache) GetAnalysis(ctx context.Context, fingerprint string) (*domain.AnalysisReport, bool, error) {
	return nil, false, nil
}

func (n *noopResultCache) SetAnalysis(ctx context.Context, fingerprint string, report domain.AnalysisReport) error {
	return nil
}

func (n *noopResultCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildKey(prefix, fingerprint string) string {
	return fmt.Sprintf("%s:%s", prefix, fingerprint)
}
