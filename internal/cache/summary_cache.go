package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wareflow/backend-go/internal/config"
	"github.com/wareflow/backend-go/internal/domain"
)

const (
	summaryKey           = "simulation:summary"
	summaryScanBatchSize = 100
)

type SummaryCache interface {
	GetSummary(ctx context.Context) (*domain.SimulationSummary, bool, error)
	SetSummary(ctx context.Context, summary *domain.SimulationSummary) error
	Invalidate(ctx context.Context) error
}

type redisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSummaryCache struct{}

func NewSummaryCache(cfg config.CacheConfig) (SummaryCache, error) {
	if !cfg.Enabled {
		return &noopSummaryCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisSummaryCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopSummaryCache() SummaryCache {
	return &noopSummaryCache{}
}

func (c *redisSummaryCache) GetSummary(ctx context.Context) (*domain.SimulationSummary, bool, error) {
	payload, err := c.client.Get(ctx, summaryKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var summary domain.SimulationSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, false, fmt.Errorf("decode summary cache: %w", err)
	}

	return &summary, true, nil
}

func (c *redisSummaryCache) SetSummary(ctx context.Context, summary *domain.SimulationSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode summary cache: %w", err)
	}

	if err := c.client.Set(ctx, summaryKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSummaryCache) Invalidate(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, summaryKey, summaryScanBatchSize)
}

func (n *noopSummaryCache) GetSummary(ctx context.Context) (*domain.SimulationSummary, bool, error) {
	return nil, false, nil
}

func (n *noopSummaryCache) SetSummary(ctx context.Context, summary *domain.SimulationSummary) error {
	return nil
}

func (n *noopSummaryCache) Invalidate(ctx context.Context) error {
	return nil
}
