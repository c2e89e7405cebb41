package cache

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/SuryanshuBanerjee/tempmitra/internal/triage"
)

const (
	topicCountsKey     = "analytics:topics"
	sentimentCountsKey = "analytics:sentiment"
)

// AnalyticsCache keeps running counters of classified chat messages
type AnalyticsCache interface {
	RecordClassification(ctx context.Context, result triage.ClassificationResult) error
	TopicCounts(ctx context.Context) (map[string]int64, error)
	SentimentCounts(ctx context.Context) (map[string]int64, error)
	ReplaceTopicCounts(ctx context.Context, counts map[string]int64) error
}

type analyticsCache struct {
	client *redis.Client
}

// NewAnalyticsCache creates a new analytics cache
func NewAnalyticsCache(client *redis.Client) AnalyticsCache {
	return &analyticsCache{client: client}
}

func (c *analyticsCache) RecordClassification(ctx context.Context, result triage.ClassificationResult) error {
	pipe := c.client.TxPipeline()
	pipe.HIncrBy(ctx, topicCountsKey, string(result.Topic), 1)
	pipe.HIncrBy(ctx, sentimentCountsKey, string(result.Sentiment), 1)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *analyticsCache) TopicCounts(ctx context.Context) (map[string]int64, error) {
	return c.readCounts(ctx, topicCountsKey)
}

func (c *analyticsCache) SentimentCounts(ctx context.Context) (map[string]int64, error) {
	return c.readCounts(ctx, sentimentCountsKey)
}

// ReplaceTopicCounts overwrites the topic counters, used after a full recount
func (c *analyticsCache) ReplaceTopicCounts(ctx context.Context, counts map[string]int64) error {
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, topicCountsKey)
	if len(counts) > 0 {
		values := make(map[string]interface{}, len(counts))
		for k, v := range counts {
			values[k] = v
		}
		pipe.HSet(ctx, topicCountsKey, values)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (c *analyticsCache) readCounts(ctx context.Context, key string) (map[string]int64, error) {
	raw, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(raw))
	for k, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, err
		}
		out[k] = n
	}
	return out, nil
}
