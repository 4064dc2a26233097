package cache

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// timelineKey holds the public timeline: a sorted set of post ids
	// scored by publication time.
	timelineKey = "timeline:posts"

	// TimelineTTL bounds staleness if invalidation is ever missed.
	TimelineTTL = 24 * time.Hour
)

// PostScore pairs a post id with its publication timestamp score.
type PostScore struct {
	PostID    int64
	Timestamp int64
}

// TimelineCache keeps the ordered set of post ids for the public
// timeline so listing pages can be served without re-running the full
// ordering query. The database stays the source of truth: callers must
// fall back to it on a miss or any error.
type TimelineCache interface {
	// AddPost inserts a post id with its publication timestamp.
	AddPost(ctx context.Context, postID, timestamp int64) error

	// PostIDs returns all cached post ids, newest first.
	PostIDs(ctx context.Context) ([]int64, error)

	// Warm bulk-loads the timeline and resets its TTL.
	Warm(ctx context.Context, posts []PostScore) error

	// Exists reports whether the timeline key is populated.
	Exists(ctx context.Context) (bool, error)
}

// RedisTimelineCache implements TimelineCache on a Redis sorted set.
type RedisTimelineCache struct {
	client *redis.Client
}

func NewTimelineCache(client *redis.Client) TimelineCache {
	return &RedisTimelineCache{client: client}
}

func (c *RedisTimelineCache) AddPost(ctx context.Context, postID, timestamp int64) error {
	pipe := c.client.Pipeline()
	pipe.ZAdd(ctx, timelineKey, redis.Z{
		Score:  float64(timestamp),
		Member: strconv.FormatInt(postID, 10),
	})
	pipe.Expire(ctx, timelineKey, TimelineTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[TimelineCache] AddPost FAILED: post=%d err=%v", postID, err)
		return fmt.Errorf("add post to timeline: %w", err)
	}
	return nil
}

func (c *RedisTimelineCache) PostIDs(ctx context.Context) ([]int64, error) {
	members, err := c.client.ZRevRange(ctx, timelineKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read timeline: %w", err)
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse timeline member %q: %w", m, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *RedisTimelineCache) Warm(ctx context.Context, posts []PostScore) error {
	pipe := c.client.Pipeline()
	pipe.Del(ctx, timelineKey)
	for _, p := range posts {
		pipe.ZAdd(ctx, timelineKey, redis.Z{
			Score:  float64(p.Timestamp),
			Member: strconv.FormatInt(p.PostID, 10),
		})
	}
	pipe.Expire(ctx, timelineKey, TimelineTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[TimelineCache] Warm FAILED: posts=%d err=%v", len(posts), err)
		return fmt.Errorf("warm timeline: %w", err)
	}
	log.Printf("[TimelineCache] Warmed with %d posts", len(posts))
	return nil
}

func (c *RedisTimelineCache) Exists(ctx context.Context) (bool, error) {
	n, err := c.client.Exists(ctx, timelineKey).Result()
	if err != nil {
		return false, fmt.Errorf("check timeline exists: %w", err)
	}
	return n > 0, nil
}
