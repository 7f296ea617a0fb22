package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"quizhub/internal/models"
)

const defaultTTL = 24 * time.Hour

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{client: client}
}

func quizKey(quizSetID string) string {
	return "quizset:" + quizSetID
}

func leaderboardKey(quizSetID string) string {
	return "leaderboard:" + quizSetID
}

func (c *RedisCache) SetQuizSet(ctx context.Context, quizSet *models.QuizSet) error {
	data, err := json.Marshal(quizSet)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, quizKey(quizSet.ID), data, defaultTTL).Err()
}

func (c *RedisCache) GetQuizSet(ctx context.Context, quizSetID string) (*models.QuizSet, error) {
	data, err := c.client.Get(ctx, quizKey(quizSetID)).Bytes()
	if err != nil {
		return nil, err
	}

	var quizSet models.QuizSet
	if err := json.Unmarshal(data, &quizSet); err != nil {
		return nil, err
	}
	return &quizSet, nil
}

func (c *RedisCache) InvalidateQuizSet(ctx context.Context, quizSetID string) error {
	return c.client.Del(ctx, quizKey(quizSetID)).Err()
}

// AddLeaderboardEntry scores the entry by attempt percentage. Attempts are
// immutable, so an entry is written once per (user, quiz set).
func (c *RedisCache) AddLeaderboardEntry(ctx context.Context, quizSetID string, entry models.LeaderboardEntry) error {
	member, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	pipe := c.client.Pipeline()
	pipe.ZAdd(ctx, leaderboardKey(quizSetID), &redis.Z{
		Score:  entry.Percentage,
		Member: string(member),
	})
	pipe.Expire(ctx, leaderboardKey(quizSetID), defaultTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// LeaderboardEntries returns one page ordered by percentage descending,
// plus the total number of cached entries. A zero total means the
// leaderboard is not cached and the caller should fall back to the store.
func (c *RedisCache) LeaderboardEntries(ctx context.Context, quizSetID string, offset, count int64) ([]models.LeaderboardEntry, int64, error) {
	key := leaderboardKey(quizSetID)

	total, err := c.client.ZCard(ctx, key).Result()
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return nil, 0, nil
	}

	results, err := c.client.ZRevRange(ctx, key, offset, offset+count-1).Result()
	if err != nil {
		return nil, 0, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(results))
	for _, member := range results {
		var entry models.LeaderboardEntry
		if err := json.Unmarshal([]byte(member), &entry); err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	return entries, total, nil
}

func (c *RedisCache) InvalidateLeaderboard(ctx context.Context, quizSetID string) error {
	return c.client.Del(ctx, leaderboardKey(quizSetID)).Err()
}
