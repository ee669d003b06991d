package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisKey = "championship:jobs"

// RedisStore keeps envelopes in a sorted set scored by their run time in milliseconds.
type RedisStore struct {
	client *redis.Client
	key    string
	logger *slog.Logger
}

func NewRedisStore(client *redis.Client, key string, logger *slog.Logger) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key, logger: logger}
}

// ConnectRedis parses url, opens a client and pings it.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (s *RedisStore) Push(ctx context.Context, env Envelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal job %s: %w", env.ID, err)
	}
	if err := s.client.ZAdd(ctx, s.key, redis.Z{Score: float64(env.RunAt.UnixMilli()), Member: raw}).Err(); err != nil {
		return fmt.Errorf("push job %s: %w", env.ID, err)
	}
	return nil
}

// PopDue claims due members with ZREM; a member removed by another runner first is skipped.
func (s *RedisStore) PopDue(ctx context.Context, now time.Time, limit int) ([]Envelope, error) {
	members, err := s.client.ZRangeByScore(ctx, s.key, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("read due jobs: %w", err)
	}

	due := make([]Envelope, 0, len(members))
	for _, member := range members {
		removed, err := s.client.ZRem(ctx, s.key, member).Result()
		if err != nil {
			return due, fmt.Errorf("claim job: %w", err)
		}
		if removed == 0 {
			continue
		}

		var env Envelope
		if err := json.Unmarshal([]byte(member), &env); err != nil {
			s.logger.Error("dropping malformed job", slog.String("member", member), slog.Any("error", err))
			continue
		}
		due = append(due, env)
	}
	return due, nil
}
