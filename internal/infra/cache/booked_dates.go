package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"rental-booking/internal/pkg/config"
	"rental-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	bookedDatesKeyPrefix = "booked_dates:"
	generationKeyPrefix  = "booked_dates_gen:"
)

var errStaleGeneration = errors.New("booked dates generation moved")

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// RedisBookedDatesCache stores the booked ranges of a property as JSON next
// to a generation counter. Booking writes bump the generation and delete the
// ranges after commit; a refill lands only if the generation it read is still
// current, so a slow reader cannot put back ranges loaded before the write.
type RedisBookedDatesCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisBookedDatesCache(client *redis.Client, ttl time.Duration) *RedisBookedDatesCache {
	return &RedisBookedDatesCache{client: client, ttl: ttl}
}

func (c *RedisBookedDatesCache) Get(ctx context.Context, propertyID uuid.UUID) (queries.BookedDatesLookup, error) {
	vals, err := c.client.MGet(ctx, bookedDatesKey(propertyID), generationKey(propertyID)).Result()
	if err != nil {
		return queries.BookedDatesLookup{}, fmt.Errorf("failed to get booked dates from redis: %w", err)
	}

	var lookup queries.BookedDatesLookup
	if raw, ok := vals[1].(string); ok {
		gen, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return queries.BookedDatesLookup{}, fmt.Errorf("failed to parse booked dates generation: %w", err)
		}
		lookup.Generation = gen
	}

	raw, ok := vals[0].(string)
	if !ok {
		return lookup, nil
	}
	if err := json.Unmarshal([]byte(raw), &lookup.Ranges); err != nil {
		return queries.BookedDatesLookup{}, fmt.Errorf("failed to unmarshal booked dates: %w", err)
	}
	lookup.Hit = true
	return lookup, nil
}

func (c *RedisBookedDatesCache) Set(ctx context.Context, propertyID uuid.UUID, generation int64, ranges []queries.BookedRange) error {
	if ranges == nil {
		ranges = []queries.BookedRange{}
	}
	data, err := json.Marshal(ranges)
	if err != nil {
		return fmt.Errorf("failed to marshal booked dates: %w", err)
	}

	genKey := generationKey(propertyID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, bookedDatesKey(propertyID), data, c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		return nil
	default:
		return fmt.Errorf("failed to set booked dates in redis: %w", err)
	}
}

func (c *RedisBookedDatesCache) Invalidate(ctx context.Context, propertyID uuid.UUID) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(propertyID))
		pipe.Del(ctx, bookedDatesKey(propertyID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete booked dates from redis: %w", err)
	}
	return nil
}

func bookedDatesKey(propertyID uuid.UUID) string {
	return bookedDatesKeyPrefix + propertyID.String()
}

func generationKey(propertyID uuid.UUID) string {
	return generationKeyPrefix + propertyID.String()
}

// NoopBookedDatesCache is used when Redis is disabled.
type NoopBookedDatesCache struct{}

func NewNoopBookedDatesCache() *NoopBookedDatesCache {
	return &NoopBookedDatesCache{}
}

func (NoopBookedDatesCache) Get(context.Context, uuid.UUID) (queries.BookedDatesLookup, error) {
	return queries.BookedDatesLookup{}, nil
}

func (NoopBookedDatesCache) Set(context.Context, uuid.UUID, int64, []queries.BookedRange) error {
	return nil
}

func (NoopBookedDatesCache) Invalidate(context.Context, uuid.UUID) error {
	return nil
}
