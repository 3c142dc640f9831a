package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// cycleLockTTL outlives any plausible pass duration but expires old keys.
const cycleLockTTL = 48 * time.Hour

// RedisCycleLock claims one settlement run per pass per day via SETNX, so
// a re-fired trigger (crash recovery, duplicate cron) becomes a no-op.
type RedisCycleLock struct{ rdb *redis.Client }

func NewRedisCycleLock(rdb *redis.Client) *RedisCycleLock { return &RedisCycleLock{rdb: rdb} }

func (l *RedisCycleLock) key(pass string, day time.Time) string {
	return "settlement:" + pass + ":" + day.UTC().Format("2006-01-02")
}

func (l *RedisCycleLock) Acquire(ctx context.Context, pass string, day time.Time) (bool, error) {
	return l.rdb.SetNX(ctx, l.key(pass, day), 1, cycleLockTTL).Result()
}
