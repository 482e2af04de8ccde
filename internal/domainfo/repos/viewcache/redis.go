package viewcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tvaz/domainfo/internal/domainfo/common/log"
	"github.com/tvaz/domainfo/internal/domainfo/domain"
	"github.com/tvaz/domainfo/internal/domainfo/services/lookup"
)

const (
	redisKeyPrefix = "domainfo:view:"
	redisOpTimeout = 2 * time.Second
	redisDialCheck = 5 * time.Second
)

// Redis is a view cache backed by a shared Redis instance, for deployments
// running more than one service process. Cache errors degrade to misses;
// the cache tier must never fail a resolution.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger log.Logger
}

// NewRedis connects to Redis at addr and returns a view cache whose
// entries expire ttl after insertion.
func NewRedis(addr, password string, ttl time.Duration, logger log.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisDialCheck)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = log.GetLogger()
	}
	return &Redis{client: client, ttl: ttl, logger: logger}, nil
}

func (r *Redis) Get(key string) (domain.View, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	val, err := r.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if err != redis.Nil {
			r.logger.Debug(map[string]any{"key": key, "error": err}, "Redis view cache read failed")
		}
		return domain.View{}, false
	}

	var view domain.View
	if err := json.Unmarshal([]byte(val), &view); err != nil {
		r.logger.Debug(map[string]any{"key": key, "error": err}, "Redis view cache entry is not decodable")
		return domain.View{}, false
	}
	return view, true
}

func (r *Redis) Set(key string, view domain.View) {
	buf, err := json.Marshal(view)
	if err != nil {
		r.logger.Debug(map[string]any{"key": key, "error": err}, "Redis view cache encode failed")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := r.client.Set(ctx, redisKeyPrefix+key, buf, r.ttl).Err(); err != nil {
		r.logger.Debug(map[string]any{"key": key, "error": err}, "Redis view cache write failed")
	}
}

func (r *Redis) Remove(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := r.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		r.logger.Debug(map[string]any{"key": key, "error": err}, "Redis view cache delete failed")
	}
}

// Close releases the underlying Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

var _ lookup.ViewCache = (*Redis)(nil)
