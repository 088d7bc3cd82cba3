package db

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"seeshare/cfg"
	"seeshare/pkg/domain"
)

// redisHistoryKey namespaces the blob so one instance can serve several
// tools.
const redisHistoryKey = "seeshare:" + historyKey

// Redis is the alternate history backend for users who point several
// machines at one ledger. Same whole-blob semantics as the sqlite
// store: GET, transform, SET.
type Redis struct {
	client  *redis.Client
	timeout time.Duration
}

func NewRedis(c *cfg.Cfg) (*Redis, error) {
	opt, err := redis.ParseURL(c.RedisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	if c.RedisUsername != "" {
		opt.Username = c.RedisUsername
	}
	if c.RedisPassword.Value() != "" {
		opt.Password = c.RedisPassword.Value()
	}
	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, errors.Wrap(err, "ping redis")
	}
	return &Redis{
		client:  client,
		timeout: c.RedisTimeout,
	}, nil
}

func (r *Redis) load(ctx context.Context) ([]domain.HistoryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	raw, err := r.client.Get(ctx, redisHistoryKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read history blob")
	}
	return decodeHistory(raw)
}

func (r *Redis) save(ctx context.Context, items []domain.HistoryItem) error {
	raw, err := encodeHistory(items)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return errors.Wrap(r.client.Set(ctx, redisHistoryKey, raw, 0).Err(), "write history blob")
}

func (r *Redis) List(ctx context.Context) ([]domain.HistoryItem, error) {
	return r.load(ctx)
}

func (r *Redis) Add(ctx context.Context, item domain.HistoryItem) error {
	items, err := r.load(ctx)
	if err != nil {
		return err
	}
	items = append([]domain.HistoryItem{item}, items...)
	return r.save(ctx, items)
}

func (r *Redis) Remove(ctx context.Context, shareURL, createdAt string) error {
	items, err := r.load(ctx)
	if err != nil {
		return err
	}
	return r.save(ctx, filterHistory(items, shareURL, createdAt))
}

func (r *Redis) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
