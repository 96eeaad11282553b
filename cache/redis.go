package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ratst-engine/ratst/engine/translator"
)

// Redis shares results between processes. Each entry is a hash holding
// the dialect and the JSON response fields.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis wraps a client. ttl <= 0 keeps entries until evicted by Redis.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// DialRedis connects to addr and checks the connection
func DialRedis(ctx context.Context, addr string, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return NewRedis(client, ttl), nil
}

func (c *Redis) Get(ctx context.Context, dialect, expression string) (*translator.Result, bool, error) {
	hash, err := c.client.HGetAll(ctx, Key(dialect, expression)).Result()
	if err != nil {
		return nil, false, err
	}
	if len(hash) == 0 {
		return nil, false, nil
	}
	r, err := decodeEntry(hash)
	if err != nil {
		return nil, false, err
	}
	return r, true, nil
}

func (c *Redis) Set(ctx context.Context, dialect, expression string, result *translator.Result) error {
	fields, err := encodeEntry(result)
	if err != nil {
		return err
	}

	key := Key(dialect, expression)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, fields)
	if c.ttl > 0 {
		pipe.Expire(ctx, key, c.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (c *Redis) Close() error {
	return c.client.Close()
}

func encodeEntry(result *translator.Result) (map[string]any, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return map[string]any{"dialect": result.Dialect, "result": string(data)}, nil
}

func decodeEntry(hash map[string]string) (*translator.Result, error) {
	r := &translator.Result{}
	if err := json.Unmarshal([]byte(hash["result"]), r); err != nil {
		return nil, fmt.Errorf("failed to decode cached result: %w", err)
	}
	r.Dialect = hash["dialect"]
	return r, nil
}
