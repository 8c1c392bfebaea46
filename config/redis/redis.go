package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const DefaultTTL = 10 * time.Minute

var Client *goredis.Client

var ErrCacheMiss = errors.New("cache miss")

func Connect(ctx context.Context, addr string, password string, database int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       database,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Println("Error while pinging redis: ", err)
		return nil, err
	}
	Client = client
	log.Println("Connected to redis: ", addr)
	return client, nil
}

func Ping(ctx context.Context) error {
	if Client == nil {
		return goredis.ErrClosed
	}
	return Client.Ping(ctx).Err()
}

// Cache stores JSON values in redis.
type Cache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewCache(client *goredis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) SetCache(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// GetCache decodes the cached value into dest and returns ErrCacheMiss when the key is absent.
func (c *Cache) GetCache(ctx context.Context, key string, dest interface{}) error {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (c *Cache) DeleteCache(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func Publish(ctx context.Context, client *goredis.Client, channel string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return client.Publish(ctx, channel, raw).Err()
}
