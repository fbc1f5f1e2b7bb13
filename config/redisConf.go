package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

var redisClient *redis.Client

// InitRedis initializes the Redis client used as the latest-reading cache
// and verifies the connection.
func InitRedis(addr string) error {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // No password by default
		DB:       0,
	})

	_, err := client.Ping(context.Background()).Result()
	if err != nil {
		log.Println("Could not connect to Redis:", err)
		return err
	}

	redisClient = client
	log.Println("Connected to Redis successfully!")
	return nil
}

// CacheLatestReading stores the most recent reading for a sensor with a TTL,
// so the status endpoint can answer without touching the main collection.
func CacheLatestReading(ctx context.Context, sensorID string, payload []byte, ttl time.Duration) error {
	if redisClient == nil {
		return fmt.Errorf("redis client is not initialized")
	}

	key := fmt.Sprintf("sensor:%s:latest", sensorID)
	return redisClient.Set(ctx, key, payload, ttl).Err()
}

// GetLatestReading returns the cached latest reading for a sensor, or nil
// when nothing is cached.
func GetLatestReading(ctx context.Context, sensorID string) ([]byte, error) {
	if redisClient == nil {
		return nil, fmt.Errorf("redis client is not initialized")
	}

	key := fmt.Sprintf("sensor:%s:latest", sensorID)
	payload, err := redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	return payload, nil
}

// RedisAvailable reports whether the cache was initialized at startup.
func RedisAvailable() bool {
	return redisClient != nil
}
