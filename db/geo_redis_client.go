package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// GeoRedisClient struct holds the Redis client and context
type GeoRedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewGeoRedisClient wraps client after checking the server is reachable.
func NewGeoRedisClient(ctx context.Context, client *redis.Client) (*GeoRedisClient, error) {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("could not connect to Redis: %w", err)
	}
	log.Info().Str("addr", client.Options().Addr).Msg("[GeoRedisClient] Connected to Redis")

	return &GeoRedisClient{
		client: client,
		ctx:    ctx,
	}, nil
}

// Set sets a key-value pair in Redis
func (r *GeoRedisClient) Set(key, value string) error {
	return r.client.Set(r.ctx, key, value, 0).Err()
}

// Get retrieves the value for a given key from Redis
func (r *GeoRedisClient) Get(key string) (string, error) {
	return r.client.Get(r.ctx, key).Result()
}

func (r *GeoRedisClient) AddLocationWithJSON(ctx context.Context, geoKey, memberKey string, lat, lon float64, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	// GEOADD and SET go out in one round trip
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.GeoAdd(ctx, geoKey, &redis.GeoLocation{
			Name:      memberKey,
			Latitude:  lat,
			Longitude: lon,
		})
		pipe.Set(ctx, memberKey, jsonData, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to add geolocation %s: %w", memberKey, err)
	}

	log.Debug().Str("member", memberKey).Msg("[GeoRedisClient] Added geolocation and JSON")
	return nil
}

func (r *GeoRedisClient) GetLocationsWithinRadius(key string, lat, lon, radiusKm float64) ([]string, error) {
	ctx := r.ctx
	results, err := r.client.GeoRadius(ctx, key, lon, lat, &redis.GeoRadiusQuery{
		Radius: radiusKm,
		Unit:   "km",
		Sort:   "ASC",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get nearby locations: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	names := make([]string, len(results))
	for i, loc := range results {
		names[i] = loc.Name
	}
	values, err := r.client.MGet(ctx, names...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read location data: %w", err)
	}

	objects := make([]string, 0, len(values))
	for i, v := range values {
		data, ok := v.(string)
		if !ok {
			log.Warn().Str("member", names[i]).Msg("[GeoRedisClient] Skipping member without data")
			continue
		}
		objects = append(objects, data)
	}
	return objects, nil
}

func (r *GeoRedisClient) GetContext() context.Context {
	return r.ctx
}

func (r *GeoRedisClient) Ping() error {
	_, err := r.client.Ping(r.ctx).Result()
	return err
}

// Keys walks the keyspace with SCAN rather than blocking the server on KEYS.
func (r *GeoRedisClient) Keys(pattern string) ([]string, error) {
	var keys []string
	iter := r.client.Scan(r.ctx, 0, pattern, 100).Iterator()
	for iter.Next(r.ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *GeoRedisClient) Del(key string) error {
	return r.client.Del(r.ctx, key).Err()
}

func (r *GeoRedisClient) Close() error {
	return r.client.Close()
}
