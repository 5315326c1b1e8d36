package db

import "context"

// RedisClient is the subset of Redis the station index relies on.
type RedisClient interface {
	Set(key, value string) error
	Get(key string) (string, error)
	// AddLocationWithJSON indexes memberKey at lat/lon under geoKey and stores
	// data as JSON under memberKey.
	AddLocationWithJSON(ctx context.Context, geoKey, memberKey string, lat, lon float64, data interface{}) error
	// GetLocationsWithinRadius returns the JSON of every member of key within
	// radiusKm of lat/lon, nearest first.
	GetLocationsWithinRadius(key string, lat, lon, radiusKm float64) ([]string, error)
	GetContext() context.Context
	Ping() error
	Keys(pattern string) ([]string, error)
	Del(key string) error
}
