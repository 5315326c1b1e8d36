package db

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/skypies/geo"
)

// MockRedisClient is an in-memory RedisClient used outside production and in
// tests.
type MockRedisClient struct {
	data    map[string]string
	geoData map[string]map[string]geo.Latlong
	mu      sync.RWMutex
	context context.Context
}

func NewMockRedisClient(ctx context.Context) *MockRedisClient {
	return &MockRedisClient{
		data:    make(map[string]string),
		geoData: make(map[string]map[string]geo.Latlong),
		context: ctx,
	}
}

func (m *MockRedisClient) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockRedisClient) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, exists := m.data[key]
	if !exists {
		return "", fmt.Errorf("key not found: %s", key)
	}
	return value, nil
}

func (m *MockRedisClient) AddLocationWithJSON(ctx context.Context, geoKey, memberKey string, lat, lon float64, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.geoData[geoKey]; !exists {
		m.geoData[geoKey] = make(map[string]geo.Latlong)
	}
	m.geoData[geoKey][memberKey] = geo.Latlong{Lat: lat, Long: lon}
	m.data[memberKey] = string(jsonData)
	return nil
}

// GetLocationsWithinRadius filters members by great-circle distance, nearest
// first, the way GEORADIUS ... ASC does.
func (m *MockRedisClient) GetLocationsWithinRadius(key string, lat, lon, radiusKm float64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	center := geo.Latlong{Lat: lat, Long: lon}
	type hit struct {
		member string
		dist   float64
	}
	var hits []hit
	for member, loc := range m.geoData[key] {
		if d := center.DistKM(loc); d <= radiusKm {
			hits = append(hits, hit{member, d})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].member < hits[j].member
	})

	var results []string
	for _, h := range hits {
		if data, exists := m.data[h.member]; exists {
			results = append(results, data)
		}
	}
	return results, nil
}

func (m *MockRedisClient) GetContext() context.Context {
	return m.context
}

func (m *MockRedisClient) Ping() error {
	log.Debug().Msg("[MockRedisClient] Ping successful")
	return nil
}

// Keys supports the glob subset shared by Redis and path.Match.
func (m *MockRedisClient) Keys(pattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for k := range m.data {
		ok, err := path.Match(pattern, k)
		if err != nil {
			return nil, err
		}
		if ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MockRedisClient) Del(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	for _, members := range m.geoData {
		delete(members, key)
	}
	return nil
}
