package db_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tube-twin/db"
)

// Test the Set and Get methods
func TestRedisClient_SetAndGet(t *testing.T) {
	tests := []struct {
		name   string
		client db.RedisClient
	}{
		{"MockRedisClient", db.NewMockRedisClient(context.Background())},
		// Replace with a real Redis client configuration for integration testing
		// {"GeoRedisClient", db.NewGeoRedisClient(context.Background(), realRedisClient)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			key := "test-key"
			value := "test-value"

			// Act
			err := test.client.Set(key, value)
			if err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			retrieved, err := test.client.Get(key)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}

			// Assert
			if retrieved != value {
				t.Errorf("Expected %s, got %s", value, retrieved)
			}
		})
	}
}

func TestMockRedisClient_GetLocationsWithinRadius(t *testing.T) {
	client := db.NewMockRedisClient(context.Background())
	ctx := context.Background()

	// Green Park, Oxford Circus (~1km away) and Stratford (~11km away)
	stations := []struct {
		id       string
		lat, lon float64
	}{
		{"oxford-circus", 51.5152, -0.1418},
		{"green-park", 51.5067, -0.1428},
		{"stratford", 51.5416, -0.0042},
	}
	for _, s := range stations {
		err := client.AddLocationWithJSON(ctx, "stations", s.id, s.lat, s.lon, map[string]string{"id": s.id})
		require.NoError(t, err)
	}

	results, err := client.GetLocationsWithinRadius("stations", 51.5067, -0.1428, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	var nearest map[string]string
	require.NoError(t, json.Unmarshal([]byte(results[0]), &nearest))
	assert.Equal(t, "green-park", nearest["id"])

	results, err = client.GetLocationsWithinRadius("stations", 51.5067, -0.1428, 20)
	require.NoError(t, err)
	assert.Len(t, results, 3)

	results, err = client.GetLocationsWithinRadius("missing", 51.5067, -0.1428, 20)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMockRedisClient_KeysAndDel(t *testing.T) {
	client := db.NewMockRedisClient(context.Background())
	require.NoError(t, client.Set("stations_geo_place_v1:1", "{}"))
	require.NoError(t, client.Set("stations_geo_place_v1:2", "{}"))
	require.NoError(t, client.Set("other", "{}"))

	keys, err := client.Keys("stations_geo_place_v1:*")
	require.NoError(t, err)
	assert.Equal(t, []string{"stations_geo_place_v1:1", "stations_geo_place_v1:2"}, keys)

	require.NoError(t, client.Del("stations_geo_place_v1:1"))
	keys, _ = client.Keys("stations_geo_place_v1:*")
	assert.Equal(t, []string{"stations_geo_place_v1:2"}, keys)

	_, err = client.Get("stations_geo_place_v1:1")
	assert.Error(t, err)
}

// Test Ping
func TestRedisClient_Ping(t *testing.T) {
	tests := []struct {
		name   string
		client db.RedisClient
	}{
		{"MockRedisClient", db.NewMockRedisClient(context.Background())},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Act
			err := test.client.Ping()

			// Assert
			if err != nil {
				t.Errorf("Ping failed: %v", err)
			}
		})
	}
}
