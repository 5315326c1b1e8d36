package redis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"tube-twin/db"
	"tube-twin/models"
)

const STATIONS_GEO_KEY_V1 = "stations_geo_v1"
const STATIONS_GEO_PLACE_MEMBER_FORMAT_V1 = "stations_geo_place_v1:%s"

// RedisStationDAO keeps the map stations in a Redis geo index.
type RedisStationDAO struct {
	client db.RedisClient
}

func NewRedisStationDAO(client db.RedisClient) *RedisStationDAO {
	return &RedisStationDAO{client: client}
}

// UpsertStation stores the station as a geolocation with the station's JSON data.
func (dao *RedisStationDAO) UpsertStation(s models.Station) error {
	ctx := dao.client.GetContext()
	key := fmt.Sprintf(STATIONS_GEO_PLACE_MEMBER_FORMAT_V1, s.ID)
	return dao.client.AddLocationWithJSON(ctx, STATIONS_GEO_KEY_V1, key, s.Latitude, s.Longitude, s)
}

// GetNearbyStations returns the stations within radiusKm, nearest first.
func (dao *RedisStationDAO) GetNearbyStations(lat, lon, radiusKm float64) ([]models.Station, error) {
	stationsJSON, err := dao.client.GetLocationsWithinRadius(STATIONS_GEO_KEY_V1, lat, lon, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("[RedisStationDAO] failed to get stations: %w", err)
	}

	stations := make([]models.Station, len(stationsJSON))
	for i, stationJSON := range stationsJSON {
		if err := json.Unmarshal([]byte(stationJSON), &stations[i]); err != nil {
			return nil, fmt.Errorf("failed to unmarshal station JSON: %w", err)
		}
	}
	log.Debug().Int("stations", len(stations)).Float64("radius_km", radiusKm).Msg("[RedisStationDAO] Nearby stations")
	return stations, nil
}

// ListAllStationIDs returns all station IDs present in the geo index.
func (dao *RedisStationDAO) ListAllStationIDs() ([]string, error) {
	pattern := fmt.Sprintf(STATIONS_GEO_PLACE_MEMBER_FORMAT_V1, "*")
	keys, err := dao.client.Keys(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list station geo keys: %w", err)
	}
	ids := make([]string, 0, len(keys))
	prefix := fmt.Sprintf(STATIONS_GEO_PLACE_MEMBER_FORMAT_V1, "")
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, prefix))
	}
	return ids, nil
}

func (dao *RedisStationDAO) DeleteStation(id string) error {
	key := fmt.Sprintf(STATIONS_GEO_PLACE_MEMBER_FORMAT_V1, id)
	if err := dao.client.Del(key); err != nil {
		return fmt.Errorf("failed to delete station key %s: %w", key, err)
	}
	log.Info().Str("station", id).Msg("[RedisStationDAO] Deleted station")
	return nil
}
