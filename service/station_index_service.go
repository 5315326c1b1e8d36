package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"tube-twin/dao/redis"
	"tube-twin/models"
)

// StationIndexService keeps the Redis geo index in line with the loaded map
// stations and answers nearby lookups from it.
type StationIndexService struct {
	stationDao *redis.RedisStationDAO
	stations   []models.Station
}

func NewStationIndexService(stationDao *redis.RedisStationDAO, stations []models.Station) *StationIndexService {
	return &StationIndexService{
		stationDao: stationDao,
		stations:   stations,
	}
}

// IndexStations upserts every station and drops members that are no longer
// in the dataset.
func (si *StationIndexService) IndexStations() error {
	if len(si.stations) == 0 {
		log.Info().Msg("[StationIndexService] No map stations loaded, skipping index")
		return nil
	}

	wanted := make(map[string]struct{}, len(si.stations))
	failed := 0
	for _, s := range si.stations {
		wanted[s.ID] = struct{}{}
		if err := si.stationDao.UpsertStation(s); err != nil {
			log.Error().Err(err).Str("station", s.ID).Msg("[StationIndexService] Failed to upsert station")
			failed++
		}
	}

	ids, err := si.stationDao.ListAllStationIDs()
	if err != nil {
		return fmt.Errorf("listing indexed stations: %w", err)
	}
	removed := 0
	for _, id := range ids {
		if _, ok := wanted[id]; ok {
			continue
		}
		if err := si.stationDao.DeleteStation(id); err != nil {
			log.Error().Err(err).Str("station", id).Msg("[StationIndexService] Failed to delete stale station")
			continue
		}
		removed++
	}

	log.Info().
		Int("indexed", len(si.stations)-failed).
		Int("failed", failed).
		Int("removed", removed).
		Msg("[StationIndexService] Station index refreshed")
	if failed > 0 {
		return fmt.Errorf("%d of %d stations failed to index", failed, len(si.stations))
	}
	return nil
}

// StartPeriodicJob re-indexes on every tick until ctx is done, which restores
// the index after a Redis restart.
func (si *StationIndexService) StartPeriodicJob(ctx context.Context, interval time.Duration) {
	go si.startPeriodicJob(ctx, interval)
}

func (si *StationIndexService) startPeriodicJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Debug().Msg("[StationIndexService] Running periodic station index job.")
			if err := si.IndexStations(); err != nil {
				log.Error().Err(err).Msg("[StationIndexService] IndexStations returned error")
			}
		}
	}
}

func (si *StationIndexService) GetStationsNearby(lat, lon, radiusKm float64) ([]models.Station, error) {
	return si.stationDao.GetNearbyStations(lat, lon, radiusKm)
}
