package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tube-twin/config"
	"tube-twin/forecast"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func testConfig(t *testing.T) config.Config {
	dir := t.TempDir()
	return config.Config{
		Env:             config.ENV_DEVELOPMENT,
		Port:            "0",
		CountsPath:      writeFile(t, dir, "counts.csv", "Month-Year,NLC,Count of Taps\n2021-01,500,10\n2021-02,500,12\n"),
		CodesPath:       writeFile(t, dir, "codes.csv", "Station,NLC\nGreen Park,500\n"),
		StationsPath:    writeFile(t, dir, "stations.csv", "id,latitude,longitude,name,zone\n1,51.5067,-0.1428,Green Park,1\n"),
		ConnectionsPath: "",
		OffsetMode:      "legacy",
		SearchWorkers:   4,
		MaxHorizon:      24,
	}
}

func TestForecastOptions(t *testing.T) {
	opts, err := ForecastOptions(testConfig(t))
	require.NoError(t, err)
	assert.Equal(t, forecast.OffsetLegacy, opts.OffsetMode)
	assert.Equal(t, 4, opts.Search.Workers)
	assert.Equal(t, 24, opts.MaxHorizon)

	cfg := testConfig(t)
	cfg.OffsetMode = "fiscal"
	_, err = ForecastOptions(cfg)
	assert.Error(t, err)
}

func TestNewContainer_Development(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer c.Close()

	assert.Len(t, c.Dataset.Counts, 2)
	assert.NotNil(t, c.TubeTwinHttpServer)
	require.NoError(t, c.StationIndexService.IndexStations())

	ids, err := c.RedisStationDao.ListAllStationIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids)
}

func TestNewCore_MissingFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.CountsPath = filepath.Join(t.TempDir(), "missing.csv")

	_, err := NewCore(context.Background(), cfg)
	assert.Error(t, err)
}
