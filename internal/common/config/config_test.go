// internal/common/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_DefaultsAndExpansion(t *testing.T) {
	t.Setenv("TEST_PG_PASSWORD", "s3cret")
	path := writeConfig(t, `
app:
  name: survey-workers
camunda:
  enabled: true
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: surveys
    user: app
    password: ${TEST_PG_PASSWORD}
workers:
  route-record:
    enabled: true
  extract-chart:
    enabled: false
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, BackendPostgres, cfg.Storage.Backend)
	assert.Equal(t, QueueMemory, cfg.AutoSave.Queue)
	assert.Equal(t, "autosave:jobs", cfg.AutoSave.QueueKey)
	assert.Equal(t, 2, cfg.AutoSave.Workers)
	assert.Equal(t, 8080, cfg.Metrics.Port)
	assert.Equal(t, "json", cfg.Logging.Format)

	rr := GetWorkerConfig(cfg, "route-record")
	assert.Equal(t, 5, rr.MaxJobsActive)
	assert.Equal(t, 30000, rr.Timeout)
	assert.True(t, IsWorkerEnabled(cfg, "route-record"))
	assert.False(t, IsWorkerEnabled(cfg, "extract-chart"))
	assert.True(t, IsWorkerEnabled(cfg, "extract-survey"))
	assert.Contains(t, cfg.Database.Postgres.GetDSN(), "dbname=surveys")
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "camunda without broker",
			body:    "camunda:\n  enabled: true\nstorage:\n  backend: memory\n",
			wantErr: "camunda.broker_address",
		},
		{
			name:    "postgres without host",
			body:    "storage:\n  backend: postgres\n",
			wantErr: "database.postgres.host",
		},
		{
			name:    "elasticsearch without url",
			body:    "storage:\n  backend: elasticsearch\n",
			wantErr: "database.elasticsearch",
		},
		{
			name:    "unknown backend",
			body:    "storage:\n  backend: mongo\n",
			wantErr: "not supported",
		},
		{
			name:    "redis queue without address",
			body:    "storage:\n  backend: memory\nautosave:\n  queue: redis\n",
			wantErr: "database.redis.address",
		},
		{
			name:    "bad sample ratio",
			body:    "storage:\n  backend: memory\nmetrics:\n  trace_sample_ratio: 2\n",
			wantErr: "trace_sample_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_ElasticsearchAddressFallback(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, `
storage:
  backend: elasticsearch
  index_prefix: survey-
database:
  elasticsearch:
    addresses: ["http://es-1:9200", "http://es-2:9200"]
`))
	require.NoError(t, err)
	assert.Equal(t, "http://es-1:9200", cfg.Database.Elasticsearch.GetURL())
	assert.Equal(t, "survey-", cfg.Storage.IndexPrefix)
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
