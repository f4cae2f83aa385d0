package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Service holds service-level settings
type Service struct {
	Environment string `envconfig:"SERVICE_ENVIRONMENT" required:"true"`
	APIPort     string `envconfig:"SERVICE_API_PORT" default:"8080"`
	Host        string `envconfig:"SERVICE_HOST" default:"localhost:8080"`
}

// ClickHouse holds event store connection settings
type ClickHouse struct {
	Host            string `envconfig:"CLICKHOUSE_HOST" required:"true"`
	Port            string `envconfig:"CLICKHOUSE_PORT" required:"true"`
	Database        string `envconfig:"CLICKHOUSE_DB" required:"true"`
	User            string `envconfig:"CLICKHOUSE_USER" default:""`
	Password        string `envconfig:"CLICKHOUSE_PASSWORD" default:""`
	UseTLS          bool   `envconfig:"CLICKHOUSE_USE_TLS" default:"false"`
	MaxOpenConns    int    `envconfig:"CLICKHOUSE_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int    `envconfig:"CLICKHOUSE_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime int    `envconfig:"CLICKHOUSE_CONN_MAX_LIFETIME_SEC" default:"3600"`
}

// Postgres holds metadata store connection settings
type Postgres struct {
	DSN string `envconfig:"POSTGRES_DSN" required:"true"`
}

// Cache holds per-query-type result cache TTLs in seconds
type Cache struct {
	FunnelStatsTTLSec  int `envconfig:"CACHE_FUNNEL_STATS_TTL_SEC" default:"300"`
	JourneyGraphTTLSec int `envconfig:"CACHE_JOURNEY_GRAPH_TTL_SEC" default:"300"`
	TopPagesTTLSec     int `envconfig:"CACHE_TOP_PAGES_TTL_SEC" default:"120"`
	LiveVisitorsTTLSec int `envconfig:"CACHE_LIVE_VISITORS_TTL_SEC" default:"10"`
}

// Sweeper holds staleness sweep settings
type Sweeper struct {
	IntervalSec     int    `envconfig:"SWEEPER_INTERVAL_SEC" default:"60"`
	HealthCheckPort string `envconfig:"SWEEPER_HEALTH_CHECK_PORT" default:"8081"`
	ProjectIDs      string `envconfig:"SWEEPER_PROJECT_IDS" required:"true"`
}

type Config struct {
	Service    Service
	ClickHouse ClickHouse
	Postgres   Postgres
	Cache      Cache
	Sweeper    Sweeper
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
